package normalize_test

import (
	"testing"

	"go-vacation/internal/shared/normalize"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, normalize.Key("  Alice@Example.COM "), normalize.Key("alice@example.com"))
	assert.Equal(t, normalize.Key("Engineering"), normalize.Key("ENGINEERING"))
	assert.NotEqual(t, normalize.Key("Sales"), normalize.Key("Sales Ops"))
	assert.Equal(t, "", normalize.Key("   "))
}
