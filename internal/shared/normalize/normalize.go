package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// Key folds s for case-insensitive uniqueness checks (names, emails).
func Key(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
