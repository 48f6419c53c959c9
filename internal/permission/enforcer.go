package permission

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	ResourceCompany    = "company"
	ResourceDepartment = "department"
	ResourceEmployee   = "employee"
	ResourceVacation   = "vacation"

	ActionRead    = "read"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionInvite  = "invite"
	ActionManage  = "manage"
	ActionRequest = "request"
	ActionReview  = "review"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

type threshold struct {
	resource string
	action   string
	min      Role
}

var thresholds = []threshold{
	{ResourceCompany, ActionRead, RoleVisitor},
	{ResourceCompany, ActionUpdate, RoleOwner},
	{ResourceCompany, ActionDelete, RoleOwner},
	{ResourceCompany, ActionInvite, RoleEditor},
	{ResourceDepartment, ActionRead, RoleVisitor},
	{ResourceDepartment, ActionManage, RoleEditor},
	{ResourceEmployee, ActionRead, RoleVisitor},
	{ResourceEmployee, ActionManage, RoleEditor},
	{ResourceVacation, ActionRequest, RoleVisitor},
	{ResourceVacation, ActionReview, RoleManager},
}

// Threshold returns the minimum role for resource:action.
func Threshold(resource, action string) (Role, bool) {
	for _, t := range thresholds {
		if t.resource == resource && t.action == action {
			return t.min, true
		}
	}
	return RoleNone, false
}

//go:generate mockgen -source=enforcer.go -destination=mock/enforcer_mock.go -package=mock
type Enforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
}

// NewEnforcer builds the casbin enforcer holding every threshold.
// Higher roles inherit lower ones, so a policy on "visitor" also admits owners.
// The policy is fixed at startup and never mutated afterwards.
func NewEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("permission: parse casbin model: %w", err)
	}

	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("permission: create enforcer: %w", err)
	}

	inheritance := [][]string{
		{RoleOwner.String(), RoleEditor.String()},
		{RoleEditor.String(), RoleManager.String()},
		{RoleManager.String(), RoleVisitor.String()},
	}
	if _, err := e.AddGroupingPolicies(inheritance); err != nil {
		return nil, fmt.Errorf("permission: add role inheritance: %w", err)
	}

	policies := make([][]string, 0, len(thresholds))
	for _, t := range thresholds {
		policies = append(policies, []string{t.min.String(), t.resource, t.action})
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, fmt.Errorf("permission: add policies: %w", err)
	}

	return e, nil
}
