// Package access decides whether an authenticated caller may perform an action
// on a resource owned by some user.
package access

// Role is the role carried in the caller's token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a role the service knows about.
func (r Role) Valid() bool {
	_, ok := policy[r]
	return ok
}

type Action string

const (
	ActionDashboardView Action = "dashboard-view"
	ActionUpload        Action = "upload"
	ActionListHistory   Action = "list-history"
	ActionViewDataset   Action = "view-dataset"
	ActionProject       Action = "project"
	ActionDelete        Action = "delete"
)

type Decision bool

const (
	Allowed Decision = true
	Denied  Decision = false
)

// Caller is an already-authenticated identity.
type Caller struct {
	UserID uint
	Role   Role
}

type scope uint8

const (
	scopeOwn scope = iota + 1
	scopeAny
)

// Admins see the dashboard of anyone, but history, datasets, projections and
// deletes stay scoped to their own uploads.
var policy = map[Role]map[Action]scope{
	RoleUser: {
		ActionDashboardView: scopeOwn,
		ActionUpload:        scopeOwn,
		ActionListHistory:   scopeOwn,
		ActionViewDataset:   scopeOwn,
		ActionProject:       scopeOwn,
		ActionDelete:        scopeOwn,
	},
	RoleAdmin: {
		ActionDashboardView: scopeAny,
		ActionUpload:        scopeOwn,
		ActionListHistory:   scopeOwn,
		ActionViewDataset:   scopeOwn,
		ActionProject:       scopeOwn,
		ActionDelete:        scopeOwn,
	},
}

// Authorize evaluates the policy table for caller acting on a resource owned by resourceOwner.
func Authorize(caller Caller, action Action, resourceOwner uint) Decision {
	if caller.UserID == 0 {
		return Denied
	}
	actions, ok := policy[caller.Role]
	if !ok {
		return Denied
	}
	switch actions[action] {
	case scopeAny:
		return Allowed
	case scopeOwn:
		return Decision(resourceOwner == caller.UserID)
	default:
		return Denied
	}
}
