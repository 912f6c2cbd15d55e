package domain

import "time"

// Role enumerates account roles.
type Role string

const (
	RolePresenter    Role = "PRESENTER"
	RoleDeskOperator Role = "DESK_OPERATOR"
	RoleOwner        Role = "OWNER"
	RoleAdmin        Role = "ADMIN"
)

// StaffRoles lists the roles that can appear on an event roster.
var StaffRoles = []Role{RolePresenter, RoleDeskOperator}

// IsStaffRole reports whether the role is a roster role.
func IsStaffRole(role Role) bool {
	return role == RolePresenter || role == RoleDeskOperator
}

// User is the account model for owners, admins and roster staff.
// Staff members are never hard-deleted when detached from an event;
// only the assignment edge is removed.
type User struct {
	ID              string
	Username        string
	PasswordHash    string
	Phone           *string
	Role            Role
	CreatedBy       *string
	SentCredentials bool
	ExpiresAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
