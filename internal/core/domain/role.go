package domain

// Role is the closed set of principal roles. Raw strings coming off the
// wire or out of storage must go through ParseRole so unknown values are
// rejected at the boundary instead of propagating.
type Role string

const (
	// RoleNone marks a principal with no profile document.
	RoleNone     Role = ""
	RolePending  Role = "pending"
	RoleStaff    Role = "staff"
	RoleTeacher  Role = "teacher"
	RoleAdmin    Role = "admin"
	RoleRejected Role = "rejected"
)

// ParseRole validates a raw role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleNone, RolePending, RoleStaff, RoleTeacher, RoleAdmin, RoleRejected:
		return Role(s), nil
	}
	return RoleNone, ErrUnknownRole
}

// Operational reports whether the role may act on members and attendance.
func (r Role) Operational() bool {
	return r == RoleStaff || r == RoleTeacher || r == RoleAdmin
}

// roleTransitions is the exhaustive transition table for the approval
// workflow: pending may be approved into an operational role or rejected,
// and any of those states may be cancelled back to pending.
var roleTransitions = map[Role][]Role{
	RolePending:  {RoleStaff, RoleTeacher, RoleAdmin, RoleRejected},
	RoleStaff:    {RolePending},
	RoleTeacher:  {RolePending},
	RoleAdmin:    {RolePending},
	RoleRejected: {RolePending},
}

// CanTransition reports whether the approval workflow permits from -> to.
func CanTransition(from, to Role) bool {
	for _, allowed := range roleTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
