package domain

import "time"

// Principal is an authenticated identity with an assigned role.
type Principal struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	AccessCode string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// Identity is the resolved view of a principal for one session: the role
// plus, for teachers, the sub-programs they may operate on. Degraded marks
// an identity produced while the backend was unreachable; such identities
// carry least privilege and a warning must be surfaced to the user.
type Identity struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Role        Role     `json:"role"`
	SubPrograms []string `json:"sub_programs,omitempty"`
	Degraded    bool     `json:"degraded,omitempty"`
}

// AuthEvent is delivered on the auth-state subscription when a session is
// established or torn down.
type AuthEvent struct {
	PrincipalID string    `json:"principal_id"`
	Kind        string    `json:"kind"` // "signed-in" or "signed-out"
	At          time.Time `json:"at"`
}
