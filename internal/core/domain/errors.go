package domain

import "errors"

var (
	// ErrNotFound is returned when a document does not exist. Callers that
	// treat absence as a normal condition must check for it explicitly.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the acting principal lacks the role a
	// transition requires. The check is advisory; the store's own access
	// rules are the trust boundary.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition is returned for role changes the transition
	// table does not permit.
	ErrInvalidTransition = errors.New("invalid role transition")

	// ErrUnknownRole is returned by ParseRole for values outside the
	// closed role set.
	ErrUnknownRole = errors.New("unknown role")

	// ErrStructureMissing is returned when a sub-program has no row in the
	// structure directory. Attendance for such a sub-program must be
	// refused before any write.
	ErrStructureMissing = errors.New("sub-program not in structure directory")
)
