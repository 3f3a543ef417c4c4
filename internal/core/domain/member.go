package domain

import "time"

// PendingStatus is the lifecycle field of a self-submitted registration.
// The values are the localized strings the store has always carried.
type PendingStatus string

const (
	PendingAwaiting PendingStatus = "대기"
	PendingApproved PendingStatus = "승인"
)

// PendingMember is a self-submitted registration awaiting promotion. It
// exists only while its status is awaiting; approval deletes it and creates
// a Member in the same transaction.
type PendingMember struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Gender      string        `json:"gender"`
	Contact     string        `json:"contact"`
	Address     string        `json:"address"`
	IncomeClass string        `json:"income_class"`
	Disabled    bool          `json:"disabled"`
	SubProgram  string        `json:"sub_program"`
	Status      PendingStatus `json:"status"`
	SubmittedAt time.Time     `json:"submitted_at"`
}

// Member is an operational participant. MembershipID is generated at
// promotion or direct administrative entry and never reused.
type Member struct {
	ID           string    `json:"id"`
	MembershipID string    `json:"membership_id"`
	Name         string    `json:"name"`
	Gender       string    `json:"gender"`
	Contact      string    `json:"contact"`
	Address      string    `json:"address"`
	IncomeClass  string    `json:"income_class"`
	Disabled     bool      `json:"disabled"`
	SubProgram   string    `json:"sub_program"`
	Team         string    `json:"team"`
	Unit         string    `json:"unit"`
	Function     string    `json:"function"`
	Status       string    `json:"status"`
	ApprovedAt   string    `json:"approved_at"` // YYYY-MM-DD
	CreatedAt    time.Time `json:"created_at"`
}
