package ports

import (
	"context"
)

// EventTypeMemberApproved is the outbox event type written by the promotion
// transaction and consumed by the relay.
const EventTypeMemberApproved = "member.approved"

type MemberApprovedEvent struct {
	PendingID    string `json:"pending_id"`
	MemberID     string `json:"member_id"`
	MembershipID string `json:"membership_id"`
	Name         string `json:"name"`
	SubProgram   string `json:"sub_program"`
	ApprovedAt   string `json:"approved_at"`
}

type MemberEventPublisher interface {
	PublishMemberApproved(ctx context.Context, evt MemberApprovedEvent) error
}
