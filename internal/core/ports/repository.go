package ports

import (
	"context"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
)

type PrincipalRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Principal, error)
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	// TeacherSubPrograms returns the sub-program names assigned to the
	// teacher with the given email.
	TeacherSubPrograms(ctx context.Context, email string) ([]string, error)
}

type MemberRepository interface {
	FindPending(ctx context.Context, id string) (*domain.PendingMember, error)
	ListPending(ctx context.Context) ([]domain.PendingMember, error)
	// PromotePending inserts the member, deletes the pending row and writes
	// the outbox event in a single transaction. Promotion is keyed by the
	// pending row's id, so a retried approval finds no row and becomes a
	// no-op upstream.
	PromotePending(ctx context.Context, pendingID string, m domain.Member, eventType string, payload []byte) error
	Create(ctx context.Context, m domain.Member) error
	Update(ctx context.Context, m domain.Member) error
	Delete(ctx context.Context, id string) error
	ListBySubProgram(ctx context.Context, subProgram string) ([]domain.Member, error)
}

// PendingWatcher is the live feed of pending-approval changes. A database
// trigger notifies with the pending row's id whenever a submission is
// inserted or changed.
type PendingWatcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

type AttendanceRepository interface {
	Upsert(ctx context.Context, rec domain.AttendanceRecord) error
	FetchByDate(ctx context.Context, date, subProgram string) ([]domain.AttendanceRecord, error)
	Stats(ctx context.Context, from, to, subProgram string) (domain.AttendanceStats, error)
}

type StructureRepository interface {
	LookupSubProgram(ctx context.Context, name string) (*domain.ProgramStructure, error)
	ListStructure(ctx context.Context) ([]domain.ProgramStructure, error)
	CreateStructure(ctx context.Context, s domain.ProgramStructure) error
	UpdateStructure(ctx context.Context, s domain.ProgramStructure) error
	DeleteStructure(ctx context.Context, subProgram string) error
	ListTeamMap(ctx context.Context) ([]domain.TeamSubProgramMap, error)
	UpsertTeamMap(ctx context.Context, m domain.TeamSubProgramMap) error
}
