// Package mocks provides in-memory implementations of the core ports for
// testing: seeded storage, call tracking and error injection.
package mocks

import (
	"context"
	"sync"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

type MockPrincipalRepository struct {
	mu sync.RWMutex

	byID    map[string]*domain.Principal
	byEmail map[string]*domain.Principal
	// teacherSubs maps teacher email to assigned sub-programs.
	teacherSubs map[string][]string

	FindByIDCalls   []string
	UpdateRoleCalls []struct {
		ID   string
		Role domain.Role
	}

	FindByIDError           error
	FindByEmailError        error
	UpdateRoleError         error
	TeacherSubProgramsError error
}

var _ ports.PrincipalRepository = (*MockPrincipalRepository)(nil)

func NewMockPrincipalRepository() *MockPrincipalRepository {
	return &MockPrincipalRepository{
		byID:        make(map[string]*domain.Principal),
		byEmail:     make(map[string]*domain.Principal),
		teacherSubs: make(map[string][]string),
	}
}

func (m *MockPrincipalRepository) SeedPrincipal(p domain.Principal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := p
	m.byID[p.ID] = &cp
	m.byEmail[p.Email] = &cp
}

func (m *MockPrincipalRepository) SeedTeacherSubPrograms(email string, subs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teacherSubs[email] = subs
}

func (m *MockPrincipalRepository) FindByID(ctx context.Context, id string) (*domain.Principal, error) {
	m.mu.Lock()
	m.FindByIDCalls = append(m.FindByIDCalls, id)
	m.mu.Unlock()

	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPrincipalRepository) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	if m.FindByEmailError != nil {
		return nil, m.FindByEmailError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPrincipalRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateRoleCalls = append(m.UpdateRoleCalls, struct {
		ID   string
		Role domain.Role
	}{id, role})

	if m.UpdateRoleError != nil {
		return m.UpdateRoleError
	}
	p, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Role = role
	return nil
}

func (m *MockPrincipalRepository) TeacherSubPrograms(ctx context.Context, email string) ([]string, error) {
	if m.TeacherSubProgramsError != nil {
		return nil, m.TeacherSubProgramsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.teacherSubs[email], nil
}

// RoleOf reports the stored role for assertions.
func (m *MockPrincipalRepository) RoleOf(id string) domain.Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.byID[id]; ok {
		return p.Role
	}
	return domain.RoleNone
}

type PromoteCall struct {
	PendingID string
	Member    domain.Member
	EventType string
	Payload   []byte
}

type MockMemberRepository struct {
	mu sync.RWMutex

	pending map[string]*domain.PendingMember
	members map[string]*domain.Member

	PromoteCalls []PromoteCall
	CreateCalls  []domain.Member
	DeleteCalls  []string

	FindPendingError    error
	PromotePendingError error
	CreateError         error
	UpdateError         error
	DeleteError         error
	ListError           error
}

var _ ports.MemberRepository = (*MockMemberRepository)(nil)

func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{
		pending: make(map[string]*domain.PendingMember),
		members: make(map[string]*domain.Member),
	}
}

func (m *MockMemberRepository) SeedPending(p domain.PendingMember) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := p
	m.pending[p.ID] = &cp
}

func (m *MockMemberRepository) SeedMember(mem domain.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := mem
	m.members[mem.ID] = &cp
}

func (m *MockMemberRepository) HasPending(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.pending[id]
	return ok
}

func (m *MockMemberRepository) MemberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.members)
}

func (m *MockMemberRepository) FindPending(ctx context.Context, id string) (*domain.PendingMember, error) {
	if m.FindPendingError != nil {
		return nil, m.FindPendingError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pending[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockMemberRepository) ListPending(ctx context.Context) ([]domain.PendingMember, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.PendingMember
	for _, p := range m.pending {
		out = append(out, *p)
	}
	return out, nil
}

func (m *MockMemberRepository) PromotePending(ctx context.Context, pendingID string, mem domain.Member, eventType string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PromoteCalls = append(m.PromoteCalls, PromoteCall{pendingID, mem, eventType, payload})

	if m.PromotePendingError != nil {
		return m.PromotePendingError
	}
	if _, ok := m.pending[pendingID]; !ok {
		return nil
	}
	delete(m.pending, pendingID)
	cp := mem
	m.members[mem.ID] = &cp
	return nil
}

func (m *MockMemberRepository) Create(ctx context.Context, mem domain.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, mem)
	if m.CreateError != nil {
		return m.CreateError
	}
	cp := mem
	m.members[mem.ID] = &cp
	return nil
}

func (m *MockMemberRepository) Update(ctx context.Context, mem domain.Member) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[mem.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := mem
	m.members[mem.ID] = &cp
	return nil
}

func (m *MockMemberRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.members[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.members, id)
	return nil
}

func (m *MockMemberRepository) ListBySubProgram(ctx context.Context, subProgram string) ([]domain.Member, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Member
	for _, mem := range m.members {
		if mem.SubProgram == subProgram {
			out = append(out, *mem)
		}
	}
	return out, nil
}

// MockPendingWatcher replays a fixed sequence of pending row ids and then
// closes the feed.
type MockPendingWatcher struct {
	IDs        []string
	WatchError error
}

var _ ports.PendingWatcher = (*MockPendingWatcher)(nil)

func (m *MockPendingWatcher) Watch(ctx context.Context) (<-chan string, error) {
	if m.WatchError != nil {
		return nil, m.WatchError
	}
	out := make(chan string)
	go func() {
		defer close(out)
		for _, id := range m.IDs {
			select {
			case out <- id:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
