package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

type MockSessionStore struct {
	mu sync.RWMutex

	blacklist map[string]bool
	events    []domain.AuthEvent

	BlacklistError error
	PublishError   error
	SubscribeError error
}

var _ ports.SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{blacklist: make(map[string]bool)}
}

func (m *MockSessionStore) BlacklistToken(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if m.BlacklistError != nil {
		return m.BlacklistError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blacklist[tokenHash] = true
	return nil
}

func (m *MockSessionStore) IsBlacklisted(ctx context.Context, tokenHash string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.blacklist[tokenHash], nil
}

func (m *MockSessionStore) PublishAuthEvent(ctx context.Context, evt domain.AuthEvent) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return nil
}

func (m *MockSessionStore) SubscribeAuthEvents(ctx context.Context) (<-chan domain.AuthEvent, error) {
	if m.SubscribeError != nil {
		return nil, m.SubscribeError
	}
	ch := make(chan domain.AuthEvent)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

// Events returns a copy of the published auth events.
func (m *MockSessionStore) Events() []domain.AuthEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.AuthEvent, len(m.events))
	copy(out, m.events)
	return out
}

type MockMemberEventPublisher struct {
	mu sync.Mutex

	Published []ports.MemberApprovedEvent

	PublishError error
}

var _ ports.MemberEventPublisher = (*MockMemberEventPublisher)(nil)

func NewMockMemberEventPublisher() *MockMemberEventPublisher {
	return &MockMemberEventPublisher{}
}

func (m *MockMemberEventPublisher) PublishMemberApproved(ctx context.Context, evt ports.MemberApprovedEvent) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, evt)
	return nil
}
