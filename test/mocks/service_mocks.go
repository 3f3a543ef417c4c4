package mocks

import (
	"context"
	"sync"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

// MockIdentityService resolves identities from a seeded map so handler
// tests can exercise role scoping without the JWT and breaker plumbing.
type MockIdentityService struct {
	mu         sync.RWMutex
	identities map[string]domain.Identity

	Token        string
	LoginError   error
	ResolveError error
	SignOutError error

	SignedOut []string
}

var _ ports.IdentityService = (*MockIdentityService)(nil)

func NewMockIdentityService() *MockIdentityService {
	return &MockIdentityService{identities: make(map[string]domain.Identity)}
}

func (m *MockIdentityService) Seed(identity domain.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identities[identity.ID] = identity
}

func (m *MockIdentityService) Login(ctx context.Context, email, accessCode string) (string, error) {
	if m.LoginError != nil {
		return "", m.LoginError
	}
	return m.Token, nil
}

func (m *MockIdentityService) Resolve(ctx context.Context, principalID string) (*domain.Identity, error) {
	if m.ResolveError != nil {
		return nil, m.ResolveError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if identity, ok := m.identities[principalID]; ok {
		return &identity, nil
	}
	return &domain.Identity{ID: principalID, Role: domain.RoleNone}, nil
}

func (m *MockIdentityService) SignOut(ctx context.Context, token string) error {
	if m.SignOutError != nil {
		return m.SignOutError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignedOut = append(m.SignedOut, token)
	return nil
}

func (m *MockIdentityService) Watch(ctx context.Context) (<-chan domain.AuthEvent, error) {
	ch := make(chan domain.AuthEvent)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}
