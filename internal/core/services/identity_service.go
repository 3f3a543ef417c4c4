package services

import (
	"context"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sony/gobreaker"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
	"github.com/hanbit-center/attendance-service/internal/metrics"
)

const (
	tokenTTL = 24 * time.Hour

	// resolveTimeout bounds the initial profile lookup; expiry degrades the
	// identity instead of failing the session (see Resolve).
	resolveTimeout = 3 * time.Second
	reconcileDelay = 10 * time.Second
)

// IdentityService maps an authenticated principal to a role and, for
// teachers, to the set of assigned sub-programs.
type IdentityService struct {
	principals ports.PrincipalRepository
	sessions   ports.SessionStore
	privateKey *rsa.PrivateKey
	cb         *gobreaker.CircuitBreaker

	reconcileDelay time.Duration

	mu         sync.Mutex
	reconciles map[string]bool
	// onReconcile is invoked after the scheduled retry completes. Tests
	// hook it; production leaves it nil.
	onReconcile func(id string, err error)
}

var _ ports.IdentityService = (*IdentityService)(nil)

func NewIdentityService(
	principals ports.PrincipalRepository,
	sessions ports.SessionStore,
	privateKey *rsa.PrivateKey,
	cb *gobreaker.CircuitBreaker,
) *IdentityService {
	return &IdentityService{
		principals:     principals,
		sessions:       sessions,
		privateKey:     privateKey,
		cb:             cb,
		reconcileDelay: reconcileDelay,
		reconciles:     make(map[string]bool),
	}
}

// Login matches the stored access code and mints a session JWT carrying the
// principal's id, email and role.
func (s *IdentityService) Login(ctx context.Context, email, accessCode string) (string, error) {
	p, err := s.principals.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrForbidden
		}
		return "", err
	}
	if subtle.ConstantTimeCompare([]byte(p.AccessCode), []byte(accessCode)) != 1 {
		return "", domain.ErrForbidden
	}

	claims := jwt.MapClaims{
		"sub":   p.ID,
		"email": p.Email,
		"role":  string(p.Role),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", err
	}

	if err := s.sessions.PublishAuthEvent(ctx, domain.AuthEvent{
		PrincipalID: p.ID,
		Kind:        "signed-in",
		At:          time.Now(),
	}); err != nil {
		log.Printf("identity: failed to publish sign-in event for %s: %v", p.ID, err)
	}
	return token, nil
}

// Resolve returns the principal's identity. A missing profile resolves to
// RoleNone. When the store is unreachable within the lookup timeout the
// identity degrades to least privilege (RolePending, no sub-programs,
// Degraded set) and one reconciling retry is scheduled. Never degrade to an
// elevated role here: a lookup failure must not grant access.
func (s *IdentityService) Resolve(ctx context.Context, principalID string) (*domain.Identity, error) {
	lctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	res, err := s.cb.Execute(func() (interface{}, error) {
		p, err := s.principals.FindByID(lctx, principalID)
		if errors.Is(err, domain.ErrNotFound) {
			// Absence is a normal outcome, not a store failure; it must
			// not count against the breaker.
			return (*domain.Principal)(nil), nil
		}
		return p, err
	})
	if err != nil {
		log.Printf("identity: profile lookup for %s failed, degrading to least privilege: %v", principalID, err)
		metrics.DegradedResolutions.Inc()
		s.scheduleReconcile(principalID)
		return &domain.Identity{ID: principalID, Role: domain.RolePending, Degraded: true}, nil
	}

	p := res.(*domain.Principal)
	if p == nil {
		return &domain.Identity{ID: principalID, Role: domain.RoleNone}, nil
	}
	identity := &domain.Identity{ID: p.ID, Email: p.Email, Role: p.Role}
	if p.Role == domain.RoleTeacher {
		subs, err := s.principals.TeacherSubPrograms(ctx, p.Email)
		if err != nil {
			return nil, err
		}
		identity.SubPrograms = subs
	}
	return identity, nil
}

// scheduleReconcile probes the store once per degraded principal after a
// fixed delay. The retry is observational: resolution is stateless, so the
// session itself converges when the client next calls /me; the probe only
// reports whether the store has recovered.
func (s *IdentityService) scheduleReconcile(principalID string) {
	s.mu.Lock()
	if s.reconciles[principalID] {
		s.mu.Unlock()
		return
	}
	s.reconciles[principalID] = true
	s.mu.Unlock()

	time.AfterFunc(s.reconcileDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()
		_, err := s.principals.FindByID(ctx, principalID)
		if err != nil {
			log.Printf("identity: reconcile for %s still failing: %v", principalID, err)
		} else {
			log.Printf("identity: profile for %s reachable again", principalID)
		}
		s.mu.Lock()
		delete(s.reconciles, principalID)
		onDone := s.onReconcile
		s.mu.Unlock()
		if onDone != nil {
			onDone(principalID, err)
		}
	})
}

// SignOut revokes the token for the remainder of its lifetime.
func (s *IdentityService) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.BlacklistToken(ctx, HashToken(token), tokenTTL); err != nil {
		return err
	}
	if err := s.sessions.PublishAuthEvent(ctx, domain.AuthEvent{
		Kind: "signed-out",
		At:   time.Now(),
	}); err != nil {
		log.Printf("identity: failed to publish sign-out event: %v", err)
	}
	return nil
}

// Watch subscribes to auth-state changes. The subscription is torn down
// when ctx is cancelled.
func (s *IdentityService) Watch(ctx context.Context) (<-chan domain.AuthEvent, error) {
	return s.sessions.SubscribeAuthEvents(ctx)
}

// HashToken is the canonical token fingerprint used for blacklisting.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
