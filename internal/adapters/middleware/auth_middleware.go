package middleware

import (
	"context"
	"crypto/rsa"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
	"github.com/hanbit-center/attendance-service/internal/core/services"
)

// AuthMiddleware verifies the session JWT and gates handlers by role. The
// role check here only hides affordances from the client; the store's
// access rules are the real enforcement point.
type AuthMiddleware struct {
	publicKey *rsa.PublicKey
	sessions  ports.SessionStore
}

func NewAuthMiddleware(publicKey *rsa.PublicKey, sessions ports.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
		sessions:  sessions,
	}
}

type contextKey string

const (
	PrincipalIDKey contextKey = "principalID"
	EmailKey       contextKey = "email"
	RoleKey        contextKey = "role"
	TokenKey       contextKey = "token"
)

// Principal reconstructs the session identity from request context values.
func Principal(ctx context.Context) domain.Identity {
	id, _ := ctx.Value(PrincipalIDKey).(string)
	email, _ := ctx.Value(EmailKey).(string)
	role, _ := ctx.Value(RoleKey).(domain.Role)
	return domain.Identity{ID: id, Email: email, Role: role}
}

func (m *AuthMiddleware) RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}
		tokenString := parts[1]

		if m.sessions != nil {
			revoked, err := m.sessions.IsBlacklisted(r.Context(), services.HashToken(tokenString))
			if err != nil {
				log.Printf("auth: blacklist check failed: %v", err)
			} else if revoked {
				http.Error(w, "token revoked", http.StatusUnauthorized)
				return
			}
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.publicKey, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		principalID, ok := claims["sub"].(string)
		if !ok || principalID == "" {
			http.Error(w, "invalid token: missing principal ID", http.StatusUnauthorized)
			return
		}

		rawRole, _ := claims["role"].(string)
		role, err := domain.ParseRole(rawRole)
		if err != nil {
			log.Printf("auth: rejecting unknown role %q for %s", rawRole, principalID)
			http.Error(w, "invalid token: unknown role", http.StatusUnauthorized)
			return
		}
		email, _ := claims["email"].(string)

		allowed := false
		for _, r := range roles {
			if role == r {
				allowed = true
				break
			}
		}
		if !allowed {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalIDKey, principalID)
		ctx = context.WithValue(ctx, EmailKey, email)
		ctx = context.WithValue(ctx, RoleKey, role)
		ctx = context.WithValue(ctx, TokenKey, tokenString)

		next(w, r.WithContext(ctx))
	}
}
