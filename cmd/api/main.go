package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/hanbit-center/attendance-service/internal/adapters/cache"
	"github.com/hanbit-center/attendance-service/internal/adapters/handler"
	"github.com/hanbit-center/attendance-service/internal/adapters/middleware"
	"github.com/hanbit-center/attendance-service/internal/adapters/repository"
	"github.com/hanbit-center/attendance-service/internal/config"
	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/services"
	"github.com/hanbit-center/attendance-service/internal/metrics"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("Authenticated with Redis successfully")

	principalRepo := repository.NewPrincipalRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	structureRepo := repository.NewStructureRepository(db)
	pendingListener := repository.NewPendingListener(cfg.DatabaseURL)

	sessionStore := cache.NewRedisSessionStore(redisClient)
	structureCache := cache.NewRedisStructureCache(redisClient)

	identityService := services.NewIdentityService(
		principalRepo,
		sessionStore,
		cfg.JWTPrivateKey,
		config.NewCircuitBreaker("PostgreSQL"),
	)
	approvalService := services.NewApprovalService(principalRepo, memberRepo)
	structureService := services.NewStructureService(structureRepo, structureCache)
	attendanceService := services.NewAttendanceService(attendanceRepo, structureService)
	memberService := services.NewMemberService(memberRepo)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey, sessionStore)

	authHandler := handler.NewAuthHandler(identityService)
	approvalHandler := handler.NewApprovalHandler(approvalService, pendingListener)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, identityService)
	structureHandler := handler.NewStructureHandler(structureService)
	memberHandler := handler.NewMemberHandler(memberService, identityService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	adminOnly := []domain.Role{domain.RoleAdmin}
	operational := []domain.Role{domain.RoleAdmin, domain.RoleTeacher, domain.RoleStaff}
	anyRole := []domain.Role{domain.RoleAdmin, domain.RoleTeacher, domain.RoleStaff, domain.RolePending, domain.RoleRejected}

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/health/ready", healthHandler.Ready)
	mux.HandleFunc("/health/live", healthHandler.Live)
	mux.Handle("/metrics", metrics.Handler())

	// Session endpoints
	mux.HandleFunc("/login", authHandler.Login)
	mux.Handle("/logout", authMiddleware.RequireRole(anyRole, authHandler.Logout))
	mux.Handle("/me", authMiddleware.RequireRole(anyRole, authHandler.Me))

	// Program structure directory
	mux.Handle("/api/program-structure", methodGated(structureHandler.Collection, adminOnly, operational, authMiddleware))
	mux.Handle("/api/program-structure/", authMiddleware.RequireRole(adminOnly, structureHandler.Item))
	mux.Handle("/api/team-map", methodGated(structureHandler.TeamMap, adminOnly, []domain.Role{domain.RoleAdmin, domain.RoleStaff}, authMiddleware))
	mux.Handle("/api/team-map/reconcile", authMiddleware.RequireRole(adminOnly, structureHandler.Reconcile))

	// Members
	mux.Handle("/api/members", authMiddleware.RequireRole(operational, memberHandler.Collection))
	mux.Handle("/api/members/", authMiddleware.RequireRole(adminOnly, memberHandler.Item))

	// Approval workflow
	mux.Handle("/api/pending-members", authMiddleware.RequireRole(adminOnly, approvalHandler.ListPending))
	mux.Handle("/api/pending-members/watch", authMiddleware.RequireRole(adminOnly, approvalHandler.WatchPending))
	mux.Handle("/api/approvals/approve", authMiddleware.RequireRole(adminOnly, approvalHandler.Approve))
	mux.Handle("/api/approvals/reject", authMiddleware.RequireRole(adminOnly, approvalHandler.Reject))
	mux.Handle("/api/approvals/cancel", authMiddleware.RequireRole(adminOnly, approvalHandler.Cancel))

	// Attendance
	mux.Handle("/api/attendance", authMiddleware.RequireRole(operational, attendanceHandler.Handle))
	mux.Handle("/api/attendance/stats", authMiddleware.RequireRole(operational, attendanceHandler.Stats))

	corsWrapped := middleware.CORSMiddleware(cfg.AllowedOrigins)(mux)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, corsWrapped); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}

// methodGated applies a stricter role list to writes than to reads on a
// collection endpoint.
func methodGated(h http.HandlerFunc, writeRoles, readRoles []domain.Role, m *middleware.AuthMiddleware) http.Handler {
	writeGate := m.RequireRole(writeRoles, h)
	readGate := m.RequireRole(readRoles, h)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			readGate(w, r)
			return
		}
		writeGate(w, r)
	})
}
