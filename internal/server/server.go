package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/fernwell/choreboard/internal/chore"
	"github.com/fernwell/choreboard/internal/config"
	"github.com/fernwell/choreboard/internal/generate"
	"github.com/fernwell/choreboard/internal/handler"
	"github.com/fernwell/choreboard/internal/middleware"
	"github.com/fernwell/choreboard/internal/points"
	"github.com/fernwell/choreboard/internal/schedule"
	"github.com/fernwell/choreboard/internal/store"
	"github.com/fernwell/choreboard/internal/validate"
	ws "github.com/fernwell/choreboard/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	memberStore *store.FamilyMemberStore
	choreH      *handler.ChoreHandler
	memberH     *handler.FamilyMemberHandler
	scheduler   *schedule.Scheduler
	logger      *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	choreStore := store.NewChoreStore(db)
	memberStore := store.NewFamilyMemberStore(db)
	pointStore := store.NewPointStore(db)

	ledger := points.NewLedger(pointStore, logger.With("component", "points"))
	gen := generate.New(choreStore, logger.With("component", "generate"))
	val := validate.New(cfg.MaxPoints)

	horizon := time.Duration(cfg.HorizonDays) * 24 * time.Hour
	svc := chore.NewService(choreStore, memberStore, ledger, gen, val, horizon, logger.With("component", "chore"))

	sched := schedule.New(svc, gen, schedule.Config{
		HorizonDays: cfg.HorizonDays,
		TriggerDays: cfg.TriggerDays,
	}, logger.With("component", "scheduler"))

	return &Server{
		db:          db,
		hub:         hub,
		memberStore: memberStore,
		choreH:      handler.NewChoreHandler(svc, hub, logger.With("component", "chore_handler")),
		memberH:     handler.NewFamilyMemberHandler(memberStore, ledger),
		scheduler:   sched,
		logger:      logger,
	}
}

// Scheduler returns the background scheduler so main can start and stop it.
func (s *Server) Scheduler() *schedule.Scheduler {
	return s.scheduler
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("POST /api/family-members", s.memberH.Create)
	outerMux.HandleFunc("GET /ws", ws.Handler(s.hub))

	// Protected routes require an identified member
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.MemberAuth(s.memberStore, s.logger.With("component", "auth"))
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Chore API routes
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("GET /api/chores/overdue", s.choreH.Overdue)
	mux.HandleFunc("GET /api/chores/{id}", s.choreH.Get)
	mux.HandleFunc("PUT /api/chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)

	// Lifecycle transitions
	mux.HandleFunc("POST /api/chores/{id}/complete", s.choreH.Complete)
	mux.HandleFunc("POST /api/chores/{id}/verify", s.choreH.Verify)
	mux.HandleFunc("POST /api/chores/{id}/reject", s.choreH.Reject)
	mux.HandleFunc("POST /api/chores/{id}/reschedule", s.choreH.Reschedule)

	// Recurring series management
	mux.HandleFunc("PUT /api/chores/{id}/future", s.choreH.UpdateFuture)
	mux.HandleFunc("DELETE /api/chores/{id}/future", s.choreH.DeleteFuture)

	// Family member API routes
	mux.HandleFunc("GET /api/family-members", s.memberH.List)
	mux.HandleFunc("GET /api/family-members/{id}", s.memberH.Get)
	mux.HandleFunc("POST /api/family-members/{id}/pin", s.memberH.SetPIN)
	mux.HandleFunc("DELETE /api/family-members/{id}/pin", s.memberH.ClearPIN)
	mux.HandleFunc("GET /api/family-members/{id}/points", s.memberH.Balance)
	mux.HandleFunc("GET /api/family-members/{id}/points/history", s.memberH.PointHistory)

	// Family settings
	mux.HandleFunc("GET /api/families/{family_id}/settings", s.memberH.GetVerificationPolicy)
	mux.HandleFunc("PUT /api/families/{family_id}/settings", s.memberH.SetVerificationPolicy)
}
