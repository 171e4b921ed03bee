package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/classdash/classdash/internal/domain/auth"
	"github.com/classdash/classdash/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         *service.AuthService
	Roster       *service.RosterService
	CookieDomain string
	Logger       *slog.Logger // Logger for request and handler errors (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{Svc: services.Auth, CookieDomain: services.CookieDomain, Logger: logger}
	rosterHandlers := &RosterHandlers{Svc: services.Roster, Logger: logger}

	registerAuthRoutes(mux, authHandlers)
	registerRosterRoutes(mux, rosterHandlers, services.Auth)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/me", h.Me)
}

func registerRosterRoutes(mux *http.ServeMux, h *RosterHandlers, auth AuthServiceInterface) {
	// The flat snapshot stays anonymous so legacy clients keep working.
	mux.HandleFunc("GET /api/roster", h.Snapshot)

	requireAuth := RequireAuth(auth)
	requireTeacher := RequireRole(auth, domainauth.RoleTeacher)

	mux.Handle("GET /api/dashboard", requireAuth(http.HandlerFunc(h.Dashboard)))
	mux.Handle("GET /api/classes", requireAuth(http.HandlerFunc(h.SearchClasses)))
	mux.Handle("GET /api/classes/{id}/roster", requireTeacher(http.HandlerFunc(h.ClassRoster)))
	mux.Handle("GET /api/classes/{id}/roster/export", requireTeacher(http.HandlerFunc(h.ExportClassRoster)))
}
