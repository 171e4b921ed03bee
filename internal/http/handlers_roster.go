package httpx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	domainauth "github.com/classdash/classdash/internal/domain/auth"
	"github.com/classdash/classdash/internal/domain/model"
	"github.com/classdash/classdash/internal/export"
)

// RosterServiceInterface defines the interface for roster service operations.
type RosterServiceInterface interface {
	Snapshot(ctx context.Context) (*model.RosterPayload, error)
	DashboardFor(ctx context.Context, viewer domainauth.Session) (*model.DashboardPayload, error)
	RosterFor(ctx context.Context, classID string) ([]model.User, error)
	SearchClasses(ctx context.Context, term string) ([]model.Class, error)
}

// RosterHandlers provides HTTP handlers for roster and dashboard payloads.
type RosterHandlers struct {
	Svc    RosterServiceInterface
	Logger *slog.Logger
}

// Snapshot serves the flat anonymous payload.
// GET /api/roster.
func (h *RosterHandlers) Snapshot(w http.ResponseWriter, r *http.Request) {
	payload, err := h.Svc.Snapshot(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, payload)
}

// Dashboard serves the pre-resolved per-viewer payload. Requires auth; the
// session is read from the request context.
// GET /api/dashboard.
func (h *RosterHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	payload, err := h.Svc.DashboardFor(r.Context(), *session)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, payload)
}

// SearchClasses serves the class picker.
// GET /api/classes?q=<term>.
func (h *RosterHandlers) SearchClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.Svc.SearchClasses(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"classes": classes})
}

// ClassRoster serves the student roster of one class. Teacher only.
// GET /api/classes/{id}/roster.
func (h *RosterHandlers) ClassRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.Svc.RosterFor(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"roster": roster})
}

// ExportClassRoster streams the class roster as an xlsx workbook. Teacher only.
// GET /api/classes/{id}/roster/export.
func (h *RosterHandlers) ExportClassRoster(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")
	roster, err := h.Svc.RosterFor(r.Context(), classID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	f, err := export.RosterWorkbook(roster)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "roster-"+classID+".xlsx"))
	if _, err := f.WriteTo(w); err != nil {
		// Headers are already out; nothing left to do for a broken connection.
		return
	}
}
