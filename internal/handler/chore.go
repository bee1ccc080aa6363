package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fernwell/choreboard/internal/auth"
	"github.com/fernwell/choreboard/internal/chore"
	"github.com/fernwell/choreboard/internal/model"
	"github.com/fernwell/choreboard/internal/websocket"
)

type ChoreHandler struct {
	svc    *chore.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewChoreHandler(svc *chore.Service, hub *websocket.Hub, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{svc: svc, hub: hub, logger: logger}
}

func (h *ChoreHandler) broadcast(action string, c *model.Chore) {
	if h.hub != nil && c != nil {
		h.hub.Broadcast(websocket.ChoreEvent(action, c))
	}
}

// writeServiceError maps the service's sentinel errors onto HTTP statuses.
func (h *ChoreHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chore.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore not found"})
	case errors.Is(err, chore.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "permission denied"})
	case errors.Is(err, chore.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, chore.ErrInvalidData), errors.Is(err, chore.ErrInvalidPattern):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("chore request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

type choreRequest struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Points           int        `json:"points"`
	DueAt            *time.Time `json:"due_at"`
	RecurringPattern string     `json:"recurring_pattern"`
	AssignedTo       *int64     `json:"assigned_to"`
	FamilyID         *int64     `json:"family_id"`
	IconID           string     `json:"icon_id"`
}

func (req *choreRequest) toModel() model.Chore {
	c := model.Chore{
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		Points:           req.Points,
		RecurringPattern: req.RecurringPattern,
		AssignedTo:       req.AssignedTo,
		FamilyID:         req.FamilyID,
		IconID:           req.IconID,
	}
	if req.DueAt != nil {
		c.DueAt = *req.DueAt
	}
	return c
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Member(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	var (
		created *model.Chore
		err     error
	)
	if req.RecurringPattern != "" {
		created, err = h.svc.CreateRecurring(actor.ID, req.toModel())
	} else {
		created, err = h.svc.Create(actor.ID, req.toModel())
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.broadcast("created", created)
	writeJSON(w, http.StatusCreated, created)
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	var f chore.Filter

	q := r.URL.Query()
	if v := q.Get("family_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid family_id"})
			return
		}
		f.FamilyID = &id
	}
	if v := q.Get("assigned_to"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assigned_to"})
			return
		}
		f.AssignedTo = &id
	}
	if v := q.Get("status"); v != "" {
		status := model.Status(v)
		f.Status = &status
	}

	chores, err := h.svc.List(f)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	c, err := h.svc.Get(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Member(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	c := req.toModel()
	c.ID = id
	updated, err := h.svc.Update(actor.ID, c)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.broadcast("updated", updated)
	writeJSON(w, http.StatusOK, updated)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Member(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.svc.Delete(actor.ID, id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.broadcast("deleted", &model.Chore{ID: id})
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Member(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	required, err := h.svc.VerificationRequired(actor.ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	updated, err := h.svc.Complete(id, actor.ID, required)
	if err != nil && !errors.Is(err, chore.ErrPointAllocation) {
		h.writeServiceError(w, err)
		return
	}
	if err != nil {
		h.logger.Warn("chore completed but points not recorded", "chore_id", id, "error", err)
	}

	h.broadcast(string(updated.Status), updated)
	writeJSON(w, http.StatusOK, updated)
}

func (h *ChoreHandler) Verify(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Member(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	updated, err := h.svc.Verify(id, actor.ID)
	if err != nil && !errors.Is(err, chore.ErrPointAllocation) {
		h.writeServiceError(w, err)
		return
	}
	if err != nil {
		h.logger.Warn("chore verified but points not recorded", "chore_id", id, "error", err)
	}

	h.broadcast("verified", updated)
	writeJSON(w, http.StatusOK, updated)
}

func (h *ChoreHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Member(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	updated, err := h.svc.Reject(id, actor.ID, req.Reason)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.broadcast("rejected", updated)
	writeJSON(w, http.StatusOK, updated)
}

func (h *ChoreHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Member(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		DueAt time.Time `json:"due_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DueAt.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "due_at is required"})
		return
	}

	updated, err := h.svc.Reschedule(actor.ID, id, req.DueAt)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.broadcast("rescheduled", updated)
	writeJSON(w, http.StatusOK, updated)
}

type futureUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Points      *int    `json:"points"`
	IconID      *string `json:"icon_id"`
	AssignedTo  *int64  `json:"assigned_to"`
}

// UpdateFuture edits every not-yet-due instance of a recurring chore.
func (h *ChoreHandler) UpdateFuture(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Member(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req futureUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	n, err := h.svc.UpdateFuture(actor.ID, id, chore.FutureUpdate{
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		IconID:      req.IconID,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.broadcast("series_updated", &model.Chore{ID: id})
	writeJSON(w, http.StatusOK, map[string]int{"updated": n})
}

func (h *ChoreHandler) DeleteFuture(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.Member(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	n, err := h.svc.DeleteFuture(actor.ID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.broadcast("series_deleted", &model.Chore{ID: id})
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func (h *ChoreHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	chores, err := h.svc.Overdue()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}
