package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/capacity-planner/internal/profile"
)

type profileService interface {
	GetProfile(ctx context.Context, userID string) (profile.ResourceProfile, error)
	SaveProfile(ctx context.Context, userID string, p profile.ResourceProfile) (profile.ResourceProfile, error)
	ApplyPreset(ctx context.Context, userID string, userType profile.UserType, overrides []byte) (profile.ResourceProfile, error)
	ListProfiles(ctx context.Context) ([]profile.ResourceProfile, error)
	DeleteProfile(ctx context.Context, userID string) error
}

// ProfileHandler serves resource profile reads and writes.
type ProfileHandler struct {
	service   profileService
	responder responder
	logger    *slog.Logger
}

func NewProfileHandler(service profileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

// List handles GET /profiles.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	profiles, err := h.service.ListProfiles(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if profiles == nil {
		profiles = []profile.ResourceProfile{}
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]any{"profiles": profiles})
}

// Get handles GET /profiles/{userId}.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request, userID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := h.userID(w, r, userID)
	if !ok {
		return
	}

	p, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, p)
}

// Put handles PUT /profiles/{userId}. The body replaces the stored profile.
func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request, userID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := h.userID(w, r, userID)
	if !ok {
		return
	}

	var p profile.ResourceProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	saved, err := h.service.SaveProfile(r.Context(), userID, p)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "ProfileHandler", "Put").InfoContext(r.Context(), "profile saved", "user_type", saved.UserType)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, saved)
}

// Delete handles DELETE /profiles/{userId}.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request, userID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := h.userID(w, r, userID)
	if !ok {
		return
	}

	if err := h.service.DeleteProfile(r.Context(), userID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// ApplyPreset handles POST /profiles/{userId}/preset.
func (h *ProfileHandler) ApplyPreset(w http.ResponseWriter, r *http.Request, userID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := h.userID(w, r, userID)
	if !ok {
		return
	}

	var req struct {
		UserType  string          `json:"userType"`
		Overrides json.RawMessage `json:"overrides,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	overrides := []byte(req.Overrides)
	if string(overrides) == "null" {
		overrides = nil
	}

	saved, err := h.service.ApplyPreset(r.Context(), userID, profile.UserType(req.UserType), overrides)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, saved)
}

func (h *ProfileHandler) userID(w http.ResponseWriter, r *http.Request, raw string) (string, bool) {
	userID := strings.TrimSpace(raw)
	if userID == "" || strings.Contains(userID, "/") {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return "", false
	}
	return userID, true
}
