package http

import (
	"log/slog"
	"net/http"

	"github.com/keremustuner/Case-Study/internal/domain"
	"github.com/keremustuner/Case-Study/internal/service"
	"github.com/keremustuner/Case-Study/internal/view"
	"github.com/keremustuner/Case-Study/pkg/httputil"
	"github.com/keremustuner/Case-Study/pkg/middleware"
	"github.com/keremustuner/Case-Study/pkg/validator"
)

// APIHandler serves the JSON mirror of the storefront view.
type APIHandler struct {
	service  *service.StorefrontService
	settings domain.CarouselSettings
	logger   *slog.Logger
}

// NewAPIHandler creates a new view API handler.
func NewAPIHandler(svc *service.StorefrontService, settings domain.CarouselSettings, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		service:  svc,
		settings: settings,
		logger:   logger,
	}
}

// --- Request DTOs ---

// SelectColorRequest is the JSON request body for changing a product color.
type SelectColorRequest struct {
	Color string `json:"color" validate:"required,oneof=yellow white rose"`
}

// --- Handlers ---

// View handles GET /api/v1/view. Like the page, it mounts the session on
// first use.
func (h *APIHandler) View(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionIDFromContext(r.Context())

	sess, _, err := h.service.Mount(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writePage(w, r, http.StatusOK, sess)
}

// SelectColor handles PUT /api/v1/view/products/{key}/color.
func (h *APIHandler) SelectColor(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionIDFromContext(r.Context())

	var req SelectColorRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	sess, err := h.service.SelectColor(r.Context(), id, productKey(r), req.Color)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writePage(w, r, http.StatusOK, sess)
}

// Reload handles POST /api/v1/view/reload.
func (h *APIHandler) Reload(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionIDFromContext(r.Context())

	sess, err := h.service.Reload(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writePage(w, r, http.StatusAccepted, sess)
}

// Unmount handles DELETE /api/v1/view.
func (h *APIHandler) Unmount(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionIDFromContext(r.Context())

	if err := h.service.Unmount(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Carousel handles GET /api/v1/carousel.
func (h *APIHandler) Carousel(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.settings)
}

func (h *APIHandler) writePage(w http.ResponseWriter, r *http.Request, status int, sess *domain.Session) {
	page, err := view.NewPage(sess, h.settings)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, status, page)
}
