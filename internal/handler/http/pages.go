package http

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/keremustuner/Case-Study/internal/domain"
	"github.com/keremustuner/Case-Study/internal/service"
	"github.com/keremustuner/Case-Study/internal/view"
	apperrors "github.com/keremustuner/Case-Study/pkg/errors"
	"github.com/keremustuner/Case-Study/pkg/httputil"
	"github.com/keremustuner/Case-Study/pkg/logger"
	"github.com/keremustuner/Case-Study/pkg/middleware"
)

// PageHandler serves the server-rendered storefront page and its form posts.
type PageHandler struct {
	service  *service.StorefrontService
	renderer *view.Renderer
	settings domain.CarouselSettings
	logger   *slog.Logger
}

// NewPageHandler creates a new storefront page handler.
func NewPageHandler(svc *service.StorefrontService, renderer *view.Renderer, settings domain.CarouselSettings, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		service:  svc,
		renderer: renderer,
		settings: settings,
		logger:   logger,
	}
}

// Index handles GET /. The first visit mounts the session and starts the
// catalog load.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionIDFromContext(r.Context())

	sess, _, err := h.service.Mount(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	page, err := view.NewPage(sess, h.settings)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, page); err != nil {
		httputil.WriteError(w, r, err, h.logger)
	}
}

// SelectColor handles POST /products/{key}/color. Rejected selections leave
// the page as it was; the browser is always sent back to it.
func (h *PageHandler) SelectColor(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionIDFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid form body"), h.logger)
		return
	}

	_, err := h.service.SelectColor(r.Context(), id, productKey(r), r.PostForm.Get("color"))
	if err != nil {
		if apperrors.HTTPStatus(err) >= http.StatusInternalServerError {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		logger.FromContext(r.Context()).DebugContext(r.Context(), "color selection ignored",
			slog.String("error", err.Error()),
		)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Reload handles POST /reload.
func (h *PageHandler) Reload(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionIDFromContext(r.Context())

	if _, err := h.service.Reload(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// productKey returns the {key} route parameter, unescaped when chi matched on
// the raw path.
func productKey(r *http.Request) string {
	key := chi.URLParam(r, "key")
	if unescaped, err := url.PathUnescape(key); err == nil {
		return unescaped
	}
	return key
}
