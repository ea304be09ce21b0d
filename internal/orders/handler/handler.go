package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"letwise/internal/orders/models"
	"letwise/pkg/platform/httputil"
	"letwise/pkg/requestcontext"
)

// Service resolves checkout sessions.
type Service interface {
	Lookup(ctx context.Context, sessionID string) (models.Lookup, error)
}

// Handler serves the session-to-order lookup.
type Handler struct {
	orders Service
	logger *slog.Logger
}

func New(orders Service, logger *slog.Logger) *Handler {
	return &Handler{orders: orders, logger: logger}
}

// Register registers the order routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/orders/by-session", h.handleBySession)
}

func (h *Handler) handleBySession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	result, err := h.orders.Lookup(ctx, r.URL.Query().Get("session_id"))
	if err != nil {
		h.logger.WarnContext(ctx, "order lookup rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
