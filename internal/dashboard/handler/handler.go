package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"letwise/internal/dashboard/models"
	"letwise/pkg/platform/httputil"
)

// Service aggregates the dashboard.
type Service interface {
	Load(ctx context.Context) models.Dashboard
}

// Handler serves the aggregated dashboard.
type Handler struct {
	dashboard Service
}

func New(dashboard Service) *Handler {
	return &Handler{dashboard: dashboard}
}

// Register registers the dashboard routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/dashboard", h.handleDashboard)
}

// handleDashboard always answers 200; section failures are reported inside
// the body.
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.dashboard.Load(r.Context()))
}
