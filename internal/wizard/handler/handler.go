package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"letwise/internal/wizard"
	"letwise/pkg/platform/httputil"
)

// LinkResponse returns the canonical link and the parameters the wizard page
// will read from it once defaults are applied.
type LinkResponse struct {
	Link     string      `json:"link"`
	Resolved wizard.Link `json:"resolved"`
}

// Handler builds wizard links for entry points that cannot template them
// statically.
type Handler struct {
	router *wizard.Router
}

func New(router *wizard.Router) *Handler {
	return &Handler{router: router}
}

// Register registers the wizard routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/wizard/link", h.handleLink)
}

func (h *Handler) handleLink(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	link := h.router.Link(wizard.Link{
		Product:      q.Get(wizard.ParamProduct),
		Jurisdiction: q.Get(wizard.ParamJurisdiction),
		Topic:        q.Get(wizard.ParamTopic),
		Source:       q.Get(wizard.ParamSource),
	})
	httputil.WriteJSON(w, http.StatusOK, LinkResponse{
		Link:     link,
		Resolved: wizard.ParseParams(q),
	})
}
