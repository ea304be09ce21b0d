package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"letwise/internal/facts"
	"letwise/internal/generation/service"
	dErrors "letwise/pkg/domain-errors"
	"letwise/pkg/platform/httputil"
	"letwise/pkg/requestcontext"
)

// Service is the evaluation and generation pipeline.
type Service interface {
	LookupAuthority(ctx context.Context, postcode string) service.Authority
	Evaluate(ctx context.Context, topic facts.Topic, values map[string]string) (*service.Evaluation, error)
	Generate(ctx context.Context, req service.GenerateRequest) (*service.Generated, error)
}

// Handler serves authority lookups, evaluations and documents.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register registers the checker routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/authorities/{postcode}", h.handleLookupAuthority)
	r.Route("/api/checks/{topic}", func(r chi.Router) {
		r.Post("/evaluate", h.handleEvaluate)
		r.Post("/document", h.handleDocument(service.FormatPDF))
		r.Post("/preview", h.handleDocument(service.FormatPreview))
	})
}

func (h *Handler) handleLookupAuthority(w http.ResponseWriter, r *http.Request) {
	authority := h.svc.LookupAuthority(r.Context(), chi.URLParam(r, "postcode"))
	httputil.WriteJSON(w, http.StatusOK, toAuthorityResponse(authority))
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	eval, err := h.svc.Evaluate(ctx, facts.Topic(chi.URLParam(r, "topic")), req.Values)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	if !eval.Complete {
		writeIncomplete(w, eval)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toEvaluationResponse(eval))
}

func (h *Handler) handleDocument(format service.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)

		req, ok := httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}

		out, err := h.svc.Generate(ctx, service.GenerateRequest{
			Topic:     facts.Topic(chi.URLParam(r, "topic")),
			Values:    req.Values,
			SessionID: req.SessionID,
			Format:    format,
		})
		if err != nil {
			h.writeError(ctx, w, err)
			return
		}
		if out.Document == nil {
			writeIncomplete(w, out.Evaluation)
			return
		}

		doc := out.Document
		w.Header().Set("Content-Type", doc.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(doc.Bytes)))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
		w.Header().Set("X-Document-Mode", string(out.Mode))
		w.Header().Set("X-Document-Pages", strconv.Itoa(doc.Pages))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc.Bytes)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, "check request failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func writeIncomplete(w http.ResponseWriter, eval *service.Evaluation) {
	httputil.WriteJSON(w, http.StatusUnprocessableEntity, IncompleteResponse{
		Error:            string(dErrors.CodeValidation),
		ErrorDescription: "form is incomplete",
		Issues:           eval.Issues,
	})
}
