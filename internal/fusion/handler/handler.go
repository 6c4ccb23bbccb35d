package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"expediente/internal/fusion/sanitize"
	"expediente/internal/fusion/service"
	"expediente/pkg/platform/httputil"
	"expediente/pkg/requestcontext"
)

// Service defines the interface for fusion operations.
type Service interface {
	Fuse(ctx context.Context, req service.Request) (*service.Result, error)
}

// Handler wires fusion endpoints to the fusion service.
type Handler struct {
	service   Service
	logger    *slog.Logger
	sanitizer *sanitize.Sanitizer
}

// Option configures a Handler.
type Option func(*Handler)

// WithSanitizer sets the annotation set used when reading request dates. It
// should match the one the service fuses with.
func WithSanitizer(s *sanitize.Sanitizer) Option {
	return func(h *Handler) {
		h.sanitizer = s
	}
}

// New constructs a fusion handler with its dependencies.
func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{
		service: service,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts fusion endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/fusion/expedientes", h.HandleFuse)
}

// HandleFuse handles POST /fusion/expedientes requests.
func (h *Handler) HandleFuse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[FuseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sources, dropped := req.Records(h.sanitizer)
	if len(dropped) > 0 {
		h.logger.WarnContext(ctx, "malformed dates left unset",
			"request_id", requestID,
			"fields", dropped,
		)
	}

	result, err := h.service.Fuse(ctx, service.Request{Sources: sources})
	if err != nil {
		h.logger.ErrorContext(ctx, "fusion failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "fusion served",
		"request_id", requestID,
		"fusion_id", result.FusionID.String(),
		"needs_review", result.NeedsReview,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}
