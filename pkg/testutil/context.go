package testutil

import (
	"net/http"
	"time"

	"expediente/pkg/requestcontext"
)

// WithRequestContext stamps a request the way the platform middleware would:
// a request ID and a fixed request time.
func WithRequestContext(req *http.Request, requestID string, now time.Time) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	ctx = requestcontext.WithTime(ctx, now)
	return req.WithContext(ctx)
}
