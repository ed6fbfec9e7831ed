package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/flowschem/pkg/observability"
)

// Response headers.
const (
	HeaderRenderID = "X-Render-ID"
	HeaderCache    = "X-Cache"
)

type ctxKey int

const renderIDKey ctxKey = iota

// renderID assigns every request a UUID, returned in X-Render-ID and
// recorded as the ID of layouts produced by the request.
func renderID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(HeaderRenderID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), renderIDKey, id)))
	})
}

// RenderID returns the render ID of a request context, or "".
func RenderID(ctx context.Context) string {
	id, _ := ctx.Value(renderIDKey).(string)
	return id
}

// requestLogger logs each request once it completes and reports it to the
// HTTP observability hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		d := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()),
			"render_id", RenderID(r.Context()))
	})
}

// bodyLimit caps the request body; reads past the limit fail with
// *http.MaxBytesError.
func bodyLimit(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
