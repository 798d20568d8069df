package http

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"bizdash/internal/core"
	applog "bizdash/internal/log"
	"bizdash/internal/metrics"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	OK(map[string]string{
		"status": "ok",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	}).Write(w)
}

// handleReady pings the store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		applog.NewStructuredLogger(applog.FromContext(ctx)).LogStoreError(ctx, applog.ComponentStorage, applog.OpReady, err)
		ErrorResponse(http.StatusServiceUnavailable, "Store unavailable").Write(w)
		return
	}
	OK(map[string]string{"status": "ready"}).Write(w)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	TooManyRequestsError().Write(w)
}

// recoverer turns a handler panic into the standard 500 envelope.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			ctx := r.Context()
			applog.FromContext(ctx).ErrorContext(ctx, "Handler panic recovered",
				applog.FieldError, fmt.Sprint(rec),
				applog.FieldErrorType, applog.ErrorTypeInternal,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				"stack", string(debug.Stack()))
			InternalServerError().Write(w)
		}()
		next.ServeHTTP(w, r)
	})
}

// fail answers 400 for validation errors and a generic 500 for everything else,
// logging and counting the latter. attrs are extra log fields.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, component, operation string, err error, attrs ...any) {
	ctx := r.Context()
	if core.IsValidation(err) {
		args := append([]any{
			applog.FieldOperation, operation,
			applog.FieldErrorType, applog.ErrorTypeValidation,
			applog.FieldError, err,
		}, attrs...)
		applog.FromContext(ctx).WithComponent(component).DebugContext(ctx, "Request rejected", args...)
		BadRequestError(err.Error()).Write(w)
		return
	}

	metrics.RecordStoreError(operation)
	applog.NewStructuredLogger(applog.FromContext(ctx)).LogStoreError(ctx, component, operation, err, attrs...)
	InternalServerError().Write(w)
}
