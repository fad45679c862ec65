package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/boardview/pkg/errors"
	"github.com/matzehuels/boardview/pkg/observability"
)

type ctxKey int

const viewKey ctxKey = 0

// instrument reports each request to the HTTP hooks under its route
// pattern and logs it at debug level.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		d := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// withView resolves the {id} parameter to a live view.
func (s *Server) withView(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := errors.ValidateViewID(id); err != nil {
			s.writeError(w, err)
			return
		}
		v, ok := s.views.get(id)
		if !ok {
			s.writeError(w, errors.New(errors.ErrCodeNotFound, "no view %q", id))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), viewKey, v)))
	})
}

func viewFrom(ctx context.Context) *view {
	v, _ := ctx.Value(viewKey).(*view)
	return v
}
