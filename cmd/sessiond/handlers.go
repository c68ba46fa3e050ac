package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/plugsession/pkg/httpserver"
	"github.com/dmitrymomot/plugsession/pkg/logger"
	"github.com/dmitrymomot/plugsession/pkg/requestid"
	"github.com/dmitrymomot/plugsession/pkg/session"
)

// CSRFHeader carries the token for state-changing demo endpoints.
const CSRFHeader = "X-CSRF-Token"

func newRouter(a *app, m *session.Manager, ready httpserver.Check) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestid.Middleware)
	r.Use(requestLogger(a.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(a.log))
	r.Get("/ready", httpserver.HealthCheckHandler(a.log, ready))
	r.Handle("/metrics", promhttp.HandlerFor(a.prom, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(m.Middleware)

		r.Get("/", visitHandler)
		r.Get("/flash", popFlashHandler)
		r.Post("/flash", addFlashHandler)
		r.Get("/csrf", csrfHandler)
		r.Post("/logout", logoutHandler(a.log))
	})

	return r
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.LogAttrs(r.Context(), slog.LevelDebug, "request served",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote", r.RemoteAddr),
				slog.Int("status", ww.Status()),
				logger.Duration(time.Since(start)),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := session.FromRequest(r)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session unavailable"})
	}
	return s, ok
}

// visitHandler counts visits in the session.
func visitHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}
	visits, _ := s.GetInt("visits")
	visits++
	s.Set("visits", visits)

	writeJSON(w, http.StatusOK, map[string]any{
		"visits": visits,
		"new":    s.IsNew(),
	})
}

func addFlashHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}
	if !s.ValidCSRFToken(r.Header.Get(CSRFHeader)) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid csrf token"})
		return
	}

	msg := r.FormValue("message")
	if msg == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}
	s.Flash(msg, session.InQueue(r.FormValue("queue")), session.NoDuplicates())
	w.WriteHeader(http.StatusNoContent)
}

func popFlashHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}
	messages := s.PopFlash(r.URL.Query().Get("queue"))
	if messages == nil {
		messages = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func csrfHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": s.CSRFToken()})
}

func logoutHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}
		if !s.ValidCSRFToken(r.Header.Get(CSRFHeader)) {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid csrf token"})
			return
		}
		if err := s.Destroy(r.Context()); err != nil {
			log.WarnContext(r.Context(), "failed to clear session record", logger.SessionID(s.ID()), logger.Error(err))
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
