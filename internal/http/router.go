package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Check reports whether a backing service is reachable.
type Check func(ctx context.Context) error

type Deps struct {
	// Checks are all run by /readyz, keyed by the name reported on failure.
	Checks  map[string]Check
	Webhook http.Handler
}

const checkTimeout = 2 * time.Second

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})
	r.Get("/readyz", readyHandler(d.Checks))
	if d.Webhook != nil {
		r.Method(http.MethodPost, WebhookPath, d.Webhook)
	}
	return r
}

const WebhookPath = "/telegram/webhook"

func readyHandler(checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.Printf("❌ readiness check %s failed: %v", name, err)
				writeText(w, http.StatusServiceUnavailable, name+" unavailable")
				return
			}
		}
		writeText(w, http.StatusOK, "ready")
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
