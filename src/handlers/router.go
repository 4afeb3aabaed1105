package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/chapati23/morning-briefing/src/metrics"
	"github.com/chapati23/morning-briefing/src/security"
	"github.com/chapati23/morning-briefing/src/services"
	"github.com/chapati23/morning-briefing/src/utils"
)

// RouterDeps collects what NewRouter wires into the HTTP surface.
type RouterDeps struct {
	DigestService services.DigestService
	AuthService   *security.AuthService
	Metrics       *metrics.Metrics
	DB            *sql.DB       // optional, checked by /healthz
	Limiter       *rate.Limiter // optional
}

func NewRouter(deps RouterDeps) http.Handler {
	if deps.Limiter == nil {
		deps.Limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)
	}
	digestHandler := NewDigestHandler(deps.DigestService)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(ContextualLoggerMiddleware)

	r.Get("/healthz", HealthHandler(deps.DB))
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimitMiddleware(deps.Limiter))

		r.Get("/congress-trades", digestHandler.HandleGetDigest)
		r.Get("/congress-trades/html", digestHandler.HandleGetDigestHTML)
		r.Get("/runs", digestHandler.HandleGetRuns)

		r.Group(func(r chi.Router) {
			r.Use(OperatorAuthMiddleware(deps.AuthService))
			r.Post("/congress-trades/refresh", digestHandler.HandleRefresh)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSONError(w, "Not found", http.StatusNotFound)
	})

	return r
}

// HealthHandler reports liveness, and database reachability when db is set.
func HealthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				utils.SendJSON(w, map[string]string{"status": "degraded", "database": err.Error()}, http.StatusServiceUnavailable)
				return
			}
		}
		utils.SendJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	}
}
