package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"authgate/internal/platform/middleware"
	"authgate/internal/ratelimit"
	"authgate/pkg/platform/httputil"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker func() error

// RouterConfig carries the cross-cutting pieces the router composes
// around the handlers.
type RouterConfig struct {
	Validator middleware.TokenValidator
	// LoginLimiter guards POST /auth/login; nil disables rate limiting.
	LoginLimiter *ratelimit.Middleware
	// Health checks run on /healthz, keyed by dependency name.
	Health map[string]HealthChecker
	Logger *slog.Logger
}

// NewRouter mounts every endpoint with its middleware chain.
func NewRouter(h *Handler, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.ClientMetadata)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.HandleRegister)
		r.Group(func(r chi.Router) {
			if cfg.LoginLimiter != nil {
				r.Use(cfg.LoginLimiter.Limit)
			}
			r.Post("/login", h.HandleLogin)
		})
		r.Post("/refresh", h.HandleRefresh)
		r.Post("/logout", h.HandleLogout)

		r.Get("/{provider}/login", h.HandleProviderLogin)
		r.Get("/{provider}/callback", h.HandleProviderCallback)
	})

	r.Route("/protected", func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.Validator, cfg.Logger))
		r.Get("/me", h.HandleMe)
		r.Get("/admin", h.HandleAdmin)
	})

	r.Get("/healthz", healthHandler(cfg.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check(); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
