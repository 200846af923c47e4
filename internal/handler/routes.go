package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/msomdec/bump-journal/internal/metrics"
	"github.com/msomdec/bump-journal/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries everything the router needs.
type Deps struct {
	Auth         *service.AuthService
	Milestones   *service.MilestoneService
	Tips         *service.TipService
	Progress     *service.ProgressService
	AuthLimiter  Limiter
	DB           Pinger
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	CookieSecure bool
}

// NewRouter builds the HTTP surface of the journal.
func NewRouter(d Deps) http.Handler {
	authH := NewAuthHandler(d.Auth, d.Metrics, d.CookieSecure)
	milestoneH := NewMilestoneHandler(d.Milestones, d.Metrics)
	tipH := NewTipHandler(d.Tips, d.Metrics)
	progressH := NewProgressHandler(d.Progress)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Observe(d.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Get("/healthz", HandleHealthz(d.DB))
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(RateLimit(d.AuthLimiter, d.Metrics)).Post("/register", authH.HandleRegister)
		r.With(RateLimit(d.AuthLimiter, d.Metrics)).Post("/login", authH.HandleLogin)
		r.Post("/logout", authH.HandleLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(d.Auth))

		r.Get("/me", authH.HandleMe)
		r.Put("/me/due-date", authH.HandleSetDueDate)
		r.Get("/progress", progressH.HandleGet)

		r.Get("/milestones", milestoneH.HandleList)
		r.Post("/milestones", milestoneH.HandleCreate)
		r.Get("/milestones/{id}", milestoneH.HandleGet)
		r.Put("/milestones/{id}", milestoneH.HandleUpdate)
		r.Delete("/milestones/{id}", milestoneH.HandleDelete)
	})

	// Tips are readable by anyone. Adding one needs a principal, which the
	// service checks after the content and the milestone.
	r.Group(func(r chi.Router) {
		r.Use(OptionalAuth(d.Auth))

		r.Get("/milestones/{id}/tips", tipH.HandleList)
		r.Post("/milestones/{id}/tips", tipH.HandleAdd)
	})

	return r
}
