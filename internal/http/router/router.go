package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/http/handlers"
	mw "github.com/dannielcanaryquipia/capstone-project2-sub000/internal/http/middleware"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/http/middleware/ratelimit"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
)

// New constructs a chi-based http.Handler with base middleware and routes.
func New(
	h *handlers.Handlers,
	orders *handlers.OrderHandler,
	riders *handlers.RiderHandler,
	admin *handlers.AdminHandler,
	logger logx.Logger,
	limiter *ratelimit.Middleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))
	r.Use(mw.Observability(logger))
	if limiter != nil {
		r.Use(limiter.Handler())
	}

	r.Get("/ping", h.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.HealthcheckHead))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.NotFound(http.HandlerFunc(h.NotFound))

	r.Route("/orders", func(r chi.Router) {
		r.Get("/{id}", orders.Get)
		r.Post("/{id}/status", orders.Transition)
		r.Post("/{id}/cancel", orders.Cancel)
		r.Post("/{id}/verify-payment", orders.VerifyPayment)
	})

	r.Route("/riders", func(r chi.Router) {
		r.Route("/orders/{id}", func(r chi.Router) {
			r.Post("/accept", riders.Accept)
			r.Post("/pickup", riders.Pickup)
			r.Post("/deliver", riders.Deliver)
			r.Post("/verify-cod", riders.VerifyCOD)
		})
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/availability", riders.Availability)
			r.Put("/location", riders.Location)
			r.Get("/assignments", riders.Assignments)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/assignments", admin.ManualAssign)
		r.Post("/assignments/sweep", admin.Sweep)
		r.Post("/assignments/reassign", admin.Reassign)
		r.Get("/assignments/settings", admin.GetSettings)
		r.Put("/assignments/settings", admin.UpdateSettings)
		r.Get("/dashboard", admin.Overview)
	})

	return r
}
