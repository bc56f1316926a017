package api

import (
	"github.com/gorilla/mux"

	"github.com/theblitlabs/parity-watchdog/internal/api/handlers"
	"github.com/theblitlabs/parity-watchdog/internal/api/middleware"
	"github.com/theblitlabs/parity-watchdog/internal/telemetry"
)

// Router wraps mux.Router to add more functionality
type Router struct {
	*mux.Router
	middleware []mux.MiddlewareFunc
	endpoint   string
}

// NewRouter creates and configures a new router with all dependencies
func NewRouter(statusHandler *handlers.StatusHandler, endpoint string) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		middleware: []mux.MiddlewareFunc{
			middleware.Logging,
			telemetry.MetricsMiddleware,
		},
		endpoint: endpoint,
	}

	r.setup()
	r.registerRoutes(statusHandler)

	return r
}

func (r *Router) setup() {
	for _, m := range r.middleware {
		r.Use(m)
	}
}

func (r *Router) registerRoutes(statusHandler *handlers.StatusHandler) {
	r.HandleFunc("/health", statusHandler.Health).Methods("GET")
	r.Handle("/metrics", telemetry.MetricsHandler()).Methods("GET")

	api := r.PathPrefix(r.endpoint).Subrouter()
	signals := api.PathPrefix("/signals").Subrouter()

	signals.HandleFunc("", statusHandler.ListSignals).Methods("GET")
	signals.HandleFunc("/{signal}", statusHandler.GetSignal).Methods("GET")
}
