package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-event-registration/internal/application/event"
	"github.com/go-event-registration/internal/application/listing"
	"github.com/go-event-registration/internal/application/registration"
	"github.com/go-event-registration/internal/application/user"
	"github.com/go-event-registration/internal/config"
	"github.com/go-event-registration/internal/transport/http/handler"
	appmiddleware "github.com/go-event-registration/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Applied to every write endpoint.
	writeRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, cfg.TrustProxyHeaders)

	userSvc := user.NewService(user.ServiceDeps{UserRepo: deps.UserRepo})
	eventSvc := event.NewService(event.ServiceDeps{EventRepo: deps.EventRepo})
	registrationSvc := registration.NewService(registration.ServiceDeps{
		Users:         deps.UserRepo,
		Events:        deps.EventRepo,
		Registrations: deps.RegistrationRepo,
		Waitlist:      deps.WaitlistRepo,
		Metrics:       deps.Metrics,
	})
	listingSvc := listing.NewService(listing.ServiceDeps{
		Users:         deps.UserRepo,
		Events:        deps.EventRepo,
		Registrations: deps.RegistrationRepo,
		Waitlist:      deps.WaitlistRepo,
	})

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(userSvc, listingSvc)
	eventH := handler.NewEventHandler(eventSvc)
	regH := handler.NewRegistrationHandler(registrationSvc, listingSvc)

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		// ── Users ────────────────────────────────────────────────────────────
		r.With(writeRL.Limit).Post("/users", userH.Create)
		r.Get("/users/{id}", userH.Get)
		r.Get("/users/{id}/registrations", userH.ListRegistrations)
		r.Get("/users/{id}/events", userH.ListEvents)

		// ── Events ───────────────────────────────────────────────────────────
		r.Get("/events", eventH.List)
		r.Get("/events/{id}", eventH.Get)
		r.Get("/events/{id}/registrations", regH.List)
		r.Get("/events/{id}/waitlist", regH.Waitlist)

		r.Group(func(r chi.Router) {
			r.Use(writeRL.Limit)

			r.Post("/events", eventH.Create)
			r.Put("/events/{id}", eventH.Update)
			r.Delete("/events/{id}", eventH.Delete)

			// ── Registrations ────────────────────────────────────────────────
			r.Post("/events/{id}/registrations", regH.Register)
			r.Delete("/events/{id}/registrations/{userId}", regH.Unregister)
			r.Delete("/events/{id}/waitlist/{userId}", regH.LeaveWaitlist)
		})
	})

	return r
}
