package http

import (
	"github.com/go-event-registration/internal/infrastructure/metrics"
	"github.com/go-event-registration/internal/repository"
	"github.com/go-event-registration/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *repository.UserRepo
	EventRepo        *repository.EventRepo
	RegistrationRepo *repository.RegistrationRepo
	WaitlistRepo     *repository.WaitlistRepo
	Metrics          *metrics.Recorder
	// Gatherer backs the /metrics endpoint; nil disables it.
	Gatherer prometheus.Gatherer
}

// NewDeps builds every repository on one store and registers the
// application metrics on reg.
func NewDeps(s store.Store, reg *prometheus.Registry) *Deps {
	return &Deps{
		UserRepo:         repository.NewUserRepo(s),
		EventRepo:        repository.NewEventRepo(s),
		RegistrationRepo: repository.NewRegistrationRepo(s),
		WaitlistRepo:     repository.NewWaitlistRepo(s),
		Metrics:          metrics.New(reg),
		Gatherer:         reg,
	}
}
