package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/capacity-planner/internal/application"
	"github.com/example/capacity-planner/internal/forecast"
	"github.com/example/capacity-planner/internal/persistence"
	"github.com/example/capacity-planner/internal/scheduler"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("prediction"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("prediction")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// NewProfileService builds a profile service on the factory clock.
func (f *ServiceFactory) NewProfileService(profiles persistence.ProfileRepository, logger *slog.Logger) *application.ProfileService {
	return application.NewProfileServiceWithLogger(profiles, f.Clock.NowFunc(), logger)
}

// NewPlannerService builds a planner service whose generator runs in UTC on
// the factory clock.
func (f *ServiceFactory) NewPlannerService(profiles application.ProfileLookup, logger *slog.Logger) *application.PlannerService {
	generator := scheduler.NewGenerator(time.UTC, f.Clock.NowFunc())
	return application.NewPlannerServiceWithLogger(generator, profiles, logger)
}

// ForecastServiceDeps captures dependencies for constructing a forecast service.
type ForecastServiceDeps struct {
	Profiles    application.ProfileLookup
	Predictions persistence.PredictionRepository
	Workload    forecast.WorkloadSource
	Config      application.ForecastServiceConfig
	Logger      *slog.Logger
}

// NewForecastService builds a forecast service using the supplied
// dependencies combined with the factory defaults. It panics on
// construction errors, which only arise from invalid cache sizes.
func (f *ServiceFactory) NewForecastService(deps ForecastServiceDeps) *application.ForecastService {
	service, err := application.NewForecastServiceWithLogger(
		deps.Profiles,
		deps.Predictions,
		deps.Workload,
		deps.Config,
		f.IDGenerator.NextFunc(),
		f.Clock.NowFunc(),
		deps.Logger,
	)
	if err != nil {
		panic(err)
	}
	return service
}
