package cmd

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	httpadapter "optiroute/internal/adapters/in/http"
	"optiroute/internal/adapters/out/kafka"
	"optiroute/internal/adapters/out/osrm"
	"optiroute/internal/adapters/out/postgres"
	"optiroute/internal/core/application/usecases/commands"
	"optiroute/internal/core/application/usecases/queries"
	"optiroute/internal/core/domain/model/station"
	"optiroute/internal/core/domain/services/tsp"
	"optiroute/internal/core/ports"
	"optiroute/internal/jobs"
)

// CompositionRoot wires adapters into the application use cases.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	oracle     ports.RouteOracle
	stations   []*station.RechargeStation
	publisher  ports.EventPublisher
	store      *queries.LastOptimizationStore
	logger     *slog.Logger
}

// NewCompositionRoot builds the dependency graph. stations and the Kafka
// publisher are optional: the service degrades to no recharge planning and
// no event publishing.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	stations []*station.RechargeStation,
	logger *slog.Logger,
) CompositionRoot {
	var publisher ports.EventPublisher
	if config.KafkaHost != "" {
		publisher = kafka.NewPublisher(config.KafkaHost, config.KafkaTopic)
	}

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		oracle:     osrm.NewClient(config.OsrmURL, time.Duration(config.OsrmTimeoutSec)*time.Second),
		stations:   stations,
		publisher:  publisher,
		store:      queries.NewLastOptimizationStore(),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateOptimizeRoutesCommandHandler() commands.OptimizeRoutesCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})

	cfg := commands.OptimizeConfig{
		Seed:             c.config.Seed,
		SolverDeadline:   time.Duration(c.config.SolverDeadlineSec) * time.Second,
		ZoneRadiusKm:     c.config.ZoneRadiusKm,
		KMeansIterations: c.config.KMeansIterations,
		Genetic: tsp.GeneticConfig{
			PopulationSize: c.config.GAPopulation,
			Generations:    c.config.GAGenerations,
			TournamentK:    c.config.GATournament,
			MutationRate:   c.config.GAMutationRate,
			EliteRatio:     c.config.GAEliteRate,
			ImmigrantRatio: c.config.GAImmigrantsRate,
		},
		AllowOracleFallback: c.config.OracleFallback,
	}

	return commands.NewOptimizeRoutesCommandHandler(
		f, c.oracle, c.stations, c.publisher, c.store, cfg, c.logger)
}

func (c *CompositionRoot) CreateGetAvailableCouriersQueryHandler() queries.GetAvailableCouriersQueryHandler {
	return queries.NewGetAvailableCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingOrdersQueryHandler() queries.GetPendingOrdersQueryHandler {
	return queries.NewGetPendingOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetLastOptimizationQueryHandler() queries.GetLastOptimizationQueryHandler {
	return queries.NewGetLastOptimizationQueryHandler(c.store)
}

// CreateHTTPServer assembles the REST adapter with every handler wired.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateOptimizeRoutesCommandHandler(),
		c.CreateGetAvailableCouriersQueryHandler(),
		c.CreateGetPendingOrdersQueryHandler(),
		c.CreateGetLastOptimizationQueryHandler(),
		c.config.Solver,
		c.config.Scenario,
	)
}

// CreateJobManager assembles the scheduled jobs. Returns nil when no cron
// spec is configured.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	if c.config.CronSpec == "" {
		return nil
	}
	return jobs.NewJobManager(
		c.CreateOptimizeRoutesCommandHandler(),
		c.config.Solver,
		c.config.Scenario,
		c.config.CronSpec,
		c.logger,
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
