package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/fantasy-hockey/internal/config"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/gamestat"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/rules"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/standing"
	"github.com/riskibarqy/fantasy-hockey/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-hockey/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-hockey/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-hockey/internal/metrics"
	basecache "github.com/riskibarqy/fantasy-hockey/internal/platform/cache"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
	"github.com/riskibarqy/fantasy-hockey/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

// Services holds the wired use cases shared by the CLI and the worker.
type Services struct {
	Scoring   *usecase.ScoringService
	Roster    *usecase.RosterLedgerService
	Standings *usecase.StandingsService
	Lineup    *usecase.LineupService
	Metrics   *metrics.Collector

	close func() error
}

type repositories struct {
	stats     gamestat.Repository
	rules     rules.Repository
	ledger    roster.Ledger
	picks     roster.LineupSource
	leagues   league.Repository
	teams     league.TeamRepository
	standings standing.Reader
	lineup    lineup.Repository
}

// OpenDB opens a traced postgres pool and verifies it with a ping.
func OpenDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	conn := connString(cfg)
	db, err := otelsqlx.Open("postgres", conn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dsn(conn).database()),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// New wires the postgres-backed services.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, error) {
	db, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	loc := cfg.GameDayLocation
	repos := repositories{
		stats:     postgres.NewStatRepository(db),
		rules:     postgres.NewRulesRepository(db),
		ledger:    postgres.NewRosterRepository(db),
		picks:     postgres.NewRosterRepository(db),
		leagues:   postgres.NewLeagueRepository(db),
		teams:     postgres.NewTeamRepository(db),
		standings: postgres.NewStandingsReader(db, loc),
		lineup:    postgres.NewLineupRepository(db),
	}

	services := build(cfg, repos, logger)
	services.close = db.Close
	logger.Info("services wired", "store", "postgres", "db", dsn(cfg.DBURL).database())
	return services, nil
}

// Open wires the backend cfg.Store names. A memory store is seeded from
// cfg.SeedFile when one is set.
func Open(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, error) {
	if cfg.Store != config.StoreMemory {
		return New(ctx, cfg, logger)
	}

	mem := memory.NewDB(cfg.GameDayLocation)
	if cfg.SeedFile != "" {
		if err := seed(mem, cfg.SeedFile); err != nil {
			return nil, err
		}
	}
	services := NewInMemory(cfg, mem, logger)
	if logger != nil {
		logger.Info("services wired", "store", config.StoreMemory, "seed", cfg.SeedFile)
	}
	return services, nil
}

func seed(mem *memory.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	if err := memory.LoadFixture(mem, f); err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	return nil
}

// NewInMemory wires the services over an in-memory store.
func NewInMemory(cfg config.Config, mem *memory.DB, logger *logging.Logger) *Services {
	repos := repositories{
		stats:     memory.NewStatRepository(mem),
		rules:     memory.NewRulesRepository(mem),
		ledger:    memory.NewRosterRepository(mem),
		picks:     memory.NewRosterRepository(mem),
		leagues:   memory.NewLeagueRepository(mem),
		teams:     memory.NewTeamRepository(mem),
		standings: memory.NewStandingsReader(mem),
		lineup:    memory.NewLineupRepository(mem),
	}
	return build(cfg, repos, logger)
}

func build(cfg config.Config, repos repositories, logger *logging.Logger) *Services {
	if logger == nil {
		logger = logging.Default()
	}

	collector := metrics.NewCollector()
	var store *basecache.Store
	if cfg.CacheEnabled {
		store = basecache.NewStore(cfg.CacheTTL, basecache.WithObserver(collector))
	}
	leagues := cache.NewLeagueRepository(repos.leagues, store)

	return &Services{
		Scoring: usecase.NewScoringService(
			repos.stats,
			repos.rules,
			usecase.ScoringConfig{BatchSize: cfg.ScoringBatchSize, StrictTiers: cfg.ScoringStrictTiers},
			logger.Named("scoring"),
			collector,
		),
		Roster: usecase.NewRosterLedgerService(
			repos.ledger,
			repos.picks,
			cfg.GameDayLocation,
			logger.Named("roster"),
			collector,
		),
		Standings: usecase.NewStandingsService(
			leagues,
			repos.teams,
			repos.standings,
			store,
			usecase.StandingsConfig{
				CaptainMultiplier: cfg.CaptainMultiplier,
				Location:          cfg.GameDayLocation,
				WarmWorkers:       cfg.WorkerPoolSize,
			},
			logger.Named("standings"),
		),
		Lineup: usecase.NewLineupService(
			repos.lineup,
			usecase.LineupConfig{Location: cfg.GameDayLocation, Boundary: cfg.GameNightBoundary},
			logger.Named("lineup"),
		),
		Metrics: collector,
	}
}

func (s *Services) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}
