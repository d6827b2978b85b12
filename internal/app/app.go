package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/statlink/internal/config"
	"github.com/riskibarqy/statlink/internal/domain/matching"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	"github.com/riskibarqy/statlink/internal/domain/store"
	"github.com/riskibarqy/statlink/internal/infrastructure/eventstream"
	"github.com/riskibarqy/statlink/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/statlink/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/statlink/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/statlink/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/statlink/internal/platform/cache"
	"github.com/riskibarqy/statlink/internal/platform/logging"
	"github.com/riskibarqy/statlink/internal/usecase"
)

// App holds the wired services shared by the API server and the linker CLI.
type App struct {
	Ingestion *usecase.IngestionService
	Links     *usecase.LinkService
	Datasets  *usecase.DatasetService

	closers []func() error
	logger  *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	a := &App{logger: logger}

	uow, err := a.openStore(ctx, cfg)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}
	if cfg.CacheEnabled {
		uow = cache.NewUnitOfWork(uow, basecache.NewStore[[]playerstats.DatasetRow](cfg.CacheTTL))
	}

	teamResolver, playerResolver, err := buildResolvers(cfg, logger)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	var publisher usecase.LinkEventPublisher
	if cfg.RedisEnabled {
		redisPublisher, err := eventstream.NewRedisPublisher(ctx, eventstream.RedisPublisherConfig{
			URL:            cfg.RedisURL,
			Stream:         cfg.RedisLinkStream,
			MaxLen:         cfg.RedisStreamMaxLen,
			Timeout:        cfg.RedisTimeout,
			CircuitBreaker: cfg.RedisCircuit,
		}, logger)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("connect link event stream: %w", err), a.Close())
		}
		a.closers = append(a.closers, redisPublisher.Close)
		publisher = redisPublisher
	}

	upserts, err := usecase.NewUpsertService(teamResolver, logger)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}
	links, err := usecase.NewLinkService(uow, playerResolver, publisher, nil, cfg.LinkMaxWorkers, logger)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	a.Ingestion = usecase.NewIngestionService(uow, upserts, cfg.IngestMaxWorkers, logger)
	a.Links = links
	a.Datasets = usecase.NewDatasetService(uow, playerstats.ByTackles, logger)

	logger.Info("statlink services ready",
		"store_driver", cfg.StoreDriver,
		"cache_enabled", cfg.CacheEnabled,
		"redis_enabled", cfg.RedisEnabled,
		"match_scorer", cfg.MatchScorer,
		"team_threshold", cfg.TeamMatchThreshold,
		"player_threshold", cfg.PlayerMatchThreshold,
	)
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg config.Config) (store.UnitOfWork, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		a.logger.Warn("using in-memory store; data is lost on exit")
		return memory.NewStore(), nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	return postgres.NewStore(db), nil
}

func buildResolvers(cfg config.Config, logger *logging.Logger) (*matching.Resolver, *matching.Resolver, error) {
	table := matching.DefaultAliasTable()
	if cfg.AliasFile != "" {
		loaded, err := matching.LoadAliasFile(cfg.AliasFile)
		if err != nil {
			return nil, nil, err
		}
		table = loaded
		logger.Info("alias table loaded", "path", cfg.AliasFile, "teams", len(table.Teams), "players", len(table.Players))
	}

	registry, err := matching.NewRegistry(table)
	if err != nil {
		return nil, nil, fmt.Errorf("build alias registry: %w", err)
	}
	scorer, err := matching.NewScorer(cfg.MatchScorer)
	if err != nil {
		return nil, nil, err
	}

	teams, err := matching.NewResolver(matching.KindTeam, cfg.TeamMatchThreshold, registry, scorer)
	if err != nil {
		return nil, nil, fmt.Errorf("team resolver: %w", err)
	}
	players, err := matching.NewResolver(matching.KindPlayer, cfg.PlayerMatchThreshold, registry, scorer)
	if err != nil {
		return nil, nil, fmt.Errorf("player resolver: %w", err)
	}
	return teams, players, nil
}

// Close releases the store and the event stream in reverse open order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func NewHTTPServer(cfg config.Config, a *App, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(a.Ingestion, a.Links, a.Datasets, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}, nil
}
