package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/betfaro/betstats/external/apifootball"
	"github.com/betfaro/betstats/external/openai"
	"github.com/betfaro/betstats/internal/config"
	"github.com/betfaro/betstats/internal/infrastructure/repository/postgres"
	"github.com/betfaro/betstats/internal/interfaces/httpapi"
	"github.com/betfaro/betstats/internal/interfaces/telegram"
	"github.com/betfaro/betstats/internal/platform/cache"
	"github.com/betfaro/betstats/internal/platform/logging"
	"github.com/betfaro/betstats/internal/platform/resilience"
	"github.com/betfaro/betstats/internal/usecase"
)

// App wires configuration into the use cases and their serving surfaces.
type App struct {
	Config     config.Config
	Logger     *logging.Logger
	Analysis   *usecase.AnalysisService
	DailyPicks *usecase.DailyPicksService
	Snapshots  *postgres.PickSnapshotRepository
	db         *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{Config: cfg, Logger: logger}

	if cfg.DBEnabled {
		db, err := openDB(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.Snapshots = postgres.NewPickSnapshotRepository(db)
	}

	// Zero from config means retries disabled; the client treats zero as
	// unset and negative as none.
	maxRetries := cfg.APIFootballMaxRetries
	if maxRetries == 0 {
		maxRetries = -1
	}

	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.APIFootballBaseURL,
		APIKey:     cfg.APIFootballAPIKey,
		Timeout:    cfg.APIFootballTimeout,
		MaxRetries: maxRetries,
		CacheTTL:   cfg.APIFootballCacheTTL,
		Cache:      cache.NewStore(),
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})

	var parsers []usecase.IntentParser
	if cfg.OpenAIEnabled {
		parsers = append(parsers, openai.NewClient(openai.ClientConfig{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.OpenAITimeout,
			Logger:  logger,
		}))
	}
	parsers = append(parsers, usecase.HeuristicParser{})
	parser := usecase.NewCachingParser(usecase.NewParserChain(parsers...), cache.NewStore())

	resolver := usecase.NewResolverService(provider, logger)
	a.Analysis = usecase.NewAnalysisService(parser, resolver, provider, logger)

	var recorder usecase.PickSnapshotRecorder
	if a.Snapshots != nil {
		recorder = a.Snapshots
	}
	a.DailyPicks = usecase.NewDailyPicksService(provider, cache.NewStore(), recorder, cfg.DailyPicksWorkers, logger)

	return a, nil
}

// HTTPServer builds the REST surface around the wired use cases.
func (a *App) HTTPServer() (*http.Server, error) {
	if a.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var snapshots httpapi.SnapshotReader
	if a.Snapshots != nil {
		snapshots = a.Snapshots
	}

	handler := httpapi.NewHandler(a.Analysis, a.DailyPicks, snapshots, a.Logger)
	router := httpapi.NewRouter(handler, a.Logger, a.Config.SwaggerEnabled, a.Config.CORSAllowedOrigins)

	return &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}, nil
}

// TelegramBot builds the chat surface. Returns nil when the bot is disabled.
func (a *App) TelegramBot() (*telegram.Bot, error) {
	if !a.Config.TelegramEnabled {
		return nil, nil
	}
	return telegram.NewBot(a.Config.TelegramToken, a.Analysis, a.DailyPicks, a.Logger)
}

// Close releases held resources. Safe to call once regardless of which
// optional components were enabled.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
