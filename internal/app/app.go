package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hockeypikk/hockeypikk/external/hockeychallenge"
	"github.com/hockeypikk/hockeypikk/external/nhl"
	"github.com/hockeypikk/hockeypikk/internal/config"
	"github.com/hockeypikk/hockeypikk/internal/domain/board"
	"github.com/hockeypikk/hockeypikk/internal/domain/friend"
	"github.com/hockeypikk/hockeypikk/internal/domain/pick"
	"github.com/hockeypikk/hockeypikk/internal/domain/suggestion"
	"github.com/hockeypikk/hockeypikk/internal/infrastructure/account/identity"
	"github.com/hockeypikk/hockeypikk/internal/infrastructure/repository/memory"
	"github.com/hockeypikk/hockeypikk/internal/infrastructure/repository/postgres"
	"github.com/hockeypikk/hockeypikk/internal/interfaces/httpapi"
	idgen "github.com/hockeypikk/hockeypikk/internal/platform/id"
	"github.com/hockeypikk/hockeypikk/internal/platform/logging"
	"github.com/hockeypikk/hockeypikk/internal/platform/resilience"
	"github.com/hockeypikk/hockeypikk/internal/usecase"
)

type repositories struct {
	boards      board.Repository
	picks       pick.Repository
	suggestions suggestion.Repository
	friends     friend.Repository
}

// NewHTTPServer wires the full service: upstream clients, repositories,
// services, and the HTTP router. An empty DB_URL falls back to in-memory
// repositories, which is how local development runs.
func NewHTTPServer(cfg config.Config, logger *slog.Logger, zlogger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if zlogger == nil {
		zlogger = logging.Default()
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	nhlClient := nhl.NewClient(nhl.ClientConfig{
		BaseURL:    cfg.NHLBaseURL,
		Timeout:    cfg.NHLTimeout,
		MaxRetries: cfg.NHLMaxRetries,
		CacheTTL:   cfg.NHLCacheTTL,
		Logger:     zlogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.NHLCircuitEnabled,
			FailureThreshold: cfg.NHLCircuitFailureCount,
			OpenTimeout:      cfg.NHLCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NHLCircuitHalfOpenMaxReq,
		},
	})

	rosterClient := hockeychallenge.NewClient(hockeychallenge.ClientConfig{
		BaseURL:  cfg.PicksProviderBaseURL,
		Timeout:  cfg.PicksProviderTimeout,
		CacheTTL: cfg.PicksProviderCacheTTL,
		Logger:   zlogger,
	})

	verifier := identity.NewClient(
		&http.Client{Timeout: cfg.IdentityTimeout},
		cfg.IdentityBaseURL,
		cfg.IdentityCacheTTL,
		logger,
	)

	idGenerator := idgen.NewRandomGenerator()
	now := time.Now

	boardService := usecase.NewBoardService(repos.boards, repos.friends, nhlClient, idGenerator, zlogger, now)
	picksService := usecase.NewPicksService(rosterClient, nhlClient, boardService, repos.picks, idGenerator, zlogger, now)
	historyService := usecase.NewHistoryService(repos.boards, repos.picks, nhlClient, zlogger, now, cfg.HistoryDefaultLimit)
	suggestionService := usecase.NewSuggestionService(
		boardService,
		repos.suggestions,
		repos.picks,
		repos.friends,
		rosterClient,
		nhlClient,
		idGenerator,
		zlogger,
		now,
	)

	handler := httpapi.NewHandler(boardService, picksService, historyService, suggestionService, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("no DB_URL configured, using in-memory repositories")
		return repositories{
			boards:      memory.NewBoardRepository(),
			picks:       memory.NewPickRepository(),
			suggestions: memory.NewSuggestionRepository(),
			friends:     memory.NewFriendRepository(),
		}, nil
	}

	db, err := openDatabase(cfg.DBURL)
	if err != nil {
		return repositories{}, fmt.Errorf("open database: %w", err)
	}

	logger.Info("connected to postgres", "db_name", dbNameFromURL(cfg.DBURL))
	return repositories{
		boards:      postgres.NewBoardRepository(db),
		picks:       postgres.NewPickRepository(db),
		suggestions: postgres.NewSuggestionRepository(db),
		friends:     postgres.NewFriendRepository(db),
	}, nil
}
