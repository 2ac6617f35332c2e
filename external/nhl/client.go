package nhl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/hockeypikk/hockeypikk/internal/domain/stats"
	"github.com/hockeypikk/hockeypikk/internal/platform/cache"
	"github.com/hockeypikk/hockeypikk/internal/platform/logging"
	"github.com/hockeypikk/hockeypikk/internal/platform/resilience"
	"github.com/hockeypikk/hockeypikk/internal/usecase"
)

const (
	defaultBaseURL   = "https://api-web.nhle.com/v1"
	defaultTimeout   = 8 * time.Second
	defaultCacheTTL  = time.Hour
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var errNHLTransient = crerr.New("nhl transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	CacheTTL       time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Clock          func() time.Time
}

// Client wraps the public NHL stats API behind four TTL caches, one per
// query shape. Each cache key is a composite of the lookup parameters, so
// e.g. a game log fetched for one date serves every other date in the same
// season without another upstream call.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool

	statsCache    *cache.Store
	gameLogCache  *cache.Store
	scheduleCache *cache.Store
	puckDropCache *cache.Store
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		statsCache:     cache.NewStoreWithClock(ttl, clock),
		gameLogCache:   cache.NewStoreWithClock(ttl, clock),
		scheduleCache:  cache.NewStoreWithClock(ttl, clock),
		puckDropCache:  cache.NewStoreWithClock(ttl, clock),
	}
}

// GetPlayerStats returns the flattened season snapshot for one player.
func (c *Client) GetPlayerStats(ctx context.Context, playerID int64) (*stats.PlayerSeasonStats, error) {
	if playerID <= 0 {
		return nil, fmt.Errorf("%w: player id must be greater than zero", usecase.ErrInvalidInput)
	}

	key := fmt.Sprintf("stats:%d", playerID)
	out, err := c.statsCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		path := fmt.Sprintf("/player/%d/landing", playerID)
		var payload landingPayload
		if err := c.doJSON(ctx, path, &payload); err != nil {
			return nil, fmt.Errorf("fetch player landing player_id=%d: %w", playerID, err)
		}
		built := buildSeasonStats(payload)
		return &built, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}

	snapshot, ok := out.(*stats.PlayerSeasonStats)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", out)
	}
	return snapshot, nil
}

// GetPlayerGameLog returns every game row for one (player, season, game
// type) triple. The full list is cached as a unit.
func (c *Client) GetPlayerGameLog(ctx context.Context, playerID int64, seasonID string, gameType int) ([]stats.GameLogEntry, error) {
	seasonID = strings.TrimSpace(seasonID)
	if playerID <= 0 || seasonID == "" {
		return nil, fmt.Errorf("%w: player id and season id are required", usecase.ErrInvalidInput)
	}
	if gameType != stats.GameTypeRegularSeason && gameType != stats.GameTypePlayoffs {
		return nil, fmt.Errorf("%w: unsupported game type %d", usecase.ErrInvalidInput, gameType)
	}

	key := fmt.Sprintf("gamelog:%d:%s:%d", playerID, seasonID, gameType)
	out, err := c.gameLogCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		path := fmt.Sprintf("/player/%d/game-log/%s/%d", playerID, seasonID, gameType)
		var payload gameLogPayload
		if err := c.doJSON(ctx, path, &payload); err != nil {
			return nil, fmt.Errorf("fetch game log player_id=%d season=%s game_type=%d: %w", playerID, seasonID, gameType, err)
		}
		return buildGameLog(payload), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}

	entries, ok := out.([]stats.GameLogEntry)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", out)
	}
	return entries, nil
}

// GetPlayerGoalsForDate searches the regular-season log first, then the
// playoff log. A non-nil outcome with Played=false means at least one log
// was fetched and neither contains the date: a confirmed no-game, distinct
// from the nil-and-error case where the data could not be obtained.
func (c *Client) GetPlayerGoalsForDate(ctx context.Context, query stats.GoalsForDateQuery) (*stats.GoalOutcome, error) {
	dateKey := strings.TrimSpace(query.DateKey)
	seasonID := strings.TrimSpace(query.SeasonID)
	if query.PlayerID <= 0 || dateKey == "" || seasonID == "" {
		return nil, fmt.Errorf("%w: player id, date key, and season id are required", usecase.ErrInvalidInput)
	}

	fetchedAny := false
	for _, gameType := range []int{stats.GameTypeRegularSeason, stats.GameTypePlayoffs} {
		entries, err := c.GetPlayerGameLog(ctx, query.PlayerID, seasonID, gameType)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.WarnContext(ctx, "game log lookup failed, continuing with next game type",
				"player_id", query.PlayerID,
				"season_id", seasonID,
				"game_type", gameType,
				"error", err,
			)
			continue
		}
		fetchedAny = true
		for _, entry := range entries {
			if entry.GameDate == dateKey {
				return &stats.GoalOutcome{Goals: entry.Goals, Played: true, GameTypeID: gameType}, nil
			}
		}
	}

	if !fetchedAny {
		return nil, fmt.Errorf("%w: no game log could be fetched for player_id=%d season=%s", usecase.ErrDependencyUnavailable, query.PlayerID, seasonID)
	}
	return &stats.GoalOutcome{Goals: 0, Played: false}, nil
}

// GetTeamRecordVsOpponent fetches one team's full season schedule and
// filters it locally to finished regular-season games against the opponent.
func (c *Client) GetTeamRecordVsOpponent(ctx context.Context, query stats.HeadToHeadQuery) (*stats.HeadToHeadRecord, error) {
	teamCode := strings.ToUpper(strings.TrimSpace(query.TeamCode))
	opponentCode := strings.ToUpper(strings.TrimSpace(query.OpponentCode))
	seasonID := strings.TrimSpace(query.SeasonID)
	if teamCode == "" || opponentCode == "" || seasonID == "" {
		return nil, fmt.Errorf("%w: team code, opponent code, and season id are required", usecase.ErrInvalidInput)
	}

	key := fmt.Sprintf("schedule:%s:%s", teamCode, seasonID)
	out, err := c.scheduleCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		path := fmt.Sprintf("/club-schedule-season/%s/%s", teamCode, seasonID)
		var payload clubSchedulePayload
		if err := c.doJSON(ctx, path, &payload); err != nil {
			return nil, fmt.Errorf("fetch club schedule team=%s season=%s: %w", teamCode, seasonID, err)
		}
		return payload, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}

	payload, ok := out.(clubSchedulePayload)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", out)
	}
	record := buildHeadToHead(payload, teamCode, opponentCode)
	return &record, nil
}

// GetFirstGameStartTime returns the earliest puck drop for the date as a
// UTC ISO string, or "" with a nil error when the day has no eligible game.
func (c *Client) GetFirstGameStartTime(ctx context.Context, dateKey string) (string, error) {
	dateKey = strings.TrimSpace(dateKey)
	if dateKey == "" {
		return "", fmt.Errorf("%w: date key is required", usecase.ErrInvalidInput)
	}

	key := "firstgame:" + dateKey
	out, err := c.puckDropCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		path := "/schedule/" + dateKey
		var payload dateSchedulePayload
		if err := c.doJSON(ctx, path, &payload); err != nil {
			return nil, fmt.Errorf("fetch schedule date=%s: %w", dateKey, err)
		}
		return firstPuckDrop(payload, dateKey), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}

	start, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("unexpected cached payload type %T", out)
	}
	return start, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "nhl circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	raw, err := c.executeRequest(ctx, c.baseURL+path)
	if c.circuitEnabled {
		if err != nil && crerr.Is(err, errNHLTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode upstream payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", defaultUserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errNHLTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errNHLTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: upstream status=%d body=%s", errNHLTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("upstream status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("upstream request failed")
	}
	c.logger.WarnContext(ctx, "nhl request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
