package hockeychallenge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"golang.org/x/sync/singleflight"

	"github.com/hockeypikk/hockeypikk/internal/domain/roster"
	"github.com/hockeypikk/hockeypikk/internal/platform/logging"
	"github.com/hockeypikk/hockeypikk/internal/usecase"
)

const (
	defaultBaseURL  = "https://hockeychallengehelper.com/api"
	defaultTimeout  = 8 * time.Second
	defaultCacheTTL = 5 * time.Minute
	defaultOrigin   = "https://hockeychallengehelper.com"
	userAgent       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	CacheTTL   time.Duration
	Logger     *logging.Logger
	Clock      func() time.Time
}

// Client fetches the daily slate from the picks provider. The slate is a
// single logical value, so the cache is one slot with its own TTL rather
// than a keyed store.
type Client struct {
	httpClient *http.Client
	baseURL    string
	ttl        time.Duration
	logger     *logging.Logger
	now        func() time.Time
	flight     singleflight.Group

	mu        sync.RWMutex
	cached    *roster.Board
	expiresAt time.Time
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

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		ttl:        ttl,
		logger:     logger,
		now:        clock,
	}
}

// GetPicks returns the current slate, refetching once the cached copy is
// older than the TTL. forceRefresh bypasses the cached copy but still
// populates it on success.
func (c *Client) GetPicks(ctx context.Context, forceRefresh bool) (*roster.Board, error) {
	if !forceRefresh {
		if board := c.freshCopy(); board != nil {
			return board, nil
		}
	}

	out, err, _ := c.flight.Do("picks", func() (any, error) {
		board, err := c.fetchPicks(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cached = board
		c.expiresAt = c.now().Add(c.ttl)
		c.mu.Unlock()
		return board, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}

	board, ok := out.(*roster.Board)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", out)
	}
	return board, nil
}

func (c *Client) freshCopy() *roster.Board {
	now := c.now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cached == nil || !c.expiresAt.After(now) {
		return nil
	}
	return c.cached
}

func (c *Client) fetchPicks(ctx context.Context) (*roster.Board, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/picks", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Origin", defaultOrigin)
	req.Header.Set("Referer", defaultOrigin+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := strings.TrimSpace(string(raw))
		if len(body) > 256 {
			body = body[:256] + "..."
		}
		c.logger.WarnContext(ctx, "picks provider request failed", "status", resp.StatusCode)
		return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, body)
	}

	var payload picksPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode picks payload: %w", err)
	}

	board := buildBoard(payload)
	return &board, nil
}

type picksPayload struct {
	DateTimeAvailable string              `json:"dateTimeAvailable"`
	Season            string              `json:"season"`
	SeasonType        string              `json:"seasonType"`
	PlayerLists       []playerListPayload `json:"playerLists"`
}

type playerListPayload struct {
	ListID  int             `json:"listId"`
	Players []playerPayload `json:"players"`
}

type playerPayload struct {
	NHLPlayerID  int64   `json:"nhlPlayerId"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	FullName     string  `json:"fullName"`
	Team         string  `json:"team"`
	OpponentTeam string  `json:"opponentTeam"`
	Position     string  `json:"position"`
	Line         *string `json:"line"`
	PPLine       *string `json:"ppLine"`
	Unavailable  bool    `json:"unavailable"`
}

func buildBoard(payload picksPayload) roster.Board {
	board := roster.Board{
		DateTimeAvailable: strings.TrimSpace(payload.DateTimeAvailable),
		Season:            strings.TrimSpace(payload.Season),
		SeasonType:        strings.TrimSpace(payload.SeasonType),
		Lists:             make([]roster.PlayerList, 0, len(payload.PlayerLists)),
	}

	for _, list := range payload.PlayerLists {
		players := make([]roster.Player, 0, len(list.Players))
		for _, player := range list.Players {
			if player.NHLPlayerID <= 0 {
				continue
			}
			players = append(players, roster.Player{
				NHLPlayerID:  player.NHLPlayerID,
				FirstName:    strings.TrimSpace(player.FirstName),
				LastName:     strings.TrimSpace(player.LastName),
				FullName:     strings.TrimSpace(player.FullName),
				TeamCode:     strings.ToUpper(strings.TrimSpace(player.Team)),
				OpponentTeam: strings.ToUpper(strings.TrimSpace(player.OpponentTeam)),
				Position:     strings.TrimSpace(player.Position),
				Line:         player.Line,
				PPLine:       player.PPLine,
				Unavailable:  player.Unavailable,
			})
		}
		board.Lists = append(board.Lists, roster.PlayerList{
			ID:      list.ListID,
			Players: players,
		})
	}

	return board
}
