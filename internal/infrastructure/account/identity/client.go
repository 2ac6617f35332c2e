package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hockeypikk/hockeypikk/internal/domain/user"
	"github.com/hockeypikk/hockeypikk/internal/usecase"
)

// Client verifies bearer tokens against the hosted identity provider's user
// endpoint. Verified principals are cached per token hash so a burst of
// requests from one session does not hammer the provider.
type Client struct {
	httpClient *http.Client
	userURL    string
	logger     *slog.Logger
	cache      *principalCache
}

func NewClient(httpClient *http.Client, baseURL string, cacheTTL time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		httpClient: httpClient,
		userURL:    buildURL(baseURL, "/auth/v1/user"),
		logger:     logger,
		cache:      newPrincipalCache(cacheTTL, defaultMaxCacheEntries),
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if principal, ok := c.cache.get(cacheKey); ok {
		return principal, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userURL, nil)
	if err != nil {
		return user.Principal{}, fmt.Errorf("create user request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("request identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: token rejected", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, fmt.Errorf("read identity response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "identity provider non-200",
			"status_code", resp.StatusCode,
		)
		return user.Principal{}, fmt.Errorf("identity lookup failed with status %d", resp.StatusCode)
	}

	var decoded userResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal identity response: %w", err)
	}
	if strings.TrimSpace(decoded.ID) == "" {
		return user.Principal{}, fmt.Errorf("invalid identity response: id is empty")
	}

	principal := user.Principal{
		UserID:      decoded.ID,
		Email:       decoded.Email,
		DisplayName: strings.TrimSpace(decoded.UserMetadata.DisplayName),
	}
	c.cache.set(cacheKey, principal)
	return principal, nil
}

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		DisplayName string `json:"display_name"`
	} `json:"user_metadata"`
}
