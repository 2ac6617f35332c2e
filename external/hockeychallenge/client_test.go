package hockeychallenge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hockeypikk/hockeypikk/internal/platform/logging"
)

const slatePayload = `{
	"dateTimeAvailable": "2024-01-08T16:00:00Z",
	"season": "20232024",
	"seasonType": "regular",
	"playerLists": [
		{"listId": 1, "players": [
			{"nhlPlayerId": 8478402, "firstName": "Connor", "lastName": "McDavid", "fullName": "Connor McDavid", "team": "edm", "opponentTeam": "cgy", "position": "C", "line": "1", "ppLine": "1"},
			{"nhlPlayerId": 0, "fullName": "No Id"}
		]},
		{"listId": 2, "players": [
			{"nhlPlayerId": 8477934, "fullName": "Leon Draisaitl", "team": "EDM", "opponentTeam": "CGY", "position": "C", "unavailable": true}
		]}
	]
}`

func TestGetPicks_CachesSlateWithinTTL(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/picks" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(slatePayload))
	}))
	t.Cleanup(server.Close)

	now := time.Unix(1700000000, 0)
	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		CacheTTL:   5 * time.Minute,
		Logger:     logging.NewNop(),
		Clock:      func() time.Time { return now },
	})

	board, err := client.GetPicks(context.Background(), false)
	if err != nil {
		t.Fatalf("GetPicks error: %v", err)
	}
	if board.Season != "20232024" || len(board.Lists) != 2 {
		t.Fatalf("unexpected board: %+v", board)
	}
	if len(board.Lists[0].Players) != 1 {
		t.Fatalf("expected id-less players dropped, got=%d", len(board.Lists[0].Players))
	}
	if got := board.Lists[0].Players[0].TeamCode; got != "EDM" {
		t.Fatalf("expected uppercased team code, got=%q", got)
	}

	if _, err := client.GetPicks(context.Background(), false); err != nil {
		t.Fatalf("second GetPicks error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected cache hit inside TTL, calls=%d", got)
	}

	now = now.Add(6 * time.Minute)
	if _, err := client.GetPicks(context.Background(), false); err != nil {
		t.Fatalf("post-expiry GetPicks error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected refetch after TTL, calls=%d", got)
	}
}

func TestGetPicks_ForceRefreshBypassesCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(slatePayload))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     logging.NewNop(),
	})

	if _, err := client.GetPicks(context.Background(), false); err != nil {
		t.Fatalf("GetPicks error: %v", err)
	}
	if _, err := client.GetPicks(context.Background(), true); err != nil {
		t.Fatalf("forced GetPicks error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected force refresh to hit upstream, calls=%d", got)
	}
}

func TestGetPicks_SendsBrowserHeaders(t *testing.T) {
	t.Parallel()

	var gotOrigin, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOrigin = r.Header.Get("Origin")
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(slatePayload))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     logging.NewNop(),
	})

	if _, err := client.GetPicks(context.Background(), false); err != nil {
		t.Fatalf("GetPicks error: %v", err)
	}
	if gotOrigin != defaultOrigin {
		t.Fatalf("unexpected origin header %q", gotOrigin)
	}
	if gotAgent == "" {
		t.Fatalf("expected a browser user agent header")
	}
}
