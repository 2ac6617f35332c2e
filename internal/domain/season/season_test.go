package season

import (
	"testing"
	"time"
)

func TestIDForDate_JulyBoundary(t *testing.T) {
	t.Parallel()

	cases := []struct {
		dateKey string
		want    string
	}{
		{"2024-06-30", "20232024"},
		{"2024-07-01", "20242025"},
		{"2024-01-08", "20232024"},
		{"2024-12-31", "20242025"},
		{"2023-10-10", "20232024"},
	}

	for _, tc := range cases {
		got, ok := IDForDate(tc.dateKey)
		if !ok {
			t.Fatalf("IDForDate(%q) not ok", tc.dateKey)
		}
		if got != tc.want {
			t.Fatalf("IDForDate(%q) = %q, want %q", tc.dateKey, got, tc.want)
		}
	}
}

func TestIDForDate_Malformed(t *testing.T) {
	t.Parallel()

	for _, dateKey := range []string{"", "2024", "2024-7-1", "20240701", "yyyy-mm-dd", "2024-13-01"} {
		if got, ok := IDForDate(dateKey); ok {
			t.Fatalf("IDForDate(%q) = %q, want not ok", dateKey, got)
		}
	}
}

func TestTodayKey_UsesClock(t *testing.T) {
	t.Parallel()

	now := func() time.Time {
		return time.Date(2024, time.January, 8, 23, 30, 0, 0, time.UTC)
	}
	if got := TodayKey(now); got != "2024-01-08" {
		t.Fatalf("TodayKey = %q, want 2024-01-08", got)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	if Compare("2024-01-07", "2024-01-08") >= 0 {
		t.Fatal("yesterday should compare negative")
	}
	if Compare("2024-01-08", "2024-01-08") != 0 {
		t.Fatal("same day should compare zero")
	}
	if Compare("2024-01-09", "2024-01-08") <= 0 {
		t.Fatal("tomorrow should compare positive")
	}
}
