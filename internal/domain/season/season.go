package season

import (
	"regexp"
	"strconv"
	"time"
)

var dateKeyRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IDForDate maps a calendar date key (YYYY-MM-DD) to the NHL season
// identifier the stats API expects, e.g. "20242025". Seasons roll over on
// July 1: a June date still belongs to the season that started the prior
// year. Returns ok=false on malformed input.
func IDForDate(dateKey string) (string, bool) {
	if !dateKeyRegex.MatchString(dateKey) {
		return "", false
	}

	year, err := strconv.Atoi(dateKey[:4])
	if err != nil {
		return "", false
	}
	month, err := strconv.Atoi(dateKey[5:7])
	if err != nil || month < 1 || month > 12 {
		return "", false
	}

	startYear := year
	if month < 7 {
		startYear = year - 1
	}

	return strconv.Itoa(startYear) + strconv.Itoa(startYear+1), true
}

// TodayKey returns the current calendar date key in the server's local zone.
func TodayKey(now func() time.Time) string {
	if now == nil {
		now = time.Now
	}
	return now().Format("2006-01-02")
}

// Compare classifies dateKey relative to todayKey. Negative means the date is
// in the past, zero means today, positive means the future. Both inputs must
// already be date keys; lexicographic order matches chronological order.
func Compare(dateKey, todayKey string) int {
	switch {
	case dateKey < todayKey:
		return -1
	case dateKey > todayKey:
		return 1
	default:
		return 0
	}
}
