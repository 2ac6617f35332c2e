package nhl

import (
	"strings"
	"time"

	"github.com/hockeypikk/hockeypikk/internal/domain/stats"
)

const topLeagueAbbrev = "NHL"

// buildSeasonStats flattens a player landing payload. Season-scoped fields
// stay nil when the featured season or its totals row is missing; the last-5
// aggregates sum whatever entries are present, short lists included.
func buildSeasonStats(payload landingPayload) stats.PlayerSeasonStats {
	out := stats.PlayerSeasonStats{}

	seasonID, seasonKnown := payload.FeaturedStats.Season.value, payload.FeaturedStats.Season.valid
	if seasonKnown {
		sub := payload.FeaturedStats.RegularSeason.SubSeason
		out.SeasonGamesPlayed = sub.GamesPlayed.ptr()
		out.SeasonGoals = sub.Goals.ptr()
		out.SeasonAssists = sub.Assists.ptr()
		out.SeasonPoints = sub.Points.ptr()
		out.SeasonShots = sub.Shots.ptr()
		out.SeasonPowerPlayPoints = sub.PowerPlayPoints.ptr()
		out.SeasonShootingPct = sub.ShootingPctg.ptr()

		if row, ok := findSeasonTotalRow(payload.SeasonTotals, seasonID); ok {
			if avg := strings.TrimSpace(row.AvgTOI); avg != "" {
				out.SeasonAvgTOI = &avg
			}
			out.SeasonFaceoffPct = row.FaceoffWinningPct.ptr()
		}
	}

	for _, game := range payload.Last5Games {
		out.Last5Games++
		if game.Goals.valid {
			out.Last5Goals += game.Goals.value
		}
		if game.Points.valid {
			out.Last5Points += game.Points.value
		}
		if game.Shots.valid {
			out.Last5Shots += game.Shots.value
		}
	}

	return out
}

func findSeasonTotalRow(rows []seasonTotalRow, seasonID int) (seasonTotalRow, bool) {
	for _, row := range rows {
		if !strings.EqualFold(strings.TrimSpace(row.LeagueAbbrev), topLeagueAbbrev) {
			continue
		}
		if !row.GameTypeID.valid || row.GameTypeID.value != stats.GameTypeRegularSeason {
			continue
		}
		if !row.Season.valid || row.Season.value != seasonID {
			continue
		}
		return row, true
	}
	return seasonTotalRow{}, false
}

func buildGameLog(payload gameLogPayload) []stats.GameLogEntry {
	out := make([]stats.GameLogEntry, 0, len(payload.GameLog))
	for _, row := range payload.GameLog {
		date := strings.TrimSpace(row.GameDate)
		if date == "" {
			continue
		}
		goals := 0
		if row.Goals.valid {
			goals = row.Goals.value
		}
		out = append(out, stats.GameLogEntry{GameDate: date, Goals: goals})
	}
	return out
}

// finalGameStates are the states the schedule API uses for finished games.
var finalGameStates = map[string]struct{}{
	"OFF":   {},
	"FINAL": {},
}

func isFinalState(state string) bool {
	_, ok := finalGameStates[strings.ToUpper(strings.TrimSpace(state))]
	return ok
}

func isOvertimeLoss(lastPeriodType string) bool {
	switch strings.ToUpper(strings.TrimSpace(lastPeriodType)) {
	case "OT", "SO":
		return true
	default:
		return false
	}
}

// buildHeadToHead scans a team's full season schedule and keeps only
// finished regular-season games against the opponent.
func buildHeadToHead(payload clubSchedulePayload, teamCode, opponentCode string) stats.HeadToHeadRecord {
	record := stats.HeadToHeadRecord{}
	for _, game := range payload.Games {
		if !game.GameType.valid || game.GameType.value != stats.GameTypeRegularSeason {
			continue
		}
		if !isFinalState(game.GameState) {
			continue
		}

		home := strings.ToUpper(strings.TrimSpace(game.HomeTeam.Abbrev))
		away := strings.ToUpper(strings.TrimSpace(game.AwayTeam.Abbrev))

		var teamScore, oppScore flexInt
		switch {
		case home == teamCode && away == opponentCode:
			teamScore, oppScore = game.HomeTeam.Score, game.AwayTeam.Score
		case away == teamCode && home == opponentCode:
			teamScore, oppScore = game.AwayTeam.Score, game.HomeTeam.Score
		default:
			continue
		}
		if !teamScore.valid || !oppScore.valid {
			continue
		}

		switch {
		case teamScore.value > oppScore.value:
			record.Wins++
		case isOvertimeLoss(game.GameOutcome.LastPeriodType):
			record.OTLosses++
		default:
			record.Losses++
		}
	}
	return record
}

// firstPuckDrop returns the earliest valid start time among that day's
// regular season and playoff games, or "" when the day has none.
func firstPuckDrop(payload dateSchedulePayload, dateKey string) string {
	earliest := ""
	var earliestAt time.Time
	for _, day := range payload.GameWeek {
		if strings.TrimSpace(day.Date) != dateKey {
			continue
		}
		for _, game := range day.Games {
			if !game.GameType.valid {
				continue
			}
			if game.GameType.value != stats.GameTypeRegularSeason && game.GameType.value != stats.GameTypePlayoffs {
				continue
			}
			start := strings.TrimSpace(game.StartTimeUTC)
			if start == "" {
				continue
			}
			startAt, err := time.Parse(time.RFC3339, start)
			if err != nil {
				continue
			}
			if earliest == "" || startAt.Before(earliestAt) {
				earliest = start
				earliestAt = startAt
			}
		}
	}
	return earliest
}
