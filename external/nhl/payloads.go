package nhl

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// flexInt tolerates numbers, numeric strings, and null; anything else
// decodes as absent rather than failing the whole payload.
type flexInt struct {
	value int
	valid bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	parsed, ok := parseFlexNumber(data)
	if !ok {
		f.value, f.valid = 0, false
		return nil
	}
	f.value, f.valid = int(parsed), true
	return nil
}

func (f flexInt) ptr() *int {
	if !f.valid {
		return nil
	}
	v := f.value
	return &v
}

type flexFloat struct {
	value float64
	valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	parsed, ok := parseFlexNumber(data)
	if !ok {
		f.value, f.valid = 0, false
		return nil
	}
	f.value, f.valid = parsed, true
	return nil
}

func (f flexFloat) ptr() *float64 {
	if !f.valid {
		return nil
	}
	v := f.value
	return &v
}

func parseFlexNumber(data []byte) (float64, bool) {
	raw := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if raw == "" || raw == "null" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}
	return parsed, true
}

type landingPayload struct {
	FeaturedStats featuredStats    `json:"featuredStats"`
	SeasonTotals  []seasonTotalRow `json:"seasonTotals"`
	Last5Games    []last5GameRow   `json:"last5Games"`
}

type featuredStats struct {
	Season        flexInt `json:"season"`
	RegularSeason struct {
		SubSeason subSeasonStats `json:"subSeason"`
	} `json:"regularSeason"`
}

type subSeasonStats struct {
	GamesPlayed     flexInt   `json:"gamesPlayed"`
	Goals           flexInt   `json:"goals"`
	Assists         flexInt   `json:"assists"`
	Points          flexInt   `json:"points"`
	Shots           flexInt   `json:"shots"`
	PowerPlayPoints flexInt   `json:"powerPlayPoints"`
	ShootingPctg    flexFloat `json:"shootingPctg"`
}

type seasonTotalRow struct {
	Season            flexInt   `json:"season"`
	GameTypeID        flexInt   `json:"gameTypeId"`
	LeagueAbbrev      string    `json:"leagueAbbrev"`
	AvgTOI            string    `json:"avgToi"`
	FaceoffWinningPct flexFloat `json:"faceoffWinningPctg"`
}

type last5GameRow struct {
	Goals  flexInt `json:"goals"`
	Points flexInt `json:"points"`
	Shots  flexInt `json:"shots"`
}

type gameLogPayload struct {
	GameLog []gameLogRow `json:"gameLog"`
}

type gameLogRow struct {
	GameDate string  `json:"gameDate"`
	Goals    flexInt `json:"goals"`
}

type clubSchedulePayload struct {
	Games []clubScheduleGame `json:"games"`
}

type clubScheduleGame struct {
	GameType    flexInt           `json:"gameType"`
	GameState   string            `json:"gameState"`
	HomeTeam    scheduleTeamSide  `json:"homeTeam"`
	AwayTeam    scheduleTeamSide  `json:"awayTeam"`
	GameOutcome scheduleGameState `json:"gameOutcome"`
}

type scheduleTeamSide struct {
	Abbrev string  `json:"abbrev"`
	Score  flexInt `json:"score"`
}

type scheduleGameState struct {
	LastPeriodType string `json:"lastPeriodType"`
}

type dateSchedulePayload struct {
	GameWeek []dateScheduleDay `json:"gameWeek"`
}

type dateScheduleDay struct {
	Date  string              `json:"date"`
	Games []dateScheduleEntry `json:"games"`
}

type dateScheduleEntry struct {
	GameType     flexInt `json:"gameType"`
	StartTimeUTC string  `json:"startTimeUTC"`
}
