package stats

// PlayerSeasonStats is the flattened snapshot built from the NHL player
// landing payload. Season-scoped fields are pointers because the upstream
// payload omits them for players without a featured season row; nil means
// "unknown", never zero.
type PlayerSeasonStats struct {
	SeasonGamesPlayed     *int     `json:"seasonGamesPlayed"`
	SeasonGoals           *int     `json:"seasonGoals"`
	SeasonAssists         *int     `json:"seasonAssists"`
	SeasonPoints          *int     `json:"seasonPoints"`
	SeasonShots           *int     `json:"seasonShots"`
	SeasonPowerPlayPoints *int     `json:"seasonPowerPlayPoints"`
	SeasonShootingPct     *float64 `json:"seasonShootingPct"`
	SeasonAvgTOI          *string  `json:"seasonAvgToi"`
	SeasonFaceoffPct      *float64 `json:"seasonFaceoffPct"`
	Last5Games            int      `json:"last5Games"`
	Last5Goals            int      `json:"last5Goals"`
	Last5Points           int      `json:"last5Points"`
	Last5Shots            int      `json:"last5Shots"`
}

// Game types used by the NHL stats API.
const (
	GameTypeRegularSeason = 2
	GameTypePlayoffs      = 3
)

// GameLogEntry is one game row from a player's per-season game log.
type GameLogEntry struct {
	GameDate string
	Goals    int
}

// GoalOutcome reports whether a player played on a given date and how many
// goals they scored. Played=false with no error means the logs were fetched
// and confirm there was no game that date.
type GoalOutcome struct {
	Goals      int  `json:"goals"`
	Played     bool `json:"played"`
	GameTypeID int  `json:"gameTypeId"`
}

// HeadToHeadRecord is one team's season record against a single opponent,
// regular-season finals only. Overtime and shootout losses count as
// OTLosses, not Losses.
type HeadToHeadRecord struct {
	Wins     int `json:"wins"`
	Losses   int `json:"losses"`
	OTLosses int `json:"otLosses"`
}

// GoalsForDateQuery identifies one (player, date) outcome lookup.
type GoalsForDateQuery struct {
	PlayerID int64
	DateKey  string
	SeasonID string
}

// HeadToHeadQuery identifies one (team, opponent, season) record lookup.
type HeadToHeadQuery struct {
	TeamCode     string
	OpponentCode string
	SeasonID     string
}
