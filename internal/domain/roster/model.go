package roster

import "strings"

// Board is the daily slate from the picks provider: grouped player lists
// plus the provider's availability window and season markers.
type Board struct {
	DateTimeAvailable string
	Season            string
	SeasonType        string
	Lists             []PlayerList
}

// PlayerList is one provider group of selectable players.
type PlayerList struct {
	ID      int
	Players []Player
}

// Player is one selectable skater on the daily slate.
type Player struct {
	NHLPlayerID  int64
	FirstName    string
	LastName     string
	FullName     string
	TeamCode     string
	OpponentTeam string
	Position     string
	Line         *string
	PPLine       *string
	Unavailable  bool
}

// DisplayName prefers the provider's full name and falls back to assembling
// first/last, then "Unknown".
func (p Player) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name != "" {
		return name
	}
	return "Unknown"
}

// PlayerMap indexes every listed player by NHL player id for selection
// validation.
func (b Board) PlayerMap() map[int64]Player {
	out := make(map[int64]Player)
	for _, list := range b.Lists {
		for _, player := range list.Players {
			if player.NHLPlayerID > 0 {
				out[player.NHLPlayerID] = player
			}
		}
	}
	return out
}
