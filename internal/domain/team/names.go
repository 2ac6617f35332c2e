package team

import "strings"

var namesByCode = map[string]string{
	"ANA": "Anaheim Ducks",
	"ARI": "Arizona Coyotes",
	"BOS": "Boston Bruins",
	"BUF": "Buffalo Sabres",
	"CAR": "Carolina Hurricanes",
	"CBJ": "Columbus Blue Jackets",
	"CGY": "Calgary Flames",
	"CHI": "Chicago Blackhawks",
	"COL": "Colorado Avalanche",
	"DAL": "Dallas Stars",
	"DET": "Detroit Red Wings",
	"EDM": "Edmonton Oilers",
	"FLA": "Florida Panthers",
	"LAK": "Los Angeles Kings",
	"MIN": "Minnesota Wild",
	"MTL": "Montreal Canadiens",
	"NJD": "New Jersey Devils",
	"NSH": "Nashville Predators",
	"NYI": "New York Islanders",
	"NYR": "New York Rangers",
	"OTT": "Ottawa Senators",
	"PHI": "Philadelphia Flyers",
	"PIT": "Pittsburgh Penguins",
	"SEA": "Seattle Kraken",
	"SJS": "San Jose Sharks",
	"STL": "St. Louis Blues",
	"TBL": "Tampa Bay Lightning",
	"TOR": "Toronto Maple Leafs",
	"UTA": "Utah Hockey Club",
	"VAN": "Vancouver Canucks",
	"VGK": "Vegas Golden Knights",
	"WPG": "Winnipeg Jets",
	"WSH": "Washington Capitals",
}

// Name resolves a three-letter NHL team code to its full franchise name.
// Unknown codes fall back to the code itself so display never goes blank.
func Name(code string) string {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if name, ok := namesByCode[normalized]; ok {
		return name
	}
	if code != "" {
		return code
	}
	return "Unknown"
}

// NormalizeCode uppercases and trims a team code for cache keys and
// schedule comparisons.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
