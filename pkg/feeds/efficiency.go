// Package feeds supplies the situational inputs the engine folds into
// scoring: efficiency ratings, tennis surfaces, stadium weather, injury
// leverage, and NHL goalie status. The static tables are season
// snapshots; the HTTP feeds cache aggressively because the underlying
// data changes on hour scales, not poll scales.
package feeds

import "strings"

// UnknownGap is the efficiency gap assigned when either team is missing
// from the ratings table. Deliberately below the neutral 10.0 so unknown
// teams never inflate a score.
const UnknownGap = 8.0

// TeamRating is one team's adjusted efficiency margin on a common scale
// across leagues (net rating, EPA, and xG differentials are each
// rescaled onto it).
type TeamRating struct {
	AdjEM  float64
	League string
}

var teamRatings = map[string]TeamRating{
	// NBA, net rating rescaled.
	"Oklahoma City Thunder":  {28.0, "NBA"},
	"Boston Celtics":         {27.5, "NBA"},
	"Cleveland Cavaliers":    {24.6, "NBA"},
	"Minnesota Timberwolves": {21.6, "NBA"},
	"Denver Nuggets":         {19.0, "NBA"},
	"Houston Rockets":        {14.3, "NBA"},
	"Golden State Warriors":  {14.1, "NBA"},
	"Los Angeles Lakers":     {12.5, "NBA"},
	"Dallas Mavericks":       {12.5, "NBA"},
	"Memphis Grizzlies":      {11.4, "NBA"},
	"Indiana Pacers":         {10.6, "NBA"},
	"Milwaukee Bucks":        {9.0, "NBA"},
	"New York Knicks":        {7.9, "NBA"},
	"Los Angeles Clippers":   {7.3, "NBA"},
	"Sacramento Kings":       {6.6, "NBA"},
	"San Antonio Spurs":      {5.5, "NBA"},
	"Miami Heat":             {4.2, "NBA"},
	"Philadelphia 76ers":     {3.5, "NBA"},
	"Phoenix Suns":           {2.6, "NBA"},
	"New Orleans Pelicans":   {1.5, "NBA"},
	"Orlando Magic":          {1.1, "NBA"},
	"Chicago Bulls":          {-0.4, "NBA"},
	"Atlanta Hawks":          {-2.0, "NBA"},
	"Toronto Raptors":        {-5.1, "NBA"},
	"Brooklyn Nets":          {-14.3, "NBA"},
	"Detroit Pistons":        {-13.6, "NBA"},
	"Utah Jazz":              {-13.0, "NBA"},
	"Portland Trail Blazers": {-14.3, "NBA"},
	"Charlotte Hornets":      {-14.9, "NBA"},
	"Washington Wizards":     {-21.6, "NBA"},

	// NCAAB, AdjEM.
	"Duke":          {32.8, "NCAAB"},
	"Kansas":        {29.7, "NCAAB"},
	"UConn":         {26.7, "NCAAB"},
	"Houston":       {26.4, "NCAAB"},
	"Marquette":     {19.4, "NCAAB"},
	"Texas":         {17.7, "NCAAB"},
	"Creighton":     {15.9, "NCAAB"},
	"Texas Tech":    {14.3, "NCAAB"},
	"Iowa St":       {13.7, "NCAAB"},
	"NC State":      {12.3, "NCAAB"},
	"Baylor":        {11.1, "NCAAB"},
	"Pitt":          {10.8, "NCAAB"},
	"Notre Dame":    {8.5, "NCAAB"},
	"Virginia":      {6.3, "NCAAB"},
	"Syracuse":      {5.6, "NCAAB"},
	"Miami FL":      {5.1, "NCAAB"},
	"Wake Forest":   {4.5, "NCAAB"},
	"Georgia Tech":  {2.5, "NCAAB"},
	"Louisville":    {1.4, "NCAAB"},
	"Clemson":       {0.9, "NCAAB"},
	"Stanford":      {-2.6, "NCAAB"},
	"Boston College": {-3.6, "NCAAB"},
	"California":    {-6.6, "NCAAB"},

	// NFL, EPA/play rescaled.
	"Kansas City Chiefs":   {16.0, "NFL"},
	"Detroit Lions":        {18.4, "NFL"},
	"Philadelphia Eagles":  {15.2, "NFL"},
	"Baltimore Ravens":     {17.6, "NFL"},
	"Buffalo Bills":        {16.8, "NFL"},
	"Green Bay Packers":    {10.4, "NFL"},
	"San Francisco 49ers":  {4.0, "NFL"},
	"Dallas Cowboys":       {-4.8, "NFL"},
	"New York Giants":      {-12.0, "NFL"},
	"Carolina Panthers":    {-13.6, "NFL"},

	// EPL, xG differential rescaled.
	"Arsenal":           {17.3, "EPL"},
	"Liverpool":         {19.5, "EPL"},
	"Manchester City":   {15.0, "EPL"},
	"Chelsea":           {9.8, "EPL"},
	"Newcastle United":  {8.3, "EPL"},
	"Tottenham Hotspur": {6.0, "EPL"},
	"Manchester United": {-1.5, "EPL"},
	"Everton":           {-3.8, "EPL"},
	"Southampton":       {-15.0, "EPL"},
}

var teamAliases = map[string]string{
	"Thunder":       "Oklahoma City Thunder",
	"Celtics":       "Boston Celtics",
	"Cavs":          "Cleveland Cavaliers",
	"Wolves":        "Minnesota Timberwolves",
	"Timberwolves":  "Minnesota Timberwolves",
	"Nuggets":       "Denver Nuggets",
	"Rockets":       "Houston Rockets",
	"Warriors":      "Golden State Warriors",
	"Lakers":        "Los Angeles Lakers",
	"Mavs":          "Dallas Mavericks",
	"Mavericks":     "Dallas Mavericks",
	"Grizzlies":     "Memphis Grizzlies",
	"Pacers":        "Indiana Pacers",
	"Bucks":         "Milwaukee Bucks",
	"Knicks":        "New York Knicks",
	"Clippers":      "Los Angeles Clippers",
	"Kings":         "Sacramento Kings",
	"Spurs":         "San Antonio Spurs",
	"Heat":          "Miami Heat",
	"76ers":         "Philadelphia 76ers",
	"Sixers":        "Philadelphia 76ers",
	"Suns":          "Phoenix Suns",
	"Pelicans":      "New Orleans Pelicans",
	"Magic":         "Orlando Magic",
	"Bulls":         "Chicago Bulls",
	"Hawks":         "Atlanta Hawks",
	"Raptors":       "Toronto Raptors",
	"Nets":          "Brooklyn Nets",
	"Pistons":       "Detroit Pistons",
	"Jazz":          "Utah Jazz",
	"Blazers":       "Portland Trail Blazers",
	"Trail Blazers": "Portland Trail Blazers",
	"Hornets":       "Charlotte Hornets",
	"Wizards":       "Washington Wizards",
	"Chiefs":        "Kansas City Chiefs",
	"Lions":         "Detroit Lions",
	"Eagles":        "Philadelphia Eagles",
	"Ravens":        "Baltimore Ravens",
	"Bills":         "Buffalo Bills",
	"Man City":      "Manchester City",
	"Man United":    "Manchester United",
	"Spurs FC":      "Tottenham Hotspur",
}

// LookupTeam resolves a team name against the ratings table: exact
// match first, then alias, then case-insensitive scan.
func LookupTeam(name string) (TeamRating, bool) {
	if r, ok := teamRatings[name]; ok {
		return r, true
	}
	if canonical, ok := teamAliases[name]; ok {
		return teamRatings[canonical], true
	}
	lower := strings.ToLower(name)
	for k, r := range teamRatings {
		if strings.ToLower(k) == lower {
			return r, true
		}
	}
	for k, canonical := range teamAliases {
		if strings.ToLower(k) == lower {
			return teamRatings[canonical], true
		}
	}
	return TeamRating{}, false
}

// EfficiencyGap returns the 0-20 scaled structural gap for a matchup:
//
//	gap = (home_em - away_em + 30) / 60 * 20, clamped to [0, 20]
//
// 10.0 is evenly matched; above 10 favours the home side. Either team
// missing from the table yields UnknownGap.
func EfficiencyGap(homeTeam, awayTeam string) float64 {
	home, okH := LookupTeam(homeTeam)
	away, okA := LookupTeam(awayTeam)
	if !okH || !okA {
		return UnknownGap
	}
	gap := (home.AdjEM - away.AdjEM + 30) / 60 * 20
	if gap < 0 {
		return 0
	}
	if gap > 20 {
		return 20
	}
	return gap
}

// ListTeams returns the rated team names for a league, in no particular
// order.
func ListTeams(league string) []string {
	var out []string
	for name, r := range teamRatings {
		if r.League == league {
			out = append(out, name)
		}
	}
	return out
}
