package models

import "fmt"

// MLB Stats API domain types. Remote payloads are loosely typed, so
// optional nested objects are pointers and readers fall back to zero
// values instead of failing.

// PositionCodePitcher is the primary position code the stats API uses
// for pitchers. Every other code is treated as a position player when
// choosing between hitting and pitching stat groups.
const PositionCodePitcher = "1"

// Venue identifies a ballpark.
type Venue struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// LeagueRef is a league or division membership reference.
type LeagueRef struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// Team is the single-team metadata shape. Immutable once fetched;
// re-fetched wholesale when the team selection changes.
type Team struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Abbreviation string     `json:"abbreviation,omitempty"`
	League       *LeagueRef `json:"league,omitempty"`
	Division     *LeagueRef `json:"division,omitempty"`
	Venue        *Venue     `json:"venue,omitempty"`
}

// PlayerKey builds the synthetic box score player map key for a person.
func PlayerKey(personID int) string {
	return fmt.Sprintf("ID%d", personID)
}

// Person is a player identity reference.
type Person struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
}

// Position is a fielding/pitching position.
type Position struct {
	Code         string `json:"code"`
	Name         string `json:"name,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// RosterEntry is one person on a team roster, in source order.
type RosterEntry struct {
	Person       Person    `json:"person"`
	Position     *Position `json:"position,omitempty"`
	JerseyNumber string    `json:"jerseyNumber,omitempty"`
}

// TeamRecord is a league record (wins/losses/pct).
type TeamRecord struct {
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Pct    string `json:"pct,omitempty"`
}

// GameStatus carries the abstract game state ("Final", "Live", "Preview").
type GameStatus struct {
	AbstractGameState string `json:"abstractGameState"`
	DetailedState     string `json:"detailedState,omitempty"`
}

// TeamGameStats is one side of a game.
type TeamGameStats struct {
	Team         Person      `json:"team"` // same {id, name} shape as Person
	Score        *int        `json:"score,omitempty"`
	LeagueRecord *TeamRecord `json:"leagueRecord,omitempty"`
	IsWinner     *bool       `json:"isWinner,omitempty"`
}

// GameTeams holds the home and away sides.
type GameTeams struct {
	Home TeamGameStats `json:"home"`
	Away TeamGameStats `json:"away"`
}

// Game is one scheduled or completed game.
type Game struct {
	GamePk     int        `json:"gamePk"`
	GameDate   string     `json:"gameDate"`
	Season     string     `json:"season,omitempty"`
	GameNumber int        `json:"gameNumber,omitempty"`
	Status     GameStatus `json:"status"`
	Venue      *Venue     `json:"venue,omitempty"`
	Teams      GameTeams  `json:"teams"`
}

// IsFinal reports whether the game has reached a terminal status.
func (g *Game) IsFinal() bool {
	return g != nil && g.Status.AbstractGameState == "Final"
}

// BattingLine is a per-game or season-to-date batting stat subset.
type BattingLine struct {
	GamesPlayed      int    `json:"gamesPlayed,omitempty"`
	AtBats           int    `json:"atBats,omitempty"`
	PlateAppearances int    `json:"plateAppearances,omitempty"`
	Hits             int    `json:"hits,omitempty"`
	Doubles          int    `json:"doubles,omitempty"`
	Triples          int    `json:"triples,omitempty"`
	HomeRuns         int    `json:"homeRuns,omitempty"`
	RBI              int    `json:"rbi,omitempty"`
	Runs             int    `json:"runs,omitempty"`
	StolenBases      int    `json:"stolenBases,omitempty"`
	BaseOnBalls      int    `json:"baseOnBalls,omitempty"`
	StrikeOuts       int    `json:"strikeOuts,omitempty"`
	Avg              string `json:"avg,omitempty"`
	Obp              string `json:"obp,omitempty"`
	Slg              string `json:"slg,omitempty"`
	Ops              string `json:"ops,omitempty"`
}

// PitchingLine is a per-game or season-to-date pitching stat subset.
// InningsPitched keeps the API's fractional string encoding ("6.1" is
// six and one third) and must be parsed before summing.
type PitchingLine struct {
	GamesPlayed    int    `json:"gamesPlayed,omitempty"`
	GamesStarted   int    `json:"gamesStarted,omitempty"`
	InningsPitched string `json:"inningsPitched,omitempty"`
	Hits           int    `json:"hits,omitempty"`
	EarnedRuns     int    `json:"earnedRuns,omitempty"`
	HomeRuns       int    `json:"homeRuns,omitempty"`
	BaseOnBalls    int    `json:"baseOnBalls,omitempty"`
	StrikeOuts     int    `json:"strikeOuts,omitempty"`
	Wins           int    `json:"wins,omitempty"`
	Losses         int    `json:"losses,omitempty"`
	Saves          int    `json:"saves,omitempty"`
	ERA            string `json:"era,omitempty"`
	Whip           string `json:"whip,omitempty"`
	QualityStarts  int    `json:"qualityStarts,omitempty"`
}

// StatLines pairs the batting and pitching subsets for one player.
type StatLines struct {
	Batting  *BattingLine  `json:"batting,omitempty"`
	Pitching *PitchingLine `json:"pitching,omitempty"`
}

// BoxScorePlayer is one entry in a box score player map.
type BoxScorePlayer struct {
	Person      Person    `json:"person"`
	Position    *Position `json:"position,omitempty"`
	Stats       StatLines `json:"stats"`
	SeasonStats StatLines `json:"seasonStats"`
}

// BoxScoreSide is one team's half of a box score, keyed by the
// synthetic "ID<personId>" player key.
type BoxScoreSide struct {
	Team    Person                    `json:"team"`
	Players map[string]BoxScorePlayer `json:"players"`
}

// BoxScore is the per-game, per-player statistical snapshot. Only valid
// for the game it was fetched for.
type BoxScore struct {
	Teams struct {
		Home BoxScoreSide `json:"home"`
		Away BoxScoreSide `json:"away"`
	} `json:"teams"`
}

// Player looks up a box score entry by person id across both sides.
// The away side wins on the (impossible in practice) key collision,
// matching how the two maps are merged.
func (b *BoxScore) Player(personID int) (BoxScorePlayer, bool) {
	if b == nil {
		return BoxScorePlayer{}, false
	}
	key := PlayerKey(personID)
	if p, ok := b.Teams.Away.Players[key]; ok {
		return p, true
	}
	p, ok := b.Teams.Home.Players[key]
	return p, ok
}

// StatTypeRef and StatGroupRef name a (statistic-type, stat-group) pair.
type StatTypeRef struct {
	DisplayName string `json:"displayName"`
}

type StatGroupRef struct {
	DisplayName string `json:"displayName"`
}

// SplitStat is the union of the batting and pitching season aggregates
// the hydrated person endpoint returns. Fields the split does not carry
// stay at their zero value.
type SplitStat struct {
	GamesPlayed      int    `json:"gamesPlayed,omitempty"`
	AtBats           int    `json:"atBats,omitempty"`
	PlateAppearances int    `json:"plateAppearances,omitempty"`
	Hits             int    `json:"hits,omitempty"`
	Doubles          int    `json:"doubles,omitempty"`
	Triples          int    `json:"triples,omitempty"`
	HomeRuns         int    `json:"homeRuns,omitempty"`
	RBI              int    `json:"rbi,omitempty"`
	Runs             int    `json:"runs,omitempty"`
	StolenBases      int    `json:"stolenBases,omitempty"`
	BaseOnBalls      int    `json:"baseOnBalls,omitempty"`
	StrikeOuts       int    `json:"strikeOuts,omitempty"`
	Avg              string `json:"avg,omitempty"`
	Obp              string `json:"obp,omitempty"`
	Slg              string `json:"slg,omitempty"`
	Ops              string `json:"ops,omitempty"`
	GamesStarted     int    `json:"gamesStarted,omitempty"`
	InningsPitched   string `json:"inningsPitched,omitempty"`
	EarnedRuns       int    `json:"earnedRuns,omitempty"`
	Wins             int    `json:"wins,omitempty"`
	Losses           int    `json:"losses,omitempty"`
	Saves            int    `json:"saves,omitempty"`
	ERA              string `json:"era,omitempty"`
	Whip             string `json:"whip,omitempty"`
	QualityStarts    int    `json:"qualityStarts,omitempty"`
}

// StatSplit is one split within a stat group (one season for yearByYear,
// the whole career for career).
type StatSplit struct {
	Season string    `json:"season,omitempty"`
	Stat   SplitStat `json:"stat"`
}

// StatGroup is one (type, group) entry of a player's hydrated stats.
type StatGroup struct {
	Type   StatTypeRef  `json:"type"`
	Group  StatGroupRef `json:"group"`
	Splits []StatSplit  `json:"splits"`
}

// Handedness is a bat side or pitch hand descriptor.
type Handedness struct {
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// CareerSummary is the processed career view; pitcher fields and batter
// fields are both present so two-way players can carry both.
type CareerSummary struct {
	CareerERA            string `json:"careerERA,omitempty"`
	CareerWins           int    `json:"careerWins,omitempty"`
	CareerStrikeouts     int    `json:"careerStrikeouts,omitempty"`
	CareerSaves          int    `json:"careerSaves,omitempty"`
	CareerInningsPitched string `json:"careerInningsPitched,omitempty"`
	CareerGames          int    `json:"careerGames,omitempty"`
	CareerAVG            string `json:"careerAVG,omitempty"`
	CareerHR             int    `json:"careerHR,omitempty"`
	CareerRBI            int    `json:"careerRBI,omitempty"`
	CareerHits           int    `json:"careerHits,omitempty"`
	CareerRuns           int    `json:"careerRuns,omitempty"`
	CareerSB             int    `json:"careerSB,omitempty"`
	CareerOPS            string `json:"careerOPS,omitempty"`
}

// PlayerDetail is the enriched player record returned to callers.
// Stats is the raw hydrated collection; the summary fields are derived
// from it and never come from the source payload directly.
type PlayerDetail struct {
	ID              int         `json:"id"`
	FullName        string      `json:"fullName"`
	CurrentTeam     *Person     `json:"currentTeam,omitempty"`
	PrimaryPosition *Position   `json:"primaryPosition,omitempty"`
	BatSide         string      `json:"batSide,omitempty"`
	PitchHand       string      `json:"pitchHand,omitempty"`
	IsPitcher       bool        `json:"isPitcher"`
	IsTwoWayPlayer  bool        `json:"isTwoWayPlayer"`
	Stats           []StatGroup `json:"stats"`

	ProcessedStats *CareerSummary `json:"processedStats,omitempty"`
	SeasonStats    *SplitStat     `json:"seasonStats,omitempty"`
	SeasonYear     string         `json:"seasonYear,omitempty"`

	// Cross-referenced from the day's box score, when one is loaded.
	BoxScoreStats       *StatLines `json:"boxScoreStats,omitempty"`
	BoxScoreSeasonStats *StatLines `json:"boxScoreSeasonStats,omitempty"`
	BoxScoreSeasonYear  string     `json:"boxScoreSeasonYear,omitempty"`
}

// BattingTotals are summed per-game batting lines.
type BattingTotals struct {
	AtBats   int `json:"atBats"`
	Hits     int `json:"hits"`
	HomeRuns int `json:"homeRuns"`
	RBI      int `json:"rbi"`
}

// PitchingTotals are summed per-game pitching lines. InningsPitched is
// a decimal innings count after fractional-thirds parsing.
type PitchingTotals struct {
	InningsPitched float64 `json:"inningsPitched"`
	StrikeOuts     int     `json:"strikeOuts"`
	Hits           int     `json:"hits"`
	EarnedRuns     int     `json:"earnedRuns"`
}

// LastFiveGamesStats are rolling totals over a player's five most
// recently completed games.
type LastFiveGamesStats struct {
	BattingTotals  BattingTotals  `json:"battingTotals"`
	PitchingTotals PitchingTotals `json:"pitchingTotals"`
	LastGame       BattingTotals  `json:"lastGame"`
	GamesCounted   int            `json:"gamesCounted"`
}
