package models

import "time"

// GameStatus is the lifecycle state of a contest.
type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusLive      GameStatus = "live"
	StatusFinal     GameStatus = "final"
)

// Team identifies one side of a matchup. The numeric feed ID is the
// canonical identity; DisplayName is only used for the name-based odds join.
type Team struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"display_name"`
}

// Game is one normalized contest at one polling instant.
// Scores are pointers so "no score yet" (pre-game) is distinguishable
// from a legitimate 0 in a live or final game.
type Game struct {
	GameID    string     `json:"game_id"`
	StartTime time.Time  `json:"start_time"`
	Status    GameStatus `json:"status"`

	HomeTeam Team `json:"home_team"`
	AwayTeam Team `json:"away_team"`

	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`

	Period int    `json:"period"`
	Clock  string `json:"clock"`

	// MinutesRemaining is the parsed clock in minutes, relative to the
	// current period as reported upstream. Full-game normalization happens
	// at evaluation time, where the first-half toggle is known.
	MinutesRemaining float64 `json:"minutes_remaining"`

	// MarketTotal is filled by odds matching when a confident match exists,
	// otherwise it stays nil and the caller must supply a line.
	MarketTotal *float64 `json:"market_total,omitempty"`
	BookCount   int      `json:"book_count,omitempty"`
	LineSpread  float64  `json:"line_spread,omitempty"`
}

// TotalScore sums the present scores. The second return is false when
// either side has no score yet.
func (g *Game) TotalScore() (int, bool) {
	if g.HomeScore == nil || g.AwayScore == nil {
		return 0, false
	}
	return *g.HomeScore + *g.AwayScore, true
}
