// Package teamstats reduces a team's recent completed games into the
// averages behind the matchup intelligence view.
package teamstats

import (
	"strconv"
	"strings"
	"time"
)

// Location is where a game was played from the team's perspective.
type Location string

const (
	Home Location = "home"
	Away Location = "away"
)

// Window bounds for the trailing-game analysis depth.
const (
	MinWindow     = 3
	MaxWindow     = 25
	DefaultWindow = 5
)

// RecentGame is one completed game for a team.
type RecentGame struct {
	TeamScore     int       `json:"team_score"`
	OpponentScore int       `json:"opponent_score"`
	Opponent      string    `json:"opponent"`
	Location      Location  `json:"location"`
	Date          time.Time `json:"date"`
}

// Split is a location-filtered subset of the summary. Games carries the
// subset size so a zero-count split renders as "no data", never as a team
// that averages zero points.
type Split struct {
	Games      int     `json:"games"`
	AvgFor     float64 `json:"avg_for"`
	AvgAgainst float64 `json:"avg_against"`
}

// Summary holds arithmetic means over the trailing window.
type Summary struct {
	Games      int     `json:"games"`
	AvgFor     float64 `json:"avg_for"`
	AvgAgainst float64 `json:"avg_against"`
	AvgTotal   float64 `json:"avg_total"`

	Home Split `json:"home"`
	Away Split `json:"away"`
}

// PointsPerMinute is the team's average scoring pace over a full game of
// the given regulation length.
func (s Summary) PointsPerMinute(regulationMinutes float64) float64 {
	if regulationMinutes <= 0 {
		return 0
	}
	return s.AvgFor / regulationMinutes
}

// ClampWindow bounds an analysis depth to [MinWindow, MaxWindow].
func ClampWindow(window int) int {
	if window < MinWindow {
		return MinWindow
	}
	if window > MaxWindow {
		return MaxWindow
	}
	return window
}

// ParseWindow turns free-text window input into a usable depth. Anything
// non-numeric falls back to the default; numeric input is clamped.
func ParseWindow(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultWindow
	}
	return ClampWindow(n)
}

// Summarize reduces a chronological game list (most recent last) to means
// over the trailing window. The window is clamped before use.
func Summarize(games []RecentGame, window int) Summary {
	window = ClampWindow(window)
	if len(games) > window {
		games = games[len(games)-window:]
	}

	summary := Summary{Games: len(games)}
	if len(games) == 0 {
		return summary
	}

	var totalFor, totalAgainst int
	var homeFor, homeAgainst, awayFor, awayAgainst int
	for _, g := range games {
		totalFor += g.TeamScore
		totalAgainst += g.OpponentScore

		switch g.Location {
		case Home:
			summary.Home.Games++
			homeFor += g.TeamScore
			homeAgainst += g.OpponentScore
		case Away:
			summary.Away.Games++
			awayFor += g.TeamScore
			awayAgainst += g.OpponentScore
		}
	}

	n := float64(len(games))
	summary.AvgFor = float64(totalFor) / n
	summary.AvgAgainst = float64(totalAgainst) / n
	summary.AvgTotal = float64(totalFor+totalAgainst) / n

	if summary.Home.Games > 0 {
		hn := float64(summary.Home.Games)
		summary.Home.AvgFor = float64(homeFor) / hn
		summary.Home.AvgAgainst = float64(homeAgainst) / hn
	}
	if summary.Away.Games > 0 {
		an := float64(summary.Away.Games)
		summary.Away.AvgFor = float64(awayFor) / an
		summary.Away.AvgAgainst = float64(awayAgainst) / an
	}

	return summary
}

// ImpliedTotal is the naive matchup projection: the sum of both teams'
// average points scored over their trailing windows.
func ImpliedTotal(a, b Summary) float64 {
	return a.AvgFor + b.AvgFor
}
