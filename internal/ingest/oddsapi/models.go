package oddsapi

import "time"

// Market keys and outcome names used by the totals fade.
const (
	MarketTotals = "totals"
	OutcomeOver  = "Over"
)

// Event is one upcoming or live matchup with its bookmaker lines.
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker is one sportsbook's markets for an event.
type Bookmaker struct {
	Key        string    `json:"key"`
	Title      string    `json:"title"`
	LastUpdate time.Time `json:"last_update"`
	Markets    []Market  `json:"markets"`
}

// Market is one market (totals, spreads, h2h) with its outcomes.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is one side of a market. For totals, Point carries the posted
// line and Name distinguishes Over from Under.
type Outcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point"`
}

// OverTotal returns the bookmaker's totals-market Over point, if posted.
func (b Bookmaker) OverTotal() (float64, bool) {
	for _, market := range b.Markets {
		if market.Key != MarketTotals {
			continue
		}
		for _, outcome := range market.Outcomes {
			if outcome.Name == OutcomeOver && outcome.Point != nil {
				return *outcome.Point, true
			}
		}
	}
	return 0, false
}
