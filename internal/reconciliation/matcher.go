// Package reconciliation joins the schedule feed against the odds feed.
// The two feeds identify teams by different keys (numeric ID vs free-text
// display name), so the join is a best-effort name-based lookup; the
// numeric feed ID stays the canonical identity everywhere else.
package reconciliation

import (
	"strings"

	"github.com/fortuna/courtside/internal/ingest/oddsapi"
)

// OddsLine is a matched betting total for one matchup. BookCount and
// Spread travel with the average so the presentation layer can show a
// one-book line or a wide spread as low confidence instead of hiding it.
type OddsLine struct {
	AvgTotal  float64 `json:"avg_total"`
	BookCount int     `json:"book_count"`
	Spread    float64 `json:"spread"`
}

// Index maps unordered team-name pairs to their matched line. Each
// matchup is stored under both name orders, so lookup never depends on
// which feed listed which team first.
type Index map[string]OddsLine

// MatchedLine pairs a matchup's display names with its line, for listing.
type MatchedLine struct {
	HomeTeam string   `json:"home_team"`
	AwayTeam string   `json:"away_team"`
	Line     OddsLine `json:"line"`
}

// BuildIndex folds an odds feed snapshot into a lookup index. A matchup
// with no posted totals in any book is omitted entirely; callers must
// treat a missing entry as "no market available", never as a zero line.
func BuildIndex(events []oddsapi.Event) Index {
	index := make(Index)

	for _, event := range events {
		line, ok := lineFromEvent(event)
		if !ok {
			continue
		}
		index[pairKey(event.HomeTeam, event.AwayTeam)] = line
		index[pairKey(event.AwayTeam, event.HomeTeam)] = line
	}

	return index
}

// ListLines returns one entry per matchup with a posted total, in feed
// order, under the same omission rule as BuildIndex.
func ListLines(events []oddsapi.Event) []MatchedLine {
	var lines []MatchedLine
	for _, event := range events {
		line, ok := lineFromEvent(event)
		if !ok {
			continue
		}
		lines = append(lines, MatchedLine{
			HomeTeam: event.HomeTeam,
			AwayTeam: event.AwayTeam,
			Line:     line,
		})
	}
	return lines
}

func lineFromEvent(event oddsapi.Event) (OddsLine, bool) {
	var totals []float64
	for _, book := range event.Bookmakers {
		if total, ok := book.OverTotal(); ok {
			totals = append(totals, total)
		}
	}
	if len(totals) == 0 {
		return OddsLine{}, false
	}

	sum := 0.0
	minTotal, maxTotal := totals[0], totals[0]
	for _, total := range totals {
		sum += total
		if total < minTotal {
			minTotal = total
		}
		if total > maxTotal {
			maxTotal = total
		}
	}

	return OddsLine{
		AvgTotal:  sum / float64(len(totals)),
		BookCount: len(totals),
		Spread:    maxTotal - minTotal,
	}, true
}

// Lookup finds the line for a matchup by team display names, in either
// order. The second return reports whether a market exists.
func (idx Index) Lookup(teamA, teamB string) (OddsLine, bool) {
	line, ok := idx[pairKey(teamA, teamB)]
	return line, ok
}

// Matchups counts distinct matchups in the index.
func (idx Index) Matchups() int {
	return len(idx) / 2
}

func pairKey(a, b string) string {
	return strings.ToLower(strings.TrimSpace(a)) + "|" + strings.ToLower(strings.TrimSpace(b))
}
