// Package fade implements the totals fade pace model: given a live score,
// time remaining, and a posted total, it decides whether scoring pace
// supports betting the Under.
package fade

import (
	"fmt"
	"math"
)

// Signal is the discrete trading signal.
type Signal string

const (
	SignalUnder Signal = "under"
	SignalHold  Signal = "hold"
	SignalPass  Signal = "pass"
)

// GameState is a snapshot of one contest at one polling instant. It is
// constructed fresh on every poll tick or user edit and never mutated.
type GameState struct {
	TeamAScore int
	TeamBScore int

	// RegulationMinutes is the full game length for the selected format.
	RegulationMinutes float64

	// PeriodLengthMinutes is the length of the period unit the clock is
	// tracked against (half, quarter, or full game).
	PeriodLengthMinutes float64

	// MinutesRemaining is minutes (plus fractional seconds) left, already
	// normalized to the tracked period or full game.
	MinutesRemaining float64

	// MarketTotal is the line being evaluated. Required by Evaluate.
	MarketTotal *float64

	// MyLine is a total the caller holds a position on, independent of
	// MarketTotal. Optional.
	MyLine *float64
}

// Position tracks a held Under line against the live score.
type Position struct {
	Line         float64
	PointsToMiss float64
	PaceToMiss   float64
	Busted       bool
}

// FadeSignal is the pace model output for one GameState. RequiredPace and
// MarginPct may be +Inf (clock expired); render through Present, which
// formats non-finite values, rather than encoding this struct directly.
type FadeSignal struct {
	TotalScore     int
	MinutesElapsed float64
	CurrentPace    float64
	RequiredPace   float64
	MarginPct      float64

	Signal Signal

	// Strong marks an Under with a wide pace margin.
	Strong bool

	// Caution marks a Hold issued on a mildly negative margin rather than
	// an undemanding required pace.
	Caution bool

	Position *Position
}

const (
	strongMarginPct  = 25.0
	cautionMarginPct = -15.0
)

// Evaluate computes the fade signal for a game state. The threshold is the
// caller's required-pace sensitivity in points per minute (typically 2.5
// to 6). It returns an error when the state violates its preconditions:
// a market total must be present and scores, minutes, and threshold must
// be non-negative. Pure function, no side effects.
func Evaluate(state GameState, threshold float64) (FadeSignal, error) {
	if state.MarketTotal == nil {
		return FadeSignal{}, fmt.Errorf("market total is required")
	}
	if state.TeamAScore < 0 || state.TeamBScore < 0 {
		return FadeSignal{}, fmt.Errorf("scores must be non-negative")
	}
	if state.MinutesRemaining < 0 {
		return FadeSignal{}, fmt.Errorf("minutes remaining must be non-negative")
	}
	if state.PeriodLengthMinutes <= 0 {
		return FadeSignal{}, fmt.Errorf("period length must be positive")
	}
	if threshold <= 0 {
		return FadeSignal{}, fmt.Errorf("threshold must be positive")
	}

	totalScore := state.TeamAScore + state.TeamBScore

	// If the reported clock exceeds the period (brief bookkeeping
	// disagreements happen mid-game), treat the whole period as elapsed
	// for pace purposes instead of dividing by zero.
	minutesElapsed := state.PeriodLengthMinutes - state.MinutesRemaining
	if minutesElapsed <= 0 {
		minutesElapsed = state.PeriodLengthMinutes
	}

	currentPace := 0.0
	if minutesElapsed > 0 {
		currentPace = float64(totalScore) / minutesElapsed
	}

	pointsNeeded := *state.MarketTotal - float64(totalScore)
	requiredPace := math.Inf(1)
	if state.MinutesRemaining > 0 {
		requiredPace = pointsNeeded / state.MinutesRemaining
	}

	marginPct := 0.0
	if currentPace > 0 {
		marginPct = (requiredPace - currentPace) / currentPace * 100
	}

	sig := FadeSignal{
		TotalScore:     totalScore,
		MinutesElapsed: minutesElapsed,
		CurrentPace:    currentPace,
		RequiredPace:   requiredPace,
		MarginPct:      marginPct,
	}

	// Evaluated in order, first match wins.
	switch {
	case requiredPace >= threshold && marginPct >= strongMarginPct:
		sig.Signal = SignalUnder
		sig.Strong = true
	case requiredPace >= threshold && marginPct >= 0:
		sig.Signal = SignalUnder
	case requiredPace < threshold:
		// Required pace is not demanding; no edge either way.
		sig.Signal = SignalHold
	case marginPct >= cautionMarginPct:
		// Mild negative margin, insufficient evidence.
		sig.Signal = SignalHold
		sig.Caution = true
	default:
		// Scoring pace strongly contradicts the under.
		sig.Signal = SignalPass
	}

	if state.MyLine != nil {
		sig.Position = trackPosition(*state.MyLine, totalScore, state.MinutesRemaining)
	}

	return sig, nil
}

// trackPosition measures how far a held Under line is from busting.
func trackPosition(line float64, totalScore int, minutesRemaining float64) *Position {
	pointsToMiss := line - float64(totalScore)

	paceToMiss := math.Inf(1)
	if minutesRemaining > 0 {
		paceToMiss = pointsToMiss / minutesRemaining
	}

	return &Position{
		Line:         line,
		PointsToMiss: pointsToMiss,
		PaceToMiss:   paceToMiss,
		Busted:       pointsToMiss <= 0,
	}
}
