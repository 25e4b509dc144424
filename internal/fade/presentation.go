package fade

import (
	"fmt"
	"math"
)

// Color bands for the five signal states.
const (
	colorUnderStrong = "#4ade80"
	colorUnderWeak   = "#86efac"
	colorHold        = "#71717a"
	colorHoldCaution = "#fbbf24"
	colorPass        = "#f87171"
)

// ChartPoint is one bar of the pace comparison chart.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart is the Current vs Required pace series.
type Chart struct {
	Points    []ChartPoint `json:"points"`
	FillColor string       `json:"fill_color"`
}

// Bundle is a presentation-ready rendering of a FadeSignal: label, color
// band, formatted numbers, and the chart series. All arithmetic lives in
// Evaluate; this layer only formats.
type Bundle struct {
	Signal  Signal `json:"signal"`
	Strong  bool   `json:"strong"`
	Caution bool   `json:"caution"`

	Label  string `json:"label"`
	Color  string `json:"color"`
	Detail string `json:"detail"`

	CurrentPace  string `json:"current_pace"`
	RequiredPace string `json:"required_pace"`
	MarginPct    string `json:"margin_pct"`

	Chart Chart `json:"chart"`

	Position *PositionView `json:"position,omitempty"`
}

// PositionView is the formatted rendering of a tracked Under position.
type PositionView struct {
	Line         float64 `json:"line"`
	PointsToMiss float64 `json:"points_to_miss"`
	PaceToMiss   string  `json:"pace_to_miss"`
	Busted       bool    `json:"busted"`
}

// Present maps a FadeSignal to its render bundle.
func Present(sig FadeSignal) Bundle {
	b := Bundle{
		Signal:       sig.Signal,
		Strong:       sig.Strong,
		Caution:      sig.Caution,
		CurrentPace:  formatPace(sig.CurrentPace),
		RequiredPace: formatPace(sig.RequiredPace),
		MarginPct:    formatPct(sig.MarginPct),
	}

	if sig.Position != nil {
		b.Position = &PositionView{
			Line:         sig.Position.Line,
			PointsToMiss: sig.Position.PointsToMiss,
			PaceToMiss:   formatPace(sig.Position.PaceToMiss),
			Busted:       sig.Position.Busted,
		}
	}

	switch {
	case sig.Signal == SignalUnder && sig.Strong:
		b.Label = "STRONG UNDER"
		b.Color = colorUnderStrong
		b.Detail = "Required pace is far above the current scoring rate"
	case sig.Signal == SignalUnder:
		b.Label = "LEAN UNDER"
		b.Color = colorUnderWeak
		b.Detail = "Required pace is above the current scoring rate"
	case sig.Signal == SignalHold && sig.Caution:
		b.Label = "HOLD (CAUTION)"
		b.Color = colorHoldCaution
		b.Detail = "Scoring slightly ahead of the line, not enough to act"
	case sig.Signal == SignalHold:
		b.Label = "HOLD"
		b.Color = colorHold
		b.Detail = "Required pace is not demanding, no edge either way"
	default:
		b.Label = "PASS"
		b.Color = colorPass
		b.Detail = "Scoring pace strongly contradicts the under"
	}

	b.Chart = Chart{
		Points:    chartPoints(sig),
		FillColor: b.Color,
	}

	return b
}

// chartPoints builds the two-bar pace series, dropping any non-finite
// value so the chart never receives an unplottable number.
func chartPoints(sig FadeSignal) []ChartPoint {
	points := make([]ChartPoint, 0, 2)
	if !math.IsInf(sig.CurrentPace, 0) && !math.IsNaN(sig.CurrentPace) {
		points = append(points, ChartPoint{Label: "Current", Value: sig.CurrentPace})
	}
	if !math.IsInf(sig.RequiredPace, 0) && !math.IsNaN(sig.RequiredPace) {
		points = append(points, ChartPoint{Label: "Required", Value: sig.RequiredPace})
	}
	return points
}

func formatPace(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	if math.IsInf(v, -1) {
		return "-∞"
	}
	return fmt.Sprintf("%.2f", v)
}

func formatPct(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	if math.IsInf(v, -1) {
		return "-∞"
	}
	return fmt.Sprintf("%+.1f%%", v)
}
