package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/config"
	"github.com/fortuna/courtside/internal/fade"
	"github.com/fortuna/courtside/internal/ingest/espn"
	"github.com/fortuna/courtside/internal/models"
	"github.com/fortuna/courtside/internal/reconciliation"
	"github.com/fortuna/courtside/internal/teamstats"
)

// ScheduleFetcher provides on-demand upstream fetches for schedule
// browsing and team history.
type ScheduleFetcher interface {
	FetchScoreboard(ctx context.Context, sportPath string, date time.Time) (*espn.Scoreboard, error)
	FetchTeamSchedule(ctx context.Context, sportPath string, teamID string) (*espn.Schedule, error)
}

// StatusSource reports poller health for the status endpoint.
type StatusSource interface {
	GetStatus() map[string]interface{}
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	store     *cache.Store
	feed      ScheduleFetcher
	poller    StatusSource
	sportPath string
	threshold float64
	format    config.PeriodFormat
}

// NewHandler creates a new handler
func NewHandler(store *cache.Store, feed ScheduleFetcher, poller StatusSource, sportPath string, threshold float64, format config.PeriodFormat) *Handler {
	return &Handler{
		store:     store,
		feed:      feed,
		poller:    poller,
		sportPath: sportPath,
		threshold: threshold,
		format:    format,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "courtside",
		"version": "1.0.0",
	})
}

// GetLiveGames returns the latest scoreboard snapshot
func (h *Handler) GetLiveGames(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Games()
	if snapshot == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"games": []*models.Game{},
			"count": 0,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"snapshot_id": snapshot.ID,
		"taken_at":    snapshot.TakenAt,
		"games":       snapshot.Games,
		"count":       len(snapshot.Games),
	})
}

// GetGamesByDate returns all games on a specific date, fetched on demand
func (h *Handler) GetGamesByDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		dateStr = time.Now().Format("2006-01-02")
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		// Also accept the upstream's compact form.
		date, err = time.Parse("20060102", dateStr)
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	scoreboard, err := h.feed.FetchScoreboard(r.Context(), h.sportPath, date)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to fetch schedule", err)
		return
	}

	games := espn.NormalizeScoreboard(scoreboard)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":  date.Format("2006-01-02"),
		"games": games,
		"count": len(games),
	})
}

// EvaluateGame runs the pace model for one game in the latest snapshot
func (h *Handler) EvaluateGame(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["gameID"]

	game, ok := h.store.FindGame(gameID)
	if !ok {
		respondError(w, http.StatusNotFound, "Game not found in latest snapshot", nil)
		return
	}

	if game.HomeScore == nil || game.AwayScore == nil {
		respondError(w, http.StatusUnprocessableEntity, "Game has no score yet", nil)
		return
	}

	query := r.URL.Query()

	total := game.MarketTotal
	if totalStr := query.Get("total"); totalStr != "" {
		v, err := strconv.ParseFloat(totalStr, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid total", err)
			return
		}
		total = &v
	}
	if total == nil {
		respondError(w, http.StatusUnprocessableEntity, "No market total available; supply ?total=", nil)
		return
	}

	threshold := h.threshold
	if thresholdStr := query.Get("threshold"); thresholdStr != "" {
		v, err := strconv.ParseFloat(thresholdStr, 64)
		if err != nil || v <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid threshold", err)
			return
		}
		threshold = v
	}

	var myLine *float64
	if myLineStr := query.Get("myline"); myLineStr != "" {
		v, err := strconv.ParseFloat(myLineStr, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid myline", err)
			return
		}
		myLine = &v
	}

	// The first-half toggle is explicit: upstream period numbering is not
	// trusted to pick the offset automatically.
	firstHalf := query.Get("firsthalf") == "true"
	minutesRemaining := espn.FullGameMinutes(game.MinutesRemaining, firstHalf, h.format.FirstHalfOffset())

	periodLength := h.format.PeriodMinutes
	if firstHalf {
		// Normalized to full-game minutes, so pace is measured against the
		// whole game.
		periodLength = h.format.RegulationMinutes
	} else if periodStr := query.Get("period"); periodStr != "" {
		v, err := strconv.ParseFloat(periodStr, 64)
		if err != nil || v <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid period length", err)
			return
		}
		periodLength = v
	}

	state := fade.GameState{
		TeamAScore:          *game.HomeScore,
		TeamBScore:          *game.AwayScore,
		RegulationMinutes:   h.format.RegulationMinutes,
		PeriodLengthMinutes: periodLength,
		MinutesRemaining:    minutesRemaining,
		MarketTotal:         total,
		MyLine:              myLine,
	}

	sig, err := fade.Evaluate(state, threshold)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Evaluation rejected", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_id":           game.GameID,
		"home_team":         game.HomeTeam,
		"away_team":         game.AwayTeam,
		"total_score":       sig.TotalScore,
		"market_total":      *total,
		"book_count":        game.BookCount,
		"line_spread":       game.LineSpread,
		"threshold":         threshold,
		"minutes_remaining": minutesRemaining,
		"evaluation":        fade.Present(sig),
	})
}

// GetTeamSummary returns a team's trailing-window averages
func (h *Handler) GetTeamSummary(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	teamID := vars["teamID"]

	window := teamstats.ParseWindow(r.URL.Query().Get("window"))

	schedule, err := h.feed.FetchTeamSchedule(r.Context(), h.sportPath, teamID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to fetch team schedule", err)
		return
	}

	games := espn.NormalizeSchedule(schedule)
	summary := teamstats.Summarize(games, window)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":    schedule.Team,
		"window":  window,
		"summary": summaryView(summary),
	})
}

// GetMatchup returns matchup intelligence for two teams
func (h *Handler) GetMatchup(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	homeID := query.Get("home")
	awayID := query.Get("away")
	if homeID == "" || awayID == "" {
		respondError(w, http.StatusBadRequest, "Both home and away team IDs are required", nil)
		return
	}

	window := teamstats.ParseWindow(query.Get("window"))

	homeSchedule, err := h.feed.FetchTeamSchedule(r.Context(), h.sportPath, homeID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to fetch home team schedule", err)
		return
	}
	awaySchedule, err := h.feed.FetchTeamSchedule(r.Context(), h.sportPath, awayID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to fetch away team schedule", err)
		return
	}

	homeSummary := teamstats.Summarize(espn.NormalizeSchedule(homeSchedule), window)
	awaySummary := teamstats.Summarize(espn.NormalizeSchedule(awaySchedule), window)

	response := map[string]interface{}{
		"window": window,
		"home": map[string]interface{}{
			"team":    homeSchedule.Team,
			"summary": summaryView(homeSummary),
		},
		"away": map[string]interface{}{
			"team":    awaySchedule.Team,
			"summary": summaryView(awaySummary),
		},
		"implied_total": teamstats.ImpliedTotal(homeSummary, awaySummary),
	}

	// Best-effort line attach; absence means no market, not zero.
	if odds := h.store.Odds(); odds != nil {
		if line, ok := odds.Index.Lookup(homeSchedule.Team.DisplayName, awaySchedule.Team.DisplayName); ok {
			response["line"] = line
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// GetLines returns the latest matched odds snapshot
func (h *Handler) GetLines(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Odds()
	if snapshot == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"lines": []reconciliation.MatchedLine{},
			"count": 0,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"snapshot_id": snapshot.ID,
		"taken_at":    snapshot.TakenAt,
		"lines":       snapshot.Lines,
		"count":       len(snapshot.Lines),
	})
}

// GetStatus returns poller status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.poller.GetStatus())
}

// summaryView renders a summary with explicit nulls for empty splits: a
// split with no games is "no data", not a team averaging zero.
func summaryView(s teamstats.Summary) map[string]interface{} {
	view := map[string]interface{}{
		"games":       s.Games,
		"avg_for":     s.AvgFor,
		"avg_against": s.AvgAgainst,
		"avg_total":   s.AvgTotal,
	}

	if s.Home.Games > 0 {
		view["home"] = s.Home
	} else {
		view["home"] = nil
	}
	if s.Away.Games > 0 {
		view["away"] = s.Away
	} else {
		view["away"] = nil
	}

	return view
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
