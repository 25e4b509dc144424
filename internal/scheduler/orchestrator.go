// Package scheduler runs the poll loops that keep the snapshot store
// fresh: a fast scoreboard loop and a slow, rate-limited odds loop. Each
// source fails independently; an outage on one never stalls the other,
// and the previous snapshot is retained until the next successful tick.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/fade"
	"github.com/fortuna/courtside/internal/ingest/espn"
	"github.com/fortuna/courtside/internal/ingest/oddsapi"
	"github.com/fortuna/courtside/internal/logger"
	"github.com/fortuna/courtside/internal/models"
	"github.com/fortuna/courtside/internal/ratelimit"
	"github.com/fortuna/courtside/internal/reconciliation"
)

// Config holds scheduler configuration.
type Config struct {
	SportPath         string        // ESPN sport path, e.g. "basketball/mens-college-basketball"
	OddsSportKey      string        // Odds API sport key, e.g. "basketball_ncaab"
	ScorePollInterval time.Duration // Default: 30s
	OddsPollInterval  time.Duration // Default: 5m
	FetchTimeout      time.Duration // Per-fetch deadline
	EnableOddsPolling bool

	// Pace-model settings used for flip alerting.
	Threshold         float64
	RegulationMinutes float64
	PeriodMinutes     float64

	// AlertCooldown throttles repeat alerts for the same game.
	AlertCooldown time.Duration
}

// DefaultConfig returns default scheduler configuration.
func DefaultConfig() *Config {
	return &Config{
		SportPath:         espn.BasketballMensCollege,
		OddsSportKey:      "basketball_ncaab",
		ScorePollInterval: 30 * time.Second,
		OddsPollInterval:  5 * time.Minute,
		FetchTimeout:      15 * time.Second,
		EnableOddsPolling: true,
		Threshold:         4.0,
		RegulationMinutes: 40,
		PeriodMinutes:     20,
		AlertCooldown:     10 * time.Minute,
	}
}

// AlertSender delivers a signal-flip alert. Nil disables alerting.
type AlertSender interface {
	SignalFlip(game *models.Game, bundle fade.Bundle) error
}

// SourceStatus tracks the health of one polled feed.
type SourceStatus struct {
	LastSuccess       time.Time `json:"last_success"`
	LastError         string    `json:"last_error,omitempty"`
	LastErrorAt       time.Time `json:"last_error_at,omitempty"`
	ConsecutiveErrors int       `json:"consecutive_errors"`
}

// Orchestrator owns the poll loops and the odds rate limiter.
type Orchestrator struct {
	scores  *espn.Client
	odds    *oddsapi.Client
	store   *cache.Store
	limiter *ratelimit.Bucket
	alerts  AlertSender
	config  *Config

	cancel       context.CancelFunc
	scoresCancel context.CancelFunc
	oddsCancel   context.CancelFunc

	mu          sync.Mutex
	scoreStatus SourceStatus
	oddsStatus  SourceStatus

	// Flip alerting state: last signal per game plus a per-game cooldown.
	lastSignals map[string]fade.Signal
	notifiedAt  map[string]time.Time
}

// NewOrchestrator creates the poller. The rate limiter is constructed
// once here and injected into the odds fetch path.
func NewOrchestrator(scores *espn.Client, odds *oddsapi.Client, store *cache.Store, limiter *ratelimit.Bucket, alerts AlertSender, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}

	return &Orchestrator{
		scores:      scores,
		odds:        odds,
		store:       store,
		limiter:     limiter,
		alerts:      alerts,
		config:      config,
		lastSignals: make(map[string]fade.Signal),
		notifiedAt:  make(map[string]time.Time),
	}
}

// Start begins the poll loops and blocks until the context is cancelled.
func (o *Orchestrator) Start(ctx context.Context) {
	logger.Info("[scheduler] score polling every %v, odds polling every %v (enabled: %v)",
		o.config.ScorePollInterval, o.config.OddsPollInterval, o.config.EnableOddsPolling)

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	var scoresCtx, oddsCtx context.Context
	scoresCtx, o.scoresCancel = context.WithCancel(ctx)
	go o.runScorePolling(scoresCtx)

	if o.config.EnableOddsPolling && o.odds != nil {
		oddsCtx, o.oddsCancel = context.WithCancel(ctx)
		go o.runOddsPolling(oddsCtx)
	}

	<-ctx.Done()
	logger.Info("[scheduler] stopping")
}

// Stop gracefully stops the poll loops.
func (o *Orchestrator) Stop() {
	if o.scoresCancel != nil {
		o.scoresCancel()
	}
	if o.oddsCancel != nil {
		o.oddsCancel()
	}
	if o.cancel != nil {
		o.cancel()
	}
}

func (o *Orchestrator) runScorePolling(ctx context.Context) {
	logger.Info("[scheduler] score polling started")

	ticker := time.NewTicker(o.config.ScorePollInterval)
	defer ticker.Stop()

	// Run immediately on start.
	o.pollScores(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("[scheduler] score polling stopped")
			return
		case <-ticker.C:
			o.pollScores(ctx)
		}
	}
}

func (o *Orchestrator) runOddsPolling(ctx context.Context) {
	logger.Info("[scheduler] odds polling started")

	ticker := time.NewTicker(o.config.OddsPollInterval)
	defer ticker.Stop()

	o.pollOdds(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("[scheduler] odds polling stopped")
			return
		case <-ticker.C:
			o.pollOdds(ctx)
		}
	}
}

// pollScores refreshes the scoreboard snapshot. A failed fetch logs and
// leaves the previous snapshot in place; the next tick is the retry.
func (o *Orchestrator) pollScores(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, o.config.FetchTimeout)
	defer cancel()

	scoreboard, err := o.scores.FetchScoreboard(fetchCtx, o.config.SportPath, time.Time{})
	if err != nil {
		o.recordFailure(&o.scoreStatus, err)
		logger.Warn("[scheduler] score poll failed, keeping previous snapshot: %v", err)
		return
	}

	games := espn.NormalizeScoreboard(scoreboard)
	o.attachLines(games)

	snapshot := o.store.SetGames(games)
	o.recordSuccess(&o.scoreStatus)

	live := 0
	for _, game := range games {
		if game.Status == models.StatusLive {
			live++
		}
	}
	logger.Debug("[scheduler] snapshot %s: %d games (%d live)", snapshot.ID, len(games), live)

	o.checkSignalFlips(games)
}

// pollOdds refreshes the odds index. Every fetch is gated by the token
// bucket so a misconfigured interval can never burn through the
// provider's request quota.
func (o *Orchestrator) pollOdds(ctx context.Context) {
	if !o.limiter.Allow() {
		logger.Warn("[scheduler] odds poll skipped: rate limit exhausted (%d tokens)", o.limiter.Remaining())
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, o.config.FetchTimeout)
	defer cancel()

	events, err := o.odds.FetchTotals(fetchCtx, o.config.OddsSportKey)
	if err != nil {
		o.recordFailure(&o.oddsStatus, err)
		logger.Warn("[scheduler] odds poll failed, keeping previous snapshot: %v", err)
		return
	}

	index := reconciliation.BuildIndex(events)
	lines := reconciliation.ListLines(events)
	snapshot := o.store.SetOdds(index, lines)
	o.recordSuccess(&o.oddsStatus)

	logger.Debug("[scheduler] odds snapshot %s: %d matchups from %d events", snapshot.ID, snapshot.Matchups, len(events))
}

// attachLines joins the latest odds index onto freshly normalized games.
// The join is name-based and best effort: a miss leaves MarketTotal nil,
// which callers must treat as "no market available".
func (o *Orchestrator) attachLines(games []*models.Game) {
	odds := o.store.Odds()
	if odds == nil {
		return
	}

	for _, game := range games {
		line, ok := odds.Index.Lookup(game.HomeTeam.DisplayName, game.AwayTeam.DisplayName)
		if !ok {
			continue
		}
		total := line.AvgTotal
		game.MarketTotal = &total
		game.BookCount = line.BookCount
		game.LineSpread = line.Spread
	}
}

// checkSignalFlips evaluates live games with a matched line and alerts
// when one flips to an under signal. Alerts are throttled per game.
func (o *Orchestrator) checkSignalFlips(games []*models.Game) {
	if o.alerts == nil {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	seen := make(map[string]bool, len(games))
	for _, game := range games {
		seen[game.GameID] = true

		if game.Status != models.StatusLive || game.MarketTotal == nil {
			continue
		}
		homeScore, awayScore := game.HomeScore, game.AwayScore
		if homeScore == nil || awayScore == nil {
			continue
		}

		state := fade.GameState{
			TeamAScore:          *homeScore,
			TeamBScore:          *awayScore,
			RegulationMinutes:   o.config.RegulationMinutes,
			PeriodLengthMinutes: o.config.PeriodMinutes,
			MinutesRemaining:    game.MinutesRemaining,
			MarketTotal:         game.MarketTotal,
		}

		sig, err := fade.Evaluate(state, o.config.Threshold)
		if err != nil {
			logger.Debug("[scheduler] skipping flip check for game %s: %v", game.GameID, err)
			continue
		}

		previous := o.lastSignals[game.GameID]
		o.lastSignals[game.GameID] = sig.Signal

		if sig.Signal != fade.SignalUnder || previous == fade.SignalUnder {
			continue
		}
		if last, ok := o.notifiedAt[game.GameID]; ok && time.Since(last) < o.config.AlertCooldown {
			continue
		}

		if err := o.alerts.SignalFlip(game, fade.Present(sig)); err != nil {
			logger.Warn("[scheduler] alert for game %s failed: %v", game.GameID, err)
			continue
		}
		o.notifiedAt[game.GameID] = time.Now()
		logger.Info("[scheduler] under alert sent for game %s", game.GameID)
	}

	// Drop tracking state for games no longer on the scoreboard.
	for gameID := range o.lastSignals {
		if !seen[gameID] {
			delete(o.lastSignals, gameID)
			delete(o.notifiedAt, gameID)
		}
	}
}

func (o *Orchestrator) recordSuccess(status *SourceStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	status.LastSuccess = time.Now()
	status.ConsecutiveErrors = 0
	status.LastError = ""
}

func (o *Orchestrator) recordFailure(status *SourceStatus, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	status.LastError = err.Error()
	status.LastErrorAt = time.Now()
	status.ConsecutiveErrors++
}

// GetStatus returns current poller status for the status endpoint.
func (o *Orchestrator) GetStatus() map[string]interface{} {
	o.mu.Lock()
	defer o.mu.Unlock()

	return map[string]interface{}{
		"score_poll_interval": o.config.ScorePollInterval.String(),
		"odds_poll_interval":  o.config.OddsPollInterval.String(),
		"odds_enabled":        o.config.EnableOddsPolling,
		"odds_tokens_left":    o.limiter.Remaining(),
		"scores":              o.scoreStatus,
		"odds":                o.oddsStatus,
	}
}
