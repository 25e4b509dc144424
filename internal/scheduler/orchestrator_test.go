package scheduler

import (
	"testing"
	"time"

	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/fade"
	"github.com/fortuna/courtside/internal/ingest/oddsapi"
	"github.com/fortuna/courtside/internal/models"
	"github.com/fortuna/courtside/internal/ratelimit"
	"github.com/fortuna/courtside/internal/reconciliation"
)

type fakeAlerts struct {
	sent []string
}

func (f *fakeAlerts) SignalFlip(game *models.Game, bundle fade.Bundle) error {
	f.sent = append(f.sent, game.GameID)
	return nil
}

func intp(v int) *int { return &v }

func newTestOrchestrator(alerts AlertSender) *Orchestrator {
	config := DefaultConfig()
	config.AlertCooldown = 10 * time.Minute
	store := cache.NewStore()
	limiter := ratelimit.NewBucket(5, time.Minute)
	return NewOrchestrator(nil, nil, store, limiter, alerts, config)
}

func liveGame(id string, home, away int, remaining float64) *models.Game {
	return &models.Game{
		GameID:           id,
		Status:           models.StatusLive,
		HomeTeam:         models.Team{ID: "150", DisplayName: "Duke Blue Devils"},
		AwayTeam:         models.Team{ID: "153", DisplayName: "North Carolina Tar Heels"},
		HomeScore:        intp(home),
		AwayScore:        intp(away),
		Period:           2,
		Clock:            "8:00",
		MinutesRemaining: remaining,
	}
}

func totalsEvent(home, away string, points ...float64) oddsapi.Event {
	event := oddsapi.Event{HomeTeam: home, AwayTeam: away}
	for _, point := range points {
		p := point
		event.Bookmakers = append(event.Bookmakers, oddsapi.Bookmaker{
			Markets: []oddsapi.Market{
				{
					Key:      oddsapi.MarketTotals,
					Outcomes: []oddsapi.Outcome{{Name: oddsapi.OutcomeOver, Point: &p}},
				},
			},
		})
	}
	return event
}

func TestAttachLines(t *testing.T) {
	o := newTestOrchestrator(nil)
	events := []oddsapi.Event{
		totalsEvent("Duke Blue Devils", "North Carolina Tar Heels", 150.0, 150.5, 151.0),
	}
	o.store.SetOdds(reconciliation.BuildIndex(events), reconciliation.ListLines(events))

	matched := liveGame("1", 40, 38, 8)
	unmatched := liveGame("2", 30, 30, 8)
	unmatched.HomeTeam.DisplayName = "Kansas Jayhawks"
	unmatched.AwayTeam.DisplayName = "Kentucky Wildcats"

	o.attachLines([]*models.Game{matched, unmatched})

	if matched.MarketTotal == nil || *matched.MarketTotal != 150.5 {
		t.Errorf("matched game line = %v, want 150.5", matched.MarketTotal)
	}
	if matched.BookCount != 3 || matched.LineSpread != 1.0 {
		t.Errorf("matched game confidence = %d books spread %v", matched.BookCount, matched.LineSpread)
	}
	// A miss must leave the total unset, never zero.
	if unmatched.MarketTotal != nil {
		t.Errorf("unmatched game line = %v, want nil", unmatched.MarketTotal)
	}
}

func TestAttachLinesWithoutOddsSnapshot(t *testing.T) {
	o := newTestOrchestrator(nil)
	game := liveGame("1", 40, 38, 8)

	o.attachLines([]*models.Game{game})

	if game.MarketTotal != nil {
		t.Errorf("line = %v before any odds poll, want nil", game.MarketTotal)
	}
}

func TestSignalFlipAlertOnceWithCooldown(t *testing.T) {
	alerts := &fakeAlerts{}
	o := newTestOrchestrator(alerts)

	// 40-38 with 8 left in a 20-minute half against 150: strong under.
	game := liveGame("1", 40, 38, 8)
	total := 150.0
	game.MarketTotal = &total

	o.checkSignalFlips([]*models.Game{game})
	if len(alerts.sent) != 1 {
		t.Fatalf("got %d alerts after flip, want 1", len(alerts.sent))
	}

	// Still under on the next tick: no re-alert.
	o.checkSignalFlips([]*models.Game{game})
	if len(alerts.sent) != 1 {
		t.Errorf("got %d alerts while signal unchanged, want 1", len(alerts.sent))
	}

	// Signal drops out of under, then flips back within the cooldown:
	// throttled.
	fastGame := liveGame("1", 70, 68, 8)
	fastGame.MarketTotal = &total
	o.checkSignalFlips([]*models.Game{fastGame})
	o.checkSignalFlips([]*models.Game{game})
	if len(alerts.sent) != 1 {
		t.Errorf("got %d alerts inside cooldown, want 1", len(alerts.sent))
	}
}

func TestSignalFlipSkipsGamesWithoutLine(t *testing.T) {
	alerts := &fakeAlerts{}
	o := newTestOrchestrator(alerts)

	o.checkSignalFlips([]*models.Game{liveGame("1", 40, 38, 8)})
	if len(alerts.sent) != 0 {
		t.Errorf("got %d alerts for a game without a line, want 0", len(alerts.sent))
	}
}

func TestSignalFlipStateEvictedWhenGameLeavesBoard(t *testing.T) {
	alerts := &fakeAlerts{}
	o := newTestOrchestrator(alerts)

	game := liveGame("1", 40, 38, 8)
	total := 150.0
	game.MarketTotal = &total

	o.checkSignalFlips([]*models.Game{game})
	o.checkSignalFlips([]*models.Game{})

	if len(o.lastSignals) != 0 || len(o.notifiedAt) != 0 {
		t.Errorf("tracking state not evicted: %d signals, %d cooldowns", len(o.lastSignals), len(o.notifiedAt))
	}
}
