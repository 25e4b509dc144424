package espn

import (
	"math"
	"testing"

	"github.com/fortuna/courtside/internal/models"
)

func liveEvent(id string) Event {
	return Event{
		ID:   id,
		Date: "2026-01-15T00:00Z",
		Competitions: []Competition{
			{
				Competitors: []Competitor{
					{
						HomeAway: "home",
						Team:     TeamInfo{ID: "150", Abbreviation: "duke", DisplayName: "Duke Blue Devils"},
						Score:    "40",
					},
					{
						HomeAway: "away",
						Team:     TeamInfo{ID: "153", Abbreviation: "unc", DisplayName: "North Carolina Tar Heels"},
						Score:    "38",
					},
				},
			},
		},
		Status: Status{
			Period:       1,
			DisplayClock: "8:00",
			Type:         StatusType{State: "in"},
		},
	}
}

func TestNormalizeScoreboardLiveGame(t *testing.T) {
	sb := &Scoreboard{Events: []Event{liveEvent("401234567")}}

	games := NormalizeScoreboard(sb)
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}

	game := games[0]
	if game.GameID != "401234567" {
		t.Errorf("GameID = %q", game.GameID)
	}
	if game.Status != models.StatusLive {
		t.Errorf("Status = %q, want live", game.Status)
	}
	if game.HomeTeam.Abbreviation != "DUKE" || game.HomeTeam.DisplayName != "Duke Blue Devils" {
		t.Errorf("home team = %+v", game.HomeTeam)
	}
	if game.HomeScore == nil || *game.HomeScore != 40 {
		t.Errorf("HomeScore = %v, want 40", game.HomeScore)
	}
	if game.AwayScore == nil || *game.AwayScore != 38 {
		t.Errorf("AwayScore = %v, want 38", game.AwayScore)
	}
	if game.MinutesRemaining != 8 {
		t.Errorf("MinutesRemaining = %v, want 8", game.MinutesRemaining)
	}
}

func TestNormalizeScoreboardPreGameScoresAreNil(t *testing.T) {
	event := liveEvent("401234568")
	event.Status = Status{Type: StatusType{State: "pre"}}
	event.Competitions[0].Competitors[0].Score = "0"
	event.Competitions[0].Competitors[1].Score = "0"

	games := NormalizeScoreboard(&Scoreboard{Events: []Event{event}})
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}

	game := games[0]
	if game.Status != models.StatusScheduled {
		t.Errorf("Status = %q, want scheduled", game.Status)
	}
	// 0-0 for a game that hasn't tipped off is "no score yet", not a score.
	if game.HomeScore != nil || game.AwayScore != nil {
		t.Errorf("scores = %v/%v, want nil/nil pre-game", game.HomeScore, game.AwayScore)
	}
}

func TestNormalizeScoreboardFinalZeroIsAScore(t *testing.T) {
	event := liveEvent("401234569")
	event.Status = Status{Type: StatusType{State: "post", Completed: true}}
	event.Competitions[0].Competitors[1].Score = "0"

	games := NormalizeScoreboard(&Scoreboard{Events: []Event{event}})
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}

	game := games[0]
	if game.Status != models.StatusFinal {
		t.Errorf("Status = %q, want final", game.Status)
	}
	if game.AwayScore == nil || *game.AwayScore != 0 {
		t.Errorf("AwayScore = %v, want explicit 0 for a final game", game.AwayScore)
	}
}

func TestNormalizeScoreboardSkipsMalformedEvents(t *testing.T) {
	missingCompetitors := Event{
		ID:           "broken1",
		Competitions: []Competition{{}},
		Status:       Status{Type: StatusType{State: "in"}},
	}
	oneSided := liveEvent("broken2")
	oneSided.Competitions[0].Competitors = oneSided.Competitions[0].Competitors[:1]
	noID := liveEvent("")

	sb := &Scoreboard{Events: []Event{missingCompetitors, liveEvent("401234570"), oneSided, noID}}

	games := NormalizeScoreboard(sb)
	if len(games) != 1 {
		t.Fatalf("got %d games, want only the well-formed one", len(games))
	}
	if games[0].GameID != "401234570" {
		t.Errorf("GameID = %q, want 401234570", games[0].GameID)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"8:00", 8.0, false},
		{"12:30", 12.5, false},
		{"0:45", 0.75, false},
		// Fractional seconds are discarded, not rounded.
		{"0:35.4", 35.0 / 60.0, false},
		{"5:00.9", 5.0, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1:xx", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) returned error: %v", tt.input, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseClock(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFullGameMinutesFirstHalfOffset(t *testing.T) {
	// "5:00" in the first half of a two-half 40-minute format: the second
	// half's 20 minutes are added to the reported clock.
	minutes, err := ParseClock("5:00")
	if err != nil {
		t.Fatalf("ParseClock returned error: %v", err)
	}

	if got := FullGameMinutes(minutes, true, 20); got != 25 {
		t.Errorf("FullGameMinutes(first half) = %v, want 25", got)
	}
	if got := FullGameMinutes(minutes, false, 20); got != 5 {
		t.Errorf("FullGameMinutes(second half) = %v, want 5", got)
	}
}

func scheduleScore(v float64) *ScoreValue {
	return &ScoreValue{Value: &v}
}

func TestNormalizeSchedule(t *testing.T) {
	schedule := &Schedule{
		Team: TeamInfo{ID: "150", DisplayName: "Duke Blue Devils"},
		Events: []ScheduleEvent{
			{
				ID:   "1",
				Date: "2026-01-03T00:00Z",
				Competitions: []ScheduleCompetition{
					{
						Competitors: []ScheduleCompetitor{
							{HomeAway: "home", Team: TeamInfo{ID: "150"}, Score: scheduleScore(82)},
							{HomeAway: "away", Team: TeamInfo{ID: "153", DisplayName: "North Carolina Tar Heels"}, Score: scheduleScore(75)},
						},
					},
				},
			},
			{
				// Not yet played: no score objects. Excluded regardless of
				// any state field.
				ID:   "2",
				Date: "2026-03-01T00:00Z",
				Competitions: []ScheduleCompetition{
					{
						Competitors: []ScheduleCompetitor{
							{HomeAway: "away", Team: TeamInfo{ID: "150"}},
							{HomeAway: "home", Team: TeamInfo{ID: "2305", DisplayName: "Kansas Jayhawks"}},
						},
					},
				},
			},
			{
				ID:   "3",
				Date: "2026-01-10T00:00Z",
				Competitions: []ScheduleCompetition{
					{
						Competitors: []ScheduleCompetitor{
							{HomeAway: "away", Team: TeamInfo{ID: "150"}, Score: scheduleScore(68)},
							{HomeAway: "home", Team: TeamInfo{ID: "96", DisplayName: "Kentucky Wildcats"}, Score: scheduleScore(71)},
						},
					},
				},
			},
		},
	}

	games := NormalizeSchedule(schedule)
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2 completed", len(games))
	}

	first := games[0]
	if first.TeamScore != 82 || first.OpponentScore != 75 {
		t.Errorf("first game score = %d-%d, want 82-75", first.TeamScore, first.OpponentScore)
	}
	if first.Location != "home" {
		t.Errorf("first game location = %q, want home", first.Location)
	}
	if first.Opponent != "North Carolina Tar Heels" {
		t.Errorf("first game opponent = %q", first.Opponent)
	}

	second := games[1]
	if second.TeamScore != 68 || second.OpponentScore != 71 {
		t.Errorf("second game score = %d-%d, want 68-71", second.TeamScore, second.OpponentScore)
	}
	if second.Location != "away" {
		t.Errorf("second game location = %q, want away", second.Location)
	}
}

func TestNormalizeSchedulePartialScoreExcluded(t *testing.T) {
	// One competitor has a score object without a value: not completed.
	schedule := &Schedule{
		Team: TeamInfo{ID: "150"},
		Events: []ScheduleEvent{
			{
				ID: "1",
				Competitions: []ScheduleCompetition{
					{
						Competitors: []ScheduleCompetitor{
							{HomeAway: "home", Team: TeamInfo{ID: "150"}, Score: scheduleScore(55)},
							{HomeAway: "away", Team: TeamInfo{ID: "153"}, Score: &ScoreValue{DisplayValue: ""}},
						},
					},
				},
			},
		},
	}

	if games := NormalizeSchedule(schedule); len(games) != 0 {
		t.Errorf("got %d games, want 0", len(games))
	}
}
