package espn

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/courtside/internal/logger"
	"github.com/fortuna/courtside/internal/models"
	"github.com/fortuna/courtside/internal/teamstats"
)

// NormalizeScoreboard maps a scoreboard payload to internal game records.
// Malformed events are skipped, never fatal to the batch.
func NormalizeScoreboard(scoreboard *Scoreboard) []*models.Game {
	games := make([]*models.Game, 0, len(scoreboard.Events))
	for i := range scoreboard.Events {
		game, err := normalizeEvent(&scoreboard.Events[i])
		if err != nil {
			logger.Warn("[normalizer] skipping game %s: %v", scoreboard.Events[i].ID, err)
			continue
		}
		games = append(games, game)
	}
	return games
}

func normalizeEvent(event *Event) (*models.Game, error) {
	if event.ID == "" {
		return nil, fmt.Errorf("missing event id")
	}
	if len(event.Competitions) == 0 {
		return nil, fmt.Errorf("no competitions")
	}

	game := &models.Game{
		GameID: event.ID,
		Status: parseGameStatus(event.Status),
		Period: event.Status.Period,
		Clock:  event.Status.DisplayClock,
	}

	if event.Date != "" {
		if startTime, err := parseEventDate(event.Date); err == nil {
			game.StartTime = startTime
		} else {
			logger.Warn("[normalizer] bad date %q for game %s: %v", event.Date, event.ID, err)
		}
	}

	if game.Clock != "" {
		if minutes, err := ParseClock(game.Clock); err == nil {
			game.MinutesRemaining = minutes
		} else {
			logger.Warn("[normalizer] bad clock %q for game %s: %v", game.Clock, event.ID, err)
		}
	}

	var haveHome, haveAway bool
	for _, competitor := range event.Competitions[0].Competitors {
		team := models.Team{
			ID:           competitor.Team.ID,
			Abbreviation: strings.ToUpper(competitor.Team.Abbreviation),
			DisplayName:  competitor.Team.DisplayName,
		}

		// A pre-game scoreboard reports "0" for games that haven't tipped
		// off. That is "no score yet", not a 0-0 feed; for live and final
		// games 0 is a legitimate score.
		var score *int
		if game.Status != models.StatusScheduled {
			if v, err := strconv.Atoi(strings.TrimSpace(competitor.Score)); err == nil {
				score = &v
			}
		}

		switch competitor.HomeAway {
		case "home":
			game.HomeTeam = team
			game.HomeScore = score
			haveHome = true
		case "away":
			game.AwayTeam = team
			game.AwayScore = score
			haveAway = true
		}
	}

	if !haveHome || !haveAway {
		return nil, fmt.Errorf("insufficient competitors")
	}

	return game, nil
}

// NormalizeSchedule reduces a team schedule payload to the team's
// completed games in feed (chronological) order. A game counts as
// completed only when both competitors carry a numeric score value; the
// state field proved less reliable upstream for this.
func NormalizeSchedule(schedule *Schedule) []teamstats.RecentGame {
	var games []teamstats.RecentGame
	for i := range schedule.Events {
		game, ok := normalizeScheduleEvent(schedule.Team.ID, &schedule.Events[i])
		if !ok {
			continue
		}
		games = append(games, game)
	}
	return games
}

func normalizeScheduleEvent(teamID string, event *ScheduleEvent) (teamstats.RecentGame, bool) {
	if len(event.Competitions) == 0 {
		return teamstats.RecentGame{}, false
	}
	comp := &event.Competitions[0]
	if len(comp.Competitors) < 2 {
		return teamstats.RecentGame{}, false
	}

	var mine, theirs *ScheduleCompetitor
	for i := range comp.Competitors {
		if comp.Competitors[i].Team.ID == teamID {
			mine = &comp.Competitors[i]
		} else {
			theirs = &comp.Competitors[i]
		}
	}
	if mine == nil || theirs == nil {
		return teamstats.RecentGame{}, false
	}

	// Completed-game discriminant: both sides have a present score value.
	if mine.Score == nil || mine.Score.Value == nil ||
		theirs.Score == nil || theirs.Score.Value == nil {
		return teamstats.RecentGame{}, false
	}

	location := teamstats.Away
	if mine.HomeAway == "home" {
		location = teamstats.Home
	}

	game := teamstats.RecentGame{
		TeamScore:     int(*mine.Score.Value),
		OpponentScore: int(*theirs.Score.Value),
		Opponent:      theirs.Team.DisplayName,
		Location:      location,
	}

	dateStr := comp.Date
	if dateStr == "" {
		dateStr = event.Date
	}
	if dateStr != "" {
		if date, err := parseEventDate(dateStr); err == nil {
			game.Date = date
		}
	}

	return game, true
}

// ParseClock parses an "MM:SS" display clock into minutes. A fractional
// seconds suffix ("0:35.4") is discarded; sub-second precision is noise
// for pace purposes.
func ParseClock(clock string) (float64, error) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return 0, fmt.Errorf("empty clock")
	}

	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		// Some feeds report a bare seconds count late in a period.
		if secs, err := strconv.ParseFloat(clock, 64); err == nil {
			return float64(int(secs)) / 60.0, nil
		}
		return 0, fmt.Errorf("malformed clock %q", clock)
	}

	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock minutes %q", clock)
	}

	secPart := parts[1]
	if dot := strings.Index(secPart, "."); dot >= 0 {
		secPart = secPart[:dot]
	}
	seconds, err := strconv.Atoi(secPart)
	if err != nil {
		return 0, fmt.Errorf("malformed clock seconds %q", clock)
	}

	if minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("negative clock %q", clock)
	}

	return float64(minutes) + float64(seconds)/60.0, nil
}

// FullGameMinutes converts a period-relative clock to full-game minutes
// remaining. The first-half toggle adds the fixed remaining-regulation
// offset; it is caller-controlled because upstream period numbering is
// unreliable and overtime is not modeled by this rule.
func FullGameMinutes(periodMinutes float64, firstHalf bool, firstHalfOffset float64) float64 {
	if firstHalf {
		return periodMinutes + firstHalfOffset
	}
	return periodMinutes
}

func parseEventDate(dateStr string) (time.Time, error) {
	// Try RFC3339 first, then ESPN's shortened format (no seconds).
	t, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04Z", dateStr)
	}
	return t, err
}

func parseGameStatus(status Status) models.GameStatus {
	if status.Type.Completed {
		return models.StatusFinal
	}
	switch status.Type.State {
	case "in":
		return models.StatusLive
	case "post":
		return models.StatusFinal
	case "pre":
		return models.StatusScheduled
	}
	return models.StatusScheduled
}
