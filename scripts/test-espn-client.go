package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/fortuna/courtside/internal/ingest/espn"
)

// Manual check of the ESPN client against the live API.
// Usage: go run scripts/test-espn-client.go [YYYY-MM-DD]
func main() {
	log.Println("Testing ESPN API client directly...")

	client := espn.NewClient()
	ctx := context.Background()

	var date time.Time
	if len(os.Args) > 1 {
		parsed, err := time.Parse("2006-01-02", os.Args[1])
		if err != nil {
			log.Fatalf("❌ Invalid date %q: %v", os.Args[1], err)
		}
		date = parsed
	}

	log.Printf("Fetching %s scoreboard...", espn.BasketballMensCollege)
	scoreboard, err := client.FetchScoreboard(ctx, espn.BasketballMensCollege, date)
	if err != nil {
		log.Fatalf("❌ ERROR: %v", err)
	}

	games := espn.NormalizeScoreboard(scoreboard)
	log.Printf("✅ SUCCESS! %d raw events, %d normalized games", len(scoreboard.Events), len(games))

	for _, game := range games {
		total, ok := game.TotalScore()
		if !ok {
			log.Printf("   %s @ %s — %s (no score yet)",
				game.AwayTeam.DisplayName, game.HomeTeam.DisplayName, game.Status)
			continue
		}
		log.Printf("   %s @ %s — %s, %d combined, %s left in period %d",
			game.AwayTeam.DisplayName, game.HomeTeam.DisplayName, game.Status,
			total, game.Clock, game.Period)
	}

	if len(games) > 0 {
		teamID := games[0].HomeTeam.ID
		log.Printf("Fetching schedule for team %s...", teamID)
		schedule, err := client.FetchTeamSchedule(ctx, espn.BasketballMensCollege, teamID)
		if err != nil {
			log.Fatalf("❌ ERROR: %v", err)
		}
		completed := espn.NormalizeSchedule(schedule)
		log.Printf("✅ SUCCESS! %s: %d completed games", schedule.Team.DisplayName, len(completed))
	}

	log.Println("✅ All checks passed")
}
