package espn

// Wire types for the ESPN site API. Payloads are decoded into these
// structs directly; records that don't fit the shape are skipped by the
// normalizer rather than patched up field by field.

// Scoreboard is the top-level scoreboard response.
type Scoreboard struct {
	Events []Event `json:"events"`
}

// Event is one game on the scoreboard.
type Event struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Name         string        `json:"name"`
	Competitions []Competition `json:"competitions"`
	Status       Status        `json:"status"`
}

// Competition carries the competitors and venue for an event.
type Competition struct {
	Competitors []Competitor `json:"competitors"`
}

// Competitor is one side of a competition. Score is a string on the
// scoreboard endpoint and an object on the team schedule endpoint, so
// each has its own competitor type.
type Competitor struct {
	HomeAway string   `json:"homeAway"`
	Team     TeamInfo `json:"team"`
	Score    string   `json:"score"`
}

// TeamInfo identifies a team in the feed.
type TeamInfo struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
}

// Status is the game clock/state block.
type Status struct {
	Period       int        `json:"period"`
	DisplayClock string     `json:"displayClock"`
	Type         StatusType `json:"type"`
}

// StatusType holds the pre/in/post state enum.
type StatusType struct {
	State     string `json:"state"`
	Completed bool   `json:"completed"`
}

// Schedule is the per-team schedule response.
type Schedule struct {
	Team   TeamInfo        `json:"team"`
	Events []ScheduleEvent `json:"events"`
}

// ScheduleEvent is one game on a team's schedule.
type ScheduleEvent struct {
	ID           string                `json:"id"`
	Date         string                `json:"date"`
	Competitions []ScheduleCompetition `json:"competitions"`
}

// ScheduleCompetition carries the competitors of a schedule entry.
type ScheduleCompetition struct {
	Date        string               `json:"date"`
	Competitors []ScheduleCompetitor `json:"competitors"`
}

// ScheduleCompetitor is one side of a schedule entry. The score object is
// absent for games not yet played; its presence on both competitors is
// the completed-game discriminant.
type ScheduleCompetitor struct {
	HomeAway string      `json:"homeAway"`
	Team     TeamInfo    `json:"team"`
	Score    *ScoreValue `json:"score"`
}

// ScoreValue is the schedule endpoint's score object.
type ScoreValue struct {
	Value        *float64 `json:"value"`
	DisplayValue string   `json:"displayValue"`
}
