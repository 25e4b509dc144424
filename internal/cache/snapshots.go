// Package cache holds the latest immutable snapshot of each polled feed.
// Persistence is deliberately in-memory only: a poll tick supersedes the
// previous snapshot, and a failed tick leaves the old one in place.
package cache

import (
	"sync"
	"time"

	"github.com/fortuna/courtside/internal/models"
	"github.com/fortuna/courtside/internal/reconciliation"
	"github.com/google/uuid"
)

// GameSnapshot is one poll cycle's view of the scoreboard.
type GameSnapshot struct {
	ID      string         `json:"id"`
	TakenAt time.Time      `json:"taken_at"`
	Games   []*models.Game `json:"games"`
}

// OddsSnapshot is one poll cycle's matched odds view: the lookup index
// for joins plus the listed lines for presentation.
type OddsSnapshot struct {
	ID       string                       `json:"id"`
	TakenAt  time.Time                    `json:"taken_at"`
	Index    reconciliation.Index         `json:"-"`
	Lines    []reconciliation.MatchedLine `json:"lines"`
	Matchups int                          `json:"matchups"`
}

// Store keeps the latest snapshot per feed behind a read lock. Snapshots
// are replaced wholesale, never mutated, so readers can hold a snapshot
// across a tick safely.
type Store struct {
	mu    sync.RWMutex
	games *GameSnapshot
	odds  *OddsSnapshot
}

// NewStore creates an empty snapshot store.
func NewStore() *Store {
	return &Store{}
}

// SetGames installs a new scoreboard snapshot and returns it.
func (s *Store) SetGames(games []*models.Game) *GameSnapshot {
	snapshot := &GameSnapshot{
		ID:      uuid.NewString(),
		TakenAt: time.Now(),
		Games:   games,
	}

	s.mu.Lock()
	s.games = snapshot
	s.mu.Unlock()

	return snapshot
}

// Games returns the latest scoreboard snapshot, or nil before the first
// successful poll.
func (s *Store) Games() *GameSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.games
}

// FindGame looks up a game by ID in the latest scoreboard snapshot.
func (s *Store) FindGame(gameID string) (*models.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.games == nil {
		return nil, false
	}
	for _, game := range s.games.Games {
		if game.GameID == gameID {
			return game, true
		}
	}
	return nil, false
}

// SetOdds installs a new odds snapshot and returns it.
func (s *Store) SetOdds(index reconciliation.Index, lines []reconciliation.MatchedLine) *OddsSnapshot {
	snapshot := &OddsSnapshot{
		ID:       uuid.NewString(),
		TakenAt:  time.Now(),
		Index:    index,
		Lines:    lines,
		Matchups: len(lines),
	}

	s.mu.Lock()
	s.odds = snapshot
	s.mu.Unlock()

	return snapshot
}

// Odds returns the latest odds snapshot, or nil before the first
// successful poll.
func (s *Store) Odds() *OddsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.odds
}
