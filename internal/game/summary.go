package game

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MatchSummary is the durable record of a finished match.
type MatchSummary struct {
	ID         uuid.UUID
	Factions   [2]string
	Decks      [2]string
	Rounds     []RoundResult
	Lives      [2]int
	Winner     int // 0, 1, or -1 for a draw
	Reason     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// SummarySink persists match summaries.
type SummarySink interface {
	SaveSummary(ctx context.Context, s *MatchSummary) error
}

func newSummary(decks [2]*Deck) *MatchSummary {
	s := &MatchSummary{ID: uuid.New(), Winner: -1}
	for i, d := range decks {
		s.Factions[i] = d.Faction.String()
		s.Decks[i] = d.Name
	}
	return s
}

func (s *MatchSummary) complete(gs *GameState, at time.Time) {
	s.Rounds = append([]RoundResult(nil), gs.Rounds...)
	for i, p := range gs.Players {
		s.Lives[i] = p.Lives
	}
	s.Winner = gs.Winner
	s.Reason = gs.Result
	s.FinishedAt = at
}
