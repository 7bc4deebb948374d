// Package storage defines persistence contracts for finished match summaries.
package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/peterkuimelis/gwentx/internal/game"
)

var (
	// ErrNotFound indicates a requested summary is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a summary with the same ID was already saved.
	ErrAlreadyExists = errors.New("record already exists")
)

// SummaryStore persists match summaries. It satisfies game.SummarySink.
type SummaryStore interface {
	SaveSummary(ctx context.Context, s *game.MatchSummary) error
	GetSummary(ctx context.Context, id uuid.UUID) (game.MatchSummary, error)
	// ListSummaries returns up to limit summaries, most recently finished first.
	ListSummaries(ctx context.Context, limit int) ([]game.MatchSummary, error)
}

// Memory is an in-process SummaryStore.
type Memory struct {
	mu        sync.Mutex
	summaries map[uuid.UUID]game.MatchSummary
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{summaries: make(map[uuid.UUID]game.MatchSummary)}
}

func (m *Memory) SaveSummary(ctx context.Context, s *game.MatchSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		return errors.New("summary is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.summaries[s.ID]; ok {
		return ErrAlreadyExists
	}
	c := *s
	c.Rounds = cloneRounds(s.Rounds)
	m.summaries[s.ID] = c
	return nil
}

func (m *Memory) GetSummary(ctx context.Context, id uuid.UUID) (game.MatchSummary, error) {
	if err := ctx.Err(); err != nil {
		return game.MatchSummary{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.summaries[id]
	if !ok {
		return game.MatchSummary{}, ErrNotFound
	}
	s.Rounds = cloneRounds(s.Rounds)
	return s, nil
}

func (m *Memory) ListSummaries(ctx context.Context, limit int) ([]game.MatchSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, errors.New("limit must be greater than zero")
	}
	m.mu.Lock()
	out := make([]game.MatchSummary, 0, len(m.summaries))
	for _, s := range m.summaries {
		s.Rounds = cloneRounds(s.Rounds)
		out = append(out, s)
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].FinishedAt.Equal(out[j].FinishedAt) {
			return out[i].FinishedAt.After(out[j].FinishedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// cloneRounds deep-copies round results, including the winner pointers.
func cloneRounds(rounds []game.RoundResult) []game.RoundResult {
	if rounds == nil {
		return nil
	}
	out := make([]game.RoundResult, len(rounds))
	for i, r := range rounds {
		out[i] = r
		if r.Winner != nil {
			w := *r.Winner
			out[i].Winner = &w
		}
	}
	return out
}

var _ SummaryStore = (*Memory)(nil)
var _ game.SummarySink = (*Memory)(nil)
