// Package sqlite provides a SQLite-backed summary store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/peterkuimelis/gwentx/internal/game"
	"github.com/peterkuimelis/gwentx/internal/storage"
	"github.com/peterkuimelis/gwentx/internal/storage/sqlite/migrations"
)

// Store persists match summaries in SQLite.
type Store struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// Open opens the database at path and applies the embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := ApplyMigrations(ctx, db, migrations.FS, ""); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSummary inserts a summary and its round results in one transaction.
func (s *Store) SaveSummary(ctx context.Context, sum *game.MatchSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sum == nil {
		return fmt.Errorf("summary is required")
	}
	if sum.ID == uuid.Nil {
		return fmt.Errorf("summary id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save summary: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO match_summaries (
		   id, faction_a, faction_b, deck_a, deck_b,
		   lives_a, lives_b, winner, reason, started_at, finished_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.ID.String(),
		sum.Factions[0], sum.Factions[1],
		sum.Decks[0], sum.Decks[1],
		sum.Lives[0], sum.Lives[1],
		sum.Winner,
		sum.Reason,
		toMillis(sum.StartedAt),
		toMillis(sum.FinishedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("save summary: %w", err)
	}

	for _, r := range sum.Rounds {
		var winner sql.NullInt64
		if r.Winner != nil {
			winner = sql.NullInt64{Int64: int64(*r.Winner), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO round_results (match_id, round, winner, score_a, score_b) VALUES (?, ?, ?, ?, ?)`,
			sum.ID.String(), r.Round, winner, r.ScoreA, r.ScoreB,
		); err != nil {
			return fmt.Errorf("save round %d: %w", r.Round, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit summary: %w", err)
	}
	return nil
}

// GetSummary returns one summary by ID.
func (s *Store) GetSummary(ctx context.Context, id uuid.UUID) (game.MatchSummary, error) {
	if err := ctx.Err(); err != nil {
		return game.MatchSummary{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, faction_a, faction_b, deck_a, deck_b,
		        lives_a, lives_b, winner, reason, started_at, finished_at
		   FROM match_summaries
		  WHERE id = ?`,
		id.String(),
	)
	sum, err := scanSummary(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return game.MatchSummary{}, storage.ErrNotFound
		}
		return game.MatchSummary{}, fmt.Errorf("get summary: %w", err)
	}
	if err := s.loadRounds(ctx, &sum); err != nil {
		return game.MatchSummary{}, err
	}
	return sum, nil
}

// ListSummaries returns up to limit summaries, most recently finished first.
func (s *Store) ListSummaries(ctx context.Context, limit int) ([]game.MatchSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, faction_a, faction_b, deck_a, deck_b,
		        lives_a, lives_b, winner, reason, started_at, finished_at
		   FROM match_summaries
		  ORDER BY finished_at DESC, id ASC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var out []game.MatchSummary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("list summaries: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	rows.Close()

	for i := range out {
		if err := s.loadRounds(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (game.MatchSummary, error) {
	var (
		sum               game.MatchSummary
		id                string
		started, finished int64
	)
	err := row.Scan(
		&id,
		&sum.Factions[0], &sum.Factions[1],
		&sum.Decks[0], &sum.Decks[1],
		&sum.Lives[0], &sum.Lives[1],
		&sum.Winner,
		&sum.Reason,
		&started, &finished,
	)
	if err != nil {
		return game.MatchSummary{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return game.MatchSummary{}, fmt.Errorf("parse summary id %q: %w", id, err)
	}
	sum.ID = parsed
	sum.StartedAt = fromMillis(started)
	sum.FinishedAt = fromMillis(finished)
	return sum, nil
}

func (s *Store) loadRounds(ctx context.Context, sum *game.MatchSummary) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT round, winner, score_a, score_b
		   FROM round_results
		  WHERE match_id = ?
		  ORDER BY round ASC`,
		sum.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("load rounds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r      game.RoundResult
			winner sql.NullInt64
		)
		if err := rows.Scan(&r.Round, &winner, &r.ScoreA, &r.ScoreB); err != nil {
			return fmt.Errorf("load rounds: %w", err)
		}
		if winner.Valid {
			w := int(winner.Int64)
			r.Winner = &w
		}
		sum.Rounds = append(sum.Rounds, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load rounds: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.SummaryStore = (*Store)(nil)
