package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/peterkuimelis/gwentx/internal/game"
	"github.com/peterkuimelis/gwentx/internal/storage/sqlite"
)

type HistoryCmd struct {
	DB    string `default:"${db}" help:"SQLite file holding match summaries"`
	Limit int    `short:"n" default:"20" help:"Number of matches to show"`
}

func (c *HistoryCmd) Run(rt *runtime) error {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, c.DB)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	summaries, err := store.ListSummaries(ctx, c.Limit)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No matches recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FINISHED\tSEAT 0\tSEAT 1\tROUNDS\tRESULT")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.FinishedAt.Local().Format(time.DateTime),
			s.Decks[0], s.Decks[1],
			formatRounds(s.Rounds),
			formatResult(s),
		)
	}
	return w.Flush()
}

func formatRounds(rounds []game.RoundResult) string {
	parts := make([]string, 0, len(rounds))
	for _, r := range rounds {
		parts = append(parts, fmt.Sprintf("%d-%d", r.ScoreA, r.ScoreB))
	}
	return strings.Join(parts, " ")
}

func formatResult(s game.MatchSummary) string {
	if s.Winner < 0 {
		return "draw (" + s.Reason + ")"
	}
	return fmt.Sprintf("%s wins (%s)", s.Decks[s.Winner], s.Reason)
}
