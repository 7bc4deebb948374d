package game

import (
	"errors"
)

// requestChoice is the single suspension point of the engine. It asks
// player to pick between min and max candidates and validates the answer
// before returning it; nothing is committed here. An empty candidate list
// returns no cards. A second request while one is pending is refused.
func (m *Match) requestChoice(player int, prompt string, candidates []*CardInstance, min, max int) ([]*CardInstance, error) {
	gs := m.State
	if gs.Pending != nil {
		m.Diag.Error("choice requested while another is pending",
			"player", player, "prompt", prompt, "pending", gs.Pending.Prompt)
		return nil, ErrChoicePending
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	if max > len(candidates) {
		max = len(candidates)
	}
	if min > max {
		min = max
	}

	offered := append([]*CardInstance(nil), candidates...)
	resume := gs.Phase
	gs.Pending = &PendingChoice{Player: player, Prompt: prompt, Candidates: offered, Min: min, Max: max}
	gs.Phase = StateAwaitingChoice
	defer func() {
		gs.Pending = nil
		gs.Phase = resume
	}()

	chosen, err := m.Controllers[player].ChooseCards(m.ctx, gs, prompt, offered, min, max)
	if err != nil {
		if errors.Is(err, ErrSelectionCancelled) {
			return nil, ErrSelectionCancelled
		}
		return nil, err
	}
	if len(chosen) < min || len(chosen) > max {
		m.Diag.Warn("choice count out of range", "player", player, "got", len(chosen), "min", min, "max", max)
		return nil, ErrSelectionCancelled
	}
	seen := make(map[int]bool, len(chosen))
	for _, c := range chosen {
		if c == nil || seen[c.ID] || indexOf(offered, c) < 0 {
			m.Diag.Warn("choice outside the candidate list", "player", player, "prompt", prompt)
			return nil, ErrSelectionCancelled
		}
		seen[c.ID] = true
	}
	return chosen, nil
}
