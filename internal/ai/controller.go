package ai

import (
	"context"
	"io"
	"sort"

	clog "github.com/charmbracelet/log"

	"github.com/peterkuimelis/gwentx/internal/game"
	"github.com/peterkuimelis/gwentx/internal/log"
)

// Controller implements game.PlayerController with a Policy. When the match
// re-asks within the same turn after rejecting an action, the controller
// serves the next rung of the ladder it planned for that turn.
type Controller struct {
	policy *Policy
	diag   *clog.Logger

	turn int
	plan []game.Action
	next int
}

// NewController creates a controller. A nil logger discards diagnostics.
func NewController(policy *Policy, diag *clog.Logger) *Controller {
	if diag == nil {
		diag = clog.NewWithOptions(io.Discard, clog.Options{})
	}
	return &Controller{policy: policy, diag: diag}
}

func (c *Controller) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	if err := ctx.Err(); err != nil {
		return game.Action{}, err
	}
	if len(actions) == 0 {
		return game.Action{Type: game.ActionPass, Player: state.Active, Row: game.NoTargetRow}, nil
	}
	player := actions[0].Player
	if c.plan == nil || state.Turn != c.turn {
		c.turn = state.Turn
		c.plan = c.policy.Plan(state, player, actions)
		c.next = 0
		if len(c.plan) > 0 {
			c.diag.Debug("planned turn", "player", player, "turn", state.Turn, "pick", c.plan[0].String(), "ladder", len(c.plan))
		}
	}
	for c.next < len(c.plan) {
		want := c.plan[c.next]
		c.next++
		for _, a := range actions {
			if a.Same(want) {
				return a, nil
			}
		}
	}
	for _, a := range actions {
		if a.Type == game.ActionPass {
			return a, nil
		}
	}
	return actions[0], nil
}

func (c *Controller) ChooseCards(ctx context.Context, state *game.GameState, prompt string, candidates []*game.CardInstance, min, max int) ([]*game.CardInstance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	cfg := c.policy.cfg
	switch prompt {
	case game.PromptMulligan:
		if pick := mulliganPick(candidates, cfg.MulliganBelow); pick != nil {
			return []*game.CardInstance{pick}, nil
		}
		return nil, nil
	case game.PromptMedic:
		return []*game.CardInstance{bestBy(candidates, func(ci *game.CardInstance) float64 {
			if ci.Card.Has(game.AbilitySpy) {
				return cfg.DrawValue * float64(state.Rules.SpyDraws)
			}
			return float64(ci.Card.BasePower)
		})}, nil
	case game.PromptDecoy:
		return []*game.CardInstance{bestBy(candidates, func(ci *game.CardInstance) float64 {
			switch {
			case ci.Card.Has(game.AbilitySpy):
				return 100
			case ci.Card.Has(game.AbilityMedic):
				return 50
			}
			return float64(ci.Power)
		})}, nil
	}

	// Unknown prompts take the strongest cards the minimum asks for.
	ranked := append([]*game.CardInstance(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Power > ranked[j].Power })
	if min > len(ranked) {
		min = len(ranked)
	}
	return ranked[:min], nil
}

// ChooseYesNo declines every question; going second is the stronger seat.
func (c *Controller) ChooseYesNo(ctx context.Context, state *game.GameState, prompt string) (bool, error) {
	return false, ctx.Err()
}

func (c *Controller) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

// mulliganPick returns a duplicate weather card, else the weakest plain
// unit below the threshold, else nil.
func mulliganPick(hand []*game.CardInstance, below int) *game.CardInstance {
	seen := make(map[game.AbilityID]bool)
	for _, ci := range hand {
		if !ci.Card.IsWeather() {
			continue
		}
		kind := ci.Card.Primary()
		if seen[kind] {
			return ci
		}
		seen[kind] = true
	}
	var weakest *game.CardInstance
	for _, ci := range hand {
		c := ci.Card
		if !c.IsUnit() || c.Hero || len(c.Abilities) > 0 || c.BasePower >= below {
			continue
		}
		if weakest == nil || c.BasePower < weakest.Card.BasePower {
			weakest = ci
		}
	}
	return weakest
}

func bestBy(cards []*game.CardInstance, value func(*game.CardInstance) float64) *game.CardInstance {
	best := cards[0]
	bestV := value(best)
	for _, ci := range cards[1:] {
		if v := value(ci); v > bestV {
			best, bestV = ci, v
		}
	}
	return best
}
