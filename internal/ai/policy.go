package ai

import (
	rand "math/rand/v2"
	"sort"
	"time"

	"github.com/peterkuimelis/gwentx/internal/game"
)

// Policy chooses actions for one seat. It is not safe for concurrent use.
type Policy struct {
	cfg     Config
	catalog *game.Catalog
	rng     *rand.Rand
}

// NewPolicy creates a policy. A nil catalog uses the default one.
func NewPolicy(cfg Config, cat *game.Catalog) *Policy {
	if cat == nil {
		cat = game.DefaultCatalog()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Policy{
		cfg:     cfg,
		catalog: cat,
		rng:     rand.New(rand.NewPCG(uint64(seed), 0)),
	}
}

// Config returns the policy's thresholds.
func (p *Policy) Config() Config {
	return p.cfg
}

// Plan orders the legal actions into a fallback ladder. The first entry is
// the lottery pick among the actions surviving the hard constraints; then
// come the other positively weighted survivors by weight, then every card
// play regardless of weight, then pass.
func (p *Policy) Plan(gs *game.GameState, player int, actions []game.Action) []game.Action {
	survivors := p.constrain(gs, player, actions)
	weights := make([]float64, len(survivors))
	for i, a := range survivors {
		weights[i] = p.Weigh(gs, player, a)
	}

	pick := -1
	if total := totalWeight(weights); total > 0 {
		pick = Lottery(weights, p.rng.Float64()*total)
	}

	order := make([]int, len(survivors))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return weights[order[a]] > weights[order[b]]
	})

	var ladder []game.Action
	used := make([]bool, len(survivors))
	if pick >= 0 {
		ladder = append(ladder, survivors[pick])
		used[pick] = true
	}
	for _, i := range order {
		if used[i] || weights[i] <= 0 || survivors[i].Type == game.ActionPass {
			continue
		}
		ladder = append(ladder, survivors[i])
		used[i] = true
	}
	for _, i := range order {
		if used[i] || survivors[i].Type != game.ActionPlayCard {
			continue
		}
		ladder = append(ladder, survivors[i])
		used[i] = true
	}
	if pick < 0 || survivors[pick].Type != game.ActionPass {
		for _, a := range actions {
			if a.Type == game.ActionPass {
				ladder = append(ladder, a)
				break
			}
		}
	}
	return ladder
}

// constrain removes the actions the policy never takes. Pass always
// survives when nothing else does.
func (p *Policy) constrain(gs *game.GameState, player int, actions []game.Action) []game.Action {
	me := gs.Players[player]
	opp := gs.Players[gs.Opponent(player)]

	var out []game.Action
	plays := 0
	for _, a := range actions {
		switch a.Type {
		case game.ActionConcede:
			continue
		case game.ActionPlayCard:
			if gs.Round == 1 && me.HandCount()-1+p.draws(gs, a.Card) < p.cfg.OpeningHandFloor {
				continue
			}
		}
		if a.Type != game.ActionPass {
			plays++
		}
		out = append(out, a)
	}
	if plays == 0 {
		return out
	}

	dropPass := false
	switch {
	case gs.Decisive():
		dropPass = true
	case opp.Passed && me.Score == opp.Score:
		dropPass = true
	case !opp.Passed && me.PlaysThisRound < p.cfg.MinPlaysPerRound:
		dropPass = true
	}
	if !dropPass {
		return out
	}
	kept := out[:0]
	for _, a := range out {
		if a.Type != game.ActionPass {
			kept = append(kept, a)
		}
	}
	return kept
}

// draws returns how many cards playing card puts back into its owner's hand.
func (p *Policy) draws(gs *game.GameState, card *game.CardInstance) int {
	if card == nil {
		return 0
	}
	switch {
	case card.Card.IsUnit() && card.Card.Has(game.AbilitySpy):
		return gs.Rules.SpyDraws
	case card.Card.Primary() == game.AbilityBank:
		return 1
	}
	return 0
}
