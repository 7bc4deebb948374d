package game

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/peterkuimelis/gwentx/internal/log"
)

// ScriptedController is a PlayerController that follows a predefined script of actions.
// Used in tests to deterministically drive the match.
type ScriptedController struct {
	t       *testing.T
	name    string
	actions []ScriptedAction
	pos     int

	// For ChooseCards prompts
	cardChoices []ScriptedCardChoice
	cardPos     int

	// For ChooseYesNo prompts
	yesNoChoices []bool
	yesNoPos     int

	prompts []string
}

type ScriptedAction struct {
	// Match by ActionType: picks the first action of this type
	Type ActionType
	// Optional: match by card name as well
	CardName string
	// Optional: match a target row (only when HasRow is set)
	Row    int
	HasRow bool
}

type ScriptedCardChoice struct {
	// Choose cards by name
	Names []string
	// Cancel answers the prompt with ErrSelectionCancelled
	Cancel bool
}

func NewScriptedController(t *testing.T, name string) *ScriptedController {
	return &ScriptedController{t: t, name: name}
}

func (sc *ScriptedController) AddAction(actionType ActionType, cardName string) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: actionType, CardName: cardName})
	return sc
}

// AddPlay scripts playing cardName onto a specific board row.
func (sc *ScriptedController) AddPlay(cardName string, row int) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: ActionPlayCard, CardName: cardName, Row: row, HasRow: true})
	return sc
}

func (sc *ScriptedController) AddCardChoice(names ...string) *ScriptedController {
	sc.cardChoices = append(sc.cardChoices, ScriptedCardChoice{Names: names})
	return sc
}

func (sc *ScriptedController) AddCancel() *ScriptedController {
	sc.cardChoices = append(sc.cardChoices, ScriptedCardChoice{Cancel: true})
	return sc
}

func (sc *ScriptedController) AddYesNo(answer bool) *ScriptedController {
	sc.yesNoChoices = append(sc.yesNoChoices, answer)
	return sc
}

func (sc *ScriptedController) AddPass() *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: ActionPass})
	return sc
}

func (sc *ScriptedController) ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error) {
	if sc.pos < len(sc.actions) {
		// Peek at next scripted action, only consume it if it matches an available action.
		scripted := sc.actions[sc.pos]
		for _, a := range actions {
			if a.Type != scripted.Type {
				continue
			}
			if scripted.CardName != "" && (a.Card == nil || a.Card.Card.Name != scripted.CardName) {
				continue
			}
			if scripted.HasRow && a.Row != scripted.Row {
				continue
			}
			sc.pos++
			return a, nil
		}
	}
	// Script exhausted or not yet available: pass.
	for _, a := range actions {
		if a.Type == ActionPass {
			return a, nil
		}
	}
	return actions[len(actions)-1], nil
}

func (sc *ScriptedController) ChooseCards(ctx context.Context, state *GameState, prompt string, candidates []*CardInstance, min, max int) ([]*CardInstance, error) {
	sc.prompts = append(sc.prompts, prompt)
	if sc.cardPos >= len(sc.cardChoices) {
		// Default: choose the first min candidates
		if min > len(candidates) {
			min = len(candidates)
		}
		return candidates[:min], nil
	}

	choice := sc.cardChoices[sc.cardPos]
	sc.cardPos++
	if choice.Cancel {
		return nil, ErrSelectionCancelled
	}

	var result []*CardInstance
	for _, name := range choice.Names {
		for _, c := range candidates {
			if c.Card.Name == name {
				result = append(result, c)
				break
			}
		}
	}
	if len(result) < min {
		return nil, fmt.Errorf("[%s] card choice: wanted %v but only found %d in candidates", sc.name, choice.Names, len(result))
	}
	return result, nil
}

func (sc *ScriptedController) ChooseYesNo(ctx context.Context, state *GameState, prompt string) (bool, error) {
	sc.prompts = append(sc.prompts, prompt)
	if sc.yesNoPos >= len(sc.yesNoChoices) {
		return false, nil
	}
	answer := sc.yesNoChoices[sc.yesNoPos]
	sc.yesNoPos++
	return answer, nil
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

// --- Test card helpers ---

func cardKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

func unitCard(name string, power int, class RowClass, abilities ...AbilityID) *Card {
	c := &Card{
		Key:       cardKey(name),
		Name:      name,
		Faction:   FactionNeutral,
		BasePower: power,
		Abilities: abilities,
		Class:     class,
		Copies:    3,
	}
	c.Hero = c.Has(AbilityHero)
	return c
}

func bondCard(name string, power int) *Card {
	c := unitCard(name, power, ClassClose, AbilityBond)
	c.Target = c.Key
	return c
}

func specialCard(name string, id AbilityID) *Card {
	return &Card{Key: cardKey(name), Name: name, Faction: FactionNeutral, Abilities: []AbilityID{id}, Class: ClassSpecial, Copies: 3}
}

func weatherCard(name string, id AbilityID) *Card {
	return &Card{Key: cardKey(name), Name: name, Faction: FactionNeutral, Abilities: []AbilityID{id}, Class: ClassWeather, Copies: 3}
}

// makePaddedDeck creates a deck with specified cards on top (drawn first) and filler to reach a minimum size.
// topCards are ordered so that index 0 is drawn first.
func makePaddedDeck(faction Faction, topCards []*Card, minSize int) *Deck {
	filler := unitCard("Filler Token", 1, ClassSiege)
	cards := make([]*Card, 0, minSize)

	// Filler goes at bottom (drawn last)
	for i := 0; i < minSize-len(topCards); i++ {
		cards = append(cards, filler)
	}

	// Top cards go at end of slice (drawn first), reverse order so index 0 is drawn first
	for i := len(topCards) - 1; i >= 0; i-- {
		cards = append(cards, topCards[i])
	}

	return &Deck{Name: faction.String() + " test deck", Faction: faction, Cards: cards}
}

// newTestMatch builds a deterministic match without running it. Player 0 is active.
func newTestMatch(t *testing.T, deck0, deck1 *Deck, p0, p1 PlayerController) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	m, err := NewMatch(MatchConfig{
		Decks:      [2]*Deck{deck0, deck1},
		Logger:     logger,
		Seed:       1,
		NoShuffle:  true,
		NoCoinToss: true,
	}, p0, p1)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	m.State.Round = 1
	return m, logger
}

// boardMatch returns an idle match with empty decks for direct board manipulation.
func boardMatch(t *testing.T) *Match {
	t.Helper()
	p0 := NewScriptedController(t, "P1")
	p1 := NewScriptedController(t, "P2")
	m, _ := newTestMatch(t, makePaddedDeck(FactionRealms, nil, 0), makePaddedDeck(FactionRealms, nil, 0), p0, p1)
	return m
}

// place makes a fresh instance of card resident on side's lane row.
func place(m *Match, side int, card *Card, lane Lane) *CardInstance {
	ci := m.State.CreateCardInstance(card, side)
	m.addToRow(ci, m.State.Board.Row(side, lane))
	return ci
}

// giveHand puts a fresh instance of card into player's hand.
func giveHand(m *Match, player int, card *Card) *CardInstance {
	ci := m.State.CreateCardInstance(card, player)
	m.State.Players[player].AddToHand(ci)
	return ci
}

// runMatchToCompletion runs a match and returns the logger for inspection.
func runMatchToCompletion(t *testing.T, cfg MatchConfig, p0, p1 PlayerController) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	cfg.NoShuffle = true // deterministic tests
	cfg.NoCoinToss = true
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	m, err := NewMatch(cfg, p0, p1)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatalf("match error: %v", err)
	}
	return m, logger
}

// findAction returns the first legal action playing cardName onto row.
func findAction(t *testing.T, m *Match, player int, cardName string, row int) Action {
	t.Helper()
	for _, a := range m.LegalActions(player) {
		if a.Type == ActionPlayCard && a.Card.Card.Name == cardName && a.Row == row {
			return a
		}
	}
	t.Fatalf("no legal action plays %s to row %d", cardName, row)
	return Action{}
}
