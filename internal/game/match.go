package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/peterkuimelis/gwentx/internal/log"
)

// PlayerController is the interface that human (network, web, MCP) and automated players implement.
type PlayerController interface {
	// ChooseAction presents available actions and waits for the player to pick one.
	ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error)

	// ChooseCards asks the player to select cards from a list (revive, decoy, mulligan).
	// Returning ErrSelectionCancelled reverts the action that asked.
	ChooseCards(ctx context.Context, state *GameState, prompt string, candidates []*CardInstance, min, max int) ([]*CardInstance, error)

	// ChooseYesNo asks the player a yes/no question.
	ChooseYesNo(ctx context.Context, state *GameState, prompt string) (bool, error)

	// Notify sends a game event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// Prompts passed to ChooseCards and ChooseYesNo.
const (
	PromptMulligan = "Redraw a card (choose none to keep your hand)"
	PromptMedic    = "Choose a unit to revive"
	PromptDecoy    = "Choose a unit to swap with the decoy"
	PromptGoFirst  = "Go first this match?"
)

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	Decks      [2]*Deck
	Catalog    *Catalog // defaults to DefaultCatalog
	Rules      Rules
	Logger     log.EventLogger
	Diag       *clog.Logger // diagnostics for invariant violations
	Clock      quartz.Clock
	Sink       SummarySink
	Seed       int64 // RNG seed (0 for random)
	NoShuffle  bool  // skip deck shuffle (for deterministic tests)
	NoCoinToss bool  // player 0 opens round one (for deterministic tests)
}

// Match orchestrates an entire match between two players.
type Match struct {
	State       *GameState
	Controllers [2]PlayerController
	Logger      log.EventLogger
	Diag        *clog.Logger
	Catalog     *Catalog
	Summary     *MatchSummary

	ctx        context.Context
	rng        *rand.Rand
	clock      quartz.Clock
	sink       SummarySink
	noShuffle  bool
	noCoinToss bool

	err         error // first controller failure raised inside a trigger chain
	inCleanup   bool
	preselected map[int]*CardInstance
}

// NewMatch creates a new match from the given config and player controllers.
func NewMatch(cfg MatchConfig, p0, p1 PlayerController) (*Match, error) {
	for i, d := range cfg.Decks {
		if d == nil {
			return nil, fmt.Errorf("player %d has no deck", i)
		}
	}
	cat := cfg.Catalog
	if cat == nil {
		cat = DefaultCatalog()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	diag := cfg.Diag
	if diag == nil {
		diag = clog.NewWithOptions(io.Discard, clog.Options{})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gs := NewGameState(cfg.Rules)
	for i, d := range cfg.Decks {
		p := gs.Players[i]
		p.Faction = d.Faction
		p.DeckName = d.Name
		p.DeckList = d.Cards
		for _, card := range d.Cards {
			ci := gs.CreateCardInstance(card, i)
			p.Deck = append(p.Deck, ci)
		}
		if d.Leader != nil {
			p.Leader = gs.CreateCardInstance(d.Leader, i)
			p.Leader.Zone = ZoneLeader
			ab := d.Leader.Primary().Lookup()
			p.LeaderAvailable = ab.OnActivated != nil
		}
		if _, ok := factionCharge[d.Faction]; ok {
			p.FactionCharges = 1
		}
	}

	m := &Match{
		State:       gs,
		Controllers: [2]PlayerController{p0, p1},
		Logger:      logger,
		Diag:        diag,
		Catalog:     cat,
		ctx:         context.Background(),
		rng:         rand.New(rand.NewSource(seed)),
		clock:       clock,
		sink:        cfg.Sink,
		noShuffle:   cfg.NoShuffle,
		noCoinToss:  cfg.NoCoinToss,
		preselected: make(map[int]*CardInstance),
	}
	m.Summary = newSummary(cfg.Decks)
	return m, nil
}

// Run executes the entire match loop. Returns the winner (0, 1, or -1 for draw).
func (m *Match) Run(ctx context.Context) (int, error) {
	m.ctx = ctx
	gs := m.State
	m.Summary.StartedAt = m.clock.Now()

	gs.Phase = StateMatchStart
	m.log(log.NewMatchStartEvent(gs.Players[0].Faction.String(), gs.Players[1].Faction.String()))

	if !m.noShuffle {
		gs.Players[0].ShuffleDeck(m.rng)
		gs.Players[1].ShuffleDeck(m.rng)
	}
	m.gameStart()

	if err := m.coinToss(); err != nil {
		return -1, err
	}
	for p := 0; p < 2; p++ {
		m.drawCards(p, gs.Rules.HandSize)
	}
	if err := m.mulligan(); err != nil {
		return -1, err
	}

	for !gs.Over {
		m.startRound()
		for !gs.Over && !(gs.Players[0].Passed && gs.Players[1].Passed) {
			if gs.Turn >= gs.Rules.MaxTurns {
				m.endMatch(-1, fmt.Sprintf("turn limit reached (%d turns)", gs.Rules.MaxTurns))
				break
			}
			if err := m.runTurn(); err != nil {
				return gs.Winner, err
			}
			if err := ctx.Err(); err != nil {
				return -1, err
			}
		}
		if gs.Over {
			break
		}
		m.endRound()
	}

	return gs.Winner, m.finish()
}

// gameStart runs leader passives and the game-start queue.
func (m *Match) gameStart() {
	gs := m.State
	for p, pl := range gs.Players {
		if pl.Leader == nil {
			continue
		}
		if h := pl.Leader.Card.Primary().Lookup().OnGameStart; h != nil {
			h(m, pl.Leader, p)
		}
	}
	gs.Hooks.GameStart.Run()
}

// coinToss decides who opens round one. A lone Scoia'tael side picks.
func (m *Match) coinToss() error {
	gs := m.State
	gs.Phase = StateCoinToss

	first, reason := 0, "fixed"
	f0, f1 := gs.Players[0].Faction, gs.Players[1].Faction
	switch {
	case f0 == FactionScoiatael && f1 != FactionScoiatael, f1 == FactionScoiatael && f0 != FactionScoiatael:
		chooser := 0
		if f1 == FactionScoiatael {
			chooser = 1
		}
		yes, err := m.Controllers[chooser].ChooseYesNo(m.ctx, gs, PromptGoFirst)
		if err != nil {
			return err
		}
		first = 1 - chooser
		if yes {
			first = chooser
		}
		reason = "Scoia'tael choice"
	case !m.noCoinToss:
		first = m.rng.Intn(2)
		reason = "coin toss"
	}

	gs.First = first
	m.log(log.NewCoinTossEvent(first, reason))
	return nil
}

// mulligan lets each player redraw up to Rules.Redraws cards.
func (m *Match) mulligan() error {
	gs := m.State
	gs.Phase = StateMulligan
	for p := 0; p < 2; p++ {
		pl := gs.Players[p]
		for i := 0; i < gs.Rules.Redraws; i++ {
			chosen, err := m.requestChoice(p, PromptMulligan, pl.Hand, 0, 1)
			if errors.Is(err, ErrSelectionCancelled) {
				break
			}
			if err != nil {
				return err
			}
			if len(chosen) == 0 {
				break
			}
			card := chosen[0]
			pl.RemoveFromHand(card)
			pl.ReturnToDeck(card, m.rng)
			drawn := pl.DrawCard()
			m.log(log.NewMulliganEvent(p, card.Card.Name, drawn.Card.Name))
			if pl.DeckCount() == 0 {
				break
			}
		}
	}
	return nil
}

// runTurn executes a single turn for the active player.
func (m *Match) runTurn() error {
	gs := m.State
	gs.Turn++
	player := gs.Active
	gs.Phase = StateTurnActive

	m.log(log.NewTurnStartEvent(gs.Round, gs.Turn, player))
	gs.Hooks.TurnStart.Run()
	if m.err != nil {
		return m.err
	}

	actions := m.LegalActions(player)
	if !hasPlay(actions) {
		m.pass(player, true)
	} else if err := m.chooseAndExecute(player, actions); err != nil {
		return err
	}
	if gs.Over {
		return nil
	}

	gs.Hooks.TurnEnd.Run()
	m.advance(player)
	return m.err
}

// maxAttempts bounds how often a seat may be re-asked within one turn.
const maxAttempts = 32

func (m *Match) chooseAndExecute(player int, actions []Action) error {
	gs := m.State
	for attempt := 0; attempt < maxAttempts; attempt++ {
		chosen, err := m.Controllers[player].ChooseAction(m.ctx, gs, actions)
		if err != nil {
			return err
		}
		err = m.Execute(chosen)
		if m.err != nil {
			return m.err
		}
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrSelectionCancelled):
			m.Diag.Debug("selection cancelled", "player", player, "action", chosen.String())
		case errors.Is(err, ErrIllegalAction), errors.Is(err, ErrChoicePending):
			m.Diag.Warn("action rejected", "player", player, "action", chosen.String(), "err", err)
			actions = without(actions, chosen)
			if !hasPlay(actions) {
				m.pass(player, true)
				return nil
			}
		default:
			return err
		}
	}
	m.Diag.Warn("too many attempts, passing", "player", player)
	m.pass(player, true)
	return nil
}

// advance hands the turn to the opponent unless the opponent has passed.
func (m *Match) advance(player int) {
	gs := m.State
	opp := gs.Opponent(player)
	if !gs.Players[opp].Passed {
		gs.Active = opp
		return
	}
	gs.Active = player
}

func (m *Match) pass(player int, auto bool) {
	gs := m.State
	gs.Players[player].Passed = true
	m.log(log.NewPassEvent(gs.Round, gs.Turn, player, auto))
}

func (m *Match) concede(player int) {
	gs := m.State
	m.log(log.NewConcedeEvent(gs.Round, gs.Turn, player))
	m.endMatch(gs.Opponent(player), fmt.Sprintf("P%d concedes", player+1))
}

// endMatch marks the match over.
func (m *Match) endMatch(winner int, reason string) {
	gs := m.State
	gs.Over = true
	gs.Winner = winner
	gs.Result = reason
	gs.Phase = StateMatchOver
	m.log(log.NewMatchEndedEvent(gs.Round, winner, reason))
}

// finish stamps and stores the match summary.
func (m *Match) finish() error {
	gs := m.State
	gs.Phase = StateMatchOver
	m.Summary.complete(gs, m.clock.Now())
	if m.sink == nil {
		return nil
	}
	if err := m.sink.SaveSummary(m.ctx, m.Summary); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

// fail records the first controller failure raised inside a trigger chain.
// Cancellations are not failures.
func (m *Match) fail(err error) {
	if err == nil || errors.Is(err, ErrSelectionCancelled) || errors.Is(err, ErrChoicePending) {
		return
	}
	if m.err == nil {
		m.err = err
	}
}

// log emits a game event through the logger and notifies both players.
func (m *Match) log(event log.GameEvent) {
	m.Logger.Log(event)
	// Notify controllers (ignore errors for notifications)
	for i := 0; i < 2; i++ {
		if m.Controllers[i] != nil {
			_ = m.Controllers[i].Notify(m.ctx, event)
		}
	}
}

func hasPlay(actions []Action) bool {
	for _, a := range actions {
		if a.Type != ActionPass && a.Type != ActionConcede {
			return true
		}
	}
	return false
}

func without(actions []Action, a Action) []Action {
	var out []Action
	for _, b := range actions {
		if !b.Same(a) {
			out = append(out, b)
		}
	}
	return out
}
