package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdnet "net"
	"strconv"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"

	"github.com/peterkuimelis/gwentx/internal/ai"
	"github.com/peterkuimelis/gwentx/internal/game"
	"github.com/peterkuimelis/gwentx/internal/log"
	gwentnet "github.com/peterkuimelis/gwentx/internal/net"
)

// DecisionType identifies what kind of decision the game engine is waiting for.
type DecisionType string

const (
	DecisionChooseAction DecisionType = "choose_action"
	DecisionChooseCards  DecisionType = "choose_cards"
	DecisionChooseYesNo  DecisionType = "choose_yes_no"
	DecisionGameOver     DecisionType = "game_over"
)

// Opponent kinds for the agent's seat.
const (
	OpponentAI    = "ai"
	OpponentHuman = "human"
)

// PendingDecision represents a decision the game engine is waiting for.
type PendingDecision struct {
	Type       DecisionType          `json:"type"`
	Player     int                   `json:"player"`
	State      *gwentnet.StateView   `json:"state"`
	Actions    []gwentnet.ActionView `json:"actions,omitempty"`
	Prompt     string                `json:"prompt,omitempty"`
	Candidates []gwentnet.CardView   `json:"candidates,omitempty"`
	Min        int                   `json:"min,omitempty"`
	Max        int                   `json:"max,omitempty"`
}

// Response types sent back from MCP tools to controllers.

type ActionResponse struct {
	Index int
}

type CardsResponse struct {
	Indices []int
}

type YesNoResponse struct {
	Answer bool
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []gwentnet.EventView `json:"events"`
	State    *gwentnet.StateView  `json:"state,omitempty"`
	Pending  *PendingView         `json:"pending,omitempty"`
	GameOver bool                 `json:"game_over"`
	Winner   int                  `json:"winner,omitempty"`
	Result   string               `json:"result,omitempty"`
	MatchID  string               `json:"match_id,omitempty"`
	Port     int                  `json:"port,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type       DecisionType          `json:"type"`
	ForPlayer  string                `json:"for_player"`
	Actions    []gwentnet.ActionView `json:"actions,omitempty"`
	Prompt     string                `json:"prompt,omitempty"`
	Candidates []gwentnet.CardView   `json:"candidates,omitempty"`
	Min        int                   `json:"min,omitempty"`
	Max        int                   `json:"max,omitempty"`
}

// SessionConfig describes one agent match.
type SessionConfig struct {
	DecksFile    string
	Catalog      *game.Catalog
	Rules        game.Rules
	AgentDeck    int // 1-indexed
	AgentPlayer  int // seat 0 or 1
	Opponent     string
	OpponentDeck int       // deck for the built-in policy
	AI           ai.Config // policy thresholds
	Port         int       // TCP port for a human opponent
	Timeout      time.Duration
	Seed         int64
	Sink         game.SummarySink
	Diag         *clog.Logger
}

// GameSession holds the state of a single MCP game session.
type GameSession struct {
	match       *game.Match
	agentCtrl   *AgentController
	humanCtrl   *gwentnet.NetworkController
	agentPlayer int

	listener stdnet.Listener
	cancel   context.CancelFunc
	done     chan struct{}

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []gwentnet.EventView
	gameOver bool
	winner   int
	result   string
}

// NewGameSession creates a new game session and starts the match. A human
// opponent connects with `gwentx join`, and the call blocks until they do.
func NewGameSession(ctx context.Context, cfg SessionConfig) (*GameSession, error) {
	if cfg.AgentPlayer != 0 && cfg.AgentPlayer != 1 {
		return nil, fmt.Errorf("agent player must be 0 or 1")
	}
	cat := cfg.Catalog
	if cat == nil {
		cat = game.DefaultCatalog()
	}
	diag := cfg.Diag
	if diag == nil {
		diag = clog.NewWithOptions(io.Discard, clog.Options{})
	}
	diag = diag.WithPrefix("mcp")

	agentDeck, err := game.DeckByNumber(cfg.DecksFile, cat, cfg.AgentDeck)
	if err != nil {
		return nil, fmt.Errorf("load agent deck: %w", err)
	}

	sess := &GameSession{
		agentPlayer: cfg.AgentPlayer,
		pendingCh:   make(chan *PendingDecision, 1),
		done:        make(chan struct{}),
		winner:      -1,
	}
	opponentPlayer := 1 - cfg.AgentPlayer
	sess.agentCtrl = NewAgentController(cfg.AgentPlayer, sess)

	var (
		opponent     game.PlayerController
		opponentDeck *game.Deck
	)
	switch cfg.Opponent {
	case OpponentAI, "":
		n := cfg.OpponentDeck
		if n == 0 {
			n = 2
		}
		opponentDeck, err = game.DeckByNumber(cfg.DecksFile, cat, n)
		if err != nil {
			return nil, fmt.Errorf("load opponent deck: %w", err)
		}
		policyCfg := cfg.AI
		if policyCfg == (ai.Config{}) {
			policyCfg = ai.DefaultConfig()
		}
		opponent = ai.NewController(ai.NewPolicy(policyCfg, cat), diag)

	case OpponentHuman:
		var lc stdnet.ListenConfig
		ln, err := lc.Listen(ctx, "tcp", ":"+strconv.Itoa(cfg.Port))
		if err != nil {
			return nil, fmt.Errorf("listen on port %d: %w", cfg.Port, err)
		}
		// Accept one connection (blocks until the human runs `gwentx join`)
		conn, err := ln.Accept()
		if err != nil {
			ln.Close()
			return nil, fmt.Errorf("accept: %w", err)
		}
		sess.listener = ln
		sess.humanCtrl = gwentnet.NewNetworkController(conn, opponentPlayer, gwentnet.Options{
			Timeout: cfg.Timeout,
			Diag:    diag,
		})
		humanDeck, err := sess.humanCtrl.AwaitJoin(ctx)
		if err != nil {
			sess.closeTransport()
			return nil, err
		}
		if humanDeck == 0 {
			humanDeck = 2
		}
		opponentDeck, err = game.DeckByNumber(cfg.DecksFile, cat, humanDeck)
		if err != nil {
			sess.closeTransport()
			return nil, fmt.Errorf("load human deck: %w", err)
		}
		opponent = sess.humanCtrl

	default:
		return nil, fmt.Errorf("unknown opponent %q", cfg.Opponent)
	}

	// Assign decks to player indices
	var decks [2]*game.Deck
	var ctrls [2]game.PlayerController
	decks[cfg.AgentPlayer], ctrls[cfg.AgentPlayer] = agentDeck, sess.agentCtrl
	decks[opponentPlayer], ctrls[opponentPlayer] = opponentDeck, opponent

	sess.match, err = game.NewMatch(game.MatchConfig{
		Decks:   decks,
		Catalog: cat,
		Rules:   cfg.Rules,
		Logger:  log.NewMemoryLogger(),
		Diag:    diag,
		Sink:    cfg.Sink,
		Seed:    cfg.Seed,
	}, ctrls[0], ctrls[1])
	if err != nil {
		sess.closeTransport()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel
	go sess.run(runCtx)
	return sess, nil
}

// run plays the match and reports its end through the pending channel.
func (s *GameSession) run(ctx context.Context) {
	defer close(s.done)
	winner, err := s.match.Run(ctx)

	result := s.match.State.Result
	if err != nil {
		result = fmt.Sprintf("error: %v", err)
	}
	if result == "" {
		result = fmt.Sprintf("Game over. Winner: player %d", winner)
	}

	if s.humanCtrl != nil {
		_ = s.humanCtrl.SendGameOver(winner, result)
	}
	s.closeTransport()

	s.mu.Lock()
	s.gameOver = true
	s.winner = winner
	s.result = result
	s.mu.Unlock()

	select {
	case s.pendingCh <- &PendingDecision{
		Type:   DecisionGameOver,
		Player: winner,
		State:  gwentnet.BuildStateView(s.match.State, s.agentPlayer),
	}:
	case <-ctx.Done():
	}
}

func (s *GameSession) closeTransport() {
	if s.humanCtrl != nil {
		_ = s.humanCtrl.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

// Close abandons the match and waits for it to stop.
func (s *GameSession) Close() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

// MatchID returns the id the match summary is stored under.
func (s *GameSession) MatchID() string {
	return s.match.Summary.ID.String()
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev gwentnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []gwentnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []gwentnet.EventView{}
	}
	return events
}

// waitForPending blocks until the next decision arrives from the game engine,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *GameSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	var pending *PendingDecision
	select {
	case pending = <-s.pendingCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.currentPending = pending

	resp := &ToolResponse{
		Events: s.drainEvents(),
		State:  pending.State,
	}

	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = s.winner
		resp.Result = s.result
		s.mu.Unlock()
		resp.MatchID = s.MatchID()
		return resp, nil
	}

	resp.Pending = &PendingView{
		Type:       pending.Type,
		ForPlayer:  s.playerLabel(pending.Player),
		Actions:    pending.Actions,
		Prompt:     pending.Prompt,
		Candidates: pending.Candidates,
		Min:        pending.Min,
		Max:        pending.Max,
	}
	return resp, nil
}

// playerLabel returns "agent" or "opponent" for the given player index.
func (s *GameSession) playerLabel(player int) string {
	if player == s.agentPlayer {
		return "agent"
	}
	return "opponent"
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
