package mcp

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	gwentnet "github.com/peterkuimelis/gwentx/internal/net"
)

// Tools serves one game session at a time over MCP. Base supplies every
// session setting the start_game call does not.
type Tools struct {
	Base SessionConfig

	mu     sync.Mutex // serialises tool calls
	active *GameSession
}

// NewTools creates the tool set.
func NewTools(base SessionConfig) *Tools {
	return &Tools{Base: base}
}

// Register adds all game tools to the MCP server.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(startGameTool(), t.handleStartGame)
	s.AddTool(takeActionTool(), t.handleTakeAction)
	s.AddTool(selectCardsTool(), t.handleSelectCards)
	s.AddTool(answerYesNoTool(), t.handleAnswerYesNo)
	s.AddTool(getGameStateTool(), t.handleGetGameState)
	s.AddTool(abandonGameTool(), t.handleAbandonGame)
}

// Close abandons the running session, if any.
func (t *Tools) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != nil {
		t.active.Close()
		t.active = nil
	}
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new gwent match. Returns the initial game state and first pending decision. "+
			"Against opponent 'ai' the built-in policy plays the other seat. Against 'human' the player connects via "+
			"`gwentx join --addr localhost:<port> --deck N` in a separate terminal, and this call blocks until they do."),
		mcp.WithNumber("agent_deck", mcp.Required(), mcp.Description("Deck number for the agent (1-indexed from decks.yaml)")),
		mcp.WithNumber("agent_player", mcp.Required(), mcp.Description("Which seat the agent takes: 0 or 1")),
		mcp.WithString("opponent", mcp.Description("'ai' (default) or 'human'"), mcp.Enum(OpponentAI, OpponentHuman)),
		mcp.WithNumber("opponent_deck", mcp.Description("Deck number for the ai opponent (default 2)")),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Choose an action from the pending action list. Use this when the pending decision type is 'choose_action'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the action to take from the actions list")),
	)
}

func selectCardsTool() mcp.Tool {
	return mcp.NewTool("select_cards",
		mcp.WithDescription("Select cards from the pending candidates list. Use this when the pending decision type is 'choose_cards'. "+
			"An empty selection when at least one card is required cancels the move."),
		mcp.WithString("indices", mcp.Required(), mcp.Description("Space-separated 0-based indices of cards to select (e.g. '0 2 3'), or empty string for no selection")),
	)
}

func answerYesNoTool() mcp.Tool {
	return mcp.NewTool("answer_yes_no",
		mcp.WithDescription("Answer a yes/no question. Use this when the pending decision type is 'choose_yes_no'."),
		mcp.WithBoolean("answer", mcp.Required(), mcp.Description("true for yes, false for no")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

func abandonGameTool() mcp.Tool {
	return mcp.NewTool("abandon_game",
		mcp.WithDescription("Stop the running match without finishing it. Nothing is recorded."),
	)
}

// --- Tool handlers ---

func (t *Tools) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != nil {
		return mcp.NewToolResultError("A game is already running. Only one game at a time is supported."), nil
	}

	cfg := t.Base
	cfg.AgentDeck = request.GetInt("agent_deck", 0)
	cfg.AgentPlayer = request.GetInt("agent_player", 0)
	cfg.Opponent = request.GetString("opponent", OpponentAI)
	cfg.OpponentDeck = request.GetInt("opponent_deck", cfg.OpponentDeck)

	if cfg.AgentDeck < 1 {
		return mcp.NewToolResultError("agent_deck must be >= 1"), nil
	}
	if cfg.AgentPlayer != 0 && cfg.AgentPlayer != 1 {
		return mcp.NewToolResultError("agent_player must be 0 or 1"), nil
	}

	sess, err := NewGameSession(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	t.active = sess

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	if cfg.Opponent == OpponentHuman {
		resp.Port = cfg.Port
	}
	t.finishIfOver(resp)

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// agentTurn validates that the agent owes a decision of the given type.
func (t *Tools) agentTurn(want DecisionType) (*GameSession, *mcp.CallToolResult) {
	if t.active == nil {
		return nil, mcp.NewToolResultError("No game is running. Use start_game first.")
	}
	sess := t.active
	pending := sess.currentPending
	if pending == nil {
		return nil, mcp.NewToolResultError("No pending decision.")
	}
	if pending.Player != sess.agentPlayer {
		return nil, mcp.NewToolResultError("Waiting for the opponent to respond.")
	}
	if pending.Type != want {
		return nil, mcp.NewToolResultErrorf("Wrong tool: pending decision is '%s', not '%s'. Use the correct tool.", pending.Type, want)
	}
	return sess, nil
}

// answer delivers resp to the engine and returns the next decision.
func (t *Tools) answer(ctx context.Context, sess *GameSession, resp any) *mcp.CallToolResult {
	select {
	case sess.agentCtrl.responseCh <- resp:
	case <-ctx.Done():
		return mcp.NewToolResultErrorf("Cancelled: %v", ctx.Err())
	}

	next, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err)
	}
	t.finishIfOver(next)
	return mcp.NewToolResultText(respondJSON(next))
}

func (t *Tools) finishIfOver(resp *ToolResponse) {
	if resp.GameOver {
		t.active = nil
	}
}

func (t *Tools) handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, fail := t.agentTurn(DecisionChooseAction)
	if fail != nil {
		return fail, nil
	}

	pending := sess.currentPending
	index := request.GetInt("index", -1)
	if index < 0 || index >= len(pending.Actions) {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, len(pending.Actions)-1), nil
	}

	return t.answer(ctx, sess, ActionResponse{Index: index}), nil
}

func (t *Tools) handleSelectCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, fail := t.agentTurn(DecisionChooseCards)
	if fail != nil {
		return fail, nil
	}

	pending := sess.currentPending
	indicesStr := request.GetString("indices", "")
	var indices []int
	seen := make(map[int]bool)
	for _, p := range strings.Fields(indicesStr) {
		idx, err := strconv.Atoi(p)
		if err != nil {
			return mcp.NewToolResultErrorf("Invalid index '%s': must be an integer.", p), nil
		}
		if idx < 0 || idx >= len(pending.Candidates) {
			return mcp.NewToolResultErrorf("Index %d out of range. Must be 0-%d.", idx, len(pending.Candidates)-1), nil
		}
		if seen[idx] {
			return mcp.NewToolResultErrorf("Index %d selected twice.", idx), nil
		}
		seen[idx] = true
		indices = append(indices, idx)
	}

	// An empty selection is a cancel and goes through unchecked.
	if len(indices) > 0 && len(indices) < pending.Min {
		return mcp.NewToolResultErrorf("Must select at least %d card(s), got %d.", pending.Min, len(indices)), nil
	}
	if len(indices) > pending.Max {
		return mcp.NewToolResultErrorf("Must select at most %d card(s), got %d.", pending.Max, len(indices)), nil
	}

	return t.answer(ctx, sess, CardsResponse{Indices: indices}), nil
}

func (t *Tools) handleAnswerYesNo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, fail := t.agentTurn(DecisionChooseYesNo)
	if fail != nil {
		return fail, nil
	}

	return t.answer(ctx, sess, YesNoResponse{Answer: request.GetBool("answer", false)}), nil
}

func (t *Tools) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	sess := t.active
	resp := &ToolResponse{Events: sess.drainEvents()}

	sess.mu.Lock()
	resp.GameOver = sess.gameOver
	resp.Winner = sess.winner
	resp.Result = sess.result
	sess.mu.Unlock()

	if pending := sess.currentPending; pending != nil {
		// The engine is parked on the agent's decision, so its state is
		// safe to read through the snapshot taken when it asked.
		resp.State = pending.State
		if !resp.GameOver {
			resp.Pending = &PendingView{
				Type:       pending.Type,
				ForPlayer:  sess.playerLabel(pending.Player),
				Actions:    pending.Actions,
				Prompt:     pending.Prompt,
				Candidates: pending.Candidates,
				Min:        pending.Min,
				Max:        pending.Max,
			}
		}
	}
	if resp.Events == nil {
		resp.Events = []gwentnet.EventView{}
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleAbandonGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return mcp.NewToolResultError("No game is running."), nil
	}
	t.active.Close()
	t.active = nil
	return mcp.NewToolResultText(`{"abandoned": true}`), nil
}
