package mcp

import (
	"context"

	"github.com/peterkuimelis/gwentx/internal/game"
	"github.com/peterkuimelis/gwentx/internal/log"
	"github.com/peterkuimelis/gwentx/internal/net"
)

// AgentController implements game.PlayerController by sending decisions
// to the MCP session's pending channel and blocking on a response channel.
type AgentController struct {
	player     int
	session    *GameSession
	responseCh chan any
}

// NewAgentController creates a controller for the given player.
func NewAgentController(player int, session *GameSession) *AgentController {
	return &AgentController{
		player:     player,
		session:    session,
		responseCh: make(chan any),
	}
}

// exchange publishes a decision and waits for the tool call answering it.
func (c *AgentController) exchange(ctx context.Context, pending *PendingDecision) (any, error) {
	select {
	case c.session.pendingCh <- pending:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case resp := <-c.responseCh:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ChooseAction implements game.PlayerController.
func (c *AgentController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	resp, err := c.exchange(ctx, &PendingDecision{
		Type:    DecisionChooseAction,
		Player:  c.player,
		State:   net.BuildStateView(state, c.player),
		Actions: net.ActionViews(actions),
	})
	if err != nil {
		return game.Action{}, err
	}
	ar := resp.(ActionResponse)

	if ar.Index < 0 || ar.Index >= len(actions) {
		return actions[0], nil
	}
	return actions[ar.Index], nil
}

// ChooseCards implements game.PlayerController.
func (c *AgentController) ChooseCards(ctx context.Context, state *game.GameState, prompt string, candidates []*game.CardInstance, min, max int) ([]*game.CardInstance, error) {
	views := make([]net.CardView, 0, len(candidates))
	for i, card := range candidates {
		views = append(views, net.CardViewOf(i, card))
	}

	resp, err := c.exchange(ctx, &PendingDecision{
		Type:       DecisionChooseCards,
		Player:     c.player,
		State:      net.BuildStateView(state, c.player),
		Prompt:     prompt,
		Candidates: views,
		Min:        min,
		Max:        max,
	})
	if err != nil {
		return nil, err
	}
	cr := resp.(CardsResponse)

	var result []*game.CardInstance
	for _, idx := range cr.Indices {
		if idx >= 0 && idx < len(candidates) {
			result = append(result, candidates[idx])
		}
	}
	return result, nil
}

// ChooseYesNo implements game.PlayerController.
func (c *AgentController) ChooseYesNo(ctx context.Context, state *game.GameState, prompt string) (bool, error) {
	resp, err := c.exchange(ctx, &PendingDecision{
		Type:   DecisionChooseYesNo,
		Player: c.player,
		State:  net.BuildStateView(state, c.player),
		Prompt: prompt,
	})
	if err != nil {
		return false, err
	}
	return resp.(YesNoResponse).Answer, nil
}

// Notify implements game.PlayerController.
func (c *AgentController) Notify(ctx context.Context, event log.GameEvent) error {
	c.session.appendEvent(*net.EventViewOf(event))
	return nil
}
