package net

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/gwentx/internal/ai"
	"github.com/peterkuimelis/gwentx/internal/game"
	"github.com/peterkuimelis/gwentx/internal/log"
	"github.com/peterkuimelis/gwentx/internal/storage"
)

const decksFile = "../../decks.yaml"

func testActions() []game.Action {
	return []game.Action{
		{Type: game.ActionPlayCard, Player: 0, Row: 0, Desc: "Play Blue Stripes"},
		{Type: game.ActionPass, Player: 0, Row: game.NoTargetRow, Desc: "Pass"},
		{Type: game.ActionConcede, Player: 0, Row: game.NoTargetRow, Desc: "Concede"},
	}
}

func newCard(t *testing.T, gs *game.GameState, key string, owner int) *game.CardInstance {
	t.Helper()
	def, ok := game.DefaultCatalog().Lookup(key)
	require.True(t, ok, "unknown card %s", key)
	return gs.CreateCardInstance(def, owner)
}

// pipeController returns a controller for seat 0 and the client end of its pipe.
func pipeController(t *testing.T, opts Options) (*NetworkController, *json.Decoder, *json.Encoder) {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	nc := NewNetworkController(serverConn, 0, opts)
	t.Cleanup(func() {
		_ = nc.Close()
		_ = clientConn.Close()
	})
	return nc, json.NewDecoder(clientConn), json.NewEncoder(clientConn)
}

func TestBuildStateViewHidesOpponent(t *testing.T) {
	gs := game.NewGameState(game.DefaultRules())
	gs.Players[0].Hand = []*game.CardInstance{newCard(t, gs, "blue_stripes", 0)}
	gs.Players[1].Hand = []*game.CardInstance{newCard(t, gs, "blue_stripes", 1)}
	curse := newCard(t, gs, "blue_stripes", 1)
	gs.Board.Row(1, game.LaneClose).Curse = curse

	sv := BuildStateView(gs, 0)
	require.Len(t, sv.You.Hand, 1)
	assert.Equal(t, "blue_stripes", sv.You.Hand[0].Key)
	assert.Empty(t, sv.Opponent.Hand)
	assert.Equal(t, 1, sv.Opponent.HandCount)
	assert.Equal(t, []string{"trap"}, sv.Opponent.Rows[0].Traps)
	assert.Equal(t, "Close", sv.You.Rows[0].Lane)
	assert.True(t, sv.IsYourTurn)

	owner := BuildStateView(gs, 1)
	assert.Equal(t, []string{curse.Card.Name}, owner.You.Rows[0].Traps)
	assert.False(t, owner.IsYourTurn)
}

func TestChooseActionDropsStaleReplies(t *testing.T) {
	nc, dec, enc := pipeController(t, Options{})
	gs := game.NewGameState(game.DefaultRules())
	actions := testActions()

	type result struct {
		a   game.Action
		err error
	}
	done := make(chan result, 1)
	go func() {
		a, err := nc.ChooseAction(context.Background(), gs, actions)
		done <- result{a, err}
	}()

	var req ServerMessage
	require.NoError(t, dec.Decode(&req))
	require.Equal(t, MsgChooseAction, req.Type)
	require.Len(t, req.Actions, 3)
	assert.Equal(t, "Pass", req.Actions[1].Type)

	require.NoError(t, enc.Encode(ClientMessage{Type: MsgAction, Seq: req.Seq + 7, Index: 1}))
	require.NoError(t, enc.Encode(ClientMessage{Type: MsgAction, Seq: req.Seq, Index: 0}))

	r := <-done
	require.NoError(t, r.err)
	assert.True(t, r.a.Same(actions[0]))
}

func TestChooseActionTimeoutPasses(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock := quartz.NewMock(t)
	nc, dec, _ := pipeController(t, Options{Timeout: 10 * time.Second, Clock: clock})
	gs := game.NewGameState(game.DefaultRules())
	actions := testActions()

	done := make(chan game.Action, 1)
	go func() {
		a, err := nc.ChooseAction(ctx, gs, actions)
		assert.NoError(t, err)
		done <- a
	}()

	var req ServerMessage
	require.NoError(t, dec.Decode(&req))
	assert.Equal(t, 10, req.TimeoutSeconds)

	clock.Advance(10 * time.Second).MustWait(ctx)

	var notice ServerMessage
	require.NoError(t, dec.Decode(&notice))
	assert.Equal(t, MsgTimeout, notice.Type)
	assert.Equal(t, req.Seq, notice.Seq)

	assert.Equal(t, game.ActionPass, (<-done).Type)
}

func TestChooseCardsTimeoutCancels(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock := quartz.NewMock(t)
	nc, dec, _ := pipeController(t, Options{Timeout: time.Second, Clock: clock})
	gs := game.NewGameState(game.DefaultRules())
	candidates := []*game.CardInstance{newCard(t, gs, "blue_stripes", 0)}

	done := make(chan error, 1)
	go func() {
		_, err := nc.ChooseCards(ctx, gs, game.PromptMedic, candidates, 1, 1)
		done <- err
	}()

	var req ServerMessage
	require.NoError(t, dec.Decode(&req))
	require.Equal(t, MsgChooseCards, req.Type)
	require.Len(t, req.Candidates, 1)

	clock.Advance(time.Second).MustWait(ctx)
	var notice ServerMessage
	require.NoError(t, dec.Decode(&notice))

	assert.ErrorIs(t, <-done, game.ErrSelectionCancelled)
}

func TestChooseCardsIgnoresOutOfRangeIndices(t *testing.T) {
	nc, dec, enc := pipeController(t, Options{})
	gs := game.NewGameState(game.DefaultRules())
	candidates := []*game.CardInstance{
		newCard(t, gs, "blue_stripes", 0),
		newCard(t, gs, "poor_infantry", 0),
	}

	done := make(chan []*game.CardInstance, 1)
	go func() {
		chosen, err := nc.ChooseCards(context.Background(), gs, game.PromptMedic, candidates, 0, 2)
		assert.NoError(t, err)
		done <- chosen
	}()

	var req ServerMessage
	require.NoError(t, dec.Decode(&req))
	require.NoError(t, enc.Encode(ClientMessage{Type: MsgCards, Seq: req.Seq, Indices: []int{1, 5}}))

	assert.Equal(t, []*game.CardInstance{candidates[1]}, <-done)
}

func TestClosedConnectionEndsRequest(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	nc := NewNetworkController(serverConn, 0, Options{})
	defer nc.Close()
	gs := game.NewGameState(game.DefaultRules())

	done := make(chan error, 1)
	go func() {
		_, err := nc.ChooseYesNo(context.Background(), gs, game.PromptGoFirst)
		done <- err
	}()

	var req ServerMessage
	require.NoError(t, json.NewDecoder(clientConn).Decode(&req))
	require.NoError(t, clientConn.Close())

	assert.ErrorIs(t, <-done, ErrClosed)
}

func TestREPLAnswersAndStopsAtGameOver(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	var out bytes.Buffer
	client := NewClient(clientConn, "P1", strings.NewReader("9\n2\n"), &out)

	done := make(chan error, 1)
	go func() { done <- client.RunREPL(context.Background()) }()

	enc := json.NewEncoder(serverConn)
	dec := json.NewDecoder(serverConn)
	gs := game.NewGameState(game.DefaultRules())
	require.NoError(t, enc.Encode(ServerMessage{
		Type:    MsgChooseAction,
		Seq:     3,
		Actions: ActionViews(testActions()),
		State:   BuildStateView(gs, 0),
	}))

	var reply ClientMessage
	require.NoError(t, dec.Decode(&reply))
	assert.Equal(t, MsgAction, reply.Type)
	assert.Equal(t, 3, reply.Seq)
	assert.Equal(t, 1, reply.Index)

	require.NoError(t, enc.Encode(ServerMessage{Type: MsgGameOver, Result: "P1 wins"}))
	require.NoError(t, <-done)
	assert.Contains(t, out.String(), "Enter a number between 1 and 3")
	assert.Contains(t, out.String(), "GAME OVER")
}

// passingJoiner joins with deck and passes every turn until the game ends.
func passingJoiner(ctx context.Context, addr string, deck int) (string, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	enc := json.NewEncoder(conn)
	dec := json.NewDecoder(conn)
	if err := enc.Encode(ClientMessage{Type: MsgJoin, DeckNumber: deck}); err != nil {
		return "", err
	}
	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return "", err
		}
		switch msg.Type {
		case MsgChooseAction:
			idx := 0
			for _, a := range msg.Actions {
				if a.Type == "Pass" {
					idx = a.Index
				}
			}
			err = enc.Encode(ClientMessage{Type: MsgAction, Seq: msg.Seq, Index: idx})
		case MsgChooseCards:
			err = enc.Encode(ClientMessage{Type: MsgCards, Seq: msg.Seq})
		case MsgChooseYesNo:
			err = enc.Encode(ClientMessage{Type: MsgYesNo, Seq: msg.Seq})
		case MsgGameOver:
			return msg.Result, nil
		}
		if err != nil {
			return "", err
		}
	}
}

func TestServerRunsPolicyAgainstJoiner(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := ai.DefaultConfig()
	cfg.Seed = 5
	store := storage.NewMemory()
	srv := &Server{
		DeckFile: decksFile,
		HostDeck: 1,
		Seed:     5,
		Host:     ai.NewController(ai.NewPolicy(cfg, nil), nil),
		Logger:   log.NewMemoryLogger(),
		Sink:     store,
		Listener: ln,
		Out:      io.Discard,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	result, err := passingJoiner(ctx, ln.Addr().String(), 3)
	require.NoError(t, err)
	assert.NotEmpty(t, result)
	require.NoError(t, <-errCh)

	saved, err := store.ListSummaries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, [2]string{"Temerian Vanguard", "Wild Hunt Swarm"}, saved[0].Decks)
}
