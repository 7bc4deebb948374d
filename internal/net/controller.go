package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/peterkuimelis/gwentx/internal/game"
	"github.com/peterkuimelis/gwentx/internal/log"
)

// ErrClosed is returned once the connection has gone away.
var ErrClosed = errors.New("connection closed")

// Options tune a NetworkController. Zero values are usable.
type Options struct {
	// Timeout bounds every decision. When it fires an action request
	// passes, a target selection is cancelled and a yes/no is answered no.
	// Zero waits forever.
	Timeout time.Duration
	Clock   quartz.Clock
	Diag    *clog.Logger
}

// NetworkController implements game.PlayerController over a TCP connection.
type NetworkController struct {
	conn    net.Conn
	enc     *json.Encoder
	dec     *json.Decoder
	player  int // which player this controller is (0 or 1)
	timeout time.Duration
	clock   quartz.Clock
	diag    *clog.Logger

	mu  sync.Mutex // guards enc and seq
	seq int

	inbox   chan ClientMessage
	readErr error // set before inbox is closed
	done    chan struct{}
	once    sync.Once
}

// NewNetworkController creates a new controller for the given connection
// and starts reading replies from it.
func NewNetworkController(conn net.Conn, player int, opts Options) *NetworkController {
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	diag := opts.Diag
	if diag == nil {
		diag = clog.NewWithOptions(io.Discard, clog.Options{})
	}
	nc := &NetworkController{
		conn:    conn,
		enc:     json.NewEncoder(conn),
		dec:     json.NewDecoder(conn),
		player:  player,
		timeout: opts.Timeout,
		clock:   clock,
		diag:    diag.With("player", player),
		inbox:   make(chan ClientMessage, 8),
		done:    make(chan struct{}),
	}
	go nc.readLoop()
	return nc
}

func (nc *NetworkController) readLoop() {
	for {
		var msg ClientMessage
		if err := nc.dec.Decode(&msg); err != nil {
			nc.readErr = err
			close(nc.inbox)
			return
		}
		select {
		case nc.inbox <- msg:
		case <-nc.done:
			return
		}
	}
}

// Close stops the reader and closes the connection.
func (nc *NetworkController) Close() error {
	var err error
	nc.once.Do(func() {
		close(nc.done)
		err = nc.conn.Close()
	})
	return err
}

// AwaitJoin reads the joiner's handshake and returns the chosen deck number.
func (nc *NetworkController) AwaitJoin(ctx context.Context) (int, error) {
	expired, stop := nc.deadline()
	defer stop()
	msg, timedOut, err := nc.await(ctx, MsgJoin, 0, expired)
	if err != nil {
		return 0, fmt.Errorf("read join message: %w", err)
	}
	if timedOut {
		return 0, fmt.Errorf("read join message: timed out")
	}
	return msg.DeckNumber, nil
}

// send sends a server message to the client.
func (nc *NetworkController) send(msg ServerMessage) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.enc.Encode(msg)
}

// deadline arms the decision timer. The channel is nil when decisions are
// unbounded.
func (nc *NetworkController) deadline() (<-chan struct{}, func()) {
	if nc.timeout <= 0 {
		return nil, func() {}
	}
	fired := make(chan struct{})
	timer := nc.clock.AfterFunc(nc.timeout, func() {
		close(fired)
	})
	return fired, func() { timer.Stop() }
}

// ask sends a numbered request and waits for its reply. The timer is armed
// before the request goes out.
func (nc *NetworkController) ask(ctx context.Context, msg ServerMessage, reply string) (ClientMessage, bool, error) {
	expired, stop := nc.deadline()
	defer stop()

	nc.mu.Lock()
	nc.seq++
	msg.Seq = nc.seq
	msg.TimeoutSeconds = int(nc.timeout / time.Second)
	err := nc.enc.Encode(msg)
	nc.mu.Unlock()
	if err != nil {
		return ClientMessage{}, false, fmt.Errorf("send %s: %w", msg.Type, err)
	}

	resp, timedOut, err := nc.await(ctx, reply, msg.Seq, expired)
	if err != nil {
		return ClientMessage{}, false, fmt.Errorf("recv %s: %w", reply, err)
	}
	return resp, timedOut, nil
}

// await waits for the reply of the given type and sequence. Stale replies
// to requests that already timed out are dropped.
func (nc *NetworkController) await(ctx context.Context, kind string, seq int, expired <-chan struct{}) (ClientMessage, bool, error) {
	for {
		select {
		case msg, ok := <-nc.inbox:
			if !ok {
				if nc.readErr != nil && !errors.Is(nc.readErr, io.EOF) {
					return ClientMessage{}, false, fmt.Errorf("%w: %v", ErrClosed, nc.readErr)
				}
				return ClientMessage{}, false, ErrClosed
			}
			if msg.Type != kind || msg.Seq != seq {
				nc.diag.Debug("dropping stale reply", "type", msg.Type, "seq", msg.Seq, "want", seq)
				continue
			}
			return msg, false, nil
		case <-expired:
			nc.diag.Warn("decision timeout", "request", kind, "seq", seq, "timeout", nc.timeout)
			_ = nc.send(ServerMessage{Type: MsgTimeout, Seq: seq, Prompt: kind})
			return ClientMessage{}, true, nil
		case <-ctx.Done():
			return ClientMessage{}, false, ctx.Err()
		}
	}
}

// ChooseAction implements game.PlayerController.
func (nc *NetworkController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	resp, timedOut, err := nc.ask(ctx, ServerMessage{
		Type:    MsgChooseAction,
		Actions: ActionViews(actions),
		State:   BuildStateView(state, nc.player),
	}, MsgAction)
	if err != nil {
		return game.Action{}, err
	}
	if timedOut {
		return passAction(actions), nil
	}
	if resp.Index < 0 || resp.Index >= len(actions) {
		nc.diag.Warn("action index out of range, passing", "index", resp.Index, "actions", len(actions))
		return passAction(actions), nil
	}
	return actions[resp.Index], nil
}

// passAction returns the pass entry, or the last action when pass is absent.
func passAction(actions []game.Action) game.Action {
	for _, a := range actions {
		if a.Type == game.ActionPass {
			return a
		}
	}
	return actions[len(actions)-1]
}

// ChooseCards implements game.PlayerController.
func (nc *NetworkController) ChooseCards(ctx context.Context, state *game.GameState, prompt string, candidates []*game.CardInstance, min, max int) ([]*game.CardInstance, error) {
	views := make([]CardView, 0, len(candidates))
	for i, c := range candidates {
		views = append(views, CardViewOf(i, c))
	}

	resp, timedOut, err := nc.ask(ctx, ServerMessage{
		Type:       MsgChooseCards,
		Prompt:     prompt,
		Candidates: views,
		Min:        min,
		Max:        max,
		State:      BuildStateView(state, nc.player),
	}, MsgCards)
	if err != nil {
		return nil, err
	}
	if timedOut {
		return nil, game.ErrSelectionCancelled
	}

	var result []*game.CardInstance
	for _, idx := range resp.Indices {
		if idx >= 0 && idx < len(candidates) {
			result = append(result, candidates[idx])
		}
	}
	return result, nil
}

// ChooseYesNo implements game.PlayerController.
func (nc *NetworkController) ChooseYesNo(ctx context.Context, state *game.GameState, prompt string) (bool, error) {
	resp, timedOut, err := nc.ask(ctx, ServerMessage{
		Type:   MsgChooseYesNo,
		Prompt: prompt,
		State:  BuildStateView(state, nc.player),
	}, MsgYesNo)
	if err != nil {
		return false, err
	}
	if timedOut {
		return false, nil
	}
	return resp.Answer, nil
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(winner int, result string) error {
	return nc.send(ServerMessage{Type: MsgGameOver, Winner: winner, Result: result})
}

// Notify implements game.PlayerController.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	return nc.send(ServerMessage{Type: MsgNotify, Event: EventViewOf(event)})
}
