package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn       net.Conn
	playerName string // "P1" or "P2"
	in         *bufio.Reader
	out        io.Writer
}

// NewClient wraps an established connection. Nil in and out use the terminal.
func NewClient(conn net.Conn, playerName string, in io.Reader, out io.Writer) *Client {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Client{conn: conn, playerName: playerName, in: bufio.NewReader(in), out: out}
}

// Connect connects to a server, sends the deck choice, and runs the REPL.
func Connect(ctx context.Context, addr string, deckNumber int) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Send join message with deck choice
	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: MsgJoin, DeckNumber: deckNumber}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for game to start...")

	client := NewClient(conn, "P2", nil, nil)
	return client.RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgNotify:
			c.renderEvent(msg.Event)

		case MsgChooseAction:
			c.renderState(msg.State)
			c.renderActions(msg.Actions, msg.TimeoutSeconds)
			idx := c.readChoice(msg.Actions)
			if err := enc.Encode(ClientMessage{Type: MsgAction, Seq: msg.Seq, Index: idx}); err != nil {
				return fmt.Errorf("send action: %w", err)
			}

		case MsgChooseCards:
			c.renderCardChoice(msg.Prompt, msg.Candidates, msg.Min, msg.Max)
			indices := c.readCardIndices(len(msg.Candidates), msg.Min, msg.Max)
			if err := enc.Encode(ClientMessage{Type: MsgCards, Seq: msg.Seq, Indices: indices}); err != nil {
				return fmt.Errorf("send cards: %w", err)
			}

		case MsgChooseYesNo:
			fmt.Fprintf(c.out, "\n%s (y/n): ", msg.Prompt)
			answer := c.readYesNo()
			if err := enc.Encode(ClientMessage{Type: MsgYesNo, Seq: msg.Seq, Answer: answer}); err != nil {
				return fmt.Errorf("send yes_no: %w", err)
			}

		case MsgTimeout:
			fmt.Fprintln(c.out, "Out of time, the server decided for you.")

		case MsgGameOver:
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, "          GAME OVER")
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	fmt.Fprintf(c.out, "R%d T%-3d| %s\n", ev.Round, ev.Turn, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	w := c.out

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════╗")

	opp := sv.Opponent
	fmt.Fprintf(w, "║  OPPONENT %s  Lives: %d  Score: %d  Hand: %d  Deck: %d%s\n",
		opp.Faction, opp.Lives, opp.Score, opp.HandCount, opp.DeckCount, passedTag(opp.Passed))
	// Opponent siege row is furthest from the divider.
	for i := 2; i >= 0; i-- {
		fmt.Fprintf(w, "║  %s\n", formatRow(opp.Rows[i]))
	}

	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")
	if len(sv.Weather) > 0 {
		fmt.Fprintf(w, "║  Weather: %s\n", strings.Join(sv.Weather, ", "))
	}

	you := sv.You
	for i := 0; i < 3; i++ {
		fmt.Fprintf(w, "║  %s\n", formatRow(you.Rows[i]))
	}
	fmt.Fprintf(w, "║  YOU %s  Lives: %d  Score: %d  Hand: %d  Deck: %d%s\n",
		you.Faction, you.Lives, you.Score, you.HandCount, you.DeckCount, passedTag(you.Passed))
	if you.Leader != "" {
		state := "used"
		if you.LeaderAvailable {
			state = "ready"
		}
		fmt.Fprintf(w, "║  Leader: %s (%s)\n", you.Leader, state)
	}
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Round %d | Turn %d | %s", sv.Round, sv.Turn, sv.Phase)
	if sv.IsYourTurn {
		turnInfo += " | Your turn"
	} else {
		turnInfo += " | Opponent's turn"
	}
	fmt.Fprintln(w, turnInfo)

	if len(you.Hand) > 0 {
		fmt.Fprintf(w, "\nHand: ")
		for i, cv := range you.Hand {
			fmt.Fprintf(w, "[%d] %s  ", i+1, formatCard(cv))
		}
		fmt.Fprintln(w)
	}
}

func passedTag(passed bool) string {
	if passed {
		return "  PASSED"
	}
	return ""
}

func formatRow(rv RowView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %3d ", rv.Lane, rv.Total)
	if rv.Weather {
		b.WriteString("~ ")
	}
	for _, s := range rv.Specials {
		fmt.Fprintf(&b, "{%s} ", s)
	}
	for _, t := range rv.Traps {
		fmt.Fprintf(&b, "<%s> ", t)
	}
	for _, u := range rv.Units {
		fmt.Fprintf(&b, "[%s] ", formatCard(u))
	}
	return strings.TrimRight(b.String(), " ")
}

func formatCard(cv CardView) string {
	if cv.Class == "special" || cv.Class == "weather" {
		return cv.Name
	}
	s := fmt.Sprintf("%s %d", cv.Name, cv.Power)
	if cv.Hero {
		s += "*"
	}
	return s
}

func (c *Client) renderActions(actions []ActionView, timeoutSeconds int) {
	fmt.Fprintln(c.out, "\nActions:")
	for _, a := range actions {
		fmt.Fprintf(c.out, "  %d) %s\n", a.Index+1, a.Desc)
	}
	if timeoutSeconds > 0 {
		fmt.Fprintf(c.out, "(%ds to decide)\n", timeoutSeconds)
	}
}

// readLine returns the next trimmed input line; ok is false at end of input.
func (c *Client) readLine() (string, bool) {
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (c *Client) readChoice(actions []ActionView) int {
	count := len(actions)
	for {
		fmt.Fprint(c.out, "> ")
		line, ok := c.readLine()
		if !ok {
			// Input closed: pass rather than concede.
			for _, a := range actions {
				if a.Type == "Pass" {
					return a.Index
				}
			}
			return 0
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > count {
			fmt.Fprintf(c.out, "Enter a number between 1 and %d\n", count)
			continue
		}
		return n - 1 // convert to 0-indexed
	}
}

func (c *Client) renderCardChoice(prompt string, candidates []CardView, min, max int) {
	fmt.Fprintf(c.out, "\n%s (select %d", prompt, min)
	if max != min {
		fmt.Fprintf(c.out, "-%d", max)
	}
	fmt.Fprintln(c.out, ", empty line to cancel)")
	for _, cv := range candidates {
		fmt.Fprintf(c.out, "  %d) %s\n", cv.Index+1, formatCard(cv))
	}
}

func (c *Client) readCardIndices(count, min, max int) []int {
	for {
		fmt.Fprint(c.out, "> ")
		line, ok := c.readLine()
		if !ok {
			return nil
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			return nil // cancels when min > 0, keeps when min == 0
		}

		if len(parts) < min || len(parts) > max {
			fmt.Fprintf(c.out, "Enter %d-%d numbers separated by spaces\n", min, max)
			continue
		}

		var indices []int
		valid := true
		for _, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil || n < 1 || n > count {
				fmt.Fprintf(c.out, "Each number must be between 1 and %d\n", count)
				valid = false
				break
			}
			indices = append(indices, n-1) // convert to 0-indexed
		}
		if valid {
			return indices
		}
	}
}

func (c *Client) readYesNo() bool {
	for {
		line, ok := c.readLine()
		if !ok {
			return false
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		default:
			fmt.Fprint(c.out, "Enter y or n: ")
		}
	}
}
