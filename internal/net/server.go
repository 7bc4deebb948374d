package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/peterkuimelis/gwentx/internal/game"
	"github.com/peterkuimelis/gwentx/internal/log"
)

// Server hosts a match between the host seat and one TCP joiner.
type Server struct {
	DeckFile string
	Catalog  *game.Catalog // defaults to game.DefaultCatalog
	Port     int
	HostDeck int // host's deck number (1-indexed)
	Rules    game.Rules
	Seed     int64

	// Host plays seat 0. Nil runs a terminal REPL over an in-process pipe.
	Host game.PlayerController

	Timeout  time.Duration // per-decision limit for network seats
	Clock    quartz.Clock
	Diag     *clog.Logger
	Logger   log.EventLogger // defaults to a TextLogger on Out
	Sink     game.SummarySink
	Listener net.Listener // used instead of listening on Port when set
	Out      io.Writer    // status lines, defaults to stdout
}

// Run starts the server, waits for a client to join, then runs the match.
func (s *Server) Run(ctx context.Context) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}
	diag := s.Diag
	if diag == nil {
		diag = clog.NewWithOptions(io.Discard, clog.Options{})
	}
	diag = diag.WithPrefix("server")
	cat := s.Catalog
	if cat == nil {
		cat = game.DefaultCatalog()
	}

	ln := s.Listener
	if ln == nil {
		var lc net.ListenConfig
		l, err := lc.Listen(ctx, "tcp", ":"+strconv.Itoa(s.Port))
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		ln = l
	}
	defer ln.Close()

	fmt.Fprintf(out, "Waiting for opponent on %s...\n", ln.Addr())

	conn, err := accept(ctx, ln)
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	diag.Info("opponent connected", "remote", conn.RemoteAddr())
	fmt.Fprintf(out, "Opponent connected from %s\n", conn.RemoteAddr())

	opts := Options{Timeout: s.Timeout, Clock: s.Clock, Diag: diag}
	joinerCtrl := NewNetworkController(conn, 1, opts)
	defer joinerCtrl.Close()

	joinerDeck, err := joinerCtrl.AwaitJoin(ctx)
	if err != nil {
		return err
	}
	if joinerDeck == 0 {
		joinerDeck = 2
	}
	fmt.Fprintf(out, "Opponent chose deck %d\n", joinerDeck)

	hostDeck, err := game.DeckByNumber(s.DeckFile, cat, s.HostDeck)
	if err != nil {
		return fmt.Errorf("load host deck: %w", err)
	}
	joinDeck, err := game.DeckByNumber(s.DeckFile, cat, joinerDeck)
	if err != nil {
		return fmt.Errorf("load joiner deck: %w", err)
	}
	fmt.Fprintf(out, "Host: %s (%s, %d cards)\n", hostDeck.Name, hostDeck.Faction, len(hostDeck.Cards))
	fmt.Fprintf(out, "Joiner: %s (%s, %d cards)\n", joinDeck.Name, joinDeck.Faction, len(joinDeck.Cards))

	g, gctx := errgroup.WithContext(ctx)

	// Player 0 = host, Player 1 = joiner
	host := s.Host
	var hostCtrl *NetworkController
	if host == nil {
		hostConn, hostServerConn := net.Pipe()
		hostCtrl = NewNetworkController(hostServerConn, 0, Options{Clock: s.Clock, Diag: diag})
		defer hostCtrl.Close()
		host = hostCtrl
		g.Go(func() error {
			client := NewClient(hostConn, "P1", nil, out)
			return client.RunREPL(gctx)
		})
	}

	logger := s.Logger
	if logger == nil {
		logger = log.NewTextLogger(out)
	}
	match, err := game.NewMatch(game.MatchConfig{
		Decks:   [2]*game.Deck{hostDeck, joinDeck},
		Catalog: cat,
		Rules:   s.Rules,
		Logger:  logger,
		Diag:    diag,
		Clock:   s.Clock,
		Sink:    s.Sink,
		Seed:    s.Seed,
	}, host, joinerCtrl)
	if err != nil {
		return fmt.Errorf("new match: %w", err)
	}

	g.Go(func() error {
		winner, err := match.Run(gctx)
		if err != nil {
			return fmt.Errorf("match error: %w", err)
		}
		diag.Info("match over", "winner", winner, "result", match.State.Result, "id", match.Summary.ID)

		_ = joinerCtrl.SendGameOver(winner, match.State.Result)
		if hostCtrl != nil {
			_ = hostCtrl.SendGameOver(winner, match.State.Result)
		}
		return nil
	})

	return g.Wait()
}

// accept waits for one connection, giving up when ctx ends.
func accept(ctx context.Context, ln net.Listener) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		conn, err := ln.Accept()
		ch <- result{conn, err}
	}()
	select {
	case r := <-ch:
		return r.conn, r.err
	case <-ctx.Done():
		_ = ln.Close()
		r := <-ch
		if r.conn != nil {
			_ = r.conn.Close()
		}
		return nil, errors.Join(ctx.Err(), r.err)
	}
}
