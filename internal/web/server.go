// Package web serves the browser UI: card and deck APIs, stored match
// summaries and a websocket bridge to a TCP game server.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/coder/websocket"

	"github.com/peterkuimelis/gwentx/internal/game"
	gwentnet "github.com/peterkuimelis/gwentx/internal/net"
	"github.com/peterkuimelis/gwentx/internal/storage"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	Key       string   `json:"key"`
	Name      string   `json:"name"`
	Faction   string   `json:"faction"`
	Power     int      `json:"power"`
	Class     string   `json:"class"`
	Hero      bool     `json:"hero,omitempty"`
	Abilities []string `json:"abilities,omitempty"`
	Copies    int      `json:"copies"`
	Target    string   `json:"target,omitempty"`
	ArtPath   string   `json:"artPath,omitempty"`
}

// SummaryInfo is one stored match for the /api/summaries endpoint.
type SummaryInfo struct {
	ID         string             `json:"id"`
	Factions   [2]string          `json:"factions"`
	Decks      [2]string          `json:"decks"`
	Rounds     []game.RoundResult `json:"rounds"`
	Lives      [2]int             `json:"lives"`
	Winner     int                `json:"winner"`
	Reason     string             `json:"reason"`
	FinishedAt time.Time          `json:"finishedAt"`
}

// Config configures the web server.
type Config struct {
	ArtDir    string
	DecksFile string
	Catalog   *game.Catalog        // defaults to game.DefaultCatalog
	History   storage.SummaryStore // nil disables /api/summaries
	Diag      *clog.Logger
}

// Server is the gwentx web UI server.
type Server struct {
	artDir    string
	decksFile string
	catalog   *game.Catalog
	history   storage.SummaryStore
	diag      *clog.Logger
	mux       *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(cfg Config) (*Server, error) {
	cat := cfg.Catalog
	if cat == nil {
		cat = game.DefaultCatalog()
	}
	diag := cfg.Diag
	if diag == nil {
		diag = clog.NewWithOptions(io.Discard, clog.Options{})
	}

	// Fail fast on a deck file the UI could never offer.
	if _, err := deckInfos(cfg.DecksFile, cat); err != nil {
		return nil, fmt.Errorf("load decks: %w", err)
	}

	s := &Server{
		artDir:    cfg.ArtDir,
		decksFile: cfg.DecksFile,
		catalog:   cat,
		history:   cfg.History,
		diag:      diag.WithPrefix("web"),
		mux:       http.NewServeMux(),
	}
	s.setupRoutes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setupRoutes() {
	// Embedded static files
	staticFS, _ := fs.Sub(staticFiles, "static")

	// Serve index.html at root
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		data, err := fs.ReadFile(staticFS, "index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	})

	// Static CSS/JS
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Card art from filesystem
	s.mux.Handle("GET /art/", http.StripPrefix("/art/", http.FileServer(http.Dir(s.artDir))))

	// API endpoints
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /api/summaries", s.handleSummaries)

	// WebSocket proxy
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.diag.Warn("encode response", "err", err)
	}
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	cards := make([]CardInfo, 0)
	for _, c := range s.catalog.Cards() {
		ci := CardInfo{
			Key:     c.Key,
			Name:    c.Name,
			Faction: c.Faction.String(),
			Power:   c.BasePower,
			Class:   c.Class.String(),
			Hero:    c.Hero,
			Copies:  c.Copies,
			Target:  c.Target,
		}
		for _, ab := range c.Abilities {
			ci.Abilities = append(ci.Abilities, ab.String())
		}
		if c.Filename != "" {
			ci.ArtPath = "/art/" + c.Filename
		}
		cards = append(cards, ci)
	}
	s.writeJSON(w, cards)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := deckInfos(s.decksFile, s.catalog)
	if err != nil {
		s.diag.Error("load decks", "file", s.decksFile, "err", err)
		http.Error(w, "could not load decks file", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, decks)
}

func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "match history is disabled", http.StatusNotFound)
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			http.Error(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = n
	}
	summaries, err := s.history.ListSummaries(r.Context(), limit)
	if err != nil {
		s.diag.Error("list summaries", "err", err)
		http.Error(w, "could not list summaries", http.StatusInternalServerError)
		return
	}
	out := make([]SummaryInfo, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, SummaryInfo{
			ID:         sum.ID.String(),
			Factions:   sum.Factions,
			Decks:      sum.Decks,
			Rounds:     sum.Rounds,
			Lives:      sum.Lives,
			Winner:     sum.Winner,
			Reason:     sum.Reason,
			FinishedAt: sum.FinishedAt,
		})
	}
	s.writeJSON(w, out)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.diag.Warn("websocket accept", "err", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	// Read initial connect message from browser
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		s.diag.Warn("websocket read connect", "err", err)
		return
	}

	var connectMsg struct {
		Type       string `json:"type"`
		Addr       string `json:"addr"`
		DeckNumber int    `json:"deck_number"`
	}
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	// Open TCP connection to game server
	var d net.Dialer
	tcpConn, err := d.DialContext(ctx, "tcp", connectMsg.Addr)
	if err != nil {
		errMsg, _ := json.Marshal(map[string]string{
			"type":   "error",
			"result": fmt.Sprintf("Could not connect to game server at %s: %v", connectMsg.Addr, err),
		})
		_ = wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()
	s.diag.Info("bridging browser", "game", connectMsg.Addr, "deck", connectMsg.DeckNumber)

	// Send join message over TCP
	if err := json.NewEncoder(tcpConn).Encode(gwentnet.ClientMessage{
		Type:       gwentnet.MsgJoin,
		DeckNumber: connectMsg.DeckNumber,
	}); err != nil {
		s.diag.Warn("tcp write join", "err", err)
		return
	}

	done := make(chan struct{})

	// TCP → WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if !errors.Is(err, io.EOF) {
					s.diag.Warn("tcp read", "err", err)
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				s.diag.Warn("websocket write", "err", err)
				return
			}
		}
	}()

	// WebSocket → TCP (browser responses to server)
	go func() {
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				s.diag.Warn("tcp write", "err", err)
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

// ListenAndServe serves HTTP on addr until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
