package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging match events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// playerName returns "P1" or "P2" for display.
func playerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	return fmt.Sprintf("R%d T%-3d | %s", e.Round, e.Turn, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewMatchStartEvent(faction0, faction1 string) GameEvent {
	return GameEvent{
		Player:  -1,
		Type:    EventMatchStart,
		Row:     NoRow,
		Details: fmt.Sprintf("=== Match: %s vs %s ===", faction0, faction1),
	}
}

func NewCoinTossEvent(first int, reason string) GameEvent {
	return GameEvent{
		Player:  first,
		Type:    EventCoinToss,
		Row:     NoRow,
		Details: fmt.Sprintf("%s goes first (%s)", playerName(first), reason),
	}
}

func NewMulliganEvent(player int, returned, drawn string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventMulligan,
		Card:    returned,
		Row:     NoRow,
		Details: fmt.Sprintf("%s redraws %s → %s", playerName(player), returned, drawn),
	}
}

func NewRoundStartEvent(round int, first int) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  first,
		Type:    EventRoundStart,
		Row:     NoRow,
		Details: fmt.Sprintf("=== Round %d (%s starts) ===", round, playerName(first)),
	}
}

func NewTurnStartEvent(round, turn, player int) GameEvent {
	return GameEvent{
		Round:   round,
		Turn:    turn,
		Player:  player,
		Type:    EventTurnStart,
		Row:     NoRow,
		Details: fmt.Sprintf("--- Turn %d (%s) ---", turn, playerName(player)),
	}
}

func NewDrawEvent(round, turn, player int, cardName string) GameEvent {
	return GameEvent{
		Round:   round,
		Turn:    turn,
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Row:     NoRow,
		Details: fmt.Sprintf("%s draws %s", playerName(player), cardName),
	}
}

func NewCardMovedEvent(round, turn, player int, cardName, from, to string, row int) GameEvent {
	return GameEvent{
		Round:   round,
		Turn:    turn,
		Player:  player,
		Type:    EventCardMoved,
		Card:    cardName,
		From:    from,
		To:      to,
		Row:     row,
		Details: fmt.Sprintf("%s: %s → %s", cardName, from, to),
	}
}

func NewRowScoreEvent(round, turn, player, row, total int) GameEvent {
	return GameEvent{
		Round:   round,
		Turn:    turn,
		Player:  player,
		Type:    EventRowScoreChanged,
		Row:     row,
		Value:   total,
		Details: fmt.Sprintf("row %d total → %d", row, total),
	}
}

func NewAbilityEvent(round, turn, player int, cardName, ability, kind string) GameEvent {
	return GameEvent{
		Round:   round,
		Turn:    turn,
		Player:  player,
		Type:    EventAbilityTriggered,
		Card:    cardName,
		Row:     NoRow,
		Details: fmt.Sprintf("%s: %s %s", cardName, ability, kind),
	}
}

func NewWeatherEvent(round, turn, player int, cardName, details string) GameEvent {
	return GameEvent{
		Round:   round,
		Turn:    turn,
		Player:  player,
		Type:    EventWeather,
		Card:    cardName,
		Row:     NoRow,
		Details: details,
	}
}

func NewTrapEvent(round, turn, player int, cardName string, row int, details string) GameEvent {
	return GameEvent{
		Round:   round,
		Turn:    turn,
		Player:  player,
		Type:    EventTrap,
		Card:    cardName,
		Row:     row,
		Details: details,
	}
}

func NewPassEvent(round, turn, player int, auto bool) GameEvent {
	details := fmt.Sprintf("%s passes", playerName(player))
	if auto {
		details += " (no legal action)"
	}
	return GameEvent{
		Round:   round,
		Turn:    turn,
		Player:  player,
		Type:    EventPass,
		Row:     NoRow,
		Details: details,
	}
}

func NewLeaderEvent(round, turn, player int, cardName string) GameEvent {
	return GameEvent{
		Round:   round,
		Turn:    turn,
		Player:  player,
		Type:    EventLeader,
		Card:    cardName,
		Row:     NoRow,
		Details: fmt.Sprintf("%s activates leader %s", playerName(player), cardName),
	}
}

func NewFactionEvent(round, turn, player int, faction string) GameEvent {
	return GameEvent{
		Round:   round,
		Turn:    turn,
		Player:  player,
		Type:    EventFaction,
		Row:     NoRow,
		Details: fmt.Sprintf("%s uses the %s faction charge", playerName(player), faction),
	}
}

func NewDestroyEvent(round, turn, player int, cardName string, reason string) GameEvent {
	return GameEvent{
		Round:   round,
		Turn:    turn,
		Player:  player,
		Type:    EventDestroy,
		Card:    cardName,
		Row:     NoRow,
		Details: fmt.Sprintf("%s is destroyed (%s)", cardName, reason),
	}
}

func NewLifeLostEvent(round, player, lives int) GameEvent {
	return GameEvent{
		Round:   round,
		Player:  player,
		Type:    EventLifeLost,
		Row:     NoRow,
		Value:   lives,
		Details: fmt.Sprintf("%s loses a life (%d left)", playerName(player), lives),
	}
}

func NewRoundEndedEvent(round, winner, score0, score1 int) GameEvent {
	details := fmt.Sprintf("Round %d ends %d:%d, %s wins", round, score0, score1, playerName(winner))
	if winner < 0 {
		details = fmt.Sprintf("Round %d ends %d:%d, draw", round, score0, score1)
	}
	return GameEvent{
		Round:   round,
		Player:  winner,
		Type:    EventRoundEnded,
		Row:     NoRow,
		Details: details,
	}
}

func NewMatchEndedEvent(round, winner int, reason string) GameEvent {
	details := fmt.Sprintf("%s wins the match! (%s)", playerName(winner), reason)
	if winner < 0 {
		details = fmt.Sprintf("Match drawn (%s)", reason)
	}
	return GameEvent{
		Round:   round,
		Player:  winner,
		Type:    EventMatchEnded,
		Row:     NoRow,
		Details: details,
	}
}

func NewConcedeEvent(round, turn, player int) GameEvent {
	return GameEvent{
		Round:   round,
		Turn:    turn,
		Player:  player,
		Type:    EventConcede,
		Row:     NoRow,
		Details: fmt.Sprintf("%s concedes", playerName(player)),
	}
}
