package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventMatchStart EventType = iota
	EventCoinToss
	EventMulligan
	EventRoundStart
	EventTurnStart
	EventDraw
	EventCardMoved
	EventRowScoreChanged
	EventAbilityTriggered
	EventWeather
	EventTrap
	EventPass
	EventLeader
	EventFaction
	EventDestroy
	EventLifeLost
	EventRoundEnded
	EventMatchEnded
	EventConcede
)

func (e EventType) String() string {
	switch e {
	case EventMatchStart:
		return "MatchStart"
	case EventCoinToss:
		return "CoinToss"
	case EventMulligan:
		return "Mulligan"
	case EventRoundStart:
		return "RoundStart"
	case EventTurnStart:
		return "TurnStart"
	case EventDraw:
		return "Draw"
	case EventCardMoved:
		return "CardMoved"
	case EventRowScoreChanged:
		return "RowScoreChanged"
	case EventAbilityTriggered:
		return "AbilityTriggered"
	case EventWeather:
		return "Weather"
	case EventTrap:
		return "Trap"
	case EventPass:
		return "Pass"
	case EventLeader:
		return "Leader"
	case EventFaction:
		return "Faction"
	case EventDestroy:
		return "Destroy"
	case EventLifeLost:
		return "LifeLost"
	case EventRoundEnded:
		return "RoundEnded"
	case EventMatchEnded:
		return "MatchEnded"
	case EventConcede:
		return "Concede"
	default:
		return "Unknown"
	}
}

// NoRow marks events that do not refer to a board row.
const NoRow = -1

// GameEvent represents a single observable event in a match.
// Events are fire-and-forget: the engine never waits on a consumer.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Round   int       // which round (1-based, 0 before the first round)
	Turn    int       // which turn within the match (1-based)
	Player  int       // acting player (0 or 1), -1 for match-wide events
	Type    EventType // event type
	Card    string    // card name (if applicable)
	From    string    // source container for CardMoved
	To      string    // destination container for CardMoved
	Row     int       // board row index, or NoRow
	Value   int       // row total, ability kind, or life count depending on Type
	Details string    // human-readable detail string
}
