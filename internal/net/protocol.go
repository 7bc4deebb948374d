package net

// Message types for the JSON protocol over TCP.
const (
	MsgNotify       = "notify"
	MsgChooseAction = "choose_action"
	MsgChooseCards  = "choose_cards"
	MsgChooseYesNo  = "choose_yes_no"
	MsgTimeout      = "timeout"
	MsgGameOver     = "game_over"

	MsgJoin   = "join"
	MsgAction = "action"
	MsgCards  = "cards"
	MsgYesNo  = "yes_no"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`
	Seq  int    `json:"seq,omitempty"` // request number echoed by the reply

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_action"
	Actions []ActionView `json:"actions,omitempty"`
	State   *StateView   `json:"state,omitempty"`

	// For "choose_cards"
	Prompt     string     `json:"prompt,omitempty"`
	Candidates []CardView `json:"candidates,omitempty"`
	Min        int        `json:"min,omitempty"`
	Max        int        `json:"max,omitempty"`

	// For "choose_action", "choose_cards" and "choose_yes_no"
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`

	// For "game_over"
	Winner int    `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Round   int    `json:"round"`
	Turn    int    `json:"turn"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Row     int    `json:"row"`
	Value   int    `json:"value,omitempty"`
	Details string `json:"details"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Desc  string `json:"desc"`
}

// CardView describes one card in hand, on a row or offered for selection.
type CardView struct {
	Index     int      `json:"index"`
	ID        int      `json:"id"`
	Key       string   `json:"key"`
	Name      string   `json:"name"`
	Power     int      `json:"power"`
	Base      int      `json:"base"`
	Hero      bool     `json:"hero,omitempty"`
	Locked    bool     `json:"locked,omitempty"`
	Class     string   `json:"class"`
	Abilities []string `json:"abilities,omitempty"`
}

// RowView is one lane of one side.
type RowView struct {
	Lane     string     `json:"lane"`
	Total    int        `json:"total"`
	Units    []CardView `json:"units"`
	Specials []string   `json:"specials,omitempty"`
	Traps    []string   `json:"traps,omitempty"` // names for the owner, "trap" otherwise
	Weather  bool       `json:"weather,omitempty"`
}

// StateView is the game state from one player's perspective.
type StateView struct {
	You        PlayerView `json:"you"`
	Opponent   PlayerView `json:"opponent"`
	Round      int        `json:"round"`
	Turn       int        `json:"turn"`
	Phase      string     `json:"phase"`
	IsYourTurn bool       `json:"is_your_turn"`
	Weather    []string   `json:"weather,omitempty"`
}

// PlayerView shows one side of the board.
type PlayerView struct {
	Faction         string     `json:"faction"`
	Deck            string     `json:"deck"`
	Lives           int        `json:"lives"`
	Score           int        `json:"score"`
	Passed          bool       `json:"passed,omitempty"`
	HandCount       int        `json:"hand_count"`
	Hand            []CardView `json:"hand,omitempty"` // only for "you"
	DeckCount       int        `json:"deck_count"`
	GraveCount      int        `json:"grave_count"`
	Leader          string     `json:"leader,omitempty"`
	LeaderAvailable bool       `json:"leader_available,omitempty"`
	FactionCharges  int        `json:"faction_charges,omitempty"`
	Rows            [3]RowView `json:"rows"` // close, ranged, siege
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`
	Seq  int    `json:"seq,omitempty"`

	// For "action"
	Index int `json:"index,omitempty"`

	// For "cards"
	Indices []int `json:"indices,omitempty"`

	// For "yes_no"
	Answer bool `json:"answer,omitempty"`

	// For "join" (initial handshake)
	DeckNumber int `json:"deck_number,omitempty"`
}
