package game

// MatchState is the lifecycle position of a match.
type MatchState int

const (
	StateMatchStart MatchState = iota
	StateCoinToss
	StateMulligan
	StateRoundStart
	StateTurnActive
	StateAwaitingChoice
	StateRoundEnd
	StateMatchOver
)

func (s MatchState) String() string {
	switch s {
	case StateMatchStart:
		return "MatchStart"
	case StateCoinToss:
		return "CoinToss"
	case StateMulligan:
		return "Mulligan"
	case StateRoundStart:
		return "RoundStart"
	case StateTurnActive:
		return "TurnActive"
	case StateAwaitingChoice:
		return "AwaitingChoice"
	case StateRoundEnd:
		return "RoundEnd"
	case StateMatchOver:
		return "MatchOver"
	default:
		return "Unknown"
	}
}

// Rules are the numeric constants of a match. Zero values other than
// Redraws are replaced by DefaultRules when a match is created.
type Rules struct {
	Lives           int     `env:"LIVES" envDefault:"2"`
	HandSize        int     `env:"HAND_SIZE" envDefault:"10"`
	Redraws         int     `env:"REDRAWS" envDefault:"2"`
	ScorchThreshold int     `env:"SCORCH_THRESHOLD" envDefault:"10"`
	SpyMultiplier   float64 `env:"SPY_MULTIPLIER" envDefault:"1"`
	SpyDraws        int     `env:"SPY_DRAWS" envDefault:"2"`
	WaylayDraws     int     `env:"WAYLAY_DRAWS" envDefault:"2"`
	WorshipBoost    int     `env:"WORSHIP_BOOST" envDefault:"1"`
	FortifyBonus    int     `env:"FORTIFY_BONUS" envDefault:"10"`
	ImmortalRounds  int     `env:"IMMORTAL_ROUNDS" envDefault:"1"`
	MaxTurns        int     `env:"MAX_TURNS" envDefault:"200"` // safety limit
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		Lives:           2,
		HandSize:        10,
		Redraws:         2,
		ScorchThreshold: 10,
		SpyMultiplier:   1,
		SpyDraws:        2,
		WaylayDraws:     2,
		WorshipBoost:    1,
		FortifyBonus:    10,
		ImmortalRounds:  1,
		MaxTurns:        200,
	}
}

func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.Lives <= 0 {
		r.Lives = d.Lives
	}
	if r.HandSize <= 0 {
		r.HandSize = d.HandSize
	}
	if r.Redraws < 0 {
		r.Redraws = 0
	}
	if r.ScorchThreshold <= 0 {
		r.ScorchThreshold = d.ScorchThreshold
	}
	if r.SpyMultiplier <= 0 {
		r.SpyMultiplier = d.SpyMultiplier
	}
	if r.SpyDraws <= 0 {
		r.SpyDraws = d.SpyDraws
	}
	if r.WaylayDraws <= 0 {
		r.WaylayDraws = d.WaylayDraws
	}
	if r.WorshipBoost <= 0 {
		r.WorshipBoost = d.WorshipBoost
	}
	if r.FortifyBonus <= 0 {
		r.FortifyBonus = d.FortifyBonus
	}
	if r.ImmortalRounds <= 0 {
		r.ImmortalRounds = d.ImmortalRounds
	}
	if r.MaxTurns <= 0 {
		r.MaxTurns = d.MaxTurns
	}
	return r
}

// PendingChoice is the single in-flight target selection of a match.
type PendingChoice struct {
	Player     int
	Prompt     string
	Candidates []*CardInstance
	Min, Max   int
}

// RoundResult records one resolved round. Winner is nil on a draw.
type RoundResult struct {
	Round  int
	Winner *int
	ScoreA int
	ScoreB int
}

// GameState holds the complete state of a match.
type GameState struct {
	Players [2]*Player
	Board   *Board
	Rules   Rules

	Round  int // 1-based round counter
	Turn   int // 1-based turn counter across the match
	Active int // 0 or 1: whose turn it is
	First  int // who opened the current round
	Phase  MatchState

	Hooks   Hooks
	Pending *PendingChoice
	Rounds  []RoundResult

	// ID counter for card instances
	nextID int

	// Match result
	Winner int // 0, 1, or -1 (draw or undecided)
	Over   bool
	Result string
}

// NewGameState creates a fresh match state.
func NewGameState(rules Rules) *GameState {
	rules = rules.withDefaults()
	return &GameState{
		Players: [2]*Player{
			{Lives: rules.Lives},
			{Lives: rules.Lives},
		},
		Board:  NewBoard(),
		Rules:  rules,
		Winner: -1,
	}
}

// NextID generates a unique card instance ID.
func (gs *GameState) NextID() int {
	gs.nextID++
	return gs.nextID
}

// Opponent returns the index of the other player.
func (gs *GameState) Opponent(player int) int {
	return 1 - player
}

// CurrentPlayer returns the Player struct for the active player.
func (gs *GameState) CurrentPlayer() *Player {
	return gs.Players[gs.Active]
}

// CreateCardInstance creates a CardInstance from a Card definition, assigned to a player.
func (gs *GameState) CreateCardInstance(card *Card, owner int) *CardInstance {
	return &CardInstance{
		Card:       card,
		ID:         gs.NextID(),
		Owner:      owner,
		Controller: owner,
		Power:      card.BasePower,
		Zone:       ZoneDeck,
	}
}

// Decisive reports whether the current round decides the match for both sides.
func (gs *GameState) Decisive() bool {
	return gs.Players[0].Lives == 1 && gs.Players[1].Lives == 1
}

// FindCard returns the instance with the given ID wherever it is, or nil.
func (gs *GameState) FindCard(id int) *CardInstance {
	for _, p := range gs.Players {
		for _, pile := range [][]*CardInstance{p.Hand, p.Deck, p.Grave} {
			for _, c := range pile {
				if c.ID == id {
					return c
				}
			}
		}
		if p.Leader != nil && p.Leader.ID == id {
			return p.Leader
		}
	}
	for _, r := range gs.Board.Rows {
		for _, c := range r.residents() {
			if c.ID == id {
				return c
			}
		}
	}
	for _, c := range gs.Board.Weather.Cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}
