// Package ai implements the automated opponent: hard constraints prune the
// legal actions, a heuristic evaluator weighs the survivors, a weighted
// lottery samples one and a fallback ladder covers rejected picks.
package ai

// Config holds the policy's numeric thresholds. Every field can be set from
// the environment (see internal/config, prefix GWENTX_AI_).
type Config struct {
	Seed int64 `env:"SEED"` // 0 seeds from the clock

	// Hard constraints.
	OpeningHandFloor int `env:"OPENING_HAND_FLOOR" envDefault:"6"`
	MinPlaysPerRound int `env:"MIN_PLAYS_PER_ROUND" envDefault:"1"`

	// Card valuation.
	DrawValue       float64 `env:"DRAW_VALUE" envDefault:"6"` // worth of one extra card
	TrapValue       float64 `env:"TRAP_VALUE" envDefault:"4"`
	LockValue       float64 `env:"LOCK_VALUE" envDefault:"4"`
	ShieldValue     float64 `env:"SHIELD_VALUE" envDefault:"5"`
	WardValue       float64 `env:"WARD_VALUE" envDefault:"5"`
	SpecialValue    float64 `env:"SPECIAL_VALUE" envDefault:"3"`
	TransformValue  float64 `env:"TRANSFORM_VALUE" envDefault:"6"`
	LeaderReserve   float64 `env:"LEADER_RESERVE" envDefault:"2"`
	ScorchSelfRatio float64 `env:"SCORCH_SELF_RATIO" envDefault:"2"` // own losses count this much against enemy losses

	// Play-around.
	LoneHeroPenalty   float64 `env:"LONE_HERO_PENALTY" envDefault:"4"`
	DisruptionPenalty float64 `env:"DISRUPTION_PENALTY" envDefault:"0.5"`
	WeatherRowPenalty float64 `env:"WEATHER_ROW_PENALTY" envDefault:"3"`

	// Passing.
	PassWinWeight     float64 `env:"PASS_WIN_WEIGHT" envDefault:"1000"`
	PassLeadMargin    int     `env:"PASS_LEAD_MARGIN" envDefault:"15"`
	PassGiveUpDeficit int     `env:"PASS_GIVE_UP_DEFICIT" envDefault:"25"`
	PassGiveUpWeight  float64 `env:"PASS_GIVE_UP_WEIGHT" envDefault:"20"`

	// Mulligan.
	MulliganBelow int `env:"MULLIGAN_BELOW" envDefault:"3"` // redraw plain units weaker than this
}

// DefaultConfig returns the thresholds the policy ships with.
func DefaultConfig() Config {
	return Config{
		OpeningHandFloor:  6,
		MinPlaysPerRound:  1,
		DrawValue:         6,
		TrapValue:         4,
		LockValue:         4,
		ShieldValue:       5,
		WardValue:         5,
		SpecialValue:      3,
		TransformValue:    6,
		LeaderReserve:     2,
		ScorchSelfRatio:   2,
		LoneHeroPenalty:   4,
		DisruptionPenalty: 0.5,
		WeatherRowPenalty: 3,
		PassWinWeight:     1000,
		PassLeadMargin:    15,
		PassGiveUpDeficit: 25,
		PassGiveUpWeight:  20,
		MulliganBelow:     3,
	}
}
