package game

import "fmt"

// RowCount is the number of combat rows on the board.
const RowCount = 6

// RowIndex maps a player's lane to a board row. Player 0 owns rows 3-5
// (close, ranged, siege), player 1 owns rows 2-0 in the same lane order.
func RowIndex(player int, lane Lane) int {
	if player == 0 {
		return 3 + int(lane)
	}
	return 2 - int(lane)
}

// RowOwner returns the player whose side row i is on.
func RowOwner(i int) int {
	if i >= 3 {
		return 0
	}
	return 1
}

// RowLane returns the lane of row i.
func RowLane(i int) Lane {
	if i >= 3 {
		return Lane(i - 3)
	}
	return Lane(2 - i)
}

// OppositeRow returns the mirror row across the board.
func OppositeRow(i int) int {
	return RowCount - 1 - i
}

// RowName formats row i for prompts and logs.
func RowName(i int) string {
	return fmt.Sprintf("P%d %s", RowOwner(i)+1, RowLane(i))
}

// Board holds the six rows and the shared weather zone.
type Board struct {
	Rows    [RowCount]*Row
	Weather WeatherZone
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	b := &Board{}
	for i := range b.Rows {
		b.Rows[i] = newRow(i)
	}
	return b
}

// Row returns a player's row for the lane.
func (b *Board) Row(player int, lane Lane) *Row {
	return b.Rows[RowIndex(player, lane)]
}

// SideRows returns a player's rows in lane order.
func (b *Board) SideRows(player int) []*Row {
	return []*Row{b.Row(player, LaneClose), b.Row(player, LaneRanged), b.Row(player, LaneSiege)}
}

// Units returns every resident unit on a player's side.
func (b *Board) Units(player int) []*CardInstance {
	var units []*CardInstance
	for _, r := range b.SideRows(player) {
		units = append(units, r.Units()...)
	}
	return units
}

// Reset clears every row and weather card between matches.
func (b *Board) Reset() {
	for _, r := range b.Rows {
		r.reset()
		r.HalfWeather = false
	}
	b.Weather.Cards = nil
}

// --- Weather zone ---

// WeatherZone is the shared container for active weather cards.
type WeatherZone struct {
	Cards []*CardInstance
}

// weatherRows lists the rows each weather kind darkens.
var weatherRows = map[AbilityID][]int{
	AbilityFrost: {2, 3},
	AbilityFog:   {1, 4},
	AbilityRain:  {0, 5},
	AbilityStorm: {0, 1, 4, 5},
}

// Has reports whether a weather card of the given kind is active.
func (w *WeatherZone) Has(kind AbilityID) bool {
	for _, c := range w.Cards {
		if c.Card.Primary() == kind {
			return true
		}
	}
	return false
}

// Darkened returns which rows are under active weather.
func (w *WeatherZone) Darkened() [RowCount]bool {
	var dark [RowCount]bool
	for _, c := range w.Cards {
		for _, i := range weatherRows[c.Card.Primary()] {
			dark[i] = true
		}
	}
	return dark
}

// Darkens reports whether the weather kind covers row i.
func Darkens(kind AbilityID, i int) bool {
	for _, r := range weatherRows[kind] {
		if r == i {
			return true
		}
	}
	return false
}
