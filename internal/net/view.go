package net

import (
	"github.com/peterkuimelis/gwentx/internal/game"
	"github.com/peterkuimelis/gwentx/internal/log"
)

// BuildStateView creates a StateView from the perspective of the given player.
// The opponent's hand and traps stay hidden.
func BuildStateView(state *game.GameState, player int) *StateView {
	me := player
	opp := state.Opponent(me)

	sv := &StateView{
		You:        buildPlayerView(state, me, me),
		Opponent:   buildPlayerView(state, opp, me),
		Round:      state.Round,
		Turn:       state.Turn,
		Phase:      state.Phase.String(),
		IsYourTurn: state.Active == me,
	}
	for _, w := range state.Board.Weather.Cards {
		sv.Weather = append(sv.Weather, w.Card.Name)
	}
	for i, c := range state.Players[me].Hand {
		sv.You.Hand = append(sv.You.Hand, CardViewOf(i, c))
	}
	return sv
}

func buildPlayerView(state *game.GameState, side, viewer int) PlayerView {
	p := state.Players[side]
	pv := PlayerView{
		Faction:         p.Faction.String(),
		Deck:            p.DeckName,
		Lives:           p.Lives,
		Score:           p.Score,
		Passed:          p.Passed,
		HandCount:       p.HandCount(),
		DeckCount:       p.DeckCount(),
		GraveCount:      len(p.Grave),
		LeaderAvailable: p.LeaderAvailable,
		FactionCharges:  p.FactionCharges,
	}
	if p.Leader != nil {
		pv.Leader = p.Leader.Card.Name
	}
	for i, row := range state.Board.SideRows(side) {
		pv.Rows[i] = RowViewOf(row, viewer)
	}
	return pv
}

// RowViewOf describes one row as seen by viewer.
func RowViewOf(row *game.Row, viewer int) RowView {
	rv := RowView{
		Lane:    row.Lane().String(),
		Total:   row.Total,
		Units:   []CardView{},
		Weather: row.Effects.Weather,
	}
	for i, u := range row.Units() {
		rv.Units = append(rv.Units, CardViewOf(i, u))
	}
	for _, s := range row.Special {
		rv.Specials = append(rv.Specials, s.Card.Name)
	}
	for _, trap := range []*game.CardInstance{row.Curse, row.Waylay} {
		if trap == nil {
			continue
		}
		if trap.Owner == viewer {
			rv.Traps = append(rv.Traps, trap.Card.Name)
		} else {
			rv.Traps = append(rv.Traps, "trap")
		}
	}
	return rv
}

// CardViewOf describes a card instance at position index of its list.
func CardViewOf(index int, ci *game.CardInstance) CardView {
	cv := CardView{
		Index:  index,
		ID:     ci.ID,
		Key:    ci.Card.Key,
		Name:   ci.Card.Name,
		Power:  ci.Power,
		Base:   ci.Card.BasePower,
		Hero:   ci.Card.Hero,
		Locked: ci.Locked,
		Class:  ci.Card.Class.String(),
	}
	for _, ab := range ci.Card.Abilities {
		cv.Abilities = append(cv.Abilities, ab.String())
	}
	return cv
}

// ActionViews numbers actions for a client.
func ActionViews(actions []game.Action) []ActionView {
	views := make([]ActionView, 0, len(actions))
	for i, a := range actions {
		views = append(views, ActionView{Index: i, Type: a.Type.String(), Desc: a.String()})
	}
	return views
}

// EventViewOf converts a game event for the wire.
func EventViewOf(event log.GameEvent) *EventView {
	return &EventView{
		Round:   event.Round,
		Turn:    event.Turn,
		Player:  event.Player,
		Type:    event.Type.String(),
		Card:    event.Card,
		Row:     event.Row,
		Value:   event.Value,
		Details: event.Details,
	}
}
