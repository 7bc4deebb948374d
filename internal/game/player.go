package game

import (
	"math/rand"
)

// RoundEffects are per-side modifiers reset at every round start.
type RoundEffects struct {
	Schools     map[AbilityID]int // resident witcher-school units by tag
	Worshippers int
	ScorchWard  bool // scorch cannot hit this side
	Embargoed   bool // no specials or weather this turn
}

func (fx RoundEffects) clone() RoundEffects {
	c := fx
	c.Schools = make(map[AbilityID]int, len(fx.Schools))
	for k, v := range fx.Schools {
		c.Schools[k] = v
	}
	return c
}

// Player represents one side's entire state.
type Player struct {
	Faction  Faction
	DeckName string
	DeckList []*Card // public list of the deck as built

	Deck  []*CardInstance // top of deck is last element (pop from end)
	Hand  []*CardInstance
	Grave []*CardInstance

	Lives  int
	Score  int // delta-maintained sum of the side's row totals
	Passed bool

	Leader          *CardInstance
	LeaderAvailable bool
	FactionCharges  int

	RoundEffects   RoundEffects
	PlaysThisRound int
}

// DeckCount returns the number of cards remaining in the deck.
func (p *Player) DeckCount() int {
	return len(p.Deck)
}

// HandCount returns the number of cards in hand.
func (p *Player) HandCount() int {
	return len(p.Hand)
}

// DrawCard removes the top card from the deck and adds it to the hand.
// Returns the drawn card, or nil if the deck is empty.
func (p *Player) DrawCard() *CardInstance {
	if len(p.Deck) == 0 {
		return nil
	}
	card := p.Deck[len(p.Deck)-1]
	p.Deck = p.Deck[:len(p.Deck)-1]
	card.Zone = ZoneHand
	p.Hand = append(p.Hand, card)
	return card
}

// InHand reports whether the instance is in the hand.
func (p *Player) InHand(card *CardInstance) bool {
	return indexOf(p.Hand, card) >= 0
}

// RemoveFromHand removes a card from the hand by instance ID.
func (p *Player) RemoveFromHand(card *CardInstance) bool {
	return removeFrom(&p.Hand, card)
}

// RemoveFromDeck removes a card from the deck by instance ID.
func (p *Player) RemoveFromDeck(card *CardInstance) bool {
	return removeFrom(&p.Deck, card)
}

// RemoveFromGrave removes a card from the grave by instance ID.
func (p *Player) RemoveFromGrave(card *CardInstance) bool {
	return removeFrom(&p.Grave, card)
}

// AddToHand puts a card in hand.
func (p *Player) AddToHand(card *CardInstance) {
	card.resetRuntime()
	card.Zone = ZoneHand
	p.Hand = append(p.Hand, card)
}

// SendToGrave moves a card to the grave.
func (p *Player) SendToGrave(card *CardInstance) {
	card.resetRuntime()
	card.Zone = ZoneGrave
	p.Grave = append(p.Grave, card)
}

// ReturnToDeck puts a card back into the deck at a random depth.
func (p *Player) ReturnToDeck(card *CardInstance, rng *rand.Rand) {
	card.resetRuntime()
	card.Zone = ZoneDeck
	at := 0
	if rng != nil && len(p.Deck) > 0 {
		at = rng.Intn(len(p.Deck))
	}
	p.Deck = append(p.Deck, nil)
	copy(p.Deck[at+1:], p.Deck[at:])
	p.Deck[at] = card
}

// GraveUnits returns the non-hero units in the grave, the candidates for revival.
func (p *Player) GraveUnits() []*CardInstance {
	var result []*CardInstance
	for _, c := range p.Grave {
		if c.Card.IsUnit() && !c.Card.Hero {
			result = append(result, c)
		}
	}
	return result
}

// ShuffleDeck randomizes the deck order.
func (p *Player) ShuffleDeck(rng *rand.Rand) {
	rng.Shuffle(len(p.Deck), func(i, j int) {
		p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
	})
}

func indexOf(pile []*CardInstance, card *CardInstance) int {
	for i, c := range pile {
		if c.ID == card.ID {
			return i
		}
	}
	return -1
}

func removeFrom(pile *[]*CardInstance, card *CardInstance) bool {
	i := indexOf(*pile, card)
	if i < 0 {
		return false
	}
	*pile = append((*pile)[:i], (*pile)[i+1:]...)
	return true
}
