package game

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/b14tz/bluph/internal/models"
)

// Deck is the face-down draw pile. Fifteen cards exist per game (three of
// each role); the deck plus all hands plus the discard pile always total
// exactly that.
type Deck struct {
	cards []models.Card
}

// NewDeck builds a full shuffled deck: three copies of each role.
func NewDeck() *Deck {
	d := &Deck{cards: make([]models.Card, 0, models.DeckSize)}
	for _, role := range models.Roles {
		for i := 0; i < models.CopiesPerRole; i++ {
			d.cards = append(d.cards, models.Card{ID: uuid.New(), Role: role})
		}
	}
	d.shuffle()
	return d
}

// Len returns the number of cards remaining in the deck.
func (d *Deck) Len() int { return len(d.cards) }

// Draw removes and returns the top card. The deck holds at least
// playerCount*2 undealt cards by construction, so an empty draw is an
// internal invariant violation, never a gameplay state.
func (d *Deck) Draw() (models.Card, error) {
	if len(d.cards) == 0 {
		return models.Card{}, newInvariantError("draw from empty deck")
	}
	top := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return top, nil
}

// ReturnAndReshuffle puts cards back into the deck and reshuffles the whole
// pile. Reshuffling on every return keeps returned cards from being
// inferred as the top of the deck.
func (d *Deck) ReturnAndReshuffle(cards ...models.Card) {
	d.cards = append(d.cards, cards...)
	d.shuffle()
}

func (d *Deck) shuffle() {
	rand.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}
