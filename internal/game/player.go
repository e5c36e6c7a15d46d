package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/b14tz/bluph/internal/models"
)

// MaxHandSize is the hand limit outside the Ambassador exchange window.
const MaxHandSize = 2

// Player is one seat's mutable state. Hands are hidden from other players;
// only the owning game mutates a Player, under the game lock.
type Player struct {
	ID   uuid.UUID
	Name string

	Hand  []models.Card
	Coins int
	Alive bool

	Connected      bool
	DisconnectedAt time.Time
}

// NewPlayer creates a seated player with no cards and no coins; Start deals
// the opening hand and bankroll.
func NewPlayer(id uuid.UUID, name string) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Hand:      make([]models.Card, 0, MaxHandSize),
		Alive:     true,
		Connected: true,
	}
}

// AddCard appends a card to the hand. Exceeding the hand limit outside an
// exchange is an engine bug.
func (p *Player) AddCard(c models.Card) error {
	if len(p.Hand) >= MaxHandSize {
		return newInvariantError("player %s already holds %d cards", p.ID, len(p.Hand))
	}
	p.Hand = append(p.Hand, c)
	return nil
}

// RemoveCard removes the identified card from the hand and returns it.
// A miss never happens in correct engine flow and is reported as an
// invariant violation.
func (p *Player) RemoveCard(cardID uuid.UUID) (models.Card, error) {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, nil
		}
	}
	return models.Card{}, newInvariantError("card %s not in hand of player %s", cardID, p.ID)
}

// HasRole reports whether the hand contains at least one card of role.
func (p *Player) HasRole(role models.Role) bool {
	for _, c := range p.Hand {
		if c.Role == role {
			return true
		}
	}
	return false
}

// CardOfRole returns the first held card of role.
func (p *Player) CardOfRole(role models.Role) (models.Card, bool) {
	for _, c := range p.Hand {
		if c.Role == role {
			return c, true
		}
	}
	return models.Card{}, false
}

// AdjustCoins applies delta to the balance, clamping at zero.
func (p *Player) AdjustCoins(delta int) {
	p.Coins += delta
	if p.Coins < 0 {
		p.Coins = 0
	}
}

// CanAfford reports whether the player can pay cost.
func (p *Player) CanAfford(cost int) bool { return p.Coins >= cost }

// MustCoup reports whether the mandatory-Coup rule applies.
func (p *Player) MustCoup() bool { return p.Coins >= mustCoupThreshold }

// Eliminate clears the hand and marks the player dead, returning the
// surrendered cards for the caller to move to the discard pile.
func (p *Player) Eliminate() []models.Card {
	surrendered := p.Hand
	p.Hand = nil
	p.Alive = false
	return surrendered
}
