// Package models holds the shared vocabulary of the game: roles, cards,
// actions, and response kinds exchanged between the engine and the
// transport layer.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is one of the five character roles in the deck.
type Role string

const (
	RoleDuke       Role = "duke"
	RoleAssassin   Role = "assassin"
	RoleCaptain    Role = "captain"
	RoleAmbassador Role = "ambassador"
	RoleContessa   Role = "contessa"
)

// Roles lists every role in deck-construction order.
var Roles = []Role{RoleDuke, RoleAssassin, RoleCaptain, RoleAmbassador, RoleContessa}

// CopiesPerRole is the number of copies of each role in the deck.
const CopiesPerRole = 3

// DeckSize is the total card count; deck + hands + discard must always sum to this.
const DeckSize = CopiesPerRole * 5

// Valid reports whether r names a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleDuke, RoleAssassin, RoleCaptain, RoleAmbassador, RoleContessa:
		return true
	}
	return false
}

// Card is a single role card. The identity is stable for the card's
// lifetime; ownership moves between the deck, hands, and the discard pile.
type Card struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

// ActionKind is a turn-defining move a player may declare.
type ActionKind string

const (
	ActionIncome      ActionKind = "income"
	ActionForeignAid  ActionKind = "foreign_aid"
	ActionCoup        ActionKind = "coup"
	ActionTax         ActionKind = "tax"
	ActionAssassinate ActionKind = "assassinate"
	ActionSteal       ActionKind = "steal"
	ActionExchange    ActionKind = "exchange"

	// ActionBlock appears in history entries and events only; it is not
	// declarable as a turn action.
	ActionBlock ActionKind = "block"
)

// Valid reports whether k names a declarable action.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionIncome, ActionForeignAid, ActionCoup, ActionTax, ActionAssassinate, ActionSteal, ActionExchange:
		return true
	}
	return false
}

// ResponseKind is a player's answer to a pending action or block.
type ResponseKind string

const (
	ResponseAllow     ResponseKind = "allow"
	ResponseChallenge ResponseKind = "challenge"
	ResponseBlock     ResponseKind = "block"
)

// GameAction is one entry in a game's append-only action history.
type GameAction struct {
	ID        uuid.UUID  `json:"id"`
	Kind      ActionKind `json:"kind"`
	PlayerID  uuid.UUID  `json:"playerId"`
	TargetID  uuid.UUID  `json:"targetId,omitempty"`
	Claimed   Role       `json:"claimed,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
