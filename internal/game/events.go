package game

import (
	"github.com/google/uuid"

	"github.com/b14tz/bluph/internal/models"
)

// GameEventType represents the type of a game-related event pushed to
// clients over the transport layer.
type GameEventType string

// Constants defining the GameEvent types used for client communication.
const (
	EventPlayerJoined       GameEventType = "player_joined"
	EventPlayerLeft         GameEventType = "player_left"
	EventGameStarted        GameEventType = "game_started"
	EventActionDeclared     GameEventType = "action_declared"     // Public: action open for responses (or resolved immediately).
	EventBlockDeclared      GameEventType = "block_declared"      // Public: a block claim opened its own response window.
	EventChallengeResolved  GameEventType = "challenge_resolved"  // Public: a challenge was adjudicated.
	EventActionResolved     GameEventType = "action_resolved"     // Public: the original action's final outcome.
	EventAwaitingCardLoss   GameEventType = "awaiting_card_loss"  // Public: listed players owe a card.
	EventCardLost           GameEventType = "card_lost"           // Public: a card was surrendered face up.
	EventPlayerEliminated   GameEventType = "player_eliminated"   // Public: a player is out of the game.
	EventPlayerTurn         GameEventType = "player_turn"         // Public: turn advanced.
	EventGameEnded          GameEventType = "game_ended"          // Public: terminal state, includes winner.
	EventPlayerDisconnected GameEventType = "player_disconnected" // Public: seat preserved, connection lost.
	EventPlayerReconnected  GameEventType = "player_reconnected"  // Public: connection restored.
	EventPrivateExchange    GameEventType = "private_exchange"    // Private: drawn exchange cards for the actor only.
	EventPrivateSyncState   GameEventType = "private_sync_state"  // Private: full redacted state sync.
)

// EventPlayer identifies a player within a GameEvent payload.
type EventPlayer struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// EventCard identifies a card within a GameEvent payload. Role is set only
// when the card is public knowledge (revealed or discarded).
type EventCard struct {
	ID   uuid.UUID   `json:"id"`
	Role models.Role `json:"role,omitempty"`
}

// EventAction summarizes a declared action or block in an event payload.
type EventAction struct {
	ID           uuid.UUID         `json:"id"`
	Kind         models.ActionKind `json:"kind"`
	TargetID     uuid.UUID         `json:"targetId,omitempty"`
	Claimed      models.Role       `json:"claimed,omitempty"`
	CanChallenge bool              `json:"canChallenge"`
	CanBlock     bool              `json:"canBlock"`
	DeadlineMS   int64             `json:"deadlineMs,omitempty"`
}

// GameEvent is the standard structure for broadcasting state changes.
// Events derived from one resolved action are emitted in causal order:
// reveal and card-loss events always precede the turn-advance event they
// caused.
type GameEvent struct {
	Type   GameEventType `json:"type"`
	Player *EventPlayer  `json:"player,omitempty"` // initiating or affected player
	Target *EventPlayer  `json:"target,omitempty"`
	Action *EventAction  `json:"action,omitempty"`
	Card   *EventCard    `json:"card,omitempty"`

	Payload map[string]interface{} `json:"payload,omitempty"`

	State *ObfGameState `json:"state,omitempty"` // full redacted state for sync events
}
