package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/b14tz/bluph/internal/models"
)

// PendingAction is the single in-flight declared action or block awaiting
// player responses. A block is itself a PendingAction whose Parent points
// at the action it counters, giving the action → block → challenge-of-block
// nesting a maximum depth of two.
type PendingAction struct {
	ID       uuid.UUID
	Kind     models.ActionKind
	ActorID  uuid.UUID
	TargetID uuid.UUID   // uuid.Nil for untargeted actions
	Claimed  models.Role // role asserted by the claim, "" if none

	// IsBlock marks a block window; Parent is the blocked action.
	IsBlock bool
	Parent  *PendingAction

	// Eligible is the set of players still entitled to respond; order
	// preserves their seating enumeration for deterministic summaries.
	Eligible map[uuid.UUID]bool
	order    []uuid.UUID
	// Responses is the ledger of answers received, in arrival order under
	// the game lock.
	Responses map[uuid.UUID]models.ResponseKind

	Deadline time.Time
	timer    *time.Timer
}

func newPendingAction(kind models.ActionKind, actor, target uuid.UUID, claimed models.Role, responders []uuid.UUID, window time.Duration) *PendingAction {
	pa := &PendingAction{
		ID:        uuid.New(),
		Kind:      kind,
		ActorID:   actor,
		TargetID:  target,
		Claimed:   claimed,
		Eligible:  make(map[uuid.UUID]bool, len(responders)),
		Responses: make(map[uuid.UUID]models.ResponseKind, len(responders)),
		Deadline:  time.Now().Add(window),
	}
	for _, id := range responders {
		pa.Eligible[id] = true
	}
	pa.order = responders
	return pa
}

func newBlockPending(parent *PendingAction, blocker uuid.UUID, claimed models.Role, responders []uuid.UUID, window time.Duration) *PendingAction {
	pa := newPendingAction(parent.Kind, blocker, uuid.Nil, claimed, responders, window)
	pa.IsBlock = true
	pa.Parent = parent
	return pa
}

// recordResponse writes one player's answer into the ledger.
func (pa *PendingAction) recordResponse(playerID uuid.UUID, kind models.ResponseKind) error {
	if !pa.Eligible[playerID] {
		return newRuleError("player %s is not an eligible responder", playerID)
	}
	if _, answered := pa.Responses[playerID]; answered {
		return newRuleError("player %s already responded", playerID)
	}
	pa.Responses[playerID] = kind
	return nil
}

// allResponded reports whether every eligible responder has answered.
func (pa *PendingAction) allResponded() bool {
	for id := range pa.Eligible {
		if _, ok := pa.Responses[id]; !ok {
			return false
		}
	}
	return true
}

// dropResponder removes a player from the eligible set, e.g. after they
// leave the game mid-window.
func (pa *PendingAction) dropResponder(playerID uuid.UUID) {
	delete(pa.Eligible, playerID)
	delete(pa.Responses, playerID)
}

// action returns the original action this window resolves: the pending
// action itself, or its parent when this is a block window.
func (pa *PendingAction) action() *PendingAction {
	if pa.IsBlock {
		return pa.Parent
	}
	return pa
}

// stopTimer cancels the deadline timer if armed.
func (pa *PendingAction) stopTimer() {
	if pa.timer != nil {
		pa.timer.Stop()
		pa.timer = nil
	}
}
