package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/b14tz/bluph/internal/models"
)

// ObfCard is a card as seen by its owner or after public reveal.
type ObfCard struct {
	ID   uuid.UUID   `json:"id"`
	Role models.Role `json:"role"`
}

// ObfPlayerState is one seat's public view. Hand is populated only for
// the recipient's own seat; everyone else gets CardCount.
type ObfPlayerState struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Coins     int       `json:"coins"`
	CardCount int       `json:"cardCount"`
	Alive     bool      `json:"alive"`
	Connected bool      `json:"connected"`
	IsHost    bool      `json:"isHost"`
	Hand      []ObfCard `json:"hand,omitempty"`
}

// ObfPendingAction summarizes the open response window without leaking
// per-player responses beyond who has already answered.
type ObfPendingAction struct {
	ID         uuid.UUID         `json:"id"`
	Kind       models.ActionKind `json:"kind"`
	ActorID    uuid.UUID         `json:"actorId"`
	TargetID   uuid.UUID         `json:"targetId,omitempty"`
	Claimed    models.Role       `json:"claimed,omitempty"`
	IsBlock    bool              `json:"isBlock"`
	Responded  []uuid.UUID       `json:"responded"`
	YouMayAct  bool              `json:"youMayAct"`
	DeadlineMS int64             `json:"deadlineMs"`
}

// ObfGameState is the full redacted view sent on join, reconnect, and
// explicit sync. Hidden information never crosses this boundary: the
// recipient sees their own hand, card counts for everyone else, and the
// deck only as a size.
type ObfGameState struct {
	Code            string              `json:"code"`
	Phase           Phase               `json:"phase"`
	Players         []ObfPlayerState    `json:"players"`
	CurrentPlayerID uuid.UUID           `json:"currentPlayerId,omitempty"`
	DeckCount       int                 `json:"deckCount"`
	Discard         []ObfCard           `json:"discard"`
	Pending         *ObfPendingAction   `json:"pending,omitempty"`
	CardLossOwed    []uuid.UUID         `json:"cardLossOwed,omitempty"`
	History         []models.GameAction `json:"history"`
	WinnerID        uuid.UUID           `json:"winnerId,omitempty"`
	ServerTimeMS    int64               `json:"serverTimeMs"`
}

// syncHistoryLimit bounds the transcript tail included in a sync frame.
const syncHistoryLimit = 10

// snapshotLocked builds the redacted view for one recipient. Lock held.
func (g *Game) snapshotLocked(forPlayer uuid.UUID) ObfGameState {
	state := ObfGameState{
		Code:         g.Code,
		Phase:        g.Phase,
		Players:      make([]ObfPlayerState, 0, len(g.Players)),
		Discard:      make([]ObfCard, 0, len(g.Discard)),
		WinnerID:     g.WinnerID,
		ServerTimeMS: time.Now().UnixMilli(),
	}
	if g.Deck != nil {
		state.DeckCount = g.Deck.Len()
	}
	if cur := g.currentPlayer(); cur != nil && g.Phase != PhaseWaiting && g.Phase != PhaseEnded {
		state.CurrentPlayerID = cur.ID
	}

	for _, p := range g.Players {
		ps := ObfPlayerState{
			ID:        p.ID,
			Name:      p.Name,
			Coins:     p.Coins,
			CardCount: len(p.Hand),
			Alive:     p.Alive,
			Connected: p.Connected,
			IsHost:    p.ID == g.HostID,
		}
		if p.ID == forPlayer {
			ps.Hand = make([]ObfCard, 0, len(p.Hand))
			for _, c := range p.Hand {
				ps.Hand = append(ps.Hand, ObfCard{ID: c.ID, Role: c.Role})
			}
		}
		state.Players = append(state.Players, ps)
	}

	for _, c := range g.Discard {
		state.Discard = append(state.Discard, ObfCard{ID: c.ID, Role: c.Role})
	}

	if pa := g.Pending; pa != nil {
		summary := &ObfPendingAction{
			ID:         pa.ID,
			Kind:       pa.Kind,
			ActorID:    pa.ActorID,
			TargetID:   pa.TargetID,
			Claimed:    pa.Claimed,
			IsBlock:    pa.IsBlock,
			Responded:  make([]uuid.UUID, 0, len(pa.Responses)),
			DeadlineMS: pa.Deadline.UnixMilli(),
		}
		for _, id := range sortedResponderIDs(pa) {
			summary.Responded = append(summary.Responded, id)
		}
		_, answered := pa.Responses[forPlayer]
		summary.YouMayAct = pa.Eligible[forPlayer] && !answered
		state.Pending = summary
	}

	if g.Phase == PhaseAwaitingCardLoss {
		for _, id := range g.lossOrder {
			if g.lossQueue[id] > 0 {
				state.CardLossOwed = append(state.CardLossOwed, id)
			}
		}
	}

	if n := len(g.History); n > 0 {
		start := 0
		if n > syncHistoryLimit {
			start = n - syncHistoryLimit
		}
		state.History = append([]models.GameAction(nil), g.History[start:]...)
	}
	return state
}

// sortedResponderIDs returns the responders who have answered, in the
// window's eligibility enumeration order so the list is deterministic.
func sortedResponderIDs(pa *PendingAction) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(pa.Responses))
	for _, id := range pa.order {
		if _, ok := pa.Responses[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
