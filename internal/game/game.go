// Package game implements the authoritative resolution engine for a
// Coup-style bluffing card game: the turn cycle, the pending-action
// lifecycle (declare → respond → resolve), challenge and block
// adjudication, card loss and elimination, deck management, and turn
// advancement.
//
// One Game is a single logical unit of mutation: every state-changing
// operation serializes on the game mutex, so concurrent responses from
// different players are applied in arrival order and the first challenge
// or block wins the short-circuit.
package game

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/b14tz/bluph/internal/cache"
	"github.com/b14tz/bluph/internal/database"
	"github.com/b14tz/bluph/internal/models"
)

// Phase is the engine's state-machine phase.
type Phase string

const (
	PhaseWaiting               Phase = "waiting"
	PhaseInTurn                Phase = "in_turn"
	PhaseAwaitingResponse      Phase = "awaiting_response"
	PhaseAwaitingBlockResponse Phase = "awaiting_block_response"
	PhaseAwaitingCardLoss      Phase = "awaiting_card_loss"
	PhaseAwaitingExchange      Phase = "awaiting_exchange"
	PhaseEnded                 Phase = "ended"
)

// MaxPlayers is the seat limit for a 15-card game.
const MaxPlayers = 6

// historyLimit bounds the action history kept for transcript display.
const historyLimit = 50

// Default timing parameters; overridable per game via the setters below.
const (
	DefaultResponseTimeout = 15 * time.Second
	DefaultCardLossTimeout = 30 * time.Second
	DefaultReconnectGrace  = 30 * time.Second
)

// resolveStage tracks where the current pending action stands once its
// response window has closed.
type resolveStage uint8

const (
	stageNone           resolveStage = iota
	stageActionProceeds              // window closed in the action's favor; effect not yet applied
	stageActionAborted               // action nullified (lost challenge or standing block)
	stageEffectDone                  // effect applied; only card losses remain
)

// exchangeState holds the interactive Ambassador exchange in progress.
type exchangeState struct {
	PlayerID uuid.UUID
	Drawn    []models.Card
	Keep     int // number of cards the player keeps (their pre-exchange hand size)
	Deadline time.Time
	timer    *time.Timer
}

// Game is the state and logic for a single game instance. The registry
// owns its lifetime; the transport adapter calls its exported methods and
// receives outbound events through the broadcast callbacks.
type Game struct {
	Code      string
	HostID    uuid.UUID
	CreatedAt time.Time

	Players    []*Player // turn order
	CurrentIdx int
	Deck       *Deck
	Discard    []models.Card // revealed-and-discarded cards, face up
	Phase      Phase
	Pending    *PendingAction
	History    []models.GameAction
	WinnerID   uuid.UUID

	// Card-loss obligations: player → number of cards still owed.
	lossQueue map[uuid.UUID]int
	lossOrder []uuid.UUID
	lossTimer *time.Timer
	lossEpoch int

	exchange *exchangeState
	stage    resolveStage

	ResponseTimeout time.Duration
	CardLossTimeout time.Duration
	ReconnectGrace  time.Duration

	graceTimer  *time.Timer
	actionIndex int
	closed      bool

	Mu sync.Mutex

	// Communication callbacks, set by the transport adapter.
	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
}

// NewGame creates a game in the waiting phase with defaults.
func NewGame(code string, hostID uuid.UUID) *Game {
	return &Game{
		Code:            code,
		HostID:          hostID,
		CreatedAt:       time.Now(),
		Phase:           PhaseWaiting,
		lossQueue:       make(map[uuid.UUID]int),
		ResponseTimeout: DefaultResponseTimeout,
		CardLossTimeout: DefaultCardLossTimeout,
		ReconnectGrace:  DefaultReconnectGrace,
	}
}

// AddPlayer seats a player. Rejected once the game has started, when the
// room is full, or on duplicate identity.
func (g *Game) AddPlayer(id uuid.UUID, name string) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Phase != PhaseWaiting {
		return newRuleError("game %s already started", g.Code)
	}
	if len(g.Players) >= MaxPlayers {
		return newRuleError("game %s is full", g.Code)
	}
	for _, p := range g.Players {
		if p.ID == id {
			return newRuleError("player %s already seated", id)
		}
	}
	p := NewPlayer(id, name)
	g.Players = append(g.Players, p)
	g.logAction(id, "player_join", map[string]interface{}{"name": name})
	g.fireEvent(GameEvent{
		Type:    EventPlayerJoined,
		Player:  &EventPlayer{ID: id, Name: name},
		Payload: map[string]interface{}{"playerCount": len(g.Players)},
	})
	return nil
}

// RemovePlayer takes a player out of the game entirely (explicit leave).
// Mid-game their cards return to the deck with a reshuffle; hidden
// information must not leak through deck order.
func (g *Game) RemovePlayer(id uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	idx := -1
	for i, p := range g.Players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return newStaleError("player %s not in game %s", id, g.Code)
	}
	leaving := g.Players[idx]
	wasCurrent := g.Phase != PhaseWaiting && g.Phase != PhaseEnded && idx == g.CurrentIdx

	if len(leaving.Hand) > 0 {
		g.Deck.ReturnAndReshuffle(leaving.Hand...)
		leaving.Hand = nil
	}
	delete(g.lossQueue, id)

	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
	if len(g.Players) == 0 {
		g.CurrentIdx = 0
	} else if idx < g.CurrentIdx {
		g.CurrentIdx--
	} else if idx == g.CurrentIdx {
		// Park the pointer on the seat before the leaver so the next
		// advance lands on whoever followed them in order.
		g.CurrentIdx = (idx - 1 + len(g.Players)) % len(g.Players)
	}
	if g.HostID == id && len(g.Players) > 0 {
		g.HostID = g.Players[0].ID
	}

	g.logAction(id, "player_leave", nil)
	g.fireEvent(GameEvent{
		Type:    EventPlayerLeft,
		Player:  &EventPlayer{ID: id, Name: leaving.Name},
		Payload: map[string]interface{}{"playerCount": len(g.Players)},
	})

	if g.Phase == PhaseWaiting || g.Phase == PhaseEnded {
		return nil
	}

	// Mid-game departure can unblock a pending window or end the game.
	if g.Pending != nil {
		if g.Pending.ActorID == id || (g.Pending.Parent != nil && g.Pending.Parent.ActorID == id) {
			// The claimant left; their action dies with them.
			g.Pending.stopTimer()
			g.clearResolution()
			g.Phase = PhaseInTurn
		} else if g.Phase == PhaseAwaitingResponse || g.Phase == PhaseAwaitingBlockResponse {
			g.Pending.dropResponder(id)
			if g.Pending.allResponded() {
				g.resolveAllAllowed()
				return nil
			}
		} else {
			// Past the response window; the record just loses a seat.
			g.Pending.dropResponder(id)
		}
	}
	if g.aliveCount() <= 1 {
		g.endGame()
		return nil
	}
	if g.Phase == PhaseAwaitingCardLoss && len(g.lossQueue) == 0 {
		g.onLossesResolved()
	} else if g.Phase == PhaseInTurn && (wasCurrent || g.currentPlayer() == nil) {
		g.advanceTurn()
	}
	return nil
}

// Start deals two cards and two coins to every seat and opens the first
// turn. Only the host may start, with at least two players seated.
func (g *Game) Start(requesterID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Phase != PhaseWaiting {
		return newRuleError("game %s already started", g.Code)
	}
	if requesterID != g.HostID {
		return newRuleError("only the host can start the game")
	}
	if len(g.Players) < 2 {
		return newRuleError("need at least 2 players to start")
	}

	g.Deck = NewDeck()
	for _, p := range g.Players {
		for i := 0; i < MaxHandSize; i++ {
			c, err := g.Deck.Draw()
			if err != nil {
				return g.failGame(err)
			}
			if err := p.AddCard(c); err != nil {
				return g.failGame(err)
			}
		}
		p.Coins = 2
	}
	g.CurrentIdx = 0
	g.Phase = PhaseInTurn
	log.Printf("Game %s: started with %d players.", g.Code, len(g.Players))
	g.logAction(uuid.Nil, "game_start", map[string]interface{}{"players": len(g.Players)})

	g.fireEvent(GameEvent{
		Type:    EventGameStarted,
		Payload: map[string]interface{}{"currentPlayerId": g.Players[0].ID.String()},
	})
	g.broadcastSyncStateToAll()
	g.fireTurnEvent()
	return nil
}

// HandleDisconnect marks a player disconnected. The seat, cards, and coins
// are preserved; response windows keep running, and a grace timer skips
// the player's turn if it is currently theirs.
func (g *Game) HandleDisconnect(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil || !p.Connected {
		return
	}
	p.Connected = false
	p.DisconnectedAt = time.Now()
	log.Printf("Game %s: player %s disconnected.", g.Code, playerID)
	g.logAction(playerID, "player_disconnect", nil)
	g.fireEvent(GameEvent{
		Type:   EventPlayerDisconnected,
		Player: &EventPlayer{ID: p.ID, Name: p.Name},
	})

	if g.Phase == PhaseInTurn && g.currentPlayer() != nil && g.currentPlayer().ID == playerID {
		g.scheduleTurnGrace(playerID)
	}
}

// HandleReconnect marks a player connected again and sends them the
// current redacted state. Game state is not otherwise mutated; the
// transport layer has already re-bound the session identity.
func (g *Game) HandleReconnect(playerID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil {
		return newStaleError("player %s not in game %s", playerID, g.Code)
	}
	p.Connected = true
	p.DisconnectedAt = time.Time{}
	log.Printf("Game %s: player %s reconnected.", g.Code, playerID)
	g.logAction(playerID, "player_reconnect", nil)

	g.fireEvent(GameEvent{
		Type:   EventPlayerReconnected,
		Player: &EventPlayer{ID: p.ID, Name: p.Name},
	})
	g.sendSyncState(playerID)
	if g.graceTimer != nil && g.currentPlayer() != nil && g.currentPlayer().ID == playerID {
		g.graceTimer.Stop()
		g.graceTimer = nil
	}
	return nil
}

// Snapshot returns the game state redacted for one recipient.
func (g *Game) Snapshot(forPlayer uuid.UUID) ObfGameState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.snapshotLocked(forPlayer)
}

// Shutdown cancels every outstanding timer so registry eviction cannot
// leave a timer firing against a freed game.
func (g *Game) Shutdown() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.closed = true
	g.stopAllTimers()
}

// PlayerIDs returns the seated player IDs in turn order.
func (g *Game) PlayerIDs() []uuid.UUID {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	ids := make([]uuid.UUID, len(g.Players))
	for i, p := range g.Players {
		ids[i] = p.ID
	}
	return ids
}

// Ended reports whether the game reached its terminal phase.
func (g *Game) Ended() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Phase == PhaseEnded
}

// Empty reports whether no seats remain.
func (g *Game) Empty() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return len(g.Players) == 0
}

// ---------------------------------------------------------------------------
// Internal helpers. Everything below assumes the game lock is held.
// ---------------------------------------------------------------------------

func (g *Game) playerByID(id uuid.UUID) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) currentPlayer() *Player {
	if len(g.Players) == 0 || g.CurrentIdx >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentIdx]
}

func (g *Game) aliveCount() int {
	n := 0
	for _, p := range g.Players {
		if p.Alive {
			n++
		}
	}
	return n
}

// eligibleResponders returns alive players except the excluded one, in
// join order.
func (g *Game) eligibleResponders(except uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(g.Players))
	for _, p := range g.Players {
		if p.Alive && p.ID != except {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (g *Game) appendHistory(entry models.GameAction) {
	g.History = append(g.History, entry)
	if len(g.History) > historyLimit {
		g.History = g.History[len(g.History)-historyLimit:]
	}
}

// advanceTurn moves the turn pointer to the next alive player clockwise
// from the acting player, skipping eliminated seats and players whose
// reconnection grace has expired.
func (g *Game) advanceTurn() {
	if g.aliveCount() < 2 {
		g.endGame()
		return
	}
	n := len(g.Players)
	idx := g.CurrentIdx
	fallback := -1
	for step := 0; step < n; step++ {
		idx = (idx + 1) % n
		p := g.Players[idx]
		if !p.Alive {
			continue
		}
		if fallback == -1 {
			fallback = idx
		}
		if !p.Connected && g.ReconnectGrace > 0 && time.Since(p.DisconnectedAt) > g.ReconnectGrace {
			log.Printf("Game %s: skipping turn of disconnected player %s.", g.Code, p.ID)
			continue
		}
		g.openTurn(idx)
		return
	}
	if fallback != -1 {
		// Every alive player is past grace; the game keeps its shape and
		// waits for someone to come back.
		g.openTurn(fallback)
	}
}

func (g *Game) openTurn(idx int) {
	g.CurrentIdx = idx
	g.Phase = PhaseInTurn
	g.fireTurnEvent()
	p := g.Players[idx]
	if !p.Connected {
		g.scheduleTurnGrace(p.ID)
	}
}

func (g *Game) fireTurnEvent() {
	p := g.currentPlayer()
	if p == nil {
		return
	}
	g.fireEvent(GameEvent{
		Type:   EventPlayerTurn,
		Player: &EventPlayer{ID: p.ID, Name: p.Name},
	})
}

// scheduleTurnGrace arms the timer that skips a disconnected current
// player's turn once the reconnection grace elapses.
func (g *Game) scheduleTurnGrace(playerID uuid.UUID) {
	if g.ReconnectGrace <= 0 || g.closed {
		return
	}
	if g.graceTimer != nil {
		g.graceTimer.Stop()
	}
	p := g.playerByID(playerID)
	if p == nil {
		return
	}
	wait := g.ReconnectGrace - time.Since(p.DisconnectedAt)
	if wait < 0 {
		wait = 0
	}
	g.graceTimer = time.AfterFunc(wait, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.closed || g.Phase != PhaseInTurn {
			return
		}
		cur := g.currentPlayer()
		if cur == nil || cur.ID != playerID || cur.Connected {
			return
		}
		log.Printf("Game %s: grace expired for %s, skipping turn.", g.Code, playerID)
		g.logAction(playerID, "turn_skipped_disconnected", nil)
		g.advanceTurn()
	})
}

// eliminatePlayer moves the player's remaining cards to the discard pile
// and marks them dead exactly once.
func (g *Game) eliminatePlayer(p *Player) {
	if !p.Alive {
		return
	}
	surrendered := p.Eliminate()
	g.Discard = append(g.Discard, surrendered...)
	delete(g.lossQueue, p.ID)
	log.Printf("Game %s: player %s eliminated.", g.Code, p.ID)
	g.logAction(p.ID, "player_eliminated", nil)
	g.fireEvent(GameEvent{
		Type:   EventPlayerEliminated,
		Player: &EventPlayer{ID: p.ID, Name: p.Name},
	})
	if g.Pending != nil {
		g.Pending.dropResponder(p.ID)
	}
}

// endGame transitions to the terminal phase, announces the winner, and
// persists the final snapshot.
func (g *Game) endGame() {
	if g.Phase == PhaseEnded {
		return
	}
	g.Phase = PhaseEnded
	g.stopAllTimers()
	g.clearResolution()

	var winner *Player
	for _, p := range g.Players {
		if p.Alive {
			winner = p
			break
		}
	}
	payload := map[string]interface{}{}
	if winner != nil {
		g.WinnerID = winner.ID
		payload["winnerId"] = winner.ID.String()
		payload["winnerName"] = winner.Name
	}
	log.Printf("Game %s: ended. Winner: %v", g.Code, g.WinnerID)
	g.logAction(uuid.Nil, "game_end", payload)
	g.fireEvent(GameEvent{Type: EventGameEnded, Payload: payload})
	g.persistFinalGameState()
}

// failGame aborts the game on an internal invariant violation. The error
// is surfaced distinctly so the adapter logs and alerts instead of
// treating it as a player mistake.
func (g *Game) failGame(err error) error {
	log.Printf("Error: Game %s: invariant violation: %v", g.Code, err)
	g.logAction(uuid.Nil, "game_invariant_failure", map[string]interface{}{"error": err.Error()})
	g.Phase = PhaseEnded
	g.stopAllTimers()
	g.clearResolution()
	g.fireEvent(GameEvent{
		Type:    EventGameEnded,
		Payload: map[string]interface{}{"aborted": true},
	})
	return err
}

func (g *Game) clearResolution() {
	g.Pending = nil
	g.stage = stageNone
	g.lossQueue = make(map[uuid.UUID]int)
	g.lossOrder = nil
	if g.exchange != nil {
		// Drawn exchange cards are out of the actor's hand but not yet
		// kept or returned; they must go back or the 15-card total breaks.
		if g.exchange.timer != nil {
			g.exchange.timer.Stop()
		}
		g.Deck.ReturnAndReshuffle(g.exchange.Drawn...)
		g.exchange = nil
	}
}

func (g *Game) stopAllTimers() {
	if g.Pending != nil {
		g.Pending.stopTimer()
	}
	if g.lossTimer != nil {
		g.lossTimer.Stop()
		g.lossTimer = nil
	}
	if g.exchange != nil && g.exchange.timer != nil {
		g.exchange.timer.Stop()
		g.exchange.timer = nil
	}
	if g.graceTimer != nil {
		g.graceTimer.Stop()
		g.graceTimer = nil
	}
}

// fireEvent broadcasts an event to all players via the BroadcastFn callback.
func (g *Game) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends an event to a single player.
func (g *Game) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// sendSyncState sends the redacted state to one player.
func (g *Game) sendSyncState(playerID uuid.UUID) {
	state := g.snapshotLocked(playerID)
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: &state})
}

// broadcastSyncStateToAll sends each connected player their own redacted
// view.
func (g *Game) broadcastSyncStateToAll() {
	for _, p := range g.Players {
		if p.Connected {
			g.sendSyncState(p.ID)
		}
	}
}

// logAction publishes an action record to the transcript stream.
func (g *Game) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameCode:      g.Code,
		ActionIndex:   g.actionIndex,
		ActorPlayerID: actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if cache.Rdb == nil {
			return
		}
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			log.Printf("Error: Game %s: failed publishing action %d (%s): %v", g.Code, rec.ActionIndex, rec.ActionType, err)
		}
	}(record)
}

// persistFinalGameState stores a terminal snapshot for the results table.
func (g *Game) persistFinalGameState() {
	type finalPlayer struct {
		Name  string `json:"name"`
		Coins int    `json:"coins"`
		Alive bool   `json:"alive"`
		Cards int    `json:"cards"`
	}
	snapshot := map[string]interface{}{
		"winnerId": g.WinnerID.String(),
		"players":  map[string]finalPlayer{},
	}
	players := snapshot["players"].(map[string]finalPlayer)
	for _, p := range g.Players {
		players[p.ID.String()] = finalPlayer{
			Name:  p.Name,
			Coins: p.Coins,
			Alive: p.Alive,
			Cards: len(p.Hand),
		}
	}
	if database.DB != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := database.StoreFinalGameState(ctx, g.Code, snapshot); err != nil {
				log.Printf("Error: Game %s: failed persisting final state: %v", g.Code, err)
			}
		}()
	}
}
