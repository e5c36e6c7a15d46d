package game

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/b14tz/bluph/internal/models"
)

// DeclareAction opens the current player's action. Income resolves
// immediately; Coup skips straight to card loss; everything else opens a
// response window for the other alive players.
func (g *Game) DeclareAction(playerID uuid.UUID, kind models.ActionKind, targetID uuid.UUID, claimed models.Role) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Phase == PhaseEnded {
		return newStaleError("game %s has ended", g.Code)
	}
	if g.Phase != PhaseInTurn {
		return newRuleError("game is not accepting actions (phase %s)", g.Phase)
	}
	if !kind.Valid() {
		return newValidationError("unknown action kind %q", kind)
	}
	actor := g.currentPlayer()
	if actor == nil || actor.ID != playerID {
		return newRuleError("it is not your turn")
	}
	if actor.MustCoup() && kind != models.ActionCoup {
		return newRuleError("with %d coins you must coup", actor.Coins)
	}
	cost := actionCost(kind)
	if !actor.CanAfford(cost) {
		return newRuleError("%s costs %d coins, you have %d", kind, cost, actor.Coins)
	}

	var target *Player
	if isTargeted(kind) {
		if targetID == uuid.Nil {
			return newValidationError("%s requires a target", kind)
		}
		target = g.playerByID(targetID)
		if target == nil {
			return newValidationError("target %s is not in the game", targetID)
		}
		if target.ID == actor.ID {
			return newRuleError("you cannot target yourself")
		}
		if !target.Alive {
			return newRuleError("target is already eliminated")
		}
	} else {
		targetID = uuid.Nil
	}

	required, _ := requiredRole(kind)
	if claimed != "" && claimed != required {
		return newValidationError("%s claims %s, not %s", kind, required, claimed)
	}

	// Costs are committed at declaration and not refunded on block or
	// lost challenge.
	actor.AdjustCoins(-cost)

	entry := models.GameAction{
		ID:        uuid.New(),
		Kind:      kind,
		PlayerID:  actor.ID,
		TargetID:  targetID,
		Claimed:   required,
		Timestamp: time.Now(),
	}
	g.appendHistory(entry)
	g.logAction(actor.ID, "action_declare", map[string]interface{}{
		"kind":   string(kind),
		"target": targetID.String(),
	})

	switch kind {
	case models.ActionIncome:
		actor.AdjustCoins(1)
		g.fireActionDeclared(entry, false, false, time.Time{})
		g.fireActionResolved(entry, true, nil)
		g.advanceTurn()
		return nil

	case models.ActionCoup:
		g.fireActionDeclared(entry, false, false, time.Time{})
		g.fireActionResolved(entry, true, nil)
		g.queueCardLoss(targetID)
		g.stage = stageEffectDone
		g.enterCardLossPhase()
		return nil

	default:
		pa := newPendingAction(kind, actor.ID, targetID, required, g.eligibleResponders(actor.ID), g.ResponseTimeout)
		pa.ID = entry.ID
		g.Pending = pa
		g.Phase = PhaseAwaitingResponse
		g.fireActionDeclared(entry, isChallengeable(kind), isBlockable(kind), pa.Deadline)
		g.scheduleResponseTimer(pa)
		return nil
	}
}

// Respond records one eligible player's answer to the open window. The
// first challenge or block short-circuits the window; late arrivals after
// resolution get a stale-reference rejection.
func (g *Game) Respond(playerID, actionID uuid.UUID, kind models.ResponseKind, claimed models.Role) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Phase != PhaseAwaitingResponse && g.Phase != PhaseAwaitingBlockResponse {
		return newStaleError("no action is awaiting responses")
	}
	pa := g.Pending
	if pa == nil {
		return newStaleError("no action is awaiting responses")
	}
	if actionID != uuid.Nil && actionID != pa.ID {
		return newStaleError("action %s already resolved", actionID)
	}
	responder := g.playerByID(playerID)
	if responder == nil || !responder.Alive {
		return newRuleError("player %s cannot respond", playerID)
	}

	switch kind {
	case models.ResponseAllow:
		if err := pa.recordResponse(playerID, kind); err != nil {
			return err
		}
		g.logAction(playerID, "response_allow", nil)
		if pa.allResponded() {
			g.resolveAllAllowed()
		}
		return nil

	case models.ResponseChallenge:
		if !pa.IsBlock && !isChallengeable(pa.Kind) {
			return newRuleError("%s cannot be challenged", pa.Kind)
		}
		if err := pa.recordResponse(playerID, kind); err != nil {
			return err
		}
		g.logAction(playerID, "response_challenge", nil)
		return g.resolveChallenge(responder, pa)

	case models.ResponseBlock:
		if pa.IsBlock {
			return newRuleError("a block cannot be blocked")
		}
		if !isBlockable(pa.Kind) {
			return newRuleError("%s cannot be blocked", pa.Kind)
		}
		if pa.TargetID != uuid.Nil && playerID != pa.TargetID {
			return newRuleError("only the targeted player may block %s", pa.Kind)
		}
		if claimed == "" {
			return newValidationError("a block must name the claimed role")
		}
		if !claimed.Valid() {
			return newValidationError("unknown role %q", claimed)
		}
		if !roleCanBlock(claimed, pa.Kind) {
			return newRuleError("%s does not block %s", claimed, pa.Kind)
		}
		if err := pa.recordResponse(playerID, kind); err != nil {
			return err
		}
		g.declareBlock(responder, pa, claimed)
		return nil

	default:
		return newValidationError("unknown response kind %q", kind)
	}
}

// declareBlock short-circuits the action window and opens the block's own
// response window, where everyone but the blocker may allow or challenge.
func (g *Game) declareBlock(blocker *Player, pa *PendingAction, claimed models.Role) {
	pa.stopTimer()

	block := newBlockPending(pa, blocker.ID, claimed, g.eligibleResponders(blocker.ID), g.ResponseTimeout)
	g.Pending = block
	g.Phase = PhaseAwaitingBlockResponse

	g.appendHistory(models.GameAction{
		ID:        block.ID,
		Kind:      models.ActionBlock,
		PlayerID:  blocker.ID,
		TargetID:  pa.ActorID,
		Claimed:   claimed,
		Timestamp: time.Now(),
	})
	g.logAction(blocker.ID, "block_declare", map[string]interface{}{
		"claimed": string(claimed),
		"blocks":  string(pa.Kind),
	})
	g.fireEvent(GameEvent{
		Type:   EventBlockDeclared,
		Player: &EventPlayer{ID: blocker.ID, Name: blocker.Name},
		Action: &EventAction{
			ID:           block.ID,
			Kind:         pa.Kind,
			TargetID:     pa.ActorID,
			Claimed:      claimed,
			CanChallenge: true,
			DeadlineMS:   block.Deadline.UnixMilli(),
		},
	})
	g.scheduleResponseTimer(block)
}

// resolveChallenge adjudicates a challenge by hand inspection. A true
// claim costs the challenger a card and replaces the claimant's revealed
// card via a reshuffled draw; a false claim costs the claimant a card and
// kills the claimed action (or block).
func (g *Game) resolveChallenge(challenger *Player, pa *PendingAction) error {
	pa.stopTimer()

	claimant := g.playerByID(pa.ActorID)
	if claimant == nil {
		return g.failGame(newInvariantError("claimant %s missing during challenge", pa.ActorID))
	}
	role := pa.Claimed

	if claimant.HasRole(role) {
		// Challenge fails. The revealed card goes back into the deck and
		// the claimant draws a replacement so the reveal leaks nothing
		// about their remaining hand.
		revealed, _ := claimant.CardOfRole(role)
		if _, err := claimant.RemoveCard(revealed.ID); err != nil {
			return g.failGame(err)
		}
		g.Deck.ReturnAndReshuffle(revealed)
		replacement, err := g.Deck.Draw()
		if err != nil {
			return g.failGame(err)
		}
		if err := claimant.AddCard(replacement); err != nil {
			return g.failGame(err)
		}

		g.logAction(challenger.ID, "challenge_failed", map[string]interface{}{"claimed": string(role)})
		g.fireEvent(GameEvent{
			Type:   EventChallengeResolved,
			Player: &EventPlayer{ID: challenger.ID, Name: challenger.Name},
			Target: &EventPlayer{ID: claimant.ID, Name: claimant.Name},
			Card:   &EventCard{ID: revealed.ID, Role: role},
			Payload: map[string]interface{}{
				"successful": false,
			},
		})

		g.queueCardLoss(challenger.ID)
		if pa.IsBlock {
			// The block was truthfully claimed; it stands, the original
			// action is nullified.
			g.stage = stageActionAborted
			g.fireActionResolvedFromPending(pa.Parent, false, map[string]interface{}{"blocked": true})
		} else {
			g.stage = stageActionProceeds
		}
	} else {
		// Challenge wins; the false claim is aborted with no effect.
		g.logAction(challenger.ID, "challenge_succeeded", map[string]interface{}{"claimed": string(role)})
		g.fireEvent(GameEvent{
			Type:   EventChallengeResolved,
			Player: &EventPlayer{ID: challenger.ID, Name: challenger.Name},
			Target: &EventPlayer{ID: claimant.ID, Name: claimant.Name},
			Payload: map[string]interface{}{
				"successful": true,
			},
		})

		g.queueCardLoss(claimant.ID)
		if pa.IsBlock {
			// The block was a bluff; the original action proceeds once
			// the blocker surrenders their card.
			g.stage = stageActionProceeds
		} else {
			g.stage = stageActionAborted
			g.fireActionResolvedFromPending(pa, false, map[string]interface{}{"challenged": true})
		}
	}

	g.enterCardLossPhase()
	return nil
}

// resolveAllAllowed closes the open window as if every remaining
// responder allowed: timeout and unanimous-allow share this path.
func (g *Game) resolveAllAllowed() {
	pa := g.Pending
	if pa == nil {
		return
	}
	pa.stopTimer()

	if pa.IsBlock {
		// Unchallenged block stands; the original action has no effect.
		g.stage = stageActionAborted
		g.fireActionResolvedFromPending(pa.Parent, false, map[string]interface{}{"blocked": true})
		g.completeTurn()
		return
	}
	g.stage = stageActionProceeds
	g.applyActionEffect(pa)
}

// scheduleResponseTimer arms the response-window deadline. On expiry,
// non-responders are treated as implicit allows.
func (g *Game) scheduleResponseTimer(pa *PendingAction) {
	if g.closed {
		return
	}
	id := pa.ID
	pa.timer = time.AfterFunc(time.Until(pa.Deadline), func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.closed || g.Pending == nil || g.Pending.ID != id {
			return
		}
		if g.Phase != PhaseAwaitingResponse && g.Phase != PhaseAwaitingBlockResponse {
			return
		}
		log.Printf("Game %s: response window for action %s timed out.", g.Code, id)
		g.logAction(uuid.Nil, "response_timeout", nil)
		g.resolveAllAllowed()
	})
}

// applyActionEffect applies the action's effect once resolution settled in
// its favor. May queue further card losses or open the exchange phase.
func (g *Game) applyActionEffect(pa *PendingAction) {
	actor := g.playerByID(pa.ActorID)
	if actor == nil || !actor.Alive {
		// Actor died losing the challenge exchange elsewhere; the action
		// fizzles.
		g.fireActionResolvedFromPending(pa, false, map[string]interface{}{"fizzled": true})
		g.completeTurn()
		return
	}

	switch pa.Kind {
	case models.ActionForeignAid:
		actor.AdjustCoins(2)
		g.fireActionResolvedFromPending(pa, true, nil)
		g.completeTurn()

	case models.ActionTax:
		actor.AdjustCoins(3)
		g.fireActionResolvedFromPending(pa, true, nil)
		g.completeTurn()

	case models.ActionSteal:
		target := g.playerByID(pa.TargetID)
		if target == nil || !target.Alive {
			g.fireActionResolvedFromPending(pa, false, map[string]interface{}{"fizzled": true})
			g.completeTurn()
			return
		}
		amount := 2
		if target.Coins < amount {
			amount = target.Coins
		}
		target.AdjustCoins(-amount)
		actor.AdjustCoins(amount)
		g.fireActionResolvedFromPending(pa, true, map[string]interface{}{"amount": amount})
		g.completeTurn()

	case models.ActionAssassinate:
		target := g.playerByID(pa.TargetID)
		if target == nil || !target.Alive {
			g.fireActionResolvedFromPending(pa, false, map[string]interface{}{"fizzled": true})
			g.completeTurn()
			return
		}
		g.fireActionResolvedFromPending(pa, true, nil)
		g.queueCardLoss(target.ID)
		g.stage = stageEffectDone
		g.enterCardLossPhase()

	case models.ActionExchange:
		g.beginExchange(actor, pa)

	default:
		// Income and Coup resolve at declaration and never reach here.
		g.completeTurn()
	}
}

// ---------------------------------------------------------------------------
// Card loss
// ---------------------------------------------------------------------------

// queueCardLoss records that a player owes one card.
func (g *Game) queueCardLoss(playerID uuid.UUID) {
	p := g.playerByID(playerID)
	if p == nil || !p.Alive {
		return
	}
	if g.lossQueue[playerID] == 0 {
		g.lossOrder = append(g.lossOrder, playerID)
	}
	g.lossQueue[playerID]++
}

// enterCardLossPhase resolves forced losses (no real choice) immediately,
// then either finishes the resolution or blocks on player input with a
// bounded deadline.
func (g *Game) enterCardLossPhase() {
	g.processForcedLosses()
	if len(g.lossQueue) == 0 {
		g.onLossesResolved()
		return
	}
	g.Phase = PhaseAwaitingCardLoss

	owing := make([]string, 0, len(g.lossQueue))
	for _, id := range g.lossOrder {
		if g.lossQueue[id] > 0 {
			owing = append(owing, id.String())
		}
	}
	g.fireEvent(GameEvent{
		Type:    EventAwaitingCardLoss,
		Payload: map[string]interface{}{"players": owing},
	})
	g.scheduleCardLossTimer()
}

// processForcedLosses auto-surrenders cards where the player has no
// choice: owing at least as many cards as they hold.
func (g *Game) processForcedLosses() {
	for _, id := range g.lossOrder {
		owed := g.lossQueue[id]
		p := g.playerByID(id)
		if owed == 0 || p == nil || !p.Alive {
			delete(g.lossQueue, id)
			continue
		}
		if len(p.Hand) > owed {
			continue
		}
		for owed > 0 && len(p.Hand) > 0 {
			g.surrenderCard(p, p.Hand[0].ID)
			owed--
		}
		delete(g.lossQueue, id)
		if len(p.Hand) == 0 {
			g.eliminatePlayer(p)
		}
	}
}

// surrenderCard moves one identified card from the hand to the face-up
// discard pile and announces it.
func (g *Game) surrenderCard(p *Player, cardID uuid.UUID) {
	card, err := p.RemoveCard(cardID)
	if err != nil {
		_ = g.failGame(err)
		return
	}
	g.Discard = append(g.Discard, card)
	g.logAction(p.ID, "card_lost", map[string]interface{}{"role": string(card.Role)})
	g.fireEvent(GameEvent{
		Type:   EventCardLost,
		Player: &EventPlayer{ID: p.ID, Name: p.Name},
		Card:   &EventCard{ID: card.ID, Role: card.Role},
	})
}

// ChooseCardToLose resolves one owed card loss with the owner's choice.
func (g *Game) ChooseCardToLose(playerID, cardID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Phase != PhaseAwaitingCardLoss {
		return newStaleError("no card loss is pending")
	}
	p := g.playerByID(playerID)
	if p == nil || !p.Alive {
		return newStaleError("player %s has no card to lose", playerID)
	}
	if g.lossQueue[playerID] == 0 {
		return newStaleError("player %s owes no card", playerID)
	}
	held := false
	for _, c := range p.Hand {
		if c.ID == cardID {
			held = true
			break
		}
	}
	if !held {
		return newStaleError("card %s is not held", cardID)
	}

	g.surrenderCard(p, cardID)
	g.lossQueue[playerID]--
	if g.lossQueue[playerID] == 0 {
		delete(g.lossQueue, playerID)
	}
	if len(p.Hand) == 0 {
		g.eliminatePlayer(p)
	}
	if len(g.lossQueue) == 0 {
		g.onLossesResolved()
	}
	return nil
}

// scheduleCardLossTimer bounds the card-loss wait: after the deadline the
// engine auto-selects the lowest-index card for every player still owing.
func (g *Game) scheduleCardLossTimer() {
	if g.closed || g.CardLossTimeout <= 0 {
		return
	}
	if g.lossTimer != nil {
		g.lossTimer.Stop()
	}
	g.lossEpoch++
	epoch := g.lossEpoch
	g.lossTimer = time.AfterFunc(g.CardLossTimeout, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.closed || g.Phase != PhaseAwaitingCardLoss || g.lossEpoch != epoch {
			return
		}
		log.Printf("Game %s: card-loss deadline elapsed, auto-selecting.", g.Code)
		g.logAction(uuid.Nil, "card_loss_timeout", nil)
		for _, id := range g.lossOrder {
			owed := g.lossQueue[id]
			p := g.playerByID(id)
			if owed == 0 || p == nil || !p.Alive {
				delete(g.lossQueue, id)
				continue
			}
			for owed > 0 && len(p.Hand) > 0 {
				g.surrenderCard(p, p.Hand[0].ID)
				owed--
			}
			delete(g.lossQueue, id)
			if len(p.Hand) == 0 {
				g.eliminatePlayer(p)
			}
		}
		g.onLossesResolved()
	})
}

// onLossesResolved continues the interrupted resolution once every owed
// card has been surrendered.
func (g *Game) onLossesResolved() {
	if g.lossTimer != nil {
		g.lossTimer.Stop()
		g.lossTimer = nil
	}
	if g.Phase == PhaseEnded {
		return
	}
	if g.aliveCount() <= 1 {
		g.endGame()
		return
	}
	if g.stage == stageActionProceeds && g.Pending != nil {
		act := g.Pending.action()
		// The effect itself may queue more losses or open the exchange;
		// mark the window consumed first.
		g.stage = stageEffectDone
		g.applyActionEffect(act)
		return
	}
	g.completeTurn()
}

// completeTurn closes out the resolution and hands the turn to the next
// alive player.
func (g *Game) completeTurn() {
	if g.Pending != nil {
		g.Pending.stopTimer()
		g.Pending = nil
	}
	g.stage = stageNone
	g.lossOrder = nil
	if g.exchange != nil {
		if g.exchange.timer != nil {
			g.exchange.timer.Stop()
		}
		g.exchange = nil
	}
	if g.Phase == PhaseEnded {
		return
	}
	if g.aliveCount() <= 1 {
		g.endGame()
		return
	}
	g.advanceTurn()
}

// ---------------------------------------------------------------------------
// Exchange
// ---------------------------------------------------------------------------

// beginExchange draws two cards for the Ambassador exchange and waits for
// the actor to choose which to keep.
func (g *Game) beginExchange(actor *Player, pa *PendingAction) {
	drawn := make([]models.Card, 0, 2)
	for i := 0; i < 2; i++ {
		c, err := g.Deck.Draw()
		if err != nil {
			_ = g.failGame(err)
			return
		}
		drawn = append(drawn, c)
	}
	g.exchange = &exchangeState{
		PlayerID: actor.ID,
		Drawn:    drawn,
		Keep:     len(actor.Hand),
		Deadline: time.Now().Add(g.CardLossTimeout),
	}
	g.Phase = PhaseAwaitingExchange

	pool := make([]EventCard, 0, len(actor.Hand)+2)
	for _, c := range actor.Hand {
		pool = append(pool, EventCard{ID: c.ID, Role: c.Role})
	}
	for _, c := range drawn {
		pool = append(pool, EventCard{ID: c.ID, Role: c.Role})
	}
	g.fireEventToPlayer(actor.ID, GameEvent{
		Type: EventPrivateExchange,
		Payload: map[string]interface{}{
			"cards":      pool,
			"keep":       g.exchange.Keep,
			"deadlineMs": g.exchange.Deadline.UnixMilli(),
		},
	})
	g.scheduleExchangeTimer(pa, actor.ID)
}

// ChooseExchangeCards finishes the exchange: the actor keeps exactly their
// pre-exchange hand size from hand+drawn; the rest return to the deck with
// a reshuffle.
func (g *Game) ChooseExchangeCards(playerID uuid.UUID, keepIDs []uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Phase != PhaseAwaitingExchange || g.exchange == nil {
		return newStaleError("no exchange is pending")
	}
	if g.exchange.PlayerID != playerID {
		return newRuleError("the exchange is not yours to resolve")
	}
	actor := g.playerByID(playerID)
	if actor == nil {
		return g.failGame(newInvariantError("exchange actor %s missing", playerID))
	}
	if len(keepIDs) != g.exchange.Keep {
		return newValidationError("must keep exactly %d cards", g.exchange.Keep)
	}

	pool := make(map[uuid.UUID]models.Card, len(actor.Hand)+len(g.exchange.Drawn))
	for _, c := range actor.Hand {
		pool[c.ID] = c
	}
	for _, c := range g.exchange.Drawn {
		pool[c.ID] = c
	}

	keep := make([]models.Card, 0, len(keepIDs))
	for _, id := range keepIDs {
		c, ok := pool[id]
		if !ok {
			return newValidationError("card %s is not part of the exchange", id)
		}
		keep = append(keep, c)
		delete(pool, id)
	}
	returned := make([]models.Card, 0, len(pool))
	for _, c := range pool {
		returned = append(returned, c)
	}

	actor.Hand = keep
	g.Deck.ReturnAndReshuffle(returned...)
	g.logAction(playerID, "exchange_complete", nil)
	g.fireEvent(GameEvent{
		Type:    EventActionResolved,
		Player:  &EventPlayer{ID: actor.ID, Name: actor.Name},
		Action:  &EventAction{Kind: models.ActionExchange},
		Payload: map[string]interface{}{"applied": true},
	})
	g.completeTurn()
	return nil
}

// scheduleExchangeTimer bounds the exchange wait: on expiry the actor
// keeps their original hand and the drawn cards are returned.
func (g *Game) scheduleExchangeTimer(pa *PendingAction, actorID uuid.UUID) {
	if g.closed || g.CardLossTimeout <= 0 {
		return
	}
	ex := g.exchange
	ex.timer = time.AfterFunc(time.Until(ex.Deadline), func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.closed || g.Phase != PhaseAwaitingExchange || g.exchange != ex {
			return
		}
		log.Printf("Game %s: exchange deadline elapsed, keeping original hand.", g.Code)
		g.logAction(actorID, "exchange_timeout", nil)
		g.Deck.ReturnAndReshuffle(ex.Drawn...)
		g.fireActionResolvedFromPending(pa, true, map[string]interface{}{"autoResolved": true})
		g.completeTurn()
	})
}

// ---------------------------------------------------------------------------
// Event helpers
// ---------------------------------------------------------------------------

func (g *Game) fireActionDeclared(entry models.GameAction, canChallenge, canBlock bool, deadline time.Time) {
	actor := g.playerByID(entry.PlayerID)
	ev := GameEvent{
		Type:   EventActionDeclared,
		Player: &EventPlayer{ID: entry.PlayerID},
		Action: &EventAction{
			ID:           entry.ID,
			Kind:         entry.Kind,
			TargetID:     entry.TargetID,
			Claimed:      entry.Claimed,
			CanChallenge: canChallenge,
			CanBlock:     canBlock,
		},
	}
	if actor != nil {
		ev.Player.Name = actor.Name
	}
	if !deadline.IsZero() {
		ev.Action.DeadlineMS = deadline.UnixMilli()
	}
	g.fireEvent(ev)
}

func (g *Game) fireActionResolved(entry models.GameAction, applied bool, payload map[string]interface{}) {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["applied"] = applied
	actor := g.playerByID(entry.PlayerID)
	ev := GameEvent{
		Type:   EventActionResolved,
		Player: &EventPlayer{ID: entry.PlayerID},
		Action: &EventAction{
			ID:       entry.ID,
			Kind:     entry.Kind,
			TargetID: entry.TargetID,
			Claimed:  entry.Claimed,
		},
		Payload: payload,
	}
	if actor != nil {
		ev.Player.Name = actor.Name
	}
	g.fireEvent(ev)
}

func (g *Game) fireActionResolvedFromPending(pa *PendingAction, applied bool, payload map[string]interface{}) {
	g.fireActionResolved(models.GameAction{
		ID:       pa.ID,
		Kind:     pa.Kind,
		PlayerID: pa.ActorID,
		TargetID: pa.TargetID,
		Claimed:  pa.Claimed,
	}, applied, payload)
}
