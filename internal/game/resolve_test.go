package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b14tz/bluph/internal/models"
)

// allowAll answers the open window with allow for every remaining
// eligible responder.
func allowAll(t *testing.T, g *Game) {
	t.Helper()
	g.Mu.Lock()
	pa := g.Pending
	require.NotNil(t, pa)
	id := pa.ID
	var remaining []uuid.UUID
	for _, rid := range pa.order {
		if !pa.Eligible[rid] {
			continue
		}
		if _, ok := pa.Responses[rid]; !ok {
			remaining = append(remaining, rid)
		}
	}
	g.Mu.Unlock()
	for _, rid := range remaining {
		require.NoError(t, g.Respond(rid, id, models.ResponseAllow, ""))
	}
}

func pendingID(g *Game) uuid.UUID {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Pending == nil {
		return uuid.Nil
	}
	return g.Pending.ID
}

func phase(g *Game) Phase {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Phase
}

func coins(g *Game, p *Player) int {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return p.Coins
}

func TestIncomeResolvesImmediately(t *testing.T) {
	g, players, mb := setupStartedGame(t, 3)
	actor := players[0]

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionIncome, uuid.Nil, ""))
	assert.Equal(t, 3, coins(g, actor))
	assert.Equal(t, PhaseInTurn, phase(g))

	g.Mu.Lock()
	next := g.currentPlayer().ID
	g.Mu.Unlock()
	assert.Equal(t, players[1].ID, next, "turn advances without a response window")

	// Resolution events precede the next turn event.
	resolvedIdx := mb.eventIndex(EventActionResolved)
	turnIdx := mb.eventIndex(EventPlayerTurn)
	require.GreaterOrEqual(t, resolvedIdx, 0)
	require.GreaterOrEqual(t, turnIdx, 0)
	assert.Less(t, resolvedIdx, turnIdx)
}

func TestNotYourTurn(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	err := g.DeclareAction(players[1].ID, models.ActionIncome, uuid.Nil, "")
	require.Error(t, err)
	assert.Equal(t, KindRuleViolation, KindOf(err))
}

func TestCoupCostAndForcedLoss(t *testing.T) {
	g, players, mb := setupStartedGame(t, 2)
	actor, target := players[0], players[1]
	g.Mu.Lock()
	actor.Coins = 7
	// One remaining card makes the loss forced and the coup lethal.
	g.Mu.Unlock()
	setHand(g, target, models.RoleContessa)

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionCoup, target.ID, ""))
	assert.Equal(t, 0, coins(g, actor), "coup costs 7")

	g.Mu.Lock()
	assert.False(t, target.Alive)
	assert.Equal(t, PhaseEnded, g.Phase)
	assert.Equal(t, actor.ID, g.WinnerID)
	g.Mu.Unlock()

	require.NotNil(t, mb.findEventByType(EventCardLost))
	require.NotNil(t, mb.findEventByType(EventPlayerEliminated))
	end := mb.findEventByType(EventGameEnded)
	require.NotNil(t, end)
	assert.Equal(t, actor.ID.String(), end.Payload["winnerId"])
	assert.Equal(t, models.DeckSize, totalCards(g))
}

func TestCoupRequiresSevenCoins(t *testing.T) {
	g, players, _ := setupStartedGame(t, 2)
	err := g.DeclareAction(players[0].ID, models.ActionCoup, players[1].ID, "")
	require.Error(t, err)
	assert.Equal(t, KindRuleViolation, KindOf(err))
}

func TestMandatoryCoupAtTenCoins(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	actor := players[0]
	g.Mu.Lock()
	actor.Coins = 10
	g.Mu.Unlock()

	for _, kind := range []models.ActionKind{
		models.ActionIncome, models.ActionForeignAid, models.ActionTax,
		models.ActionAssassinate, models.ActionSteal, models.ActionExchange,
	} {
		err := g.DeclareAction(actor.ID, kind, players[1].ID, "")
		require.Error(t, err, "only coup is legal at 10 coins, got %s", kind)
		assert.Equal(t, KindRuleViolation, KindOf(err))
	}
	require.NoError(t, g.DeclareAction(actor.ID, models.ActionCoup, players[1].ID, ""))
}

func TestSelfTargetRejected(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	actor := players[0]
	g.Mu.Lock()
	actor.Coins = 7
	g.Mu.Unlock()
	err := g.DeclareAction(actor.ID, models.ActionCoup, actor.ID, "")
	require.Error(t, err)
	assert.Equal(t, KindRuleViolation, KindOf(err))
}

func TestTaxUnchallenged(t *testing.T) {
	g, players, mb := setupStartedGame(t, 3)
	actor := players[0]

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionTax, uuid.Nil, ""))
	assert.Equal(t, PhaseAwaitingResponse, phase(g))

	declared := mb.findEventByType(EventActionDeclared)
	require.NotNil(t, declared)
	assert.True(t, declared.Action.CanChallenge)
	assert.False(t, declared.Action.CanBlock)

	allowAll(t, g)
	assert.Equal(t, 5, coins(g, actor))
	assert.Equal(t, PhaseInTurn, phase(g))
	resolved := mb.findEventByType(EventActionResolved)
	require.NotNil(t, resolved)
	assert.Equal(t, true, resolved.Payload["applied"])
}

func TestStealClampsToTargetCoins(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	actor, target := players[0], players[1]
	g.Mu.Lock()
	target.Coins = 1
	g.Mu.Unlock()

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionSteal, target.ID, ""))
	allowAll(t, g)
	assert.Equal(t, 3, coins(g, actor), "steal takes min(2, target coins)")
	assert.Equal(t, 0, coins(g, target))
}

func TestChallengeAgainstBluffAbortsAction(t *testing.T) {
	g, players, mb := setupStartedGame(t, 3)
	actor, challenger := players[0], players[1]
	setHand(g, actor, models.RoleContessa, models.RoleContessa) // no Duke

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionTax, uuid.Nil, ""))
	id := pendingID(g)
	require.NoError(t, g.Respond(challenger.ID, id, models.ResponseChallenge, ""))

	ch := mb.findEventByType(EventChallengeResolved)
	require.NotNil(t, ch)
	assert.Equal(t, true, ch.Payload["successful"])

	// Bluffer surrenders a card of their choice; tax never lands.
	assert.Equal(t, PhaseAwaitingCardLoss, phase(g))
	g.Mu.Lock()
	lost := actor.Hand[0].ID
	g.Mu.Unlock()
	require.NoError(t, g.ChooseCardToLose(actor.ID, lost))

	g.Mu.Lock()
	assert.Len(t, actor.Hand, 1)
	g.Mu.Unlock()
	assert.Equal(t, 2, coins(g, actor))
	assert.Equal(t, PhaseInTurn, phase(g))

	resolved := mb.findEventByType(EventActionResolved)
	require.NotNil(t, resolved)
	assert.Equal(t, false, resolved.Payload["applied"])
	assert.Equal(t, models.DeckSize, totalCards(g))
}

func TestChallengeAgainstTruthCostsChallenger(t *testing.T) {
	g, players, mb := setupStartedGame(t, 3)
	actor, challenger := players[0], players[1]
	setHand(g, actor, models.RoleDuke, models.RoleContessa)
	setHand(g, challenger, models.RoleCaptain, models.RoleCaptain)

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionTax, uuid.Nil, ""))
	id := pendingID(g)
	require.NoError(t, g.Respond(challenger.ID, id, models.ResponseChallenge, ""))

	ch := mb.findEventByType(EventChallengeResolved)
	require.NotNil(t, ch)
	assert.Equal(t, false, ch.Payload["successful"])
	require.NotNil(t, ch.Card, "failed challenge reveals the claimed card")
	assert.Equal(t, models.RoleDuke, ch.Card.Role)

	g.Mu.Lock()
	// Claimant keeps two cards; the revealed Duke was replaced by a fresh
	// draw after reshuffle.
	assert.Len(t, actor.Hand, 2)
	// Challenger had no choice with their forced loss handled elsewhere;
	// here they hold two, so the loss is interactive.
	g.Mu.Unlock()

	assert.Equal(t, PhaseAwaitingCardLoss, phase(g))
	g.Mu.Lock()
	lost := challenger.Hand[0].ID
	g.Mu.Unlock()
	require.NoError(t, g.ChooseCardToLose(challenger.ID, lost))

	// Action proceeds after the loss: tax lands, turn passes on.
	assert.Equal(t, 5, coins(g, actor))
	assert.Equal(t, PhaseInTurn, phase(g))
	g.Mu.Lock()
	assert.Len(t, challenger.Hand, 1)
	assert.Equal(t, challenger.ID, g.currentPlayer().ID)
	g.Mu.Unlock()
	assert.Equal(t, models.DeckSize, totalCards(g))
}

func TestForeignAidBlockedUnchallenged(t *testing.T) {
	g, players, mb := setupStartedGame(t, 3)
	actor, blocker := players[0], players[1]

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionForeignAid, uuid.Nil, ""))
	id := pendingID(g)
	require.NoError(t, g.Respond(blocker.ID, id, models.ResponseBlock, models.RoleDuke))
	assert.Equal(t, PhaseAwaitingBlockResponse, phase(g))
	require.NotNil(t, mb.findEventByType(EventBlockDeclared))

	allowAll(t, g)
	assert.Equal(t, 2, coins(g, actor), "blocked foreign aid pays nothing")
	assert.Equal(t, PhaseInTurn, phase(g))
	resolved := mb.findEventByType(EventActionResolved)
	require.NotNil(t, resolved)
	assert.Equal(t, false, resolved.Payload["applied"])
	assert.Equal(t, true, resolved.Payload["blocked"])
}

func TestOnlyTargetMayBlockSteal(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	actor, target, bystander := players[0], players[1], players[2]

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionSteal, target.ID, ""))
	id := pendingID(g)
	err := g.Respond(bystander.ID, id, models.ResponseBlock, models.RoleCaptain)
	require.Error(t, err)
	assert.Equal(t, KindRuleViolation, KindOf(err))

	require.NoError(t, g.Respond(target.ID, id, models.ResponseBlock, models.RoleCaptain))
	assert.Equal(t, PhaseAwaitingBlockResponse, phase(g))
}

func TestBlockCannotBeBlocked(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	actor, blocker, other := players[0], players[1], players[2]

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionForeignAid, uuid.Nil, ""))
	require.NoError(t, g.Respond(blocker.ID, pendingID(g), models.ResponseBlock, models.RoleDuke))

	err := g.Respond(other.ID, pendingID(g), models.ResponseBlock, models.RoleDuke)
	require.Error(t, err)
	assert.Equal(t, KindRuleViolation, KindOf(err))
}

func TestWrongRoleCannotBlock(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	actor, target := players[0], players[1]
	g.Mu.Lock()
	actor.Coins = 3
	g.Mu.Unlock()

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionAssassinate, target.ID, ""))
	err := g.Respond(target.ID, pendingID(g), models.ResponseBlock, models.RoleDuke)
	require.Error(t, err)
	assert.Equal(t, KindRuleViolation, KindOf(err))
}

// A truthful block that survives its challenge nullifies the action and
// costs the challenger a card.
func TestBlockChallengedTruthful(t *testing.T) {
	g, players, mb := setupStartedGame(t, 3)
	actor, target := players[0], players[1]
	g.Mu.Lock()
	actor.Coins = 3
	g.Mu.Unlock()
	setHand(g, target, models.RoleContessa, models.RoleDuke)
	setHand(g, actor, models.RoleAssassin, models.RoleAssassin)

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionAssassinate, target.ID, ""))
	require.NoError(t, g.Respond(target.ID, pendingID(g), models.ResponseBlock, models.RoleContessa))
	require.NoError(t, g.Respond(actor.ID, pendingID(g), models.ResponseChallenge, ""))

	ch := mb.findEventByType(EventChallengeResolved)
	require.NotNil(t, ch)
	assert.Equal(t, false, ch.Payload["successful"])

	// Challenger (the assassin) owes a card; the assassination is dead.
	assert.Equal(t, PhaseAwaitingCardLoss, phase(g))
	g.Mu.Lock()
	lost := actor.Hand[0].ID
	g.Mu.Unlock()
	require.NoError(t, g.ChooseCardToLose(actor.ID, lost))

	g.Mu.Lock()
	assert.Len(t, target.Hand, 2, "blocked target loses nothing")
	assert.Equal(t, 0, actor.Coins, "assassination cost is not refunded")
	g.Mu.Unlock()
	assert.Equal(t, PhaseInTurn, phase(g))
	assert.Equal(t, models.DeckSize, totalCards(g))
}

// A bluffed Contessa block that loses its challenge costs the blocker the
// challenge card AND the assassination card: both influence in one turn.
func TestBluffedBlockDoubleLoss(t *testing.T) {
	g, players, mb := setupStartedGame(t, 3)
	actor, target, witness := players[0], players[1], players[2]
	g.Mu.Lock()
	actor.Coins = 3
	g.Mu.Unlock()
	setHand(g, target, models.RoleDuke, models.RoleCaptain) // no Contessa
	setHand(g, actor, models.RoleAssassin, models.RoleDuke)

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionAssassinate, target.ID, ""))
	require.NoError(t, g.Respond(target.ID, pendingID(g), models.ResponseBlock, models.RoleContessa))
	require.NoError(t, g.Respond(actor.ID, pendingID(g), models.ResponseChallenge, ""))

	ch := mb.findEventByType(EventChallengeResolved)
	require.NotNil(t, ch)
	assert.Equal(t, true, ch.Payload["successful"])

	// First loss: the failed block.
	assert.Equal(t, PhaseAwaitingCardLoss, phase(g))
	g.Mu.Lock()
	first := target.Hand[0].ID
	g.Mu.Unlock()
	require.NoError(t, g.ChooseCardToLose(target.ID, first))

	// The assassination then proceeds; the second loss is forced on the
	// last card, eliminating the blocker.
	g.Mu.Lock()
	eliminated := !target.Alive
	g.Mu.Unlock()
	assert.True(t, eliminated, "blocker loses both cards in one turn")
	require.NotNil(t, mb.findEventByType(EventPlayerEliminated))
	assert.Equal(t, 2, mb.countEventsByType(EventCardLost))
	assert.Equal(t, models.DeckSize, totalCards(g))
	assert.Equal(t, PhaseInTurn, phase(g))

	g.Mu.Lock()
	next := g.currentPlayer().ID
	g.Mu.Unlock()
	assert.Equal(t, witness.ID, next, "turn passes over the eliminated seat")
}

func TestAssassinateContestedBluffRefundsNothing(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	actor, target := players[0], players[1]
	g.Mu.Lock()
	actor.Coins = 3
	g.Mu.Unlock()
	setHand(g, actor, models.RoleDuke, models.RoleDuke) // no Assassin

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionAssassinate, target.ID, ""))
	require.NoError(t, g.Respond(target.ID, pendingID(g), models.ResponseChallenge, ""))

	// Forced loss on the bluffer is automatic only when their hand is
	// down to the owed count; two cards means interactive.
	assert.Equal(t, PhaseAwaitingCardLoss, phase(g))
	g.Mu.Lock()
	lost := actor.Hand[0].ID
	g.Mu.Unlock()
	require.NoError(t, g.ChooseCardToLose(actor.ID, lost))

	assert.Equal(t, 0, coins(g, actor), "cost paid at declaration stays paid")
	g.Mu.Lock()
	assert.Len(t, target.Hand, 2)
	g.Mu.Unlock()
}

func TestExchangeKeepsHandSize(t *testing.T) {
	g, players, mb := setupStartedGame(t, 3)
	actor := players[0]

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionExchange, uuid.Nil, ""))
	allowAll(t, g)
	assert.Equal(t, PhaseAwaitingExchange, phase(g))

	priv := mb.getLastPlayerEvent(actor.ID)
	require.NotNil(t, priv)
	require.Equal(t, EventPrivateExchange, priv.Type)
	pool := priv.Payload["cards"].([]EventCard)
	require.Len(t, pool, 4, "two held plus two drawn")

	keep := []uuid.UUID{pool[2].ID, pool[3].ID}
	require.NoError(t, g.ChooseExchangeCards(actor.ID, keep))

	g.Mu.Lock()
	assert.Len(t, actor.Hand, 2)
	handIDs := map[uuid.UUID]bool{actor.Hand[0].ID: true, actor.Hand[1].ID: true}
	g.Mu.Unlock()
	assert.True(t, handIDs[keep[0]] && handIDs[keep[1]])
	assert.Equal(t, models.DeckSize, totalCards(g))
	assert.Equal(t, PhaseInTurn, phase(g))
}

func TestExchangeRejectsWrongKeepCount(t *testing.T) {
	g, players, mb := setupStartedGame(t, 3)
	actor := players[0]

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionExchange, uuid.Nil, ""))
	allowAll(t, g)

	priv := mb.getLastPlayerEvent(actor.ID)
	require.NotNil(t, priv)
	pool := priv.Payload["cards"].([]EventCard)

	err := g.ChooseExchangeCards(actor.ID, []uuid.UUID{pool[0].ID})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	err = g.ChooseExchangeCards(players[1].ID, []uuid.UUID{pool[0].ID, pool[1].ID})
	require.Error(t, err)
	assert.Equal(t, KindRuleViolation, KindOf(err))
}

func TestResponseTimeoutResolvesAsAllow(t *testing.T) {
	g, players, mb := setupStartedGame(t, 3)
	actor := players[0]
	g.Mu.Lock()
	g.ResponseTimeout = 40 * time.Millisecond
	g.Mu.Unlock()

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionForeignAid, uuid.Nil, ""))
	require.Eventually(t, func() bool {
		return coins(g, actor) == 4
	}, time.Second, 10*time.Millisecond, "timeout should resolve as unanimous allow")
	assert.Equal(t, PhaseInTurn, phase(g))
	require.NotNil(t, mb.findEventByType(EventActionResolved))
}

func TestLateResponseIsStale(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	actor := players[0]

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionTax, uuid.Nil, ""))
	id := pendingID(g)
	allowAll(t, g)

	err := g.Respond(players[1].ID, id, models.ResponseChallenge, "")
	require.Error(t, err)
	assert.Equal(t, KindStaleReference, KindOf(err))
}

func TestDuplicateResponseRejected(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	actor, responder := players[0], players[1]

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionTax, uuid.Nil, ""))
	id := pendingID(g)
	require.NoError(t, g.Respond(responder.ID, id, models.ResponseAllow, ""))
	err := g.Respond(responder.ID, id, models.ResponseAllow, "")
	require.Error(t, err)
	assert.Equal(t, KindRuleViolation, KindOf(err))
}

func TestIncomeCannotBeChallenged(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	// Income never opens a window, so any response is stale.
	require.NoError(t, g.DeclareAction(players[0].ID, models.ActionIncome, uuid.Nil, ""))
	err := g.Respond(players[1].ID, uuid.Nil, models.ResponseChallenge, "")
	require.Error(t, err)
	assert.Equal(t, KindStaleReference, KindOf(err))
}

func TestCardLossTimeoutAutoSelects(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	actor, challenger := players[0], players[1]
	g.Mu.Lock()
	g.CardLossTimeout = 40 * time.Millisecond
	g.Mu.Unlock()
	setHand(g, actor, models.RoleContessa, models.RoleContessa) // bluffing Duke

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionTax, uuid.Nil, ""))
	require.NoError(t, g.Respond(challenger.ID, pendingID(g), models.ResponseChallenge, ""))
	assert.Equal(t, PhaseAwaitingCardLoss, phase(g))

	require.Eventually(t, func() bool {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		return len(actor.Hand) == 1 && g.Phase == PhaseInTurn
	}, time.Second, 10*time.Millisecond, "deadline should auto-select a card")
	assert.Equal(t, models.DeckSize, totalCards(g))
}

func TestChooseCardToLoseStaleCases(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	actor, challenger := players[0], players[1]
	setHand(g, actor, models.RoleContessa, models.RoleContessa)

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionTax, uuid.Nil, ""))
	require.NoError(t, g.Respond(challenger.ID, pendingID(g), models.ResponseChallenge, ""))
	require.Equal(t, PhaseAwaitingCardLoss, phase(g))

	// Wrong player owes nothing.
	g.Mu.Lock()
	someCard := challenger.Hand[0].ID
	g.Mu.Unlock()
	err := g.ChooseCardToLose(challenger.ID, someCard)
	require.Error(t, err)
	assert.Equal(t, KindStaleReference, KindOf(err))

	// Card not held.
	err = g.ChooseCardToLose(actor.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, KindStaleReference, KindOf(err))

	// Proper loss, then a second attempt is stale.
	g.Mu.Lock()
	held := actor.Hand[0].ID
	g.Mu.Unlock()
	require.NoError(t, g.ChooseCardToLose(actor.ID, held))
	err = g.ChooseCardToLose(actor.ID, held)
	require.Error(t, err)
	assert.Equal(t, KindStaleReference, KindOf(err))
}

func TestEliminatedPlayerSkippedInTurnOrder(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	actor, victim := players[0], players[1]
	g.Mu.Lock()
	actor.Coins = 7
	g.Mu.Unlock()
	setHand(g, victim, models.RoleDuke)

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionCoup, victim.ID, ""))

	g.Mu.Lock()
	assert.False(t, victim.Alive)
	next := g.currentPlayer().ID
	g.Mu.Unlock()
	assert.Equal(t, players[2].ID, next, "turn skips the eliminated seat")
	assert.Equal(t, PhaseInTurn, phase(g))
}

func TestEliminatedPlayerCannotRespond(t *testing.T) {
	g, players, _ := setupStartedGame(t, 3)
	actor, victim := players[0], players[1]
	g.Mu.Lock()
	actor.Coins = 7
	g.Mu.Unlock()
	setHand(g, victim, models.RoleDuke)
	require.NoError(t, g.DeclareAction(actor.ID, models.ActionCoup, victim.ID, ""))

	// players[2] opens a window; the dead player may not respond.
	require.NoError(t, g.DeclareAction(players[2].ID, models.ActionTax, uuid.Nil, ""))
	err := g.Respond(victim.ID, pendingID(g), models.ResponseChallenge, "")
	require.Error(t, err)
	assert.Equal(t, KindRuleViolation, KindOf(err))
}

func TestLastTwoPlayersEndGame(t *testing.T) {
	g, players, mb := setupStartedGame(t, 2)
	actor, victim := players[0], players[1]
	g.Mu.Lock()
	actor.Coins = 7
	g.Mu.Unlock()
	setHand(g, victim, models.RoleCaptain)

	require.NoError(t, g.DeclareAction(actor.ID, models.ActionCoup, victim.ID, ""))
	assert.Equal(t, PhaseEnded, phase(g))
	require.NotNil(t, mb.findEventByType(EventGameEnded))

	// The ended game refuses further actions.
	err := g.DeclareAction(actor.ID, models.ActionIncome, uuid.Nil, "")
	require.Error(t, err)
	assert.Equal(t, KindStaleReference, KindOf(err))
}
