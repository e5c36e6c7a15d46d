package handlers

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/b14tz/bluph/internal/game"
	"github.com/b14tz/bluph/internal/models"
)

type registerMsg struct {
	Name string `json:"name"`
}

type joinGameMsg struct {
	Code string `json:"code"`
}

type playerActionMsg struct {
	Kind     models.ActionKind `json:"kind"`
	TargetID string            `json:"targetId,omitempty"`
	Claimed  models.Role       `json:"claimed,omitempty"`
}

type respondMsg struct {
	ActionID string              `json:"actionId,omitempty"`
	Response models.ResponseKind `json:"response"`
	Claimed  models.Role         `json:"claimed,omitempty"`
}

type loseCardMsg struct {
	CardID string `json:"cardId"`
}

type exchangeCardsMsg struct {
	KeepIDs []string `json:"keepIds"`
}

type reconnectMsg struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

func (srv *Server) handleMessage(s *session, env Envelope) {
	switch env.Type {
	case "register":
		srv.handleRegister(s, env.Data)
	case "create-game":
		srv.handleCreateGame(s)
	case "join-game":
		srv.handleJoinGame(s, env.Data)
	case "start-game":
		srv.handleStartGame(s)
	case "player-action":
		srv.handlePlayerAction(s, env.Data)
	case "respond":
		srv.handleRespond(s, env.Data)
	case "lose-card":
		srv.handleLoseCard(s, env.Data)
	case "exchange-cards":
		srv.handleExchangeCards(s, env.Data)
	case "reconnect":
		srv.handleReconnect(s, env.Data)
	case "leave-game":
		srv.handleLeaveGame(s)
	default:
		srv.sendError(s, &game.Error{Kind: game.KindValidation, Message: "unknown message type " + env.Type})
	}
}

// requireIdentity resolves the session's registered player, rejecting
// unauthenticated traffic.
func (srv *Server) requireIdentity(s *session) (uuid.UUID, bool) {
	if s.playerID != uuid.Nil {
		return s.playerID, true
	}
	if playerID, ok := srv.directory.SessionPlayer(s.id); ok {
		s.playerID = playerID
		return playerID, true
	}
	srv.sendError(s, &game.Error{Kind: game.KindRuleViolation, Message: "register before playing"})
	return uuid.Nil, false
}

// requireGame resolves the session's current game.
func (srv *Server) requireGame(s *session) (*game.Game, bool) {
	if s.gameCode == "" {
		srv.sendError(s, &game.Error{Kind: game.KindRuleViolation, Message: "not in a game"})
		return nil, false
	}
	g, ok := srv.registry.Get(s.gameCode)
	if !ok {
		srv.sendError(s, &game.Error{Kind: game.KindStaleReference, Message: "game " + s.gameCode + " no longer exists"})
		return nil, false
	}
	return g, true
}

func (srv *Server) handleRegister(s *session, data json.RawMessage) {
	var msg registerMsg
	if err := json.Unmarshal(data, &msg); err != nil || msg.Name == "" {
		srv.sendError(s, &game.Error{Kind: game.KindValidation, Message: "register requires a name"})
		return
	}
	profile := srv.directory.Register(msg.Name)
	srv.directory.BindSession(s.id, profile.ID)
	s.playerID = profile.ID

	token, err := srv.auth.Mint(profile.ID)
	if err != nil {
		srv.log.WithError(err).Error("Failed minting session token")
		srv.sendError(s, &game.Error{Kind: game.KindValidation, Message: "registration failed"})
		return
	}
	srv.sendFrame(s, "registered", map[string]string{
		"playerId": profile.ID.String(),
		"name":     profile.Name,
		"token":    token,
	})
}

func (srv *Server) handleCreateGame(s *session) {
	playerID, ok := srv.requireIdentity(s)
	if !ok {
		return
	}
	profile, _ := srv.directory.Get(playerID)
	g, err := srv.registry.CreateGame(playerID, profile.Name)
	if err != nil {
		srv.sendError(s, err)
		return
	}
	g.ResponseTimeout = srv.defaultTimeouts.Response
	g.CardLossTimeout = srv.defaultTimeouts.CardLoss
	g.ReconnectGrace = srv.defaultTimeouts.ReconnectGrace
	srv.attachCallbacks(g)
	srv.joinRoom(s, g.Code, playerID)
	srv.sendFrame(s, "game-created", map[string]string{"code": g.Code})
}

func (srv *Server) handleJoinGame(s *session, data json.RawMessage) {
	playerID, ok := srv.requireIdentity(s)
	if !ok {
		return
	}
	var msg joinGameMsg
	if err := json.Unmarshal(data, &msg); err != nil || msg.Code == "" {
		srv.sendError(s, &game.Error{Kind: game.KindValidation, Message: "join requires a game code"})
		return
	}
	g, found := srv.registry.Get(msg.Code)
	if !found {
		srv.sendError(s, &game.Error{Kind: game.KindStaleReference, Message: "no game with code " + msg.Code})
		return
	}
	profile, _ := srv.directory.Get(playerID)
	if err := g.AddPlayer(playerID, profile.Name); err != nil {
		srv.sendError(s, err)
		return
	}
	srv.joinRoom(s, g.Code, playerID)
	srv.sendFrame(s, "game-joined", map[string]string{"code": g.Code})
	state := g.Snapshot(playerID)
	srv.sendFrame(s, string(game.EventPrivateSyncState), game.GameEvent{Type: game.EventPrivateSyncState, State: &state})
}

func (srv *Server) handleStartGame(s *session) {
	playerID, ok := srv.requireIdentity(s)
	if !ok {
		return
	}
	g, ok := srv.requireGame(s)
	if !ok {
		return
	}
	if err := g.Start(playerID); err != nil {
		srv.sendError(s, err)
	}
}

func (srv *Server) handlePlayerAction(s *session, data json.RawMessage) {
	playerID, ok := srv.requireIdentity(s)
	if !ok {
		return
	}
	g, ok := srv.requireGame(s)
	if !ok {
		return
	}
	var msg playerActionMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		srv.sendError(s, &game.Error{Kind: game.KindValidation, Message: "malformed action"})
		return
	}
	targetID := uuid.Nil
	if msg.TargetID != "" {
		parsed, err := uuid.Parse(msg.TargetID)
		if err != nil {
			srv.sendError(s, &game.Error{Kind: game.KindValidation, Message: "malformed target id"})
			return
		}
		targetID = parsed
	}
	if err := g.DeclareAction(playerID, msg.Kind, targetID, msg.Claimed); err != nil {
		srv.sendError(s, err)
	}
}

func (srv *Server) handleRespond(s *session, data json.RawMessage) {
	playerID, ok := srv.requireIdentity(s)
	if !ok {
		return
	}
	g, ok := srv.requireGame(s)
	if !ok {
		return
	}
	var msg respondMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		srv.sendError(s, &game.Error{Kind: game.KindValidation, Message: "malformed response"})
		return
	}
	actionID := uuid.Nil
	if msg.ActionID != "" {
		parsed, err := uuid.Parse(msg.ActionID)
		if err != nil {
			srv.sendError(s, &game.Error{Kind: game.KindValidation, Message: "malformed action id"})
			return
		}
		actionID = parsed
	}
	if err := g.Respond(playerID, actionID, msg.Response, msg.Claimed); err != nil {
		srv.sendError(s, err)
	}
}

func (srv *Server) handleLoseCard(s *session, data json.RawMessage) {
	playerID, ok := srv.requireIdentity(s)
	if !ok {
		return
	}
	g, ok := srv.requireGame(s)
	if !ok {
		return
	}
	var msg loseCardMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		srv.sendError(s, &game.Error{Kind: game.KindValidation, Message: "malformed card selection"})
		return
	}
	cardID, err := uuid.Parse(msg.CardID)
	if err != nil {
		srv.sendError(s, &game.Error{Kind: game.KindValidation, Message: "malformed card id"})
		return
	}
	if err := g.ChooseCardToLose(playerID, cardID); err != nil {
		srv.sendError(s, err)
	}
}

func (srv *Server) handleExchangeCards(s *session, data json.RawMessage) {
	playerID, ok := srv.requireIdentity(s)
	if !ok {
		return
	}
	g, ok := srv.requireGame(s)
	if !ok {
		return
	}
	var msg exchangeCardsMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		srv.sendError(s, &game.Error{Kind: game.KindValidation, Message: "malformed exchange selection"})
		return
	}
	keepIDs := make([]uuid.UUID, 0, len(msg.KeepIDs))
	for _, raw := range msg.KeepIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			srv.sendError(s, &game.Error{Kind: game.KindValidation, Message: "malformed card id " + raw})
			return
		}
		keepIDs = append(keepIDs, id)
	}
	if err := g.ChooseExchangeCards(playerID, keepIDs); err != nil {
		srv.sendError(s, err)
	}
}

// handleReconnect authenticates a returning player by token and rebinds
// this session to their seat.
func (srv *Server) handleReconnect(s *session, data json.RawMessage) {
	var msg reconnectMsg
	if err := json.Unmarshal(data, &msg); err != nil || msg.Token == "" {
		srv.sendError(s, &game.Error{Kind: game.KindValidation, Message: "reconnect requires a session token"})
		return
	}
	playerID, err := srv.auth.Verify(msg.Token)
	if err != nil {
		srv.sendError(s, &game.Error{Kind: game.KindRuleViolation, Message: err.Error()})
		return
	}
	if !srv.directory.BindSession(s.id, playerID) {
		srv.sendError(s, &game.Error{Kind: game.KindStaleReference, Message: "unknown player identity"})
		return
	}
	s.playerID = playerID

	var g *game.Game
	var found bool
	if msg.Code != "" {
		g, found = srv.registry.Get(msg.Code)
	} else {
		g, found = srv.registry.FindGameByPlayer(playerID)
	}
	if !found {
		srv.sendFrame(s, "reconnected", map[string]string{"playerId": playerID.String()})
		return
	}
	srv.joinRoom(s, g.Code, playerID)
	if err := g.HandleReconnect(playerID); err != nil {
		srv.sendError(s, err)
		return
	}
	srv.log.WithFields(logrus.Fields{"player": playerID, "code": g.Code}).Info("Player reconnected")
}

func (srv *Server) handleLeaveGame(s *session) {
	playerID, ok := srv.requireIdentity(s)
	if !ok {
		return
	}
	g, ok := srv.requireGame(s)
	if !ok {
		return
	}
	if err := g.RemovePlayer(playerID); err != nil {
		srv.sendError(s, err)
		return
	}
	srv.mu.Lock()
	if room, ok := srv.rooms[s.gameCode]; ok {
		delete(room, playerID)
		if len(room) == 0 {
			delete(srv.rooms, s.gameCode)
		}
	}
	srv.mu.Unlock()
	s.gameCode = ""
	srv.sendFrame(s, "game-left", map[string]string{})
}
