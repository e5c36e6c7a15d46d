// Package handlers is the WebSocket transport adapter: it binds sessions
// to player identities, routes envelope messages to engine operations, and
// fans engine events out to room members with per-recipient redaction.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/b14tz/bluph/internal/auth"
	"github.com/b14tz/bluph/internal/game"
	"github.com/b14tz/bluph/internal/registry"
)

// sendBuffer bounds each session's outbound queue. Broadcast never blocks
// on a slow client; overflow drops the frame and the client resyncs on
// reconnect.
const sendBuffer = 64

const writeTimeout = 10 * time.Second

// Envelope is the inbound message frame.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// outFrame is the outbound message frame.
type outFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// session is one live WebSocket connection.
type session struct {
	id       uuid.UUID
	playerID uuid.UUID
	gameCode string
	conn     *websocket.Conn
	send     chan []byte
	once     sync.Once
	done     chan struct{}
}

func (s *session) close() {
	s.once.Do(func() {
		close(s.done)
		if s.conn != nil {
			s.conn.Close(websocket.StatusNormalClosure, "")
		}
	})
}

// queue enqueues a frame without blocking; a full buffer drops the frame.
func (s *session) queue(payload []byte) bool {
	select {
	case s.send <- payload:
		return true
	case <-s.done:
		return false
	default:
		return false
	}
}

// Server routes WebSocket traffic between clients and the game registry.
type Server struct {
	log       *logrus.Logger
	registry  *registry.GameRegistry
	directory *registry.PlayerDirectory
	auth      *auth.Service

	defaultTimeouts Timeouts

	mu      sync.Mutex
	rooms   map[string]map[uuid.UUID]*session // code → playerID → session
	rosters map[string][]uuid.UUID            // code → everyone ever seated
}

// Timeouts carries the per-game timing configuration applied at creation.
type Timeouts struct {
	Response       time.Duration
	CardLoss       time.Duration
	ReconnectGrace time.Duration
}

// NewServer creates the transport adapter.
func NewServer(log *logrus.Logger, reg *registry.GameRegistry, dir *registry.PlayerDirectory, authSvc *auth.Service, timeouts Timeouts) *Server {
	return &Server{
		log:             log,
		registry:        reg,
		directory:       dir,
		auth:            authSvc,
		defaultTimeouts: timeouts,
		rooms:           make(map[string]map[uuid.UUID]*session),
		rosters:         make(map[string][]uuid.UUID),
	}
}

// ServeWS upgrades the connection and runs the session until it closes.
func (srv *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // origin checking is the proxy's job
	})
	if err != nil {
		srv.log.WithError(err).Warn("WebSocket accept failed")
		return
	}

	s := &session{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	srv.log.WithField("session", s.id).Debug("Session opened")

	go srv.writePump(s)
	srv.readLoop(r.Context(), s)
	srv.teardown(s)
}

// writePump drains the session's send queue onto the wire.
func (srv *Server) writePump(s *session) {
	for {
		select {
		case <-s.done:
			return
		case payload := <-s.send:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := s.conn.Write(ctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				srv.log.WithError(err).WithField("session", s.id).Debug("Write failed")
				s.close()
				return
			}
		}
	}
}

// readLoop processes inbound envelopes until the connection drops.
func (srv *Server) readLoop(ctx context.Context, s *session) {
	for {
		msgType, data, err := s.conn.Read(ctx)
		if err != nil {
			return
		}
		if msgType != websocket.MessageText {
			continue
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			srv.sendError(s, &game.Error{Kind: game.KindValidation, Message: "malformed message envelope"})
			continue
		}
		srv.handleMessage(s, env)
	}
}

// teardown runs when the connection closes: the seat survives, the game is
// told about the disconnect, and the session binding is released.
func (srv *Server) teardown(s *session) {
	s.close()
	srv.mu.Lock()
	if s.gameCode != "" {
		if room, ok := srv.rooms[s.gameCode]; ok {
			if room[s.playerID] == s {
				delete(room, s.playerID)
			}
			if len(room) == 0 {
				delete(srv.rooms, s.gameCode)
			}
		}
	}
	srv.mu.Unlock()

	if s.playerID != uuid.Nil {
		srv.directory.UnbindSession(s.id)
		if s.gameCode != "" {
			if g, ok := srv.registry.Get(s.gameCode); ok {
				g.HandleDisconnect(s.playerID)
			}
		}
	}
	srv.log.WithField("session", s.id).Debug("Session closed")
}

// sendFrame marshals and enqueues one frame for the session.
func (srv *Server) sendFrame(s *session, frameType string, data interface{}) {
	payload, err := json.Marshal(outFrame{Type: frameType, Data: data})
	if err != nil {
		srv.log.WithError(err).Error("Failed marshaling outbound frame")
		return
	}
	if !s.queue(payload) {
		srv.log.WithFields(logrus.Fields{"session": s.id, "type": frameType}).Warn("Dropped frame for slow client")
	}
}

// sendError maps an engine error onto a game-error frame. Invariant
// violations additionally alert at error level.
func (srv *Server) sendError(s *session, err error) {
	kind := game.KindOf(err)
	if kind == "" {
		kind = game.KindValidation
	}
	if game.IsInvariant(err) {
		srv.log.WithError(err).WithField("session", s.id).Error("Engine invariant violation")
	}
	srv.sendFrame(s, "game-error", map[string]string{
		"kind":    string(kind),
		"message": err.Error(),
	})
}

// joinRoom records the session as the live connection for a player in a
// game.
func (srv *Server) joinRoom(s *session, code string, playerID uuid.UUID) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	room, ok := srv.rooms[code]
	if !ok {
		room = make(map[uuid.UUID]*session)
		srv.rooms[code] = room
	}
	if old, ok := room[playerID]; ok && old != s {
		old.close()
	}
	room[playerID] = s
	s.gameCode = code
	s.playerID = playerID

	for _, id := range srv.rosters[code] {
		if id == playerID {
			return
		}
	}
	srv.rosters[code] = append(srv.rosters[code], playerID)
}

// attachCallbacks wires the engine's broadcast hooks to room fan-out. The
// hooks run under the game lock, so they only touch the rooms map and the
// per-session queues; they never call back into the engine.
func (srv *Server) attachCallbacks(g *game.Game) {
	code := g.Code
	g.BroadcastFn = func(ev game.GameEvent) {
		payload, err := json.Marshal(outFrame{Type: string(ev.Type), Data: ev})
		if err != nil {
			srv.log.WithError(err).Error("Failed marshaling game event")
			return
		}
		srv.mu.Lock()
		room := srv.rooms[code]
		members := make([]*session, 0, len(room))
		for _, s := range room {
			members = append(members, s)
		}
		srv.mu.Unlock()
		for _, s := range members {
			s.queue(payload)
		}
		if ev.Type == game.EventGameEnded {
			srv.recordResult(code, ev)
		}
	}
	g.BroadcastToPlayerFn = func(playerID uuid.UUID, ev game.GameEvent) {
		srv.sendEventToPlayer(code, playerID, ev)
	}
}

func (srv *Server) sendEventToPlayer(code string, playerID uuid.UUID, ev game.GameEvent) {
	payload, err := json.Marshal(outFrame{Type: string(ev.Type), Data: ev})
	if err != nil {
		srv.log.WithError(err).Error("Failed marshaling game event")
		return
	}
	srv.mu.Lock()
	s := srv.rooms[code][playerID]
	srv.mu.Unlock()
	if s != nil {
		s.queue(payload)
	}
}

// recordResult bumps the directory's games-played and win counters from
// the end-of-game event. Runs from the broadcast hook; it touches only the
// directory, never the game.
func (srv *Server) recordResult(code string, ev game.GameEvent) {
	srv.mu.Lock()
	roster := append([]uuid.UUID(nil), srv.rosters[code]...)
	delete(srv.rosters, code)
	srv.mu.Unlock()
	if len(roster) == 0 {
		return
	}
	winnerID := uuid.Nil
	if raw, ok := ev.Payload["winnerId"].(string); ok {
		if parsed, err := uuid.Parse(raw); err == nil {
			winnerID = parsed
		}
	}
	srv.directory.RecordResult(winnerID, roster)
}
