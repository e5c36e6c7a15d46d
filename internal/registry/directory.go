package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Profile is a logical player identity, stable across connections.
type Profile struct {
	ID          uuid.UUID
	Name        string
	CreatedAt   time.Time
	GamesPlayed int
	Wins        int
}

// PlayerDirectory separates logical player identity from transport session
// identity. A session (one WebSocket connection) binds to at most one
// player; reconnection binds a fresh session to the same player without
// touching game state.
type PlayerDirectory struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*Profile
	// session → player and its inverse.
	sessionPlayer map[uuid.UUID]uuid.UUID
	playerSession map[uuid.UUID]uuid.UUID
}

// NewPlayerDirectory creates an empty directory.
func NewPlayerDirectory() *PlayerDirectory {
	return &PlayerDirectory{
		profiles:      make(map[uuid.UUID]*Profile),
		sessionPlayer: make(map[uuid.UUID]uuid.UUID),
		playerSession: make(map[uuid.UUID]uuid.UUID),
	}
}

// Register mints a profile for name.
func (d *PlayerDirectory) Register(name string) *Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := &Profile{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	d.profiles[p.ID] = p
	return p
}

// Get returns the profile for a player ID.
func (d *PlayerDirectory) Get(playerID uuid.UUID) (*Profile, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.profiles[playerID]
	return p, ok
}

// BindSession attaches a session to a player, displacing any previous
// session binding for that player.
func (d *PlayerDirectory) BindSession(sessionID, playerID uuid.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.profiles[playerID]; !ok {
		return false
	}
	if old, ok := d.playerSession[playerID]; ok {
		delete(d.sessionPlayer, old)
	}
	d.sessionPlayer[sessionID] = playerID
	d.playerSession[playerID] = sessionID
	return true
}

// UnbindSession detaches a session. The profile survives for reconnection.
func (d *PlayerDirectory) UnbindSession(sessionID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	playerID, ok := d.sessionPlayer[sessionID]
	if !ok {
		return
	}
	delete(d.sessionPlayer, sessionID)
	if d.playerSession[playerID] == sessionID {
		delete(d.playerSession, playerID)
	}
}

// SessionPlayer returns the player bound to a session.
func (d *PlayerDirectory) SessionPlayer(sessionID uuid.UUID) (uuid.UUID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	playerID, ok := d.sessionPlayer[sessionID]
	return playerID, ok
}

// PlayerSession returns the session currently bound to a player.
func (d *PlayerDirectory) PlayerSession(playerID uuid.UUID) (uuid.UUID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	sessionID, ok := d.playerSession[playerID]
	return sessionID, ok
}

// RecordResult bumps games-played for every participant and wins for the
// winner.
func (d *PlayerDirectory) RecordResult(winnerID uuid.UUID, participants []uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range participants {
		if p, ok := d.profiles[id]; ok {
			p.GamesPlayed++
			if id == winnerID {
				p.Wins++
			}
		}
	}
}
