// Package registry owns the directory of live games and player profiles.
// It maps short join codes to engine instances and sweeps finished or
// abandoned games so their timers and memory are reclaimed.
package registry

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/b14tz/bluph/internal/game"
)

// codeAlphabet excludes ambiguous glyphs (0/O, 1/I) so codes survive being
// read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the length of a game join code.
const CodeLength = 6

// DefaultSweepInterval is how often the sweeper scans for dead games.
const DefaultSweepInterval = 30 * time.Second

// endedRetention keeps an ended game resolvable briefly so final frames
// and late snapshot requests still find it.
const endedRetention = 2 * time.Minute

// GameRegistry is the concurrent map of join code to game instance.
type GameRegistry struct {
	mu    sync.RWMutex
	games map[string]*game.Game
	ended map[string]time.Time
}

// NewGameRegistry creates an empty registry.
func NewGameRegistry() *GameRegistry {
	return &GameRegistry{
		games: make(map[string]*game.Game),
		ended: make(map[string]time.Time),
	}
}

// CreateGame mints a collision-free code, creates the game, and seats the
// host.
func (r *GameRegistry) CreateGame(hostID uuid.UUID, hostName string) (*game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var code string
	for {
		c, err := generateCode()
		if err != nil {
			return nil, err
		}
		if _, taken := r.games[c]; !taken {
			code = c
			break
		}
	}

	g := game.NewGame(code, hostID)
	if err := g.AddPlayer(hostID, hostName); err != nil {
		g.Shutdown()
		return nil, err
	}
	r.games[code] = g
	logrus.WithFields(logrus.Fields{"code": code, "host": hostID}).Info("Game created")
	return g, nil
}

// Get returns the game for code.
func (r *GameRegistry) Get(code string) (*game.Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[code]
	return g, ok
}

// Remove evicts and shuts down the game for code.
func (r *GameRegistry) Remove(code string) {
	r.mu.Lock()
	g, ok := r.games[code]
	if ok {
		delete(r.games, code)
		delete(r.ended, code)
	}
	r.mu.Unlock()
	if ok {
		g.Shutdown()
		logrus.WithField("code", code).Info("Game removed")
	}
}

// FindGameByPlayer returns the game a player is seated in, if any.
func (r *GameRegistry) FindGameByPlayer(playerID uuid.UUID) (*game.Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.games {
		for _, id := range g.PlayerIDs() {
			if id == playerID {
				return g, true
			}
		}
	}
	return nil, false
}

// Len returns the number of registered games.
func (r *GameRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// StartSweeper runs the eviction loop until ctx is cancelled.
func (r *GameRegistry) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sweep(time.Now())
			}
		}
	}()
}

// sweep evicts empty rooms immediately and ended games after a short
// retention window.
func (r *GameRegistry) sweep(now time.Time) {
	r.mu.Lock()
	var evict []string
	for code, g := range r.games {
		if g.Empty() {
			evict = append(evict, code)
			continue
		}
		if g.Ended() {
			since, seen := r.ended[code]
			if !seen {
				r.ended[code] = now
				continue
			}
			if now.Sub(since) >= endedRetention {
				evict = append(evict, code)
			}
		}
	}
	evicted := make([]*game.Game, 0, len(evict))
	for _, code := range evict {
		evicted = append(evicted, r.games[code])
		delete(r.games, code)
		delete(r.ended, code)
	}
	r.mu.Unlock()

	for i, g := range evicted {
		g.Shutdown()
		logrus.WithField("code", evict[i]).Info("Game swept")
	}
}

// generateCode draws CodeLength characters from the alphabet using
// crypto/rand; join codes are bearer-ish and must not be guessable from
// earlier codes.
func generateCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
