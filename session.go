package main

import (
	"sync"
	"time"
)

const maxSessions = 200

// SessionIdleTimeout is how long an empty session survives before the
// janitor collects it. A variable so tests can shorten it.
var SessionIdleTimeout = 5 * time.Minute

// Session is one run of the game that a player (and at most one phone
// controller) can attach to.
type Session struct {
	ID       string
	Name     string
	Mode     GameMode
	Game     *Game
	lastSeen time.Time
}

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	db       *DB
	an       *Analytics
	stop     chan struct{}
	once     sync.Once
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(db *DB, an *Analytics) *SessionManager {
	sm := &SessionManager{
		sessions: make(map[string]*Session),
		db:       db,
		an:       an,
		stop:     make(chan struct{}),
	}
	go sm.janitor()
	return sm
}

// CreateSession creates a new run session. Returns nil if limit reached.
func (sm *SessionManager) CreateSession(name string, mode GameMode) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	id := GenerateUUID()
	game := NewGame(mode, sm.db, sm.an)
	game.sessionID = id
	sess := &Session{
		ID:       id,
		Name:     name,
		Mode:     mode,
		Game:     game,
		lastSeen: time.Now(),
	}
	sm.sessions[id] = sess
	go game.Run()
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// MarkActive refreshes a session's idle clock
func (sm *SessionManager) MarkActive(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sess, ok := sm.sessions[id]; ok {
		sess.lastSeen = time.Now()
	}
}

// RemovePlayer detaches the player; the session lingers until idle
// cleanup so a dropped connection can rejoin.
func (sm *SessionManager) RemovePlayer(sessionID string) {
	sm.mu.RLock()
	sess, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return
	}
	sess.Game.RemovePlayer()
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		list = append(list, SessionInfo{
			ID:     sess.ID,
			Name:   sess.Name,
			Mode:   int(sess.Mode),
			Active: sess.Game.HasPlayer(),
		})
	}
	return list
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Stop halts the janitor and all game loops
func (sm *SessionManager) Stop() {
	sm.once.Do(func() { close(sm.stop) })
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for id, sess := range sm.sessions {
		sess.Game.Stop()
		delete(sm.sessions, id)
	}
}

// janitor drops sessions that sat idle with no player attached
func (sm *SessionManager) janitor() {
	ticker := time.NewTicker(SessionIdleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-SessionIdleTimeout)
			sm.mu.Lock()
			for id, sess := range sm.sessions {
				if !sess.Game.HasPlayer() && sess.lastSeen.Before(cutoff) {
					sess.Game.Stop()
					delete(sm.sessions, id)
				}
			}
			sm.mu.Unlock()
		case <-sm.stop:
			return
		}
	}
}
