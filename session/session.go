// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/wfunc/minefield/network"
)

// Session is one connection's identity for its whole lifetime. Once the player
// joins a room the session carries the (roomID, playerIndex) binding, so the
// disconnect path can find the right room without scanning all of them.
type Session struct {
	ID         string
	Conn       network.Connection
	CreatedAt  time.Time
	LastActive time.Time

	roomID      string
	playerIndex int
	bound       bool
	mutex       sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Bind associates the session with a room seat. A session is bound to at most
// one room; Bind returns false if a binding already exists.
func (s *Session) Bind(roomID string, playerIndex int) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.bound {
		return false
	}
	s.roomID = roomID
	s.playerIndex = playerIndex
	s.bound = true
	return true
}

// ClearBinding removes the room association.
func (s *Session) ClearBinding() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.roomID = ""
	s.playerIndex = 0
	s.bound = false
}

// Binding returns the bound room seat, if any.
func (s *Session) Binding() (roomID string, playerIndex int, ok bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.roomID, s.playerIndex, s.bound
}

func (s *Session) Send(event string, data []byte) error {
	s.LastActive = time.Now()
	return s.Conn.Send(event, data)
}

func (s *Session) SendAck(seq uint32, data []byte) error {
	s.LastActive = time.Now()
	return s.Conn.SendAck(seq, data)
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Session管理器
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
