// chat/chat.go
package chat

import (
	"strconv"
	"sync"
	"time"
)

const (
	// HistoryLimit caps how many messages a room keeps.
	HistoryLimit = 100
	// MaxMessageLen caps a single player message.
	MaxMessageLen = 500

	systemSenderID   = "system"
	systemSenderName = "System"
)

// Message is one chat entry. Presentation state only; game rooms never see it.
type Message struct {
	ID         string `json:"id"`
	PlayerName string `json:"playerName"`
	PlayerID   string `json:"playerId"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	IsSystem   bool   `json:"isSystem,omitempty"`
}

// Store keeps per-room chat history.
type Store struct {
	histories map[string][]Message
	now       func() time.Time
	mutex     sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		histories: make(map[string][]Message),
		now:       time.Now,
	}
}

// AddSystem appends a system notice to the room's history.
func (s *Store) AddSystem(roomID, text string) Message {
	msg := Message{
		PlayerName: systemSenderName,
		PlayerID:   systemSenderID,
		Message:    text,
		IsSystem:   true,
	}
	return s.append(roomID, msg)
}

// AddPlayer appends a player message to the room's history.
func (s *Store) AddPlayer(roomID, playerID, playerName, text string) Message {
	msg := Message{
		PlayerName: playerName,
		PlayerID:   playerID,
		Message:    text,
	}
	return s.append(roomID, msg)
}

func (s *Store) append(roomID string, msg Message) Message {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	msg.ID = strconv.FormatInt(now.UnixMilli(), 10)
	msg.Timestamp = now.Format("15:04:05")

	history := append(s.histories[roomID], msg)
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}
	s.histories[roomID] = history
	return msg
}

// History returns a copy of the room's messages, oldest first.
func (s *Store) History(roomID string) []Message {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	history := s.histories[roomID]
	out := make([]Message, len(history))
	copy(out, history)
	return out
}

// Drop discards the room's history once the room is destroyed.
func (s *Store) Drop(roomID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.histories, roomID)
}
