// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/minefield/room"
	"github.com/wfunc/minefield/session"
)

var (
	ErrRoomNotFound = errors.New("room not found")
)

// 广播接口
type Broadcaster interface {
	BroadcastToRoom(roomID string, event string, data []byte) error
}

// RoomBroadcaster resolves room membership through the registry and delivers
// through the session manager.
type RoomBroadcaster struct {
	registry       *room.Registry
	sessionManager *session.Manager
}

func NewRoomBroadcaster(registry *room.Registry, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		registry:       registry,
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomID string, event string, data []byte) error {
	r, exists := b.registry.Get(roomID)
	if !exists {
		return ErrRoomNotFound
	}

	for _, sessionID := range r.SessionIDs() {
		s, ok := b.sessionManager.Get(sessionID)
		if !ok {
			continue
		}
		if err := s.Send(event, data); err != nil {
			// 处理发送错误, the disconnect path cleans the seat up
			continue
		}
	}

	return nil
}
