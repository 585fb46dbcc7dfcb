// room/registry.go
package room

import (
	"math/rand"
	"sync"

	"github.com/wfunc/minefield/models"
)

// Registry 管理所有房间. It is the single owner of the process-wide room map;
// rooms are created lazily on first reference and destroyed once empty.
type Registry struct {
	rooms    map[string]*Room
	pickTurn TurnPicker
	mutex    sync.RWMutex
}

// NewRegistry creates a registry. pickTurn may be nil, in which case the first
// turn is chosen uniformly at random.
func NewRegistry(pickTurn TurnPicker) *Registry {
	if pickTurn == nil {
		pickTurn = rand.Intn
	}
	return &Registry{
		rooms:    make(map[string]*Room),
		pickTurn: pickTurn,
	}
}

// GetOrCreate returns the room for id, creating a fresh waiting room if none
// exists.
func (g *Registry) GetOrCreate(id string) *Room {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if r, exists := g.rooms[id]; exists {
		return r
	}
	r := NewRoom(id, g.pickTurn)
	g.rooms[id] = r
	return r
}

// Get 获取一个房间
func (g *Registry) Get(id string) (*Room, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	r, exists := g.rooms[id]
	return r, exists
}

// DestroyIfEmpty removes the room if it has no players left. Returns true if
// the room was removed.
func (g *Registry) DestroyIfEmpty(id string) bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	r, exists := g.rooms[id]
	if !exists || r.PlayerCount() > 0 {
		return false
	}
	delete(g.rooms, id)
	return true
}

// RoomCount returns the number of live rooms.
func (g *Registry) RoomCount() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.rooms)
}

// PlayerCount returns the number of seated players across all rooms.
func (g *Registry) PlayerCount() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	total := 0
	for _, r := range g.rooms {
		total += r.PlayerCount()
	}
	return total
}

// Summaries returns the diagnostic view of every live room.
func (g *Registry) Summaries() []models.RoomSummary {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	summaries := make([]models.RoomSummary, 0, len(g.rooms))
	for _, r := range g.rooms {
		summaries = append(summaries, r.Summary())
	}
	return summaries
}
