package session

import (
	"net"
	"testing"
	"time"

	"github.com/wfunc/minefield/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(event string, data []byte) error     { return nil }
func (m *MockConnection) SendAck(seq uint32, data []byte) error    { return nil }
func (m *MockConnection) ReadEnvelope() (*network.Envelope, error) { return nil, nil }
func (m *MockConnection) Close() error                             { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                     { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)      {}

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	// Test Add
	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	// Test Get
	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	// Test Remove
	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestSession_Binding(t *testing.T) {
	sess := NewSession("s1", &MockConnection{})

	if _, _, bound := sess.Binding(); bound {
		t.Fatal("A fresh session must not be bound")
	}

	if !sess.Bind("room1", 1) {
		t.Fatal("First Bind should succeed")
	}

	roomID, playerIndex, bound := sess.Binding()
	if !bound || roomID != "room1" || playerIndex != 1 {
		t.Fatalf("Unexpected binding: %q %d %v", roomID, playerIndex, bound)
	}

	// At most one room per session.
	if sess.Bind("room2", 0) {
		t.Fatal("Second Bind must fail while bound")
	}
	if roomID, _, _ := sess.Binding(); roomID != "room1" {
		t.Errorf("Failed Bind must not change the binding, got %q", roomID)
	}

	sess.ClearBinding()
	if _, _, bound := sess.Binding(); bound {
		t.Fatal("ClearBinding should remove the binding")
	}

	// Rebinding after a clear is allowed.
	if !sess.Bind("room2", 0) {
		t.Fatal("Bind after ClearBinding should succeed")
	}
}
