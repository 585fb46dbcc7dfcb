package room

import "testing"

func TestRegistry_GetOrCreate(t *testing.T) {
	registry := NewRegistry(pickFirst)

	r := registry.GetOrCreate("room1")
	if r == nil {
		t.Fatal("GetOrCreate should not return nil")
	}
	if r.Phase() != PhaseWaiting {
		t.Errorf("Fresh room should be waiting, got %s", r.Phase())
	}

	if again := registry.GetOrCreate("room1"); again != r {
		t.Error("GetOrCreate should return the same room instance for the same id")
	}

	got, exists := registry.Get("room1")
	if !exists || got != r {
		t.Error("Get should find the created room")
	}
	if _, exists := registry.Get("missing"); exists {
		t.Error("Get should not find an unknown id")
	}
}

func TestRegistry_DestroyIfEmpty(t *testing.T) {
	registry := NewRegistry(pickFirst)

	r := registry.GetOrCreate("room1")
	r.Join("s1", "alice", "")

	if registry.DestroyIfEmpty("room1") {
		t.Fatal("A room with a player must not be destroyed")
	}

	r.Leave("s1")
	if !registry.DestroyIfEmpty("room1") {
		t.Fatal("An empty room should be destroyed")
	}
	if _, exists := registry.Get("room1"); exists {
		t.Fatal("Destroyed room should not be found")
	}

	// The id is reusable: a later reference creates a brand-new waiting room.
	fresh := registry.GetOrCreate("room1")
	if fresh == r {
		t.Error("Reused id should yield a fresh room instance")
	}
	if fresh.Phase() != PhaseWaiting || fresh.PlayerCount() != 0 {
		t.Errorf("Reused id should yield an empty waiting room, got %s with %d players",
			fresh.Phase(), fresh.PlayerCount())
	}
}

func TestRegistry_Counts(t *testing.T) {
	registry := NewRegistry(pickFirst)

	registry.GetOrCreate("a").Join("s1", "alice", "")
	b := registry.GetOrCreate("b")
	b.Join("s2", "bob", "")
	b.Join("s3", "carol", "")

	if got := registry.RoomCount(); got != 2 {
		t.Errorf("Expected 2 rooms, got %d", got)
	}
	if got := registry.PlayerCount(); got != 3 {
		t.Errorf("Expected 3 players, got %d", got)
	}

	summaries := registry.Summaries()
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}
	for _, summary := range summaries {
		switch summary.ID {
		case "a":
			if summary.Players != 1 || summary.State != "waiting" {
				t.Errorf("Unexpected summary for a: %+v", summary)
			}
		case "b":
			if summary.Players != 2 || summary.State != "placing" {
				t.Errorf("Unexpected summary for b: %+v", summary)
			}
		default:
			t.Errorf("Unexpected room id %q", summary.ID)
		}
	}
}
