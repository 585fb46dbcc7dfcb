package room

import (
	"testing"

	"github.com/wfunc/minefield/grid"
)

// pickFirst and pickSecond force the first-turn choice in tests.
func pickFirst(n int) int  { return 0 }
func pickSecond(n int) int { return 1 }

// newPlacingRoom returns a room with sessions s1 ("alice") and s2 ("bob")
// seated, in the placing phase.
func newPlacingRoom(t *testing.T, pick TurnPicker) *Room {
	t.Helper()
	r := NewRoom("test_room", pick)

	res, err := r.Join("s1", "alice", "f")
	if err != nil {
		t.Fatalf("First join failed: %v", err)
	}
	if res.PlayerIndex != 0 || res.PlacingStarted {
		t.Fatalf("Unexpected first join result: %+v", res)
	}

	res, err = r.Join("s2", "bob", "m")
	if err != nil {
		t.Fatalf("Second join failed: %v", err)
	}
	if res.PlayerIndex != 1 || !res.PlacingStarted {
		t.Fatalf("Unexpected second join result: %+v", res)
	}
	return r
}

// newStartedRoom places alice's bombs on (0,0),(1,1),(2,2) and bob's on
// (5,5),(6,6),(7,7) so the game is started.
func newStartedRoom(t *testing.T, pick TurnPicker) *Room {
	t.Helper()
	r := newPlacingRoom(t, pick)

	for i := 0; i < MaxBombs; i++ {
		if _, err := r.PlaceBomb("s1", grid.Coord{X: i, Y: i}); err != nil {
			t.Fatalf("alice bomb %d failed: %v", i, err)
		}
	}
	for i := 0; i < MaxBombs; i++ {
		res, err := r.PlaceBomb("s2", grid.Coord{X: 5 + i, Y: 5 + i})
		if err != nil {
			t.Fatalf("bob bomb %d failed: %v", i, err)
		}
		if i < MaxBombs-1 && res.AllPlaced {
			t.Fatal("Game should not start before all bombs are placed")
		}
	}

	if r.Phase() != PhaseStarted {
		t.Fatalf("Expected phase started, got %s", r.Phase())
	}
	return r
}

func TestRoom_Join_Phases(t *testing.T) {
	r := NewRoom("r", pickFirst)

	if r.Phase() != PhaseWaiting {
		t.Errorf("New room should be waiting, got %s", r.Phase())
	}

	if _, err := r.Join("s1", "alice", ""); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if r.Phase() != PhaseWaiting {
		t.Errorf("Room with one player should still be waiting, got %s", r.Phase())
	}

	if _, err := r.Join("s2", "bob", ""); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if r.Phase() != PhasePlacing {
		t.Errorf("Room with two players should be placing, got %s", r.Phase())
	}
}

func TestRoom_Join_RoomFull(t *testing.T) {
	r := newPlacingRoom(t, pickFirst)

	_, err := r.Join("s3", "carol", "")
	if err != ErrRoomFull {
		t.Errorf("Expected ErrRoomFull, got %v", err)
	}
	if r.PlayerCount() != 2 {
		t.Errorf("Player count changed on rejected join: %d", r.PlayerCount())
	}
}

func TestRoom_Join_NameTaken(t *testing.T) {
	r := NewRoom("r", pickFirst)
	if _, err := r.Join("s1", "alice", ""); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	if _, err := r.Join("s2", "alice", ""); err != ErrNameTaken {
		t.Errorf("Expected ErrNameTaken, got %v", err)
	}
	if r.PlayerCount() != 1 {
		t.Errorf("Player count changed on rejected join: %d", r.PlayerCount())
	}

	// The same name in a different room is fine.
	other := NewRoom("other", pickFirst)
	if _, err := other.Join("s2", "alice", ""); err != nil {
		t.Errorf("Same name in a different room should succeed, got %v", err)
	}
}

func TestRoom_PlaceBomb_WrongPhase(t *testing.T) {
	r := NewRoom("r", pickFirst)
	r.Join("s1", "alice", "")

	if _, err := r.PlaceBomb("s1", grid.Coord{X: 0, Y: 0}); err != ErrInvalidState {
		t.Errorf("Expected ErrInvalidState in waiting phase, got %v", err)
	}
}

func TestRoom_PlaceBomb_Validation(t *testing.T) {
	r := newPlacingRoom(t, pickFirst)

	if _, err := r.PlaceBomb("s1", grid.Coord{X: -1, Y: 0}); err != ErrInvalidCoordinates {
		t.Errorf("Expected ErrInvalidCoordinates, got %v", err)
	}
	if _, err := r.PlaceBomb("s1", grid.Coord{X: grid.Size, Y: 0}); err != ErrInvalidCoordinates {
		t.Errorf("Expected ErrInvalidCoordinates, got %v", err)
	}
	if _, err := r.PlaceBomb("s9", grid.Coord{X: 0, Y: 0}); err != ErrPlayerNotFound {
		t.Errorf("Expected ErrPlayerNotFound for unseated session, got %v", err)
	}
}

func TestRoom_PlaceBomb_DuplicateAndMax(t *testing.T) {
	r := newPlacingRoom(t, pickFirst)

	if _, err := r.PlaceBomb("s1", grid.Coord{X: 3, Y: 3}); err != nil {
		t.Fatalf("PlaceBomb failed: %v", err)
	}
	if _, err := r.PlaceBomb("s1", grid.Coord{X: 3, Y: 3}); err != ErrBombAlreadyPlaced {
		t.Errorf("Expected ErrBombAlreadyPlaced, got %v", err)
	}
	if got := len(r.players[0].Bombs); got != 1 {
		t.Errorf("Duplicate placement changed bomb count: %d", got)
	}

	r.PlaceBomb("s1", grid.Coord{X: 4, Y: 4})
	r.PlaceBomb("s1", grid.Coord{X: 5, Y: 4})
	if _, err := r.PlaceBomb("s1", grid.Coord{X: 6, Y: 4}); err != ErrMaxBombsReached {
		t.Errorf("Expected ErrMaxBombsReached, got %v", err)
	}
	if got := len(r.players[0].Bombs); got != MaxBombs {
		t.Errorf("Expected bomb count to stay at %d, got %d", MaxBombs, got)
	}
}

func TestRoom_PlaceBomb_StartsGame(t *testing.T) {
	r := newPlacingRoom(t, pickSecond)

	for i := 0; i < MaxBombs; i++ {
		r.PlaceBomb("s1", grid.Coord{X: i, Y: 0})
	}
	r.PlaceBomb("s2", grid.Coord{X: 0, Y: 9})
	r.PlaceBomb("s2", grid.Coord{X: 1, Y: 9})

	res, err := r.PlaceBomb("s2", grid.Coord{X: 2, Y: 9})
	if err != nil {
		t.Fatalf("Final PlaceBomb failed: %v", err)
	}
	if !res.AllPlaced {
		t.Fatal("Expected AllPlaced after the sixth bomb")
	}
	if res.TurnIndex != 1 {
		t.Errorf("Expected injected turn index 1, got %d", res.TurnIndex)
	}
	if r.Phase() != PhaseStarted {
		t.Errorf("Expected phase started, got %s", r.Phase())
	}
}

func TestRoom_MakeMove_NotYourTurn(t *testing.T) {
	r := newStartedRoom(t, pickFirst)

	_, err := r.MakeMove("s2", grid.Coord{X: 0, Y: 1})
	if err != ErrNotYourTurn {
		t.Fatalf("Expected ErrNotYourTurn, got %v", err)
	}
	if len(r.openedCells) != 0 {
		t.Error("Rejected move must not open a cell")
	}
	for i, score := range r.Scores() {
		if score != 0 {
			t.Errorf("Rejected move must not change scores, player %d has %d", i, score)
		}
	}
}

func TestRoom_MakeMove_Safe(t *testing.T) {
	r := newStartedRoom(t, pickFirst)

	res, err := r.MakeMove("s1", grid.Coord{X: 0, Y: 1})
	if err != nil {
		t.Fatalf("MakeMove failed: %v", err)
	}
	if res.Hit {
		t.Fatal("(0,1) is not a bob bomb, expected a safe move")
	}
	if res.Reward != 1 {
		t.Errorf("Expected reward 1, got %d", res.Reward)
	}
	if res.Balances[0] != 1 || res.Balances[1] != 0 {
		t.Errorf("Expected balances [1 0], got %v", res.Balances)
	}
	if res.NextTurn == nil || *res.NextTurn != 1 {
		t.Errorf("Expected next turn 1, got %v", res.NextTurn)
	}
	if r.Phase() != PhaseStarted {
		t.Errorf("Safe move must not end the game, phase is %s", r.Phase())
	}
	if r.TurnIndex() != 1 {
		t.Errorf("Expected turn to flip to 1, got %d", r.TurnIndex())
	}
}

func TestRoom_MakeMove_Hit(t *testing.T) {
	r := newStartedRoom(t, pickFirst)

	res, err := r.MakeMove("s1", grid.Coord{X: 5, Y: 5})
	if err != nil {
		t.Fatalf("MakeMove failed: %v", err)
	}
	if !res.Hit {
		t.Fatal("(5,5) is a bob bomb, expected a hit")
	}
	if res.WinnerIndex != 1 {
		t.Errorf("Expected winner index 1, got %d", res.WinnerIndex)
	}
	if res.NextTurn != nil {
		t.Errorf("Expected nil next turn after a hit, got %d", *res.NextTurn)
	}
	if res.Balances[0] != 0 || res.Balances[1] != 0 {
		t.Errorf("A hit must leave scores unchanged, got %v", res.Balances)
	}
	if r.Phase() != PhaseFinished {
		t.Errorf("Expected phase finished, got %s", r.Phase())
	}
}

func TestRoom_MakeMove_CellAlreadyOpened(t *testing.T) {
	r := newStartedRoom(t, pickFirst)

	if _, err := r.MakeMove("s1", grid.Coord{X: 0, Y: 1}); err != nil {
		t.Fatalf("Setup move failed: %v", err)
	}

	_, err := r.MakeMove("s2", grid.Coord{X: 0, Y: 1})
	if err != ErrCellAlreadyOpened {
		t.Fatalf("Expected ErrCellAlreadyOpened, got %v", err)
	}
	if got := r.Scores()[1]; got != 0 {
		t.Errorf("Rejected move must not score, got %d", got)
	}

	// The turn is still bob's; a fresh cell works.
	if _, err := r.MakeMove("s2", grid.Coord{X: 0, Y: 2}); err != nil {
		t.Errorf("Fresh cell after rejection should succeed, got %v", err)
	}
}

func TestRoom_MakeMove_WrongPhase(t *testing.T) {
	r := newPlacingRoom(t, pickFirst)

	if _, err := r.MakeMove("s1", grid.Coord{X: 0, Y: 0}); err != ErrInvalidState {
		t.Errorf("Expected ErrInvalidState in placing phase, got %v", err)
	}
}

func TestRoom_Leave_Forfeit(t *testing.T) {
	r := newStartedRoom(t, pickFirst)

	res, ok := r.Leave("s2")
	if !ok {
		t.Fatal("Leave should find the seated session")
	}
	if !res.Forfeit {
		t.Fatal("Leaving a started game must forfeit")
	}
	if res.WinnerIndex != 0 || res.WinnerName != "alice" {
		t.Errorf("Expected alice (index 0) to win, got %d %q", res.WinnerIndex, res.WinnerName)
	}
	if r.Phase() != PhaseFinished {
		t.Errorf("Expected phase finished, got %s", r.Phase())
	}
}

func TestRoom_Leave_WhileWaiting(t *testing.T) {
	r := NewRoom("r", pickFirst)
	r.Join("s1", "alice", "")

	res, ok := r.Leave("s1")
	if !ok {
		t.Fatal("Leave should find the seated session")
	}
	if res.Forfeit {
		t.Error("Leaving a waiting room must not forfeit")
	}
	if res.Remaining != 0 {
		t.Errorf("Expected 0 remaining players, got %d", res.Remaining)
	}
}

func TestRoom_Leave_AfterFinished(t *testing.T) {
	r := newStartedRoom(t, pickFirst)
	if _, err := r.MakeMove("s1", grid.Coord{X: 5, Y: 5}); err != nil {
		t.Fatalf("Setup move failed: %v", err)
	}

	res, ok := r.Leave("s1")
	if !ok {
		t.Fatal("Leave should find the seated session")
	}
	if res.Forfeit {
		t.Error("Leaving an already finished game must not forfeit again")
	}
}

func TestRoom_Leave_UnknownSession(t *testing.T) {
	r := newPlacingRoom(t, pickFirst)
	if _, ok := r.Leave("s9"); ok {
		t.Error("Leave of an unseated session should report false")
	}
	if r.PlayerCount() != 2 {
		t.Errorf("Player count changed: %d", r.PlayerCount())
	}
}

// Full match walkthrough: both branches of the first guess.
func TestRoom_Scenario(t *testing.T) {
	t.Run("first guess hits", func(t *testing.T) {
		r := newStartedRoom(t, pickFirst)
		res, err := r.MakeMove("s1", grid.Coord{X: 5, Y: 5})
		if err != nil || !res.Hit || res.WinnerIndex != 1 {
			t.Fatalf("Expected a hit with winner 1, got res=%+v err=%v", res, err)
		}
	})

	t.Run("first guess opens own bomb cell safely", func(t *testing.T) {
		r := newStartedRoom(t, pickFirst)
		// (0,0) is alice's own bomb, not bob's, so it is safe.
		res, err := r.MakeMove("s1", grid.Coord{X: 0, Y: 0})
		if err != nil || res.Hit {
			t.Fatalf("Expected a safe move, got res=%+v err=%v", res, err)
		}
		if res.Balances[0] != 1 {
			t.Errorf("Expected alice's score to be 1, got %v", res.Balances)
		}
		if res.NextTurn == nil || *res.NextTurn != 1 {
			t.Errorf("Expected turn to pass to bob, got %v", res.NextTurn)
		}
	})
}
