// room/room.go
package room

import (
	"sync"
	"time"

	"github.com/wfunc/minefield/grid"
	"github.com/wfunc/minefield/models"
)

// Phase 表示房间的游戏阶段
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePlacing  Phase = "placing"
	PhaseStarted  Phase = "started"
	PhaseFinished Phase = "finished"
)

const (
	MaxPlayers = 2
	MaxBombs   = 3
)

// TurnPicker selects the first-turn player index out of n candidates. Injected
// so tests can force either outcome.
type TurnPicker func(n int) int

// Player is one seat in a room. Bombs and score live on the player record, so
// they exist exactly as long as the player does.
type Player struct {
	SessionID string
	Name      string
	Gender    string
	Bombs     []grid.Coord
	Score     int
}

// OpenedCell records a revealed coordinate and who revealed it.
type OpenedCell struct {
	Coord     grid.Coord
	SessionID string
}

// Room 是一局游戏的核心结构. Every mutation goes through one of its methods
// while holding the room mutex, so concurrent handlers observe each operation
// as atomic.
type Room struct {
	ID        string
	CreatedAt time.Time

	phase       Phase
	players     []*Player
	openedCells []OpenedCell
	turnIndex   int
	pickTurn    TurnPicker

	mutex sync.Mutex
}

// NewRoom 创建一个新房间, starting in the waiting phase.
func NewRoom(id string, pickTurn TurnPicker) *Room {
	return &Room{
		ID:        id,
		CreatedAt: time.Now(),
		phase:     PhaseWaiting,
		pickTurn:  pickTurn,
	}
}

// JoinResult is the outcome of a successful Join.
type JoinResult struct {
	PlayerIndex    int
	PlacingStarted bool
}

// Join seats a player. The second successful join moves the room from waiting
// to placing.
func (r *Room) Join(sessionID, name, gender string) (JoinResult, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(r.players) >= MaxPlayers {
		return JoinResult{}, ErrRoomFull
	}
	for _, p := range r.players {
		if p.Name == name {
			return JoinResult{}, ErrNameTaken
		}
	}

	r.players = append(r.players, &Player{
		SessionID: sessionID,
		Name:      name,
		Gender:    gender,
	})

	res := JoinResult{PlayerIndex: len(r.players) - 1}
	if r.phase == PhaseWaiting && len(r.players) == MaxPlayers {
		r.phase = PhasePlacing
		res.PlacingStarted = true
	}
	return res, nil
}

// PlaceResult is the outcome of a successful PlaceBomb.
type PlaceResult struct {
	AllPlaced bool
	TurnIndex int
}

// PlaceBomb records one hidden bomb for the session. When both players reach
// MaxBombs the room moves to started and the first turn is picked.
func (r *Room) PlaceBomb(sessionID string, c grid.Coord) (PlaceResult, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.phase != PhasePlacing {
		return PlaceResult{}, ErrInvalidState
	}
	p := r.playerBySession(sessionID)
	if p == nil {
		return PlaceResult{}, ErrPlayerNotFound
	}
	if !grid.IsValid(c.X, c.Y) {
		return PlaceResult{}, ErrInvalidCoordinates
	}
	for _, b := range p.Bombs {
		if b == c {
			return PlaceResult{}, ErrBombAlreadyPlaced
		}
	}
	if len(p.Bombs) >= MaxBombs {
		return PlaceResult{}, ErrMaxBombsReached
	}

	p.Bombs = append(p.Bombs, c)

	if len(r.players) == MaxPlayers && r.allBombsPlaced() {
		r.phase = PhaseStarted
		r.turnIndex = r.pickTurn(MaxPlayers)
		return PlaceResult{AllPlaced: true, TurnIndex: r.turnIndex}, nil
	}
	return PlaceResult{}, nil
}

// MoveResult is the outcome of a successful MakeMove.
type MoveResult struct {
	By       int
	Coord    grid.Coord
	Hit      bool
	Reward   int
	Balances []int
	NextTurn *int // nil once the game is over

	// Set only on a hit.
	WinnerIndex int
	WinnerName  string
	MoverName   string
}

// MakeMove opens a cell on the opponent's board. Opening is irrevocable: the
// cell is recorded before hit detection so a repeated guess always fails with
// cell_already_opened.
func (r *Room) MakeMove(sessionID string, c grid.Coord) (MoveResult, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.phase != PhaseStarted {
		return MoveResult{}, ErrInvalidState
	}
	idx := r.playerIndexBySession(sessionID)
	if idx < 0 {
		return MoveResult{}, ErrPlayerNotFound
	}
	if idx != r.turnIndex {
		return MoveResult{}, ErrNotYourTurn
	}
	if !grid.IsValid(c.X, c.Y) {
		return MoveResult{}, ErrInvalidCoordinates
	}
	for _, cell := range r.openedCells {
		if cell.Coord == c {
			return MoveResult{}, ErrCellAlreadyOpened
		}
	}

	r.openedCells = append(r.openedCells, OpenedCell{Coord: c, SessionID: sessionID})

	opponent := r.players[1-idx]
	hit := false
	for _, b := range opponent.Bombs {
		if b == c {
			hit = true
			break
		}
	}

	res := MoveResult{By: idx, Coord: c, Hit: hit}

	if hit {
		r.phase = PhaseFinished
		res.Balances = r.balances()
		res.WinnerIndex = 1 - idx
		res.WinnerName = opponent.Name
		res.MoverName = r.players[idx].Name
		return res, nil
	}

	r.players[idx].Score++
	r.turnIndex = 1 - r.turnIndex
	next := r.turnIndex
	res.Reward = 1
	res.Balances = r.balances()
	res.NextTurn = &next
	return res, nil
}

// LeaveResult is the outcome of removing a player.
type LeaveResult struct {
	PlayerName  string
	PlayerScore int
	Remaining   int

	// Forfeit is set when the game was live and the remaining player wins.
	Forfeit     bool
	WinnerIndex int
	WinnerName  string
	WinnerScore int
}

// Leave removes the player for the session, forfeiting the game to the
// remaining player if one was in progress. Returns false if the session is not
// seated in this room.
func (r *Room) Leave(sessionID string) (LeaveResult, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	idx := r.playerIndexBySession(sessionID)
	if idx < 0 {
		return LeaveResult{}, false
	}

	left := r.players[idx]
	r.players = append(r.players[:idx], r.players[idx+1:]...)

	res := LeaveResult{
		PlayerName:  left.Name,
		PlayerScore: left.Score,
		Remaining:   len(r.players),
	}

	if (r.phase == PhaseStarted || r.phase == PhasePlacing) && len(r.players) == 1 {
		r.phase = PhaseFinished
		res.Forfeit = true
		res.WinnerIndex = 0
		res.WinnerName = r.players[0].Name
		res.WinnerScore = r.players[0].Score
	}
	return res, true
}

// Phase 获取房间阶段
func (r *Room) Phase() Phase {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.phase
}

// PlayerCount 获取房间人数
func (r *Room) PlayerCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.players)
}

// TurnIndex returns whose turn it is. Meaningful only while started.
func (r *Room) TurnIndex() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.turnIndex
}

// PlayerInfos returns the public view of the seated players, in player-index
// order.
func (r *Room) PlayerInfos() []models.PlayerInfo {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	infos := make([]models.PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		infos = append(infos, models.PlayerInfo{
			ID:     p.SessionID,
			Name:   p.Name,
			Gender: p.Gender,
		})
	}
	return infos
}

// SessionIDs returns the session ids of the seated players.
func (r *Room) SessionIDs() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		ids = append(ids, p.SessionID)
	}
	return ids
}

// PlayerName looks up the display name for a seated session.
func (r *Room) PlayerName(sessionID string) (string, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if p := r.playerBySession(sessionID); p != nil {
		return p.Name, true
	}
	return "", false
}

// Scores returns the per-player scores in player-index order.
func (r *Room) Scores() []int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.balances()
}

// Summary returns the read-only diagnostic view of the room.
func (r *Room) Summary() models.RoomSummary {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return models.RoomSummary{
		ID:      r.ID,
		Players: len(r.players),
		State:   string(r.phase),
	}
}

// Callers must hold r.mutex.
func (r *Room) playerBySession(sessionID string) *Player {
	for _, p := range r.players {
		if p.SessionID == sessionID {
			return p
		}
	}
	return nil
}

func (r *Room) playerIndexBySession(sessionID string) int {
	for i, p := range r.players {
		if p.SessionID == sessionID {
			return i
		}
	}
	return -1
}

func (r *Room) allBombsPlaced() bool {
	for _, p := range r.players {
		if len(p.Bombs) != MaxBombs {
			return false
		}
	}
	return true
}

func (r *Room) balances() []int {
	balances := make([]int, len(r.players))
	for i, p := range r.players {
		balances[i] = p.Score
	}
	return balances
}
