// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/minefield/models"
)

// Database 对局记录存储接口. Live room state is never persisted; only
// immutable match records are written after a game finishes.
type Database interface {
	SaveGameRecord(record *models.GameRecord) error
	RecentRecords(limit int) ([]models.GameRecord, error)
	Leaderboard(limit int) ([]LeaderboardEntry, error)
	Close() error
}

// LeaderboardEntry is one row of the win-count leaderboard.
type LeaderboardEntry struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)

// Noop discards every record; used when the database is disabled.
type Noop struct{}

func (Noop) SaveGameRecord(*models.GameRecord) error { return nil }

func (Noop) RecentRecords(int) ([]models.GameRecord, error) { return nil, nil }

func (Noop) Leaderboard(int) ([]LeaderboardEntry, error) { return nil, nil }

func (Noop) Close() error { return nil }
