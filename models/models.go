// models/models.go
package models

import (
	"time"
)

// PlayerInfo 玩家信息（广播给房间内所有客户端）
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
}

// PlayerOutcome 玩家对局结果（用于对局记录）
type PlayerOutcome struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Outcome string `json:"outcome"` // win/lose
}

// GameRecord 对局记录模型
type GameRecord struct {
	RoomID      string          `json:"room_id"`
	Players     []PlayerOutcome `json:"players"`
	WinnerIndex int             `json:"winner_index"`
	Outcome     string          `json:"outcome"`  // hit/forfeit
	Duration    int             `json:"duration"` // seconds
	CreatedAt   time.Time       `json:"created_at"`
}

// RoomSummary 房间状态模型（用于 /stats 与 RPC 查询）
type RoomSummary struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
	State   string `json:"state"`
}
