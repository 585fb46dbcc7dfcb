// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/wfunc/minefield/models"
)

// PostgreSQL 使用database/sql的实现, for deployments that prefer plain SQL
// over GORM. Both implementations share the game_records table shape.
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建PostgreSQL数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	p := &PostgreSQL{db: db}
	if err := p.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func (p *PostgreSQL) migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS game_records (
            id BIGSERIAL PRIMARY KEY,
            room_id TEXT NOT NULL,
            players JSONB NOT NULL,
            winner_index INT NOT NULL,
            outcome TEXT NOT NULL,
            duration INT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
        CREATE INDEX IF NOT EXISTS idx_game_records_room_id ON game_records (room_id)`)
	return err
}

// SaveGameRecord 保存对局记录
func (p *PostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	players, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = p.db.ExecContext(ctx, `
        INSERT INTO game_records (room_id, players, winner_index, outcome, duration, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		record.RoomID, players, record.WinnerIndex, record.Outcome,
		record.Duration, record.CreatedAt,
	)
	return err
}

// RecentRecords 查询最近的对局记录
func (p *PostgreSQL) RecentRecords(limit int) ([]models.GameRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, `
        SELECT room_id, players, winner_index, outcome, duration, created_at
        FROM game_records
        ORDER BY created_at DESC
        LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.GameRecord
	for rows.Next() {
		var record models.GameRecord
		var players []byte
		if err := rows.Scan(&record.RoomID, &players, &record.WinnerIndex,
			&record.Outcome, &record.Duration, &record.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(players, &record.Players); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Leaderboard 胜场排行榜
func (p *PostgreSQL) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, `
        SELECT p->>'name' AS name, COUNT(*) AS wins
        FROM game_records, jsonb_array_elements(players) AS p
        WHERE p->>'outcome' = 'win'
        GROUP BY p->>'name'
        ORDER BY wins DESC
        LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var entry LeaderboardEntry
		if err := rows.Scan(&entry.Name, &entry.Wins); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
