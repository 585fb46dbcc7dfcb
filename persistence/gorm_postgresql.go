// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/minefield/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&GameRecordModel{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// GameRecordModel 对局记录表
type GameRecordModel struct {
	ID          uint                   `gorm:"primaryKey"`
	RoomID      string                 `gorm:"index;not null"`
	Players     []models.PlayerOutcome `gorm:"type:jsonb;serializer:json"`
	WinnerIndex int                    `gorm:"not null"`
	Outcome     string                 `gorm:"not null"`
	Duration    int                    `gorm:"default:0"`
	CreatedAt   time.Time
}

func (GameRecordModel) TableName() string { return "game_records" }

// SaveGameRecord 保存对局记录
func (p *GormPostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	row := GameRecordModel{
		RoomID:      record.RoomID,
		Players:     record.Players,
		WinnerIndex: record.WinnerIndex,
		Outcome:     record.Outcome,
		Duration:    record.Duration,
		CreatedAt:   record.CreatedAt,
	}
	return p.db.Create(&row).Error
}

// RecentRecords 查询最近的对局记录
func (p *GormPostgreSQL) RecentRecords(limit int) ([]models.GameRecord, error) {
	var rows []GameRecordModel
	if err := p.db.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]models.GameRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.GameRecord{
			RoomID:      row.RoomID,
			Players:     row.Players,
			WinnerIndex: row.WinnerIndex,
			Outcome:     row.Outcome,
			Duration:    row.Duration,
			CreatedAt:   row.CreatedAt,
		})
	}
	return records, nil
}

// Leaderboard 胜场排行榜
func (p *GormPostgreSQL) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry

	// 使用原生SQL统计 jsonb players 列中的胜场
	err := p.db.Raw(
		`
        SELECT p->>'name' AS name, COUNT(*) AS wins
        FROM game_records, jsonb_array_elements(players) AS p
        WHERE p->>'outcome' = 'win'
        GROUP BY p->>'name'
        ORDER BY wins DESC
        LIMIT ?`,
		limit,
	).Scan(&entries).Error

	return entries, err
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
