// services/record_service.go
package services

import (
	"time"

	"github.com/wfunc/minefield/models"
	"github.com/wfunc/minefield/persistence"
)

// Outcome values stored on a game record.
const (
	OutcomeHit     = "hit"
	OutcomeForfeit = "forfeit"
)

// RecordService turns finished rooms into persisted match records and exposes
// the read side used by the diagnostics RPC.
type RecordService struct {
	db persistence.Database
}

func NewRecordService(db persistence.Database) *RecordService {
	return &RecordService{db: db}
}

// BuildRecord composes a match record. players and scores are in player-index
// order at the moment the game finished.
func BuildRecord(roomID, outcome string, winnerIndex int, players []models.PlayerOutcome, duration time.Duration) *models.GameRecord {
	return &models.GameRecord{
		RoomID:      roomID,
		Players:     players,
		WinnerIndex: winnerIndex,
		Outcome:     outcome,
		Duration:    int(duration.Seconds()),
		CreatedAt:   time.Now(),
	}
}

// BuildOutcomes pairs names and scores with win/lose flags.
func BuildOutcomes(names []string, scores []int, winnerIndex int) []models.PlayerOutcome {
	outcomes := make([]models.PlayerOutcome, len(names))
	for i, name := range names {
		result := "lose"
		if i == winnerIndex {
			result = "win"
		}
		outcomes[i] = models.PlayerOutcome{
			Name:    name,
			Score:   scores[i],
			Outcome: result,
		}
	}
	return outcomes
}

// Save writes the record.
func (s *RecordService) Save(record *models.GameRecord) error {
	return s.db.SaveGameRecord(record)
}

// Recent returns the latest finished matches.
func (s *RecordService) Recent(limit int) ([]models.GameRecord, error) {
	return s.db.RecentRecords(limit)
}

// Leaderboard returns the win-count leaderboard.
func (s *RecordService) Leaderboard(limit int) ([]persistence.LeaderboardEntry, error) {
	return s.db.Leaderboard(limit)
}
