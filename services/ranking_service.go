package services

import (
	"errors"
	"sort"
	"time"

	"prediction-pool-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RankingService is the scoring engine. A scoring pass loads a pool's
// participants, picks and the declared winners, computes points and
// dense positions in memory, and replaces the pool's ranking rows in
// one transaction. A failed pass leaves the previous rows untouched.
type RankingService struct {
	DB *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{DB: db}
}

// participantStanding is the in-memory working row of a scoring pass.
type participantStanding struct {
	UserID      string
	Name        string
	Points      int
	CompletedAt *time.Time
}

// Recalculate runs one full scoring pass for the pool and replaces all
// of its ranking entries. For the global pool the participant set also
// includes each group pool's current #1 member, scored by their
// global-pool picks; group rankings must therefore be recomputed first.
func (s *RankingService) Recalculate(poolID string) error {
	var pool models.Pool
	if err := s.DB.First(&pool, "id = ?", poolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	standings, err := s.loadStandings(&pool)
	if err != nil {
		return err
	}

	winners, err := s.loadWinners()
	if err != nil {
		return err
	}

	var picks []models.Pick
	if err := s.DB.Where("pool_id = ?", poolID).Find(&picks).Error; err != nil {
		return err
	}

	points := scorePicks(picks, winners)
	for i := range standings {
		standings[i].Points = points[standings[i].UserID]
	}
	rankStandings(standings)

	entries := make([]models.RankingEntry, len(standings))
	for i, st := range standings {
		entries[i] = models.RankingEntry{
			ID:       uuid.NewString(),
			PoolID:   poolID,
			UserID:   st.UserID,
			Points:   st.Points,
			Position: positionOf(standings, i),
		}
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pool_id = ?", poolID).Delete(&models.RankingEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

// loadStandings builds the participant set for a scoring pass: the
// membership rows plus the creator, and for the global pool every group
// pool's current top-ranked member.
func (s *RankingService) loadStandings(pool *models.Pool) ([]participantStanding, error) {
	var rows []models.PoolParticipant
	if err := s.DB.Preload("User").Where("pool_id = ?", pool.ID).Find(&rows).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(rows)+1)
	standings := make([]participantStanding, 0, len(rows)+1)
	for _, row := range rows {
		if seen[row.UserID] {
			continue
		}
		seen[row.UserID] = true
		standings = append(standings, participantStanding{
			UserID:      row.UserID,
			Name:        row.User.Name,
			CompletedAt: row.PicksCompletedAt,
		})
	}

	if !seen[pool.CreatorID] {
		var creator models.User
		if err := s.DB.First(&creator, "id = ?", pool.CreatorID).Error; err != nil &&
			!errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		seen[pool.CreatorID] = true
		standings = append(standings, participantStanding{
			UserID: pool.CreatorID,
			Name:   creator.Name,
		})
	}

	if pool.IsGlobal() {
		reps, err := s.groupRepresentatives()
		if err != nil {
			return nil, err
		}
		for _, rep := range reps {
			if seen[rep.UserID] {
				continue
			}
			seen[rep.UserID] = true
			standings = append(standings, rep)
		}
	}
	return standings, nil
}

// groupRepresentatives returns a standing for the #1-ranked member of
// every group pool. These users join the global ranking even without a
// global membership row; their points still come from their global
// picks, which is usually zero in that case.
func (s *RankingService) groupRepresentatives() ([]participantStanding, error) {
	var tops []models.RankingEntry
	err := s.DB.Preload("User").
		Joins("JOIN pools ON pools.id = ranking_entries.pool_id AND pools.type = ?", models.PoolTypeGroup).
		Where("ranking_entries.position = 1").
		Find(&tops).Error
	if err != nil {
		return nil, err
	}
	reps := make([]participantStanding, 0, len(tops))
	for _, top := range tops {
		reps = append(reps, participantStanding{
			UserID: top.UserID,
			Name:   top.User.Name,
		})
	}
	return reps, nil
}

// loadWinners maps each category to its declared winning nominee.
// Categories without a winner are simply absent.
func (s *RankingService) loadWinners() (map[string]string, error) {
	var winners []models.Nominee
	if err := s.DB.Where("is_winner = ?", true).Find(&winners).Error; err != nil {
		return nil, err
	}
	byCategory := make(map[string]string, len(winners))
	for _, w := range winners {
		byCategory[w.CategoryID] = w.ID
	}
	return byCategory, nil
}

// scorePicks tallies one point per pick that matches its category's
// winning nominee. Categories without a winner contribute nothing.
func scorePicks(picks []models.Pick, winners map[string]string) map[string]int {
	points := make(map[string]int)
	for _, pick := range picks {
		if winnerID, declared := winners[pick.CategoryID]; declared && winnerID == pick.NomineeID {
			points[pick.UserID]++
		}
	}
	return points
}

// rankStandings orders standings by points descending, then earliest
// pick-set completion (never-completed last), then name and user id so
// the listing is stable.
func rankStandings(standings []participantStanding) {
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		switch {
		case a.CompletedAt != nil && b.CompletedAt != nil && !a.CompletedAt.Equal(*b.CompletedAt):
			return a.CompletedAt.Before(*b.CompletedAt)
		case a.CompletedAt != nil && b.CompletedAt == nil:
			return true
		case a.CompletedAt == nil && b.CompletedAt != nil:
			return false
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.UserID < b.UserID
	})
}

// positionOf assigns dense positions over the sorted standings: rows
// tied on both points and completion time share a position.
func positionOf(standings []participantStanding, i int) int {
	position := 1
	for k := 1; k <= i; k++ {
		if !tied(standings[k-1], standings[k]) {
			position++
		}
	}
	return position
}

func tied(a, b participantStanding) bool {
	if a.Points != b.Points {
		return false
	}
	switch {
	case a.CompletedAt == nil && b.CompletedAt == nil:
		return true
	case a.CompletedAt == nil || b.CompletedAt == nil:
		return false
	}
	return a.CompletedAt.Equal(*b.CompletedAt)
}

// GetRanking returns the pool's ranking ordered by position.
func (s *RankingService) GetRanking(poolID string) ([]models.RankingEntry, error) {
	var entries []models.RankingEntry
	if err := s.DB.Preload("User").
		Where("pool_id = ?", poolID).
		Order("position ASC, points DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GetTopRanking returns the first limit entries of the pool's ranking.
func (s *RankingService) GetTopRanking(poolID string, limit int) ([]models.RankingEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	var entries []models.RankingEntry
	if err := s.DB.Preload("User").
		Where("pool_id = ?", poolID).
		Order("position ASC, points DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GetUserPosition fetches one user's entry in a pool or ErrNotFound
// when they have not been ranked yet.
func (s *RankingService) GetUserPosition(poolID, userID string) (*models.RankingEntry, error) {
	var entry models.RankingEntry
	if err := s.DB.Preload("User").
		Where("pool_id = ? AND user_id = ?", poolID, userID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetRankingStats summarizes a pool's ranking.
func (s *RankingService) GetRankingStats(poolID string) (*models.RankingStats, error) {
	var entries []models.RankingEntry
	if err := s.DB.Select("points").Where("pool_id = ?", poolID).Find(&entries).Error; err != nil {
		return nil, err
	}
	stats := &models.RankingStats{TotalParticipants: len(entries)}
	if len(entries) == 0 {
		return stats, nil
	}
	sum := 0
	stats.MaxPoints = entries[0].Points
	stats.MinPoints = entries[0].Points
	for _, e := range entries {
		sum += e.Points
		if e.Points > stats.MaxPoints {
			stats.MaxPoints = e.Points
		}
		if e.Points < stats.MinPoints {
			stats.MinPoints = e.Points
		}
	}
	stats.AveragePoints = float64(sum) / float64(len(entries))
	return stats, nil
}
