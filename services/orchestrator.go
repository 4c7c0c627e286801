package services

import (
	"errors"
	"log"

	"prediction-pool-system/models"

	"gorm.io/gorm"
)

// RankingOrchestrator sequences scoring passes after mutating events.
// The one ordering rule that matters: a group recompute always runs
// before the global recompute, because the global pass reads each
// group's fresh #1 member. All recomputation is synchronous; callers
// treat failures as tolerated staleness, healed by the next pass.
type RankingOrchestrator struct {
	DB      *gorm.DB
	Ranking *RankingService
}

func NewRankingOrchestrator(db *gorm.DB, ranking *RankingService) *RankingOrchestrator {
	return &RankingOrchestrator{DB: db, Ranking: ranking}
}

// RecalculateForPool recomputes the given pool and whatever depends on
// it: a group pool is recomputed first and the global pool second; the
// global pool recomputes alone.
func (o *RankingOrchestrator) RecalculateForPool(poolID string) error {
	var pool models.Pool
	if err := o.DB.First(&pool, "id = ?", poolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if pool.Type == models.PoolTypeGroup {
		if err := o.Ranking.Recalculate(pool.ID); err != nil {
			return err
		}
	}
	return o.RecalculateGlobal()
}

// RecalculateGlobal recomputes the global pool's ranking. When the
// global pool does not exist yet there is nothing to score.
func (o *RankingOrchestrator) RecalculateGlobal() error {
	var pool models.Pool
	err := o.DB.Where("name = ? AND type = ?", models.GlobalPoolName, models.PoolTypeIndividual).
		First(&pool).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return o.Ranking.Recalculate(pool.ID)
}

// AfterPickChange recomputes every pool the user belongs to. Group
// passes run first and the global pass last; individual group failures
// are logged and skipped so one bad pool cannot stall the rest.
func (o *RankingOrchestrator) AfterPickChange(userID string) error {
	var participations []models.PoolParticipant
	if err := o.DB.Where("user_id = ?", userID).Find(&participations).Error; err != nil {
		return err
	}
	if len(participations) == 0 {
		return o.RecalculateGlobal()
	}

	ids := make([]string, len(participations))
	for i, p := range participations {
		ids[i] = p.PoolID
	}
	var pools []models.Pool
	if err := o.DB.Where("id IN ? AND type = ?", ids, models.PoolTypeGroup).Find(&pools).Error; err != nil {
		return err
	}
	for _, pool := range pools {
		if err := o.Ranking.Recalculate(pool.ID); err != nil {
			log.Printf("recompute of group pool %s failed: %v", pool.ID, err)
		}
	}
	return o.RecalculateGlobal()
}

// RecalculateAll re-runs every group pool's scoring pass and then the
// global one. Used after winners change and by the refresh scheduler.
func (o *RankingOrchestrator) RecalculateAll() error {
	var groups []models.Pool
	if err := o.DB.Where("type = ?", models.PoolTypeGroup).Find(&groups).Error; err != nil {
		return err
	}
	for _, pool := range groups {
		if err := o.Ranking.Recalculate(pool.ID); err != nil {
			log.Printf("recompute of group pool %s failed: %v", pool.ID, err)
		}
	}
	return o.RecalculateGlobal()
}

// GroupPositionInGlobal derives a group's standing in the global
// ranking from its current #1 member. ErrNotFound when the group has no
// ranked member yet or that member is absent from the global ranking.
// The derivation always reads the latest persisted rows of both pools.
func (o *RankingOrchestrator) GroupPositionInGlobal(groupPoolID string) (*models.GroupGlobalStanding, error) {
	var top models.RankingEntry
	err := o.DB.Preload("User").
		Where("pool_id = ?", groupPoolID).
		Order("position ASC, points DESC").
		First(&top).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var global models.Pool
	err = o.DB.Where("name = ? AND type = ?", models.GlobalPoolName, models.PoolTypeIndividual).
		First(&global).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	globalEntry, err := o.Ranking.GetUserPosition(global.ID, top.UserID)
	if err != nil {
		return nil, err
	}

	return &models.GroupGlobalStanding{
		GroupPoolID:    groupPoolID,
		Representative: top.UserID,
		Name:           top.User.Name,
		Points:         globalEntry.Points,
		Position:       globalEntry.Position,
	}, nil
}
