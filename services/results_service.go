package services

import (
	"errors"
	"log"

	"prediction-pool-system/models"

	"gorm.io/gorm"
)

// ResultsService records category winners as the ceremony announces
// them. A category's winner is set exactly once; every declaration
// triggers a full recompute of all rankings.
type ResultsService struct {
	DB           *gorm.DB
	Orchestrator *RankingOrchestrator
}

func NewResultsService(db *gorm.DB, orchestrator *RankingOrchestrator) *ResultsService {
	return &ResultsService{DB: db, Orchestrator: orchestrator}
}

// SetCategoryWinner marks the nominee as its category's winner.
// Declaring the same winner again is a no-op; declaring a different one
// after a winner exists is ErrConflict. The recompute that follows is
// best-effort: a failure is logged and healed by the next pass.
func (s *ResultsService) SetCategoryWinner(categoryID, nomineeID string) (*models.Nominee, error) {
	var nominee models.Nominee
	if err := s.DB.First(&nominee, "id = ?", nomineeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if nominee.CategoryID != categoryID {
		return nil, validationErr("nominee_id", "nominee does not belong to the category")
	}
	if nominee.IsWinner {
		return &nominee, nil
	}

	var existing int64
	if err := s.DB.Model(&models.Nominee{}).
		Where("category_id = ? AND is_winner = ?", categoryID, true).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrConflict
	}

	if err := s.DB.Model(&nominee).Update("is_winner", true).Error; err != nil {
		return nil, err
	}
	nominee.IsWinner = true
	log.Printf("winner declared for category %s: %s", categoryID, nominee.Name)

	if err := s.Orchestrator.RecalculateAll(); err != nil {
		log.Printf("ranking recompute after winner declaration failed: %v", err)
	}
	return &nominee, nil
}

// GetWinners lists every declared winner so far.
func (s *ResultsService) GetWinners() ([]models.Nominee, error) {
	var winners []models.Nominee
	if err := s.DB.Where("is_winner = ?", true).Find(&winners).Error; err != nil {
		return nil, err
	}
	return winners, nil
}
