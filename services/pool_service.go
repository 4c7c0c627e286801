package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"prediction-pool-system/models"
	"prediction-pool-system/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// PoolService is the pool registry: it creates and finds pools, manages
// membership and invite codes, and drives the join/create flows that
// copy picks and kick off scoring.
type PoolService struct {
	DB           *gorm.DB
	Picks        *PickService
	Orchestrator *RankingOrchestrator
}

func NewPoolService(db *gorm.DB, picks *PickService, orchestrator *RankingOrchestrator) *PoolService {
	return &PoolService{DB: db, Picks: picks, Orchestrator: orchestrator}
}

// GetOrCreateGlobalPool returns the single individual pool, creating it
// lazily on first access. The oldest registered user serves as nominal
// creator; with an empty users table this returns ErrNoUsersAvailable.
func (s *PoolService) GetOrCreateGlobalPool() (*models.Pool, error) {
	var pool models.Pool
	err := s.DB.Where("name = ? AND type = ?", models.GlobalPoolName, models.PoolTypeIndividual).
		First(&pool).Error
	if err == nil {
		return &pool, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var creator models.User
	if err := s.DB.Order("created_at ASC").First(&creator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoUsersAvailable
		}
		return nil, err
	}

	pool = models.Pool{
		ID:        uuid.NewString(),
		Name:      models.GlobalPoolName,
		Slug:      slug.Make(models.GlobalPoolName),
		Type:      models.PoolTypeIndividual,
		CreatorID: creator.ID,
	}
	if err := s.DB.Create(&pool).Error; err != nil {
		// Lost a race with a concurrent first access: the pool now
		// exists, so read it back instead of failing.
		var existing models.Pool
		if ferr := s.DB.Where("name = ? AND type = ?", models.GlobalPoolName, models.PoolTypeIndividual).
			First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	log.Printf("global pool %q created (nominal creator %s)", pool.Name, creator.ID)
	return &pool, nil
}

// CreateGroupPool creates a group pool with a fresh unique invite code
// and enrolls the creator, both in one transaction.
func (s *PoolService) CreateGroupPool(name, creatorID string) (*models.Pool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("name", "must not be empty")
	}
	if creatorID == "" {
		return nil, validationErr("creator_id", "must not be empty")
	}

	code, err := s.uniqueInviteCode()
	if err != nil {
		return nil, err
	}

	pool := &models.Pool{
		ID:         uuid.NewString(),
		Name:       name,
		Slug:       slug.Make(name),
		Type:       models.PoolTypeGroup,
		InviteCode: &code,
		CreatorID:  creatorID,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pool).Error; err != nil {
			return err
		}
		return tx.Create(&models.PoolParticipant{
			ID:     uuid.NewString(),
			PoolID: pool.ID,
			UserID: creatorID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// uniqueInviteCode generates a code and retries on collision with the
// unique index; the index itself is the final guarantee.
func (s *PoolService) uniqueInviteCode() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := utils.GenerateInviteCode()
		if err != nil {
			return "", err
		}
		var count int64
		if err := s.DB.Model(&models.Pool{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
		log.Printf("invite code %s already taken, retrying", code)
	}
	return "", fmt.Errorf("could not generate a unique invite code")
}

// GetPoolByID returns the pool or ErrNotFound.
func (s *PoolService) GetPoolByID(id string) (*models.Pool, error) {
	var pool models.Pool
	if err := s.DB.First(&pool, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pool, nil
}

// FindByInviteCode is an exact-match lookup; absence is ErrNotFound,
// callers decide how to surface it.
func (s *PoolService) FindByInviteCode(code string) (*models.Pool, error) {
	var pool models.Pool
	if err := s.DB.Where("invite_code = ?", code).First(&pool).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pool, nil
}

// AddParticipant is idempotent: joining twice returns the existing row.
func (s *PoolService) AddParticipant(poolID, userID string) (*models.PoolParticipant, error) {
	var existing models.PoolParticipant
	err := s.DB.Where("pool_id = ? AND user_id = ?", poolID, userID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	participant := &models.PoolParticipant{
		ID:     uuid.NewString(),
		PoolID: poolID,
		UserID: userID,
	}
	if err := s.DB.Create(participant).Error; err != nil {
		// Concurrent join hit the unique index first; return its row.
		var raced models.PoolParticipant
		if ferr := s.DB.Where("pool_id = ? AND user_id = ?", poolID, userID).First(&raced).Error; ferr == nil {
			return &raced, nil
		}
		return nil, err
	}
	return participant, nil
}

// IsParticipant is true when the user is the pool's creator or holds a
// membership row.
func (s *PoolService) IsParticipant(poolID, userID string) (bool, error) {
	var pool models.Pool
	if err := s.DB.Select("creator_id").First(&pool, "id = ?", poolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if pool.CreatorID == userID {
		return true, nil
	}
	var count int64
	if err := s.DB.Model(&models.PoolParticipant{}).
		Where("pool_id = ? AND user_id = ?", poolID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserPools returns every pool the user holds a membership row in.
func (s *PoolService) GetUserPools(userID string) ([]models.Pool, error) {
	var participations []models.PoolParticipant
	if err := s.DB.Where("user_id = ?", userID).Find(&participations).Error; err != nil {
		return nil, err
	}
	if len(participations) == 0 {
		return []models.Pool{}, nil
	}
	ids := make([]string, len(participations))
	for i, p := range participations {
		ids[i] = p.PoolID
	}
	var pools []models.Pool
	if err := s.DB.Where("id IN ?", ids).Find(&pools).Error; err != nil {
		return nil, err
	}
	return pools, nil
}

// GetPoolParticipants lists the membership rows with user profiles.
func (s *PoolService) GetPoolParticipants(poolID string) ([]models.PoolParticipant, error) {
	var participants []models.PoolParticipant
	if err := s.DB.Preload("User").
		Where("pool_id = ?", poolID).
		Order("joined_at ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

// RemoveParticipant drops the membership row and the user's picks in
// the pool. The next scoring pass drops their ranking entry.
func (s *PoolService) RemoveParticipant(poolID, userID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("pool_id = ? AND user_id = ?", poolID, userID).
			Delete(&models.PoolParticipant{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("pool_id = ? AND user_id = ?", poolID, userID).
			Delete(&models.Pick{}).Error
	})
}

// DeletePool hard-deletes the pool and everything hanging off it.
// Authorization (only the creator may delete) is the caller's job.
func (s *PoolService) DeletePool(id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pool_id = ?", id).Delete(&models.Pick{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pool_id = ?", id).Delete(&models.RankingEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pool_id = ?", id).Delete(&models.PoolParticipant{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Pool{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CreateGroupPoolWithPicks creates a group pool and seeds it with the
// creator's individual picks, then recomputes the group ranking first
// and the global ranking second. Scoring failures are logged, never
// surfaced: the pool was created and the next recompute heals staleness.
func (s *PoolService) CreateGroupPoolWithPicks(name, creatorID string) (*models.Pool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("name", "must not be empty")
	}

	global, err := s.GetOrCreateGlobalPool()
	if err != nil {
		return nil, err
	}

	code, err := s.uniqueInviteCode()
	if err != nil {
		return nil, err
	}

	pool := &models.Pool{
		ID:         uuid.NewString(),
		Name:       name,
		Slug:       slug.Make(name),
		Type:       models.PoolTypeGroup,
		InviteCode: &code,
		CreatorID:  creatorID,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pool).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.PoolParticipant{
			ID:     uuid.NewString(),
			PoolID: pool.ID,
			UserID: creatorID,
		}).Error; err != nil {
			return err
		}
		_, err := copyPicks(tx, creatorID, global.ID, pool.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.Orchestrator.RecalculateForPool(pool.ID); err != nil {
		log.Printf("ranking recompute after creating pool %s failed: %v", pool.ID, err)
	}
	return pool, nil
}

// JoinGroupPool adds the user to the pool behind the invite code and
// copies their individual picks in. Unknown codes are ErrNotFound with
// no side effects; rejoining is ErrConflict.
func (s *PoolService) JoinGroupPool(inviteCode, userID string) (*models.Pool, error) {
	if userID == "" {
		return nil, validationErr("user_id", "must not be empty")
	}
	pool, err := s.FindByInviteCode(inviteCode)
	if err != nil {
		return nil, err
	}
	if pool.Type != models.PoolTypeGroup {
		return nil, validationErr("invite_code", "pool is not a group pool")
	}
	if err := s.AddMemberAndCopyPicks(pool.ID, userID); err != nil {
		return nil, err
	}

	if err := s.Orchestrator.RecalculateForPool(pool.ID); err != nil {
		log.Printf("ranking recompute after join of pool %s failed: %v", pool.ID, err)
	}
	return pool, nil
}

// AddMemberAndCopyPicks enrolls the user and copies their global-pool
// picks into the target pool in one transaction, so a failed copy never
// leaves a half-joined member behind.
func (s *PoolService) AddMemberAndCopyPicks(poolID, userID string) error {
	var count int64
	if err := s.DB.Model(&models.PoolParticipant{}).
		Where("pool_id = ? AND user_id = ?", poolID, userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}

	global, err := s.GetOrCreateGlobalPool()
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.PoolParticipant{
			ID:     uuid.NewString(),
			PoolID: poolID,
			UserID: userID,
		}).Error; err != nil {
			return err
		}
		_, err := copyPicks(tx, userID, global.ID, poolID)
		return err
	})
}
