package services

import (
	"errors"
	"sort"
	"time"

	"prediction-pool-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PickService is the pick aggregator: it owns Pick records, the
// cross-pool copy used when joining a group, and the completion check.
type PickService struct {
	DB *gorm.DB
}

func NewPickService(db *gorm.DB) *PickService {
	return &PickService{DB: db}
}

// PickInput is one (category, nominee) choice in a submission.
type PickInput struct {
	CategoryID string `json:"category_id"`
	NomineeID  string `json:"nominee_id"`
}

// pickConflictKey is the unique key picks upsert against.
var pickConflictKey = []clause.Column{
	{Name: "user_id"}, {Name: "category_id"}, {Name: "pool_id"},
}

// UpsertPick inserts or replaces the user's pick for the category in
// the pool. Last write wins; there is no versioning.
func (s *PickService) UpsertPick(userID, poolID, categoryID, nomineeID string) (*models.Pick, error) {
	if userID == "" || poolID == "" || categoryID == "" || nomineeID == "" {
		return nil, validationErr("pick", "user_id, pool_id, category_id and nominee_id are required")
	}

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

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := upsertPick(tx, userID, poolID, categoryID, nomineeID); err != nil {
			return err
		}
		return markCompletion(tx, userID, poolID)
	})
	if err != nil {
		return nil, err
	}

	var pick models.Pick
	if err := s.DB.Where("user_id = ? AND category_id = ? AND pool_id = ?", userID, categoryID, poolID).
		First(&pick).Error; err != nil {
		return nil, err
	}
	return &pick, nil
}

// UpsertMany writes a batch of picks for one user in one pool as a
// single transaction.
func (s *PickService) UpsertMany(userID, poolID string, inputs []PickInput) ([]models.Pick, error) {
	if userID == "" || poolID == "" {
		return nil, validationErr("pick", "user_id and pool_id are required")
	}
	for _, in := range inputs {
		if in.CategoryID == "" || in.NomineeID == "" {
			return nil, validationErr("picks", "category_id and nominee_id are required on every pick")
		}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			if err := upsertPick(tx, userID, poolID, in.CategoryID, in.NomineeID); err != nil {
				return err
			}
		}
		return markCompletion(tx, userID, poolID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetUserPicks(poolID, userID)
}

// upsertPick is the shared insert-or-replace keyed by the unique
// (user, category, pool) index.
func upsertPick(tx *gorm.DB, userID, poolID, categoryID, nomineeID string) error {
	pick := models.Pick{
		ID:         uuid.NewString(),
		UserID:     userID,
		PoolID:     poolID,
		CategoryID: categoryID,
		NomineeID:  nomineeID,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   pickConflictKey,
		DoUpdates: clause.Assignments(map[string]interface{}{"nominee_id": nomineeID, "updated_at": time.Now()}),
	}).Create(&pick).Error
}

// markCompletion stamps the participant's PicksCompletedAt the first
// time their pick count covers every category. The stamp is written
// once and never moves; ranking ties break on it.
func markCompletion(tx *gorm.DB, userID, poolID string) error {
	var totalCategories int64
	if err := tx.Model(&models.Category{}).Count(&totalCategories).Error; err != nil {
		return err
	}
	if totalCategories == 0 {
		return nil
	}
	var userPicks int64
	if err := tx.Model(&models.Pick{}).
		Where("user_id = ? AND pool_id = ?", userID, poolID).
		Count(&userPicks).Error; err != nil {
		return err
	}
	if userPicks != totalCategories {
		return nil
	}
	now := time.Now()
	return tx.Model(&models.PoolParticipant{}).
		Where("pool_id = ? AND user_id = ? AND picks_completed_at IS NULL", poolID, userID).
		Update("picks_completed_at", &now).Error
}

// CopyPicks copies all of the user's picks from one pool to another as
// a single atomic batch; a failure partway leaves the target untouched.
// Returns the copied picks, empty when the source has none.
func (s *PickService) CopyPicks(userID, fromPoolID, toPoolID string) ([]models.Pick, error) {
	var copied []models.Pick
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		copied, err = copyPicks(tx, userID, fromPoolID, toPoolID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

// copyPicks runs inside the caller's transaction so join flows can
// bundle membership and copy into one write.
func copyPicks(tx *gorm.DB, userID, fromPoolID, toPoolID string) ([]models.Pick, error) {
	var source []models.Pick
	if err := tx.Where("user_id = ? AND pool_id = ?", userID, fromPoolID).
		Find(&source).Error; err != nil {
		return nil, err
	}
	if len(source) == 0 {
		return []models.Pick{}, nil
	}

	copied := make([]models.Pick, 0, len(source))
	for _, p := range source {
		if err := upsertPick(tx, userID, toPoolID, p.CategoryID, p.NomineeID); err != nil {
			return nil, err
		}
		copied = append(copied, models.Pick{
			UserID:     userID,
			PoolID:     toPoolID,
			CategoryID: p.CategoryID,
			NomineeID:  p.NomineeID,
		})
	}
	if err := markCompletion(tx, userID, toPoolID); err != nil {
		return nil, err
	}
	return copied, nil
}

// HasCompletedAllPicks is a plain count equality: the unique pick key
// guarantees no duplicates, so equal counts mean full coverage.
func (s *PickService) HasCompletedAllPicks(userID, poolID string) (bool, error) {
	var totalCategories int64
	if err := s.DB.Model(&models.Category{}).Count(&totalCategories).Error; err != nil {
		return false, err
	}
	var userPicks int64
	if err := s.DB.Model(&models.Pick{}).
		Where("user_id = ? AND pool_id = ?", userID, poolID).
		Count(&userPicks).Error; err != nil {
		return false, err
	}
	return totalCategories == userPicks, nil
}

// GetUserPicks returns the user's picks in a pool with category and
// nominee loaded, ordered by category display order.
func (s *PickService) GetUserPicks(poolID, userID string) ([]models.Pick, error) {
	var picks []models.Pick
	if err := s.DB.Preload("Category").Preload("Nominee").
		Where("user_id = ? AND pool_id = ?", userID, poolID).
		Find(&picks).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].Category.DisplayOrder < picks[j].Category.DisplayOrder
	})
	return picks, nil
}

// GetPoolPicks returns every participant's picks in a pool.
func (s *PickService) GetPoolPicks(poolID string) ([]models.Pick, error) {
	var picks []models.Pick
	if err := s.DB.Preload("User").Preload("Category").Preload("Nominee").
		Where("pool_id = ?", poolID).
		Find(&picks).Error; err != nil {
		return nil, err
	}
	return picks, nil
}

// GetPick fetches one pick or ErrNotFound.
func (s *PickService) GetPick(userID, poolID, categoryID string) (*models.Pick, error) {
	var pick models.Pick
	if err := s.DB.Where("user_id = ? AND pool_id = ? AND category_id = ?", userID, poolID, categoryID).
		First(&pick).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pick, nil
}

// GetAllCategories lists the voting categories in display order.
func (s *PickService) GetAllCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.DB.Order("display_order ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategoriesWithNominees lists categories with their nominees, in
// display order.
func (s *PickService) GetCategoriesWithNominees() ([]models.Category, error) {
	var categories []models.Category
	if err := s.DB.Preload("Nominees").Order("display_order ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategoryNominees lists the nominees of one category.
func (s *PickService) GetCategoryNominees(categoryID string) ([]models.Nominee, error) {
	var nominees []models.Nominee
	if err := s.DB.Where("category_id = ?", categoryID).Find(&nominees).Error; err != nil {
		return nil, err
	}
	return nominees, nil
}
