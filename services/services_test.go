package services

import (
	"fmt"
	"strings"
	"testing"

	"prediction-pool-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Pool{},
		&models.PoolParticipant{},
		&models.Category{},
		&models.Nominee{},
		&models.Pick{},
		&models.RankingEntry{},
	))
	return db
}

type testServices struct {
	Pools        *PoolService
	Picks        *PickService
	Ranking      *RankingService
	Orchestrator *RankingOrchestrator
	Results      *ResultsService
	Users        *UserService
}

func newTestServices(t *testing.T) (*testServices, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	ranking := NewRankingService(db)
	orchestrator := NewRankingOrchestrator(db, ranking)
	picks := NewPickService(db)
	return &testServices{
		Pools:        NewPoolService(db, picks, orchestrator),
		Picks:        picks,
		Ranking:      ranking,
		Orchestrator: orchestrator,
		Results:      NewResultsService(db, orchestrator),
		Users:        NewUserService(db),
	}, db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.NewString(), Name: name, Email: email}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string, order int) *models.Category {
	t.Helper()
	category := &models.Category{ID: uuid.NewString(), Name: name, DisplayOrder: order}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedNominee(t *testing.T, db *gorm.DB, categoryID, name string) *models.Nominee {
	t.Helper()
	nominee := &models.Nominee{ID: uuid.NewString(), CategoryID: categoryID, Name: name}
	require.NoError(t, db.Create(nominee).Error)
	return nominee
}

// seedCeremony creates n categories with two nominees each and returns
// them; the first nominee of each pair is the one tests declare winner.
func seedCeremony(t *testing.T, db *gorm.DB, n int) ([]*models.Category, [][]*models.Nominee) {
	t.Helper()
	categories := make([]*models.Category, n)
	nominees := make([][]*models.Nominee, n)
	for i := 0; i < n; i++ {
		categories[i] = seedCategory(t, db, fmt.Sprintf("Categoria %d", i+1), i+1)
		nominees[i] = []*models.Nominee{
			seedNominee(t, db, categories[i].ID, fmt.Sprintf("Indicado %d-A", i+1)),
			seedNominee(t, db, categories[i].ID, fmt.Sprintf("Indicado %d-B", i+1)),
		}
	}
	return categories, nominees
}

func declareWinner(t *testing.T, db *gorm.DB, nominee *models.Nominee) {
	t.Helper()
	require.NoError(t, db.Model(nominee).Update("is_winner", true).Error)
}
