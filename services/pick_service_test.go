package services

import (
	"testing"

	"prediction-pool-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertPick_InsertThenReplace(t *testing.T) {
	svc, db := newTestServices(t)
	_, nominees := seedCeremony(t, db, 2)
	user := seedUser(t, db, "Ana", "ana@example.com")
	pool, err := svc.Pools.CreateGroupPool("Bolão", user.ID)
	require.NoError(t, err)

	categoryID := nominees[0][0].CategoryID
	pick, err := svc.Picks.UpsertPick(user.ID, pool.ID, categoryID, nominees[0][0].ID)
	require.NoError(t, err)
	assert.Equal(t, nominees[0][0].ID, pick.NomineeID)

	replaced, err := svc.Picks.UpsertPick(user.ID, pool.ID, categoryID, nominees[0][1].ID)
	require.NoError(t, err)
	assert.Equal(t, nominees[0][1].ID, replaced.NomineeID)

	var count int64
	require.NoError(t, db.Model(&models.Pick{}).
		Where("user_id = ? AND category_id = ? AND pool_id = ?", user.ID, categoryID, pool.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertPick_NomineeOutsideCategory(t *testing.T) {
	svc, db := newTestServices(t)
	_, nominees := seedCeremony(t, db, 2)
	user := seedUser(t, db, "Ana", "ana@example.com")
	pool, err := svc.Pools.CreateGroupPool("Bolão", user.ID)
	require.NoError(t, err)

	_, err = svc.Picks.UpsertPick(user.ID, pool.ID, nominees[0][0].CategoryID, nominees[1][0].ID)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Picks.UpsertPick(user.ID, pool.ID, nominees[0][0].CategoryID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompletionStampSetOnceAtFullCoverage(t *testing.T) {
	svc, db := newTestServices(t)
	_, nominees := seedCeremony(t, db, 3)
	user := seedUser(t, db, "Ana", "ana@example.com")
	pool, err := svc.Pools.CreateGroupPool("Bolão", user.ID)
	require.NoError(t, err)

	loadRow := func() models.PoolParticipant {
		var row models.PoolParticipant
		require.NoError(t, db.Where("pool_id = ? AND user_id = ?", pool.ID, user.ID).First(&row).Error)
		return row
	}

	_, err = svc.Picks.UpsertPick(user.ID, pool.ID, nominees[0][0].CategoryID, nominees[0][0].ID)
	require.NoError(t, err)
	_, err = svc.Picks.UpsertPick(user.ID, pool.ID, nominees[1][0].CategoryID, nominees[1][0].ID)
	require.NoError(t, err)
	assert.Nil(t, loadRow().PicksCompletedAt)

	done, err := svc.Picks.HasCompletedAllPicks(user.ID, pool.ID)
	require.NoError(t, err)
	assert.False(t, done)

	_, err = svc.Picks.UpsertPick(user.ID, pool.ID, nominees[2][0].CategoryID, nominees[2][0].ID)
	require.NoError(t, err)
	first := loadRow().PicksCompletedAt
	require.NotNil(t, first)

	done, err = svc.Picks.HasCompletedAllPicks(user.ID, pool.ID)
	require.NoError(t, err)
	assert.True(t, done)

	// Revising a pick keeps the original stamp.
	_, err = svc.Picks.UpsertPick(user.ID, pool.ID, nominees[2][1].CategoryID, nominees[2][1].ID)
	require.NoError(t, err)
	second := loadRow().PicksCompletedAt
	require.NotNil(t, second)
	assert.True(t, first.Equal(*second))
}

func TestUpsertMany(t *testing.T) {
	svc, db := newTestServices(t)
	_, nominees := seedCeremony(t, db, 3)
	user := seedUser(t, db, "Ana", "ana@example.com")
	pool, err := svc.Pools.CreateGroupPool("Bolão", user.ID)
	require.NoError(t, err)

	inputs := []PickInput{
		{CategoryID: nominees[0][0].CategoryID, NomineeID: nominees[0][0].ID},
		{CategoryID: nominees[1][0].CategoryID, NomineeID: nominees[1][1].ID},
		{CategoryID: nominees[2][0].CategoryID, NomineeID: nominees[2][0].ID},
	}
	picks, err := svc.Picks.UpsertMany(user.ID, pool.ID, inputs)
	require.NoError(t, err)
	assert.Len(t, picks, 3)

	done, err := svc.Picks.HasCompletedAllPicks(user.ID, pool.ID)
	require.NoError(t, err)
	assert.True(t, done)

	_, err = svc.Picks.UpsertMany(user.ID, pool.ID, []PickInput{{CategoryID: "x"}})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCopyPicks(t *testing.T) {
	svc, db := newTestServices(t)
	_, nominees := seedCeremony(t, db, 2)
	user := seedUser(t, db, "Ana", "ana@example.com")
	source, err := svc.Pools.CreateGroupPool("Origem", user.ID)
	require.NoError(t, err)
	target, err := svc.Pools.CreateGroupPool("Destino", user.ID)
	require.NoError(t, err)

	for _, pair := range nominees {
		_, err := svc.Picks.UpsertPick(user.ID, source.ID, pair[0].CategoryID, pair[0].ID)
		require.NoError(t, err)
	}

	copied, err := svc.Picks.CopyPicks(user.ID, source.ID, target.ID)
	require.NoError(t, err)
	assert.Len(t, copied, 2)

	targetPicks, err := svc.Picks.GetUserPicks(target.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, targetPicks, 2)
	for i, pick := range targetPicks {
		assert.Equal(t, nominees[i][0].ID, pick.NomineeID)
	}

	// The copy completes the target's pick set too.
	var row models.PoolParticipant
	require.NoError(t, db.Where("pool_id = ? AND user_id = ?", target.ID, user.ID).First(&row).Error)
	assert.NotNil(t, row.PicksCompletedAt)

	// Source rows stay put.
	sourcePicks, err := svc.Picks.GetUserPicks(source.ID, user.ID)
	require.NoError(t, err)
	assert.Len(t, sourcePicks, 2)
}

func TestCopyPicks_EmptySource(t *testing.T) {
	svc, db := newTestServices(t)
	seedCeremony(t, db, 2)
	user := seedUser(t, db, "Ana", "ana@example.com")
	source, err := svc.Pools.CreateGroupPool("Origem", user.ID)
	require.NoError(t, err)
	target, err := svc.Pools.CreateGroupPool("Destino", user.ID)
	require.NoError(t, err)

	copied, err := svc.Picks.CopyPicks(user.ID, source.ID, target.ID)
	require.NoError(t, err)
	assert.Empty(t, copied)

	var count int64
	require.NoError(t, db.Model(&models.Pick{}).Where("pool_id = ?", target.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestGetUserPicks_OrderedByCategory(t *testing.T) {
	svc, db := newTestServices(t)
	_, nominees := seedCeremony(t, db, 3)
	user := seedUser(t, db, "Ana", "ana@example.com")
	pool, err := svc.Pools.CreateGroupPool("Bolão", user.ID)
	require.NoError(t, err)

	// Submit out of display order.
	for _, i := range []int{2, 0, 1} {
		_, err := svc.Picks.UpsertPick(user.ID, pool.ID, nominees[i][0].CategoryID, nominees[i][0].ID)
		require.NoError(t, err)
	}

	picks, err := svc.Picks.GetUserPicks(pool.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, picks, 3)
	for i, pick := range picks {
		assert.Equal(t, i+1, pick.Category.DisplayOrder)
	}
}

func TestGetCategoriesWithNominees(t *testing.T) {
	svc, db := newTestServices(t)
	seedCeremony(t, db, 2)

	categories, err := svc.Picks.GetCategoriesWithNominees()
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, 1, categories[0].DisplayOrder)
	assert.Len(t, categories[0].Nominees, 2)
}
