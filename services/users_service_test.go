package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertUser_CreateThenUpdate(t *testing.T) {
	svc, _ := newTestServices(t)

	created, err := svc.Users.UpsertUser(UserInput{
		Name:  "ana maria braga",
		Email: "Ana@Example.com",
		State: "SP",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria Braga", created.Name)
	assert.Equal(t, "ana@example.com", created.Email)

	updated, err := svc.Users.UpsertUser(UserInput{
		Name:   "ana m. braga",
		Email:  "ana@example.com",
		City:   "Campinas",
		AuthID: "auth-123",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	fresh, err := svc.Users.GetUserByEmail("ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana M. Braga", fresh.Name)
	assert.Equal(t, "Campinas", fresh.City)
	assert.Equal(t, "auth-123", fresh.AuthID)
}

func TestUpsertUser_Validation(t *testing.T) {
	svc, _ := newTestServices(t)

	_, err := svc.Users.UpsertUser(UserInput{Email: "x@example.com"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = svc.Users.UpsertUser(UserInput{Name: "Ana"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
}

func TestGetUserByID_FallsBackToAuthID(t *testing.T) {
	svc, _ := newTestServices(t)

	user, err := svc.Users.UpsertUser(UserInput{
		Name:   "Bruno",
		Email:  "bruno@example.com",
		AuthID: "auth-bruno",
	})
	require.NoError(t, err)

	byID, err := svc.Users.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byID.ID)

	byAuth, err := svc.Users.GetUserByID("auth-bruno")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byAuth.ID)

	_, err = svc.Users.GetUserByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchUsers(t *testing.T) {
	svc, db := newTestServices(t)
	seedUser(t, db, "Ana Maria", "ana@example.com")
	seedUser(t, db, "Bruno", "bruno@example.com")
	seedUser(t, db, "Mariana", "mari@example.com")

	found, err := svc.Users.SearchUsers("mari", 0)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	all, err := svc.Users.SearchUsers("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byEmail, err := svc.Users.SearchUsers("bruno@", 10)
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "Bruno", byEmail[0].Name)
}
