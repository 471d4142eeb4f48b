//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Shivanand-hulikatti/eventreg/internal/model"
	"github.com/Shivanand-hulikatti/eventreg/internal/repository"
)

// setupStore starts a PostgreSQL container and opens a migrated Store on it.
func setupStore(t *testing.T) *repository.Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:alpine",
		tcpostgres.WithDatabase("eventreg"),
		tcpostgres.WithUsername("eventreg"),
		tcpostgres.WithPassword("eventreg"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	owner := &model.User{Username: "owner", PasswordHash: "hash", IsAdmin: true}
	require.NoError(t, store.Users.Create(ctx, owner))
	alice := &model.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, store.Users.Create(ctx, alice))

	t.Run("duplicate username", func(t *testing.T) {
		err := store.Users.Create(ctx, &model.User{Username: "alice", PasswordHash: "x"})
		assert.ErrorIs(t, err, model.ErrDuplicateUsername)
	})

	event := &model.Event{
		Name:        "Conf",
		Description: "Talks",
		StartsAt:    time.Date(2026, 6, 1, 18, 30, 0, 0, time.UTC),
		Location:    "Jakarta",
		OwnerID:     owner.ID,
		Stock:       10,
	}
	require.NoError(t, store.Events.Create(ctx, event))

	t.Run("event round trip", func(t *testing.T) {
		got, err := store.Events.GetByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, "Conf", got.Name)
		assert.Equal(t, "", got.Image)
		assert.True(t, got.StartsAt.Equal(event.StartsAt))
		assert.Equal(t, owner.ID, got.OwnerID)
	})

	reg := &model.Registration{UserID: alice.ID, EventID: event.ID}
	require.NoError(t, store.Registrations.Create(ctx, reg))

	t.Run("duplicate registration", func(t *testing.T) {
		err := store.Registrations.Create(ctx, &model.Registration{UserID: alice.ID, EventID: event.ID})
		assert.ErrorIs(t, err, model.ErrAlreadyRegistered)
	})

	t.Run("attendees", func(t *testing.T) {
		attendees, err := store.Registrations.ListAttendees(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, attendees, 1)
		assert.Equal(t, "alice", attendees[0].Username)
		assert.Equal(t, model.StatusRegistered, attendees[0].Status)
	})

	t.Run("delete event cascades", func(t *testing.T) {
		require.NoError(t, store.Events.Delete(ctx, event.ID))
		_, err := store.Registrations.GetByID(ctx, reg.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
		regs, err := store.Registrations.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, regs)
	})

	t.Run("delete user cascades", func(t *testing.T) {
		owned := &model.Event{Name: "Owned", Description: "d", StartsAt: time.Now(), Location: "l", OwnerID: alice.ID}
		require.NoError(t, store.Events.Create(ctx, owned))
		require.NoError(t, store.Registrations.Create(ctx, &model.Registration{UserID: owner.ID, EventID: owned.ID}))

		require.NoError(t, store.Users.Delete(ctx, alice.ID))

		_, err := store.Events.GetByID(ctx, owned.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.ErrorIs(t, store.Users.Delete(ctx, alice.ID), model.ErrNotFound)
	})
}
