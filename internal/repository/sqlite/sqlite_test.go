package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/eventreg/internal/model"
	"github.com/Shivanand-hulikatti/eventreg/internal/repository"
)

func openTempStore(t *testing.T) *repository.Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "eventreg.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func createUser(t *testing.T, store *repository.Store, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func createEvent(t *testing.T, store *repository.Store, ownerID int64, name string) *model.Event {
	t.Helper()
	e := &model.Event{
		Name:        name,
		Description: "desc",
		StartsAt:    time.Date(2026, 6, 1, 18, 30, 0, 0, time.UTC),
		Location:    "Jakarta",
		OwnerID:     ownerID,
		Stock:       10,
	}
	require.NoError(t, store.Events.Create(context.Background(), e))
	return e
}

func TestUserRoundTripAndDuplicate(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)

	alice := createUser(t, store, "alice")
	assert.NotZero(t, alice.ID)

	got, err := store.Users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.False(t, got.IsAdmin)
	assert.Equal(t, "hash", got.PasswordHash)

	err = store.Users.Create(ctx, &model.User{Username: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, model.ErrDuplicateUsername)

	users, err := store.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = store.Users.GetByID(ctx, 999)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestConcurrentDuplicateUsernameInsertsOnlyOnce(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Users.Create(ctx, &model.User{Username: "bob", PasswordHash: "x"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, model.ErrDuplicateUsername)
	}
	assert.Equal(t, 1, succeeded)
}

func TestUserUpdate(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)

	alice := createUser(t, store, "alice")
	createUser(t, store, "bob")

	alice.Username = "alicia"
	alice.IsAdmin = true
	require.NoError(t, store.Users.Update(ctx, alice))

	got, err := store.Users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alicia", got.Username)
	assert.True(t, got.IsAdmin)

	alice.Username = "bob"
	assert.ErrorIs(t, store.Users.Update(ctx, alice), model.ErrDuplicateUsername)

	assert.ErrorIs(t, store.Users.Update(ctx, &model.User{ID: 999, Username: "ghost"}), model.ErrNotFound)
}

func TestEventCRUD(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)
	owner := createUser(t, store, "owner")

	e := createEvent(t, store, owner.ID, "Conf")
	e.Image = "poster.png"
	e.Price = 12.5
	require.NoError(t, store.Events.Update(ctx, e))

	got, err := store.Events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Conf", got.Name)
	assert.Equal(t, "poster.png", got.Image)
	assert.Equal(t, 12.5, got.Price)
	assert.Equal(t, 10, got.Stock)
	assert.True(t, got.StartsAt.Equal(e.StartsAt))

	createEvent(t, store, owner.ID, "Meetup")
	events, err := store.Events.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Less(t, events[0].ID, events[1].ID)

	err = store.Events.Create(ctx, &model.Event{Name: "x", Description: "x", Location: "x", OwnerID: 999})
	assert.ErrorIs(t, err, model.ErrNotFound, "owner must exist")
}

func TestEventUpdateNeverChangesOwner(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)
	owner := createUser(t, store, "owner")
	thief := createUser(t, store, "thief")
	e := createEvent(t, store, owner.ID, "Conf")

	e.OwnerID = thief.ID
	require.NoError(t, store.Events.Update(ctx, e))

	got, err := store.Events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.OwnerID)
}

func TestRegistrationUniquePerPair(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)
	owner := createUser(t, store, "owner")
	alice := createUser(t, store, "alice")
	e := createEvent(t, store, owner.ID, "Conf")

	reg := &model.Registration{UserID: alice.ID, EventID: e.ID}
	require.NoError(t, store.Registrations.Create(ctx, reg))
	assert.Equal(t, model.StatusRegistered, reg.Status)

	err := store.Registrations.Create(ctx, &model.Registration{UserID: alice.ID, EventID: e.ID})
	assert.ErrorIs(t, err, model.ErrAlreadyRegistered)

	err = store.Registrations.Create(ctx, &model.Registration{UserID: alice.ID, EventID: 999})
	assert.ErrorIs(t, err, model.ErrNotFound)

	regs, err := store.Registrations.ListByEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, regs, 1)

	ok, err := store.Registrations.Exists(ctx, alice.ID, e.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.Registrations.Exists(ctx, owner.ID, e.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	events, err := store.Registrations.ListEventsForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Conf", events[0].Name)

	attendees, err := store.Registrations.ListAttendees(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, attendees, 1)
	assert.Equal(t, "alice", attendees[0].Username)
}

func TestEventDeleteCascadesRegistrations(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)
	owner := createUser(t, store, "owner")
	e := createEvent(t, store, owner.ID, "Conf")
	keep := createEvent(t, store, owner.ID, "Other")

	var ids []int64
	for _, name := range []string{"a", "b", "c"} {
		u := createUser(t, store, name)
		reg := &model.Registration{UserID: u.ID, EventID: e.ID}
		require.NoError(t, store.Registrations.Create(ctx, reg))
		ids = append(ids, reg.ID)
		require.NoError(t, store.Registrations.Create(ctx, &model.Registration{UserID: u.ID, EventID: keep.ID}))
	}

	require.NoError(t, store.Events.Delete(ctx, e.ID))

	_, err := store.Events.GetByID(ctx, e.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	for _, id := range ids {
		_, err := store.Registrations.GetByID(ctx, id)
		assert.ErrorIs(t, err, model.ErrNotFound)
	}

	remaining, err := store.Registrations.ListByEvent(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 3)

	assert.ErrorIs(t, store.Events.Delete(ctx, e.ID), model.ErrNotFound)
}

func TestDeleteByEvent(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)
	owner := createUser(t, store, "owner")
	e := createEvent(t, store, owner.ID, "Conf")
	require.NoError(t, store.Registrations.Create(ctx, &model.Registration{UserID: owner.ID, EventID: e.ID}))

	n, err := store.Registrations.DeleteByEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.Events.GetByID(ctx, e.ID)
	assert.NoError(t, err, "event itself stays")
}

func TestUserDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)
	owner := createUser(t, store, "owner")
	alice := createUser(t, store, "alice")
	owned := createEvent(t, store, owner.ID, "Owned")
	other := createEvent(t, store, alice.ID, "Alice's")

	require.NoError(t, store.Registrations.Create(ctx, &model.Registration{UserID: alice.ID, EventID: owned.ID}))
	require.NoError(t, store.Registrations.Create(ctx, &model.Registration{UserID: owner.ID, EventID: other.ID}))

	require.NoError(t, store.Users.Delete(ctx, owner.ID))

	_, err := store.Users.GetByID(ctx, owner.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = store.Events.GetByID(ctx, owned.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	regs, err := store.Registrations.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, regs)

	attendees, err := store.Registrations.ListAttendees(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, attendees)

	_, err = store.Events.GetByID(ctx, other.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, store.Users.Delete(ctx, owner.ID), model.ErrNotFound)
}
