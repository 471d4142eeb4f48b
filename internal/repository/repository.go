// Package repository declares the persistence contracts for users, events and
// registrations. The sqlite and postgres subpackages implement them.
//
// Implementations translate constraint violations into the model error
// taxonomy: a duplicate username becomes model.ErrDuplicateUsername and a
// second registration for the same (user, event) pair becomes
// model.ErrAlreadyRegistered. The storage constraint is the source of truth
// for both; callers never rely on a prior read alone.
package repository

import (
	"context"

	"github.com/Shivanand-hulikatti/eventreg/internal/model"
)

// UserRepository persists accounts.
type UserRepository interface {
	// Create inserts u and fills in its ID and CreatedAt.
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// List returns every user ordered by id.
	List(ctx context.Context) ([]model.User, error)
	// Update writes username and is_admin.
	Update(ctx context.Context, u *model.User) error
	// Delete removes the user together with their registrations, the
	// registrations on events they own and those events, in one transaction.
	Delete(ctx context.Context, id int64) error
}

// EventRepository persists the event catalog.
type EventRepository interface {
	// Create inserts e and fills in its ID and CreatedAt.
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	// List returns every event ordered by id.
	List(ctx context.Context) ([]model.Event, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Event, error)
	// Update writes every mutable column. owner_id is never written.
	Update(ctx context.Context, e *model.Event) error
	// Delete removes the event's registrations and then the event, in one transaction.
	Delete(ctx context.Context, id int64) error
}

// RegistrationRepository persists the registration ledger.
type RegistrationRepository interface {
	// Create inserts r and fills in its ID and CreatedAt.
	Create(ctx context.Context, r *model.Registration) error
	GetByID(ctx context.Context, id int64) (*model.Registration, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Registration, error)
	ListByEvent(ctx context.Context, eventID int64) ([]model.Registration, error)
	// ListAttendees joins the event's registrations with users. Rows whose
	// user no longer exists are skipped.
	ListAttendees(ctx context.Context, eventID int64) ([]model.Attendee, error)
	// ListEventsForUser returns the events the user is registered for.
	ListEventsForUser(ctx context.Context, userID int64) ([]model.Event, error)
	Exists(ctx context.Context, userID, eventID int64) (bool, error)
	// DeleteByEvent removes every registration for the event.
	DeleteByEvent(ctx context.Context, eventID int64) (int64, error)
}

// Store bundles the three repositories of one backend.
type Store struct {
	Users         UserRepository
	Events        EventRepository
	Registrations RegistrationRepository
	Close         func()
}
