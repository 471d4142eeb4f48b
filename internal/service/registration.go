package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/eventreg/internal/model"
	"github.com/Shivanand-hulikatti/eventreg/internal/repository"
)

// RegistrationService manages the registration ledger.
type RegistrationService struct {
	registrations repository.RegistrationRepository
	events        repository.EventRepository
}

// NewRegistrationService constructs a RegistrationService with its dependencies.
func NewRegistrationService(
	registrations repository.RegistrationRepository,
	events repository.EventRepository,
) *RegistrationService {
	return &RegistrationService{registrations: registrations, events: events}
}

// Register records that userID will attend eventID. A second registration
// for the same pair fails with model.ErrAlreadyRegistered.
func (s *RegistrationService) Register(ctx context.Context, userID, eventID int64) (*model.Registration, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	reg := &model.Registration{UserID: userID, EventID: eventID, Status: model.StatusRegistered}
	if err := s.registrations.Create(ctx, reg); err != nil {
		if errors.Is(err, model.ErrAlreadyRegistered) || errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	return reg, nil
}

// Get returns a registration by id.
func (s *RegistrationService) Get(ctx context.Context, id int64) (*model.Registration, error) {
	return s.registrations.GetByID(ctx, id)
}

// ListForUser returns the registrations held by userID.
func (s *RegistrationService) ListForUser(ctx context.Context, userID int64) ([]model.Registration, error) {
	return s.registrations.ListByUser(ctx, userID)
}

// RegisteredEvents returns the events userID is registered for.
func (s *RegistrationService) RegisteredEvents(ctx context.Context, userID int64) ([]model.Event, error) {
	return s.registrations.ListEventsForUser(ctx, userID)
}

// RegisteredEventIDs returns the set of event ids userID is registered for.
func (s *RegistrationService) RegisteredEventIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	regs, err := s.registrations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]bool, len(regs))
	for _, r := range regs {
		ids[r.EventID] = true
	}
	return ids, nil
}

// IsRegistered reports whether userID holds a registration for eventID.
func (s *RegistrationService) IsRegistered(ctx context.Context, userID, eventID int64) (bool, error) {
	return s.registrations.Exists(ctx, userID, eventID)
}

// ListForEvent returns the registrations on eventID.
func (s *RegistrationService) ListForEvent(ctx context.Context, eventID int64) ([]model.Registration, error) {
	return s.registrations.ListByEvent(ctx, eventID)
}

// Attendees returns the registrations on eventID joined with usernames.
func (s *RegistrationService) Attendees(ctx context.Context, eventID int64) ([]model.Attendee, error) {
	return s.registrations.ListAttendees(ctx, eventID)
}

// CascadeDeleteForEvent removes every registration on eventID and reports
// how many were removed.
func (s *RegistrationService) CascadeDeleteForEvent(ctx context.Context, eventID int64) (int64, error) {
	return s.registrations.DeleteByEvent(ctx, eventID)
}
