package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/Shivanand-hulikatti/eventreg/internal/imagestore"
	"github.com/Shivanand-hulikatti/eventreg/internal/model"
	"github.com/Shivanand-hulikatti/eventreg/internal/policy"
	"github.com/Shivanand-hulikatti/eventreg/internal/repository"
)

// EventService manages the event catalog.
type EventService struct {
	events repository.EventRepository
	users  repository.UserRepository
	images ImageStore
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(
	events repository.EventRepository,
	users repository.UserRepository,
	images ImageStore,
) *EventService {
	return &EventService{events: events, users: users, images: images}
}

// normalizeFields trims the supplied text fields and validates them. On
// create every text field and the start time are required.
func normalizeFields(f model.EventFields, create bool) (model.EventFields, error) {
	text := []struct {
		field string
		value **string
		max   int
	}{
		{"name", &f.Name, maxNameLength},
		{"description", &f.Description, 0},
		{"location", &f.Location, maxNameLength},
	}
	for _, t := range text {
		if *t.value == nil {
			if create {
				return f, model.Invalid(t.field, "is required")
			}
			continue
		}
		v, err := requiredText(t.field, **t.value, t.max)
		if err != nil {
			return f, err
		}
		*t.value = &v
	}

	if create && f.StartsAt == nil {
		return f, model.Invalid("starts_at", "is required")
	}
	if f.Price != nil {
		if math.IsNaN(*f.Price) || math.IsInf(*f.Price, 0) {
			return f, model.Invalid("price", "must be a number")
		}
		if *f.Price < 0 {
			return f, model.Invalid("price", "must not be negative")
		}
	}
	if f.Stock != nil {
		if *f.Stock < 0 {
			return f, model.Invalid("stock", "must not be negative")
		}
		if *f.Stock > math.MaxInt32 {
			return f, model.Invalid("stock", "is too large")
		}
	}
	return f, nil
}

// checkImage rejects uploads with a disallowed extension before anything is written.
func checkImage(img *model.ImageUpload) error {
	if img == nil {
		return nil
	}
	if !imagestore.Allowed(img.Filename) {
		return model.Invalid("image", imagestore.ErrInvalidImage.Error())
	}
	return nil
}

func (s *EventService) saveImage(img *model.ImageUpload) (string, error) {
	if img == nil {
		return "", nil
	}
	key, err := s.images.Save(img.Filename, img.Body)
	if err != nil {
		if errors.Is(err, imagestore.ErrInvalidImage) {
			return "", model.Invalid("image", err.Error())
		}
		return "", fmt.Errorf("save image: %w", err)
	}
	return key, nil
}

func (s *EventService) discardImage(key string) {
	if err := s.images.Remove(key); err != nil {
		log.Printf("remove image %q: %v", key, err)
	}
}

// Create adds an event owned by ownerID.
func (s *EventService) Create(ctx context.Context, ownerID int64, fields model.EventFields, img *model.ImageUpload) (*model.Event, error) {
	owner, err := loadActor(ctx, s.users, ownerID)
	if err != nil {
		return nil, err
	}
	fields, err = normalizeFields(fields, true)
	if err != nil {
		return nil, err
	}
	if err := checkImage(img); err != nil {
		return nil, err
	}

	e := &model.Event{OwnerID: owner.ID}
	fields.Apply(e)

	key, err := s.saveImage(img)
	if err != nil {
		return nil, err
	}
	e.Image = key

	if err := s.events.Create(ctx, e); err != nil {
		s.discardImage(key)
		return nil, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

// Get returns an event by id.
func (s *EventService) Get(ctx context.Context, id int64) (*model.Event, error) {
	return s.events.GetByID(ctx, id)
}

// List returns every event in creation order.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}

// ListByOwner returns the events created by ownerID.
func (s *EventService) ListByOwner(ctx context.Context, ownerID int64) ([]model.Event, error) {
	return s.events.ListByOwner(ctx, ownerID)
}

// Editable returns the event when actorID may modify it.
func (s *EventService) Editable(ctx context.Context, actorID, eventID int64) (*model.Event, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanModify(actor, e) {
		return nil, model.ErrPermissionDenied
	}
	return e, nil
}

// CanModify reports whether actorID may edit or delete e. Lookup failures
// count as no.
func (s *EventService) CanModify(ctx context.Context, actorID int64, e *model.Event) bool {
	if actorID == 0 {
		return false
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return false
	}
	return policy.CanModify(actor, e)
}

// Update applies the supplied fields to an event. The image is replaced only
// when img is non-nil; the old file is removed after the row is written.
func (s *EventService) Update(ctx context.Context, actorID, eventID int64, fields model.EventFields, img *model.ImageUpload) (*model.Event, error) {
	e, err := s.Editable(ctx, actorID, eventID)
	if err != nil {
		return nil, err
	}
	fields, err = normalizeFields(fields, false)
	if err != nil {
		return nil, err
	}
	if err := checkImage(img); err != nil {
		return nil, err
	}

	fields.Apply(e)
	oldImage := e.Image
	key, err := s.saveImage(img)
	if err != nil {
		return nil, err
	}
	if key != "" {
		e.Image = key
	}

	if err := s.events.Update(ctx, e); err != nil {
		s.discardImage(key)
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	if key != "" {
		s.discardImage(oldImage)
	}
	return e, nil
}

// Delete removes an event and all of its registrations.
func (s *EventService) Delete(ctx context.Context, actorID, eventID int64) error {
	e, err := s.Editable(ctx, actorID, eventID)
	if err != nil {
		return err
	}
	if err := s.events.Delete(ctx, e.ID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.discardImage(e.Image)
	return nil
}
