// Package model defines the core domain types for the event registration system.
package model

import (
	"io"
	"time"
)

// User is an account holder. Admins may modify any event and manage users.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Event is a listing owned by the user who created it.
type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	Location    string    `json:"location"`
	Image       string    `json:"image,omitempty"`
	OwnerID     int64     `json:"owner_id"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// Registration links a user to an event they intend to attend.
type Registration struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"user_id"`
	EventID   int64              `json:"event_id"`
	Status    RegistrationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// Attendee is a registration joined with the registered user's name.
type Attendee struct {
	RegistrationID int64              `json:"registration_id"`
	UserID         int64              `json:"user_id"`
	Username       string             `json:"username"`
	Status         RegistrationStatus `json:"status"`
}

// RegistrationStatus is the lifecycle state of a Registration.
type RegistrationStatus string

const (
	StatusRegistered RegistrationStatus = "registered"
	StatusAttended   RegistrationStatus = "attended"
	StatusCancelled  RegistrationStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case StatusRegistered, StatusAttended, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a registration may move from s to next.
// Only registered registrations move; attended and cancelled are terminal.
func (s RegistrationStatus) CanTransition(next RegistrationStatus) bool {
	if s != StatusRegistered {
		return false
	}
	return next == StatusAttended || next == StatusCancelled
}

// EventFields carries event attributes for create and partial update.
// A nil field is left untouched on update.
type EventFields struct {
	Name        *string
	Description *string
	StartsAt    *time.Time
	Location    *string
	Price       *float64
	Stock       *int
}

// Apply copies every supplied field onto e.
func (f EventFields) Apply(e *Event) {
	if f.Name != nil {
		e.Name = *f.Name
	}
	if f.Description != nil {
		e.Description = *f.Description
	}
	if f.StartsAt != nil {
		e.StartsAt = *f.StartsAt
	}
	if f.Location != nil {
		e.Location = *f.Location
	}
	if f.Price != nil {
		e.Price = *f.Price
	}
	if f.Stock != nil {
		e.Stock = *f.Stock
	}
}

// UserUpdate carries the fields an admin may change on a user.
type UserUpdate struct {
	Username *string
	IsAdmin  *bool
}

// ImageUpload is an image file submitted with an event form.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}
