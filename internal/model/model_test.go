package model

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistrationStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to RegistrationStatus
		want     bool
	}{
		{StatusRegistered, StatusAttended, true},
		{StatusRegistered, StatusCancelled, true},
		{StatusRegistered, StatusRegistered, false},
		{StatusAttended, StatusCancelled, false},
		{StatusCancelled, StatusRegistered, false},
		{StatusAttended, StatusRegistered, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestRegistrationStatusValid(t *testing.T) {
	assert.True(t, StatusRegistered.Valid())
	assert.True(t, StatusAttended.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, RegistrationStatus("waitlist").Valid())
}

func TestEventFieldsApplyOnlySuppliedFields(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	e := Event{Name: "Conf", Description: "Talks", StartsAt: start, Location: "Hall A", Price: 10, Stock: 5, OwnerID: 7}

	name := "GopherCon"
	stock := 50
	EventFields{Name: &name, Stock: &stock}.Apply(&e)

	assert.Equal(t, "GopherCon", e.Name)
	assert.Equal(t, 50, e.Stock)
	assert.Equal(t, "Talks", e.Description)
	assert.Equal(t, start, e.StartsAt)
	assert.Equal(t, "Hall A", e.Location)
	assert.Equal(t, 10.0, e.Price)
	assert.Equal(t, int64(7), e.OwnerID)
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("create event: %w", Invalid("name", "is required"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))

	var verr *ValidationError
	if assert.True(t, errors.As(err, &verr)) {
		assert.Equal(t, "name", verr.Field)
	}
	assert.Equal(t, "create event: name: is required", err.Error())
}
