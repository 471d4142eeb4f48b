// Package service implements business logic, validation, and authorization
// between HTTP handlers and the repository layer.
//
// Every mutating operation loads the acting user from storage and asks the
// policy package before touching anything.
package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/Shivanand-hulikatti/eventreg/internal/model"
	"github.com/Shivanand-hulikatti/eventreg/internal/repository"
)

// maxNameLength bounds usernames, event names and locations.
const maxNameLength = 100

// ImageStore saves and removes uploaded event images.
type ImageStore interface {
	Save(filename string, body io.Reader) (string, error)
	Remove(key string) error
}

// loadActor fetches the acting user fresh from storage. An actor that no
// longer exists is denied rather than reported as missing.
func loadActor(ctx context.Context, users repository.UserRepository, actorID int64) (*model.User, error) {
	actor, err := users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrPermissionDenied
		}
		return nil, err
	}
	return actor, nil
}

// requiredText trims s and checks it is non-empty and at most max runes
// (max <= 0 means unbounded).
func requiredText(field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", model.Invalid(field, "is required")
	}
	if max > 0 && utf8.RuneCountInString(s) > max {
		return "", model.Invalid(field, "is too long")
	}
	return s, nil
}
