package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Shivanand-hulikatti/eventreg/internal/model"
	"github.com/Shivanand-hulikatti/eventreg/internal/policy"
	"github.com/Shivanand-hulikatti/eventreg/internal/repository"
	"github.com/Shivanand-hulikatti/eventreg/internal/security"
)

// AccountService is the credential store: registration, login and the admin
// operations on users.
type AccountService struct {
	users  repository.UserRepository
	events repository.EventRepository
	images ImageStore
}

// NewAccountService constructs an AccountService with its dependencies.
func NewAccountService(
	users repository.UserRepository,
	events repository.EventRepository,
	images ImageStore,
) *AccountService {
	return &AccountService{users: users, events: events, images: images}
}

// Register creates a regular (non-admin) account.
func (s *AccountService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username, err := requiredText("username", username, maxNameLength)
	if err != nil {
		return nil, err
	}
	if err := security.ValidatePassword(password); err != nil {
		return nil, model.Invalid("password", err.Error())
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &model.User{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, model.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("register user: %w", err)
	}
	return u, nil
}

// Authenticate returns the user matching the credentials. Unknown usernames
// and wrong passwords both yield model.ErrAuthFailure.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			security.BurnCompare(password)
			return nil, model.ErrAuthFailure
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !security.ComparePassword(u.PasswordHash, password) {
		return nil, model.ErrAuthFailure
	}
	return u, nil
}

// GetUser returns a user by id.
func (s *AccountService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetUserByUsername returns a user by username.
func (s *AccountService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *AccountService) authorizeAdmin(ctx context.Context, actorID int64) (*model.User, error) {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAdminister(actor) {
		return nil, model.ErrPermissionDenied
	}
	return actor, nil
}

// ListUsers returns every account. Admin only.
func (s *AccountService) ListUsers(ctx context.Context, actorID int64) ([]model.User, error) {
	if _, err := s.authorizeAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// SetAdminFlag grants or revokes admin rights on target. Admin only.
func (s *AccountService) SetAdminFlag(ctx context.Context, actorID, targetID int64, value bool) error {
	_, err := s.UpdateUser(ctx, actorID, targetID, model.UserUpdate{IsAdmin: &value})
	return err
}

// UpdateUser changes the supplied fields of target. Admin only; admins
// cannot clear their own admin flag.
func (s *AccountService) UpdateUser(ctx context.Context, actorID, targetID int64, upd model.UserUpdate) (*model.User, error) {
	actor, err := s.authorizeAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if actor.ID == target.ID && upd.IsAdmin != nil && !*upd.IsAdmin {
		return nil, model.Invalid("is_admin", "you cannot remove your own admin rights")
	}

	if upd.Username != nil {
		name, err := requiredText("username", *upd.Username, maxNameLength)
		if err != nil {
			return nil, err
		}
		target.Username = name
	}
	if upd.IsAdmin != nil {
		target.IsAdmin = *upd.IsAdmin
	}

	if err := s.users.Update(ctx, target); err != nil {
		if errors.Is(err, model.ErrDuplicateUsername) || errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return target, nil
}

// DeleteUser removes target along with their events and every registration
// touching them. Admin only; admins cannot delete themselves.
func (s *AccountService) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteUser(actor) {
		return model.ErrPermissionDenied
	}
	if actor.ID == targetID {
		return model.Invalid("user", "you cannot delete your own account")
	}

	owned, err := s.events.ListByOwner(ctx, targetID)
	if err != nil {
		return fmt.Errorf("list owned events: %w", err)
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete user: %w", err)
	}

	for _, e := range owned {
		if err := s.images.Remove(e.Image); err != nil {
			log.Printf("delete user %d: %v", targetID, err)
		}
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin account when no user named
// username exists. It reports whether an account was created.
func (s *AccountService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return false, fmt.Errorf("look up admin: %w", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return false, err
	}
	err = s.users.Create(ctx, &model.User{Username: username, PasswordHash: hash, IsAdmin: true})
	if errors.Is(err, model.ErrDuplicateUsername) {
		// Another process bootstrapped it first.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
