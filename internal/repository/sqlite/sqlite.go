// Package sqlite implements the repository contracts on a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/Shivanand-hulikatti/eventreg/internal/database"
	"github.com/Shivanand-hulikatti/eventreg/internal/model"
	"github.com/Shivanand-hulikatti/eventreg/internal/repository"
)

var (
	_ repository.UserRepository         = (*UserRepository)(nil)
	_ repository.EventRepository        = (*EventRepository)(nil)
	_ repository.RegistrationRepository = (*RegistrationRepository)(nil)
)

// Open migrates the SQLite file at path and returns a Store backed by it.
func Open(path string) (*repository.Store, error) {
	if err := database.MigrateSQLite(path); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	db, err := database.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	return &repository.Store{
		Users:         NewUserRepository(db),
		Events:        NewEventRepository(db),
		Registrations: NewRegistrationRepository(db),
		Close:         func() { _ = db.Close() },
	}, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func isConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == code
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ─── Users ───────────────────────────────────────────────────────────────────

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, password_hash, is_admin, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var createdAt int64
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &createdAt); err != nil {
		return nil, err
	}
	u.CreatedAt = fromMillis(createdAt)
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, is_admin, created_at) VALUES (?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.IsAdmin, toMillis(u.CreatedAt),
	)
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintUnique) {
			return model.ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, is_admin = ? WHERE id = ?`,
		u.Username, u.IsAdmin, u.ID,
	)
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintUnique) {
			return model.ErrDuplicateUsername
		}
		return fmt.Errorf("update user: %w", err)
	}
	return expectOne(res)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		steps := []struct {
			what  string
			query string
		}{
			{"delete user registrations", `DELETE FROM registrations WHERE user_id = ?`},
			{"delete registrations on owned events", `DELETE FROM registrations WHERE event_id IN (SELECT id FROM events WHERE owner_id = ?)`},
			{"delete owned events", `DELETE FROM events WHERE owner_id = ?`},
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step.query, id); err != nil {
				return fmt.Errorf("%s: %w", step.what, err)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return expectOne(res)
	})
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ─── Events ──────────────────────────────────────────────────────────────────

// EventRepository handles persistence for events.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, name, description, starts_at, location, image, owner_id, price, stock, created_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var startsAt, createdAt int64
	var image sql.NullString
	if err := row.Scan(&e.ID, &e.Name, &e.Description, &startsAt, &e.Location, &image,
		&e.OwnerID, &e.Price, &e.Stock, &createdAt); err != nil {
		return nil, err
	}
	e.StartsAt = fromMillis(startsAt)
	e.CreatedAt = fromMillis(createdAt)
	e.Image = image.String
	return &e, nil
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	defer rows.Close()
	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (name, description, starts_at, location, image, owner_id, price, stock, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Name, e.Description, toMillis(e.StartsAt), e.Location, nullable(e.Image),
		e.OwnerID, e.Price, e.Stock, toMillis(e.CreatedAt),
	)
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
			return model.ErrNotFound
		}
		return fmt.Errorf("insert event: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("event id: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return scanEvents(rows)
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events WHERE owner_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events by owner: %w", err)
	}
	return scanEvents(rows)
}

func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events
		    SET name = ?, description = ?, starts_at = ?, location = ?, image = ?, price = ?, stock = ?
		  WHERE id = ?`,
		e.Name, e.Description, toMillis(e.StartsAt), e.Location, nullable(e.Image), e.Price, e.Stock, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return expectOne(res)
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := deleteRegistrationsForEvent(ctx, tx, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return expectOne(res)
	})
}

// ─── Registrations ───────────────────────────────────────────────────────────

// RegistrationRepository handles persistence for registrations.
type RegistrationRepository struct {
	db *sql.DB
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationColumns = `id, user_id, event_id, status, created_at`

func scanRegistration(row interface{ Scan(...any) error }) (*model.Registration, error) {
	var reg model.Registration
	var createdAt int64
	if err := row.Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.Status, &createdAt); err != nil {
		return nil, err
	}
	reg.CreatedAt = fromMillis(createdAt)
	return &reg, nil
}

func (r *RegistrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	if reg.Status == "" {
		reg.Status = model.StatusRegistered
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO registrations (user_id, event_id, status, created_at) VALUES (?, ?, ?, ?)`,
		reg.UserID, reg.EventID, reg.Status, toMillis(reg.CreatedAt),
	)
	if err != nil {
		switch {
		case isConstraint(err, sqlite3.ErrConstraintUnique):
			return model.ErrAlreadyRegistered
		case isConstraint(err, sqlite3.ErrConstraintForeignKey):
			return model.ErrNotFound
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	reg.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("registration id: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*model.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

func (r *RegistrationRepository) list(ctx context.Context, query string, arg int64) ([]model.Registration, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID int64) ([]model.Registration, error) {
	return r.list(ctx, `SELECT `+registrationColumns+` FROM registrations WHERE user_id = ? ORDER BY id`, userID)
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID int64) ([]model.Registration, error) {
	return r.list(ctx, `SELECT `+registrationColumns+` FROM registrations WHERE event_id = ? ORDER BY id`, eventID)
}

func (r *RegistrationRepository) ListAttendees(ctx context.Context, eventID int64) ([]model.Attendee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.user_id, u.username, r.status
		   FROM registrations r
		   JOIN users u ON u.id = r.user_id
		  WHERE r.event_id = ?
		  ORDER BY r.id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	var out []model.Attendee
	for rows.Next() {
		var a model.Attendee
		if err := rows.Scan(&a.RegistrationID, &a.UserID, &a.Username, &a.Status); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *RegistrationRepository) ListEventsForUser(ctx context.Context, userID int64) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id, e.name, e.description, e.starts_at, e.location, e.image, e.owner_id, e.price, e.stock, e.created_at
		   FROM registrations r
		   JOIN events e ON e.id = r.event_id
		  WHERE r.user_id = ?
		  ORDER BY r.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list registered events: %w", err)
	}
	return scanEvents(rows)
}

func (r *RegistrationRepository) Exists(ctx context.Context, userID, eventID int64) (bool, error) {
	var found int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM registrations WHERE user_id = ? AND event_id = ?`, userID, eventID,
	).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check registration: %w", err)
	}
	return true, nil
}

func (r *RegistrationRepository) DeleteByEvent(ctx context.Context, eventID int64) (int64, error) {
	var n int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		n, err = deleteRegistrationsForEvent(ctx, tx, eventID)
		return err
	})
	return n, err
}

func deleteRegistrationsForEvent(ctx context.Context, tx *sql.Tx, eventID int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM registrations WHERE event_id = ?`, eventID)
	if err != nil {
		return 0, fmt.Errorf("delete registrations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
