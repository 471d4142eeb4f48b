// Package postgres implements the repository contracts on PostgreSQL using pgx
// directly (no ORM).
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/eventreg/internal/database"
	"github.com/Shivanand-hulikatti/eventreg/internal/model"
	"github.com/Shivanand-hulikatti/eventreg/internal/repository"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

var (
	_ repository.UserRepository         = (*UserRepository)(nil)
	_ repository.EventRepository        = (*EventRepository)(nil)
	_ repository.RegistrationRepository = (*RegistrationRepository)(nil)
)

// Open migrates the database at url and returns a Store backed by a pool.
func Open(ctx context.Context, url string) (*repository.Store, error) {
	if err := database.MigratePostgres(url); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	pool, err := database.NewPool(ctx, url)
	if err != nil {
		return nil, err
	}
	return &repository.Store{
		Users:         NewUserRepository(pool),
		Events:        NewEventRepository(pool),
		Registrations: NewRegistrationRepository(pool),
		Close:         pool.Close,
	}, nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// inTx runs fn inside a transaction that is rolled back unless fn succeeds.
func inTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func expectOne(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ─── Users ───────────────────────────────────────────────────────────────────

// UserRepository handles persistence for users.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, password_hash, is_admin, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, is_admin)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		u.Username, u.PasswordHash, u.IsAdmin,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return model.ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.get(ctx, `id = $1`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.get(ctx, `username = $1`, username)
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
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
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET username = $1, is_admin = $2 WHERE id = $3`,
		u.Username, u.IsAdmin, u.ID,
	)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return model.ErrDuplicateUsername
		}
		return fmt.Errorf("update user: %w", err)
	}
	return expectOne(tag)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		// Lock the account so no event can be created for it mid-cascade.
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrNotFound
			}
			return fmt.Errorf("lock user row: %w", err)
		}

		steps := []struct {
			what  string
			query string
		}{
			{"delete user registrations", `DELETE FROM registrations WHERE user_id = $1`},
			{"delete registrations on owned events", `DELETE FROM registrations WHERE event_id IN (SELECT id FROM events WHERE owner_id = $1)`},
			{"delete owned events", `DELETE FROM events WHERE owner_id = $1`},
			{"delete user", `DELETE FROM users WHERE id = $1`},
		}
		for _, step := range steps {
			if _, err := tx.Exec(ctx, step.query, id); err != nil {
				return fmt.Errorf("%s: %w", step.what, err)
			}
		}
		return nil
	})
}

// ─── Events ──────────────────────────────────────────────────────────────────

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, name, description, starts_at, location, COALESCE(image, ''), owner_id, price, stock, created_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	if err := row.Scan(&e.ID, &e.Name, &e.Description, &e.StartsAt, &e.Location, &e.Image,
		&e.OwnerID, &e.Price, &e.Stock, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEvents(rows pgx.Rows) ([]model.Event, error) {
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

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO events (name, description, starts_at, location, image, owner_id, price, stock)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		e.Name, e.Description, e.StartsAt, e.Location, nullable(e.Image), e.OwnerID, e.Price, e.Stock,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return model.ErrNotFound
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events WHERE owner_id = $1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events by owner: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE events
		    SET name = $1, description = $2, starts_at = $3, location = $4, image = $5, price = $6, stock = $7
		  WHERE id = $8`,
		e.Name, e.Description, e.StartsAt, e.Location, nullable(e.Image), e.Price, e.Stock, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return expectOne(tag)
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		// Lock the event first so no registration can slip in between the
		// two deletes.
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrNotFound
			}
			return fmt.Errorf("lock event row: %w", err)
		}
		if _, err := deleteRegistrationsForEvent(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
}

// ─── Registrations ───────────────────────────────────────────────────────────

// RegistrationRepository handles persistence for registrations.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationColumns = `id, user_id, event_id, status, created_at`

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var reg model.Registration
	var status string
	if err := row.Scan(&reg.ID, &reg.UserID, &reg.EventID, &status, &reg.CreatedAt); err != nil {
		return nil, err
	}
	reg.Status = model.RegistrationStatus(status)
	return &reg, nil
}

func (r *RegistrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	if reg.Status == "" {
		reg.Status = model.StatusRegistered
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO registrations (user_id, event_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		reg.UserID, reg.EventID, string(reg.Status),
	).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		switch pgCode(err) {
		case codeUniqueViolation:
			return model.ErrAlreadyRegistered
		case codeForeignKeyViolation:
			return model.ErrNotFound
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*model.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

func (r *RegistrationRepository) list(ctx context.Context, query string, arg int64) ([]model.Registration, error) {
	rows, err := r.db.Query(ctx, query, arg)
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
	return r.list(ctx, `SELECT `+registrationColumns+` FROM registrations WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID int64) ([]model.Registration, error) {
	return r.list(ctx, `SELECT `+registrationColumns+` FROM registrations WHERE event_id = $1 ORDER BY id`, eventID)
}

func (r *RegistrationRepository) ListAttendees(ctx context.Context, eventID int64) ([]model.Attendee, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.id, r.user_id, u.username, r.status
		   FROM registrations r
		   JOIN users u ON u.id = r.user_id
		  WHERE r.event_id = $1
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
		var status string
		if err := rows.Scan(&a.RegistrationID, &a.UserID, &a.Username, &status); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		a.Status = model.RegistrationStatus(status)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *RegistrationRepository) ListEventsForUser(ctx context.Context, userID int64) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT e.id, e.name, e.description, e.starts_at, e.location, COALESCE(e.image, ''),
		        e.owner_id, e.price, e.stock, e.created_at
		   FROM registrations r
		   JOIN events e ON e.id = r.event_id
		  WHERE r.user_id = $1
		  ORDER BY r.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list registered events: %w", err)
	}
	return collectEvents(rows)
}

func (r *RegistrationRepository) Exists(ctx context.Context, userID, eventID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return exists, nil
}

func (r *RegistrationRepository) DeleteByEvent(ctx context.Context, eventID int64) (int64, error) {
	var n int64
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		n, err = deleteRegistrationsForEvent(ctx, tx, eventID)
		return err
	})
	return n, err
}

func deleteRegistrationsForEvent(ctx context.Context, tx pgx.Tx, eventID int64) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM registrations WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, fmt.Errorf("delete registrations: %w", err)
	}
	return tag.RowsAffected(), nil
}
