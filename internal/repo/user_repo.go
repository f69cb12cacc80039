package repo

import (
	"context"
	"errors"
	"fmt"

	dom "github.com/Adarsh-yadav-ui/Sangeet/internal/domain"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no user matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when an insert loses against the unique
	// index on clerk_user_id. Callers decide whether that is an error:
	// on the lazy-create path it is the expected race outcome.
	ErrDuplicate = errors.New("user already exists")
)

// UserRepo provides user persistence. Exactly one row exists per
// clerk_user_id; the constraint lives in the database so concurrent
// writers cannot break it.
type UserRepo interface {
	GetByClerkID(ctx context.Context, clerkUserID string) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	List(ctx context.Context) ([]dom.User, error)
	Recent(ctx context.Context, limit int) ([]dom.User, error)
	Insert(ctx context.Context, attrs dom.UserAttrs) (dom.User, error)
	Patch(ctx context.Context, id int64, attrs dom.UserAttrs) (dom.User, error)
	Delete(ctx context.Context, id int64) error
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

const userColumns = `id, clerk_user_id, email, first_name, last_name, username, image_url, created_at, updated_at`

func scanUser(row pgx.Row) (dom.User, error) {
	var u dom.User
	err := row.Scan(&u.ID, &u.ClerkUserID, &u.Email, &u.FirstName, &u.LastName,
		&u.Username, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByClerkID returns the user for the given Clerk user ID.
func (r *PGUserRepo) GetByClerkID(ctx context.Context, clerkUserID string) (dom.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE clerk_user_id = $1`,
		clerkUserID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, ErrNotFound
	}
	return u, err
}

// GetByID returns the user by internal ID.
func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, ErrNotFound
	}
	return u, err
}

// List returns all users, newest first.
func (r *PGUserRepo) List(ctx context.Context) ([]dom.User, error) {
	return r.queryUsers(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
}

// Recent returns the newest limit users.
func (r *PGUserRepo) Recent(ctx context.Context, limit int) ([]dom.User, error) {
	return r.queryUsers(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *PGUserRepo) queryUsers(ctx context.Context, query string, args ...any) ([]dom.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Insert creates a new user row. The row is written in a single INSERT, so
// a user is either fully visible or not there at all. Returns ErrDuplicate
// if a row for the same clerk_user_id already committed.
func (r *PGUserRepo) Insert(ctx context.Context, attrs dom.UserAttrs) (dom.User, error) {
	query := `
		INSERT INTO users (clerk_user_id, email, first_name, last_name, username, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query,
		attrs.ClerkUserID, attrs.Email, attrs.FirstName, attrs.LastName,
		attrs.Username, attrs.ImageURL,
	))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, fmt.Errorf("insert user %s: %w", attrs.ClerkUserID, ErrDuplicate)
		}
		return dom.User{}, err
	}
	return u, nil
}

// Patch merges the non-nil attrs into the row and bumps updated_at.
// A nil attr keeps the stored value (COALESCE), so an event that omits a
// field never clears it. Returns ErrNotFound if the row is gone, e.g. the
// patch raced against a delete.
func (r *PGUserRepo) Patch(ctx context.Context, id int64, attrs dom.UserAttrs) (dom.User, error) {
	query := `
		UPDATE users SET
			email = COALESCE($2, email),
			first_name = COALESCE($3, first_name),
			last_name = COALESCE($4, last_name),
			username = COALESCE($5, username),
			image_url = COALESCE($6, image_url),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query,
		id, attrs.Email, attrs.FirstName, attrs.LastName, attrs.Username, attrs.ImageURL,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, ErrNotFound
	}
	return u, err
}

// Delete removes the row. Hard delete, no tombstone: a later lookup for the
// same clerk_user_id returns ErrNotFound until a new insert.
func (r *PGUserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
