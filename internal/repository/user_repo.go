package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskboard/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres unique_violation
const uniqueViolationCode = "23505"

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// Create inserts a new user. Emails are stored lowercased so uniqueness is
// case-insensitive.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash)
		 VALUES ($1, $2, LOWER($3), $4)
		 RETURNING created_at, updated_at`,
		u.ID, u.Name, u.Email, u.PasswordHash,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return err
	}
	u.Email = strings.ToLower(u.Email)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`, id))
}

// GetByEmail performs a case-insensitive exact lookup.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM users WHERE email = LOWER($1)`, email))
}

func (r *UserRepository) scanOne(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateName changes the display name and returns the fresh record.
func (r *UserRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`UPDATE users SET name = $1, updated_at = $2
		 WHERE id = $3
		 RETURNING id, name, email, password_hash, created_at, updated_at`,
		name, time.Now().UTC(), id))
}

// Delete removes a user. Kept for completeness; nothing in the API exposes it.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List returns the whole directory for assignment dropdowns.
func (r *UserRepository) List(ctx context.Context) ([]domain.PublicUser, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, email FROM users ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPublicUsers(rows)
}

// Search matches a case-insensitive substring against name or email.
func (r *UserRepository) Search(ctx context.Context, query string) ([]domain.PublicUser, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, email FROM users
		 WHERE name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
		 ORDER BY name ASC
		 LIMIT 10`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPublicUsers(rows)
}

func scanPublicUsers(rows pgx.Rows) ([]domain.PublicUser, error) {
	var res []domain.PublicUser
	for rows.Next() {
		var u domain.PublicUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}
