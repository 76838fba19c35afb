package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront-labs/storefront/internal/domain"
)

// UserRepository defines persistence access for storefront accounts.
// Lookups of missing rows return pgx.ErrNoRows.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

const uniqueViolation = "23505"

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const selectUser = `SELECT id, name, email, password_hash, role, status, created_at, updated_at FROM users`

// Create stores user and fills in its generated id and timestamps. A taken
// email reports ErrDuplicateEmail.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role, status)
         VALUES (@name, @email, @hash, @role, @status)
         RETURNING id, created_at, updated_at`,
		userArgs(user),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return translate(err)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	args := userArgs(user)
	args["id"] = user.ID
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
         SET name=@name, email=@email, password_hash=@hash, role=@role, status=@status, updated_at=NOW()
         WHERE id=@id`,
		args,
	)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.one(ctx, selectUser+` WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.one(ctx, selectUser+` WHERE email=$1`, strings.ToLower(email))
}

func (r *userRepository) one(ctx context.Context, query string, arg any) (*domain.User, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[domain.User])
}

func userArgs(user *domain.User) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":   user.Name,
		"email":  strings.ToLower(user.Email),
		"hash":   user.PasswordHash,
		"role":   user.Role,
		"status": user.Status,
	}
}

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}
