package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/duccv/user-auth-service/internal/model"
)

// SQLSTATE unique_violation
const uniqueViolation = "23505"

var (
	ErrNotFound       = errors.New("repository: user not found")
	ErrDuplicateEmail = errors.New("repository: email already exists")
)

// DBTX is the subset of pgxpool.Pool, pgx.Conn and pgx.Tx the repository uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// FindByEmail also loads the password hash.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	EmailTakenByOther(ctx context.Context, email string, id int64) (bool, error)
	Create(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	// Update keeps the stored hash when passwordHash is empty.
	Update(ctx context.Context, id int64, name, email, passwordHash string) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

type PostgresUserRepository struct {
	read  DBTX
	write DBTX
}

func NewPostgresUserRepository(read, write DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{read: read, write: write}
}

const userColumns = `id, name, email, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *PostgresUserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.read.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id DESC`)
	if err != nil {
		return nil, mapError(err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.User, error) {
		u, err := scanUser(row)
		if err != nil {
			return model.User{}, err
		}
		return *u, nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.read.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.read.QueryRow(ctx,
		`SELECT id, name, email, password, created_at, updated_at FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *PostgresUserRepository) EmailTakenByOther(ctx context.Context, email string, id int64) (bool, error) {
	var taken bool
	err := r.read.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`, email, id,
	).Scan(&taken)
	if err != nil {
		return false, mapError(err)
	}
	return taken, nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	return scanUser(r.write.QueryRow(ctx,
		`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING `+userColumns,
		name, email, passwordHash,
	))
}

func (r *PostgresUserRepository) Update(ctx context.Context, id int64, name, email, passwordHash string) (*model.User, error) {
	return scanUser(r.write.QueryRow(ctx,
		`UPDATE users
		    SET name = $2, email = $3,
		        password = COALESCE(NULLIF($4, ''), password),
		        updated_at = now()
		  WHERE id = $1
		RETURNING `+userColumns,
		id, name, email, passwordHash,
	))
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.write.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// mapError turns driver errors into the repository's typed errors by
// SQLSTATE, never by message text.
func mapError(err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateEmail) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateEmail, pgErr.ConstraintName)
	}
	return fmt.Errorf("db error: %w", err)
}
