package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: want %d dest, got %d", len(r.values), len(dest))
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *int64:
			*d = v.(int64)
		case *string:
			*d = v.(string)
		case *bool:
			*d = v.(bool)
		case **time.Time:
			t := v.(time.Time)
			*d = &t
		default:
			return fmt.Errorf("scan: unsupported dest %T", d)
		}
	}
	return nil
}

type call struct {
	sql  string
	args []any
}

type fakeDB struct {
	row   fakeRow
	tag   pgconn.CommandTag
	err   error
	calls []call
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, call{sql, args})
	return f.tag, f.err
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.calls = append(f.calls, call{sql, args})
	return nil, f.err
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.calls = append(f.calls, call{sql, args})
	return f.row
}

var now = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func TestMapError(t *testing.T) {
	assert.ErrorIs(t, mapError(pgx.ErrNoRows), ErrNotFound)

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key", Message: "irrelevant text"}
	assert.ErrorIs(t, mapError(fmt.Errorf("wrapped: %w", dup)), ErrDuplicateEmail)

	other := &pgconn.PgError{Code: "23502", Message: "duplicate entry in the message does not matter"}
	err := mapError(other)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
	assert.Contains(t, err.Error(), "db error")

	plain := errors.New("Duplicate entry 'a@b.c' for key 'email'")
	assert.NotErrorIs(t, mapError(plain), ErrDuplicateEmail)
}

func TestFindByID(t *testing.T) {
	db := &fakeDB{row: fakeRow{values: []any{int64(3), "Alice", "alice@example.com", now, now}}}
	repo := NewPostgresUserRepository(db, db)

	u, err := repo.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Empty(t, u.Password)
	assert.Equal(t, now, *u.CreatedAt)
	assert.Equal(t, []any{int64(3)}, db.calls[0].args)
}

func TestFindByID_NotFound(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}

	_, err := NewPostgresUserRepository(db, db).FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByEmail_LoadsHash(t *testing.T) {
	db := &fakeDB{row: fakeRow{values: []any{int64(1), "Bob", "bob@example.com", "$2a$10$hash", now, now}}}

	u, err := NewPostgresUserRepository(db, db).FindByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$hash", u.Password)
}

func TestCreate_Duplicate(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: &pgconn.PgError{Code: uniqueViolation}}}

	_, err := NewPostgresUserRepository(db, db).Create(context.Background(), "A", "a@example.com", "h")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(db.calls[0].sql), "INSERT INTO users"))
}

func TestUpdate_UsesWritePool(t *testing.T) {
	read := &fakeDB{}
	write := &fakeDB{row: fakeRow{values: []any{int64(2), "New", "new@example.com", now, now}}}

	u, err := NewPostgresUserRepository(read, write).Update(context.Background(), 2, "New", "new@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "New", u.Name)
	assert.Empty(t, read.calls)
	assert.Equal(t, []any{int64(2), "New", "new@example.com", ""}, write.calls[0].args)
}

func TestEmailTakenByOther(t *testing.T) {
	db := &fakeDB{row: fakeRow{values: []any{true}}}

	taken, err := NewPostgresUserRepository(db, db).EmailTakenByOther(context.Background(), "a@example.com", 4)
	require.NoError(t, err)
	assert.True(t, taken)
	assert.Equal(t, []any{"a@example.com", int64(4)}, db.calls[0].args)
}

func TestDelete(t *testing.T) {
	db := &fakeDB{tag: pgconn.NewCommandTag("DELETE 1")}
	require.NoError(t, NewPostgresUserRepository(db, db).Delete(context.Background(), 1))

	db = &fakeDB{tag: pgconn.NewCommandTag("DELETE 0")}
	assert.ErrorIs(t, NewPostgresUserRepository(db, db).Delete(context.Background(), 1), ErrNotFound)

	db = &fakeDB{err: errors.New("conn refused")}
	assert.ErrorContains(t, NewPostgresUserRepository(db, db).Delete(context.Background(), 1), "db error")
}
