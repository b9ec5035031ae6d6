package repository

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duccv/user-auth-service/internal/repository/migrations"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations.Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	raw, err := fs.ReadFile(migrations.Migrations, files[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "-- +goose Up")
	assert.Contains(t, string(raw), "email      TEXT NOT NULL UNIQUE")
}

func TestRunMigrations(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var dir string
	gooseUpContext = func(_ context.Context, _ *sql.DB, d string, _ ...goose.OptionsFunc) error {
		dir = d
		return nil
	}
	require.NoError(t, RunMigrations(context.Background(), nil))
	assert.Equal(t, ".", dir)

	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("permission denied")
	}
	assert.ErrorContains(t, RunMigrations(context.Background(), nil), "migrate users")
}
