package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-gin-mongo-users/internal/core/config"
	"go-gin-mongo-users/internal/core/database"
	"go-gin-mongo-users/internal/domain"
	"go-gin-mongo-users/internal/repo"
)

func TestOpenMemory(t *testing.T) {
	cfg := &config.Config{DB: config.DB{Driver: config.DriverMemory}}
	h, err := repo.Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer h.Close()

	assert.Nil(t, h.Checker)
	require.NoError(t, h.Migrate(context.Background()))
	require.NoError(t, h.Users.Insert(context.Background(), &domain.User{Name: "A", Email: "a@x.com"}))
}

func TestOpenUnsupported(t *testing.T) {
	cfg := &config.Config{DB: config.DB{Driver: "sqlite"}}
	_, err := repo.Open(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
}
