package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuditDB(t *testing.T) AuditRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo, err := NewPostgresAuditRepository(db)
	require.NoError(t, err)
	return repo
}

func TestAuditRepository_RecordAndList(t *testing.T) {
	ctx := context.Background()
	repo := setupAuditDB(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	actions := []models.AuditAction{
		models.AuditActionSetStatus,
		models.AuditActionToggleBan,
		models.AuditActionDeletePost,
	}
	for i, action := range actions {
		require.NoError(t, repo.Record(ctx, &models.AuditEntry{
			Action:     action,
			ActorID:    "65f000000000000000000001",
			TargetType: "post",
			TargetID:   "65f0000000000000000000a1",
			Details:    datatypes.JSONMap{"step": i},
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, total, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, entries, 2)
	assert.Equal(t, models.AuditActionDeletePost, entries[0].Action)
	assert.Equal(t, models.AuditActionToggleBan, entries[1].Action)

	entries, _, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionSetStatus, entries[0].Action)
	// JSONMap decodes numbers as json.Number
	assert.Equal(t, json.Number("0"), entries[0].Details["step"])
}

func TestNoopAuditRepository(t *testing.T) {
	repo := NewNoopAuditRepository()
	require.NoError(t, repo.Record(context.Background(), &models.AuditEntry{Action: models.AuditActionToggleBan}))

	entries, total, err := repo.List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, entries)
}
