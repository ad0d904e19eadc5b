package repositories

import (
	"context"

	"github.com/anonto42/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// AuditRepository defines the interface for the moderation audit log
type AuditRepository interface {
	Record(ctx context.Context, entry *models.AuditEntry) error
	List(ctx context.Context, limit, offset int) ([]models.AuditEntry, int64, error)
}

type postgresAuditRepository struct {
	db *gorm.DB
}

// NewPostgresAuditRepository migrates the audit table and returns the repository
func NewPostgresAuditRepository(db *gorm.DB) (AuditRepository, error) {
	if err := db.AutoMigrate(&models.AuditEntry{}); err != nil {
		return nil, err
	}
	return &postgresAuditRepository{db: db}, nil
}

func (r *postgresAuditRepository) Record(ctx context.Context, entry *models.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns entries newest first together with the total row count
func (r *postgresAuditRepository) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.AuditEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries := []models.AuditEntry{}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	return entries, total, err
}

// noopAuditRepository is used when no Postgres connection is configured
type noopAuditRepository struct{}

// NewNoopAuditRepository returns an audit log that drops every entry
func NewNoopAuditRepository() AuditRepository {
	return noopAuditRepository{}
}

func (noopAuditRepository) Record(context.Context, *models.AuditEntry) error { return nil }

func (noopAuditRepository) List(context.Context, int, int) ([]models.AuditEntry, int64, error) {
	return []models.AuditEntry{}, 0, nil
}
