package repository

import (
	"context"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"gorm.io/gorm"
)

// ActivityLogRepository persists the append-only activity log.
type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Create(ctx context.Context, log *entity.ActivityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListRecent returns the newest log rows first.
func (r *ActivityLogRepository) ListRecent(ctx context.Context, limit int) ([]entity.ActivityLog, error) {
	var logs []entity.ActivityLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
