package repository

import (
	"context"
	"errors"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"gorm.io/gorm"
)

// SubsystemRepository persists subsystems.
type SubsystemRepository struct {
	db *gorm.DB
}

func NewSubsystemRepository(db *gorm.DB) *SubsystemRepository {
	return &SubsystemRepository{db: db}
}

func (r *SubsystemRepository) FindByID(ctx context.Context, id string) (*entity.Subsystem, error) {
	var subsystem entity.Subsystem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&subsystem).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &subsystem, nil
}

func (r *SubsystemRepository) List(ctx context.Context, page, pageSize int, systemID string) ([]entity.Subsystem, int64, error) {
	var subsystems []entity.Subsystem
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Subsystem{})
	if systemID != "" {
		query = query.Where("system_id = ?", systemID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&subsystems).Error

	return subsystems, total, err
}

func (r *SubsystemRepository) ListAll(ctx context.Context) ([]entity.Subsystem, error) {
	var subsystems []entity.Subsystem
	err := r.db.WithContext(ctx).Order("name ASC").Find(&subsystems).Error
	return subsystems, err
}

// FindOverdue returns subsystems past their end date, date check only.
func (r *SubsystemRepository) FindOverdue(ctx context.Context, now time.Time) ([]entity.Subsystem, error) {
	var subsystems []entity.Subsystem
	err := r.db.WithContext(ctx).
		Where("end_date IS NOT NULL AND end_date < ?", now).
		Find(&subsystems).Error
	return subsystems, err
}

func (r *SubsystemRepository) Create(ctx context.Context, subsystem *entity.Subsystem) error {
	return r.db.WithContext(ctx).Create(subsystem).Error
}

func (r *SubsystemRepository) Update(ctx context.Context, subsystem *entity.Subsystem) error {
	return r.db.WithContext(ctx).Save(subsystem).Error
}

func (r *SubsystemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Subsystem{}, "id = ?", id).Error
}

// CountITRs reports how many ITRs still reference the subsystem.
func (r *SubsystemRepository) CountITRs(ctx context.Context, subsystemID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ITR{}).
		Where("subsystem_id = ?", subsystemID).
		Count(&count).Error
	return count, err
}
