package repository

import (
	"context"
	"errors"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"gorm.io/gorm"
)

// SystemRepository persists systems.
type SystemRepository struct {
	db *gorm.DB
}

func NewSystemRepository(db *gorm.DB) *SystemRepository {
	return &SystemRepository{db: db}
}

func (r *SystemRepository) FindByID(ctx context.Context, id string) (*entity.System, error) {
	var system entity.System
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&system).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &system, nil
}

// List returns systems ordered by name, optionally scoped to one project.
func (r *SystemRepository) List(ctx context.Context, page, pageSize int, projectID string) ([]entity.System, int64, error) {
	var systems []entity.System
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.System{})
	if projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&systems).Error

	return systems, total, err
}

func (r *SystemRepository) ListAll(ctx context.Context) ([]entity.System, error) {
	var systems []entity.System
	err := r.db.WithContext(ctx).Order("name ASC").Find(&systems).Error
	return systems, err
}

// FindOverdue returns systems past their end date. Systems have no status
// column, so completion does not exclude them here.
func (r *SystemRepository) FindOverdue(ctx context.Context, now time.Time) ([]entity.System, error) {
	var systems []entity.System
	err := r.db.WithContext(ctx).
		Where("end_date IS NOT NULL AND end_date < ?", now).
		Find(&systems).Error
	return systems, err
}

func (r *SystemRepository) Create(ctx context.Context, system *entity.System) error {
	return r.db.WithContext(ctx).Create(system).Error
}

func (r *SystemRepository) Update(ctx context.Context, system *entity.System) error {
	return r.db.WithContext(ctx).Save(system).Error
}

func (r *SystemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.System{}, "id = ?", id).Error
}

// CountSubsystems reports how many subsystems still reference the system.
func (r *SystemRepository) CountSubsystems(ctx context.Context, systemID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Subsystem{}).
		Where("system_id = ?", systemID).
		Count(&count).Error
	return count, err
}
