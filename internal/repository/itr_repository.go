package repository

import (
	"context"
	"errors"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"gorm.io/gorm"
)

// ITRRepository persists inspection test records.
type ITRRepository struct {
	db *gorm.DB
}

func NewITRRepository(db *gorm.DB) *ITRRepository {
	return &ITRRepository{db: db}
}

func (r *ITRRepository) FindByID(ctx context.Context, id string) (*entity.ITR, error) {
	var itr entity.ITR
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&itr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &itr, nil
}

func (r *ITRRepository) List(ctx context.Context, page, pageSize int, subsystemID string) ([]entity.ITR, int64, error) {
	var itrs []entity.ITR
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ITR{})
	if subsystemID != "" {
		query = query.Where("subsystem_id = ?", subsystemID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&itrs).Error

	return itrs, total, err
}

func (r *ITRRepository) ListAll(ctx context.Context) ([]entity.ITR, error) {
	var itrs []entity.ITR
	err := r.db.WithContext(ctx).Order("name ASC").Find(&itrs).Error
	return itrs, err
}

// FindOverdue returns ITRs past their end date that are not complete.
func (r *ITRRepository) FindOverdue(ctx context.Context, now time.Time) ([]entity.ITR, error) {
	var itrs []entity.ITR
	err := r.db.WithContext(ctx).
		Where("end_date IS NOT NULL AND end_date < ? AND status <> ?", now, entity.StatusComplete).
		Find(&itrs).Error
	return itrs, err
}

func (r *ITRRepository) Create(ctx context.Context, itr *entity.ITR) error {
	return r.db.WithContext(ctx).Create(itr).Error
}

func (r *ITRRepository) Update(ctx context.Context, itr *entity.ITR) error {
	return r.db.WithContext(ctx).Save(itr).Error
}

// UpdateFields applies a partial update to one ITR row.
func (r *ITRRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&entity.ITR{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *ITRRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.ITR{}, "id = ?", id).Error
}
