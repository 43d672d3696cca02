package repository

import (
	"context"
	"errors"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"gorm.io/gorm"
)

// ReportRepository persists report recipients and the schedule singleton.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ListRecipients returns the distribution list ordered by email.
func (r *ReportRepository) ListRecipients(ctx context.Context) ([]entity.ReportRecipient, error) {
	var recipients []entity.ReportRecipient
	err := r.db.WithContext(ctx).Order("email ASC").Find(&recipients).Error
	return recipients, err
}

func (r *ReportRepository) AddRecipient(ctx context.Context, recipient *entity.ReportRecipient) error {
	return r.db.WithContext(ctx).Create(recipient).Error
}

func (r *ReportRepository) RemoveRecipient(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entity.ReportRecipient{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSchedule returns the schedule row, or ErrNotFound when none exists yet.
func (r *ReportRepository) GetSchedule(ctx context.Context) (*entity.ReportSchedule, error) {
	var schedule entity.ReportSchedule
	err := r.db.WithContext(ctx).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *ReportRepository) CreateSchedule(ctx context.Context, schedule *entity.ReportSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *ReportRepository) UpdateSchedule(ctx context.Context, schedule *entity.ReportSchedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}
