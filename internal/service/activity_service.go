package service

import (
	"context"
	"strings"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityService records audit rows and derives the dashboard alert feed
// from them.
type ActivityService struct {
	repo *repository.ActivityLogRepository
}

func NewActivityService(repo *repository.ActivityLogRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// Log appends one activity row.
func (s *ActivityService) Log(ctx context.Context, action, table, recordID string, details entity.JSONB) error {
	return s.repo.Create(ctx, &entity.ActivityLog{
		ID:        uuid.New().String(),
		Action:    action,
		Table:     table,
		RecordID:  recordID,
		Details:   details,
		CreatedAt: time.Now(),
	})
}

// LogTx appends one activity row inside an open transaction, so audit rows
// commit or roll back together with the change they describe.
func (s *ActivityService) LogTx(tx *gorm.DB, action, table, recordID string, details entity.JSONB) error {
	return tx.Create(&entity.ActivityLog{
		ID:        uuid.New().String(),
		Action:    action,
		Table:     table,
		RecordID:  recordID,
		Details:   details,
		CreatedAt: time.Now(),
	}).Error
}

// Alert is one entry in the dashboard alert feed.
type Alert struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	Timestamp time.Time `json:"timestamp"`
	Entity    string    `json:"entity,omitempty"`
}

// RecentAlerts maps the newest activity rows to alert levels: deletes are
// errors, updates warnings, inserts and signs successes, everything else info.
func (s *ActivityService) RecentAlerts(ctx context.Context, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = 10
	}
	logs, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0, len(logs))
	for _, log := range logs {
		level := "info"
		switch {
		case strings.Contains(log.Action, "DELETE"), strings.Contains(log.Action, "REVOKE"):
			level = "error"
		case strings.Contains(log.Action, "UPDATE"):
			level = "warning"
		case strings.Contains(log.Action, "INSERT"), strings.Contains(log.Action, "CREATE"), strings.Contains(log.Action, "SIGN"):
			level = "success"
		}

		message := log.Action + " in " + log.Table
		if log.RecordID != "" {
			message += " (" + log.RecordID + ")"
		}

		alerts = append(alerts, Alert{
			ID:        log.ID,
			Message:   message,
			Level:     level,
			Timestamp: log.CreatedAt,
			Entity:    log.Table,
		})
	}
	return alerts, nil
}
