package service

import (
	"context"
	"fmt"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/google/uuid"
)

// SubsystemService manages subsystems under a system.
type SubsystemService struct {
	subsystemRepo *repository.SubsystemRepository
	systemRepo    *repository.SystemRepository
	activity      *ActivityService
}

func NewSubsystemService(subsystemRepo *repository.SubsystemRepository, systemRepo *repository.SystemRepository, activity *ActivityService) *SubsystemService {
	return &SubsystemService{subsystemRepo: subsystemRepo, systemRepo: systemRepo, activity: activity}
}

type CreateSubsystemRequest struct {
	Name           string     `json:"name" binding:"required"`
	SystemID       string     `json:"system_id" binding:"required"`
	CompletionRate int        `json:"completion_rate"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
}

type UpdateSubsystemRequest struct {
	Name           *string    `json:"name"`
	CompletionRate *int       `json:"completion_rate"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
}

func (s *SubsystemService) List(ctx context.Context, page, pageSize int, systemID string) (*ListResult[entity.Subsystem], error) {
	subsystems, total, err := s.subsystemRepo.List(ctx, page, pageSize, systemID)
	if err != nil {
		return nil, err
	}
	return &ListResult[entity.Subsystem]{
		Items:      subsystems,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *SubsystemService) Get(ctx context.Context, id string) (*entity.Subsystem, error) {
	return s.subsystemRepo.FindByID(ctx, id)
}

func (s *SubsystemService) Create(ctx context.Context, req CreateSubsystemRequest) (*entity.Subsystem, error) {
	if _, err := s.systemRepo.FindByID(ctx, req.SystemID); err != nil {
		return nil, fmt.Errorf("system %s: %w", req.SystemID, err)
	}

	now := time.Now()
	subsystem := &entity.Subsystem{
		ID:             uuid.New().String(),
		Name:           req.Name,
		SystemID:       req.SystemID,
		CompletionRate: req.CompletionRate,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.subsystemRepo.Create(ctx, subsystem); err != nil {
		return nil, err
	}
	_ = s.activity.Log(ctx, "INSERT", "subsystems", subsystem.ID, nil)
	return subsystem, nil
}

func (s *SubsystemService) Update(ctx context.Context, id string, req UpdateSubsystemRequest) (*entity.Subsystem, error) {
	subsystem, err := s.subsystemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		subsystem.Name = *req.Name
	}
	if req.CompletionRate != nil {
		subsystem.CompletionRate = *req.CompletionRate
	}
	if req.StartDate != nil {
		subsystem.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		subsystem.EndDate = req.EndDate
	}
	subsystem.UpdatedAt = time.Now()

	if err := s.subsystemRepo.Update(ctx, subsystem); err != nil {
		return nil, err
	}
	_ = s.activity.Log(ctx, "UPDATE", "subsystems", subsystem.ID, nil)
	return subsystem, nil
}

func (s *SubsystemService) Delete(ctx context.Context, id string) error {
	if _, err := s.subsystemRepo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.subsystemRepo.CountITRs(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("subsystem has %d itrs: %w", count, ErrHasChildren)
	}
	if err := s.subsystemRepo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.activity.Log(ctx, "DELETE", "subsystems", id, nil)
	return nil
}
