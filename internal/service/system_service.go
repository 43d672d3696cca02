package service

import (
	"context"
	"fmt"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/google/uuid"
)

// SystemService manages systems under a project.
type SystemService struct {
	systemRepo  *repository.SystemRepository
	projectRepo *repository.ProjectRepository
	activity    *ActivityService
}

func NewSystemService(systemRepo *repository.SystemRepository, projectRepo *repository.ProjectRepository, activity *ActivityService) *SystemService {
	return &SystemService{systemRepo: systemRepo, projectRepo: projectRepo, activity: activity}
}

type CreateSystemRequest struct {
	Name           string     `json:"name" binding:"required"`
	ProjectID      string     `json:"project_id" binding:"required"`
	CompletionRate int        `json:"completion_rate"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
}

type UpdateSystemRequest struct {
	Name           *string    `json:"name"`
	CompletionRate *int       `json:"completion_rate"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
}

func (s *SystemService) List(ctx context.Context, page, pageSize int, projectID string) (*ListResult[entity.System], error) {
	systems, total, err := s.systemRepo.List(ctx, page, pageSize, projectID)
	if err != nil {
		return nil, err
	}
	return &ListResult[entity.System]{
		Items:      systems,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *SystemService) Get(ctx context.Context, id string) (*entity.System, error) {
	return s.systemRepo.FindByID(ctx, id)
}

func (s *SystemService) Create(ctx context.Context, req CreateSystemRequest) (*entity.System, error) {
	// Parent must exist; dangling references break the dashboard rollups.
	if _, err := s.projectRepo.FindByID(ctx, req.ProjectID); err != nil {
		return nil, fmt.Errorf("project %s: %w", req.ProjectID, err)
	}

	now := time.Now()
	system := &entity.System{
		ID:             uuid.New().String(),
		Name:           req.Name,
		ProjectID:      req.ProjectID,
		CompletionRate: req.CompletionRate,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.systemRepo.Create(ctx, system); err != nil {
		return nil, err
	}
	_ = s.activity.Log(ctx, "INSERT", "systems", system.ID, nil)
	return system, nil
}

func (s *SystemService) Update(ctx context.Context, id string, req UpdateSystemRequest) (*entity.System, error) {
	system, err := s.systemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		system.Name = *req.Name
	}
	if req.CompletionRate != nil {
		system.CompletionRate = *req.CompletionRate
	}
	if req.StartDate != nil {
		system.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		system.EndDate = req.EndDate
	}
	system.UpdatedAt = time.Now()

	if err := s.systemRepo.Update(ctx, system); err != nil {
		return nil, err
	}
	_ = s.activity.Log(ctx, "UPDATE", "systems", system.ID, nil)
	return system, nil
}

func (s *SystemService) Delete(ctx context.Context, id string) error {
	if _, err := s.systemRepo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.systemRepo.CountSubsystems(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("system has %d subsystems: %w", count, ErrHasChildren)
	}
	if err := s.systemRepo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.activity.Log(ctx, "DELETE", "systems", id, nil)
	return nil
}
