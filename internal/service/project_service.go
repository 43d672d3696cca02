package service

import (
	"context"
	"fmt"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/google/uuid"
)

// ProjectService manages the project level of the hierarchy.
type ProjectService struct {
	projectRepo *repository.ProjectRepository
	activity    *ActivityService
}

func NewProjectService(projectRepo *repository.ProjectRepository, activity *ActivityService) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, activity: activity}
}

// CreateProjectRequest carries project creation input.
type CreateProjectRequest struct {
	Name      string     `json:"name" binding:"required"`
	Location  string     `json:"location"`
	Status    string     `json:"status"`
	Progress  int        `json:"progress"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// UpdateProjectRequest carries a partial project update; nil pointers leave
// the field untouched.
type UpdateProjectRequest struct {
	Name      *string    `json:"name"`
	Location  *string    `json:"location"`
	Status    *string    `json:"status"`
	Progress  *int       `json:"progress"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// ListResult is a paginated entity list.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func (s *ProjectService) List(ctx context.Context, page, pageSize int, filters map[string]string) (*ListResult[entity.Project], error) {
	projects, total, err := s.projectRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, err
	}
	return &ListResult[entity.Project]{
		Items:      projects,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	return s.projectRepo.FindByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*entity.Project, error) {
	status := req.Status
	if status == "" {
		status = entity.StatusPending
	}
	now := time.Now()
	project := &entity.Project{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Location:  req.Location,
		Status:    status,
		Progress:  req.Progress,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	_ = s.activity.Log(ctx, "INSERT", "projects", project.ID, nil)
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, req UpdateProjectRequest) (*entity.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Location != nil {
		project.Location = *req.Location
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Progress != nil {
		project.Progress = *req.Progress
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	project.UpdatedAt = time.Now()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	_ = s.activity.Log(ctx, "UPDATE", "projects", project.ID, nil)
	return project, nil
}

// Delete refuses to remove a project that still has systems. Cascades are
// deliberate, not automatic.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.projectRepo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.projectRepo.CountSystems(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("project has %d systems: %w", count, ErrHasChildren)
	}
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.activity.Log(ctx, "DELETE", "projects", id, nil)
	return nil
}
