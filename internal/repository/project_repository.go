package repository

import (
	"context"
	"errors"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"gorm.io/gorm"
)

// ProjectRepository persists projects.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindByID looks up one project.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// List returns projects ordered by name, with optional status filter.
func (r *ProjectRepository) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Project, int64, error) {
	var projects []entity.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Project{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword := filters["keyword"]; keyword != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&projects).Error

	return projects, total, err
}

// ListAll returns every project, used by report generation.
func (r *ProjectRepository) ListAll(ctx context.Context) ([]entity.Project, error) {
	var projects []entity.Project
	err := r.db.WithContext(ctx).Order("name ASC").Find(&projects).Error
	return projects, err
}

// FindOverdue returns projects past their end date that are not complete.
func (r *ProjectRepository) FindOverdue(ctx context.Context, now time.Time) ([]entity.Project, error) {
	var projects []entity.Project
	err := r.db.WithContext(ctx).
		Where("end_date IS NOT NULL AND end_date < ? AND status <> ?", now, entity.StatusComplete).
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Project{}, "id = ?", id).Error
}

// CountSystems reports how many systems still reference the project.
func (r *ProjectRepository) CountSystems(ctx context.Context, projectID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.System{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}
