package service

import (
	"context"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
)

// Delay describes one overdue entity. Delays are produced fresh on every
// scan and never persisted.
type Delay struct {
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	EntityName string    `json:"entity_name"`
	DueDate    time.Time `json:"due_date"`
}

// DelayService sweeps every dated entity and reports the overdue ones. Pure
// read; callers decide what to do with the result.
type DelayService struct {
	projectRepo   *repository.ProjectRepository
	systemRepo    *repository.SystemRepository
	subsystemRepo *repository.SubsystemRepository
	itrRepo       *repository.ITRRepository
}

func NewDelayService(
	projectRepo *repository.ProjectRepository,
	systemRepo *repository.SystemRepository,
	subsystemRepo *repository.SubsystemRepository,
	itrRepo *repository.ITRRepository,
) *DelayService {
	return &DelayService{
		projectRepo:   projectRepo,
		systemRepo:    systemRepo,
		subsystemRepo: subsystemRepo,
		itrRepo:       itrRepo,
	}
}

// Scan returns overdue entities in fixed scan order: projects, systems,
// subsystems, ITRs. Projects and ITRs skip completed records; systems and
// subsystems have no status column and are flagged on date alone. Callers
// wanting chronological order must sort the result themselves.
func (s *DelayService) Scan(ctx context.Context, now time.Time) ([]Delay, error) {
	var delays []Delay

	projects, err := s.projectRepo.FindOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		delays = append(delays, Delay{
			EntityType: "project",
			EntityID:   p.ID,
			EntityName: p.Name,
			DueDate:    *p.EndDate,
		})
	}

	systems, err := s.systemRepo.FindOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, sys := range systems {
		delays = append(delays, Delay{
			EntityType: "system",
			EntityID:   sys.ID,
			EntityName: sys.Name,
			DueDate:    *sys.EndDate,
		})
	}

	subsystems, err := s.subsystemRepo.FindOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, sub := range subsystems {
		delays = append(delays, Delay{
			EntityType: "subsystem",
			EntityID:   sub.ID,
			EntityName: sub.Name,
			DueDate:    *sub.EndDate,
		})
	}

	itrs, err := s.itrRepo.FindOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, itr := range itrs {
		delays = append(delays, Delay{
			EntityType: "itr",
			EntityID:   itr.ID,
			EntityName: itr.Name,
			DueDate:    *itr.EndDate,
		})
	}

	return delays, nil
}
