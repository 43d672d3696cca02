package service

import (
	"context"
	"fmt"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/google/uuid"
)

// ITRService manages inspection test records. Status and progress can be
// edited manually here; the signature workflow owns the complete/100
// transition and overrides manual state when both roles are signed.
type ITRService struct {
	itrRepo       *repository.ITRRepository
	subsystemRepo *repository.SubsystemRepository
	activity      *ActivityService
}

func NewITRService(itrRepo *repository.ITRRepository, subsystemRepo *repository.SubsystemRepository, activity *ActivityService) *ITRService {
	return &ITRService{itrRepo: itrRepo, subsystemRepo: subsystemRepo, activity: activity}
}

type CreateITRRequest struct {
	Name        string     `json:"name" binding:"required"`
	SubsystemID string     `json:"subsystem_id" binding:"required"`
	Quantity    int        `json:"quantity"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	AssignedTo  string     `json:"assigned_to"`
}

type UpdateITRRequest struct {
	Name       *string    `json:"name"`
	Quantity   *int       `json:"quantity"`
	Status     *string    `json:"status"`
	Progress   *int       `json:"progress"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	AssignedTo *string    `json:"assigned_to"`
}

func validITRStatus(status string) bool {
	switch status {
	case entity.StatusPending, entity.StatusInProgress, entity.StatusComplete, entity.StatusDelayed:
		return true
	}
	return false
}

func (s *ITRService) List(ctx context.Context, page, pageSize int, subsystemID string) (*ListResult[entity.ITR], error) {
	itrs, total, err := s.itrRepo.List(ctx, page, pageSize, subsystemID)
	if err != nil {
		return nil, err
	}
	return &ListResult[entity.ITR]{
		Items:      itrs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *ITRService) Get(ctx context.Context, id string) (*entity.ITR, error) {
	return s.itrRepo.FindByID(ctx, id)
}

func (s *ITRService) Create(ctx context.Context, req CreateITRRequest) (*entity.ITR, error) {
	if _, err := s.subsystemRepo.FindByID(ctx, req.SubsystemID); err != nil {
		return nil, fmt.Errorf("subsystem %s: %w", req.SubsystemID, err)
	}

	status := req.Status
	if status == "" {
		status = entity.StatusPending
	}
	if !validITRStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	now := time.Now()
	itr := &entity.ITR{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Quantity:    quantity,
		Status:      status,
		Progress:    req.Progress,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		AssignedTo:  req.AssignedTo,
		SubsystemID: req.SubsystemID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.itrRepo.Create(ctx, itr); err != nil {
		return nil, err
	}
	_ = s.activity.Log(ctx, "INSERT", "itrs", itr.ID, nil)
	return itr, nil
}

func (s *ITRService) Update(ctx context.Context, id string, req UpdateITRRequest) (*entity.ITR, error) {
	itr, err := s.itrRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && !validITRStatus(*req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *req.Status)
	}
	if req.Progress != nil && (*req.Progress < 0 || *req.Progress > 100) {
		return nil, fmt.Errorf("%w: progress %d out of range", ErrValidation, *req.Progress)
	}

	if req.Name != nil {
		itr.Name = *req.Name
	}
	if req.Quantity != nil {
		itr.Quantity = *req.Quantity
	}
	if req.Status != nil {
		itr.Status = *req.Status
	}
	if req.Progress != nil {
		itr.Progress = *req.Progress
	}
	if req.StartDate != nil {
		itr.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		itr.EndDate = req.EndDate
	}
	if req.AssignedTo != nil {
		itr.AssignedTo = *req.AssignedTo
	}
	itr.UpdatedAt = time.Now()

	if err := s.itrRepo.Update(ctx, itr); err != nil {
		return nil, err
	}
	_ = s.activity.Log(ctx, "UPDATE", "itrs", itr.ID, nil)
	return itr, nil
}

func (s *ITRService) Delete(ctx context.Context, id string) error {
	if _, err := s.itrRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.itrRepo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.activity.Log(ctx, "DELETE", "itrs", id, nil)
	return nil
}
