package service

import (
	"context"
	"fmt"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/google/uuid"
)

// TestPackService manages test packs and their tags. Releasing a tag stamps
// its release date; when every tag in a pack is released the pack itself
// flips to "listo".
type TestPackService struct {
	packRepo *repository.TestPackRepository
	activity *ActivityService
}

func NewTestPackService(packRepo *repository.TestPackRepository, activity *ActivityService) *TestPackService {
	return &TestPackService{packRepo: packRepo, activity: activity}
}

type CreateTestPackRequest struct {
	NombrePaquete string `json:"nombre_paquete" binding:"required"`
	ITRAsociado   string `json:"itr_asociado" binding:"required"`
	Sistema       string `json:"sistema" binding:"required"`
	Subsistema    string `json:"subsistema" binding:"required"`
	Estado        string `json:"estado"`
}

type UpdateTestPackRequest struct {
	NombrePaquete *string `json:"nombre_paquete"`
	ITRAsociado   *string `json:"itr_asociado"`
	Sistema       *string `json:"sistema"`
	Subsistema    *string `json:"subsistema"`
	Estado        *string `json:"estado"`
}

type CreateTagRequest struct {
	TestPackID string `json:"test_pack_id" binding:"required"`
	TagName    string `json:"tag_name" binding:"required"`
}

func (s *TestPackService) List(ctx context.Context, page, pageSize int, itrName string) (*ListResult[entity.TestPack], error) {
	packs, total, err := s.packRepo.List(ctx, page, pageSize, itrName)
	if err != nil {
		return nil, err
	}
	return &ListResult[entity.TestPack]{
		Items:      packs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *TestPackService) Get(ctx context.Context, id string) (*entity.TestPack, error) {
	return s.packRepo.FindByID(ctx, id)
}

func (s *TestPackService) Create(ctx context.Context, req CreateTestPackRequest) (*entity.TestPack, error) {
	estado := req.Estado
	if estado == "" {
		estado = entity.TestPackEstadoPendiente
	}

	now := time.Now()
	pack := &entity.TestPack{
		ID:            uuid.New().String(),
		NombrePaquete: req.NombrePaquete,
		ITRAsociado:   req.ITRAsociado,
		Sistema:       req.Sistema,
		Subsistema:    req.Subsistema,
		Estado:        estado,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.packRepo.Create(ctx, pack); err != nil {
		return nil, err
	}
	_ = s.activity.Log(ctx, "INSERT", "test_packs", pack.ID, nil)
	return pack, nil
}

func (s *TestPackService) Update(ctx context.Context, id string, req UpdateTestPackRequest) (*entity.TestPack, error) {
	pack, err := s.packRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.NombrePaquete != nil {
		if *req.NombrePaquete == "" {
			return nil, fmt.Errorf("%w: nombre_paquete cannot be empty", ErrValidation)
		}
		pack.NombrePaquete = *req.NombrePaquete
	}
	if req.ITRAsociado != nil {
		if *req.ITRAsociado == "" {
			return nil, fmt.Errorf("%w: itr_asociado cannot be empty", ErrValidation)
		}
		pack.ITRAsociado = *req.ITRAsociado
	}
	if req.Sistema != nil {
		if *req.Sistema == "" {
			return nil, fmt.Errorf("%w: sistema cannot be empty", ErrValidation)
		}
		pack.Sistema = *req.Sistema
	}
	if req.Subsistema != nil {
		if *req.Subsistema == "" {
			return nil, fmt.Errorf("%w: subsistema cannot be empty", ErrValidation)
		}
		pack.Subsistema = *req.Subsistema
	}
	if req.Estado != nil {
		pack.Estado = *req.Estado
	}
	pack.UpdatedAt = time.Now()

	if err := s.packRepo.Update(ctx, pack); err != nil {
		return nil, err
	}
	_ = s.activity.Log(ctx, "UPDATE", "test_packs", pack.ID, nil)
	return pack, nil
}

func (s *TestPackService) Delete(ctx context.Context, id string) error {
	if _, err := s.packRepo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.packRepo.CountTags(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("test pack has %d tags: %w", count, ErrHasChildren)
	}
	if err := s.packRepo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.activity.Log(ctx, "DELETE", "test_packs", id, nil)
	return nil
}

// Tags

func (s *TestPackService) ListTags(ctx context.Context, testPackID string) ([]entity.Tag, error) {
	if _, err := s.packRepo.FindByID(ctx, testPackID); err != nil {
		return nil, err
	}
	return s.packRepo.ListTags(ctx, testPackID)
}

func (s *TestPackService) CreateTag(ctx context.Context, req CreateTagRequest) (*entity.Tag, error) {
	if _, err := s.packRepo.FindByID(ctx, req.TestPackID); err != nil {
		return nil, fmt.Errorf("test pack %s: %w", req.TestPackID, err)
	}

	now := time.Now()
	tag := &entity.Tag{
		ID:         uuid.New().String(),
		TestPackID: req.TestPackID,
		TagName:    req.TagName,
		Estado:     entity.TagEstadoPendiente,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.packRepo.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	_ = s.activity.Log(ctx, "INSERT", "tags", tag.ID, nil)
	return tag, nil
}

// ReleaseTag marks one tag released, stamping the release date. When it was
// the last pending tag, the owning pack flips to "listo".
func (s *TestPackService) ReleaseTag(ctx context.Context, tagID string) (*entity.Tag, error) {
	tag, err := s.packRepo.FindTagByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if tag.Estado == entity.TagEstadoLiberado {
		return tag, nil
	}

	now := time.Now()
	tag.Estado = entity.TagEstadoLiberado
	tag.FechaLiberacion = &now
	tag.UpdatedAt = now
	if err := s.packRepo.UpdateTag(ctx, tag); err != nil {
		return nil, err
	}
	_ = s.activity.Log(ctx, "UPDATE", "tags", tag.ID, entity.JSONB{"estado": tag.Estado})

	tags, err := s.packRepo.ListTags(ctx, tag.TestPackID)
	if err != nil {
		return tag, nil
	}
	allReleased := true
	for _, t := range tags {
		if t.Estado != entity.TagEstadoLiberado {
			allReleased = false
			break
		}
	}
	if allReleased {
		pack, err := s.packRepo.FindByID(ctx, tag.TestPackID)
		if err == nil && pack.Estado != entity.TestPackEstadoListo {
			pack.Estado = entity.TestPackEstadoListo
			pack.UpdatedAt = now
			_ = s.packRepo.Update(ctx, pack)
		}
	}

	return tag, nil
}

func (s *TestPackService) DeleteTag(ctx context.Context, id string) error {
	if _, err := s.packRepo.FindTagByID(ctx, id); err != nil {
		return err
	}
	if err := s.packRepo.DeleteTag(ctx, id); err != nil {
		return err
	}
	_ = s.activity.Log(ctx, "DELETE", "tags", id, nil)
	return nil
}
