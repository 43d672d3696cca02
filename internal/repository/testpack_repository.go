package repository

import (
	"context"
	"errors"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"gorm.io/gorm"
)

// TestPackRepository persists test packs and their tags.
type TestPackRepository struct {
	db *gorm.DB
}

func NewTestPackRepository(db *gorm.DB) *TestPackRepository {
	return &TestPackRepository{db: db}
}

func (r *TestPackRepository) FindByID(ctx context.Context, id string) (*entity.TestPack, error) {
	var pack entity.TestPack
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pack).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pack, nil
}

// List returns test packs ordered by package name, optionally filtered by
// the associated ITR name.
func (r *TestPackRepository) List(ctx context.Context, page, pageSize int, itrName string) ([]entity.TestPack, int64, error) {
	var packs []entity.TestPack
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.TestPack{})
	if itrName != "" {
		query = query.Where("itr_asociado = ?", itrName)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("nombre_paquete ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&packs).Error

	return packs, total, err
}

func (r *TestPackRepository) ListAll(ctx context.Context) ([]entity.TestPack, error) {
	var packs []entity.TestPack
	err := r.db.WithContext(ctx).Order("nombre_paquete ASC").Find(&packs).Error
	return packs, err
}

func (r *TestPackRepository) Create(ctx context.Context, pack *entity.TestPack) error {
	return r.db.WithContext(ctx).Create(pack).Error
}

func (r *TestPackRepository) Update(ctx context.Context, pack *entity.TestPack) error {
	return r.db.WithContext(ctx).Save(pack).Error
}

func (r *TestPackRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.TestPack{}, "id = ?", id).Error
}

// CountTags reports how many tags still reference the test pack.
func (r *TestPackRepository) CountTags(ctx context.Context, testPackID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Tag{}).
		Where("test_pack_id = ?", testPackID).
		Count(&count).Error
	return count, err
}

// Tag operations

func (r *TestPackRepository) FindTagByID(ctx context.Context, id string) (*entity.Tag, error) {
	var tag entity.Tag
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// ListTags returns a test pack's tags in creation order.
func (r *TestPackRepository) ListTags(ctx context.Context, testPackID string) ([]entity.Tag, error) {
	var tags []entity.Tag
	err := r.db.WithContext(ctx).
		Where("test_pack_id = ?", testPackID).
		Order("created_at ASC").
		Find(&tags).Error
	return tags, err
}

func (r *TestPackRepository) CreateTag(ctx context.Context, tag *entity.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *TestPackRepository) UpdateTag(ctx context.Context, tag *entity.Tag) error {
	return r.db.WithContext(ctx).Save(tag).Error
}

func (r *TestPackRepository) DeleteTag(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Tag{}, "id = ?", id).Error
}
