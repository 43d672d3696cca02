package repository

import (
	"context"
	"errors"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"gorm.io/gorm"
)

// SignatureRepository persists ITR signatures. Completion-critical reads and
// writes go through the transaction handle passed in by the service so the
// check-then-act sequence stays atomic.
type SignatureRepository struct {
	db *gorm.DB
}

func NewSignatureRepository(db *gorm.DB) *SignatureRepository {
	return &SignatureRepository{db: db}
}

func (r *SignatureRepository) FindByID(ctx context.Context, id string) (*entity.Signature, error) {
	var sig entity.Signature
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sig).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sig, nil
}

// ListByITR returns an ITR's signatures in creation order.
func (r *SignatureRepository) ListByITR(ctx context.Context, itrID string) ([]entity.Signature, error) {
	var sigs []entity.Signature
	err := r.db.WithContext(ctx).
		Where("itr_id = ?", itrID).
		Order("created_at ASC").
		Find(&sigs).Error
	return sigs, err
}

// Exists reports whether the (itr, user, role) triple already has a signature.
func (r *SignatureRepository) Exists(tx *gorm.DB, itrID, userID, role string) (bool, error) {
	var count int64
	err := tx.Model(&entity.Signature{}).
		Where("itr_id = ? AND user_id = ? AND role = ?", itrID, userID, role).
		Count(&count).Error
	return count > 0, err
}

// RolesSigned returns the distinct roles signed for an ITR.
func (r *SignatureRepository) RolesSigned(tx *gorm.DB, itrID string) ([]string, error) {
	var roles []string
	err := tx.Model(&entity.Signature{}).
		Where("itr_id = ?", itrID).
		Distinct().
		Pluck("role", &roles).Error
	return roles, err
}
