package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SignatureService enforces the two-signature completion rule for ITRs.
// Every mutation runs inside one transaction so the signature insert and the
// completion update commit together; the unique (itr, user, role) index backs
// the duplicate check against concurrent signers.
type SignatureService struct {
	db       *gorm.DB
	sigRepo  *repository.SignatureRepository
	activity *ActivityService
}

func NewSignatureService(db *gorm.DB, sigRepo *repository.SignatureRepository) *SignatureService {
	return &SignatureService{
		db:       db,
		sigRepo:  sigRepo,
		activity: NewActivityService(repository.NewActivityLogRepository(db)),
	}
}

// rolesComplete reports whether both required roles appear in the signed set.
func rolesComplete(roles []string) bool {
	hasInspector, hasApprover := false, false
	for _, role := range roles {
		switch role {
		case entity.SignatureRoleInspector:
			hasInspector = true
		case entity.SignatureRoleApprover:
			hasApprover = true
		}
	}
	return hasInspector && hasApprover
}

// Sign records one (user, role) attestation against an ITR. When the second
// required role lands, the ITR flips to complete/100 in the same transaction.
// The first signature never changes the ITR's status.
func (s *SignatureService) Sign(ctx context.Context, itrID, userID, role string) (*entity.Signature, error) {
	if role != entity.SignatureRoleInspector && role != entity.SignatureRoleApprover {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	var created *entity.Signature
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var itr entity.ITR
		if err := tx.Where("id = ?", itrID).First(&itr).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("itr %s: %w", itrID, repository.ErrNotFound)
			}
			return err
		}

		var user entity.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %s: %w", userID, repository.ErrNotFound)
			}
			return err
		}

		exists, err := s.sigRepo.Exists(tx, itrID, userID, role)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("itr %s already signed by %s as %s: %w", itrID, userID, role, ErrDuplicateSignature)
		}

		now := time.Now()
		sig := &entity.Signature{
			ID:        uuid.New().String(),
			ITRID:     itrID,
			UserID:    userID,
			Role:      role,
			SignedAt:  now,
			CreatedAt: now,
		}
		if err := tx.Create(sig).Error; err != nil {
			// A concurrent signer can slip past the read; the unique index
			// turns that race into a duplicate error instead of a second row.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("itr %s already signed by %s as %s: %w", itrID, userID, role, ErrDuplicateSignature)
			}
			return err
		}

		if err := s.activity.LogTx(tx, "SIGN_ITR", "itrs", itrID, entity.JSONB{"user_id": userID, "role": role}); err != nil {
			return err
		}

		// Completion is derived from the live signature set on every sign,
		// so replaying the check is idempotent.
		roles, err := s.sigRepo.RolesSigned(tx, itrID)
		if err != nil {
			return err
		}
		if rolesComplete(roles) {
			err := tx.Model(&entity.ITR{}).
				Where("id = ?", itrID).
				Updates(map[string]interface{}{
					"status":     entity.StatusComplete,
					"progress":   100,
					"updated_at": now,
				}).Error
			if err != nil {
				return err
			}
			if err := s.activity.LogTx(tx, "COMPLETE_ITR", "itrs", itrID, entity.JSONB{"reason": "All signatures collected"}); err != nil {
				return err
			}
		}

		created = sig
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListByITR returns an ITR's signatures in creation order.
func (s *SignatureService) ListByITR(ctx context.Context, itrID string) ([]entity.Signature, error) {
	return s.sigRepo.ListByITR(ctx, itrID)
}

// Revoke hard-deletes one signature and resets the owning ITR to
// inprogress/50. The reset is unconditional: it applies even when a
// signature of the other role remains.
func (s *SignatureService) Revoke(ctx context.Context, signatureID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sig entity.Signature
		if err := tx.Where("id = ?", signatureID).First(&sig).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("signature %s: %w", signatureID, repository.ErrNotFound)
			}
			return err
		}

		if err := tx.Delete(&entity.Signature{}, "id = ?", signatureID).Error; err != nil {
			return err
		}

		err := tx.Model(&entity.ITR{}).
			Where("id = ?", sig.ITRID).
			Updates(map[string]interface{}{
				"status":     entity.StatusInProgress,
				"progress":   50,
				"updated_at": time.Now(),
			}).Error
		if err != nil {
			return err
		}

		return s.activity.LogTx(tx, "REVOKE_SIGNATURE", "itrs", sig.ITRID, entity.JSONB{"signature_id": signatureID})
	})
}
