package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	e "github.com/psgplacements/interview-platform/internal/portal/errors"
	"github.com/psgplacements/interview-platform/internal/portal/models"
	"gorm.io/gorm"
)

// SubmitRequest inserts a new pending request, rejecting the insert when the
// same requester already has a pending request for the same company name.
// The check runs inside a transaction and is backed by a partial unique
// index, so concurrent submissions cannot both land.
func (r *Repository) SubmitRequest(ctx context.Context, req *models.CompanyRequest) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		var count int64
		result := tx.db.Model(&models.CompanyRequest{}).
			Where("requested_by = ? AND company_name = ? AND status = ?",
				req.RequestedBy, req.CompanyName, models.StatusPending).
			Count(&count)
		if result.Error != nil {
			return result.Error
		}
		if count > 0 {
			return e.ErrDuplicatePending
		}

		if err := tx.db.Create(req).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return e.ErrDuplicatePending
			}
			return err
		}
		return nil
	})
}

func (r *Repository) GetRequest(ctx context.Context, id uuid.UUID) (*models.CompanyRequest, error) {
	var req models.CompanyRequest
	result := r.db.WithContext(ctx).First(&req, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &req, nil
}

// ListRequests returns requests filtered by status, newest first. An empty
// status returns the full set.
func (r *Repository) ListRequests(ctx context.Context, status models.RequestStatus) ([]*models.CompanyRequest, error) {
	query := r.db.WithContext(ctx).Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var requests []*models.CompanyRequest
	result := query.Find(&requests)
	return requests, result.Error
}

// ApproveRequest creates the directory entry and flips the request from
// pending to approved in one transaction. The status update is a
// compare-and-swap on pending; losing the race returns ErrStatusConflict and
// rolls the company creation back.
func (r *Repository) ApproveRequest(ctx context.Context, id uuid.UUID, company *models.Company) (*models.CompanyRequest, error) {
	var approved *models.CompanyRequest
	err := r.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.CreateCompany(ctx, company); err != nil {
			return err
		}

		now := time.Now().UTC()
		result := tx.db.Model(&models.CompanyRequest{}).
			Where("id = ? AND status = ?", id, models.StatusPending).
			Updates(map[string]interface{}{
				"status":               models.StatusApproved,
				"processed_at":         now,
				"resulting_company_id": company.ID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return tx.transitionFailure(ctx, id)
		}

		var err error
		approved, err = tx.GetRequest(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// RejectRequest flips a pending request to rejected, storing the reason
// verbatim (an empty reason is kept as empty). Compare-and-swap on pending.
func (r *Repository) RejectRequest(ctx context.Context, id uuid.UUID, reason string) (*models.CompanyRequest, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.CompanyRequest{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"status":           models.StatusRejected,
			"rejection_reason": reason,
			"processed_at":     now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, r.transitionFailure(ctx, id)
	}
	return r.GetRequest(ctx, id)
}

// ForceRequestStatus sets the status directly regardless of the current
// one. It never touches the directory entry a previous approval created.
func (r *Repository) ForceRequestStatus(ctx context.Context, id uuid.UUID, status models.RequestStatus, reason string) (*models.CompanyRequest, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.CompanyRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"rejection_reason": reason,
			"processed_at":     now,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			// Forcing back to pending collided with another pending
			// request from the same requester for the same name.
			return nil, e.ErrDuplicatePending
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, e.ErrNotFound
	}
	return r.GetRequest(ctx, id)
}

// transitionFailure distinguishes a missing request from one whose status
// moved concurrently.
func (r *Repository) transitionFailure(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetRequest(ctx, id); err != nil {
		return err
	}
	return e.ErrStatusConflict
}
