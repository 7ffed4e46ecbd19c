package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	e "github.com/psgplacements/interview-platform/internal/portal/errors"
	"github.com/psgplacements/interview-platform/internal/portal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	result := r.db.WithContext(ctx).Order("created_at asc").Find(&users)
	return users, result.Error
}

func (r *Repository) UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) CreateCredential(ctx context.Context, cred *models.AdminCredential) error {
	result := r.db.WithContext(ctx).Create(cred)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	return nil
}

func (r *Repository) ListCredentials(ctx context.Context, unassignedOnly bool) ([]*models.AdminCredential, error) {
	query := r.db.WithContext(ctx).Order("created_at asc")
	if unassignedOnly {
		query = query.Where("assigned_to IS NULL")
	}
	var creds []*models.AdminCredential
	result := query.Find(&creds)
	return creds, result.Error
}

// assignCredential binds an unassigned credential to a user. The
// compare-and-swap on assigned_to makes concurrent assignment of the same
// credential lose cleanly.
func (r *Repository) assignCredential(ctx context.Context, credID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.AdminCredential{}).
		Where("id = ? AND assigned_to IS NULL", credID).
		Update("assigned_to", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var cred models.AdminCredential
		if err := r.db.WithContext(ctx).First(&cred, "id = ?", credID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return e.ErrNotFound
			}
			return err
		}
		return e.ErrCredentialTaken
	}
	return nil
}

// PromoteWithNewCredential creates an admin credential already bound to the
// user and updates the role, in one transaction. If either step fails the
// role stays unchanged.
func (r *Repository) PromoteWithNewCredential(ctx context.Context, userID uuid.UUID, cred *models.AdminCredential) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		cred.AssignedTo = &userID
		if err := tx.CreateCredential(ctx, cred); err != nil {
			return err
		}
		return tx.UpdateUserRole(ctx, userID, models.RoleAdmin)
	})
}

// PromoteWithExistingCredential assigns an existing unassigned credential to
// the user and updates the role, in one transaction.
func (r *Repository) PromoteWithExistingCredential(ctx context.Context, userID, credID uuid.UUID) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.assignCredential(ctx, credID, userID); err != nil {
			return err
		}
		return tx.UpdateUserRole(ctx, userID, models.RoleAdmin)
	})
}
