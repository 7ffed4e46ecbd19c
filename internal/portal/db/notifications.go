package db

import (
	"context"

	"github.com/google/uuid"
	e "github.com/psgplacements/interview-platform/internal/portal/errors"
	"github.com/psgplacements/interview-platform/internal/portal/models"
	"gorm.io/gorm/clause"
)

func (r *Repository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *Repository) ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	var notifications []*models.Notification
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifications)
	return notifications, result.Error
}

// MarkNotificationRead marks one notification read, scoped to its owner so a
// user cannot touch another user's notifications.
func (r *Repository) MarkNotificationRead(ctx context.Context, id uuid.UUID, userID string) error {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) ClearNotifications(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Notification{}).Error
}

// UpsertAppCompany inserts or refreshes an externally sourced candidate
// company, keyed by name.
func (r *Repository) UpsertAppCompany(ctx context.Context, c *models.AppCompany) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"website", "industry", "source"}),
	}).Create(c).Error
}

// SearchAppCompanies matches candidate names case-insensitively by
// substring.
func (r *Repository) SearchAppCompanies(ctx context.Context, query string) ([]*models.AppCompany, error) {
	like := "%" + normalizeQuery(query) + "%"
	var companies []*models.AppCompany
	result := r.db.WithContext(ctx).
		Where("lower(name) LIKE ?", like).
		Order("name asc").
		Find(&companies)
	return companies, result.Error
}
