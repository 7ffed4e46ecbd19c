// Package db implements the gorm-backed repository for the portal. All
// moderation status transitions go through compare-and-swap updates so two
// admins acting on the same request cannot both win.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	e "github.com/psgplacements/interview-platform/internal/portal/errors"
	"github.com/psgplacements/interview-platform/internal/portal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.CompanyRequest{},
		&models.AppCompany{},
		&models.User{},
		&models.AdminCredential{},
		&models.Notification{},
	)
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Create(company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

func (r *Repository) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	var companies []*models.Company
	result := r.db.WithContext(ctx).Order("display_name asc").Find(&companies)
	return companies, result.Error
}

func (r *Repository) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", update.ID).
		Updates(update)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Company{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) CompanyExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("lower(display_name) = ?", strings.ToLower(name)).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// SearchCompanies matches the query case-insensitively: as a substring of
// the display name, or as an exact match against any alias.
func (r *Repository) SearchCompanies(ctx context.Context, query string) ([]*models.Company, error) {
	q := normalizeQuery(query)
	like := "%" + q + "%"

	var candidates []*models.Company
	result := r.db.WithContext(ctx).
		Where("lower(display_name) LIKE ? OR lower(aliases) LIKE ?", like, like).
		Order("display_name asc").
		Find(&candidates)
	if result.Error != nil {
		return nil, result.Error
	}

	// The aliases column is JSON text, so the LIKE above over-matches;
	// confirm alias hits with an exact case-insensitive comparison.
	matches := make([]*models.Company, 0, len(candidates))
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.DisplayName), q) {
			matches = append(matches, c)
			continue
		}
		for _, alias := range c.Aliases {
			if strings.EqualFold(alias, q) {
				matches = append(matches, c)
				break
			}
		}
	}
	return matches, nil
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
