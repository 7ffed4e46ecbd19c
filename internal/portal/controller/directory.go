// Package controller implements the core business logic (service layer) of
// the portal: the company directory, the request moderation state machine,
// account/role management and notifications. Services orchestrate repository
// operations and emit events for the notification sink.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	e "github.com/psgplacements/interview-platform/internal/portal/errors"
	"github.com/psgplacements/interview-platform/internal/portal/events"
	"github.com/psgplacements/interview-platform/internal/portal/models"
	"go.uber.org/zap"
)

const (
	maxNameLen   = 200
	minSearchLen = 2
	searchHint   = "Type at least 2 characters to search"
)

// EventProducer publishes state-change events to the notification sink.
type EventProducer interface {
	Produce(eventType events.EventType, subject string, payload interface{})
}

// DirectoryRepository is the storage interface the directory service needs.
type DirectoryRepository interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	CompanyExistsByName(ctx context.Context, name string) (bool, error)
	SearchCompanies(ctx context.Context, query string) ([]*models.Company, error)
	SearchAppCompanies(ctx context.Context, query string) ([]*models.AppCompany, error)
}

// DirectoryService manages the curated company directory and search.
type DirectoryService struct {
	repo     DirectoryRepository
	producer EventProducer
	logger   *zap.Logger
}

// SearchResult partitions search output into curated directory matches and
// externally sourced candidates. Hint is set when the query was too short to
// run.
type SearchResult struct {
	Companies []*models.Company `json:"companies"`
	Hint      string            `json:"hint,omitempty"`
}

func NewDirectoryService(repo DirectoryRepository, producer EventProducer, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("directory_service"),
	}
}

// CreateCompany adds a new directory entry after validating input,
// ensures name uniqueness, and triggers an event.
func (s *DirectoryService) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	company.DisplayName = strings.TrimSpace(company.DisplayName)
	if company.DisplayName == "" || len(company.DisplayName) > maxNameLen {
		return nil, fmt.Errorf("%w: invalid display name", e.ErrInvalidInput)
	}
	company.Aliases = normalizeAliases(company.Aliases)

	exists, err := s.repo.CompanyExistsByName(ctx, company.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("failed to check name existence: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicateName
	}

	company.ID = uuid.New()
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	go func() {
		s.producer.Produce(events.CompanyCreated, company.ID.String(), company)
	}()
	return company, nil
}

// GetCompany retrieves a directory entry by ID.
func (s *DirectoryService) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// ListCompanies returns all directory entries.
func (s *DirectoryService) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	return s.repo.ListCompanies(ctx)
}

// UpdateCompany applies a partial update, then fetches the updated entry for
// returning and event production.
func (s *DirectoryService) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid company ID", e.ErrInvalidInput)
	}
	if update.DisplayName != nil {
		trimmed := strings.TrimSpace(*update.DisplayName)
		if trimmed == "" || len(trimmed) > maxNameLen {
			return nil, fmt.Errorf("%w: invalid display name", e.ErrInvalidInput)
		}
		update.DisplayName = &trimmed
	}
	if update.Aliases != nil {
		normalized := normalizeAliases(*update.Aliases)
		update.Aliases = &normalized
	}

	err := s.repo.UpdateCompany(ctx, update)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrDuplicateName) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	updated, err := s.repo.GetCompany(ctx, update.ID)
	if err != nil {
		s.logger.Error("Failed to get company for event",
			zap.Error(err),
			zap.String("company_id", update.ID.String()),
		)
		return nil, err
	}
	go func() {
		s.producer.Produce(events.CompanyUpdated, updated.ID.String(), updated)
	}()
	return updated, nil
}

// DeleteCompany removes a directory entry and fires a deletion event.
func (s *DirectoryService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get company for deletion: %w", err)
	}

	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	go func() {
		s.producer.Produce(events.CompanyDeleted, company.ID.String(), company)
	}()

	return nil
}

// Search resolves a free-text query against the directory and, when asked,
// the application database. Queries shorter than two characters return an
// empty set with a hint and touch neither store. A failing app-database
// lookup degrades to directory-only results rather than failing the search.
func (s *DirectoryService) Search(ctx context.Context, query string, includeAppData bool) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSearchLen {
		return &SearchResult{Companies: []*models.Company{}, Hint: searchHint}, nil
	}

	companies, err := s.repo.SearchCompanies(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search companies: %w", err)
	}

	result := &SearchResult{Companies: companies}
	if !includeAppData {
		return result, nil
	}

	candidates, err := s.repo.SearchAppCompanies(ctx, query)
	if err != nil {
		s.logger.Warn("App database search failed, returning directory matches only",
			zap.Error(err),
			zap.String("query", query),
		)
		return result, nil
	}
	for _, c := range candidates {
		result.Companies = append(result.Companies, &models.Company{
			DisplayName:       c.Name,
			Website:           c.Website,
			Industry:          c.Industry,
			IsFromAppDatabase: true,
		})
	}
	return result, nil
}

// normalizeAliases trims aliases, drops empties and deduplicates
// case-insensitively, keeping the first spelling seen.
func normalizeAliases(aliases models.StringList) models.StringList {
	seen := make(map[string]struct{}, len(aliases))
	out := make(models.StringList, 0, len(aliases))
	for _, a := range aliases {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := strings.ToLower(a)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}
