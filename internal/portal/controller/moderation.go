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

// Identity is the authenticated requester, taken from the session and never
// from the request body.
type Identity struct {
	ID    string
	Email string
}

// RequestRepository is the storage interface for the moderation workflow.
// Approve/reject are compare-and-swap transitions at the data layer.
type RequestRepository interface {
	SubmitRequest(ctx context.Context, req *models.CompanyRequest) error
	GetRequest(ctx context.Context, id uuid.UUID) (*models.CompanyRequest, error)
	ListRequests(ctx context.Context, status models.RequestStatus) ([]*models.CompanyRequest, error)
	ApproveRequest(ctx context.Context, id uuid.UUID, company *models.Company) (*models.CompanyRequest, error)
	RejectRequest(ctx context.Context, id uuid.UUID, reason string) (*models.CompanyRequest, error)
	ForceRequestStatus(ctx context.Context, id uuid.UUID, status models.RequestStatus, reason string) (*models.CompanyRequest, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// ModerationService implements the company-request state machine:
// pending -> approved | rejected through the normal actions, plus the
// admin-only force transition.
type ModerationService struct {
	repo     RequestRepository
	producer EventProducer
	logger   *zap.Logger
}

func NewModerationService(repo RequestRepository, producer EventProducer, logger *zap.Logger) *ModerationService {
	return &ModerationService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("moderation_service"),
	}
}

// Submit creates a pending request for the authenticated requester. Names
// shorter than two characters are rejected before any storage access.
func (s *ModerationService) Submit(ctx context.Context, companyName string, requester Identity) (*models.CompanyRequest, error) {
	companyName = strings.TrimSpace(companyName)
	if len(companyName) < minSearchLen {
		return nil, fmt.Errorf("%w: company name must be at least 2 characters", e.ErrInvalidInput)
	}
	if len(companyName) > maxNameLen {
		return nil, fmt.Errorf("%w: company name too long", e.ErrInvalidInput)
	}
	if requester.ID == "" {
		return nil, fmt.Errorf("%w: missing requester identity", e.ErrInvalidInput)
	}

	req := &models.CompanyRequest{
		ID:               uuid.New(),
		CompanyName:      companyName,
		RequestedBy:      requester.ID,
		RequestedByEmail: requester.Email,
		Status:           models.StatusPending,
	}
	if err := s.repo.SubmitRequest(ctx, req); err != nil {
		if errors.Is(err, e.ErrDuplicatePending) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to submit request: %w", err)
	}

	s.notify(ctx, requester.ID, models.NotifyRequestReceived,
		fmt.Sprintf("Your request to add %q is pending review", companyName))
	go func() {
		s.producer.Produce(events.RequestSubmitted, req.ID.String(), req)
	}()
	return req, nil
}

// List returns requests filtered by status. Accepted filters are the three
// statuses plus "all" (or empty), which returns the full set.
func (s *ModerationService) List(ctx context.Context, filter string) ([]*models.CompanyRequest, error) {
	var status models.RequestStatus
	switch filter {
	case "", "all":
		status = ""
	default:
		status = models.RequestStatus(filter)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status filter %q", e.ErrInvalidInput, filter)
		}
	}
	return s.repo.ListRequests(ctx, status)
}

// Approve materializes a directory entry from companyData and marks the
// request approved. Only pending requests can be approved; approving an
// already-processed request returns ErrStatusConflict.
func (s *ModerationService) Approve(ctx context.Context, id uuid.UUID, companyData *models.Company) (*models.CompanyRequest, error) {
	if companyData == nil {
		return nil, fmt.Errorf("%w: company data required", e.ErrInvalidInput)
	}
	companyData.DisplayName = strings.TrimSpace(companyData.DisplayName)
	if companyData.DisplayName == "" || len(companyData.DisplayName) > maxNameLen {
		return nil, fmt.Errorf("%w: invalid display name", e.ErrInvalidInput)
	}
	companyData.Aliases = normalizeAliases(companyData.Aliases)
	companyData.ID = uuid.New()

	req, err := s.repo.ApproveRequest(ctx, id, companyData)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrStatusConflict) || errors.Is(err, e.ErrDuplicateName) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to approve request: %w", err)
	}

	s.notify(ctx, req.RequestedBy, models.NotifyRequestApproved,
		fmt.Sprintf("%q has been added to the company directory", companyData.DisplayName))
	go func() {
		s.producer.Produce(events.RequestApproved, req.ID.String(), req)
	}()
	return req, nil
}

// Reject marks a pending request rejected. The reason is stored verbatim;
// an empty reason is allowed.
func (s *ModerationService) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.CompanyRequest, error) {
	req, err := s.repo.RejectRequest(ctx, id, reason)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrStatusConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to reject request: %w", err)
	}

	s.notify(ctx, req.RequestedBy, models.NotifyRequestRejected,
		fmt.Sprintf("Your request to add %q was not approved", req.CompanyName))
	go func() {
		s.producer.Produce(events.RequestRejected, req.ID.String(), req)
	}()
	return req, nil
}

// ForceStatus is the administrative override: it moves a request to any
// status regardless of its current one. Forcing to approved is only allowed
// when the request already carries the company it produced; a never-approved
// request must go through Approve so company data is validated. A previously
// created directory entry is never deleted by a forced transition.
func (s *ModerationService) ForceStatus(ctx context.Context, id uuid.UUID, newStatus models.RequestStatus, reason string) (*models.CompanyRequest, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", e.ErrInvalidInput, newStatus)
	}

	if newStatus == models.StatusApproved {
		current, err := s.repo.GetRequest(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.ResultingCompanyID == nil {
			return nil, fmt.Errorf("%w: request has no company record, use approve with company data", e.ErrInvalidInput)
		}
	}

	if reason == "" {
		reason = fmt.Sprintf("Status changed to %s by admin", newStatus)
	}

	req, err := s.repo.ForceRequestStatus(ctx, id, newStatus, reason)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrDuplicatePending) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to force request status: %w", err)
	}

	go func() {
		s.producer.Produce(events.RequestStatusForced, req.ID.String(), req)
	}()
	return req, nil
}

// notify writes an in-app notification; failures are logged, not surfaced,
// since the moderation action itself already succeeded.
func (s *ModerationService) notify(ctx context.Context, userID string, kind models.NotificationKind, message string) {
	n := &models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Kind:    kind,
		Message: message,
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		s.logger.Error("Failed to create notification",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("kind", string(kind)),
		)
	}
}
