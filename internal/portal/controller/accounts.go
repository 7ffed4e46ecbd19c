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
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
)

// AccountRepository is the storage interface for users and admin
// credentials. The promote methods bind credentials and update the role in
// one transaction.
type AccountRepository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) error
	CreateCredential(ctx context.Context, cred *models.AdminCredential) error
	ListCredentials(ctx context.Context, unassignedOnly bool) ([]*models.AdminCredential, error)
	PromoteWithNewCredential(ctx context.Context, userID uuid.UUID, cred *models.AdminCredential) error
	PromoteWithExistingCredential(ctx context.Context, userID, credID uuid.UUID) error
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// NewCredential is the input for creating admin login credentials.
type NewCredential struct {
	Username string
	Password string
}

// RoleChange describes a role update. Promotion to admin requires exactly
// one of Credential (create new) or CredentialID (assign existing); other
// transitions ignore both.
type RoleChange struct {
	Role         models.Role
	Credential   *NewCredential
	CredentialID *uuid.UUID
}

// AccountService manages users, roles and admin credentials.
type AccountService struct {
	repo     AccountRepository
	producer EventProducer
	logger   *zap.Logger
}

func NewAccountService(repo AccountRepository, producer EventProducer, logger *zap.Logger) *AccountService {
	return &AccountService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("account_service"),
	}
}

// ListUsers returns all registered users.
func (s *AccountService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateRole applies a role change. Promotion to admin runs the credential
// sub-flow and the role update in one transaction, so a failed sub-flow
// leaves the role unchanged. Any other transition is a direct update.
func (s *AccountService) UpdateRole(ctx context.Context, userID uuid.UUID, change RoleChange) (*models.User, error) {
	if !change.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", e.ErrInvalidInput, change.Role)
	}

	if change.Role == models.RoleAdmin {
		if err := s.promoteToAdmin(ctx, userID, change); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.UpdateUserRole(ctx, userID, change.Role); err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to update role: %w", err)
		}
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.notifyRoleChange(ctx, user)
	go func() {
		s.producer.Produce(events.RoleChanged, user.ID.String(), user)
	}()
	return user, nil
}

func (s *AccountService) promoteToAdmin(ctx context.Context, userID uuid.UUID, change RoleChange) error {
	switch {
	case change.Credential != nil && change.CredentialID != nil:
		return fmt.Errorf("%w: supply either new credentials or an existing credential, not both", e.ErrInvalidInput)
	case change.Credential != nil:
		cred, err := s.buildCredential(change.Credential)
		if err != nil {
			return err
		}
		if err := s.repo.PromoteWithNewCredential(ctx, userID, cred); err != nil {
			if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrDuplicateName) {
				return err
			}
			return fmt.Errorf("failed to promote with new credential: %w", err)
		}
		return nil
	case change.CredentialID != nil:
		if err := s.repo.PromoteWithExistingCredential(ctx, userID, *change.CredentialID); err != nil {
			if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrCredentialTaken) {
				return err
			}
			return fmt.Errorf("failed to promote with existing credential: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: promotion to admin requires credentials", e.ErrInvalidInput)
	}
}

// CreateCredential creates an unassigned admin credential for later
// assignment.
func (s *AccountService) CreateCredential(ctx context.Context, input NewCredential) (*models.AdminCredential, error) {
	cred, err := s.buildCredential(&input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateCredential(ctx, cred); err != nil {
		if errors.Is(err, e.ErrDuplicateName) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}
	return cred, nil
}

// ListCredentials returns credential records, optionally only unassigned
// ones.
func (s *AccountService) ListCredentials(ctx context.Context, unassignedOnly bool) ([]*models.AdminCredential, error) {
	return s.repo.ListCredentials(ctx, unassignedOnly)
}

func (s *AccountService) buildCredential(input *NewCredential) (*models.AdminCredential, error) {
	username := strings.TrimSpace(input.Username)
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return nil, fmt.Errorf("%w: username must be between 3 and 50 characters", e.ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", e.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &models.AdminCredential{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
	}, nil
}

func (s *AccountService) notifyRoleChange(ctx context.Context, user *models.User) {
	n := &models.Notification{
		ID:      uuid.New(),
		UserID:  user.ID.String(),
		Kind:    models.NotifyRoleChanged,
		Message: fmt.Sprintf("Your role is now %s", user.Role),
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		s.logger.Error("Failed to create notification",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
	}
}
