package controller

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	e "github.com/psgplacements/interview-platform/internal/portal/errors"
	"github.com/psgplacements/interview-platform/internal/portal/events"
	"github.com/psgplacements/interview-platform/internal/portal/models"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

// MockAccountRepository implements the AccountRepository interface for testing
type MockAccountRepository struct {
	getUser                       func(context.Context, uuid.UUID) (*models.User, error)
	listUsers                     func(context.Context) ([]*models.User, error)
	updateUserRole                func(context.Context, uuid.UUID, models.Role) error
	createCredential              func(context.Context, *models.AdminCredential) error
	listCredentials               func(context.Context, bool) ([]*models.AdminCredential, error)
	promoteWithNewCredential      func(context.Context, uuid.UUID, *models.AdminCredential) error
	promoteWithExistingCredential func(context.Context, uuid.UUID, uuid.UUID) error
	createNotification            func(context.Context, *models.Notification) error

	storageCalls int
}

func (m *MockAccountRepository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.storageCalls++
	return m.getUser(ctx, id)
}

func (m *MockAccountRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	m.storageCalls++
	return m.listUsers(ctx)
}

func (m *MockAccountRepository) UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	m.storageCalls++
	return m.updateUserRole(ctx, id, role)
}

func (m *MockAccountRepository) CreateCredential(ctx context.Context, cred *models.AdminCredential) error {
	m.storageCalls++
	return m.createCredential(ctx, cred)
}

func (m *MockAccountRepository) ListCredentials(ctx context.Context, unassignedOnly bool) ([]*models.AdminCredential, error) {
	m.storageCalls++
	return m.listCredentials(ctx, unassignedOnly)
}

func (m *MockAccountRepository) PromoteWithNewCredential(ctx context.Context, userID uuid.UUID, cred *models.AdminCredential) error {
	m.storageCalls++
	return m.promoteWithNewCredential(ctx, userID, cred)
}

func (m *MockAccountRepository) PromoteWithExistingCredential(ctx context.Context, userID, credID uuid.UUID) error {
	m.storageCalls++
	return m.promoteWithExistingCredential(ctx, userID, credID)
}

func (m *MockAccountRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return m.createNotification(ctx, n)
}

func adminUser(id uuid.UUID) *models.User {
	return &models.User{ID: id, Name: "Test User", Email: "user@psgtech.ac.in", Role: models.RoleAdmin}
}

func TestAccountService_UpdateRole_PromoteWithNewCredential(t *testing.T) {
	logger := zaptest.NewLogger(t)
	userID := uuid.New()

	var captured *models.AdminCredential
	mockRepo := &MockAccountRepository{
		promoteWithNewCredential: func(_ context.Context, id uuid.UUID, cred *models.AdminCredential) error {
			if id != userID {
				t.Errorf("expected user ID %s, got %s", userID, id)
			}
			captured = cred
			return nil
		},
		getUser: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			return adminUser(id), nil
		},
		createNotification: func(_ context.Context, _ *models.Notification) error { return nil },
	}
	mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
	mockProducer.wg.Add(1)
	service := NewAccountService(mockRepo, mockProducer, logger)

	user, err := service.UpdateRole(context.Background(), userID, RoleChange{
		Role:       models.RoleAdmin,
		Credential: &NewCredential{Username: "placement_admin", Password: "correct horse"},
	})
	mockProducer.wg.Wait()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("expected admin role, got %s", user.Role)
	}
	if captured == nil {
		t.Fatal("expected the credential to reach storage")
	}
	if captured.ID == uuid.Nil {
		t.Error("expected credential ID to be assigned")
	}
	if captured.Username != "placement_admin" {
		t.Errorf("unexpected username %q", captured.Username)
	}
	if captured.PasswordHash == "correct horse" {
		t.Error("password must be hashed, not stored verbatim")
	}
	if bcrypt.CompareHashAndPassword([]byte(captured.PasswordHash), []byte("correct horse")) != nil {
		t.Error("stored hash should verify against the original password")
	}
	if got := mockProducer.recorded(); len(got) != 1 || got[0] != events.RoleChanged {
		t.Errorf("expected one role_changed event, got %v", got)
	}
}

func TestAccountService_UpdateRole_PromoteValidation(t *testing.T) {
	credID := uuid.New()
	tests := []struct {
		name   string
		change RoleChange
	}{
		{
			name:   "promotion without credentials",
			change: RoleChange{Role: models.RoleAdmin},
		},
		{
			name: "both credential specs supplied",
			change: RoleChange{
				Role:         models.RoleAdmin,
				Credential:   &NewCredential{Username: "abc", Password: "longenough"},
				CredentialID: &credID,
			},
		},
		{
			name: "username too short",
			change: RoleChange{
				Role:       models.RoleAdmin,
				Credential: &NewCredential{Username: "ab", Password: "longenough"},
			},
		},
		{
			name: "password too short",
			change: RoleChange{
				Role:       models.RoleAdmin,
				Credential: &NewCredential{Username: "abc", Password: "short"},
			},
		},
		{
			name:   "unknown role",
			change: RoleChange{Role: "superuser"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zaptest.NewLogger(t)
			mockRepo := &MockAccountRepository{}
			service := NewAccountService(mockRepo, &MockProducer{}, logger)

			_, err := service.UpdateRole(context.Background(), uuid.New(), tt.change)
			if !errors.Is(err, e.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if mockRepo.storageCalls != 0 {
				t.Errorf("expected no storage access, got %d calls", mockRepo.storageCalls)
			}
		})
	}
}

func TestAccountService_UpdateRole_ExistingCredential(t *testing.T) {
	logger := zaptest.NewLogger(t)
	userID := uuid.New()
	credID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockRepo := &MockAccountRepository{
			promoteWithExistingCredential: func(_ context.Context, uid, cid uuid.UUID) error {
				if uid != userID || cid != credID {
					t.Errorf("unexpected promotion args %s %s", uid, cid)
				}
				return nil
			},
			getUser: func(_ context.Context, id uuid.UUID) (*models.User, error) {
				return adminUser(id), nil
			},
			createNotification: func(_ context.Context, _ *models.Notification) error { return nil },
		}
		mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
		mockProducer.wg.Add(1)
		service := NewAccountService(mockRepo, mockProducer, logger)

		user, err := service.UpdateRole(context.Background(), userID, RoleChange{
			Role:         models.RoleAdmin,
			CredentialID: &credID,
		})
		mockProducer.wg.Wait()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Role != models.RoleAdmin {
			t.Errorf("expected admin role, got %s", user.Role)
		}
	})

	t.Run("credential taken", func(t *testing.T) {
		mockRepo := &MockAccountRepository{
			promoteWithExistingCredential: func(_ context.Context, _, _ uuid.UUID) error {
				return e.ErrCredentialTaken
			},
		}
		service := NewAccountService(mockRepo, &MockProducer{}, logger)

		_, err := service.UpdateRole(context.Background(), userID, RoleChange{
			Role:         models.RoleAdmin,
			CredentialID: &credID,
		})
		if !errors.Is(err, e.ErrCredentialTaken) {
			t.Errorf("expected ErrCredentialTaken, got %v", err)
		}
	})
}

func TestAccountService_UpdateRole_DirectTransition(t *testing.T) {
	logger := zaptest.NewLogger(t)
	userID := uuid.New()

	credentialFlowTouched := false
	mockRepo := &MockAccountRepository{
		updateUserRole: func(_ context.Context, id uuid.UUID, role models.Role) error {
			if role != models.RoleModerator {
				t.Errorf("expected moderator role, got %s", role)
			}
			return nil
		},
		promoteWithNewCredential: func(_ context.Context, _ uuid.UUID, _ *models.AdminCredential) error {
			credentialFlowTouched = true
			return nil
		},
		promoteWithExistingCredential: func(_ context.Context, _, _ uuid.UUID) error {
			credentialFlowTouched = true
			return nil
		},
		getUser: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleModerator}, nil
		},
		createNotification: func(_ context.Context, _ *models.Notification) error { return nil },
	}
	mockProducer := &MockProducer{wg: new(sync.WaitGroup)}
	mockProducer.wg.Add(1)
	service := NewAccountService(mockRepo, mockProducer, logger)

	// Credentials are ignored for anything other than promotion to admin.
	user, err := service.UpdateRole(context.Background(), userID, RoleChange{
		Role:       models.RoleModerator,
		Credential: &NewCredential{Username: "ignored", Password: "ignoredtoo"},
	})
	mockProducer.wg.Wait()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != models.RoleModerator {
		t.Errorf("expected moderator role, got %s", user.Role)
	}
	if credentialFlowTouched {
		t.Error("direct transitions must not enter the credential flow")
	}
}

func TestAccountService_CreateCredential(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("success", func(t *testing.T) {
		mockRepo := &MockAccountRepository{
			createCredential: func(_ context.Context, _ *models.AdminCredential) error { return nil },
		}
		service := NewAccountService(mockRepo, &MockProducer{}, logger)

		cred, err := service.CreateCredential(context.Background(), NewCredential{
			Username: "  spare_admin  ",
			Password: "longenough",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cred.Username != "spare_admin" {
			t.Errorf("expected trimmed username, got %q", cred.Username)
		}
		if cred.AssignedTo != nil {
			t.Error("new credentials must start unassigned")
		}
	})

	t.Run("duplicate username passthrough", func(t *testing.T) {
		mockRepo := &MockAccountRepository{
			createCredential: func(_ context.Context, _ *models.AdminCredential) error {
				return e.ErrDuplicateName
			},
		}
		service := NewAccountService(mockRepo, &MockProducer{}, logger)

		_, err := service.CreateCredential(context.Background(), NewCredential{
			Username: "taken",
			Password: "longenough",
		})
		if !errors.Is(err, e.ErrDuplicateName) {
			t.Errorf("expected ErrDuplicateName, got %v", err)
		}
	})
}
