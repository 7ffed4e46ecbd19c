// Package handlers provides the HTTP transport for the portal: routing,
// request decoding, session enforcement and the JSON response envelope,
// bridging HTTP and the service layer.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/psgplacements/interview-platform/internal/portal/auth"
	"github.com/psgplacements/interview-platform/internal/portal/controller"
	"github.com/psgplacements/interview-platform/internal/portal/models"
	"go.uber.org/zap"
)

// DirectoryController is the directory business logic the handlers invoke.
type DirectoryController interface {
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, includeAppData bool) (*controller.SearchResult, error)
}

// ModerationController is the request moderation business logic.
type ModerationController interface {
	Submit(ctx context.Context, companyName string, requester controller.Identity) (*models.CompanyRequest, error)
	List(ctx context.Context, filter string) ([]*models.CompanyRequest, error)
	Approve(ctx context.Context, id uuid.UUID, companyData *models.Company) (*models.CompanyRequest, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*models.CompanyRequest, error)
	ForceStatus(ctx context.Context, id uuid.UUID, newStatus models.RequestStatus, reason string) (*models.CompanyRequest, error)
}

// AccountController is the user/role/credential business logic.
type AccountController interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, change controller.RoleChange) (*models.User, error)
	CreateCredential(ctx context.Context, input controller.NewCredential) (*models.AdminCredential, error)
	ListCredentials(ctx context.Context, unassignedOnly bool) ([]*models.AdminCredential, error)
}

// NotificationController is the notification business logic.
type NotificationController interface {
	List(ctx context.Context, userID string) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, userID string) ([]*models.Notification, error)
	ClearAll(ctx context.Context, userID string) ([]*models.Notification, error)
}

// Handler holds the controllers behind the HTTP surface.
type Handler struct {
	directory     DirectoryController
	moderation    ModerationController
	accounts      AccountController
	notifications NotificationController
	logger        *zap.Logger
}

func NewHandler(
	directory DirectoryController,
	moderation ModerationController,
	accounts AccountController,
	notifications NotificationController,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		directory:     directory,
		moderation:    moderation,
		accounts:      accounts,
		notifications: notifications,
		logger:        logger.Named("http_handler"),
	}
}

// NewRouter wires middleware and all portal routes.
func NewRouter(h *Handler, jwtSecret string, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(auth.Middleware(jwtSecret))

	r.Route("/api", func(r chi.Router) {
		r.Get("/companies/search", h.searchCompanies)

		r.Group(func(r chi.Router) {
			r.Use(requireSession)
			r.Post("/users/request-company-creation", h.submitRequest)
			r.Get("/notifications", h.listNotifications)
			r.Post("/notifications/{id}/read", h.markNotificationRead)
			r.Delete("/notifications", h.clearNotifications)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin)

			r.Route("/company-requests", func(r chi.Router) {
				r.Get("/", h.listRequests)
				r.Post("/{id}/approve", h.approveRequest)
				r.Post("/{id}/reject", h.rejectRequest)
				r.Put("/{id}/change-status", h.changeRequestStatus)
			})

			r.Route("/companies", func(r chi.Router) {
				r.Get("/", h.listCompanies)
				r.Post("/", h.createCompany)
				r.Get("/{id}", h.getCompany)
				r.Patch("/{id}", h.updateCompany)
				r.Delete("/{id}", h.deleteCompany)
			})

			r.Get("/users", h.listUsers)
			r.Put("/users/{id}/role", h.updateUserRole)

			r.Route("/credentials", func(r chi.Router) {
				r.Get("/", h.listCredentials)
				r.Post("/", h.createCredential)
			})
		})
	})

	return r
}

// requireSession rejects unauthenticated requests.
func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.SessionFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin rejects requests without an admin session.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.SessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
			return
		}
		if !session.IsAdmin() {
			writeError(w, http.StatusForbidden, codeForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// idParam parses the {id} path parameter.
func idParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
