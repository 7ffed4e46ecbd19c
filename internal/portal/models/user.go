package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's access level on the portal.
type Role string

const (
	RoleStudent   Role = "student"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User is a registered portal user.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Email     string    `gorm:"size:200;uniqueIndex" json:"email"`
	Role      Role      `gorm:"size:16" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdminCredential is a login credential for the admin panel. A credential is
// created unassigned and bound to exactly one user when that user is
// promoted to admin.
type AdminCredential struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"size:50;uniqueIndex" json:"username"`
	// PasswordHash is a bcrypt hash; the plaintext is never stored.
	PasswordHash string `gorm:"size:100" json:"-"`
	// AssignedTo is nil while the credential is unassigned.
	AssignedTo *uuid.UUID `gorm:"type:uuid" json:"assignedTo,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NotificationKind labels what a notification is about.
type NotificationKind string

const (
	NotifyRequestReceived NotificationKind = "request_received"
	NotifyRequestApproved NotificationKind = "request_approved"
	NotifyRequestRejected NotificationKind = "request_rejected"
	NotifyRoleChanged     NotificationKind = "role_changed"
)

// Notification is an in-app notification for a single user.
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string           `gorm:"size:100;index" json:"userId"`
	Kind      NotificationKind `gorm:"size:32" json:"kind"`
	Message   string           `gorm:"size:500" json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
