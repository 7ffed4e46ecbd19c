package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the moderation state of a company creation request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Valid reports whether s is one of the known request statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CompanyRequest is a user-submitted proposal to add a company to the
// directory. Requests are never deleted; they form the moderation audit
// trail. At most one pending request may exist per (requestedBy,
// companyName) pair, enforced by a partial unique index.
type CompanyRequest struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	// CompanyName is the raw name the requester typed, trimmed.
	CompanyName string `gorm:"size:200;index:ux_pending_request,unique,where:status = 'pending'" json:"companyName"`
	// RequestedBy and RequestedByEmail snapshot the submitter's identity
	// at submission time.
	RequestedBy      string        `gorm:"size:100;index:ux_pending_request,unique,where:status = 'pending'" json:"requestedBy"`
	RequestedByEmail string        `gorm:"size:200" json:"requestedByEmail"`
	Status           RequestStatus `gorm:"size:16;index" json:"status"`
	// RejectionReason is set on rejection or forced status changes.
	RejectionReason string `gorm:"size:1000" json:"rejectionReason,omitempty"`
	// ResultingCompanyID links an approved request to the directory entry
	// it produced.
	ResultingCompanyID *uuid.UUID `gorm:"type:uuid" json:"resultingCompanyId,omitempty"`
	// ProcessedAt is stamped whenever status leaves or re-enters pending
	// through a moderation action.
	ProcessedAt *time.Time `json:"processedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
