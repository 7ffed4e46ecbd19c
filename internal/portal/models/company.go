// Package models defines the core domain models for the placement portal:
// companies, company creation requests, users, admin credentials and
// notifications.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringList stores a list of strings as a JSON column so the same model
// works on both postgres and sqlite.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
}

// Company is the canonical, admin-curated directory entry for a company.
type Company struct {
	// ID is the unique identifier for the company.
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	// DisplayName is the canonical name shown to users.
	DisplayName string `gorm:"size:200;uniqueIndex" json:"displayName"`
	// Aliases are alternate names used for matching during search.
	Aliases StringList `gorm:"type:text" json:"aliases"`
	// Logo is an optional URL to the company logo.
	Logo string `gorm:"size:500" json:"logo,omitempty"`
	// Website is an optional company website URL.
	Website string `gorm:"size:500" json:"website,omitempty"`
	// LinkedinURL is an optional LinkedIn page URL.
	LinkedinURL string `gorm:"size:500" json:"linkedinUrl,omitempty"`
	// Industry is an optional free-form industry label.
	Industry string `gorm:"size:100" json:"industry,omitempty"`
	// Size is an optional free-form company size label.
	Size string `gorm:"size:50" json:"size,omitempty"`
	// IsVerified marks directory entries vetted by an admin.
	IsVerified bool `json:"isVerified"`
	// IsFromAppDatabase flags search results sourced from the externally
	// ingested application database rather than the curated directory.
	IsFromAppDatabase bool `gorm:"-" json:"isFromAppDatabase"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CompanyUpdate represents the fields that can be updated for a Company.
// Pointer types are used to allow partial updates.
type CompanyUpdate struct {
	ID          uuid.UUID   `gorm:"-" json:"-"`
	DisplayName *string     `json:"displayName,omitempty"`
	Aliases     *StringList `json:"aliases,omitempty"`
	Logo        *string     `json:"logo,omitempty"`
	Website     *string     `json:"website,omitempty"`
	LinkedinURL *string     `json:"linkedinUrl,omitempty"`
	Industry    *string     `json:"industry,omitempty"`
	Size        *string     `json:"size,omitempty"`
	IsVerified  *bool       `json:"isVerified,omitempty"`
}

// AppCompany is an externally sourced candidate company surfaced during
// search. It never appears in the curated directory until an admin approves
// a request for it.
type AppCompany struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:200;uniqueIndex" json:"name"`
	Website  string    `gorm:"size:500" json:"website,omitempty"`
	Industry string    `gorm:"size:100" json:"industry,omitempty"`
	// Source names the external feed the candidate came from.
	Source    string    `gorm:"size:100" json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
