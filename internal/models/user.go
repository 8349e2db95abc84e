// internal/models/user.go
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Role string

const (
	RoleEmployer Role = "employer"
	RoleWorker   Role = "worker"
	RoleAdmin    Role = "admin"
)

type UserStatus string

const (
	StatusPending   UserStatus = "pending"
	StatusApproved  UserStatus = "approved"
	StatusRejected  UserStatus = "rejected"
	StatusSuspended UserStatus = "suspended"
)

type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)

// Profile holds the identity and trade details nested under a user.
// Skills is a JSON array of strings, CNICPhotos a JSON object {front, back}.
type Profile struct {
	FirstName string `gorm:"type:varchar(80)" json:"first_name"`
	LastName  string `gorm:"type:varchar(80)" json:"last_name"`
	FullName  string `gorm:"type:varchar(160)" json:"full_name"` // computed from first + last
	Address   string `gorm:"type:text" json:"address"`

	CNIC         string         `gorm:"type:text" json:"cnic,omitempty"` // stored encrypted, see utils.EncryptCNIC
	CNICVerified bool           `gorm:"default:false" json:"cnic_verified"`
	CNICPhotos   datatypes.JSON `json:"cnic_photos,omitempty"`

	Skills      datatypes.JSON `json:"skills,omitempty"`
	Description string         `gorm:"type:text" json:"description,omitempty"`

	Rating          float64 `gorm:"default:0" json:"rating"`
	HourlyRate      int64   `gorm:"default:0" json:"hourly_rate"`
	ExperienceYears int     `gorm:"default:0" json:"experience_years"`

	ProfilePicture string `gorm:"type:text" json:"profile_picture,omitempty"`
}

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone string    `gorm:"type:varchar(30)" json:"phone"`

	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;index" json:"role"`

	// Only approved accounts may sign in; everyone else is routed to the
	// status-check flow. Accounts are never hard-deleted.
	Status UserStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	// Workers only. Empty is treated as available.
	AvailabilityStatus AvailabilityStatus `gorm:"type:varchar(20);default:'available'" json:"availability_status,omitempty"`

	Profile Profile `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SkillList decodes the profile skills JSON column. Returns nil when unset.
func (u *User) SkillList() []string {
	if len(u.Profile.Skills) == 0 {
		return nil
	}
	var skills []string
	if err := json.Unmarshal(u.Profile.Skills, &skills); err != nil {
		return nil
	}
	return skills
}

// IsAvailable reports whether a worker should appear in the directory.
// An unset status counts as available.
func (u *User) IsAvailable() bool {
	return u.AvailabilityStatus == AvailabilityAvailable || u.AvailabilityStatus == ""
}
