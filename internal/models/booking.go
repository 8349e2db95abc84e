// internal/models/booking.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Payment is the booking's payment sub-record. Amount is a snapshot of the
// worker's hourly rate at booking time.
type Payment struct {
	Amount int64         `json:"amount"`
	Status PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Method string        `gorm:"type:varchar(50)" json:"method,omitempty"`
}

// Location is where the work happens: coordinates plus a free-text address.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `gorm:"type:text" json:"address"`
}

type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkerID   uuid.UUID `gorm:"type:uuid;index" json:"worker_id"`
	EmployerID uuid.UUID `gorm:"type:uuid;index" json:"employer_id"`

	Status BookingStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	Date        time.Time `json:"date"` // scheduled date/time, must be in the future at creation
	Task        string    `gorm:"not null" json:"task"`
	Description string    `gorm:"type:text" json:"description,omitempty"`

	Location Location `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Payment  Payment  `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Worker   *User `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	Employer *User `gorm:"foreignKey:EmployerID" json:"employer,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// Terminal reports whether no further status transitions are allowed.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// CanTransition reports whether moving from s to next is a legal move:
// pending -> accepted|cancelled, accepted -> completed|cancelled.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusAccepted || next == BookingStatusCancelled
	case BookingStatusAccepted:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	default:
		return false
	}
}
