package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Rating struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;unique" json:"booking_id"`
	WorkerID   uuid.UUID `gorm:"type:uuid;index" json:"worker_id"`
	EmployerID uuid.UUID `gorm:"type:uuid;index" json:"employer_id"`

	Rating int    `gorm:"not null" json:"rating"` // 1-5
	Review string `gorm:"type:text" json:"review"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Booking  *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	Worker   *User    `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	Employer *User    `gorm:"foreignKey:EmployerID" json:"employer,omitempty"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
