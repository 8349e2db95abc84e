package models

import "time"

// Skill is a row in the global skills registry shown during registration
// and used as a search filter.
type Skill struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"`
	Category string `gorm:"type:varchar(80)" json:"category"`

	CreatedAt time.Time `json:"created_at"`
}
