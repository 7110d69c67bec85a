package models

import (
	"time"

	"gorm.io/datatypes"
)

// Preference is a small persisted key/value setting, e.g. the onboarding flag.
type Preference struct {
	Key       string         `gorm:"primaryKey;size:64"`
	Value     datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
