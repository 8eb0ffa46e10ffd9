package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an application user with locale and activity tracking
type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex:idx_users_email_not_deleted,where:deleted_at IS NULL;not null"`
	Name        string `gorm:"not null;default:''"`
	Timezone    string `gorm:"not null;default:'UTC'"`
	Locale      string `gorm:"not null;default:'ru'"` // target language for generated insights
	LastLoginAt *time.Time

	// Associations
	Entries  []Entry   `gorm:"constraint:OnDelete:CASCADE;"`
	Insights []Insight `gorm:"constraint:OnDelete:CASCADE;"`
}
