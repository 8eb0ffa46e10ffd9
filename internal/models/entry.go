package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Mood rating bounds produced by the upstream sentiment classifier.
const (
	MoodRatingMin = -2.0
	MoodRatingMax = 2.0
)

// Entry represents a journal entry. Content is stored AES-GCM encrypted;
// the entries repository transparently decrypts on read. MoodRating and
// Tags are set asynchronously by the AI analysis step (AIProcessedAt marks
// when that happened) and stay nil until then.
type Entry struct {
	gorm.Model
	UserID        uint `gorm:"not null;index:idx_entries_user_created,priority:1"`
	User          User `gorm:"constraint:OnDelete:CASCADE;"`
	Title         string
	Content       string         `gorm:"type:text;not null"`
	MoodRating    *float64       `gorm:"index"`
	Tags          datatypes.JSON `gorm:"type:jsonb"`
	IsDraft       bool           `gorm:"not null;default:false"`
	AIProcessedAt *time.Time
}
