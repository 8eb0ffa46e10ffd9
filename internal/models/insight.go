package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Insight types
const (
	InsightTypeWeekly  = "weekly"
	InsightTypeMonthly = "monthly"
)

// Insight is an AI-generated summary of a user's entries over one period.
// The composite unique index is the idempotency contract: at most one row
// per (user, type, period key). Rows are immutable once written.
type Insight struct {
	gorm.Model
	UserID      uint           `gorm:"not null;uniqueIndex:idx_insights_user_type_period,priority:1"`
	User        User           `gorm:"constraint:OnDelete:CASCADE;"`
	Type        string         `gorm:"size:10;not null;uniqueIndex:idx_insights_user_type_period,priority:2"`
	PeriodKey   string         `gorm:"size:10;not null;uniqueIndex:idx_insights_user_type_period,priority:3"`
	PeriodLabel string         `gorm:"not null;default:''"`
	Content     datatypes.JSON `gorm:"type:jsonb"`
}
