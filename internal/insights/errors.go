package insights

import (
	"errors"
	"fmt"
)

// Ineligibility reasons, surfaced to the client as structured reason codes.
const (
	ReasonFuture = "future"
	ReasonPast   = "past"
	ReasonLocked = "locked"
)

// IneligiblePeriodError is returned when generation is requested outside
// the allowed window. It is a user-facing condition, not a system error.
type IneligiblePeriodError struct {
	Reason        string // future | past | locked
	DaysRemaining int    // days until the window opens, set for locked
}

func (e *IneligiblePeriodError) Error() string {
	switch e.Reason {
	case ReasonFuture:
		return "cannot generate an insight for a future period"
	case ReasonPast:
		return "cannot generate an insight for a past period"
	default:
		return fmt.Sprintf("generation window not open yet, %d day(s) remaining", e.DaysRemaining)
	}
}

var (
	// ErrInsufficientData means the period has no entries to summarize.
	// Retryable once the user writes more entries.
	ErrInsufficientData = errors.New("not enough entries for this period")

	// ErrGenerationTimeout means the generation service did not answer in
	// time. Nothing was persisted; the caller may retry.
	ErrGenerationTimeout = errors.New("generation timed out")

	// ErrGenerationUpstream wraps transport or non-200 failures from the
	// generation service. Nothing was persisted; the caller may retry.
	ErrGenerationUpstream = errors.New("generation service unavailable")
)
