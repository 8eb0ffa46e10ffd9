package insights

import (
	"time"

	"github.com/BekzhanK1/moodlog-backend/internal/period"
)

// EligibilityState classifies a target period relative to now.
type EligibilityState int

const (
	// StateFuture: the period has not started; generation forbidden.
	StateFuture EligibilityState = iota
	// StatePast: the period is over; existing insights stay readable, generation forbidden.
	StatePast
	// StateLocked: current period, but the generation window has not opened.
	StateLocked
	// StateUnlocked: current period inside the window; generation permitted.
	StateUnlocked
)

// Eligibility is the outcome of a gate check. DaysRemaining is the number
// of days until the window opens and is only meaningful for StateLocked.
type Eligibility struct {
	State         EligibilityState
	DaysRemaining int
}

// CheckEligibility decides whether insight generation is permitted for the
// target period at the given instant. It is the single source of truth for
// the window policy: weekly insights unlock on Saturday and Sunday of the
// current ISO week, monthly insights during the last five days of the
// month. Recomputed on every check; no persisted state.
func CheckEligibility(now time.Time, target period.Period) Eligibility {
	current := period.Current(target.Type, now)

	switch cmp := period.Compare(target, current); {
	case cmp > 0:
		return Eligibility{State: StateFuture}
	case cmp < 0:
		return Eligibility{State: StatePast}
	}

	switch target.Type {
	case period.TypeWeekly:
		wd := now.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return Eligibility{State: StateUnlocked}
		}
		// Monday is 1 ... Friday is 5; Saturday opens the window.
		return Eligibility{State: StateLocked, DaysRemaining: int(time.Saturday - wd)}
	default:
		day := now.Day()
		unlockDay := period.DaysInMonth(now.Year(), now.Month()) - 4
		if day >= unlockDay {
			return Eligibility{State: StateUnlocked}
		}
		return Eligibility{State: StateLocked, DaysRemaining: unlockDay - day}
	}
}

// IneligibleError translates a non-unlocked eligibility into the error
// surfaced to callers. Returns nil for StateUnlocked.
func (e Eligibility) IneligibleError() error {
	switch e.State {
	case StateFuture:
		return &IneligiblePeriodError{Reason: ReasonFuture}
	case StatePast:
		return &IneligiblePeriodError{Reason: ReasonPast}
	case StateLocked:
		return &IneligiblePeriodError{Reason: ReasonLocked, DaysRemaining: e.DaysRemaining}
	default:
		return nil
	}
}
