// Package mood computes rollups over journal entry mood ratings: daily
// means for trend charts, best/worst day selection, month-over-month
// comparison and yearly calendars. All aggregation functions are pure and
// operate on entries already fetched for the caller's range.
package mood

import (
	"sort"
	"time"

	"github.com/BekzhanK1/moodlog-backend/internal/models"
)

// DailyRollup is the mean mood of one calendar day.
type DailyRollup struct {
	Date       string  `json:"date"` // YYYY-MM-DD
	MoodRating float64 `json:"mood_rating"`
	NumEntries int     `json:"num_entries"`
}

// MonthRollup is the mean mood of one calendar month. MoodRating is nil
// when the month has no rated entries; consumers must not read it as zero.
type MonthRollup struct {
	Month      int      `json:"month"` // 1-12
	MoodRating *float64 `json:"mood_rating"`
	NumEntries int      `json:"num_entries"`
}

// Comparison holds current vs previous month means. Difference is nil
// whenever either side has no data.
type Comparison struct {
	Current    *float64 `json:"current_mood_rating"`
	Previous   *float64 `json:"previous_mood_rating"`
	Difference *float64 `json:"mood_rating_difference"`
}

// ClampRating bounds a rating to the valid mood scale. The classifier
// upstream should never exceed it, but out-of-range input must not poison
// aggregates.
func ClampRating(r float64) float64 {
	if r < models.MoodRatingMin {
		return models.MoodRatingMin
	}
	if r > models.MoodRatingMax {
		return models.MoodRatingMax
	}
	return r
}

// dayOf buckets a timestamp into its calendar day in the given location.
func dayOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// DailyRollups computes the mean rating per calendar day. Entries without
// a rating are skipped; days without entries are omitted entirely, never
// synthesized as zero. The result is sorted by date ascending.
func DailyRollups(entries []models.Entry, loc *time.Location) []DailyRollup {
	type acc struct {
		sum float64
		n   int
	}
	byDay := make(map[string]*acc)

	for _, e := range entries {
		if e.MoodRating == nil {
			continue
		}
		day := dayOf(e.CreatedAt, loc)
		a, ok := byDay[day]
		if !ok {
			a = &acc{}
			byDay[day] = a
		}
		a.sum += ClampRating(*e.MoodRating)
		a.n++
	}

	rollups := make([]DailyRollup, 0, len(byDay))
	for day, a := range byDay {
		rollups = append(rollups, DailyRollup{
			Date:       day,
			MoodRating: a.sum / float64(a.n),
			NumEntries: a.n,
		})
	}
	sort.Slice(rollups, func(i, j int) bool { return rollups[i].Date < rollups[j].Date })
	return rollups
}

// BestAndWorstDay picks the days with the highest and lowest mean rating
// and returns a representative entry for each: the single entry with the
// extremal rating within that day, ties broken by earliest creation time.
// Both are nil when no rated entries exist.
func BestAndWorstDay(entries []models.Entry, loc *time.Location) (best, worst *models.Entry) {
	rollups := DailyRollups(entries, loc)
	if len(rollups) == 0 {
		return nil, nil
	}

	bestDay, worstDay := rollups[0], rollups[0]
	for _, r := range rollups[1:] {
		if r.MoodRating > bestDay.MoodRating {
			bestDay = r
		}
		if r.MoodRating < worstDay.MoodRating {
			worstDay = r
		}
	}

	best = representative(entries, loc, bestDay.Date, true)
	worst = representative(entries, loc, worstDay.Date, false)
	return best, worst
}

// representative finds the extremal rated entry of a day. The day mean
// selects the day; the single strongest entry represents it.
func representative(entries []models.Entry, loc *time.Location, day string, max bool) *models.Entry {
	var picked *models.Entry
	for i := range entries {
		e := &entries[i]
		if e.MoodRating == nil || dayOf(e.CreatedAt, loc) != day {
			continue
		}
		if picked == nil {
			picked = e
			continue
		}
		pr, er := ClampRating(*picked.MoodRating), ClampRating(*e.MoodRating)
		better := er > pr
		if !max {
			better = er < pr
		}
		if better || (er == pr && e.CreatedAt.Before(picked.CreatedAt)) {
			picked = e
		}
	}
	return picked
}

// MeanRating returns the mean of all rated entries, or nil when there are
// none.
func MeanRating(entries []models.Entry) *float64 {
	var sum float64
	var n int
	for _, e := range entries {
		if e.MoodRating == nil {
			continue
		}
		sum += ClampRating(*e.MoodRating)
		n++
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

// Compare builds a month-over-month comparison from two raw means. No
// smoothing and no outlier handling; difference only exists when both
// months have data.
func Compare(current, previous *float64) Comparison {
	c := Comparison{Current: current, Previous: previous}
	if current != nil && previous != nil {
		diff := *current - *previous
		c.Difference = &diff
	}
	return c
}

// YearlyRollups computes the mean rating per calendar month of a year.
// Every month appears exactly once; months without rated entries carry a
// nil mean and NumEntries zero.
func YearlyRollups(entries []models.Entry, year int, loc *time.Location) []MonthRollup {
	sums := make([]float64, 12)
	counts := make([]int, 12)

	for _, e := range entries {
		if e.MoodRating == nil {
			continue
		}
		local := e.CreatedAt.In(loc)
		if local.Year() != year {
			continue
		}
		m := int(local.Month()) - 1
		sums[m] += ClampRating(*e.MoodRating)
		counts[m]++
	}

	rollups := make([]MonthRollup, 12)
	for m := 0; m < 12; m++ {
		rollups[m] = MonthRollup{Month: m + 1, NumEntries: counts[m]}
		if counts[m] > 0 {
			mean := sums[m] / float64(counts[m])
			rollups[m].MoodRating = &mean
		}
	}
	return rollups
}
