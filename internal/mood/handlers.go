package mood

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BekzhanK1/moodlog-backend/internal/auth"
	"github.com/BekzhanK1/moodlog-backend/internal/models"
	"github.com/BekzhanK1/moodlog-backend/internal/period"
)

// EntrySource provides rated entries for aggregation. Content is never
// needed here, so implementations can skip decryption.
type EntrySource interface {
	RatedEntriesInRange(ctx context.Context, userID uint, start, end time.Time) ([]models.Entry, error)
}

const dateLayout = "2006-01-02"

// parseRange reads inclusive start/end calendar dates in the given
// location and converts them into a timestamp range.
func parseRange(c *gin.Context, loc *time.Location) (start, end time.Time, ok bool) {
	startDate, err := time.ParseInLocation(dateLayout, c.Query("start"), loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
		return start, end, false
	}
	endDate, err := time.ParseInLocation(dateLayout, c.Query("end"), loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
		return start, end, false
	}
	if endDate.Before(startDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must not be before start"})
		return start, end, false
	}
	return startDate, endDate.AddDate(0, 0, 1).Add(-time.Nanosecond), true
}

// tzLocation builds a fixed location from the tz_offset query parameter
// (minutes east of UTC). Missing or malformed offsets fall back to UTC.
func tzLocation(c *gin.Context) *time.Location {
	offset, err := strconv.Atoi(c.DefaultQuery("tz_offset", "0"))
	if err != nil || offset < -14*60 || offset > 14*60 {
		return time.UTC
	}
	return time.FixedZone("client", offset*60)
}

// TrendHandler handles GET /api/mood/trend?start=&end=&tz_offset=.
// Returns one rollup per day that has rated entries; empty days are
// omitted, not zero-filled.
func TrendHandler(src EntrySource, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		loc := tzLocation(c)
		start, end, ok := parseRange(c, loc)
		if !ok {
			return
		}

		cacheKey := fmt.Sprintf("mood:trend:%d:%s:%s:%s", user.ID, c.Query("start"), c.Query("end"), c.DefaultQuery("tz_offset", "0"))
		var rollups []DailyRollup
		if cache.Get(c.Request.Context(), cacheKey, &rollups) {
			c.JSON(http.StatusOK, gin.H{"items": rollups})
			return
		}

		entries, err := src.RatedEntriesInRange(c.Request.Context(), user.ID, start, end)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute mood trend"})
			return
		}

		rollups = DailyRollups(entries, loc)
		cache.Set(c.Request.Context(), cacheKey, rollups)
		c.JSON(http.StatusOK, gin.H{"items": rollups})
	}
}

// ExtremesHandler handles GET /api/mood/extremes?start=&end=. Returns the
// representative best and worst entries, both null when the range has no
// rated entries.
func ExtremesHandler(src EntrySource) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		loc := tzLocation(c)
		start, end, ok := parseRange(c, loc)
		if !ok {
			return
		}

		entries, err := src.RatedEntriesInRange(c.Request.Context(), user.ID, start, end)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute extremes"})
			return
		}

		best, worst := BestAndWorstDay(entries, loc)
		c.JSON(http.StatusOK, gin.H{
			"best_entry":  best,
			"worst_entry": worst,
		})
	}
}

// MonthComparisonHandler handles GET /api/mood/month-comparison. Compares
// the current calendar month's mean rating with the previous month's.
func MonthComparisonHandler(src EntrySource, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		today := now().UTC()
		curFirst, curLast := period.MonthRange(today.Year(), today.Month())
		prevAnchor := curFirst.AddDate(0, 0, -1) // last day of the previous month
		prevFirst, prevLast := period.MonthRange(prevAnchor.Year(), prevAnchor.Month())

		current, err := meanForRange(c, src, user.ID, curFirst, curLast)
		if err != nil {
			return
		}
		previous, err := meanForRange(c, src, user.ID, prevFirst, prevLast)
		if err != nil {
			return
		}

		c.JSON(http.StatusOK, Compare(current, previous))
	}
}

func meanForRange(c *gin.Context, src EntrySource, userID uint, first, last time.Time) (*float64, error) {
	end := last.AddDate(0, 0, 1).Add(-time.Nanosecond)
	entries, err := src.RatedEntriesInRange(c.Request.Context(), userID, first, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute monthly mean"})
		return nil, err
	}
	return MeanRating(entries), nil
}

// YearlyHandler handles GET /api/mood/yearly?year=. Always returns twelve
// months; months without data carry a null mood_rating so charts can skip
// them instead of plotting zero.
func YearlyHandler(src EntrySource, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		year, err := strconv.Atoi(c.Query("year"))
		if err != nil || year < 1970 || year > 9999 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a four-digit year"})
			return
		}

		cacheKey := fmt.Sprintf("mood:yearly:%d:%d", user.ID, year)
		var rollups []MonthRollup
		if cache.Get(c.Request.Context(), cacheKey, &rollups) {
			c.JSON(http.StatusOK, gin.H{"items": rollups})
			return
		}

		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
		entries, err := src.RatedEntriesInRange(c.Request.Context(), user.ID, start, end)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute yearly rollup"})
			return
		}

		rollups = YearlyRollups(entries, year, time.UTC)
		cache.Set(c.Request.Context(), cacheKey, rollups)
		c.JSON(http.StatusOK, gin.H{"items": rollups})
	}
}
