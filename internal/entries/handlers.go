package entries

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BekzhanK1/moodlog-backend/internal/auth"
	"github.com/BekzhanK1/moodlog-backend/internal/models"
)

type createEntryRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
	IsDraft bool     `json:"is_draft"`
}

// CreateHandler handles POST /api/entries. Mood rating and AI tags are not
// accepted here; the analysis step sets them asynchronously.
func CreateHandler(repo *Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		var req createEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
			return
		}

		entry := models.Entry{
			UserID:  user.ID,
			Title:   req.Title,
			Content: req.Content,
			IsDraft: req.IsDraft,
		}
		if len(req.Tags) > 0 {
			tags, err := json.Marshal(req.Tags)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tags"})
				return
			}
			entry.Tags = datatypes.JSON(tags)
		}

		if err := repo.Create(c.Request.Context(), &entry); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create entry"})
			return
		}

		c.JSON(http.StatusCreated, entry)
	}
}

// ListHandler handles GET /api/entries?start=&end=. Dates are calendar
// dates, inclusive on both ends.
func ListHandler(repo *Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		start, err := time.Parse("2006-01-02", c.Query("start"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
			return
		}
		end, err := time.Parse("2006-01-02", c.Query("end"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
			return
		}

		items, err := repo.EntriesInRange(c.Request.Context(), user.ID, start, end.AddDate(0, 0, 1).Add(-time.Nanosecond))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list entries"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// DeleteHandler handles DELETE /api/entries/:id.
func DeleteHandler(repo *Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
			return
		}

		if err := repo.Delete(c.Request.Context(), user.ID, uint(id)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete entry"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
