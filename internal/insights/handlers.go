package insights

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BekzhanK1/moodlog-backend/internal/auth"
	"github.com/BekzhanK1/moodlog-backend/internal/models"
	"github.com/BekzhanK1/moodlog-backend/internal/period"
)

// Service is the surface the HTTP handlers need from the generator.
type Service interface {
	Generate(ctx context.Context, user models.User, insightType, periodKey string) (*models.Insight, error)
	Get(ctx context.Context, userID uint, insightType, periodKey string) (*models.Insight, error)
	List(ctx context.Context, userID uint, insightType string, page, perPage int) ([]models.Insight, int64, error)
}

// GenerateHandler handles POST /api/insights/:type/:periodKey.
// Eligibility and data failures come back as structured 4xx responses the
// client can render as an explanation rather than a generic error.
func GenerateHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		insight, err := svc.Generate(c.Request.Context(), user, c.Param("type"), c.Param("periodKey"))
		if err != nil {
			writeGenerateError(c, err)
			return
		}

		c.JSON(http.StatusCreated, insight)
	}
}

// GetHandler handles GET /api/insights/:type/:periodKey. Reads bypass the
// eligibility gate; a period with no insight (future ones included) is
// simply not found.
func GetHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		insight, err := svc.Get(c.Request.Context(), user.ID, c.Param("type"), c.Param("periodKey"))
		if err != nil {
			writeGenerateError(c, err)
			return
		}
		if insight == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "insight not found"})
			return
		}

		c.JSON(http.StatusOK, insight)
	}
}

// ListHandler handles GET /api/insights?type=&page=&per_page=.
func ListHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		insightType := c.Query("type")
		if insightType != "" {
			if _, err := period.ParseType(insightType); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

		items, total, err := svc.List(c.Request.Context(), user.ID, insightType, page, perPage)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list insights"})
			return
		}
		if page < 1 {
			page = 1
		}
		if perPage < 1 || perPage > 100 {
			perPage = 20
		}

		totalPages := int(total) / perPage
		if int(total)%perPage != 0 {
			totalPages++
		}

		c.JSON(http.StatusOK, gin.H{
			"items":       items,
			"total":       total,
			"page":        page,
			"total_pages": totalPages,
		})
	}
}

// writeGenerateError maps the failure taxonomy onto HTTP responses with
// machine-readable reason codes.
func writeGenerateError(c *gin.Context, err error) {
	var ineligible *IneligiblePeriodError
	switch {
	case errors.As(err, &ineligible):
		body := gin.H{"error": ineligible.Error(), "reason": ineligible.Reason}
		if ineligible.Reason == ReasonLocked {
			body["days_remaining"] = ineligible.DaysRemaining
		}
		c.JSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, ErrInsufficientData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "not enough entries to generate an insight for this period",
			"reason": "insufficient_data",
		})
	case errors.Is(err, period.ErrMalformedKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrGenerationTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "insight generation timed out, please retry"})
	case errors.Is(err, ErrGenerationUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": "insight generation is temporarily unavailable, please retry"})
	default:
		// Unknown period type and other validation errors from parsing.
		if _, typeErr := period.ParseType(c.Param("type")); typeErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": typeErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate insight"})
	}
}
