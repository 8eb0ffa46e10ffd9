package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BekzhanK1/moodlog-backend/internal/auth"
	"github.com/BekzhanK1/moodlog-backend/internal/models"
)

type stubService struct {
	generateErr error
	insight     *models.Insight
	items       []models.Insight
	total       int64
}

func (s *stubService) Generate(ctx context.Context, user models.User, typ, key string) (*models.Insight, error) {
	if s.generateErr != nil {
		return nil, s.generateErr
	}
	return s.insight, nil
}

func (s *stubService) Get(ctx context.Context, userID uint, typ, key string) (*models.Insight, error) {
	return s.insight, nil
}

func (s *stubService) List(ctx context.Context, userID uint, typ string, page, perPage int) ([]models.Insight, int64, error) {
	return s.items, s.total, nil
}

func newTestRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	authed := func(c *gin.Context) {
		u := models.User{Email: "dev@moodlog.local"}
		u.ID = 1
		auth.SetCurrentUser(c, u)
	}
	router.POST("/api/insights/:type/:periodKey", authed, GenerateHandler(svc))
	router.GET("/api/insights/:type/:periodKey", authed, GetHandler(svc))
	router.GET("/api/insights", authed, ListHandler(svc))
	return router
}

func doRequest(router *gin.Engine, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestGenerateHandlerLocked(t *testing.T) {
	svc := &stubService{generateErr: &IneligiblePeriodError{Reason: ReasonLocked, DaysRemaining: 3}}
	router := newTestRouter(svc)

	w, body := doRequest(router, http.MethodPost, "/api/insights/weekly/2025-W27")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "locked", body["reason"])
	assert.Equal(t, float64(3), body["days_remaining"])
	assert.NotEmpty(t, body["error"])
}

func TestGenerateHandlerFutureAndPast(t *testing.T) {
	for _, reason := range []string{ReasonFuture, ReasonPast} {
		svc := &stubService{generateErr: &IneligiblePeriodError{Reason: reason}}
		router := newTestRouter(svc)

		w, body := doRequest(router, http.MethodPost, "/api/insights/monthly/2025-06")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, reason, body["reason"])
		_, hasDays := body["days_remaining"]
		assert.False(t, hasDays, "days_remaining only reported for locked")
	}
}

func TestGenerateHandlerInsufficientData(t *testing.T) {
	router := newTestRouter(&stubService{generateErr: ErrInsufficientData})

	w, body := doRequest(router, http.MethodPost, "/api/insights/monthly/2025-06")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "insufficient_data", body["reason"])
}

func TestGenerateHandlerUpstreamFailures(t *testing.T) {
	router := newTestRouter(&stubService{generateErr: ErrGenerationTimeout})
	w, _ := doRequest(router, http.MethodPost, "/api/insights/monthly/2025-06")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)

	router = newTestRouter(&stubService{generateErr: ErrGenerationUpstream})
	w, _ = doRequest(router, http.MethodPost, "/api/insights/monthly/2025-06")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGenerateHandlerSuccess(t *testing.T) {
	insight := &models.Insight{UserID: 1, Type: "monthly", PeriodKey: "2025-06", PeriodLabel: "Июнь 2025"}
	router := newTestRouter(&stubService{insight: insight})

	w, body := doRequest(router, http.MethodPost, "/api/insights/monthly/2025-06")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2025-06", body["PeriodKey"])
}

func TestGetHandlerNotFound(t *testing.T) {
	router := newTestRouter(&stubService{})

	w, _ := doRequest(router, http.MethodGet, "/api/insights/monthly/2030-01")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetHandlerFound(t *testing.T) {
	insight := &models.Insight{UserID: 1, Type: "weekly", PeriodKey: "2025-W27"}
	router := newTestRouter(&stubService{insight: insight})

	w, body := doRequest(router, http.MethodGet, "/api/insights/weekly/2025-W27")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-W27", body["PeriodKey"])
}

func TestListHandler(t *testing.T) {
	items := []models.Insight{
		{UserID: 1, Type: "weekly", PeriodKey: "2025-W27"},
		{UserID: 1, Type: "weekly", PeriodKey: "2025-W26"},
	}
	router := newTestRouter(&stubService{items: items, total: 45})

	w, body := doRequest(router, http.MethodGet, "/api/insights?type=weekly&page=2&per_page=20")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(45), body["total"])
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(3), body["total_pages"])
	assert.Len(t, body["items"], 2)
}

func TestListHandlerRejectsUnknownType(t *testing.T) {
	router := newTestRouter(&stubService{})

	w, _ := doRequest(router, http.MethodGet, "/api/insights?type=daily")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
