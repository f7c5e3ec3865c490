package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preechaw/sewline/internal/domain/models"
	"github.com/preechaw/sewline/internal/service/report"
)

type stubRows struct{}

func (stubRows) SourceExists(ctx context.Context, line models.Line) bool { return true }

func (stubRows) FetchProduction(ctx context.Context, line models.Line, start, end time.Time) ([]models.ProductionRow, error) {
	if line != models.LineFC {
		return nil, nil
	}
	return []models.ProductionRow{{
		Item: "MODEL-A", Qty: 12, Status: models.StatusConfirmed,
		CreatedAt: time.Date(start.Year(), start.Month(), start.Day(), 9, 0, 0, 0, start.Location()),
	}}, nil
}

type stubBreaks struct{}

func (stubBreaks) ActiveBreaks(ctx context.Context) ([]models.BreakInterval, error) {
	return nil, nil
}

type stubTargets struct{}

func (stubTargets) TargetOn(ctx context.Context, date time.Time) (*models.TargetRecord, error) {
	return nil, nil
}

func (stubTargets) LatestTargetBefore(ctx context.Context, date time.Time) (*models.TargetRecord, error) {
	return nil, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := report.NewEngine(stubRows{}, stubBreaks{}, stubTargets{}, nil)
	handler := NewReportHandler(engine, nil)

	r := gin.New()
	r.GET("/api/reports", handler.GetReport)
	r.GET("/api/targets", handler.GetTargets)
	return r
}

func doGet(t *testing.T, r *gin.Engine, url string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestGetReportSummary(t *testing.T) {
	r := newTestRouter()

	w, body := doGet(t, r, "/api/reports?start_date=2025-06-02&end_date=2025-06-02&type=summary")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "summary", body["type"])
	assert.Equal(t, "2025-06-02", body["start_date"])

	data := body["data"].(map[string]interface{})
	fc := data["fc"].(map[string]interface{})
	assert.Equal(t, float64(12), fc["total_qty"])
}

func TestGetReportRejectsBadDate(t *testing.T) {
	r := newTestRouter()

	w, body := doGet(t, r, "/api/reports?start_date=02-06-2025")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestGetReportRejectsReversedRange(t *testing.T) {
	r := newTestRouter()

	w, _ := doGet(t, r, "/api/reports?start_date=2025-06-03&end_date=2025-06-02")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetReportRejectsUnknownType(t *testing.T) {
	r := newTestRouter()

	w, _ := doGet(t, r, "/api/reports?type=weekly")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTargetsReturnsDefaults(t *testing.T) {
	r := newTestRouter()

	w, body := doGet(t, r, "/api/targets?start_date=2025-06-02")

	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	for _, line := range models.Lines() {
		assert.Equal(t, float64(report.DefaultHourlyRate), data[string(line)])
	}
}
