package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/database"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/domain"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/repository"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/service"
	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T, clock repository.Clock) (*fiber.App, *service.AQIService) {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := service.New(repository.New(db).WithClock(clock)).WithLocation(time.UTC)
	app := fiber.New()
	Register(app, svc)
	return app, svc
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, out
}

func TestCreateAndFetchByID(t *testing.T) {
	app, _ := newTestApp(t, time.Now)

	status, body := do(t, app, nethttp.MethodPost, "/api/aqi", `{"pm2_5": 40, "pm10": "18.5", "co": "abc"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("create: status %d body %s", status, body)
	}

	var created domain.ReadingWithLevel
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Level != domain.LevelUnhealthyForSensitiveGroups {
		t.Errorf("level = %q, expected Unhealthy for Sensitive Groups", created.Level)
	}
	if domain.Value(created.PM10) != 18.5 {
		t.Errorf("pm10 = %v, expected 18.5", domain.Value(created.PM10))
	}
	if created.CO == nil || *created.CO != 0 {
		t.Errorf("non-numeric co should be stored as 0, got %v", created.CO)
	}

	status, body = do(t, app, nethttp.MethodGet, "/api/aqi/1", "")
	if status != fiber.StatusOK {
		t.Fatalf("get: status %d body %s", status, body)
	}
	var got domain.ReadingWithLevel
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != created.ID || got.Level != domain.LevelUnhealthyForSensitiveGroups {
		t.Errorf("unexpected reading %+v", got)
	}
}

func TestCreateRejectsEmptyBody(t *testing.T) {
	app, _ := newTestApp(t, time.Now)

	for _, body := range []string{`{}`, `{"pm2_5": "n/a", "foo": 3}`, `not json`} {
		status, out := do(t, app, nethttp.MethodPost, "/api/aqi", body)
		if status != fiber.StatusBadRequest {
			t.Errorf("body %q: status %d, expected 400", body, status)
			continue
		}
		var resp struct {
			Error       string   `json:"error"`
			ValidFields []string `json:"validFields"`
		}
		if err := json.Unmarshal(out, &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if strings.Join(resp.ValidFields, ",") != "pm2_5,pm10,no2,o3,co,so2,nh3,pb" {
			t.Errorf("validFields = %v", resp.ValidFields)
		}
	}
}

func TestNotFoundResponses(t *testing.T) {
	app, _ := newTestApp(t, time.Now)

	status, body := do(t, app, nethttp.MethodGet, "/api/aqi/99", "")
	if status != fiber.StatusNotFound || !strings.Contains(string(body), "AQI data not found") {
		t.Errorf("get missing: %d %s", status, body)
	}

	status, body = do(t, app, nethttp.MethodGet, "/api/aqi/latest", "")
	if status != fiber.StatusNotFound || !strings.Contains(string(body), "No AQI data found") {
		t.Errorf("latest on empty: %d %s", status, body)
	}

	status, _ = do(t, app, nethttp.MethodGet, "/api/aqi/abc", "")
	if status != fiber.StatusBadRequest {
		t.Errorf("non-integer id: status %d, expected 400", status)
	}
}

func TestListEndpoints(t *testing.T) {
	base := time.Date(2024, 9, 1, 6, 0, 0, 0, time.UTC)
	clock := base
	app, svc := newTestApp(t, func() time.Time { return clock })

	status, body := do(t, app, nethttp.MethodGet, "/api/aqi", "")
	if status != fiber.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("empty list: %d %s", status, body)
	}

	for i, pm := range []float64{5, 60, 300} {
		clock = base.Add(time.Duration(i) * 24 * time.Hour)
		if _, err := svc.CreateAQI(context.Background(), domain.CreateRequest{PM25: domain.Float(pm)}); err != nil {
			t.Fatalf("CreateAQI: %v", err)
		}
	}

	var all []domain.ReadingWithLevel
	_, body = do(t, app, nethttp.MethodGet, "/api/aqi", "")
	if err := json.Unmarshal(body, &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) != 3 || all[0].Level != domain.LevelHazardous || all[2].Level != domain.LevelGood {
		t.Errorf("unexpected list %+v", all)
	}

	var latest domain.ReadingWithLevel
	_, body = do(t, app, nethttp.MethodGet, "/api/aqi/latest", "")
	if err := json.Unmarshal(body, &latest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if domain.Value(latest.PM25) != 300 {
		t.Errorf("latest pm2_5 = %v, expected 300", domain.Value(latest.PM25))
	}

	var day []domain.ReadingWithLevel
	status, body = do(t, app, nethttp.MethodGet, "/api/aqi/date/2024-09-02", "")
	if status != fiber.StatusOK {
		t.Fatalf("by date: %d %s", status, body)
	}
	if err := json.Unmarshal(body, &day); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(day) != 1 || day[0].Level != domain.LevelUnhealthy {
		t.Errorf("unexpected day %+v", day)
	}

	var ranged []domain.ReadingWithLevel
	status, body = do(t, app, nethttp.MethodGet, "/api/aqi/range?startDate=2024-09-01&endDate=2024-09-02T23:00:00Z", "")
	if status != fiber.StatusOK {
		t.Fatalf("range: %d %s", status, body)
	}
	if err := json.Unmarshal(body, &ranged); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ranged) != 2 {
		t.Errorf("expected 2 readings in range, got %d", len(ranged))
	}
}

func TestRangeValidation(t *testing.T) {
	app, _ := newTestApp(t, time.Now)

	tests := []struct {
		query   string
		message string
	}{
		{"/api/aqi/range?endDate=2024-01-01", "required"},
		{"/api/aqi/range?startDate=2024-01-01", "required"},
		{"/api/aqi/range?startDate=soon&endDate=2024-01-01", "Invalid date format"},
		{"/api/aqi/range?startDate=2024-02-01&endDate=2024-01-01", "Start date must be before end date"},
	}
	for _, tt := range tests {
		status, body := do(t, app, nethttp.MethodGet, tt.query, "")
		if status != fiber.StatusBadRequest {
			t.Errorf("%s: status %d, expected 400", tt.query, status)
		}
		if !strings.Contains(string(body), tt.message) {
			t.Errorf("%s: body %s should mention %q", tt.query, body, tt.message)
		}
	}
}

type brokenRepo struct{}

var errBroken = errors.New("pq: relation \"aqi\" does not exist")

func (brokenRepo) Get(context.Context, int64) (*domain.Reading, error) { return nil, errBroken }
func (brokenRepo) GetAll(context.Context) ([]domain.Reading, error)    { return nil, errBroken }
func (brokenRepo) GetAllByDate(context.Context, time.Time) ([]domain.Reading, error) {
	return nil, errBroken
}
func (brokenRepo) GetByDateRange(context.Context, time.Time, time.Time) ([]domain.Reading, error) {
	return nil, errBroken
}
func (brokenRepo) Create(context.Context, domain.CreateRequest) (*domain.Reading, error) {
	return nil, errBroken
}

func TestInternalErrorsDoNotLeak(t *testing.T) {
	app := fiber.New()
	Register(app, service.New(brokenRepo{}))

	requests := []struct{ method, target, body string }{
		{nethttp.MethodGet, "/api/aqi", ""},
		{nethttp.MethodGet, "/api/aqi/1", ""},
		{nethttp.MethodGet, "/api/aqi/latest", ""},
		{nethttp.MethodGet, "/api/aqi/date/2024-01-01", ""},
		{nethttp.MethodGet, "/api/aqi/range?startDate=2024-01-01&endDate=2024-01-02", ""},
		{nethttp.MethodPost, "/api/aqi", `{"pm2_5": 1}`},
	}
	for _, r := range requests {
		status, body := do(t, app, r.method, r.target, r.body)
		if status != fiber.StatusInternalServerError {
			t.Errorf("%s %s: status %d, expected 500", r.method, r.target, status)
		}
		if strings.Contains(string(body), "relation") {
			t.Errorf("%s %s leaked storage detail: %s", r.method, r.target, body)
		}
	}
}
