package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/chapati23/morning-briefing/src/metrics"
	"github.com/chapati23/morning-briefing/src/model"
	"github.com/chapati23/morning-briefing/src/models"
	"github.com/chapati23/morning-briefing/src/security"
	"github.com/chapati23/morning-briefing/src/services"
)

const testSecret = "handler-test-secret"

type fakeDigestService struct {
	section   *models.DigestSection
	err       error
	runs      []model.DigestRun
	runsErr   error
	refreshed int
	lastLimit int
}

func (f *fakeDigestService) BuildDigest(ctx context.Context) (*models.DigestSection, error) {
	return f.section, f.err
}

func (f *fakeDigestService) Refresh(ctx context.Context) (*models.DigestSection, error) {
	f.refreshed++
	return f.section, f.err
}

func (f *fakeDigestService) RecentRuns(limit int) ([]model.DigestRun, error) {
	f.lastLimit = limit
	return f.runs, f.runsErr
}

func okSection() *models.DigestSection {
	return &models.DigestSection{
		Title:  services.SectionTitle,
		Status: models.SectionStatusOK,
		Items: []models.DisplayItem{
			{Text: "🔥 Rep. Nancy Pelosi (D-CA) purchased NVDA", Detail: "$1M–$5M", URL: "https://www.capitoltrades.com/trades/1"},
		},
	}
}

func newTestRouter(svc services.DigestService, secret string) http.Handler {
	return NewRouter(RouterDeps{
		DigestService: svc,
		AuthService:   security.NewAuthService(secret),
		Metrics:       metrics.NewMetrics(prometheus.NewRegistry()),
	})
}

func do(t *testing.T, h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleGetDigest(t *testing.T) {
	router := newTestRouter(&fakeDigestService{section: okSection()}, testSecret)

	rec := do(t, router, http.MethodGet, "/api/congress-trades", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var got models.DigestSection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.SectionStatusOK, got.Status)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "🔥 Rep. Nancy Pelosi (D-CA) purchased NVDA", got.Items[0].Text)
}

func TestHandleGetDigest_Unavailable(t *testing.T) {
	section := &models.DigestSection{
		Title:   services.SectionTitle,
		Status:  models.SectionStatusUnavailable,
		Message: services.MsgUnavailable,
		Items:   []models.DisplayItem{},
	}
	svc := &fakeDigestService{section: section, err: services.ErrSourceUnavailable}
	router := newTestRouter(svc, testSecret)

	rec := do(t, router, http.MethodGet, "/api/congress-trades", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), services.MsgUnavailable)

	html := do(t, router, http.MethodGet, "/api/congress-trades/html", "")
	assert.Equal(t, http.StatusServiceUnavailable, html.Code)
	assert.Contains(t, html.Body.String(), "<i>Congress trades unavailable</i>")
}

func TestHandleGetDigest_InternalError(t *testing.T) {
	router := newTestRouter(&fakeDigestService{err: errors.New("boom")}, testSecret)
	rec := do(t, router, http.MethodGet, "/api/congress-trades", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestHandleGetDigestHTML(t *testing.T) {
	router := newTestRouter(&fakeDigestService{section: okSection()}, testSecret)

	rec := do(t, router, http.MethodGet, "/api/congress-trades/html", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<b>Congressional Trades</b>")
	assert.Contains(t, rec.Body.String(), `<a href="https://www.capitoltrades.com/trades/1">`)
}

func TestHandleGetRuns(t *testing.T) {
	runs := []model.DigestRun{{ID: "run-1", Status: models.SectionStatusOK, StartedAt: time.Date(2025, 3, 20, 7, 0, 0, 0, time.UTC)}}

	t.Run("default limit", func(t *testing.T) {
		svc := &fakeDigestService{runs: runs}
		rec := do(t, newTestRouter(svc, testSecret), http.MethodGet, "/api/runs", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 20, svc.lastLimit)
		assert.Contains(t, rec.Body.String(), "run-1")
	})

	t.Run("capped limit", func(t *testing.T) {
		svc := &fakeDigestService{runs: runs}
		rec := do(t, newTestRouter(svc, testSecret), http.MethodGet, "/api/runs?limit=5000", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, maxRunsLimit, svc.lastLimit)
	})

	t.Run("invalid limit", func(t *testing.T) {
		for _, q := range []string{"abc", "0", "-3"} {
			rec := do(t, newTestRouter(&fakeDigestService{}, testSecret), http.MethodGet, "/api/runs?limit="+q, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		}
	})

	t.Run("storage error", func(t *testing.T) {
		svc := &fakeDigestService{runsErr: errors.New("disk full")}
		rec := do(t, newTestRouter(svc, testSecret), http.MethodGet, "/api/runs", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandleRefresh_Auth(t *testing.T) {
	token, err := security.NewAuthService(testSecret).GenerateToken("ops")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		svc := &fakeDigestService{section: okSection()}
		rec := do(t, newTestRouter(svc, testSecret), http.MethodPost, "/api/congress-trades/refresh", token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, svc.refreshed)
	})

	t.Run("missing token", func(t *testing.T) {
		svc := &fakeDigestService{section: okSection()}
		rec := do(t, newTestRouter(svc, testSecret), http.MethodPost, "/api/congress-trades/refresh", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, svc.refreshed)
	})

	t.Run("bad token", func(t *testing.T) {
		svc := &fakeDigestService{section: okSection()}
		rec := do(t, newTestRouter(svc, testSecret), http.MethodPost, "/api/congress-trades/refresh", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, svc.refreshed)
	})

	t.Run("disabled without secret", func(t *testing.T) {
		svc := &fakeDigestService{section: okSection()}
		rec := do(t, newTestRouter(svc, ""), http.MethodPost, "/api/congress-trades/refresh", token)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Zero(t, svc.refreshed)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := do(t, newTestRouter(&fakeDigestService{section: okSection()}, testSecret), http.MethodGet, "/api/congress-trades/refresh", token)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	router := NewRouter(RouterDeps{
		DigestService: &fakeDigestService{section: okSection()},
		AuthService:   security.NewAuthService(testSecret),
		Limiter:       rate.NewLimiter(rate.Every(time.Hour), 2),
	})

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/congress-trades", "").Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/congress-trades", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, router, http.MethodGet, "/api/congress-trades", "").Code)

	// Health and metrics sit outside the limited group.
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/healthz", "").Code)
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(&fakeDigestService{section: okSection()}, testSecret)

	rec := do(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	metricsRec := do(t, router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, metricsRec.Code)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/nope", "").Code)
}
