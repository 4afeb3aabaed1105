package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapati23/morning-briefing/src/metrics"
)

const okPage = "<!DOCTYPE html><html><body><table><tr><td>row</td></tr></table></body></html>"

func testFetchOptions() FetchOptions {
	return FetchOptions{
		Timeout:      2 * time.Second,
		MaxRetries:   2,
		Backoff:      time.Millisecond,
		MaxBackoff:   5 * time.Millisecond,
		UserAgent:    "morning-briefing-test",
		MaxBodyBytes: 1024,
		CacheTTL:     time.Minute,
	}
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "morning-briefing-test", r.Header.Get("User-Agent"))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(okPage))
	}))
	defer srv.Close()

	m := metrics.NewMetrics(prometheus.NewRegistry())
	f := NewFetchService(testFetchOptions(), nil, m)

	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, okPage, body)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FetchAttempts.WithLabelValues("retry")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchAttempts.WithLabelValues("ok")))
}

func TestFetch_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewFetchService(testFetchOptions(), nil, nil).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
	assert.Contains(t, err.Error(), "3 attempt(s)")
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewFetchService(testFetchOptions(), nil, nil).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_RejectsBadBodies(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"binary", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")},
		{"empty", []byte{}},
		{"too large", []byte("<html>" + strings.Repeat("a", 2048) + "</html>")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Write(tt.body)
			}))
			defer srv.Close()

			_, err := NewFetchService(testFetchOptions(), nil, nil).Fetch(context.Background(), srv.URL)
			assert.ErrorIs(t, err, ErrFetchFailed)
			assert.Equal(t, int32(1), calls.Load(), "content failures are not retried")
		})
	}
}

func TestFetch_CachesAndInvalidates(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(okPage))
	}))
	defer srv.Close()

	f := NewFetchService(testFetchOptions(), nil, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.Fetch(ctx, srv.URL)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())

	f.Invalidate(srv.URL)
	_, err := f.Fetch(ctx, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	opts := testFetchOptions()
	opts.Backoff = time.Second
	opts.MaxBackoff = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewFetchService(opts, nil, nil).Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}

func TestBackoff(t *testing.T) {
	s := &fetchServiceImpl{opts: FetchOptions{Backoff: 100 * time.Millisecond, MaxBackoff: 350 * time.Millisecond}}
	assert.Equal(t, 100*time.Millisecond, s.backoff(1))
	assert.Equal(t, 200*time.Millisecond, s.backoff(2))
	assert.Equal(t, 350*time.Millisecond, s.backoff(3))
	assert.Equal(t, 350*time.Millisecond, s.backoff(8))
}
