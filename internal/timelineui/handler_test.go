package timelineui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FawkesguyD/Love/internal/model"
	"github.com/FawkesguyD/Love/internal/platform/logger"
)

type stubSource struct {
	cards []*model.Card
	err   error
}

func (s *stubSource) Timeline(ctx context.Context) ([]*model.Card, error) {
	return s.cards, s.err
}

func stubCards(n int) []*model.Card {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	out := make([]*model.Card, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &model.Card{
			ID:    fmt.Sprintf("m%02d", i),
			Title: fmt.Sprintf("moment %02d", i),
			Date:  base.Add(time.Duration(i) * time.Hour),
		})
	}
	return out
}

func testConfig() Config {
	return Config{
		MomentsBaseURL:      "http://moments.local",
		TimerBaseURL:        "http://timer.local",
		ImageBaseURL:        "/api/images",
		RequestTimeoutMs:    6000,
		CacheTTLMs:          45000,
		MaxMoments:          500,
		BatchSize:           4,
		MaxRetries:          2,
		TimerSyncIntervalMs: 20000,
	}
}

func newUIServer(t *testing.T, src *stubSource) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(src, testConfig(), logger.New("timeline-ui-test")))
	t.Cleanup(srv.Close)
	return srv
}

func fetchBody(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestGetPageRendersFirstBatchAndConfig(t *testing.T) {
	srv := newUIServer(t, &stubSource{cards: stubCards(10)})

	status, body := fetchBody(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, status)

	// First batch only, the rest arrives through /fragments.
	assert.Contains(t, body, "moment 00")
	assert.Contains(t, body, "moment 03")
	assert.NotContains(t, body, "moment 04")
	assert.Contains(t, body, `data-total="10"`)
	assert.Contains(t, body, `data-batch="4"`)

	assert.Contains(t, body, "window.__TIMELINE_CONFIG__")
	assert.Contains(t, body, `"apiBaseUrl":"http://moments.local"`)
	assert.Contains(t, body, `"timerApiUrl":"http://timer.local/api/timer"`)
	assert.Contains(t, body, `"batchSize":4`)
	assert.Contains(t, body, `"cacheTtlMs":45000`)
}

func TestGetPageEmptyState(t *testing.T) {
	srv := newUIServer(t, &stubSource{})

	status, body := fetchBody(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "No moments yet")
	assert.NotContains(t, body, `id="moments"`)
}

func TestGetPageErrorState(t *testing.T) {
	srv := newUIServer(t, &stubSource{err: errors.New("upstream down")})

	status, body := fetchBody(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "could not be loaded")
	assert.NotContains(t, body, `id="moments"`)
}

func TestGetPageReducedMotion(t *testing.T) {
	srv := newUIServer(t, &stubSource{cards: stubCards(2)})

	_, body := fetchBody(t, srv.URL+"/?motion=reduced")
	assert.Contains(t, body, "moment-card no-motion")
}

func TestGetFragments(t *testing.T) {
	srv := newUIServer(t, &stubSource{cards: stubCards(10)})

	status, body := fetchBody(t, srv.URL+"/fragments?offset=4")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "moment 04")
	assert.Contains(t, body, "moment 07")
	assert.NotContains(t, body, "moment 03")
	assert.NotContains(t, body, "moment 08")

	// The final partial batch.
	status, body = fetchBody(t, srv.URL+"/fragments?offset=8")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "moment 08")
	assert.Contains(t, body, "moment 09")

	// Past the end there is nothing left to append.
	status, _ = fetchBody(t, srv.URL+"/fragments?offset=12")
	assert.Equal(t, http.StatusNoContent, status)
}

func TestGetFragmentsRejectsBadOffsets(t *testing.T) {
	srv := newUIServer(t, &stubSource{cards: stubCards(10)})

	status, body := fetchBody(t, srv.URL+"/fragments?offset=abc")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "VALIDATION_ERROR")

	status, _ = fetchBody(t, srv.URL+"/fragments?offset=-4")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = fetchBody(t, srv.URL+"/fragments?offset=3")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "multiple of the batch size")
}

func TestGetFragmentsUpstreamDown(t *testing.T) {
	srv := newUIServer(t, &stubSource{err: errors.New("upstream down")})

	status, body := fetchBody(t, srv.URL+"/fragments?offset=0")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, body, "UNAVAILABLE")
}

func TestHealth(t *testing.T) {
	srv := newUIServer(t, &stubSource{})
	status, body := fetchBody(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"status":"ok"`)
}
