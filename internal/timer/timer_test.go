package timer

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FawkesguyD/Love/internal/platform/logger"
)

var testStart = time.Date(2025, 3, 6, 18, 0, 0, 0, time.UTC)

func serviceAt(now time.Time) *Service {
	return NewServiceWithClock(testStart, func() time.Time { return now })
}

func TestElapsedBreakdown(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want Elapsed
	}{
		{
			name: "moment zero",
			now:  testStart,
			want: Elapsed{},
		},
		{
			name: "under one day",
			now:  testStart.Add(3*time.Hour + 25*time.Minute + 9*time.Second),
			want: Elapsed{Hours: 3, Minutes: 25, Seconds: 9},
		},
		{
			name: "days and change",
			now:  testStart.AddDate(0, 0, 10).Add(5 * time.Hour),
			want: Elapsed{Days: 10, Hours: 5},
		},
		{
			name: "exactly one year",
			now:  time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC),
			want: Elapsed{Years: 1},
		},
		{
			name: "one second before a year",
			now:  time.Date(2026, 3, 6, 17, 59, 59, 0, time.UTC),
			want: Elapsed{Days: 364, Hours: 23, Minutes: 59, Seconds: 59},
		},
		{
			name: "year plus remainder",
			now:  time.Date(2026, 3, 8, 19, 1, 2, 0, time.UTC),
			want: Elapsed{Years: 1, Days: 2, Hours: 1, Minutes: 1, Seconds: 2},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := serviceAt(tc.now).Report()
			assert.Equal(t, tc.want, got.Elapsed)
		})
	}
}

func TestLeapDayStartClampsToFeb28(t *testing.T) {
	leapStart := time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)

	// 2025 has no Feb 29; the first anniversary is Feb 28, 2025.
	now := time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC)
	got := NewServiceWithClock(leapStart, func() time.Time { return now }).Report()
	assert.Equal(t, Elapsed{Years: 1}, got.Elapsed)

	// The day before that, the year has not yet turned over.
	now = time.Date(2025, 2, 28, 11, 59, 59, 0, time.UTC)
	got = NewServiceWithClock(leapStart, func() time.Time { return now }).Report()
	assert.Equal(t, 0, got.Elapsed.Years)
}

func TestReportPayload(t *testing.T) {
	now := time.Date(2026, 3, 6, 18, 0, 30, 0, time.UTC)
	got := serviceAt(now).Report()

	assert.Equal(t, "2025-03-06T18:00:00.000Z", got.Since)
	assert.Equal(t, "2026-03-06T18:00:30.000Z", got.Now)
	assert.Equal(t, int64(365*24*3600+30), got.TotalSeconds)
}

func TestTimeEndpoint(t *testing.T) {
	now := time.Date(2026, 3, 6, 18, 0, 30, 0, time.UTC)
	srv := httptest.NewServer(NewRouter(serviceAt(now), logger.New("timer-test")))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/time")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 1, report.Elapsed.Years)
	assert.Equal(t, 30, report.Elapsed.Seconds)
}

func TestViewPageThemes(t *testing.T) {
	srv := httptest.NewServer(NewRouter(serviceAt(testStart), logger.New("timer-test")))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/view?theme=dark")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(body), `data-theme="dark"`)

	resp, err = http.Get(srv.URL + "/view?theme=neon")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(body), `data-theme="light"`)
}
