package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordAndExpose(t *testing.T) {
	m := New()

	m.ObserveHTTP("/api/servers/{serverID}/leaderboard", "GET", 200, 15*time.Millisecond)
	m.ObserveHTTP("/api/servers/{serverID}/leaderboard", "GET", 200, 5*time.Millisecond)
	m.LeaderboardBuilt(true)
	m.ChampionAssigned("not_found")
	m.SetPageSessions("leaderboard", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/servers/{serverID}/leaderboard", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.leaderboards.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.championsAssigned.WithLabelValues("not_found")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.pageSessions.WithLabelValues("leaderboard")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "inhouse_http_requests_total"))
	assert.True(t, strings.Contains(string(body), "inhouse_paging_sessions"))
}
