package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"inhouse-tracker/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(buf *bytes.Buffer, m *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestID(zerolog.New(buf)))
	r.Use(Observe(m))
	r.Get("/players/{playerID}", func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside handler")
		w.Header().Set("X-Seen-ID", GetRequestID(r.Context()))
		w.WriteHeader(http.StatusTeapot)
	})
	return r
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var buf bytes.Buffer
	router := newRouter(&buf, metrics.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players/42", nil))

	id := rec.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Equal(t, id, rec.Header().Get("X-Seen-ID"))
	assert.Contains(t, buf.String(), `"request_id":"`+id+`"`)
	assert.Contains(t, buf.String(), "inside handler")
}

func TestRequestID_ReusesIncomingHeader(t *testing.T) {
	var buf bytes.Buffer
	router := newRouter(&buf, metrics.New())

	req := httptest.NewRequest(http.MethodGet, "/players/42", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestObserve_RecordsRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	m := metrics.New()
	router := newRouter(&buf, m)

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(), `inhouse_http_requests_total{method="GET",route="/players/{playerID}",status_code="418"} 3`)
	assert.Contains(t, buf.String(), `"route":"/players/{playerID}"`)
	assert.Contains(t, buf.String(), `"status":418`)
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
