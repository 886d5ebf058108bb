package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "1 Main St", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Resolve(t *testing.T) {
	var calls int32
	srv := newTestServer(t, http.StatusOK, `{
		"status": "OK",
		"results": [{
			"formatted_address": "1 Main St, New York, NY 10001, USA",
			"geometry": {"location": {"lat": 40.0, "lng": -73.0}}
		}]
	}`, &calls)

	res, err := NewClient(srv.URL, "test-key", logger.NewNop()).Resolve(context.Background(), "1 Main St")

	require.NoError(t, err)
	assert.Equal(t, domain.GeoPoint{Lat: 40, Lng: -73}, res.Point)
	assert.Equal(t, "1 Main St, New York, NY 10001, USA", res.FormattedAddress)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_ResolveUnresolvable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "zero results", status: http.StatusOK, body: `{"status": "ZERO_RESULTS", "results": []}`},
		{name: "denied", status: http.StatusOK, body: `{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []}`},
		{name: "empty results", status: http.StatusOK, body: `{"status": "OK", "results": []}`},
		{name: "missing formatted address", status: http.StatusOK, body: `{"status": "OK", "results": [{"geometry": {"location": {"lat": 1, "lng": 2}}}]}`},
		{name: "placeholder address", status: http.StatusOK, body: `{"status": "OK", "results": [{"formatted_address": "undefined"}]}`},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
		{name: "garbage", status: http.StatusOK, body: `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := newTestServer(t, tt.status, tt.body, &calls)

			res, err := NewClient(srv.URL, "test-key", logger.NewNop()).Resolve(context.Background(), "1 Main St")

			assert.Nil(t, res)
			assert.ErrorIs(t, err, domain.ErrAddressUnresolvable)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestClient_MissingGeometryIsOrigin(t *testing.T) {
	var calls int32
	srv := newTestServer(t, http.StatusOK, `{"status": "OK", "results": [{"formatted_address": "Somewhere"}]}`, &calls)

	res, err := NewClient(srv.URL, "test-key", logger.NewNop()).Resolve(context.Background(), "1 Main St")

	require.NoError(t, err)
	assert.Equal(t, domain.GeoPoint{}, res.Point)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := NewClient(srv.URL, "test-key", logger.NewNop()).Resolve(context.Background(), "1 Main St")

	assert.ErrorIs(t, err, domain.ErrAddressUnresolvable)
}

func TestClient_DeadlineComesFromContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, "test-key", logger.NewNop())
	assert.Zero(t, c.httpClient.Timeout)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Resolve(ctx, "1 Main St")

	assert.ErrorIs(t, err, domain.ErrAddressUnresolvable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
