package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1pitwall/pkg/model"
)

const sessionBody = `{
	"event": {"name": "Monaco", "year": 2024, "country": "Monaco"},
	"kind": "Race",
	"laps": [{"driverNumber": "16", "lapNumber": 1, "time": 90.0}]
}`

func TestLoaderLoadSession(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(sessionBody))
	}))
	defer srv.Close()

	loader := NewLoader(NewClient(srv.URL, 0), nil)
	s, err := loader.LoadSession(context.Background(), 2024, "Monaco", model.Race)
	require.NoError(t, err)
	assert.Equal(t, "Monaco", s.Event.Name)
	require.Len(t, s.Laps, 1)

	// without a store every load hits the network
	_, err = loader.LoadSession(context.Background(), 2024, "Monaco", model.Race)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestLoaderReadsThroughStore(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(sessionBody))
	}))
	defer srv.Close()

	store, err := NewStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	loader := NewLoader(NewClient(srv.URL, 0), store)
	_, err = loader.LoadSession(context.Background(), 2024, "Monaco", model.Race)
	require.NoError(t, err)
	_, err = loader.LoadSession(context.Background(), 2024, "Monaco", model.Race)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// a different session misses the cache
	_, err = loader.LoadSession(context.Background(), 2024, "Monaco", model.Qualifying)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestLoaderLapTelemetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lap") == "2" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[{"speed": 280, "throttle": 100}]`))
	}))
	defer srv.Close()

	loader := NewLoader(NewClient(srv.URL, 0), nil)
	session := &model.Session{
		Event: model.EventInfo{Name: "Monaco", Year: 2024},
		Kind:  model.Race,
	}

	trace, err := loader.LapTelemetry(context.Background(), session,
		model.Lap{DriverNumber: "16", LapNumber: 1})
	require.NoError(t, err)
	require.Len(t, trace, 1)
	assert.Equal(t, 280.0, trace[0].Speed)

	_, err = loader.LapTelemetry(context.Background(), session,
		model.Lap{DriverNumber: "16", LapNumber: 2})
	assert.ErrorIs(t, err, model.ErrNoTelemetry)
}
