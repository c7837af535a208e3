package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1pitwall/pkg/model"
)

func TestClientSessionBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/session", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("year"))
		assert.Equal(t, "Monaco", r.URL.Query().Get("event"))
		assert.Equal(t, "Race", r.URL.Query().Get("kind"))
		w.Write([]byte(`{"kind":"Race"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	body, err := c.SessionBytes(context.Background(), 2024, "Monaco", model.Race)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"Race"}`, string(body))
}

func TestClientSessionBytesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such event", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.SessionBytes(context.Background(), 2024, "Atlantis", model.Race)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestClientTelemetryBytes(t *testing.T) {
	t.Run("passes lap coordinates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/telemetry", r.URL.Path)
			assert.Equal(t, "16", r.URL.Query().Get("driver"))
			assert.Equal(t, "7", r.URL.Query().Get("lap"))
			w.Write([]byte(`[{"speed":280}]`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 0)
		body, err := c.TelemetryBytes(context.Background(), 2024, "Monaco", model.Qualifying, "16", 7)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"speed":280}]`, string(body))
	})

	t.Run("404 means no telemetry", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 0)
		_, err := c.TelemetryBytes(context.Background(), 2024, "Monaco", model.Race, "16", 1)
		assert.ErrorIs(t, err, model.ErrNoTelemetry)
	})

	t.Run("other statuses stay errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 0)
		_, err := c.TelemetryBytes(context.Background(), 2024, "Monaco", model.Race, "16", 1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrNoTelemetry)
	})
}

func TestDecodeSession(t *testing.T) {
	data := []byte(`{
		"event": {"name": "Monaco Grand Prix", "year": 2024, "country": "Monaco"},
		"kind": "Race",
		"laps": [{"driverNumber": "16", "lapNumber": 1, "time": 90.0}]
	}`)
	s, err := DecodeSession(data)
	require.NoError(t, err)
	assert.Equal(t, "Monaco Grand Prix", s.Event.Name)
	assert.Equal(t, model.Race, s.Kind)
	require.Len(t, s.Laps, 1)
	assert.True(t, s.Laps[0].Timed())

	_, err = DecodeSession([]byte("not json"))
	assert.Error(t, err)
}
