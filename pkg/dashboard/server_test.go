package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1pitwall/pkg/model"
)

func newTestServer(t *testing.T, loader *fakeLoader) *httptest.Server {
	t.Helper()
	s := NewServer(NewManager(loader, noColor))
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv
}

func loadSession(t *testing.T, srv *httptest.Server, event string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/session", "application/json",
		strings.NewReader(`{"year": 2024, "event": "`+event+`", "kind": "Race"}`))
	require.NoError(t, err)
	return resp
}

func TestSessionHandler(t *testing.T) {
	loader := &fakeLoader{sessions: map[string]*model.Session{
		"Monaco": testSession(model.Race),
	}}
	srv := newTestServer(t, loader)

	resp := loadSession(t, srv, "Monaco")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Event   model.EventInfo `json:"event"`
		Kind    string          `json:"kind"`
		Drivers []struct {
			Number string `json:"number"`
			Name   string `json:"name"`
			Team   string `json:"team"`
		} `json:"drivers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Monaco", body.Event.Name)
	assert.Equal(t, "Race", body.Kind)
	require.Len(t, body.Drivers, 2)
	assert.Equal(t, "16", body.Drivers[0].Number)
	assert.Equal(t, "Ferrari", body.Drivers[0].Team)
}

func TestSessionHandlerPracticeWithoutResults(t *testing.T) {
	s := testSession(model.FP1)
	s.Results = nil
	loader := &fakeLoader{sessions: map[string]*model.Session{"Monaco": s}}
	srv := newTestServer(t, loader)

	resp, err := http.Post(srv.URL+"/api/session", "application/json",
		strings.NewReader(`{"year": 2024, "event": "Monaco", "kind": "FP1"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Drivers []struct {
			Number string `json:"number"`
		} `json:"drivers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	// no classification yet, so the drivers come from the lap sequence
	require.Len(t, body.Drivers, 2)
	assert.Equal(t, "16", body.Drivers[0].Number)
	assert.Equal(t, "81", body.Drivers[1].Number)
}

func TestSessionHandlerErrors(t *testing.T) {
	loader := &fakeLoader{sessions: map[string]*model.Session{
		"Monaco": testSession(model.Race),
	}}
	srv := newTestServer(t, loader)

	t.Run("invalid body", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/session", "application/json",
			strings.NewReader("not json"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown session kind", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/session", "application/json",
			strings.NewReader(`{"year": 2024, "event": "Monaco", "kind": "Sprint"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("load failure maps to bad gateway", func(t *testing.T) {
		resp := loadSession(t, srv, "Atlantis")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})
}

func TestChartsHandler(t *testing.T) {
	loader := &fakeLoader{sessions: map[string]*model.Session{
		"Monaco": testSession(model.Race),
	}}
	srv := newTestServer(t, loader)

	t.Run("without a session", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/charts?drivers=16")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	resp := loadSession(t, srv, "Monaco")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("with a session", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/charts?drivers=16,81")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var set ChartSet
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&set))
		assert.Len(t, set.Positions, 2)
		assert.Len(t, set.LapTimes, 2)
	})
}

func TestWebsocketHandler(t *testing.T) {
	loader := &fakeLoader{sessions: map[string]*model.Session{
		"Monaco": testSession(model.Race),
	}}
	srv := newTestServer(t, loader)

	resp := loadSession(t, srv, "Monaco")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	c, wsResp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer wsResp.Body.Close()
	defer c.Close()

	require.NoError(t, c.WriteJSON(map[string][]string{"drivers": {"16"}}))
	var set ChartSet
	require.NoError(t, c.ReadJSON(&set))
	require.Len(t, set.LapTimes, 1)
	assert.Equal(t, "Charles Leclerc", set.LapTimes[0].Label)

	// a second selection on the same connection gets a fresh payload
	require.NoError(t, c.WriteJSON(map[string][]string{"drivers": {"16", "81"}}))
	require.NoError(t, c.ReadJSON(&set))
	assert.Len(t, set.LapTimes, 2)
}

func TestPageHandler(t *testing.T) {
	loader := &fakeLoader{}
	srv := newTestServer(t, loader)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}
