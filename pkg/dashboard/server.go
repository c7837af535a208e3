package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"f1pitwall/log"
	"f1pitwall/pkg/model"
)

var upgrader = websocket.Upgrader{} // use default options

// Server exposes the dashboard over HTTP: the page itself, the session and
// chart endpoints, and a websocket variant of the chart endpoint.
type Server struct {
	manager *Manager
	r       *mux.Router
	l       *log.Logger
}

func NewServer(manager *Manager) *Server {
	s := &Server{
		manager: manager,
		r:       mux.NewRouter(),
		l:       log.Default().Named("dashboard"),
	}
	s.addHandlers()
	return s
}

func (s *Server) Router() *mux.Router {
	return s.r
}

func (s *Server) addHandlers() {
	s.r.HandleFunc("/", s.pageHandler).Methods(http.MethodGet)
	s.r.HandleFunc("/api/session", s.sessionHandler).Methods(http.MethodPost)
	s.r.HandleFunc("/api/charts", s.chartsHandler).Methods(http.MethodGet)
	s.r.HandleFunc("/ws", s.websocketHandler)
}

type loadRequest struct {
	Year  int    `json:"year"`
	Event string `json:"event"`
	Kind  string `json:"kind"`
}

type driverInfo struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Team   string `json:"team"`
}

type loadResponse struct {
	Event   model.EventInfo `json:"event"`
	Kind    string          `json:"kind"`
	Drivers []driverInfo    `json:"drivers"`
}

func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, nil); err != nil {
		s.l.Error("render page", log.ErrorField(err))
	}
}

// sessionHandler loads (or reuses) the session for the submitted triple and
// returns the selectable drivers.
func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind, err := model.ParseSessionKind(req.Kind)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.manager.Load(r.Context(), SessionKey{Year: req.Year, Event: req.Event, Kind: kind})
	if err != nil {
		s.l.Error("session load failed", log.ErrorField(err))
		httpError(w, http.StatusBadGateway, "failed to load session: "+err.Error())
		return
	}

	resp := loadResponse{Event: session.Event, Kind: string(session.Kind)}
	for _, r := range session.Drivers() {
		resp.Drivers = append(resp.Drivers, driverInfo{
			Number: r.DriverNumber, Name: r.FullName, Team: r.Team,
		})
	}
	writeJSON(w, resp)
}

func (s *Server) chartsHandler(w http.ResponseWriter, r *http.Request) {
	drivers := splitDrivers(r.URL.Query().Get("drivers"))
	if err := s.manager.Select(drivers); err != nil {
		httpError(w, http.StatusConflict, err.Error())
		return
	}

	set, err := s.manager.BuildCharts(r.Context(), s.manager.Selection())
	if err != nil {
		httpError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, set)
}

type wsRequest struct {
	Drivers []string `json:"drivers"`
}

// websocketHandler answers each driver-selection message with the chart
// payload for it. One response per request, same semantics as /api/charts.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.l.Warn("upgrade failed", log.ErrorField(err))
		return
	}
	defer c.Close()

	for {
		var req wsRequest
		if err := c.ReadJSON(&req); err != nil {
			return
		}
		if err := s.manager.Select(req.Drivers); err != nil {
			if writeErr := c.WriteJSON(map[string]string{"error": err.Error()}); writeErr != nil {
				return
			}
			continue
		}
		set, err := s.manager.BuildCharts(r.Context(), s.manager.Selection())
		if err != nil {
			if writeErr := c.WriteJSON(map[string]string{"error": err.Error()}); writeErr != nil {
				return
			}
			continue
		}
		if err := c.WriteJSON(set); err != nil {
			return
		}
	}
}

func splitDrivers(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	drivers := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			drivers = append(drivers, trimmed)
		}
	}
	return drivers
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Serve blocks until SIGINT, then shuts the server down gracefully.
func (s *Server) Serve(addr string) {
	srv := &http.Server{
		Addr: addr,
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      s.r,
	}

	// Run our server in a goroutine so that it doesn't block.
	go func() {
		s.l.Info("dashboard listening", log.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.l.Error("serve", log.ErrorField(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	// Block until we receive our signal.
	<-c

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	s.l.Info("dashboard shutting down")
}
