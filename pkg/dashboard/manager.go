package dashboard

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"f1pitwall/log"
	"f1pitwall/pkg/model"
)

// State tracks the lifecycle of the cached session. Changing the input
// triple marks the cached session stale before the next load replaces it.
type State int

const (
	StateIdle State = iota
	StateLoaded
	StateStale
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateStale:
		return "stale"
	default:
		return "idle"
	}
}

// SessionKey is the input triple the cached session is keyed by.
type SessionKey struct {
	Year  int
	Event string
	Kind  model.SessionKind
}

// SessionLoader is the slice of the provider the dashboard needs.
type SessionLoader interface {
	LoadSession(ctx context.Context, year int, event string, kind model.SessionKind) (*model.Session, error)
	LapTelemetry(ctx context.Context, session *model.Session, lap model.Lap) (model.TelemetrySeries, error)
}

var ErrNoSession = errors.New("no session loaded")

// Manager owns the single cached session of the dashboard. The session is
// replaced wholesale on a key change, never mutated in place.
type Manager struct {
	mu        sync.Mutex
	loader    SessionLoader
	state     State
	key       SessionKey
	session   *model.Session
	selection []string
	colorOf   func(team string) string
	l         *log.Logger
}

func NewManager(loader SessionLoader, colorOf func(team string) string) *Manager {
	return &Manager{
		loader:  loader,
		colorOf: colorOf,
		l:       log.Default().Named("dashboard"),
	}
}

// Load makes the session for key the cached one. A repeated key reuses the
// cached session; a new key invalidates the old session and the driver
// selection before loading. A failed load leaves the manager idle — the
// stale session is never served again.
func (m *Manager) Load(ctx context.Context, key SessionKey) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateLoaded && m.key == key {
		return m.session, nil
	}

	if m.state == StateLoaded {
		m.state = StateStale
		m.selection = nil
		m.l.Info("session invalidated",
			log.String("event", m.key.Event), log.Int("year", m.key.Year))
	}

	session, err := m.loader.LoadSession(ctx, key.Year, key.Event, key.Kind)
	if err != nil {
		m.state = StateIdle
		m.session = nil
		return nil, err
	}

	m.session = session
	m.key = key
	m.state = StateLoaded
	return session, nil
}

// Session returns the cached session, if one is loaded.
func (m *Manager) Session() (*model.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateLoaded {
		return nil, false
	}
	return m.session, true
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Select stores the operator's driver selection. Unknown driver numbers are
// dropped silently; selection requires a loaded session.
func (m *Manager) Select(drivers []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateLoaded {
		return ErrNoSession
	}

	selection := []string{}
	for _, d := range drivers {
		if m.knownDriver(d) {
			selection = append(selection, d)
		}
	}
	m.selection = selection
	return nil
}

func (m *Manager) Selection() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.selection...)
}

func (m *Manager) knownDriver(driverNumber string) bool {
	if _, ok := m.session.ResultFor(driverNumber); ok {
		return true
	}
	for _, lap := range m.session.Laps {
		if lap.DriverNumber == driverNumber {
			return true
		}
	}
	return false
}
