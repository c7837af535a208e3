package provider

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"f1pitwall/log"
	"f1pitwall/pkg/model"
)

// Loader is the session-loading contract both pipelines consume:
// LoadSession(year, event, kind) -> Session, plus lazy per-lap telemetry.
// It wires the HTTP client and the on-disk response store together.
type Loader struct {
	client *Client
	store  *Store
	l      *log.Logger
}

// NewLoader creates a loader. store may be nil to disable response caching.
func NewLoader(client *Client, store *Store) *Loader {
	return &Loader{
		client: client,
		store:  store,
		l:      log.Default().Named("provider"),
	}
}

// LoadSession fetches and decodes one session. A failure here aborts the
// caller's whole operation.
func (ld *Loader) LoadSession(ctx context.Context, year int, event string, kind model.SessionKind) (*model.Session, error) {
	key := fmt.Sprintf("session:%d:%s:%s", year, event, kind)
	body, err := ld.fetch(ctx, key, func() ([]byte, error) {
		return ld.client.SessionBytes(ctx, year, event, kind)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "load session %s %d %s", event, year, kind)
	}

	session, err := DecodeSession(body)
	if err != nil {
		return nil, err
	}
	ld.l.Info("session loaded",
		log.String("event", event), log.Int("year", year),
		log.String("kind", string(kind)), log.Int("laps", len(session.Laps)))
	return session, nil
}

// LapTelemetry fetches the telemetry trace for one lap of the given session.
// Returns ErrNoTelemetry when the provider has no trace for the lap.
func (ld *Loader) LapTelemetry(ctx context.Context, session *model.Session, lap model.Lap) (model.TelemetrySeries, error) {
	key := fmt.Sprintf("telemetry:%d:%s:%s:%s:%d",
		session.Event.Year, session.Event.Name, session.Kind, lap.DriverNumber, lap.LapNumber)
	body, err := ld.fetch(ctx, key, func() ([]byte, error) {
		return ld.client.TelemetryBytes(ctx,
			session.Event.Year, session.Event.Name, session.Kind, lap.DriverNumber, lap.LapNumber)
	})
	if err != nil {
		return nil, err
	}
	return DecodeTelemetry(body)
}

// fetch reads through the store: cached bytes win, network fills the cache.
func (ld *Loader) fetch(ctx context.Context, key string, fn func() ([]byte, error)) ([]byte, error) {
	if ld.store != nil {
		body, ok, err := ld.store.Get(key)
		if err != nil {
			ld.l.Warn("cache read failed", log.String("key", key), log.ErrorField(err))
		} else if ok {
			return body, nil
		}
	}

	body, err := fn()
	if err != nil {
		return nil, err
	}

	if ld.store != nil {
		if err := ld.store.Put(key, body); err != nil {
			ld.l.Warn("cache write failed", log.String("key", key), log.ErrorField(err))
		}
	}
	return body, nil
}
