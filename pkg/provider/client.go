package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"f1pitwall/pkg/model"
)

// Client talks to the upstream timing/telemetry API. It only moves bytes;
// decoding and caching live in the Loader.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SessionBytes fetches the full session document for (year, event, kind).
func (c *Client) SessionBytes(ctx context.Context, year int, event string, kind model.SessionKind) ([]byte, error) {
	params := url.Values{
		"year":  {fmt.Sprint(year)},
		"event": {event},
		"kind":  {string(kind)},
	}
	return c.get(ctx, fmt.Sprintf("%s/v1/session?%s", c.baseURL, params.Encode()))
}

// TelemetryBytes fetches the telemetry trace of one lap. A 404 maps to
// ErrNoTelemetry.
func (c *Client) TelemetryBytes(ctx context.Context, year int, event string, kind model.SessionKind, driver string, lap int) ([]byte, error) {
	params := url.Values{
		"year":   {fmt.Sprint(year)},
		"event":  {event},
		"kind":   {string(kind)},
		"driver": {driver},
		"lap":    {fmt.Sprint(lap)},
	}
	body, err := c.get(ctx, fmt.Sprintf("%s/v1/telemetry?%s", c.baseURL, params.Encode()))
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return nil, model.ErrNoTelemetry
		}
		return nil, err
	}
	return body, nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.code, e.body)
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	// Make a get request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	// Do the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "provider request")
	}

	// Close the response body on function return
	defer resp.Body.Close()

	// Read the response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}

	return body, nil
}

// DecodeSession unmarshals a session document.
func DecodeSession(data []byte) (*model.Session, error) {
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	return &s, nil
}

// DecodeTelemetry unmarshals a lap telemetry trace.
func DecodeTelemetry(data []byte) (model.TelemetrySeries, error) {
	var t model.TelemetrySeries
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(err, "decode telemetry")
	}
	return t, nil
}
