package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoTelemetry marks a lap for which the provider has no telemetry trace.
// Callers treat it as absence, not failure.
var ErrNoTelemetry = errors.New("no telemetry for lap")

// SessionKind is one of the on-track periods of a grand-prix weekend.
type SessionKind string

const (
	Race       SessionKind = "Race"
	Qualifying SessionKind = "Qualifying"
	FP1        SessionKind = "FP1"
	FP2        SessionKind = "FP2"
	FP3        SessionKind = "FP3"
)

// Kinds lists the supported session kinds in weekend order.
func Kinds() []SessionKind {
	return []SessionKind{FP1, FP2, FP3, Qualifying, Race}
}

func ParseSessionKind(s string) (SessionKind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown session kind %q", s)
}

// IsPractice reports whether the session has no official classification,
// so positions must be derived from best lap times.
func (k SessionKind) IsPractice() bool {
	return k == FP1 || k == FP2 || k == FP3
}

type EventInfo struct {
	Name    string    `json:"name"`
	Year    int       `json:"year"`
	Date    time.Time `json:"date"`
	Country string    `json:"country"`
}

// Session is an immutable snapshot of one on-track period. Everything in it
// is materialized by the provider; this program only reads it.
type Session struct {
	Event   EventInfo       `json:"event"`
	Kind    SessionKind     `json:"kind"`
	Results []DriverResult  `json:"results"`
	Laps    []Lap           `json:"laps"`
	Weather []WeatherSample `json:"weather"`
}

// DriverResult is one line of the session classification. All stage times
// are seconds; a value <= 0 means no time was set.
type DriverResult struct {
	DriverNumber string  `json:"driverNumber"`
	FullName     string  `json:"fullName"`
	Team         string  `json:"team"`
	Position     int     `json:"position"`
	Status       string  `json:"status"`
	Gap          string  `json:"gap,omitempty"`
	Q1           float64 `json:"q1,omitempty"`
	Q2           float64 `json:"q2,omitempty"`
	Q3           float64 `json:"q3,omitempty"`
}

// Lap is one circuit traversal by one driver. Times are seconds; a value
// <= 0 means the timing loop did not record one.
type Lap struct {
	DriverNumber string  `json:"driverNumber"`
	LapNumber    int     `json:"lapNumber"`
	Time         float64 `json:"time"`
	S1           float64 `json:"s1"`
	S2           float64 `json:"s2"`
	S3           float64 `json:"s3"`
	SpeedTrap    float64 `json:"speedTrap"`
	SpeedFL      float64 `json:"speedFL"`
	Compound     string  `json:"compound"`
	PersonalBest bool    `json:"personalBest"`
	Accurate     bool    `json:"accurate"`
	StartTime    float64 `json:"startTime"` // seconds into the session
}

// Timed reports whether the lap has a recorded total time.
func (l Lap) Timed() bool {
	return l.Time > 0
}

type WeatherSample struct {
	SessionTime float64 `json:"sessionTime"`
	AirTemp     float64 `json:"airTemp"`
	TrackTemp   float64 `json:"trackTemp"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	Rainfall    bool    `json:"rainfall"`
}

// TelemetryPoint is one high-frequency sample along a lap. Throttle and
// Brake are percentages, DRS is the raw activation code (> 0 means open).
type TelemetryPoint struct {
	Distance float64 `json:"distance"`
	Speed    float64 `json:"speed"`
	Throttle float64 `json:"throttle"`
	Brake    float64 `json:"brake"`
	Gear     int     `json:"gear"`
	RPM      float64 `json:"rpm"`
	DRS      int     `json:"drs"`
}

type TelemetrySeries []TelemetryPoint

// LapsForDriver returns the driver's laps in session-native order.
func (s *Session) LapsForDriver(driverNumber string) []Lap {
	laps := []Lap{}
	for _, lap := range s.Laps {
		if lap.DriverNumber == driverNumber {
			laps = append(laps, lap)
		}
	}
	return laps
}

// Drivers lists the session's drivers in classification order. Practice
// sessions may carry no results at all; then the order of first appearance
// in the lap sequence is used and the driver number stands in for the name.
func (s *Session) Drivers() []DriverResult {
	if len(s.Results) > 0 {
		return s.Results
	}
	seen := map[string]bool{}
	var drivers []DriverResult
	for _, lap := range s.Laps {
		if !seen[lap.DriverNumber] {
			seen[lap.DriverNumber] = true
			drivers = append(drivers, DriverResult{
				DriverNumber: lap.DriverNumber,
				FullName:     lap.DriverNumber,
			})
		}
	}
	return drivers
}

// ResultFor looks up the classification line of a driver.
func (s *Session) ResultFor(driverNumber string) (DriverResult, bool) {
	for _, r := range s.Results {
		if r.DriverNumber == driverNumber {
			return r, true
		}
	}
	return DriverResult{}, false
}

func (e EventInfo) String() string {
	return fmt.Sprintf("%s %d", e.Name, e.Year)
}
