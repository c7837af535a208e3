package dashboard

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"f1pitwall/log"
	"f1pitwall/pkg/model"
	"f1pitwall/pkg/report"
)

// Series is one overlaid chart line, tagged with the driver's team color.
type Series struct {
	Label string    `json:"label"`
	Color string    `json:"color"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Text  []string  `json:"text,omitempty"`
}

// Position is one classification line for the selected drivers.
type Position struct {
	DriverNumber string `json:"driverNumber"`
	Name         string `json:"name"`
	Position     int    `json:"position"`
	Best         string `json:"best,omitempty"`
}

// ChartSet is the full payload of one visualization request.
type ChartSet struct {
	Positions []Position `json:"positions"`
	LapTimes  []Series   `json:"lapTimes"`
	Speed     []Series   `json:"speed"`
}

// BuildCharts computes the chart payload for the given drivers from the
// cached session. Drivers are rendered in request order.
func (m *Manager) BuildCharts(ctx context.Context, drivers []string) (*ChartSet, error) {
	session, ok := m.Session()
	if !ok {
		return nil, ErrNoSession
	}

	set := &ChartSet{
		Positions: m.positions(session, drivers),
		LapTimes:  []Series{},
		Speed:     []Series{},
	}

	for _, driver := range drivers {
		name, color := m.driverTag(session, driver)

		if s, ok := lapTimeSeries(session, driver, name, color); ok {
			set.LapTimes = append(set.LapTimes, s)
		}
		if s, ok := m.speedSeries(ctx, session, driver, name, color); ok {
			set.Speed = append(set.Speed, s)
		}
	}
	return set, nil
}

func (m *Manager) driverTag(session *model.Session, driverNumber string) (name, color string) {
	name = driverNumber
	team := ""
	if r, ok := session.ResultFor(driverNumber); ok {
		name, team = r.FullName, r.Team
	}
	return name, m.colorOf(team)
}

// positions resolves classification for the selection: official positions
// for race and qualifying, a best-lap ranking over all drivers for
// practice. The ranking is recomputed per request so a reloaded session can
// never serve positions from a previous one.
func (m *Manager) positions(session *model.Session, drivers []string) []Position {
	positions := []Position{}

	if session.Kind.IsPractice() {
		byDriver := map[string]report.RankedDriver{}
		for _, rd := range report.Ranking(session) {
			byDriver[rd.DriverNumber] = rd
		}
		for _, driver := range drivers {
			rd, ok := byDriver[driver]
			if !ok {
				continue
			}
			name, _ := m.driverTag(session, driver)
			positions = append(positions, Position{
				DriverNumber: driver,
				Name:         name,
				Position:     rd.Position,
				Best:         report.FormatLapTime(rd.BestTime),
			})
		}
		return positions
	}

	for _, driver := range drivers {
		r, ok := session.ResultFor(driver)
		if !ok {
			continue
		}
		best := ""
		if fastest, found := report.FastestLap(session.LapsForDriver(driver)); found {
			best = report.FormatLapTime(fastest.Time)
		}
		positions = append(positions, Position{
			DriverNumber: driver,
			Name:         r.FullName,
			Position:     r.Position,
			Best:         best,
		})
	}
	return positions
}

func lapTimeSeries(session *model.Session, driverNumber, name, color string) (Series, bool) {
	s := Series{Label: name, Color: color}
	for _, lap := range session.LapsForDriver(driverNumber) {
		if !lap.Timed() {
			continue
		}
		s.X = append(s.X, float64(lap.LapNumber))
		s.Y = append(s.Y, lap.Time)
		s.Text = append(s.Text, report.FormatLapTime(lap.Time))
	}
	return s, len(s.X) > 0
}

// speedSeries charts distance vs speed over the driver's single fastest
// lap. A missing or failed telemetry trace skips the series.
func (m *Manager) speedSeries(ctx context.Context, session *model.Session, driverNumber, name, color string) (Series, bool) {
	fastest, ok := report.FastestLap(session.LapsForDriver(driverNumber))
	if !ok {
		return Series{}, false
	}

	trace, err := m.loader.LapTelemetry(ctx, session, fastest)
	if err != nil {
		if !errors.Is(err, model.ErrNoTelemetry) {
			m.l.Warn("telemetry fetch failed",
				log.String("driver", driverNumber), log.Int("lap", fastest.LapNumber),
				log.ErrorField(err))
		}
		return Series{}, false
	}
	if len(trace) == 0 {
		return Series{}, false
	}

	s := Series{
		Label: fmt.Sprintf("%s (L%d, %s)", name, fastest.LapNumber, report.FormatLapTime(fastest.Time)),
		Color: color,
	}
	for _, p := range trace {
		s.X = append(s.X, p.Distance)
		s.Y = append(s.Y, p.Speed)
	}
	return s, true
}
