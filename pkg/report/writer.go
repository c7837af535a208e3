package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"f1pitwall/log"
	"f1pitwall/pkg/helper"
	"f1pitwall/pkg/model"
)

const separatorWidth = 50

// TelemetrySource fetches the lazy per-lap telemetry trace. ErrNoTelemetry
// style absence and real failures both skip the lap's stats line; only the
// latter is logged.
type TelemetrySource interface {
	LapTelemetry(ctx context.Context, session *model.Session, lap model.Lap) (model.TelemetrySeries, error)
}

type Option func(*Generator)

func WithClock(clock clockwork.Clock) Option {
	return func(g *Generator) {
		g.clock = clock
	}
}

func WithOutputDir(dir string) Option {
	return func(g *Generator) {
		g.outputDir = dir
	}
}

// WithTelemetry enables the per-lap telemetry stats lines.
func WithTelemetry(enabled bool) Option {
	return func(g *Generator) {
		g.telemetryOn = enabled
	}
}

// Generator rebuilds the text report from a loaded session. The artifact is
// write-once; reruns overwrite the same file.
type Generator struct {
	telemetry   TelemetrySource
	telemetryOn bool
	outputDir   string
	clock       clockwork.Clock
	l           *log.Logger
}

func NewGenerator(telemetry TelemetrySource, opts ...Option) *Generator {
	g := &Generator{
		telemetry: telemetry,
		outputDir: ".",
		clock:     clockwork.NewRealClock(),
		l:         log.Default().Named("report"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FileName is fixed per (event, year, kind) so a rerun replaces the report.
func (g *Generator) FileName(s *model.Session) string {
	return fmt.Sprintf("race_data_%s_%d_%s.txt",
		helper.SanitizeFileName(s.Event.Name), s.Event.Year, s.Kind)
}

// Generate writes the report file and returns its path.
func (g *Generator) Generate(ctx context.Context, s *model.Session, description string) (string, error) {
	var buf bytes.Buffer
	if err := g.Write(ctx, s, description, &buf); err != nil {
		return "", err
	}

	path := filepath.Join(g.outputDir, g.FileName(s))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", errors.Wrap(err, "write report")
	}
	g.l.Info("report written", log.String("path", path))
	return path, nil
}

// Write renders all report sections to w in their fixed order. Sections
// whose source data is absent are omitted.
func (g *Generator) Write(ctx context.Context, s *model.Session, description string, w io.Writer) error {
	if description != "" {
		writeHeader(w, "DESCRIPTION")
		fmt.Fprintf(w, "%s\n\n", description)
	}

	g.writeEventSummary(w, s)
	g.writeSessionOverview(w, s)
	g.writeClassification(w, s)
	g.writeTrackConditions(w, s)
	g.writeDriverAnalysis(ctx, w, s)
	g.writeSessionSummary(w, s)

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", separatorWidth))
	fmt.Fprintf(w, "Generated: %s\n", g.clock.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", separatorWidth))
	return nil
}

func writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", len(title)))
}

func (g *Generator) writeEventSummary(w io.Writer, s *model.Session) {
	writeHeader(w, "EVENT SUMMARY")
	fmt.Fprintf(w, "GP: %s | Year: %d | Session: %s\n", s.Event.Name, s.Event.Year, s.Kind)
	fmt.Fprintf(w, "Date: %s | Country: %s\n\n", s.Event.Date.Format("2006-01-02"), s.Event.Country)
}

func (g *Generator) writeSessionOverview(w io.Writer, s *model.Session) {
	fastest, ok := FastestLap(s.Laps)
	if !ok {
		return
	}
	name := fastest.DriverNumber
	if r, found := s.ResultFor(fastest.DriverNumber); found {
		name = r.FullName
	}

	writeHeader(w, "SESSION OVERVIEW")
	fmt.Fprintf(w, "Fastest Lap: %s by %s (#%s, L%d)\n",
		FormatLapTime(fastest.Time), name, fastest.DriverNumber, fastest.LapNumber)
	fmt.Fprintf(w, "Sectors: S1=%s | S2=%s | S3=%s\n\n",
		FormatLapTime(fastest.S1), FormatLapTime(fastest.S2), FormatLapTime(fastest.S3))
}

func (g *Generator) writeClassification(w io.Writer, s *model.Session) {
	if s.Kind.IsPractice() {
		g.writePracticeClassification(w, s)
		return
	}
	if len(s.Results) == 0 {
		return
	}

	results := make([]model.DriverResult, len(s.Results))
	copy(results, s.Results)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Position < results[j].Position
	})

	writeHeader(w, "CLASSIFICATION")
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	if s.Kind == model.Qualifying {
		t.AppendHeader(table.Row{"POS", "PIL", "DRIVER", "TEAM", "Q1", "Q2", "Q3"})
		for _, r := range results {
			t.AppendRow(table.Row{
				r.Position, helper.GetDriverCodeName(r.FullName), r.FullName, r.Team,
				FormatLapTime(r.Q1), FormatLapTime(r.Q2), FormatLapTime(r.Q3),
			})
		}
	} else {
		t.AppendHeader(table.Row{"POS", "PIL", "DRIVER", "TEAM", "STATUS", "GAP"})
		for _, r := range results {
			gap := r.Gap
			if gap == "" {
				gap = "-"
			}
			t.AppendRow(table.Row{
				r.Position, helper.GetDriverCodeName(r.FullName), r.FullName, r.Team, r.Status, gap,
			})
		}
	}
	t.Render()
	fmt.Fprintf(w, "%s\n", b.String())
}

// writePracticeClassification ranks practice drivers by best lap, the same
// ranking the dashboard shows.
func (g *Generator) writePracticeClassification(w io.Writer, s *model.Session) {
	ranked := Ranking(s)
	if len(ranked) == 0 {
		return
	}

	writeHeader(w, "CLASSIFICATION")
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"POS", "PIL", "DRIVER", "TEAM", "BEST"})
	for _, rd := range ranked {
		name, team := rd.DriverNumber, ""
		if r, found := s.ResultFor(rd.DriverNumber); found {
			name, team = r.FullName, r.Team
		}
		t.AppendRow(table.Row{
			rd.Position, helper.GetDriverCodeName(name), name, team, FormatLapTime(rd.BestTime),
		})
	}
	t.Render()
	fmt.Fprintf(w, "%s\n", b.String())
}

func (g *Generator) writeTrackConditions(w io.Writer, s *model.Session) {
	cond, ok := TrackConditions(s)
	if !ok {
		return
	}

	writeHeader(w, "TRACK CONDITIONS")
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"METRIC", "MIN", "MEAN", "MAX"})
	appendRange := func(name, unit string, r Range) {
		t.AppendRow(table.Row{
			name,
			fmt.Sprintf("%.1f%s", r.Min, unit),
			fmt.Sprintf("%.1f%s", r.Mean, unit),
			fmt.Sprintf("%.1f%s", r.Max, unit),
		})
	}
	appendRange("Air Temp", "°C", cond.AirTemp)
	appendRange("Track Temp", "°C", cond.TrackTemp)
	appendRange("Humidity", "%", cond.Humidity)
	appendRange("Pressure", " mbar", cond.Pressure)
	t.Render()
	fmt.Fprintf(w, "%s", b.String())
	rain := "no"
	if cond.Rainfall {
		rain = "yes"
	}
	fmt.Fprintf(w, "Rainfall: %s\n\n", rain)
}

func (g *Generator) writeDriverAnalysis(ctx context.Context, w io.Writer, s *model.Session) {
	drivers := s.Drivers()
	if len(drivers) == 0 {
		return
	}

	writeHeader(w, "DRIVER LAP ANALYSIS")
	for _, driver := range drivers {
		laps := s.LapsForDriver(driver.DriverNumber)
		if len(laps) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s (#%s, %s)\n", driver.FullName, driver.DriverNumber, driver.Team)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))

		if fastest, ok := FastestLap(laps); ok {
			fmt.Fprintf(w, "Best: %s (L%d) | Avg: %s\n",
				FormatLapTime(fastest.Time), fastest.LapNumber, FormatLapTime(MeanLapTime(laps)))
		}

		fmt.Fprintf(w, "Lap Data: [Lap#] Time | S1 | S2 | S3 | Trap | FL | Tyre | Flags\n")
		for _, lap := range laps {
			if !lap.Timed() {
				continue
			}
			fmt.Fprintf(w, "[%2d] %s | %s | %s | %s | %s | %s | %s | %s\n",
				lap.LapNumber, FormatLapTime(lap.Time),
				FormatLapTime(lap.S1), FormatLapTime(lap.S2), FormatLapTime(lap.S3),
				FormatSpeed(lap.SpeedTrap), FormatSpeed(lap.SpeedFL),
				compoundOrDash(lap.Compound), lapFlags(lap))
			g.writeLapTelemetry(ctx, w, s, lap)
		}
	}
	fmt.Fprintln(w)
}

func compoundOrDash(compound string) string {
	if compound == "" {
		return "-"
	}
	return compound
}

func lapFlags(lap model.Lap) string {
	flags := []string{}
	if lap.PersonalBest {
		flags = append(flags, "PB")
	}
	if !lap.Accurate {
		flags = append(flags, "INACC")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

// writeLapTelemetry appends the stats line for one lap. Absence or failure
// of the trace only skips this line, never the report.
func (g *Generator) writeLapTelemetry(ctx context.Context, w io.Writer, s *model.Session, lap model.Lap) {
	if !g.telemetryOn || g.telemetry == nil {
		return
	}
	trace, err := g.telemetry.LapTelemetry(ctx, s, lap)
	if err != nil {
		if !errors.Is(err, model.ErrNoTelemetry) {
			g.l.Warn("telemetry fetch failed",
				log.String("driver", lap.DriverNumber), log.Int("lap", lap.LapNumber),
				log.ErrorField(err))
		}
		return
	}
	if len(trace) == 0 {
		return
	}

	maxSpeed, meanSpeed := SpeedStats(trace)
	full, partial, none := ThrottleBuckets(trace)
	fmt.Fprintf(w, "     Telemetry: MaxSpd=%.0f | AvgSpd=%.0f | Throttle: %s full / %s partial / %s coast | Brake: %s of lap, %d zones\n",
		maxSpeed, meanSpeed,
		FormatPercent(full), FormatPercent(partial), FormatPercent(none),
		FormatPercent(BrakeUsage(trace)), BrakeZones(trace))
}

func (g *Generator) writeSessionSummary(w io.Writer, s *model.Session) {
	writeHeader(w, "SESSION SUMMARY")
	total := len(s.Laps)
	timed := TimedLapCount(s.Laps)
	fmt.Fprintf(w, "Total laps: %d | Timed laps: %d | Completion: %s\n",
		total, timed, FormatPercent(CompletionRate(total, timed)))
}
