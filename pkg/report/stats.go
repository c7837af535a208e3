package report

import (
	"math"
	"sort"

	"f1pitwall/pkg/model"
)

// FastestLap returns the lap with the lowest recorded total time. Ties keep
// the first occurrence in the given order.
func FastestLap(laps []model.Lap) (model.Lap, bool) {
	var best model.Lap
	found := false
	for _, lap := range laps {
		if !lap.Timed() {
			continue
		}
		if !found || lap.Time < best.Time {
			best = lap
			found = true
		}
	}
	return best, found
}

// MeanLapTime averages the recorded lap times, 0 when none are timed.
func MeanLapTime(laps []model.Lap) float64 {
	sum, n := 0.0, 0
	for _, lap := range laps {
		if lap.Timed() {
			sum += lap.Time
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// CompletionRate is the share of timed laps as a percentage. A session with
// zero laps yields 0, not a division error.
func CompletionRate(total, timed int) float64 {
	if total == 0 {
		return 0
	}
	return float64(timed) / float64(total) * 100
}

// TimedLapCount counts laps with a recorded total time.
func TimedLapCount(laps []model.Lap) int {
	n := 0
	for _, lap := range laps {
		if lap.Timed() {
			n++
		}
	}
	return n
}

// ThrottleBuckets splits telemetry samples into full (>= 95%), partial
// (5-95%) and none (<= 5%) throttle, each as a percentage of all samples.
func ThrottleBuckets(t model.TelemetrySeries) (full, partial, none float64) {
	if len(t) == 0 {
		return 0, 0, 0
	}
	var nFull, nNone int
	for _, p := range t {
		switch {
		case p.Throttle >= 95:
			nFull++
		case p.Throttle <= 5:
			nNone++
		}
	}
	total := float64(len(t))
	full = float64(nFull) / total * 100
	none = float64(nNone) / total * 100
	partial = float64(len(t)-nFull-nNone) / total * 100
	return full, partial, none
}

// BrakeUsage is the percentage of samples with any brake applied.
func BrakeUsage(t model.TelemetrySeries) float64 {
	if len(t) == 0 {
		return 0
	}
	n := 0
	for _, p := range t {
		if p.Brake > 0 {
			n++
		}
	}
	return float64(n) / float64(len(t)) * 100
}

// BrakeZones counts maximal runs of consecutive samples with brake applied.
func BrakeZones(t model.TelemetrySeries) int {
	zones := 0
	braking := false
	for _, p := range t {
		if p.Brake > 0 {
			if !braking {
				zones++
			}
			braking = true
		} else {
			braking = false
		}
	}
	return zones
}

// SpeedStats returns the maximum and mean speed over a telemetry trace.
func SpeedStats(t model.TelemetrySeries) (maxSpeed, meanSpeed float64) {
	if len(t) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, p := range t {
		if p.Speed > maxSpeed {
			maxSpeed = p.Speed
		}
		sum += p.Speed
	}
	return maxSpeed, sum / float64(len(t))
}

// Range aggregates one weather metric over the joined samples.
type Range struct {
	Min  float64
	Max  float64
	Mean float64
}

// Conditions summarizes the weather during the session's laps.
type Conditions struct {
	AirTemp   Range
	TrackTemp Range
	Humidity  Range
	Pressure  Range
	Rainfall  bool
}

// TrackConditions joins every lap start time to its nearest weather sample
// and aggregates the joined samples. Returns false when the session has no
// laps or no weather data.
func TrackConditions(s *model.Session) (Conditions, bool) {
	if len(s.Laps) == 0 || len(s.Weather) == 0 {
		return Conditions{}, false
	}

	var joined []model.WeatherSample
	for _, lap := range s.Laps {
		joined = append(joined, nearestSample(s.Weather, lap.StartTime))
	}

	cond := Conditions{
		AirTemp:   rangeOf(joined, func(w model.WeatherSample) float64 { return w.AirTemp }),
		TrackTemp: rangeOf(joined, func(w model.WeatherSample) float64 { return w.TrackTemp }),
		Humidity:  rangeOf(joined, func(w model.WeatherSample) float64 { return w.Humidity }),
		Pressure:  rangeOf(joined, func(w model.WeatherSample) float64 { return w.Pressure }),
	}
	for _, w := range joined {
		if w.Rainfall {
			cond.Rainfall = true
			break
		}
	}
	return cond, true
}

func nearestSample(weather []model.WeatherSample, t float64) model.WeatherSample {
	best := weather[0]
	bestDist := math.Abs(weather[0].SessionTime - t)
	for _, w := range weather[1:] {
		if d := math.Abs(w.SessionTime - t); d < bestDist {
			best = w
			bestDist = d
		}
	}
	return best
}

func rangeOf(samples []model.WeatherSample, metric func(model.WeatherSample) float64) Range {
	r := Range{Min: metric(samples[0]), Max: metric(samples[0])}
	sum := 0.0
	for _, w := range samples {
		v := metric(w)
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
		sum += v
	}
	r.Mean = sum / float64(len(samples))
	return r
}

// RankedDriver is one line of a best-lap ranking.
type RankedDriver struct {
	DriverNumber string
	Position     int
	BestTime     float64
	BestLap      int
}

// Ranking orders all drivers of a session by their best recorded lap time.
// Ties resolve to the driver whose best lap occurred earlier in
// session-native order. Drivers without a timed lap are excluded.
func Ranking(s *model.Session) []RankedDriver {
	type best struct {
		time  float64
		lap   int
		index int // position of the best lap in s.Laps
	}
	bests := map[string]best{}
	order := []string{}
	for i, lap := range s.Laps {
		if !lap.Timed() {
			continue
		}
		b, ok := bests[lap.DriverNumber]
		if !ok {
			order = append(order, lap.DriverNumber)
		}
		if !ok || lap.Time < b.time {
			bests[lap.DriverNumber] = best{time: lap.Time, lap: lap.LapNumber, index: i}
		}
	}

	ranked := make([]RankedDriver, 0, len(order))
	for _, d := range order {
		b := bests[d]
		ranked = append(ranked, RankedDriver{DriverNumber: d, BestTime: b.time, BestLap: b.lap})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].BestTime != ranked[j].BestTime {
			return ranked[i].BestTime < ranked[j].BestTime
		}
		return bests[ranked[i].DriverNumber].index < bests[ranked[j].DriverNumber].index
	})
	for i := range ranked {
		ranked[i].Position = i + 1
	}
	return ranked
}
