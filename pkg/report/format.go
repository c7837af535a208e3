package report

import (
	"fmt"
	"math"
)

// NoTime is the literal rendered for a missing duration.
const NoTime = "No time"

// FormatLapTime renders a duration in seconds as M:SS.mmm, minutes
// unpadded. A missing duration (<= 0) renders as NoTime.
func FormatLapTime(seconds float64) string {
	if seconds <= 0 {
		return NoTime
	}
	millis := int(math.Round(seconds * 1000))
	minutes := millis / 60000
	millis -= minutes * 60000
	return fmt.Sprintf("%d:%02d.%03d", minutes, millis/1000, millis%1000)
}

// FormatSpeed renders a speed in km/h without decimals, "-" when missing.
func FormatSpeed(kmh float64) string {
	if kmh <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f", kmh)
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
