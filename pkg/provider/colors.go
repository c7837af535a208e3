package provider

import (
	"fmt"
	"strconv"
	"strings"

	"f1pitwall/pkg/helper"
)

// teamColors is the provider's color table for the 2019-2024 grids.
var teamColors = map[string]string{
	"red bull racing": "#3671c6",
	"ferrari":         "#e8002d",
	"mercedes":        "#27f4d2",
	"mclaren":         "#ff8000",
	"aston martin":    "#229971",
	"alpine":          "#ff87bc",
	"williams":        "#64c4ff",
	"rb":              "#6692ff",
	"alphatauri":      "#5e8faa",
	"toro rosso":      "#469bff",
	"kick sauber":     "#52e252",
	"alfa romeo":      "#c92d4b",
	"haas f1 team":    "#b6babd",
	"racing point":    "#f596c8",
	"renault":         "#fff500",
}

// TeamColor maps a team name to its display color. Unknown teams get a
// stable hash-derived color so every series still renders distinctly.
func TeamColor(team string) string {
	if c, ok := teamColors[strings.ToLower(strings.TrimSpace(team))]; ok {
		return c
	}
	// helper.ToID is a decimal fnv32 sum, so ParseUint cannot fail here.
	id, _ := strconv.ParseUint(helper.ToID(strings.ToLower(team)), 10, 64)
	return fmt.Sprintf("#%06x", id&0xffffff)
}
