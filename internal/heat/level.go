// Package heat holds the heat-alert severity scale and the temperature
// thresholds that map a forecast maximum onto it.
package heat

import (
	"fmt"
	"strings"
)

// Level is an ordered heat-alert severity. Green means no alert.
type Level string

const (
	Green  Level = "green"
	Yellow Level = "yellow"
	Orange Level = "orange"
	Red    Level = "red"
)

// Thresholds in °C, inclusive on the lower bound of each tier.
const (
	YellowThreshold = 35.0
	OrangeThreshold = 40.0
	RedThreshold    = 45.0
)

// Levels lists every level from least to most severe.
var Levels = []Level{Green, Yellow, Orange, Red}

// Classify maps a maximum temperature onto a Level.
func Classify(tempMax float64) Level {
	switch {
	case tempMax >= RedThreshold:
		return Red
	case tempMax >= OrangeThreshold:
		return Orange
	case tempMax >= YellowThreshold:
		return Yellow
	default:
		return Green
	}
}

// ParseLevel parses a level name, ignoring case and surrounding spaces.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown alert level %q", s)
	}
	return l, nil
}

// Valid reports whether l is one of the four known levels.
func (l Level) Valid() bool {
	switch l {
	case Green, Yellow, Orange, Red:
		return true
	}
	return false
}

// Rank orders levels by severity: green 0 through red 3, unknown -1.
func (l Level) Rank() int {
	switch l {
	case Green:
		return 0
	case Yellow:
		return 1
	case Orange:
		return 2
	case Red:
		return 3
	}
	return -1
}

// IsAlert reports whether the level warrants an Alert row.
func (l Level) IsAlert() bool {
	return l.Rank() > 0
}

// Color returns the display color used by clients.
func (l Level) Color() string {
	switch l {
	case Yellow:
		return "#FFC107"
	case Orange:
		return "#FF9800"
	case Red:
		return "#F44336"
	default:
		return "#4CAF50"
	}
}

// Label returns the French display name.
func (l Level) Label() string {
	switch l {
	case Yellow:
		return "Vigilance Jaune"
	case Orange:
		return "Vigilance Orange"
	case Red:
		return "Vigilance Rouge"
	default:
		return "Normal"
	}
}

func (l Level) String() string { return string(l) }
