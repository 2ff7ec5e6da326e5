package tui

import (
	"fmt"
	"math"
)

const (
	au   = 1.495978707e11
	day  = 86400.0
	year = 365.25 * day
)

// FormatDistance picks m, km or au.
func FormatDistance(d float64) string {
	switch a := math.Abs(d); {
	case a >= 0.01*au:
		return fmt.Sprintf("%.3f au", d/au)
	case a >= 1e3:
		return fmt.Sprintf("%.1f km", d/1e3)
	default:
		return fmt.Sprintf("%.1f m", d)
	}
}

// FormatDuration renders simulation seconds as seconds, days or years.
func FormatDuration(s float64) string {
	switch a := math.Abs(s); {
	case a >= year:
		return fmt.Sprintf("%.2fy", s/year)
	case a >= day:
		return fmt.Sprintf("%.1fd", s/day)
	default:
		return fmt.Sprintf("%.0fs", s)
	}
}

func formatSpeed(v float64) string {
	if math.Abs(v) >= 1e3 {
		return fmt.Sprintf("%.2f km/s", v/1e3)
	}
	return fmt.Sprintf("%.1f m/s", v)
}
