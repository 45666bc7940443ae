// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layer

import (
	"fmt"
	"math"
	"strconv"
)

// Zone thresholds on the 0-100 percentage axes. Values strictly below
// zoneLow fall in the first zone, strictly above zoneHigh in the last.
const (
	zoneLow  = 33.0
	zoneHigh = 66.0
)

// VerticalZone maps a y percentage to "top", "center" or "bottom".
func VerticalZone(y float64) string {
	switch {
	case y < zoneLow:
		return "top"
	case y > zoneHigh:
		return "bottom"
	default:
		return "center"
	}
}

// HorizontalZone maps an x percentage to "left", "center" or "right".
func HorizontalZone(x float64) string {
	switch {
	case x < zoneLow:
		return "left"
	case x > zoneHigh:
		return "right"
	default:
		return "center"
	}
}

// Hint returns the coarse textual placement guidance for l, e.g.
// "Place at top-left area (approx coords: 10% x, 12% y). Scale: 1."
func (l Layer) Hint() string {
	return fmt.Sprintf("Place at %s-%s area (approx coords: %d%% x, %d%% y). Scale: %s.",
		VerticalZone(l.Y), HorizontalZone(l.X),
		int(math.Round(l.X)), int(math.Round(l.Y)),
		strconv.FormatFloat(l.Scale, 'f', -1, 64),
	)
}
