package enrich

import "math"

// QuantizeQuarter rounds a fetched completion time to the nearest 0.25 hours.
// Values exactly halfway between two ticks (.125 offsets) round up, so
// 3.625 becomes 3.75.
func QuantizeQuarter(value float64) float64 {
	if value <= 0 {
		return 0
	}
	return math.Floor(value*4+0.5) / 4
}
