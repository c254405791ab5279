package feedback

import "math"

// RescaleScore maps a raw service score on the 1-10 scale onto the 1-100
// display scale: round((raw-1)*99/9+1). Raw 1 maps to 1 and raw 10 maps
// to 100.
func RescaleScore(raw float64) int {
	return int(math.Round((raw-1)*99/9 + 1))
}
