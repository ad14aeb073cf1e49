package utils

import "math"

// RoundMoney rounds a derived monetary figure to 2 decimal places for presentation
func RoundMoney(value float64) float64 {
	return math.Round(value*100) / 100
}
