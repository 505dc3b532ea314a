package model

import "github.com/cockroachdb/errors"

// PricingStrategy selects the fare formula applied to a trip.
type PricingStrategy string

const (
	PricingCasual PricingStrategy = "casual"
	PricingMember PricingStrategy = "member"
	PricingPeak   PricingStrategy = "peak"
)

const (
	casualPerMinute = 0.20
	memberPerMinute = 0.10
	peakPerMinute   = 0.15
	peakMultiplier  = 1.5

	peakStartHour = 7
	peakEndHour   = 19
)

// ParsePricingStrategy validates a strategy tag from config or flags.
func ParsePricingStrategy(s string) (PricingStrategy, error) {
	switch PricingStrategy(s) {
	case PricingCasual, PricingMember, PricingPeak:
		return PricingStrategy(s), nil
	}
	return "", errors.Newf("unknown pricing strategy %q", s)
}

// Fare computes the price of a trip under the given strategy. Peak pricing
// applies the multiplier when the trip starts between 07:00 and 18:59.
func Fare(strategy PricingStrategy, trip Trip) float64 {
	switch strategy {
	case PricingMember:
		return trip.DurationMinutes * memberPerMinute
	case PricingPeak:
		hour := trip.StartTime.Hour()
		if hour >= peakStartHour && hour < peakEndHour {
			return trip.DurationMinutes * peakPerMinute * peakMultiplier
		}
		return trip.DurationMinutes * peakPerMinute
	default:
		return trip.DurationMinutes * casualPerMinute
	}
}
