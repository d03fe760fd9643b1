package service

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	MinDistanceKm   = 1
	MaxDistanceKm   = 200
	MaxRiders       = 4
	MaxTripsPerWeek = 28
	weeksPerYear    = 52
	monthsPerYear   = 12
)

// ErrCalculatorInput 表示节省计算器的输入超出允许范围。
var ErrCalculatorInput = errors.New("calculator input out of range")

// FareRates are the per-trip pricing constants in rupees.
// A pooled ride prices the whole car and splits the fare between riders.
type FareRates struct {
	SoloBaseFare float64
	SoloPerKm    float64
	PoolBaseFare float64
	PoolPerKm    float64
}

// DefaultFareRates is the published city tariff.
var DefaultFareRates = FareRates{
	SoloBaseFare: 40,
	SoloPerKm:    14,
	PoolBaseFare: 40,
	PoolPerKm:    16,
}

// SavingsInput mirrors the three sliders of the savings calculator.
type SavingsInput struct {
	DistanceKm   float64 `form:"distance" json:"distanceKm"`
	Riders       int     `form:"riders" json:"riders"`
	TripsPerWeek int     `form:"trips" json:"tripsPerWeek"`
}

// SavingsEstimate is the calculator result. Money values are rupees.
type SavingsEstimate struct {
	SoloCostPerTrip   float64        `json:"soloCostPerTrip"`
	PooledCostPerTrip float64        `json:"pooledCostPerTrip"`
	SavingsPerTrip    float64        `json:"savingsPerTrip"`
	SavingsPercent    float64        `json:"savingsPercent"`
	TripsPerMonth     float64        `json:"tripsPerMonth"`
	MonthlySavings    int64          `json:"monthlySavings"`
	YearlySavings     int64          `json:"yearlySavings"`
	Display           SavingsDisplay `json:"display"`
}

// SavingsDisplay holds the same numbers formatted for the page.
type SavingsDisplay struct {
	SoloCostPerTrip   string `json:"soloCostPerTrip"`
	PooledCostPerTrip string `json:"pooledCostPerTrip"`
	SavingsPerTrip    string `json:"savingsPerTrip"`
	SavingsPercent    string `json:"savingsPercent"`
	MonthlySavings    string `json:"monthlySavings"`
	YearlySavings     string `json:"yearlySavings"`
}

// Validate checks the slider ranges.
func (in SavingsInput) Validate() error {
	switch {
	case math.IsNaN(in.DistanceKm) || in.DistanceKm < MinDistanceKm || in.DistanceKm > MaxDistanceKm:
		return fmt.Errorf("%w: distance must be between %d and %d km", ErrCalculatorInput, MinDistanceKm, MaxDistanceKm)
	case in.Riders < 1 || in.Riders > MaxRiders:
		return fmt.Errorf("%w: riders must be between 1 and %d", ErrCalculatorInput, MaxRiders)
	case in.TripsPerWeek < 1 || in.TripsPerWeek > MaxTripsPerWeek:
		return fmt.Errorf("%w: trips per week must be between 1 and %d", ErrCalculatorInput, MaxTripsPerWeek)
	}
	return nil
}

// CalculateSavings estimates savings with DefaultFareRates.
func CalculateSavings(in SavingsInput) (SavingsEstimate, error) {
	return DefaultFareRates.Calculate(in)
}

// Calculate compares a solo cab against a pooled ride for the same trip.
// Savings never go negative: a pool with one rider costs at least as much as solo.
func (r FareRates) Calculate(in SavingsInput) (SavingsEstimate, error) {
	if err := in.Validate(); err != nil {
		return SavingsEstimate{}, err
	}

	solo := roundTo(r.SoloBaseFare+in.DistanceKm*r.SoloPerKm, 2)
	pooled := roundTo((r.PoolBaseFare+in.DistanceKm*r.PoolPerKm)/float64(in.Riders), 2)
	perTrip := math.Max(0, roundTo(solo-pooled, 2))

	percent := 0.0
	if solo > 0 {
		percent = roundTo(perTrip/solo*100, 1)
	}

	tripsPerYear := float64(in.TripsPerWeek * weeksPerYear)
	tripsPerMonth := tripsPerYear / monthsPerYear

	est := SavingsEstimate{
		SoloCostPerTrip:   solo,
		PooledCostPerTrip: pooled,
		SavingsPerTrip:    perTrip,
		SavingsPercent:    percent,
		TripsPerMonth:     roundTo(tripsPerMonth, 1),
		MonthlySavings:    int64(math.Round(perTrip * tripsPerMonth)),
		YearlySavings:     int64(math.Round(perTrip * tripsPerYear)),
	}
	est.Display = SavingsDisplay{
		SoloCostPerTrip:   FormatINR(est.SoloCostPerTrip),
		PooledCostPerTrip: FormatINR(est.PooledCostPerTrip),
		SavingsPerTrip:    FormatINR(est.SavingsPerTrip),
		SavingsPercent:    fmt.Sprintf("%.1f%%", est.SavingsPercent),
		MonthlySavings:    FormatINR(float64(est.MonthlySavings)),
		YearlySavings:     FormatINR(float64(est.YearlySavings)),
	}
	return est, nil
}

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR formats rupees with Indian digit grouping; paise are shown only when present.
func FormatINR(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	amount = roundTo(amount, 2)
	if amount == math.Trunc(amount) {
		return sign + "₹" + inrPrinter.Sprintf("%d", int64(amount))
	}
	return sign + "₹" + inrPrinter.Sprintf("%.2f", amount)
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
