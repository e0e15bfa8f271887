package frost

import "math"

// DegreeDayIndices holds the cumulative degree-day sums for one model year.
// Both fields are non-negative; closed-form results that land a hair below
// zero from floating-point roundoff are floored at 0.
type DegreeDayIndices struct {
	// Freezing is DFF: cumulative (°C below 0) × days.
	Freezing float64 `json:"freezing"`
	// Thawing is DTT: cumulative (°C above 0) × days.
	Thawing float64 `json:"thawing"`
}

// FrostNumbers holds the three frost-number variants, each in [0,1] or NaN
// when the underlying degree-day sums are both zero. The NaN sentinel maps to
// null on the JSON wire; see json.go.
type FrostNumbers struct {
	Air     float64
	Surface float64
	Stefan  float64
}

// DegreeDays integrates the cosine approximation of the annual temperature
// cycle analytically and returns the cumulative freezing and thawing
// degree-day sums. tMin and tMax are the coldest- and warmest-month mean air
// temperatures in °C; daysPerYear must be positive (validated upstream at
// configuration time).
func DegreeDays(tMin, tMax float64, daysPerYear int) DegreeDayIndices {
	period := float64(daysPerYear)
	mean := (tMax + tMin) / 2
	amplitude := (tMax - tMin) / 2

	// One-sided years: the cosine term integrates to zero over a full
	// period, leaving mean·P. Handling them up front keeps arccos in its
	// domain and covers the zero-amplitude case without dividing by A.
	if mean >= math.Abs(amplitude) {
		return DegreeDayIndices{Freezing: 0, Thawing: mean * period}
	}
	if mean <= -math.Abs(amplitude) {
		return DegreeDayIndices{Freezing: -mean * period, Thawing: 0}
	}

	beta := math.Acos(-mean / amplitude)
	tSummer := mean + amplitude*math.Sin(beta)/beta
	tWinter := mean - amplitude*math.Sin(beta)/(math.Pi-beta)
	lSummer := period * beta / math.Pi
	lWinter := period - lSummer

	return DegreeDayIndices{
		Freezing: clampNonNegative(-tWinter * lWinter),
		Thawing:  clampNonNegative(tSummer * lSummer),
	}
}

// Numbers derives the three frost-number variants from air and surface
// degree-day indices. stefanRatio scales the freezing index of the Stefan
// variant; pass 1 when no thermal-property data is available, which makes
// the Stefan number equal to the air number.
func Numbers(air, surface DegreeDayIndices, stefanRatio float64) FrostNumbers {
	return FrostNumbers{
		Air:     Ratio(air.Freezing, air.Thawing),
		Surface: Ratio(surface.Freezing, surface.Thawing),
		Stefan:  Ratio(stefanRatio*air.Freezing, air.Thawing),
	}
}

// Ratio forms the Nelson–Outcalt square-root frost number √DFF/(√DFF+√DTT).
// Returns NaN when both sums are zero (the degenerate T_min = T_max = 0 year).
func Ratio(freezing, thawing float64) float64 {
	f := math.Sqrt(freezing)
	t := math.Sqrt(thawing)
	if f+t == 0 {
		return math.NaN()
	}
	return f / (f + t)
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
