package model

import "fmt"

// Default parameter values applied for keys absent from a configuration
// mapping.
const (
	DefaultTAirMin        = -10.0
	DefaultTAirMax        = 10.0
	DefaultTSurfaceOffset = 0.0
	DefaultDaysPerYear    = 365
	DefaultStefanRatio    = 1.0
)

// Options carries the caller-supplied model parameters consumed by Configure.
type Options struct {
	TAirMin        float64
	TAirMax        float64
	TSurfaceOffset float64
	DaysPerYear    int
	StefanRatio    float64
}

// DefaultOptions returns the documented defaults: a mild symmetric climate
// with no surface correction.
func DefaultOptions() Options {
	return Options{
		TAirMin:        DefaultTAirMin,
		TAirMax:        DefaultTAirMax,
		TSurfaceOffset: DefaultTSurfaceOffset,
		DaysPerYear:    DefaultDaysPerYear,
		StefanRatio:    DefaultStefanRatio,
	}
}

// ParseOptions builds Options from a configuration mapping. Missing keys take
// defaults; unknown keys and non-numeric values are a ConfigurationError.
// Accepted keys: T_air_min, T_air_max, T_surface_offset, days_per_year,
// stefan_ratio.
func ParseOptions(m map[string]any) (Options, error) {
	opts := DefaultOptions()
	for key, raw := range m {
		v, ok := asFloat(raw)
		if !ok {
			return Options{}, &ConfigurationError{Reason: fmt.Sprintf("key %q: value %v is not numeric", key, raw)}
		}
		switch key {
		case "T_air_min":
			opts.TAirMin = v
		case "T_air_max":
			opts.TAirMax = v
		case "T_surface_offset":
			opts.TSurfaceOffset = v
		case "days_per_year":
			if v != float64(int(v)) {
				return Options{}, &ConfigurationError{Reason: fmt.Sprintf("days_per_year: %v is not an integer", raw)}
			}
			opts.DaysPerYear = int(v)
		case "stefan_ratio":
			opts.StefanRatio = v
		default:
			return Options{}, &ConfigurationError{Reason: fmt.Sprintf("unknown key %q", key)}
		}
	}
	return opts, nil
}

// validate rejects parameter values Update could not handle. Called on every
// path into Initialize so a hand-built Config cannot smuggle in a bad year
// length.
func (o Options) validate() error {
	if o.DaysPerYear <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("days_per_year must be positive, got %d", o.DaysPerYear)}
	}
	if o.StefanRatio < 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("stefan_ratio must be non-negative, got %g", o.StefanRatio)}
	}
	return nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
