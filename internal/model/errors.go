package model

import "fmt"

// StateError reports an operation invoked outside its legal lifecycle state.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("model: %s is not valid in state %s", e.Op, e.State)
}

// UnknownVariableError reports a get/set with a name outside the fixed
// input and output variable sets.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("model: unknown variable %q", e.Name)
}

// ConfigurationError reports a malformed configuration: a non-numeric value,
// an unknown key, or an out-of-range parameter. Surfaced at Configure or
// Initialize time, never deferred to Update.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "model: configuration: " + e.Reason
}

// InvalidTimeError reports an UpdateUntil target earlier than the current
// model time.
type InvalidTimeError struct {
	Target  float64
	Current float64
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("model: target time %g is before current time %g", e.Target, e.Current)
}
