// Package model wraps the frost-number integrator in the steppable
// model-lifecycle contract: configure → initialize → {set inputs → update →
// get outputs}* → finalize, with named-variable exchange in between.
//
// Variable names follow the CSDMS standard-name convention and are part of
// the compatibility contract with coupling frameworks; they must not change.
//
// The lifecycle contract itself is single-caller, but the service shell reads
// model state from the HTTP handler while the runner steps it, so the Model
// guards itself with a mutex. Independent simulations use independent Model
// instances and share nothing.
package model

import (
	"sync"
	"time"

	"github.com/couchcryptid/frost-number-service/internal/frost"
)

// State is the lifecycle state of a Model.
type State int

const (
	Unconfigured State = iota
	Initialized
	Finalized
)

func (s State) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case Initialized:
		return "initialized"
	case Finalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Exchange variable names. The input pair is settable while initialized; the
// frost-number outputs are readable while initialized or finalized.
const (
	VarAirTempMin = "atmosphere_bottom_air__time_min_of_temperature"
	VarAirTempMax = "atmosphere_bottom_air__time_max_of_temperature"

	VarFrostNumberAir     = "frostnumber__air"
	VarFrostNumberSurface = "frostnumber__surface"
	VarFrostNumberStefan  = "frostnumber__stefan"
)

// TimeUnits is the unit of model time. One Update advances one year.
const TimeUnits = "year"

// ClimateInputs holds the current forcing values. Owned exclusively by the
// Model and mutated only through SetValue between Initialize and Finalize.
type ClimateInputs struct {
	TAirMin        float64
	TAirMax        float64
	TSurfaceOffset float64
	DaysPerYear    int
}

// Config is the opaque handle produced by Configure and consumed by
// Initialize.
type Config struct {
	opts Options
}

// Snapshot is a read-only copy of the model's current state, for reporting.
type Snapshot struct {
	State      string                 `json:"state"`
	Time       float64                `json:"time"`
	TimeUnits  string                 `json:"time_units"`
	Steps      int64                  `json:"steps"`
	Inputs     ClimateInputs          `json:"-"`
	Air        frost.DegreeDayIndices `json:"degree_days_air"`
	Surface    frost.DegreeDayIndices `json:"degree_days_surface"`
	Numbers    frost.FrostNumbers     `json:"frost_numbers"`
	LastUpdate time.Time              `json:"last_update,omitzero"`
}

// Model is one frost-number simulation run.
type Model struct {
	mu sync.RWMutex

	state       State
	inputs      ClimateInputs
	stefanRatio float64

	air     frost.DegreeDayIndices
	surface frost.DegreeDayIndices
	numbers frost.FrostNumbers

	currentTime float64
	timeStep    float64
	steps       int64
	lastUpdate  time.Time
}

// New returns an unconfigured Model.
func New() *Model {
	return &Model{state: Unconfigured, timeStep: 1}
}

// Configure validates caller options into a Config handle. Valid only while
// unconfigured; it mutates nothing beyond returning the handle.
func (m *Model) Configure(opts Options) (Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != Unconfigured {
		return Config{}, &StateError{Op: "configure", State: m.state}
	}
	if err := opts.validate(); err != nil {
		return Config{}, err
	}
	return Config{opts: opts}, nil
}

// Initialize loads climate inputs from the handle, resets model time to 0,
// and transitions to the initialized state. A malformed handle (for example a
// zero Config built outside Configure) is a ConfigurationError.
func (m *Model) Initialize(cfg Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Unconfigured {
		return &StateError{Op: "initialize", State: m.state}
	}
	if err := cfg.opts.validate(); err != nil {
		return err
	}

	m.inputs = ClimateInputs{
		TAirMin:        cfg.opts.TAirMin,
		TAirMax:        cfg.opts.TAirMax,
		TSurfaceOffset: cfg.opts.TSurfaceOffset,
		DaysPerYear:    cfg.opts.DaysPerYear,
	}
	m.stefanRatio = cfg.opts.StefanRatio
	m.air = frost.DegreeDayIndices{}
	m.surface = frost.DegreeDayIndices{}
	m.numbers = frost.FrostNumbers{}
	m.currentTime = 0
	m.timeStep = 1
	m.steps = 0
	m.lastUpdate = time.Time{}
	m.state = Initialized
	return nil
}

// InputVarNames returns the settable variable names. Valid while initialized
// or finalized.
func (m *Model) InputVarNames() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state == Unconfigured {
		return nil, &StateError{Op: "get_input_var_names", State: m.state}
	}
	return []string{VarAirTempMin, VarAirTempMax}, nil
}

// OutputVarNames returns the gettable output variable names. Valid while
// initialized or finalized.
func (m *Model) OutputVarNames() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state == Unconfigured {
		return nil, &StateError{Op: "get_output_var_names", State: m.state}
	}
	return []string{VarFrostNumberAir, VarFrostNumberSurface, VarFrostNumberStefan}, nil
}

// SetValue stores a scalar into the named input variable. Outputs are not
// recomputed until the next Update.
func (m *Model) SetValue(name string, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Initialized {
		return &StateError{Op: "set_value", State: m.state}
	}
	switch name {
	case VarAirTempMin:
		m.inputs.TAirMin = value
	case VarAirTempMax:
		m.inputs.TAirMax = value
	default:
		return &UnknownVariableError{Name: name}
	}
	return nil
}

// GetValue returns the named input or output variable as a one-element slice,
// the convention for exchanged values even when scalar. Outputs read before
// the first Update return 0, not an error; the NaN sentinel from a degenerate
// year passes through as-is.
func (m *Model) GetValue(name string) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state == Unconfigured {
		return nil, &StateError{Op: "get_value", State: m.state}
	}

	var v float64
	switch name {
	case VarAirTempMin:
		v = m.inputs.TAirMin
	case VarAirTempMax:
		v = m.inputs.TAirMax
	case VarFrostNumberAir:
		v = m.numbers.Air
	case VarFrostNumberSurface:
		v = m.numbers.Surface
	case VarFrostNumberStefan:
		v = m.numbers.Stefan
	default:
		return nil, &UnknownVariableError{Name: name}
	}
	return []float64{v}, nil
}

// Update recomputes the degree-day indices and frost numbers from the current
// inputs and advances model time by one step. Deterministic: unchanged inputs
// give bit-identical outputs, while time advances on every call.
func (m *Model) Update() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Initialized {
		return &StateError{Op: "update", State: m.state}
	}

	m.air = frost.DegreeDays(m.inputs.TAirMin, m.inputs.TAirMax, m.inputs.DaysPerYear)
	m.surface = frost.DegreeDays(
		m.inputs.TAirMin+m.inputs.TSurfaceOffset,
		m.inputs.TAirMax+m.inputs.TSurfaceOffset,
		m.inputs.DaysPerYear,
	)
	m.numbers = frost.Numbers(m.air, m.surface, m.stefanRatio)

	m.currentTime += m.timeStep
	m.steps++
	m.lastUpdate = clock.Now().UTC()
	return nil
}

// UpdateUntil steps the model until current time reaches or passes target.
// A target earlier than the current time is an InvalidTimeError.
func (m *Model) UpdateUntil(target float64) error {
	m.mu.RLock()
	state := m.state
	current := m.currentTime
	m.mu.RUnlock()

	if state != Initialized {
		return &StateError{Op: "update_until", State: state}
	}
	if target < current {
		return &InvalidTimeError{Target: target, Current: current}
	}

	for m.CurrentTime() < target {
		if err := m.Update(); err != nil {
			return err
		}
	}
	return nil
}

// Finalize transitions to the terminal state and discards the climate inputs.
// Calling it again is a no-op; calling it before Initialize is a StateError.
func (m *Model) Finalize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case Initialized:
		m.inputs = ClimateInputs{}
		m.state = Finalized
		return nil
	case Finalized:
		return nil
	default:
		return &StateError{Op: "finalize", State: m.state}
	}
}

// State returns the current lifecycle state.
func (m *Model) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// CurrentTime returns the model time in TimeUnits, starting at 0.
func (m *Model) CurrentTime() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// TimeStep returns the model time advanced by each Update.
func (m *Model) TimeStep() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timeStep
}

// Snapshot returns a copy of the current state for reporting.
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		State:      m.state.String(),
		Time:       m.currentTime,
		TimeUnits:  TimeUnits,
		Steps:      m.steps,
		Inputs:     m.inputs,
		Air:        m.air,
		Surface:    m.surface,
		Numbers:    m.numbers,
		LastUpdate: m.lastUpdate,
	}
}
