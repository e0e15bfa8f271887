package model_test

import (
	"math"
	"testing"
	"time"

	"github.com/couchcryptid/frost-number-service/internal/model"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newInitialized returns a model taken through Configure and Initialize with
// the given options.
func newInitialized(t *testing.T, opts model.Options) *model.Model {
	t.Helper()
	m := model.New()
	cfg, err := m.Configure(opts)
	require.NoError(t, err)
	require.NoError(t, m.Initialize(cfg))
	return m
}

func getScalar(t *testing.T, m *model.Model, name string) float64 {
	t.Helper()
	v, err := m.GetValue(name)
	require.NoError(t, err)
	require.Len(t, v, 1)
	return v[0]
}

func TestLifecycle_HappyPath(t *testing.T) {
	m := model.New()
	assert.Equal(t, model.Unconfigured, m.State())

	cfg, err := m.Configure(model.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, m.Initialize(cfg))
	assert.Equal(t, model.Initialized, m.State())
	assert.Equal(t, 0.0, m.CurrentTime())
	assert.Equal(t, 1.0, m.TimeStep())

	require.NoError(t, m.SetValue(model.VarAirTempMin, -13))
	require.NoError(t, m.SetValue(model.VarAirTempMax, 19.5))
	require.NoError(t, m.Update())

	assert.Equal(t, 1.0, m.CurrentTime())
	assert.InDelta(t, 0.421, getScalar(t, m, model.VarFrostNumberAir), 1e-3)

	require.NoError(t, m.Finalize())
	assert.Equal(t, model.Finalized, m.State())

	// Outputs stay readable after finalize; inputs are gone.
	assert.InDelta(t, 0.421, getScalar(t, m, model.VarFrostNumberAir), 1e-3)
	err = m.SetValue(model.VarAirTempMin, -20)
	var stateErr *model.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "set_value", stateErr.Op)
	assert.Equal(t, model.Finalized, stateErr.State)
}

func TestLifecycle_Sequencing(t *testing.T) {
	t.Run("update before initialize", func(t *testing.T) {
		m := model.New()
		var stateErr *model.StateError
		require.ErrorAs(t, m.Update(), &stateErr)
		assert.Equal(t, "update", stateErr.Op)
		assert.Equal(t, model.Unconfigured, stateErr.State)
	})

	t.Run("set_value before initialize", func(t *testing.T) {
		m := model.New()
		var stateErr *model.StateError
		require.ErrorAs(t, m.SetValue(model.VarAirTempMin, -5), &stateErr)
	})

	t.Run("get_value before initialize", func(t *testing.T) {
		m := model.New()
		_, err := m.GetValue(model.VarFrostNumberAir)
		var stateErr *model.StateError
		require.ErrorAs(t, err, &stateErr)
	})

	t.Run("var names before initialize", func(t *testing.T) {
		m := model.New()
		_, err := m.InputVarNames()
		var stateErr *model.StateError
		require.ErrorAs(t, err, &stateErr)
		_, err = m.OutputVarNames()
		require.ErrorAs(t, err, &stateErr)
	})

	t.Run("configure after initialize", func(t *testing.T) {
		m := newInitialized(t, model.DefaultOptions())
		_, err := m.Configure(model.DefaultOptions())
		var stateErr *model.StateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, "configure", stateErr.Op)
	})

	t.Run("initialize twice", func(t *testing.T) {
		m := model.New()
		cfg, err := m.Configure(model.DefaultOptions())
		require.NoError(t, err)
		require.NoError(t, m.Initialize(cfg))
		var stateErr *model.StateError
		require.ErrorAs(t, m.Initialize(cfg), &stateErr)
	})

	t.Run("finalize before initialize", func(t *testing.T) {
		m := model.New()
		var stateErr *model.StateError
		require.ErrorAs(t, m.Finalize(), &stateErr)
	})

	t.Run("finalize is idempotent", func(t *testing.T) {
		m := newInitialized(t, model.DefaultOptions())
		require.NoError(t, m.Finalize())
		require.NoError(t, m.Finalize())
	})

	t.Run("update after finalize", func(t *testing.T) {
		m := newInitialized(t, model.DefaultOptions())
		require.NoError(t, m.Finalize())
		var stateErr *model.StateError
		require.ErrorAs(t, m.Update(), &stateErr)
		assert.Equal(t, model.Finalized, stateErr.State)
	})
}

func TestConfigure_RejectsBadOptions(t *testing.T) {
	m := model.New()

	opts := model.DefaultOptions()
	opts.DaysPerYear = -1
	_, err := m.Configure(opts)
	var cfgErr *model.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "days_per_year")

	opts = model.DefaultOptions()
	opts.StefanRatio = -0.5
	_, err = m.Configure(opts)
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "stefan_ratio")
}

func TestInitialize_RejectsZeroHandle(t *testing.T) {
	// A zero Config never came from Configure; its zero days_per_year must
	// be caught at Initialize, not at the first Update.
	m := model.New()
	var cfgErr *model.ConfigurationError
	require.ErrorAs(t, m.Initialize(model.Config{}), &cfgErr)
	assert.Equal(t, model.Unconfigured, m.State())
}

func TestParseOptions(t *testing.T) {
	t.Run("defaults for missing keys", func(t *testing.T) {
		opts, err := model.ParseOptions(map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, model.DefaultOptions(), opts)
	})

	t.Run("full mapping", func(t *testing.T) {
		opts, err := model.ParseOptions(map[string]any{
			"T_air_min":        -25.5,
			"T_air_max":        12,
			"T_surface_offset": 2.5,
			"days_per_year":    366,
			"stefan_ratio":     0.8,
		})
		require.NoError(t, err)
		assert.Equal(t, -25.5, opts.TAirMin)
		assert.Equal(t, 12.0, opts.TAirMax)
		assert.Equal(t, 2.5, opts.TSurfaceOffset)
		assert.Equal(t, 366, opts.DaysPerYear)
		assert.Equal(t, 0.8, opts.StefanRatio)
	})

	t.Run("non-numeric value", func(t *testing.T) {
		_, err := model.ParseOptions(map[string]any{"T_air_min": "cold"})
		var cfgErr *model.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("fractional days_per_year", func(t *testing.T) {
		_, err := model.ParseOptions(map[string]any{"days_per_year": 365.25})
		var cfgErr *model.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := model.ParseOptions(map[string]any{"T_air_mean": 3.0})
		var cfgErr *model.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Error(), "T_air_mean")
	})
}

func TestVarNames(t *testing.T) {
	m := newInitialized(t, model.DefaultOptions())

	in, err := m.InputVarNames()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"atmosphere_bottom_air__time_min_of_temperature",
		"atmosphere_bottom_air__time_max_of_temperature",
	}, in)

	out, err := m.OutputVarNames()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"frostnumber__air",
		"frostnumber__surface",
		"frostnumber__stefan",
	}, out)

	// Still available after finalize.
	require.NoError(t, m.Finalize())
	_, err = m.InputVarNames()
	require.NoError(t, err)
}

func TestGetSetValue(t *testing.T) {
	m := newInitialized(t, model.DefaultOptions())

	t.Run("inputs round-trip", func(t *testing.T) {
		require.NoError(t, m.SetValue(model.VarAirTempMin, -31.2))
		assert.Equal(t, -31.2, getScalar(t, m, model.VarAirTempMin))
	})

	t.Run("outputs default to zero before update", func(t *testing.T) {
		assert.Equal(t, 0.0, getScalar(t, m, model.VarFrostNumberAir))
		assert.Equal(t, 0.0, getScalar(t, m, model.VarFrostNumberSurface))
		assert.Equal(t, 0.0, getScalar(t, m, model.VarFrostNumberStefan))
	})

	t.Run("unknown variable on get", func(t *testing.T) {
		_, err := m.GetValue("atmosphere_bottom_air__temperature")
		var unkErr *model.UnknownVariableError
		require.ErrorAs(t, err, &unkErr)
		assert.Equal(t, "atmosphere_bottom_air__temperature", unkErr.Name)
	})

	t.Run("outputs are not settable", func(t *testing.T) {
		err := m.SetValue(model.VarFrostNumberAir, 0.9)
		var unkErr *model.UnknownVariableError
		require.ErrorAs(t, err, &unkErr)
	})

	t.Run("set does not recompute", func(t *testing.T) {
		require.NoError(t, m.SetValue(model.VarAirTempMin, -40))
		require.NoError(t, m.SetValue(model.VarAirTempMax, -5))
		assert.Equal(t, 0.0, getScalar(t, m, model.VarFrostNumberAir))
	})
}

func TestUpdate_Deterministic(t *testing.T) {
	opts := model.DefaultOptions()
	opts.TAirMin = -13
	opts.TAirMax = 19.5
	m := newInitialized(t, opts)

	require.NoError(t, m.Update())
	first := m.Snapshot()
	require.NoError(t, m.Update())
	second := m.Snapshot()

	// Bit-identical outputs, time still advances.
	assert.Equal(t, first.Numbers, second.Numbers)
	assert.Equal(t, first.Air, second.Air)
	assert.Equal(t, first.Surface, second.Surface)
	assert.Equal(t, 1.0, first.Time)
	assert.Equal(t, 2.0, second.Time)
	assert.Equal(t, int64(2), second.Steps)
}

func TestUpdate_DegenerateYearYieldsNaN(t *testing.T) {
	opts := model.DefaultOptions()
	opts.TAirMin = 0
	opts.TAirMax = 0
	m := newInitialized(t, opts)

	require.NoError(t, m.Update())
	assert.True(t, math.IsNaN(getScalar(t, m, model.VarFrostNumberAir)))
}

func TestUpdate_StampsWallClock(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC))
	model.SetClock(fake)
	t.Cleanup(func() { model.SetClock(nil) })

	m := newInitialized(t, model.DefaultOptions())
	require.NoError(t, m.Update())
	assert.Equal(t, fake.Now().UTC(), m.Snapshot().LastUpdate)
}

func TestUpdateUntil(t *testing.T) {
	t.Run("steps to target", func(t *testing.T) {
		m := newInitialized(t, model.DefaultOptions())
		require.NoError(t, m.UpdateUntil(5))
		assert.Equal(t, 5.0, m.CurrentTime())
		assert.Equal(t, int64(5), m.Snapshot().Steps)
	})

	t.Run("fractional target overshoots to next step", func(t *testing.T) {
		m := newInitialized(t, model.DefaultOptions())
		require.NoError(t, m.UpdateUntil(2.5))
		assert.Equal(t, 3.0, m.CurrentTime())
	})

	t.Run("target equal to current is a no-op", func(t *testing.T) {
		m := newInitialized(t, model.DefaultOptions())
		require.NoError(t, m.UpdateUntil(0))
		assert.Equal(t, 0.0, m.CurrentTime())
	})

	t.Run("target in the past", func(t *testing.T) {
		m := newInitialized(t, model.DefaultOptions())
		require.NoError(t, m.UpdateUntil(3))
		err := m.UpdateUntil(1)
		var timeErr *model.InvalidTimeError
		require.ErrorAs(t, err, &timeErr)
		assert.Equal(t, 1.0, timeErr.Target)
		assert.Equal(t, 3.0, timeErr.Current)
		assert.Equal(t, 3.0, m.CurrentTime())
	})

	t.Run("before initialize", func(t *testing.T) {
		m := model.New()
		var stateErr *model.StateError
		require.ErrorAs(t, m.UpdateUntil(2), &stateErr)
	})
}

// TestTimeSteppingScenario drives six successive forcing pairs through the
// model and checks the resulting frost-number sequence.
func TestTimeSteppingScenario(t *testing.T) {
	pairs := []struct{ tMin, tMax float64 }{
		{-20, 10},
		{-15, 15},
		{-10, 20},
		{-5, 25},
		{10, 30},
		{-15, -5},
	}

	m := newInitialized(t, model.DefaultOptions())

	results := make([]float64, 0, len(pairs))
	for _, p := range pairs {
		require.NoError(t, m.SetValue(model.VarAirTempMin, p.tMin))
		require.NoError(t, m.SetValue(model.VarAirTempMax, p.tMax))
		require.NoError(t, m.Update())
		results = append(results, getScalar(t, m, model.VarFrostNumberAir))
	}

	assert.Equal(t, 6.0, m.CurrentTime())

	// All six values distinct.
	seen := map[float64]bool{}
	for _, r := range results {
		assert.False(t, seen[r], "duplicate frost number %v", r)
		seen[r] = true
	}

	// Both-positive year never freezes; both-negative year never thaws.
	assert.Equal(t, 0.0, results[4])
	assert.Equal(t, 1.0, results[5])
	assert.Less(t, results[4], results[0])
}
