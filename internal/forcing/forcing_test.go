package forcing_test

import (
	"testing"

	"github.com/couchcryptid/frost-number-service/internal/forcing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		raw := forcing.Raw{Value: []byte(`{"time_min_c":-13,"time_max_c":19.5}`)}
		rec, err := forcing.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, -13.0, rec.TimeMinC)
		assert.Equal(t, 19.5, rec.TimeMaxC)
	})

	t.Run("extra fields ignored", func(t *testing.T) {
		raw := forcing.Raw{Value: []byte(`{"time_min_c":-5,"time_max_c":5,"station":"barrow"}`)}
		_, err := forcing.Parse(raw)
		require.NoError(t, err)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		raw := forcing.Raw{Value: []byte(`{not json`)}
		_, err := forcing.Parse(raw)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse forcing")
	})

	t.Run("missing minimum", func(t *testing.T) {
		raw := forcing.Raw{Value: []byte(`{"time_max_c":19.5}`)}
		_, err := forcing.Parse(raw)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "time_min_c")
	})

	t.Run("missing maximum", func(t *testing.T) {
		raw := forcing.Raw{Value: []byte(`{"time_min_c":-13}`)}
		_, err := forcing.Parse(raw)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "time_max_c")
	})
}
