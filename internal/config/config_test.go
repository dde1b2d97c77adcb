package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"slotting.dev/slotting/internal/config"
	"slotting.dev/slotting/internal/model"
	"slotting.dev/slotting/internal/relax"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.yaml")
	require.NoError(t, config.Init(path, false))

	m, err := config.Load(path)
	require.NoError(t, err)
	cfg, err := m.Config()
	require.NoError(t, err)

	require.Equal(t, model.DefaultSlotLimit, cfg.Solver.SlotLimit)
	require.InDelta(t, model.DefaultVolume, cfg.Solver.DefaultVolume, 1e-12)
	require.Equal(t, 1, cfg.Solver.Workers)
	require.Zero(t, cfg.Solver.TimeLimit)
	require.True(t, cfg.Solver.WarmStart)
	require.Equal(t, relax.DefaultMaxSize, cfg.Solver.MaxLPSize)
	require.Equal(t, "Item Number", cfg.Input.Items.ID)
	require.Equal(t, "Scaled Capacity", cfg.Input.Shelves.Capacity)
	require.True(t, cfg.Log.Enabled)
	require.Equal(t, "slotting", cfg.Metrics.Namespace)
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "slotting.yaml")
	content := `solver:
  slot_limit: 3
  time_limit: 90s
  workers: 4
input:
  items:
    frequency: Picks
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	m, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, path, m.Path())

	cfg, err := m.Config()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Solver.SlotLimit)
	require.Equal(t, 90*time.Second, cfg.Solver.TimeLimit)
	require.Equal(t, 4, cfg.Solver.Workers)
	require.Equal(t, "Picks", cfg.Input.Items.Frequency)
	require.Equal(t, "Par", cfg.Input.Items.Par)
}

func TestValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "slot limit", content: "solver:\n  slot_limit: 0\n", want: "solver.slot_limit must be at least 1"},
		{name: "default volume", content: "solver:\n  default_volume: -1\n", want: "solver.default_volume must be greater than 0"},
		{name: "format", content: "output:\n  format: pdf\n", want: "output.format must be one of"},
		{name: "column", content: "input:\n  shelves:\n    id: \"\"\n", want: "input.shelves.id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "slotting.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			m, err := config.Load(path)
			require.NoError(t, err)
			_, err = m.Config()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBindFlag(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "slotting.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver:\n  workers: 2\n"), 0o600))
	m, err := config.Load(path)
	require.NoError(t, err)

	fs := pflag.NewFlagSet("solve", pflag.ContinueOnError)
	fs.Int("workers", 1, "")
	require.NoError(t, m.BindFlag("solver.workers", fs.Lookup("workers")))
	require.Error(t, m.BindFlag("solver.nope", fs.Lookup("workers")))
	require.Error(t, m.BindFlag("solver.slot_limit", fs.Lookup("missing")))

	cfg, err := m.Config()
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Solver.Workers, "unset flag keeps the file value")

	require.NoError(t, fs.Parse([]string{"--workers", "8"}))
	cfg, err = m.Config()
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Solver.Workers)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("SLOTTING_SOLVER_SLOT_LIMIT", "7")

	path := filepath.Join(t.TempDir(), "slotting.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver:\n  slot_limit: 3\n"), 0o600))
	m, err := config.Load(path)
	require.NoError(t, err)

	cfg, err := m.Config()
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Solver.SlotLimit)
}

func TestGetSet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, config.Init(path, false))
	m, err := config.Load(path)
	require.NoError(t, err)

	t.Run("set persists", func(t *testing.T) {
		require.NoError(t, m.Set("solver.time_limit", "2m"))
		require.NoError(t, m.Set("solver.warm_start", "false"))
		require.NoError(t, m.Set("solver.default_volume", "12.5"))

		reloaded, err := config.Load(path)
		require.NoError(t, err)
		cfg, err := reloaded.Config()
		require.NoError(t, err)
		require.Equal(t, 2*time.Minute, cfg.Solver.TimeLimit)
		require.False(t, cfg.Solver.WarmStart)
		require.InDelta(t, 12.5, cfg.Solver.DefaultVolume, 1e-12)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(data), "time_limit: 2m")
	})

	t.Run("get", func(t *testing.T) {
		v, err := m.Get("metrics.namespace")
		require.NoError(t, err)
		require.Equal(t, "slotting", v)

		_, err = m.Get("metrics.nope")
		require.Error(t, err)
	})

	t.Run("set rejects bad input", func(t *testing.T) {
		require.Error(t, m.Set("solver.unknown", "1"))
		require.Error(t, m.Set("solver.workers", "many"))
		require.Error(t, m.Set("solver.time_limit", "soon"))

		err := m.Set("solver.slot_limit", "0")
		require.Error(t, err)
		require.Contains(t, err.Error(), "solver.slot_limit")

		reloaded, err := config.Load(path)
		require.NoError(t, err)
		cfg, err := reloaded.Config()
		require.NoError(t, err)
		require.Equal(t, model.DefaultSlotLimit, cfg.Solver.SlotLimit)
	})
}

func TestInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.Init(path, false))
	require.Error(t, config.Init(path, false))
	require.NoError(t, config.Init(path, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, key := range []string{"slot_limit: 50", "time_limit: 0s", "namespace: slotting"} {
		require.Contains(t, string(data), key)
	}
}

func TestKeys(t *testing.T) {
	t.Parallel()

	keys := config.Keys()
	require.Contains(t, keys, "solver.slot_limit")
	require.Contains(t, keys, "input.items.frequency")
	require.IsNonDecreasing(t, keys)
}
