// Package scenario combines a Scene with a runtime Context so action tests
// can run against real record files with a terse API.
package scenario

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"slotting.dev/slotting/internal/config"
	"slotting.dev/slotting/internal/runtime"
	"slotting.dev/slotting/internal/tui"
	"slotting.dev/slotting/testhelpers"
)

// Scenario is a scene plus the runtime context an action needs
type Scenario struct {
	T       *testing.T
	Scene   *testhelpers.Scene
	Context *runtime.Context
	Output  *bytes.Buffer
}

// NewScenario creates a Scenario whose configuration lives in the scene.
// Console output is captured in Output.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	scene := testhelpers.NewSceneParallel(t, setup)
	path := scene.Path("slotting.yaml")
	require.NoError(t, config.Init(path, false))

	mgr, err := config.Load(path)
	require.NoError(t, err)
	cfg, err := mgr.Config()
	require.NoError(t, err)

	var out bytes.Buffer
	splog, err := tui.NewSplogWithConfig(&out, tui.LogOptions{File: scene.Path("slotting.log")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = splog.Close() })

	return &Scenario{
		T:       t,
		Scene:   scene,
		Context: runtime.NewContext(context.Background(), mgr, cfg, splog),
		Output:  &out,
	}
}

// WithFile writes a file into the scene
func (s *Scenario) WithFile(name, content string) *Scenario {
	s.T.Helper()
	_, err := s.Scene.WriteFile(name, content)
	require.NoError(s.T, err)
	return s
}

// WithConfig persists key=value and reloads the configuration
func (s *Scenario) WithConfig(key, value string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Context.Manager.Set(key, value))
	cfg, err := s.Context.Manager.Config()
	require.NoError(s.T, err)
	s.Context.Config = cfg
	return s
}

// Path returns the absolute path of name inside the scene
func (s *Scenario) Path(name string) string {
	return s.Scene.Path(name)
}
