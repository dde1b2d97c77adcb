package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Scene is a temporary working directory holding record files for a test
type Scene struct {
	Dir    string
	oldDir string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a scene and changes into its directory.
// NOTE: not safe for parallel tests; use NewSceneParallel for those.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	scene := newScene(t, setup)
	scene.oldDir = oldDir

	if err := os.Chdir(scene.Dir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldDir)
	})
	return scene
}

// NewSceneParallel creates a scene without touching the process working
// directory or environment.
func NewSceneParallel(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()
	return newScene(t, setup)
}

func newScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	scene := &Scene{Dir: t.TempDir()}
	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}
	return scene
}

// Path returns the absolute path of name inside the scene
func (s *Scene) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// WriteFile writes content to name inside the scene and returns its path
func (s *Scene) WriteFile(name, content string) (string, error) {
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", err
	}
	return path, os.WriteFile(path, []byte(content), 0o600)
}

// Record files written by the scene setups
const (
	ItemsFile   = "items.csv"
	ShelvesFile = "shelves.csv"
)

// TwoItemItems lists A (five picks) and B (one pick), ten units each
const TwoItemItems = `Item Number,Volume (Cubic In.),Par,Total Picks
A,10,1,5
B,10,1,1
`

// TwoItemShelves lists a near shelf S1 and a far shelf S2, ten units each
const TwoItemShelves = `Shelf Number,Distance,Scaled Capacity
S1,1,10
S2,10,10
`

// TwoItemSceneSetup writes the two-item records. Each shelf fits one item,
// so the optimum puts A on S1 and B on S2 at cost 15.
func TwoItemSceneSetup(scene *Scene) error {
	if _, err := scene.WriteFile(ItemsFile, TwoItemItems); err != nil {
		return err
	}
	_, err := scene.WriteFile(ShelvesFile, TwoItemShelves)
	return err
}

// InfeasibleSceneSetup writes records whose total load exceeds total capacity
func InfeasibleSceneSetup(scene *Scene) error {
	if _, err := scene.WriteFile(ItemsFile, TwoItemItems); err != nil {
		return err
	}
	_, err := scene.WriteFile(ShelvesFile, "Shelf Number,Distance,Scaled Capacity\nS1,1,12\n")
	return err
}
