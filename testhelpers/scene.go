package testhelpers

import (
	"testing"
)

// Scene is a test scene holding a temporary Git repository, cleaned up with
// the test
type Scene struct {
	Dir  string
	Repo *GitRepo
}

// SceneSetup seeds a freshly created scene
type SceneSetup func(*Scene) error

// NewScene creates a temporary repository and runs the optional setup
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir := t.TempDir()

	repo, err := NewGitRepo(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{Dir: tmpDir, Repo: repo}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// BasicSceneSetup creates a scene with a single root commit setting the full
// alphabet of value files to "A"
func BasicSceneSetup(scene *Scene) error {
	for _, name := range []string{"L_1", "L_2", "L_3", "L_4", "L_5"} {
		if err := scene.Repo.SetLine(name, "A"); err != nil {
			return err
		}
	}
	return scene.Repo.CommitAll("initial")
}
