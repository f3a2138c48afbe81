package sdf

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleScene = `# minimal scene
define material red 0 0 0  1 0 0  0 0 0  0 0 1 0
define shape sphere ball 0 0 0 1 red
define light sun 0 5 0 1 1 1 1
define ambient amb 0.1 0.1 0.1 1
define camera main 60 0 0 3 0 0 0
render out.ppm 32 32 1 1 1
`

func writeTempScene(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.sdf")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write temp scene: %v", err)
	}
	return path
}

func TestLoadFileBuildsScene(t *testing.T) {
	path := writeTempScene(t, sampleScene)
	loader := NewLoader(filepath.Dir(path))

	if err := loader.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if _, ok := loader.Scene.Materials["red"]; !ok {
		t.Error("expected material \"red\" to be defined")
	}
	if loader.Scene.Root.ChildCount() != 1 {
		t.Errorf("expected 1 root child, got %d", loader.Scene.Root.ChildCount())
	}
	if loader.Scene.Camera == nil {
		t.Fatal("expected a camera to be defined")
	}
	if len(loader.Scene.Lights) != 1 {
		t.Errorf("expected 1 point light, got %d", len(loader.Scene.Lights))
	}
	if len(loader.RenderJobs) != 1 {
		t.Fatalf("expected 1 render job, got %d", len(loader.RenderJobs))
	}
	if loader.RenderJobs[0].Width != 32 {
		t.Errorf("expected width 32, got %d", loader.RenderJobs[0].Width)
	}
}

func TestLoadFileMissingMaterialFallsBackToDefault(t *testing.T) {
	const scene = `define shape sphere ball 0 0 0 1 nonexistent
`
	path := writeTempScene(t, scene)
	loader := NewLoader(filepath.Dir(path))

	if err := loader.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loader.Scene.Root.ChildCount() != 1 {
		t.Fatalf("expected the sphere to still be added despite the missing material")
	}
}

func TestTransformUnknownChildIsNonFatal(t *testing.T) {
	const scene = `transform nonexistent translate 1 0 0
`
	path := writeTempScene(t, scene)
	loader := NewLoader(filepath.Dir(path))

	if err := loader.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: expected missing transform target to be non-fatal, got %v", err)
	}
}
