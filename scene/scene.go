package scene

import (
	"render-engine/core"
	"render-engine/materials"
	"render-engine/shapes"
)

// Scene is the root composite plus the named material table, the point
// lights, the ambient light and the camera. A loader constructs all
// materials before any shape that references them, adds shapes to Root,
// then calls Root.BuildOctree(). A Scene is otherwise immutable for the
// duration of a render call.
type Scene struct {
	Root      *shapes.Composite
	Materials map[string]*materials.Material
	Lights    []PointLight
	Ambient   Light
	Camera    *Camera
}

func New() *Scene {
	return &Scene{
		Root:      shapes.NewComposite("root"),
		Materials: make(map[string]*materials.Material),
		Ambient:   NewLight("ambient", core.ColorWhite, 0),
	}
}

// Material looks up a named material. For an unknown name it returns nil
// and false; it does not fall back to a default material.
func (s *Scene) Material(name string) (*materials.Material, bool) {
	m, ok := s.Materials[name]
	return m, ok
}
