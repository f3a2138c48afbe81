// Package sdf parses the line-oriented scene description format (SDF)
// and the Wavefront OBJ/MTL subset it can reference, producing a
// scene.Scene ready for the renderer.
package sdf

import (
	"bufio"
	"fmt"
	stdmath "math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"render-engine/core"
	"render-engine/diag"
	"render-engine/materials"
	mmath "render-engine/math"
	"render-engine/scene"
	"render-engine/shapes"
)

// RenderRequest captures one `render` directive: synchronous invocation
// parameters for the renderer, deferred to the caller (cmd/raytrace)
// rather than executed by the loader itself.
type RenderRequest struct {
	OutFile      string
	Width        int
	Height       int
	PixelSamples int
	AASamples    int
	RayBounces   int
}

// Loader holds the state threaded through one SDF file: the scene being
// built, the directory to resolve relative OBJ paths against, and an LRU
// cache of already-parsed OBJ composites (an OBJ file referenced by
// several `define shape obj` lines is only parsed once).
type Loader struct {
	Scene       *scene.Scene
	ObjDir      string
	objCache    *lru.Cache
	RenderJobs  []RenderRequest
}

// NewLoader creates a Loader rooted at objDir (the directory `define
// shape obj <name>` resolves basenames against).
func NewLoader(objDir string) *Loader {
	cache, _ := lru.New(32)
	return &Loader{
		Scene:    scene.New(),
		ObjDir:   objDir,
		objCache: cache,
	}
}

// LoadFile reads an SDF file line by line, dispatching each directive.
// Per-line ParseErrors are reported and skipped; loading continues with
// a best-effort partial scene. Only an I/O failure opening the file
// itself is fatal.
func (l *Loader) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open scene file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		if err := l.dispatch(tokens); err != nil {
			diag.Warn(diag.ParseError, "line %d: %v", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read scene file: %w", err)
	}

	l.Scene.Root.BuildOctree()
	return nil
}

func (l *Loader) dispatch(tokens []string) error {
	switch tokens[0] {
	case "define":
		return l.dispatchDefine(tokens[1:])
	case "transform":
		return l.dispatchTransform(tokens[1:])
	case "render":
		return l.dispatchRender(tokens[1:])
	default:
		return fmt.Errorf("unknown directive %q", tokens[0])
	}
}

func (l *Loader) dispatchDefine(tokens []string) error {
	if len(tokens) == 0 {
		return fmt.Errorf("define: missing kind")
	}
	switch tokens[0] {
	case "material":
		return l.defineMaterial(tokens[1:])
	case "shape":
		return l.defineShape(tokens[1:])
	case "light":
		return l.defineLight(tokens[1:])
	case "ambient":
		return l.defineAmbient(tokens[1:])
	case "camera":
		return l.defineCamera(tokens[1:])
	default:
		return fmt.Errorf("define: unknown kind %q", tokens[0])
	}
}

func f32(tokens []string, i int) (float32, error) {
	if i >= len(tokens) {
		return 0, fmt.Errorf("missing numeric argument at position %d", i)
	}
	v, err := strconv.ParseFloat(tokens[i], 32)
	if err != nil {
		return 0, fmt.Errorf("bad numeric argument %q: %w", tokens[i], err)
	}
	return float32(v), nil
}

func vec3At(tokens []string, i int) (mmath.Vec3, error) {
	x, err := f32(tokens, i)
	if err != nil {
		return mmath.Vec3{}, err
	}
	y, err := f32(tokens, i+1)
	if err != nil {
		return mmath.Vec3{}, err
	}
	z, err := f32(tokens, i+2)
	if err != nil {
		return mmath.Vec3{}, err
	}
	return mmath.Vec3{X: x, Y: y, Z: z}, nil
}

// define material <name> <ka.r ka.g ka.b> <kd.r kd.g kd.b> <ks.r ks.g ks.b> <m> <glossy> <opacity> <emittance>
func (l *Loader) defineMaterial(tokens []string) error {
	if len(tokens) < 13 {
		return fmt.Errorf("define material: expected 13 arguments, got %d", len(tokens))
	}
	name := tokens[0]
	ka, err := vec3At(tokens, 1)
	if err != nil {
		return err
	}
	kd, err := vec3At(tokens, 4)
	if err != nil {
		return err
	}
	ks, err := vec3At(tokens, 7)
	if err != nil {
		return err
	}
	m, err := f32(tokens, 10)
	if err != nil {
		return err
	}
	glossy, err := f32(tokens, 11)
	if err != nil {
		return err
	}
	opacity, err := f32(tokens, 12)
	if err != nil {
		return err
	}
	emittance := float32(0)
	if len(tokens) > 13 {
		emittance, err = f32(tokens, 13)
		if err != nil {
			return err
		}
	}
	mat := materials.New(name,
		core.Color{R: ka.X, G: ka.Y, B: ka.Z},
		core.Color{R: kd.X, G: kd.Y, B: kd.Z},
		core.Color{R: ks.X, G: ks.Y, B: ks.Z},
		m, glossy, opacity, emittance, 1.5)
	l.Scene.Materials[name] = mat
	return nil
}

func (l *Loader) resolveMaterial(name string) *materials.Material {
	if mat, ok := l.Scene.Materials[name]; ok {
		return mat
	}
	diag.Warn(diag.MissingReference, "material %q not found, using default", name)
	return materials.Default()
}

func (l *Loader) defineShape(tokens []string) error {
	if len(tokens) == 0 {
		return fmt.Errorf("define shape: missing kind")
	}
	switch tokens[0] {
	case "box":
		return l.defineBox(tokens[1:])
	case "sphere":
		return l.defineSphere(tokens[1:])
	case "triangle":
		return l.defineTriangle(tokens[1:])
	case "obj":
		return l.defineObj(tokens[1:])
	default:
		return fmt.Errorf("define shape: unknown kind %q", tokens[0])
	}
}

// define shape box <name> <min.x min.y min.z> <max.x max.y max.z> <mat>
func (l *Loader) defineBox(tokens []string) error {
	if len(tokens) < 8 {
		return fmt.Errorf("define shape box: expected 8 arguments, got %d", len(tokens))
	}
	name := tokens[0]
	min, err := vec3At(tokens, 1)
	if err != nil {
		return err
	}
	max, err := vec3At(tokens, 4)
	if err != nil {
		return err
	}
	mat := l.resolveMaterial(tokens[7])
	l.Scene.Root.AddChild(shapes.NewBox(name, min, max, mat))
	return nil
}

// define shape sphere <name> <cx cy cz> <radius> <mat>
func (l *Loader) defineSphere(tokens []string) error {
	if len(tokens) < 6 {
		return fmt.Errorf("define shape sphere: expected 6 arguments, got %d", len(tokens))
	}
	name := tokens[0]
	center, err := vec3At(tokens, 1)
	if err != nil {
		return err
	}
	radius, err := f32(tokens, 4)
	if err != nil {
		return err
	}
	mat := l.resolveMaterial(tokens[5])
	l.Scene.Root.AddChild(shapes.NewSphere(name, center, radius, mat))
	return nil
}

// define shape triangle <name> <v0.x v0.y v0.z> <v1...> <v2...> <mat>
func (l *Loader) defineTriangle(tokens []string) error {
	if len(tokens) < 11 {
		return fmt.Errorf("define shape triangle: expected 11 arguments, got %d", len(tokens))
	}
	name := tokens[0]
	v0, err := vec3At(tokens, 1)
	if err != nil {
		return err
	}
	v1, err := vec3At(tokens, 4)
	if err != nil {
		return err
	}
	v2, err := vec3At(tokens, 7)
	if err != nil {
		return err
	}
	mat := l.resolveMaterial(tokens[10])
	l.Scene.Root.AddChild(shapes.NewTriangle(name, v0, v1, v2, mat))
	return nil
}

// define shape obj <objfile-basename>
func (l *Loader) defineObj(tokens []string) error {
	if len(tokens) < 1 {
		return fmt.Errorf("define shape obj: missing basename")
	}
	basename := tokens[0]
	composite, err := l.loadObjCached(basename)
	if err != nil {
		return err
	}
	l.Scene.Root.AddChild(composite)
	return nil
}

func (l *Loader) loadObjCached(basename string) (*shapes.Composite, error) {
	if l.objCache != nil {
		if cached, ok := l.objCache.Get(basename); ok {
			return cached.(*shapes.Composite), nil
		}
	}
	path := filepath.Join(l.ObjDir, basename)
	composite, err := LoadOBJ(path, l.Scene.Materials)
	if err != nil {
		return nil, err
	}
	if l.objCache != nil {
		l.objCache.Add(basename, composite)
	}
	return composite, nil
}

// define light <name> <px py pz> <r g b> <brightness>
func (l *Loader) defineLight(tokens []string) error {
	if len(tokens) < 8 {
		return fmt.Errorf("define light: expected 8 arguments, got %d", len(tokens))
	}
	name := tokens[0]
	pos, err := vec3At(tokens, 1)
	if err != nil {
		return err
	}
	col, err := vec3At(tokens, 4)
	if err != nil {
		return err
	}
	brightness, err := f32(tokens, 7)
	if err != nil {
		return err
	}
	l.Scene.Lights = append(l.Scene.Lights, scene.NewPointLight(name, pos,
		core.Color{R: col.X, G: col.Y, B: col.Z}, brightness))
	return nil
}

// define ambient <name> <r b g> <brightness>
//
// TODO: the original loader reads the three color tokens into r, b, g in
// that order (the second token lands in .b, the third in .g). This is
// almost certainly a bug in the source this format was distilled from,
// but the observed behavior is preserved rather than silently "fixed".
func (l *Loader) defineAmbient(tokens []string) error {
	if len(tokens) < 5 {
		return fmt.Errorf("define ambient: expected 5 arguments, got %d", len(tokens))
	}
	name := tokens[0]
	r, err := f32(tokens, 1)
	if err != nil {
		return err
	}
	b, err := f32(tokens, 2)
	if err != nil {
		return err
	}
	g, err := f32(tokens, 3)
	if err != nil {
		return err
	}
	brightness, err := f32(tokens, 4)
	if err != nil {
		return err
	}
	l.Scene.Ambient = scene.NewLight(name, core.Color{R: r, G: g, B: b}, brightness)
	return nil
}

// define camera <name> <fov_x_deg> <px py pz> <yaw pitch roll>
func (l *Loader) defineCamera(tokens []string) error {
	if len(tokens) < 8 {
		return fmt.Errorf("define camera: expected 8 arguments, got %d", len(tokens))
	}
	fovDeg, err := f32(tokens, 1)
	if err != nil {
		return err
	}
	pos, err := vec3At(tokens, 2)
	if err != nil {
		return err
	}
	euler, err := vec3At(tokens, 5)
	if err != nil {
		return err
	}
	yaw := euler.X * float32(stdmath.Pi) / 180
	pitch := euler.Y * float32(stdmath.Pi) / 180
	roll := euler.Z * float32(stdmath.Pi) / 180

	// YXZ Euler composition: yaw about Y, then pitch about X, then roll
	// about Z, matching the original source's eulerAngleYXZ.
	rot := mmath.Mat4RotationY(yaw).Mul(mmath.Mat4RotationX(pitch)).Mul(mmath.Mat4RotationZ(roll))
	direction := rot.MulVec3(mmath.Vec3{Z: -1})
	up := rot.MulVec3(mmath.Vec3Up)

	l.Scene.Camera = scene.NewCamera(pos, direction, up, fovDeg*float32(stdmath.Pi)/180)
	return nil
}

// transform <name> translate|rotate|scale <args>
func (l *Loader) dispatchTransform(tokens []string) error {
	if len(tokens) < 2 {
		return fmt.Errorf("transform: expected at least 2 arguments, got %d", len(tokens))
	}
	name := tokens[0]
	child, ok := l.Scene.Root.Child(name)
	if !ok {
		diag.Warn(diag.MissingReference, "transform: %q is not a child of root", name)
		return nil
	}

	switch tokens[1] {
	case "translate":
		v, err := vec3At(tokens, 2)
		if err != nil {
			return err
		}
		child.Translate(v)
	case "rotate":
		v, err := vec3At(tokens, 2)
		if err != nil {
			return err
		}
		child.Rotate(v)
	case "scale":
		v, err := vec3At(tokens, 2)
		if err != nil {
			return err
		}
		child.Scale(v)
	default:
		return fmt.Errorf("transform: unknown op %q", tokens[1])
	}
	l.Scene.Root.BuildOctree()
	return nil
}

// render <outfile.ppm> <W> <H> <pixel_samples> <aa_samples> <ray_bounces>
func (l *Loader) dispatchRender(tokens []string) error {
	if len(tokens) < 6 {
		return fmt.Errorf("render: expected 6 arguments, got %d", len(tokens))
	}
	width, err := strconv.Atoi(tokens[1])
	if err != nil {
		return fmt.Errorf("render: bad width: %w", err)
	}
	height, err := strconv.Atoi(tokens[2])
	if err != nil {
		return fmt.Errorf("render: bad height: %w", err)
	}
	samples, err := strconv.Atoi(tokens[3])
	if err != nil {
		return fmt.Errorf("render: bad pixel_samples: %w", err)
	}
	aa, err := strconv.Atoi(tokens[4])
	if err != nil {
		return fmt.Errorf("render: bad aa_samples: %w", err)
	}
	bounces, err := strconv.Atoi(tokens[5])
	if err != nil {
		return fmt.Errorf("render: bad ray_bounces: %w", err)
	}
	l.RenderJobs = append(l.RenderJobs, RenderRequest{
		OutFile:      tokens[0],
		Width:        width,
		Height:       height,
		PixelSamples: samples,
		AASamples:    aa,
		RayBounces:   bounces,
	})
	return nil
}
