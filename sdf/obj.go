package sdf

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"render-engine/core"
	"render-engine/diag"
	"render-engine/materials"
	mmath "render-engine/math"
	"render-engine/shapes"
)

// LoadOBJ parses the Wavefront OBJ subset (v, vn, f, o, mtllib, usemtl)
// and returns a Composite whose children are one sub-Composite per `o`
// block, each built from triangles and with its own octree already
// built. usemtl names resolve first against the materials of this OBJ's
// own mtllib files, then against sceneMaterials, so an OBJ may use the
// scene's SDF `define material` definitions. sceneMaterials is not
// modified: MTL materials stay local to this OBJ.
func LoadOBJ(path string, sceneMaterials map[string]*materials.Material) (*shapes.Composite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	root := shapes.NewComposite(filepath.Base(path))

	var positions []mmath.Vec3
	var normals []mmath.Vec3

	current := shapes.NewComposite("default")
	currentMaterial := ""
	triIndex := 0
	objMaterials := make(map[string]*materials.Material)

	flush := func() {
		if current.ChildCount() > 0 {
			current.BuildOctree()
			root.AddChild(current)
		}
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "v":
			v, err := parseVec3(parts[1:])
			if err != nil {
				diag.Warn(diag.ParseError, "%s:%d: %v", path, lineNo, err)
				continue
			}
			positions = append(positions, v)

		case "vn":
			n, err := parseVec3(parts[1:])
			if err != nil {
				diag.Warn(diag.ParseError, "%s:%d: %v", path, lineNo, err)
				continue
			}
			normals = append(normals, n)

		case "vt":
			// UV coordinates are parsed-and-discarded: texture mapping is
			// out of scope for this renderer.

		case "f":
			faceIdx, err := parseFaceIndices(parts[1:])
			if err != nil {
				diag.Warn(diag.ParseError, "%s:%d: %v", path, lineNo, err)
				continue
			}
			mat := resolveObjMaterial(objMaterials, sceneMaterials, currentMaterial)
			// The face's own normal, if any, is taken from its first
			// face-vertex's vn index, matching load_obj_face's
			// Triangle(v0,v1,v2,normals[indices_vn[0]-1],...) choice.
			var faceNormal mmath.Vec3
			hasFaceNormal := false
			if faceIdx[0].normal != 0 {
				if n, err := vertexAt(normals, faceIdx[0].normal); err == nil {
					faceNormal = n
					hasFaceNormal = true
				}
			}
			// Fan triangulation for n-gon faces.
			for i := 2; i < len(faceIdx); i++ {
				v0, err := vertexAt(positions, faceIdx[0].position)
				if err != nil {
					diag.Warn(diag.ParseError, "%s:%d: %v", path, lineNo, err)
					continue
				}
				v1, err := vertexAt(positions, faceIdx[i-1].position)
				if err != nil {
					diag.Warn(diag.ParseError, "%s:%d: %v", path, lineNo, err)
					continue
				}
				v2, err := vertexAt(positions, faceIdx[i].position)
				if err != nil {
					diag.Warn(diag.ParseError, "%s:%d: %v", path, lineNo, err)
					continue
				}
				triIndex++
				name := fmt.Sprintf("%s#tri%d", current.Name(), triIndex)
				if hasFaceNormal {
					current.AddChild(shapes.NewTriangleWithNormal(name, v0, v1, v2, faceNormal, mat))
				} else {
					current.AddChild(shapes.NewTriangle(name, v0, v1, v2, mat))
				}
			}

		case "o":
			flush()
			name := "unnamed"
			if len(parts) > 1 {
				name = parts[1]
			}
			current = shapes.NewComposite(name)

		case "usemtl":
			if len(parts) > 1 {
				currentMaterial = parts[1]
			}

		case "mtllib":
			if len(parts) > 1 {
				mtlPath := filepath.Join(filepath.Dir(path), parts[1])
				loaded, err := LoadMTL(mtlPath)
				if err != nil {
					diag.Warn(diag.ParseError, "%s:%d: failed to load MTL file %s: %v", path, lineNo, mtlPath, err)
				} else {
					for k, v := range loaded {
						objMaterials[k] = v
					}
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ file: %w", err)
	}
	flush()

	root.BuildOctree()
	return root, nil
}

func resolveObjMaterial(objMaterials, sceneMaterials map[string]*materials.Material, name string) *materials.Material {
	if name == "" {
		return materials.Default()
	}
	if mat, ok := objMaterials[name]; ok {
		return mat
	}
	if mat, ok := sceneMaterials[name]; ok {
		return mat
	}
	diag.Warn(diag.MissingReference, "obj material %q not found, using default", name)
	return materials.Default()
}

func parseVec3(fields []string) (mmath.Vec3, error) {
	if len(fields) < 3 {
		return mmath.Vec3{}, fmt.Errorf("expected 3 numbers, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		return mmath.Vec3{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 32)
	if err != nil {
		return mmath.Vec3{}, err
	}
	z, err := strconv.ParseFloat(fields[2], 32)
	if err != nil {
		return mmath.Vec3{}, err
	}
	return mmath.Vec3{X: float32(x), Y: float32(y), Z: float32(z)}, nil
}

// faceVertex is one "v", "v/vt", "v//vn" or "v/vt/vn" face-vertex spec.
// normal is 0 when the spec carries no vn index.
type faceVertex struct {
	position int
	normal   int
}

// parseFaceIndices parses the position and (optional) normal index out of
// each face-vertex spec. The vt index, if present, is not retained.
func parseFaceIndices(fields []string) ([]faceVertex, error) {
	indices := make([]faceVertex, 0, len(fields))
	for _, spec := range fields {
		parts := strings.Split(spec, "/")
		if parts[0] == "" {
			return nil, fmt.Errorf("face vertex %q missing position index", spec)
		}
		pos, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("bad face vertex %q: %w", spec, err)
		}
		fv := faceVertex{position: pos}
		if len(parts) == 3 && parts[2] != "" {
			n, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, fmt.Errorf("bad face vertex %q: %w", spec, err)
			}
			fv.normal = n
		}
		indices = append(indices, fv)
	}
	return indices, nil
}

func vertexAt(positions []mmath.Vec3, idx int) (mmath.Vec3, error) {
	if idx < 0 {
		idx = len(positions) + idx + 1
	}
	if idx < 1 || idx > len(positions) {
		return mmath.Vec3{}, fmt.Errorf("face index %d out of range (%d positions)", idx, len(positions))
	}
	return positions[idx-1], nil
}

// LoadMTL parses the Ka/Kd/Ks/Ns/illum subset of a Wavefront MTL file.
func LoadMTL(path string) (map[string]*materials.Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result := make(map[string]*materials.Material)

	type pending struct {
		name              string
		ka, kd, ks        core.Color
		m, opacity, ior   float32
		glossy, emittance float32
	}
	var cur *pending
	flush := func() {
		if cur == nil {
			return
		}
		result[cur.name] = materials.New(cur.name, cur.ka, cur.kd, cur.ks, cur.m, cur.glossy, cur.opacity, cur.emittance, cur.ior)
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "newmtl":
			flush()
			name := "unnamed"
			if len(parts) > 1 {
				name = parts[1]
			}
			cur = &pending{name: name, opacity: 1, ior: 1}
		case "Ka":
			if cur != nil {
				if c, err := parseVec3(parts[1:]); err == nil {
					cur.ka = core.Color{R: c.X, G: c.Y, B: c.Z}
				}
			}
		case "Kd":
			if cur != nil {
				if c, err := parseVec3(parts[1:]); err == nil {
					cur.kd = core.Color{R: c.X, G: c.Y, B: c.Z}
				}
			}
		case "Ks":
			if cur != nil {
				if c, err := parseVec3(parts[1:]); err == nil {
					cur.ks = core.Color{R: c.X, G: c.Y, B: c.Z}
				}
			}
		case "Ns":
			if cur != nil && len(parts) > 1 {
				if v, err := strconv.ParseFloat(parts[1], 32); err == nil {
					cur.m = float32(v)
				}
			}
		case "illum":
			if cur != nil && len(parts) > 1 {
				if v, err := strconv.Atoi(parts[1]); err == nil && v == 2 {
					cur.glossy = 0.5
				}
			}
		}
	}
	flush()

	return result, scanner.Err()
}
