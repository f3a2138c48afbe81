package shapes

import (
	"render-engine/core"
	"render-engine/materials"
	"render-engine/math"

	"render-engine/diag"
)

// maxLeafChildren is the child-count threshold under which build_octree
// leaves a composite as a flat leaf rather than subdividing further.
const maxLeafChildren = 64

// Composite is a grouping shape: a named map of child shapes plus its own
// affine transform and an optional bounding Box. After BuildOctree, a
// composite with more than maxLeafChildren children has had its child map
// replaced by up to 8 sub-composites, each covering one octant of its
// bounds, unless the degenerate-split guard left it flat.
type Composite struct {
	name     string
	material *materials.Material

	children map[string]Shape
	order    []string // insertion order, preserved for deterministic octree construction

	bounds    *Box // nil until computed or explicitly set
	hasBounds bool

	worldTransform    math.Mat4
	worldTransformInv math.Mat4
}

func NewComposite(name string) *Composite {
	return &Composite{
		name:              name,
		children:          make(map[string]Shape),
		worldTransform:    math.Mat4Identity(),
		worldTransformInv: math.Mat4Identity(),
	}
}

func (c *Composite) Name() string                  { return c.name }
func (c *Composite) Material() *materials.Material { return c.material }
func (c *Composite) WorldTransform() math.Mat4     { return c.worldTransform }
func (c *Composite) WorldTransformInv() math.Mat4  { return c.worldTransformInv }

// AddChild inserts shape under shape.Name(). A duplicate name is reported
// via diag but not rejected outright — the first shape registered under a
// name wins and the later one is dropped, matching the source's
// add_child/emplace, which is a no-op when the key already exists.
func (c *Composite) AddChild(shape Shape) {
	name := shape.Name()
	if _, exists := c.children[name]; exists {
		diag.Warn(diag.ParseError, "composite %q: duplicate child name %q", c.name, name)
		return
	}
	c.order = append(c.order, name)
	c.children[name] = shape
}

// Child looks up a direct child by name.
func (c *Composite) Child(name string) (Shape, bool) {
	s, ok := c.children[name]
	return s, ok
}

func (c *Composite) ChildCount() int { return len(c.children) }

// SetBounds pins an explicit bounds box rather than deriving it from
// children — used for octree subdivisions, where the octant box is known
// up front.
func (c *Composite) SetBounds(min, max math.Vec3) {
	c.bounds = NewBox(c.name+"#bounds", min, max, nil)
	c.hasBounds = true
}

func (c *Composite) Area() float32 {
	var total float32
	for _, s := range c.children {
		total += s.Area()
	}
	return total
}

func (c *Composite) Volume() float32 {
	var total float32
	for _, s := range c.children {
		total += s.Volume()
	}
	return total
}

func (c *Composite) Min(outer math.Mat4) math.Vec3 {
	lo, _ := c.computeBounds(outer)
	return lo
}

func (c *Composite) Max(outer math.Mat4) math.Vec3 {
	_, hi := c.computeBounds(outer)
	return hi
}

func (c *Composite) computeBounds(outer math.Mat4) (math.Vec3, math.Vec3) {
	innerOuter := c.worldTransform.Mul(outer)
	if c.hasBounds {
		return boundsUnderOuter(c.bounds.min, c.bounds.max, outer, c.worldTransform)
	}
	if len(c.children) == 0 {
		return math.Vec3Zero, math.Vec3Zero
	}
	first := true
	var lo, hi math.Vec3
	for _, s := range c.children {
		cMin := s.Min(innerOuter)
		cMax := s.Max(innerOuter)
		if first {
			lo, hi = cMin, cMax
			first = false
			continue
		}
		lo = minVec3(lo, cMin)
		hi = maxVec3(hi, cMax)
	}
	return lo, hi
}

// BuildOctree recursively subdivides children into up to 8 spatial cells.
// Mutating operations (Scale/Rotate/Translate/Transform) invalidate the
// layout; callers MUST call BuildOctree again after any of them.
func (c *Composite) BuildOctree() {
	if len(c.children) <= maxLeafChildren {
		return
	}

	parentMin, parentMax := c.computeBounds(math.Mat4Identity())
	center := parentMin.Add(parentMax).Mul(0.5)

	type octant struct {
		min, max math.Vec3
	}
	octants := make([]octant, 0, 8)
	for _, ox := range [2]bool{false, true} {
		for _, oy := range [2]bool{false, true} {
			for _, oz := range [2]bool{false, true} {
				min := math.Vec3{X: parentMin.X, Y: parentMin.Y, Z: parentMin.Z}
				max := center
				if ox {
					min.X, max.X = center.X, parentMax.X
				}
				if oy {
					min.Y, max.Y = center.Y, parentMax.Y
				}
				if oz {
					min.Z, max.Z = center.Z, parentMax.Z
				}
				octants = append(octants, octant{min: min, max: max})
			}
		}
	}

	buckets := make([][]string, len(octants))
	for _, name := range c.order {
		s := c.children[name]
		sMin := s.Min(math.Mat4Identity())
		sMax := s.Max(math.Mat4Identity())
		for i, oct := range octants {
			if AABBIntersects(sMin, sMax, oct.min, oct.max) {
				buckets[i] = append(buckets[i], name)
			}
		}
	}

	// Degenerate-split guard: if any single octant would contain every
	// child, subdividing buys nothing and risks infinite recursion on
	// clustered geometry — abandon and stay a flat leaf.
	for _, bucket := range buckets {
		if len(bucket) == len(c.order) {
			return
		}
	}

	newChildren := make(map[string]Shape, 8)
	newOrder := make([]string, 0, 8)
	for i, oct := range octants {
		if len(buckets[i]) == 0 {
			continue
		}
		sub := NewComposite(octantName(c.name, i))
		sub.SetBounds(oct.min, oct.max)
		for _, name := range buckets[i] {
			sub.AddChild(c.children[name])
		}
		sub.BuildOctree()
		newChildren[sub.name] = sub
		newOrder = append(newOrder, sub.name)
	}
	c.children = newChildren
	c.order = newOrder
}

func octantName(parent string, i int) string {
	suffixes := [8]string{"000", "001", "010", "011", "100", "101", "110", "111"}
	return parent + "/oct" + suffixes[i]
}

// Intersect transforms the ray into local space, tests bounds if present,
// then traverses children keeping the minimum-positive-t hit, finally
// transforming the winning hit back to world space.
func (c *Composite) Intersect(ray core.Ray) HitPoint {
	local := transformRay(ray, c.worldTransformInv)

	if c.hasBounds && !c.bounds.IntersectsLocal(local) {
		return HitPoint{}
	}

	var closest HitPoint
	for _, name := range c.order {
		child := c.children[name]
		hit := child.Intersect(local)
		if !hit.DidHit {
			continue
		}
		if !closest.DidHit || hit.T < closest.T {
			closest = hit
		}
	}
	if !closest.DidHit {
		return HitPoint{}
	}

	closest.Position = transformPoint(closest.Position, c.worldTransform)
	closest.Normal = transformDirection(closest.Normal, c.worldTransform).Normalize()
	closest.RayDirection = ray.Direction
	return closest
}

func (c *Composite) Scale(v math.Vec3) {
	c.worldTransform = c.worldTransform.Mul(math.Mat4Scale(v))
	c.recomputeInverse()
	c.BuildOctree()
}

func (c *Composite) Rotate(euler math.Vec3) {
	c.worldTransform = c.worldTransform.Mul(math.Mat4Rotation(euler))
	c.recomputeInverse()
	c.BuildOctree()
}

func (c *Composite) Translate(v math.Vec3) {
	c.worldTransform = c.worldTransform.Mul(math.Mat4Translation(v))
	c.recomputeInverse()
	c.BuildOctree()
}

func (c *Composite) Transform(m math.Mat4) {
	c.worldTransform = c.worldTransform.Mul(m)
	c.recomputeInverse()
	c.BuildOctree()
}

func (c *Composite) recomputeInverse() {
	c.worldTransformInv = c.worldTransform.Inverse()
}
