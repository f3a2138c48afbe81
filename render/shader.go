package render

import (
	mmath "math"
	"math/rand"

	"render-engine/core"
	"render-engine/materials"
	"render-engine/math"
	"render-engine/scene"
)

// tracer holds the per-goroutine state needed to walk the shading
// recursion: its own RNG stream (never shared across workers), a
// reference to the shared Renderer (whose auxiliary buffers it writes
// only at the index of the pixel it is tracing) and the read-only Scene.
type tracer struct {
	renderer *Renderer
	scene    *scene.Scene
	rng      *rand.Rand
	bounces  int
}

// primaryTrace finds the closest hit for a primary ray, records the
// auxiliary buffers at (x,y), and invokes the shading kernel at bounce
// depth 0 with `samples` Monte-Carlo samples.
func (tr *tracer) primaryTrace(x, y int, ray core.Ray, samples int) core.Color {
	idx := y*tr.renderer.superW + x
	hit := tr.closestHit(ray)
	if !hit.didHit {
		return core.ColorBlack
	}
	tr.renderer.normal[idx] = hit.normal
	tr.renderer.distance[idx] = hit.t
	tr.renderer.material[idx] = hit.material
	return tr.shade(hit, samples, 0)
}

// trace is the recursive entry point used by bounce rays.
func (tr *tracer) trace(ray core.Ray, samples, bounce int) core.Color {
	hit := tr.closestHit(ray)
	if !hit.didHit {
		return core.ColorBlack
	}
	return tr.shade(hit, samples, bounce)
}

// hitPoint mirrors shapes.HitPoint but is kept local to render so the
// shading kernel can be written against exactly the fields it needs.
type hitPoint struct {
	didHit       bool
	t            float32
	material     *materials.Material
	position     math.Vec3
	rayDirection math.Vec3
	normal       math.Vec3
}

func (tr *tracer) closestHit(ray core.Ray) hitPoint {
	h := tr.scene.Root.Intersect(ray)
	if !h.DidHit {
		return hitPoint{}
	}
	mat := h.Material
	if mat == nil {
		mat = materials.Default()
	}
	return hitPoint{
		didHit:       true,
		t:            h.T,
		material:     mat,
		position:     h.Position,
		rayDirection: h.RayDirection,
		normal:       h.Normal,
	}
}

// shade branches on material class in priority order: dielectric, glossy,
// transparent, purely diffuse.
func (tr *tracer) shade(hit hitPoint, samples, bounce int) core.Color {
	if bounce >= tr.bounces {
		return core.ColorBlack
	}
	m := hit.material
	var bounced core.Color

	switch {
	case m.Glossy > 0 && m.Opacity < 1:
		reflectance := tr.schlickReflectance(hit.rayDirection, hit.normal, m.IOR)
		bounced = bounced.Add(tr.reflection(hit, samples, bounce).Mul(reflectance))
		bounced = bounced.Add(tr.refraction(hit, samples, bounce).Mul((1 - reflectance) * (1 - m.Opacity)))
	case m.Glossy > 0:
		reflectance := tr.schlickReflectance(hit.rayDirection, hit.normal, m.IOR)
		reflectance = m.Glossy + (1-m.Glossy)*reflectance
		if reflectance < 1 {
			bounced = bounced.Add(tr.diffuse(hit, samples, bounce).Mul(1 - reflectance))
		}
		bounced = bounced.Add(tr.reflection(hit, samples, bounce).Mul(reflectance))
	case m.Opacity < 1:
		bounced = bounced.Add(tr.refraction(hit, samples, bounce).Mul(1 - m.Opacity))
	default:
		bounced = bounced.Add(tr.diffuse(hit, samples, bounce))
	}
	return bounced
}

// uniformSphereDirection draws a direction uniformly on the unit sphere:
// yaw ~ U(-pi,pi), sin(pitch) ~ U(-1,1).
func (tr *tracer) uniformSphereDirection() math.Vec3 {
	yaw := tr.rng.Float64()*2*mmath.Pi - mmath.Pi
	sinPitch := tr.rng.Float64()*2 - 1
	pitch := mmath.Asin(sinPitch)
	cosPitch := mmath.Cos(pitch)
	return math.Vec3{
		X: float32(cosPitch * mmath.Cos(yaw)),
		Y: float32(mmath.Sin(pitch)),
		Z: float32(cosPitch * mmath.Sin(yaw)),
	}
}

// diffuse performs cosine-weighted-by-folding hemisphere sampling: draw a
// uniform direction on the sphere, fold it above the normal, weight by
// 2*cos_theta (the 2 compensates for uniform rather than cosine-weighted
// sampling), average over samples, and add the material's own emission.
func (tr *tracer) diffuse(hit hitPoint, samples, bounce int) core.Color {
	var bounced core.Color
	for i := 0; i < samples; i++ {
		dir := tr.uniformSphereDirection()
		cosTheta := hit.normal.Dot(dir)
		if cosTheta < 0 {
			dir = dir.Mul(-1)
			cosTheta = -cosTheta
		}
		incoming := tr.trace(core.NewRay(hit.position, dir), 1, bounce+1)
		bounced = bounced.Add(incoming.Mul(2 * cosTheta))
	}
	if samples > 1 {
		bounced = bounced.Mul(1.0 / float32(samples))
	}
	return hit.material.EmitColor.Add(bounced.MulColor(hit.material.Kd))
}

// reflection mirrors the incoming ray around the surface normal and
// traces a single recursive sample, scaled by ks.
func (tr *tracer) reflection(hit hitPoint, samples, bounce int) core.Color {
	d := hit.rayDirection
	n := hit.normal
	cosIncoming := -n.Dot(d)
	reflectDir := d.Add(n.Mul(cosIncoming * 2))
	reflected := tr.trace(core.NewRay(hit.position, reflectDir), samples, bounce+1)
	return reflected.MulColor(hit.material.Ks)
}

// refraction applies Snell's law; on total internal reflection it defers
// to reflection(). Otherwise it traces the transmitted ray, scaled by kd.
func (tr *tracer) refraction(hit hitPoint, samples, bounce int) core.Color {
	d := hit.rayDirection
	n := hit.normal
	eta := 1 / hit.material.IOR
	cosIncoming := -n.Dot(d)

	if cosIncoming < 0 {
		eta = 1 / eta
		cosIncoming = -cosIncoming
		n = n.Mul(-1)
	}

	cosOutgoingSq := 1 - eta*eta*(1-cosIncoming*cosIncoming)
	if cosOutgoingSq < 0 {
		return tr.reflection(hit, samples, bounce)
	}

	refractDir := d.Mul(eta).Add(n.Mul(eta*cosIncoming - float32(mmath.Sqrt(float64(cosOutgoingSq)))))
	origin := hit.position.Sub(n.Mul(2 * core.EPSILON))
	refracted := tr.trace(core.NewRay(origin, refractDir), samples, bounce+1)
	return refracted.MulColor(hit.material.Kd)
}

// schlickReflectance is Schlick's polynomial approximation to Fresnel
// reflectance, with an explicit total-internal-reflection check when
// hitting from the denser medium.
func (tr *tracer) schlickReflectance(rayDir, normal math.Vec3, ior float32) float32 {
	n1 := float32(1)
	n2 := ior
	cosIncoming := -normal.Dot(rayDir)

	if cosIncoming < 0 {
		n1, n2 = n2, n1
	}
	if n1 > n2 {
		eta := n1 / n2
		sinOutgoingSq := eta * eta * (1 - cosIncoming*cosIncoming)
		if sinOutgoingSq >= 1 {
			return 1
		}
		cosIncoming = float32(mmath.Sqrt(float64(1 - sinOutgoingSq)))
	}

	r0 := (1 - ior) / (1 + ior)
	r0 *= r0
	factor := 1 - cosIncoming
	return r0 + (1-r0)*factor*factor*factor*factor*factor
}
