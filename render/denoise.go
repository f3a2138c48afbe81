package render

import "render-engine/core"

// gaussian3x3 is the fixed 3x3 kernel G = (1/16)*[[1,2,1],[2,4,2],[1,2,1]].
var gaussian3x3 = [3][3]float32{
	{1.0 / 16, 2.0 / 16, 1.0 / 16},
	{2.0 / 16, 4.0 / 16, 2.0 / 16},
	{1.0 / 16, 2.0 / 16, 1.0 / 16},
}

// denoise applies one pass of the edge-preserving Gaussian filter over
// the super-sampled color buffer, using the normal/distance/material
// auxiliary buffers to attenuate neighbours that likely belong to a
// different surface.
func (r *Renderer) denoise() {
	out := make([]core.Color, len(r.color))
	w, h := r.superW, r.superH

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pIdx := y*w + x
			var sum core.Color
			var weightSum float32

			for ky := -1; ky <= 1; ky++ {
				ny := y + ky
				if ny < 0 || ny >= h {
					continue
				}
				for kx := -1; kx <= 1; kx++ {
					nx := x + kx
					if nx < 0 || nx >= w {
						continue
					}
					qIdx := ny*w + nx
					weight := gaussian3x3[ky+1][kx+1]
					if kx != 0 || ky != 0 {
						weight *= r.similarity(pIdx, qIdx)
					}
					sum = sum.Add(r.color[qIdx].Mul(weight))
					weightSum += weight
				}
			}

			if weightSum > 0 {
				out[pIdx] = sum.Mul(1 / weightSum)
			} else {
				out[pIdx] = r.color[pIdx]
			}
		}
	}
	r.color = out
}

// similarity multiplies the three edge-preserving factors: normal
// similarity, distance similarity and material equality. The center
// weight itself is never adjusted by this function — only neighbours.
func (r *Renderer) similarity(pIdx, qIdx int) float32 {
	normalSim := r.normal[pIdx].Dot(r.normal[qIdx])
	if normalSim < 0 {
		normalSim = 0
	}

	distSim := 1 - absF(r.distance[pIdx]-r.distance[qIdx])
	if distSim < 0 {
		distSim = 0
	}

	var materialEq float32
	if r.material[pIdx] == r.material[qIdx] {
		materialEq = 1
	}

	return normalSim * distSim * materialEq
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
