// Package render implements the pixel scheduler, the recursive
// path-tracing shader, the auxiliary-buffer denoiser and the tone mapper.
package render

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	mmath "math"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"render-engine/core"
	"render-engine/materials"
	"render-engine/math"
	"render-engine/scene"
)

// Options configures one render call: output resolution, AA
// super-sampling factor, Monte-Carlo samples per primary hit, and the
// max recursion depth.
type Options struct {
	Width       int
	Height      int
	PixelSamples int
	AASamples   int
	RayBounces  int
	Workers     int // 0 = hardware concurrency
	Denoise     bool
	ProgressOut bool // write a progress line to stdout if it is a terminal
}

// Renderer owns the super-sampled auxiliary buffers and the atomic pixel
// cursor for a single Render call. It is not reused across scenes.
type Renderer struct {
	opts Options

	superW, superH int

	color    []core.Color
	normal   []math.Vec3
	distance []float32
	material []*materials.Material

	pixelIndex int64
}

func New(opts Options) *Renderer {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	superW := opts.Width * opts.AASamples
	superH := opts.Height * opts.AASamples
	n := superW * superH
	return &Renderer{
		opts:     opts,
		superW:   superW,
		superH:   superH,
		color:    make([]core.Color, n),
		normal:   make([]math.Vec3, n),
		distance: make([]float32, n),
		material: make([]*materials.Material, n),
	}
}

// Render traces every super-sampled pixel against s, optionally denoises,
// downsamples by the AA factor, and returns the final W*H color buffer in
// row-major order with row 0 at the bottom of the image (y grows upward
// along the camera's up vector). The image writers flip the rows to
// screen order.
func (r *Renderer) Render(ctx context.Context, s *scene.Scene) ([]core.Color, error) {
	cam := s.Camera
	u := cam.Direction.Cross(cam.Up)
	v := u.Cross(cam.Direction)
	camMat := math.Mat4{
		{u.X, u.Y, u.Z, 0},
		{v.X, v.Y, v.Z, 0},
		{-cam.Direction.X, -cam.Direction.Y, -cam.Direction.Z, 0},
		{cam.Position.X, cam.Position.Y, cam.Position.Z, 1},
	}

	imgPlaneDist := (float32(r.superW) / 2) / float32(mmath.Tan(float64(cam.FovX)/2))

	atomic.StoreInt64(&r.pixelIndex, 0)
	total := int64(r.superW * r.superH)
	samplesPerHit := r.opts.PixelSamples / (r.opts.AASamples * r.opts.AASamples)
	if samplesPerHit < 1 {
		samplesPerHit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	progressTerminal := r.opts.ProgressOut && term.IsTerminal(1)

	for w := 0; w < r.opts.Workers; w++ {
		seed := time.Now().UnixNano() ^ int64(uint64(w)*0x9E3779B97F4A7C15)
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			tr := &tracer{
				renderer: r,
				scene:    s,
				rng:      rng,
				bounces:  r.opts.RayBounces,
			}
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				idx := atomic.AddInt64(&r.pixelIndex, 1) - 1
				if idx >= total {
					return nil
				}
				x := int(idx) % r.superW
				y := int(idx) / r.superW

				pixelPos := math.Vec3{
					X: float32(r.superW)*-0.5 + float32(x),
					Y: float32(r.superH)*-0.5 + float32(y),
					Z: -imgPlaneDist,
				}.Normalize()

				dir4 := pixelPos.ToVec4(0).MulMat(camMat)
				origin := math.Vec3{X: camMat[3][0], Y: camMat[3][1], Z: camMat[3][2]}
				ray := core.NewRay(origin, dir4.ToVec3())

				col := tr.primaryTrace(x, y, ray, samplesPerHit)
				r.color[idx] = col.ToneMap()

				if progressTerminal && y == 0 && x%(r.superW/100+1) == 0 {
					printProgress(x, r.superW)
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if r.opts.Denoise {
		r.denoise()
	}

	return r.downsample(), nil
}

func (r *Renderer) downsample() []core.Color {
	a := r.opts.AASamples
	out := make([]core.Color, r.opts.Width*r.opts.Height)
	for y := 0; y < r.opts.Height; y++ {
		for x := 0; x < r.opts.Width; x++ {
			var sum core.Color
			for sy := 0; sy < a; sy++ {
				for sx := 0; sx < a; sx++ {
					idx := (y*a+sy)*r.superW + (x*a + sx)
					sum = sum.Add(r.color[idx])
				}
			}
			inv := float32(1.0 / float64(a*a))
			out[y*r.opts.Width+x] = sum.Mul(inv)
		}
	}
	return out
}

func printProgress(x, width int) {
	pct := int(100 * float64(x) / float64(width))
	fmt.Fprintf(os.Stdout, "\rrendering %d%%  ", pct)
}
