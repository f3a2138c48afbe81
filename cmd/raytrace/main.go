// Command raytrace loads an SDF scene file, traces every `render`
// directive it contains, and writes each as a PPM (plus an optional PNG
// preview) to disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"render-engine/diag"
	"render-engine/imagewriter"
	"render-engine/render"
	"render-engine/sdf"
)

func main() {
	os.Exit(run())
}

func run() int {
	scenePath := flag.String("scene", "", "path to the SDF scene file")
	objDir := flag.String("objdir", "", "directory OBJ basenames resolve against (default: scene file's directory)")
	configPath := flag.String("config", "render.toml", "optional engine-defaults TOML file")
	workers := flag.Int("workers", 0, "worker goroutine count (0 = hardware concurrency)")
	denoise := flag.Bool("denoise", true, "apply the edge-preserving denoiser")
	pngPreview := flag.Bool("png", false, "also write a .png preview next to each .ppm")
	flag.Parse()

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "usage: raytrace -scene <file.sdf> [-objdir dir] [-config render.toml]")
		return 2
	}

	defaults, err := loadEngineDefaults(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *workers == 0 {
		*workers = defaults.Workers
	}
	if defaults.Denoise {
		*denoise = true
	}
	if defaults.PNGPreview {
		*pngPreview = true
	}

	resolvedObjDir := *objDir
	if resolvedObjDir == "" {
		resolvedObjDir = defaults.ObjDir
	}
	if resolvedObjDir == "" {
		resolvedObjDir = filepath.Dir(*scenePath)
	}

	loader := sdf.NewLoader(resolvedObjDir)
	if err := loader.LoadFile(*scenePath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if loader.Scene.Camera == nil {
		fmt.Fprintln(os.Stderr, "scene defines no camera")
		return 1
	}

	outputDir := defaults.OutputDir

	for _, job := range loader.RenderJobs {
		opts := render.Options{
			Width:        job.Width,
			Height:       job.Height,
			PixelSamples: firstNonZero(job.PixelSamples, defaults.PixelSamples),
			AASamples:    firstNonZero(job.AASamples, defaults.AASamples),
			RayBounces:   firstNonZero(job.RayBounces, defaults.RayBounces),
			Workers:      *workers,
			Denoise:      *denoise,
			ProgressOut:  true,
		}
		if opts.AASamples < 1 {
			opts.AASamples = 1
		}
		if opts.PixelSamples < 1 {
			opts.PixelSamples = 1
		}

		r := render.New(opts)
		buf, err := r.Render(context.Background(), loader.Scene)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		outPath := job.OutFile
		if outputDir != "" {
			outPath = filepath.Join(outputDir, filepath.Base(outPath))
		}
		if err := imagewriter.WritePPM(outPath, opts.Width, opts.Height, buf); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		if *pngPreview {
			pngPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".png"
			if err := imagewriter.WritePNGPreview(pngPath, opts.Width, opts.Height, buf, 512); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}

		fmt.Printf("\nwrote %s (%d warnings)\n", outPath, diag.Count())
	}

	return 0
}

func firstNonZero(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}
