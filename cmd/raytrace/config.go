package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// EngineDefaults is the optional render.toml defaults layer. The sample,
// AA and bounce values are used only where a scene's `render` directive
// gives 0. Workers and ObjDir apply when the matching command-line flag is
// left unset; Denoise and PNGPreview, when true, switch those features on
// regardless of the flags; OutputDir redirects every output file.
type EngineDefaults struct {
	Workers      int    `toml:"workers"`
	PixelSamples int    `toml:"pixel_samples"`
	AASamples    int    `toml:"aa_samples"`
	RayBounces   int    `toml:"ray_bounces"`
	OutputDir    string `toml:"output_dir"`
	ObjDir       string `toml:"obj_dir"`
	Denoise      bool   `toml:"denoise"`
	PNGPreview   bool   `toml:"png_preview"`
}

func loadEngineDefaults(path string) (EngineDefaults, error) {
	var cfg EngineDefaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
