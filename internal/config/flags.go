package config

import (
	"flag"
	"strconv"
)

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagWorkers = flag.Int("workers", 0, "Worker goroutines for parallel passes")
	flagScale   = flag.Float64("scale", 0, "Map units to engine units")
	flagSmooth  = flag.String("smooth", "", "Normal smoothing angle in degrees")
	flagPolicy  = flag.String("policy", "", "Collider policy: auto, box or concave")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config. A malformed -smooth
// value is kept out of the config and reported by Validate.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWorkers > 0 {
		cfg.Compile.Workers = *flagWorkers
	}
	if *flagScale > 0 {
		cfg.Compile.Scale = float32(*flagScale)
	}
	if *flagSmooth != "" {
		angle, err := strconv.ParseFloat(*flagSmooth, 32)
		if err != nil {
			return err
		}
		cfg.Compile.SmoothAngle = float32(angle)
	}
	if *flagPolicy != "" {
		cfg.Collision.Policy = *flagPolicy
	}
	return nil
}
