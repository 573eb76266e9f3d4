package game

import (
	"fmt"
	"strconv"
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Drives the encounter gate and the
	// procedural textures. A seed of 0 means a random seed will be generated.
	Seed int64

	// Level is the embedded level to start in. LevelFile, when set, is read
	// from disk instead.
	Level     string
	LevelFile string

	SaveDir  string
	SaveSlot string
	// Resume loads SaveSlot on start when it exists.
	Resume bool

	// Frame size in pixels for the window frontend. The terminal frontend
	// sizes its frame to the terminal.
	Width  int
	Height int
	FPS    int

	EncounterRate     float64
	EncounterMinSteps int
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Level:             "entrance",
		SaveDir:           "saves",
		SaveSlot:          "quicksave",
		Width:             320,
		Height:            200,
		FPS:               60,
		EncounterRate:     0.03,
		EncounterMinSteps: 5,
	}
}

// Environment variables read by ConfigFromEnv.
const (
	EnvSeed              = "MAZECRAWLER_SEED"
	EnvLevel             = "MAZECRAWLER_LEVEL"
	EnvLevelFile         = "MAZECRAWLER_LEVEL_FILE"
	EnvSaveDir           = "MAZECRAWLER_SAVE_DIR"
	EnvSaveSlot          = "MAZECRAWLER_SAVE_SLOT"
	EnvResume            = "MAZECRAWLER_RESUME"
	EnvWidth             = "MAZECRAWLER_WIDTH"
	EnvHeight            = "MAZECRAWLER_HEIGHT"
	EnvFPS               = "MAZECRAWLER_FPS"
	EnvEncounterRate     = "MAZECRAWLER_ENCOUNTER_RATE"
	EnvEncounterMinSteps = "MAZECRAWLER_ENCOUNTER_STEPS"
)

// ConfigFromEnv overlays MAZECRAWLER_* variables on the defaults. getenv is
// usually os.Getenv.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	strs := []struct {
		key string
		dst *string
	}{
		{EnvLevel, &cfg.Level},
		{EnvLevelFile, &cfg.LevelFile},
		{EnvSaveDir, &cfg.SaveDir},
		{EnvSaveSlot, &cfg.SaveSlot},
	}
	for _, s := range strs {
		if v := getenv(s.key); v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvWidth, &cfg.Width},
		{EnvHeight, &cfg.Height},
		{EnvFPS, &cfg.FPS},
		{EnvEncounterMinSteps, &cfg.EncounterMinSteps},
	}
	for _, i := range ints {
		v := getenv(i.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", i.key, err)
		}
		*i.dst = n
	}

	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}
	if v := getenv(EnvEncounterRate); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", EnvEncounterRate, err)
		}
		cfg.EncounterRate = rate
	}
	if v := getenv(EnvResume); v != "" {
		resume, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", EnvResume, err)
		}
		cfg.Resume = resume
	}

	return cfg, cfg.Validate()
}

// Validate checks the ranges of the numeric settings.
func (c Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("frame size %dx%d must be positive", c.Width, c.Height)
	case c.FPS < 1:
		return fmt.Errorf("fps %d must be positive", c.FPS)
	case c.EncounterRate < 0 || c.EncounterRate > 1:
		return fmt.Errorf("encounter rate %v must be within [0, 1]", c.EncounterRate)
	case c.EncounterMinSteps < 0:
		return fmt.Errorf("encounter steps %d must not be negative", c.EncounterMinSteps)
	case c.Level == "" && c.LevelFile == "":
		return fmt.Errorf("no level selected")
	}
	return nil
}
