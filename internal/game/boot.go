package game

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/samdwyer/mazecrawler/internal/gamedata"
	"github.com/samdwyer/mazecrawler/internal/render"
	"github.com/samdwyer/mazecrawler/internal/store"
)

// LoadLevel builds the level selected by the configuration.
func LoadLevel(ctx context.Context, cfg Config) (*gamedata.Level, error) {
	var (
		def *gamedata.LevelDef
		err error
	)
	if cfg.LevelFile != "" {
		def, err = gamedata.LoadLevelFile(cfg.LevelFile)
	} else {
		def, err = gamedata.LoadLevel(cfg.Level)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load level: %w", err)
	}

	level, err := def.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build level: %w", err)
	}
	return level, nil
}

// Boot wires the embedded data, textures and save store into a new
// session, resuming the configured slot when asked to.
func Boot(ctx context.Context, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	biomes, err := gamedata.LoadBiomeRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load biomes: %w", err)
	}
	enemies, err := gamedata.LoadEnemyRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load enemies: %w", err)
	}

	textures := render.NewTextureStore()
	render.GenerateBiomeTextures(textures, cfg.Seed)

	saves, err := store.NewJSONStore(cfg.SaveDir)
	if err != nil {
		return nil, err
	}

	level, err := LoadLevel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := NewSession(ctx, cfg, level, Deps{
		Themes:   biomes,
		Textures: textures,
		Enemies:  enemies,
		Store:    saves,
	})

	if cfg.Resume {
		err := s.Load(ctx, cfg.SaveSlot)
		switch {
		case err == nil:
			s.message = fmt.Sprintf("Resumed %s.", cfg.SaveSlot)
		case errors.Is(err, store.ErrNotFound):
			log.Printf("Note: no save named %s, starting fresh", cfg.SaveSlot)
		default:
			return nil, err
		}
	}
	return s, nil
}
