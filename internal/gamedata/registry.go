package gamedata

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/samdwyer/mazecrawler/internal/render"
)

// EnemyRegistry holds loaded enemy definitions and provides spawning utilities.
type EnemyRegistry struct {
	enemies     []EnemyDef
	totalWeight int
}

// NewEnemyRegistry creates a registry from loaded enemy definitions.
func NewEnemyRegistry(enemies []EnemyDef) *EnemyRegistry {
	totalWeight := 0
	for _, e := range enemies {
		totalWeight += e.SpawnWeight
	}
	return &EnemyRegistry{
		enemies:     enemies,
		totalWeight: totalWeight,
	}
}

// LoadEnemyRegistry loads and creates a registry from the embedded enemies.json.
func LoadEnemyRegistry() (*EnemyRegistry, error) {
	enemies, err := LoadEnemies()
	if err != nil {
		return nil, err
	}
	if len(enemies) == 0 {
		return nil, errors.New("no enemies loaded from enemies.json")
	}
	return NewEnemyRegistry(enemies), nil
}

// MustLoadEnemyRegistry loads a registry, panicking on error.
func MustLoadEnemyRegistry() *EnemyRegistry {
	registry, err := LoadEnemyRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// SpawnRandom selects a random enemy definition using weighted probability.
// Enemies with higher spawnWeight are more likely to be selected.
func (r *EnemyRegistry) SpawnRandom(rng *rand.Rand) *EnemyDef {
	if r.totalWeight <= 0 || len(r.enemies) == 0 {
		return nil
	}

	roll := rng.Intn(r.totalWeight)

	cumulative := 0
	for i := range r.enemies {
		cumulative += r.enemies[i].SpawnWeight
		if roll < cumulative {
			return &r.enemies[i]
		}
	}

	return &r.enemies[0]
}

// GetByID returns the enemy definition with the given ID, or nil if not found.
func (r *EnemyRegistry) GetByID(id string) *EnemyDef {
	for i := range r.enemies {
		if r.enemies[i].ID == id {
			return &r.enemies[i]
		}
	}
	return nil
}

// Count returns the number of enemy types in the registry.
func (r *EnemyRegistry) Count() int {
	return len(r.enemies)
}

// =============================================================================
// BiomeRegistry
// =============================================================================

// FallbackBiome is served for unknown biome identifiers.
const FallbackBiome = "DUNGEON"

// BiomeRegistry resolves biome identifiers to renderer themes.
type BiomeRegistry struct {
	themes map[string]render.Theme
}

// NewBiomeRegistry creates a registry from loaded biome definitions.
func NewBiomeRegistry(biomes []BiomeDef) (*BiomeRegistry, error) {
	registry := &BiomeRegistry{themes: make(map[string]render.Theme, len(biomes))}
	for i := range biomes {
		theme, err := biomes[i].Theme()
		if err != nil {
			return nil, err
		}
		registry.themes[biomes[i].ID] = theme
	}
	if _, ok := registry.themes[FallbackBiome]; !ok {
		return nil, fmt.Errorf("biome table has no %s entry", FallbackBiome)
	}
	return registry, nil
}

// LoadBiomeRegistry loads and creates a registry from the embedded biomes.json.
func LoadBiomeRegistry() (*BiomeRegistry, error) {
	biomes, err := LoadBiomes()
	if err != nil {
		return nil, err
	}
	return NewBiomeRegistry(biomes)
}

// MustLoadBiomeRegistry loads a registry, panicking on error.
func MustLoadBiomeRegistry() *BiomeRegistry {
	registry, err := LoadBiomeRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// Theme returns the theme for a biome, falling back to the dungeon.
func (r *BiomeRegistry) Theme(biome string) render.Theme {
	if theme, ok := r.themes[biome]; ok {
		return theme
	}
	return r.themes[FallbackBiome]
}

// Has returns true if the biome is defined.
func (r *BiomeRegistry) Has(biome string) bool {
	_, ok := r.themes[biome]
	return ok
}

// Names returns the defined biome identifiers in sorted order.
func (r *BiomeRegistry) Names() []string {
	names := make([]string, 0, len(r.themes))
	for id := range r.themes {
		names = append(names, id)
	}
	sort.Strings(names)
	return names
}
