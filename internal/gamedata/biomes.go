package gamedata

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/samdwyer/mazecrawler/internal/render"
)

// BiomeColors holds the hex fallback colours of a biome.
type BiomeColors struct {
	Wall     string `json:"wall"`
	WallDark string `json:"wallDark"`
	Floor    string `json:"floor"`
	Ceiling  string `json:"ceiling"`
	Sky      string `json:"sky"`
}

// BiomeDef defines a biome's look loaded from JSON.
type BiomeDef struct {
	ID      string      `json:"id"`      // Identifier used by levels (e.g., "DUNGEON")
	Name    string      `json:"name"`    // Display name (e.g., "Dungeon")
	Wall    string      `json:"wall"`    // Wall texture name
	Floor   string      `json:"floor"`   // Floor texture name
	Ceiling string      `json:"ceiling"` // Ceiling texture name
	Colors  BiomeColors `json:"colors"`
}

// Theme converts the definition into a renderer theme.
func (b *BiomeDef) Theme() (render.Theme, error) {
	var p render.Palette
	fields := []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"wall", b.Colors.Wall, &p.Wall},
		{"wallDark", b.Colors.WallDark, &p.WallDark},
		{"floor", b.Colors.Floor, &p.Floor},
		{"ceiling", b.Colors.Ceiling, &p.Ceiling},
		{"sky", b.Colors.Sky, &p.Sky},
	}

	for _, f := range fields {
		c, err := ParseHexColor(f.hex)
		if err != nil {
			return render.Theme{}, fmt.Errorf("biome %s %s color: %w", b.ID, f.name, err)
		}
		*f.dst = c
	}

	return render.Theme{
		Name:           b.Name,
		Colors:         p,
		WallTexture:    b.Wall,
		FloorTexture:   b.Floor,
		CeilingTexture: b.Ceiling,
	}, nil
}

// BiomesFile represents the structure of biomes.json.
type BiomesFile struct {
	Biomes []BiomeDef `json:"biomes"`
}

// LoadBiomes loads biome definitions from the embedded biomes.json file.
func LoadBiomes() ([]BiomeDef, error) {
	file, err := Load[BiomesFile]("biomes.json")
	if err != nil {
		return nil, err
	}
	return file.Biomes, nil
}
