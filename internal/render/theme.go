// Package render paints first-person frames of a maze into RGBA images.
package render

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the flat fallback colours of a biome.
type Palette struct {
	Wall     colorful.Color
	WallDark colorful.Color
	Floor    colorful.Color
	Ceiling  colorful.Color
	Sky      colorful.Color
}

// Theme is the look of one biome.
type Theme struct {
	Name           string
	Colors         Palette
	WallTexture    string
	FloorTexture   string
	CeilingTexture string
}

// ThemeSource resolves a biome identifier to its theme.
type ThemeSource interface {
	Theme(biome string) Theme
}

// Texture is an image that may still be loading. Renderers must check
// Ready before sampling it.
type Texture interface {
	image.Image
	Ready() bool
}

// TextureSource looks textures up by name.
type TextureSource interface {
	Texture(name string) (Texture, bool)
}

// DefaultTheme is the dungeon look used when no theme source is set.
func DefaultTheme() Theme {
	return Theme{
		Name: "Dungeon",
		Colors: Palette{
			Wall:     mustHex("#666666"),
			WallDark: mustHex("#444444"),
			Floor:    mustHex("#333333"),
			Ceiling:  mustHex("#222222"),
			Sky:      mustHex("#111144"),
		},
		WallTexture:    "dungeon_wall",
		FloorTexture:   "dungeon_floor",
		CeilingTexture: "dungeon_ceiling",
	}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
