package render

import (
	"image/color"
	"math"
	"math/rand"
)

const proceduralSize = 64

// GenerateBiomeTextures fills the store with the built-in wall, floor and
// ceiling textures of every biome. The seed drives the noisy ones.
func GenerateBiomeTextures(s *TextureStore, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	noise := func(span float64) float64 { return (rng.Float64() - 0.5) * span }

	gen := func(name string, fn func(x, y float64) (r, g, b float64)) {
		s.Generate(name, proceduralSize, proceduralSize, func(x, y int) color.RGBA {
			r, g, b := fn(float64(x), float64(y))
			return color.RGBA{R: clamp8(r), G: clamp8(g), B: clamp8(b), A: 255}
		})
	}
	flat := func(r, g, b float64) func(x, y float64) (float64, float64, float64) {
		return func(_, _ float64) (float64, float64, float64) { return r, g, b }
	}

	gen("dungeon_wall", func(x, y float64) (float64, float64, float64) {
		v := 102 + math.Sin(x*0.1)*math.Cos(y*0.1)*20
		return v, v, v
	})
	gen("dungeon_floor", func(_, _ float64) (float64, float64, float64) {
		v := 51 + noise(10)
		return v, v, v
	})
	gen("dungeon_ceiling", flat(34, 34, 34))

	gen("cave_wall", func(x, y float64) (float64, float64, float64) {
		n := math.Sin(x*0.2) * math.Cos(y*0.15) * 15
		return 90 + n, 74 + n, 58 + n
	})
	gen("cave_floor", func(_, _ float64) (float64, float64, float64) {
		n := noise(8)
		return 42 + n, 37 + n, 32 + n
	})
	gen("cave_ceiling", flat(26, 21, 16))

	gen("temple_wall", func(x, y float64) (float64, float64, float64) {
		brick := -10.0
		if (int(y/8)%2*32+int(x/16))%2 == 1 {
			brick = 10
		}
		return 212 + brick, 196 + brick, 160 + brick
	})
	gen("temple_floor", func(x, y float64) (float64, float64, float64) {
		tile := -5.0
		if (int(x/32)+int(y/32))%2 == 1 {
			tile = 5
		}
		return 138 + tile, 122 + tile, 96 + tile
	})
	gen("temple_ceiling", flat(106, 90, 64))

	gen("ice_wall", func(x, y float64) (float64, float64, float64) {
		s := math.Sin(x*0.3) * math.Cos(y*0.3) * 15
		return 176 + s, 208 + s, 224 + s
	})
	gen("ice_floor", flat(64, 80, 96))
	gen("ice_ceiling", flat(48, 64, 80))

	gen("hell_wall", func(_, _ float64) (float64, float64, float64) {
		return 170 + rng.Float64()*20, 51, 51
	})
	gen("hell_floor", flat(68, 17, 17))
	gen("hell_ceiling", flat(34, 8, 8))

	gen("forest_wall", func(x, y float64) (float64, float64, float64) {
		bark := 0.0
		if int(x+y)%8 < 2 {
			bark = -10
		}
		return 74 + bark, 106 + bark, 58 + bark
	})
	gen("forest_floor", func(_, _ float64) (float64, float64, float64) {
		g := rng.Float64() * 10
		return 58 + g, 90 + g, 42 + g
	})
	gen("forest_ceiling", flat(42, 74, 42))
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
