package render

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/samdwyer/mazecrawler/internal/raycast"
	"github.com/samdwyer/mazecrawler/internal/world"
)

const (
	sideShade       = 0.6 // brightness of Y-side faces
	fogStrength     = 0.8
	doorSkipAt      = 0.95
	doorFadeFactor  = 0.7
	minSliceDist    = 0.1
	npcWidthFrac    = 0.2
	npcHeightFrac   = 0.4
	npcShadowAlpha  = 0.3
	npcShadowWidth  = 0.8
	npcSpriteAlpha  = 230
	placeholderLine = 3
)

// Config holds renderer settings.
type Config struct {
	Width          int
	Height         int
	FOV            float64
	ViewDistance   float64
	FogStart       float64
	WallHeight     float64
	DoorWidthRatio float64
}

// DefaultConfig returns the standard view settings for a frame size.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:          width,
		Height:         height,
		FOV:            raycast.DefaultFOV,
		ViewDistance:   raycast.DefaultViewDistance,
		FogStart:       3,
		WallHeight:     0.8,
		DoorWidthRatio: 0.7,
	}
}

// Viewer is whoever the frame is seen through.
type Viewer interface {
	Position() (x, y float64)
	Heading() float64
	Facing() world.Direction
	Floor() int
	BumpOffset() float64
}

// Renderer draws maze frames. It is not safe for concurrent use.
type Renderer struct {
	cfg      Config
	caster   *raycast.Caster
	themes   ThemeSource
	textures TextureSource
	frame    *image.RGBA
}

// New creates a renderer. themes and textures may be nil, in which case
// the default theme and flat colours are used.
func New(cfg Config, themes ThemeSource, textures TextureSource) *Renderer {
	def := DefaultConfig(cfg.Width, cfg.Height)
	if cfg.FOV <= 0 {
		cfg.FOV = def.FOV
	}
	if cfg.ViewDistance <= 0 {
		cfg.ViewDistance = def.ViewDistance
	}
	if cfg.FogStart <= 0 || cfg.FogStart >= cfg.ViewDistance {
		cfg.FogStart = math.Min(def.FogStart, cfg.ViewDistance*0.6)
	}
	if cfg.WallHeight <= 0 {
		cfg.WallHeight = def.WallHeight
	}
	if cfg.DoorWidthRatio <= 0 || cfg.DoorWidthRatio > 1 {
		cfg.DoorWidthRatio = def.DoorWidthRatio
	}

	r := &Renderer{
		cfg:      cfg,
		caster:   raycast.NewCaster(cfg.FOV, cfg.ViewDistance),
		themes:   themes,
		textures: textures,
	}
	r.Resize(cfg.Width, cfg.Height)
	return r
}

// Config returns the active settings.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Resize changes the frame size. Sizes below 1 pixel are raised to 1.
func (r *Renderer) Resize(width, height int) {
	r.cfg.Width = max(1, width)
	r.cfg.Height = max(1, height)
	r.frame = image.NewRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
}

// Render draws one frame. The returned image is reused by the next call.
func (r *Renderer) Render(m *world.Maze, v Viewer) *image.RGBA {
	theme := DefaultTheme()
	if r.themes != nil {
		theme = r.themes.Theme(m.Biome)
	}

	r.fillBackground(theme.Colors)

	x, y := v.Position()
	if off := v.BumpOffset(); off != 0 {
		dx, dy := v.Facing().Delta()
		x += float64(dx) * off
		y += float64(dy) * off
	}
	cam := raycast.NewCamera(x, y, v.Heading(), v.Floor())

	for col, h := range r.caster.CastColumns(m, cam, r.cfg.Width) {
		r.drawHit(col, h, theme)
	}

	for _, npc := range m.VisibleNPCs() {
		r.drawNPC(npc)
	}

	return r.frame
}

func (r *Renderer) fillBackground(p Palette) {
	sky := toRGBA(p.Sky)
	floor := toRGBA(p.Floor)
	half := r.cfg.Height / 2
	for y := 0; y < r.cfg.Height; y++ {
		c := sky
		if y >= half {
			c = floor
		}
		for x := 0; x < r.cfg.Width; x++ {
			r.frame.SetRGBA(x, y, c)
		}
	}
}

func (r *Renderer) drawHit(col int, h raycast.Hit, theme Theme) {
	if !h.Hit {
		return
	}
	if h.Door == nil {
		r.drawWallSlice(col, h.Distance, h.Side, h.WallX, theme)
		return
	}
	if h.Behind != nil {
		r.drawHit(col, *h.Behind, theme)
	}
	r.drawDoorSlice(col, h, theme)
}

// sliceSpan returns the projected wall height and the visible rows of a
// slice at perpendicular distance d.
func (r *Renderer) sliceSpan(d float64) (top, lineHeight float64, start, end int) {
	h := float64(r.cfg.Height)
	proj := (h / 2) / math.Tan(r.cfg.FOV/2)
	lineHeight = math.Max(1, proj*r.cfg.WallHeight/math.Max(minSliceDist, d))
	top = h/2 - lineHeight/2
	start = max(0, int(math.Floor(top)))
	end = min(r.cfg.Height, int(math.Ceil(h/2+lineHeight/2)))
	return top, lineHeight, start, end
}

func (r *Renderer) fog(d float64) float64 {
	if d <= r.cfg.FogStart {
		return 0
	}
	return math.Min(1, (d-r.cfg.FogStart)/(r.cfg.ViewDistance-r.cfg.FogStart))
}

func (r *Renderer) drawWallSlice(col int, d float64, side raycast.Side, u float64, theme Theme) {
	top, lineHeight, start, end := r.sliceSpan(d)
	fog := r.fog(d) * fogStrength
	sky := theme.Colors.Sky

	tex, ok := usable(r.textures, theme.WallTexture)
	if !ok {
		c := theme.Colors.Wall
		if side == raycast.SideY {
			c = theme.Colors.WallDark
		}
		px := toRGBA(c.BlendRgb(sky, fog))
		for y := start; y < end; y++ {
			r.frame.SetRGBA(col, y, px)
		}
		return
	}

	b := tex.Bounds()
	texX := b.Min.X + int(math.Floor(u*float64(b.Dx())))%b.Dx()
	for y := start; y < end; y++ {
		v := (float64(y) + 0.5 - top) / lineHeight
		c := sample(tex, texX, v)
		if side == raycast.SideY {
			c = shade(c, sideShade)
		}
		r.frame.SetRGBA(col, y, toRGBA(c.BlendRgb(sky, fog)))
	}
}

// drawDoorSlice draws the door panel over whatever is already in the
// column. The panel retracts upward as the door opens.
func (r *Renderer) drawDoorSlice(col int, h raycast.Hit, theme Theme) {
	door := h.Door
	if door.OpenProgress >= doorSkipAt {
		return
	}

	margin := (1 - r.cfg.DoorWidthRatio) / 2
	if h.WallX < margin || h.WallX > margin+r.cfg.DoorWidthRatio {
		r.drawWallSlice(col, h.Distance, h.Side, h.WallX, theme)
		return
	}
	local := (h.WallX - margin) / r.cfg.DoorWidthRatio

	top, lineHeight, start, end := r.sliceSpan(h.Distance)
	progress := math.Max(0, door.OpenProgress)
	panelEnd := min(end, int(math.Ceil(top+lineHeight*(1-progress))))
	fog := r.fog(h.Distance) * fogStrength
	sky := theme.Colors.Sky

	if tex, ok := usable(r.textures, doorSprite(door)); ok {
		b := tex.Bounds()
		texX := b.Min.X + int(math.Floor(local*float64(b.Dx())))%b.Dx()
		for y := start; y < panelEnd; y++ {
			v := progress + (float64(y)+0.5-top)/lineHeight
			c := sample(tex, texX, v)
			if h.Side == raycast.SideY {
				c = shade(c, sideShade)
			}
			r.frame.SetRGBA(col, y, toRGBA(c.BlendRgb(sky, fog)))
		}
		return
	}

	wood := woodColor(local, h.Side)
	alpha := 1 - progress*doorFadeFactor
	handleLo, handleHi := -1, -1
	if local > 0.7 && local < 0.8 {
		hh := math.Max(3, lineHeight*0.08)
		mid := top + lineHeight/2
		handleLo, handleHi = int(mid-hh/2), int(mid+hh/2)
	}

	for y := start; y < panelEnd; y++ {
		c := wood
		if y >= handleLo && y < handleHi {
			c = brass
		}
		under := fromRGBA(r.frame.RGBAAt(col, y))
		r.frame.SetRGBA(col, y, toRGBA(under.BlendRgb(c, alpha).BlendRgb(sky, fog)))
	}
}

var brass = colorful.Color{R: 0xB8 / 255.0, G: 0x86 / 255.0, B: 0x0B / 255.0}

// woodColor is the untextured door surface at local position u across
// the panel.
func woodColor(u float64, side raycast.Side) colorful.Color {
	brightness := 1.0
	if side == raycast.SideY {
		brightness = sideShade
	}
	grain := math.Sin(u*30)*8 + math.Sin(u*50)*4
	rr := 101*brightness + grain
	gg := 67*brightness + grain*0.8
	bb := 33*brightness + grain*0.5

	edge := 1.0
	for _, seam := range []float64{0.1, 0.5, 0.9} {
		if math.Abs(u-seam) < 0.05 {
			edge = 0.7
		}
	}
	return colorful.Color{R: rr * edge / 255, G: gg * edge / 255, B: bb * edge / 255}.Clamped()
}

func doorSprite(d *world.Door) string {
	switch {
	case d.UsesPlaceholder():
		return ""
	case d.State == world.DoorOpening && d.OpeningSpriteTexture != "":
		return d.OpeningSpriteTexture
	case d.State == world.DoorClosing && d.ClosingSpriteTexture != "":
		return d.ClosingSpriteTexture
	default:
		return d.SpriteTexture
	}
}

// sample reads column texX of tex at vertical position v in [0, 1).
func sample(tex Texture, texX int, v float64) colorful.Color {
	b := tex.Bounds()
	texY := b.Min.Y + min(b.Dy()-1, max(0, int(v*float64(b.Dy()))))
	c, _ := colorful.MakeColor(tex.At(texX, texY))
	return c
}

func shade(c colorful.Color, f float64) colorful.Color {
	return colorful.Color{R: c.R * f, G: c.G * f, B: c.B * f}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func fromRGBA(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
