package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/samdwyer/mazecrawler/internal/world"
)

var (
	placeholderFill   = color.RGBA{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF}
	placeholderBorder = color.RGBA{R: 0x2E, G: 0x7D, B: 0x32, A: 0xFF}
)

// npcRect returns the billboard rectangle for an NPC standing on the
// given side of the viewer's tile.
func (r *Renderer) npcRect(facing world.Direction) image.Rectangle {
	w := float64(r.cfg.Width)
	h := float64(r.cfg.Height)
	nw, nh := w*npcWidthFrac, h*npcHeightFrac

	x, y := (w-nw)/2, h/2-nh*0.3
	switch facing {
	case world.North:
		y = h/2 - nh*0.4
	case world.East:
		x = w * 0.65
	case world.South:
		y = h/2 - nh*0.2
	case world.West:
		x = w * 0.1
	}
	return image.Rect(int(x), int(y), int(x+nw), int(y+nh))
}

// placeholderRect returns where an untextured NPC is drawn.
func (r *Renderer) placeholderRect(facing world.Direction) image.Rectangle {
	w := float64(r.cfg.Width)
	h := float64(r.cfg.Height)
	nw, nh := w*npcWidthFrac, h*npcHeightFrac

	x := (w - nw) / 2
	switch facing {
	case world.East:
		x = w * 0.7
	case world.West:
		x = w * 0.1
	}
	y := (h - nh) / 2
	return image.Rect(int(x), int(y), int(x+nw), int(y+nh))
}

func (r *Renderer) drawNPC(npc *world.NPC) {
	tex, ok := usable(r.textures, npc.Image)
	if !ok {
		r.drawPlaceholder(npc)
		return
	}

	dst := r.npcRect(npc.Facing)
	r.drawShadow(dst)
	draw.NearestNeighbor.Scale(r.frame, dst, tex, tex.Bounds(), draw.Over, &draw.Options{
		SrcMask: image.NewUniform(color.Alpha{A: npcSpriteAlpha}),
	})
}

// drawShadow darkens an ellipse under the billboard's feet.
func (r *Renderer) drawShadow(sprite image.Rectangle) {
	sw := float64(sprite.Dx()) * npcShadowWidth
	sh := sw * 0.3
	if sw < 1 || sh < 1 {
		return
	}
	cx := float64(sprite.Min.X) + float64(sprite.Dx())/2
	cy := float64(sprite.Max.Y)
	rx, ry := sw/2, sh/2

	bounds := r.frame.Bounds()
	for y := int(cy - ry); y <= int(cy+ry); y++ {
		for x := int(cx - rx); x <= int(cx+rx); x++ {
			if !(image.Point{X: x, Y: y}).In(bounds) {
				continue
			}
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy > 1 {
				continue
			}
			r.frame.SetRGBA(x, y, darken(r.frame.RGBAAt(x, y), npcShadowAlpha))
		}
	}
}

func darken(c color.RGBA, alpha float64) color.RGBA {
	f := 1 - alpha
	return color.RGBA{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f), A: c.A}
}

func (r *Renderer) drawPlaceholder(npc *world.NPC) {
	rect := r.placeholderRect(npc.Facing)
	draw.Draw(r.frame, rect, image.NewUniform(placeholderFill), image.Point{}, draw.Src)

	border := image.NewUniform(placeholderBorder)
	t := min(placeholderLine, rect.Dx()/2, rect.Dy()/2)
	for _, edge := range []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+t),
		image.Rect(rect.Min.X, rect.Max.Y-t, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+t, rect.Max.Y),
		image.Rect(rect.Max.X-t, rect.Min.Y, rect.Max.X, rect.Max.Y),
	} {
		draw.Draw(r.frame, edge, border, image.Point{}, draw.Src)
	}

	centreX := r.cfg.Width / 2
	r.drawLabel("NPC", centreX, r.cfg.Height/2)
	r.drawLabel(npc.Name, centreX, min(r.cfg.Height-2, rect.Max.Y+basicfont.Face7x13.Height+4))
}

// drawLabel writes white text centred on x with its baseline at y.
func (r *Renderer) drawLabel(text string, x, y int) {
	if text == "" {
		return
	}
	d := font.Drawer{
		Dst:  r.frame,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(text).Ceil()
	d.Dot = fixed.P(x-width/2, y)
	d.DrawString(text)
}
