package ui

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// HUDRows is the number of terminal rows below the view.
const HUDRows = 2

// upperHalf draws the top pixel as foreground and the bottom as background.
const upperHalf = '▀'

// HUD is the text shown under the view.
type HUD struct {
	Status  string
	Message string

	// Badge, when set, is drawn in BadgeColor before the status text.
	Badge      rune
	BadgeColor colorful.Color
}

// Renderer draws frames and the HUD to the screen. Each terminal cell
// shows two vertically stacked pixels.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// FrameSize returns the pixel size of frame that fills the view area.
func (r *Renderer) FrameSize() (width, height int) {
	w, h := r.screen.Size()
	return max(1, w), max(1, (h-HUDRows)*2)
}

// Render draws a frame scaled into the view area, then the HUD.
func (r *Renderer) Render(frame image.Image, hud HUD) {
	r.screen.Clear()

	cols, rows := r.screen.Size()
	viewRows := rows - HUDRows
	for y := 0; y < viewRows; y++ {
		for x := 0; x < cols; x++ {
			top, bottom := halfBlock(frame, cols, viewRows, x, y)
			r.screen.SetContent(x, y, upperHalf, cellStyle(top, bottom))
		}
	}

	statusX := 0
	if hud.Badge != 0 {
		style := tcell.StyleDefault.Foreground(tcellColor(hud.BadgeColor)).Bold(true)
		r.screen.SetContent(0, viewRows, hud.Badge, style)
		statusX = 2
	}
	r.renderText(hud.Status, statusX, viewRows, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	r.RenderMessage(hud.Message, viewRows+1)

	r.screen.Show()
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	r.renderText(msg, 0, y, tcell.StyleDefault.Foreground(tcell.ColorWhite))
}

func (r *Renderer) renderText(msg string, x, y int, style tcell.Style) {
	for _, ch := range msg {
		r.screen.SetContent(x, y, ch, style)
		x++
	}
}

// halfBlock samples the two pixels behind terminal cell (x, y) of a
// cols by rows view, scaling the frame to fit.
func halfBlock(frame image.Image, cols, rows, x, y int) (top, bottom color.Color) {
	b := frame.Bounds()
	px := b.Min.X + x*b.Dx()/cols
	pyTop := b.Min.Y + (2*y)*b.Dy()/(2*rows)
	pyBottom := b.Min.Y + (2*y+1)*b.Dy()/(2*rows)
	return frame.At(px, pyTop), frame.At(px, pyBottom)
}

func cellStyle(top, bottom color.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(rgbColor(top)).Background(rgbColor(bottom))
}

func rgbColor(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
