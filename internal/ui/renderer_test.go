package ui

import (
	"image"
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

func twoToneFrame(w, h int, top, bottom color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := top
		if y%2 == 1 {
			c = bottom
		}
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestHalfBlockSamplesStackedPixels(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	frame := twoToneFrame(4, 6, red, blue)

	for y := 0; y < 3; y++ {
		top, bottom := halfBlock(frame, 4, 3, 1, y)
		if top != red || bottom != blue {
			t.Errorf("halfBlock(row %d) = %v, %v, want %v, %v", y, top, bottom, red, blue)
		}
	}
}

func TestHalfBlockScalesLargerFrames(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 8, 8))
	green := color.RGBA{G: 255, A: 255}
	frame.SetRGBA(6, 4, green)

	top, _ := halfBlock(frame, 4, 2, 3, 1)
	if top != green {
		t.Errorf("halfBlock(3, 1) top = %v, want %v", top, green)
	}
}

func TestRgbColor(t *testing.T) {
	got := rgbColor(color.RGBA{R: 10, G: 20, B: 30, A: 255})
	want := tcell.NewRGBColor(10, 20, 30)
	if got != want {
		t.Errorf("rgbColor() = %v, want %v", got, want)
	}

	if got := tcellColor(colorful.Color{R: 1, G: 0, B: 0}); got != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("tcellColor(red) = %v, want pure red", got)
	}
}

func TestRenderFillsViewAndHUD(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := NewScreenFrom(sim)
	if err != nil {
		t.Fatalf("NewScreenFrom() error = %v", err)
	}
	defer screen.Close()
	sim.SetSize(10, 6)

	r := NewRenderer(screen)
	w, h := r.FrameSize()
	if w != 10 || h != 8 {
		t.Fatalf("FrameSize() = %dx%d, want 10x8", w, h)
	}

	frame := twoToneFrame(w, h, color.RGBA{R: 255, A: 255}, color.RGBA{B: 255, A: 255})
	r.Render(frame, HUD{Status: "HP", Message: "hello", Badge: 'g', BadgeColor: colorful.Color{G: 1}})

	if got, _, _, _ := sim.GetContent(3, 2); got != upperHalf {
		t.Errorf("view cell = %q, want %q", got, upperHalf)
	}
	if got, _, _, _ := sim.GetContent(0, 4); got != 'g' {
		t.Errorf("badge cell = %q, want 'g'", got)
	}
	if got, _, _, _ := sim.GetContent(2, 4); got != 'H' {
		t.Errorf("status cell = %q, want 'H'", got)
	}
	if got, _, _, _ := sim.GetContent(0, 5); got != 'h' {
		t.Errorf("message cell = %q, want 'h'", got)
	}
}
