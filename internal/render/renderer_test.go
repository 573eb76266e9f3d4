package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/samdwyer/mazecrawler/internal/world"
)

type fakeViewer struct {
	x, y    float64
	heading float64
	floor   int
	bump    float64
}

func (v fakeViewer) Position() (float64, float64) { return v.x, v.y }
func (v fakeViewer) Heading() float64              { return v.heading }
func (v fakeViewer) Facing() world.Direction       { return world.Direction(int(v.heading) % 4) }
func (v fakeViewer) Floor() int                    { return v.floor }
func (v fakeViewer) BumpOffset() float64           { return v.bump }

const (
	frameW = 200
	frameH = 100
)

func solid(c color.RGBA, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestMissColumnsKeepBackground(t *testing.T) {
	m := world.NewMaze(40, 40, 1, "")
	r := New(DefaultConfig(frameW, frameH), nil, nil)
	frame := r.Render(m, fakeViewer{x: 20.5, y: 20.5})

	theme := DefaultTheme()
	sky, floor := toRGBA(theme.Colors.Sky), toRGBA(theme.Colors.Floor)
	for x := 0; x < frameW; x++ {
		if got := frame.RGBAAt(x, 0); got != sky {
			t.Fatalf("column %d top = %v, want sky %v", x, got, sky)
		}
		if got := frame.RGBAAt(x, frameH-1); got != floor {
			t.Fatalf("column %d bottom = %v, want floor %v", x, got, floor)
		}
		if got := frame.RGBAAt(x, frameH/2-1); got != sky {
			t.Fatalf("column %d horizon = %v, want sky", x, got)
		}
	}
}

func TestWallSliceFlatColour(t *testing.T) {
	m := world.NewMaze(10, 10, 1, "")
	m.AddWall(3, 1, 0)
	r := New(DefaultConfig(frameW, frameH), nil, nil)
	frame := r.Render(m, fakeViewer{x: 1.5, y: 1.5, heading: 1})

	want := toRGBA(DefaultTheme().Colors.Wall)
	if got := frame.RGBAAt(frameW/2, frameH/2); got != want {
		t.Errorf("centre pixel = %v, want wall %v", got, want)
	}
	if got := frame.RGBAAt(frameW/2, 0); got != toRGBA(DefaultTheme().Colors.Sky) {
		t.Errorf("top pixel = %v, want sky above a distant slice", got)
	}
}

func TestFogBlendsTowardSky(t *testing.T) {
	m := world.NewMaze(10, 10, 1, "")
	m.AddWall(6, 1, 0)
	r := New(DefaultConfig(frameW, frameH), nil, nil)
	frame := r.Render(m, fakeViewer{x: 1.5, y: 1.5, heading: 1})

	theme := DefaultTheme()
	want := toRGBA(theme.Colors.Wall.BlendRgb(theme.Colors.Sky, 0.75*fogStrength))
	if got := frame.RGBAAt(frameW/2, frameH/2); got != want {
		t.Errorf("fogged pixel = %v, want %v", got, want)
	}
}

func TestDoorSlice(t *testing.T) {
	wall := toRGBA(DefaultTheme().Colors.Wall)

	tests := []struct {
		name     string
		progress float64
		wantWall bool
	}{
		{"closed door hides the wall", 0, false},
		{"almost open door is skipped", 0.97, true},
	}

	for _, tt := range tests {
		m := world.NewMaze(10, 10, 1, "")
		m.AddWall(4, 1, 0)
		d := m.AddDoor(world.DoorConfig{X: 2, Y: 1, Direction: world.East})
		d.OpenProgress = tt.progress

		r := New(DefaultConfig(frameW, frameH), nil, nil)
		got := r.Render(m, fakeViewer{x: 1.5, y: 1.5, heading: 1}).RGBAAt(frameW/2, frameH/2)
		if (got == wall) != tt.wantWall {
			t.Errorf("%s: centre pixel = %v, wall colour %v", tt.name, got, wall)
		}
	}
}

func TestDoorPanelRetractsUpward(t *testing.T) {
	m := world.NewMaze(10, 10, 1, "")
	m.AddWall(4, 1, 0)
	d := m.AddDoor(world.DoorConfig{X: 2, Y: 1, Direction: world.East})
	d.OpenProgress = 0.6

	r := New(DefaultConfig(frameW, frameH), nil, nil)
	frame := r.Render(m, fakeViewer{x: 1.5, y: 1.5, heading: 1})

	// The lower part of the slice now shows the wall behind the door.
	_, _, _, end := r.sliceSpan(1.5)
	wallTop, wallHeight, _, _ := r.sliceSpan(2.5)
	below := int(wallTop + wallHeight*0.9)
	if below >= end {
		t.Fatalf("test geometry: row %d outside door slice", below)
	}
	if got, want := frame.RGBAAt(frameW/2, below), toRGBA(DefaultTheme().Colors.Wall); got != want {
		t.Errorf("pixel below retracted panel = %v, want wall %v", got, want)
	}
}

func TestWallTextureUsedWhenReady(t *testing.T) {
	blue := color.RGBA{B: 255, A: 255}
	store := NewTextureStore()
	store.Register("dungeon_wall", solid(blue, 8))

	m := world.NewMaze(10, 10, 1, "")
	m.AddWall(3, 1, 0)
	r := New(DefaultConfig(frameW, frameH), nil, store)
	frame := r.Render(m, fakeViewer{x: 1.5, y: 1.5, heading: 1})

	if got := frame.RGBAAt(frameW/2, frameH/2); got != blue {
		t.Errorf("textured pixel = %v, want %v", got, blue)
	}
}

func TestNotReadyTextureFallsBack(t *testing.T) {
	store := NewTextureStore()
	store.put("dungeon_wall", loadingTexture{})

	m := world.NewMaze(10, 10, 1, "")
	m.AddWall(3, 1, 0)
	r := New(DefaultConfig(frameW, frameH), nil, store)
	frame := r.Render(m, fakeViewer{x: 1.5, y: 1.5, heading: 1})

	if got, want := frame.RGBAAt(frameW/2, frameH/2), toRGBA(DefaultTheme().Colors.Wall); got != want {
		t.Errorf("pixel = %v, want flat wall %v", got, want)
	}
}

func TestNPCPlaceholder(t *testing.T) {
	m := world.NewMaze(40, 40, 1, "")
	m.AddNPC(20, 20, 0, "merchant", "Greta", "", world.North)
	m.UpdateNPCVisibility(20.5, 20.5, 0, 0)

	r := New(DefaultConfig(frameW, frameH), nil, nil)
	frame := r.Render(m, fakeViewer{x: 20.5, y: 20.5})

	rect := r.placeholderRect(world.North)
	if got := frame.RGBAAt(rect.Min.X+5, rect.Min.Y+5); got != placeholderFill {
		t.Errorf("placeholder interior = %v, want %v", got, placeholderFill)
	}
	if got := frame.RGBAAt(rect.Min.X, rect.Min.Y); got != placeholderBorder {
		t.Errorf("placeholder corner = %v, want %v", got, placeholderBorder)
	}
}

func TestNPCSprite(t *testing.T) {
	store := NewTextureStore()
	store.Register("npc_red", solid(color.RGBA{R: 255, A: 255}, 8))

	m := world.NewMaze(40, 40, 1, "")
	m.AddNPC(20, 20, 0, "guard", "Bors", "npc_red", world.East)
	m.UpdateNPCVisibility(20.5, 20.5, 0, 1)

	r := New(DefaultConfig(frameW, frameH), nil, store)
	frame := r.Render(m, fakeViewer{x: 20.5, y: 20.5, heading: 1})

	rect := r.npcRect(world.East)
	got := frame.RGBAAt((rect.Min.X+rect.Max.X)/2, rect.Min.Y+2)
	if got.R < 200 || got.G > 60 {
		t.Errorf("sprite pixel = %v, want mostly red", got)
	}
	if rect.Dx() != frameW/5 || rect.Dy() != frameH*2/5 {
		t.Errorf("sprite size = %dx%d, want %dx%d", rect.Dx(), rect.Dy(), frameW/5, frameH*2/5)
	}
}

func TestHiddenNPCNotDrawn(t *testing.T) {
	m := world.NewMaze(40, 40, 1, "")
	m.AddNPC(20, 20, 0, "merchant", "Greta", "", world.South)
	m.UpdateNPCVisibility(20.5, 20.5, 0, 0)

	r := New(DefaultConfig(frameW, frameH), nil, nil)
	frame := r.Render(m, fakeViewer{x: 20.5, y: 20.5})

	rect := r.placeholderRect(world.South)
	if got := frame.RGBAAt(rect.Min.X+5, rect.Min.Y+5); got == placeholderFill {
		t.Error("NPC facing away should not be drawn")
	}
}

func TestResize(t *testing.T) {
	r := New(DefaultConfig(frameW, frameH), nil, nil)
	r.Resize(0, 30)

	if cfg := r.Config(); cfg.Width != 1 || cfg.Height != 30 {
		t.Errorf("Config() size = %dx%d, want 1x30", cfg.Width, cfg.Height)
	}
	frame := r.Render(world.NewMaze(10, 10, 1, ""), fakeViewer{x: 1.5, y: 1.5})
	if b := frame.Bounds(); b.Dx() != 1 || b.Dy() != 30 {
		t.Errorf("frame bounds = %v, want 1x30", b)
	}
}

func TestTextureStoreLoadFS(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(color.RGBA{G: 255, A: 255}, 4)); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	fsys := fstest.MapFS{
		"textures/moss.png":   {Data: buf.Bytes()},
		"textures/broken.png": {Data: []byte("not a png")},
	}

	store := NewTextureStore()
	err := store.LoadFS(context.Background(), fsys, map[string]string{
		"moss":   "textures/moss.png",
		"broken": "textures/broken.png",
	})
	if err == nil {
		t.Error("LoadFS() error = nil, want decode error")
	}

	if tex, ok := store.Texture("moss"); ok && tex.Ready() {
		if tex.Bounds().Dx() != 4 {
			t.Errorf("moss width = %d, want 4", tex.Bounds().Dx())
		}
	}
	if tex, ok := store.Texture("broken"); !ok || tex.Ready() {
		t.Error("broken texture should stay registered but not ready")
	}
	if _, ok := usable(store, "broken"); ok {
		t.Error("usable() should reject a texture that is not ready")
	}
}

func TestGenerateBiomeTextures(t *testing.T) {
	store := NewTextureStore()
	GenerateBiomeTextures(store, 1)

	if store.Len() != 18 {
		t.Errorf("Len() = %d, want 18", store.Len())
	}
	for _, name := range []string{"dungeon_wall", "ice_floor", "forest_ceiling"} {
		tex, ok := usable(store, name)
		if !ok {
			t.Errorf("texture %s missing", name)
			continue
		}
		if b := tex.Bounds(); b.Dx() != proceduralSize || b.Dy() != proceduralSize {
			t.Errorf("texture %s bounds = %v", name, b)
		}
	}
}
