package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // register PNG for texture files
	"io"
	"io/fs"
	"sync"

	"golang.org/x/sync/errgroup"
)

// readyTexture is a fully decoded texture.
type readyTexture struct {
	image.Image
}

func (readyTexture) Ready() bool { return true }

// loadingTexture stands in for a texture whose file is still decoding.
type loadingTexture struct{}

func (loadingTexture) ColorModel() color.Model { return color.RGBAModel }
func (loadingTexture) Bounds() image.Rectangle { return image.Rectangle{} }
func (loadingTexture) At(x, y int) color.Color { return color.RGBA{} }
func (loadingTexture) Ready() bool             { return false }

// TextureStore is a concurrency-safe texture registry.
type TextureStore struct {
	mu       sync.RWMutex
	textures map[string]Texture
}

// NewTextureStore creates an empty store.
func NewTextureStore() *TextureStore {
	return &TextureStore{textures: make(map[string]Texture)}
}

// Texture returns the named texture.
func (s *TextureStore) Texture(name string) (Texture, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.textures[name]
	return t, ok
}

// Has returns true if a texture, ready or not, is registered under name.
func (s *TextureStore) Has(name string) bool {
	_, ok := s.Texture(name)
	return ok
}

// Len returns the number of registered textures.
func (s *TextureStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.textures)
}

// Register stores a decoded image under name, replacing any previous one.
func (s *TextureStore) Register(name string, img image.Image) {
	s.put(name, readyTexture{img})
}

func (s *TextureStore) put(name string, t Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textures[name] = t
}

// Decode reads an encoded image and registers it under name.
func (s *TextureStore) Decode(name string, r io.Reader) error {
	img, _, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("failed to decode texture %s: %w", name, err)
	}
	s.Register(name, img)
	return nil
}

// LoadFS decodes texture files concurrently. files maps texture names to
// paths within fsys. Every name is registered as not ready before
// decoding starts; names whose file fails to load stay not ready, so
// renderers keep using flat colours for them.
func (s *TextureStore) LoadFS(ctx context.Context, fsys fs.FS, files map[string]string) error {
	for name := range files {
		if !s.Has(name) {
			s.put(name, loadingTexture{})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for name, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := fsys.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open texture %s: %w", name, err)
			}
			defer f.Close()
			return s.Decode(name, f)
		})
	}
	return g.Wait()
}

// Generate renders a procedural texture and registers it under name.
func (s *TextureStore) Generate(name string, width, height int, fn func(x, y int) color.RGBA) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, fn(x, y))
		}
	}
	s.Register(name, img)
}

// usable returns a texture that is loaded and non-empty.
func usable(src TextureSource, name string) (Texture, bool) {
	if src == nil || name == "" {
		return nil, false
	}
	t, ok := src.Texture(name)
	if !ok || !t.Ready() || t.Bounds().Empty() {
		return nil, false
	}
	return t, true
}
