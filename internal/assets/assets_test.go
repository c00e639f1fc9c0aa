package assets

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/brushc/internal/texture"
	"github.com/Faultbox/brushc/pkg/material"
	"github.com/Faultbox/brushc/pkg/uv"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	writeImage(t, path, func(f *os.File) error {
		return png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h)))
	})
}

func writeBMP(t *testing.T, path string, w, h int) {
	t.Helper()
	writeImage(t, path, func(f *os.File) error {
		return bmp.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h)))
	})
}

func writeImage(t *testing.T, path string, encode func(*os.File) error) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := encode(f); err != nil {
		t.Fatal(err)
	}
}

func TestResolveFormats(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "stone.png"), 64, 32)
	writeBMP(t, filepath.Join(dir, "base", "wood.bmp"), 16, 8)
	if err := os.WriteFile(filepath.Join(dir, "metal.tga"), texture.TGAHeader(128, 128, 32), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewTextureDirs([]string{dir}, nil)
	tests := []struct {
		name string
		w, h int
	}{
		{"stone", 64, 32},
		{"STONE", 64, 32},
		{`base\wood`, 16, 8},
		{"metal", 128, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := r.Resolve(tt.name)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if m.Width != tt.w || m.Height != tt.h {
				t.Errorf("size = %dx%d, want %dx%d", m.Width, m.Height, tt.w, tt.h)
			}
		})
	}
}

func TestResolveLaterDirWins(t *testing.T) {
	base, override := t.TempDir(), t.TempDir()
	writePNG(t, filepath.Join(base, "stone.png"), 64, 64)
	writePNG(t, filepath.Join(override, "stone.png"), 256, 256)

	m, err := NewTextureDirs([]string{base, override}, nil).Resolve("stone")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Width != 256 {
		t.Errorf("width = %d, want the override's 256", m.Width)
	}
}

func TestResolveMissingIsCached(t *testing.T) {
	r := NewTextureDirs([]string{t.TempDir()}, nil)

	for range 2 {
		if _, err := r.Resolve("nowhere"); !errors.Is(err, material.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	}
	hits, misses := r.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits %d misses, want 1 and 1", hits, misses)
	}
}

func TestResolveAttachesHotspot(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "trim.png"), 256, 256)

	r := NewTextureDirs([]string{dir}, nil)
	atlas := uv.NewHotspotAtlas(256, 256, []uv.Rect{{W: 256, H: 32}})
	r.SetHotspot("TRIM", atlas)

	m, err := r.Resolve("trim")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Atlas != atlas {
		t.Error("hotspot atlas not attached")
	}
}

func TestChainAndStatic(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "stone.png"), 64, 64)

	r := Chain(Static{"Lava": {32, 16}}, NewTextureDirs([]string{dir}, nil))

	m, err := r.Resolve("lava")
	if err != nil || m.Width != 32 || m.Height != 16 {
		t.Errorf("lava = %+v, %v", m, err)
	}
	m, err = r.Resolve("stone")
	if err != nil || m.Width != 64 {
		t.Errorf("stone = %+v, %v", m, err)
	}
	if _, err := r.Resolve("sky"); !errors.Is(err, material.ErrNotFound) {
		t.Errorf("sky error = %v", err)
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	c.Set("a", &material.Material{Name: "a"})

	if _, ok := c.Get("a"); !ok {
		t.Error("expected hit")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("expected miss")
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = %d/%d", hits, misses)
	}
	c.Clear()
	if hits, misses := c.Stats(); hits != 0 || misses != 0 {
		t.Error("Clear did not reset stats")
	}
}
