//go:build headless

package main

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testFrame() *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := 3; i < len(frame.Pix); i += 4 {
		frame.Pix[i] = 0xFF
	}
	frame.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	frame.SetRGBA(2, 1, color.RGBA{0, 132, 255, 255})
	return frame
}

func TestFrameWriter_Formats(t *testing.T) {
	decoders := map[string]func(io.Reader) (image.Image, error){
		"png":  png.Decode,
		"bmp":  bmp.Decode,
		"tiff": tiff.Decode,
		"TIF":  tiff.Decode,
	}
	for ext, decode := range decoders {
		t.Run(ext, func(t *testing.T) {
			fw, err := NewFrameWriter(filepath.Join(t.TempDir(), "frame%02d."+ext))
			if err != nil {
				t.Fatalf("NewFrameWriter: %v", err)
			}
			src := testFrame()
			for range 2 {
				if err := fw.UpdateFrame(src); err != nil {
					t.Fatalf("UpdateFrame: %v", err)
				}
			}
			if fw.Written() != 2 {
				t.Fatalf("written %d, want 2", fw.Written())
			}

			f, err := os.Open(fw.Path(1))
			if err != nil {
				t.Fatalf("second frame missing: %v", err)
			}
			defer f.Close()
			img, err := decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
				t.Fatalf("bounds %v", img.Bounds())
			}
			for _, p := range []image.Point{{0, 0}, {2, 1}, {1, 0}} {
				want := src.RGBAAt(p.X, p.Y)
				r, g, b, _ := img.At(p.X, p.Y).RGBA()
				if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
					t.Fatalf("pixel %v = %d,%d,%d want %v", p, r>>8, g>>8, b>>8, want)
				}
			}
		})
	}
}

func TestFrameWriter_PlainNameOverwrites(t *testing.T) {
	name := filepath.Join(t.TempDir(), "last.png")
	fw, err := NewFrameWriter(name)
	if err != nil {
		t.Fatalf("NewFrameWriter: %v", err)
	}
	if fw.Path(0) != name || fw.Path(7) != name {
		t.Fatalf("plain name expanded: %q %q", fw.Path(0), fw.Path(7))
	}
}

func TestFrameWriter_RejectsUnknownExtension(t *testing.T) {
	for _, name := range []string{"out.jpg", "out", "frame%03d.gif"} {
		if _, err := NewFrameWriter(name); err == nil {
			t.Errorf("%q: expected error", name)
		}
	}
}

func TestFrameWriter_PercentInDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run%1")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	fw, err := NewFrameWriter(filepath.Join(dir, "frame%03d.png"))
	if err != nil {
		t.Fatalf("NewFrameWriter: %v", err)
	}
	if got, want := fw.Path(7), filepath.Join(dir, "frame007.png"); got != want {
		t.Fatalf("Path(7) = %q, want %q", got, want)
	}
	if err := fw.UpdateFrame(testFrame()); err != nil {
		t.Fatalf("UpdateFrame: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "frame000.png")); err != nil {
		t.Fatalf("frame not written: %v", err)
	}
}
