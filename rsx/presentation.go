// presentation.go - Display rectangle scan-out from VRAM to RGBA images

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package rsx

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Present flushes pending primitives and returns the display rectangle as an
// RGBA image scaled by the internal upscale factor. VRAM is not modified.
func (r *Renderer) Present() *image.RGBA {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.flushLocked()

	r.vram.mutex.RLock()
	native := scanOut(r.vram, r.state.Display)
	r.vram.mutex.RUnlock()

	return upscale(native, r.options.Upscale)
}

// VRAMImage returns all of VRAM as a 1024x512 15-bit image, for debugging
func (r *Renderer) VRAMImage() *image.RGBA {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.flushLocked()

	r.vram.mutex.RLock()
	defer r.vram.mutex.RUnlock()

	return scanOut(r.vram, DisplayMode{Width: VRAM_WIDTH_PIXELS, Height: VRAM_HEIGHT_PIXELS})
}

// scanOut converts a display rectangle to RGBA. Caller holds the VRAM lock.
func scanOut(v *VRAM, mode DisplayMode) *image.RGBA {
	w, h := int(mode.Width), int(mode.Height)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if mode.Depth24 {
		scanOut24(v, mode, img)
	} else {
		scanOut16(v, mode, img)
	}
	return img
}

// scanOut16 reconstructs each cell through the normalized form
func scanOut16(v *VRAM, mode DisplayMode, img *image.RGBA) {
	for y := 0; y < int(mode.Height); y++ {
		for x := 0; x < int(mode.Width); x++ {
			c := UnpackColor(v.at(int(mode.X)+x, int(mode.Y)+y))
			img.SetRGBA(x, y, color.RGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: 0xFF})
		}
	}
}

// scanOut24 treats each VRAM line as a byte stream, low byte of a cell
// first, and takes three bytes per pixel. Three cells hold two pixels.
func scanOut24(v *VRAM, mode DisplayMode, img *image.RGBA) {
	for y := 0; y < int(mode.Height); y++ {
		line := int(mode.Y) + y
		for x := 0; x < int(mode.Width); x++ {
			k := x * 3
			img.SetRGBA(x, y, color.RGBA{
				R: lineByte(v, int(mode.X), line, k),
				G: lineByte(v, int(mode.X), line, k+1),
				B: lineByte(v, int(mode.X), line, k+2),
				A: 0xFF,
			})
		}
	}
}

func lineByte(v *VRAM, x0, y, k int) uint8 {
	cell := v.at(x0+k/2, y)
	if k&1 == 0 {
		return uint8(cell)
	}
	return uint8(cell >> 8)
}

// upscale enlarges an image by an integer factor with nearest-neighbour
// sampling
func upscale(src *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
