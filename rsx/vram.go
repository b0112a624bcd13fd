// vram.go - Emulated 1024x512 video memory, texture source and render target

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
	"fmt"
	"sync"
)

// VRAM is the single store of 16-bit cells shared by texture reads and
// render target writes. All addressing wraps modulo the store dimensions.
type VRAM struct {
	mutex sync.RWMutex
	cells []uint16
}

// NewVRAM allocates a zeroed store
func NewVRAM() *VRAM {
	return &VRAM{cells: make([]uint16, VRAM_CELL_COUNT)}
}

func vramIndex(x, y int) int {
	return (y&VRAM_HEIGHT_MASK)*VRAM_WIDTH_PIXELS + (x & VRAM_WIDTH_MASK)
}

// at and set skip locking; callers hold the mutex
func (v *VRAM) at(x, y int) uint16 {
	return v.cells[vramIndex(x, y)]
}

func (v *VRAM) set(x, y int, c uint16) {
	v.cells[vramIndex(x, y)] = c
}

// Read returns the cell at (x, y)
func (v *VRAM) Read(x, y int) uint16 {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.at(x, y)
}

// Write stores a cell at (x, y)
func (v *VRAM) Write(x, y int, c uint16) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.set(x, y, c)
}

// LoadImage copies a w*h rectangle of cells, row-major, into VRAM
func (v *VRAM) LoadImage(x, y, w, h int, pixels []uint16) error {
	if w < 0 || h < 0 {
		return fmt.Errorf("load image: negative size %dx%d", w, h)
	}
	if len(pixels) < w*h {
		return fmt.Errorf("load image: %dx%d needs %d cells, got %d", w, h, w*h, len(pixels))
	}

	v.mutex.Lock()
	defer v.mutex.Unlock()

	for row := 0; row < h; row++ {
		src := pixels[row*w : row*w+w]
		for col, c := range src {
			v.set(x+col, y+row, c)
		}
	}
	return nil
}

// StoreImage reads a w*h rectangle of cells back out, row-major
func (v *VRAM) StoreImage(x, y, w, h int) []uint16 {
	if w <= 0 || h <= 0 {
		return nil
	}

	v.mutex.RLock()
	defer v.mutex.RUnlock()

	out := make([]uint16, 0, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			out = append(out, v.at(x+col, y+row))
		}
	}
	return out
}

// CopyRect copies a rectangle within VRAM. The source is read in full before
// any destination cell is written, so overlapping copies see the old contents.
func (v *VRAM) CopyRect(srcX, srcY, dstX, dstY, w, h int) {
	block := v.StoreImage(srcX, srcY, w, h)
	if block == nil {
		return
	}
	_ = v.LoadImage(dstX, dstY, w, h, block)
}

// Fill sets every cell of a rectangle to c
func (v *VRAM) Fill(x, y, w, h int, c uint16) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			v.set(x+col, y+row, c)
		}
	}
}

// Reset clears every cell to zero
func (v *VRAM) Reset() {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	clear(v.cells)
}

// Snapshot returns a copy of the whole store, row-major
func (v *VRAM) Snapshot() []uint16 {
	v.mutex.RLock()
	defer v.mutex.RUnlock()

	out := make([]uint16, len(v.cells))
	copy(out, v.cells)
	return out
}
