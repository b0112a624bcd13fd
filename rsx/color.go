// color.go - 15-bit VRAM cell packing and normalized color reconstruction

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

/*
color.go - Cell Encodings

VRAM cells are stored as A(1) B(5) G(5) R(5). Two encodings of a cell exist:
- the raw uint16 form used by the integer shader and by every VRAM write
- a normalized float Color used by the float shader and by presentation

PackColor(UnpackColor(c)) == c holds for every cell. Any comparison against
the transparent sentinel must be made on the packed uint16, never on floats.
*/

package rsx

import "math"

// Color is a normalized cell: every channel lies in 0..1, A is the mask bit
type Color struct {
	R, G, B, A float32
}

// UnpackColor expands a packed cell to the normalized form
func UnpackColor(c uint16) Color {
	return Color{
		R: float32((c>>CELL_RED_SHIFT)&CELL_CHANNEL_MAX) / CELL_CHANNEL_MAX,
		G: float32((c>>CELL_GREEN_SHIFT)&CELL_CHANNEL_MAX) / CELL_CHANNEL_MAX,
		B: float32((c>>CELL_BLUE_SHIFT)&CELL_CHANNEL_MAX) / CELL_CHANNEL_MAX,
		A: float32(c >> CELL_MASK_SHIFT),
	}
}

// PackColor rounds a normalized color back to a packed cell.
// Channels round half up to 31 levels, alpha rounds to 0 or 1. Out of range
// values saturate.
func PackColor(c Color) uint16 {
	r := quantize(c.R, CELL_CHANNEL_MAX)
	g := quantize(c.G, CELL_CHANNEL_MAX)
	b := quantize(c.B, CELL_CHANNEL_MAX)
	a := quantize(c.A, 1)
	return r<<CELL_RED_SHIFT | g<<CELL_GREEN_SHIFT | b<<CELL_BLUE_SHIFT | a<<CELL_MASK_SHIFT
}

func quantize(v float32, levels int) uint16 {
	q := roundHalfUp(v * float32(levels))
	if q < 0 {
		return 0
	}
	if q > levels {
		return uint16(levels)
	}
	return uint16(q)
}

// roundHalfUp is floor(x + 0.5): 15.5 -> 16, 16.5 -> 17, -0.5 -> 0
func roundHalfUp(x float32) int {
	return int(math.Floor(float64(x) + 0.5))
}

// MakeCell packs 5-bit channels and the mask bit
func MakeCell(r, g, b uint8, mask bool) uint16 {
	c := uint16(r&CELL_CHANNEL_MAX)<<CELL_RED_SHIFT |
		uint16(g&CELL_CHANNEL_MAX)<<CELL_GREEN_SHIFT |
		uint16(b&CELL_CHANNEL_MAX)<<CELL_BLUE_SHIFT
	if mask {
		c |= CELL_MASK_BIT
	}
	return c
}

// CellChannels splits a packed cell into 5-bit channels and the mask bit
func CellChannels(c uint16) (r, g, b uint8, mask bool) {
	r = uint8((c >> CELL_RED_SHIFT) & CELL_CHANNEL_MAX)
	g = uint8((c >> CELL_GREEN_SHIFT) & CELL_CHANNEL_MAX)
	b = uint8((c >> CELL_BLUE_SHIFT) & CELL_CHANNEL_MAX)
	mask = c&CELL_MASK_BIT != 0
	return r, g, b, mask
}

// RGB888ToCell converts a 24-bit color through the normalized path.
// The mask bit is left clear.
func RGB888ToCell(rgb [3]uint8) uint16 {
	return PackColor(Color{
		R: float32(rgb[0]) / 255,
		G: float32(rgb[1]) / 255,
		B: float32(rgb[2]) / 255,
	})
}

// to8 scales a normalized channel to 8 bits, rounding half up
func to8(v float32) uint8 {
	q := roundHalfUp(v * 255)
	if q < 0 {
		return 0
	}
	if q > 255 {
		return 255
	}
	return uint8(q)
}
