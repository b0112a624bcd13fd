// draw_state.go - Raster state set by the driving emulator between primitives

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

// TextureWindow restricts texel coordinates to a repeating sub-region of the
// page: coord = (coord & mask) | or, per axis.
type TextureWindow struct {
	MaskX, MaskY uint8
	OrX, OrY     uint8
}

// DefaultTextureWindow leaves coordinates untouched
var DefaultTextureWindow = TextureWindow{MaskX: 0xFF, MaskY: 0xFF}

// Apply maps a page coordinate through the window
func (w TextureWindow) Apply(u, v uint8) (uint8, uint8) {
	return (u & w.MaskX) | w.OrX, (v & w.MaskY) | w.OrY
}

// DrawArea is the scissor rectangle, in VRAM cells
type DrawArea struct {
	X, Y          uint16
	Width, Height uint16
}

// Contains reports whether a VRAM cell lies inside the area
func (a DrawArea) Contains(x, y int) bool {
	return x >= int(a.X) && y >= int(a.Y) &&
		x < int(a.X)+int(a.Width) && y < int(a.Y)+int(a.Height)
}

// DisplayMode is the VRAM rectangle scanned out for presentation
type DisplayMode struct {
	X, Y          uint16
	Width, Height uint16
	Depth24       bool // 24bpp straight passthrough instead of 15-bit cells
}

// DrawState is the complete mutable raster state owned by one renderer
type DrawState struct {
	OffsetX, OffsetY int16
	Area             DrawArea
	Window           TextureWindow
	Display          DisplayMode
}

// NewDrawState returns the power-on state: no offset, full-VRAM draw area,
// identity texture window and a 320x240 15-bit display at the origin.
func NewDrawState() DrawState {
	return DrawState{
		Area:   DrawArea{Width: VRAM_WIDTH_PIXELS, Height: VRAM_HEIGHT_PIXELS},
		Window: DefaultTextureWindow,
		Display: DisplayMode{
			Width:  RSX_DEFAULT_DISPLAY_WIDTH,
			Height: RSX_DEFAULT_DISPLAY_HEIGHT,
		},
	}
}
