// rsx_constants.go - Hardware constants for the RSX PlayStation GPU renderer

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

// VRAM geometry
const (
	VRAM_WIDTH_PIXELS  = 1024 // Cells per VRAM row
	VRAM_HEIGHT_PIXELS = 512  // VRAM rows
	VRAM_CELL_COUNT    = VRAM_WIDTH_PIXELS * VRAM_HEIGHT_PIXELS
	VRAM_WIDTH_MASK    = VRAM_WIDTH_PIXELS - 1
	VRAM_HEIGHT_MASK   = VRAM_HEIGHT_PIXELS - 1
)

// Texture page geometry
const (
	TEXTURE_PAGE_SIZE = 256 // Texture pages are 256x256 texels
	TEXTURE_COORD_MAX = TEXTURE_PAGE_SIZE - 1
)

// 15-bit packed cell layout: A(1) B(5) G(5) R(5)
const (
	CELL_RED_SHIFT   = 0
	CELL_GREEN_SHIFT = 5
	CELL_BLUE_SHIFT  = 10
	CELL_MASK_SHIFT  = 15
	CELL_CHANNEL_MAX = 0x1F
	CELL_MASK_BIT    = 1 << CELL_MASK_SHIFT

	CELL_TRANSPARENT  = 0x0000 // Reserved sentinel, never opaque black
	CELL_OPAQUE_BLACK = CELL_MASK_BIT
)

// Batching
const (
	RSX_MAX_BATCH_PRIMITIVES = 4096 // Pending triangles before a forced flush
)

// Output geometry and timing
const (
	RSX_NATIVE_MAX_WIDTH  = 640
	RSX_NATIVE_MAX_HEIGHT = 480
	RSX_ASPECT_RATIO      = 4.0 / 3.0
	RSX_SAMPLE_RATE       = 44100

	RSX_FPS_NTSC = 59.81
	RSX_FPS_PAL  = 49.76

	RSX_MIN_UPSCALE = 1
	RSX_MAX_UPSCALE = 12
)

// Default display mode at power-on
const (
	RSX_DEFAULT_DISPLAY_WIDTH  = 320
	RSX_DEFAULT_DISPLAY_HEIGHT = 240
)
