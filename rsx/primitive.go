// primitive.go - Primitive descriptors handed to the renderer by the emulator core

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

import "fmt"

// TextureDepth is the texel size of a textured primitive
type TextureDepth int

const (
	TextureDepth4Bpp  TextureDepth = iota // 16-entry CLUT, four texels per cell
	TextureDepth8Bpp                      // 256-entry CLUT, two texels per cell
	TextureDepth16Bpp                     // Direct color, one texel per cell
)

// Shift is log2 of the texels packed into one VRAM cell
func (d TextureDepth) Shift() uint {
	switch d {
	case TextureDepth4Bpp:
		return 2
	case TextureDepth8Bpp:
		return 1
	default:
		return 0
	}
}

// Paletted reports whether texels are CLUT indices
func (d TextureDepth) Paletted() bool {
	return d == TextureDepth4Bpp || d == TextureDepth8Bpp
}

func (d TextureDepth) String() string {
	switch d {
	case TextureDepth4Bpp:
		return "4bpp"
	case TextureDepth8Bpp:
		return "8bpp"
	case TextureDepth16Bpp:
		return "16bpp"
	}
	return fmt.Sprintf("TextureDepth(%d)", int(d))
}

// BlendMode selects how a fragment color is produced
type BlendMode int

const (
	BlendNoTexture  BlendMode = iota // Flat or Gouraud fill
	BlendRawTexture                  // Texel used verbatim
	BlendBlended                     // Texel modulated by shading color
)

func (m BlendMode) String() string {
	switch m {
	case BlendNoTexture:
		return "no-texture"
	case BlendRawTexture:
		return "raw-texture"
	case BlendBlended:
		return "blended"
	}
	return fmt.Sprintf("BlendMode(%d)", int(m))
}

// SemiTransparencyMode combines a semi-transparent fragment F with the
// background cell B already in VRAM
type SemiTransparencyMode int

const (
	SemiAverage    SemiTransparencyMode = iota // B/2 + F/2
	SemiAdd                                    // B + F
	SemiSubtract                               // B - F
	SemiAddQuarter                             // B + F/4
)

func (m SemiTransparencyMode) String() string {
	switch m {
	case SemiAverage:
		return "average"
	case SemiAdd:
		return "add"
	case SemiSubtract:
		return "subtract"
	case SemiAddQuarter:
		return "add-quarter"
	}
	return fmt.Sprintf("SemiTransparencyMode(%d)", int(m))
}

// Pass selects which half of the two-pass semi-transparency scheme runs
type Pass uint16

const (
	PassOpaque Pass = iota
	PassSemiTransparent
)

// Vertex is one corner of a primitive before the draw offset is applied
type Vertex struct {
	Position [2]int16
	Color    [3]uint8  // 24-bit shading color
	TexCoord [2]uint16 // Page-relative texel coordinate
}

// PrimitiveAttributes is the per-draw descriptor shared by every vertex
type PrimitiveAttributes struct {
	TexturePage          [2]uint16 // Page origin in VRAM cells
	CLUT                 [2]uint16 // Palette row origin in VRAM cells
	Depth                TextureDepth
	BlendMode            BlendMode
	SemiTransparent      bool
	SemiTransparencyMode SemiTransparencyMode
	Dither               bool
}

// Textured reports whether fragments sample VRAM
func (a PrimitiveAttributes) Textured() bool {
	return a.BlendMode != BlendNoTexture
}

// PackedColor decodes a 0x00BBGGRR color word into RGB bytes
func PackedColor(c uint32) [3]uint8 {
	return [3]uint8{uint8(c), uint8(c >> 8), uint8(c >> 16)}
}

// NewVertex builds a vertex from the emulator's packed representation
func NewVertex(x, y int16, color uint32, u, v uint16) Vertex {
	return Vertex{
		Position: [2]int16{x, y},
		Color:    PackedColor(color),
		TexCoord: [2]uint16{u, v},
	}
}

// primitiveKind distinguishes queued triangles from lines
type primitiveKind int

const (
	kindTriangle primitiveKind = iota
	kindLine
)

// queuedPrimitive is a primitive waiting in the batch. The draw state in
// effect at submission is still current when it runs, since every state
// change flushes the batch first.
type queuedPrimitive struct {
	kind     primitiveKind
	attr     PrimitiveAttributes
	vertices [3]Vertex // Lines use the first two
}
