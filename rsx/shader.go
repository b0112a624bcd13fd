// shader.go - Fragment shading pipeline shared by the integer and float strategies

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
shader.go - Fragment Shading

Every rasterized fragment runs the same sequence:
1. no-texture primitives take the shading color and skip to gating
2. texel coordinate: clamp to the page, apply the texture window,
   scale X by the texels per cell and add the page origin
3. fetch the cell
4. 4bpp/8bpp: extract the palette index and fetch the CLUT entry
5. the 0x0000 sentinel discards
6. semi-transparency gating against the current pass
7. raw passthrough or texel * shading * 2
8. ordered dither
9. round back to 15 bits

The strategies differ only in how a VRAM cell is sampled.
*/

package rsx

import "math"

// Fragment is one rasterized sample of a primitive
type Fragment struct {
	X, Y  int        // Target VRAM cell
	Shade [3]float32 // Interpolated shading color, 0..1
	U, V  float32    // Interpolated page texel coordinate
}

// ShadingContext is the per-primitive input shared by its fragments
type ShadingContext struct {
	VRAM        *VRAM
	Attr        PrimitiveAttributes
	Window      TextureWindow
	Dither      bool // Primitive requested dithering and the internal depth allows it
	Upscale     int  // Internal resolution factor, scales dither coordinates
	DitherScale int  // Divisor applied before indexing the dither pattern
}

// FragmentShader turns a fragment into a packed cell or a discard
type FragmentShader interface {
	Name() string
	Shade(ctx *ShadingContext, f *Fragment, pass Pass) (uint16, bool)
}

// NewFragmentShader returns the strategy for an explicit kind. ShaderAuto
// resolves through the host capability probe.
func NewFragmentShader(kind ShaderKind) FragmentShader {
	switch kind {
	case ShaderFloat:
		return FloatShader{}
	case ShaderInteger:
		return IntegerShader{}
	}
	if probeIntegerTextures() {
		return IntegerShader{}
	}
	return FloatShader{}
}

// texelSource reads one VRAM cell as the strategy's texture unit sees it
type texelSource interface {
	fetch(v *VRAM, x, y int) uint16
}

// ditherTable is the 4x4 ordered dither pattern, row-major
var ditherTable = [16]int8{
	-4, 0, -3, 1,
	2, -2, 3, -1,
	-3, 1, -4, 0,
	3, -1, 2, -2,
}

// ditherOffset returns the pattern entry for a screen coordinate
func ditherOffset(x, y, scale int) int8 {
	if scale < 1 {
		scale = 1
	}
	dx := (x / scale) & 3
	dy := (y / scale) & 3
	return ditherTable[dy*4+dx]
}

// clampCoord floors an interpolated coordinate into the 256x256 page
func clampCoord(c float32) uint8 {
	i := int(math.Floor(float64(c)))
	if i < 0 {
		return 0
	}
	if i > TEXTURE_COORD_MAX {
		return TEXTURE_COORD_MAX
	}
	return uint8(i)
}

// texelAddress maps windowed page coordinates to the VRAM cell holding them
func texelAddress(attr PrimitiveAttributes, u, v uint8) (x, y int) {
	x = int(attr.TexturePage[0]) + int(u>>attr.Depth.Shift())
	y = int(attr.TexturePage[1]) + int(v)
	return x, y
}

// clutShift is the bit position of texel u inside its cell
func clutShift(u uint8, depthShift uint) uint {
	align := uint(u) & (1<<depthShift - 1)
	bpp := uint(16) >> depthShift
	return align * bpp
}

// clutIndex extracts the palette index of texel u from a fetched cell
func clutIndex(cell uint16, u uint8, depthShift uint) uint16 {
	bpp := uint(16) >> depthShift
	return (cell >> clutShift(u, depthShift)) & uint16(1<<bpp-1)
}

// sampleTexel resolves the final 16-bit texel for a fragment, following the
// CLUT indirection for paletted depths
func sampleTexel(src texelSource, ctx *ShadingContext, f *Fragment) uint16 {
	u, v := ctx.Window.Apply(clampCoord(f.U), clampCoord(f.V))
	x, y := texelAddress(ctx.Attr, u, v)
	cell := src.fetch(ctx.VRAM, x, y)
	if !ctx.Attr.Depth.Paletted() {
		return cell
	}
	index := clutIndex(cell, u, ctx.Attr.Depth.Shift())
	return src.fetch(ctx.VRAM, int(ctx.Attr.CLUT[0])+int(index), int(ctx.Attr.CLUT[1]))
}

// keepInPass implements the two-pass semi-transparency split
func keepInPass(texelFlag uint16, semiTransparent bool, pass Pass) bool {
	var semi uint16
	if semiTransparent {
		semi = 1
	}
	return texelFlag&semi == uint16(pass)
}

func shadeFragment(src texelSource, ctx *ShadingContext, f *Fragment, pass Pass) (uint16, bool) {
	var color Color
	var flag uint16

	if !ctx.Attr.Textured() {
		color = Color{R: f.Shade[0], G: f.Shade[1], B: f.Shade[2]}
		flag = 1
	} else {
		texel := sampleTexel(src, ctx, f)
		if texel == CELL_TRANSPARENT {
			return 0, false
		}
		flag = texel >> CELL_MASK_SHIFT
		color = UnpackColor(texel)
		if ctx.Attr.BlendMode == BlendBlended {
			color.R *= f.Shade[0] * 2
			color.G *= f.Shade[1] * 2
			color.B *= f.Shade[2] * 2
		}
	}

	if !keepInPass(flag, ctx.Attr.SemiTransparent, pass) {
		return 0, false
	}

	// Fragments are VRAM cells; the pattern is read at the cell's upscaled origin
	if ctx.Dither {
		d := float32(ditherOffset(f.X*ctx.Upscale, f.Y*ctx.Upscale, ctx.DitherScale)) / 255
		color.R += d
		color.G += d
		color.B += d
	}

	return PackColor(color), true
}

// blendSemiTransparent merges a semi-transparent fragment into the
// background cell per 5-bit channel, saturating. The fragment keeps its
// own mask bit.
func blendSemiTransparent(background, fragment uint16, mode SemiTransparencyMode) uint16 {
	br, bg, bb, _ := CellChannels(background)
	fr, fg, fb, mask := CellChannels(fragment)
	return MakeCell(
		blendChannel(br, fr, mode),
		blendChannel(bg, fg, mode),
		blendChannel(bb, fb, mode),
		mask,
	)
}

func blendChannel(b, f uint8, mode SemiTransparencyMode) uint8 {
	bi, fi := int(b), int(f)
	var v int
	switch mode {
	case SemiAverage:
		v = (bi + fi) / 2
	case SemiAdd:
		v = bi + fi
	case SemiSubtract:
		v = bi - fi
	case SemiAddQuarter:
		v = bi + fi/4
	default:
		v = fi
	}
	if v < 0 {
		return 0
	}
	if v > CELL_CHANNEL_MAX {
		return CELL_CHANNEL_MAX
	}
	return uint8(v)
}
