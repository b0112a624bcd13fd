// shader_test.go - Fragment shading pipeline tests

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
	"math/rand"
	"testing"
)

func newTestContext(v *VRAM, attr PrimitiveAttributes) *ShadingContext {
	return &ShadingContext{
		VRAM:        v,
		Attr:        attr,
		Window:      DefaultTextureWindow,
		Upscale:     1,
		DitherScale: 1,
	}
}

var testShaders = []FragmentShader{IntegerShader{}, FloatShader{}}

// =============================================================================
// Sentinel and gating
// =============================================================================

func TestRSX_Shader_TransparentSentinelDiscards(t *testing.T) {
	v := NewVRAM()
	v.Write(4, 0, 0x7FFF)

	modes := []BlendMode{BlendRawTexture, BlendBlended}
	for _, s := range testShaders {
		for _, mode := range modes {
			for _, semi := range []bool{false, true} {
				attr := PrimitiveAttributes{Depth: TextureDepth16Bpp, BlendMode: mode, SemiTransparent: semi}
				ctx := newTestContext(v, attr)
				f := &Fragment{X: 100, Y: 100, Shade: [3]float32{1, 1, 1}, U: 3.2, V: 0.7}
				for _, pass := range []Pass{PassOpaque, PassSemiTransparent} {
					if _, ok := s.Shade(ctx, f, pass); ok {
						t.Errorf("%s shader kept a 0x0000 texel (mode %v, semi %v, pass %d)", s.Name(), mode, semi, pass)
					}
				}
			}
		}
	}
}

func TestRSX_Shader_GatingTable(t *testing.T) {
	for _, flag := range []uint16{0, 1} {
		for _, semi := range []bool{false, true} {
			var p uint16
			if semi {
				p = 1
			}
			kept := 0
			for _, pass := range []Pass{PassOpaque, PassSemiTransparent} {
				want := flag&p == uint16(pass)
				got := keepInPass(flag, semi, pass)
				if got != want {
					t.Errorf("keepInPass(%d, %v, %d) = %v, want %v", flag, semi, pass, got, want)
				}
				if got {
					kept++
				}
			}
			if kept != 1 {
				t.Errorf("flag %d semi %v survived %d passes, want exactly 1", flag, semi, kept)
			}
		}
	}
}

func TestRSX_Shader_SemiTransparentTexelSelectsPass(t *testing.T) {
	v := NewVRAM()
	v.Write(0, 0, MakeCell(10, 10, 10, true))
	v.Write(1, 0, MakeCell(10, 10, 10, false))

	attr := PrimitiveAttributes{Depth: TextureDepth16Bpp, BlendMode: BlendRawTexture, SemiTransparent: true}
	for _, s := range testShaders {
		ctx := newTestContext(v, attr)

		flagged := &Fragment{U: 0.5, V: 0.5}
		if _, ok := s.Shade(ctx, flagged, PassOpaque); ok {
			t.Errorf("%s: flagged texel kept in opaque pass", s.Name())
		}
		if _, ok := s.Shade(ctx, flagged, PassSemiTransparent); !ok {
			t.Errorf("%s: flagged texel dropped in semi-transparent pass", s.Name())
		}

		plain := &Fragment{U: 1.5, V: 0.5}
		if _, ok := s.Shade(ctx, plain, PassOpaque); !ok {
			t.Errorf("%s: unflagged texel dropped in opaque pass", s.Name())
		}
		if _, ok := s.Shade(ctx, plain, PassSemiTransparent); ok {
			t.Errorf("%s: unflagged texel kept in semi-transparent pass", s.Name())
		}
	}
}

func TestRSX_Shader_UntexturedSemiTransparentUsesSecondPass(t *testing.T) {
	ctx := newTestContext(NewVRAM(), PrimitiveAttributes{BlendMode: BlendNoTexture, SemiTransparent: true})
	f := &Fragment{Shade: [3]float32{1, 0, 0}}
	if _, ok := (IntegerShader{}).Shade(ctx, f, PassOpaque); ok {
		t.Error("untextured semi-transparent fragment kept in opaque pass")
	}
	c, ok := IntegerShader{}.Shade(ctx, f, PassSemiTransparent)
	if !ok {
		t.Fatal("untextured semi-transparent fragment dropped in semi-transparent pass")
	}
	if c != 0x001F {
		t.Errorf("untextured red = 0x%04X, want 0x001F", c)
	}
}

// =============================================================================
// Texel addressing and CLUT
// =============================================================================

func TestRSX_Shader_CLUTShifts(t *testing.T) {
	tests := []struct {
		depth TextureDepth
		want  []uint
	}{
		{TextureDepth4Bpp, []uint{0, 4, 8, 12, 0, 4, 8, 12}},
		{TextureDepth8Bpp, []uint{0, 8, 0, 8, 0, 8, 0, 8}},
		{TextureDepth16Bpp, []uint{0, 0, 0, 0, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		for u, want := range tt.want {
			if got := clutShift(uint8(u), tt.depth.Shift()); got != want {
				t.Errorf("%v: clutShift(%d) = %d, want %d", tt.depth, u, got, want)
			}
		}
	}
}

func TestRSX_Shader_TexelsPerCell(t *testing.T) {
	tests := []struct {
		depth   TextureDepth
		perCell int
	}{
		{TextureDepth4Bpp, 4},
		{TextureDepth8Bpp, 2},
		{TextureDepth16Bpp, 1},
	}
	for _, tt := range tests {
		attr := PrimitiveAttributes{TexturePage: [2]uint16{64, 256}, Depth: tt.depth}
		for u := 0; u < 16; u++ {
			x, y := texelAddress(attr, uint8(u), 3)
			if x != 64+u/tt.perCell || y != 259 {
				t.Errorf("%v: texelAddress(%d, 3) = (%d, %d), want (%d, 259)", tt.depth, u, x, y, 64+u/tt.perCell)
			}
		}
	}
}

func TestRSX_Shader_4BppCLUTLookup(t *testing.T) {
	v := NewVRAM()
	v.Write(64, 0, 0x3210) // Texels 0..3 hold indices 0,1,2,3
	clut := []uint16{0x0001, 0x0002, 0x8003, 0x0004}
	if err := v.LoadImage(0, 100, 4, 1, clut); err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	attr := PrimitiveAttributes{
		TexturePage: [2]uint16{64, 0},
		CLUT:        [2]uint16{0, 100},
		Depth:       TextureDepth4Bpp,
		BlendMode:   BlendRawTexture,
	}
	for _, s := range testShaders {
		ctx := newTestContext(v, attr)
		for u := 0; u < 4; u++ {
			f := &Fragment{U: float32(u) + 0.5, V: 0.5}
			got, ok := s.Shade(ctx, f, PassOpaque)
			if !ok {
				t.Fatalf("%s: texel %d discarded", s.Name(), u)
			}
			if got != clut[u] {
				t.Errorf("%s: texel %d = 0x%04X, want 0x%04X", s.Name(), u, got, clut[u])
			}
		}
	}
}

func TestRSX_Shader_8BppCLUTLookup(t *testing.T) {
	v := NewVRAM()
	v.Write(128, 0, 0xAB12)
	v.Write(0x12, 200, MakeCell(1, 2, 3, false))
	v.Write(0xAB, 200, MakeCell(4, 5, 6, false))

	attr := PrimitiveAttributes{
		TexturePage: [2]uint16{128, 0},
		CLUT:        [2]uint16{0, 200},
		Depth:       TextureDepth8Bpp,
		BlendMode:   BlendRawTexture,
	}
	ctx := newTestContext(v, attr)

	even, _ := IntegerShader{}.Shade(ctx, &Fragment{U: 0.5, V: 0.5}, PassOpaque)
	odd, _ := IntegerShader{}.Shade(ctx, &Fragment{U: 1.5, V: 0.5}, PassOpaque)
	if even != MakeCell(1, 2, 3, false) {
		t.Errorf("even texel = 0x%04X, want CLUT[0x12]", even)
	}
	if odd != MakeCell(4, 5, 6, false) {
		t.Errorf("odd texel = 0x%04X, want CLUT[0xAB]", odd)
	}
}

func TestRSX_Shader_PalettedIndexZeroEntryDiscards(t *testing.T) {
	v := NewVRAM()
	v.Write(64, 0, 0x0001) // Texel 0 -> index 1, CLUT entry 1 left at 0x0000
	v.Write(0, 300, 0x7FFF)

	attr := PrimitiveAttributes{
		TexturePage: [2]uint16{64, 0},
		CLUT:        [2]uint16{0, 300},
		Depth:       TextureDepth4Bpp,
		BlendMode:   BlendBlended,
	}
	ctx := newTestContext(v, attr)
	if _, ok := (IntegerShader{}).Shade(ctx, &Fragment{U: 0.5, V: 0.5, Shade: [3]float32{1, 1, 1}}, PassOpaque); ok {
		t.Error("transparent CLUT entry was not discarded")
	}
}

func TestRSX_Shader_TextureWindowRepeats(t *testing.T) {
	v := NewVRAM()
	for x := 0; x < 16; x++ {
		v.Write(x, 0, uint16(0x100+x))
	}
	attr := PrimitiveAttributes{Depth: TextureDepth16Bpp, BlendMode: BlendRawTexture}
	ctx := newTestContext(v, attr)
	ctx.Window = TextureWindow{MaskX: 0xFC, MaskY: 0xFF}

	for u := 0; u < 16; u++ {
		got, ok := IntegerShader{}.Shade(ctx, &Fragment{U: float32(u) + 0.5, V: 0.5}, PassOpaque)
		if !ok {
			t.Fatalf("texel %d discarded", u)
		}
		want := uint16(0x100 + (u &^ 3))
		if got != want {
			t.Errorf("u=%d sampled 0x%04X, want 0x%04X", u, got, want)
		}
	}

	wu, _ := ctx.Window.Apply(7, 9)
	if wu != 4 {
		t.Errorf("window maps u=7 to %d, want 4", wu)
	}
}

func TestRSX_Shader_CoordinatesClampToPage(t *testing.T) {
	if got := clampCoord(-3.5); got != 0 {
		t.Errorf("clampCoord(-3.5) = %d, want 0", got)
	}
	if got := clampCoord(300); got != 255 {
		t.Errorf("clampCoord(300) = %d, want 255", got)
	}
	if got := clampCoord(17.99); got != 17 {
		t.Errorf("clampCoord(17.99) = %d, want 17", got)
	}
}

// =============================================================================
// Color combination and dithering
// =============================================================================

func TestRSX_Shader_BlendModes(t *testing.T) {
	v := NewVRAM()
	texel := PackColor(Color{R: 200.0 / 255, G: 100.0 / 255, B: 50.0 / 255, A: 1})
	v.Write(0, 0, texel)

	shade := float32(128) / 255
	f := &Fragment{Shade: [3]float32{shade, shade, shade}, U: 0.5, V: 0.5}

	for _, s := range testShaders {
		blended := newTestContext(v, PrimitiveAttributes{Depth: TextureDepth16Bpp, BlendMode: BlendBlended})
		got, ok := s.Shade(blended, f, PassOpaque)
		if !ok {
			t.Fatalf("%s: blended fragment discarded", s.Name())
		}
		if got != texel {
			t.Errorf("%s: half-intensity blend = 0x%04X, want texel 0x%04X", s.Name(), got, texel)
		}

		raw := newTestContext(v, PrimitiveAttributes{Depth: TextureDepth16Bpp, BlendMode: BlendRawTexture})
		got, ok = s.Shade(raw, f, PassOpaque)
		if !ok || got != texel {
			t.Errorf("%s: raw texture = 0x%04X (kept %v), want 0x%04X", s.Name(), got, ok, texel)
		}
	}
}

func TestRSX_Shader_BlendedBrightensAndSaturates(t *testing.T) {
	v := NewVRAM()
	v.Write(0, 0, MakeCell(20, 8, 1, false))
	ctx := newTestContext(v, PrimitiveAttributes{Depth: TextureDepth16Bpp, BlendMode: BlendBlended})

	got, ok := IntegerShader{}.Shade(ctx, &Fragment{Shade: [3]float32{1, 1, 1}, U: 0.5, V: 0.5}, PassOpaque)
	if !ok {
		t.Fatal("fragment discarded")
	}
	if want := MakeCell(31, 16, 2, false); got != want {
		t.Errorf("full-intensity blend = 0x%04X, want 0x%04X", got, want)
	}
}

func TestRSX_Shader_DitherPattern(t *testing.T) {
	want := [4][4]int8{
		{-4, 0, -3, 1},
		{2, -2, 3, -1},
		{-3, 1, -4, 0},
		{3, -1, 2, -2},
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := ditherOffset(x, y, 1); got != want[y%4][x%4] {
				t.Errorf("ditherOffset(%d, %d) = %d, want %d", x, y, got, want[y%4][x%4])
			}
		}
	}
	if got := ditherOffset(5, 6, 2); got != 2 {
		t.Errorf("ditherOffset(5, 6, scale 2) = %d, want 2", got)
	}
	if ditherOffset(13, 7, 1) != ditherOffset(13, 7, 1) {
		t.Error("dither offset is not deterministic")
	}
}

func TestRSX_Shader_DitherDisabledIsZeroOffset(t *testing.T) {
	v := NewVRAM()
	attr := PrimitiveAttributes{BlendMode: BlendNoTexture, Dither: true}
	on := newTestContext(v, attr)
	on.Dither = true
	off := newTestContext(v, attr)

	shade := [3]float32{0.5, 0.5, 0.5}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			f := &Fragment{X: x, Y: y, Shade: shade}
			dithered, _ := IntegerShader{}.Shade(on, f, PassOpaque)
			plain, _ := IntegerShader{}.Shade(off, f, PassOpaque)
			if ditherOffset(x, y, 1) == 0 && dithered != plain {
				t.Errorf("(%d,%d): zero offset changed the color", x, y)
			}
		}
	}

	f := &Fragment{X: 0, Y: 0, Shade: shade}
	dithered, _ := IntegerShader{}.Shade(on, f, PassOpaque)
	plain, _ := IntegerShader{}.Shade(off, f, PassOpaque)
	if plain != MakeCell(16, 16, 16, false) {
		t.Errorf("undithered 0.5 = 0x%04X, want 16 per channel", plain)
	}
	if dithered != MakeCell(15, 15, 15, false) {
		t.Errorf("dithered 0.5 at (0,0) = 0x%04X, want 15 per channel", dithered)
	}
}

// Fragments are per VRAM cell, so an unscaled pattern at upscale 2 samples
// the cell's top-left upscaled pixel: only even pattern rows and columns.
func TestRSX_Shader_DitherSamplesUpscaledCellOrigin(t *testing.T) {
	v := NewVRAM()
	attr := PrimitiveAttributes{BlendMode: BlendNoTexture, Dither: true}
	native := newTestContext(v, attr)
	native.Dither = true
	unscaled := newTestContext(v, attr)
	unscaled.Dither = true
	unscaled.Upscale = 2
	scaled := newTestContext(v, attr)
	scaled.Dither = true
	scaled.Upscale = 2
	scaled.DitherScale = 2

	shade := [3]float32{0.5, 0.5, 0.5}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got, _ := (IntegerShader{}).Shade(unscaled, &Fragment{X: x, Y: y, Shade: shade}, PassOpaque)
			want, _ := (IntegerShader{}).Shade(native, &Fragment{X: 2 * x, Y: 2 * y, Shade: shade}, PassOpaque)
			if got != want {
				t.Errorf("unscaled (%d,%d) = 0x%04X, want native (%d,%d) = 0x%04X", x, y, got, 2*x, 2*y, want)
			}

			got, _ = (IntegerShader{}).Shade(scaled, &Fragment{X: x, Y: y, Shade: shade}, PassOpaque)
			want, _ = (IntegerShader{}).Shade(native, &Fragment{X: x, Y: y, Shade: shade}, PassOpaque)
			if got != want {
				t.Errorf("scaled (%d,%d) = 0x%04X, want native 0x%04X", x, y, got, want)
			}
		}
	}
}

func TestRSX_Shader_SemiTransparencyModes(t *testing.T) {
	bg := MakeCell(20, 10, 4, false)
	fg := MakeCell(16, 30, 8, true)
	tests := []struct {
		mode SemiTransparencyMode
		want uint16
	}{
		{SemiAverage, MakeCell(18, 20, 6, true)},
		{SemiAdd, MakeCell(31, 31, 12, true)},
		{SemiSubtract, MakeCell(4, 0, 0, true)},
		{SemiAddQuarter, MakeCell(24, 17, 6, true)},
	}
	for _, tt := range tests {
		if got := blendSemiTransparent(bg, fg, tt.mode); got != tt.want {
			t.Errorf("%v: 0x%04X, want 0x%04X", tt.mode, got, tt.want)
		}
	}
}

// =============================================================================
// Strategy equivalence
// =============================================================================

func TestRSX_Shader_StrategiesAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	v := NewVRAM()
	cells := make([]uint16, VRAM_CELL_COUNT)
	for i := range cells {
		cells[i] = uint16(rng.Intn(0x10000))
		if i%7 == 0 {
			cells[i] = 0
		}
	}
	if err := v.LoadImage(0, 0, VRAM_WIDTH_PIXELS, VRAM_HEIGHT_PIXELS, cells); err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	depths := []TextureDepth{TextureDepth4Bpp, TextureDepth8Bpp, TextureDepth16Bpp}
	modes := []BlendMode{BlendNoTexture, BlendRawTexture, BlendBlended}
	for i := 0; i < 5000; i++ {
		attr := PrimitiveAttributes{
			TexturePage:     [2]uint16{uint16(rng.Intn(16) * 64), uint16(rng.Intn(2) * 256)},
			CLUT:            [2]uint16{uint16(rng.Intn(64) * 16), uint16(rng.Intn(512))},
			Depth:           depths[rng.Intn(3)],
			BlendMode:       modes[rng.Intn(3)],
			SemiTransparent: rng.Intn(2) == 1,
		}
		ctx := newTestContext(v, attr)
		ctx.Dither = rng.Intn(2) == 1
		ctx.Window = TextureWindow{
			MaskX: uint8(rng.Intn(256)), MaskY: uint8(rng.Intn(256)),
			OrX: uint8(rng.Intn(256)), OrY: uint8(rng.Intn(256)),
		}
		f := &Fragment{
			X:     rng.Intn(VRAM_WIDTH_PIXELS),
			Y:     rng.Intn(VRAM_HEIGHT_PIXELS),
			Shade: [3]float32{rng.Float32(), rng.Float32(), rng.Float32()},
			U:     rng.Float32() * 256,
			V:     rng.Float32() * 256,
		}
		for _, pass := range []Pass{PassOpaque, PassSemiTransparent} {
			ic, iok := IntegerShader{}.Shade(ctx, f, pass)
			fc, fok := FloatShader{}.Shade(ctx, f, pass)
			if ic != fc || iok != fok {
				t.Fatalf("case %d pass %d: integer (0x%04X, %v) != float (0x%04X, %v)", i, pass, ic, iok, fc, fok)
			}
		}
	}
}

func TestRSX_Shader_NewFragmentShaderExplicit(t *testing.T) {
	if got := NewFragmentShader(ShaderInteger).Name(); got != "integer" {
		t.Errorf("ShaderInteger -> %s", got)
	}
	if got := NewFragmentShader(ShaderFloat).Name(); got != "float" {
		t.Errorf("ShaderFloat -> %s", got)
	}
}
