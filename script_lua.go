// script_lua.go - Lua command scripts driving the RSX primitive protocol

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
script_lua.go - RSX Script Host

A script stands in for the emulator core: it sets draw state, submits
primitives, moves VRAM rectangles and ends each frame with frame().

	set_draw_offset(x, y)
	set_draw_area(x, y, w, h)
	set_texture_window(mask_x, mask_y, or_x, or_y)
	set_display_mode(x, y, w, h [, depth24])
	triangle{v1, v2, v3, page={x,y}, clut={x,y}, depth="4bpp",
	         blend="raw", semi=true, semi_mode="add", dither=true}
	quad{v1, v2, v3, v4, ...}
	line{v1, v2, ...}
	fill_rect(r, g, b, x, y, w, h)
	load_image(x, y, w, h, {cells})
	store_image(x, y, w, h)         -> {cells}
	copy_rect(sx, sy, dx, dy, w, h)
	vram_read(x, y)                 -> cell
	vram_write(x, y, cell)
	frame()                         -> frame number
	option(key, value)              -> geometry changed

A vertex is {x=, y=, color=0xBBGGRR, u=, v=}.
*/

package main

import (
	"fmt"
	"image"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/intuitionamiga/IntuitionRSX/rsx"
)

// FrameSink receives each finalized frame
type FrameSink interface {
	UpdateFrame(frame *image.RGBA) error
}

type ScriptHost struct {
	L       *lua.LState
	session *rsx.Session
	sinks   []FrameSink

	statusMutex sync.Mutex
	status      frameStatus
}

func NewScriptHost(session *rsx.Session, sinks ...FrameSink) *ScriptHost {
	h := &ScriptHost{
		L:       lua.NewState(),
		session: session,
		sinks:   sinks,
	}
	h.register()
	return h
}

func (h *ScriptHost) Close() {
	h.L.Close()
}

// RunFile executes a script, opening the first frame beforehand
func (h *ScriptHost) RunFile(path string) error {
	if err := h.session.PrepareFrame(); err != nil {
		return err
	}
	return h.L.DoFile(path)
}

func (h *ScriptHost) RunString(src string) error {
	if err := h.session.PrepareFrame(); err != nil {
		return err
	}
	return h.L.DoString(src)
}

// Status returns the summary of the last finalized frame
func (h *ScriptHost) Status() frameStatus {
	h.statusMutex.Lock()
	defer h.statusMutex.Unlock()
	return h.status
}

func (h *ScriptHost) register() {
	for name, fn := range map[string]lua.LGFunction{
		"set_draw_offset":    h.luaSetDrawOffset,
		"set_draw_area":      h.luaSetDrawArea,
		"set_texture_window": h.luaSetTextureWindow,
		"set_display_mode":   h.luaSetDisplayMode,
		"triangle":           h.luaTriangle,
		"quad":               h.luaQuad,
		"line":               h.luaLine,
		"fill_rect":          h.luaFillRect,
		"load_image":         h.luaLoadImage,
		"store_image":        h.luaStoreImage,
		"copy_rect":          h.luaCopyRect,
		"vram_read":          h.luaVRAMRead,
		"vram_write":         h.luaVRAMWrite,
		"frame":              h.luaFrame,
		"option":             h.luaOption,
	} {
		h.L.SetGlobal(name, h.L.NewFunction(fn))
	}
}

// ===========================================================================
// Draw state
// ===========================================================================

func (h *ScriptHost) luaSetDrawOffset(L *lua.LState) int {
	h.session.Renderer().SetDrawOffset(int16(L.CheckInt(1)), int16(L.CheckInt(2)))
	return 0
}

func (h *ScriptHost) luaSetDrawArea(L *lua.LState) int {
	h.session.Renderer().SetDrawArea(checkPair(L, 1), checkPair(L, 3))
	return 0
}

func (h *ScriptHost) luaSetTextureWindow(L *lua.LState) int {
	h.session.Renderer().SetTextureWindow(
		uint8(L.CheckInt(1)), uint8(L.CheckInt(2)),
		uint8(L.CheckInt(3)), uint8(L.CheckInt(4)))
	return 0
}

func (h *ScriptHost) luaSetDisplayMode(L *lua.LState) int {
	h.session.Renderer().SetDisplayMode(checkPair(L, 1), checkPair(L, 3), L.OptBool(5, false))
	return 0
}

// checkPair reads two consecutive integer arguments starting at n
func checkPair(L *lua.LState, n int) [2]uint16 {
	return [2]uint16{uint16(L.CheckInt(n)), uint16(L.CheckInt(n + 1))}
}

// ===========================================================================
// Primitives
// ===========================================================================

func (h *ScriptHost) luaTriangle(L *lua.LState) int {
	attr, v := checkPrimitive(L, 3)
	h.session.Renderer().PushTriangle(attr, [3]rsx.Vertex{v[0], v[1], v[2]})
	return 0
}

func (h *ScriptHost) luaQuad(L *lua.LState) int {
	attr, v := checkPrimitive(L, 4)
	h.session.Renderer().PushQuad(attr, [4]rsx.Vertex{v[0], v[1], v[2], v[3]})
	return 0
}

func (h *ScriptHost) luaLine(L *lua.LState) int {
	attr, v := checkPrimitive(L, 2)
	h.session.Renderer().PushLine(attr, [2]rsx.Vertex{v[0], v[1]})
	return 0
}

// checkPrimitive decodes a primitive table holding exactly count vertices
// in its array part and the attributes in its hash part
func checkPrimitive(L *lua.LState, count int) (rsx.PrimitiveAttributes, []rsx.Vertex) {
	tbl := L.CheckTable(1)
	if tbl.Len() != count {
		L.ArgError(1, fmt.Sprintf("expected %d vertices, got %d", count, tbl.Len()))
	}

	vertices := make([]rsx.Vertex, count)
	for i := range vertices {
		vt, ok := tbl.RawGetInt(i + 1).(*lua.LTable)
		if !ok {
			L.ArgError(1, fmt.Sprintf("vertex %d is not a table", i+1))
		}
		vertices[i] = rsx.NewVertex(
			int16(tableInt(L, vt, "x", 0)),
			int16(tableInt(L, vt, "y", 0)),
			uint32(tableInt(L, vt, "color", 0)),
			uint16(tableInt(L, vt, "u", 0)),
			uint16(tableInt(L, vt, "v", 0)))
	}

	attr := rsx.PrimitiveAttributes{
		TexturePage:     tablePair(L, tbl, "page"),
		CLUT:            tablePair(L, tbl, "clut"),
		Depth:           checkDepth(L, tbl.RawGetString("depth")),
		BlendMode:       checkBlend(L, tbl.RawGetString("blend")),
		SemiTransparent: lua.LVAsBool(tbl.RawGetString("semi")),
		Dither:          lua.LVAsBool(tbl.RawGetString("dither")),
	}
	attr.SemiTransparencyMode = checkSemiMode(L, tbl.RawGetString("semi_mode"))
	return attr, vertices
}

func tableInt(L *lua.LState, tbl *lua.LTable, key string, def int) int {
	switch v := tbl.RawGetString(key).(type) {
	case lua.LNumber:
		return int(v)
	case *lua.LNilType:
		return def
	default:
		L.ArgError(1, fmt.Sprintf("field %q must be a number, got %s", key, v.Type()))
	}
	return def
}

func tablePair(L *lua.LState, tbl *lua.LTable, key string) [2]uint16 {
	switch v := tbl.RawGetString(key).(type) {
	case *lua.LNilType:
		return [2]uint16{}
	case *lua.LTable:
		x, xok := v.RawGetInt(1).(lua.LNumber)
		y, yok := v.RawGetInt(2).(lua.LNumber)
		if xok && yok {
			return [2]uint16{uint16(x), uint16(y)}
		}
	}
	L.ArgError(1, fmt.Sprintf("field %q must be {x, y}", key))
	return [2]uint16{}
}

func checkDepth(L *lua.LState, v lua.LValue) rsx.TextureDepth {
	switch strings.ToLower(lua.LVAsString(v)) {
	case "", "4", "4bpp":
		return rsx.TextureDepth4Bpp
	case "8", "8bpp":
		return rsx.TextureDepth8Bpp
	case "16", "16bpp":
		return rsx.TextureDepth16Bpp
	}
	L.ArgError(1, fmt.Sprintf("unknown texture depth %q", v.String()))
	return rsx.TextureDepth4Bpp
}

func checkBlend(L *lua.LState, v lua.LValue) rsx.BlendMode {
	switch strings.ToLower(lua.LVAsString(v)) {
	case "", "none", "no-texture":
		return rsx.BlendNoTexture
	case "raw", "raw-texture":
		return rsx.BlendRawTexture
	case "blended", "modulated":
		return rsx.BlendBlended
	}
	L.ArgError(1, fmt.Sprintf("unknown blend mode %q", v.String()))
	return rsx.BlendNoTexture
}

func checkSemiMode(L *lua.LState, v lua.LValue) rsx.SemiTransparencyMode {
	switch strings.ToLower(lua.LVAsString(v)) {
	case "", "0", "average":
		return rsx.SemiAverage
	case "1", "add":
		return rsx.SemiAdd
	case "2", "subtract":
		return rsx.SemiSubtract
	case "3", "add-quarter", "add_quarter":
		return rsx.SemiAddQuarter
	}
	L.ArgError(1, fmt.Sprintf("unknown semi-transparency mode %q", v.String()))
	return rsx.SemiAverage
}

// ===========================================================================
// Direct VRAM access
// ===========================================================================

func (h *ScriptHost) luaFillRect(L *lua.LState) int {
	color := [3]uint8{uint8(L.CheckInt(1)), uint8(L.CheckInt(2)), uint8(L.CheckInt(3))}
	h.session.Renderer().FillRect(color, checkPair(L, 4), checkPair(L, 6))
	return 0
}

func (h *ScriptHost) luaLoadImage(L *lua.LState) int {
	topLeft, dims := checkPair(L, 1), checkPair(L, 3)
	tbl := L.CheckTable(5)
	pixels := make([]uint16, tbl.Len())
	for i := range pixels {
		n, ok := tbl.RawGetInt(i + 1).(lua.LNumber)
		if !ok {
			L.ArgError(5, fmt.Sprintf("cell %d is not a number", i+1))
		}
		pixels[i] = uint16(n)
	}
	if err := h.session.Renderer().LoadImage(topLeft, dims, pixels); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (h *ScriptHost) luaStoreImage(L *lua.LState) int {
	cells := h.session.Renderer().StoreImage(checkPair(L, 1), checkPair(L, 3))
	tbl := L.CreateTable(len(cells), 0)
	for _, c := range cells {
		tbl.Append(lua.LNumber(c))
	}
	L.Push(tbl)
	return 1
}

func (h *ScriptHost) luaCopyRect(L *lua.LState) int {
	h.session.Renderer().CopyRect(checkPair(L, 1), checkPair(L, 3), checkPair(L, 5))
	return 0
}

func (h *ScriptHost) luaVRAMRead(L *lua.LState) int {
	L.Push(lua.LNumber(h.session.Renderer().ReadCell(L.CheckInt(1), L.CheckInt(2))))
	return 1
}

func (h *ScriptHost) luaVRAMWrite(L *lua.LState) int {
	h.session.Renderer().WriteCell(L.CheckInt(1), L.CheckInt(2), uint16(L.CheckInt(3)))
	return 0
}

// ===========================================================================
// Frames and options
// ===========================================================================

func (h *ScriptHost) luaFrame(L *lua.LState) int {
	if err := h.frame(); err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(h.session.FrameCount()))
	return 1
}

// frame finalizes the current frame, hands it to every sink and opens the
// next one
func (h *ScriptHost) frame() error {
	renderer := h.session.Renderer()
	img, err := h.session.FinalizeFrame()
	if err != nil {
		return err
	}

	stats := renderer.Stats()
	h.statusMutex.Lock()
	h.status = frameStatus{
		Frame:      h.session.FrameCount(),
		Shader:     renderer.Shader().Name(),
		Clock:      h.session.Clock().String(),
		Primitives: stats.Primitives,
		Fragments:  stats.FragmentsWritten,
		Flushes:    stats.Flushes,
	}
	h.statusMutex.Unlock()

	for _, sink := range h.sinks {
		if err := sink.UpdateFrame(img); err != nil {
			return err
		}
		if out, ok := sink.(VideoOutput); ok && out.IsStarted() {
			if err := out.WaitForVSync(); err != nil {
				return err
			}
		}
	}
	return h.session.PrepareFrame()
}

func (h *ScriptHost) luaOption(L *lua.LState) int {
	key := L.CheckString(1)
	value := L.CheckAny(2).String()
	changed, err := h.session.RefreshVariables(map[string]string{key: value})
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LBool(changed))
	return 1
}
