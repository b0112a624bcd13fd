//go:build headless

package main

import (
	"bytes"
	"image"
	"log"
	"strings"
	"testing"

	"github.com/intuitionamiga/IntuitionRSX/rsx"
)

type captureSink struct {
	frames []*image.RGBA
}

func (c *captureSink) UpdateFrame(frame *image.RGBA) error {
	c.frames = append(c.frames, frame)
	return nil
}

func newTestHost(t *testing.T) (*ScriptHost, *captureSink, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	rsx.Init(log.New(&buf, "rsx: ", 0))
	t.Cleanup(func() { rsx.Init(nil) })

	opts := rsx.DefaultOptions()
	opts.Shader = rsx.ShaderInteger
	session, err := rsx.Open(rsx.ClockNTSC, opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sink := &captureSink{}
	host := NewScriptHost(session, sink)
	t.Cleanup(func() {
		host.Close()
		session.Close()
	})
	return host, sink, &buf
}

func TestScriptHost_FillAndQuad(t *testing.T) {
	host, sink, _ := newTestHost(t)
	err := host.RunString(`
		fill_rect(255, 0, 0, 0, 0, 4, 4)
		assert(vram_read(1, 1) == 0x1F, "fill_rect")
		local v = { {x=8, y=0, color=0x00FF00}, {x=16, y=0, color=0x00FF00},
		            {x=8, y=8, color=0x00FF00}, {x=16, y=8, color=0x00FF00} }
		quad(v)
		local n = frame()
		assert(n == 1, "frame number")
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}

	r := host.session.Renderer()
	if got := r.ReadCell(10, 2); got != 0x03E0 {
		t.Fatalf("quad cell = 0x%04X, want 0x03E0", got)
	}
	if len(sink.frames) != 1 {
		t.Fatalf("sink got %d frames, want 1", len(sink.frames))
	}
	frame := sink.frames[0]
	if frame.Bounds().Dx() != 320 || frame.Bounds().Dy() != 240 {
		t.Fatalf("frame bounds %v", frame.Bounds())
	}
	if c := frame.RGBAAt(1, 1); c.R != 255 || c.G != 0 || c.B != 0 {
		t.Fatalf("fill pixel %v", c)
	}
	if c := frame.RGBAAt(10, 2); c.R != 0 || c.G != 255 || c.B != 0 {
		t.Fatalf("quad pixel %v", c)
	}

	status := host.Status()
	if status.Frame != 1 || status.Shader != "integer" || status.Clock != "NTSC" {
		t.Fatalf("status %+v", status)
	}
	if status.Primitives != 2 || status.Fragments != 64 {
		t.Fatalf("status counts %+v, want 2 primitives and 64 fragments", status)
	}
}

func TestScriptHost_TexturedQuad(t *testing.T) {
	host, _, _ := newTestHost(t)
	err := host.RunString(`
		load_image(512, 0, 3, 3, {0x7C00, 0x7C00, 0x7C00, 0x7C00, 0x7C00, 0x7C00, 0x7C00, 0x7C00, 0x7C00})
		quad{ {x=100, y=100, u=0, v=0}, {x=102, y=100, u=2, v=0},
		      {x=100, y=102, u=0, v=2}, {x=102, y=102, u=2, v=2},
		      page={512, 0}, depth="16bpp", blend="raw" }
		local cells = store_image(100, 100, 2, 1)
		assert(#cells == 2, "store_image length")
		assert(cells[1] == 0x7C00 and cells[2] == 0x7C00, "textured cells")
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
}

func TestScriptHost_CopyAndWrite(t *testing.T) {
	host, _, _ := newTestHost(t)
	err := host.RunString(`
		vram_write(0, 0, 0x1234)
		copy_rect(0, 0, 40, 40, 1, 1)
		assert(vram_read(40, 40) == 0x1234, "copy_rect")
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
}

func TestScriptHost_StateSetters(t *testing.T) {
	host, _, _ := newTestHost(t)
	err := host.RunString(`
		set_draw_offset(5, 6)
		set_draw_area(0, 0, 64, 64)
		set_texture_window(0xF8, 0xF8, 8, 8)
		set_display_mode(0, 0, 256, 240, true)
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	state := host.session.Renderer().State()
	if state.OffsetX != 5 || state.OffsetY != 6 {
		t.Fatalf("offset %d,%d", state.OffsetX, state.OffsetY)
	}
	if state.Area.Width != 64 || state.Area.Height != 64 {
		t.Fatalf("area %+v", state.Area)
	}
	if state.Window.MaskX != 0xF8 || state.Window.OrY != 8 {
		t.Fatalf("window %+v", state.Window)
	}
	if state.Display.Width != 256 || !state.Display.Depth24 {
		t.Fatalf("display %+v", state.Display)
	}
}

func TestScriptHost_OptionChangesGeometry(t *testing.T) {
	host, sink, buf := newTestHost(t)
	err := host.RunString(`
		assert(option("rsx_internal_resolution", "2x") == true, "geometry change")
		assert(option("rsx_wireframe", "disabled") == false, "no geometry change")
		frame()
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if len(sink.frames) != 1 || sink.frames[0].Bounds().Dx() != 640 {
		t.Fatalf("expected one 640-wide frame, got %d frames", len(sink.frames))
	}
	if !strings.Contains(buf.String(), "internal resolution 1x -> 2x") {
		t.Fatalf("missing refresh log line in %q", buf.String())
	}
}

func TestScriptHost_Errors(t *testing.T) {
	scripts := map[string]string{
		"vertex count":  `triangle{ {x=0, y=0}, {x=1, y=1} }`,
		"depth":         `line{ {x=0, y=0}, {x=1, y=1}, depth="2bpp" }`,
		"blend":         `line{ {x=0, y=0}, {x=1, y=1}, blend="glow" }`,
		"vertex field":  `line{ {x="a", y=0}, {x=1, y=1} }`,
		"short image":   `load_image(0, 0, 2, 2, {1, 2})`,
		"bad option":    `option("rsx_internal_resolution", "13x")`,
		"bad page pair": `line{ {x=0, y=0}, {x=1, y=1}, page=7 }`,
	}
	for name, src := range scripts {
		t.Run(name, func(t *testing.T) {
			host, _, _ := newTestHost(t)
			if err := host.RunString(src); err == nil {
				t.Fatalf("expected error from %s", src)
			}
		})
	}
}

func TestScriptHost_FrameAfterClose(t *testing.T) {
	host, _, _ := newTestHost(t)
	if err := host.RunString(`x = 1`); err != nil {
		t.Fatalf("script: %v", err)
	}
	host.session.Close()
	if err := host.RunString(`frame()`); err == nil {
		t.Fatal("expected error after close")
	}
}
