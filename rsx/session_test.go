// session_test.go - Session lifecycle tests

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
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

func openTestSession(t *testing.T, clock VideoClock) (*Session, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	Init(log.New(&buf, "rsx: ", 0))
	t.Cleanup(func() { Init(nil) })

	opts := DefaultOptions()
	opts.Shader = ShaderInteger
	s, err := Open(clock, opts)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s, &buf
}

func TestRSX_Session_OpenRejectsUnknownClock(t *testing.T) {
	opts := DefaultOptions()
	opts.Shader = ShaderInteger
	_, err := Open(VideoClock(7), opts)
	if !errors.Is(err, ErrUnsupportedClock) {
		t.Fatalf("err = %v, want ErrUnsupportedClock", err)
	}
	var re *RenderError
	if !errors.As(err, &re) || re.Operation != "open" {
		t.Errorf("err = %#v, want *RenderError for open", err)
	}
}

func TestRSX_Session_OpenRejectsBadOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Shader = ShaderInteger
	opts.Upscale = 0
	if _, err := Open(ClockNTSC, opts); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("upscale 0: err = %v, want ErrInvalidOption", err)
	}
	opts.Upscale = 1
	opts.ColorDepth = 24
	if _, err := Open(ClockNTSC, opts); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("depth 24: err = %v, want ErrInvalidOption", err)
	}
}

func TestRSX_Session_OpenLogs(t *testing.T) {
	s, buf := openTestSession(t, ClockPAL)
	defer s.Close()

	if !strings.Contains(buf.String(), "rsx: opened PAL session: integer shader") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestRSX_Session_AVInfo(t *testing.T) {
	ntsc, _ := openTestSession(t, ClockNTSC)
	defer ntsc.Close()
	pal, _ := openTestSession(t, ClockPAL)
	defer pal.Close()

	info := ntsc.AVInfo()
	if info.FPS != RSX_FPS_NTSC || info.MaxWidth != 640 || info.MaxHeight != 480 {
		t.Errorf("NTSC info = %+v", info)
	}
	if info.AspectRatio != 4.0/3.0 || info.SampleRate != 44100 {
		t.Errorf("NTSC aspect/sample rate = %v/%v", info.AspectRatio, info.SampleRate)
	}
	if pal.AVInfo().FPS != RSX_FPS_PAL {
		t.Errorf("PAL fps = %v", pal.AVInfo().FPS)
	}
}

func TestRSX_Session_RefreshKeepsVRAM(t *testing.T) {
	s, _ := openTestSession(t, ClockNTSC)
	defer s.Close()

	s.Renderer().WriteCell(12, 34, 0x5A5A)

	changed, err := s.RefreshVariables(map[string]string{OPTION_INTERNAL_RESOLUTION: "2x"})
	if err != nil {
		t.Fatalf("RefreshVariables failed: %v", err)
	}
	if !changed {
		t.Error("upscale change should report a geometry change")
	}
	if got := s.Renderer().ReadCell(12, 34); got != 0x5A5A {
		t.Errorf("VRAM lost across refresh: 0x%04X", got)
	}
	if s.AVInfo().MaxWidth != 1280 {
		t.Errorf("max width = %d, want 1280", s.AVInfo().MaxWidth)
	}

	changed, err = s.RefreshVariables(map[string]string{OPTION_WIREFRAME: "enabled"})
	if err != nil || changed {
		t.Errorf("wireframe toggle: changed=%v err=%v, want false/nil", changed, err)
	}
	if !s.Options().Wireframe {
		t.Error("wireframe not applied")
	}
}

func TestRSX_Session_RefreshSwitchesShader(t *testing.T) {
	s, _ := openTestSession(t, ClockNTSC)
	defer s.Close()

	if _, err := s.RefreshVariables(map[string]string{OPTION_SHADER: "float"}); err != nil {
		t.Fatalf("RefreshVariables failed: %v", err)
	}
	if got := s.Renderer().Shader().Name(); got != "float" {
		t.Errorf("shader = %s, want float", got)
	}
}

func TestRSX_Session_RefreshRejectsBadValue(t *testing.T) {
	s, _ := openTestSession(t, ClockNTSC)
	defer s.Close()

	if _, err := s.RefreshVariables(map[string]string{OPTION_INTERNAL_COLOR_DEPTH: "8bpp"}); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("err = %v, want ErrInvalidOption", err)
	}
	if s.Options().ColorDepth != 16 {
		t.Errorf("bad refresh changed options: %+v", s.Options())
	}
}

func TestRSX_Session_FrameLifecycle(t *testing.T) {
	s, buf := openTestSession(t, ClockNTSC)
	defer s.Close()

	if err := s.PrepareFrame(); err != nil {
		t.Fatalf("PrepareFrame failed: %v", err)
	}
	white := [3]uint8{255, 255, 255}
	s.Renderer().PushQuad(PrimitiveAttributes{}, rectQuad(0, 0, 4, 4, white, 0, 0))

	img, err := s.FinalizeFrame()
	if err != nil {
		t.Fatalf("FinalizeFrame failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != RSX_DEFAULT_DISPLAY_WIDTH || b.Dy() != RSX_DEFAULT_DISPLAY_HEIGHT {
		t.Errorf("frame size %dx%d", b.Dx(), b.Dy())
	}
	if img.RGBAAt(1, 1).R != 255 {
		t.Error("pending quad was not flushed before presentation")
	}
	if s.Renderer().PendingPrimitives() != 0 {
		t.Error("batch not empty after finalize")
	}
	if s.FrameCount() != 1 {
		t.Errorf("frame count = %d, want 1", s.FrameCount())
	}
	if !strings.Contains(buf.String(), "Target framebuffer size: 320x240") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestRSX_Session_Closed(t *testing.T) {
	s, _ := openTestSession(t, ClockNTSC)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close: %v", err)
	}
	if err := s.PrepareFrame(); !errors.Is(err, ErrClosed) {
		t.Errorf("PrepareFrame after close: %v", err)
	}
	if _, err := s.FinalizeFrame(); !errors.Is(err, ErrClosed) {
		t.Errorf("FinalizeFrame after close: %v", err)
	}
	if _, err := s.RefreshVariables(nil); !errors.Is(err, ErrClosed) {
		t.Errorf("RefreshVariables after close: %v", err)
	}
}

func TestRSX_Session_ClosedRendererDiscardsCommands(t *testing.T) {
	s, _ := openTestSession(t, ClockNTSC)
	r := s.Renderer()
	r.WriteCell(3, 3, 0x1234)
	r.PushLine(PrimitiveAttributes{}, [2]Vertex{NewVertex(0, 10, 0xFFFFFF, 0, 0), NewVertex(4, 10, 0xFFFFFF, 0, 0)})
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if r.PendingPrimitives() != 0 || r.ReadCell(2, 10) != 0x7FFF {
		t.Fatalf("pending line not flushed on close: cell 0x%04X", r.ReadCell(2, 10))
	}

	r.WriteCell(3, 3, 0x4321)
	r.FillRect([3]uint8{255, 255, 255}, [2]uint16{0, 0}, [2]uint16{8, 8})
	r.CopyRect([2]uint16{0, 10}, [2]uint16{3, 3}, [2]uint16{1, 1})
	r.PushTriangle(PrimitiveAttributes{}, [3]Vertex{
		NewVertex(0, 0, 0xFFFFFF, 0, 0), NewVertex(8, 0, 0xFFFFFF, 0, 0), NewVertex(0, 8, 0xFFFFFF, 0, 0),
	})
	r.SetDrawOffset(9, 9)
	r.ResetVRAM()
	if r.PendingPrimitives() != 0 {
		t.Fatal("closed renderer queued a primitive")
	}
	if got := r.ReadCell(3, 3); got != 0x1234 {
		t.Fatalf("cell changed after close: 0x%04X", got)
	}
	if got := r.State().OffsetX; got != 0 {
		t.Fatalf("draw offset changed after close: %d", got)
	}
	if err := r.LoadImage([2]uint16{0, 0}, [2]uint16{1, 1}, []uint16{1}); !errors.Is(err, ErrClosed) {
		t.Fatalf("LoadImage after close: %v", err)
	}
}
