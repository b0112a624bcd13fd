//go:build headless

package main

import (
	"errors"
	"image"
	"testing"
)

func TestHeadlessOutput_SetDisplayConfig_StoresFullscreen(t *testing.T) {
	out := &HeadlessVideoOutput{}
	cfg := DisplayConfig{
		Width:      640,
		Height:     480,
		Scale:      2,
		Fullscreen: true,
	}
	if err := out.SetDisplayConfig(cfg); err != nil {
		t.Fatalf("SetDisplayConfig returned error: %v", err)
	}
	got := out.GetDisplayConfig()
	if !got.Fullscreen {
		t.Fatal("expected Fullscreen=true")
	}
}

func TestHeadlessOutput_DisplayConfig_ClampsScale(t *testing.T) {
	out := &HeadlessVideoOutput{}
	if err := out.SetDisplayConfig(DisplayConfig{Width: 320, Height: 240, Scale: 9}); err != nil {
		t.Fatalf("SetDisplayConfig returned error: %v", err)
	}
	if got := out.GetDisplayConfig().Scale; got != 4 {
		t.Fatalf("expected Scale=4, got %d", got)
	}
}

func TestHeadlessOutput_UpdateFrame_CountsFrames(t *testing.T) {
	v, err := NewVideoOutput(VIDEO_BACKEND_EBITEN)
	if err != nil {
		t.Fatalf("NewVideoOutput: %v", err)
	}
	out := v.(*HeadlessVideoOutput)
	if err := out.Start(); err != nil || !out.IsStarted() {
		t.Fatalf("Start: err=%v started=%v", err, out.IsStarted())
	}
	frame := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for range 3 {
		if err := out.UpdateFrame(frame); err != nil {
			t.Fatalf("UpdateFrame: %v", err)
		}
	}
	if out.GetFrameCount() != 3 || out.lastFrame != frame {
		t.Fatalf("frame count %d, last frame kept %v", out.GetFrameCount(), out.lastFrame == frame)
	}
	var verr *VideoError
	if err := out.UpdateFrame(nil); !errors.As(err, &verr) {
		t.Fatalf("nil frame: expected *VideoError, got %v", err)
	}
}

func TestVideoOutput_UnknownBackend(t *testing.T) {
	if _, err := NewVideoOutput(42); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
