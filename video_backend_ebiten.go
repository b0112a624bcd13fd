//go:build !headless

// video_backend_ebiten.go - Ebiten window output for finalized RSX frames

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

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

func init() {
	compiledFeatures = append(compiledFeatures, "video:ebiten", "clipboard:png", "probe:vulkan")
}

type EbitenOutput struct {
	running     atomic.Bool
	window      *ebiten.Image
	vramWindow  *ebiten.Image
	width       int
	height      int
	fullscreen  bool
	scale       int
	windowedW   int
	windowedH   int
	frame       *image.RGBA
	bufferMutex sync.RWMutex
	frameCount  uint64
	refreshRate int
	vsyncChan   chan struct{}
	done        chan struct{}

	clipboardOnce sync.Once
	clipboardOK   bool
	showStatusBar bool
	showVRAM      bool

	vramSource   func() *image.RGBA
	statusSource func() frameStatus
}

func NewEbitenOutput() (VideoOutput, error) {
	return &EbitenOutput{
		width:         320,
		height:        240,
		scale:         2,
		windowedW:     640,
		windowedH:     480,
		frame:         image.NewRGBA(image.Rect(0, 0, 320, 240)),
		refreshRate:   60,
		vsyncChan:     make(chan struct{}, 1),
		done:          make(chan struct{}),
		showStatusBar: true,
	}, nil
}

func (eo *EbitenOutput) Start() error {
	if eo.running.Load() {
		return nil
	}
	eo.bufferMutex.Lock()
	eo.done = make(chan struct{})
	eo.bufferMutex.Unlock()
	eo.running.Store(true)
	ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
	ebiten.SetWindowTitle("Intuition RSX (c) 2024 - 2026 Zayn Otley")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	if eo.fullscreen {
		ebiten.SetFullscreen(true)
	}

	go func() {
		defer func() {
			eo.running.Store(false)
			eo.bufferMutex.RLock()
			done := eo.done
			eo.bufferMutex.RUnlock()
			select {
			case <-done:
			default:
				close(done)
			}
		}()
		if err := ebiten.RunGame(eo); err != nil {
			fmt.Printf("Ebiten error: %v\n", err)
		}
	}()

	// Wait for first Draw call to ensure Ebiten is ready
	select {
	case <-eo.vsyncChan:
		return nil
	case <-eo.Done():
		return &VideoError{Operation: "start", Details: "window closed before first frame"}
	}
}

func (eo *EbitenOutput) Stop() error {
	eo.running.Store(false)
	return nil
}

func (eo *EbitenOutput) Close() error {
	return eo.Stop()
}

// Done is closed when the window has gone away
func (eo *EbitenOutput) Done() <-chan struct{} {
	eo.bufferMutex.RLock()
	done := eo.done
	eo.bufferMutex.RUnlock()
	return done
}

func (eo *EbitenOutput) UpdateFrame(frame *image.RGBA) error {
	if frame == nil {
		return &VideoError{Operation: "update frame", Details: "nil frame"}
	}
	b := frame.Bounds()

	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()

	if b.Dx() != eo.width || b.Dy() != eo.height {
		eo.width = b.Dx()
		eo.height = b.Dy()
		eo.windowedW = eo.width * eo.scale
		eo.windowedH = eo.height * eo.scale
		if !eo.fullscreen {
			ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
		}
	}
	if eo.frame == nil || eo.frame.Bounds() != b {
		eo.frame = image.NewRGBA(b)
	}
	copy(eo.frame.Pix, frame.Pix)
	return nil
}

func (eo *EbitenOutput) SetDisplayConfig(config DisplayConfig) error {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()

	if config.Width > 0 {
		eo.width = config.Width
	}
	if config.Height > 0 {
		eo.height = config.Height
	}
	eo.scale = ClampScale(config.Scale)
	if config.RefreshRate > 0 {
		eo.refreshRate = config.RefreshRate
	}
	eo.windowedW = eo.width * eo.scale
	eo.windowedH = eo.height * eo.scale
	eo.fullscreen = config.Fullscreen
	ebiten.SetFullscreen(eo.fullscreen)
	if !eo.fullscreen {
		ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
	}
	return nil
}

func (eo *EbitenOutput) GetDisplayConfig() DisplayConfig {
	eo.bufferMutex.RLock()
	defer eo.bufferMutex.RUnlock()

	return DisplayConfig{
		Width:       eo.width,
		Height:      eo.height,
		Scale:       eo.scale,
		RefreshRate: eo.refreshRate,
		VSync:       true,
		Fullscreen:  eo.fullscreen,
	}
}

func (eo *EbitenOutput) WaitForVSync() error {
	select {
	case <-eo.vsyncChan:
	case <-eo.Done():
	}
	return nil
}

func (eo *EbitenOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&eo.frameCount)
}

func (eo *EbitenOutput) GetRefreshRate() int {
	return eo.refreshRate
}

func (eo *EbitenOutput) IsStarted() bool {
	return eo.running.Load()
}

func (eo *EbitenOutput) SetVRAMSource(fn func() *image.RGBA) {
	eo.bufferMutex.Lock()
	eo.vramSource = fn
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) SetStatusSource(fn func() frameStatus) {
	eo.bufferMutex.Lock()
	eo.statusSource = fn
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) Update() error {
	if ebiten.IsWindowBeingClosed() || !eo.running.Load() {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		eo.bufferMutex.Lock()
		eo.fullscreen = !eo.fullscreen
		ebiten.SetFullscreen(eo.fullscreen)
		if !eo.fullscreen {
			ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
		}
		eo.bufferMutex.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		eo.bufferMutex.Lock()
		eo.showStatusBar = !eo.showStatusBar
		eo.bufferMutex.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		eo.bufferMutex.Lock()
		eo.showVRAM = !eo.showVRAM && eo.vramSource != nil
		eo.bufferMutex.Unlock()
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		eo.copyFrameToClipboard()
	}
	return nil
}

// copyFrameToClipboard places the current frame on the clipboard as a PNG
func (eo *EbitenOutput) copyFrameToClipboard() {
	eo.clipboardOnce.Do(func() {
		eo.clipboardOK = clipboard.Init() == nil
	})
	if !eo.clipboardOK {
		fmt.Println("Clipboard unavailable")
		return
	}

	eo.bufferMutex.RLock()
	var buf bytes.Buffer
	err := png.Encode(&buf, eo.frame)
	eo.bufferMutex.RUnlock()
	if err != nil {
		fmt.Printf("Clipboard copy failed: %v\n", err)
		return
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	eo.bufferMutex.Lock()
	showVRAM := eo.showVRAM
	vramSource := eo.vramSource
	showStatusBar := eo.showStatusBar
	w, h := eo.width, eo.height
	if eo.window == nil || eo.window.Bounds().Dx() != w || eo.window.Bounds().Dy() != h {
		if eo.window != nil {
			eo.window.Dispose()
		}
		eo.window = ebiten.NewImage(w, h)
	}
	if eo.frame != nil && eo.frame.Bounds().Dx() == w && eo.frame.Bounds().Dy() == h {
		eo.window.WritePixels(eo.frame.Pix)
	}
	eo.bufferMutex.Unlock()

	if showVRAM && vramSource != nil {
		eo.drawVRAM(screen, vramSource(), w, h)
	} else {
		screen.DrawImage(eo.window, nil)
	}
	if showStatusBar {
		eo.drawStatusBar(screen, w, h)
	}

	atomic.AddUint64(&eo.frameCount, 1)
	select {
	case eo.vsyncChan <- struct{}{}:
	default:
	}
}

// drawVRAM scales the whole 1024x512 VRAM into the layout
func (eo *EbitenOutput) drawVRAM(screen *ebiten.Image, vram *image.RGBA, w, h int) {
	b := vram.Bounds()
	if eo.vramWindow == nil {
		eo.vramWindow = ebiten.NewImage(b.Dx(), b.Dy())
	}
	eo.vramWindow.WritePixels(vram.Pix)
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	screen.DrawImage(eo.vramWindow, opts)
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	eo.bufferMutex.RLock()
	defer eo.bufferMutex.RUnlock()
	return eo.width, eo.height
}

type statusToken struct {
	name    string
	enabled bool
}

func drawStatusLine(screen *ebiten.Image, x, baselineY int, label string, tokens []statusToken) {
	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}
	offColor := color.RGBA{120, 120, 120, 255}
	onColor := color.RGBA{0, 220, 90, 255}

	text.Draw(screen, label, face, x, baselineY, labelColor)
	cursorX := x + text.BoundString(face, label).Dx() + 6

	for _, token := range tokens {
		c := offColor
		if token.enabled {
			c = onColor
		}
		text.Draw(screen, token.name, face, cursorX, baselineY, c)
		cursorX += text.BoundString(face, token.name).Dx() + 8
	}
}

func (eo *EbitenOutput) drawStatusBar(screen *ebiten.Image, w, h int) {
	eo.bufferMutex.RLock()
	source := eo.statusSource
	showVRAM := eo.showVRAM
	eo.bufferMutex.RUnlock()
	if source == nil {
		return
	}
	s := source()

	barHeight := 30
	if barHeight >= h {
		return
	}
	y := h - barHeight
	ebitenutil.DrawRect(screen, 0, float64(y), float64(w), float64(barHeight), color.RGBA{0, 0, 0, 180})

	drawStatusLine(screen, 6, y+13, "RSX", []statusToken{
		{name: s.Clock, enabled: true},
		{name: "|", enabled: false},
		{name: "INT", enabled: s.Shader == "integer"},
		{name: "FLT", enabled: s.Shader == "float"},
		{name: "|", enabled: false},
		{name: "VRAM", enabled: showVRAM},
	})
	drawStatusLine(screen, 6, y+26, "FRM", []statusToken{
		{name: fmt.Sprintf("%d", s.Frame), enabled: true},
		{name: fmt.Sprintf("prim %d", s.Primitives), enabled: s.Primitives > 0},
		{name: fmt.Sprintf("frag %d", s.Fragments), enabled: s.Fragments > 0},
	})

	legend := "F9 VRAM  F11 Full  F12 Bar"
	legendW := text.BoundString(basicfont.Face7x13, legend).Dx()
	legendX := max(w-legendW-6, 6)
	text.Draw(screen, legend, basicfont.Face7x13, legendX, y+13, color.RGBA{160, 160, 160, 255})
}
