// session.go - Rendering session lifecycle for the driving emulator core

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
	"fmt"
	"image"
	"log"
	"os"
	"sync"
)

// VideoClock is the video standard of the emulated console
type VideoClock int

const (
	ClockNTSC VideoClock = iota
	ClockPAL
)

func (c VideoClock) String() string {
	switch c {
	case ClockNTSC:
		return "NTSC"
	case ClockPAL:
		return "PAL"
	}
	return fmt.Sprintf("VideoClock(%d)", int(c))
}

// FramesPerSecond is the exact output rate of the video standard
func (c VideoClock) FramesPerSecond() float64 {
	if c == ClockPAL {
		return RSX_FPS_PAL
	}
	return RSX_FPS_NTSC
}

// AVInfo is the geometry and timing a frontend needs to present frames
type AVInfo struct {
	BaseWidth, BaseHeight int
	MaxWidth, MaxHeight   int
	AspectRatio           float64
	FPS                   float64
	SampleRate            float64
}

var (
	loggerMutex sync.Mutex
	logger      = log.New(os.Stderr, "rsx: ", log.LstdFlags)
)

// Init installs the logger used by every session. A nil logger restores
// the default stderr logger.
func Init(l *log.Logger) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	if l == nil {
		l = log.New(os.Stderr, "rsx: ", log.LstdFlags)
	}
	logger = l
}

func currentLogger() *log.Logger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	return logger
}

// Session is one open rendering context. It owns the renderer and with it
// the only copy of VRAM.
type Session struct {
	mutex sync.Mutex

	clock    VideoClock
	options  Options
	renderer *Renderer
	logger   *log.Logger
	closed   bool

	frameCount  uint64
	lastSize    image.Point
	frameActive bool
}

// Open validates the clock and options, selects the fragment shading
// strategy and allocates VRAM
func Open(clock VideoClock, opts Options) (*Session, error) {
	if clock != ClockNTSC && clock != ClockPAL {
		return nil, &RenderError{
			Operation: "open",
			Details:   fmt.Sprintf("video clock %v", clock),
			Err:       ErrUnsupportedClock,
		}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	shader := NewFragmentShader(opts.Shader)
	s := &Session{
		clock:    clock,
		options:  opts,
		renderer: NewRenderer(shader, opts),
		logger:   currentLogger(),
	}
	if opts.Shader == ShaderAuto {
		s.logger.Printf("capability probe: %s", ProbeDetail())
	}
	s.logger.Printf("opened %s session: %s shader, %dx internal resolution, %dbpp",
		clock, shader.Name(), opts.Upscale, opts.ColorDepth)
	return s, nil
}

// Close releases the session. Further calls return ErrClosed. The renderer
// returned by Renderer then discards draw commands and VRAM writes, and
// LoadImage fails with ErrClosed; reads still see the final VRAM.
func (s *Session) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return &RenderError{Operation: "close", Details: "already closed", Err: ErrClosed}
	}
	s.renderer.close()
	s.closed = true
	s.logger.Printf("closed session after %d frames", s.frameCount)
	return nil
}

// Renderer exposes the draw state and primitive protocol
func (s *Session) Renderer() *Renderer {
	return s.renderer
}

// Clock returns the video standard the session was opened with
func (s *Session) Clock() VideoClock {
	return s.clock
}

// Options returns the current tunable options
func (s *Session) Options() Options {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.options
}

// RefreshVariables applies frontend variables without touching VRAM. It
// reports true when the output geometry changed and the frontend must
// reconfigure.
func (s *Session) RefreshVariables(vars map[string]string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return false, &RenderError{Operation: "refresh variables", Details: "session closed", Err: ErrClosed}
	}

	next, err := s.options.Apply(vars)
	if err != nil {
		return false, err
	}

	if next.Shader != s.options.Shader {
		shader := NewFragmentShader(next.Shader)
		s.renderer.SetShader(shader)
		s.logger.Printf("switched to %s shader", shader.Name())
	}
	s.renderer.SetOptions(next)

	geometryChanged := next.Upscale != s.options.Upscale
	if geometryChanged {
		s.logger.Printf("internal resolution %dx -> %dx", s.options.Upscale, next.Upscale)
	}
	if next.ColorDepth != s.options.ColorDepth {
		s.logger.Printf("internal color depth %dbpp -> %dbpp", s.options.ColorDepth, next.ColorDepth)
	}
	s.options = next
	return geometryChanged, nil
}

// PrepareFrame starts a new frame and clears per-frame counters
func (s *Session) PrepareFrame() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return &RenderError{Operation: "prepare frame", Details: "session closed", Err: ErrClosed}
	}
	s.renderer.ResetStats()
	s.frameActive = true
	return nil
}

// FinalizeFrame flushes every pending primitive and presents the display
// rectangle
func (s *Session) FinalizeFrame() (*image.RGBA, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil, &RenderError{Operation: "finalize frame", Details: "session closed", Err: ErrClosed}
	}
	if !s.frameActive {
		s.logger.Printf("finalize without prepare on frame %d", s.frameCount)
	}

	img := s.renderer.Present()
	if size := img.Bounds().Size(); size != s.lastSize {
		s.logger.Printf("Target framebuffer size: %dx%d", size.X, size.Y)
		s.lastSize = size
	}
	s.frameCount++
	s.frameActive = false
	return img, nil
}

// FrameCount returns the number of finalized frames
func (s *Session) FrameCount() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.frameCount
}

// AVInfo reports the maximum output geometry and the timing of the session
func (s *Session) AVInfo() AVInfo {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	w := RSX_NATIVE_MAX_WIDTH * s.options.Upscale
	h := RSX_NATIVE_MAX_HEIGHT * s.options.Upscale
	return AVInfo{
		BaseWidth:   w,
		BaseHeight:  h,
		MaxWidth:    w,
		MaxHeight:   h,
		AspectRatio: RSX_ASPECT_RATIO,
		FPS:         s.clock.FramesPerSecond(),
		SampleRate:  RSX_SAMPLE_RATE,
	}
}
