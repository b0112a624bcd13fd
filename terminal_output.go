// terminal_output.go - ANSI truecolor half-block preview of RSX frames

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
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

const (
	TERMINAL_DEFAULT_COLS = 80
	TERMINAL_DEFAULT_ROWS = 24
	TERMINAL_HALF_BLOCK   = "▀"
)

// TerminalOutput draws each frame as rows of upper half blocks: the
// foreground carries the even scanline and the background the odd one.
type TerminalOutput struct {
	mutex      sync.Mutex
	out        io.Writer
	fd         int
	isTerminal bool
	started    bool
	config     DisplayConfig
	frameCount uint64
	cols, rows int
}

// NewTerminalOutput writes to w, or to stdout when w is nil
func NewTerminalOutput(w io.Writer) *TerminalOutput {
	t := &TerminalOutput{
		out:  w,
		fd:   -1,
		cols: TERMINAL_DEFAULT_COLS,
		rows: TERMINAL_DEFAULT_ROWS,
	}
	if w == nil {
		t.out = os.Stdout
		t.fd = int(os.Stdout.Fd())
		t.isTerminal = term.IsTerminal(t.fd)
	}
	return t
}

func (t *TerminalOutput) Start() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.isTerminal {
		if cols, rows, err := term.GetSize(t.fd); err == nil && cols > 0 && rows > 1 {
			t.cols, t.rows = cols, rows-1
		}
		// Clear screen and hide cursor
		fmt.Fprint(t.out, "\x1b[2J\x1b[?25l")
	}
	t.started = true
	return nil
}

func (t *TerminalOutput) Stop() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.started && t.isTerminal {
		fmt.Fprint(t.out, "\x1b[0m\x1b[?25h\n")
	}
	t.started = false
	return nil
}

func (t *TerminalOutput) Close() error {
	return t.Stop()
}

func (t *TerminalOutput) IsStarted() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.started
}

func (t *TerminalOutput) SetDisplayConfig(config DisplayConfig) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	config.Scale = ClampScale(config.Scale)
	t.config = config
	return nil
}

func (t *TerminalOutput) GetDisplayConfig() DisplayConfig {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.config
}

// SetSize overrides the character grid used for frames
func (t *TerminalOutput) SetSize(cols, rows int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if cols > 0 {
		t.cols = cols
	}
	if rows > 0 {
		t.rows = rows
	}
}

func (t *TerminalOutput) UpdateFrame(frame *image.RGBA) error {
	if frame == nil {
		return &VideoError{Operation: "update frame", Details: "nil frame"}
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()

	cols, rows := previewGrid(frame.Bounds(), t.cols, t.rows)
	w := bufio.NewWriter(t.out)
	if t.isTerminal {
		fmt.Fprint(w, "\x1b[H")
	}
	renderHalfBlocks(w, frame, cols, rows)
	t.frameCount++
	if err := w.Flush(); err != nil {
		return &VideoError{Operation: "update frame", Details: "terminal write", Err: err}
	}
	return nil
}

func (t *TerminalOutput) WaitForVSync() error {
	return nil
}

func (t *TerminalOutput) GetFrameCount() uint64 {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.frameCount
}

func (t *TerminalOutput) GetRefreshRate() int {
	if t.config.RefreshRate > 0 {
		return t.config.RefreshRate
	}
	return 60
}

// previewGrid fits the frame into cols x rows cells keeping its aspect,
// counting two pixels per cell vertically.
func previewGrid(b image.Rectangle, maxCols, maxRows int) (int, int) {
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}
	cols := min(maxCols, w)
	rows := (cols*h/w + 1) / 2
	if rows > maxRows {
		rows = maxRows
		cols = min(rows*2*w/h, maxCols)
	}
	return max(cols, 1), max(rows, 1)
}

func renderHalfBlocks(w io.Writer, frame *image.RGBA, cols, rows int) {
	b := frame.Bounds()
	sample := func(cx, py int) (uint8, uint8, uint8) {
		x := b.Min.X + cx*b.Dx()/cols
		y := b.Min.Y + py*b.Dy()/(rows*2)
		o := frame.PixOffset(x, y)
		return frame.Pix[o], frame.Pix[o+1], frame.Pix[o+2]
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			tr, tg, tb := sample(col, row*2)
			br, bg, bb := sample(col, row*2+1)
			fmt.Fprintf(w, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%s", tr, tg, tb, br, bg, bb, TERMINAL_HALF_BLOCK)
		}
		fmt.Fprint(w, "\x1b[0m\n")
	}
}
