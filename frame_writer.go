// frame_writer.go - Writes finalized RSX frames to image files

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
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

const (
	FRAME_FORMAT_PNG  = "png"
	FRAME_FORMAT_BMP  = "bmp"
	FRAME_FORMAT_TIFF = "tiff"
)

// FrameWriter saves every frame it receives. A pattern containing a
// verb such as %03d is expanded with the frame number; a plain name is
// overwritten each frame.
type FrameWriter struct {
	pattern string
	format  string
	count   int
}

func NewFrameWriter(pattern string) (*FrameWriter, error) {
	format, err := frameFormat(pattern)
	if err != nil {
		return nil, err
	}
	return &FrameWriter{pattern: pattern, format: format}, nil
}

func frameFormat(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return FRAME_FORMAT_PNG, nil
	case ".bmp":
		return FRAME_FORMAT_BMP, nil
	case ".tif", ".tiff":
		return FRAME_FORMAT_TIFF, nil
	}
	return "", &VideoError{
		Operation: "frame writer",
		Details:   fmt.Sprintf("unsupported image extension %q", filepath.Ext(name)),
	}
}

// Path returns the file name used for frame n. Only the base name is
// expanded, so a % in the directory is taken literally.
func (fw *FrameWriter) Path(n int) string {
	dir, base := filepath.Split(fw.pattern)
	if strings.Contains(base, "%") {
		return dir + fmt.Sprintf(base, n)
	}
	return fw.pattern
}

// Written returns the number of frames saved so far
func (fw *FrameWriter) Written() int {
	return fw.count
}

func (fw *FrameWriter) UpdateFrame(frame *image.RGBA) error {
	if frame == nil {
		return &VideoError{Operation: "frame writer", Details: "nil frame"}
	}
	name := fw.Path(fw.count)
	if err := writeFrameFile(name, fw.format, frame); err != nil {
		return &VideoError{Operation: "frame writer", Details: name, Err: err}
	}
	fw.count++
	return nil
}

func writeFrameFile(name, format string, img image.Image) (err error) {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	bo := bufio.NewWriterSize(f, 256*1024)
	if err = encodeFrame(bo, format, img); err != nil {
		return err
	}
	return bo.Flush()
}

func encodeFrame(w io.Writer, format string, img image.Image) error {
	switch format {
	case FRAME_FORMAT_BMP:
		return bmp.Encode(w, img)
	case FRAME_FORMAT_TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(w, img)
	}
}
