// options.go - Tunable renderer options and frontend variable parsing

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
	"strconv"
	"strings"
	"unicode"
)

// Frontend variable keys
const (
	OPTION_INTERNAL_RESOLUTION  = "rsx_internal_resolution"
	OPTION_INTERNAL_COLOR_DEPTH = "rsx_internal_color_depth"
	OPTION_SCALE_DITHER         = "rsx_scale_dither"
	OPTION_WIREFRAME            = "rsx_wireframe"
	OPTION_SHADER               = "rsx_shader"
)

// ShaderKind selects the fragment shading strategy
type ShaderKind int

const (
	ShaderAuto    ShaderKind = iota // Probe the host GPU at open
	ShaderInteger                   // Raw uint16 VRAM sampling
	ShaderFloat                     // Normalized float sampling with exact reconstruction
)

func (k ShaderKind) String() string {
	switch k {
	case ShaderAuto:
		return "auto"
	case ShaderInteger:
		return "integer"
	case ShaderFloat:
		return "float"
	}
	return fmt.Sprintf("ShaderKind(%d)", int(k))
}

// ParseShaderKind accepts auto, integer or float
func ParseShaderKind(s string) (ShaderKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ShaderAuto, nil
	case "integer", "int", "uint":
		return ShaderInteger, nil
	case "float", "normalized":
		return ShaderFloat, nil
	}
	return ShaderAuto, &RenderError{
		Operation: "parse option",
		Details:   fmt.Sprintf("unknown shader %q", s),
		Err:       ErrInvalidOption,
	}
}

// Options are the settings a frontend may change while a session is open
type Options struct {
	Upscale     int  // Internal resolution factor, 1..12
	ColorDepth  int  // 16 (dithered, native) or 32 (no dithering)
	ScaleDither bool // Stretch the dither pattern with the upscale factor
	Wireframe   bool // Rasterize triangle edges only
	Shader      ShaderKind
}

// DefaultOptions returns native resolution with dithered 16bpp output
func DefaultOptions() Options {
	return Options{
		Upscale:     1,
		ColorDepth:  16,
		ScaleDither: true,
		Shader:      ShaderAuto,
	}
}

// Validate rejects out of range settings
func (o Options) Validate() error {
	if o.Upscale < RSX_MIN_UPSCALE || o.Upscale > RSX_MAX_UPSCALE {
		return &RenderError{
			Operation: "validate options",
			Details:   fmt.Sprintf("upscale %d outside %d..%d", o.Upscale, RSX_MIN_UPSCALE, RSX_MAX_UPSCALE),
			Err:       ErrInvalidOption,
		}
	}
	if o.ColorDepth != 16 && o.ColorDepth != 32 {
		return &RenderError{
			Operation: "validate options",
			Details:   fmt.Sprintf("color depth %d is neither 16 nor 32", o.ColorDepth),
			Err:       ErrInvalidOption,
		}
	}
	if o.Shader < ShaderAuto || o.Shader > ShaderFloat {
		return &RenderError{
			Operation: "validate options",
			Details:   fmt.Sprintf("shader %v", o.Shader),
			Err:       ErrInvalidOption,
		}
	}
	return nil
}

// DitherEnabled is false for 32bpp internal depth
func (o Options) DitherEnabled() bool {
	return o.ColorDepth == 16
}

// ditherScale is the divisor applied to upscaled coordinates before
// indexing the dither pattern
func (o Options) ditherScale() int {
	if o.ScaleDither {
		return o.Upscale
	}
	return 1
}

// Apply overlays frontend variables on o. Unknown keys are ignored.
func (o Options) Apply(vars map[string]string) (Options, error) {
	out := o
	for key, value := range vars {
		var err error
		switch key {
		case OPTION_INTERNAL_RESOLUTION:
			out.Upscale, err = parseNumber(value)
		case OPTION_INTERNAL_COLOR_DEPTH:
			out.ColorDepth, err = parseNumber(value)
		case OPTION_SCALE_DITHER:
			out.ScaleDither, err = parseBool(value)
		case OPTION_WIREFRAME:
			out.Wireframe, err = parseBool(value)
		case OPTION_SHADER:
			out.Shader, err = ParseShaderKind(value)
		default:
			continue
		}
		if err != nil {
			return o, &RenderError{
				Operation: "parse option",
				Details:   fmt.Sprintf("%s=%q", key, value),
				Err:       ErrInvalidOption,
			}
		}
	}
	if err := out.Validate(); err != nil {
		return o, err
	}
	return out, nil
}

// ParseOptions builds options from defaults plus frontend variables
func ParseOptions(vars map[string]string) (Options, error) {
	return DefaultOptions().Apply(vars)
}

// parseNumber extracts the number from labels such as "2x" or
// "dithered 16bpp (native)"
func parseNumber(s string) (int, error) {
	num := strings.TrimFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	return strconv.Atoi(num)
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true", "enabled", "on":
		return true, nil
	case "false", "disabled", "off":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}
