// main.go - Entry point for the Intuition RSX renderer driver

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
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/intuitionamiga/IntuitionRSX/rsx"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147m ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████\033[0m\n\033[38;2;255;50;147m▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀\033[0m\n\033[38;2;255;80;147m▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███\033[0m\n\033[38;2;255;110;147m░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄\033[0m\n\033[38;2;255;140;147m░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒\033[0m\n\033[38;2;255;170;147m░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░\033[0m\n\033[38;2;255;200;147m ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░\033[0m\n\033[38;2;255;230;147m ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░\033[0m\n\033[38;2;255;255;147m ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░\033[0m")
	fmt.Println("\nIntuition RSX - a PlayStation GPU rendering backend with integer and float fragment shaders.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionRSX")
	fmt.Println("Buy me a coffee: https://ko-fi.com/intuition/tip")
	fmt.Println("License: GPLv3 or later")
}

type runConfig struct {
	script      string
	output      string
	shader      string
	pal         bool
	terminal    bool
	window      bool
	features    bool
	wireframe   bool
	scale       int
	upscale     int
	colorDepth  int
	scaleDither bool
}

// parseRunConfig reads the command line. flag.ErrHelp is returned as is.
func parseRunConfig(args []string) (runConfig, error) {
	var cfg runConfig

	flagSet := flag.NewFlagSet("intuition_rsx", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&cfg.script, "script", "", "Lua command script to run")
	flagSet.StringVar(&cfg.output, "out", "", "Write each frame to a .png, .bmp or .tiff file (use %03d for the frame number)")
	flagSet.StringVar(&cfg.shader, "shader", "auto", "Fragment shader: auto, integer or float")
	flagSet.BoolVar(&cfg.pal, "pal", false, "Use PAL timing instead of NTSC")
	flagSet.BoolVar(&cfg.terminal, "term", false, "Preview frames in the terminal")
	flagSet.BoolVar(&cfg.window, "window", false, "Show frames in a window")
	flagSet.BoolVar(&cfg.features, "features", false, "Print compiled features and exit")
	flagSet.BoolVar(&cfg.wireframe, "wireframe", false, "Rasterize triangle edges only")
	flagSet.BoolVar(&cfg.scaleDither, "scale-dither", true, "Scale the dither pattern with the internal resolution")
	flagSet.IntVar(&cfg.scale, "scale", 2, "Window scale factor (1-4)")
	flagSet.IntVar(&cfg.upscale, "upscale", 1, "Internal resolution multiplier (1-12)")
	flagSet.IntVar(&cfg.colorDepth, "depth", 16, "Internal color depth: 16 (dithered) or 32")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./intuition_rsx -script file.lua [-out frame%03d.png] [-term] [-window] [-pal] [-shader auto|integer|float]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.script == "" && flagSet.NArg() > 0 {
		cfg.script = flagSet.Arg(0)
	}
	if cfg.script == "" && !cfg.features {
		return cfg, fmt.Errorf("a script is required")
	}
	return cfg, nil
}

// options turns the command line into renderer options
func (cfg runConfig) options() (rsx.Options, error) {
	shader, err := rsx.ParseShaderKind(cfg.shader)
	if err != nil {
		return rsx.Options{}, err
	}
	opts := rsx.DefaultOptions()
	opts.Upscale = cfg.upscale
	opts.ColorDepth = cfg.colorDepth
	opts.ScaleDither = cfg.scaleDither
	opts.Wireframe = cfg.wireframe
	opts.Shader = shader
	return opts, opts.Validate()
}

func (cfg runConfig) clock() rsx.VideoClock {
	if cfg.pal {
		return rsx.ClockPAL
	}
	return rsx.ClockNTSC
}

func main() {
	cfg, err := parseRunConfig(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.features {
		printFeatures()
		return
	}

	boilerPlate()

	if err := run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg runConfig) error {
	opts, err := cfg.options()
	if err != nil {
		return err
	}

	session, err := rsx.Open(cfg.clock(), opts)
	if err != nil {
		return err
	}
	defer session.Close()

	var sinks []FrameSink
	if cfg.output != "" {
		writer, err := NewFrameWriter(cfg.output)
		if err != nil {
			return err
		}
		sinks = append(sinks, writer)
	}
	if cfg.terminal {
		terminal, err := NewVideoOutput(VIDEO_BACKEND_TERMINAL)
		if err != nil {
			return err
		}
		if err := terminal.Start(); err != nil {
			return err
		}
		defer terminal.Close()
		sinks = append(sinks, terminal)
	}

	var window VideoOutput
	if cfg.window {
		window, err = NewVideoOutput(VIDEO_BACKEND_EBITEN)
		if err != nil {
			return err
		}
		info := session.AVInfo()
		window.SetDisplayConfig(DisplayConfig{
			Width:       rsx.RSX_DEFAULT_DISPLAY_WIDTH * opts.Upscale,
			Height:      rsx.RSX_DEFAULT_DISPLAY_HEIGHT * opts.Upscale,
			Scale:       cfg.scale,
			RefreshRate: int(info.FPS + 0.5),
			VSync:       true,
		})
		if v, ok := window.(VRAMViewCapable); ok {
			v.SetVRAMSource(session.Renderer().VRAMImage)
		}
		sinks = append(sinks, window)
	}

	host := NewScriptHost(session, sinks...)
	defer host.Close()

	if window != nil {
		if s, ok := window.(StatusCapable); ok {
			s.SetStatusSource(host.Status)
		}
		if err := window.Start(); err != nil {
			return err
		}
		defer window.Close()
	}

	if err := host.RunFile(cfg.script); err != nil {
		return fmt.Errorf("script %s: %w", cfg.script, err)
	}
	fmt.Printf("Rendered %d frames\n", session.FrameCount())

	if w, ok := window.(interface{ Done() <-chan struct{} }); ok && window.IsStarted() {
		fmt.Println("Script finished, close the window to exit")
		<-w.Done()
	}
	return nil
}
