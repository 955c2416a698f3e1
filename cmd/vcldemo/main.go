// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command vcldemo drives the frame engine on a backend for a number of
// frames and prints frame statistics.
//
// Usage:
//
//	vcldemo [-config vcldemo.toml] [-backend soft] [-frames 120] [-output frame.png]
//
// Settings are read from the optional TOML file first; flags given on the
// command line override them. With the soft backend the last frame can be
// written as a PNG.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"

	"golang.org/x/text/language"

	"github.com/gogpu/vcl"
	"github.com/gogpu/vcl/backend"
	_ "github.com/gogpu/vcl/backend/soft"
	_ "github.com/gogpu/vcl/backend/wgpu"
	"github.com/gogpu/vcl/gpucore"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "vcldemo: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := defaultConfig()
	fs := flag.NewFlagSet("vcldemo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "TOML configuration file")
	fs.StringVar(&flags.Demo.Backend, "backend", flags.Demo.Backend, "backend name, or auto")
	fs.IntVar(&flags.Demo.Frames, "frames", flags.Demo.Frames, "number of frames to render")
	fs.IntVar(&flags.Demo.Width, "width", flags.Demo.Width, "render target width")
	fs.IntVar(&flags.Demo.Height, "height", flags.Demo.Height, "render target height")
	fs.IntVar(&flags.Demo.Draws, "draws", flags.Demo.Draws, "draws per frame")
	fs.StringVar(&flags.Demo.Output, "output", flags.Demo.Output, "write the last frame as PNG (soft backend)")
	fs.StringVar(&flags.Demo.LogLevel, "log-level", flags.Demo.LogLevel, "debug, info, warn or error")
	fs.IntVar(&flags.Engine.Frames, "slots", flags.Engine.Frames, "frames in flight")
	fs.DurationVar(&flags.Engine.FenceTimeout.Duration, "fence-timeout", flags.Engine.FenceTimeout.Duration, "fence wait timeout")
	lang := fs.String("lang", "en", "language tag for the report")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := defaultConfig()
	if *configPath != "" {
		if err := loadConfig(*configPath, &cfg); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) { applyFlag(&cfg, flags, f.Name) })
	if err := cfg.validate(); err != nil {
		return err
	}

	level, err := cfg.logLevel()
	if err != nil {
		return err
	}
	vcl.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer vcl.SetLogger(nil)

	tag, err := language.Parse(*lang)
	if err != nil {
		return fmt.Errorf("-lang: %w", err)
	}

	dev, err := openDevice(cfg.Demo.Backend)
	if err != nil {
		return err
	}
	res, err := render(dev, cfg)
	if cerr := dev.Close(); cerr != nil {
		vcl.Logger().Warn("vcldemo: close device", "err", cerr)
	}
	if err != nil {
		return err
	}

	report(stdout, tag, dev.Info(), res)
	if cfg.Demo.Output != "" {
		return writeOutput(cfg.Demo.Output, res)
	}
	return nil
}

// applyFlag copies the value of the named flag from flags into cfg.
func applyFlag(cfg *config, flags config, name string) {
	switch name {
	case "backend":
		cfg.Demo.Backend = flags.Demo.Backend
	case "frames":
		cfg.Demo.Frames = flags.Demo.Frames
	case "width":
		cfg.Demo.Width = flags.Demo.Width
	case "height":
		cfg.Demo.Height = flags.Demo.Height
	case "draws":
		cfg.Demo.Draws = flags.Demo.Draws
	case "output":
		cfg.Demo.Output = flags.Demo.Output
	case "log-level":
		cfg.Demo.LogLevel = flags.Demo.LogLevel
	case "slots":
		cfg.Engine.Frames = flags.Engine.Frames
	case "fence-timeout":
		cfg.Engine.FenceTimeout = flags.Engine.FenceTimeout
	}
}

func openDevice(name string) (gpucore.Device, error) {
	if name == "" || name == "auto" {
		return backend.Default()
	}
	return backend.Open(name)
}

func writeOutput(path string, res result) error {
	if res.image == nil {
		return errors.New("-output needs a backend whose targets can be read back, such as soft")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, res.image); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
