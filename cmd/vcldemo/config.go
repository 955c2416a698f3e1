// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/vcl/engine"
)

// duration reads Go duration strings such as "250ms" from TOML.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type engineConfig struct {
	Frames             int      `toml:"frames"`
	ConstantBufferSize int      `toml:"constant_buffer_size"`
	FenceTimeout       duration `toml:"fence_timeout"`
}

type demoConfig struct {
	Backend  string `toml:"backend"`
	Frames   int    `toml:"frames"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	Draws    int    `toml:"draws"`
	Output   string `toml:"output"`
	LogLevel string `toml:"log_level"`
}

type config struct {
	Engine engineConfig `toml:"engine"`
	Demo   demoConfig   `toml:"demo"`
}

func defaultConfig() config {
	return config{
		Engine: engineConfig{
			Frames:             engine.DefaultFrameCount,
			ConstantBufferSize: engine.DefaultConstantBufferSize,
			FenceTimeout:       duration{engine.DefaultFenceTimeout},
		},
		Demo: demoConfig{
			Backend:  "auto",
			Frames:   120,
			Width:    640,
			Height:   360,
			Draws:    16,
			LogLevel: "warn",
		},
	}
}

// loadConfig decodes the TOML file at path over cfg. Keys missing from the
// file keep their current values; unknown keys are an error.
func loadConfig(path string, cfg *config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%s: %s", path, strict.String())
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (c config) validate() error {
	switch {
	case c.Demo.Frames < 1:
		return fmt.Errorf("demo.frames must be at least 1, got %d", c.Demo.Frames)
	case c.Demo.Width < 1 || c.Demo.Height < 1:
		return fmt.Errorf("invalid target size %dx%d", c.Demo.Width, c.Demo.Height)
	case c.Demo.Draws < 0:
		return fmt.Errorf("demo.draws must not be negative, got %d", c.Demo.Draws)
	}
	return nil
}

func (c config) engineOptions() []engine.Option {
	return []engine.Option{
		engine.WithFrameCount(c.Engine.Frames),
		engine.WithConstantBufferSize(c.Engine.ConstantBufferSize),
		engine.WithFenceTimeout(c.Engine.FenceTimeout.Duration),
	}
}

func (c config) logLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Demo.LogLevel)); err != nil {
		return 0, fmt.Errorf("demo.log_level: %w", err)
	}
	return level, nil
}
