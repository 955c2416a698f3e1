// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package opengl

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/gl/v4.5-core/gl"

	"github.com/gogpu/vcl"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	vcl.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { vcl.SetLogger(nil) })
	return &buf
}

func TestDebugLevel(t *testing.T) {
	tests := []struct {
		xtype, severity uint32
		want            slog.Level
	}{
		{gl.DEBUG_TYPE_OTHER, gl.DEBUG_SEVERITY_HIGH, slog.LevelError},
		{gl.DEBUG_TYPE_ERROR, gl.DEBUG_SEVERITY_LOW, slog.LevelError},
		{gl.DEBUG_TYPE_PERFORMANCE, gl.DEBUG_SEVERITY_MEDIUM, slog.LevelWarn},
		{gl.DEBUG_TYPE_PORTABILITY, gl.DEBUG_SEVERITY_LOW, slog.LevelWarn},
		{gl.DEBUG_TYPE_MARKER, gl.DEBUG_SEVERITY_NOTIFICATION, slog.LevelDebug},
	}
	for _, tt := range tests {
		if got := debugLevel(tt.xtype, tt.severity); got != tt.want {
			t.Errorf("debugLevel(%#x, %#x) = %v, want %v", tt.xtype, tt.severity, got, tt.want)
		}
	}
}

func TestDebugNames(t *testing.T) {
	if got := debugSourceName(gl.DEBUG_SOURCE_SHADER_COMPILER); got != "Shader Compiler" {
		t.Errorf("debugSourceName = %q", got)
	}
	if got := debugTypeName(gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR); got != "Undefined Behavior" {
		t.Errorf("debugTypeName = %q", got)
	}
	if got := debugSeverityName(gl.DEBUG_SEVERITY_MEDIUM); got != "Medium" {
		t.Errorf("debugSeverityName = %q", got)
	}
	if got := debugSourceName(0); got != "Other" {
		t.Errorf("debugSourceName(0) = %q", got)
	}
}

func TestDebugMessageLogged(t *testing.T) {
	buf := captureLogs(t)
	debugMessage(gl.DEBUG_SOURCE_API, gl.DEBUG_TYPE_ERROR, 1280, gl.DEBUG_SEVERITY_HIGH, 0,
		"GL_INVALID_ENUM in glTexStorage2D", nil)

	out := buf.String()
	for _, want := range []string{"level=ERROR", "GL_INVALID_ENUM", "source=API", "type=Error", "id=1280"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestDebugMessageIgnored(t *testing.T) {
	buf := captureLogs(t)
	debugMessage(gl.DEBUG_SOURCE_API, gl.DEBUG_TYPE_PERFORMANCE, 131218, gl.DEBUG_SEVERITY_MEDIUM, 0,
		"Program/shader state performance warning", nil)
	if buf.Len() != 0 {
		t.Errorf("ignored message was logged: %q", buf.String())
	}
}
