// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package opengl

import (
	"context"
	"log/slog"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"

	"github.com/gogpu/vcl"
)

// ignoredDebugMessages lists message ids that are never logged.
var ignoredDebugMessages = map[uint32]bool{
	131218: true, // NVIDIA: shader recompiled due to GL state mismatch
}

func debugSourceName(source uint32) string {
	switch source {
	case gl.DEBUG_SOURCE_API:
		return "API"
	case gl.DEBUG_SOURCE_SHADER_COMPILER:
		return "Shader Compiler"
	case gl.DEBUG_SOURCE_WINDOW_SYSTEM:
		return "Window System"
	case gl.DEBUG_SOURCE_THIRD_PARTY:
		return "Third Party"
	case gl.DEBUG_SOURCE_APPLICATION:
		return "Application"
	default:
		return "Other"
	}
}

func debugTypeName(xtype uint32) string {
	switch xtype {
	case gl.DEBUG_TYPE_ERROR:
		return "Error"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		return "Deprecated Behavior"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		return "Undefined Behavior"
	case gl.DEBUG_TYPE_PERFORMANCE:
		return "Performance"
	case gl.DEBUG_TYPE_PORTABILITY:
		return "Portability"
	case gl.DEBUG_TYPE_MARKER:
		return "Marker"
	case gl.DEBUG_TYPE_PUSH_GROUP:
		return "Push Group"
	case gl.DEBUG_TYPE_POP_GROUP:
		return "Pop Group"
	default:
		return "Other"
	}
}

func debugSeverityName(severity uint32) string {
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		return "High"
	case gl.DEBUG_SEVERITY_MEDIUM:
		return "Medium"
	case gl.DEBUG_SEVERITY_LOW:
		return "Low"
	default:
		return "Notification"
	}
}

// debugLevel maps a message severity to a log level. Errors reported by the
// driver are logged at error level whatever their severity.
func debugLevel(xtype, severity uint32) slog.Level {
	switch {
	case severity == gl.DEBUG_SEVERITY_HIGH || xtype == gl.DEBUG_TYPE_ERROR:
		return slog.LevelError
	case severity == gl.DEBUG_SEVERITY_MEDIUM || severity == gl.DEBUG_SEVERITY_LOW:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}

// debugMessage logs one driver message. It never changes control flow.
func debugMessage(source, xtype, id, severity uint32, _ int32, message string, _ unsafe.Pointer) {
	if ignoredDebugMessages[id] {
		return
	}
	vcl.Logger().Log(context.Background(), debugLevel(xtype, severity), "opengl: "+message,
		"source", debugSourceName(source),
		"type", debugTypeName(xtype),
		"severity", debugSeverityName(severity),
		"id", id)
}

// installDebugOutput enables synchronous debug output, disables
// notification messages and registers debugMessage.
func installDebugOutput() {
	gl.Enable(gl.DEBUG_OUTPUT)
	gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
	gl.DebugMessageControl(gl.DONT_CARE, gl.DONT_CARE, gl.DEBUG_SEVERITY_NOTIFICATION, 0, nil, false)
	gl.DebugMessageCallback(debugMessage, nil)
}
