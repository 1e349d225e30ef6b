package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// resetLogger resets the logger to default state for test isolation
func resetLogger() {
	Init(Options{})
}

// --- Level Tests ---

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantDebug bool
		wantInfo  bool
		wantError bool
	}{
		{"default", Options{}, false, true, true},
		{"debug", Options{Debug: true}, true, true, true},
		{"quiet", Options{Quiet: true}, false, false, true},
		{"quiet overrides debug", Options{Debug: true, Quiet: true}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			opts := tt.opts
			opts.Output = buf
			Init(opts)
			defer resetLogger()

			Debug("debug line")
			Info("info line")
			Error("error line")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "info line"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(out, "error line"); got != tt.wantError {
				t.Errorf("error logged = %v, want %v", got, tt.wantError)
			}
		})
	}
}

// --- Format Tests ---

func TestInit_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("columns removed", "count", 2)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON object, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "columns removed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["count"] != float64(2) {
		t.Errorf("count = %v", entry["count"])
	}
}

func TestSetLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	SetLogger(slog.New(slog.NewTextHandler(buf, nil)))
	defer resetLogger()

	Warn("from custom logger")
	if !strings.Contains(buf.String(), "from custom logger") {
		t.Error("expected message on the custom logger")
	}
}

// --- Attribute Tests ---

func TestForPass_TagsPassName(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	ForPass("impute").Info("missing values filled", "cells", 3)

	out := buf.String()
	if !strings.Contains(out, "pass=impute") {
		t.Errorf("expected pass attribute, got %q", out)
	}
	if !strings.Contains(out, "cells=3") {
		t.Errorf("expected cells attribute, got %q", out)
	}
}

func TestWith_ReturnsLoggerWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	With("input", "data.csv").Info("loading")

	if !strings.Contains(buf.String(), "input=data.csv") {
		t.Errorf("expected attributes in output, got %q", buf.String())
	}
}

// --- Context Tests ---

func TestContextVariants(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	ctx := context.Background()
	InfoContext(ctx, "info with context")
	ErrorContext(ctx, "error with context")

	out := buf.String()
	if !strings.Contains(out, "info with context") || !strings.Contains(out, "error with context") {
		t.Errorf("expected both context messages, got %q", out)
	}
}
