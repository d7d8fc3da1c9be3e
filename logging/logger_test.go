// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"near-light-verifier/errors"
)

func TestWithErrorSurfacesProtocolCode(t *testing.T) {
	logger, err := NewLogger(DefaultConfig())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	protoErr := errors.New(errors.CodeSignatureInvalid, "sig bad").WithDetails("validator 2")
	withErr := logger.WithError(protoErr)
	if withErr == logger {
		t.Fatal("WithError should return a distinct logger when err is non-nil")
	}

	var buf bytes.Buffer
	bufLogger := &Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil)), config: DefaultConfig()}
	bufLogger.WithError(protoErr).Info("rejected")
	if !strings.Contains(buf.String(), `"error_code":"SIGNATURE_INVALID"`) {
		t.Fatalf("log line should carry the protocol error code, got %s", buf.String())
	}
}

func TestWithErrorNilIsNoOp(t *testing.T) {
	logger, err := NewLogger(DefaultConfig())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if logger.WithError(nil) != logger {
		t.Fatal("WithError(nil) should return the same logger instance")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("bogus"); err == nil {
		t.Fatal("ParseLevel should reject unknown levels")
	}
}

func TestLoggerInfoDoesNotPanic(t *testing.T) {
	logger, err := NewLogger(&Config{Level: slog.LevelInfo, Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("sync step completed", Field{Key: "height", Value: 100})
}
