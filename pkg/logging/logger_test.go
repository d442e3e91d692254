// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"nonsense", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	if LevelWarn.String() != "WARN" {
		t.Errorf("LevelWarn.String() = %q", LevelWarn.String())
	}
	if Level(99).String() != "UNKNOWN" {
		t.Errorf("unknown level should stringify to UNKNOWN")
	}
}

func TestFileLogging(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "consolidator",
		Quiet:   true,
	})

	logger.Info("consolidation started", "run_id", "test-123")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	filename := "consolidator_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(data[:len(data)-1], &entry); err != nil {
		// More than one line is fine; check the first.
		line := strings.SplitN(string(data), "\n", 2)[0]
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log file is not JSON: %v", err)
		}
	}
	if entry["msg"] != "consolidation started" {
		t.Errorf("msg = %v, want the logged message", entry["msg"])
	}
	if entry["service"] != "consolidator" {
		t.Errorf("service = %v, want consolidator", entry["service"])
	}
	if entry["run_id"] != "test-123" {
		t.Errorf("run_id = %v, want test-123", entry["run_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelWarn,
		LogDir:  dir,
		Service: "consolidator",
		Quiet:   true,
	})

	logger.Info("should be filtered")
	logger.Warn("should appear")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	filename := "consolidator_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if strings.Contains(string(data), "should be filtered") {
		t.Error("info message leaked past a warn-level logger")
	}
	if !strings.Contains(string(data), "should appear") {
		t.Error("warn message missing from the log file")
	}
}

func TestWithSharesFileHandle(t *testing.T) {
	logger := Default()
	child := logger.With("component", "engine")
	if child == logger {
		t.Fatal("With must return a new logger")
	}
	child.Info("hello")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}

func TestCloseIsIdempotentWithoutFile(t *testing.T) {
	logger := Default()
	if err := logger.Close(); err != nil {
		t.Errorf("first Close() = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}
