// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestEmitJSON(t *testing.T) {
	var output JSONOutput
	var buffer bytes.Buffer

	done, err := output.EmitJSON(&buffer, []string{"a"})
	if done || err != nil || buffer.Len() != 0 {
		t.Fatalf("EmitJSON without --json = %v, %v, wrote %q", done, err, buffer.String())
	}

	output.OutputJSON = true
	var nilSlice []string
	done, err = output.EmitJSON(&buffer, nilSlice)
	if !done || err != nil {
		t.Fatalf("EmitJSON = %v, %v", done, err)
	}
	if got := strings.TrimSpace(buffer.String()); got != "[]" {
		t.Errorf("nil slice rendered as %q, want []", got)
	}
}

func TestNewLogger(t *testing.T) {
	var buffer bytes.Buffer
	newLogger(&buffer, false, false).Info("hidden")
	if buffer.Len() != 0 {
		t.Errorf("info logged without verbose: %q", buffer.String())
	}

	newLogger(&buffer, false, false).Warn("shown", "path", "$.1")
	if !strings.Contains(buffer.String(), `"path":"$.1"`) {
		t.Errorf("non-terminal output is not JSON: %q", buffer.String())
	}

	buffer.Reset()
	logger := newLogger(&buffer, true, true)
	logger.Debug("detail", "kind", "Map")
	if !strings.Contains(buffer.String(), "level=DEBUG") || !strings.Contains(buffer.String(), "kind=Map") {
		t.Errorf("terminal verbose output = %q", buffer.String())
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("verbose logger does not enable debug")
	}
}
