package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/discdraw/pkg/params"
)

// captureOutput redirects the command output for the duration of the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })
	return &buf
}

// isolate points every per-user directory at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func TestRootCommandRegistersCommands(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()

	want := []string{"draw", "plan", "inspect", "serve", "history", "params", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestExecuteParamsJSON(t *testing.T) {
	buf := captureOutput(t)
	if err := Execute(context.Background(), []string{"params", "--json", "--circle-diameter", "90", "--colors-geometry", "3"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	p, err := params.DecodeJSON(buf)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if p.CircleDiameter != 90 || p.Colors.Geometry != 3 {
		t.Errorf("diameter = %v geometry = %v", p.CircleDiameter, p.Colors.Geometry)
	}
}

func TestExecuteParamsTOMLRoundTrip(t *testing.T) {
	buf := captureOutput(t)
	if err := Execute(context.Background(), []string{"params", "--tolerance-thickness", "±0.1"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	p, err := params.Decode(buf)
	if err != nil {
		t.Fatalf("output is not a valid parameter file: %v", err)
	}
	if p.Tolerance.Thickness != "±0.1" {
		t.Errorf("thickness tolerance = %q", p.Tolerance.Thickness)
	}
}

func TestExecuteParamsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disc.yaml")

	buf := captureOutput(t)
	if err := Execute(context.Background(), []string{"params", "--yaml", "--gap", "7.5"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := params.LoadFile(path)
	if err != nil {
		t.Fatalf("output is not a valid parameter file: %v", err)
	}
	if p.Gap != 7.5 {
		t.Errorf("gap = %v, want 7.5", p.Gap)
	}
}

func TestExecuteDraw(t *testing.T) {
	dir := isolate(t)
	captureOutput(t)

	target := filepath.Join(dir, "out", "part")
	err := Execute(context.Background(), []string{"draw", "-o", target, "-f", "dxf,svg", "--circle-diameter", "50"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, ext := range []string{".dxf", ".svg"} {
		if _, err := os.Stat(target + ext); err != nil {
			t.Errorf("missing %s: %v", ext, err)
		}
	}

	// The drawing was recorded.
	buf := captureOutput(t)
	if err := Execute(context.Background(), []string{"history", "--json"}); err != nil {
		t.Fatalf("history: %v", err)
	}
	var entries []struct {
		Diameter float64  `json:"diameter"`
		Outputs  []string `json:"outputs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(entries) != 1 || entries[0].Diameter != 50 || len(entries[0].Outputs) != 2 {
		t.Errorf("history = %+v", entries)
	}
}

func TestExecuteDrawStrict(t *testing.T) {
	dir := isolate(t)
	captureOutput(t)

	err := Execute(context.Background(), []string{"draw", "-o", filepath.Join(dir, "d.dxf"), "--strict", "--circle-diameter", "0"})
	if err == nil || !strings.Contains(err.Error(), "INVALID_PARAMS") {
		t.Errorf("err = %v, want INVALID_PARAMS", err)
	}
}

func TestExecuteUnknownParamFile(t *testing.T) {
	isolate(t)
	captureOutput(t)
	if err := Execute(context.Background(), []string{"plan", "-p", "does-not-exist.toml"}); err == nil {
		t.Error("expected error for missing parameter file")
	}
}

func TestExecuteLogFile(t *testing.T) {
	dir := isolate(t)
	captureOutput(t)

	logPath := filepath.Join(dir, "discdraw.log")
	err := Execute(context.Background(), []string{"--log-file", logPath, "-v", "draw", "--no-history", "-o", filepath.Join(dir, "d.json")})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "drawing complete") {
		t.Errorf("log file missing completion line:\n%s", data)
	}
}
