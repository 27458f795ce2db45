package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestRegisterPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	path, err := registerPath()
	if err != nil {
		t.Fatalf("registerPath() error: %v", err)
	}
	if want := filepath.Join("/tmp/data", appName, "register.db"); path != want {
		t.Errorf("registerPath() = %q, want %q", path, want)
	}

	t.Setenv("XDG_DATA_HOME", "")
	path, err = registerPath()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	if !strings.Contains(path, appName) {
		t.Errorf("registerPath() = %q, should contain %q", path, appName)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"dxf", []string{"dxf"}},
		{"DXF, svg,,pdf ", []string{"dxf", "svg", "pdf"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
