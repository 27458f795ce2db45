package host

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	derrors "github.com/matzehuels/discdraw/pkg/errors"
)

func TestOpenBlank(t *testing.T) {
	h := NewLocal()
	doc, applied, err := h.Open(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if applied {
		t.Error("blank document reported a template")
	}
	if doc.Name() != "Drawing1" {
		t.Errorf("Name = %q", doc.Name())
	}
	got := strings.Join(doc.Formats(), ",")
	if got != ".dxf,.json,.pdf,.png,.svg" {
		t.Errorf("Formats = %s", got)
	}
}

func TestOpenTemplate(t *testing.T) {
	h := NewLocal()
	doc, applied, err := h.Open(context.Background(), filepath.Join("testdata", "iso.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !applied {
		t.Fatal("template not applied")
	}
	if doc.Name() != "ISO disc sheet" {
		t.Errorf("Name = %q", doc.Name())
	}
	for _, lt := range []string{"HIDDEN", "SHORTDASH", "CENTER2"} {
		if !doc.HasLinePattern(lt) {
			t.Errorf("pattern %s not loaded", lt)
		}
	}

	snap := doc.Snapshot()
	title, ok := snap.Layer("TITLE")
	if !ok || title.Color != 3 {
		t.Errorf("TITLE layer = %+v, %v", title, ok)
	}
	center, ok := snap.Layer("CENTER")
	if !ok || center.Linetype != "CENTER2" || center.Color != 1 {
		t.Errorf("CENTER layer = %+v, %v", center, ok)
	}
}

func TestOpenFallsBackToBlank(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"missing file", filepath.Join("testdata", "nope.toml")},
		{"unknown key", filepath.Join("testdata", "unknown_key.toml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewLocal(WithLogger(log.New(&buf)))
			doc, applied, err := h.Open(context.Background(), tt.template)
			if err != nil {
				t.Fatal(err)
			}
			if applied || doc.Name() != "Drawing1" {
				t.Errorf("applied=%v name=%q, want blank document", applied, doc.Name())
			}
			if !strings.Contains(buf.String(), "template unavailable") {
				t.Errorf("no fallback warning logged: %q", buf.String())
			}
		})
	}
}

func TestOpenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewLocal().Open(ctx, "")
	if !derrors.Is(err, derrors.ErrCodeHost) {
		t.Errorf("err = %v, want %s", err, derrors.ErrCodeHost)
	}
}

func TestTemplateUnknownLinetype(t *testing.T) {
	tpl := &Template{Linetypes: []string{"NOPE"}}
	if _, err := tpl.Options(); err == nil {
		t.Error("unknown standard linetype accepted")
	}
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "sheet.toml")
	lin := filepath.Join(dir, "company.lin")
	write := func(path, content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if Fingerprint("") != nil {
		t.Error("empty path should have no fingerprint")
	}
	missing := Fingerprint(tpl)

	write(tpl, "linetype_file = \"company.lin\"\n[[layer]]\nname = \"TITLE\"\n")
	write(lin, "*SHORTDASH,Short dash\nA,3,-1.5\n")
	first := Fingerprint(tpl)
	if bytes.Equal(first, missing) {
		t.Error("creating the template did not change the fingerprint")
	}
	if !bytes.Equal(first, Fingerprint(tpl)) {
		t.Error("fingerprint is not stable")
	}

	write(lin, "*SHORTDASH,Short dash\nA,5,-2.5\n")
	second := Fingerprint(tpl)
	if bytes.Equal(first, second) {
		t.Error("editing the linetype file did not change the fingerprint")
	}

	write(tpl, "linetype_file = \"company.lin\"\n[[layer]]\nname = \"BORDER\"\n")
	if bytes.Equal(second, Fingerprint(tpl)) {
		t.Error("editing the template did not change the fingerprint")
	}
}
