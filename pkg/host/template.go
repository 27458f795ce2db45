package host

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/discdraw/pkg/document"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// Template describes the starting state of a new document: its name, the
// layers it already holds and the line patterns it has loaded.
//
//	name = "ISO A4"
//	linetypes = ["HIDDEN", "PHANTOM"]
//	linetype_file = "company.lin"
//
//	[[layer]]
//	name = "TITLE"
//	color = 3
type Template struct {
	Name         string          `toml:"name"`
	Layers       []TemplateLayer `toml:"layer"`
	Linetypes    []string        `toml:"linetypes"`
	LinetypeFile string          `toml:"linetype_file"`

	dir string
}

// TemplateLayer is a layer preset.
type TemplateLayer struct {
	Name     string        `toml:"name"`
	Color    surface.Color `toml:"color"`
	Linetype string        `toml:"linetype"`
}

// LoadTemplate reads a TOML template. A relative linetype_file is resolved
// against the template's directory.
func LoadTemplate(path string) (*Template, error) {
	var t Template
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("read template %s: unknown key %q", path, undecoded[0].String())
	}
	t.dir = filepath.Dir(path)
	for i, l := range t.Layers {
		if strings.TrimSpace(l.Name) == "" {
			return nil, fmt.Errorf("read template %s: layer %d has no name", path, i+1)
		}
	}
	return &t, nil
}

// Options converts the template into document options.
func (t *Template) Options() ([]document.Option, error) {
	var opts []document.Option
	if t.Name != "" {
		opts = append(opts, document.WithName(t.Name))
	}

	if len(t.Linetypes) > 0 {
		std := map[string]document.Linetype{}
		for _, lt := range document.StandardLinetypes() {
			std[lt.Name] = lt
		}
		var lts []document.Linetype
		for _, name := range t.Linetypes {
			lt, ok := std[strings.ToUpper(name)]
			if !ok {
				return nil, fmt.Errorf("linetype %q not in the standard library", name)
			}
			lts = append(lts, lt)
		}
		opts = append(opts, document.WithLinetypes(lts...))
	}

	if t.LinetypeFile != "" {
		path := t.linetypePath()
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		lts, err := document.ParseLinetypes(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		opts = append(opts, document.WithLinetypes(lts...))
	}

	for _, l := range t.Layers {
		color := l.Color
		if color == 0 {
			color = 7
		}
		opts = append(opts, document.WithLayer(document.Layer{Name: l.Name, Color: color, Linetype: l.Linetype}))
	}
	return opts, nil
}

func (t *Template) linetypePath() string {
	if filepath.IsAbs(t.LinetypeFile) {
		return t.LinetypeFile
	}
	return filepath.Join(t.dir, t.LinetypeFile)
}

// Fingerprint identifies what the template at path contributes to a
// document: the template bytes and, when it names one, the bytes of its
// linetype file. A template that cannot be read fingerprints as the blank
// document Open falls back to. An empty path returns nil.
func Fingerprint(path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return []byte("blank")
	}
	fp := append([]byte("template\x00"), data...)
	t, err := LoadTemplate(path)
	if err != nil || t.LinetypeFile == "" {
		return fp
	}
	lin, err := os.ReadFile(t.linetypePath())
	if err != nil {
		return append(fp, "\x00linetypes:missing"...)
	}
	fp = append(fp, "\x00linetypes\x00"...)
	return append(fp, lin...)
}
