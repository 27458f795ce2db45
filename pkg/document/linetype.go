package document

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Continuous is the solid line pattern every document starts with.
const Continuous = "CONTINUOUS"

//go:embed acadiso.lin
var standardLibrary string

// standardNames resolve to the embedded metric library.
var standardNames = map[string]bool{"acad.lin": true, "acadiso.lin": true}

// Linetype is a named dash pattern. Positive elements are dashes, negative
// elements are gaps and zero is a dot. An empty pattern is a solid line.
type Linetype struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Pattern     []float64 `json:"pattern,omitempty"`
}

// Length returns the length of one repetition of the pattern.
func (l Linetype) Length() float64 {
	var n float64
	for _, e := range l.Pattern {
		if e < 0 {
			n -= e
		} else {
			n += e
		}
	}
	return n
}

// Dashes returns the pattern as alternating dash and gap lengths, suitable
// for SVG stroke-dasharray or PDF dash arrays. Dots become dashes of length
// dot.
func (l Linetype) Dashes(scale, dot float64) []float64 {
	if len(l.Pattern) == 0 {
		return nil
	}
	out := make([]float64, 0, len(l.Pattern))
	for _, e := range l.Pattern {
		switch {
		case e == 0:
			out = append(out, dot)
		case e < 0:
			out = append(out, -e*scale)
		default:
			out = append(out, e*scale)
		}
	}
	if len(out)%2 == 1 {
		out = append(out, out...)
	}
	return out
}

// ParseLinetypes reads a .lin pattern library.
//
// Each definition is a header line "*NAME,description" followed by an
// alignment line "A,e1,e2,...". Comments start with ';;'. Embedded text or
// shape elements in brackets are skipped.
func ParseLinetypes(r io.Reader) ([]Linetype, error) {
	var (
		out  []Linetype
		cur  *Linetype
		line int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, ";;") {
			continue
		}
		switch {
		case strings.HasPrefix(text, "*"):
			name, desc, _ := strings.Cut(text[1:], ",")
			name = strings.ToUpper(strings.TrimSpace(name))
			if name == "" {
				return nil, fmt.Errorf("line %d: empty linetype name", line)
			}
			out = append(out, Linetype{Name: name, Description: strings.TrimSpace(desc)})
			cur = &out[len(out)-1]
		case cur == nil:
			return nil, fmt.Errorf("line %d: pattern without header", line)
		default:
			pattern, err := parsePattern(text)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, cur.Name, err)
			}
			cur.Pattern = append(cur.Pattern, pattern...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parsePattern(text string) ([]float64, error) {
	text = stripBrackets(text)
	fields := strings.Split(text, ",")
	if len(fields) == 0 {
		return nil, nil
	}
	if strings.EqualFold(strings.TrimSpace(fields[0]), "A") {
		fields = fields[1:]
	}
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad element %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

func stripBrackets(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '[':
			depth++
		case r == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// libraries caches parsed pattern libraries by name.
type libraries struct {
	mu    sync.Mutex
	cache map[string]map[string]Linetype
}

var libs = &libraries{cache: map[string]map[string]Linetype{}}

// lookupLinetype finds name in library. The standard library names resolve to
// the embedded file; anything else is read from disk.
func lookupLinetype(name, library string) (Linetype, bool, error) {
	lib, err := libs.load(library)
	if err != nil {
		return Linetype{}, false, err
	}
	lt, ok := lib[strings.ToUpper(name)]
	return lt, ok, nil
}

func (l *libraries) load(library string) (map[string]Linetype, error) {
	key := strings.ToLower(library)
	if !standardNames[key] {
		key = library
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lib, ok := l.cache[key]; ok {
		return lib, nil
	}

	var r io.Reader
	if standardNames[key] {
		r = strings.NewReader(standardLibrary)
	} else {
		f, err := os.Open(library)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	defs, err := ParseLinetypes(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", library, err)
	}
	lib := make(map[string]Linetype, len(defs))
	for _, d := range defs {
		lib[d.Name] = d
	}
	l.cache[key] = lib
	return lib, nil
}

// StandardLinetypes returns every pattern of the embedded library.
func StandardLinetypes() []Linetype {
	defs, _ := ParseLinetypes(strings.NewReader(standardLibrary))
	return defs
}
