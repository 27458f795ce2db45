// Package mtext reads and writes the inline formatting markup used in
// multi-line text blocks.
//
// Only the subset the disc drawing emits is understood:
//
//	\P        paragraph break
//	\H<f>x;   scale the following run by f relative to the block height
//	\H<f>;    set the following run to absolute height f
//	\\ \{ \}  escaped literals
//
// Braces group runs; a scale set inside a group ends with the group. Unknown
// directives are dropped together with their argument up to the next ';'.
package mtext

import (
	"fmt"
	"strconv"
	"strings"
)

// Run is a span of text rendered at a single height.
type Run struct {
	Text string

	// Scale is relative to the block height. Absolute heights are converted
	// when the block height is known; otherwise Height carries them.
	Scale  float64
	Height float64
}

// Line is one paragraph of a text block.
type Line []Run

// Text returns the plain text of the line.
func (l Line) Text() string {
	var b strings.Builder
	for _, r := range l {
		b.WriteString(r.Text)
	}
	return b.String()
}

// MaxScale returns the largest relative scale in the line, or 1 for an empty
// line.
func (l Line) MaxScale() float64 {
	m := 0.0
	for _, r := range l {
		if r.Scale > m {
			m = r.Scale
		}
	}
	if m == 0 {
		return 1
	}
	return m
}

// Scale returns the directive scaling the following run by f.
func Scale(f float64) string { return fmt.Sprintf(`\H%.3fx;`, f) }

// Join joins lines with paragraph breaks.
func Join(lines ...string) string { return strings.Join(lines, `\P`) }

// Escape protects literal backslashes and braces.
func Escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `{`, `\{`, `}`, `\}`)
	return r.Replace(s)
}

// Parse splits content into lines of runs. height is the block height used to
// convert absolute \H directives to relative scale; zero keeps them absolute.
func Parse(content string, height float64) ([]Line, error) {
	p := parser{src: content, height: height, scale: []float64{1}}
	return p.parse()
}

// Plain strips all markup and returns one string per line.
func Plain(content string) []string {
	lines, err := Parse(content, 0)
	if err != nil {
		return strings.Split(content, `\P`)
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text()
	}
	return out
}

type parser struct {
	src    string
	pos    int
	height float64

	scale []float64 // stack, one entry per open group
	abs   []float64 // absolute height per group, 0 if relative

	lines []Line
	cur   Line
	buf   strings.Builder
}

func (p *parser) top() float64 { return p.scale[len(p.scale)-1] }

func (p *parser) absTop() float64 {
	if len(p.abs) == 0 {
		return 0
	}
	return p.abs[len(p.abs)-1]
}

func (p *parser) flush() {
	if p.buf.Len() == 0 {
		return
	}
	p.cur = append(p.cur, Run{Text: p.buf.String(), Scale: p.top(), Height: p.absTop()})
	p.buf.Reset()
}

func (p *parser) parse() ([]Line, error) {
	p.abs = []float64{0}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '{':
			p.flush()
			p.scale = append(p.scale, p.top())
			p.abs = append(p.abs, p.absTop())
			p.pos++
		case '}':
			if len(p.scale) == 1 {
				return nil, fmt.Errorf("mtext: unbalanced '}' at %d", p.pos)
			}
			p.flush()
			p.scale = p.scale[:len(p.scale)-1]
			p.abs = p.abs[:len(p.abs)-1]
			p.pos++
		case '\\':
			if err := p.directive(); err != nil {
				return nil, err
			}
		default:
			p.buf.WriteByte(c)
			p.pos++
		}
	}
	if len(p.scale) != 1 {
		return nil, fmt.Errorf("mtext: unclosed '{'")
	}
	p.flush()
	p.lines = append(p.lines, p.cur)
	return p.lines, nil
}

func (p *parser) directive() error {
	if p.pos+1 >= len(p.src) {
		return fmt.Errorf("mtext: dangling '\\' at %d", p.pos)
	}
	code := p.src[p.pos+1]
	p.pos += 2
	switch code {
	case '\\', '{', '}':
		p.buf.WriteByte(code)
	case 'P':
		p.flush()
		p.lines = append(p.lines, p.cur)
		p.cur = nil
	case 'H':
		arg, err := p.argument()
		if err != nil {
			return err
		}
		p.flush()
		return p.setHeight(arg)
	default:
		// \~ is a non-breaking space and takes no argument.
		if code == '~' {
			p.buf.WriteByte(' ')
			return nil
		}
		if _, err := p.argument(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) argument() (string, error) {
	end := strings.IndexByte(p.src[p.pos:], ';')
	if end < 0 {
		return "", fmt.Errorf("mtext: unterminated directive at %d", p.pos)
	}
	arg := p.src[p.pos : p.pos+end]
	p.pos += end + 1
	return arg, nil
}

func (p *parser) setHeight(arg string) error {
	relative := strings.HasSuffix(arg, "x") || strings.HasSuffix(arg, "X")
	num := strings.TrimRight(arg, "xX")
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("mtext: bad height %q", arg)
	}
	i := len(p.scale) - 1
	switch {
	case relative:
		p.scale[i] *= f
	case p.height > 0:
		p.scale[i] = f / p.height
		p.abs[i] = 0
	default:
		p.abs[i] = f
	}
	return nil
}
