package mtext

import (
	"math"
	"testing"
)

func TestParseTolerance(t *testing.T) {
	lines, err := Parse(`\H0.900x;+0.0\P-0.2`, 2.25)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if got := lines[0].Text(); got != "+0.0" {
		t.Errorf("line 0 = %q", got)
	}
	if got := lines[1].Text(); got != "-0.2" {
		t.Errorf("line 1 = %q", got)
	}
	// scale persists across paragraph breaks
	for i, l := range lines {
		if math.Abs(l[0].Scale-0.9) > 1e-9 {
			t.Errorf("line %d scale = %v, want 0.9", i, l[0].Scale)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		wantErr bool
	}{
		{"plain", "VISUAL CRITERIA :", []string{"VISUAL CRITERIA :"}, false},
		{"paragraphs", `A\PB\PC`, []string{"A", "B", "C"}, false},
		{"unicode", `\H0.900x;±0.05`, []string{"±0.05"}, false},
		{"escapes", `a\\b\{c\}`, []string{`a\b{c}`}, false},
		{"group", `{\H2x;big}small`, []string{"bigsmall"}, false},
		{"unknown directive", `\C1;red`, []string{"red"}, false},
		{"empty", "", []string{""}, false},
		{"unbalanced close", `a}`, nil, true},
		{"unclosed group", `{a`, nil, true},
		{"unterminated", `\H0.9x`, nil, true},
		{"bad height", `\Hx;a`, nil, true},
		{"dangling", `a\`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := Parse(tt.in, 0)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d", len(lines), len(tt.want))
			}
			for i, w := range tt.want {
				if got := lines[i].Text(); got != w {
					t.Errorf("line %d = %q, want %q", i, got, w)
				}
			}
		})
	}
}

func TestGroupScaleEnds(t *testing.T) {
	lines, err := Parse(`{\H2x;big}small`, 0)
	if err != nil {
		t.Fatal(err)
	}
	l := lines[0]
	if len(l) != 2 {
		t.Fatalf("got %d runs, want 2", len(l))
	}
	if l[0].Scale != 2 || l[1].Scale != 1 {
		t.Errorf("scales = %v, %v; want 2, 1", l[0].Scale, l[1].Scale)
	}
	if l.MaxScale() != 2 {
		t.Errorf("MaxScale = %v", l.MaxScale())
	}
}

func TestAbsoluteHeight(t *testing.T) {
	lines, err := Parse(`\H5;a`, 2.5)
	if err != nil {
		t.Fatal(err)
	}
	if lines[0][0].Scale != 2 {
		t.Errorf("scale = %v, want 2", lines[0][0].Scale)
	}

	lines, err = Parse(`\H5;a`, 0)
	if err != nil {
		t.Fatal(err)
	}
	if lines[0][0].Height != 5 {
		t.Errorf("height = %v, want 5", lines[0][0].Height)
	}
}

func TestBuilders(t *testing.T) {
	if got := Scale(0.9); got != `\H0.900x;` {
		t.Errorf("Scale = %q", got)
	}
	if got := Join("+0.0", "-0.2"); got != `+0.0\P-0.2` {
		t.Errorf("Join = %q", got)
	}
	if got := Escape(`a\{b}`); got != `a\\\{b\}` {
		t.Errorf("Escape = %q", got)
	}
	if got := Plain(Scale(0.9) + Join("+0.0", "-0.2")); len(got) != 2 || got[1] != "-0.2" {
		t.Errorf("Plain = %q", got)
	}
}
