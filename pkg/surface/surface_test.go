package surface

import (
	"errors"
	"fmt"
	"testing"
)

type fakeHandle struct {
	props map[string]any
	known map[string]bool
}

func (h *fakeHandle) ID() string   { return "1F" }
func (h *fakeHandle) Kind() string { return "DIMENSION" }

func (h *fakeHandle) SetProperty(name string, value any) error {
	if !h.known[name] {
		return fmt.Errorf("%s: %w", name, ErrUnsupportedProperty)
	}
	h.props[name] = value
	return nil
}

func newFake(names ...string) *fakeHandle {
	h := &fakeHandle{props: map[string]any{}, known: map[string]bool{}}
	for _, n := range names {
		h.known[n] = true
	}
	return h
}

func TestApplyStyle(t *testing.T) {
	tests := []struct {
		name       string
		known      []string
		candidates []string
		want       string
		wantErr    bool
	}{
		{"first candidate", []string{"ArrowheadSize"}, []string{"ArrowheadSize", "ArrowSize"}, "ArrowheadSize", false},
		{"fallback candidate", []string{"ArrowSize"}, []string{"ArrowheadSize", "ArrowSize"}, "ArrowSize", false},
		{"both supported picks first", []string{"TextColor", "Color"}, []string{"TextColor", "Color"}, "TextColor", false},
		{"none supported", []string{"Layer"}, []string{"TextHeight", "Height"}, "", true},
		{"no candidates", []string{"Layer"}, nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFake(tt.known...)
			got, err := ApplyStyle(h, 3.0, tt.candidates...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyStyle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ApplyStyle() = %q, want %q", got, tt.want)
			}
			if err != nil {
				if !errors.Is(err, ErrNoCandidate) {
					t.Error("error should wrap ErrNoCandidate")
				}
				if len(tt.candidates) > 0 && !errors.Is(err, ErrUnsupportedProperty) {
					t.Error("error should wrap the individual causes")
				}
				return
			}
			if h.props[got] != 3.0 {
				t.Errorf("property %s = %v, want 3", got, h.props[got])
			}
			for _, c := range tt.candidates {
				if c != got {
					if _, set := h.props[c]; set {
						t.Errorf("candidate %s should not have been applied", c)
					}
				}
			}
		})
	}
}

func TestStyleErrorMessage(t *testing.T) {
	_, err := ApplyStyle(newFake(), 1, "TextHeight", "Height")
	want := "DIMENSION 1F: can't set TextHeight|Height"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestPaperRGB(t *testing.T) {
	if got := PaperRGB(7).Hex(); got != "#000000" {
		t.Errorf("ACI 7 = %s, want black on paper", got)
	}
	if got := PaperRGB(1).Hex(); got != "#ff0000" {
		t.Errorf("ACI 1 = %s", got)
	}
	if got := PaperRGB(ColorByLayer).Hex(); got != "#000000" {
		t.Errorf("ByLayer fallback = %s", got)
	}
}

func TestAttachmentOffset(t *testing.T) {
	tests := []struct {
		a      Attachment
		fx, fy float64
	}{
		{AttachTopLeft, 0, 0},
		{AttachMiddleCenter, 0.5, 0.5},
		{AttachBottomRight, 1, 1},
		{AttachTopRight, 1, 0},
		{AttachBottomLeft, 0, 1},
		{Attachment(0), 0, 0},
	}
	for _, tt := range tests {
		fx, fy := tt.a.Offset()
		if fx != tt.fx || fy != tt.fy {
			t.Errorf("Attachment(%d).Offset() = (%v,%v), want (%v,%v)", tt.a, fx, fy, tt.fx, tt.fy)
		}
	}
	if AttachMiddleCenter != 5 {
		t.Errorf("AttachMiddleCenter = %d, want 5", AttachMiddleCenter)
	}
}
