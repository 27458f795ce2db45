package surface

import "fmt"

// Color is an AutoCAD Color Index (ACI) value. 0 is ByBlock, 256 is ByLayer,
// 1-255 are palette entries.
type Color int

const (
	ColorByBlock Color = 0
	ColorByLayer Color = 256
)

// Valid reports whether c is a representable ACI value.
func (c Color) Valid() bool { return c >= 0 && c <= 256 }

func (c Color) String() string {
	switch c {
	case ColorByBlock:
		return "ByBlock"
	case ColorByLayer:
		return "ByLayer"
	}
	return fmt.Sprintf("%d", int(c))
}

// RGB is an 8-bit colour triple.
type RGB struct {
	R, G, B uint8
}

// Hex returns the colour as #rrggbb.
func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// standard ACI 1-9. 7 is white on dark backgrounds and black on paper; sinks
// render to paper.
var aciStandard = [...]RGB{
	1: {255, 0, 0},
	2: {255, 255, 0},
	3: {0, 255, 0},
	4: {0, 255, 255},
	5: {0, 0, 255},
	6: {255, 0, 255},
	7: {0, 0, 0},
	8: {128, 128, 128},
	9: {192, 192, 192},
}

// paperSafe darkens yellow and cyan so that they stay legible on white.
var paperSafe = map[Color]RGB{
	2: {200, 160, 0},
	4: {0, 160, 160},
}

// PaperRGB maps c to the colour used when printing on white paper. Values
// outside the standard range fall back to black.
func PaperRGB(c Color) RGB {
	if rgb, ok := paperSafe[c]; ok {
		return rgb
	}
	if c >= 1 && int(c) < len(aciStandard) {
		return aciStandard[c]
	}
	return RGB{}
}
