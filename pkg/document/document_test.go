package document

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/discdraw/pkg/geom"
	"github.com/matzehuels/discdraw/pkg/layout"
	"github.com/matzehuels/discdraw/pkg/params"
	"github.com/matzehuels/discdraw/pkg/surface"
)

func textEncoder() Encoder {
	return EncoderFunc(func(w io.Writer, s *Snapshot) error {
		_, err := io.WriteString(w, s.Name)
		return err
	})
}

func TestNewDocument(t *testing.T) {
	d := New()
	if d.ID() == "" {
		t.Error("document has no ID")
	}
	if _, ok := d.Layer("0"); !ok {
		t.Error("layer 0 missing")
	}
	if !d.HasLinePattern("continuous") {
		t.Error("CONTINUOUS should be preloaded")
	}
	if d.HasLinePattern("CENTER2") {
		t.Error("CENTER2 should not be preloaded")
	}
	if New().ID() == d.ID() {
		t.Error("IDs should be unique")
	}
}

func TestPresetLayers(t *testing.T) {
	d := New(
		WithName("disc"),
		WithLayer(Layer{Name: "GEOM", Color: 3, Linetype: "CONTINUOUS"}),
		WithLayer(Layer{Name: "HIDDEN", Color: 8, Linetype: "hidden"}),
		WithLayer(Layer{Name: "ODD", Color: 1, Linetype: "NOPE"}),
	)
	s := d.Snapshot()
	if s.Name != "disc" {
		t.Errorf("name = %s", s.Name)
	}
	if l, _ := s.Layer("HIDDEN"); l.Linetype != "HIDDEN" || !d.HasLinePattern("HIDDEN") {
		t.Errorf("HIDDEN layer = %+v", l)
	}
	if l, _ := s.Layer("ODD"); l.Linetype != Continuous {
		t.Errorf("unknown pattern should fall back to CONTINUOUS, got %s", l.Linetype)
	}
}

func TestAddLayer(t *testing.T) {
	d := New()
	h, err := d.AddLayer("GEOM")
	if err != nil {
		t.Fatal(err)
	}
	if h.Kind() != KindLayer || h.ID() == "" {
		t.Errorf("handle = %s %s", h.Kind(), h.ID())
	}
	if _, err := d.AddLayer("GEOM"); err == nil {
		t.Error("duplicate layer should fail")
	}
	if _, err := d.AddLayer("A/B"); !errors.Is(err, surface.ErrInvalidValue) {
		t.Errorf("bad name: err = %v", err)
	}
	got, ok := d.Layer("GEOM")
	if !ok || got.ID() != h.ID() {
		t.Error("Layer lookup should return the created layer")
	}
}

func TestLayerProperties(t *testing.T) {
	d := New()
	h, _ := d.AddLayer("CENTER")

	tests := []struct {
		name  string
		prop  string
		value any
		want  error
	}{
		{"color", "Color", surface.Color(2), nil},
		{"color int", "Color", 5, nil},
		{"color by layer", "Color", surface.ColorByLayer, surface.ErrInvalidValue},
		{"color out of range", "Color", 300, surface.ErrInvalidValue},
		{"unloaded linetype", "Linetype", "CENTER2", surface.ErrInvalidValue},
		{"loaded linetype", "Linetype", "continuous", nil},
		{"color index", "ColorIndex", 2, surface.ErrUnsupportedProperty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.SetProperty(tt.prop, tt.value)
			if tt.want == nil && err != nil {
				t.Errorf("SetProperty(%s) = %v", tt.prop, err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("SetProperty(%s) = %v, want %v", tt.prop, err, tt.want)
			}
		})
	}

	if err := d.LoadLinePattern("CENTER2", "acad.lin"); err != nil {
		t.Fatal(err)
	}
	if err := h.SetProperty("Linetype", "CENTER2"); err != nil {
		t.Errorf("after load: %v", err)
	}
	l, _ := d.Snapshot().Layer("CENTER")
	if l.Linetype != "CENTER2" || l.Color != 5 {
		t.Errorf("layer = %+v", l)
	}
}

func TestLoadLinePattern(t *testing.T) {
	d := New()
	if err := d.LoadLinePattern("ZIGZAG", "acad.lin"); !errors.Is(err, surface.ErrPatternNotFound) {
		t.Errorf("unknown pattern: err = %v", err)
	}
	if err := d.LoadLinePattern("CENTER", "no/such/file.lin"); err == nil {
		t.Error("unknown library should fail")
	}
	if d.HasLinePattern("ZIGZAG") {
		t.Error("failed load must not register the pattern")
	}
}

func TestEntityProperties(t *testing.T) {
	d := New()
	if _, err := d.AddLayer("DIM"); err != nil {
		t.Fatal(err)
	}
	dim, _ := d.AddAlignedDimension(geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(5, -5))
	txt, _ := d.AddTextBlock(geom.Pt(0, 0), 30, "x")
	circle, _ := d.AddCircle(geom.Pt(0, 0), 1)

	tests := []struct {
		name  string
		h     surface.Handle
		prop  string
		value any
		want  error
	}{
		{"dim layer", dim, "Layer", "DIM", nil},
		{"dim unknown layer", dim, "Layer", "NOPE", surface.ErrInvalidValue},
		{"dim text height", dim, "TextHeight", 2.5, nil},
		{"dim arrowhead", dim, "ArrowheadSize", 3.0, nil},
		{"dim arrow size", dim, "ArrowSize", 3.0, surface.ErrUnsupportedProperty},
		{"dim text color", dim, "TextColor", surface.Color(7), nil},
		{"dim precision", dim, "PrimaryUnitsPrecision", 2, nil},
		{"dim precision float", dim, "PrimaryUnitsPrecision", 2.5, surface.ErrInvalidValue},
		{"dim precision range", dim, "PrimaryUnitsPrecision", 12, surface.ErrInvalidValue},
		{"dim text rotation", dim, "TextRotation", math.Pi / 2, nil},
		{"dim rotation", dim, "Rotation", math.Pi / 2, surface.ErrUnsupportedProperty},
		{"dim height wrong type", dim, "TextHeight", "big", surface.ErrInvalidValue},
		{"text height", txt, "Height", 2.25, nil},
		{"text text height", txt, "TextHeight", 2.25, surface.ErrUnsupportedProperty},
		{"text attachment", txt, "AttachmentPoint", surface.AttachMiddleCenter, nil},
		{"text bad attachment", txt, "AttachmentPoint", 10, surface.ErrInvalidValue},
		{"text rotation", txt, "Rotation", math.Pi / 2, nil},
		{"circle color", circle, "Color", 1, nil},
		{"circle height", circle, "Height", 1.0, surface.ErrUnsupportedProperty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.h.SetProperty(tt.prop, tt.value)
			if tt.want == nil && err != nil {
				t.Errorf("SetProperty(%s) = %v", tt.prop, err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("SetProperty(%s) = %v, want %v", tt.prop, err, tt.want)
			}
		})
	}

	s := d.Snapshot()
	e := s.Entities[0]
	if e.Layer != "DIM" || e.Precision != 2 || e.ArrowSize != 3 || e.TextHeight != 2.5 {
		t.Errorf("dimension = %+v", e)
	}
	if s.Entities[1].Attachment != surface.AttachMiddleCenter || s.Entities[1].Height != 2.25 {
		t.Errorf("text = %+v", s.Entities[1])
	}
}

func TestResolvedTextPosition(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, leader geom.Point3D
		want           geom.Point3D
	}{
		{"diameter", geom.Pt(-38, -49), geom.Pt(38, -49), geom.Pt(0, -59), geom.Pt(0, -59)},
		{"thickness", geom.Pt(38, -44), geom.Pt(38, -47), geom.Pt(48, -45.5), geom.Pt(48, -45.5)},
		{"leader off center", geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(2, 7), geom.Pt(5, 7)},
		{"diagonal", geom.Pt(0, 0), geom.Pt(4, 4), geom.Pt(0, 4), geom.Pt(0, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			h, err := d.AddAlignedDimension(tt.p1, tt.p2, tt.leader)
			if err != nil {
				t.Fatal(err)
			}
			got := h.ResolvedTextPosition()
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("ResolvedTextPosition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDimensionText(t *testing.T) {
	e := Entity{P1: geom.Pt(38, -44), P2: geom.Pt(38, -47), Precision: 2}
	if got := e.DimensionText(); got != "3.00" {
		t.Errorf("DimensionText() = %q", got)
	}
	e.TextOverride = "0.15"
	if got := e.DimensionText(); got != "0.15" {
		t.Errorf("override = %q", got)
	}
	a, b := (&Entity{P1: geom.Pt(-38, -49), P2: geom.Pt(38, -49), Leader: geom.Pt(0, -59)}).DimensionLine()
	if a != geom.Pt(-38, -59) || b != geom.Pt(38, -59) {
		t.Errorf("DimensionLine() = %v, %v", a, b)
	}
}

func TestSaveAndClose(t *testing.T) {
	dir := t.TempDir()
	d := New(WithName("disc"), WithEncoder(".txt", textEncoder()))

	if err := d.SaveAndClose(filepath.Join(dir, "out.bin")); err == nil {
		t.Error("unregistered extension should fail")
	}

	path := filepath.Join(dir, "out.TXT")
	if err := d.SaveAndClose(path); err != nil {
		t.Fatalf("SaveAndClose: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "disc" {
		t.Errorf("file = %q, %v", data, err)
	}

	if err := d.SaveAndClose(path); !errors.Is(err, surface.ErrClosed) {
		t.Errorf("second save: err = %v", err)
	}
	if _, err := d.AddLine(geom.Pt(0, 0), geom.Pt(1, 1)); !errors.Is(err, surface.ErrClosed) {
		t.Errorf("add after close: err = %v", err)
	}
}

func TestSaveFailureKeepsDocumentOpen(t *testing.T) {
	failing := EncoderFunc(func(io.Writer, *Snapshot) error { return errors.New("disk full") })
	d := New(WithEncoder(".dxf", failing))
	path := filepath.Join(t.TempDir(), "out.dxf")

	if err := d.SaveAndClose(path); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("partial file should be removed")
	}
	if _, err := d.AddCircle(geom.Pt(0, 0), 1); err != nil {
		t.Errorf("document should stay open: %v", err)
	}
}

func TestEncode(t *testing.T) {
	d := New(WithName("x"), WithEncoder(".txt", textEncoder()))
	var buf bytes.Buffer
	if err := d.Encode(&buf, ".TXT"); err != nil || buf.String() != "x" {
		t.Errorf("Encode = %q, %v", buf.String(), err)
	}
	if err := d.Encode(&buf, ".pdf"); err == nil {
		t.Error("unknown format should fail")
	}
	if got := d.Formats(); len(got) != 1 || got[0] != ".txt" {
		t.Errorf("Formats() = %v", got)
	}
}

func TestLayoutOnDocument(t *testing.T) {
	d := New()
	res, err := layout.Run(layout.NewSession(d, nil), params.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v", res.Warnings)
	}
	if res.DiameterText != geom.Pt(0, -59) || res.ThicknessText != geom.Pt(48, -45.5) {
		t.Errorf("resolved = %v, %v", res.DiameterText, res.ThicknessText)
	}

	s := d.Snapshot()
	if l, ok := s.Layer("CENTER"); !ok || l.Linetype != "CENTER2" || l.Color != 2 {
		t.Errorf("CENTER layer = %+v", l)
	}
	if l, ok := s.Layer("DIM"); !ok || l.Color != 6 {
		t.Errorf("DIM layer = %+v", l)
	}
	if len(s.Entities) != 12 {
		t.Fatalf("entities = %d, want 12", len(s.Entities))
	}

	var dims, texts []Entity
	for _, e := range s.Entities {
		switch e.Kind {
		case KindDimension:
			dims = append(dims, e)
		case KindText:
			texts = append(texts, e)
		}
	}
	if dims[0].DimensionText() != "76" || dims[1].DimensionText() != "3.00" {
		t.Errorf("dimension text = %q, %q", dims[0].DimensionText(), dims[1].DimensionText())
	}
	if dims[1].TextRotation == 0 || dims[0].ArrowSize != 3 || dims[0].TextColor != 7 {
		t.Errorf("dimension style = %+v", dims[1])
	}
	if math.Abs(texts[0].Height-2.25) > 1e-9 || texts[0].Layer != "DIM" || texts[0].Color != 7 {
		t.Errorf("tolerance = %+v", texts[0])
	}
	if texts[2].Layer != "GEOM" || texts[2].Color != surface.ColorByLayer || s.EffectiveColor(texts[2]) != 7 {
		t.Errorf("note = %+v", texts[2])
	}
}

func TestLayoutIdempotentLayers(t *testing.T) {
	d := New()
	sess := layout.NewSession(d, nil)
	for _, spec := range layout.PlanLayers(params.Default()) {
		if _, err := layout.EnsureLayer(sess, spec); err != nil {
			t.Fatal(err)
		}
	}
	before := d.Snapshot()
	for _, spec := range layout.PlanLayers(params.Default()) {
		if _, err := layout.EnsureLayer(sess, spec); err != nil {
			t.Fatal(err)
		}
	}
	after := d.Snapshot()
	if len(before.Layers) != len(after.Layers) || len(before.Linetypes) != len(after.Linetypes) {
		t.Fatal("second pass changed the tables")
	}
	for i := range before.Layers {
		if before.Layers[i] != after.Layers[i] {
			t.Errorf("layer %d: %+v -> %+v", i, before.Layers[i], after.Layers[i])
		}
	}
}
