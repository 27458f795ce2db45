package cli

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/discdraw/pkg/document"
	"github.com/matzehuels/discdraw/pkg/params"
	"github.com/matzehuels/discdraw/pkg/register"
)

func TestOutputPaths(t *testing.T) {
	p := params.Default()

	tests := []struct {
		name    string
		output  string
		formats []string
		want    []string
	}{
		{"defaults", "", nil, []string{"disc_76.dxf"}},
		{"explicit file", "part.pdf", nil, []string{"part.pdf"}},
		{"formats only", "", []string{"dxf", "svg"}, []string{"disc_76.dxf", "disc_76.svg"}},
		{"base name", filepath.Join("out", "part"), []string{"dxf", "pdf"}, []string{filepath.Join("out", "part.dxf"), filepath.Join("out", "part.pdf")}},
		{"known extension replaced", "part.pdf", []string{"svg"}, []string{"part.svg"}},
		{"unknown extension kept", "rev1.2", []string{"dxf"}, []string{"rev1.2.dxf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(p, tt.output, tt.formats)
			if !slices.Equal(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParamFlags(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cmd := c.planCommand()

	for _, name := range []string{"params", "circle-diameter", "label-thickness-override", "colors-centerline", "tolerance-diameter-upper"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}

	if err := cmd.ParseFlags([]string{"--circle-diameter", "80", "--label-thickness-override=false", "--colors-centerline", "5"}); err != nil {
		t.Fatal(err)
	}
	var pf paramFlags
	p, err := pf.load(cmd)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.CircleDiameter != 80 || p.LabelThicknessOverride || p.Colors.Centerline != 5 {
		t.Errorf("params = %+v", p)
	}
	// Untouched flags keep the defaults.
	if p.TextHeight != params.Default().TextHeight {
		t.Errorf("text height = %v, want default", p.TextHeight)
	}
}

func TestLayoutOnly(t *testing.T) {
	res, snap, err := layoutOnly(context.Background(), params.Default(), "")
	if err != nil {
		t.Fatalf("layoutOnly: %v", err)
	}
	if len(res.Layers) != 3 {
		t.Errorf("layers = %d, want 3", len(res.Layers))
	}
	labels := dimensionLabels(snap)
	if len(labels) != 2 {
		t.Fatalf("dimension labels = %v, want 2", labels)
	}
	if labels[0] != "76" {
		t.Errorf("diameter label = %q, want 76", labels[0])
	}
}

func TestPrintPlan(t *testing.T) {
	buf := captureOutput(t)
	res, snap, err := layoutOnly(context.Background(), params.Default(), "")
	if err != nil {
		t.Fatal(err)
	}
	printPlan(res, snap)
	for _, want := range []string{"Layers", "Primitives", "Dimensions", "Text", "GEOM", "CENTER2"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("plan output missing %q", want)
		}
	}
}

func TestEntityListModel(t *testing.T) {
	_, snap, err := layoutOnly(context.Background(), params.Default(), "")
	if err != nil {
		t.Fatal(err)
	}
	var m tea.Model = NewEntityListModel(snap)

	press := func(key string) {
		var msg tea.KeyMsg
		switch key {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		}
		m, _ = m.Update(msg)
	}

	press("up")
	if got := m.(EntityListModel).Cursor; got != 0 {
		t.Errorf("cursor = %d after up at top", got)
	}
	for range len(snap.Entities) + 3 {
		press("down")
	}
	if got := m.(EntityListModel).Cursor; got != len(snap.Entities)-1 {
		t.Errorf("cursor = %d, want last entity", got)
	}

	press("enter")
	em := m.(EntityListModel)
	if !em.Detail {
		t.Fatal("enter did not open the detail view")
	}
	if !strings.Contains(em.View(), snap.Entities[em.Cursor].ID) {
		t.Error("detail view does not show the entity handle")
	}

	press("esc")
	if m.(EntityListModel).Detail {
		t.Error("esc did not close the detail view")
	}
	if !strings.Contains(m.View(), snap.Name) {
		t.Error("list view missing the document name")
	}
}

func TestEntityProperties(t *testing.T) {
	_, snap, err := layoutOnly(context.Background(), params.Default(), "")
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range snap.Entities {
		rows := entityProperties(snap, e)
		keys := make([]string, len(rows))
		for i, r := range rows {
			keys[i] = r[0]
		}
		switch e.Kind {
		case document.KindDimension:
			if !slices.Contains(keys, "TextPosition") {
				t.Errorf("dimension %s missing TextPosition", e.ID)
			}
		case document.KindText:
			if !slices.Contains(keys, "Attachment") {
				t.Errorf("text %s missing Attachment", e.ID)
			}
		}
		if entitySummary(e) == "" {
			t.Errorf("%s %s has no summary", e.Kind, e.ID)
		}
	}
}

func TestHistoryRows(t *testing.T) {
	rows := historyRows([]register.Entry{{
		ID:        "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		Diameter:  76,
		Outputs:   []string{"/tmp/a.dxf", "/tmp/a.svg"},
		Entities:  12,
		Duration:  1500 * time.Microsecond,
	}})
	want := []string{"7c9e6679-7425-40de-944b-e07fc1f90ae7", "2h ago", "76", "12", "0", "2ms", "/tmp/a.dxf\n/tmp/a.svg"}
	if !slices.Equal(rows[0], want) {
		t.Errorf("row = %q, want %q", rows[0], want)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{now, "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-48 * time.Hour), "2d ago"},
		{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "Jan 2, 2024"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.t); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestFmtValue(t *testing.T) {
	def := params.Default()
	for _, f := range params.Fields() {
		if fmtValue(f.Get(&def)) == "" {
			t.Errorf("%s has an empty default rendering", f.Key)
		}
	}
	if got := fmtValue(2.5000); got != "2.5" {
		t.Errorf("fmtValue(2.5) = %q", got)
	}
}

func TestListenAndServeShutsDown(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- listenAndServe(withLogger(ctx, log.New(io.Discard)), srv) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("listenAndServe = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
