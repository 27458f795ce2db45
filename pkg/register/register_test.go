package register

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Register {
	t.Helper()
	r, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "register.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordAndGet(t *testing.T) {
	ctx := context.Background()
	r := openTemp(t)

	in := Entry{
		ParamsHash: "abc",
		Diameter:   76,
		Template:   "iso.toml",
		Outputs:    []string{"disc_76.dxf", "disc_76.pdf"},
		Entities:   12,
		Warnings:   1,
		Duration:   42 * time.Millisecond,
	}
	stored, err := r.Record(ctx, in)
	if err != nil {
		t.Fatal(err)
	}
	if stored.ID == "" || stored.CreatedAt.IsZero() {
		t.Fatalf("Record did not fill ID/CreatedAt: %+v", stored)
	}

	got, err := r.Get(ctx, stored.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ParamsHash != "abc" || got.Diameter != 76 || got.Template != "iso.toml" {
		t.Errorf("Get = %+v", got)
	}
	if len(got.Outputs) != 2 || got.Outputs[1] != "disc_76.pdf" {
		t.Errorf("Outputs = %v", got.Outputs)
	}
	if got.Entities != 12 || got.Warnings != 1 || got.Duration != 42*time.Millisecond {
		t.Errorf("counters = %d/%d/%v", got.Entities, got.Warnings, got.Duration)
	}
	if !got.CreatedAt.Equal(stored.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, stored.CreatedAt)
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := openTemp(t).Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := openTemp(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, d := range []float64{50, 76, 100} {
		_, err := r.Record(ctx, Entry{
			ParamsHash: "h",
			Diameter:   d,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	all, err := r.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].Diameter != 100 || all[2].Diameter != 50 {
		t.Errorf("List(0) = %+v", all)
	}

	two, err := r.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(two) != 2 || two[0].Diameter != 100 {
		t.Errorf("List(2) = %+v", two)
	}
}

func TestFindByParams(t *testing.T) {
	ctx := context.Background()
	r := openTemp(t)
	for _, h := range []string{"a", "b", "a"} {
		if _, err := r.Record(ctx, Entry{ParamsHash: h, Diameter: 76}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := r.FindByParams(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("FindByParams(a) returned %d entries, want 2", len(got))
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "register.db")
	r, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	e, err := r.Record(ctx, Entry{ParamsHash: "x", Diameter: 10})
	if err != nil {
		t.Fatal(err)
	}
	r.Close()

	r, err = Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := r.Get(ctx, e.ID); err != nil {
		t.Errorf("entry lost after reopen: %v", err)
	}
}
