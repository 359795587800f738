package docforge

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func countingProbe(available bool, calls *int) func() bool {
	return func() bool {
		*calls++
		return available
	}
}

func TestProbeCachesPerFormat(t *testing.T) {
	var calls int
	p := NewProber(WithProbeFunc("chromium", countingProbe(true, &calls)))

	p.Probe(FormatPDF)
	p.Probe(FormatPDF)
	p.Probe(FormatPDF)
	if calls != 1 {
		t.Errorf("chromium probed %d times, want 1", calls)
	}

	p.Invalidate()
	p.Probe(FormatPDF)
	if calls != 2 {
		t.Errorf("chromium probed %d times after Invalidate, want 2", calls)
	}
}

func TestProbeOrderAndPriority(t *testing.T) {
	p := NewProber(
		WithProbeFunc("chromium", func() bool { return false }),
		WithProbeFunc("pandoc", func() bool { return true }),
	)

	got := p.Probe(FormatPDF)
	want := []EngineDescriptor{
		{Name: "chromium", Format: FormatPDF, Priority: 1, Available: false},
		{Name: "direct-drawing", Format: FormatPDF, Priority: 2, Available: true},
		{Name: "pandoc", Format: FormatPDF, Priority: 3, Available: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Probe(pdf) mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineOrderOverride(t *testing.T) {
	p := NewProber(
		WithEngineOrder(FormatPDF, []string{"direct-drawing", "bogus", "chromium"}),
		WithProbeFunc("chromium", func() bool { return true }),
		WithProbeFunc("pandoc", func() bool { return false }),
	)

	got := p.Probe(FormatPDF)
	wantOrder := []string{"direct-drawing", "chromium", "pandoc"}
	if len(got) != len(wantOrder) {
		t.Fatalf("Probe() returned %d engines, want %d", len(got), len(wantOrder))
	}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Errorf("engine[%d] = %s, want %s", i, got[i].Name, name)
		}
		if got[i].Priority != i+1 {
			t.Errorf("engine[%d].Priority = %d, want %d", i, got[i].Priority, i+1)
		}
	}
}

func TestSelectAuto(t *testing.T) {
	p := NewProber(
		WithProbeFunc("chromium", func() bool { return false }),
		WithProbeFunc("pandoc", func() bool { return true }),
	)

	got, err := p.Select(FormatPDF, AutoEngine)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	wantNames := []string{"direct-drawing", "pandoc"}
	if len(got) != len(wantNames) {
		t.Fatalf("Select(auto) returned %d engines, want %d", len(got), len(wantNames))
	}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Errorf("candidate[%d] = %s, want %s", i, got[i].Name, name)
		}
	}
}

func TestSelectNamed(t *testing.T) {
	p := NewProber(
		WithProbeFunc("chromium", func() bool { return true }),
		WithProbeFunc("pandoc", func() bool { return false }),
	)

	got, err := p.Select(FormatPDF, "chromium")
	if err != nil {
		t.Fatalf("Select(chromium) error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "chromium" {
		t.Errorf("Select(chromium) = %v, want exactly chromium", got)
	}

	if _, err := p.Select(FormatPDF, "pandoc"); !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("Select(unavailable) error = %v, want ErrEngineUnavailable", err)
	}
	if _, err := p.Select(FormatPDF, "excelize"); !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("Select(wrong format) error = %v, want ErrEngineUnavailable", err)
	}
}

func TestSelectNoAvailableEngine(t *testing.T) {
	p := NewProber(
		WithProbeFunc("chromium", func() bool { return false }),
		WithProbeFunc("direct-drawing", func() bool { return false }),
		WithProbeFunc("pandoc", func() bool { return false }),
	)
	_, err := p.Select(FormatPDF, AutoEngine)
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("Select() error = %v, want ErrEngineUnavailable", err)
	}
}
