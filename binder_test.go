package docforge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDataInlineJSON(t *testing.T) {
	got, err := LoadData(`{"title":"Q3 Report","sections":["Intro","Results"]}`, "")
	if err != nil {
		t.Fatalf("LoadData() error = %v", err)
	}
	want := map[string]any{
		"title":    "Q3 Report",
		"sections": []any{"Intro", "Results"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDataFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	content := "title: Q3 Report\nsections:\n  - heading: Intro\n    body: Opening words.\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadData("", path)
	if err != nil {
		t.Fatalf("LoadData() error = %v", err)
	}
	if got["title"] != "Q3 Report" {
		t.Errorf("title = %v, want Q3 Report", got["title"])
	}
	sections, ok := got["sections"].([]any)
	if !ok || len(sections) != 1 {
		t.Fatalf("sections = %#v, want one-element list", got["sections"])
	}
}

func TestLoadDataExactlyOneSource(t *testing.T) {
	if _, err := LoadData("", ""); !errors.Is(err, ErrAmbiguousInput) {
		t.Errorf("LoadData(neither) error = %v, want ErrAmbiguousInput", err)
	}
	if _, err := LoadData(`{}`, "somewhere.json"); !errors.Is(err, ErrAmbiguousInput) {
		t.Errorf("LoadData(both) error = %v, want ErrAmbiguousInput", err)
	}
}

func TestLoadDataFileMissing(t *testing.T) {
	_, err := LoadData("", filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadData() error = %v, want ErrNotExist", err)
	}
}

func TestLoadDataMalformed(t *testing.T) {
	_, err := LoadData("{not: [valid", "")
	if !errors.Is(err, ErrDataParse) {
		t.Fatalf("LoadData() error = %v, want ErrDataParse", err)
	}
}
