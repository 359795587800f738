package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTemplateConfig points templates.dir at a fresh directory and
// returns the config path and the directory.
func writeTemplateConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	templatesDir := filepath.Join(dir, "templates")
	if err := os.MkdirAll(templatesDir, 0o750); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(dir, "docforge.yaml")
	content := "templates:\n  dir: " + templatesDir + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return configPath, templatesDir
}

func TestTemplateListShowsBuiltins(t *testing.T) {
	env, stdout, _ := testEnv()
	code := runTemplate([]string{"list"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, want 0", code)
	}
	out := stdout.String()
	for _, want := range []string{"FORMAT", "whitepaper", "deck", "builtin"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestTemplateInfo(t *testing.T) {
	env, stdout, _ := testEnv()
	code := runTemplate([]string{"info", "whitepaper"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, want 0", code)
	}
	out := stdout.String()
	if !strings.Contains(out, "ID:           whitepaper") {
		t.Errorf("info output = %q", out)
	}
	if !strings.Contains(out, "Format:       pdf") {
		t.Errorf("info output = %q", out)
	}
}

func TestTemplateInfoUnknown(t *testing.T) {
	env, _, _ := testEnv()
	if code := runTemplate([]string{"info", "nonexistent"}, env); code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
}

func TestTemplateClone(t *testing.T) {
	configPath, templatesDir := writeTemplateConfig(t)
	dest := filepath.Join(templatesDir, "pdf_branded.tmpl")
	env, stdout, _ := testEnv()

	code := runTemplate([]string{"clone", "--from", "whitepaper", "--to", dest, "-c", configPath}, env)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "branded") {
		t.Errorf("clone output = %q", stdout.String())
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("cloned template not written: %v", err)
	}

	// Cloning onto an existing file is refused.
	if code := runTemplate([]string{"clone", "--from", "whitepaper", "--to", dest, "-c", configPath}, env); code != ExitUsage {
		t.Errorf("second clone exit = %d, want %d", code, ExitUsage)
	}
}

func TestTemplateCloneMissingFlags(t *testing.T) {
	env, _, stderr := testEnv()
	if code := runTemplate([]string{"clone", "--from", "whitepaper"}, env); code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "--to") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
