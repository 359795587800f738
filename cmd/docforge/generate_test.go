package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	docforge "github.com/alnah/go-docforge"
	"github.com/alnah/go-docforge/internal/config"
)

func TestGenerateMissingPositionals(t *testing.T) {
	env, _, stderr := testEnv()
	code := runGenerate(context.Background(), []string{"html", "deck"}, env)
	if code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "generate needs") {
		t.Errorf("stderr = %q, want argument hint", stderr.String())
	}
}

func TestGenerateUnknownFormat(t *testing.T) {
	env, _, stderr := testEnv()
	code := runGenerate(context.Background(), []string{"svg", "deck", "out.svg"}, env)
	if code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "svg") {
		t.Errorf("stderr = %q, want offending format", stderr.String())
	}
}

func TestGenerateAmbiguousData(t *testing.T) {
	env, _, _ := testEnv()
	code := runGenerate(context.Background(), []string{
		"html", "deck", filepath.Join(t.TempDir(), "out.html"),
		"--data", `{"title":"A"}`, "--data-file", "payload.yaml",
	}, env)
	if code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
}

func TestGenerateHTMLDeck(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "launch.html")
	env, stdout, stderr := testEnv()

	code := runGenerate(context.Background(), []string{
		"html", "deck", outputPath,
		"--data", `{"title":"Launch Plan","sections":[{"heading":"Timeline","bullets":["kickoff","beta"]}]}`,
		"--json",
	}, env)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, want 0 (stderr: %s)", code, stderr.String())
	}

	var report generateReport
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("decoding --json output: %v", err)
	}
	if !report.Success {
		t.Error("report.Success = false")
	}
	if report.EngineUsed != "htmldeck" {
		t.Errorf("EngineUsed = %q, want htmldeck", report.EngineUsed)
	}
	if report.Preflight == nil {
		t.Fatal("preflight report missing; generate runs it by default")
	}
	if !report.Preflight.OverallPass {
		t.Errorf("preflight failed: %+v", report.Preflight.Findings)
	}

	artifact, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if !strings.Contains(string(artifact), "Launch Plan") {
		t.Error("artifact does not contain the bound title")
	}
}

func TestGenerateNoPreflight(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "launch.html")
	env, stdout, stderr := testEnv()

	code := runGenerate(context.Background(), []string{
		"html", "deck", outputPath,
		"--data", `{"title":"Launch Plan"}`,
		"--no-preflight", "--json",
	}, env)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, want 0 (stderr: %s)", code, stderr.String())
	}

	var report generateReport
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("decoding --json output: %v", err)
	}
	if report.Preflight != nil {
		t.Error("preflight ran despite --no-preflight")
	}
}

func TestWithDefaultDate(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	data := withDefaultDate(nil, now)
	if got := data["date"]; got != "2026-03-14" {
		t.Errorf("date = %v, want 2026-03-14", got)
	}

	data = withDefaultDate(map[string]any{"date": "Q1 kickoff"}, now)
	if got := data["date"]; got != "Q1 kickoff" {
		t.Errorf("date = %v, want the payload value kept", got)
	}
}

func TestCompleteOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		format docforge.Format
		dir    string
		want   string
	}{
		{"extension kept", "report.pdf", docforge.FormatPDF, "", "report.pdf"},
		{"extension appended", "report", docforge.FormatPDF, "", "report.pdf"},
		{"case-insensitive extension", "report.PDF", docforge.FormatPDF, "", "report.PDF"},
		{"wrong extension appended", "report.txt", docforge.FormatPDF, "", "report.txt.pdf"},
		{"bare name uses default dir", "report", docforge.FormatDOCX, "out", filepath.Join("out", "report.docx")},
		{"explicit dir wins over default", filepath.Join("build", "report"), docforge.FormatDOCX, "out", filepath.Join("build", "report.docx")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Output.DefaultDir = tt.dir
			if got := completeOutputPath(tt.output, tt.format, cfg); got != tt.want {
				t.Errorf("completeOutputPath(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}
