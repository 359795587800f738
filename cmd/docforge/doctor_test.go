package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	docforge "github.com/alnah/go-docforge"
)

// Tests run doctor for real: engine availability and tool paths depend
// on the host, so assertions stick to structure rather than outcomes.

func TestDoctorJSON(t *testing.T) {
	env, stdout, _ := testEnv()
	code := runCLI(context.Background(), []string{"doctor", "--json"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, want 0", code)
	}

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("decoding --json output: %v", err)
	}
	if result.Status != "ready" && result.Status != "warnings" {
		t.Errorf("Status = %q", result.Status)
	}
	if len(result.Engines) == 0 {
		t.Fatal("no engines reported")
	}

	seen := map[string]bool{}
	for _, e := range result.Engines {
		seen[e.Format] = true
		if e.Priority < 1 {
			t.Errorf("engine %s/%s has priority %d", e.Format, e.Name, e.Priority)
		}
	}
	for _, format := range docforge.Formats() {
		if !seen[string(format)] {
			t.Errorf("no engines reported for %s", format)
		}
	}
}

func TestDoctorHumanOutput(t *testing.T) {
	env, stdout, _ := testEnv()
	code := runDoctor(nil, env)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, want 0", code)
	}
	out := stdout.String()
	for _, want := range []string{"Status:", "Engines:", "direct-drawing", "Pandoc:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
