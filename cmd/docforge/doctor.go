package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"

	docforge "github.com/alnah/go-docforge"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string         `json:"status"` // "ready", "warnings"
	Engines  []engineStatus `json:"engines"`
	Chrome   toolInfo       `json:"chrome"`
	Pandoc   toolInfo       `json:"pandoc"`
	Env      envInfo        `json:"environment"`
	System   systemInfo     `json:"system"`
	Warnings []string       `json:"warnings,omitempty"`
}

// engineStatus is one probe result.
type engineStatus struct {
	Format    string `json:"format"`
	Name      string `json:"name"`
	Priority  int    `json:"priority"`
	Available bool   `json:"available"`
}

// toolInfo holds external toolkit detection results.
type toolInfo struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	BrowserBin string `json:"rod_browser_bin,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctor reports per-format engine availability and toolkit paths.
// Always exits 0; missing engines surface as warnings, not failures.
func runDoctor(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := collectDiagnostics()

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env, result)
	}
	return ExitSuccess
}

func collectDiagnostics() *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	prober := docforge.NewProber()
	for _, format := range docforge.Formats() {
		anyAvailable := false
		for _, d := range prober.Probe(format) {
			result.Engines = append(result.Engines, engineStatus{
				Format:    string(d.Format),
				Name:      d.Name,
				Priority:  d.Priority,
				Available: d.Available,
			})
			anyAvailable = anyAvailable || d.Available
		}
		if !anyAvailable {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("no engine available for %s", format))
		}
	}

	result.Chrome = locateChrome()
	if !result.Chrome.Found {
		result.Warnings = append(result.Warnings,
			"Chrome/Chromium not found; pdf falls back to direct drawing")
	}
	result.Pandoc = locatePandoc()
	if !result.Pandoc.Found {
		result.Warnings = append(result.Warnings,
			"pandoc not found; docx uses the native writer")
	}

	result.System.TempWritable = tempWritable()
	if !result.System.TempWritable {
		result.Warnings = append(result.Warnings, "temp directory is not writable")
	}

	if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

func locateChrome() toolInfo {
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		if _, err := os.Stat(bin); err == nil {
			return toolInfo{Found: true, Path: bin}
		}
	}
	if path, found := launcher.LookPath(); found {
		return toolInfo{Found: true, Path: path}
	}
	return toolInfo{}
}

func locatePandoc() toolInfo {
	path, err := exec.LookPath("pandoc")
	if err != nil {
		return toolInfo{}
	}
	return toolInfo{Found: true, Path: path}
}

func tempWritable() bool {
	probe := filepath.Join(os.TempDir(), ".docforge-doctor")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return false
	}
	_ = os.Remove(probe)
	return true
}

func printDoctorResult(env *Environment, result *doctorResult) {
	fmt.Fprintf(env.Stdout, "Status: %s\n\n", result.Status)

	fmt.Fprintln(env.Stdout, "Engines:")
	for _, e := range result.Engines {
		mark := "x"
		if e.Available {
			mark = "ok"
		}
		fmt.Fprintf(env.Stdout, "  [%s]\t%s/%s (priority %d)\n", mark, e.Format, e.Name, e.Priority)
	}

	fmt.Fprintln(env.Stdout)
	if result.Chrome.Found {
		fmt.Fprintf(env.Stdout, "Chrome:  %s\n", result.Chrome.Path)
	} else {
		fmt.Fprintln(env.Stdout, "Chrome:  not found")
	}
	if result.Pandoc.Found {
		fmt.Fprintf(env.Stdout, "Pandoc:  %s\n", result.Pandoc.Path)
	} else {
		fmt.Fprintln(env.Stdout, "Pandoc:  not found")
	}
	fmt.Fprintf(env.Stdout, "Temp dir writable: %t\n", result.System.TempWritable)

	if len(result.Warnings) > 0 {
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Warnings:")
		for _, w := range result.Warnings {
			fmt.Fprintf(env.Stdout, "  - %s\n", w)
		}
	}
}
