package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
	}
	return env, stdout, stderr
}

func TestCLINoCommand(t *testing.T) {
	env, _, stderr := testEnv()
	code := runCLI(context.Background(), nil, env)
	if code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "Usage: docforge") {
		t.Errorf("stderr = %q, want usage text", stderr.String())
	}
}

func TestCLIUnknownCommand(t *testing.T) {
	env, _, stderr := testEnv()
	code := runCLI(context.Background(), []string{"frobnicate"}, env)
	if code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "unknown command") {
		t.Errorf("stderr = %q, want unknown-command message", stderr.String())
	}
}

func TestCLIVersion(t *testing.T) {
	env, stdout, _ := testEnv()
	code := runCLI(context.Background(), []string{"version"}, env)
	if code != ExitSuccess {
		t.Errorf("exit = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "docforge") {
		t.Errorf("stdout = %q, want version line", stdout.String())
	}
}

func TestCLIHelpPerCommand(t *testing.T) {
	for _, command := range []string{"generate", "preflight", "template", "config", "doctor"} {
		t.Run(command, func(t *testing.T) {
			env, stdout, _ := testEnv()
			code := runCLI(context.Background(), []string{"help", command}, env)
			if code != ExitSuccess {
				t.Errorf("exit = %d, want 0", code)
			}
			if !strings.Contains(stdout.String(), command) {
				t.Errorf("help for %s does not mention it: %q", command, stdout.String())
			}
		})
	}
}
