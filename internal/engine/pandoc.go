package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alnah/go-docforge/internal/fileutil"
)

// PandocAvailable reports whether the pandoc binary is on PATH.
func PandocAvailable() bool {
	_, err := exec.LookPath("pandoc")
	return err == nil
}

// CommandRunner abstracts command execution to enable testing without
// real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Pandoc renders Markdown to PDF or DOCX by invoking the pandoc CLI.
// Pandoc writes to a temp file in the destination directory, which is
// renamed into place only on success.
type Pandoc struct {
	// To is the pandoc output format: "pdf" or "docx".
	To     string
	Runner CommandRunner
}

// NewPandoc creates a Pandoc engine targeting the given output format.
func NewPandoc(to string) *Pandoc {
	return &Pandoc{To: to, Runner: &ExecRunner{}}
}

func (p *Pandoc) Name() string { return NamePandoc }

func (p *Pandoc) Close() error { return nil }

// Render invokes pandoc on the job's Markdown. The stderr diagnostic is
// preserved in the returned error for the fallback chain's attempt
// history.
func (p *Pandoc) Render(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mdPath, cleanup, err := fileutil.WriteTempFile(job.Markdown, "md")
	if err != nil {
		return err
	}
	defer cleanup()

	outDir := filepath.Dir(job.OutputPath)
	if outDir != "." {
		if err := os.MkdirAll(outDir, fileutil.DirPermissions); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	// Temp output in the destination directory so the final rename is
	// atomic on the same filesystem.
	tmpOut, err := os.CreateTemp(outDir, ".docforge-*"+filepath.Ext(job.OutputPath))
	if err != nil {
		return fmt.Errorf("creating temp output: %w", err)
	}
	tmpPath := tmpOut.Name()
	_ = tmpOut.Close()

	args := []string{mdPath, "-f", "gfm", "-t", p.To, "-o", tmpPath, "--standalone"}
	if job.Title != "" {
		args = append(args, "--metadata", "title="+job.Title)
	}

	_, stderr, err := p.Runner.Run(ctx, "pandoc", args...)
	if err != nil {
		_ = os.Remove(tmpPath)
		diag := strings.TrimSpace(stderr)
		if diag == "" {
			diag = err.Error()
		}
		return fmt.Errorf("%w: pandoc: %s", ErrToolFailed, diag)
	}

	if err := os.Rename(tmpPath, job.OutputPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("moving artifact into place: %w", err)
	}
	return nil
}
