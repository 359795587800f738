package main

import (
	"fmt"
	"os"
	"testing"

	docforge "github.com/alnah/go-docforge"
	"github.com/alnah/go-docforge/internal/config"
	"github.com/alnah/go-docforge/internal/engine"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"all engines exhausted", docforge.ErrAllEnginesExhausted, ExitEngine},
		{"engine unavailable", docforge.ErrEngineUnavailable, ExitEngine},
		{"path busy", docforge.ErrPathBusy, ExitEngine},
		{"browser connect", engine.ErrBrowserConnect, ExitEngine},
		{"tool failed", engine.ErrToolFailed, ExitEngine},
		{"file not found", os.ErrNotExist, ExitIO},
		{"permission", os.ErrPermission, ExitIO},
		{"artifact open", docforge.ErrArtifactOpen, ExitIO},
		{"unresolved template", docforge.ErrUnresolvedTemplate, ExitUsage},
		{"ambiguous input", docforge.ErrAmbiguousInput, ExitUsage},
		{"data parse", docforge.ErrDataParse, ExitUsage},
		{"unknown format", docforge.ErrUnknownFormat, ExitUsage},
		{"unknown check", docforge.ErrUnknownCheck, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"usage", ErrUsage, ExitUsage},
		{"unexpected", fmt.Errorf("boom"), ExitGeneral},
		{"wrapped engine error", fmt.Errorf("render: %w", docforge.ErrAllEnginesExhausted), ExitEngine},
		{"wrapped usage error", fmt.Errorf("flags: %w", ErrUsage), ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
