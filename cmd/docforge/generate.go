package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	docforge "github.com/alnah/go-docforge"
	"github.com/alnah/go-docforge/internal/config"
)

// generateFlags holds flags for the generate command.
type generateFlags struct {
	data        string
	dataFile    string
	engine      string
	config      string
	noPreflight bool
	jsonOutput  bool
	quiet       bool
}

func parseGenerateFlags(args []string) (*generateFlags, []string, error) {
	f := &generateFlags{}
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.StringVar(&f.data, "data", "", "inline data payload (JSON or YAML)")
	fs.StringVar(&f.dataFile, "data-file", "", "data payload file")
	fs.StringVar(&f.engine, "engine", docforge.AutoEngine, "engine name, or auto for priority fallback")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.noPreflight, "no-preflight", false, "skip preflight after a successful render")
	fs.BoolVar(&f.jsonOutput, "json", false, "emit the result as JSON")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return f, fs.Args(), nil
}

// generateReport is the --json shape for one render, with the
// preflight report attached when it ran.
type generateReport struct {
	Success    bool             `json:"success"`
	EngineUsed string           `json:"engine_used,omitempty"`
	OutputPath string           `json:"output_path"`
	Attempts   []attemptReport  `json:"attempts"`
	Error      string           `json:"error,omitempty"`
	Preflight  *docforge.Report `json:"preflight,omitempty"`
}

type attemptReport struct {
	Engine     string `json:"engine"`
	Diagnostic string `json:"diagnostic,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

func runGenerate(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseGenerateFlags(args)
	if err != nil {
		return fail(env, err)
	}
	if len(positional) != 3 {
		fmt.Fprintln(env.Stderr, "Error: generate needs <format> <template-or-path> <output>")
		printGenerateUsage(env.Stderr)
		return ExitUsage
	}

	format, err := docforge.ParseFormat(positional[0])
	if err != nil {
		return fail(env, err)
	}

	cfg, err := loadConfigOrDefault(flags.config)
	if err != nil {
		return fail(env, err)
	}

	data, err := docforge.LoadData(flags.data, flags.dataFile)
	if err != nil {
		return fail(env, err)
	}
	data = withDefaultDate(data, env.Now())

	orchestrator, err := buildOrchestrator(cfg)
	if err != nil {
		return fail(env, err)
	}

	outputPath := completeOutputPath(positional[2], format, cfg)
	result, renderErr := orchestrator.Render(ctx, docforge.RenderRequest{
		Format:           format,
		TemplateRef:      positional[1],
		OutputPath:       outputPath,
		Data:             data,
		EnginePreference: flags.engine,
	})

	var preflightReport *docforge.Report
	var preflightErr error
	if result.Success && cfg.Preflight.Enabled && !flags.noPreflight {
		preflightReport, preflightErr = preflightFromConfig(cfg).Run(outputPath)
	}

	if flags.jsonOutput {
		report := generateReport{
			Success:    result.Success,
			EngineUsed: result.EngineUsed,
			OutputPath: outputPath,
			Preflight:  preflightReport,
		}
		for _, a := range result.Attempts {
			report.Attempts = append(report.Attempts, attemptReport{
				Engine:     a.Engine,
				Diagnostic: a.Diagnostic,
				DurationMS: a.Duration.Milliseconds(),
			})
		}
		if renderErr != nil {
			report.Error = renderErr.Error()
		} else if preflightErr != nil {
			report.Error = preflightErr.Error()
		}
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	}

	if renderErr != nil {
		if !flags.jsonOutput {
			fmt.Fprintln(env.Stderr, "Error:", renderErr)
		}
		return exitCodeFor(renderErr)
	}
	if !flags.jsonOutput && !flags.quiet {
		fmt.Fprintf(env.Stdout, "Generated %s (engine: %s)\n", outputPath, result.EngineUsed)
	}

	if preflightErr != nil {
		if !flags.jsonOutput {
			fmt.Fprintln(env.Stderr, "Error:", preflightErr)
		}
		return exitCodeFor(preflightErr)
	}
	if preflightReport != nil {
		if !flags.jsonOutput && !flags.quiet {
			printReport(env.Stdout, preflightReport)
		}
		if !preflightReport.OverallPass {
			return ExitPreflight
		}
	}
	return ExitSuccess
}

// withDefaultDate fills the date key built-in templates reference, so a
// payload only carries one when it wants a specific value.
func withDefaultDate(data map[string]any, now time.Time) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["date"]; !ok {
		data["date"] = now.Format("2006-01-02")
	}
	return data
}

// completeOutputPath appends the format extension when missing and
// places bare file names into the configured default output directory.
func completeOutputPath(output string, format docforge.Format, cfg *config.Config) string {
	if !strings.EqualFold(filepath.Ext(output), format.Extension()) {
		output += format.Extension()
	}
	if cfg.Output.DefaultDir != "" && filepath.Dir(output) == "." {
		output = filepath.Join(cfg.Output.DefaultDir, output)
	}
	return output
}

// loadConfigOrDefault loads the named config, or the default-path
// config when present, or the built-in defaults.
func loadConfigOrDefault(name string) (*config.Config, error) {
	if name != "" {
		return config.LoadConfig(name)
	}
	path, err := config.DefaultPath()
	if err == nil {
		if cfg, err := config.LoadConfig(path); err == nil {
			return cfg, nil
		}
	}
	return config.DefaultConfig(), nil
}

// buildOrchestrator wires registry, prober, and orchestrator from one
// config.
func buildOrchestrator(cfg *config.Config) (*docforge.Orchestrator, error) {
	registry, err := docforge.NewRegistry(cfg.Templates.Dir)
	if err != nil {
		return nil, err
	}

	var proberOpts []docforge.ProberOption
	for name, order := range cfg.Engines {
		format, err := docforge.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		proberOpts = append(proberOpts, docforge.WithEngineOrder(format, order))
	}
	prober := docforge.NewProber(proberOpts...)

	opts := []docforge.OrchestratorOption{
		docforge.WithAttemptTimeout(time.Duration(cfg.Render.TimeoutSeconds) * time.Second),
	}
	if cfg.Render.FailFast {
		opts = append(opts, docforge.WithFailFast())
	}
	return docforge.NewOrchestrator(registry, prober, opts...), nil
}

// preflightFromConfig applies the configured check set and weights.
func preflightFromConfig(cfg *config.Config) *docforge.Preflight {
	var opts []docforge.PreflightOption
	if len(cfg.Preflight.Checks) > 0 {
		opts = append(opts, docforge.WithChecks(cfg.Preflight.Checks))
	}
	opts = append(opts, docforge.WithWeights(docforge.Weights{
		Error:   cfg.Preflight.Weights.Error,
		Warning: cfg.Preflight.Weights.Warning,
	}))
	return docforge.NewPreflight(opts...)
}
