package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	flag "github.com/spf13/pflag"

	docforge "github.com/alnah/go-docforge"
)

// preflightFlags holds flags for the preflight command.
type preflightFlags struct {
	checks     string
	config     string
	jsonOutput bool
}

func parsePreflightFlags(args []string) (*preflightFlags, []string, error) {
	f := &preflightFlags{}
	fs := flag.NewFlagSet("preflight", flag.ContinueOnError)
	fs.StringVar(&f.checks, "checks", "", "comma-separated check names (default: all)")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.jsonOutput, "json", false, "emit the report as JSON")
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return f, fs.Args(), nil
}

func runPreflight(args []string, env *Environment) int {
	flags, artifacts, err := parsePreflightFlags(args)
	if err != nil {
		return fail(env, err)
	}
	if len(artifacts) == 0 {
		fmt.Fprintln(env.Stderr, "Error: preflight needs at least one artifact path")
		printPreflightUsage(env.Stderr)
		return ExitUsage
	}

	cfg, err := loadConfigOrDefault(flags.config)
	if err != nil {
		return fail(env, err)
	}

	opts := []docforge.PreflightOption{
		docforge.WithWeights(docforge.Weights{
			Error:   cfg.Preflight.Weights.Error,
			Warning: cfg.Preflight.Weights.Warning,
		}),
	}
	if flags.checks != "" {
		var names []string
		for _, name := range strings.Split(flags.checks, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		opts = append(opts, docforge.WithChecks(names))
	} else if len(cfg.Preflight.Checks) > 0 {
		opts = append(opts, docforge.WithChecks(cfg.Preflight.Checks))
	}
	validator := docforge.NewPreflight(opts...)

	// Distinct artifacts validate in parallel; each run shares nothing.
	reports := make([]*docforge.Report, len(artifacts))
	errs := make([]error, len(artifacts))
	var wg sync.WaitGroup
	for i, path := range artifacts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reports[i], errs[i] = validator.Run(path)
		}()
	}
	wg.Wait()

	exit := ExitSuccess
	for i, path := range artifacts {
		if errs[i] != nil {
			if flags.jsonOutput {
				_ = json.NewEncoder(env.Stdout).Encode(map[string]string{
					"artifact_path": path,
					"error":         errs[i].Error(),
				})
			} else {
				fmt.Fprintf(env.Stderr, "Error: %s: %v\n", path, errs[i])
			}
			if code := exitCodeFor(errs[i]); code > exit {
				exit = code
			}
			continue
		}

		if flags.jsonOutput {
			enc := json.NewEncoder(env.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(reports[i])
		} else {
			printReport(env.Stdout, reports[i])
		}
		if !reports[i].OverallPass && exit == ExitSuccess {
			exit = ExitPreflight
		}
	}
	return exit
}

// printReport writes the human-readable preflight summary.
func printReport(w io.Writer, report *docforge.Report) {
	status := "PASS"
	if !report.OverallPass {
		status = "FAIL"
	}
	fmt.Fprintf(w, "%s %s (format: %s, score: %d)\n",
		status, report.ArtifactPath, report.Format, report.Score)
	for _, f := range report.Findings {
		location := ""
		if f.Location != "" {
			location = " [" + f.Location + "]"
		}
		fmt.Fprintf(w, "  %-7s %s%s: %s\n", f.Severity, f.Check, location, f.Detail)
	}
}
