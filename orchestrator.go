package docforge

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/alnah/go-docforge/internal/engine"
)

// EngineFactory builds a named engine for a format. Replaceable for
// testing the fallback chain without real toolkits.
type EngineFactory func(name string, format Format, timeout time.Duration) (engine.Engine, error)

func defaultEngineFactory(name string, format Format, timeout time.Duration) (engine.Engine, error) {
	switch name {
	case engine.NameChromium:
		return engine.NewChromium(timeout), nil
	case engine.NameDirectDrawing:
		return engine.NewDirectDrawing(), nil
	case engine.NamePandoc:
		return engine.NewPandoc(string(format)), nil
	case engine.NameNativeOOXML:
		return engine.NewNativeOOXML(string(format)), nil
	case engine.NameExcelize:
		return engine.NewExcelize(), nil
	case engine.NameHTMLDeck:
		return engine.NewHTMLDeck(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoEngines, name)
}

// WithEngineFactory replaces engine construction.
func WithEngineFactory(factory EngineFactory) OrchestratorOption {
	return func(o *Orchestrator) {
		o.factory = factory
	}
}

// Orchestrator drives one render from template resolution through
// engine selection, invocation, and ordered fallback. It guarantees
// that a failed render leaves no partial artifact and that two renders
// to the same output path never interleave.
type Orchestrator struct {
	registry *Registry
	prober   *Prober
	factory  EngineFactory

	attemptTimeout time.Duration
	failFast       bool

	locksMu sync.Mutex
	locks   map[string]*pathLock
}

// NewOrchestrator wires a registry and a prober into an orchestrator.
func NewOrchestrator(registry *Registry, prober *Prober, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		registry:       registry,
		prober:         prober,
		factory:        defaultEngineFactory,
		attemptTimeout: DefaultAttemptTimeout,
		locks:          map[string]*pathLock{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Render runs the full pipeline for one request. On failure the result
// still carries the complete attempt history; the error is the last
// stage's failure.
//
// Repeating an identical request under an unchanged environment yields
// a content-equivalent artifact. Byte-identical output is not
// guaranteed: some toolkits embed timestamps.
func (o *Orchestrator) Render(ctx context.Context, req RenderRequest) (RenderResult, error) {
	result := RenderResult{OutputPath: req.OutputPath}

	if req.OutputPath == "" {
		return result, ErrEmptyOutputPath
	}
	format, err := ParseFormat(string(req.Format))
	if err != nil {
		return result, err
	}
	req.Format = format

	desc, err := o.registry.Resolve(req.TemplateRef)
	if err != nil {
		return result, err
	}
	if desc.Format != "" && desc.Format != req.Format {
		return result, fmt.Errorf("%w: template %s produces %s, requested %s",
			ErrFormatMismatch, desc.ID, desc.Format, req.Format)
	}

	markdown, err := o.executeTemplate(desc, req.Data)
	if err != nil {
		return result, err
	}

	candidates, err := o.prober.Select(req.Format, req.EnginePreference)
	if err != nil {
		return result, err
	}

	unlock, err := o.lockPath(ctx, req.OutputPath)
	if err != nil {
		return result, err
	}
	defer unlock()

	job := engine.Job{
		Title:      toString(req.Data["title"]),
		Markdown:   markdown,
		Data:       req.Data,
		OutputPath: req.OutputPath,
	}

	existedBefore := fileExists(req.OutputPath)
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			o.cleanupPartial(req.OutputPath, existedBefore)
			return result, err
		}

		attempt := o.attempt(ctx, candidate, req.Format, job)
		result.Attempts = append(result.Attempts, attempt)
		if attempt.Diagnostic == "" {
			result.Success = true
			result.EngineUsed = candidate.Name
			return result, nil
		}
		o.cleanupPartial(req.OutputPath, existedBefore)
	}

	diagnostics := make([]string, 0, len(result.Attempts))
	for _, a := range result.Attempts {
		diagnostics = append(diagnostics, fmt.Sprintf("%s: %s", a.Engine, a.Diagnostic))
	}
	return result, fmt.Errorf("%w: %s", ErrAllEnginesExhausted, strings.Join(diagnostics, "; "))
}

// RenderAll renders independent requests in parallel on a bounded
// worker pool. Results align with the requests slice; errors are
// folded into each result's attempt history where possible.
func (o *Orchestrator) RenderAll(ctx context.Context, reqs []RenderRequest) ([]RenderResult, []error) {
	results := make([]RenderResult, len(reqs))
	errs := make([]error, len(reqs))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(reqs) {
		workers = len(reqs)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = o.Render(ctx, reqs[i])
			}
		}()
	}
	for i := range reqs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, errs
}

// attempt runs one engine invocation under the per-attempt timeout and
// records its outcome. A success has an empty Diagnostic.
func (o *Orchestrator) attempt(ctx context.Context, candidate EngineDescriptor, format Format, job engine.Job) Attempt {
	attempt := Attempt{Engine: candidate.Name}
	start := time.Now()
	defer func() {
		attempt.Duration = time.Since(start)
	}()

	eng, err := o.factory(candidate.Name, format, o.attemptTimeout)
	if err != nil {
		attempt.Diagnostic = err.Error()
		return attempt
	}
	defer eng.Close()

	attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	defer cancel()

	if err := renderRecovering(attemptCtx, eng, job); err != nil {
		attempt.Diagnostic = err.Error()
	}
	return attempt
}

// renderRecovering converts an engine panic into a failed attempt so
// one misbehaving toolkit cannot take down the fallback chain.
func renderRecovering(ctx context.Context, eng engine.Engine, job engine.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", engine.ErrRenderFailed, r)
		}
	}()
	return eng.Render(ctx, job)
}

func (o *Orchestrator) executeTemplate(desc TemplateDescriptor, data map[string]any) (string, error) {
	source, err := o.registry.Source(desc)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(desc.ID).Funcs(templateFuncs()).Parse(source)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", desc.ID, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", desc.ID, err)
	}
	return buf.String(), nil
}

func (o *Orchestrator) cleanupPartial(path string, existedBefore bool) {
	if !existedBefore && fileExists(path) {
		_ = os.Remove(path)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// pathLock serializes renders to one output path. The buffered channel
// doubles as a try-lock for fail-fast mode.
type pathLock struct {
	ch   chan struct{}
	refs int
}

func (o *Orchestrator) lockPath(ctx context.Context, path string) (func(), error) {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}

	o.locksMu.Lock()
	lock, ok := o.locks[key]
	if !ok {
		lock = &pathLock{ch: make(chan struct{}, 1)}
		o.locks[key] = lock
	}
	lock.refs++
	o.locksMu.Unlock()

	release := func() {
		<-lock.ch
		o.locksMu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(o.locks, key)
		}
		o.locksMu.Unlock()
	}
	drop := func() {
		o.locksMu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(o.locks, key)
		}
		o.locksMu.Unlock()
	}

	if o.failFast {
		select {
		case lock.ch <- struct{}{}:
			return release, nil
		default:
			drop()
			return nil, fmt.Errorf("%w: %s", ErrPathBusy, path)
		}
	}

	select {
	case lock.ch <- struct{}{}:
		return release, nil
	case <-ctx.Done():
		drop()
		return nil, ctx.Err()
	}
}
