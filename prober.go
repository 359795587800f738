package docforge

import (
	"fmt"
	"sync"

	"github.com/alnah/go-docforge/internal/engine"
)

// AutoEngine selects the first available engine in priority order and
// enables fallback across the rest.
const AutoEngine = "auto"

// engineTable is the fixed per-format engine order. Configuration may
// reorder it but never invents engines.
var engineTable = map[Format][]string{
	FormatPDF:  {engine.NameChromium, engine.NameDirectDrawing, engine.NamePandoc},
	FormatDOCX: {engine.NamePandoc, engine.NameNativeOOXML},
	FormatPPTX: {engine.NameNativeOOXML},
	FormatXLSX: {engine.NameExcelize},
	FormatHTML: {engine.NameHTMLDeck},
}

// defaultProbes maps engine names to their side-effect-free
// availability probes. Pure Go engines are always available.
func defaultProbes() map[string]func() bool {
	always := func() bool { return true }
	return map[string]func() bool{
		engine.NameChromium:      engine.ChromiumAvailable,
		engine.NamePandoc:        engine.PandocAvailable,
		engine.NameDirectDrawing: always,
		engine.NameNativeOOXML:   always,
		engine.NameExcelize:      always,
		engine.NameHTMLDeck:      always,
	}
}

// Prober determines which engines are usable per format. Probe results
// are cached for the process lifetime: each format is probed at most
// once until Invalidate.
type Prober struct {
	mu     sync.Mutex
	cache  map[Format][]EngineDescriptor
	order  map[Format][]string
	probes map[string]func() bool
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithEngineOrder overrides the engine priority order for one format.
// Unknown names are ignored; engines left out keep their relative
// order after the named ones.
func WithEngineOrder(format Format, names []string) ProberOption {
	return func(p *Prober) {
		defaults := engineTable[format]
		known := map[string]bool{}
		for _, name := range defaults {
			known[name] = true
		}

		var order []string
		seen := map[string]bool{}
		for _, name := range names {
			if known[name] && !seen[name] {
				order = append(order, name)
				seen[name] = true
			}
		}
		for _, name := range defaults {
			if !seen[name] {
				order = append(order, name)
			}
		}
		p.order[format] = order
	}
}

// WithProbeFunc replaces the availability probe for a named engine.
func WithProbeFunc(name string, probe func() bool) ProberOption {
	return func(p *Prober) {
		p.probes[name] = probe
	}
}

// NewProber creates a Prober with the default engine table and probes.
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		cache:  map[Format][]EngineDescriptor{},
		order:  map[Format][]string{},
		probes: defaultProbes(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe returns the format's engines in priority order, each tagged
// with its cached availability.
func (p *Prober) Probe(format Format) []EngineDescriptor {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cached, ok := p.cache[format]; ok {
		return cloneDescriptors(cached)
	}

	order, ok := p.order[format]
	if !ok {
		order = engineTable[format]
	}
	descriptors := make([]EngineDescriptor, 0, len(order))
	for i, name := range order {
		available := false
		if probe, ok := p.probes[name]; ok {
			available = probe()
		}
		descriptors = append(descriptors, EngineDescriptor{
			Name:      name,
			Format:    format,
			Priority:  i + 1,
			Available: available,
		})
	}
	p.cache[format] = descriptors
	return cloneDescriptors(descriptors)
}

// Invalidate clears the cache; the next Probe per format re-runs the
// availability probes.
func (p *Prober) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache = map[Format][]EngineDescriptor{}
}

// Select picks the engines to attempt. AutoEngine (or empty) returns
// every available engine in priority order, enabling fallback. A named
// preference returns exactly that engine, or ErrEngineUnavailable.
func (p *Prober) Select(format Format, preference string) ([]EngineDescriptor, error) {
	descriptors := p.Probe(format)
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoEngines, format)
	}

	if preference == "" || preference == AutoEngine {
		var available []EngineDescriptor
		for _, d := range descriptors {
			if d.Available {
				available = append(available, d)
			}
		}
		if len(available) == 0 {
			return nil, fmt.Errorf("%w: no engine available for %s", ErrEngineUnavailable, format)
		}
		return available, nil
	}

	for _, d := range descriptors {
		if d.Name != preference {
			continue
		}
		if !d.Available {
			return nil, fmt.Errorf("%w: %s", ErrEngineUnavailable, preference)
		}
		return []EngineDescriptor{d}, nil
	}
	return nil, fmt.Errorf("%w: %s is not an engine for %s", ErrEngineUnavailable, preference, format)
}

func cloneDescriptors(in []EngineDescriptor) []EngineDescriptor {
	out := make([]EngineDescriptor, len(in))
	copy(out, in)
	return out
}
