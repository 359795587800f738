package docforge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/alnah/go-docforge/internal/assets"
	"github.com/alnah/go-docforge/internal/fileutil"
)

const templateExtension = ".tmpl"

// builtinPathPrefix marks descriptors whose source lives in the
// embedded asset set rather than on disk.
const builtinPathPrefix = "builtin/"

// Registry discovers template units: the built-in set embedded in the
// binary plus, optionally, a template directory on disk. Disk units
// with the same file name shadow built-ins.
//
// A unit's file name follows the <format>_<id>.tmpl convention; the
// format prefix decides which artifact format the unit produces.
type Registry struct {
	dir string

	mu          sync.RWMutex
	descriptors []TemplateDescriptor
}

// NewRegistry builds a registry over the built-in templates plus the
// given directory. An empty dir means built-ins only. The initial scan
// happens here; use Refresh after changing the directory contents.
func NewRegistry(dir string) (*Registry, error) {
	r := &Registry{dir: dir}
	if err := r.Refresh(); err != nil {
		return nil, err
	}
	return r, nil
}

// Refresh rescans the template directory and rebuilds all descriptors.
func (r *Registry) Refresh() error {
	byName := map[string]TemplateDescriptor{}

	for _, name := range assets.TemplateNames() {
		source, err := assets.ReadTemplate(name)
		if err != nil {
			return err
		}
		byName[name] = describeTemplate(name, builtinPathPrefix+name, source, true)
	}

	if r.dir != "" {
		entries, err := os.ReadDir(r.dir)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("scanning template directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), templateExtension) {
				continue
			}
			path := filepath.Join(r.dir, entry.Name())
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading template %s: %w", path, err)
			}
			byName[entry.Name()] = describeTemplate(entry.Name(), path, string(source), false)
		}
	}

	descriptors := make([]TemplateDescriptor, 0, len(byName))
	for _, d := range byName {
		descriptors = append(descriptors, d)
	}
	sort.Slice(descriptors, func(i, j int) bool {
		if descriptors[i].Format != descriptors[j].Format {
			return descriptors[i].Format < descriptors[j].Format
		}
		return descriptors[i].ID < descriptors[j].ID
	})

	r.mu.Lock()
	r.descriptors = descriptors
	r.mu.Unlock()
	return nil
}

// List returns all descriptors sorted by format, then id.
func (r *Registry) List() []TemplateDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TemplateDescriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Info returns the descriptor with the given id.
func (r *Registry) Info(id string) (TemplateDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.descriptors {
		if d.ID == id {
			return d, nil
		}
	}
	return TemplateDescriptor{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
}

// Resolve accepts a short id, a bare file name, or a filesystem path,
// in that order of precedence.
func (r *Registry) Resolve(ref string) (TemplateDescriptor, error) {
	r.mu.RLock()
	descriptors := r.descriptors
	r.mu.RUnlock()

	for _, d := range descriptors {
		if d.ID == ref {
			return d, nil
		}
	}
	for _, d := range descriptors {
		if templateFileName(d) == ref {
			return d, nil
		}
	}

	// A path to a registered disk unit resolves to its descriptor, so
	// id, file name, and path all agree.
	if abs, err := filepath.Abs(ref); err == nil {
		for _, d := range descriptors {
			if d.BuiltIn {
				continue
			}
			if dabs, err := filepath.Abs(d.Path); err == nil && dabs == abs {
				return d, nil
			}
		}
	}

	if fileutil.FileExists(ref) {
		source, err := os.ReadFile(ref)
		if err != nil {
			return TemplateDescriptor{}, fmt.Errorf("reading template %s: %w", ref, err)
		}
		return describeTemplate(filepath.Base(ref), ref, string(source), false), nil
	}

	return TemplateDescriptor{}, fmt.Errorf("%w: %q", ErrUnresolvedTemplate, ref)
}

// Clone copies a template's source to a new path and returns the new
// descriptor. The destination must not exist.
func (r *Registry) Clone(from, to string) (TemplateDescriptor, error) {
	src, err := r.Resolve(from)
	if err != nil {
		return TemplateDescriptor{}, fmt.Errorf("%w: clone source %q", ErrTemplateNotFound, from)
	}
	if fileutil.FileExists(to) {
		return TemplateDescriptor{}, fmt.Errorf("%w: %q", ErrDestinationExists, to)
	}

	source, err := r.Source(src)
	if err != nil {
		return TemplateDescriptor{}, err
	}
	if err := fileutil.WriteFileAtomic(to, []byte(source)); err != nil {
		return TemplateDescriptor{}, fmt.Errorf("writing clone: %w", err)
	}

	desc := describeTemplate(filepath.Base(to), to, source, false)
	if desc.Format == "" {
		// Destination name without a format prefix keeps the source's.
		desc.Format = src.Format
	}
	if err := r.Refresh(); err != nil {
		return TemplateDescriptor{}, err
	}
	return desc, nil
}

// Source returns the template text for a descriptor.
func (r *Registry) Source(d TemplateDescriptor) (string, error) {
	if d.BuiltIn {
		return assets.ReadTemplate(strings.TrimPrefix(d.Path, builtinPathPrefix))
	}
	content, err := os.ReadFile(d.Path)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", d.Path, err)
	}
	return string(content), nil
}

func templateFileName(d TemplateDescriptor) string {
	if d.BuiltIn {
		return strings.TrimPrefix(d.Path, builtinPathPrefix)
	}
	return filepath.Base(d.Path)
}

// describeTemplate builds a descriptor from a template file name and
// source. The name's format prefix and the header comment supply the
// metadata.
func describeTemplate(fileName, path, source string, builtIn bool) TemplateDescriptor {
	base := strings.TrimSuffix(fileName, templateExtension)

	d := TemplateDescriptor{ID: base, Path: path, BuiltIn: builtIn}
	if prefix, rest, ok := strings.Cut(base, "_"); ok {
		if format, err := ParseFormat(prefix); err == nil {
			d.Format = format
			d.ID = rest
		}
	}
	d.Description, d.Capabilities = parseTemplateHeader(source)
	return d
}

// parseTemplateHeader reads the leading template comment: the first
// line is the description, a "capabilities:" line lists features.
func parseTemplateHeader(source string) (description string, capabilities []string) {
	start := strings.Index(source, "{{/*")
	if start != 0 && !strings.HasPrefix(source, "{{- /*") {
		return "", nil
	}
	end := strings.Index(source, "*/")
	if end < 0 {
		return "", nil
	}
	body := source[:end]
	if i := strings.Index(body, "/*"); i >= 0 {
		body = body[i+2:]
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "capabilities:"); ok {
			for _, c := range strings.Split(rest, ",") {
				if c = strings.TrimSpace(c); c != "" {
					capabilities = append(capabilities, c)
				}
			}
			continue
		}
		if description == "" {
			description = line
		}
	}
	return description, capabilities
}
