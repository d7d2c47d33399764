// Package registry holds the ordered library of candidate record layouts.
//
// Candidates are data, not code: they come from builtin sets, YAML or TOML
// tables, or struct-style format strings. Each candidate is validated when the
// registry is loaded. A malformed candidate is rejected on its own and recorded
// as a failure; the rest of the registry loads normally.
package registry

import (
	"errors"
	"strings"

	"github.com/ssargent/recprobe/pkg/codec"
)

// Entry is one candidate as it was loaded: either a descriptor or the error
// that rejected it.
type Entry struct {
	Name       string
	Descriptor codec.RecordDescriptor
	Err        error
}

// OK reports whether the entry loaded
func (e Entry) OK() bool { return e.Err == nil }

// Registry is an ordered, read-only collection of candidates
type Registry struct {
	entries []Entry
	index   map[string]int
}

// New builds a registry from already validated descriptors. Candidate names
// must be unique; a repeated name is rejected as malformed.
func New(descs ...codec.RecordDescriptor) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(descs))}
	for _, d := range descs {
		r.add(d.Name(), d, nil)
	}
	return r, r.Err()
}

// Load validates every spec in order. The returned registry always contains
// every valid candidate; the error joins one *codec.MalformedDescriptorError
// per rejected candidate and is nil when all specs are valid.
func Load(specs []CandidateSpec) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(specs))}
	for _, s := range specs {
		desc, err := s.Build()
		r.add(strings.TrimSpace(s.Name), desc, err)
	}
	return r, r.Err()
}

func (r *Registry) add(name string, desc codec.RecordDescriptor, err error) {
	if err == nil {
		if _, dup := r.index[name]; dup {
			err = codec.Malformed(name, "duplicate candidate name")
		}
	}
	if err != nil {
		r.entries = append(r.entries, Entry{Name: name, Err: err})
		return
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, Entry{Name: name, Descriptor: desc})
}

// ListCandidates returns the valid descriptors in load order
func (r *Registry) ListCandidates() []codec.RecordDescriptor {
	out := make([]codec.RecordDescriptor, 0, len(r.index))
	for _, e := range r.entries {
		if e.OK() {
			out = append(out, e.Descriptor)
		}
	}
	return out
}

// Entries returns every candidate, valid or not, in load order
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Failures returns the rejected candidates in load order
func (r *Registry) Failures() []Entry {
	var out []Entry
	for _, e := range r.entries {
		if !e.OK() {
			out = append(out, e)
		}
	}
	return out
}

// Err joins the errors of all rejected candidates
func (r *Registry) Err() error {
	var errs []error
	for _, e := range r.entries {
		if e.Err != nil {
			errs = append(errs, e.Err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of valid candidates
func (r *Registry) Len() int { return len(r.index) }

// Lookup finds a valid candidate by name
func (r *Registry) Lookup(name string) (codec.RecordDescriptor, bool) {
	i, ok := r.index[name]
	if !ok {
		return codec.RecordDescriptor{}, false
	}
	return r.entries[i].Descriptor, true
}

// Select returns a registry restricted to the named candidates, keeping
// registry order. Rejected entries with a selected name are kept so their
// failure is still reported. Unknown names return ErrUnknownCandidate.
func (r *Registry) Select(names ...string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	out := &Registry{index: make(map[string]int, len(names))}
	for _, e := range r.entries {
		if !want[e.Name] {
			continue
		}
		delete(want, e.Name)
		if e.OK() {
			out.index[e.Name] = len(out.entries)
		}
		out.entries = append(out.entries, e)
	}
	for _, n := range names {
		if want[n] {
			return nil, &UnknownCandidateError{Name: n}
		}
	}
	return out, nil
}
