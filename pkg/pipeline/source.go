package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/slotter/pkg/item"
)

// ItemSource is an abstract queryable store of domain objects. Generators
// use it to obtain candidate objects; the query language is defined by the
// implementation, not by the pipeline.
type ItemSource interface {
	// Query returns the objects matching the query string.
	Query(ctx context.Context, query string) ([]item.Object, error)
}

// MemorySource is an in-memory ItemSource keyed by object URI. It supports
// two query forms: the empty query returns every object, and "attr=value"
// returns objects whose named attribute has the given string representation.
// Intended for examples and tests.
type MemorySource struct {
	objects map[string]item.Object
	order   []string
}

// NewMemorySource creates a MemorySource holding the given objects.
// Later objects with duplicate URIs replace earlier ones.
func NewMemorySource(objects ...item.Object) *MemorySource {
	s := &MemorySource{objects: make(map[string]item.Object, len(objects))}
	for _, obj := range objects {
		if _, seen := s.objects[obj.URI]; !seen {
			s.order = append(s.order, obj.URI)
		}
		s.objects[obj.URI] = obj
	}
	return s
}

// Add inserts or replaces an object.
func (s *MemorySource) Add(obj item.Object) {
	if _, seen := s.objects[obj.URI]; !seen {
		s.order = append(s.order, obj.URI)
	}
	s.objects[obj.URI] = obj
}

// Get returns the object with the given URI.
func (s *MemorySource) Get(uri string) (item.Object, bool) {
	obj, ok := s.objects[uri]
	return obj, ok
}

// Query implements ItemSource. Objects are returned in insertion order so
// downstream behavior is deterministic.
func (s *MemorySource) Query(_ context.Context, query string) ([]item.Object, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.all(), nil
	}

	name, want, ok := strings.Cut(query, "=")
	if !ok {
		return nil, fmt.Errorf("unsupported query %q: expected \"\" or \"attr=value\"", query)
	}
	name = strings.TrimSpace(name)
	want = strings.TrimSpace(want)

	var out []item.Object
	for _, uri := range s.order {
		obj := s.objects[uri]
		val, err := obj.Resolve(name)
		if err != nil {
			continue
		}
		if fmt.Sprintf("%v", val) == want {
			out = append(out, obj)
		}
	}
	return out, nil
}

// all returns every object in insertion order.
func (s *MemorySource) all() []item.Object {
	out := make([]item.Object, 0, len(s.order))
	for _, uri := range s.order {
		out = append(out, s.objects[uri])
	}
	return out
}

// URIs returns the sorted URIs of all stored objects.
func (s *MemorySource) URIs() []string {
	uris := make([]string, 0, len(s.objects))
	for uri := range s.objects {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}
