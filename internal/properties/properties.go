// Package properties extracts element parameters as the string map stored
// in each exported element's user data.
package properties

import (
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/bim"
)

// TypePrefix prefixes parameter names taken from the element type.
const TypePrefix = "Type "

// Extractor collects instance and, optionally, type parameters. The first
// occurrence of a name wins and empty values are dropped.
//
// With a non-nil Filter only parameters listed for the element's category
// are kept; categories missing from the filter export nothing. Type
// parameters are matched by their prefixed name.
type Extractor struct {
	Filter map[string][]string
}

// New returns an extractor. A nil or empty filter exports every parameter.
func New(filter map[string][]string) *Extractor {
	if len(filter) == 0 {
		filter = nil
	}
	return &Extractor{Filter: filter}
}

// Properties returns the parameters of e.
func (x *Extractor) Properties(e *bim.Element, includeType bool) (map[string]string, error) {
	out := make(map[string]string, len(e.Parameters))

	var allowed map[string]bool
	if x.Filter != nil {
		names, ok := x.Filter[e.CategoryName()]
		if !ok {
			return out, nil
		}
		allowed = make(map[string]bool, len(names))
		for _, n := range names {
			allowed[n] = true
		}
	}

	add := func(name, value string) {
		if allowed != nil && !allowed[name] {
			return
		}
		if _, ok := out[name]; ok {
			return
		}
		if value == "" {
			return
		}
		out[name] = value
	}

	for _, p := range e.Parameters {
		add(p.Name, p.Value)
	}

	if includeType {
		if t := e.Type(); t != nil {
			for _, p := range t.Parameters {
				add(TypePrefix+p.Name, p.Value)
			}
		}
	}
	return out, nil
}
