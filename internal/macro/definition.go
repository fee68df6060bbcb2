package macro

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Definition is a single preprocessor macro, bare or with a value.
type Definition struct {
	Name     string
	Value    string
	HasValue bool
}

// Bare returns a definition without a value.
func Bare(name string) Definition {
	return Definition{Name: name}
}

// Valued returns a NAME=VALUE definition.
func Valued(name, value string) Definition {
	return Definition{Name: name, Value: value, HasValue: true}
}

// ParseDefinition splits a literal macro on its first "=".
// "FOO" is bare, "FOO=" has an empty value.
func ParseDefinition(literal string) Definition {
	name, value, ok := strings.Cut(literal, "=")
	if !ok {
		return Bare(literal)
	}
	return Valued(name, value)
}

// String serializes the definition as NAME or NAME=VALUE.
func (d Definition) String() string {
	if !d.HasValue {
		return d.Name
	}
	return d.Name + "=" + d.Value
}

// Set is an ordered collection of definitions with unique names.
// Adding a name that is already present evicts the earlier definition and
// appends the new one at the end.
type Set struct {
	defs *orderedmap.OrderedMap[string, Definition]
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{defs: orderedmap.New[string, Definition]()}
}

// Add appends def, evicting any existing definition with the same name.
func (s *Set) Add(def Definition) {
	s.defs.Delete(def.Name)
	s.defs.Set(def.Name, def)
}

// Get returns the definition registered under name.
func (s *Set) Get(name string) (Definition, bool) {
	return s.defs.Get(name)
}

// Len returns the number of definitions.
func (s *Set) Len() int {
	return s.defs.Len()
}

// Definitions returns a copy of the definitions in order.
func (s *Set) Definitions() []Definition {
	defs := make([]Definition, 0, s.defs.Len())
	for pair := s.defs.Oldest(); pair != nil; pair = pair.Next() {
		defs = append(defs, pair.Value)
	}
	return defs
}

// Strings returns the serialized definitions in order.
func (s *Set) Strings() []string {
	out := make([]string, 0, s.defs.Len())
	for _, def := range s.Definitions() {
		out = append(out, def.String())
	}
	return out
}

// CompilerFlags returns one -D argument per definition.
func (s *Set) CompilerFlags() []string {
	out := make([]string, 0, s.defs.Len())
	for _, def := range s.Definitions() {
		out = append(out, "-D"+def.String())
	}
	return out
}
