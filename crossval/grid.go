// Package crossval selects hyperparameters by stratified k-fold cross-validation.
package crossval

import (
	"fmt"
	"sort"
	"strings"
)

// Param is one hyperparameter and the values to try for it.
type Param struct {
	Name   string
	Values []interface{}
}

// ParamGrid is an ordered list of hyperparameters.
type ParamGrid []Param

// Values is one point of a grid.
type Values map[string]interface{}

// Float returns the named value as a float64. Ints are converted.
func (v Values) Float(name string) float64 {
	switch x := v[name].(type) {
	case float64:
		return x
	case int:
		return float64(x)
	}
	return 0
}

// Int returns the named value as an int.
func (v Values) Int(name string) int {
	switch x := v[name].(type) {
	case int:
		return x
	case float64:
		return int(x)
	}
	return 0
}

// String returns the named value as a string.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Format renders the values as "{a: 1, b: l2}" with sorted names.
func (v Values) Format() string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %v", name, v[name])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Expand lists every combination of the grid. The last parameter varies
// fastest. An empty grid has one empty combination.
func (g ParamGrid) Expand() []Values {
	out := []Values{{}}
	for _, p := range g {
		var next []Values
		for _, prefix := range out {
			for _, value := range p.Values {
				v := make(Values, len(prefix)+1)
				for k, x := range prefix {
					v[k] = x
				}
				v[p.Name] = value
				next = append(next, v)
			}
		}
		out = next
	}
	return out
}
