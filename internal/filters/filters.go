// Package filters models the active query constraints of a list resource and
// their URL query-string form.
package filters

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Pair is one active constraint.
type Pair struct {
	Key   string
	Value string
}

// Set is an ordered collection of active constraints. A key present in a Set
// always maps to a non-empty value. The zero Set is empty and ready to use;
// every method returns a new Set and never modifies the receiver.
type Set struct {
	pairs []Pair
}

// Of builds a Set from alternating keys and values. Empty values are dropped,
// as are non-string keys and a trailing key without a value.
func Of(kv ...any) Set {
	var s Set
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		s = s.With(key, kv[i+1])
	}
	return s
}

// Clean builds a Set from a map, dropping empty values. Maps carry no order,
// so keys are sorted.
func Clean(m map[string]any) Set {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var s Set
	for _, k := range keys {
		s = s.With(k, m[k])
	}
	return s
}

// Stringify renders a scalar filter value. ok is false for values that do not
// denote a constraint: nil, false, the empty string and non-scalars.
func Stringify(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case bool:
		if !v {
			return "", false
		}
		return "true", true
	case *string:
		if v == nil {
			return "", false
		}
		return Stringify(*v)
	case *int:
		if v == nil {
			return "", false
		}
		return Stringify(*v)
	}

	str, err := cast.ToStringE(value)
	if err != nil || str == "" {
		return "", false
	}
	return str, true
}

// With returns a copy of s where key maps to value. An existing key keeps its
// position. An empty value removes the key.
func (s Set) With(key string, value any) Set {
	if key == "" {
		return s
	}
	str, ok := Stringify(value)
	if !ok {
		return s.Without(key)
	}

	out := Set{pairs: make([]Pair, len(s.pairs), len(s.pairs)+1)}
	copy(out.pairs, s.pairs)
	for i := range out.pairs {
		if out.pairs[i].Key == key {
			out.pairs[i].Value = str
			return out
		}
	}
	out.pairs = append(out.pairs, Pair{Key: key, Value: str})
	return out
}

// Without returns a copy of s with key removed.
func (s Set) Without(key string) Set {
	out := Set{pairs: make([]Pair, 0, len(s.pairs))}
	for _, p := range s.pairs {
		if p.Key != key {
			out.pairs = append(out.pairs, p)
		}
	}
	return out
}

// Merge overlays other onto s. Keys already in s keep their position.
func (s Set) Merge(other Set) Set {
	out := s
	for _, p := range other.pairs {
		out = out.With(p.Key, p.Value)
	}
	return out
}

// Get returns the value for key.
func (s Set) Get(key string) (string, bool) {
	for _, p := range s.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Len is the number of active constraints.
func (s Set) Len() int {
	return len(s.pairs)
}

// IsEmpty reports whether no constraint is active.
func (s Set) IsEmpty() bool {
	return len(s.pairs) == 0
}

// Pairs returns the constraints in insertion order.
func (s Set) Pairs() []Pair {
	out := make([]Pair, len(s.pairs))
	copy(out, s.pairs)
	return out
}

// Map returns the constraints as a plain map.
func (s Set) Map() map[string]string {
	m := make(map[string]string, len(s.pairs))
	for _, p := range s.pairs {
		m[p.Key] = p.Value
	}
	return m
}

// Encode renders s as a query string without the leading '?', keeping
// insertion order. Spaces are encoded as '+'.
func (s Set) Encode() string {
	parts := make([]string, 0, len(s.pairs))
	for _, p := range s.pairs {
		parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

// String implements fmt.Stringer.
func (s Set) String() string {
	return s.Encode()
}

// BuildURL appends the query form of s to base. An empty Set leaves base
// untouched.
func BuildURL(base string, s Set) string {
	query := s.Encode()
	if query == "" {
		return base
	}
	if strings.Contains(base, "?") {
		return base + "&" + query
	}
	return base + "?" + query
}

// Parse reads a query string (with or without the leading '?') back into a
// Set. A key with an empty value is dropped; a repeated key keeps its last
// value at the position of its first occurrence.
func Parse(query string) (Set, error) {
	query = strings.TrimPrefix(query, "?")

	var s Set
	if query == "" {
		return s, nil
	}
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return Set{}, fmt.Errorf("invalid filter key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return Set{}, fmt.Errorf("invalid value for filter %q: %w", key, err)
		}
		s = s.With(key, value)
	}
	return s, nil
}
