package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Undertaker4032/secret-lab-app/internal/filters"
)

// filterFlags binds list filter flags to catalog keys.
type filterFlags struct {
	values  map[string]*string
	extra   []string
	catalog filters.Catalog
}

// bindFilterFlags registers one flag per entry of flagToKey plus --search,
// --ordering and a generic repeatable --filter key=value.
func bindFilterFlags(cmd *cobra.Command, catalog filters.Catalog, flagToKey map[string]string) *filterFlags {
	f := &filterFlags{values: map[string]*string{}, catalog: catalog}
	for flag, key := range flagToKey {
		f.values[key] = cmd.Flags().String(flag, "", "Filter by "+key)
	}
	f.values[filters.KeySearch] = cmd.Flags().String("search", "", "Search text")
	f.values[filters.KeyOrdering] = cmd.Flags().String("ordering", "", "Sort order (see --help for values)")
	cmd.Flags().StringArrayVar(&f.extra, "filter", nil, "Extra filter as key=value (repeatable)")

	var orderings []string
	for _, o := range catalog.SortOptions {
		orderings = append(orderings, "  "+o.Value+"\t"+o.Label)
	}
	cmd.Long = strings.TrimSpace(cmd.Long + "\n\nOrdering values:\n" + strings.Join(orderings, "\n"))
	return f
}

// set builds the filter set. Flags come first in catalog key order, then
// extra filters in the order given. Keys the resource does not accept are
// rejected.
func (f *filterFlags) set() (filters.Set, error) {
	var s filters.Set
	for _, key := range f.catalog.Keys {
		if v, ok := f.values[key]; ok {
			s = s.With(key, *v)
		}
	}
	for _, kv := range f.extra {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return filters.Set{}, fmt.Errorf("invalid --filter %q: expected key=value", kv)
		}
		if !f.catalog.Allows(key) {
			return filters.Set{}, fmt.Errorf("unknown %s filter %q (allowed: %s)", f.catalog.Resource, key, strings.Join(f.catalog.Keys, ", "))
		}
		s = s.With(key, value)
	}
	if v, ok := s.Get(filters.KeyOrdering); ok && !f.catalog.AllowsOrdering(v) {
		return filters.Set{}, fmt.Errorf("unknown ordering %q", v)
	}
	return s, nil
}

// reset clears flag values between test runs.
func (f *filterFlags) reset() {
	for _, v := range f.values {
		*v = ""
	}
	f.extra = nil
}
