// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package unit

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Definition describes a unit before it is added to a Registry.
type Definition struct {
	Abbr        string
	Description string
	Category    Category
	// Precision is the number of decimal places values of this unit are rounded to.
	Precision   int32
	Conversions map[string]ConvFunc
}

// Registry is the catalog of known units. It is not modified after NewRegistry returns and
// is safe for concurrent use.
type Registry struct {
	units      map[string]*Unit
	categories map[Category][]string
	defects    []string
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return NewRegistry(StandardUnits())
})

// Default returns the registry built from StandardUnits.
func Default() *Registry {
	return defaultRegistry()
}

// NewRegistry builds a registry from the given definitions. A definition that reuses an
// abbreviation already present is skipped and reported by Check.
func NewRegistry(defs []Definition) *Registry {
	reg := &Registry{
		units:      make(map[string]*Unit, len(defs)),
		categories: make(map[Category][]string),
	}
	for _, def := range defs {
		if _, ok := reg.units[def.Abbr]; ok {
			reg.defects = append(reg.defects, fmt.Sprintf("%s:%s is defined more than once",
				def.Category, def.Abbr))
			continue
		}
		conversions := make(map[string]ConvFunc, len(def.Conversions))
		for abbr, fn := range def.Conversions {
			conversions[abbr] = fn
		}
		reg.units[def.Abbr] = &Unit{
			Abbr:        def.Abbr,
			Description: def.Description,
			Category:    def.Category,
			Precision:   def.Precision,
			conversions: conversions,
		}
		reg.categories[def.Category] = append(reg.categories[def.Category], def.Abbr)
	}
	for cat := range reg.categories {
		sort.Strings(reg.categories[cat])
	}
	return reg
}

// Resolve looks up a unit by its abbreviation.
func (r *Registry) Resolve(abbr string) (*Unit, bool) {
	u, ok := r.units[abbr]
	return u, ok
}

// Units returns all registered units sorted by abbreviation.
func (r *Registry) Units() []*Unit {
	list := make([]*Unit, 0, len(r.units))
	for _, u := range r.units {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Abbr < list[j].Abbr
	})
	return list
}

// Categories returns a copy of the category to abbreviation mapping.
func (r *Registry) Categories() map[Category][]string {
	cats := make(map[Category][]string, len(r.categories))
	for cat, abbrs := range r.categories {
		cats[cat] = append([]string(nil), abbrs...)
	}
	return cats
}

// Convert converts a value between two registered units.
func (r *Registry) Convert(value decimal.Decimal, from, to string) (decimal.Decimal, error) {
	src, ok := r.units[from]
	if !ok {
		return value, fmt.Errorf("%w: %s", ErrUnknownUnit, from)
	}
	dst, ok := r.units[to]
	if !ok {
		return value, fmt.Errorf("%w: %s", ErrUnknownUnit, to)
	}
	return src.ConvertTo(value, dst)
}

// Format renders the value with the precision and abbreviation of the given unit. Values of
// unknown units are rendered verbatim followed by the label.
func (r *Registry) Format(abbr string, value decimal.Decimal) string {
	u, ok := r.units[abbr]
	if !ok {
		return value.String() + " " + abbr
	}
	return u.Format(value)
}

// Check validates the unit table and returns a human-readable list of its defects. An empty
// list means every unit converts directly into every other unit of its category.
func (r *Registry) Check() []string {
	errs := append([]string(nil), r.defects...)
	probe := decimal.NewFromInt(1)

	for _, u := range r.Units() {
		label := fmt.Sprintf("%s:%s", u.Category, u.Abbr)
		if u.CanConvertTo(u.Abbr) {
			errs = append(errs, fmt.Sprintf("%s has a conversion for itself", label))
		}

		var missing []string
		for _, other := range r.categories[u.Category] {
			if other != u.Abbr && !u.CanConvertTo(other) {
				missing = append(missing, other)
			}
		}
		if len(missing) > 0 {
			errs = append(errs, fmt.Sprintf("%s is missing conversions for %s", label,
				strings.Join(missing, ", ")))
		}

		for _, target := range u.ConversionsAvailable() {
			if target == u.Abbr {
				continue
			}
			dst, ok := r.units[target]
			if !ok {
				errs = append(errs, fmt.Sprintf("%s converts to unregistered unit %s", label, target))
				continue
			}
			if dst.Category != u.Category {
				errs = append(errs, fmt.Sprintf("%s converts to %s which measures %s", label, target,
					dst.Category))
				continue
			}
			if !probeConversion(u.conversions[target], probe) {
				errs = append(errs, fmt.Sprintf("%s - conversion to %s fails", label, target))
			}
		}
	}
	return errs
}

// probeConversion reports whether fn returns without panicking for the given input.
func probeConversion(fn ConvFunc, input decimal.Decimal) (ok bool) {
	if fn == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_ = fn(input)
	return true
}
