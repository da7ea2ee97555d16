// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package unit provides the catalog of weather measurement units, the conversions between
// units of the same category and the display precision of each unit.
package unit

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Category groups units that measure the same physical quantity.
type Category string

const (
	CategoryPressure    Category = "pressure"
	CategoryTemperature Category = "temperature"
	CategoryDistance    Category = "distance"
	CategorySpeed       Category = "speed"
	CategoryHumidity    Category = "humidity"
	CategoryDirection   Category = "direction"
)

var (
	// ErrConversionUnavailable is returned when a unit has no conversion into the requested unit.
	ErrConversionUnavailable = errors.New("conversion unavailable")

	// ErrIncompatibleCategory is returned when two units do not measure the same quantity.
	ErrIncompatibleCategory = errors.New("incompatible unit category")

	// ErrUnknownUnit is returned when an abbreviation is not part of the registry.
	ErrUnknownUnit = errors.New("unknown unit")
)

// ConvFunc converts a value from one unit into another. Implementations must be pure.
type ConvFunc func(decimal.Decimal) decimal.Decimal

// Unit is a single entry of the registry.
type Unit struct {
	Abbr        string
	Description string
	Category    Category
	Precision   int32

	conversions map[string]ConvFunc
}

// ConversionsAvailable returns the sorted abbreviations of all units this unit converts into.
func (u *Unit) ConversionsAvailable() []string {
	list := make([]string, 0, len(u.conversions))
	for abbr := range u.conversions {
		list = append(list, abbr)
	}
	sort.Strings(list)
	return list
}

// CanConvertTo reports whether a direct conversion into the given abbreviation exists.
func (u *Unit) CanConvertTo(abbr string) bool {
	_, ok := u.conversions[abbr]
	return ok
}

// Round rounds the value to the display precision of the unit.
func (u *Unit) Round(value decimal.Decimal) decimal.Decimal {
	return value.Round(u.Precision)
}

// Format renders the value rounded to the unit precision followed by the abbreviation,
// e.g. "1003.1mbar".
func (u *Unit) Format(value decimal.Decimal) string {
	return value.StringFixed(u.Precision) + u.Abbr
}

// ConvertTo converts the value into the target unit and rounds the result to the precision
// of the target. Converting into the same unit only rounds.
func (u *Unit) ConvertTo(value decimal.Decimal, target *Unit) (decimal.Decimal, error) {
	if target == nil {
		return value, fmt.Errorf("%w: no target unit given", ErrUnknownUnit)
	}
	if u.Abbr == target.Abbr {
		return target.Round(value), nil
	}
	if u.Category != target.Category {
		return value, fmt.Errorf("%w: %s are not a measure of %s", ErrIncompatibleCategory,
			u.Description, target.Category)
	}
	conv, ok := u.conversions[target.Abbr]
	if !ok {
		return value, fmt.Errorf("%w: cannot convert from %s to %s", ErrConversionUnavailable,
			u.Abbr, target.Abbr)
	}
	return target.Round(conv(value)), nil
}

func (u *Unit) String() string {
	return u.Abbr
}
