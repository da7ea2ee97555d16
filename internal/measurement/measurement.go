// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package measurement implements single weather measurements and the observations that group
// the measurements taken at the same time.
package measurement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/zathras777/wxconnector/internal/unit"
)

// Measurement is a value in a unit. If the unit is not known to the registry, the
// measurement keeps the unit as an opaque label and cannot be converted.
type Measurement struct {
	Value decimal.Decimal

	unit  *unit.Unit
	label string
	reg   *unit.Registry
}

// Record is the flat representation of a Measurement handed to logging and storage.
type Record struct {
	Kind  string          `json:"kind"`
	Value decimal.Decimal `json:"value"`
	Unit  string          `json:"unit"`
}

// New returns a Measurement with its unit resolved through reg. A nil registry selects
// unit.Default.
func New(reg *unit.Registry, value decimal.Decimal, abbr string) Measurement {
	if reg == nil {
		reg = unit.Default()
	}
	m := Measurement{Value: value, label: abbr, reg: reg}
	if u, ok := reg.Resolve(abbr); ok {
		m.unit = u
	}
	return m
}

// Unit returns the resolved unit, or nil for an opaque unit label.
func (m Measurement) Unit() *unit.Unit {
	return m.unit
}

// Label returns the unit abbreviation or the opaque label.
func (m Measurement) Label() string {
	return m.label
}

// IsResolved reports whether the unit is known to the registry.
func (m Measurement) IsResolved() bool {
	return m.unit != nil
}

// Clone returns an independent copy of the measurement.
func (m Measurement) Clone() Measurement {
	return Measurement{
		Value: m.Value.Copy(),
		unit:  m.unit,
		label: m.label,
		reg:   m.reg,
	}
}

// WithValue returns a copy of the measurement holding the given value.
func (m Measurement) WithValue(value decimal.Decimal) Measurement {
	c := m.Clone()
	c.Value = value
	return c
}

// ConvertTo returns the value expressed in the unit with the given abbreviation. The value
// of a measurement with an opaque unit is returned unchanged.
func (m Measurement) ConvertTo(abbr string) (decimal.Decimal, error) {
	if m.unit == nil {
		return m.Value, nil
	}
	target, ok := m.reg.Resolve(abbr)
	if !ok {
		return m.Value, fmt.Errorf("%w: %s", unit.ErrUnknownUnit, abbr)
	}
	return m.unit.ConvertTo(m.Value, target)
}

// In returns the measurement converted into the unit with the given abbreviation, resolved
// with the registry of m. A measurement with an opaque unit is returned unchanged.
func (m Measurement) In(abbr string) (Measurement, error) {
	if m.unit == nil {
		return m, nil
	}
	val, err := m.ConvertTo(abbr)
	if err != nil {
		return m, err
	}
	return New(m.reg, val, abbr), nil
}

// Record returns the flat (kind, value, unit) representation of the measurement.
func (m Measurement) Record(kind string) Record {
	return Record{Kind: kind, Value: m.Value, Unit: m.label}
}

func (m Measurement) String() string {
	if m.unit == nil {
		return fmt.Sprintf("%s %s", m.Value, m.label)
	}
	return m.unit.Format(m.Value)
}
