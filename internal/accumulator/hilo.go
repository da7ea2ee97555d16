// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package accumulator collects running statistics (lowest, highest and average values) over a
// stream of observations. Values of compatible units are converted into the unit of the first
// value seen before they are compared or summed.
package accumulator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/zathras777/wxconnector/internal/measurement"
	"github.com/zathras777/wxconnector/internal/unit"
	"github.com/zathras777/wxconnector/internal/vartype"
)

// ErrNoSamples is returned when an average is requested before any value was added.
var ErrNoSamples = errors.New("no samples accumulated")

// Extreme is a lowest or highest value together with the time it was recorded.
type Extreme struct {
	Measurement measurement.Measurement
	When        int64
}

// HiLo tracks the lowest and the highest value of one measurement kind.
type HiLo struct {
	lo vartype.Variable[Extreme]
	hi vartype.Variable[Extreme]
}

// NewHiLo returns an empty HiLo tracker.
func NewHiLo() *HiLo {
	return &HiLo{}
}

// Check records the measurement as new lowest and/or highest value if it is strictly lower or
// higher than the current one. The first measurement sets both and fixes the unit of the
// tracker. A measurement of a different category is rejected with unit.ErrIncompatibleCategory
// and leaves the tracker unchanged.
func (h *HiLo) Check(m measurement.Measurement, when int64) error {
	lo, ok := h.lo.Get()
	if !ok {
		h.lo.Set(Extreme{Measurement: m.Clone(), When: when})
		h.hi.Set(Extreme{Measurement: m.Clone(), When: when})
		return nil
	}
	hi := h.hi.Value()

	val, err := valueIn(m, lo.Measurement)
	if err != nil {
		return err
	}
	if val.LessThan(lo.Measurement.Value) {
		h.lo.Set(Extreme{Measurement: lo.Measurement.WithValue(val), When: when})
	}
	if val.GreaterThan(hi.Measurement.Value) {
		h.hi.Set(Extreme{Measurement: hi.Measurement.WithValue(val), When: when})
	}
	return nil
}

// Compatible returns the error Check would return for m without changing the tracker.
func (h *HiLo) Compatible(m measurement.Measurement) error {
	lo, ok := h.lo.Get()
	if !ok {
		return nil
	}
	_, err := valueIn(m, lo.Measurement)
	return err
}

// Lowest returns the lowest value and its timestamp.
func (h *HiLo) Lowest() (measurement.Measurement, int64, bool) {
	lo, ok := h.lo.Get()
	return lo.Measurement, lo.When, ok
}

// Highest returns the highest value and its timestamp.
func (h *HiLo) Highest() (measurement.Measurement, int64, bool) {
	hi, ok := h.hi.Get()
	return hi.Measurement, hi.When, ok
}

// valueIn returns the value of m expressed in the unit of ref. Values in the same unit are
// returned unrounded.
func valueIn(m, ref measurement.Measurement) (decimal.Decimal, error) {
	if m.Label() == ref.Label() {
		return m.Value, nil
	}
	if !m.IsResolved() || !ref.IsResolved() {
		return m.Value, fmt.Errorf("%w: %s cannot be compared with %s", unit.ErrIncompatibleCategory,
			m.Label(), ref.Label())
	}
	if m.Unit().Category != ref.Unit().Category {
		return m.Value, fmt.Errorf("%w: %s are not a measure of %s", unit.ErrIncompatibleCategory,
			m.Unit().Description, ref.Unit().Category)
	}
	return m.ConvertTo(ref.Label())
}
