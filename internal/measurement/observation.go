// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package measurement

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"github.com/zathras777/wxconnector/internal/unit"
)

// dumpKindWidth is the column width of the kind names in Dump.
const dumpKindWidth = 30

// Observation is the set of measurements taken at the same time, at most one per kind.
type Observation struct {
	When int64

	reg          *unit.Registry
	measurements map[string]Measurement
}

// ObservationRecord is the flat representation of an Observation.
type ObservationRecord struct {
	When         int64    `json:"when"`
	Measurements []Record `json:"measurements"`
}

// NewObservation returns an empty observation taken at the given unix timestamp. A zero
// timestamp selects the current time.
func NewObservation(reg *unit.Registry, when int64) *Observation {
	if reg == nil {
		reg = unit.Default()
	}
	if when == 0 {
		when = time.Now().Unix()
	}
	return &Observation{
		When:         when,
		reg:          reg,
		measurements: make(map[string]Measurement),
	}
}

// FromRecord rebuilds an Observation from its flat representation. Later records of the
// same kind replace earlier ones.
func FromRecord(reg *unit.Registry, rec ObservationRecord) *Observation {
	obs := NewObservation(reg, rec.When)
	for _, m := range rec.Measurements {
		obs.AddMeasurement(m.Kind, m.Value, m.Unit)
	}
	return obs
}

// AddMeasurement stores a measurement under kind, replacing any previous measurement of
// that kind regardless of its unit. The zero Observation resolves units with the default
// registry.
func (o *Observation) AddMeasurement(kind string, value decimal.Decimal, abbr string) {
	if o.measurements == nil {
		o.measurements = make(map[string]Measurement)
	}
	o.measurements[kind] = New(o.reg, value, abbr)
}

// Measurement returns the measurement stored under kind.
func (o *Observation) Measurement(kind string) (Measurement, bool) {
	m, ok := o.measurements[kind]
	return m, ok
}

// RemoveMeasurement deletes the measurement stored under kind, if any.
func (o *Observation) RemoveMeasurement(kind string) {
	delete(o.measurements, kind)
}

// Count returns the number of distinct kinds in the observation.
func (o *Observation) Count() int {
	return len(o.measurements)
}

// Kinds returns the sorted kind names of the observation.
func (o *Observation) Kinds() []string {
	kinds := make([]string, 0, len(o.measurements))
	for kind := range o.measurements {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Record returns the flat representation of the observation, sorted by kind.
func (o *Observation) Record() ObservationRecord {
	rec := ObservationRecord{
		When:         o.When,
		Measurements: make([]Record, 0, len(o.measurements)),
	}
	for _, kind := range o.Kinds() {
		rec.Measurements = append(rec.Measurements, o.measurements[kind].Record(kind))
	}
	return rec
}

// Dump writes a human-readable listing of the observation to w.
func (o *Observation) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Observation @ %d\n", o.When); err != nil {
		return err
	}
	for _, kind := range o.Kinds() {
		_, err := fmt.Fprintf(w, "    %s : %s\n", runewidth.FillLeft(kind, dumpKindWidth),
			o.measurements[kind])
		if err != nil {
			return err
		}
	}
	return nil
}
