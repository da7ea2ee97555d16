// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package accumulator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/zathras777/wxconnector/internal/measurement"
	"github.com/zathras777/wxconnector/internal/unit"
)

type check struct {
	value    string
	unit     string
	when     int64
	want     string
	wantWhen int64
}

func newMeasurement(t *testing.T, value, abbr string) measurement.Measurement {
	t.Helper()
	return measurement.New(unit.Default(), decimal.RequireFromString(value), abbr)
}

func TestHiLo_Lowest(t *testing.T) {
	hl := NewHiLo()
	if _, _, ok := hl.Lowest(); ok {
		t.Fatal("expected empty tracker to have no lowest value")
	}
	if err := hl.Check(newMeasurement(t, "100", "mm"), 100); err != nil {
		t.Fatalf("failed to check initial value: %s", err)
	}
	lo, when, ok := hl.Lowest()
	if !ok {
		t.Fatal("expected lowest value after first check")
	}
	if !lo.Value.Equal(decimal.NewFromInt(100)) || when != 100 {
		t.Errorf("expected 100mm at 100, got %s at %d", lo, when)
	}

	checks := []check{
		{"99", "mm", 110, "99", 110},
		{"10", "cm", 120, "99", 110},
		{"1", "m", 130, "99", 110},
		{"1.5", "in", 130, "38.1", 130},
	}
	for _, c := range checks {
		if err := hl.Check(newMeasurement(t, c.value, c.unit), c.when); err != nil {
			t.Fatalf("failed to check %s%s: %s", c.value, c.unit, err)
		}
		lo, when, _ = hl.Lowest()
		if !lo.Value.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("after %s%s: expected lowest value %s, got %s", c.value, c.unit, c.want, lo.Value)
		}
		if when != c.wantWhen {
			t.Errorf("after %s%s: expected lowest at %d, got %d", c.value, c.unit, c.wantWhen, when)
		}
		if lo.Label() != "mm" {
			t.Errorf("expected lowest value to stay in mm, got %s", lo.Label())
		}
	}

	t.Run("incompatible unit is rejected", func(t *testing.T) {
		err := hl.Check(newMeasurement(t, "20", "mph"), 140)
		if !errors.Is(err, unit.ErrIncompatibleCategory) {
			t.Fatalf("expected incompatible category error, got %v", err)
		}
		lo, when, _ := hl.Lowest()
		if !lo.Value.Equal(decimal.RequireFromString("38.1")) || when != 130 {
			t.Errorf("expected lowest value to be unchanged, got %s at %d", lo.Value, when)
		}
		hi, when, _ := hl.Highest()
		if !hi.Value.Equal(decimal.NewFromInt(1000)) || when != 130 {
			t.Errorf("expected highest value to be unchanged, got %s at %d", hi.Value, when)
		}
	})
}

func TestHiLo_Highest(t *testing.T) {
	hl := NewHiLo()
	if err := hl.Check(newMeasurement(t, "1000", "hPa"), 100); err != nil {
		t.Fatalf("failed to check initial value: %s", err)
	}
	checks := []check{
		{"1000.1", "hPa", 110, "1000.1", 110},
		{"999.9", "hPa", 120, "1000.1", 110},
		{"1001.2", "mbar", 130, "1001.2", 130},
		{"29.592", "inHg", 140, "1002.1", 140},
		{"1002.1", "hPa", 150, "1002.1", 140},
	}
	for _, c := range checks {
		if err := hl.Check(newMeasurement(t, c.value, c.unit), c.when); err != nil {
			t.Fatalf("failed to check %s%s: %s", c.value, c.unit, err)
		}
		hi, when, _ := hl.Highest()
		if !hi.Value.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("after %s%s: expected highest value %s, got %s", c.value, c.unit, c.want, hi.Value)
		}
		if when != c.wantWhen {
			t.Errorf("after %s%s: expected highest at %d, got %d", c.value, c.unit, c.wantWhen, when)
		}
	}
	lo, when, _ := hl.Lowest()
	if !lo.Value.Equal(decimal.RequireFromString("999.9")) || when != 120 {
		t.Errorf("expected lowest value 999.9 at 120, got %s at %d", lo.Value, when)
	}
}

func TestHiLo_Check(t *testing.T) {
	t.Run("a single value can move both extremes", func(t *testing.T) {
		hl := NewHiLo()
		_ = hl.Check(newMeasurement(t, "10", "C"), 1)
		_ = hl.Check(newMeasurement(t, "10", "C"), 2)
		lo, loWhen, _ := hl.Lowest()
		hi, hiWhen, _ := hl.Highest()
		if loWhen != 1 || hiWhen != 1 {
			t.Errorf("expected ties not to move the extremes, got lo@%d hi@%d", loWhen, hiWhen)
		}
		if !lo.Value.Equal(hi.Value) {
			t.Errorf("expected lo and hi to be equal, got %s and %s", lo.Value, hi.Value)
		}
	})
	t.Run("a zero value is a valid first value", func(t *testing.T) {
		hl := NewHiLo()
		_ = hl.Check(newMeasurement(t, "0", "C"), 1)
		_ = hl.Check(newMeasurement(t, "-1", "C"), 2)
		lo, when, _ := hl.Lowest()
		if !lo.Value.Equal(decimal.NewFromInt(-1)) || when != 2 {
			t.Errorf("expected -1C at 2, got %s at %d", lo, when)
		}
		hi, when, _ := hl.Highest()
		if !hi.Value.IsZero() || when != 1 {
			t.Errorf("expected 0C at 1, got %s at %d", hi, when)
		}
	})
	t.Run("every value lies between the extremes", func(t *testing.T) {
		values := []measurement.Measurement{
			newMeasurement(t, "12.5", "C"),
			newMeasurement(t, "58", "F"),
			newMeasurement(t, "280.1", "K"),
			newMeasurement(t, "-3.2", "C"),
			newMeasurement(t, "20", "F"),
		}
		hl := NewHiLo()
		for i, v := range values {
			if err := hl.Check(v, int64(i)); err != nil {
				t.Fatalf("failed to check %s: %s", v, err)
			}
		}
		lo, _, _ := hl.Lowest()
		hi, _, _ := hl.Highest()
		for _, v := range values {
			val, err := v.ConvertTo("C")
			if err != nil {
				t.Fatalf("failed to convert %s: %s", v, err)
			}
			if val.LessThan(lo.Value) || val.GreaterThan(hi.Value) {
				t.Errorf("expected %s to be within %s and %s", val, lo.Value, hi.Value)
			}
		}
	})
	t.Run("the caller's measurement is not aliased", func(t *testing.T) {
		hl := NewHiLo()
		m := newMeasurement(t, "5", "C")
		_ = hl.Check(m, 1)
		m.Value = decimal.NewFromInt(50)
		lo, _, _ := hl.Lowest()
		if !lo.Value.Equal(decimal.NewFromInt(5)) {
			t.Errorf("expected tracker to hold its own copy, got %s", lo.Value)
		}
	})
	t.Run("opaque units only compare with the same label", func(t *testing.T) {
		hl := NewHiLo()
		_ = hl.Check(newMeasurement(t, "200", "kPa"), 1)
		if err := hl.Check(newMeasurement(t, "150", "kPa"), 2); err != nil {
			t.Fatalf("expected same opaque label to be comparable, got %s", err)
		}
		lo, _, _ := hl.Lowest()
		if !lo.Value.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected 150 kPa, got %s", lo)
		}
		err := hl.Check(newMeasurement(t, "1000", "hPa"), 3)
		if !errors.Is(err, unit.ErrIncompatibleCategory) {
			t.Errorf("expected incompatible category error, got %v", err)
		}
	})
}
