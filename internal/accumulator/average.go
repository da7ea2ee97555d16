// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package accumulator

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/zathras777/wxconnector/internal/measurement"
	"github.com/zathras777/wxconnector/internal/vartype"
)

// Averager accumulates the values of one measurement kind into an average.
type Averager interface {
	Add(m measurement.Measurement) error
	Compatible(m measurement.Measurement) error
	Average() (measurement.Measurement, error)
	Count() int
}

// Average is the arithmetic mean of all added values, in the unit of the first value.
type Average struct {
	sum   vartype.Variable[measurement.Measurement]
	count int
}

// NewAverage returns an empty Average.
func NewAverage() *Average {
	return &Average{}
}

// Add adds the measurement to the running sum.
func (a *Average) Add(m measurement.Measurement) error {
	sum, ok := a.sum.Get()
	if !ok {
		a.sum.Set(m.Clone())
		a.count = 1
		return nil
	}
	val, err := valueIn(m, sum)
	if err != nil {
		return err
	}
	a.sum.Set(sum.WithValue(sum.Value.Add(val)))
	a.count++
	return nil
}

// Compatible returns the error Add would return for m without changing the average.
func (a *Average) Compatible(m measurement.Measurement) error {
	sum, ok := a.sum.Get()
	if !ok {
		return nil
	}
	_, err := valueIn(m, sum)
	return err
}

// Average returns the mean of the added values. It fails with ErrNoSamples if nothing was
// added yet.
func (a *Average) Average() (measurement.Measurement, error) {
	sum, ok := a.sum.Get()
	if !ok || a.count == 0 {
		return measurement.Measurement{}, ErrNoSamples
	}
	return sum.WithValue(sum.Value.Div(decimal.NewFromInt(int64(a.count)))), nil
}

// Count returns the number of added values.
func (a *Average) Count() int {
	return a.count
}

// RMS is the root mean square of all added values, in the unit of the first value. Every
// value is converted into that unit before it is squared, so the result does not depend on
// the units the values arrived in.
type RMS struct {
	squares vartype.Variable[measurement.Measurement]
	count   int
}

// NewRMS returns an empty RMS.
func NewRMS() *RMS {
	return &RMS{}
}

// Add adds the square of the measurement to the running sum of squares.
func (r *RMS) Add(m measurement.Measurement) error {
	squares, ok := r.squares.Get()
	if !ok {
		r.squares.Set(m.WithValue(m.Value.Mul(m.Value)))
		r.count = 1
		return nil
	}
	val, err := valueIn(m, squares)
	if err != nil {
		return err
	}
	r.squares.Set(squares.WithValue(squares.Value.Add(val.Mul(val))))
	r.count++
	return nil
}

// Compatible returns the error Add would return for m without changing the sum.
func (r *RMS) Compatible(m measurement.Measurement) error {
	squares, ok := r.squares.Get()
	if !ok {
		return nil
	}
	_, err := valueIn(m, squares)
	return err
}

// Average returns the root mean square of the added values. It is never negative.
func (r *RMS) Average() (measurement.Measurement, error) {
	squares, ok := r.squares.Get()
	if !ok || r.count == 0 {
		return measurement.Measurement{}, ErrNoSamples
	}
	mean := squares.Value.DivRound(decimal.NewFromInt(int64(r.count)), scale(squares.Value))
	return squares.WithValue(sqrt(mean)), nil
}

// Count returns the number of added values.
func (r *RMS) Count() int {
	return r.count
}

const (
	sqrtPrecision  = 16
	sqrtIterations = 100
)

var half = decimal.New(5, -1)

// sqrt returns the square root of a non-negative x using Newton's method in decimal
// arithmetic. The float64 estimate only seeds the iteration.
func sqrt(x decimal.Decimal) decimal.Decimal {
	if x.Sign() <= 0 {
		return decimal.Zero
	}
	prec := scale(x)

	var guess decimal.Decimal
	if f := math.Sqrt(x.InexactFloat64()); f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f) {
		guess = decimal.NewFromFloat(f)
	} else {
		// 10^(digits/2) where digits is the position of the leading digit
		guess = decimal.New(1, int32((x.NumDigits()+int(x.Exponent()))/2))
	}

	for range sqrtIterations {
		next := guess.Add(x.DivRound(guess, prec)).Mul(half).Round(prec)
		if next.Equal(guess) {
			break
		}
		guess = next
	}
	return guess
}

// scale returns the number of decimal places that keep sqrtPrecision significant places
// of fractional values.
func scale(x decimal.Decimal) int32 {
	if exp := x.Exponent(); exp < 0 {
		return sqrtPrecision - exp
	}
	return sqrtPrecision
}
