// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package vartype provides a value holder that distinguishes "never observed" from an
// observed zero value.
package vartype

import (
	"fmt"
)

// Variable holds a value of type T together with the information whether it was ever set.
// The zero Variable is empty.
type Variable[T any] struct {
	value T
	isset bool
}

// NewVariable returns a Variable that is set to the provided value.
func NewVariable[T any](value T) Variable[T] {
	return Variable[T]{value: value, isset: true}
}

// Set stores the value and marks the Variable as set.
func (v *Variable[T]) Set(val T) {
	v.value = val
	v.isset = true
}

// Reset returns the Variable to its empty state.
func (v *Variable[T]) Reset() {
	var empty T
	v.value = empty
	v.isset = false
}

// Value returns the stored value, or the zero value of T if the Variable is empty.
func (v *Variable[T]) Value() T {
	return v.value
}

// Get returns the stored value and whether the Variable is set.
func (v *Variable[T]) Get() (T, bool) {
	return v.value, v.isset
}

// IsSet reports whether a value was stored.
func (v *Variable[T]) IsSet() bool {
	return v.isset
}

func (v Variable[T]) String() string {
	if !v.isset {
		return "not observed"
	}
	return fmt.Sprint(v.value)
}
