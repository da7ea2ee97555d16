// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package accumulator

import (
	"fmt"
	"sort"

	"github.com/zathras777/wxconnector/internal/measurement"
	"github.com/zathras777/wxconnector/internal/vartype"
)

// Tracking lists the measurement kinds the Stats accumulator keeps statistics for. Kinds in
// RMS are averaged as root mean square instead of arithmetically.
type Tracking struct {
	HiLo    []string
	Average []string
	RMS     []string
}

// DefaultTracking returns the tracked kinds of a typical weather station.
func DefaultTracking() Tracking {
	return Tracking{
		HiLo:    []string{"barometer", "temperature", "humidity", "wind_speed", "wind_gust", "rain_rate"},
		Average: []string{"barometer", "temperature", "humidity"},
		RMS:     []string{"wind_speed"},
	}
}

// Stats keeps the lowest, highest and average value per tracked kind over a stream of
// observations. Stats is not safe for concurrent use; callers feeding it from several
// goroutines must serialize AddObservation.
type Stats struct {
	hiloKinds map[string]struct{}
	avgKinds  map[string]bool

	hilo     map[string]*HiLo
	averages map[string]Averager

	count int
	first vartype.Variable[int64]
	last  vartype.Variable[int64]
}

// Summary is a snapshot of all statistics of a Stats accumulator.
type Summary struct {
	Observations int
	First        int64
	Last         int64
	Span         int64
	Kinds        []KindSummary
}

// KindSummary holds the statistics of a single measurement kind.
type KindSummary struct {
	Kind    string
	Lowest  vartype.Variable[Extreme]
	Highest vartype.Variable[Extreme]
	Average vartype.Variable[measurement.Measurement]
	Samples int
}

// New returns an empty Stats accumulator for the given tracked kinds. A kind may not be
// listed for both the arithmetic and the root mean square average.
func New(tracking Tracking) (*Stats, error) {
	s := &Stats{
		hiloKinds: make(map[string]struct{}, len(tracking.HiLo)),
		avgKinds:  make(map[string]bool, len(tracking.Average)+len(tracking.RMS)),
		hilo:      make(map[string]*HiLo),
		averages:  make(map[string]Averager),
	}
	for _, kind := range tracking.HiLo {
		s.hiloKinds[kind] = struct{}{}
	}
	for _, kind := range tracking.Average {
		s.avgKinds[kind] = false
	}
	for _, kind := range tracking.RMS {
		if isRMS, ok := s.avgKinds[kind]; ok && !isRMS {
			return nil, fmt.Errorf("kind %q is tracked with both average and RMS", kind)
		}
		s.avgKinds[kind] = true
	}
	return s, nil
}

// AddObservation feeds every tracked kind of the observation into its trackers. Untracked
// kinds are ignored. If any tracked measurement is incompatible with its tracker, an error
// wrapping unit.ErrIncompatibleCategory is returned and the accumulator is left unchanged.
func (s *Stats) AddObservation(obs *measurement.Observation) error {
	kinds := obs.Kinds()
	for _, kind := range kinds {
		m, _ := obs.Measurement(kind)
		if hl, ok := s.hilo[kind]; ok {
			if err := hl.Compatible(m); err != nil {
				return fmt.Errorf("failed to track %s: %w", kind, err)
			}
		}
		if avg, ok := s.averages[kind]; ok {
			if err := avg.Compatible(m); err != nil {
				return fmt.Errorf("failed to average %s: %w", kind, err)
			}
		}
	}

	if !s.first.IsSet() {
		s.first.Set(obs.When)
	}
	if last, ok := s.last.Get(); !ok || obs.When > last {
		s.last.Set(obs.When)
	}

	for _, kind := range kinds {
		m, _ := obs.Measurement(kind)
		if _, ok := s.hiloKinds[kind]; ok {
			hl, ok := s.hilo[kind]
			if !ok {
				hl = NewHiLo()
				s.hilo[kind] = hl
			}
			if err := hl.Check(m, obs.When); err != nil {
				return fmt.Errorf("failed to track %s: %w", kind, err)
			}
		}
		if isRMS, ok := s.avgKinds[kind]; ok {
			avg, ok := s.averages[kind]
			if !ok {
				avg = newAverager(isRMS)
				s.averages[kind] = avg
			}
			if err := avg.Add(m); err != nil {
				return fmt.Errorf("failed to average %s: %w", kind, err)
			}
		}
	}
	s.count++
	return nil
}

// Lowest returns the lowest value of kind and when it was recorded. ok is false if no
// observation carried the kind.
func (s *Stats) Lowest(kind string) (m measurement.Measurement, when int64, ok bool) {
	hl, found := s.hilo[kind]
	if !found {
		return m, 0, false
	}
	return hl.Lowest()
}

// Highest returns the highest value of kind and when it was recorded. ok is false if no
// observation carried the kind.
func (s *Stats) Highest(kind string) (m measurement.Measurement, when int64, ok bool) {
	hl, found := s.hilo[kind]
	if !found {
		return m, 0, false
	}
	return hl.Highest()
}

// Average returns the average value of kind. ok is false if no observation carried the kind.
func (s *Stats) Average(kind string) (measurement.Measurement, bool) {
	avg, found := s.averages[kind]
	if !found {
		return measurement.Measurement{}, false
	}
	m, err := avg.Average()
	if err != nil {
		return measurement.Measurement{}, false
	}
	return m, true
}

// Count returns the number of observations added.
func (s *Stats) Count() int {
	return s.count
}

// First returns the timestamp of the first observation added.
func (s *Stats) First() int64 {
	return s.first.Value()
}

// Last returns the latest timestamp of all observations added.
func (s *Stats) Last() int64 {
	return s.last.Value()
}

// Span returns the time between the first and the latest observation.
func (s *Stats) Span() int64 {
	return s.last.Value() - s.first.Value()
}

// Summary returns a snapshot of the statistics of every kind seen so far, sorted by kind.
func (s *Stats) Summary() Summary {
	sum := Summary{
		Observations: s.count,
		First:        s.First(),
		Last:         s.Last(),
		Span:         s.Span(),
	}

	seen := make(map[string]struct{}, len(s.hilo)+len(s.averages))
	for kind := range s.hilo {
		seen[kind] = struct{}{}
	}
	for kind := range s.averages {
		seen[kind] = struct{}{}
	}
	kinds := make([]string, 0, len(seen))
	for kind := range seen {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		ks := KindSummary{Kind: kind}
		if hl, ok := s.hilo[kind]; ok {
			if m, when, ok := hl.Lowest(); ok {
				ks.Lowest.Set(Extreme{Measurement: m, When: when})
			}
			if m, when, ok := hl.Highest(); ok {
				ks.Highest.Set(Extreme{Measurement: m, When: when})
			}
		}
		if avg, ok := s.averages[kind]; ok {
			if m, err := avg.Average(); err == nil {
				ks.Average.Set(m)
			}
			ks.Samples = avg.Count()
		}
		sum.Kinds = append(sum.Kinds, ks)
	}
	return sum
}

func newAverager(rms bool) Averager {
	if rms {
		return NewRMS()
	}
	return NewAverage()
}
