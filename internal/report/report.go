// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package report renders accumulated statistics in the preferred unit system of the user,
// either as JSON document or as localized text table.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/zathras777/wxconnector/internal/accumulator"
	"github.com/zathras777/wxconnector/internal/measurement"
	"github.com/zathras777/wxconnector/internal/unit"
)

const (
	kindColumnWidth  = 16
	valueColumnWidth = 14
)

// UnitSystems maps a unit system name to the preferred unit per category.
var UnitSystems = map[string]map[unit.Category]string{
	"metric": {
		unit.CategoryPressure:    "hPa",
		unit.CategoryTemperature: "C",
		unit.CategoryDistance:    "mm",
		unit.CategorySpeed:       "kph",
	},
	"imperial": {
		unit.CategoryPressure:    "inHg",
		unit.CategoryTemperature: "F",
		unit.CategoryDistance:    "in",
		unit.CategorySpeed:       "mph",
	},
}

// Output is the JSON document of a summary.
type Output struct {
	Observations int          `json:"observations"`
	First        int64        `json:"first"`
	Last         int64        `json:"last"`
	Span         int64        `json:"span"`
	Kinds        []KindOutput `json:"kinds"`
}

type KindOutput struct {
	Kind    string `json:"kind"`
	Lowest  *Value `json:"lowest,omitempty"`
	Highest *Value `json:"highest,omitempty"`
	Average *Value `json:"average,omitempty"`
	Samples int    `json:"samples,omitempty"`
}

type Value struct {
	Value   decimal.Decimal `json:"value"`
	Unit    string          `json:"unit"`
	Display string          `json:"display"`
	When    int64           `json:"when,omitempty"`
}

type Reporter struct {
	preferred map[unit.Category]string
	printer   *message.Printer
	humanizer *humanize.Humanizer
}

// New returns a Reporter for the given unit system and BCP 47 locale.
func New(units, locale string) (*Reporter, error) {
	preferred, ok := UnitSystems[units]
	if !ok {
		return nil, fmt.Errorf("unsupported unit system: %s", units)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("failed to parse locale %q: %w", locale, err)
	}
	collection, err := humanize.New(humanize.WithLocale(de.New()))
	if err != nil {
		return nil, fmt.Errorf("failed to create humanizer: %w", err)
	}
	return &Reporter{
		preferred: preferred,
		printer:   message.NewPrinter(tag),
		humanizer: collection.CreateHumanizer(tag),
	}, nil
}

// Display returns the measurement expressed in the preferred unit of its category. Measurements
// without a preferred unit or with an opaque unit are returned unchanged.
func (r *Reporter) Display(m measurement.Measurement) measurement.Measurement {
	if !m.IsResolved() {
		return m
	}
	target, ok := r.preferred[m.Unit().Category]
	if !ok || target == m.Label() {
		return m
	}
	disp, err := m.In(target)
	if err != nil {
		return m
	}
	return disp
}

// Output builds the JSON document for the summary.
func (r *Reporter) Output(sum accumulator.Summary) Output {
	out := Output{
		Observations: sum.Observations,
		First:        sum.First,
		Last:         sum.Last,
		Span:         sum.Span,
		Kinds:        make([]KindOutput, 0, len(sum.Kinds)),
	}
	for _, ks := range sum.Kinds {
		ko := KindOutput{Kind: ks.Kind, Samples: ks.Samples}
		if lo, ok := ks.Lowest.Get(); ok {
			ko.Lowest = r.value(lo.Measurement, lo.When)
		}
		if hi, ok := ks.Highest.Get(); ok {
			ko.Highest = r.value(hi.Measurement, hi.When)
		}
		if avg, ok := ks.Average.Get(); ok {
			ko.Average = r.value(avg, 0)
		}
		out.Kinds = append(out.Kinds, ko)
	}
	return out
}

// WriteJSON writes the summary as single line JSON document to w.
func (r *Reporter) WriteJSON(w io.Writer, sum accumulator.Summary) error {
	if err := json.NewEncoder(w).Encode(r.Output(sum)); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return nil
}

// WriteText writes the summary as text table with localized numbers to w.
func (r *Reporter) WriteText(w io.Writer, sum accumulator.Summary) error {
	buf := new(strings.Builder)
	_, _ = r.printer.Fprintf(buf, "Observations: %d, span %s\n", sum.Observations,
		time.Duration(sum.Span)*time.Second)
	if sum.Observations > 0 {
		_, _ = fmt.Fprintf(buf, "From %s to %s\n", r.localizedTime(sum.First), r.localizedTime(sum.Last))
	}
	buf.WriteString(runewidth.FillRight("kind", kindColumnWidth))
	for _, col := range []string{"lowest", "highest", "average"} {
		buf.WriteString(runewidth.FillLeft(col, valueColumnWidth))
	}
	buf.WriteString("\n")

	for _, ks := range sum.Kinds {
		buf.WriteString(runewidth.FillRight(runewidth.Truncate(ks.Kind, kindColumnWidth-1, "…"),
			kindColumnWidth))
		cols := make([]string, 3)
		if lo, ok := ks.Lowest.Get(); ok {
			cols[0] = r.localized(lo.Measurement)
		}
		if hi, ok := ks.Highest.Get(); ok {
			cols[1] = r.localized(hi.Measurement)
		}
		if avg, ok := ks.Average.Get(); ok {
			cols[2] = r.localized(avg)
		}
		for _, col := range cols {
			if col == "" {
				col = "-"
			}
			buf.WriteString(runewidth.FillLeft(col, valueColumnWidth))
		}
		buf.WriteString("\n")
	}

	if _, err := io.WriteString(w, buf.String()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func (r *Reporter) value(m measurement.Measurement, when int64) *Value {
	disp := r.Display(m)
	return &Value{
		Value:   disp.Value,
		Unit:    disp.Label(),
		Display: disp.String(),
		When:    when,
	}
}

// localized formats the measurement in its preferred unit with the number format of the
// reporter's locale.
func (r *Reporter) localized(m measurement.Measurement) string {
	disp := r.Display(m)
	if !disp.IsResolved() {
		return r.printer.Sprint(number.Decimal(disp.Value.InexactFloat64())) + " " + disp.Label()
	}
	prec := disp.Unit().Precision
	val := disp.Value.Round(prec).InexactFloat64()
	return r.printer.Sprint(number.Decimal(val, number.Scale(int(prec)))) + disp.Label()
}

// localizedTime formats the unix timestamp as UTC date and time in the reporter's locale.
func (r *Reporter) localizedTime(epoch int64) string {
	return r.humanizer.FormatTime(time.Unix(epoch, 0).UTC(), humanize.DateTimeFormat)
}
