// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/zathras777/wxconnector/internal/accumulator"
	"github.com/zathras777/wxconnector/internal/measurement"
	"github.com/zathras777/wxconnector/internal/unit"
)

func testSummary(t *testing.T) accumulator.Summary {
	t.Helper()
	stats, err := accumulator.New(accumulator.Tracking{
		HiLo:    []string{"temperature", "soil"},
		Average: []string{"temperature"},
	})
	if err != nil {
		t.Fatalf("failed to create accumulator: %s", err)
	}
	for _, o := range []struct {
		when  int64
		value string
	}{
		{121, "10.5"},
		{125, "9.5"},
	} {
		obs := measurement.NewObservation(nil, o.when)
		obs.AddMeasurement("temperature", decimal.RequireFromString(o.value), "C")
		obs.AddMeasurement("soil", decimal.NewFromInt(200), "kPa")
		if err = stats.AddObservation(obs); err != nil {
			t.Fatalf("failed to add observation: %s", err)
		}
	}
	return stats.Summary()
}

func TestNew(t *testing.T) {
	t.Run("known unit systems", func(t *testing.T) {
		for _, units := range []string{"metric", "imperial"} {
			if _, err := New(units, "en-US"); err != nil {
				t.Errorf("failed to create reporter for %s: %s", units, err)
			}
		}
	})
	t.Run("unknown unit system fails", func(t *testing.T) {
		if _, err := New("nautical", "en-US"); err == nil {
			t.Error("expected reporter creation to fail, but didn't")
		}
	})
	t.Run("invalid locale fails", func(t *testing.T) {
		if _, err := New("metric", "not a locale"); err == nil {
			t.Error("expected reporter creation to fail, but didn't")
		}
	})
}

func TestReporter_Display(t *testing.T) {
	rep, err := New("imperial", "en-US")
	if err != nil {
		t.Fatalf("failed to create reporter: %s", err)
	}
	tests := []struct {
		name  string
		value string
		unit  string
		want  string
	}{
		{"celsius shown as fahrenheit", "10", "C", "50.0F"},
		{"millimeters shown as inches", "25.4", "mm", "1.00in"},
		{"humidity has no preferred unit", "55", "%", "55%"},
		{"opaque unit unchanged", "200", "kPa", "200 kPa"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := measurement.New(nil, decimal.RequireFromString(tc.value), tc.unit)
			if got := rep.Display(m).String(); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestReporter_Display_customRegistry(t *testing.T) {
	factor := decimal.RequireFromString("1.8")
	reg := unit.NewRegistry([]unit.Definition{
		{
			Abbr: "C", Category: unit.CategoryTemperature, Precision: 2,
			Conversions: map[string]unit.ConvFunc{
				"F": func(v decimal.Decimal) decimal.Decimal { return v.Mul(factor).Add(decimal.NewFromInt(32)) },
			},
		},
		{Abbr: "F", Category: unit.CategoryTemperature, Precision: 2},
	})
	rep, err := New("imperial", "en-US")
	if err != nil {
		t.Fatalf("failed to create reporter: %s", err)
	}
	got := rep.Display(measurement.New(reg, decimal.NewFromInt(10), "C"))
	if got.String() != "50.00F" {
		t.Errorf("expected display with the precision of the source registry, got %s", got)
	}
}

func TestReporter_WriteJSON(t *testing.T) {
	rep, err := New("imperial", "en-US")
	if err != nil {
		t.Fatalf("failed to create reporter: %s", err)
	}
	buf := bytes.NewBuffer(nil)
	if err = rep.WriteJSON(buf, testSummary(t)); err != nil {
		t.Fatalf("failed to write JSON: %s", err)
	}

	var out Output
	if err = json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode JSON output: %s", err)
	}
	if out.Observations != 2 || out.First != 121 || out.Last != 125 || out.Span != 4 {
		t.Errorf("unexpected header: %+v", out)
	}
	if len(out.Kinds) != 2 {
		t.Fatalf("expected 2 kinds, got %d", len(out.Kinds))
	}

	soil := out.Kinds[0]
	if soil.Kind != "soil" {
		t.Fatalf("expected kinds to be sorted, got %s first", soil.Kind)
	}
	if soil.Average != nil {
		t.Error("expected soil to have no average")
	}
	if soil.Lowest == nil || soil.Lowest.Display != "200 kPa" || soil.Lowest.When != 121 {
		t.Errorf("unexpected soil lowest: %+v", soil.Lowest)
	}

	temp := out.Kinds[1]
	if temp.Lowest == nil || temp.Lowest.Display != "49.1F" || temp.Lowest.When != 125 {
		t.Errorf("unexpected temperature lowest: %+v", temp.Lowest)
	}
	if temp.Highest == nil || temp.Highest.Display != "50.9F" || temp.Highest.When != 121 {
		t.Errorf("unexpected temperature highest: %+v", temp.Highest)
	}
	if temp.Average == nil || !temp.Average.Value.Equal(decimal.NewFromInt(50)) || temp.Average.Unit != "F" {
		t.Errorf("unexpected temperature average: %+v", temp.Average)
	}
	if temp.Samples != 2 {
		t.Errorf("expected 2 averaged samples, got %d", temp.Samples)
	}
}

func TestReporter_WriteText(t *testing.T) {
	tests := []struct {
		locale string
		want   []string
	}{
		{"en-US", []string{"9.5C", "10.5C", "10.0C"}},
		{"de-DE", []string{"9,5C", "10,5C", "10,0C"}},
	}
	for _, tc := range tests {
		t.Run(tc.locale, func(t *testing.T) {
			rep, err := New("metric", tc.locale)
			if err != nil {
				t.Fatalf("failed to create reporter: %s", err)
			}
			buf := bytes.NewBuffer(nil)
			if err = rep.WriteText(buf, testSummary(t)); err != nil {
				t.Fatalf("failed to write text: %s", err)
			}
			text := buf.String()
			if !strings.Contains(text, "Observations: 2") {
				t.Errorf("expected observation count in output, got: %q", text)
			}
			for _, want := range tc.want {
				if !strings.Contains(text, want) {
					t.Errorf("expected output to contain %q, got: %q", want, text)
				}
			}
			if !strings.Contains(text, "From ") || !strings.Contains(text, "1970") {
				t.Errorf("expected localized time range in output, got: %q", text)
			}
		})
	}
	t.Run("empty summary", func(t *testing.T) {
		rep, err := New("metric", "en-US")
		if err != nil {
			t.Fatalf("failed to create reporter: %s", err)
		}
		stats, err := accumulator.New(accumulator.DefaultTracking())
		if err != nil {
			t.Fatalf("failed to create accumulator: %s", err)
		}
		buf := bytes.NewBuffer(nil)
		if err = rep.WriteText(buf, stats.Summary()); err != nil {
			t.Fatalf("failed to write text: %s", err)
		}
		if strings.Contains(buf.String(), "From") {
			t.Errorf("expected no time range for empty summary, got: %q", buf.String())
		}
	})
}
