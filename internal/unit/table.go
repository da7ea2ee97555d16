// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package unit

import (
	"github.com/shopspring/decimal"
)

var (
	hPaPerInHg = decimal.RequireFromString("33.86388640341")
	mmPerInch  = decimal.RequireFromString("25.4")
	cmPerInch  = decimal.RequireFromString("2.54")
	mPerInch   = decimal.RequireFromString("0.0254")
	mPerFoot   = decimal.RequireFromString("0.3048")
	cmPerFoot  = decimal.RequireFromString("30.48")
	mmPerFoot  = decimal.RequireFromString("304.8")
	kphPerMph  = decimal.RequireFromString("1.609344")
	mpsPerMph  = decimal.RequireFromString("0.44704")
	kphPerKnot = decimal.RequireFromString("1.852")
	kphPerMps  = decimal.RequireFromString("3.6")
	kelvinZero = decimal.RequireFromString("273.15")
)

func mul(factor decimal.Decimal) ConvFunc {
	return func(v decimal.Decimal) decimal.Decimal { return v.Mul(factor) }
}

func div(divisor decimal.Decimal) ConvFunc {
	return func(v decimal.Decimal) decimal.Decimal { return v.Div(divisor) }
}

func ratio(num, den decimal.Decimal) ConvFunc {
	return func(v decimal.Decimal) decimal.Decimal { return v.Mul(num).Div(den) }
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func fahrenheitToCelsius(v decimal.Decimal) decimal.Decimal {
	return v.Sub(dec(32)).Mul(dec(5)).Div(dec(9))
}

func celsiusToFahrenheit(v decimal.Decimal) decimal.Decimal {
	return v.Mul(dec(9)).Div(dec(5)).Add(dec(32))
}

// StandardUnits returns the unit table of a weather station. Every unit lists a direct
// conversion into every other unit of its category.
func StandardUnits() []Definition {
	return []Definition{
		// Pressure
		{
			Abbr: "inHg", Description: "inches of Mercury", Category: CategoryPressure, Precision: 2,
			Conversions: map[string]ConvFunc{
				"mbar": mul(hPaPerInHg),
				"hPa":  mul(hPaPerInHg),
			},
		},
		{
			Abbr: "mbar", Description: "millibars", Category: CategoryPressure, Precision: 1,
			Conversions: map[string]ConvFunc{
				"inHg": div(hPaPerInHg),
				"hPa":  mul(dec(1)),
			},
		},
		{
			Abbr: "hPa", Description: "hectopascals", Category: CategoryPressure, Precision: 1,
			Conversions: map[string]ConvFunc{
				"inHg": div(hPaPerInHg),
				"mbar": mul(dec(1)),
			},
		},

		// Temperature
		{
			Abbr: "C", Description: "degrees Celsius", Category: CategoryTemperature, Precision: 1,
			Conversions: map[string]ConvFunc{
				"F": celsiusToFahrenheit,
				"K": func(v decimal.Decimal) decimal.Decimal { return v.Add(kelvinZero) },
			},
		},
		{
			Abbr: "F", Description: "degrees Fahrenheit", Category: CategoryTemperature, Precision: 1,
			Conversions: map[string]ConvFunc{
				"C": fahrenheitToCelsius,
				"K": func(v decimal.Decimal) decimal.Decimal { return fahrenheitToCelsius(v).Add(kelvinZero) },
			},
		},
		{
			Abbr: "K", Description: "kelvin", Category: CategoryTemperature, Precision: 1,
			Conversions: map[string]ConvFunc{
				"C": func(v decimal.Decimal) decimal.Decimal { return v.Sub(kelvinZero) },
				"F": func(v decimal.Decimal) decimal.Decimal { return celsiusToFahrenheit(v.Sub(kelvinZero)) },
			},
		},

		// Distance, used for rainfall and snow depth
		{
			Abbr: "in", Description: "inches", Category: CategoryDistance, Precision: 2,
			Conversions: map[string]ConvFunc{
				"ft": div(dec(12)),
				"cm": mul(cmPerInch),
				"mm": mul(mmPerInch),
				"m":  mul(mPerInch),
			},
		},
		{
			Abbr: "ft", Description: "feet", Category: CategoryDistance, Precision: 2,
			Conversions: map[string]ConvFunc{
				"in": mul(dec(12)),
				"cm": mul(cmPerFoot),
				"mm": mul(mmPerFoot),
				"m":  mul(mPerFoot),
			},
		},
		{
			Abbr: "cm", Description: "centimetres", Category: CategoryDistance, Precision: 1,
			Conversions: map[string]ConvFunc{
				"in": div(cmPerInch),
				"ft": div(cmPerFoot),
				"mm": mul(dec(10)),
				"m":  div(dec(100)),
			},
		},
		{
			Abbr: "mm", Description: "millimetres", Category: CategoryDistance, Precision: 1,
			Conversions: map[string]ConvFunc{
				"in": div(mmPerInch),
				"ft": div(mmPerFoot),
				"cm": div(dec(10)),
				"m":  div(dec(1000)),
			},
		},
		{
			Abbr: "m", Description: "metres", Category: CategoryDistance, Precision: 2,
			Conversions: map[string]ConvFunc{
				"in": div(mPerInch),
				"ft": div(mPerFoot),
				"cm": mul(dec(100)),
				"mm": mul(dec(1000)),
			},
		},

		// Speed
		{
			Abbr: "mph", Description: "miles per hour", Category: CategorySpeed, Precision: 1,
			Conversions: map[string]ConvFunc{
				"kph": mul(kphPerMph),
				"mps": mul(mpsPerMph),
				"kn":  ratio(kphPerMph, kphPerKnot),
			},
		},
		{
			Abbr: "kph", Description: "kilometres per hour", Category: CategorySpeed, Precision: 1,
			Conversions: map[string]ConvFunc{
				"mph": div(kphPerMph),
				"mps": div(kphPerMps),
				"kn":  div(kphPerKnot),
			},
		},
		{
			Abbr: "mps", Description: "metres per second", Category: CategorySpeed, Precision: 1,
			Conversions: map[string]ConvFunc{
				"mph": div(mpsPerMph),
				"kph": mul(kphPerMps),
				"kn":  ratio(kphPerMps, kphPerKnot),
			},
		},
		{
			Abbr: "kn", Description: "knots", Category: CategorySpeed, Precision: 1,
			Conversions: map[string]ConvFunc{
				"mph": ratio(kphPerKnot, kphPerMph),
				"kph": mul(kphPerKnot),
				"mps": ratio(kphPerKnot, kphPerMps),
			},
		},

		// Single unit categories
		{Abbr: "%", Description: "percent relative humidity", Category: CategoryHumidity},
		{Abbr: "deg", Description: "degrees from north", Category: CategoryDirection},
	}
}
