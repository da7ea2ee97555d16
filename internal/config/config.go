// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Xuanwo/go-locale"
	"github.com/kkyr/fig"
	"golang.org/x/text/language"

	"github.com/zathras777/wxconnector/internal/accumulator"
)

const configEnv = "WXCONNECTOR"

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial
	Units  string `fig:"units" default:"metric"`
	Locale string `fig:"locale"`
	// Allowed values: json, text
	Output   string     `fig:"output" default:"json"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	// Measurement kinds that statistics are kept for. A kind can be listed in either
	// average or rms, not both.
	Tracking struct {
		HiLo    []string `fig:"hilo" default:"[barometer,temperature,humidity,wind_speed,wind_gust,rain_rate]"`
		Average []string `fig:"average" default:"[barometer,temperature,humidity]"`
		RMS     []string `fig:"rms" default:"[wind_speed]"`
	} `fig:"tracking"`

	Intervals struct {
		Report time.Duration `fig:"report" default:"1m"`
	} `fig:"intervals"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if c.Units != "metric" && c.Units != "imperial" {
		return fmt.Errorf("invalid units: %s", c.Units)
	}
	if c.Output != "json" && c.Output != "text" {
		return fmt.Errorf("invalid output format: %s", c.Output)
	}
	if c.Locale == "" {
		c.Locale = detectLocale().String()
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	if c.Intervals.Report <= 0 {
		return fmt.Errorf("invalid report interval: %s", c.Intervals.Report)
	}
	for _, kinds := range [][]string{c.Tracking.HiLo, c.Tracking.Average, c.Tracking.RMS} {
		for _, kind := range kinds {
			if kind == "" {
				return fmt.Errorf("invalid tracked kind: empty name")
			}
		}
	}
	if _, err := accumulator.New(c.TrackingConfig()); err != nil {
		return fmt.Errorf("invalid tracking: %w", err)
	}

	return nil
}

// TrackingConfig returns the tracked kinds for the statistics accumulator.
func (c *Config) TrackingConfig() accumulator.Tracking {
	return accumulator.Tracking{
		HiLo:    c.Tracking.HiLo,
		Average: c.Tracking.Average,
		RMS:     c.Tracking.RMS,
	}
}

func detectLocale() language.Tag {
	tag, err := locale.Detect()
	if err != nil {
		return language.English
	}
	return tag
}
