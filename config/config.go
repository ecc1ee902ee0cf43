// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config provides the quality configuration table.
//
// Configuration is a two-level (section, option) → value table seeded from
// an embedded YAML document and optionally overridden per-option by a user
// file. Accessors never fail: a missing or malformed value resolves to the
// compiled-in default, then to the caller-supplied fallback.
//
// Thread Safety:
//
//	A Config is immutable after Load and safe for concurrent readers.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gopkg.in/yaml.v3"
)

// MaxYAMLFileSize is the maximum allowed override file size (1MB).
// Prevents memory issues from oversized or hostile files.
const MaxYAMLFileSize = 1024 * 1024

//go:embed defaults.yaml
var defaultsYAML []byte

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	configLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warden_config_load_errors_total",
		Help: "Total configuration override load errors",
	})

	configLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "warden_config_load_duration_seconds",
		Help:    "Duration of configuration loading",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1},
	})

	configFallbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_config_fallbacks_total",
		Help: "Total accessor fallbacks to defaults by section",
	}, []string{"section"})
)

// =============================================================================
// Config
// =============================================================================

// Config is the immutable (section, option) → value table.
//
// values holds the merged view (defaults + overrides); defaults holds the
// compiled-in table alone so malformed overrides can still resolve to the
// shipped value at read time.
type Config struct {
	values   map[string]map[string]string
	defaults map[string]map[string]string
}

// rangeValidator checks numeric thresholds after merge. Out-of-range options
// are reset to their compiled defaults rather than rejected.
var rangeValidator = validator.New()

// thresholds mirrors the numeric options that have sane bounds.
type thresholds struct {
	PythonMaxLineLength       int `validate:"gte=1,lte=1000"`
	PythonComplexityThreshold int `validate:"gte=1,lte=100"`
	PythonMaxFunctionLength   int `validate:"gte=1,lte=10000"`
	JavascriptMaxLineLength   int `validate:"gte=1,lte=1000"`
	GeneralMaxFileSizeKB      int `validate:"gte=1,lte=1048576"`
	UIFontSize                int `validate:"gte=6,lte=72"`
}

// thresholdFields maps threshold struct fields to their table location.
var thresholdFields = map[string][2]string{
	"PythonMaxLineLength":       {"python", "max_line_length"},
	"PythonComplexityThreshold": {"python", "cyclomatic_complexity_threshold"},
	"PythonMaxFunctionLength":   {"python", "max_function_length"},
	"JavascriptMaxLineLength":   {"javascript", "max_line_length"},
	"GeneralMaxFileSizeKB":      {"general", "max_file_size_kb"},
	"UIFontSize":                {"ui", "font_size"},
}

// Default returns a Config holding only the compiled-in defaults.
//
// The embedded document is trusted; a decode failure here is a build
// defect and panics at init time rather than surfacing downstream.
func Default() *Config {
	defaults, err := decodeTable(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return &Config{
		values:   cloneTable(defaults),
		defaults: defaults,
	}
}

// Load builds a Config from the defaults merged with an optional override
// file.
//
// Description:
//
//	Reads the file at path (when non-empty), decodes it as a two-level
//	YAML table, and merges it per-option over the defaults. Problems with
//	the file (missing, oversized, unparseable) are reported through the
//	returned error, but the returned Config is always usable; in the
//	worst case it is exactly Default(). Out-of-range numeric options are reset to
//	their compiled defaults and logged.
//
// Inputs:
//
//	path - Override file path; "" means defaults only
//
// Outputs:
//
//	*Config - Never nil
//	error   - Non-nil when the override file could not be applied
func Load(path string) (*Config, error) {
	start := time.Now()
	defer func() {
		configLoadDuration.Observe(time.Since(start).Seconds())
	}()

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		configLoadErrors.Inc()
		return cfg, fmt.Errorf("config: stat override %s: %w", path, err)
	}
	if info.Size() > MaxYAMLFileSize {
		configLoadErrors.Inc()
		return cfg, fmt.Errorf("config: override %s exceeds %d bytes", path, MaxYAMLFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		configLoadErrors.Inc()
		return cfg, fmt.Errorf("config: read override %s: %w", path, err)
	}

	if err := cfg.applyOverrides(data); err != nil {
		configLoadErrors.Inc()
		return cfg, fmt.Errorf("config: apply override %s: %w", path, err)
	}
	return cfg, nil
}

// LoadBytes builds a Config from the defaults merged with raw override YAML.
// The returned Config is always usable even when err is non-nil.
func LoadBytes(data []byte) (*Config, error) {
	cfg := Default()
	if len(data) == 0 {
		return cfg, nil
	}
	if err := cfg.applyOverrides(data); err != nil {
		configLoadErrors.Inc()
		return cfg, fmt.Errorf("config: apply override: %w", err)
	}
	return cfg, nil
}

// applyOverrides merges an override document into the table, then clamps
// numeric thresholds back to defaults where they fail validation.
func (c *Config) applyOverrides(data []byte) error {
	overrides, err := decodeTable(data)
	if err != nil {
		return err
	}

	for section, options := range overrides {
		if _, ok := c.values[section]; !ok {
			c.values[section] = make(map[string]string, len(options))
		}
		for option, value := range options {
			c.values[section][option] = value
		}
	}

	c.clampThresholds()
	return nil
}

// clampThresholds resets out-of-range numeric options to compiled defaults.
func (c *Config) clampThresholds() {
	t := thresholds{
		PythonMaxLineLength:       c.GetInt("python", "max_line_length", 88),
		PythonComplexityThreshold: c.GetInt("python", "cyclomatic_complexity_threshold", 10),
		PythonMaxFunctionLength:   c.GetInt("python", "max_function_length", 50),
		JavascriptMaxLineLength:   c.GetInt("javascript", "max_line_length", 80),
		GeneralMaxFileSizeKB:      c.GetInt("general", "max_file_size_kb", 1000),
		UIFontSize:                c.GetInt("ui", "font_size", 12),
	}

	err := rangeValidator.Struct(t)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		slog.Warn("config threshold validation failed", slog.String("error", err.Error()))
		return
	}
	for _, fe := range verrs {
		loc, ok := thresholdFields[fe.StructField()]
		if !ok {
			continue
		}
		section, option := loc[0], loc[1]
		def := c.defaults[section][option]
		slog.Warn("config option out of range, using default",
			slog.String("section", section),
			slog.String("option", option),
			slog.String("rejected", c.values[section][option]),
			slog.String("default", def))
		c.values[section][option] = def
	}
}

// =============================================================================
// Accessors
// =============================================================================

// GetString returns the string value for (section, option).
// Resolution order: merged table → compiled default → fallback.
func (c *Config) GetString(section, option, fallback string) string {
	if v, ok := c.lookup(section, option); ok {
		return v
	}
	configFallbackTotal.WithLabelValues(section).Inc()
	return fallback
}

// GetInt returns the integer value for (section, option).
//
// A present but non-numeric value falls back to the compiled default for
// that option before the caller fallback. Never panics.
func (c *Config) GetInt(section, option string, fallback int) int {
	if v, ok := c.lookup(section, option); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		if d, ok := c.lookupDefault(section, option); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(d)); err == nil {
				configFallbackTotal.WithLabelValues(section).Inc()
				return n
			}
		}
	}
	configFallbackTotal.WithLabelValues(section).Inc()
	return fallback
}

// GetBool returns the boolean value for (section, option).
// Accepts the strconv.ParseBool forms plus yes/no and on/off.
func (c *Config) GetBool(section, option string, fallback bool) bool {
	if v, ok := c.lookup(section, option); ok {
		if b, ok := parseBool(v); ok {
			return b
		}
		if d, ok := c.lookupDefault(section, option); ok {
			if b, ok := parseBool(d); ok {
				configFallbackTotal.WithLabelValues(section).Inc()
				return b
			}
		}
	}
	configFallbackTotal.WithLabelValues(section).Inc()
	return fallback
}

// GetList returns the comma-separated list value for (section, option).
// Elements are trimmed; empty elements are dropped. An explicitly empty
// value yields an empty (non-nil) list, not the fallback.
func (c *Config) GetList(section, option string, fallback []string) []string {
	v, ok := c.lookup(section, option)
	if !ok {
		configFallbackTotal.WithLabelValues(section).Inc()
		return fallback
	}
	return splitList(v)
}

// Has reports whether (section, option) is present in the merged table.
func (c *Config) Has(section, option string) bool {
	_, ok := c.lookup(section, option)
	return ok
}

// Sections returns the section names in sorted order.
func (c *Config) Sections() []string {
	sections := make([]string, 0, len(c.values))
	for s := range c.values {
		sections = append(sections, s)
	}
	sort.Strings(sections)
	return sections
}

// Options returns a copy of a section's option table, nil if absent.
func (c *Config) Options(section string) map[string]string {
	options, ok := c.values[section]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(options))
	for k, v := range options {
		out[k] = v
	}
	return out
}

func (c *Config) lookup(section, option string) (string, bool) {
	options, ok := c.values[section]
	if !ok {
		return "", false
	}
	v, ok := options[option]
	return v, ok
}

func (c *Config) lookupDefault(section, option string) (string, bool) {
	options, ok := c.defaults[section]
	if !ok {
		return "", false
	}
	v, ok := options[option]
	return v, ok
}

// =============================================================================
// Helpers
// =============================================================================

// decodeTable parses a two-level YAML document into string values.
// Scalar types (int, bool, float) are normalized to their string forms;
// nested structures under an option are rejected.
func decodeTable(data []byte) (map[string]map[string]string, error) {
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	table := make(map[string]map[string]string, len(raw))
	for section, options := range raw {
		table[section] = make(map[string]string, len(options))
		for option, value := range options {
			s, err := scalarString(value)
			if err != nil {
				return nil, fmt.Errorf("section %q option %q: %w", section, option, err)
			}
			table[section][option] = s
		}
	}
	return table, nil
}

func scalarString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

func cloneTable(t map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(t))
	for section, options := range t {
		out[section] = make(map[string]string, len(options))
		for k, v := range options {
			out[section][k] = v
		}
	}
	return out
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "on":
		return true, true
	case "no", "off":
		return false, true
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, false
	}
	return b, true
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
