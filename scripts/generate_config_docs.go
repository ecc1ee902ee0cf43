// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// generate_config_docs generates a markdown reference for the effective
// quality profile: every section and option the engine reads, its value,
// its compiled-in default, and what it controls.
//
// Usage:
//
//	go run scripts/generate_config_docs.go > docs/configuration.md
//	go run scripts/generate_config_docs.go .warden.conf > docs/configuration.md
//
// With no argument the compiled-in defaults are documented. With an override
// file the effective (merged, clamped) profile is documented and overridden
// options are flagged.
//
// The generated documentation includes:
//   - Full option inventory grouped by section
//   - Effective value vs compiled-in default
//   - Summary statistics (sections, options, enabled external tools)
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/AleutianAI/codewarden/config"
)

// sectionOrder lists the known sections in documentation order. Sections an
// override file adds beyond these are appended alphabetically.
var sectionOrder = []string{"python", "javascript", "general", "ui"}

var sectionDescs = map[string]string{
	"python":     "Thresholds and tool switches for Python analysis. The built-in analyzer reads the thresholds; the enable_* flags gate external linters.",
	"javascript": "Thresholds and tool switches for JavaScript and TypeScript analysis. Both languages share this section.",
	"general":    "Language-independent checks that run for every file regardless of detected language.",
	"ui":         "Presentation settings carried for consuming frontends. The engine stores these verbatim and never interprets them.",
}

var optionDescs = map[string]string{
	"python.max_line_length":                 "Maximum line length before E501 is reported (column = limit + 1).",
	"python.enable_flake8":                   "Run flake8 when installed and not in fast mode.",
	"python.enable_mypy":                     "Run mypy when installed and not in fast mode.",
	"python.enable_black":                    "Use black as the formatter when installed; otherwise builtin normalization applies.",
	"python.enable_bandit":                   "Run bandit when installed and not in fast mode.",
	"python.enable_pylint":                   "Run pylint when installed and not in fast mode.",
	"python.cyclomatic_complexity_threshold": "Functions above this cyclomatic complexity are reported.",
	"python.max_function_length":             "Functions longer than this many lines are reported (B104).",
	"python.enforce_docstrings":              "Report public functions without docstrings (B101).",
	"python.enforce_type_hints":              "Report function parameters without type annotations (B102).",
	"javascript.max_line_length":             "Maximum line length before E501 is reported.",
	"javascript.enable_eslint":               "Run eslint when installed and not in fast mode.",
	"javascript.enable_prettier":             "Use prettier as the formatter when installed.",
	"javascript.enforce_jsdoc":               "Report exported functions without a doc comment (B204).",
	"general.max_file_size_kb":               "Files larger than this are flagged with G001.",
	"general.banned_functions":               "Comma-separated call names reported wherever they appear (G002).",
	"general.enforce_error_handling":         "Enable the error-handling practice rules.",
	"general.security_scan":                  "Enable the security rule stage.",
	"ui.theme":                               "Color theme hint for frontends.",
	"ui.font_size":                           "Font size hint for frontends.",
	"ui.show_line_numbers":                   "Line number display hint for frontends.",
}

func main() {
	source := "compiled-in defaults"
	cfg := config.Default()
	if len(os.Args) > 1 {
		path := os.Args[1]
		loaded, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", path, err)
			os.Exit(1)
		}
		cfg = loaded
		source = path
	}

	generateMarkdown(cfg, config.Default(), source)
}

// orderedSections returns the configured sections with the known ones first.
func orderedSections(cfg *config.Config) []string {
	known := make(map[string]bool, len(sectionOrder))
	var result []string
	for _, s := range sectionOrder {
		known[s] = true
		if len(cfg.Options(s)) > 0 {
			result = append(result, s)
		}
	}
	var extra []string
	for _, s := range cfg.Sections() {
		if !known[s] {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	return append(result, extra...)
}

// generateMarkdown outputs the full markdown documentation.
func generateMarkdown(cfg, defaults *config.Config, source string) {
	sections := orderedSections(cfg)

	fmt.Println("# Configuration Reference")
	fmt.Println()
	fmt.Println("## Overview")
	fmt.Println()
	fmt.Println("This document lists every option the quality engine reads. Defaults ship")
	fmt.Println("embedded in the binary (`config/defaults.yaml`); a user file merges over them")
	fmt.Println("per option, so setting one option leaves the rest of its section untouched.")
	fmt.Println()
	fmt.Printf("**Source:** %s\n", source)
	fmt.Println()
	fmt.Printf("**Generated:** %s\n", time.Now().UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Println()

	// Statistics
	totalOptions := 0
	overridden := 0
	toolsEnabled := 0
	for _, section := range sections {
		opts := cfg.Options(section)
		totalOptions += len(opts)
		def := defaults.Options(section)
		for option, value := range opts {
			if dv, ok := def[option]; !ok || dv != value {
				overridden++
			}
			if strings.HasPrefix(option, "enable_") && cfg.GetBool(section, option, false) {
				toolsEnabled++
			}
		}
	}

	fmt.Println("## Summary Statistics")
	fmt.Println()
	fmt.Println("| Metric | Count |")
	fmt.Println("|--------|-------|")
	fmt.Printf("| Sections | %d |\n", len(sections))
	fmt.Printf("| Options | %d |\n", totalOptions)
	fmt.Printf("| Options changed from default | %d |\n", overridden)
	fmt.Printf("| External tools enabled | %d |\n", toolsEnabled)
	fmt.Println()

	// Table of contents
	fmt.Println("## Table of Contents")
	fmt.Println()
	for i, section := range sections {
		fmt.Printf("%d. [%s](#%s)\n", i+1, section, strings.ToLower(section))
	}
	fmt.Println()

	// Quick reference table (all options)
	fmt.Println("---")
	fmt.Println()
	fmt.Println("## Quick Reference")
	fmt.Println()
	fmt.Println("| Option | Value | Default | Changed |")
	fmt.Println("|--------|-------|---------|---------|")
	for _, section := range sections {
		def := defaults.Options(section)
		for _, option := range sortedOptions(cfg.Options(section)) {
			value := cfg.Options(section)[option]
			defValue, hasDefault := def[option]
			changed := "No"
			if !hasDefault || defValue != value {
				changed = "Yes"
			}
			if !hasDefault {
				defValue = "(none)"
			}
			fmt.Printf("| `%s.%s` | `%s` | `%s` | %s |\n", section, option, value, defValue, changed)
		}
	}
	fmt.Println()

	// Detailed sections
	fmt.Println("---")
	fmt.Println()
	for _, section := range sections {
		fmt.Printf("## %s\n", section)
		fmt.Println()
		if desc := sectionDescs[section]; desc != "" {
			fmt.Println(desc)
			fmt.Println()
		}

		fmt.Println("| Option | Value | Description |")
		fmt.Println("|--------|-------|-------------|")
		opts := cfg.Options(section)
		for _, option := range sortedOptions(opts) {
			desc := optionDescs[section+"."+option]
			if desc == "" {
				desc = "Carried verbatim; not read by the engine."
			}
			fmt.Printf("| `%s` | `%s` | %s |\n", option, opts[option], desc)
		}
		fmt.Println()
	}

	// Footer
	fmt.Println("---")
	fmt.Println()
	fmt.Println("*This document is auto-generated from the effective configuration.*")
	fmt.Println()
	fmt.Println("*To regenerate: `go run scripts/generate_config_docs.go > docs/configuration.md`*")
}

// sortedOptions returns the option names of a section in stable order.
func sortedOptions(opts map[string]string) []string {
	names := make([]string, 0, len(opts))
	for name := range opts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
