// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AleutianAI/codewarden/config"
	"github.com/AleutianAI/codewarden/lang"
)

// Kind separates tools that report issues from tools that rewrite code.
type Kind int

const (
	KindLinter Kind = iota
	KindFormatter
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindFormatter {
		return "formatter"
	}
	return "linter"
}

// ToolConfig describes one external tool.
//
// Thread Safety: Treat as immutable; Registry hands out clones.
type ToolConfig struct {
	// Name is the executable name, also the registry key.
	Name string

	// Language is the language the tool handles. TypeScript is served by
	// the JavaScript tools.
	Language lang.Language

	// Kind is linter or formatter.
	Kind Kind

	// Section and EnableOption locate the config switch that turns the
	// tool on or off (e.g., "python", "enable_flake8").
	Section      string
	EnableOption string

	// Args are the base command arguments. For file-based tools the
	// target path is appended by the Runner.
	Args []string

	// ConfigArgs derives extra arguments from quality settings so the
	// external tool agrees with the built-in rules. May be nil.
	ConfigArgs func(cfg *config.Config) []string

	// SupportsStdin marks tools fed source on stdin instead of a file.
	SupportsStdin bool

	// Timeout is the hard per-run ceiling.
	Timeout time.Duration
}

// Clone returns a deep copy safe to mutate.
func (tc *ToolConfig) Clone() *ToolConfig {
	if tc == nil {
		return nil
	}
	out := *tc
	out.Args = append([]string(nil), tc.Args...)
	return &out
}

// Enabled reports whether quality settings turn this tool on.
func (tc *ToolConfig) Enabled(cfg *config.Config) bool {
	if tc.Section == "" || tc.EnableOption == "" {
		return true
	}
	return cfg.GetBool(tc.Section, tc.EnableOption, true)
}

// =============================================================================
// DEFAULT TOOL CONFIGS
// =============================================================================

// DefaultFlake8 runs the standard Python style checker in its default
// text format.
var DefaultFlake8 = ToolConfig{
	Name:         "flake8",
	Language:     lang.Python,
	Kind:         KindLinter,
	Section:      "python",
	EnableOption: "enable_flake8",
	ConfigArgs: func(cfg *config.Config) []string {
		return []string{fmt.Sprintf("--max-line-length=%d", cfg.GetInt("python", "max_line_length", 88))}
	},
	Timeout: 10 * time.Second,
}

// DefaultMypy type-checks Python. Summary and color are off so stdout
// carries only diagnostics.
var DefaultMypy = ToolConfig{
	Name:         "mypy",
	Language:     lang.Python,
	Kind:         KindLinter,
	Section:      "python",
	EnableOption: "enable_mypy",
	Args: []string{
		"--no-color-output",
		"--no-error-summary",
		"--show-error-codes",
	},
	Timeout: 30 * time.Second,
}

// DefaultPylint pins a message template so the output parses without a
// plugin, and disables the score banner.
var DefaultPylint = ToolConfig{
	Name:         "pylint",
	Language:     lang.Python,
	Kind:         KindLinter,
	Section:      "python",
	EnableOption: "enable_pylint",
	Args: []string{
		"--msg-template={msg_id},{line},{column}: {msg}",
		"--reports=n",
		"--score=n",
		"--persistent=n",
	},
	Timeout: 30 * time.Second,
}

// DefaultBandit scans Python for security issues, JSON output.
var DefaultBandit = ToolConfig{
	Name:         "bandit",
	Language:     lang.Python,
	Kind:         KindLinter,
	Section:      "python",
	EnableOption: "enable_bandit",
	Args:         []string{"-f", "json", "-q"},
	Timeout:      10 * time.Second,
}

// DefaultBlack formats Python via stdin ("-").
var DefaultBlack = ToolConfig{
	Name:          "black",
	Language:      lang.Python,
	Kind:          KindFormatter,
	Section:       "python",
	EnableOption:  "enable_black",
	Args:          []string{"-", "--quiet"},
	SupportsStdin: true,
	ConfigArgs: func(cfg *config.Config) []string {
		return []string{fmt.Sprintf("--line-length=%d", cfg.GetInt("python", "max_line_length", 88))}
	},
	Timeout: 10 * time.Second,
}

// DefaultESLint lints JavaScript and TypeScript, JSON output.
var DefaultESLint = ToolConfig{
	Name:         "eslint",
	Language:     lang.JavaScript,
	Kind:         KindLinter,
	Section:      "javascript",
	EnableOption: "enable_eslint",
	Args: []string{
		"--format=json",
		"--no-error-on-unmatched-pattern",
	},
	Timeout: 30 * time.Second,
}

// DefaultPrettier formats JavaScript and TypeScript via stdin. The
// filepath hint picks the TypeScript parser, a superset of JavaScript.
var DefaultPrettier = ToolConfig{
	Name:          "prettier",
	Language:      lang.JavaScript,
	Kind:          KindFormatter,
	Section:       "javascript",
	EnableOption:  "enable_prettier",
	Args:          []string{"--stdin-filepath", "code.ts"},
	SupportsStdin: true,
	Timeout:       10 * time.Second,
}

// =============================================================================
// TOOL REGISTRY
// =============================================================================

// Registry manages tool configurations by name.
//
// Thread Safety: Safe for concurrent use after initialization.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*ToolConfig
}

// NewRegistry creates a registry with the default tools.
func NewRegistry() *Registry {
	r := &Registry{tools: make(map[string]*ToolConfig)}
	r.Register(&DefaultFlake8)
	r.Register(&DefaultMypy)
	r.Register(&DefaultPylint)
	r.Register(&DefaultBandit)
	r.Register(&DefaultBlack)
	r.Register(&DefaultESLint)
	r.Register(&DefaultPrettier)
	return r
}

// Register adds or updates a tool configuration.
func (r *Registry) Register(tc *ToolConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tc.Name] = tc.Clone()
}

// Get returns a clone of the configuration, or nil if unknown.
func (r *Registry) Get(name string) *ToolConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name].Clone()
}

// ForLanguage returns the tools of the given kind serving language l,
// sorted by name. TypeScript maps onto the JavaScript tools.
func (r *Registry) ForLanguage(l lang.Language, kind Kind) []*ToolConfig {
	if l == lang.TypeScript {
		l = lang.JavaScript
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*ToolConfig
	for _, tc := range r.tools {
		if tc.Language == l && tc.Kind == kind {
			out = append(out, tc.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
