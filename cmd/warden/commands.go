// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codewarden/config"
	"github.com/AleutianAI/codewarden/enforcer"
	"github.com/AleutianAI/codewarden/pkg/logging"
	"github.com/AleutianAI/codewarden/pkg/ux"
	"github.com/AleutianAI/codewarden/telemetry"
)

// --- Shared Runtime State ---
var (
	appConfig *config.Config
	app       *enforcer.Enforcer
	logger    *logging.Logger

	// telemetryShutdown flushes exporters. Long-running commands call
	// it before exiting.
	telemetryShutdown func(context.Context) error
)

// --- Global Command Variables ---
var (
	cfgPath          string
	jsonOutput       bool
	compactOutput    bool
	quietOutput      bool
	noColor          bool
	personalityLevel string // UX personality level (full/standard/minimal/machine)
	verbose          bool
	logDir           string
	metricsAddr      string

	rootCmd = &cobra.Command{
		Use:   "warden",
		Short: "A multi-language code quality checker",
		Long: `Warden checks source code for quality, style, and security
problems across Python, JavaScript, TypeScript, Go, and more. It
combines built-in analyzers with any external linters and formatters
found on your PATH.`,
		PersistentPreRun: initRuntime,
	}

	// --- Checking ---
	checkCmd = &cobra.Command{
		Use:   "check [path...]",
		Short: "Run quality checks on files or directories",
		Long: `Run the full quality pipeline: syntax validation, built-in
analyzer rules, general checks, and any available external tools.

Examples:
  warden check app.py
  warden check ./src --fast
  warden check . --exclude "vendor/**,*_test.go" --json
  cat app.py | warden check -

Exit Codes:
  0 = No findings at/above the fail-on severity
  1 = Findings at/above the fail-on severity
  2 = Error (invalid path, read failure)`,
		Run: runCheck, // Defined in cmd_check.go
	}

	syntaxCmd = &cobra.Command{
		Use:   "syntax [path]",
		Short: "Validate the syntax of a single file",
		Args:  cobra.ExactArgs(1),
		Run:   runSyntax, // Defined in cmd_syntax.go
	}

	// --- Rewriting ---
	fixCmd = &cobra.Command{
		Use:   "fix [path...]",
		Short: "Apply automatic fixes for fixable findings",
		Long: `Apply analyzer auto-fixes to the given files. Without --write
the fixed content of a single file is printed to stdout. With
--interactive each file's fixes are confirmed before writing.`,
		Args: cobra.MinimumNArgs(1),
		Run:  runFix, // Defined in cmd_fix.go
	}

	fmtCmd = &cobra.Command{
		Use:   "fmt [path...]",
		Short: "Format files to the configured standards",
		Long: `Format files with the language's external formatter when one is
installed, falling back to built-in normalization. Without --write the
formatted content of a single file is printed to stdout.`,
		Args: cobra.MinimumNArgs(1),
		Run:  runFmt, // Defined in cmd_fmt.go
	}

	// --- Inspection ---
	statsCmd = &cobra.Command{
		Use:   "stats [path]",
		Short: "Show code complexity metrics for a file",
		Args:  cobra.ExactArgs(1),
		Run:   runStats, // Defined in cmd_stats.go
	}

	suggestCmd = &cobra.Command{
		Use:   "suggest [path]",
		Short: "Suggest improvements for a file",
		Args:  cobra.ExactArgs(1),
		Run:   runSuggest, // Defined in cmd_suggest.go
	}

	toolsCmd = &cobra.Command{
		Use:   "tools",
		Short: "List external tools and their availability",
		Run:   runTools, // Defined in cmd_info.go
	}

	languagesCmd = &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Run:   runLanguages, // Defined in cmd_info.go
	}

	// --- Watch ---
	watchCmd = &cobra.Command{
		Use:   "watch [path]",
		Short: "Watch a directory and re-check files on change",
		Args:  cobra.MaximumNArgs(1),
		Run:   runWatch, // Defined in cmd_watch.go
	}

	// --- Patch ---
	patchCmd = &cobra.Command{
		Use:   "patch",
		Short: "Work with unified diffs",
	}
	patchValidateCmd = &cobra.Command{
		Use:   "validate [patch-file]",
		Short: "Validate a unified diff before applying it",
		Long: `Apply a unified diff in memory and check that every touched file
still parses and that the patch introduces no new blocking findings.

Exit Codes:
  0 = Patch is valid
  1 = Patch is invalid
  2 = Error (unreadable patch, invalid root)`,
		Args: cobra.ExactArgs(1),
		Run:  runPatchValidate, // Defined in cmd_patch.go
	}
)

// initRuntime prepares shared state before any command runs: UX
// personality, logging, quality configuration, the enforcer, and
// telemetry.
func initRuntime(cmd *cobra.Command, args []string) {
	// Initialize UX personality from flag or environment
	if personalityLevel != "" {
		ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
	} else {
		ux.InitPersonality()
	}
	if noColor {
		ux.SetColorEnabled(false)
	}

	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  logDir,
		Service: "warden",
		Quiet:   quietOutput && !verbose,
	})
	slog.SetDefault(logger.Slog())

	path := cfgPath
	if path == "" {
		path = os.Getenv("WARDEN_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat(".warden.conf"); err == nil {
			path = ".warden.conf"
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			OutputError(jsonOutput, "Cannot load config", err)
			os.Exit(CLIExitError)
		}
		appConfig = loaded
		logger.Debug("configuration loaded", "path", path)
	} else {
		appConfig = config.Default()
	}

	app = enforcer.New(appConfig)

	tcfg := telemetry.DefaultConfig()
	if metricsAddr != "" {
		tcfg.MetricExporter = "prometheus"
	}
	shutdown, err := telemetry.Init(context.Background(), tcfg)
	if err != nil {
		logger.Warn("telemetry init failed", "error", err)
	} else {
		telemetryShutdown = shutdown
		if metricsAddr != "" {
			go serveMetrics(metricsAddr)
		}
	}
}

// serveMetrics exposes the Prometheus endpoint for long-running
// commands such as watch.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.MetricsHandler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("metrics server stopped", slog.String("error", err.Error()))
	}
}

// init runs when the Go program starts
func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a quality config file (default: $WARDEN_CONFIG, then ./.warden.conf)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&compactOutput, "compact", false,
		"Compact JSON output (no indentation)")
	rootCmd.PersistentFlags().BoolVarP(&quietOutput, "quiet", "q", false,
		"No output, exit code only")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"Output style: full, standard, minimal, or machine (scripting)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "",
		"Directory for JSON log files (e.g. ~/.warden/logs)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "",
		"Serve Prometheus metrics on this address (e.g. :9090)")

	// check
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkFast, "fast", false,
		"Skip external tools, run built-in checks only")
	checkCmd.Flags().BoolVar(&checkRecursive, "recursive", true,
		"Scan subdirectories recursively")
	checkCmd.Flags().StringSliceVar(&checkInclude, "include", nil,
		"Only scan files matching these patterns (e.g., '*.go,*.py')")
	checkCmd.Flags().StringSliceVar(&checkExclude, "exclude", nil,
		"Skip files/directories matching these patterns")
	checkCmd.Flags().Int64Var(&checkMaxFileSize, "max-file-size", DefaultMaxFileSize,
		"Skip files larger than this size in bytes")
	checkCmd.Flags().StringVar(&checkFailOn, "fail-on", "error",
		"Minimum severity for non-zero exit: critical, error, warning, info")
	checkCmd.Flags().StringVar(&checkLang, "lang", "",
		"Force a language instead of detecting it")
	checkCmd.Flags().IntVar(&checkWorkers, "workers", DefaultWorkers,
		"Number of parallel workers (0 = 2 * NumCPU)")

	// syntax
	rootCmd.AddCommand(syntaxCmd)
	syntaxCmd.Flags().StringVar(&syntaxLang, "lang", "",
		"Force a language instead of detecting it")

	// fix
	rootCmd.AddCommand(fixCmd)
	fixCmd.Flags().BoolVarP(&fixWrite, "write", "w", false,
		"Write fixed content back to the files")
	fixCmd.Flags().BoolVarP(&fixInteractive, "interactive", "i", false,
		"Confirm each file's fixes before writing (implies --write)")
	fixCmd.Flags().StringVar(&fixLang, "lang", "",
		"Force a language instead of detecting it")

	// fmt
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false,
		"Write formatted content back to the files")
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false,
		"Exit 1 if any file is not formatted, without writing")
	fmtCmd.Flags().StringVar(&fmtLang, "lang", "",
		"Force a language instead of detecting it")

	// stats
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsLang, "lang", "",
		"Force a language instead of detecting it")
	statsCmd.Flags().BoolVar(&statsFunctions, "functions", false,
		"Include per-function metrics in text output")

	// suggest
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().StringVar(&suggestLang, "lang", "",
		"Force a language instead of detecting it")

	// tools and languages
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(languagesCmd)

	// watch
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchFast, "fast", true,
		"Skip external tools on re-checks")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond,
		"How long to wait for more changes before re-checking")
	watchCmd.Flags().StringSliceVar(&watchExclude, "exclude", nil,
		"Skip files/directories matching these patterns")

	// patch
	rootCmd.AddCommand(patchCmd)
	patchCmd.AddCommand(patchValidateCmd)
	patchValidateCmd.Flags().StringVar(&patchAgainst, "against", ".",
		"Root directory holding the files the patch modifies")
	patchValidateCmd.Flags().IntVar(&patchMaxLines, "max-lines", 0,
		"Reject patches larger than this many changed lines (0 = default limit)")
}
