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
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/pkg/ux"
)

// Default values.
const (
	DefaultMaxFileSize = 1024 * 1024 // 1MB
	DefaultWorkers     = 0           // 0 means 2 * NumCPU
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	checkFast        bool
	checkRecursive   bool
	checkInclude     []string
	checkExclude     []string
	checkMaxFileSize int64
	checkFailOn      string
	checkLang        string
	checkWorkers     int
)

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runCheck(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	out := outputConfig()

	if checkLang != "" {
		if _, err := resolveLanguage("", "", checkLang); err != nil {
			OutputError(out.JSON, "Invalid flag", err)
			os.Exit(CLIExitError)
		}
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	// Collect files to check
	var files []string
	for _, p := range paths {
		if p == "-" {
			files = append(files, p)
			continue
		}
		info, err := appFS.Stat(p)
		if err != nil {
			OutputError(out.JSON, "Path not found", err)
			os.Exit(CLIExitError)
		}
		if info.IsDir() {
			found, err := collectFiles(p, checkRecursive, checkInclude, checkExclude)
			if err != nil {
				OutputError(out.JSON, "Failed to collect files", err)
				os.Exit(CLIExitError)
			}
			files = append(files, found...)
		} else {
			files = append(files, p)
		}
	}

	workers := checkWorkers
	if workers <= 0 {
		workers = 2 * runtime.NumCPU()
	}

	report := NewCheckReport(uuid.NewString())
	report.FastMode = checkFast
	logger.Debug("check started",
		"run_id", report.RunID, "files", len(files), "fast", checkFast)

	var spin *ux.ProgressSpinner
	if !out.Quiet && !out.JSON && len(files) > 1 {
		spin = ux.NewProgressSpinner("Checking files", len(files))
		spin.Start()
	}

	reports, skipped, warnings := checkFilesParallel(ctx, files, workers, spin)

	if spin != nil {
		spin.Stop()
	}

	report.Files = reports
	report.FilesScanned = len(reports)
	report.FilesSkipped = skipped
	report.Warnings = warnings
	for i := range reports {
		countBySeverity(report.IssueCounts, reports[i].Issues)
	}
	report.DurationMs = time.Since(start).Milliseconds()

	threshold := issue.SeverityFromString(checkFailOn)
	hasFindings := false
	for i := range reports {
		if anyAtOrAbove(reports[i].Issues, threshold) {
			hasFindings = true
			break
		}
	}

	if !out.Quiet && !out.JSON {
		outputCheckText(report)
	}

	os.Exit(OutputResult(out, "check", start, report, hasFindings, nil))
}

// checkFilesParallel runs the quality pipeline over files with a
// bounded worker pool. Per-file failures become warnings rather than
// aborting the run.
func checkFilesParallel(ctx context.Context, files []string, workers int, spin *ux.ProgressSpinner) ([]FileReport, int, []string) {
	results := make([]FileReport, len(files))
	failures := make([]error, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		i, path := i, path // Capture loop variables
		g.Go(func() error {
			results[i], failures[i] = checkFile(gCtx, path)
			if spin != nil {
				spin.Increment()
			}
			return nil // Per-file errors are non-fatal
		})
	}
	_ = g.Wait()

	reports := make([]FileReport, 0, len(files))
	var warnings []string
	skipped := 0
	for i := range results {
		if failures[i] != nil {
			skipped++
			warnings = append(warnings, fmt.Sprintf("%s: %v", files[i], failures[i]))
			continue
		}
		reports = append(reports, results[i])
	}
	return reports, skipped, warnings
}

// checkFile runs the pipeline for one file. Path "-" means stdin and
// bypasses the size gate.
func checkFile(ctx context.Context, path string) (FileReport, error) {
	if path != "-" {
		info, err := appFS.Stat(path)
		if err != nil {
			return FileReport{}, err
		}
		if info.Size() > checkMaxFileSize {
			return FileReport{}, fmt.Errorf("skipped: %d bytes exceeds max-file-size", info.Size())
		}
	}

	code, err := readSource(path)
	if err != nil {
		return FileReport{}, err
	}

	l, err := resolveLanguage(code, path, checkLang)
	if err != nil {
		return FileReport{}, err
	}

	issues := app.RunQualityChecks(ctx, code, l, checkFast)
	return FileReport{
		Path:     path,
		Language: l.String(),
		Valid:    !hasBlocking(issues),
		Issues:   issues,
	}, nil
}

// =============================================================================
// FILE COLLECTION
// =============================================================================

// collectFiles walks root and returns the checkable files under it.
// Hidden directories, common vendor trees, and binary files are
// skipped.
func collectFiles(root string, recursive bool, includes, excludes []string) ([]string, error) {
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Continue on error
		}

		if info.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			if isDefaultIgnoredDir(filepath.Base(path)) && path != root {
				return filepath.SkipDir
			}
			if matchesPatterns(path, excludes) {
				return filepath.SkipDir
			}
			return nil
		}

		if matchesPatterns(path, excludes) {
			return nil
		}
		if len(includes) > 0 && !matchesPatterns(path, includes) {
			return nil
		}
		if isBinaryFile(path) {
			return nil
		}

		files = append(files, path)
		return nil
	}

	if err := afero.Walk(appFS, root, walkFn); err != nil {
		return nil, err
	}

	return files, nil
}

// isDefaultIgnoredDir filters directories no check run wants to enter.
func isDefaultIgnoredDir(name string) bool {
	switch name {
	case ".git", ".hg", ".svn", "node_modules", "vendor", "__pycache__", ".venv", ".idea":
		return true
	}
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func matchesPatterns(path string, patterns []string) bool {
	for _, pattern := range patterns {
		// Handle ** glob patterns
		if strings.Contains(pattern, "**") {
			// Simple ** handling: check if path ends with suffix
			suffix := strings.TrimPrefix(pattern, "**/")
			if strings.HasSuffix(path, suffix) {
				return true
			}
			continue
		}

		// Use filepath.Match for simple patterns
		matched, _ := filepath.Match(pattern, filepath.Base(path))
		if matched {
			return true
		}
	}
	return false
}

func isBinaryFile(path string) bool {
	// Check extension first
	ext := strings.ToLower(filepath.Ext(path))
	binaryExts := map[string]bool{
		".exe": true, ".dll": true, ".so": true, ".dylib": true,
		".bin": true, ".obj": true, ".o": true, ".a": true,
		".zip": true, ".tar": true, ".gz": true, ".rar": true,
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
		".pdf": true, ".doc": true, ".docx": true,
		".wasm": true, ".pyc": true, ".class": true,
	}
	if binaryExts[ext] {
		return true
	}

	// Read first 512 bytes to detect null bytes
	f, err := appFS.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil || n == 0 {
		return false
	}

	// Check for null bytes (binary indicator)
	for i := 0; i < n; i++ {
		if buf[i] == 0 {
			return true
		}
	}
	return false
}

// =============================================================================
// OUTPUT FUNCTIONS
// =============================================================================

func outputCheckText(report *CheckReport) {
	ux.Title("Check Results")

	for i := range report.Files {
		fr := &report.Files[i]
		if len(fr.Issues) == 0 {
			ux.FileStatus(fr.Path, ux.IconSuccess, fr.Language)
			continue
		}
		icon := ux.IconWarning
		if !fr.Valid {
			icon = ux.IconError
		}
		ux.FileStatus(fr.Path, icon, fmt.Sprintf("%d findings", len(fr.Issues)))
		printIssues(fr.Path, fr.Issues)
	}

	for _, w := range report.Warnings {
		ux.Warning(w)
	}

	summarize(report.IssueCounts)

	langNote := ""
	if report.FastMode {
		langNote = " (fast mode)"
	}
	ux.Muted(fmt.Sprintf("%d files checked, %d skipped in %dms%s",
		report.FilesScanned, report.FilesSkipped, report.DurationMs, langNote))
}
