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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/codewarden/pkg/ux"
)

const (
	// watchBufferSize is the raw event channel capacity. Bursts beyond
	// it are dropped rather than blocking the notification loop.
	watchBufferSize = 256

	// watchCacheSize bounds the content-hash cache used to skip
	// re-checks of unchanged files.
	watchCacheSize = 1024
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	watchFast     bool
	watchDebounce time.Duration
	watchExclude  []string
)

// watchEvent is one filesystem change waiting for the debounce window.
type watchEvent struct {
	path    string
	removed bool
	at      time.Time
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runWatch(cmd *cobra.Command, args []string) {
	out := outputConfig()

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	info, err := appFS.Stat(root)
	if err != nil {
		OutputError(out.JSON, "Path not found", err)
		os.Exit(CLIExitError)
	}
	if !info.IsDir() {
		OutputError(out.JSON, "Invalid path", fmt.Errorf("%s is not a directory", root))
		os.Exit(CLIExitError)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		OutputError(out.JSON, "Cannot create watcher", err)
		os.Exit(CLIExitError)
	}
	defer watcher.Close()

	if err := addWatchTree(watcher, root); err != nil {
		OutputError(out.JSON, "Cannot watch directory", err)
		os.Exit(CLIExitError)
	}

	// Content hashes of files already checked this session. A save
	// that leaves the bytes unchanged does not trigger a re-check.
	cache, err := lru.New[string, string](watchCacheSize)
	if err != nil {
		OutputError(out.JSON, "Cannot create cache", err)
		os.Exit(CLIExitError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !out.Quiet && !out.JSON {
		ux.Title(fmt.Sprintf("Watching %s", root))
		ux.Muted("press Ctrl-C to stop")
	}
	logger.Info("watch started",
		"root", root, "debounce", watchDebounce.String(), "fast", watchFast)

	events := make(chan watchEvent, watchBufferSize)
	go collectWatchEvents(ctx, watcher, events)

	watchLoop(ctx, events, cache)

	logger.Info("watch stopped", "root", root)
	if !out.Quiet && !out.JSON {
		ux.Muted("watch stopped")
	}

	if telemetryShutdown != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = telemetryShutdown(sctx)
		cancel()
	}
}

// addWatchTree registers root and every non-ignored subdirectory.
func addWatchTree(watcher *fsnotify.Watcher, root string) error {
	return afero.Walk(appFS, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Continue on error
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && shouldIgnoreWatch(path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// shouldIgnoreWatch filters paths no watch session cares about.
func shouldIgnoreWatch(path string) bool {
	if isDefaultIgnoredDir(filepath.Base(path)) {
		return true
	}
	return matchesPatterns(path, watchExclude)
}

// collectWatchEvents converts raw notifications into watch events and
// keeps the watch list in sync as new directories appear.
func collectWatchEvents(ctx context.Context, watcher *fsnotify.Watcher, events chan<- watchEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if shouldIgnoreWatch(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := appFS.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatchTree(watcher, event.Name); err != nil {
						logger.Warn("cannot watch new directory",
							"path", event.Name, "error", err)
					}
					continue
				}
			}

			change := watchEvent{path: event.Name, at: time.Now()}
			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				change.removed = true
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
			default:
				continue // Chmod and friends
			}

			// Non-blocking send; the debouncer should keep up
			select {
			case events <- change:
			default:
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

// watchLoop batches events and re-checks the affected files once the
// debounce window passes without further changes.
func watchLoop(ctx context.Context, events <-chan watchEvent, cache *lru.Cache[string, string]) {
	var batch []watchEvent
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 {
			recheckFiles(ctx, dedupeWatchEvents(batch), cache)
			batch = batch[:0]
		}
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			batch = append(batch, ev)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				timerC = timer.C
			} else {
				timer.Reset(watchDebounce)
			}
		case <-timerC:
			flush()
		}
	}
}

// dedupeWatchEvents keeps the most recent event per path and returns
// the batch in stable path order.
func dedupeWatchEvents(batch []watchEvent) []watchEvent {
	seen := make(map[string]int) // path -> index in result
	result := make([]watchEvent, 0, len(batch))
	for _, ev := range batch {
		if idx, ok := seen[ev.path]; ok {
			result[idx] = ev
			continue
		}
		seen[ev.path] = len(result)
		result = append(result, ev)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].path < result[j].path })
	return result
}

// recheckFiles runs the quality pipeline over one debounced batch.
func recheckFiles(ctx context.Context, batch []watchEvent, cache *lru.Cache[string, string]) {
	out := outputConfig()

	for _, ev := range batch {
		if ev.removed {
			if _, ok := cache.Get(ev.path); ok {
				cache.Remove(ev.path)
				if !out.Quiet && !out.JSON {
					ux.FileStatus(ev.path, ux.IconPending, "removed")
				}
			}
			continue
		}
		if isBinaryFile(ev.path) {
			continue
		}

		code, err := readSource(ev.path)
		if err != nil {
			if os.IsNotExist(err) {
				cache.Remove(ev.path)
				continue
			}
			logger.Warn("cannot read changed file", "path", ev.path, "error", err)
			continue
		}

		sum := contentHash(code)
		if prev, ok := cache.Get(ev.path); ok && prev == sum {
			continue // Same bytes as the last check
		}
		cache.Add(ev.path, sum)

		l, _ := resolveLanguage(code, ev.path, "")
		issues := app.RunQualityChecks(ctx, code, l, watchFast)
		logger.Debug("file re-checked",
			"path", ev.path, "language", l.String(), "findings", len(issues))

		report := FileReport{
			Path:     ev.path,
			Language: l.String(),
			Valid:    !hasBlocking(issues),
			Issues:   issues,
		}

		switch {
		case out.Quiet:
		case out.JSON:
			// One JSON object per line so consumers can stream results
			_ = OutputJSON(report, true)
		default:
			printWatchResult(report)
		}
	}
}

// contentHash returns the hex SHA-256 of a file's content.
func contentHash(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// printWatchResult renders one re-checked file in text mode.
func printWatchResult(r FileReport) {
	stamp := time.Now().Format("15:04:05")
	if len(r.Issues) == 0 {
		ux.FileStatus(r.Path, ux.IconSuccess, fmt.Sprintf("clean at %s", stamp))
		return
	}
	icon := ux.IconWarning
	if !r.Valid {
		icon = ux.IconError
	}
	ux.FileStatus(r.Path, icon, fmt.Sprintf("%d findings at %s", len(r.Issues), stamp))
	printIssues(r.Path, r.Issues)
}
