// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package patch

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// Apply applies one file's hunks to its original content.
//
// Description:
//
//	Line-oriented application. Added lines are taken from the hunk;
//	context lines are taken from the original, so minor context drift
//	does not break application. A deletion (new name /dev/null) yields
//	empty content; a creation is assembled from the added lines alone.
//
// Inputs:
//
//	original - Pre-patch file content; "" for a new file
//	fd       - The file's parsed diff
//
// Outputs:
//
//	string - Patched content
//	error  - A hunk that starts beyond the end of the original
func Apply(original string, fd *diff.FileDiff) (string, error) {
	if fd.NewName == "/dev/null" {
		return "", nil
	}

	if fd.OrigName == "/dev/null" || original == "" {
		var lines []string
		for _, hunk := range fd.Hunks {
			for _, line := range bodyLines(hunk) {
				if strings.HasPrefix(line, "+") {
					lines = append(lines, line[1:])
				}
			}
		}
		return strings.Join(lines, "\n"), nil
	}

	origLines := strings.Split(original, "\n")
	out := make([]string, 0, len(origLines))
	origIdx := 0

	for i, hunk := range fd.Hunks {
		hunkStart := int(hunk.OrigStartLine) - 1
		if hunkStart > len(origLines) {
			return "", fmt.Errorf("hunk %d starts at line %d, original has %d lines",
				i+1, hunk.OrigStartLine, len(origLines))
		}

		for origIdx < hunkStart && origIdx < len(origLines) {
			out = append(out, origLines[origIdx])
			origIdx++
		}

		for _, line := range bodyLines(hunk) {
			switch {
			case strings.HasPrefix(line, "+"):
				out = append(out, line[1:])
			case strings.HasPrefix(line, "-"):
				origIdx++
			case strings.HasPrefix(line, " ") || line == "":
				if origIdx < len(origLines) {
					out = append(out, origLines[origIdx])
					origIdx++
				}
			}
			// Anything else ("\ No newline at end of file") is metadata.
		}
	}

	for origIdx < len(origLines) {
		out = append(out, origLines[origIdx])
		origIdx++
	}

	return strings.Join(out, "\n"), nil
}

// bodyLines splits a hunk body into prefixed lines, dropping the empty
// trailing element the final newline produces.
func bodyLines(hunk *diff.Hunk) []string {
	body := strings.TrimSuffix(string(hunk.Body), "\n")
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n")
}
