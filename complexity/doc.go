// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package complexity measures source structure: line classes, function
// spans, and a decision-point estimate of cyclomatic complexity.
//
// # Model
//
// Complexity is 1 plus the count of decision tokens (branches, loops,
// boolean operators, exception handlers) in the function span. That is an
// estimate over tokens, not a control-flow graph, which keeps it cheap and
// language-tolerant; the number matches McCabe for straightforward code
// and drifts slightly on dense one-liners.
//
// Python function spans come from a real parse tree. JavaScript and
// TypeScript spans come from brace tracking over declaration lines. Other
// languages get line counts only.
//
// Measure never fails: unparseable or unsupported input degrades to the
// line-count portion of the metrics.
package complexity
