// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package analyzer implements the per-language rule engines.
//
// Each analyzer runs a fixed pipeline over a source snippet:
//
//	syntax → style → security → best-practice → performance
//
// Any error-severity finding in the syntax stage halts the pipeline: the
// call returns only the syntax issues, because later stages would mostly be
// noise derived from a broken parse.
//
// # Rules
//
// Every check is a small Rule value with a uniform shape: it receives a
// RuleContext (source text, split lines, config, and for Python the parse
// facts) and returns zero or more issues. Rules are registered per analyzer
// at construction; nothing discovers rules by reflection.
//
// # Languages
//
// Python is the only language with a real parse tree (tree-sitter). The
// JavaScript analyzer also serves TypeScript and relies on a string-aware
// bracket scanner for its syntax stage. Languages without an analyzer get
// the bracket scanner alone via the enforcer.
//
// # Thread Safety
//
// Analyzers are stateless after construction and safe for concurrent use;
// each Analyze call builds its own parse state.
package analyzer
