// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package enforcer is the public face of the quality engine.
//
// An Enforcer owns one analyzer per supported language plus a snapshot of
// which external tools were installed when it was constructed. Every public
// operation is total: it always returns a value of its documented shape and
// never lets a panic escape. Internal failures degrade to the operation's
// worst case instead:
//
//	RunQualityChecks  -> empty issue list
//	ValidateSyntax    -> valid result
//	EnforceStandards  -> original code unchanged
//	AutoFixIssues     -> original code unchanged
//	AnalyzeComplexity -> zero metrics
//
// The tool-availability snapshot is deliberately frozen at construction.
// Probing PATH on every call would make results depend on a moving
// environment; instead, a tool installed mid-session is picked up by the
// next Enforcer. Construct one Enforcer per process and share it: after
// New returns, all state is read-only and safe for concurrent calls.
package enforcer
