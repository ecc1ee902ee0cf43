// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lint integrates optional external analysis tools.
//
// # Overview
//
// The built-in analyzers cover the common cases; installed linters and
// formatters deepen the results. This package owns the tool table, the
// per-tool output parsers, and the Runner that ties them to the process
// boundary in pkg/toolexec.
//
// # Tools
//
//	Tool      Language    Kind       Output
//	--------  ----------  ---------  ---------------------------------
//	flake8    python      linter     text  path:line:col: CODE message
//	mypy      python      linter     text  path:line: severity: message
//	pylint    python      linter     text  CODE,line,col: message
//	bandit    python      linter     JSON  {"results": [...]}
//	black     python      formatter  formatted source on stdout
//	eslint    javascript  linter     JSON  [{"messages": [...]}]
//	prettier  javascript  formatter  formatted source on stdout
//
// TypeScript shares the JavaScript tools.
//
// # Failure model
//
// A tool that is missing, times out, crashes, or prints something the
// parser cannot read yields a *ToolError wrapping one of the package
// sentinels. Callers degrade: the orchestrator drops that tool's
// findings and continues with the rest.
//
// Thread Safety: Registry is safe for concurrent use. Runner is
// stateless and safe for concurrent use.
package lint
