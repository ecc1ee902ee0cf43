// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package issue defines the issue data model shared by every checking layer.
//
// Analyzers, external tool adapters, and the enforcer all report findings as
// the same Issue value, so results from a tree-sitter rule and from flake8
// can be merged, sorted, and rendered uniformly.
//
// # Severity Levels
//
// Issues carry one of four severities:
//
//	| Severity | Blocks validity | Typical source              |
//	|----------|-----------------|-----------------------------|
//	| info     | no              | style hints, suggestions    |
//	| warning  | no              | style violations, smells    |
//	| error    | yes             | syntax errors, banned calls |
//	| critical | yes             | hardcoded secrets           |
//
// A ValidationResult is invalid exactly when it contains at least one issue
// at SeverityError or above.
//
// # Issue Codes
//
// Codes follow a fixed taxonomy (see codes.go): E-prefixed style and syntax
// codes borrowed from the pycodestyle numbering where one exists (E501,
// W291), S-prefixed security codes, B-prefixed best-practice codes,
// P-prefixed performance codes, JS-prefixed JavaScript style codes, and
// G-prefixed general cross-language codes.
//
// # Thread Safety
//
// Issue values are immutable after creation. ValidationResult is not safe
// for concurrent mutation; build it in one goroutine, then share.
package issue
