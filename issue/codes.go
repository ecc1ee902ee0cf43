// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package issue

// Issue codes produced by the built-in checkers. External tools report their
// own codes verbatim (e.g. flake8's E-codes, bandit's B-codes), which is why
// the style family reuses the pycodestyle numbering where a direct analog
// exists: E501 from the built-in line-length rule and E501 from flake8 mean
// the same thing.
const (
	// Syntax.

	// CodeSyntaxError marks any parse or bracket-balance failure.
	CodeSyntaxError = "E999"

	// Style.

	CodeLineTooLong        = "E501"
	CodeTrailingWhitespace = "W291"
	CodeTabIndentation     = "W191"
	CodeTrailingSemicolon  = "E703"

	// Security.

	CodeBannedCall        = "S001"
	CodeHardcodedSecret   = "S102"
	CodeDangerousImport   = "S201"
	CodeSQLInjection      = "S301"
	CodeUnsafeDeserialize = "S302"
	CodeInnerHTML         = "S401"
	CodeDocumentWrite     = "S402"

	// Best practice.

	CodeMissingDocstring   = "B101"
	CodeMissingTypeHints   = "B102"
	CodeTooManyParams      = "B103"
	CodeLongFunction       = "B104"
	CodeBareExcept         = "B105"
	CodeIdentityComparison = "B106"
	CodeTodoComment        = "B107"
	CodeConsoleCall        = "B201"
	CodeLooseEquality      = "B202"
	CodeMissingCatch       = "B203"
	CodeMissingJSDoc       = "B204"

	// Performance.

	CodeLoopAppend          = "P101"
	CodeStringConcatLoop    = "P102"
	CodeRedundantConversion = "P103"
	CodeRangeLen            = "P104"

	// JavaScript style.

	CodeMissingSemicolon = "JS101"
	CodeVarUsage         = "JS102"

	// General cross-language checks.

	CodeFileTooLarge   = "G001"
	CodeBannedFunction = "G002"
	CodeTodoFound      = "G003"

	// Meta.

	// CodeUnsupportedLanguage is attached to the informational notice
	// emitted when no checker exists for the detected language.
	CodeUnsupportedLanguage = "U001"
)

// MaxParams is the parameter-count ceiling before B103 fires.
const MaxParams = 5
