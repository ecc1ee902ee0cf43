// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lang

import (
	"path/filepath"
	"regexp"
	"strings"
)

// extensionMap is the fixed extension → language table. Lookup is exact
// after lowercasing; unlisted extensions resolve to Unknown.
var extensionMap = map[string]Language{
	".py":   Python,
	".pyi":  Python,
	".js":   JavaScript,
	".jsx":  JavaScript,
	".mjs":  JavaScript,
	".cjs":  JavaScript,
	".ts":   TypeScript,
	".tsx":  TypeScript,
	".mts":  TypeScript,
	".cts":  TypeScript,
	".java": Java,
	".go":   Go,
	".rs":   Rust,
	".c":    Cpp,
	".cc":   Cpp,
	".cpp":  Cpp,
	".cxx":  Cpp,
	".h":    Cpp,
	".hpp":  Cpp,
	".cs":   CSharp,
	".php":  PHP,
	".rb":   Ruby,
}

// tsAnnotation matches a TypeScript-style type annotation such as
// "name: string" or "): void". Used to upgrade JavaScript to TypeScript.
var tsAnnotation = regexp.MustCompile(`:\s*(?:string|number|boolean|void|any|unknown|never)\b`)

// FromExtension maps a file extension to a Language.
//
// Description:
//
//	Exact lookup in the fixed extension map. The extension may be given
//	with or without the leading dot and in any case.
//
// Inputs:
//
//	ext - File extension (e.g., ".py", "py", ".TSX")
//
// Outputs:
//
//	Language - The mapped language, or Unknown
func FromExtension(ext string) Language {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return Unknown
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if l, ok := extensionMap[ext]; ok {
		return l
	}
	return Unknown
}

// FromContent classifies a snippet by its content alone.
//
// Description:
//
//	Ordered first-match heuristics over raw substrings. The rules are
//	intentionally crude: they exist for pasted snippets with no filename,
//	not as a replacement for real parsing. No rule firing means Unknown.
//
// Inputs:
//
//	code - Source text to sniff
//
// Outputs:
//
//	Language - First matching language, or Unknown
func FromContent(code string) Language {
	switch {
	case isPython(code):
		return Python
	case isJavaScript(code):
		if strings.Contains(code, "interface ") || tsAnnotation.MatchString(code) {
			return TypeScript
		}
		return JavaScript
	case strings.Contains(code, "public class ") && strings.Contains(code, "void "):
		return Java
	case strings.Contains(code, "package main") && strings.Contains(code, "func "):
		return Go
	case strings.Contains(code, "fn ") && strings.Contains(code, "impl "):
		return Rust
	case strings.Contains(code, "#include") && (strings.Contains(code, "void") || strings.Contains(code, "int ")):
		return Cpp
	case strings.Contains(code, "namespace ") && strings.Contains(code, "public class"):
		return CSharp
	case strings.Contains(code, "<?php") || (strings.Contains(code, "function ") && strings.Contains(code, "$")):
		return PHP
	case strings.Contains(code, "def ") && strings.Contains(code, "end") && strings.Contains(code, "require "):
		return Ruby
	default:
		return Unknown
	}
}

func isPython(code string) bool {
	hasDef := strings.Contains(code, "def ") || strings.Contains(code, "class ")
	hasContext := strings.Contains(code, "import ") || strings.Contains(code, "class ")
	return hasDef && hasContext
}

func isJavaScript(code string) bool {
	return strings.Contains(code, "function ") && strings.Contains(code, "{")
}

// Detect resolves a language from a filename hint and/or content.
//
// The filename extension wins whenever it maps to a known language; content
// sniffing is the fallback. Deterministic for identical inputs.
func Detect(code, filename string) Language {
	if filename != "" {
		if l := FromExtension(filepath.Ext(filename)); l != Unknown {
			return l
		}
	}
	return FromContent(code)
}
