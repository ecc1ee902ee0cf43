// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lang classifies source snippets into a fixed language set.
//
// Resolution priority is always extension first, content heuristics second:
// a filename that maps to a known language wins over whatever the content
// sniffer would say. Both paths are pure functions with no I/O.
package lang

// Language identifies a programming language in the closed set this engine
// understands. Unknown is a first-class member: callers must handle it.
type Language string

// The closed language set. Adding a member requires touching the extension
// map, the content heuristics, and the analyzer registry.
const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Java       Language = "java"
	Go         Language = "go"
	Rust       Language = "rust"
	Cpp        Language = "cpp"
	CSharp     Language = "csharp"
	PHP        Language = "php"
	Ruby       Language = "ruby"
	Unknown    Language = "unknown"
)

// String returns the lowercase language name.
func (l Language) String() string {
	return string(l)
}

// Known reports whether the language is a member of the supported set
// (everything except Unknown and arbitrary strings).
func (l Language) Known() bool {
	switch l {
	case Python, JavaScript, TypeScript, Java, Go, Rust, Cpp, CSharp, PHP, Ruby:
		return true
	default:
		return false
	}
}

// All returns the supported languages in stable order, excluding Unknown.
func All() []Language {
	return []Language{Python, JavaScript, TypeScript, Java, Go, Rust, Cpp, CSharp, PHP, Ruby}
}

// PrimaryExtension returns the canonical file extension (with dot) for the
// language, or "" for Unknown. Used when handing code to external tools via
// temp files, since most linters infer language from the filename.
func (l Language) PrimaryExtension() string {
	switch l {
	case Python:
		return ".py"
	case JavaScript:
		return ".js"
	case TypeScript:
		return ".ts"
	case Java:
		return ".java"
	case Go:
		return ".go"
	case Rust:
		return ".rs"
	case Cpp:
		return ".cpp"
	case CSharp:
		return ".cs"
	case PHP:
		return ".php"
	case Ruby:
		return ".rb"
	default:
		return ""
	}
}
