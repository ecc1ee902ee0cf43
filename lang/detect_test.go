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

import "testing"

func TestFromExtension(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want Language
	}{
		{"python", ".py", Python},
		{"python stub", ".pyi", Python},
		{"javascript", ".js", JavaScript},
		{"jsx", ".jsx", JavaScript},
		{"commonjs", ".cjs", JavaScript},
		{"typescript", ".ts", TypeScript},
		{"tsx", ".tsx", TypeScript},
		{"java", ".java", Java},
		{"go", ".go", Go},
		{"rust", ".rs", Rust},
		{"c", ".c", Cpp},
		{"cpp", ".cpp", Cpp},
		{"header", ".h", Cpp},
		{"csharp", ".cs", CSharp},
		{"php", ".php", PHP},
		{"ruby", ".rb", Ruby},
		{"no dot", "py", Python},
		{"mixed case", ".PY", Python},
		{"unknown", ".zig", Unknown},
		{"empty", "", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromExtension(tt.ext); got != tt.want {
				t.Errorf("FromExtension(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestFromContent(t *testing.T) {
	tests := []struct {
		name string
		code string
		want Language
	}{
		{
			name: "python with import",
			code: "import os\n\ndef main():\n    pass\n",
			want: Python,
		},
		{
			name: "python class",
			code: "class Config:\n    def load(self):\n        pass\n",
			want: Python,
		},
		{
			name: "javascript",
			code: "function add(a, b) {\n  return a + b;\n}\n",
			want: JavaScript,
		},
		{
			name: "typescript via annotation",
			code: "function add(a: number, b: number) {\n  return a + b;\n}\n",
			want: TypeScript,
		},
		{
			name: "typescript via interface",
			code: "interface User {}\nfunction greet(u) { return u; }\n",
			want: TypeScript,
		},
		{
			name: "java",
			code: "public class Main {\n  public static void main(String[] args) {}\n}\n",
			want: Java,
		},
		{
			name: "go",
			code: "package main\n\nfunc main() {}\n",
			want: Go,
		},
		{
			name: "rust",
			code: "struct P;\nimpl P {\n    fn new() -> P { P }\n}\n",
			want: Rust,
		},
		{
			name: "c",
			code: "#include <stdio.h>\nint main(void) { return 0; }\n",
			want: Cpp,
		},
		{
			name: "csharp",
			code: "namespace App {\n  public class Program { static int Main() { return 0; } }\n}\n",
			want: CSharp,
		},
		{
			name: "php tag",
			code: "<?php\necho 'hi';\n",
			want: PHP,
		},
		{
			// A braced PHP function body is shadowed by the earlier
			// JavaScript rule; only the sigil form without braces reaches
			// the PHP rule.
			name: "php function with sigil",
			code: "function greet($name);",
			want: PHP,
		},
		{
			name: "php braced function shadowed by js rule",
			code: "function greet($name) { return $name; }",
			want: JavaScript,
		},
		{
			name: "ruby",
			code: "require 'json'\n\ndef greet\n  puts 'hi'\nend\n",
			want: Ruby,
		},
		{
			name: "plain text",
			code: "hello world, nothing to see",
			want: Unknown,
		},
		{
			name: "empty",
			code: "",
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromContent(tt.code); got != tt.want {
				t.Errorf("FromContent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectExtensionWinsOverContent(t *testing.T) {
	// Python-looking content, but the filename says JavaScript.
	code := "import os\n\ndef main():\n    pass\n"
	if got := Detect(code, "script.js"); got != JavaScript {
		t.Errorf("Detect() = %v, want javascript (extension priority)", got)
	}
}

func TestDetectFallsBackToContent(t *testing.T) {
	code := "package main\n\nfunc main() {}\n"

	tests := []struct {
		name     string
		filename string
	}{
		{"no filename", ""},
		{"unknown extension", "snippet.txt"},
		{"no extension", "snippet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(code, tt.filename); got != Go {
				t.Errorf("Detect() = %v, want go", got)
			}
		})
	}
}

func TestDetectDeterministic(t *testing.T) {
	code := "function f() { return 1; }"
	first := Detect(code, "a.unknownext")
	for i := 0; i < 10; i++ {
		if got := Detect(code, "a.unknownext"); got != first {
			t.Fatalf("Detect() not deterministic: %v then %v", first, got)
		}
	}
}

func TestKnown(t *testing.T) {
	for _, l := range All() {
		if !l.Known() {
			t.Errorf("%v should be known", l)
		}
	}
	if Unknown.Known() {
		t.Error("Unknown should not be known")
	}
	if Language("cobol").Known() {
		t.Error("arbitrary language string should not be known")
	}
}

func TestPrimaryExtensionRoundTrip(t *testing.T) {
	for _, l := range All() {
		ext := l.PrimaryExtension()
		if ext == "" {
			t.Errorf("%v has no primary extension", l)
			continue
		}
		if got := FromExtension(ext); got != l {
			t.Errorf("FromExtension(PrimaryExtension(%v)) = %v", l, got)
		}
	}
}
