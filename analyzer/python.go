// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/AleutianAI/codewarden/config"
	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/lang"
)

const (
	// maxSyntaxErrors caps reported parse errors on heavily malformed input.
	maxSyntaxErrors = 50

	// maxTraversalDepth guards against stack overflow on deeply nested trees.
	maxTraversalDepth = 1000
)

// =============================================================================
// PARSE FACTS
// =============================================================================

// PythonFacts holds the parse-derived structure rules consult.
type PythonFacts struct {
	// HasModuleDocstring is true when the first statement is a string.
	HasModuleDocstring bool

	// HasStatements is true when the module contains at least one
	// non-comment statement (docstring rules skip trivial snippets).
	HasStatements bool

	Functions []PyFunction
	Classes   []PyClass
}

// PyFunction describes one function or method definition.
type PyFunction struct {
	Name    string
	Line    int // 1-based line of the def keyword
	EndLine int

	// ParamCount counts named positional parameters, excluding self/cls
	// on methods and *args/**kwargs.
	ParamCount int

	// UnannotatedParams counts counted parameters lacking a type annotation.
	UnannotatedParams int

	HasReturnType bool
	HasDocstring  bool
	IsMethod      bool
	IsAsync       bool
}

// PyClass describes one class definition.
type PyClass struct {
	Name         string
	Line         int
	EndLine      int
	HasDocstring bool
}

// =============================================================================
// PYTHON ANALYZER
// =============================================================================

// PythonAnalyzer runs the pipeline over a real tree-sitter parse.
//
// Thread Safety: safe for concurrent use; every call builds its own parser,
// matching the underlying library's single-threaded parser contract.
type PythonAnalyzer struct {
	cfg   *config.Config
	rules []Rule
}

var _ Analyzer = (*PythonAnalyzer)(nil)

// NewPythonAnalyzer builds the analyzer with its full rule set registered.
func NewPythonAnalyzer(cfg *config.Config) *PythonAnalyzer {
	return &PythonAnalyzer{
		cfg:   cfg,
		rules: pythonRules(),
	}
}

// Language returns lang.Python.
func (a *PythonAnalyzer) Language() lang.Language {
	return lang.Python
}

// Analyze runs the full pipeline.
func (a *PythonAnalyzer) Analyze(ctx context.Context, code string) []issue.Issue {
	if code == "" {
		return []issue.Issue{}
	}

	ctx, span := startAnalyzeSpan(ctx, "python", len(code))
	defer span.End()
	start := time.Now()

	syntaxIssues, facts := a.parse(ctx, code)
	rc := &RuleContext{
		Code:   code,
		Lines:  splitLines(code),
		Config: a.cfg,
		Python: facts,
	}
	out := runPipeline(rc, syntaxIssues, a.rules)

	recordAnalyze(ctx, span, "python", len(out), time.Since(start))
	return out
}

// CheckSyntax runs only the parse stage.
func (a *PythonAnalyzer) CheckSyntax(ctx context.Context, code string) []issue.Issue {
	if code == "" {
		return []issue.Issue{}
	}
	issues, _ := a.parse(ctx, code)
	return issues
}

// AutoFix applies a replacement fix, or synthesizes a line split for an
// overlong assignment when no replacement exists.
func (a *PythonAnalyzer) AutoFix(code string, is issue.Issue) (string, bool) {
	if fixed, ok := applyReplacement(code, is); ok {
		return fixed, true
	}
	if is.Code == issue.CodeLineTooLong {
		return splitLongAssignment(code, is.Line)
	}
	return code, false
}

// parse builds the tree and extracts either syntax issues or facts.
//
// A tree containing ERROR/MISSING nodes yields issues and nil facts; rules
// never see a half-parsed structure.
func (a *PythonAnalyzer) parse(ctx context.Context, code string) ([]issue.Issue, *PythonFacts) {
	content := []byte(strings.ToValidUTF8(code, "�"))

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return []issue.Issue{{
			Line:     1,
			Message:  fmt.Sprintf("Parse failed: %v", err),
			Code:     issue.CodeSyntaxError,
			Severity: issue.SeverityError,
			Source:   StageSyntax.String(),
		}}, nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return []issue.Issue{{
			Line:     1,
			Message:  "Parse failed: no syntax tree produced",
			Code:     issue.CodeSyntaxError,
			Severity: issue.SeverityError,
			Source:   StageSyntax.String(),
		}}, nil
	}

	if root.HasError() {
		issues := make([]issue.Issue, 0, 4)
		collectSyntaxIssues(root, content, &issues, 0)
		if len(issues) == 0 {
			issues = append(issues, issue.Issue{
				Line:     1,
				Message:  "Syntax error",
				Code:     issue.CodeSyntaxError,
				Severity: issue.SeverityError,
				Source:   StageSyntax.String(),
			})
		}
		issue.Sort(issues)
		return issues, nil
	}

	return nil, extractFacts(root, content)
}

// collectSyntaxIssues walks the tree gathering ERROR and MISSING nodes.
func collectSyntaxIssues(node *sitter.Node, content []byte, issues *[]issue.Issue, depth int) {
	if depth > maxTraversalDepth || len(*issues) >= maxSyntaxErrors {
		return
	}

	if node.IsError() || node.IsMissing() {
		start := node.StartByte()
		end := node.EndByte()
		if end > uint32(len(content)) {
			end = uint32(len(content))
		}

		contextStr := ""
		if end > start && end-start < 100 {
			contextStr = string(content[start:end])
		}

		msg := "Syntax error"
		suggestion := ""
		if node.IsMissing() {
			msg = fmt.Sprintf("Missing %s", node.Type())
			suggestion = missingSuggestion(node.Type())
		} else if contextStr != "" {
			msg = fmt.Sprintf("Unexpected: %s", truncate(contextStr, 50))
		}

		*issues = append(*issues, issue.Issue{
			Line:       int(node.StartPoint().Row) + 1,
			Column:     int(node.StartPoint().Column) + 1,
			Message:    msg,
			Code:       issue.CodeSyntaxError,
			Severity:   issue.SeverityError,
			Source:     StageSyntax.String(),
			Suggestion: suggestion,
		})
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectSyntaxIssues(node.Child(i), content, issues, depth+1)
	}
}

func missingSuggestion(nodeType string) string {
	switch nodeType {
	case "}", "]", ")":
		return fmt.Sprintf("Add missing closing '%s'", nodeType)
	case ":":
		return "Add missing colon"
	default:
		return fmt.Sprintf("Add missing '%s'", nodeType)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// =============================================================================
// FACT EXTRACTION
// =============================================================================

// extractFacts derives the structure the rule set consults.
func extractFacts(root *sitter.Node, content []byte) *PythonFacts {
	facts := &PythonFacts{}

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() == "comment" {
			continue
		}
		facts.HasStatements = true
		break
	}
	facts.HasModuleDocstring = firstStatementIsString(root)

	walkDefinitions(root, content, facts, false, 0)
	return facts
}

// firstStatementIsString reports whether the module opens with a docstring.
func firstStatementIsString(root *sitter.Node) bool {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() == "comment" {
			continue
		}
		if child.Type() == "expression_statement" && child.ChildCount() > 0 {
			return child.Child(0).Type() == "string"
		}
		return false
	}
	return false
}

// walkDefinitions recursively collects functions and classes. inClass marks
// direct members of a class body so self/cls can be excluded from counts.
func walkDefinitions(node *sitter.Node, content []byte, facts *PythonFacts, inClass bool, depth int) {
	if depth > maxTraversalDepth {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "function_definition":
			fn := processFunctionNode(child, content, inClass)
			facts.Functions = append(facts.Functions, fn)
			if body := child.ChildByFieldName("body"); body != nil {
				walkDefinitions(body, content, facts, false, depth+1)
			}
		case "class_definition":
			cls := PyClass{
				Name:    nodeName(child, content),
				Line:    int(child.StartPoint().Row) + 1,
				EndLine: int(child.EndPoint().Row) + 1,
			}
			if body := child.ChildByFieldName("body"); body != nil {
				cls.HasDocstring = firstStatementIsString(body)
				facts.Classes = append(facts.Classes, cls)
				walkDefinitions(body, content, facts, true, depth+1)
			} else {
				facts.Classes = append(facts.Classes, cls)
			}
		case "decorated_definition":
			walkDefinitions(child, content, facts, inClass, depth+1)
		default:
			// Definitions inside compound statements (if/try/with blocks)
			// still count.
			if child.ChildCount() > 0 {
				walkDefinitions(child, content, facts, false, depth+1)
			}
		}
	}
}

// processFunctionNode extracts one function's facts.
func processFunctionNode(node *sitter.Node, content []byte, isMethod bool) PyFunction {
	fn := PyFunction{
		Name:     nodeName(node, content),
		Line:     int(node.StartPoint().Row) + 1,
		EndLine:  int(node.EndPoint().Row) + 1,
		IsMethod: isMethod,
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "async" {
			fn.IsAsync = true
			break
		}
	}

	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.HasReturnType = true
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		countParams(params, content, isMethod, &fn)
	}

	if body := node.ChildByFieldName("body"); body != nil {
		fn.HasDocstring = firstStatementIsString(body)
	}

	return fn
}

// countParams tallies named positional parameters and annotation coverage.
func countParams(params *sitter.Node, content []byte, isMethod bool, fn *PyFunction) {
	first := true
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)

		var name string
		annotated := false
		switch child.Type() {
		case "identifier":
			name = string(content[child.StartByte():child.EndByte()])
		case "default_parameter":
			if id := child.ChildByFieldName("name"); id != nil {
				name = string(content[id.StartByte():id.EndByte()])
			}
		case "typed_parameter", "typed_default_parameter":
			annotated = true
			for j := 0; j < int(child.ChildCount()); j++ {
				if gc := child.Child(j); gc.Type() == "identifier" {
					name = string(content[gc.StartByte():gc.EndByte()])
					break
				}
			}
		default:
			// Punctuation, *args/**kwargs, separators: not counted.
			continue
		}

		if name == "" {
			continue
		}
		if first && isMethod && (name == "self" || name == "cls") {
			first = false
			continue
		}
		first = false

		fn.ParamCount++
		if !annotated {
			fn.UnannotatedParams++
		}
	}
}

// nodeName returns the name field of a definition node.
func nodeName(node *sitter.Node, content []byte) string {
	if id := node.ChildByFieldName("name"); id != nil {
		return string(content[id.StartByte():id.EndByte()])
	}
	return ""
}
