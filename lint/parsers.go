// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/AleutianAI/codewarden/issue"
)

// ParserFunc converts raw tool output into issues.
//
// Parsers are lenient: lines or records they cannot understand are
// skipped, and an error is returned only when the payload as a whole is
// unusable (e.g., invalid JSON from a JSON-emitting tool).
type ParserFunc func(data []byte) ([]issue.Issue, error)

var (
	parserMu sync.RWMutex

	// parsers maps tool name to its output parser.
	parsers = map[string]ParserFunc{
		"flake8": parseFlake8Output,
		"mypy":   parseMypyOutput,
		"pylint": parsePylintOutput,
		"bandit": parseBanditOutput,
		"eslint": parseESLintOutput,
	}
)

// GetParser returns the parser registered for the tool.
func GetParser(name string) (ParserFunc, bool) {
	parserMu.RLock()
	defer parserMu.RUnlock()
	p, ok := parsers[name]
	return p, ok
}

// RegisterParser installs a parser for a tool name, replacing any
// existing one. Use this when registering custom tools.
func RegisterParser(name string, p ParserFunc) {
	parserMu.Lock()
	defer parserMu.Unlock()
	parsers[name] = p
}

// =============================================================================
// FLAKE8
// =============================================================================

// parseFlake8Output parses the default flake8 text format:
//
//	path:line:col: CODE message
func parseFlake8Output(data []byte) ([]issue.Issue, error) {
	var issues []issue.Issue
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, ":", 4)
		if len(parts) != 4 {
			continue
		}
		lineNum, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		colNum, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			continue
		}

		code, msg, found := strings.Cut(strings.TrimSpace(parts[3]), " ")
		if !found {
			code = strings.TrimSpace(parts[3])
		}
		if code == "" {
			continue
		}

		issues = append(issues, issue.Issue{
			Line:     lineNum,
			Column:   colNum,
			Message:  strings.TrimSpace(msg),
			Code:     code,
			Severity: flake8Severity(code),
			Source:   "flake8",
		})
	}
	return issues, nil
}

// flake8Severity maps flake8 code prefixes onto severities. E9xx are
// syntax-level failures, F codes come from pyflakes (undefined names,
// unused imports), S codes come from the bandit plugin.
func flake8Severity(code string) issue.Severity {
	switch {
	case strings.HasPrefix(code, "E9"):
		return issue.SeverityError
	case strings.HasPrefix(code, "F"):
		return issue.SeverityError
	case strings.HasPrefix(code, "S"):
		return issue.SeverityError
	case strings.HasPrefix(code, "E"):
		return issue.SeverityWarning
	case strings.HasPrefix(code, "W"):
		return issue.SeverityInfo
	case strings.HasPrefix(code, "C"):
		return issue.SeverityInfo
	default:
		return issue.SeverityWarning
	}
}

// =============================================================================
// MYPY
// =============================================================================

// parseMypyOutput parses mypy text output:
//
//	path:line: severity: message [error-code]
//
// The trailing bracketed code appears with --show-error-codes; lines
// without one get the code "mypy".
func parseMypyOutput(data []byte) ([]issue.Issue, error) {
	var issues []issue.Issue
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, ":", 3)
		if len(parts) != 3 {
			continue
		}
		lineNum, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}

		sevStr, msg, found := strings.Cut(strings.TrimSpace(parts[2]), ": ")
		if !found {
			continue
		}

		code := "mypy"
		if idx := strings.LastIndex(msg, " ["); idx >= 0 && strings.HasSuffix(msg, "]") {
			code = msg[idx+2 : len(msg)-1]
			msg = msg[:idx]
		}

		issues = append(issues, issue.Issue{
			Line:     lineNum,
			Message:  strings.TrimSpace(msg),
			Code:     code,
			Severity: issue.SeverityFromString(strings.TrimSpace(sevStr)),
			Source:   "mypy",
		})
	}
	return issues, nil
}

// =============================================================================
// PYLINT
// =============================================================================

// parsePylintOutput parses pylint run with the message template
// "{msg_id},{line},{column}: {msg}":
//
//	C0114,1,0: Missing module docstring
func parsePylintOutput(data []byte) ([]issue.Issue, error) {
	var issues []issue.Issue
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		head, msg, found := strings.Cut(line, ": ")
		if !found {
			continue
		}
		fields := strings.Split(head, ",")
		if len(fields) != 3 {
			continue
		}
		code := strings.TrimSpace(fields[0])
		if code == "" {
			continue
		}
		lineNum, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			continue
		}
		colNum, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			continue
		}

		issues = append(issues, issue.Issue{
			Line:     lineNum,
			Column:   colNum,
			Message:  strings.TrimSpace(msg),
			Code:     code,
			Severity: pylintSeverity(code),
			Source:   "pylint",
		})
	}
	return issues, nil
}

// pylintSeverity maps pylint message classes onto severities. The first
// letter of the message id encodes the class: C convention, R refactor,
// W warning, E error, F fatal.
func pylintSeverity(code string) issue.Severity {
	if code == "" {
		return issue.SeverityWarning
	}
	switch code[0] {
	case 'C', 'R', 'I':
		return issue.SeverityInfo
	case 'W':
		return issue.SeverityWarning
	case 'E':
		return issue.SeverityError
	case 'F':
		return issue.SeverityCritical
	default:
		return issue.SeverityWarning
	}
}

// =============================================================================
// BANDIT
// =============================================================================

type banditResult struct {
	LineNumber    int    `json:"line_number"`
	IssueText     string `json:"issue_text"`
	TestID        string `json:"test_id"`
	IssueSeverity string `json:"issue_severity"`
}

type banditOutput struct {
	Results []banditResult `json:"results"`
}

// parseBanditOutput parses bandit JSON output ({"results": [...]}).
// Bandit severities LOW, MEDIUM, and HIGH map to info, warning, and
// critical respectively.
func parseBanditOutput(data []byte) ([]issue.Issue, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var out banditOutput
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("decoding bandit output: %w", err)
	}

	issues := make([]issue.Issue, 0, len(out.Results))
	for _, res := range out.Results {
		code := res.TestID
		if code == "" {
			code = "bandit"
		}
		issues = append(issues, issue.Issue{
			Line:     res.LineNumber,
			Message:  res.IssueText,
			Code:     code,
			Severity: issue.SeverityFromString(strings.ToLower(res.IssueSeverity)),
			Source:   "bandit",
		})
	}
	return issues, nil
}

// =============================================================================
// ESLINT
// =============================================================================

type eslintSuggestion struct {
	Desc string `json:"desc"`
}

type eslintMessage struct {
	RuleID      string             `json:"ruleId"`
	Severity    int                `json:"severity"`
	Message     string             `json:"message"`
	Line        int                `json:"line"`
	Column      int                `json:"column"`
	Suggestions []eslintSuggestion `json:"suggestions"`
}

type eslintFile struct {
	FilePath string          `json:"filePath"`
	Messages []eslintMessage `json:"messages"`
}

// parseESLintOutput parses `eslint --format=json`: an array of file
// entries, each carrying a messages list. Severity 2 is an error,
// 1 a warning.
func parseESLintOutput(data []byte) ([]issue.Issue, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var files []eslintFile
	if err := json.Unmarshal(trimmed, &files); err != nil {
		return nil, fmt.Errorf("decoding eslint output: %w", err)
	}

	var issues []issue.Issue
	for _, file := range files {
		for _, msg := range file.Messages {
			code := msg.RuleID
			if code == "" {
				code = "eslint"
			}
			var sev issue.Severity
			switch msg.Severity {
			case 2:
				sev = issue.SeverityError
			case 1:
				sev = issue.SeverityWarning
			default:
				sev = issue.SeverityInfo
			}
			iss := issue.Issue{
				Line:     msg.Line,
				Column:   msg.Column,
				Message:  msg.Message,
				Code:     code,
				Severity: sev,
				Source:   "eslint",
			}
			if len(msg.Suggestions) > 0 {
				iss.Suggestion = msg.Suggestions[0].Desc
			}
			issues = append(issues, iss)
		}
	}
	return issues, nil
}
