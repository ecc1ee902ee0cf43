// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package complexity

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

const maxWalkDepth = 1000

// pyDecisionPattern matches Python decision tokens. Longer alternatives
// come first so elif does not shadow-match as if.
var pyDecisionPattern = regexp.MustCompile(`\b(elif|if|for|while|and|or|except)\b`)

func countPyDecisions(line string) int {
	return len(pyDecisionPattern.FindAllString(line, -1))
}

// pythonFunctions extracts function spans and the class count from a real
// parse tree. Partial trees are walked as far as they go; a failed parse
// yields no spans rather than an error.
func pythonFunctions(ctx context.Context, code string) ([]FunctionMetrics, int) {
	content := []byte(strings.ToValidUTF8(code, "�"))

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil || tree == nil {
		return nil, 0
	}
	defer tree.Close()

	lines := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
	var fns []FunctionMetrics
	classes := 0

	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		if depth > maxWalkDepth {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}
			switch child.Type() {
			case "function_definition":
				fns = append(fns, pyFunctionMetrics(child, content, lines))
				if body := child.ChildByFieldName("body"); body != nil {
					walk(body, depth+1)
				}
			case "class_definition":
				classes++
				if body := child.ChildByFieldName("body"); body != nil {
					walk(body, depth+1)
				}
			default:
				walk(child, depth+1)
			}
		}
	}
	walk(tree.RootNode(), 0)
	return fns, classes
}

func pyFunctionMetrics(node *sitter.Node, content []byte, lines []string) FunctionMetrics {
	name := "<anonymous>"
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		name = string(content[nameNode.StartByte():nameNode.EndByte()])
	}
	start := int(node.StartPoint().Row) + 1
	end := int(node.EndPoint().Row) + 1
	return FunctionMetrics{
		Name:       name,
		StartLine:  start,
		EndLine:    end,
		Length:     end - start + 1,
		Complexity: spanComplexity(lines, start, end, countPyDecisions),
	}
}
