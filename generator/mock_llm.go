package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var sectionNameRE = regexp.MustCompile(`Write the "([^"]+)" section`)

// MockLLM 一个简单的占位实现，便于本地调试 UI，不调用外部模型。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	title := "the whole tutorial"
	if match := sectionNameRE.FindStringSubmatch(prompt.User); len(match) == 2 {
		title = match[1]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("This part covers %s. It was produced locally without calling a model, ", strings.ToLower(title)))
	sb.WriteString("so it only shows how the final document is laid out.\n\n")
	sb.WriteString("### Example\n\n")
	sb.WriteString("```go:main.go\n")
	sb.WriteString("package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}\n")
	sb.WriteString("```\n\n")
	sb.WriteString("> Note: switch the llm provider to gemini or openai to generate real content.\n\n")
	sb.WriteString("```mermaid\ngraph TD\n  A[Video] --> B[Transcript]\n  B --> C[Tutorial]\n```\n")
	return sb.String(), nil
}
