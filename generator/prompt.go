package generator

import (
	"fmt"
	"strings"

	"yt2tutorial/video"
)

// ContinuityChars is how much of the already written tutorial is shown to the next section.
const ContinuityChars = 500

// skipMarker is what the model may answer for a section the video has nothing to say about.
const skipMarker = "SKIP"

// Prompt 表示发送给 LLM 的一次请求。
type Prompt struct {
	System     string
	User       string
	Generation GenerationConfig
	Safety     []SafetySetting
}

const sectionSystem = `You are a professional technical writer turning a YouTube video into one part of a long-form Markdown tutorial.
Output Markdown only, without any preamble or closing remarks.
Formatting rules:
- Do not repeat the section title; the caller adds it. Use ### and #### for headings inside the section.
- Put code in fenced blocks tagged with language and file path, e.g. ` + "```go:cmd/server/main.go" + `.
- Use > blockquotes for warnings, notes and tips.
- Use ` + "```mermaid" + ` blocks for architecture and flow diagrams where they help.
- Use numbered lists for steps and tables to compare options.`

// BuildSectionPrompt 生成单个章节的提示词；previous 为已写好的教程，只发送其末尾部分。
func BuildSectionPrompt(meta video.Metadata, links []string, section Section, previous string) Prompt {
	var sb strings.Builder
	writeVideoDetails(&sb, meta, links)

	if section.IsImplementationGuide() {
		sb.WriteString(fmt.Sprintf("Write the %q section of the tutorial.\n", section.Title))
		sb.WriteString("Cover every one of the following parts exhaustively, in this order:\n")
		for i, sub := range section.Subsections {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, sub))
		}
		sb.WriteString("Show complete, working code for each step and explain every change.\n")
		sb.WriteString(fmt.Sprintf("This section is mandatory: never answer %s, even if the video only touches on the implementation.\n", skipMarker))
	} else {
		sb.WriteString(fmt.Sprintf("Write the %q section of the tutorial.\n", section.Title))
		sb.WriteString(fmt.Sprintf("If the video contains nothing relevant to this section, answer with exactly %s.\n", skipMarker))
	}

	if excerpt := trailingExcerpt(previous, ContinuityChars); excerpt != "" {
		sb.WriteString("\nThe tutorial so far ends with the text below. Continue from it without repeating or contradicting it:\n")
		sb.WriteString("<<<\n")
		sb.WriteString(excerpt)
		sb.WriteString("\n>>>\n")
	}

	return Prompt{
		System:     sectionSystem,
		User:       sb.String(),
		Generation: sectionGeneration,
		Safety:     permissiveSafety(),
	}
}

// BuildFallbackPrompt 生成整篇教程的兜底提示词。
func BuildFallbackPrompt(meta video.Metadata, links []string) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a professional technical writer creating a high-quality Medium blog post.\n")
	sb.WriteString("Create a comprehensive, visually engaging tutorial that explains concepts thoroughly with diagrams, code examples, and clear explanations.\n\n")
	writeVideoDetails(&sb, meta, links)
	sb.WriteString(fallbackRequirements)

	return Prompt{
		User:       sb.String(),
		Generation: fallbackGeneration,
		Safety:     permissiveSafety(),
	}
}

func writeVideoDetails(sb *strings.Builder, meta video.Metadata, links []string) {
	sb.WriteString("VIDEO DETAILS:\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", meta.Title))
	sb.WriteString(fmt.Sprintf("Description: %s\n", meta.Description))
	sb.WriteString(fmt.Sprintf("Transcript: %s\n", meta.Transcript))
	if len(links) > 0 {
		sb.WriteString("\nGitHub Repositories:\n")
		for _, l := range links {
			sb.WriteString(l)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
}

// trailingExcerpt returns the last n runes of s, trimmed.
func trailingExcerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > n {
		r = r[len(r)-n:]
	}
	return strings.TrimSpace(string(r))
}

const fallbackRequirements = `Create a tutorial following these requirements:

1. Introduction: a subtitle, estimated reading time and difficulty level, the real-world problem
   being solved and what readers will build. Do not write a top-level # title; it is added for you.
2. Prerequisites and Setup: required tools with exact versions, environment setup commands,
   the directory structure and a quick setup script if applicable.
3. Concept Visualization: Mermaid diagrams for the architecture, data flow and process flow, e.g.
` + "```mermaid\ngraph TD\n  A[Start] --> B{Process}\n  B --> C[Result]\n```" + `
4. Step-by-Step Implementation: for each step its objective, an explanation, a complete code snippet
   with its file name, a line-by-line explanation, the expected output and common errors.
5. Code Snippets Format: fenced blocks tagged ` + "```language:filename.ext" + ` with inline comments.
6. Visual Learning Aids: console output examples, before/after comparisons, warning and info boxes.
7. Best Practices and Tips: performance, security, debugging strategies and pitfalls to avoid.
8. Conclusion and Next Steps: key learnings, advanced topics, resource links and practice exercises.

Markdown formatting: proper heading hierarchy (##, ###, ####), code blocks with language and file name,
blockquotes for important notes, numbered lists for steps, tables for comparing options.
Reference the GitHub code when available. Ensure all code snippets are complete and functional.
Output Markdown only.
`
