package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLMermaid(t *testing.T) {
	out, err := HTML("# Title\n\n```mermaid\ngraph TD\n  A --> B\n```\n")
	require.NoError(t, err)
	assert.Contains(t, out, `<pre class="mermaid">graph TD
  A --&gt; B
</pre>`)
	assert.NotContains(t, out, "<code")
}

func TestHTMLCodeBlockWithFile(t *testing.T) {
	out, err := HTML("```go:cmd/app/main.go\nfmt.Println(\"<hi>\")\n```\n")
	require.NoError(t, err)
	assert.Contains(t, out, `<figure class="code"><figcaption>cmd/app/main.go</figcaption><pre><code class="language-go">`)
	assert.Contains(t, out, `fmt.Println(&quot;&lt;hi&gt;&quot;)`)
	assert.Contains(t, out, `</code></pre></figure>`)
}

func TestHTMLPlainCodeBlock(t *testing.T) {
	out, err := HTML("```\nls -la\n```\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<pre><code>ls -la\n</code></pre>")
	assert.NotContains(t, out, "figure")
}

func TestHTMLGFM(t *testing.T) {
	out, err := HTML("| a | b |\n|---|---|\n| 1 | 2 |\n\n- [x] done\n\n> warning\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, `type="checkbox"`)
	assert.Contains(t, out, "<blockquote>")
}

func TestHTMLDropsRawHTML(t *testing.T) {
	out, err := HTML("<script>alert(1)</script>\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestOutline(t *testing.T) {
	doc := "# Introduction and Project Overview\n\nText\n\n### Goals\n\n```md\n# not a heading\n```\n\n## Implementation Guide\n\nMore `code`\n"
	got := Outline(doc)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].Level)
	assert.Equal(t, "Introduction and Project Overview", got[0].Text)
	assert.Equal(t, "introduction-and-project-overview", got[0].ID)
	assert.Equal(t, Heading{Level: 3, Text: "Goals", ID: "goals"}, got[1])
	assert.Equal(t, 2, got[2].Level)
	assert.Equal(t, "Implementation Guide", got[2].Text)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Build a CLI", Title("intro\n\n# Build a CLI\n\n## Setup\n"))
	assert.Equal(t, "", Title("## Only second level\n"))
}

func TestSplitInfo(t *testing.T) {
	tests := []struct {
		info, lang, file string
	}{
		{"go:main.go", "go", "main.go"},
		{"Python", "python", ""},
		{"", "", ""},
		{"yaml:deploy/k8s.yaml", "yaml", "deploy/k8s.yaml"},
	}
	for _, tt := range tests {
		lang, file := splitInfo(tt.info)
		assert.Equal(t, tt.lang, lang, tt.info)
		assert.Equal(t, tt.file, file, tt.info)
	}
}

func TestPage(t *testing.T) {
	page, err := Page("# Build & Test\n\n```mermaid\ngraph TD\n  A-->B\n```\n")
	require.NoError(t, err)
	assert.Contains(t, page, "<title>Build &amp; Test</title>")
	assert.Contains(t, page, `<pre class="mermaid">`)
	assert.Contains(t, page, "mermaid.initialize")

	page, err = Page("no heading here")
	require.NoError(t, err)
	assert.Contains(t, page, "<title>Tutorial</title>")
}
