package render

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang, file := splitInfo(string(n.Language(source)))

	if lang == "mermaid" {
		_, _ = w.WriteString(`<pre class="mermaid">`)
		writeLines(w, source, n)
		_, _ = w.WriteString("</pre>\n")
		return ast.WalkSkipChildren, nil
	}

	if file != "" {
		_, _ = w.WriteString(`<figure class="code"><figcaption>`)
		_, _ = w.Write(util.EscapeHTML([]byte(file)))
		_, _ = w.WriteString("</figcaption>")
	}
	_, _ = w.WriteString("<pre><code")
	if lang != "" {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML([]byte(lang)))
		_, _ = w.WriteString(`"`)
	}
	_, _ = w.WriteString(">")
	writeLines(w, source, n)
	_, _ = w.WriteString("</code></pre>")
	if file != "" {
		_, _ = w.WriteString("</figure>")
	}
	_, _ = w.WriteString("\n")
	return ast.WalkSkipChildren, nil
}

func writeLines(w util.BufWriter, source []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
}

// splitInfo splits a fence info word like "go:cmd/main.go" into language and file path.
func splitInfo(info string) (lang, file string) {
	lang, file, _ = strings.Cut(info, ":")
	return strings.ToLower(strings.TrimSpace(lang)), strings.TrimSpace(file)
}
