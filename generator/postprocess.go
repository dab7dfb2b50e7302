package generator

import (
	"strings"
)

// document 累积已采纳的章节，只有第一个章节使用一级标题。
type document struct {
	sb       strings.Builder
	sections int
}

func (d *document) appendSection(title, content string) {
	content = strings.TrimSpace(content)
	if d.sections == 0 {
		d.sb.WriteString("# " + title + "\n\n" + content)
	} else {
		d.sb.WriteString("\n\n## " + title + "\n\n" + content)
	}
	d.sections++
}

func (d *document) empty() bool { return d.sections == 0 }

func (d *document) String() string { return d.sb.String() }

// accepted 判断内容是否保留：过短视为模型放弃该章节；Implementation Guide 总是保留。
func accepted(section Section, content string, minChars int) bool {
	return section.IsImplementationGuide() || len([]rune(strings.TrimSpace(content))) > minChars
}

// 摘要取首段（跳过标题、代码块和引用）。
func extractDigest(md string) string {
	lines := strings.Split(md, "\n")
	var b strings.Builder
	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ">") {
			if b.Len() > 0 {
				break
			}
			continue
		}
		if trimmed == "" {
			if b.Len() > 0 {
				break
			}
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(trimmed)
	}
	return b.String()
}

func defaultDigest(md string, limit int) string {
	compact := strings.Fields(md)
	joined := strings.Join(compact, " ")
	r := []rune(joined)
	if len(r) <= limit {
		return joined
	}
	return string(r[:limit])
}

// Digest 返回教程首段，截断到 limit 个字符。
func Digest(md string, limit int) string {
	digest := extractDigest(md)
	if digest == "" {
		return ""
	}
	return defaultDigest(digest, limit)
}
