package generator

// Section 是章节计划中的一项。
type Section struct {
	Title       string   `json:"title"`
	Subsections []string `json:"subsections,omitempty"`
	Completed   bool     `json:"completed"`
}

// IsImplementationGuide reports whether s is the section whose output is always kept.
func (s Section) IsImplementationGuide() bool {
	return s.Title == implementationGuideTitle
}

// Tutorial 是一次生成请求的产出（Markdown 形式）。
type Tutorial struct {
	VideoID  string    `json:"video_id"`
	Title    string    `json:"title"`
	Markdown string    `json:"markdown"`
	Digest   string    `json:"digest"`
	Links    []string  `json:"links"`
	Sections []Section `json:"sections"`
	Fallback bool      `json:"fallback"`
}

// Progress is a single progress notification.
type Progress struct {
	Label   string `json:"label"`
	Percent int    `json:"percent"`
}
