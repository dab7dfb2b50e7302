package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"yt2tutorial/apperr"
	"yt2tutorial/video"
)

const (
	// DefaultMinSectionChars 可选章节的采纳阈值（字符数）。
	DefaultMinSectionChars = 100
	DefaultCallTimeout     = 3 * time.Minute

	digestLimit = 160
)

// Agent 负责逐章节调用模型并拼装教程。
type Agent struct {
	llm             LLMClient
	logger          *slog.Logger
	minSectionChars int
	callTimeout     time.Duration
	planner         func() []Section
}

type AgentOption func(*Agent)

func WithLogger(l *slog.Logger) AgentOption {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMinSectionChars 设置可选章节被保留所需的最少字符数。
func WithMinSectionChars(n int) AgentOption {
	return func(a *Agent) {
		if n >= 0 {
			a.minSectionChars = n
		}
	}
}

// WithCallTimeout bounds every model call.
func WithCallTimeout(d time.Duration) AgentOption {
	return func(a *Agent) {
		if d > 0 {
			a.callTimeout = d
		}
	}
}

// WithPlanner replaces the section plan.
func WithPlanner(p func() []Section) AgentOption {
	return func(a *Agent) {
		if p != nil {
			a.planner = p
		}
	}
}

func NewAgent(llm LLMClient, opts ...AgentOption) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	a := &Agent{
		llm:             llm,
		logger:          slog.Default(),
		minSectionChars: DefaultMinSectionChars,
		callTimeout:     DefaultCallTimeout,
		planner:         Plan,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "agent")
	return a, nil
}

// Generate 逐章节生成教程；若没有任何章节被采纳，则退回为一次整篇生成。obs 可为 nil。
func (a *Agent) Generate(ctx context.Context, meta video.Metadata, links []string, obs Observer) (*Tutorial, error) {
	if obs == nil {
		obs = Observers(nil)
	}
	sections := a.planner()
	n := len(sections)
	var doc document

	for i := range sections {
		sec := &sections[i]
		obs.Observe(Progress{Label: "Starting " + sec.Title + "...", Percent: percent(float64(i), n)})

		start := time.Now()
		content, err := a.complete(ctx, BuildSectionPrompt(meta, links, *sec, doc.String()))
		if err != nil {
			a.logger.Error("section failed", slog.String("section", sec.Title), slog.Any("error", err))
			return nil, err
		}

		if accepted(*sec, content, a.minSectionChars) {
			sec.Completed = true
			doc.appendSection(sec.Title, content)
		}
		a.logger.Info("section generated",
			slog.String("section", sec.Title),
			slog.Bool("accepted", sec.Completed),
			slog.Int("chars", len(content)),
			slog.Duration("elapsed", time.Since(start)))

		obs.Observe(Progress{Label: "Completed " + sec.Title, Percent: percent(float64(i)+0.9, n)})
	}

	fallback := doc.empty()
	if fallback {
		obs.Observe(Progress{Label: "Generating comprehensive tutorial...", Percent: 90})
		a.logger.Info("no section accepted, generating whole tutorial", slog.Int("sections", n))

		content, err := a.complete(ctx, BuildFallbackPrompt(meta, links))
		if err != nil {
			a.logger.Error("fallback failed", slog.Any("error", err))
			return nil, err
		}
		doc.appendSection(meta.Title, content)
		obs.Observe(Progress{Label: "Finalizing...", Percent: 95})
	}

	md := doc.String()
	tutorial := &Tutorial{
		Title:    meta.Title,
		Markdown: md,
		Digest:   Digest(md, digestLimit),
		Links:    links,
		Sections: sections,
		Fallback: fallback,
	}
	obs.Observe(Progress{Label: "Complete!", Percent: 100})
	return tutorial, nil
}

func (a *Agent) complete(ctx context.Context, prompt Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	text, err := a.llm.Complete(callCtx, prompt)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if apperr.KindOf(err) == apperr.Unknown {
		return "", apperr.Wrap(apperr.Upstream, fmt.Sprintf("LLM API Error: %v", err), err)
	}
	return "", err
}

// percent 把章节进度映射到 0..90。
func percent(step float64, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(step / float64(n) * 90))
}
