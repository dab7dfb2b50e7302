package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"yt2tutorial/config"
	"yt2tutorial/generator"
	"yt2tutorial/video"
)

var (
	configPath string
	verbose    bool
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "yt2tutorial",
		Short:         "Turn a YouTube coding video into a Markdown tutorial",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to config.json")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")
	cmd.AddCommand(serveCmd(), generateCmd())
	return cmd
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// app bundles what both commands need to run a generation request.
type app struct {
	pipeline *generator.Pipeline
	closers  []io.Closer
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func buildApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{}
	llm, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if c, ok := llm.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	agent, err := generator.NewAgent(llm,
		generator.WithLogger(logger),
		generator.WithMinSectionChars(cfg.SectionThreshold()),
		generator.WithCallTimeout(cfg.CallTimeout()),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	fetcher, err := video.NewFetcher(ctx, video.FetcherConfig{APIKey: cfg.YouTubeAPIKey},
		video.NewWatchPageTranscripts(cfg.TranscriptLanguages), logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.pipeline, err = generator.NewPipeline(fetcher, agent, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func buildLLM(ctx context.Context, cfg config.Config) (generator.LLMClient, error) {
	settings := &generator.LLMSettings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	}
	switch cfg.LLM.Provider {
	case "gemini":
		return generator.NewGeminiLLMFromConfig(ctx, settings)
	case "openai", "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url（例如官方/网关地址）。
		return generator.NewOpenAILLMFromConfig(settings)
	case "mock":
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
