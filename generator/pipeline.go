package generator

import (
	"context"
	"errors"
	"log/slog"

	"yt2tutorial/video"
)

// MetadataFetcher loads the details of a video by id.
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoID string) (video.Metadata, error)
}

// Pipeline turns a YouTube URL into a tutorial.
type Pipeline struct {
	fetcher MetadataFetcher
	agent   *Agent
	logger  *slog.Logger
}

func NewPipeline(fetcher MetadataFetcher, agent *Agent, logger *slog.Logger) (*Pipeline, error) {
	if fetcher == nil {
		return nil, errors.New("metadata fetcher is required")
	}
	if agent == nil {
		return nil, errors.New("generator agent is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{fetcher: fetcher, agent: agent, logger: logger.With("component", "pipeline")}, nil
}

// Run resolves rawURL, fetches the video and generates the tutorial, reporting progress to obs.
// Metadata failures abort before any model call.
func (p *Pipeline) Run(ctx context.Context, rawURL string, obs Observer) (*Tutorial, error) {
	videoID, err := video.ParseID(rawURL)
	if err != nil {
		return nil, err
	}
	logger := p.logger.With(slog.String("video_id", videoID))

	meta, err := p.fetcher.Fetch(ctx, videoID)
	if err != nil {
		logger.Warn("fetch video details failed", slog.Any("error", err))
		return nil, err
	}
	links := video.ExtractGithubLinks(meta.Description)
	logger.Info("video details fetched",
		slog.String("title", meta.Title),
		slog.Int("links", len(links)),
		slog.Bool("transcript", meta.Transcript != video.TranscriptUnavailable))

	tutorial, err := p.agent.Generate(ctx, meta, links, obs)
	if err != nil {
		return nil, err
	}
	tutorial.VideoID = videoID
	return tutorial, nil
}
