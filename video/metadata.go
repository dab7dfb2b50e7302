package video

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"yt2tutorial/apperr"
)

// TranscriptUnavailable replaces the transcript whenever it cannot be fetched.
const TranscriptUnavailable = "Transcript not available for this video."

// Metadata is everything the generator is told about a video.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Transcript  string `json:"transcript"`
}

// FetcherConfig configures the YouTube Data API client.
type FetcherConfig struct {
	APIKey string
	// Endpoint overrides the API base URL, mainly for tests.
	Endpoint string
}

// Fetcher loads video details from the YouTube Data API and the transcript from a TranscriptSource.
type Fetcher struct {
	svc         *youtube.Service
	transcripts TranscriptSource
	logger      *slog.Logger
}

// NewFetcher fails with a configuration error when no API key is set.
func NewFetcher(ctx context.Context, cfg FetcherConfig, transcripts TranscriptSource, logger *slog.Logger) (*Fetcher, error) {
	if cfg.APIKey == "" {
		return nil, apperr.New(apperr.Configuration, "YouTube API key is not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, apperr.Wrap(apperr.Configuration, "youtube client: "+err.Error(), err)
	}
	return &Fetcher{svc: svc, transcripts: transcripts, logger: logger.With("component", "fetcher")}, nil
}

// Fetch returns the video's title, description and transcript. A missing transcript is not an
// error: the transcript is replaced by TranscriptUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (Metadata, error) {
	var (
		snippet    *youtube.VideoSnippet
		transcript string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := f.snippet(gctx, videoID)
		snippet = s
		return err
	})
	g.Go(func() error {
		transcript = f.transcript(gctx, videoID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Metadata{}, err
	}

	return Metadata{
		Title:       snippet.Title,
		Description: snippet.Description,
		Transcript:  transcript,
	}, nil
}

func (f *Fetcher) snippet(ctx context.Context, videoID string) (*youtube.VideoSnippet, error) {
	resp, err := f.svc.Videos.List([]string{"snippet", "contentDetails"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		msg := err.Error()
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Message != "" {
			msg = gerr.Message
		}
		return nil, apperr.Wrap(apperr.Upstream, "Failed to fetch video details: "+msg, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, apperr.New(apperr.NotFound, "Video not found")
	}
	return resp.Items[0].Snippet, nil
}

func (f *Fetcher) transcript(ctx context.Context, videoID string) string {
	if f.transcripts == nil {
		return TranscriptUnavailable
	}
	fragments, err := f.transcripts.Fetch(ctx, videoID)
	if err != nil {
		f.logger.Warn("Failed to fetch transcript", slog.String("video_id", videoID), slog.Any("error", err))
		return TranscriptUnavailable
	}
	texts := make([]string, 0, len(fragments))
	for _, fr := range fragments {
		texts = append(texts, fr.Text)
	}
	joined := strings.Join(texts, "\n")
	if strings.TrimSpace(joined) == "" {
		f.logger.Warn("Empty transcript", slog.String("video_id", videoID))
		return TranscriptUnavailable
	}
	return joined
}
