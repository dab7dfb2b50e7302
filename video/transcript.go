package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/asticode/go-astisub"
)

const defaultWatchBase = "https://www.youtube.com"

// Fragment is one caption cue.
type Fragment struct {
	Text     string
	Offset   time.Duration
	Duration time.Duration
}

// TranscriptSource fetches the caption fragments of a video.
type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string) ([]Fragment, error)
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// WatchPageTranscripts reads caption tracks from the public watch page and downloads the
// chosen track as WebVTT.
type WatchPageTranscripts struct {
	BaseURL   string
	Languages []string
	Client    *http.Client
}

// NewWatchPageTranscripts returns a client for youtube.com preferring the given languages.
func NewWatchPageTranscripts(languages []string) *WatchPageTranscripts {
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	return &WatchPageTranscripts{
		BaseURL:   defaultWatchBase,
		Languages: languages,
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *WatchPageTranscripts) Fetch(ctx context.Context, videoID string) ([]Fragment, error) {
	page, err := w.get(ctx, strings.TrimRight(w.BaseURL, "/")+"/watch?v="+url.QueryEscape(videoID), 6<<20)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	tracks, err := parseCaptionTracks(page)
	if err != nil {
		return nil, err
	}
	track := pickTrack(tracks, w.Languages)

	vttURL, err := withVTTFormat(track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("caption url: %w", err)
	}
	body, err := w.get(ctx, vttURL, 4<<20)
	if err != nil {
		return nil, fmt.Errorf("captions: %w", err)
	}
	subs, err := astisub.ReadFromWebVTT(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse webvtt: %w", err)
	}

	fragments := make([]Fragment, 0, len(subs.Items))
	for _, item := range subs.Items {
		var parts []string
		for _, line := range item.Lines {
			for _, li := range line.Items {
				if text := strings.TrimSpace(li.Text); text != "" {
					parts = append(parts, text)
				}
			}
		}
		if len(parts) == 0 {
			continue
		}
		fragments = append(fragments, Fragment{
			Text:     strings.Join(parts, " "),
			Offset:   item.StartAt,
			Duration: item.EndAt - item.StartAt,
		})
	}
	if len(fragments) == 0 {
		return nil, errors.New("no transcript fragments")
	}
	return fragments, nil
}

func (w *WatchPageTranscripts) get(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")

	client := w.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

const captionTracksMarker = `"captionTracks":`

func parseCaptionTracks(page []byte) ([]captionTrack, error) {
	idx := bytes.Index(page, []byte(captionTracksMarker))
	if idx < 0 {
		return nil, errors.New("no captions on watch page")
	}
	raw := extractJSONArray(page[idx+len(captionTracksMarker):])
	if raw == nil {
		return nil, errors.New("malformed captionTracks")
	}
	var tracks []captionTrack
	if err := json.Unmarshal(raw, &tracks); err != nil {
		return nil, fmt.Errorf("decode captionTracks: %w", err)
	}
	if len(tracks) == 0 {
		return nil, errors.New("no caption tracks")
	}
	return tracks, nil
}

// extractJSONArray returns the balanced JSON array at the start of data, or nil.
func extractJSONArray(data []byte) []byte {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 || data[0] != '[' {
		return nil
	}
	depth := 0
	inString := false
	escaped := false
	for i, c := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return data[:i+1]
			}
		}
	}
	return nil
}

// pickTrack prefers a manual track in a wanted language, then an auto-generated one, then any
// English track, then whatever comes first.
func pickTrack(tracks []captionTrack, langs []string) captionTrack {
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t
			}
		}
	}
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return t
			}
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t
		}
	}
	return tracks[0]
}

func withVTTFormat(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("fmt", "vtt")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
