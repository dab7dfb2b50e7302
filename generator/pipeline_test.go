package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt2tutorial/apperr"
	"yt2tutorial/video"
)

type stubFetcher struct {
	meta  video.Metadata
	err   error
	calls []string
}

func (s *stubFetcher) Fetch(_ context.Context, id string) (video.Metadata, error) {
	s.calls = append(s.calls, id)
	return s.meta, s.err
}

func newTestPipeline(t *testing.T, f MetadataFetcher, llm LLMClient) *Pipeline {
	t.Helper()
	p, err := NewPipeline(f, newTestAgent(t, llm), nil)
	require.NoError(t, err)
	return p
}

func TestPipelineRun(t *testing.T) {
	f := &stubFetcher{meta: video.Metadata{
		Title:       "Build a CLI",
		Description: "See https://github.com/acme/widget and https://github.com/acme/widget",
		Transcript:  video.TranscriptUnavailable,
	}}
	llm := &scriptedLLM{responses: []string{long("intro"), long("setup"), long("impl"), long("tests")}}
	rec := &recorder{}

	tut, err := newTestPipeline(t, f, llm).Run(context.Background(), "https://youtu.be/dQw4w9WgXcQ", rec)
	require.NoError(t, err)

	assert.Equal(t, []string{"dQw4w9WgXcQ"}, f.calls)
	assert.Equal(t, "dQw4w9WgXcQ", tut.VideoID)
	assert.Equal(t, "Build a CLI", tut.Title)
	assert.Equal(t, []string{"https://github.com/acme/widget", "https://github.com/acme/widget"}, tut.Links)
	assert.Contains(t, llm.prompts[0].User, video.TranscriptUnavailable)
	assert.Equal(t, 100, rec.percents()[len(rec.events)-1])
}

func TestPipelineInvalidURL(t *testing.T) {
	f := &stubFetcher{}
	llm := &scriptedLLM{}

	_, err := newTestPipeline(t, f, llm).Run(context.Background(), "https://vimeo.com/1", nil)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
	assert.Empty(t, f.calls)
	assert.Equal(t, 0, llm.calls())
}

func TestPipelineNotFoundBeforeAnyModelCall(t *testing.T) {
	f := &stubFetcher{err: apperr.New(apperr.NotFound, "Video not found")}
	llm := &scriptedLLM{}
	rec := &recorder{}

	tut, err := newTestPipeline(t, f, llm).Run(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", rec)
	require.Error(t, err)
	assert.Nil(t, tut)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Equal(t, 0, llm.calls())
	assert.Empty(t, rec.events)
}

func TestNewPipelineValidates(t *testing.T) {
	_, err := NewPipeline(nil, nil, nil)
	assert.Error(t, err)
	_, err = NewPipeline(&stubFetcher{}, nil, nil)
	assert.Error(t, err)
}
