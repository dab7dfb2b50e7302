package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt2tutorial/apperr"
)

func TestParseID(t *testing.T) {
	const want = "dQw4w9WgXcQ"
	tests := []struct {
		name string
		url  string
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"watch without scheme", "youtube.com/watch?v=dQw4w9WgXcQ"},
		{"watch with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s"},
		{"v param not first", "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ"},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"v path", "https://www.youtube.com/v/dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ"},
		{"short link with query", "https://youtu.be/dQw4w9WgXcQ?si=abc"},
		{"mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"surrounding whitespace", "  https://youtu.be/dQw4w9WgXcQ \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseIDInvalid(t *testing.T) {
	tests := []string{
		"",
		"not a url",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"https://vimeo.com/123456789",
		"https://www.youtube.com/watch?v=short",
		"https://youtu.be/",
	}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseID(raw)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.InvalidInput))
			assert.Equal(t, "Invalid YouTube URL", err.Error())
		})
	}
}
