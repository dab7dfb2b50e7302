// Package video resolves YouTube URLs and gathers what the generator needs to know about a video:
// its title, description, transcript and the repositories linked from the description.
package video

import (
	"regexp"
	"strings"

	"yt2tutorial/apperr"
)

var videoIDRE = regexp.MustCompile(`(?:youtube\.com/(?:[^/\n\s]+/\s*(?:\w*/)*|(?:v|e(?:mbed)?)/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// ParseID extracts the 11-character video id from watch, embed, /v/ and youtu.be URLs.
func ParseID(raw string) (string, error) {
	m := videoIDRE.FindStringSubmatch(strings.TrimSpace(raw))
	if len(m) < 2 {
		return "", apperr.New(apperr.InvalidInput, "Invalid YouTube URL")
	}
	return m[1], nil
}
