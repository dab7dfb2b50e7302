package video

import "regexp"

var githubRE = regexp.MustCompile(`https://github\.com/[a-zA-Z0-9-]+/[a-zA-Z0-9-_.]+`)

// ExtractGithubLinks returns repository URLs in order of appearance. Duplicates are kept.
func ExtractGithubLinks(description string) []string {
	links := githubRE.FindAllString(description, -1)
	if links == nil {
		return []string{}
	}
	return links
}
