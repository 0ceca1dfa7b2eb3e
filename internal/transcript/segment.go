// Package transcript turns a copy-pasted Slack channel export into cleaned
// self-introduction posts.
package transcript

import (
	"regexp"
	"strings"
)

// boundaryRe matches the markers Slack leaves between posts when a channel is
// copied: an indented "H:MM" timestamp line or the "New" unread divider.
var boundaryRe = regexp.MustCompile(`\n\s*\d{1,2}:\d{2}|\n\s*New\s*\n`)

// Segment splits a transcript into candidate posts in transcript order.
// Markers are consumed as separators. Blank fragments are dropped, so a
// transcript without markers yields at most one post.
func Segment(text string) []string {
	var posts []string
	flush := func(part string) {
		if p := strings.TrimSpace(part); p != "" {
			posts = append(posts, p)
		}
	}

	start := 0
	for _, loc := range boundaryRe.FindAllStringIndex(text, -1) {
		flush(text[start:loc[0]])
		start = loc[1]
	}
	flush(text[start:])

	return posts
}
