package transcript

import (
	"regexp"
	"strings"
)

var (
	// :tada: 3
	reactionRe   = regexp.MustCompile(`:[^:\s]+:[ \t]*\d*`)
	blankRunRe   = regexp.MustCompile(`\n\s*\n+`)
	editMarkerRe = regexp.MustCompile(`（編集済み）|\(編集済み\)|\(edited\)`)
)

// Clean strips reactions, link unfurls and edit markers from a post and
// collapses blank-line runs. It never fails; odd input is passed through.
func Clean(post string) string {
	post = reactionRe.ReplaceAllString(post, "")
	post = dropLinkPreviews(post)
	post = blankRunRe.ReplaceAllString(post, "\n\n")
	post = editMarkerRe.ReplaceAllString(post, "")
	// A marker on a line of its own leaves a blank run behind.
	post = blankRunRe.ReplaceAllString(post, "\n\n")
	return strings.TrimSpace(post)
}

// dropLinkPreviews keeps each URL line and drops the unfurl that Slack
// pastes after it, up to the next URL or numbered answer line.
func dropLinkPreviews(post string) string {
	lines := strings.Split(post, "\n")
	kept := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		kept = append(kept, lines[i])
		if !isURLLine(lines[i]) {
			continue
		}
		j := i + 1
		for j < len(lines) && !isURLLine(lines[j]) && !isNumberedLine(lines[j]) {
			j++
		}
		i = j - 1
	}

	return strings.Join(kept, "\n")
}

func isURLLine(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://")
}

// isNumberedLine matches answers to the four template questions,
// written with half- or full-width digits.
func isNumberedLine(line string) bool {
	line = strings.TrimSpace(line)
	for _, prefix := range []string{"1", "2", "3", "4", "１", "２", "３", "４"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
