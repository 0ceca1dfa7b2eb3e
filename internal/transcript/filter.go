package transcript

import (
	"regexp"
	"strings"
)

// JoinNotice is the system line Slack posts when someone joins the
// introductions channel.
const JoinNotice = "#1_自己紹介 に参加しました"

var (
	firstItemRe = regexp.MustCompile(`[１1２2]\.`)
	thirdItemRe = regexp.MustCompile(`[３3]\.`)
)

// IsIntroduction reports whether a post looks like a self-introduction:
// it names the author, answers the first and third template questions,
// and is not the channel join notice.
func IsIntroduction(post string) bool {
	hasName := strings.Contains(post, "名前") || strings.Contains(post, "：")
	hasFirst := firstItemRe.MatchString(post) ||
		strings.Contains(post, "興味") || strings.Contains(post, "プロジェクト")
	hasThird := thirdItemRe.MatchString(post) || strings.Contains(post, "得意")

	if !hasName || !hasFirst || !hasThird {
		return false
	}
	return !isJoinNotice(post)
}

func isJoinNotice(post string) bool {
	for _, line := range strings.Split(post, "\n") {
		if strings.TrimSpace(line) == JoinNotice {
			return true
		}
	}
	return false
}

// FilterIntroductions keeps the posts accepted by IsIntroduction, in order.
func FilterIntroductions(posts []string) []string {
	var out []string
	for _, p := range posts {
		if IsIntroduction(p) {
			out = append(out, p)
		}
	}
	return out
}
