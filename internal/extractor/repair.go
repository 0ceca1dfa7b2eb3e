package extractor

import (
	"encoding/json"
	"regexp"
	"strings"
)

// quotedKeyRe matches a member line whose key is already quoted.
var quotedKeyRe = regexp.MustCompile(`^"((?:[^"\\]|\\.)*)"\s*:`)

type lineKind int

const (
	lineOther lineKind = iota
	lineMember
	lineElement
	lineClose
)

// RepairJSON makes one best-effort pass over near-JSON a model produced:
// it restores the outer braces, quotes bare keys and bare word values,
// and inserts the commas between members and list elements that the
// model dropped. The result is not guaranteed to parse.
func RepairJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "{")
	text = strings.TrimSuffix(text, "}")

	lines := []string{"{"}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	lines = append(lines, "}")

	kinds := make([]lineKind, len(lines))
	for i := 1; i < len(lines)-1; i++ {
		lines[i], kinds[i] = fixMember(lines[i])
	}

	for i := 1; i < len(lines)-1; i++ {
		line, next := lines[i], lines[i+1]
		switch {
		case closesBlock(next):
			// Strict JSON has no trailing commas.
			lines[i] = strings.TrimSuffix(line, ",")
		case kinds[i] == lineOther, endsOpen(line):
		case kinds[i] == lineMember && opensBlock(next):
		default:
			lines[i] = line + ","
		}
	}

	return strings.Join(lines, "\n")
}

// fixMember quotes the key of a "key: value" line and, when the value is a
// bare word, the value too. Other lines are classified and left alone.
func fixMember(line string) (string, lineKind) {
	switch {
	case closesBlock(line):
		return line, lineClose
	case opensBlock(line):
		return line, lineOther
	}

	if strings.HasPrefix(line, `"`) {
		loc := quotedKeyRe.FindStringSubmatchIndex(line)
		if loc == nil {
			return line, lineElement
		}
		key := line[loc[2]:loc[3]]
		return `"` + key + `": ` + quoteValue(line[loc[1]:]), lineMember
	}

	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return line, lineOther
	}
	key = strings.Trim(strings.TrimSpace(key), `"'`)
	return quoteString(key) + ": " + quoteValue(value), lineMember
}

// quoteValue leaves JSON values and block openers as they are and turns
// anything else into a JSON string.
func quoteValue(value string) string {
	value = strings.TrimSpace(value)
	comma := strings.HasSuffix(value, ",")
	v := strings.TrimSpace(strings.TrimSuffix(value, ","))

	switch {
	case v == "":
		return value
	case strings.HasPrefix(v, `"`), opensBlock(v):
		return value
	case json.Valid([]byte(v)):
		return value
	}

	if len(v) >= 2 && strings.HasPrefix(v, "'") && strings.HasSuffix(v, "'") {
		v = v[1 : len(v)-1]
	}
	v = quoteString(v)
	if comma {
		v += ","
	}
	return v
}

func quoteString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `"` + s + `"`
	}
	return string(b)
}

func opensBlock(line string) bool {
	return strings.HasPrefix(line, "{") || strings.HasPrefix(line, "[")
}

func closesBlock(line string) bool {
	return strings.HasPrefix(line, "}") || strings.HasPrefix(line, "]")
}

func endsOpen(line string) bool {
	for _, suffix := range []string{",", "{", "[", ":"} {
		if strings.HasSuffix(line, suffix) {
			return true
		}
	}
	return false
}
