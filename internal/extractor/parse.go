package extractor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parse decodes a JSON object into an Intro. Missing or null lists become
// empty lists and a lone string is accepted where a list is expected.
func Parse(text string) (Intro, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") && json.Valid([]byte(text)) {
		return Intro{}, ErrNotObject
	}

	var intro Intro
	if err := json.Unmarshal([]byte(text), &intro); err != nil {
		return Intro{}, err
	}
	if intro.empty() {
		return Intro{}, ErrEmptyIntro
	}
	return intro, nil
}

func (i *Intro) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name      string          `json:"name"`
		Projects  json.RawMessage `json:"projects"`
		Expertise json.RawMessage `json:"expertise"`
		GitHub    string          `json:"github"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	projects, err := stringList(raw.Projects)
	if err != nil {
		return fmt.Errorf("projects: %w", err)
	}
	expertise, err := stringList(raw.Expertise)
	if err != nil {
		return fmt.Errorf("expertise: %w", err)
	}

	*i = Intro{
		Name:      strings.TrimSpace(raw.Name),
		Projects:  projects,
		Expertise: expertise,
		GitHub:    strings.TrimSpace(raw.GitHub),
	}
	return nil
}

func stringList(raw json.RawMessage) ([]string, error) {
	list := []string{}
	if len(raw) == 0 || string(raw) == "null" {
		return list, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
		return list, nil
	}

	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

func (i Intro) empty() bool {
	return i.Name == "" && len(i.Projects) == 0 && len(i.Expertise) == 0 && i.GitHub == ""
}
