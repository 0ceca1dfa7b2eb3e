package runner

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormatSummary renders a run summary as Slack mrkdwn.
func FormatSummary(sum *Summary) string {
	var sb strings.Builder

	sb.WriteString("*Roster Run Summary*\n")
	if sum.Input != "" {
		fmt.Fprintf(&sb, "Transcript: %s\n", filepath.Base(sum.Input))
	}
	fmt.Fprintf(&sb, "Parsed %d/%d introductions", sum.Succeeded, sum.Total)
	if sum.Repaired > 0 {
		fmt.Fprintf(&sb, " (%d repaired)", sum.Repaired)
	}
	sb.WriteString("\n")

	if sum.Total == 0 {
		sb.WriteString("_No introductions found in this transcript._")
		return sb.String()
	}

	for _, o := range sum.Outcomes {
		if o.Error != "" {
			fmt.Fprintf(&sb, "  - post %d: failed (%s)\n", o.Post, o.Error)
			continue
		}
		name := o.Name
		if name == "" {
			name = "(no name)"
		}
		fmt.Fprintf(&sb, "  - post %d: %s", o.Post, name)
		if o.Repaired {
			sb.WriteString(" [repaired]")
		}
		sb.WriteString("\n")
	}

	if sum.Output != "" {
		fmt.Fprintf(&sb, "Results: %s\n", sum.Output)
	}
	return sb.String()
}
