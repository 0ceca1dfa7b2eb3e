// Package hermes publishes roster events on the NATS bus.
package hermes

import "github.com/MikeSquared-Agency/roster/internal/extractor"

const (
	SubjectIntroParsed  = "swarm.roster.intro.parsed"
	SubjectRunCompleted = "swarm.roster.run.completed"
)

// IntroParsed is emitted once per successfully parsed introduction.
type IntroParsed struct {
	RunID    string          `json:"run_id"`
	Position int             `json:"position"`
	Repaired bool            `json:"repaired"`
	Intro    extractor.Intro `json:"intro"`
}

// RunCompleted is emitted after the results of a run are written.
type RunCompleted struct {
	RunID     string `json:"run_id"`
	Source    string `json:"source"`
	Input     string `json:"input,omitempty"`
	Output    string `json:"output,omitempty"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Repaired  int    `json:"repaired"`
}
