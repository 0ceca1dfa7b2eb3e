package extractor

import (
	"errors"
	"fmt"
)

// Intro is the structured record extracted from one introduction post.
type Intro struct {
	Name      string   `json:"name"`
	Projects  []string `json:"projects"`
	Expertise []string `json:"expertise"`
	GitHub    string   `json:"github"`
}

// State is a step of the parse state machine. A post moves
// RawReceived -> Extracted -> Parsed, or through RepairAttempted to
// Parsed or Failed.
type State int

const (
	StateRawReceived State = iota
	StateExtracted
	StateParsed
	StateRepairAttempted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRawReceived:
		return "raw_received"
	case StateExtracted:
		return "extracted"
	case StateParsed:
		return "parsed"
	case StateRepairAttempted:
		return "repair_attempted"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is the outcome of extracting one post. Intro is only meaningful
// when OK reports true; otherwise Err says which stage gave up.
type Result struct {
	State    State
	Intro    Intro
	Repaired bool
	Err      *ExtractionError
	Raw      string
}

// OK reports whether the post produced an Intro.
func (r Result) OK() bool {
	return r.State == StateParsed && r.Err == nil
}

// ExtractionError carries everything needed to diagnose a failed post:
// the transport error when the model never answered, or the first parse
// error and the error after repair, plus the raw reply.
type ExtractionError struct {
	TransportErr error
	ParseErr     error
	RepairErr    error
	Raw          string
}

func (e *ExtractionError) Error() string {
	if e.TransportErr != nil {
		return e.TransportErr.Error()
	}
	return fmt.Sprintf("parse: %v; after repair: %v", e.ParseErr, e.RepairErr)
}

func (e *ExtractionError) Unwrap() []error {
	var errs []error
	for _, err := range []error{e.TransportErr, e.ParseErr, e.RepairErr} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

var (
	// ErrNotObject is returned by Parse for valid JSON that is not an object.
	ErrNotObject = errors.New("not a JSON object")
	// ErrEmptyIntro is returned by Parse for an object with none of the
	// four fields set, such as the "{}" that repair makes of an empty reply.
	ErrEmptyIntro = errors.New("no introduction fields")
)
