// Package extractor asks a language model for an Intro per post and turns
// its reply into a Result, repairing malformed JSON once before giving up.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/roster/internal/completion"
	"github.com/MikeSquared-Agency/roster/internal/metrics"
)

// Completer is the text completion service the extractor talks to.
type Completer interface {
	Complete(ctx context.Context, req completion.Request) (string, error)
}

// Options are fixed for the lifetime of an Extractor.
type Options struct {
	Model       string
	Temperature float64
}

type Extractor struct {
	llm    Completer
	opts   Options
	logger *slog.Logger
}

func New(llm Completer, opts Options, logger *slog.Logger) *Extractor {
	return &Extractor{llm: llm, opts: opts, logger: logger}
}

// Request sends the cleaned post to the model and returns its reply verbatim.
func (e *Extractor) Request(ctx context.Context, post string) (string, error) {
	start := time.Now()
	raw, err := e.llm.Complete(ctx, completion.Request{
		Model:       e.opts.Model,
		Temperature: e.opts.Temperature,
		System:      systemPrompt,
		Prompt:      fmt.Sprintf(introUserPrompt, post),
	})
	metrics.ObserveCompletion(time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	return raw, nil
}

// Extract runs one post through request, JSON slice, parse and, if that
// fails, a single repair and re-parse. It never returns an error; failures
// are carried in the Result.
func (e *Extractor) Extract(ctx context.Context, post string) Result {
	raw, err := e.Request(ctx, post)
	if err != nil {
		return Result{State: StateFailed, Err: &ExtractionError{TransportErr: err}}
	}

	res := Result{State: StateRawReceived, Raw: raw}

	text := ExtractJSON(raw)
	res.State = StateExtracted

	intro, parseErr := Parse(text)
	if parseErr == nil {
		res.State = StateParsed
		res.Intro = intro
		return res
	}

	res.State = StateRepairAttempted
	e.logger.Debug("reply is not valid JSON, repairing",
		"error", parseErr,
		"extracted", text,
	)

	intro, repairErr := Parse(RepairJSON(text))
	metrics.RecordRepair(repairErr == nil)
	if repairErr != nil {
		res.State = StateFailed
		res.Err = &ExtractionError{ParseErr: parseErr, RepairErr: repairErr, Raw: raw}
		return res
	}

	res.State = StateParsed
	res.Intro = intro
	res.Repaired = true
	return res
}
