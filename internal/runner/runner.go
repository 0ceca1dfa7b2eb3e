// Package runner drives a transcript through segmentation, filtering,
// cleaning and extraction, and hands the results to the output file and
// any configured sinks.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/roster/internal/extractor"
	"github.com/MikeSquared-Agency/roster/internal/hermes"
	"github.com/MikeSquared-Agency/roster/internal/metrics"
	"github.com/MikeSquared-Agency/roster/internal/transcript"
)

const (
	previewRunes = 150
	rawRunes     = 200
)

// IntroStore persists parsed intros.
type IntroStore interface {
	WriteIntro(ctx context.Context, runID uuid.UUID, source string, position int, intro extractor.Intro) (uuid.UUID, error)
}

// Publisher emits run events.
type Publisher interface {
	Publish(subject string, data any) error
}

// Notifier posts the run summary for humans.
type Notifier interface {
	PostMessage(ctx context.Context, text string) error
}

// Sinks are optional destinations fed after a run. Nil fields are skipped.
type Sinks struct {
	Store    IntroStore
	Events   Publisher
	Notifier Notifier
}

// Outcome is what happened to one introduction post.
type Outcome struct {
	Post     int    `json:"post"`
	State    string `json:"state"`
	Name     string `json:"name,omitempty"`
	Repaired bool   `json:"repaired,omitempty"`
	Error    string `json:"error,omitempty"`

	intro *extractor.Intro
}

// Summary describes a finished run.
type Summary struct {
	RunID     uuid.UUID         `json:"run_id"`
	Source    string            `json:"source"`
	Input     string            `json:"input,omitempty"`
	Output    string            `json:"output,omitempty"`
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Repaired  int               `json:"repaired"`
	Intros    []extractor.Intro `json:"intros"`
	Outcomes  []Outcome         `json:"outcomes"`
}

type Runner struct {
	extractor  *extractor.Extractor
	outputName string
	sinks      Sinks
	logger     *slog.Logger
}

func New(ext *extractor.Extractor, outputName string, sinks Sinks, logger *slog.Logger) *Runner {
	if outputName == "" {
		outputName = DefaultOutputName
	}
	return &Runner{
		extractor:  ext,
		outputName: outputName,
		sinks:      sinks,
		logger:     logger,
	}
}

// Run parses the transcript at path and writes the results next to it.
// Only reading the input and writing the output are fatal.
func (r *Runner) Run(ctx context.Context, path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	sum := r.parse(ctx, "file", string(data))
	sum.Input = path

	out := OutputPath(path, r.outputName)
	if err := WriteResults(out, sum.Intros); err != nil {
		return nil, fmt.Errorf("write results: %w", err)
	}
	sum.Output = out

	r.finish(ctx, sum)
	return sum, nil
}

// ParseText parses a transcript held in memory. Nothing is written to disk.
func (r *Runner) ParseText(ctx context.Context, text string) *Summary {
	sum := r.parse(ctx, "http", text)
	r.finish(ctx, sum)
	return sum
}

// Process segments, filters and cleans the transcript, then extracts each
// introduction in order. A failed post is logged and skipped.
func (r *Runner) Process(ctx context.Context, text string) ([]extractor.Intro, []Outcome) {
	posts := transcript.Segment(text)
	intros := transcript.FilterIntroductions(posts)
	r.logger.Info("introductions found", "posts", len(posts), "introductions", len(intros))

	results := []extractor.Intro{}
	outcomes := make([]Outcome, 0, len(intros))

	for i, post := range intros {
		if ctx.Err() != nil {
			r.logger.Warn("run interrupted", "processed", i, "of", len(intros))
			break
		}

		cleaned := transcript.Clean(post)
		r.logger.Info("processing post",
			"post", i+1,
			"of", len(intros),
			"preview", truncate(cleaned, previewRunes),
		)

		res := r.extractor.Extract(ctx, cleaned)
		outcome := Outcome{Post: i + 1, State: res.State.String(), Repaired: res.Repaired}

		if !res.OK() {
			outcome.Error = res.Err.Error()
			metrics.RecordPost("failed")
			r.logger.Warn("post failed",
				"post", i+1,
				"state", res.State.String(),
				"error", res.Err,
				"raw", truncate(res.Raw, rawRunes),
			)
			outcomes = append(outcomes, outcome)
			continue
		}

		if res.Repaired {
			metrics.RecordPost("repaired")
		} else {
			metrics.RecordPost("parsed")
		}
		r.logger.Info("post parsed",
			"post", i+1,
			"name", res.Intro.Name,
			"repaired", res.Repaired,
		)

		intro := res.Intro
		outcome.Name = intro.Name
		outcome.intro = &intro
		results = append(results, intro)
		outcomes = append(outcomes, outcome)
	}

	return results, outcomes
}

func (r *Runner) parse(ctx context.Context, source, text string) *Summary {
	intros, outcomes := r.Process(ctx, text)

	sum := &Summary{
		RunID:    uuid.New(),
		Source:   source,
		Total:    len(outcomes),
		Intros:   intros,
		Outcomes: outcomes,
	}
	for _, o := range outcomes {
		switch {
		case o.intro == nil:
			sum.Failed++
		case o.Repaired:
			sum.Succeeded++
			sum.Repaired++
		default:
			sum.Succeeded++
		}
	}
	return sum
}

func (r *Runner) finish(ctx context.Context, sum *Summary) {
	metrics.RecordRun(sum.Source)
	r.logger.Info("run complete",
		"run_id", sum.RunID,
		"succeeded", sum.Succeeded,
		"total", sum.Total,
		"repaired", sum.Repaired,
		"output", sum.Output,
	)

	r.persist(ctx, sum)
	r.publish(sum)
	r.notify(ctx, sum)
}

func (r *Runner) persist(ctx context.Context, sum *Summary) {
	if r.sinks.Store == nil {
		return
	}
	for _, o := range sum.Outcomes {
		if o.intro == nil {
			continue
		}
		if _, err := r.sinks.Store.WriteIntro(ctx, sum.RunID, sum.Source, o.Post, *o.intro); err != nil {
			r.logger.Warn("failed to store intro", "post", o.Post, "error", err)
		}
	}
}

func (r *Runner) publish(sum *Summary) {
	if r.sinks.Events == nil {
		return
	}
	for _, o := range sum.Outcomes {
		if o.intro == nil {
			continue
		}
		evt := hermes.IntroParsed{RunID: sum.RunID.String(), Position: o.Post, Repaired: o.Repaired, Intro: *o.intro}
		if err := r.sinks.Events.Publish(hermes.SubjectIntroParsed, evt); err != nil {
			r.logger.Warn("failed to publish intro", "post", o.Post, "error", err)
		}
	}

	evt := hermes.RunCompleted{
		RunID:     sum.RunID.String(),
		Source:    sum.Source,
		Input:     sum.Input,
		Output:    sum.Output,
		Total:     sum.Total,
		Succeeded: sum.Succeeded,
		Failed:    sum.Failed,
		Repaired:  sum.Repaired,
	}
	if err := r.sinks.Events.Publish(hermes.SubjectRunCompleted, evt); err != nil {
		r.logger.Warn("failed to publish run completion", "error", err)
	}
}

// notify posts the summary to Slack, or logs it when Slack is not configured.
func (r *Runner) notify(ctx context.Context, sum *Summary) {
	text := FormatSummary(sum)
	if r.sinks.Notifier == nil {
		r.logger.Debug("run summary (no notifier configured)", "summary", text)
		return
	}
	if err := r.sinks.Notifier.PostMessage(ctx, text); err != nil {
		r.logger.Warn("failed to post run summary, logging instead",
			"error", err,
			"summary", text,
		)
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
