package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/roster/internal/extractor"
)

// IntroRow is a stored introduction.
type IntroRow struct {
	ID        uuid.UUID
	RunID     uuid.UUID
	Source    string
	Position  int
	Intro     extractor.Intro
	CreatedAt time.Time
}

// WriteIntro inserts one parsed introduction for a run.
func (s *Store) WriteIntro(ctx context.Context, runID uuid.UUID, source string, position int, intro extractor.Intro) (uuid.UUID, error) {
	projects := intro.Projects
	if projects == nil {
		projects = []string{}
	}
	expertise := intro.Expertise
	if expertise == nil {
		expertise = []string{}
	}

	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO roster_intros (id, run_id, source, position, name, projects, expertise, github)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, runID, source, position, intro.Name, projects, expertise, intro.GitHub,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert intro: %w", err)
	}
	return id, nil
}

// ListRunIntros returns a run's introductions in post order.
func (s *Store) ListRunIntros(ctx context.Context, runID uuid.UUID) ([]IntroRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, run_id, source, position, name, projects, expertise, github, created_at
		FROM roster_intros WHERE run_id = $1
		ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query intros: %w", err)
	}
	defer rows.Close()

	var out []IntroRow
	for rows.Next() {
		var r IntroRow
		if err := rows.Scan(&r.ID, &r.RunID, &r.Source, &r.Position,
			&r.Intro.Name, &r.Intro.Projects, &r.Intro.Expertise, &r.Intro.GitHub, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan intro: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
