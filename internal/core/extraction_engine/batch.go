package extraction_engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/docdrop/internal/core"
	"github.com/markdave123-py/docdrop/internal/models"
)

// Outcome is the result of extracting one file of a batch.
type Outcome struct {
	File models.File
	Text string
	Err  error
}

// ExtractEach extracts every file independently with at most limit extractions
// in flight. Outcomes are returned in the order of files; a failing file does
// not stop the others.
func ExtractEach(ctx context.Context, ex core.DocumentExtractor, files []models.File, limit int) []Outcome {
	out := make([]Outcome, len(files))
	if len(files) == 0 {
		return out
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, f := range files {
		g.Go(func() error {
			text, err := ex.ExtractText(ctx, f)
			out[i] = Outcome{File: f, Text: text, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
