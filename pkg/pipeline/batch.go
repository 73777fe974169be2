package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/workcard/pkg/errors"
	"github.com/matzehuels/workcard/pkg/observability"
	"github.com/matzehuels/workcard/pkg/record"
)

// Outcome is the result for one record of a batch. Exactly one of Card and
// Err is set.
type Outcome struct {
	RecordID int64
	Card     *Card
	Err      error
}

type batchIDKey struct{}

func withBatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchIDKey{}, id)
}

func batchIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(batchIDKey{}).(string)
	return id
}

// RenderBatch renders recs with at most Config.Concurrency renders in
// flight. It returns one outcome per record in input order; a failing record
// never stops the others.
func (r *Renderer) RenderBatch(ctx context.Context, recs []record.Work, variant string) []Outcome {
	out := make([]Outcome, len(recs))
	if len(recs) == 0 {
		return out
	}

	batchID := uuid.NewString()
	ctx = withBatchID(ctx, batchID)
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(r.cfg.Concurrency)
	for i := range recs {
		g.Go(func() error {
			rec := &recs[i]
			out[i].RecordID = rec.ID
			if err := ctx.Err(); err != nil {
				out[i].Err = errors.Wrap(errors.ErrCodeInternal, err, "batch cancelled before record %d", rec.ID)
				return nil
			}
			out[i].Card, out[i].Err = r.Render(ctx, rec, variant)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range out {
		if o.Err != nil {
			failed++
		}
	}
	observability.Render().OnBatchComplete(ctx, batchID, len(recs), failed, time.Since(start))
	r.logger.Info("rendered batch",
		"batch", batchID,
		"records", len(recs),
		"failed", failed,
		"duration", time.Since(start))
	return out
}
