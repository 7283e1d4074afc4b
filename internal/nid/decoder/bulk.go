package decoder

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"nidegypt/internal/nid/models"
)

// bulkWorkers bounds batch parallelism. Decoding is CPU-cheap; the cap
// keeps large batches from spawning a goroutine per item.
const bulkWorkers = 8

// DecodeMany applies Decode to each raw identifier. The output has one
// entry per input, in input order; a defective item never aborts the
// batch. Items share no state, so they are evaluated concurrently, with
// each result written to its input's slot.
func (d *Decoder) DecodeMany(ctx context.Context, raws []string, asOf time.Time) []models.Result {
	results := make([]models.Result, len(raws))
	if len(raws) == 0 {
		return results
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(bulkWorkers)
	for i, raw := range raws {
		g.Go(func() error {
			results[i] = d.Decode(raw, asOf)
			return nil
		})
	}
	// Decode never errors; the group exists only for bounded concurrency.
	_ = g.Wait()
	return results
}
