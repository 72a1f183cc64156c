package ingest

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/zaphkiel/internal/model"
)

// Batch is the outcome of converting a slice of rows.
// Records keep the input order of the rows that converted.
type Batch[M any] struct {
	Records  []M
	Failures []model.Failure
}

// ConvertAll applies convert to every row using at most workers goroutines
// (GOMAXPROCS when workers <= 0). Row errors are collected as failures in
// input order. The returned error is non-nil only if ctx is done.
func ConvertAll[R, M any](ctx context.Context, rows []R, convert func(R) (M, error), workers int) (Batch[M], error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]M, len(rows))
	errs := make([]error, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range rows {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = convert(rows[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Batch[M]{}, err
	}
	if err := ctx.Err(); err != nil {
		return Batch[M]{}, err
	}

	batch := Batch[M]{Records: make([]M, 0, len(rows))}
	for i, err := range errs {
		if err != nil {
			batch.Failures = append(batch.Failures, model.FailureFrom(err))
			continue
		}
		batch.Records = append(batch.Records, results[i])
	}
	return batch, nil
}
