package catalog

import (
	"context"

	"github.com/leapstack-labs/sqlanalyser/pkg/batch"
)

// BatchSink returns a batch sink that saves every analysed unit into run
// runID. Units that could not be analysed at all (Result.Err set) are
// skipped; syntax errors are saved.
func (s *Store) BatchSink(ctx context.Context, runID string) func(batch.Result) error {
	return func(r batch.Result) error {
		if r.Err != nil {
			s.logger.Debug("unit not saved", "unit", r.Unit.ID, "error", r.Err)
			return nil
		}
		return s.SaveResult(ctx, runID, r.Unit.ID, r.Unit.SQL, r.Analysis)
	}
}
