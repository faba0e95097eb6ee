package library

import (
	"context"
	"log/slog"
)

// BatchResult pairs a batch title with its search outcome.
type BatchResult struct {
	Title  string
	Result SearchResult
	Err    error
}

// SearchBatch searches each title in order. A failed title does not stop
// the batch; a cancelled context does.
func (s *Service) SearchBatch(ctx context.Context, titles []string) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(titles))
	for _, title := range titles {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := s.Search(ctx, title)
		if err != nil {
			slog.Warn("Batch search failed", "title", title, "error", err)
		}
		results = append(results, BatchResult{Title: title, Result: res, Err: err})
	}
	return results, nil
}

// Summary counts batch results by terminal state.
func Summary(results []BatchResult) map[State]int {
	counts := make(map[State]int)
	for _, r := range results {
		counts[r.Result.State]++
	}
	return counts
}
