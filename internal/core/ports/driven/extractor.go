package driven

import (
	"context"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// FragmentExtractor splits raw bytes into typed, non-overlapping fragments.
type FragmentExtractor interface {
	// Extract returns the fragments of the input and a per-pass summary.
	// Unsupported inputs yield no fragments rather than an error.
	Extract(ctx context.Context, input domain.RawInput) ([]domain.Fragment, domain.FragmentSummary, error)
}
