package repository

import (
	"context"

	"github.com/firstpriority/website/internal/model"
)

// SubmissionRepository is the durable fallback for form submissions that
// were not (or could not be) delivered by email. One ordered collection is
// kept per kind.
type SubmissionRepository interface {
	// Append adds sub to the end of the collection for kind.
	Append(ctx context.Context, kind model.Kind, sub model.Submission) error

	// List returns the stored submissions for kind in insertion order.
	List(ctx context.Context, kind model.Kind) ([]model.Submission, error)
}

// HealthChecker reports whether the backing storage can accept writes.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
