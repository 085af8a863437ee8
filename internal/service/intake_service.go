package service

import (
	"context"
	"strings"

	"github.com/firstpriority/website/internal/model"
)

// IntakeService turns a raw form post into a delivered or stored submission
// and a notice for the visitor.
type IntakeService interface {
	// Submit validates raw, attempts email delivery where the kind allows it,
	// and falls back to the submission store when delivery is skipped or
	// fails. A *ValidationError means nothing was sent or stored. An error
	// wrapping repository.ErrStoreWrite means the submission may be lost.
	Submit(ctx context.Context, kind model.Kind, raw model.Submission) (model.Outcome, error)
}

// ValidationError lists the required fields that were empty after trimming.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "Please complete the following fields: " + strings.Join(e.Missing, ", ") + "."
}

// Validate trims every field and reports the empty ones, in form order.
func Validate(raw model.Submission) (model.Submission, error) {
	sub := model.Submission{
		Name:    strings.TrimSpace(raw.Name),
		Email:   strings.TrimSpace(raw.Email),
		Message: strings.TrimSpace(raw.Message),
	}

	var missing []string
	if sub.Name == "" {
		missing = append(missing, "Name")
	}
	if sub.Email == "" {
		missing = append(missing, "Email")
	}
	if sub.Message == "" {
		missing = append(missing, "Message")
	}
	if len(missing) > 0 {
		return model.Submission{}, &ValidationError{Missing: missing}
	}
	return sub, nil
}
