package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firstpriority/website/internal/metrics"
	"github.com/firstpriority/website/internal/model"
	"github.com/firstpriority/website/internal/repository"
	"github.com/firstpriority/website/pkg/mailer"
)

// Notices shown to the visitor after a successful submission.
const (
	NoticeContactSent   = "Message sent successfully. We will get back to you shortly."
	NoticeContactStored = "Message received. Email is offline, but we stored your details and will respond soon."
	NoticeHiring        = "Application submitted. Our coordinators will reach out soon."
)

// IntakeOptions controls which kinds attempt email delivery.
type IntakeOptions struct {
	// NotifyHiring sends hiring applications by email first. When false they
	// always go straight to the store.
	NotifyHiring bool
}

type intakeServiceImpl struct {
	sender  mailer.Sender
	repo    repository.SubmissionRepository
	metrics *metrics.Metrics
	opts    IntakeOptions
}

// NewIntakeService creates an IntakeService. m may be nil.
func NewIntakeService(sender mailer.Sender, repo repository.SubmissionRepository, m *metrics.Metrics, opts IntakeOptions) IntakeService {
	return &intakeServiceImpl{sender: sender, repo: repo, metrics: m, opts: opts}
}

func (s *intakeServiceImpl) Submit(ctx context.Context, kind model.Kind, raw model.Submission) (model.Outcome, error) {
	if !kind.Valid() {
		return model.Outcome{}, fmt.Errorf("%w: %q", repository.ErrUnknownKind, kind)
	}

	sub, err := Validate(raw)
	if err != nil {
		s.metrics.ObserveOutcome(kind, metrics.OutcomeInvalid)
		return model.Outcome{}, err
	}

	out := model.Outcome{Kind: kind}

	if s.notifies(kind) {
		start := time.Now()
		res := s.sender.Send(ctx, notification(kind, sub))
		s.metrics.ObserveDispatch(kind, res.Delivered, time.Since(start))
		out.Delivered = res.Delivered
		if !res.Delivered {
			level := slog.LevelInfo
			if !errors.Is(res.Err, mailer.ErrNotConfigured) {
				level = slog.LevelWarn
			}
			slog.Log(ctx, level, "submission not delivered, storing", "kind", kind, "detail", res.Detail)
		}
	}

	if !out.Delivered {
		start := time.Now()
		if err := s.repo.Append(ctx, kind, sub); err != nil {
			s.metrics.ObserveOutcome(kind, metrics.OutcomeFailed)
			slog.Error("submission store failed", "kind", kind, "error", err)
			return model.Outcome{}, err
		}
		s.metrics.ObserveStore(time.Since(start))
		out.Stored = true
	}

	out.Notice = notice(kind, out.Delivered)
	if out.Delivered {
		s.metrics.ObserveOutcome(kind, metrics.OutcomeDelivered)
	} else {
		s.metrics.ObserveOutcome(kind, metrics.OutcomeStored)
	}
	return out, nil
}

func (s *intakeServiceImpl) notifies(kind model.Kind) bool {
	switch kind {
	case model.KindContact:
		return true
	case model.KindHiring:
		return s.opts.NotifyHiring
	}
	return false
}

func notification(kind model.Kind, sub model.Submission) mailer.Message {
	msg := mailer.Message{ReplyTo: sub.Email}
	switch kind {
	case model.KindHiring:
		msg.Subject = "New application from " + sub.Name
		msg.Body = fmt.Sprintf("Applicant: %s <%s>\n\n%s", sub.Name, sub.Email, sub.Message)
	default:
		msg.Subject = "New inquiry from " + sub.Name
		msg.Body = fmt.Sprintf("From: %s <%s>\n\n%s", sub.Name, sub.Email, sub.Message)
	}
	return msg
}

func notice(kind model.Kind, delivered bool) string {
	if kind == model.KindHiring {
		return NoticeHiring
	}
	if delivered {
		return NoticeContactSent
	}
	return NoticeContactStored
}
