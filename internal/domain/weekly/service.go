package weekly

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/har/har/internal/platform/auth"
	"github.com/har/har/internal/platform/report"
)

type Service struct {
	reports  Repository
	compiler *Compiler
}

func NewService(reports Repository, compiler *Compiler) *Service {
	return &Service{reports: reports, compiler: compiler}
}

// Compile builds the aggregate for the week containing anyDay without
// persisting anything. Used by the preview endpoint.
func (s *Service) Compile(ctx context.Context, serviceID string, anyDay time.Time) (*WeeklyReport, error) {
	return s.compiler.Compile(ctx, serviceID, anyDay)
}

// Submit compiles the week and persists it as transmitted_to_chief. A week
// already stored in a terminal state cannot be resubmitted; a pending one is
// recompiled and overwritten.
func (s *Service) Submit(ctx context.Context, actor auth.Actor, serviceID string, anyDay time.Time) (*WeeklyReport, error) {
	compiled, err := s.compiler.Compile(ctx, serviceID, anyDay)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	compiled.Status = report.StatusTransmitted
	compiled.SubmittedAt = &now
	compiled.SubmittedBy = actor.DisplayName()

	existing, err := s.reports.GetByWeek(ctx, serviceID, compiled.WeekStart)
	switch {
	case err == nil:
		if existing.Status.Terminal() {
			return nil, report.ErrTerminalStatus
		}
		compiled.ID = existing.ID
		compiled.CreatedAt = existing.CreatedAt
		if err := s.reports.Update(ctx, compiled); err != nil {
			return nil, err
		}
	case err == ErrNotFound:
		if err := s.reports.Create(ctx, compiled); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return compiled, nil
}

// Validate advances the report one step of the workflow on behalf of actor.
func (s *Service) Validate(ctx context.Context, actor auth.Actor, id uuid.UUID) (*WeeklyReport, error) {
	w, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	own := actor.ServiceID == w.ServiceID
	next, err := report.NextOnValidate(w.Status, workflowRole(actor), own)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	w.Status = next
	w.ValidatedAt = &now
	w.ValidatedBy = actor.DisplayName()
	if err := s.reports.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Reject moves the report to the rejected dead end with an optional reason.
func (s *Service) Reject(ctx context.Context, actor auth.Actor, id uuid.UUID, reason string) (*WeeklyReport, error) {
	w, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	own := actor.ServiceID == w.ServiceID
	if err := report.CanReject(w.Status, workflowRole(actor), own); err != nil {
		return nil, err
	}

	now := time.Now()
	w.Status = report.StatusRejected
	w.RejectedAt = &now
	w.RejectedBy = actor.DisplayName()
	w.RejectReason = reason
	if err := s.reports.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*WeeklyReport, error) {
	return s.reports.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*WeeklyReport, int, error) {
	return s.reports.List(ctx, f, limit, offset)
}

// workflowRole reduces an actor's role set to the single role the status
// machine reasons about.
func workflowRole(actor auth.Actor) string {
	switch {
	case actor.HasRole(report.RoleAdmin):
		return report.RoleAdmin
	case actor.HasRole(report.RoleChief):
		return report.RoleChief
	case actor.HasRole(report.RoleDirection):
		return report.RoleDirection
	default:
		return report.RoleAgent
	}
}
