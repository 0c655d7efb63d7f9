package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/anchorbill/anchorbill/internal/domain/period"
	"github.com/anchorbill/anchorbill/internal/domain/subscription"
	"github.com/anchorbill/anchorbill/internal/domain/task"
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/types"
)

// SchedulerService drives recurring billing. It sweeps due charge
// tasks on an interval, claims each one, bills the period it covers,
// and enqueues the following period's task so the cycle never stalls.
type SchedulerService interface {
	// Start runs the sweep loop until the context is cancelled. A sweep
	// runs eagerly on startup so charges missed during downtime are
	// picked up immediately.
	Start(ctx context.Context)

	// ProcessDueTasks runs a single sweep at the given time.
	ProcessDueTasks(ctx context.Context, now time.Time) error
}

type schedulerService struct {
	ServiceParams

	billing BillingService

	// sweeping guards against overlapping sweeps when a tick fires
	// while the previous sweep is still running
	sweeping atomic.Bool
}

func NewSchedulerService(params ServiceParams, billing BillingService) SchedulerService {
	return &schedulerService{
		ServiceParams: params,
		billing:       billing,
	}
}

func (s *schedulerService) Start(ctx context.Context) {
	interval := s.Config.Billing.SchedulerInterval
	s.Logger.Infow("starting billing scheduler", "interval", interval)

	if err := s.ProcessDueTasks(ctx, time.Now().UTC()); err != nil {
		s.Logger.Errorw("startup sweep failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Logger.Infow("stopping billing scheduler")
			return
		case <-ticker.C:
			if err := s.ProcessDueTasks(ctx, time.Now().UTC()); err != nil {
				s.Logger.Errorw("sweep failed", "error", err)
			}
		}
	}
}

func (s *schedulerService) ProcessDueTasks(ctx context.Context, now time.Time) error {
	if !s.sweeping.CompareAndSwap(false, true) {
		return nil
	}
	defer s.sweeping.Store(false)

	due, err := s.TaskRepo.ListDue(ctx, now, s.Config.Billing.TaskPageSize)
	if err != nil {
		return err
	}

	for _, t := range due {
		if err := s.processTask(ctx, t, now); err != nil {
			s.Logger.Errorw("task processing failed",
				"task_id", t.ID,
				"subscription_id", t.Data.SubscriptionID,
				"error", err)
		}
	}
	return nil
}

// processTask claims the task before doing any side-effecting work, so
// a concurrent sweep never double-bills, then retires it whatever the
// charge outcome was. A charge failure lands on the task's Error field
// rather than aborting the cycle.
func (s *schedulerService) processTask(ctx context.Context, t *task.Task, now time.Time) error {
	if !t.IsDue(now) {
		return nil
	}
	t.MarkStarted(now)
	if err := s.TaskRepo.Update(ctx, t); err != nil {
		return err
	}

	chargeErr := s.chargeSubscription(ctx, t)

	t.MarkCompleted(time.Now().UTC(), chargeErr)
	if err := s.TaskRepo.Update(ctx, t); err != nil {
		return err
	}
	return chargeErr
}

func (s *schedulerService) chargeSubscription(ctx context.Context, t *task.Task) error {
	if t.TaskType != types.TaskTypeChargeSubscription {
		return ierr.NewError("unknown task type").
			WithHintf("task %s has type %s", t.ID, t.TaskType).
			Mark(ierr.ErrInvalidOperation)
	}

	sub, err := s.SubscriptionRepo.Get(ctx, t.Data.SubscriptionID)
	if err != nil {
		return err
	}
	if !sub.IsBillable() {
		s.Logger.Infow("skipping charge for non-billable subscription",
			"subscription_id", sub.ID,
			"status", sub.SubscriptionStatus)
		return nil
	}

	// The task executes at the period's inclusive end, so the billed
	// period is the one containing the execute time.
	billed := period.Resolve(t.ExecuteAt, sub.AnchorDate)
	next := period.Next(t.ExecuteAt, sub.AnchorDate)

	inv, billErr := s.billing.BillPeriod(ctx, sub, billed)
	if billErr != nil {
		s.Logger.Errorw("billing period failed",
			"subscription_id", sub.ID,
			"period_start", billed.Start,
			"period_end", billed.End,
			"error", billErr)
		if sub.SubscriptionStatus == types.SubscriptionStatusActive {
			sub.SubscriptionStatus = types.SubscriptionStatusError
		}
	} else {
		s.Logger.Infow("billed subscription period",
			"subscription_id", sub.ID,
			"invoice_id", inv.ID,
			"period_start", billed.Start,
			"period_end", billed.End)
	}

	sub.CurrentPeriodStart = &billed.Start
	sub.CurrentPeriodEnd = &billed.End
	sub.AdvanceLedgerTo(next.Start)
	if err := s.SubscriptionRepo.Update(ctx, sub); err != nil {
		return err
	}

	// The next task is always enqueued, even after a failed charge:
	// one bad cycle must not stop the subscription from being billed
	// for later periods.
	if err := s.scheduleNextCharge(ctx, sub, next); err != nil {
		return err
	}

	return billErr
}

func (s *schedulerService) scheduleNextCharge(ctx context.Context, sub *subscription.Subscription, next period.Period) error {
	nextTask, err := task.NewChargeSubscriptionTask(ctx, sub.ID, next.End)
	if err != nil {
		return err
	}
	return s.TaskRepo.Create(ctx, nextTask)
}
