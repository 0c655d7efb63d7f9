package types

import (
	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/samber/lo"
)

// TaskType categorizes what a scheduled task does when picked up
type TaskType string

const (
	// TaskTypeChargeSubscription bills a subscription for the period
	// ending at the task's execute time
	TaskTypeChargeSubscription TaskType = "charge_subscription"
)

func (t TaskType) String() string {
	return string(t)
}

func (t TaskType) Validate() error {
	allowed := []TaskType{
		TaskTypeChargeSubscription,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid task type").
			WithHint("Please provide a valid task type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
