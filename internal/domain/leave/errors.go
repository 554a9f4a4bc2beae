package leave

import "errors"

var (
	ErrLeaveNotFound           = errors.New("leave request not found")
	ErrLeaveAlreadyProcessed   = errors.New("leave request already processed")
	ErrRejectionReasonRequired = errors.New("rejection_reason is required when rejecting a leave request")
)
