package app

import (
	"fmt"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Severity classifies a dispatch failure the environment absorbs or reports.
type Severity int

const (
	// SeverityLow marks failures that are part of normal operation, such as
	// a rejected transaction.
	SeverityLow Severity = iota

	// SeverityMedium marks dropped side effects, such as a failed
	// best-effort notification.
	SeverityMedium

	// SeverityHigh marks failures of the environment itself.
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// EventTypeDispatchFailure is emitted for every absorbed failure.
const EventTypeDispatchFailure = "dispatch_failure"

// FailureHandler logs a failure at its severity and describes it as an
// event.
type FailureHandler struct {
	logger  log.Logger
	metrics *AppMetrics
}

// NewFailureHandler creates a handler logging to logger.
func NewFailureHandler(logger log.Logger, metrics *AppMetrics) FailureHandler {
	return FailureHandler{logger: logger, metrics: metrics}
}

// Handle logs err and returns the event recording it. Callers continue.
func (h FailureHandler) Handle(operation string, severity Severity, height int64, err error) sdk.Event {
	switch severity {
	case SeverityHigh:
		h.logger.Error("dispatch error",
			"operation", operation,
			"severity", severity.String(),
			"error", err.Error(),
		)
	case SeverityMedium:
		h.logger.Warn("dispatch warning",
			"operation", operation,
			"severity", severity.String(),
			"error", err.Error(),
		)
	default:
		h.logger.Debug("dispatch rejected",
			"operation", operation,
			"severity", severity.String(),
			"error", err.Error(),
		)
	}
	h.metrics.Failures.WithLabelValues(operation, severity.String()).Inc()

	return sdk.NewEvent(EventTypeDispatchFailure,
		sdk.NewAttribute("operation", operation),
		sdk.NewAttribute("severity", severity.String()),
		sdk.NewAttribute("error", err.Error()),
		sdk.NewAttribute("height", fmt.Sprintf("%d", height)),
	)
}
