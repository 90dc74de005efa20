// Package dispatch is the boundary between the transport layer and the
// task processor: it validates raw payloads, forwards validated requests,
// and maps every failure into a classified wire response.
package dispatch

import (
	"context"
	"errors"
	"time"

	apperrors "nextgen-api/internal/common/errors"
	"nextgen-api/internal/common/logger"
	"nextgen-api/internal/common/metrics"
	"nextgen-api/internal/common/validation"
	"nextgen-api/internal/models"
)

// Processor performs the actual extraction or summarization for a
// validated request. Implementations return classified *apperrors.Error
// values; anything else is coerced to INTERNAL at this boundary.
type Processor interface {
	Process(ctx context.Context, req *models.TaskRequest) (*models.FiveWs, error)
}

// Dispatcher owns no state beyond its injected collaborators. Every call
// builds fresh request and response values, so concurrent calls need no
// coordination.
type Dispatcher struct {
	processor Processor
	timeout   time.Duration
	log       logger.Logger
}

// New builds a Dispatcher. timeout bounds each processor call; zero means
// the caller's context is the only bound.
func New(processor Processor, timeout time.Duration, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		processor: processor,
		timeout:   timeout,
		log:       log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
}

// Capabilities returns the static set of supported task identifiers.
func (d *Dispatcher) Capabilities() models.CapabilitiesResponse {
	return models.CapabilitiesResponse{Tasks: models.TaskNames()}
}

// Heartbeat returns the fixed liveness acknowledgment.
func (d *Dispatcher) Heartbeat() models.HeartbeatResponse {
	return models.HeartbeatResponse{Info: "heartbeat OK", Role: "backend"}
}

// HandleTask validates the raw payload, invokes the processor on success,
// and returns exactly one of the two envelopes. No failure leaves this
// method unclassified.
func (d *Dispatcher) HandleTask(ctx context.Context, raw map[string]interface{}) (*models.TaskResponse, *models.ErrorResponse) {
	req, violations := ValidateTaskRequest(raw)
	if len(violations) > 0 {
		return nil, d.rejectPayload(violations)
	}

	taskName := string(req.Instructions.TaskName)
	d.log.Info("task accepted", map[string]interface{}{
		"taskName":      taskName,
		"documentType":  string(req.Document.DocumentType),
		"interactionId": req.Document.InteractionID,
	})

	callCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := d.processor.Process(callCtx, req)
	metrics.TaskDuration.WithLabelValues(taskName).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, d.rejectProcessing(taskName, err)
	}

	metrics.TasksCompleted.WithLabelValues(taskName).Inc()
	return &models.TaskResponse{TaskName: req.Instructions.TaskName, Result: result}, nil
}

// rejectPayload turns a violation list into the validation error envelope.
// The top-level kind is CROSS_FIELD_VIOLATION only when the cross-field
// pass is the sole reason the payload failed.
func (d *Dispatcher) rejectPayload(violations []validation.Violation) *models.ErrorResponse {
	kind := apperrors.KindCrossFieldViolation
	for _, v := range violations {
		metrics.ValidationFailures.WithLabelValues(v.FieldPath).Inc()
		if v.Kind == apperrors.KindInvalidPayload {
			kind = apperrors.KindInvalidPayload
		}
	}

	d.log.Warn("payload rejected", map[string]interface{}{
		"errorKind":  string(kind),
		"violations": validation.Summarize(violations),
	})

	appErr := apperrors.New(kind)
	return &models.ErrorResponse{
		StatusCode: appErr.Status(),
		ErrorKind:  appErr.Kind,
		Message:    appErr.Message,
		Details:    violations,
	}
}

// rejectProcessing maps a processor failure into the error envelope. A
// classified error passes through with its diagnosis intact; a bare
// context deadline becomes a downstream timeout; everything else is
// coerced to INTERNAL with the cause logged for operators.
func (d *Dispatcher) rejectProcessing(taskName string, err error) *models.ErrorResponse {
	var appErr *apperrors.Error
	switch {
	case errors.As(err, &appErr) && apperrors.IsKnown(appErr.Kind):
	case errors.Is(err, context.DeadlineExceeded):
		appErr = apperrors.NewDownstreamTimeout(err)
	default:
		appErr = apperrors.Coerce(err)
	}

	metrics.TasksFailed.WithLabelValues(taskName, string(appErr.Kind)).Inc()
	d.log.WithError(err).Error("task processing failed", map[string]interface{}{
		"taskName":  taskName,
		"errorKind": string(appErr.Kind),
		"details":   appErr.Details,
	})

	return &models.ErrorResponse{
		StatusCode: appErr.Status(),
		ErrorKind:  appErr.Kind,
		Message:    appErr.Message,
	}
}
