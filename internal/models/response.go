package models

import (
	"nextgen-api/internal/common/errors"
	"nextgen-api/internal/common/validation"
)

// FiveWs is the five-part extraction a processor returns. Each part is an
// ordered sequence of findings; Supplemental carries any extra processor
// output keyed by name.
type FiveWs struct {
	Who          []string               `json:"who"`
	What         []string               `json:"what"`
	When         []string               `json:"when"`
	Where        []string               `json:"where"`
	Why          []string               `json:"why"`
	Supplemental map[string]interface{} `json:"supplemental,omitempty"`
}

// TaskResponse is the success envelope.
type TaskResponse struct {
	TaskName TaskName `json:"task_name"`
	Result   *FiveWs  `json:"result"`
}

// ErrorResponse is the failure envelope. Details is populated only for
// validation failures, where it holds the full ordered violation list.
type ErrorResponse struct {
	StatusCode int                    `json:"status_code"`
	ErrorKind  errors.Kind            `json:"error_kind"`
	Message    string                 `json:"message"`
	Details    []validation.Violation `json:"details,omitempty"`
}

// HeartbeatResponse is the fixed liveness acknowledgment.
type HeartbeatResponse struct {
	Info string `json:"info"`
	Role string `json:"role"`
}

// CapabilitiesResponse lists the supported task identifiers.
type CapabilitiesResponse struct {
	Tasks []string `json:"tasks"`
}
