package workflow

import "errors"

var (
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrMissingType      = errors.New("workflow type is required")
	ErrAssetMismatch    = errors.New("callback asset does not belong to the workflow")
)

// Error texts recorded on workflows that never reached a running execution.
const (
	ErrTextEngineRejected    = "Failed to trigger n8n workflow"
	ErrTextEngineUnreachable = "n8n webhook unreachable"
	ErrTextStuck             = "workflow never reached the automation engine"
)
