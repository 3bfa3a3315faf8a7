package bulk

import (
	"github.com/google/uuid"
)

// OperationResult is the outcome of one attempted operation.
// OperationIndex always equals the operation's position in the original
// request, even when later operations were never attempted.
type OperationResult struct {
	OperationIndex int    `json:"operation_index"`
	Success        bool   `json:"success"`
	Data           any    `json:"data,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ExecutionOutcome is the sole artifact leaving a run: the ordered
// per-operation results plus summary counters. It is returned once per
// invocation and not persisted.
type ExecutionOutcome struct {
	RunID   string            `json:"run_id"`
	Results []OperationResult `json:"results"`

	// RolledBack reports that the run stopped on a failure and replayed
	// its compensations. It stays true even if individual rollback steps
	// failed, and stays false in best-effort mode.
	RolledBack          bool `json:"rolled_back"`
	CompletedOperations int  `json:"completed_operations"`
	FailedOperations    int  `json:"failed_operations"`
}

// newOutcome assembles the terminal outcome from the accumulated results,
// preserving index correspondence with the original request regardless of
// early termination.
func newOutcome(results []OperationResult, rolledBack bool) *ExecutionOutcome {
	outcome := &ExecutionOutcome{
		RunID:      uuid.New().String(),
		Results:    results,
		RolledBack: rolledBack,
	}
	for _, r := range results {
		if r.Success {
			outcome.CompletedOperations++
		} else {
			outcome.FailedOperations++
		}
	}

	return outcome
}
