package bulk

import (
	"context"
	"fmt"

	"github.com/erpkit/bulkops/gateway"
	"github.com/erpkit/bulkops/pkg/logger"
)

// Executor runs batches of operations against one document gateway. It holds
// no per-run state: every Run gets its own result accumulator and
// compensation log, so independent runs may execute concurrently.
type Executor struct {
	gw   gateway.DocumentGateway
	lggr logger.Logger
}

// NewExecutor creates an Executor over the given gateway. The gateway must
// carry an authenticated session; Run rejects a nil gateway with
// CodeAuthFailed.
func NewExecutor(gw gateway.DocumentGateway, lggr logger.Logger) *Executor {
	return &Executor{
		gw:   gw,
		lggr: lggr.Named("BulkExecutor"),
	}
}

// Run executes the request's operations strictly one at a time, in input
// order, and returns the terminal outcome. Sequential dispatch is an
// invariant: rollback correctness requires that compensations be undoable in
// exact reverse order of the side effects they undo, which only holds if
// effects were applied in a single, known order.
//
// A run is attempted exactly once end to end; there is no retry and no
// re-entry. The returned error is always a request-level *Error; failures of
// individual operations are recorded in the outcome instead.
func (e *Executor) Run(ctx context.Context, req ExecutionRequest) (*ExecutionOutcome, error) {
	if e.gw == nil {
		return nil, &Error{Code: CodeAuthFailed, Message: "no authenticated session"}
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	e.lggr.Infow("Executing batch",
		"operations", len(req.Operations), "rollback_on_error", req.RollbackOnError)

	results := make([]OperationResult, 0, len(req.Operations))
	comps := &compensationLog{}
	rolledBack := false

	for i, op := range req.Operations {
		data, created, err := e.dispatch(ctx, op)
		if err != nil {
			results = append(results, OperationResult{
				OperationIndex: i,
				Error:          err.Error(),
			})
			e.lggr.Warnw("Operation failed",
				"operation_index", i, "type", op.Type, "doctype", op.Doctype, "error", err)

			if !req.RollbackOnError {
				continue
			}
			if !comps.empty() {
				comps.replay(ctx, e.gw, e.lggr)
			}
			rolledBack = true

			// Operations after the failed index are never attempted.
			break
		}

		results = append(results, OperationResult{
			OperationIndex: i,
			Success:        true,
			Data:           data,
		})

		if created != "" {
			comps.add(CompensatingAction{
				Index:   i,
				Type:    OpDelete,
				Doctype: op.Doctype,
				Name:    created,
			})
		}
	}

	outcome := newOutcome(results, rolledBack)
	e.lggr.Infow("Batch finished",
		"run_id", outcome.RunID,
		"completed", outcome.CompletedOperations,
		"failed", outcome.FailedOperations,
		"rolled_back", outcome.RolledBack)

	return outcome, nil
}

// dispatch issues the single gateway call for one operation. For creates it
// also returns the name the store assigned, so the caller can record the
// compensating delete without digging it back out of the result payload.
func (e *Executor) dispatch(ctx context.Context, op Operation) (data gateway.Document, created string, err error) {
	switch op.Type {
	case OpCreate:
		name, err := e.gw.Create(ctx, op.Doctype, op.Doc)
		if err != nil {
			return nil, "", err
		}

		return gateway.Document{"name": name}, name, nil
	case OpUpdate:
		if err := e.gw.Update(ctx, op.Doctype, op.Name, op.Patch); err != nil {
			return nil, "", err
		}

		return gateway.Document{"name": op.Name}, "", nil
	case OpDelete:
		return nil, "", e.gw.Delete(ctx, op.Doctype, op.Name)
	case OpSubmit:
		return nil, "", e.gw.Submit(ctx, op.Doctype, op.Name)
	case OpCancel:
		return nil, "", e.gw.Cancel(ctx, op.Doctype, op.Name)
	default:
		// Unreachable after validation.
		return nil, "", fmt.Errorf("unrecognized operation type %q", string(op.Type))
	}
}
