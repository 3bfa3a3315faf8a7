package bulk

import (
	"context"

	"github.com/erpkit/bulkops/gateway"
	"github.com/erpkit/bulkops/pkg/logger"
)

// CompensatingAction describes how to undo one completed mutation.
//
// Only successful creates record one (undo = delete the created document).
// Update, delete, submit and cancel mutate state but generate no undo
// action: an update would need a reverse patch built from a captured
// pre-image, and the other three are treated as irreversible. A rollback
// therefore restores creates only.
type CompensatingAction struct {
	// Index is the position of the compensated operation in the original
	// request.
	Index   int
	Type    OperationType
	Doctype string
	Name    string
}

// compensationLog is the run-local, append-only registry of undo actions.
// It is built while a run makes progress and consumed once, in reverse, if
// the run is abandoned. It is never shared between runs.
type compensationLog struct {
	actions []CompensatingAction
}

func (l *compensationLog) add(a CompensatingAction) {
	l.actions = append(l.actions, a)
}

func (l *compensationLog) empty() bool {
	return len(l.actions) == 0
}

// replay undoes the recorded actions in exact reverse (LIFO) order of
// accumulation. Replay is best-effort: the backend offers no atomic
// multi-document undo, so a failed step is logged and skipped while the
// remaining steps still run.
func (l *compensationLog) replay(ctx context.Context, gw gateway.DocumentGateway, lggr logger.Logger) {
	for i := len(l.actions) - 1; i >= 0; i-- {
		a := l.actions[i]
		lggr.Infow("Rolling back operation",
			"operation_index", a.Index, "doctype", a.Doctype, "doc_name", a.Name)

		if err := gw.Delete(ctx, a.Doctype, a.Name); err != nil {
			lggr.Warnw("Rollback step failed, continuing with remaining steps",
				"operation_index", a.Index, "doctype", a.Doctype, "doc_name", a.Name,
				"error", err)
		}
	}
}
