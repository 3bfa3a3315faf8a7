/*
Package bulk executes an ordered batch of document mutations against a remote
store that offers no multi-document transactions, with compensating rollback
of completed work when a later operation fails.

# Core Components

Operation:
  - One unit of work against exactly one document: create, update, delete,
    submit or cancel
  - Constructed via NewCreate, NewUpdate, NewDelete, NewSubmit, NewCancel so
    each kind carries exactly its required fields

Validator:
  - Rejects malformed batches before any side effect occurs
  - Fail-fast and all-or-nothing: either the whole batch is accepted for
    execution or none of it runs

Executor:
  - Dispatches validated operations strictly one at a time, in input order
  - Records a compensating delete for every successful create
  - On failure with rollback enabled, replays the recorded compensations in
    reverse order and stops; with rollback disabled, continues best-effort

Outcome:
  - Per-operation results whose indices always match input positions, plus
    summary counters and the rolled-back flag

# Basic Usage

	exec := bulk.NewExecutor(gw, lggr)
	outcome, err := exec.Run(ctx, bulk.NewRequest(
		bulk.NewCreate("Customer", gateway.Document{"customer_name": "Acme"}),
		bulk.NewSubmit("Sales Order", "SO-0042"),
	))
*/
package bulk
