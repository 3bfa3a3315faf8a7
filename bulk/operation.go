package bulk

import (
	"encoding/json"

	"github.com/erpkit/bulkops/gateway"
)

// OperationType is the kind of mutation an Operation performs.
type OperationType string

const (
	OpCreate OperationType = "create"
	OpUpdate OperationType = "update"
	OpDelete OperationType = "delete"
	OpSubmit OperationType = "submit"
	OpCancel OperationType = "cancel"
)

// Operation is one unit of work in a batch: a single mutation of exactly one
// document. Which fields are meaningful depends on Type: Doc for creates,
// Name for everything else, Patch additionally for updates. Use the
// constructors to build operations with exactly their required fields;
// requests decoded from JSON are checked by the validator instead.
// An operation is immutable once part of a submitted request.
type Operation struct {
	Type    OperationType    `json:"type"`
	Doctype string           `json:"doctype"`
	Name    string           `json:"name,omitempty"`
	Doc     gateway.Document `json:"doc,omitempty"`
	Patch   gateway.Document `json:"patch,omitempty"`
}

// NewCreate returns an operation that inserts a new document.
func NewCreate(doctype string, doc gateway.Document) Operation {
	return Operation{Type: OpCreate, Doctype: doctype, Doc: doc}
}

// NewUpdate returns an operation that applies a field patch to the named
// document.
func NewUpdate(doctype, name string, patch gateway.Document) Operation {
	return Operation{Type: OpUpdate, Doctype: doctype, Name: name, Patch: patch}
}

// NewDelete returns an operation that removes the named document.
func NewDelete(doctype, name string) Operation {
	return Operation{Type: OpDelete, Doctype: doctype, Name: name}
}

// NewSubmit returns an operation that transitions the named document into
// its submitted state.
func NewSubmit(doctype, name string) Operation {
	return Operation{Type: OpSubmit, Doctype: doctype, Name: name}
}

// NewCancel returns an operation that transitions the named document into
// its cancelled state.
func NewCancel(doctype, name string) Operation {
	return Operation{Type: OpCancel, Doctype: doctype, Name: name}
}

// ExecutionRequest is one ordered batch of operations. It is created per run
// and never mutated.
type ExecutionRequest struct {
	Operations []Operation `json:"operations"`

	// RollbackOnError controls the failure mode: when true (the default) a
	// failed operation stops the run and triggers compensating rollback of
	// prior creates; when false the run continues best-effort.
	RollbackOnError bool `json:"rollback_on_error"`
}

// NewRequest returns a request over the given operations with rollback
// enabled.
func NewRequest(ops ...Operation) ExecutionRequest {
	return ExecutionRequest{Operations: ops, RollbackOnError: true}
}

// UnmarshalJSON decodes a request, defaulting rollback_on_error to true when
// the field is absent.
func (r *ExecutionRequest) UnmarshalJSON(data []byte) error {
	raw := struct {
		Operations      []Operation `json:"operations"`
		RollbackOnError *bool       `json:"rollback_on_error"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Operations = raw.Operations
	r.RollbackOnError = raw.RollbackOnError == nil || *raw.RollbackOnError

	return nil
}
