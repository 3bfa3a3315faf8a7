// Package gateway defines the boundary to the remote document store. The
// store exposes only single-document create/update/delete/submit/cancel
// calls with no cross-document transaction support; everything built on top
// of this package inherits that constraint.
package gateway

import (
	"context"
	"errors"
)

// Document is the loosely-typed field map of a single document in the remote
// store. Field names and value types are defined by the doctype's schema on
// the server side.
type Document map[string]any

// Sentinel errors for failure classes the remote store reports. Implementations
// wrap these so callers can match with errors.Is while still carrying the
// server's message.
var (
	// ErrAuthFailed indicates missing or rejected credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrPermissionDenied indicates the session is valid but lacks access
	// to the doctype or document.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound indicates the named document does not exist.
	ErrNotFound = errors.New("document not found")
)

// DocumentGateway performs one mutating call against the remote document
// store. Each method maps to exactly one round trip; there is no batching at
// this boundary. Implementations must be safe for use by concurrent runs.
type DocumentGateway interface {
	// Create inserts a new document and returns the name assigned by the
	// store.
	Create(ctx context.Context, doctype string, doc Document) (string, error)

	// Update applies a partial field patch to the named document.
	Update(ctx context.Context, doctype, name string, patch Document) error

	// Delete removes the named document.
	Delete(ctx context.Context, doctype, name string) error

	// Submit transitions the named document into its submitted state.
	Submit(ctx context.Context, doctype, name string) error

	// Cancel transitions the named document into its cancelled state.
	Cancel(ctx context.Context, doctype, name string) error
}
