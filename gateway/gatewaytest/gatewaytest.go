// Package gatewaytest provides an in-memory gateway.DocumentGateway for
// tests. It records every call in dispatch order and supports scripted
// failures, so ordering and rollback behavior can be asserted without a
// remote store.
package gatewaytest

import (
	"context"
	"fmt"
	"sync"

	"github.com/erpkit/bulkops/gateway"
)

// CallKind identifies which gateway method a recorded call hit.
type CallKind string

const (
	CallCreate CallKind = "create"
	CallUpdate CallKind = "update"
	CallDelete CallKind = "delete"
	CallSubmit CallKind = "submit"
	CallCancel CallKind = "cancel"
)

// Call is one recorded gateway invocation. Doc holds the document for
// creates and the patch for updates; it is nil for the other kinds.
type Call struct {
	Kind    CallKind
	Doctype string
	Name    string
	Doc     gateway.Document
}

// Gateway is a thread-safe in-memory document store. The zero value is not
// usable; create one with New.
type Gateway struct {
	mu       sync.Mutex
	calls    []Call
	docs     map[string]gateway.Document
	seq      map[string]int
	failures map[string]error
}

var _ gateway.DocumentGateway = (*Gateway)(nil)

// New creates an empty fake gateway.
func New() *Gateway {
	return &Gateway{
		docs:     make(map[string]gateway.Document),
		seq:      make(map[string]int),
		failures: make(map[string]error),
	}
}

// FailOn scripts matching calls to fail with err. For CallCreate the name is
// ignored and should be empty; for the other kinds the failure is keyed on
// doctype and name. The failure is sticky until cleared by another FailOn
// with a nil error.
func (g *Gateway) FailOn(kind CallKind, doctype, name string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := failureKey(kind, doctype, name)
	if err == nil {
		delete(g.failures, key)
		return
	}
	g.failures[key] = err
}

// Calls returns a copy of every recorded call in dispatch order.
func (g *Gateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()

	calls := make([]Call, len(g.calls))
	copy(calls, g.calls)

	return calls
}

// CallsOf returns the recorded calls of one kind, in dispatch order.
func (g *Gateway) CallsOf(kind CallKind) []Call {
	g.mu.Lock()
	defer g.mu.Unlock()

	var calls []Call
	for _, c := range g.calls {
		if c.Kind == kind {
			calls = append(calls, c)
		}
	}

	return calls
}

// Doc returns the stored document, if present.
func (g *Gateway) Doc(doctype, name string) (gateway.Document, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc, ok := g.docs[docKey(doctype, name)]

	return doc, ok
}

// Create stores the document under an auto-assigned name of the form
// "<doctype>-0001".
func (g *Gateway) Create(ctx context.Context, doctype string, doc gateway.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, Call{Kind: CallCreate, Doctype: doctype, Doc: doc})

	if err := g.failures[failureKey(CallCreate, doctype, "")]; err != nil {
		return "", err
	}

	g.seq[doctype]++
	name := fmt.Sprintf("%s-%04d", doctype, g.seq[doctype])

	stored := gateway.Document{}
	for k, v := range doc {
		stored[k] = v
	}
	stored["name"] = name
	g.docs[docKey(doctype, name)] = stored

	return name, nil
}

// Update merges the patch into the stored document.
func (g *Gateway) Update(ctx context.Context, doctype, name string, patch gateway.Document) error {
	return g.mutate(ctx, CallUpdate, doctype, name, patch, func(doc gateway.Document) {
		for k, v := range patch {
			doc[k] = v
		}
	})
}

// Delete removes the stored document.
func (g *Gateway) Delete(ctx context.Context, doctype, name string) error {
	return g.mutate(ctx, CallDelete, doctype, name, nil, func(gateway.Document) {
		delete(g.docs, docKey(doctype, name))
	})
}

// Submit marks the stored document submitted.
func (g *Gateway) Submit(ctx context.Context, doctype, name string) error {
	return g.mutate(ctx, CallSubmit, doctype, name, nil, func(doc gateway.Document) {
		doc["docstatus"] = 1
	})
}

// Cancel marks the stored document cancelled.
func (g *Gateway) Cancel(ctx context.Context, doctype, name string) error {
	return g.mutate(ctx, CallCancel, doctype, name, nil, func(doc gateway.Document) {
		doc["docstatus"] = 2
	})
}

func (g *Gateway) mutate(ctx context.Context, kind CallKind, doctype, name string, doc gateway.Document, apply func(gateway.Document)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, Call{Kind: kind, Doctype: doctype, Name: name, Doc: doc})

	if err := g.failures[failureKey(kind, doctype, name)]; err != nil {
		return err
	}

	stored, ok := g.docs[docKey(doctype, name)]
	if !ok {
		return fmt.Errorf("%w: %s %s", gateway.ErrNotFound, doctype, name)
	}
	apply(stored)

	return nil
}

func docKey(doctype, name string) string {
	return doctype + "/" + name
}

func failureKey(kind CallKind, doctype, name string) string {
	if kind == CallCreate {
		name = ""
	}

	return string(kind) + ":" + doctype + ":" + name
}
