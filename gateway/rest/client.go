// Package rest implements gateway.DocumentGateway against a Frappe-style
// document store, where every document lives under
// /api/resource/{doctype}/{name}.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/erpkit/bulkops/gateway"
)

const defaultTimeout = 30 * time.Second

// Document states on the resource API. The store exposes workflow
// transitions as docstatus writes: 0 = draft, 1 = submitted, 2 = cancelled.
const (
	docstatusSubmitted = 1
	docstatusCancelled = 2
)

// Session carries the credentials for one authenticated caller. It is passed
// explicitly at client construction so concurrent clients under different
// credentials stay isolated; there is no shared package-level session.
type Session struct {
	APIKey    string
	APISecret string
}

// Valid reports whether the session carries a complete credential pair.
func (s Session) Valid() bool {
	return s.APIKey != "" && s.APISecret != ""
}

// token renders the Authorization header value the store expects.
func (s Session) token() string {
	return "token " + s.APIKey + ":" + s.APISecret
}

// RetryPolicy bounds the automatic retry of failed calls. Retries apply only
// to transport errors and 5xx responses; a 4xx is never retried. The zero
// value disables retries entirely.
type RetryPolicy struct {
	MaxAttempts uint
}

func (p RetryPolicy) enabled() bool {
	return p.MaxAttempts > 1
}

// Client is a gateway.DocumentGateway backed by the store's REST resource
// API. Use NewClient to create one.
type Client struct {
	baseURL    string
	session    Session
	httpClient *http.Client
	retry      RetryPolicy
}

var _ gateway.DocumentGateway = (*Client)(nil)

var errMissingBaseURL = errors.New("gateway base URL is required")

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithTimeout sets the per-call timeout on the underlying HTTP client. Each
// call carries its own timeout; there is no whole-batch deadline at this
// layer.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryPolicy enables bounded retries of transport errors and 5xx
// responses. maxAttempts counts the initial call.
func WithRetryPolicy(maxAttempts uint) Option {
	return func(c *Client) {
		c.retry = RetryPolicy{MaxAttempts: maxAttempts}
	}
}

// NewClient creates a new document store client for the given session.
func NewClient(baseURL string, session Session, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errMissingBaseURL
	}
	if !session.Valid() {
		return nil, fmt.Errorf("%w: API key and secret are required", gateway.ErrAuthFailed)
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		session: session,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Create inserts a new document and returns the name the store assigned.
func (c *Client) Create(ctx context.Context, doctype string, doc gateway.Document) (string, error) {
	reqURL, err := c.resourceURL(doctype, "")
	if err != nil {
		return "", err
	}

	data, err := c.do(ctx, http.MethodPost, reqURL, doc)
	if err != nil {
		return "", err
	}

	name, ok := data["name"].(string)
	if !ok || name == "" {
		return "", fmt.Errorf("store response for created %s is missing a document name", doctype)
	}

	return name, nil
}

// Update applies a partial field patch to the named document.
func (c *Client) Update(ctx context.Context, doctype, name string, patch gateway.Document) error {
	reqURL, err := c.resourceURL(doctype, name)
	if err != nil {
		return err
	}

	_, err = c.do(ctx, http.MethodPut, reqURL, patch)

	return err
}

// Delete removes the named document.
func (c *Client) Delete(ctx context.Context, doctype, name string) error {
	reqURL, err := c.resourceURL(doctype, name)
	if err != nil {
		return err
	}

	_, err = c.do(ctx, http.MethodDelete, reqURL, nil)

	return err
}

// Submit transitions the named document into its submitted state.
func (c *Client) Submit(ctx context.Context, doctype, name string) error {
	return c.setDocstatus(ctx, doctype, name, docstatusSubmitted)
}

// Cancel transitions the named document into its cancelled state.
func (c *Client) Cancel(ctx context.Context, doctype, name string) error {
	return c.setDocstatus(ctx, doctype, name, docstatusCancelled)
}

// Get fetches the named document. Not used by the bulk executor, which only
// mutates; provided for callers that need to read back results.
func (c *Client) Get(ctx context.Context, doctype, name string) (gateway.Document, error) {
	reqURL, err := c.resourceURL(doctype, name)
	if err != nil {
		return nil, err
	}

	return c.do(ctx, http.MethodGet, reqURL, nil)
}

// ListOptions narrows a List call. A zero value lists the store's default
// page of documents with their default fields.
type ListOptions struct {
	// Fields selects which fields to return for each document.
	Fields []string

	// Filters are field/value equality filters applied server side.
	Filters map[string]any

	// Limit caps the number of documents returned.
	Limit int
}

// List fetches documents of one doctype, optionally filtered.
func (c *Client) List(ctx context.Context, doctype string, opts ListOptions) ([]gateway.Document, error) {
	base, err := c.resourceURL(doctype, "")
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	if len(opts.Fields) > 0 {
		fields, err := json.Marshal(opts.Fields)
		if err != nil {
			return nil, fmt.Errorf("failed to encode fields: %w", err)
		}
		q.Set("fields", string(fields))
	}
	if len(opts.Filters) > 0 {
		filters, err := json.Marshal(opts.Filters)
		if err != nil {
			return nil, fmt.Errorf("failed to encode filters: %w", err)
		}
		q.Set("filters", string(filters))
	}
	if opts.Limit > 0 {
		q.Set("limit_page_length", strconv.Itoa(opts.Limit))
	}

	reqURL := base
	if len(q) > 0 {
		reqURL = base + "?" + q.Encode()
	}

	body, err := c.doRaw(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []gateway.Document `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse store response: %w", err)
	}

	return envelope.Data, nil
}

func (c *Client) setDocstatus(ctx context.Context, doctype, name string, docstatus int) error {
	reqURL, err := c.resourceURL(doctype, name)
	if err != nil {
		return err
	}

	_, err = c.do(ctx, http.MethodPut, reqURL, gateway.Document{"docstatus": docstatus})

	return err
}

func (c *Client) resourceURL(doctype, name string) (string, error) {
	parts := []string{"api", "resource", doctype}
	if name != "" {
		parts = append(parts, name)
	}

	reqURL, err := url.JoinPath(c.baseURL, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to build request URL: %w", err)
	}

	return reqURL, nil
}

// do performs one request and decodes the store's {"data": {...}} envelope.
func (c *Client) do(ctx context.Context, method, reqURL string, body gateway.Document) (gateway.Document, error) {
	respBody, err := c.doRaw(ctx, method, reqURL, body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data gateway.Document `json:"data"`
	}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &envelope); err != nil {
			return nil, fmt.Errorf("failed to parse store response: %w", err)
		}
	}

	return envelope.Data, nil
}

func (c *Client) doRaw(ctx context.Context, method, reqURL string, body gateway.Document) ([]byte, error) {
	if !c.retry.enabled() {
		return c.roundTrip(ctx, method, reqURL, body)
	}

	return retry.DoWithData(
		func() ([]byte, error) {
			return c.roundTrip(ctx, method, reqURL, body)
		},
		retry.Context(ctx),
		retry.Attempts(c.retry.MaxAttempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)
}

func (c *Client) roundTrip(ctx context.Context, method, reqURL string, body gateway.Document) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", c.session.token())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, statusError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// statusError translates an error response into the gateway's failure
// classes, keeping the server's own message in the chain.
func statusError(status int, body []byte) error {
	msg := serverMessage(body)

	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", gateway.ErrAuthFailed, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", gateway.ErrPermissionDenied, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", gateway.ErrNotFound, msg)
	default:
		return &httpError{status: status, message: msg}
	}
}

// serverMessage pulls the human-readable message out of an error response
// body, falling back to the raw body.
func serverMessage(body []byte) string {
	var envelope struct {
		Message   string `json:"message"`
		Exception string `json:"exception"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Exception != "" {
			return envelope.Exception
		}
	}

	return strings.TrimSpace(string(body))
}

// httpError is a non-2xx response outside the mapped failure classes.
type httpError struct {
	status  int
	message string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("store returned status %d: %s", e.status, e.message)
}

// isRetryable reports whether an error is worth retrying: transport errors
// and 5xx responses are, anything the server rejected outright is not.
func isRetryable(err error) bool {
	var he *httpError
	if errors.As(err, &he) {
		return he.status >= http.StatusInternalServerError
	}

	return !errors.Is(err, gateway.ErrAuthFailed) &&
		!errors.Is(err, gateway.ErrPermissionDenied) &&
		!errors.Is(err, gateway.ErrNotFound)
}
