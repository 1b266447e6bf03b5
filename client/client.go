// Package client is a typed SDK for the Art of Workflows REST API. It owns
// the bearer-token session, one method per backend operation, the multi-step
// onboarding wizard and the blog comment thread controller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrorKind classifies API failures so callers can pattern-match instead of
// inspecting raw status codes.
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindNetwork      ErrorKind = "network"
	KindCanceled     ErrorKind = "canceled"
	KindServer       ErrorKind = "server"
)

// APIError is the tagged error every SDK call returns on failure.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ErrKind reports whether err is an APIError of the given kind.
func ErrKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool { return ErrKind(err, KindNotFound) }

// IsUnauthorized reports whether err is a 401.
func IsUnauthorized(err error) bool { return ErrKind(err, KindUnauthorized) }

// IsCanceled reports whether err came from a canceled context.
func IsCanceled(err error) bool { return ErrKind(err, KindCanceled) }

// Client talks to one API origin and carries the session for it.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Client for the given API base URL. The token store is read
// once here; call Session().Restore to validate a persisted token.
func New(baseURL string, store TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.session = newSession(c, store)
	return c
}

// Session returns the client's auth session.
func (c *Client) Session() *Session { return c.session }

// BaseURL returns the configured API origin.
func (c *Client) BaseURL() string { return c.baseURL }

// do issues one request with auth headers attached and decodes the response
// into out. Failures come back as *APIError; a 401 additionally expires the
// session so the whole page drops to anonymous.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	for k, v := range c.session.AuthHeaders() {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(ctx, err)
	}

	if resp.StatusCode >= 400 {
		return c.statusError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := decodeBody(data, out); err != nil {
			return &APIError{Kind: KindServer, Status: resp.StatusCode, Message: "unexpected response shape"}
		}
	}
	return nil
}

func transportError(ctx context.Context, err error) *APIError {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &APIError{Kind: KindCanceled, Message: "request canceled"}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &APIError{Kind: KindNetwork, Message: "request timed out"}
	}
	return &APIError{Kind: KindNetwork, Message: "could not reach server: " + err.Error()}
}

func (c *Client) statusError(status int, body []byte) *APIError {
	msg := serverMessage(body)
	switch status {
	case http.StatusUnauthorized:
		c.session.expire()
		if msg == "" {
			msg = "authentication required"
		}
		return &APIError{Kind: KindUnauthorized, Status: status, Message: msg}
	case http.StatusForbidden:
		if msg == "" {
			msg = "permission denied"
		}
		return &APIError{Kind: KindForbidden, Status: status, Message: msg}
	case http.StatusNotFound:
		if msg == "" {
			msg = "not found"
		}
		return &APIError{Kind: KindNotFound, Status: status, Message: msg}
	default:
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &APIError{Kind: KindServer, Status: status, Message: fmt.Sprintf("server returned %d: %s", status, msg)}
	}
}

// serverMessage pulls a human-readable message out of an error body. The
// backend sends {code, message}; older deployments sent {detail}.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Detail
}

// decodeBody decodes a response, unwrapping {"messages": [...]}-style list
// envelopes that some deployments of the backend emit.
func decodeBody(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err == nil {
		return nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	for _, key := range []string{"messages", "items", "data", "results"} {
		if raw, ok := envelope[key]; ok {
			return json.Unmarshal(raw, out)
		}
	}
	return fmt.Errorf("no recognized envelope key")
}

func jsonBody(v any) (io.Reader, string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}
