// Package api is the portal's client for the upstream platform REST API.
//
// Every upstream response follows the same envelope; the three token error
// codes are the contract for "clear credentials and go back to login".
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/llmhomework/portal/core"
)

// Token error codes returned by the upstream API.
const (
	CodeNoToken      = "NO_TOKEN"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeExpiredToken = "EXPIRED_TOKEN"
)

// Envelope is the shape of every upstream response. The request-filing
// endpoints report the created record's id at the top level instead of
// under data.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
	ID      int             `json:"id,omitempty"`
}

// Error is an application-level failure: a well-formed response with
// success=false. Its Message is what the original surfaced as a toast.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// AuthError is an authentication failure (one of the token error codes).
// Callers must clear stored credentials and navigate to the login route.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// IsAuthError reports whether err is an upstream authentication failure.
func IsAuthError(err error) bool {
	_, ok := errors.Cause(err).(*AuthError)
	return ok
}

func isTokenCode(code string) bool {
	switch code {
	case CodeNoToken, CodeInvalidToken, CodeExpiredToken:
		return true
	}
	return false
}

// TokenSource yields the stored bearer credential; an empty string means
// "unauthenticated". *session.Session satisfies it.
type TokenSource interface {
	Token() string
}

// Client talks to the upstream API. All calls take a context so a navigation
// away from the initiating view can abort the in-flight request; a stale
// response can then never reach a since-departed view.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
}

func NewClient(conf *core.Config, tokens TokenSource) *Client {
	return &Client{
		base:   strings.TrimRight(conf.APIBaseURL, "/"),
		http:   &http.Client{},
		tokens: tokens,
	}
}

// do performs one request/response round trip and unpacks the envelope.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (Envelope, error) {
	var env Envelope

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return env, errors.Wrap(err, "encoding request body")
		}
	}

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return env, errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return env, errors.Wrap(err, "calling upstream API")
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return env, errors.Wrap(err, "decoding response envelope")
	}

	if isTokenCode(env.Code) {
		return env, &AuthError{Code: env.Code, Message: env.Message}
	}
	if !env.Success {
		return env, &Error{Code: env.Code, Message: env.Message}
	}
	return env, nil
}

// get unmarshals the data field of a GET response into out (out may be nil).
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	env, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return unmarshalData(env.Data, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	env, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return unmarshalData(env.Data, out)
}

// postForID posts body and returns the created record's top-level id.
func (c *Client) postForID(ctx context.Context, path string, body interface{}) (int, error) {
	env, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return 0, err
	}
	return env.ID, nil
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	env, err := c.do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return err
	}
	return unmarshalData(env.Data, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out interface{}) error {
	env, err := c.do(ctx, http.MethodPatch, path, nil, body)
	if err != nil {
		return err
	}
	return unmarshalData(env.Data, out)
}

func unmarshalData(data json.RawMessage, out interface{}) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(data, out), "decoding response data")
}
