// Package client is the authenticated HTTP client for the finance tracker API.
//
// The bearer token is read from a TokenSource on every request. When the
// server rejects a request with 401 the client logs the session out, asks the
// Navigator to show the login entry point, and returns ErrSessionExpired.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is the hosted backend.
const DefaultBaseURL = "https://expensetrackerbe-rkgb.onrender.com/api"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token and clears the session on rejection.
// *session.Store satisfies it.
type TokenSource interface {
	Token() string
	Logout() error
}

// Navigator sends the user to the login entry point.
type Navigator interface {
	NavigateToLogin()
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) NavigateToLogin() { f() }

// Request describes one outbound call. Path is relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Client is the finance tracker API client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	navigator  Navigator
	httpClient *http.Client
	log        *zap.Logger
	userScope  func() string
}

// New creates a new API client. tokens may be nil for anonymous use.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the origin and root path requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Auth returns the authentication endpoints.
func (c *Client) Auth() Auth {
	return &authClient{client: c}
}

// Transactions returns the transaction endpoints.
func (c *Client) Transactions() Transactions {
	return &transactionClient{client: c}
}

// Categories returns the category endpoints.
func (c *Client) Categories() Categories {
	return &categoryClient{client: c}
}

// Do sends req and returns the raw response body. An empty body yields nil.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.doRequest(ctx, req, &raw); err != nil {
		return nil, fmt.Errorf("client.Do: %w", err)
	}
	return raw, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doRequest(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.doRequest(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

// scoped adds the userId parameter when user scoping is enabled.
func (c *Client) scoped(q url.Values) url.Values {
	if c.userScope == nil {
		return q
	}
	id := c.userScope()
	if id == "" {
		return q
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("userId", id)
	return q
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

func (c *Client) doRequest(ctx context.Context, r Request, out any) error {
	var reqBody io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tok := c.token()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.Path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.log.Debug("request",
		zap.String("method", r.Method),
		zap.String("path", r.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized {
		return c.sessionExpired(resp, reqID, tok)
	}
	if resp.StatusCode >= 400 {
		return readHTTPError(resp)
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// sessionExpired clears the session, navigates to login once, and returns
// an error matching both ErrSessionExpired and a 401 HTTPError. A rejection
// of a token that has since been replaced leaves the newer session alone.
func (c *Client) sessionExpired(resp *http.Response, reqID, sent string) error {
	httpErr := readHTTPError(resp)
	if c.tokens != nil && c.tokens.Token() != sent {
		c.log.Debug("stale session rejected", zap.String("request_id", reqID))
		return httpErr
	}
	c.log.Warn("session rejected by server", zap.String("request_id", reqID))
	if c.tokens != nil {
		if err := c.tokens.Logout(); err != nil {
			c.log.Warn("clear session after 401", zap.Error(err))
		}
	}
	if c.navigator != nil {
		c.navigator.NavigateToLogin()
	}
	return fmt.Errorf("%w: %w", ErrSessionExpired, httpErr)
}

// decodeEntity reads one record from a body shaped either as {"<key>": {...}}
// or as the bare object.
func decodeEntity[T any](raw json.RawMessage, key string) (*T, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) == 0 {
		return nil, fmt.Errorf("empty %s", key)
	}
	body := []byte(raw)
	if inner, ok := fields[key]; ok {
		body = inner
	}
	var out *T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if out == nil {
		return nil, fmt.Errorf("empty %s", key)
	}
	return out, nil
}

func readHTTPError(resp *http.Response) *HTTPError {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}
	var apiErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil {
		if apiErr.Message != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
		}
		if apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
	}
	msg := strings.TrimSpace(string(respBody))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: msg}
}
