// Package client implements the runner-side view of one backend: an HTTP
// client for the five operations of the stateful execution service contract.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/GeorgePearse/TranspileAI/internal/api"
	"github.com/GeorgePearse/TranspileAI/internal/errors"
	"github.com/GeorgePearse/TranspileAI/internal/registry"
)

// defaultRequestTimeout bounds each round trip to a backend.
const defaultRequestTimeout = 30 * time.Second

// InvokeResult is one backend's answer to an invocation request.
type InvokeResult struct {
	// Success reports whether the backend completed the invocation.
	Success bool

	// Result is the JSON-encoded return value on success.
	Result string

	// Error is the backend's error text on failure.
	Error string

	// ExecutionTimeUs is the backend-reported handler latency in microseconds.
	ExecutionTimeUs int64

	// Runtime is the backend's self-reported runtime label.
	Runtime string
}

// Client talks to one backend over its HTTP API.
// NewClient should be used to create instances of Client.
type Client struct {
	logger     hclog.Logger
	label      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend known to the suite as label,
// reachable at host:port.
func NewClient(logger hclog.Logger, label, host string, port int) (*Client, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("backend label cannot be empty")
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("backend host cannot be empty for '%s'", label)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port %d for backend '%s'", port, label)
	}

	baseURL, err := url.JoinPath(fmt.Sprintf("http://%s:%d", host, port), "/api", api.APIVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to construct base URL for backend '%s': %w", label, err)
	}

	return &Client{
		logger:     logger.Named("client").Named(label),
		label:      label,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}, nil
}

// Label returns the suite-assigned name of this backend.
func (c *Client) Label() string {
	return c.label
}

// Ping verifies that the backend is reachable and answers the API.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListMethods(ctx, "")
	return err
}

// CreateContext creates an execution context on the backend and returns its
// identifier.
func (c *Client) CreateContext(ctx context.Context, initialState string) (string, error) {
	reqBody := api.CreateContextRequestBody{InitialState: initialState}

	var respBody api.CreateContextResponseBody
	if err := c.do(ctx, http.MethodPost, "/contexts", reqBody, &respBody); err != nil {
		return "", err
	}
	if !respBody.Success {
		return "", fmt.Errorf("backend '%s' refused context creation: %s", c.label, respBody.Error)
	}

	return respBody.ContextID, nil
}

// Invoke invokes the named method on the backend. Invocation-level failures
// (unknown method, bad arguments, unknown context, handler error) arrive
// inside the result, not as a Go error; the error return is reserved for
// transport failures.
func (c *Client) Invoke(ctx context.Context, contextID, methodName, argumentsJSON string) (InvokeResult, error) {
	reqBody := api.InvokeMethodRequestBody{
		ContextID:  contextID,
		MethodName: methodName,
		Arguments:  argumentsJSON,
	}

	var respBody api.InvokeMethodResponseBody
	if err := c.do(ctx, http.MethodPost, "/invoke", reqBody, &respBody); err != nil {
		return InvokeResult{}, err
	}

	result := InvokeResult{
		Success: respBody.Success,
		Result:  respBody.Result,
		Error:   respBody.Error,
	}
	if respBody.Metadata != nil {
		result.ExecutionTimeUs = respBody.Metadata.ExecutionTimeUs
		result.Runtime = respBody.Metadata.Runtime
	}

	return result, nil
}

// InspectState returns the JSON-encoded state of a context on the backend.
func (c *Client) InspectState(ctx context.Context, contextID string) (string, error) {
	var respBody api.InspectStateResponseBody
	if err := c.do(ctx, http.MethodGet, "/contexts/"+url.PathEscape(contextID)+"/state", nil, &respBody); err != nil {
		return "", err
	}
	if !respBody.Success {
		return "", fmt.Errorf("backend '%s': %s", c.label, respBody.Error)
	}

	return respBody.State, nil
}

// DestroyContext removes a context on the backend.
func (c *Client) DestroyContext(ctx context.Context, contextID string) error {
	var respBody api.DestroyContextResponseBody
	if err := c.do(ctx, http.MethodDelete, "/contexts/"+url.PathEscape(contextID), nil, &respBody); err != nil {
		return err
	}
	if !respBody.Success {
		return fmt.Errorf("backend '%s': %s", c.label, respBody.Error)
	}

	return nil
}

// ListMethods returns metadata for the backend's registered methods matching
// prefix.
func (c *Client) ListMethods(ctx context.Context, prefix string) ([]registry.Metadata, error) {
	path := "/methods"
	if prefix != "" {
		path += "?prefix=" + url.QueryEscape(prefix)
	}

	var respBody api.ListMethodsResponseBody
	if err := c.do(ctx, http.MethodGet, path, nil, &respBody); err != nil {
		return nil, err
	}

	return respBody.Methods, nil
}

// do performs one request/response round trip, decoding the JSON response
// body into out. Transport and protocol failures wrap ErrBackendUnreachable.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request for backend '%s': %w", c.label, err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to build request for backend '%s': %w", c.label, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: '%s': %v", errors.ErrBackendUnreachable, c.label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Debug("Non-OK response", "status", resp.StatusCode, "body", string(raw))
		return fmt.Errorf(
			"%w: '%s': unexpected HTTP status %d from %s %s",
			errors.ErrBackendUnreachable, c.label, resp.StatusCode, method, path,
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: '%s': malformed response: %v", errors.ErrBackendUnreachable, c.label, err)
	}

	return nil
}
