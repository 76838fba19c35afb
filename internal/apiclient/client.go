package apiclient

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

var (
	// ErrSessionExpired matches errors the transport classified as FatalAuth.
	ErrSessionExpired = errors.New("session expired")
	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("resource not found")
)

// Error is a failed API response. Recoverable errors reach the caller as-is.
type Error struct {
	Method         string
	Path           string
	Status         int
	Code           string
	Message        string
	Classification Classification
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %d [%s] %s", e.Method, e.Path, e.Status, e.Code, msg)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Is lets callers use errors.Is with ErrSessionExpired and ErrNotFound.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrSessionExpired:
		return e.Classification == FatalAuth
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Options configure a Client.
type Options struct {
	BaseURL  string
	BasePath string
	Timeout  time.Duration
}

// Client sends JSON requests below the API base path.
type Client struct {
	endpoint string
	policy   Policy
	client   *http.Client
}

// NewClient builds a client whose requests go through transport. policy is
// used to label returned errors; the transport applies it independently.
func NewClient(opts Options, transport http.RoundTripper, policy Policy) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	basePath := strings.TrimRight(opts.BasePath, "/")
	return &Client{
		endpoint: baseURL + basePath,
		policy:   policy,
		client:   &http.Client{Transport: transport, Timeout: opts.Timeout},
	}
}

// Endpoint returns base URL plus base path.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Do sends method path with an optional JSON body and decodes the response
// "data" member into out when out is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &Error{
			Method:         method,
			Path:           path,
			Status:         resp.StatusCode,
			Classification: c.policy.Classify(resp.StatusCode, req.URL.Path),
		}
		var errResp errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Code = errResp.Error.Code
			apiErr.Message = errResp.Error.Message
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("parse response data: %w", err)
	}
	return nil
}
