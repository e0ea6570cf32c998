package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// PostMethod is an HTTP verb that carries a JSON body.
type PostMethod string

const (
	MethodPost   PostMethod = http.MethodPost
	MethodPut    PostMethod = http.MethodPut
	MethodDelete PostMethod = http.MethodDelete
)

// APIError is a non-2xx answer from the remote API. Message is the server's
// error field when it sent one, otherwise the HTTP status text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Failures below the HTTP layer are reported with these messages. The underlying
// error is logged, not returned.
var (
	ErrUnreachable = errors.New("order service unreachable")
	ErrTimeout     = errors.New("order service did not respond in time")
	ErrBadResponse = errors.New("order service sent an unreadable response")
)

type errorBody struct {
	Error string `json:"error"`
}

// Client talks JSON to the storefront API under a base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client whose requests are traced and carry correlation
// headers. The client has no timeout of its own; callers bound a request through
// its context.
func NewClient(baseURL string) *Client {
	transport := otelhttp.NewTransport(interceptors.NewTransport(http.DefaultTransport))
	return NewClientWithHTTP(baseURL, &http.Client{Transport: transport})
}

// NewClientWithHTTP uses the given http.Client as is.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// Get fetches uri and decodes the JSON answer into out.
func (c *Client) Get(ctx context.Context, uri string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+uri, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

// Post sends body as JSON with method and decodes the answer into out. An empty
// method means POST.
func (c *Client) Post(ctx context.Context, uri string, body any, method PostMethod, out any) error {
	if method == "" {
		method = MethodPost
	}
	switch method {
	case MethodPost, MethodPut, MethodDelete:
	default:
		return fmt.Errorf("unsupported method %q", method)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, string(method), c.baseURL+uri, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return requestFailure(req, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return requestFailure(req, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		slog.WarnContext(req.Context(), "api response not decodable",
			"method", req.Method, "path", req.URL.Path, "error", err)
		return ErrBadResponse
	}
	return nil
}

// requestFailure logs a transport error and maps it to a message fit for the buyer.
func requestFailure(req *http.Request, err error) error {
	slog.WarnContext(req.Context(), "api request failed",
		"method", req.Method, "path", req.URL.Path, "error", err)

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return ErrTimeout
	}
	return ErrUnreachable
}

func newAPIError(status int, body []byte) *APIError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return &APIError{Status: status, Message: eb.Error}
	}
	msg := http.StatusText(status)
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	return &APIError{Status: status, Message: msg}
}

// IsAPIError reports whether err came from a non-2xx answer.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
