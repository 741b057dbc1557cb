package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/hodr/internal/logging"
	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/aretw0/hodr/pkg/status"
	"github.com/tidwall/gjson"
)

// DefaultTimeout bounds every outgoing request unless the caller's context
// is shorter.
const DefaultTimeout = 30 * time.Second

// Client sends destination requests with net/http. Bodies are sent as JSON;
// JSON responses are decoded and anything else is returned as text.
type Client struct {
	http   *http.Client
	logger *slog.Logger
}

var _ ports.HTTPClient = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithClientLogger sets the structured logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(cl *Client) {
		if logger != nil {
			cl.logger = logger
		}
	}
}

// NewClient creates a client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:   &http.Client{Timeout: DefaultTimeout},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Do(ctx context.Context, exec *domain.ExecutionContext, req *domain.HTTPRequest) (*domain.HTTPResponse, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, domain.NewError("failed to encode request body",
				domain.WithCode(string(status.BadRequest)),
				domain.WithCause(err),
			)
		}
		body = bytes.NewReader(data)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URI, body)
	if err != nil {
		return nil, domain.NewError(fmt.Sprintf("invalid request %s %s", req.Method, req.URI), domain.WithCause(err))
	}
	for k, v := range req.Headers {
		hreq.Header.Set(k, v)
	}
	if body != nil && hreq.Header.Get("Content-Type") == "" {
		hreq.Header.Set("Content-Type", "application/json")
	}
	hreq.Header.Set("Accept", "application/json")

	start := time.Now()
	hresp, err := c.http.Do(hreq)
	if err != nil {
		code := status.BadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			code = status.GatewayTimeout
		}
		c.logger.Warn("destination request failed", "method", req.Method, "uri", req.URI, "execution_id", exec.ID(), "error", err)
		return nil, domain.NewError(fmt.Sprintf("request to %s failed", req.URI),
			domain.WithCode(string(code)),
			domain.WithContextual(map[string]any{"http": map[string]any{"method": req.Method, "uri": req.URI}}),
			domain.WithCause(err),
		)
	}
	defer hresp.Body.Close()

	data, err := io.ReadAll(hresp.Body)
	if err != nil {
		return nil, domain.NewError("failed to read response body",
			domain.WithCode(string(status.BadGateway)),
			domain.WithCause(err),
		)
	}
	c.logger.Debug("destination request", "method", req.Method, "uri", req.URI, "status", hresp.StatusCode, "duration", time.Since(start))

	resp := &domain.HTTPResponse{
		Request:    req,
		StatusCode: hresp.StatusCode,
		Headers:    make(map[string]string, len(hresp.Header)),
	}
	for name := range hresp.Header {
		resp.Headers[name] = hresp.Header.Get(name)
	}
	switch {
	case len(data) == 0:
	case gjson.ValidBytes(data):
		resp.Body = gjson.ParseBytes(data).Value()
	default:
		resp.Body = string(data)
	}
	return resp, nil
}
