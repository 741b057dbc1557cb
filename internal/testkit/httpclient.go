// Package testkit holds in-memory fakes for exercising lanes, routes and
// destinations without a network.
package testkit

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
)

// ResponseFunc computes a canned response from the request.
type ResponseFunc func(req *domain.HTTPRequest) *domain.HTTPResponse

// FakeHTTPClient answers requests from a table keyed by URI and method.
// Unmatched requests get a 404 with an empty content envelope.
type FakeHTTPClient struct {
	mu       sync.Mutex
	routes   map[string]map[string]ResponseFunc
	requests []*domain.HTTPRequest
}

var _ ports.HTTPClient = (*FakeHTTPClient)(nil)

// NewFakeHTTPClient creates an empty fake.
func NewFakeHTTPClient() *FakeHTTPClient {
	return &FakeHTTPClient{routes: make(map[string]map[string]ResponseFunc)}
}

// Respond registers a fixed response.
func (c *FakeHTTPClient) Respond(uri, method string, resp *domain.HTTPResponse) *FakeHTTPClient {
	return c.RespondWith(uri, method, func(*domain.HTTPRequest) *domain.HTTPResponse {
		cp := *resp
		cp.Headers = maps.Clone(resp.Headers)
		return &cp
	})
}

// RespondWith registers a computed response.
func (c *FakeHTTPClient) RespondWith(uri, method string, fn ResponseFunc) *FakeHTTPClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.routes[uri] == nil {
		c.routes[uri] = make(map[string]ResponseFunc)
	}
	c.routes[uri][method] = fn
	return c
}

// Requests returns every request received so far.
func (c *FakeHTTPClient) Requests() []*domain.HTTPRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.requests)
}

func (c *FakeHTTPClient) Do(_ context.Context, _ *domain.ExecutionContext, req *domain.HTTPRequest) (*domain.HTTPResponse, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	fn := c.routes[req.URI][req.Method]
	c.mu.Unlock()

	var resp *domain.HTTPResponse
	if fn != nil {
		resp = fn(req)
	} else {
		resp = &domain.HTTPResponse{
			StatusCode: 404,
			Body:       map[string]any{"content": map[string]any{}, "_metadata": map[string]any{}},
		}
	}
	resp.Request = req
	return resp, nil
}
