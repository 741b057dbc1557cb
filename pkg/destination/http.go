package destination

import (
	"context"
	"maps"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/expr"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/aretw0/hodr/pkg/status"
)

// HTTPAdapter shapes the payload into an HTTP request and sends it through a
// pluggable client.
//
// A *domain.HTTPRequest payload is forwarded: its fields and route parameters
// bind the URI template and its body is sent as is. Any other payload is
// shaped by the request parameters: atoms plus the path parameters bind the
// template, and BodyFrom (or the whole payload) becomes the body.
type HTTPAdapter struct {
	endpoint string
	client   ports.HTTPClient
	headers  map[string]string
}

// HTTPOption configures an HTTPAdapter.
type HTTPOption func(*HTTPAdapter)

// WithHeader adds a header sent with every request.
func WithHeader(name, value string) HTTPOption {
	return func(a *HTTPAdapter) {
		a.headers[name] = value
	}
}

// NewHTTPAdapter creates an adapter for endpoint.
func NewHTTPAdapter(endpoint string, client ports.HTTPClient, opts ...HTTPOption) *HTTPAdapter {
	a := &HTTPAdapter{endpoint: endpoint, client: client, headers: make(map[string]string)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Endpoint returns the base URI requests are sent to.
func (a *HTTPAdapter) Endpoint() string { return a.endpoint }

func (a *HTTPAdapter) Invoke(ctx context.Context, exec *domain.ExecutionContext, path string, params *domain.RequestParams) (any, error) {
	req, err := a.buildRequest(exec, path, params)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(ctx, exec, req)
	if err != nil {
		return nil, err
	}
	if resp.Request == nil {
		resp.Request = req
	}
	status.RecordCanonical(exec, resp.StatusCode, "http-destination")
	return resp, nil
}

func (a *HTTPAdapter) buildRequest(exec *domain.ExecutionContext, path string, params *domain.RequestParams) (*domain.HTTPRequest, error) {
	if params == nil {
		params = &domain.RequestParams{}
	}
	method := params.Method
	if method == "" {
		method = domain.MethodGet
	}

	pathParams, body := a.resolve(exec, params)

	uri, err := ExpandTemplate(path, pathParams)
	if err != nil {
		return nil, domain.NewError(err.Error(),
			domain.WithCode(string(status.BadRequest)),
			domain.WithContextual(map[string]any{"uri": path}),
			domain.WithCause(err),
		)
	}
	exec.AddJournalEntry(domain.JournalEntry{
		ID:       "parameterized-uri",
		Title:    "Parameterized URI",
		Entry:    uri,
		TypeHint: domain.HintPlaintext,
	})

	headers := maps.Clone(a.headers)
	maps.Copy(headers, params.Headers)

	req := &domain.HTTPRequest{
		Method:  method,
		URI:     JoinURI(a.endpoint, uri),
		Headers: headers,
	}
	if domain.HasBody(method) {
		req.Body = body
	}
	return req, nil
}

func (a *HTTPAdapter) resolve(exec *domain.ExecutionContext, params *domain.RequestParams) (map[string]any, any) {
	payload := exec.Payload()
	if r, ok := payload.(*domain.HTTPRequest); ok && r != nil {
		pathParams := r.Bindings()
		for k, v := range r.Params {
			pathParams[k] = v
		}
		return pathParams, r.Body
	}

	pathParams := exec.Atoms().Map()
	if params.PathParamsFrom != "" {
		switch m := expr.ExtractPath(payload, params.PathParamsFrom).(type) {
		case map[string]any:
			maps.Copy(pathParams, m)
		case map[string]string:
			for k, v := range m {
				pathParams[k] = v
			}
		}
	} else {
		maps.Copy(pathParams, params.PathParams)
	}

	body := payload
	if params.BodyFrom != "" {
		body = expr.ExtractPath(payload, params.BodyFrom)
	}
	return pathParams, body
}
