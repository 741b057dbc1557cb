package domain

import "maps"

// HTTP methods understood by routes and HTTP destinations.
const (
	MethodGet     = "GET"
	MethodPut     = "PUT"
	MethodPost    = "POST"
	MethodDelete  = "DELETE"
	MethodPatch   = "PATCH"
	MethodHead    = "HEAD"
	MethodOptions = "OPTIONS"
	MethodConnect = "CONNECT"
	MethodTrace   = "TRACE"
)

// HasBody reports whether requests with method carry a body.
func HasBody(method string) bool {
	switch method {
	case MethodPost, MethodPut, MethodPatch:
		return true
	}
	return false
}

// HTTPRequest is the transport-neutral view of an HTTP request.
type HTTPRequest struct {
	Method  string            `json:"method"`
	URI     string            `json:"uri"`
	Headers map[string]string `json:"headers,omitempty"`
	Session map[string]any    `json:"session,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
	Body    any               `json:"body,omitempty"`
}

// Bindings exposes the request fields by name.
func (r *HTTPRequest) Bindings() map[string]any {
	return map[string]any{
		"method":  r.Method,
		"uri":     r.URI,
		"headers": r.Headers,
		"session": r.Session,
		"params":  r.Params,
		"body":    r.Body,
	}
}

// HTTPResponse is the transport-neutral view of an HTTP response.
type HTTPResponse struct {
	Request    *HTTPRequest      `json:"request,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	StatusCode int               `json:"statusCode"`
	Body       any               `json:"body"`
}

// Bindings exposes the response fields by name.
func (r *HTTPResponse) Bindings() map[string]any {
	return map[string]any{
		"statusCode": r.StatusCode,
		"headers":    r.Headers,
		"body":       r.Body,
	}
}

// Success reports whether the status is in the 2xx class.
func (r *HTTPResponse) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// RequestParams shapes the request a destination sends. PathParamsFrom and
// BodyFrom are dotted paths into the payload; PathParams binds literal values.
type RequestParams struct {
	Method         string            `json:"method,omitempty" mapstructure:"method"`
	PathParamsFrom string            `json:"pathParamsFrom,omitempty" mapstructure:"path_params_from"`
	PathParams     map[string]any    `json:"pathParams,omitempty" mapstructure:"path_params"`
	BodyFrom       string            `json:"bodyFrom,omitempty" mapstructure:"body_from"`
	Headers        map[string]string `json:"headers,omitempty" mapstructure:"headers"`
}

// WithMethod returns a copy of p using method.
func (p *RequestParams) WithMethod(method string) *RequestParams {
	var cp RequestParams
	if p != nil {
		cp = *p
		cp.PathParams = maps.Clone(p.PathParams)
		cp.Headers = maps.Clone(p.Headers)
	}
	cp.Method = method
	return &cp
}

// Target is a named, pre-bound path and parameter template on a destination.
type Target struct {
	Name   string         `json:"name"`
	Path   string         `json:"path"`
	Params *RequestParams `json:"params,omitempty"`
}
