package lambda

import "context"

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
	PathParams  map[string]string `json:"path_params"`
	RequestID   string            `json:"request_id"`
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// HandlerFunc is a framework-agnostic handler
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// PathParam returns a path parameter, or "" when absent
func (r *Request) PathParam(name string) string {
	if r == nil || r.PathParams == nil {
		return ""
	}
	return r.PathParams[name]
}

// QueryParam returns a query string parameter, or "" when absent
func (r *Request) QueryParam(name string) string {
	if r == nil || r.QueryParams == nil {
		return ""
	}
	return r.QueryParams[name]
}
