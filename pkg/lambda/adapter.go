package lambda

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"user-registry-api/internal/logging"
)

// ProxyHandler is the signature aws-lambda-go expects for API Gateway proxy
// integrations
type ProxyHandler func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// NewRequest converts an API Gateway proxy event to a generic request
func NewRequest(event events.APIGatewayProxyRequest) (*Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, err
		}
		body = decoded
	}

	return &Request{
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		Body:        body,
		PathParams:  event.PathParameters,
		RequestID:   event.RequestContext.RequestID,
	}, nil
}

// ToProxyResponse converts a generic response to an API Gateway proxy response
func (r *Response) ToProxyResponse() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       string(r.Body),
	}
}

// Adapt wraps a HandlerFunc for aws-lambda-go. Every outcome is reported
// through the proxy response; the returned Go error is always nil so API
// Gateway never turns a handler failure into a bare 502.
func Adapt(fn HandlerFunc) ProxyHandler {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := NewRequest(event)
		if err != nil {
			return Error(http.StatusBadRequest, "Invalid request body encoding").ToProxyResponse(), nil
		}

		if req.RequestID != "" {
			ctx = logging.WithRequestID(ctx, req.RequestID)
		}

		resp, err := fn(ctx, req)
		if err != nil || resp == nil {
			logging.FromContext(ctx).WithError(err).Error("Handler failed")
			return Error(http.StatusInternalServerError, "Internal server error").ToProxyResponse(), nil
		}

		return resp.ToProxyResponse(), nil
	}
}
