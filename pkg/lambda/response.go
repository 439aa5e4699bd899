package lambda

import (
	"encoding/json"
	"net/http"
)

// jsonHeaders are set on every response
func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

// JSON builds a response with payload encoded as the body
func JSON(statusCode int, payload interface{}) *Response {
	body, err := json.Marshal(payload)
	if err != nil {
		return Error(http.StatusInternalServerError, err.Error())
	}
	return &Response{
		StatusCode: statusCode,
		Headers:    jsonHeaders(),
		Body:       body,
	}
}

// Error builds a response whose body is {"error": message}
func Error(statusCode int, message string) *Response {
	body, _ := json.Marshal(map[string]string{"error": message})
	return &Response{
		StatusCode: statusCode,
		Headers:    jsonHeaders(),
		Body:       body,
	}
}
