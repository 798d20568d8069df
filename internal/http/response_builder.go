package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	msgServerError     = "Server error"
	msgNotFound        = "Not found"
	msgMethodNotAllow  = "Method not allowed"
	msgTooManyRequests = "Too many requests"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Changes *int64 `json:"changes,omitempty"`
}

// ResponseBuilder assembles an Envelope and its status code.
type ResponseBuilder struct {
	statusCode int
	envelope   Envelope
	nullData   bool
	headers    map[string]string
}

func NewJSONResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		envelope:   Envelope{Success: true},
		headers:    make(map[string]string),
	}
}

func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	b.envelope.Success = code < 400
	return b
}

func (b *ResponseBuilder) Data(data any) *ResponseBuilder {
	b.envelope.Data = data
	return b
}

// NullableData sets data and keeps the key as null when data is nil, so clients
// can tell "no row" from "no data field".
func (b *ResponseBuilder) NullableData(data any) *ResponseBuilder {
	b.envelope.Data = data
	b.nullData = true
	return b
}

func (b *ResponseBuilder) Message(msg string) *ResponseBuilder {
	b.envelope.Message = msg
	return b
}

func (b *ResponseBuilder) Changes(n int64) *ResponseBuilder {
	b.envelope.Changes = &n
	return b
}

func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *ResponseBuilder) body() ([]byte, error) {
	if !b.nullData {
		return json.Marshal(b.envelope)
	}
	return json.Marshal(struct {
		Success bool   `json:"success"`
		Data    any    `json:"data"`
		Message string `json:"message,omitempty"`
		Changes *int64 `json:"changes,omitempty"`
	}{b.envelope.Success, b.envelope.Data, b.envelope.Message, b.envelope.Changes})
}

func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	body, err := b.body()
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		body = []byte(`{"success":false,"message":"` + msgServerError + `"}`)
		b.statusCode = http.StatusInternalServerError
	}

	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(body, '\n'))
}

func OK(data any) *ResponseBuilder {
	return NewJSONResponse().Data(data)
}

func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewJSONResponse().Status(statusCode).Message(message)
}

func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func InternalServerError() *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, msgServerError)
}

func NotFoundError() *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, msgNotFound)
}

func MethodNotAllowedError() *ResponseBuilder {
	return ErrorResponse(http.StatusMethodNotAllowed, msgMethodNotAllow)
}

func TooManyRequestsError() *ResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, msgTooManyRequests)
}
