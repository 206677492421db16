package enhance

import (
	"context"
	"fmt"
)

// Kind classifies a RequestError for logging. Callers treat every kind the same.
type Kind string

const (
	KindRequest Kind = "request"
	KindNetwork Kind = "network"
	KindStatus  Kind = "status"
	KindShape   Kind = "shape"
)

// RequestError is the single failure outcome of Enhance.
type RequestError struct {
	Kind       Kind
	StatusCode int // set for KindStatus
	Err        error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("enhance %s error: %v", e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

type requestIDKey struct{}

// WithRequestID returns a context carrying id. Enhance sends it as X-Request-ID
// and tags its log lines with it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
