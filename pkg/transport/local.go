// Package transport provides an in-process http.RoundTripper that dispatches
// requests straight into an http.Handler. It lets the catalog client run
// against the real router in tests and embedded deployments without opening a
// socket.
package transport

import (
	"net/http"
	"net/http/httptest"
)

// Local routes every request through the wrapped handler.
type Local struct {
	Handler http.Handler
}

// NewLocal wraps a handler as a RoundTripper.
func NewLocal(handler http.Handler) *Local {
	return &Local{Handler: handler}
}

// RoundTrip implements http.RoundTripper.
func (l *Local) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	rec := httptest.NewRecorder()
	l.Handler.ServeHTTP(rec, req)
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

// NewLocalClient returns an *http.Client whose transport is the handler.
func NewLocalClient(handler http.Handler) *http.Client {
	return &http.Client{Transport: NewLocal(handler)}
}
