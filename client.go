package typedql

import (
	"context"
	"encoding/json"
	"fmt"
)

// Transport carries one request to a GraphQL server and returns the raw
// response body. Implementations own everything wire-related: serialization
// of the request, HTTP or any other protocol, retries, authentication.
// The runtime performs exactly one RoundTrip per Send and adds nothing on
// top of it.
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) ([]byte, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) ([]byte, error)

// RoundTrip calls f(ctx, req).
func (f TransportFunc) RoundTrip(ctx context.Context, req *Request) ([]byte, error) {
	return f(ctx, req)
}

// A Client dispatches operations through a Transport. The zero value is not
// usable; construct one with NewClient.
type Client struct {
	transport Transport
}

// NewClient returns a client that dispatches through the given transport.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// A Response wraps the decoded data of one operation together with any
// GraphQL errors the server reported. D is the generated data struct of the
// selection, so only selected fields are accessible on Data.
type Response[D any] struct {
	Data   D      `json:"data"`
	Errors Errors `json:"errors,omitempty"`
}

// Err returns the server-reported errors as a Go error, or nil if the
// response carried none.
func (r *Response[D]) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors
}

// A Handle represents one in-flight operation. It is resolved exactly once;
// Wait may be called any number of times afterwards.
type Handle[D any] struct {
	done chan struct{}
	resp *Response[D]
	err  error
}

// Wait blocks until the round trip completes or ctx is done, whichever
// comes first. The round trip itself is bound to the context passed to
// Send; the Wait context only bounds the waiting caller.
func (h *Handle[D]) Wait(ctx context.Context) (*Response[D], error) {
	select {
	case <-h.done:
		return h.resp, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Send dispatches the operation on its own goroutine and returns a handle
// for the single resulting response. Cancelling ctx cancels the round trip.
func Send[D any](ctx context.Context, c *Client, op Operation[D]) *Handle[D] {
	h := &Handle[D]{done: make(chan struct{})}
	go func() {
		defer close(h.done)
		h.resp, h.err = roundTrip[D](ctx, c, op)
	}()
	return h
}

func roundTrip[D any](ctx context.Context, c *Client, op Operation[D]) (*Response[D], error) {
	if c == nil || c.transport == nil {
		return nil, ErrNoTransport
	}
	body, err := c.transport.RoundTrip(ctx, op.Request())
	if err != nil {
		return nil, fmt.Errorf("typedql: transport: %w", err)
	}
	resp := new(Response[D])
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, fmt.Errorf("typedql: decode response: %w", err)
	}
	return resp, nil
}
