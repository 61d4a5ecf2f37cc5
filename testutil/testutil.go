// Package testutil provides a stub transport and assertion helpers for testing
// code built on the api package.
// This package is designed to be import-cycle safe and can be used from any package.
package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/broady/ejabberd/api"
	"github.com/google/go-cmp/cmp"
)

// Call is one request received by a Transport.
type Call struct {
	Method string
	Args   map[string]any
}

type reply struct {
	res api.Response
	err error
}

// Transport is an api.Transport that records calls and replays canned replies.
// Replies are registered per method; a method without a reply answers with
// an empty response.
type Transport struct {
	mu      sync.Mutex
	calls   []Call
	replies map[string][]reply
}

// NewTransport creates a stub transport with no canned replies.
func NewTransport() *Transport {
	return &Transport{
		replies: make(map[string][]reply),
	}
}

// Reply queues res as the next response to method. The last queued reply is
// repeated once the others are used up.
func (s *Transport) Reply(method string, res api.Response) *Transport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[method] = append(s.replies[method], reply{res: res})
	return s
}

// Fail queues err as the next outcome of method.
func (s *Transport) Fail(method string, err error) *Transport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[method] = append(s.replies[method], reply{err: err})
	return s
}

// Call implements api.Transport.
func (s *Transport) Call(ctx context.Context, method string, args map[string]any) (api.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recorded := make(map[string]any, len(args))
	for k, v := range args {
		recorded[k] = v
	}
	s.calls = append(s.calls, Call{Method: method, Args: recorded})

	queue := s.replies[method]
	if len(queue) == 0 {
		return api.Response{}, nil
	}
	r := queue[0]
	if len(queue) > 1 {
		s.replies[method] = queue[1:]
	}
	return r.res, r.err
}

// Calls returns the calls received so far.
func (s *Transport) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// LastCall returns the most recent call. It fails the test if there was none.
func (s *Transport) LastCall(t *testing.T) Call {
	t.Helper()
	calls := s.Calls()
	if len(calls) == 0 {
		t.Fatal("expected at least one transport call, got none")
	}
	return calls[len(calls)-1]
}

// AssertNoCalls checks that the transport was never reached.
func (s *Transport) AssertNoCalls(t *testing.T) {
	t.Helper()
	if calls := s.Calls(); len(calls) != 0 {
		t.Errorf("expected no transport calls, got %d: %+v", len(calls), calls)
	}
}

// AssertCall checks that the most recent call had the given method and wire arguments.
func (s *Transport) AssertCall(t *testing.T, method string, args map[string]any) {
	t.Helper()
	call := s.LastCall(t)
	if call.Method != method {
		t.Errorf("expected method %s, got %s", method, call.Method)
	}
	if diff := cmp.Diff(args, call.Args); diff != "" {
		t.Errorf("wire arguments mismatch (-want +got):\n%s", diff)
	}
}

// AssertCode checks that err is an *api.Error with the expected code and returns it.
func AssertCode(t *testing.T, err error, expected api.ErrorCode) *api.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", expected)
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error with code %s, got %T: %v", expected, err, err)
	}
	if apiErr.Code != expected {
		t.Errorf("expected error code %s, got %s (message: %s)", expected, apiErr.Code, apiErr.Message)
	}
	return apiErr
}

// AssertDetail checks that err carries the detail key with the expected value.
func AssertDetail(t *testing.T, err *api.Error, key string, expected any) {
	t.Helper()
	actual, ok := err.Details[key]
	if !ok {
		t.Errorf("expected detail %q, got details %v", key, err.Details)
		return
	}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("detail %q mismatch (-want +got):\n%s", key, diff)
	}
}
