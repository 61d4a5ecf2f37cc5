// Package transport implements api.Transport over ejabberd's XML-RPC listener.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/rpc"
	"strings"
	"time"

	"github.com/broady/ejabberd/api"
	"github.com/kolo/xmlrpc"
)

// DefaultTimeout bounds the wait for a response when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// AbandonGrace is how long an HTTP exchange may outlive the Call that gave up
// on it before its request is cancelled.
const AbandonGrace = time.Second

// Auth is the credential struct ejabberd expects as the first parameter of
// every call when the listener requires authentication.
type Auth struct {
	User     string
	Server   string
	Password string
	// Admin asks the server to check the account against its admin ACL.
	Admin bool
}

func (a *Auth) param() map[string]any {
	return map[string]any{
		"user":     a.User,
		"server":   a.Server,
		"password": a.Password,
		"admin":    a.Admin,
	}
}

// Config configures an XMLRPC transport.
type Config struct {
	// URL of the ejabberd_xmlrpc listener, e.g. http://127.0.0.1:4560.
	URL string
	// Auth is sent with every call when set.
	Auth *Auth
	// Timeout bounds each Call. Zero means DefaultTimeout.
	Timeout time.Duration
	// RoundTripper overrides the HTTP transport. Call still returns after
	// Timeout, and every HTTP exchange is cancelled AbandonGrace later;
	// only the default transport's ResponseHeaderTimeout is not applied.
	RoundTripper http.RoundTripper
	Logger       *slog.Logger
}

// XMLRPC sends operations as XML-RPC method calls. Arguments travel as a
// single struct parameter, preceded by the Auth struct when configured.
type XMLRPC struct {
	client  *xmlrpc.Client
	auth    *Auth
	timeout time.Duration
	logger  *slog.Logger
}

// NewXMLRPC creates a transport for cfg.
func NewXMLRPC(cfg Config) (*XMLRPC, error) {
	if cfg.URL == "" {
		return nil, errors.New("transport: URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rt := cfg.RoundTripper
	if rt == nil {
		ht := http.DefaultTransport.(*http.Transport).Clone()
		ht.ResponseHeaderTimeout = timeout
		rt = ht
	}
	client, err := xmlrpc.NewClient(cfg.URL, &deadlineTransport{next: rt, timeout: timeout + AbandonGrace})
	if err != nil {
		return nil, fmt.Errorf("transport: creating client for %s: %w", cfg.URL, err)
	}
	return &XMLRPC{
		client:  client,
		auth:    cfg.Auth,
		timeout: timeout,
		logger:  cfg.Logger,
	}, nil
}

func (x *XMLRPC) log() *slog.Logger {
	if x.logger == nil {
		return slog.Default()
	}
	return x.logger
}

type result struct {
	reply map[string]any
	err   error
}

// Call implements api.Transport. A cancelled context abandons the call; the
// HTTP exchange continues in the background until it completes or its
// deadline passes.
func (x *XMLRPC) Call(ctx context.Context, method string, args map[string]any) (api.Response, error) {
	timer := time.NewTimer(x.timeout)
	defer timer.Stop()

	params := []any{args}
	if x.auth != nil {
		params = []any{x.auth.param(), args}
	}

	done := make(chan result, 1)
	go func() {
		var reply map[string]any
		err := x.client.Call(method, params, &reply)
		done <- result{reply: reply, err: err}
	}()

	select {
	case <-ctx.Done():
		x.log().DebugContext(ctx, "xmlrpc call abandoned",
			slog.String("method", method),
			slog.Any("error", ctx.Err()))
		return nil, ctx.Err()
	case <-timer.C:
		return nil, &TimeoutError{Method: method, After: x.timeout}
	case r := <-done:
		if r.err != nil {
			return nil, classify(method, r.err)
		}
		return api.Response(r.reply), nil
	}
}

// deadlineTransport cancels every request that is still running after timeout.
type deadlineTransport struct {
	next    http.RoundTripper
	timeout time.Duration
}

func (d *deadlineTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(req.Context(), d.timeout)
	resp, err := d.next.RoundTrip(req.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// Close releases the underlying client.
func (x *XMLRPC) Close() error {
	return x.client.Close()
}

// TimeoutError reports a call that got no response within the configured timeout.
type TimeoutError struct {
	Method string
	After  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: no response after %s", e.Method, e.After)
}

// Fault is an XML-RPC fault returned by the server, such as an authentication
// failure or an unknown command.
type Fault struct {
	Method  string
	Code    int
	Message string
}

func (f *Fault) Error() string {
	if f.Code != 0 {
		return fmt.Sprintf("%s: fault %d: %s", f.Method, f.Code, f.Message)
	}
	return fmt.Sprintf("%s: fault: %s", f.Method, f.Message)
}

// classify turns server faults into *Fault. Other errors, including HTTP
// status failures, are returned unchanged.
func classify(method string, err error) error {
	var fe xmlrpc.FaultError
	if errors.As(err, &fe) {
		return &Fault{Method: method, Code: fe.Code, Message: fe.String}
	}
	var se rpc.ServerError
	if errors.As(err, &se) {
		var code int
		if _, scanErr := fmt.Sscanf(string(se), "Fault(%d):", &code); scanErr == nil {
			prefix := fmt.Sprintf("Fault(%d): ", code)
			return &Fault{Method: method, Code: code, Message: strings.TrimPrefix(string(se), prefix)}
		}
	}
	return err
}
