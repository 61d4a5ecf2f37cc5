package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

const okResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><struct>
<member><name>res</name><value><int>0</int></value></member>
</struct></value></param></params></methodResponse>`

const listResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><struct>
<member><name>users</name><value><array><data>
<value><struct><member><name>username</name><value><string>alice</string></value></member></struct></value>
<value><struct><member><name>username</name><value><string>bob</string></value></member></struct></value>
</data></array></value></member>
</struct></value></param></params></methodResponse>`

const faultResponse = `<?xml version="1.0"?>
<methodResponse><fault><value><struct>
<member><name>faultCode</name><value><int>-118</int></value></member>
<member><name>faultString</name><value><string>Unknown call</string></value></member>
</struct></value></fault></methodResponse>`

// recordingServer answers every request with body and keeps the request bodies.
type recordingServer struct {
	*httptest.Server
	mu     sync.Mutex
	bodies []string
}

func newRecordingServer(t *testing.T, body string) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rs.mu.Lock()
		rs.bodies = append(rs.bodies, string(b))
		rs.mu.Unlock()
		w.Header().Set("Content-Type", "text/xml")
		io.WriteString(w, body)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) lastBody() string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if len(rs.bodies) == 0 {
		return ""
	}
	return rs.bodies[len(rs.bodies)-1]
}

func newTestTransport(t *testing.T, cfg Config) *XMLRPC {
	t.Helper()
	x, err := NewXMLRPC(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { x.Close() })
	return x
}

func TestNewXMLRPC_RequiresURL(t *testing.T) {
	if _, err := NewXMLRPC(Config{}); err == nil {
		t.Error("expected error for empty URL")
	}
}

func TestXMLRPC_Call(t *testing.T) {
	srv := newRecordingServer(t, okResponse)
	x := newTestTransport(t, Config{URL: srv.URL})

	res, err := x.Call(context.Background(), "unregister", map[string]any{"user": "alice", "host": "example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := res.Int("res"); !ok || n != 0 {
		t.Errorf("expected res 0, got %v (present=%v)", n, ok)
	}

	body := srv.lastBody()
	for _, want := range []string{
		"<methodName>unregister</methodName>",
		"<name>user</name>",
		"alice",
		"<name>host</name>",
		"example.com",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected request body to contain %q, got %s", want, body)
		}
	}
	if strings.Contains(body, "<name>password</name>") {
		t.Error("expected no auth struct without Auth config")
	}
}

func TestXMLRPC_CallWithAuth(t *testing.T) {
	srv := newRecordingServer(t, okResponse)
	x := newTestTransport(t, Config{
		URL:  srv.URL,
		Auth: &Auth{User: "admin", Server: "example.com", Password: "s3cret", Admin: true},
	})

	if _, err := x.Call(context.Background(), "connected_users", map[string]any{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := srv.lastBody()
	if got := strings.Count(body, "<param>"); got != 2 {
		t.Errorf("expected 2 params, got %d", got)
	}
	for _, want := range []string{"<name>server</name>", "<name>password</name>", "s3cret", "<name>admin</name>"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected request body to contain %q", want)
		}
	}
}

func TestXMLRPC_DecodesLists(t *testing.T) {
	srv := newRecordingServer(t, listResponse)
	x := newTestTransport(t, Config{URL: srv.URL})

	res, err := x.Call(context.Background(), "registered_users", map[string]any{"host": "example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	users, err := res.Pluck("users", "username")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 || users[0] != "alice" || users[1] != "bob" {
		t.Errorf("expected [alice bob], got %v", users)
	}
}

func TestXMLRPC_Fault(t *testing.T) {
	srv := newRecordingServer(t, faultResponse)
	x := newTestTransport(t, Config{URL: srv.URL})

	_, err := x.Call(context.Background(), "no_such_command", map[string]any{})
	var fault *Fault
	if !errors.As(err, &fault) {
		t.Fatalf("expected *Fault, got %T: %v", err, err)
	}
	if fault.Method != "no_such_command" {
		t.Errorf("expected method no_such_command, got %s", fault.Method)
	}
	if !strings.Contains(fault.Message, "Unknown call") {
		t.Errorf("expected fault message to mention Unknown call, got %q", fault.Message)
	}
	if Retryable(err) {
		t.Error("expected fault not to be retryable")
	}
}

func TestXMLRPC_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		io.WriteString(w, okResponse)
	}))
	defer srv.Close()
	defer close(release)

	x := newTestTransport(t, Config{URL: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := x.Call(ctx, "connected_users", map[string]any{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestXMLRPC_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		io.WriteString(w, okResponse)
	}))
	defer srv.Close()
	defer close(release)

	x := newTestTransport(t, Config{URL: srv.URL, Timeout: 20 * time.Millisecond, RoundTripper: http.DefaultTransport})

	_, err := x.Call(context.Background(), "connected_users", map[string]any{})
	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected *TimeoutError, got %T: %v", err, err)
	}
	if !Retryable(err) {
		t.Error("expected timeout to be retryable")
	}
}

func TestXMLRPC_AbandonedExchangeIsCancelled(t *testing.T) {
	aborted := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.ReadAll(r.Body)
		<-r.Context().Done()
		close(aborted)
	}))
	defer srv.Close()

	x := newTestTransport(t, Config{URL: srv.URL, Timeout: 20 * time.Millisecond, RoundTripper: http.DefaultTransport})

	_, err := x.Call(context.Background(), "connected_users", map[string]any{})
	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected *TimeoutError, got %T: %v", err, err)
	}

	select {
	case <-aborted:
	case <-time.After(AbandonGrace + 5*time.Second):
		t.Fatal("expected the abandoned request to be cancelled")
	}
}

// blockingRoundTripper never answers; it returns once the request is cancelled.
type blockingRoundTripper struct{}

func (blockingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	<-req.Context().Done()
	return nil, req.Context().Err()
}

func TestDeadlineTransport(t *testing.T) {
	d := &deadlineTransport{next: blockingRoundTripper{}, timeout: 10 * time.Millisecond}
	req, err := http.NewRequest(http.MethodPost, "http://127.0.0.1:4560", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := d.RoundTrip(req)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("expected the round trip to stop at its deadline")
	}
}

func TestDeadlineTransport_ClosePropagates(t *testing.T) {
	srv := newRecordingServer(t, okResponse)
	d := &deadlineTransport{next: http.DefaultTransport, timeout: time.Minute}
	req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader("<methodCall/>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := d.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(body), "methodResponse") {
		t.Errorf("expected response body, got %s", body)
	}
	if err := resp.Body.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
