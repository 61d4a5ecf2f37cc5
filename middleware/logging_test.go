package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/broady/ejabberd/api"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func TestLogging_Success(t *testing.T) {
	var buf bytes.Buffer
	interceptor := Logging(newTestLogger(&buf))

	info := &api.CallInfo{Method: "registered_users"}
	next := func(ctx context.Context, args api.Args) (any, error) {
		return []string{"alice"}, nil
	}

	result, err := interceptor(context.Background(), info, api.Args{"host": "example.com"}, next)

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if users, ok := result.([]string); !ok || len(users) != 1 {
		t.Errorf("expected [alice], got %v", result)
	}

	logOutput := buf.String()
	if !strings.Contains(logOutput, "call started") {
		t.Error("expected 'call started' in log output")
	}
	if !strings.Contains(logOutput, "call completed") {
		t.Error("expected 'call completed' in log output")
	}
	if !strings.Contains(logOutput, "registered_users") {
		t.Error("expected method in log output")
	}
	if !strings.Contains(logOutput, "duration") {
		t.Error("expected 'duration' in log output")
	}
}

func TestLogging_Error(t *testing.T) {
	var buf bytes.Buffer
	interceptor := Logging(newTestLogger(&buf))

	testErr := errors.New("test error")
	next := func(ctx context.Context, args api.Args) (any, error) {
		return nil, testErr
	}

	result, err := interceptor(context.Background(), &api.CallInfo{Method: "unregister"}, api.Args{}, next)

	if err != testErr {
		t.Errorf("expected test error, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %v", result)
	}

	logOutput := buf.String()
	if !strings.Contains(logOutput, "call failed") {
		t.Error("expected 'call failed' in log output")
	}
	if !strings.Contains(logOutput, "test error") {
		t.Error("expected error message in log output")
	}
}

func TestLogging_ErrorCode(t *testing.T) {
	var buf bytes.Buffer
	interceptor := Logging(newTestLogger(&buf))

	customErr := api.NewError(api.CodeMissingArgument, "unregister: missing supplied argument(s): host")
	next := func(ctx context.Context, args api.Args) (any, error) {
		return nil, customErr
	}

	_, err := interceptor(context.Background(), &api.CallInfo{Method: "unregister"}, api.Args{}, next)

	if err != customErr {
		t.Errorf("expected custom error, got %v", err)
	}
	logOutput := buf.String()
	if !strings.Contains(logOutput, `"code":"missing_argument"`) {
		t.Errorf("expected error code in log output, got %s", logOutput)
	}
}

func TestLogging_DoesNotLogArguments(t *testing.T) {
	var buf bytes.Buffer
	interceptor := Logging(newTestLogger(&buf))

	next := func(ctx context.Context, args api.Args) (any, error) {
		return nil, errors.New("denied")
	}

	_, _ = interceptor(context.Background(), &api.CallInfo{Method: "register"},
		api.Args{"user": "alice", "host": "example.com", "password": "hunter2"}, next)

	if strings.Contains(buf.String(), "hunter2") {
		t.Error("expected password not to be logged")
	}
}

func TestLogging_NilLogger(t *testing.T) {
	// Should not panic with nil logger, should use default
	interceptor := Logging(nil)

	next := func(ctx context.Context, args api.Args) (any, error) {
		return "response", nil
	}

	result, err := interceptor(context.Background(), &api.CallInfo{Method: "echothisnew"}, api.Args{}, next)

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result != "response" {
		t.Errorf("expected response, got %v", result)
	}
}

func TestLogging_PassesArgumentsThrough(t *testing.T) {
	interceptor := Logging(newTestLogger(&bytes.Buffer{}))

	type ctxKey string
	key := ctxKey("test-key")
	ctx := context.WithValue(context.Background(), key, "test-value")

	next := func(ctx context.Context, args api.Args) (any, error) {
		if ctx.Value(key) != "test-value" {
			t.Error("expected context value to be propagated")
		}
		if args["sentence"] != "hello" {
			t.Errorf("expected arguments to be passed through, got %v", args)
		}
		return nil, nil
	}

	_, err := interceptor(ctx, &api.CallInfo{Method: "echothisnew"}, api.Args{"sentence": "hello"}, next)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
