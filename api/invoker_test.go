package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestInvoke(t *testing.T) {
	ft := &fakeTransport{res: Response{"res": 0}}
	inv := NewInvoker(ft)

	ok, err := Invoke(context.Background(), inv, unregisterOp, Args{"user": "alice", "host": "example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected true")
	}
}

func TestInvoke_NilArgs(t *testing.T) {
	op := NewOperation("connected_users_number", func(_ Args, r Response) (int, error) {
		n, _ := r.Int("num_sessions")
		return n, nil
	})
	inv := NewInvoker(&fakeTransport{res: Response{"num_sessions": 2}})

	n, err := Invoke(context.Background(), inv, op, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}

func TestInvoker_Call(t *testing.T) {
	ft := &fakeTransport{res: Response{"res": 0}}
	inv := NewInvoker(ft).WithRegistry(NewRegistry().MustRegister(unregisterOp))

	res, err := inv.Call(context.Background(), "unregister", Args{"user": "alice", "host": "example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != true {
		t.Errorf("expected true, got %v", res)
	}
}

func TestInvoker_CallUnknownMethod(t *testing.T) {
	ft := &fakeTransport{}
	inv := NewInvoker(ft)

	_, err := inv.Call(context.Background(), "no_such_method", nil)
	if !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected unknown_method, got %v", err)
	}
	if ft.calls != 0 {
		t.Error("expected transport not to be called")
	}

	_, err = NewInvoker(ft).WithRegistry(nil).Call(context.Background(), "unregister", nil)
	if !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("expected unknown_method without registry, got %v", err)
	}
}

func TestInvoke_InterceptorResultTypeMismatch(t *testing.T) {
	inv := NewInvoker(&fakeTransport{res: Response{"res": 0}}).
		WithInterceptor(func(ctx context.Context, info *CallInfo, args Args, next HandlerFunc) (any, error) {
			if _, err := next(ctx, args); err != nil {
				return nil, err
			}
			return "not a bool", nil
		})

	ok, err := Invoke(context.Background(), inv, unregisterOp, Args{"user": "alice", "host": "example.com"})
	if CodeOf(err) != CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if ok {
		t.Error("expected zero result")
	}
}

func TestInvoker_Interceptors(t *testing.T) {
	var order []string
	record := func(name string) Interceptor {
		return func(ctx context.Context, info *CallInfo, args Args, next HandlerFunc) (any, error) {
			order = append(order, "before-"+name)
			res, err := next(ctx, args)
			order = append(order, "after-"+name)
			return res, err
		}
	}

	inv := NewInvoker(&fakeTransport{res: Response{"res": 0}}).
		WithInterceptor(record("1")).
		WithInterceptor(record("2"))

	if _, err := Invoke(context.Background(), inv, unregisterOp, Args{"user": "alice", "host": "example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"before-1", "before-2", "after-2", "after-1"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d calls, got %d", len(expected), len(order))
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("at index %d: expected %s, got %s", i, v, order[i])
		}
	}
}

func TestInvoker_InterceptorSeesMethod(t *testing.T) {
	var fromInfo, fromCtx string
	inv := NewInvoker(&fakeTransport{res: Response{"res": 0}}).
		WithInterceptor(func(ctx context.Context, info *CallInfo, args Args, next HandlerFunc) (any, error) {
			fromInfo = info.Method
			fromCtx, _ = MethodFromContext(ctx)
			return next(ctx, args)
		})

	if _, err := Invoke(context.Background(), inv, unregisterOp, Args{"user": "alice", "host": "example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromInfo != "unregister" || fromCtx != "unregister" {
		t.Errorf("expected unregister, got info=%q ctx=%q", fromInfo, fromCtx)
	}
}

func TestInvoker_InterceptorShortCircuit(t *testing.T) {
	ft := &fakeTransport{}
	denied := NewError(CodeInvalidArgument, "read-only client")
	inv := NewInvoker(ft).
		WithInterceptor(func(ctx context.Context, info *CallInfo, args Args, next HandlerFunc) (any, error) {
			return nil, denied
		})

	_, err := Invoke(context.Background(), inv, unregisterOp, Args{"user": "alice", "host": "example.com"})
	if err != denied {
		t.Errorf("expected interceptor error, got %v", err)
	}
	if ft.calls != 0 {
		t.Error("expected transport not to be called")
	}
}

func TestInvoker_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inv := NewInvoker(&fakeTransport{err: errors.New("connection refused")}).WithLogger(logger)

	_, err := Invoke(context.Background(), inv, unregisterOp, Args{"user": "alice", "host": "example.com"})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "operation failed") || !strings.Contains(out, "code=transport") {
		t.Errorf("expected failure to be logged with its code, got %s", out)
	}
}

func TestMethodFromContext_Missing(t *testing.T) {
	if _, ok := MethodFromContext(context.Background()); ok {
		t.Error("expected no method outside an invocation")
	}
}
