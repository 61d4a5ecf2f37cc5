package api

import (
	"context"
	"log/slog"
	"time"
)

// Invoker drives operations through the invocation pipeline against an
// injected Transport. It holds no per-call state and is safe for concurrent use
// once configured.
type Invoker struct {
	transport    Transport
	registry     *Registry
	interceptors []Interceptor
	logger       *slog.Logger
}

// NewInvoker creates an invoker calling through t.
func NewInvoker(t Transport) *Invoker {
	return &Invoker{
		transport: t,
		registry:  NewRegistry(),
	}
}

// WithRegistry sets the registry used by Call to resolve method names.
func (inv *Invoker) WithRegistry(r *Registry) *Invoker {
	inv.registry = r
	return inv
}

// WithInterceptor adds an interceptor.
// Interceptors execute in the order they were added; the first added is outermost.
func (inv *Invoker) WithInterceptor(i Interceptor) *Invoker {
	inv.interceptors = append(inv.interceptors, i)
	return inv
}

// WithLogger sets a custom logger for the invoker.
// If not set, slog.Default() will be used.
func (inv *Invoker) WithLogger(logger *slog.Logger) *Invoker {
	inv.logger = logger
	return inv
}

// Registry returns the registry used by Call.
func (inv *Invoker) Registry() *Registry {
	return inv.registry
}

func (inv *Invoker) log() *slog.Logger {
	if inv.logger == nil {
		return slog.Default()
	}
	return inv.logger
}

// Invoke runs op with the supplied keyword arguments and returns its shaped result.
//
// The pipeline is: keyword check, TransformArguments, coercion, serialization,
// transport call, ValidateResponse, TransformResponse. Every stage wraps the
// next one, so a failure returns the zero Res and the error of that stage.
func Invoke[Res any](ctx context.Context, inv *Invoker, op *Operation[Res], args Args) (Res, error) {
	var zero Res
	res, err := inv.run(ctx, op, args)
	if err != nil {
		return zero, err
	}
	typed, ok := res.(Res)
	if !ok {
		return zero, Errorf(CodeInternal, "%s: interceptor returned %T, expected %s", op.method, res, op.Metadata().Result)
	}
	return typed, nil
}

// Call invokes the registered operation named method. The result has the
// operation's declared result type.
func (inv *Invoker) Call(ctx context.Context, method string, args Args) (any, error) {
	if inv.registry == nil {
		return nil, Errorf(CodeUnknownMethod, "unknown method %s", method).WithDetail("method", method)
	}
	ep, ok := inv.registry.Lookup(method)
	if !ok {
		return nil, Errorf(CodeUnknownMethod, "unknown method %s", method).WithDetail("method", method)
	}
	return inv.run(ctx, ep, args)
}

func (inv *Invoker) run(ctx context.Context, ep Endpoint, args Args) (any, error) {
	info := &CallInfo{Method: ep.Metadata().Method}
	ctx = newContext(ctx, info)
	if args == nil {
		args = Args{}
	}

	final := func(ctx context.Context, args Args) (any, error) {
		start := time.Now()
		res, err := ep.call(ctx, inv.transport, args)
		if err != nil {
			inv.log().DebugContext(ctx, "operation failed",
				slog.String("method", info.Method),
				slog.String("code", string(CodeOf(err))),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err))
			return nil, err
		}
		return res, nil
	}

	if chain := chainInterceptors(inv.interceptors); chain != nil {
		return chain(ctx, info, args, final)
	}
	return final(ctx, args)
}
