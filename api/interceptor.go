package api

import (
	"context"
)

// HandlerFunc represents the next handler in an interceptor chain.
// It is passed to [Interceptor] functions to invoke the next interceptor
// or the invocation pipeline itself.
type HandlerFunc func(ctx context.Context, args Args) (res any, err error)

// Interceptor is a hook that wraps every invocation made through an [Invoker].
//
//	func timing(ctx context.Context, info *api.CallInfo, args api.Args, next api.HandlerFunc) (any, error) {
//	    start := time.Now()
//	    res, err := next(ctx, args)
//	    log.Printf("%s took %v", info.Method, time.Since(start))
//	    return res, err
//	}
//
// Interceptors can:
//   - Inspect or replace the supplied arguments before calling next
//   - Inspect the result or error after calling next
//   - Short-circuit by returning an error without calling next
//
// An interceptor that replaces the result must keep its Go type, otherwise
// the invocation fails with an internal error.
type Interceptor func(ctx context.Context, info *CallInfo, args Args, next HandlerFunc) (res any, err error)

// chainInterceptors combines multiple interceptors into a single one.
// The first interceptor in the slice is the outer-most one (runs first).
func chainInterceptors(interceptors []Interceptor) Interceptor {
	if len(interceptors) == 0 {
		return nil
	}
	if len(interceptors) == 1 {
		return interceptors[0]
	}
	return func(ctx context.Context, info *CallInfo, args Args, handler HandlerFunc) (any, error) {
		// Chain: i[0] -> i[1] -> ... -> handler
		chain := handler
		for i := len(interceptors) - 1; i >= 0; i-- {
			current := interceptors[i]
			next := chain
			chain = func(ctx context.Context, args Args) (any, error) {
				return current(ctx, info, args, next)
			}
		}
		return chain(ctx, args)
	}
}
