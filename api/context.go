package api

import (
	"context"
)

type contextKey struct {
	name string
}

var callInfoKey = &contextKey{"call_info"}

// CallInfo describes the operation being invoked.
type CallInfo struct {
	Method string
}

// MethodFromContext returns the wire method name of the current invocation.
func MethodFromContext(ctx context.Context) (method string, ok bool) {
	if info, ok := ctx.Value(callInfoKey).(*CallInfo); ok {
		return info.Method, true
	}
	return "", false
}

func newContext(ctx context.Context, info *CallInfo) context.Context {
	return context.WithValue(ctx, callInfoKey, info)
}
