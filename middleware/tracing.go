package middleware

import (
	"context"

	"github.com/broady/ejabberd/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/broady/ejabberd/middleware"

// Tracing creates an interceptor that wraps each call in a client span named
// after the wire method. A nil provider uses the global tracer provider.
func Tracing(provider trace.TracerProvider) api.Interceptor {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	tracer := provider.Tracer(tracerName)

	return func(ctx context.Context, info *api.CallInfo, args api.Args, next api.HandlerFunc) (any, error) {
		ctx, span := tracer.Start(ctx, info.Method,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("rpc.system", "xmlrpc"),
				attribute.String("rpc.method", info.Method),
			),
		)
		defer span.End()

		res, err := next(ctx, args)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("ejabberd.error_code", string(api.CodeOf(err))))
			span.SetStatus(codes.Error, err.Error())
		}
		return res, err
	}
}
