// Package api declares remote operations and drives them through a uniform
// invocation pipeline.
//
// An [Operation] binds a wire method name to an ordered list of [Argument]
// descriptors and three hooks: an argument transform, a response validator
// and a response transform. An [Invoker] executes operations against an
// injected [Transport]:
//
//	inv := api.NewInvoker(transport)
//	ok, err := api.Invoke(ctx, inv, unregister, api.Args{"user": "alice", "host": "example.com"})
//
// Every failure is an [*Error] whose [ErrorCode] identifies the stage that
// failed: keyword checking, argument validation, the transport call, or a
// domain condition reported by a response validator.
package api
