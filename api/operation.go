package api

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Transport performs the remote call. It receives the wire method name and
// the serialized arguments and returns the raw decoded response.
type Transport interface {
	Call(ctx context.Context, method string, args map[string]any) (Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, method string, args map[string]any) (Response, error)

// Call implements Transport.
func (f TransportFunc) Call(ctx context.Context, method string, args map[string]any) (Response, error) {
	return f(ctx, method, args)
}

// Metadata describes a declared operation.
type Metadata struct {
	Method string
	// Inputs are the keyword arguments callers supply.
	Inputs []Argument
	// Arguments are the arguments sent on the wire, after TransformArguments.
	Arguments []Argument
	Result    reflect.Type
}

// Endpoint is the type-erased view of an Operation held by a Registry.
// It is exported so operations can be registered, but sealed so it cannot be
// implemented outside this package.
type Endpoint interface {
	Metadata() *Metadata
	call(ctx context.Context, t Transport, args Args) (any, error)
}

// Operation declares one remote operation: its wire method name, its
// arguments, and the hooks that customize the invocation pipeline.
// Operations are built once at package initialization and are safe for
// concurrent use afterwards.
//
// Example:
//
//	var unregister = api.NewOperation("unregister", api.Succeeded,
//	    api.String("user"), api.String("host"))
type Operation[Res any] struct {
	method             string
	inputs             []Argument
	arguments          []Argument
	transformArguments func(Args) (Args, error)
	validateResponse   func(Args, Response) error
	transformResponse  func(Args, Response) (Res, error)
}

// NewOperation declares an operation sending args and shaping the raw response
// with transform. It panics on an empty method, a nil transform or duplicate
// argument names.
func NewOperation[Res any](method string, transform func(Args, Response) (Res, error), args ...Argument) *Operation[Res] {
	if method == "" {
		panic("api: operation method is required")
	}
	if transform == nil {
		panic(fmt.Sprintf("api: operation %s has no response transform", method))
	}
	mustBeUnique(method, args)
	return &Operation[Res]{
		method:            method,
		arguments:         args,
		transformResponse: transform,
	}
}

// Accepts declares the keyword arguments callers supply when they differ from
// the wire arguments. TransformArguments must then turn the inputs into the
// wire arguments.
func (op *Operation[Res]) Accepts(inputs ...Argument) *Operation[Res] {
	mustBeUnique(op.method, inputs)
	op.inputs = inputs
	return op
}

// TransformArguments sets a hook that may add, remove or rename arguments
// before they are validated and serialized. It receives a copy of the
// supplied arguments.
func (op *Operation[Res]) TransformArguments(fn func(Args) (Args, error)) *Operation[Res] {
	op.transformArguments = fn
	return op
}

// ValidateResponse sets a hook that inspects the raw response and may turn a
// structurally successful reply into a domain error.
func (op *Operation[Res]) ValidateResponse(fn func(Args, Response) error) *Operation[Res] {
	op.validateResponse = fn
	return op
}

// Method returns the wire method name.
func (op *Operation[Res]) Method() string {
	return op.method
}

// Metadata returns the descriptor's metadata.
func (op *Operation[Res]) Metadata() *Metadata {
	return &Metadata{
		Method:    op.method,
		Inputs:    append([]Argument(nil), op.callerArguments()...),
		Arguments: append([]Argument(nil), op.arguments...),
		Result:    reflect.TypeOf((*Res)(nil)).Elem(),
	}
}

func (op *Operation[Res]) callerArguments() []Argument {
	if op.inputs != nil {
		return op.inputs
	}
	return op.arguments
}

func (op *Operation[Res]) call(ctx context.Context, t Transport, args Args) (any, error) {
	return op.execute(ctx, t, args)
}

// execute runs the invocation pipeline. Each step aborts the remaining ones on failure.
func (op *Operation[Res]) execute(ctx context.Context, t Transport, supplied Args) (Res, error) {
	var zero Res

	// 1. Keyword set
	if err := checkKeywords(op.method, op.callerArguments(), supplied, "supplied"); err != nil {
		return zero, err
	}

	// 2. Argument transform
	args := supplied.Clone()
	if op.transformArguments != nil {
		transformed, err := op.transformArguments(args)
		if err != nil {
			return zero, withDetail(err, "method", op.method)
		}
		args = transformed
	}
	if op.inputs != nil || op.transformArguments != nil {
		if err := checkKeywords(op.method, op.arguments, args, "transformed"); err != nil {
			return zero, err
		}
	}

	// 3 & 4. Coerce and serialize
	wire, err := serialize(op.method, op.arguments, args)
	if err != nil {
		return zero, err
	}

	// 5. Transport
	if t == nil {
		return zero, Errorf(CodeInternal, "%s: no transport configured", op.method)
	}
	raw, err := t.Call(ctx, op.method, wire)
	if err != nil {
		return zero, TransportError(op.method, err)
	}
	if raw == nil {
		raw = Response{}
	}

	// 6. Response validation
	if op.validateResponse != nil {
		if err := op.validateResponse(args, raw); err != nil {
			return zero, err
		}
	}

	// 7. Response transform
	res, err := op.transformResponse(args, raw)
	if err != nil {
		return zero, err
	}
	return res, nil
}

// checkKeywords rejects missing required arguments and unknown keywords.
func checkKeywords(method string, declared []Argument, args Args, stage string) error {
	known := make(map[string]struct{}, len(declared))
	var missing []string
	for _, a := range declared {
		known[a.Name] = struct{}{}
		if _, ok := args[a.Name]; !ok && a.Required {
			missing = append(missing, a.Name)
		}
	}
	if len(missing) > 0 {
		return Errorf(CodeMissingArgument, "%s: missing %s argument(s): %s", method, stage, strings.Join(missing, ", ")).
			WithDetails(map[string]any{"method": method, "arguments": missing})
	}
	var unexpected []string
	for name := range args {
		if _, ok := known[name]; !ok {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return Errorf(CodeUnexpectedArgument, "%s: unexpected %s argument(s): %s", method, stage, strings.Join(unexpected, ", ")).
			WithDetails(map[string]any{"method": method, "arguments": unexpected})
	}
	return nil
}

// serialize coerces every declared argument and converts it to its wire form.
// Absent optional arguments are replaced by their default, or omitted.
func serialize(method string, declared []Argument, args Args) (map[string]any, error) {
	wire := make(map[string]any, len(declared))
	for _, a := range declared {
		v, ok := args[a.Name]
		if !ok {
			if a.Default == nil {
				continue
			}
			v = a.Default
		}
		coerced, err := a.Coerce(v)
		if err != nil {
			return nil, withDetail(err, "method", method)
		}
		w, err := a.ToWire(coerced)
		if err != nil {
			return nil, withDetail(err, "method", method)
		}
		wire[a.Name] = w
	}
	return wire, nil
}

func mustBeUnique(method string, args []Argument) {
	seen := make(map[string]struct{}, len(args))
	for _, a := range args {
		if a.Name == "" {
			panic(fmt.Sprintf("api: operation %s declares an argument without a name", method))
		}
		if _, dup := seen[a.Name]; dup {
			panic(fmt.Sprintf("api: operation %s declares argument %q twice", method, a.Name))
		}
		seen[a.Name] = struct{}{}
	}
}
