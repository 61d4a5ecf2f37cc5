package api

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Kind determines the validation and coercion rules applied to an argument value.
type Kind int

const (
	KindString Kind = iota + 1
	KindInt
	KindPositiveInt
	KindBool
	KindEnum
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindPositiveInt:
		return "positive_int"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	case KindValue:
		return "value"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Argument describes one named parameter of an operation.
// Arguments are values; the builder methods return modified copies.
type Argument struct {
	Name     string
	Kind     Kind
	Required bool
	// Default is sent when an optional argument is not supplied. A nil Default
	// omits the argument from the call.
	Default any
	// Domain is the member set of a KindEnum argument.
	Domain EnumDomain
	// Serializer overrides the kind's default serializer.
	Serializer Serializer
	// Check validates KindValue arguments.
	Check func(any) error
}

// String declares a required text argument.
func String(name string) Argument {
	return Argument{Name: name, Kind: KindString, Required: true}
}

// Int declares a required integer argument.
func Int(name string) Argument {
	return Argument{Name: name, Kind: KindInt, Required: true}
}

// PositiveInt declares a required integer argument that must not be negative.
func PositiveInt(name string) Argument {
	return Argument{Name: name, Kind: KindPositiveInt, Required: true}
}

// Bool declares a required boolean argument, sent as "true" or "false".
func Bool(name string) Argument {
	return Argument{Name: name, Kind: KindBool, Required: true}
}

// Enum declares a required argument whose values must be members of domain.
func Enum(name string, domain EnumDomain) Argument {
	return Argument{Name: name, Kind: KindEnum, Required: true, Domain: domain}
}

// Value declares a required domain-specific argument. check may be nil.
func Value(name string, check func(any) error) Argument {
	return Argument{Name: name, Kind: KindValue, Required: true, Check: check}
}

// Optional returns a copy of a that may be omitted. def is sent in its place
// unless it is nil.
func (a Argument) Optional(def any) Argument {
	a.Required = false
	a.Default = def
	return a
}

// WithSerializer returns a copy of a using s instead of the kind's default serializer.
func (a Argument) WithSerializer(s Serializer) Argument {
	a.Serializer = s
	return a
}

// Coerce validates v against the argument's kind and returns the coerced value.
func (a Argument) Coerce(v any) (any, error) {
	out, err := a.coerce(v)
	if err != nil {
		return nil, a.annotate(err)
	}
	return out, nil
}

func (a Argument) coerce(v any) (any, error) {
	switch a.Kind {
	case KindString:
		return toText(v)
	case KindInt:
		return toInt(v, true)
	case KindPositiveInt:
		n, err := toInt(v, true)
		if err != nil {
			return nil, err
		}
		return checkPositive(n)
	case KindBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			b, err := strconv.ParseBool(x)
			if err != nil {
				return nil, Errorf(CodeInvalidArgument, "expected bool, got %q", x)
			}
			return b, nil
		}
		return nil, Errorf(CodeInvalidArgument, "expected bool, got %T", v)
	case KindEnum:
		if a.Domain == nil {
			return nil, Errorf(CodeInternal, "enum argument %q has no domain", a.Name)
		}
		if !a.Domain.Contains(v) {
			return nil, Errorf(CodeInvalidArgument, "expected %s member, got %T(%v)", a.Domain.Domain(), v, v)
		}
		return v, nil
	case KindValue:
		if v == nil {
			return nil, NewError(CodeInvalidArgument, "expected a value, got nil")
		}
		if a.Check != nil {
			if err := a.Check(v); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
	return nil, Errorf(CodeInternal, "argument %q has unknown kind %s", a.Name, a.Kind)
}

// Parse converts command-line text into a value of the argument's kind.
// Enum names are resolved through the argument's domain.
func (a Argument) Parse(text string) (any, error) {
	if a.Kind == KindEnum {
		if a.Domain == nil {
			return nil, a.annotate(Errorf(CodeInternal, "enum argument %q has no domain", a.Name))
		}
		v, err := a.Domain.Lookup(text)
		if err != nil {
			return nil, a.annotate(err)
		}
		return v, nil
	}
	return a.Coerce(text)
}

// ToWire serializes an already coerced value.
func (a Argument) ToWire(v any) (any, error) {
	w, err := a.serializer().ToWire(v)
	if err != nil {
		return nil, a.annotate(err)
	}
	return w, nil
}

func (a Argument) serializer() Serializer {
	if a.Serializer != nil {
		return a.Serializer
	}
	switch a.Kind {
	case KindInt:
		return IntegerSerializer{}
	case KindPositiveInt:
		return PositiveIntegerSerializer{}
	case KindBool:
		return BooleanSerializer{}
	case KindEnum:
		return EnumSerializer{Domain: a.Domain}
	default:
		return StringSerializer{}
	}
}

// annotate attaches the argument name to errors produced while handling it.
func (a Argument) annotate(err error) error {
	apiErr, ok := err.(*Error)
	if !ok {
		return NewError(CodeInvalidArgument, err.Error()).WithCause(err).WithDetail("argument", a.Name)
	}
	annotated := apiErr.WithDetail("argument", a.Name)
	annotated.Message = a.Name + ": " + annotated.Message
	return annotated
}
