package api

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Serializer converts a typed value to the wire representation the transport
// expects, and back.
type Serializer interface {
	ToWire(v any) (any, error)
	FromWire(w any) (any, error)
}

// StringSerializer passes text through unchanged. It is the default for string
// arguments and the fallback for values without a specialized serializer.
type StringSerializer struct{}

func (StringSerializer) ToWire(v any) (any, error) {
	return toText(v)
}

func (StringSerializer) FromWire(w any) (any, error) {
	return toText(w)
}

// IntegerSerializer renders integers as wire integers.
type IntegerSerializer struct{}

func (IntegerSerializer) ToWire(v any) (any, error) {
	return toInt(v, false)
}

func (IntegerSerializer) FromWire(w any) (any, error) {
	return toInt(w, true)
}

// PositiveIntegerSerializer is IntegerSerializer restricted to values >= 0.
type PositiveIntegerSerializer struct{}

func (PositiveIntegerSerializer) ToWire(v any) (any, error) {
	n, err := toInt(v, false)
	if err != nil {
		return nil, err
	}
	return checkPositive(n)
}

func (PositiveIntegerSerializer) FromWire(w any) (any, error) {
	n, err := toInt(w, true)
	if err != nil {
		return nil, err
	}
	return checkPositive(n)
}

// BooleanSerializer renders booleans as the literal tokens "true" and "false".
type BooleanSerializer struct{}

func (BooleanSerializer) ToWire(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, Errorf(CodeInvalidArgument, "expected bool, got %T", v)
	}
	if b {
		return "true", nil
	}
	return "false", nil
}

func (BooleanSerializer) FromWire(w any) (any, error) {
	switch x := w.(type) {
	case bool:
		return x, nil
	case string:
		switch x {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, Errorf(CodeInvalidArgument, `expected "true" or "false", got %v`, w)
}

// EnumSerializer renders members of Domain by their declared name.
type EnumSerializer struct {
	Domain EnumDomain
}

func (s EnumSerializer) ToWire(v any) (any, error) {
	return s.Domain.NameOf(v)
}

func (s EnumSerializer) FromWire(w any) (any, error) {
	name, ok := w.(string)
	if !ok {
		return nil, Errorf(CodeInvalidArgument, "expected %s name, got %T", s.Domain.Domain(), w)
	}
	return s.Domain.Lookup(name)
}

// toText renders scalar values as text. Composite values are rejected.
func toText(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", NewError(CodeInvalidArgument, "expected text, got nil")
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case fmt.Stringer:
		return x.String(), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}
	return "", Errorf(CodeInvalidArgument, "expected text, got %T", v)
}

// toInt converts Go integers to int. Decimal strings are accepted when parse is set.
func toInt(v any, parse bool) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case string:
		if parse {
			n, err := strconv.Atoi(x)
			if err != nil {
				return 0, Errorf(CodeInvalidArgument, "expected integer, got %q", x)
			}
			return n, nil
		}
	case bool, nil:
		return 0, Errorf(CodeInvalidArgument, "expected integer, got %T", v)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < math.MinInt || n > math.MaxInt {
			return 0, Errorf(CodeInvalidArgument, "integer %d out of range", n)
		}
		return int(n), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := rv.Uint()
		if n > math.MaxInt {
			return 0, Errorf(CodeInvalidArgument, "integer %d out of range", n)
		}
		return int(n), nil
	}
	return 0, Errorf(CodeInvalidArgument, "expected integer, got %T", v)
}

func checkPositive(n int) (int, error) {
	if err := validate.Var(n, "gte=0"); err != nil {
		return 0, Errorf(CodeInvalidArgument, "%d %s", n, validationMessage(err))
	}
	return n, nil
}
