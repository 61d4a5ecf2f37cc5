package api

import (
	"github.com/mitchellh/mapstructure"
)

// Args holds the keyword arguments of one invocation.
type Args map[string]any

// Clone returns a shallow copy of a. Transforms always work on a clone so the
// caller's map is never modified.
func (a Args) Clone() Args {
	c := make(Args, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

// Response is a raw decoded response as returned by a Transport.
type Response map[string]any

// Int returns the integer stored under key.
func (r Response) Int(key string) (int, bool) {
	v, ok := r[key]
	if !ok {
		return 0, false
	}
	n, err := toInt(v, true)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String returns the text stored under key, or "" if it is absent or not scalar.
func (r Response) String(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	s, err := toText(v)
	if err != nil {
		return ""
	}
	return s
}

// List returns the sequence stored under key. An absent or nil field yields
// an empty, non-nil slice.
func (r Response) List(key string) ([]any, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return []any{}, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, Errorf(CodeInvalidResponse, "field %q: expected list, got %T", key, v)
	}
	return list, nil
}

// Succeeded reports whether the response carries the success result code (res == 0).
func (r Response) Succeeded() bool {
	res, ok := r.Int("res")
	return ok && res == 0
}

// Records unwraps r[listKey][*][wrapperKey], each a sequence of single-field
// records, and merges every sequence into one mapping.
func (r Response) Records(listKey, wrapperKey string) ([]map[string]any, error) {
	list, err := r.List(listKey)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(list))
	for i, item := range list {
		wrapper, ok := item.(map[string]any)
		if !ok {
			return nil, Errorf(CodeInvalidResponse, "%s[%d]: expected struct, got %T", listKey, i, item)
		}
		fields, ok := wrapper[wrapperKey].([]any)
		if !ok {
			return nil, Errorf(CodeInvalidResponse, "%s[%d]: missing %q list", listKey, i, wrapperKey)
		}
		merged, err := Merge(fields)
		if err != nil {
			return nil, withDetail(err, "index", i)
		}
		out = append(out, merged)
	}
	return out, nil
}

// Merge folds a sequence of wrapper records, such as [{"jid": ...}, {"nick": ...}],
// into a single mapping. The result does not depend on the order of records;
// when a field repeats, the last occurrence wins.
func Merge(records []any) (map[string]any, error) {
	merged := make(map[string]any, len(records))
	for i, rec := range records {
		fields, ok := rec.(map[string]any)
		if !ok {
			return nil, Errorf(CodeInvalidResponse, "record %d: expected struct, got %T", i, rec)
		}
		for k, v := range fields {
			merged[k] = v
		}
	}
	return merged, nil
}

// Pluck extracts r[listKey][*][field] as text. Bare strings in the list are
// taken as they are, since servers differ in whether they wrap them.
func (r Response) Pluck(listKey, field string) ([]string, error) {
	list, err := r.List(listKey)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		switch x := item.(type) {
		case string:
			out = append(out, x)
		case map[string]any:
			v, ok := x[field]
			if !ok {
				return nil, Errorf(CodeInvalidResponse, "%s[%d]: missing %q", listKey, i, field)
			}
			s, err := toText(v)
			if err != nil {
				return nil, Errorf(CodeInvalidResponse, "%s[%d].%s: not text", listKey, i, field).WithCause(err)
			}
			out = append(out, s)
		default:
			return nil, Errorf(CodeInvalidResponse, "%s[%d]: expected struct, got %T", listKey, i, item)
		}
	}
	return out, nil
}

// Decode copies a merged record into out, a pointer to a struct tagged with
// `mapstructure` field names. Numeric text is converted to integer fields.
func Decode(record map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return Errorf(CodeInternal, "building decoder for %T", out).WithCause(err)
	}
	if err := dec.Decode(record); err != nil {
		return NewError(CodeInvalidResponse, "decoding record").WithCause(err)
	}
	return nil
}

// DecodeAll decodes each record into a new T.
func DecodeAll[T any](records []map[string]any) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, rec := range records {
		var v T
		if err := Decode(rec, &v); err != nil {
			return nil, withDetail(err, "index", i)
		}
		out = append(out, v)
	}
	return out, nil
}

// Succeeded is a response transform for operations reporting success as res == 0.
func Succeeded(_ Args, r Response) (bool, error) {
	return r.Succeeded(), nil
}

// withDetail adds a detail to err when it is an *Error.
func withDetail(err error, key string, value any) error {
	if apiErr, ok := err.(*Error); ok {
		return apiErr.WithDetail(key, value)
	}
	return err
}
