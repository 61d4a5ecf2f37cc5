package api

import (
	"fmt"
	"strconv"
)

// EnumDomain is the type-erased view of a Set used by enum-backed arguments
// and serializers.
type EnumDomain interface {
	// Domain names the concept the members belong to, e.g. "affiliation".
	Domain() string
	// Contains reports whether v is an instance of the set's member type and
	// one of its declared members.
	Contains(v any) bool
	// NameOf returns the declared name of member v.
	NameOf(v any) (string, error)
	// Lookup returns the member declared with name.
	Lookup(name string) (any, error)
}

// Set is a closed, statically declared set of named members of type T.
// Members carry ordinals 1..n in declaration order.
//
// Example:
//
//	type Color int
//
//	const (
//	    Red Color = iota + 1
//	    Green
//	)
//
//	var colors = api.NewSet[Color]("color", "red", "green")
type Set[T ~int] struct {
	domain string
	names  []string
	byName map[string]T
}

// NewSet declares the members of T. names[i] is the name of the member with ordinal i+1.
// It panics on an empty or duplicate name, since a malformed set is a declaration bug.
func NewSet[T ~int](domain string, names ...string) *Set[T] {
	s := &Set[T]{
		domain: domain,
		names:  make([]string, len(names)),
		byName: make(map[string]T, len(names)),
	}
	for i, name := range names {
		if name == "" {
			panic(fmt.Sprintf("api: %s member %d has an empty name", domain, i+1))
		}
		if _, dup := s.byName[name]; dup {
			panic(fmt.Sprintf("api: duplicate %s member %q", domain, name))
		}
		s.names[i] = name
		s.byName[name] = T(i + 1)
	}
	return s
}

// Domain returns the name of the concept the set enumerates.
func (s *Set[T]) Domain() string {
	return s.domain
}

// Valid reports whether v is a declared member.
func (s *Set[T]) Valid(v T) bool {
	return int(v) >= 1 && int(v) <= len(s.names)
}

// Name returns the declared name of v. Undeclared values render as "domain(n)".
func (s *Set[T]) Name(v T) string {
	if !s.Valid(v) {
		return s.domain + "(" + strconv.Itoa(int(v)) + ")"
	}
	return s.names[int(v)-1]
}

// ByName returns the member declared with name.
func (s *Set[T]) ByName(name string) (T, error) {
	v, ok := s.byName[name]
	if !ok {
		return 0, Errorf(CodeUnknownMember, "unknown %s %q", s.domain, name).
			WithDetails(map[string]any{"domain": s.domain, "name": name})
	}
	return v, nil
}

// Members returns all members in declaration order.
func (s *Set[T]) Members() []T {
	members := make([]T, len(s.names))
	for i := range s.names {
		members[i] = T(i + 1)
	}
	return members
}

// Contains reports whether v is of type T and a declared member.
func (s *Set[T]) Contains(v any) bool {
	m, ok := v.(T)
	return ok && s.Valid(m)
}

// NameOf returns the declared name of v, which must be a member of type T.
func (s *Set[T]) NameOf(v any) (string, error) {
	m, ok := v.(T)
	if !ok {
		return "", Errorf(CodeInvalidArgument, "expected %s, got %T", s.domain, v)
	}
	if !s.Valid(m) {
		return "", Errorf(CodeInvalidArgument, "%d is not a declared %s", int(m), s.domain)
	}
	return s.Name(m), nil
}

// Lookup is ByName returning the member as any.
func (s *Set[T]) Lookup(name string) (any, error) {
	v, err := s.ByName(name)
	if err != nil {
		return nil, err
	}
	return v, nil
}
