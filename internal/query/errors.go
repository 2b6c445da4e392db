package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindNotFound:
		return "not found"
	default:
		return "internal"
	}
}

var (
	ErrInternal        = errors.New("internal")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

// Error is the failure every query operation returns. Entity names the record
// type involved, Param the offending request parameter and Value what was
// supplied for it.
type Error struct {
	Kind   Kind
	Entity string
	Param  string
	Value  string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Entity != "" {
		fmt.Fprintf(&b, ": %s", strings.ToLower(e.Entity))
	}
	if e.Param != "" {
		fmt.Fprintf(&b, " %s=%q", e.Param, e.Value)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrInternal:
		return e.Kind == KindInternal
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

func invalidID(entity, param, raw string) *Error {
	return &Error{Kind: KindInvalidArgument, Entity: entity, Param: param, Value: raw}
}

func notFound(entity, param string, id int64) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Param: param, Value: strconv.FormatInt(id, 10)}
}

func internal(entity, op string, err error) *Error {
	return &Error{Kind: KindInternal, Entity: entity, Err: fmt.Errorf("%s: %w", op, err)}
}

// parseID accepts only plain decimal digits that fit an int64.
func parseID(raw string) (int64, bool) {
	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
