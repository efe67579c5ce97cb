package space

import (
	"fmt"
	"strings"
)

// Kind classifies an Error. The set is closed.
type Kind uint8

const (
	KindDimensionMismatch Kind = iota + 1
	KindDomainViolation
	KindInvalidGeometry
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindDimensionMismatch:
		return "dimension mismatch"
	case KindDomainViolation:
		return "domain violation"
	case KindInvalidGeometry:
		return "invalid geometry"
	case KindParse:
		return "parse error"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error is the error type returned by every package of this module.
// It matches the Err* sentinels of the same Kind through errors.Is.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "insert"
	Msg  string
	Err  error // optional cause
}

var (
	ErrDimensionMismatch = &Error{Kind: KindDimensionMismatch}
	ErrDomainViolation   = &Error{Kind: KindDomainViolation}
	ErrInvalidGeometry   = &Error{Kind: KindInvalidGeometry}
	ErrParse             = &Error{Kind: KindParse}
)

func (e *Error) Error() string {
	var buf strings.Builder

	if e.Op != "" {
		buf.WriteString(e.Op)
		buf.WriteString(": ")
	}
	buf.WriteString(e.Kind.String())
	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
	}
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}

	return buf.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Errorf builds an Error of the given kind with a formatted message.
func Errorf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around a cause.
func Wrap(kind Kind, op string, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// CheckDim returns a dimension mismatch error unless got equals want.
func CheckDim(op string, want, got int) error {
	if want != got {
		return Errorf(KindDimensionMismatch, op, "expected dim %d, got %d", want, got)
	}
	return nil
}
