package lib

import (
	"errors"
	"fmt"
)

// WrapError chains child under parent so both are matched by errors.Is
func WrapError(parent error, child error) error {
	return fmt.Errorf("%w: %w", parent, child)
}

type ErrKind int

const (
	KindUnknown ErrKind = iota
	KindProviderUnavailable
	KindConnectionRejected
	KindTransactionFailed
	KindMissingPrecondition
	KindInvalidInput
)

func (k ErrKind) String() string {
	switch k {
	case KindProviderUnavailable:
		return "provider-unavailable"
	case KindConnectionRejected:
		return "connection-rejected"
	case KindTransactionFailed:
		return "transaction-failed"
	case KindMissingPrecondition:
		return "missing-precondition"
	case KindInvalidInput:
		return "invalid-input"
	}
	return "unknown"
}

// KindError tags an error with the category the caller is expected to branch on
type KindError struct {
	Kind ErrKind
	Op   string
	Err  error
}

func NewKindError(kind ErrKind, op string, err error) *KindError {
	return &KindError{Kind: kind, Op: op, Err: err}
}

func (e *KindError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Kind, e.Err)
}

func (e *KindError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the outermost KindError in the chain
func KindOf(err error) ErrKind {
	var kindErr *KindError
	if errors.As(err, &kindErr) {
		return kindErr.Kind
	}
	return KindUnknown
}
