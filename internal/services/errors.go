package services

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a collaborator failure so handlers never have to
// inspect error text.
type ErrorKind int

const (
	KindUpstream ErrorKind = iota
	KindNotFound
	KindInvalidInput
	KindTransient
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindTransient:
		return "transient"
	default:
		return "upstream"
	}
}

// FetchError is returned by every fetcher adapter.
type FetchError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps err with kind. A nil err stays nil.
func NewFetchError(kind ErrorKind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{Kind: kind, Op: op, Err: err}
}

// KindOf reports the kind carried by err. Errors without a kind are
// classified from their type: deadlines and network failures are
// transient, everything else is an upstream failure.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUpstream
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if isTransient(err) {
		return KindTransient
	}
	return KindUpstream
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
