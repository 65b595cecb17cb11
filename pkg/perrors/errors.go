// Package perrors implements the engine's single classified error type,
// with a class set matching the reconciliation engine's own taxonomy:
// NotFound, DryRun, Transient, InvariantViolation, Timeout.
package perrors

import (
	"errors"
	"fmt"
)

// Class identifies how the engine and its orchestrator should react to an
// error surfaced by an adapter, a provider, or the engine itself.
type Class string

const (
	// NotFound means the remote object is gone. destroy treats it as
	// success; is_drifted treats it as drift; apply treats it as
	// create-required.
	NotFound Class = "not_found"

	// DryRun is signalled only while the dry flag is set. pkg/resource's
	// Base does not special-case this class: a DryRun error returned from
	// an adapter hook fails the apply or destroy like any other error. The
	// adapters in pkg/adapters return sentinel outputs under dry instead of
	// this error.
	DryRun Class = "dry_run"

	// Transient is a provider-side failure that should surface to the
	// caller as an apply failure.
	Transient Class = "transient"

	// InvariantViolation is engine-level and fatal: a connector resolved
	// before its producer applied, a duplicate uuid, a pending-destroy
	// entry referencing an unknown class tag. The engine aborts the
	// apply, leaving state consistent up to the last successful envelope
	// write.
	InvariantViolation Class = "invariant_violation"

	// Timeout comes from the bounded-poll utility and surfaces to the
	// caller as an apply failure.
	Timeout Class = "timeout"
)

// Error is the engine's single error type. Adapters and providers return
// plain errors; the engine classifies provider failures by wrapping them in
// an Error so that apply/destroy/is_drifted can branch on Class without
// string matching.
type Error struct {
	Class     Class
	Message   string
	Code      string
	Resource  string
	Operation string
	Err       error
	Details   map[string]any
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Class, e.Message)
	if e.Resource != "" {
		msg = fmt.Sprintf("%s [resource=%s]", msg, e.Resource)
	}
	if e.Operation != "" {
		msg = fmt.Sprintf("%s [op=%s]", msg, e.Operation)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, &Error{Class: X}) match on class alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Class != "" && t.Class != e.Class {
		return false
	}
	return true
}

func newf(class Class, format string, args ...any) *Error {
	return &Error{Class: class, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) *Error           { return newf(NotFound, format, args...) }
func NewDryRun(format string, args ...any) *Error              { return newf(DryRun, format, args...) }
func NewTransient(format string, args ...any) *Error            { return newf(Transient, format, args...) }
func NewInvariantViolation(format string, args ...any) *Error { return newf(InvariantViolation, format, args...) }
func NewTimeout(format string, args ...any) *Error              { return newf(Timeout, format, args...) }

func (e *Error) WithResource(r string) *Error  { e.Resource = r; return e }
func (e *Error) WithOperation(op string) *Error { e.Operation = op; return e }
func (e *Error) WithCode(code string) *Error   { e.Code = code; return e }
func (e *Error) WithErr(err error) *Error      { e.Err = err; return e }

func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func classOf(err error) (Class, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Class, true
	}
	return "", false
}

func IsNotFound(err error) bool {
	c, ok := classOf(err)
	return ok && c == NotFound
}

func IsDryRun(err error) bool {
	c, ok := classOf(err)
	return ok && c == DryRun
}

func IsTransient(err error) bool {
	c, ok := classOf(err)
	return ok && c == Transient
}

func IsInvariantViolation(err error) bool {
	c, ok := classOf(err)
	return ok && c == InvariantViolation
}

func IsTimeout(err error) bool {
	c, ok := classOf(err)
	return ok && c == Timeout
}
