// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package errors provides the light client's closed error taxonomy. Unlike
// an open string-code scheme, every failure the protocol package can return
// is one of a fixed, enumerable set of Codes: callers can switch
// exhaustively over them and property tests can assert exact identity with
// errors.Is.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// Code identifies one of the light client's closed set of rejection
// reasons. There is no "unknown" or "internal" catch-all: every rejection a
// sync or inclusion check can produce is named here.
type Code uint8

const (
	// CodeBlockAlreadyVerified means the candidate block's height is not
	// strictly greater than the current head's height.
	CodeBlockAlreadyVerified Code = iota
	// CodeBlockNotCurrentOrNextEpoch means the candidate block's epoch id
	// matches neither the current head's epoch nor its next_epoch_id.
	CodeBlockNotCurrentOrNextEpoch
	// CodeNextBPsInvalid means a block crossing into a new epoch is missing
	// its next_bps, or next_bps does not hash to next_bp_hash.
	CodeNextBPsInvalid
	// CodeSignatureInvalid means an approval signature failed ed25519
	// verification against its claimed signer.
	CodeSignatureInvalid
	// CodeValidatorNotSigned means a required validator slot had no
	// approval at all.
	CodeValidatorNotSigned
	// CodeNotEnoughApprovedStake means the stake behind valid approvals did
	// not exceed two-thirds of the epoch's total stake.
	CodeNotEnoughApprovedStake
)

// String names a Code the way it is spelled in the protocol's error
// vocabulary.
func (c Code) String() string {
	switch c {
	case CodeBlockAlreadyVerified:
		return "BLOCK_ALREADY_VERIFIED"
	case CodeBlockNotCurrentOrNextEpoch:
		return "BLOCK_NOT_CURRENT_OR_NEXT_EPOCH"
	case CodeNextBPsInvalid:
		return "NEXT_BPS_INVALID"
	case CodeSignatureInvalid:
		return "SIGNATURE_INVALID"
	case CodeValidatorNotSigned:
		return "VALIDATOR_NOT_SIGNED"
	case CodeNotEnoughApprovedStake:
		return "NOT_ENOUGH_APPROVED_STAKE"
	default:
		return "UNKNOWN"
	}
}

// Error is a structured, comparable error carrying one Code plus optional
// diagnostic context. Two *Error values compare equal under errors.Is when
// their Codes match, regardless of Details/Context — this is what lets
// property tests assert "sync returned NotEnoughApprovedStake" without
// caring about the accompanying diagnostics.
type Error struct {
	Code       Code
	Message    string
	Details    string
	Context    map[string]interface{}
	StackTrace string
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any, for errors.Is/As chaining.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Code, letting
// errors.Is(err, protocolErrors.ErrSignatureInvalid) work regardless of
// attached Details/Context/Cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a Code and message, preserving the
// original as Cause.
func Wrap(err error, code Code, message string) *Error {
	e := New(code, message)
	e.Cause = err
	return e
}

// WithDetails attaches human-readable detail to the error.
func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

// WithDetailsf attaches formatted detail to the error.
func (e *Error) WithDetailsf(format string, args ...interface{}) *Error {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

// WithContext attaches a single diagnostic key/value pair.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithStackTrace captures the current call stack for diagnostics.
func (e *Error) WithStackTrace() *Error {
	e.StackTrace = getStackTrace()
	return e
}

// As extracts an *Error from err, if any is present in its chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HasCode reports whether err is (or wraps) an *Error with the given Code.
func HasCode(err error, code Code) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var trace string
	for {
		frame, more := frames.Next()
		trace += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return trace
}

// Sentinel instances for errors.Is comparisons against a known rejection
// reason, e.g. errors.Is(err, errors.ErrNotEnoughApprovedStake).
var (
	ErrBlockAlreadyVerified       = New(CodeBlockAlreadyVerified, "block already verified")
	ErrBlockNotCurrentOrNextEpoch = New(CodeBlockNotCurrentOrNextEpoch, "block is not in the current or next epoch")
	ErrNextBPsInvalid             = New(CodeNextBPsInvalid, "next block producer set is invalid")
	ErrSignatureInvalid           = New(CodeSignatureInvalid, "approval signature is invalid")
	ErrValidatorNotSigned         = New(CodeValidatorNotSigned, "validator did not sign")
	ErrNotEnoughApprovedStake     = New(CodeNotEnoughApprovedStake, "approved stake does not exceed two-thirds threshold")
)
