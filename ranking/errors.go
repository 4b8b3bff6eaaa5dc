// SPDX-License-Identifier: MIT

package ranking

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/spectrank/bootstrap"
	"github.com/katalvlaran/spectrank/matrix"
	"github.com/katalvlaran/spectrank/pairwise"
	"github.com/katalvlaran/spectrank/spectral"
	"github.com/katalvlaran/spectrank/table"
)

// Kind classifies every error Rank can return.
type Kind string

const (
	KindInputShape         Kind = "InputShapeError"
	KindDisconnectedGraph  Kind = "DisconnectedComparisonGraphError"
	KindParameterRange     Kind = "ParameterRangeError"
	KindNumericInstability Kind = "NumericInstabilityError"
	// KindInternal covers failures outside the four documented kinds,
	// e.g. a cancelled context.
	KindInternal Kind = "InternalError"
)

// Kind sentinels for errors.Is; an *Error matches the sentinel of its Kind.
var (
	ErrInputShape         = errors.New("ranking: input shape")
	ErrDisconnectedGraph  = errors.New("ranking: disconnected comparison graph")
	ErrParameterRange     = errors.New("ranking: parameter out of range")
	ErrNumericInstability = errors.New("ranking: numeric instability")
)

var kindSentinel = map[Kind]error{
	KindInputShape:         ErrInputShape,
	KindDisconnectedGraph:  ErrDisconnectedGraph,
	KindParameterRange:     ErrParameterRange,
	KindNumericInstability: ErrNumericInstability,
}

// Error is the single structured error of a failed invocation.
type Error struct {
	// Kind is the error category.
	Kind Kind

	// Message is the human-readable description.
	Message string

	// Err is the underlying package error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel of e's Kind.
func (e *Error) Is(target error) bool {
	s, ok := kindSentinel[e.Kind]
	return ok && s == target
}

// NewError creates an Error whose Message is err's text.
func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

// KindOf returns the Kind of err when it is (or wraps) an *Error, and
// KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// Classify maps a package error onto its Kind. Already classified errors are
// returned unchanged. err must be non-nil.
func Classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, table.ErrNoHeader),
		errors.Is(err, table.ErrTooFewCompetitors),
		errors.Is(err, table.ErrEmptyTable),
		errors.Is(err, table.ErrDuplicateCompetitor),
		errors.Is(err, table.ErrRaggedRow),
		errors.Is(err, pairwise.ErrInsufficientCompetitors),
		errors.Is(err, pairwise.ErrRowWidth):
		return NewError(KindInputShape, err)

	case errors.Is(err, pairwise.ErrNoComparisons),
		errors.Is(err, pairwise.ErrDisconnected),
		errors.Is(err, pairwise.ErrNotStronglyConnected),
		errors.Is(err, spectral.ErrDegenerateStationary),
		errors.Is(err, spectral.ErrIsolatedCompetitor):
		return NewError(KindDisconnectedGraph, err)

	case errors.Is(err, pairwise.ErrUnknownDirection),
		errors.Is(err, bootstrap.ErrInvalidReplicates),
		errors.Is(err, bootstrap.ErrInvalidLevel),
		errors.Is(err, spectral.ErrOptionViolation):
		return NewError(KindParameterRange, err)

	case errors.Is(err, table.ErrNonFinite),
		errors.Is(err, spectral.ErrNumericInstability),
		errors.Is(err, bootstrap.ErrNumericInstability),
		errors.Is(err, matrix.ErrNaNInf),
		errors.Is(err, matrix.ErrMatrixEigenFailed):
		return NewError(KindNumericInstability, err)
	}

	return NewError(KindInternal, err)
}
