// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package planerrors defines the kinds of errors returned while planning the tiling of an operator.
//
// Every error returned by the planning packages wraps exactly one of the sentinel kinds below, so callers can
// dispatch with errors.Is:
//
//	plan, err := stridedslice.NewPlan(params, budget)
//	if errors.Is(err, planerrors.ErrBudgetTooSmall) {
//		// Fall back to a different kernel.
//	}
//
// Planning never returns a partial plan alongside an error.
package planerrors

import (
	"github.com/pkg/errors"
)

// Kind of planning error. The zero value is KindNone.
type Kind int

//go:generate go tool enumer -type=Kind -trimprefix=Kind -output=gen_kind_enumer.go planerrors.go

const (
	KindNone Kind = iota
	KindShape
	KindDimensionLimit
	KindCoreCount
	KindDivisionByZero
	KindBudgetTooSmall
	KindUnsupportedMode
)

var (
	// ErrShape is returned for malformed shapes: negative dimensions, rank mismatches or out-of-range axes.
	ErrShape = errors.New("invalid shape")

	// ErrDimensionLimit is returned when the rank exceeds what the operator family supports.
	ErrDimensionLimit = errors.New("rank exceeds the supported dimension limit")

	// ErrCoreCount is returned when the lane count is not positive.
	ErrCoreCount = errors.New("lane count must be positive")

	// ErrDivisionByZero is returned when an element size or alignment quantum is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrBudgetTooSmall is returned when a single row (or element group) does not fit the scratch budget.
	ErrBudgetTooSmall = errors.New("scratch budget too small")

	// ErrUnsupportedMode is returned when no selector rule matched and there is no functional fallback.
	ErrUnsupportedMode = errors.New("no tiling mode supports the request")
)

var sentinels = []struct {
	kind Kind
	err  error
}{
	{KindShape, ErrShape},
	{KindDimensionLimit, ErrDimensionLimit},
	{KindCoreCount, ErrCoreCount},
	{KindDivisionByZero, ErrDivisionByZero},
	{KindBudgetTooSmall, ErrBudgetTooSmall},
	{KindUnsupportedMode, ErrUnsupportedMode},
}

// KindOf returns the Kind of the given error, or KindNone if err is nil or not a planning error.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}
	return KindNone
}

// Shapef returns an ErrShape with the formatted context message.
func Shapef(format string, args ...any) error {
	return errors.Wrapf(ErrShape, format, args...)
}

// DimensionLimitf returns an ErrDimensionLimit with the formatted context message.
func DimensionLimitf(format string, args ...any) error {
	return errors.Wrapf(ErrDimensionLimit, format, args...)
}

// CoreCountf returns an ErrCoreCount with the formatted context message.
func CoreCountf(format string, args ...any) error {
	return errors.Wrapf(ErrCoreCount, format, args...)
}

// DivisionByZerof returns an ErrDivisionByZero with the formatted context message.
func DivisionByZerof(format string, args ...any) error {
	return errors.Wrapf(ErrDivisionByZero, format, args...)
}

// BudgetTooSmallf returns an ErrBudgetTooSmall with the formatted context message.
func BudgetTooSmallf(format string, args ...any) error {
	return errors.Wrapf(ErrBudgetTooSmall, format, args...)
}

// UnsupportedModef returns an ErrUnsupportedMode with the formatted context message.
func UnsupportedModef(format string, args ...any) error {
	return errors.Wrapf(ErrUnsupportedMode, format, args...)
}
