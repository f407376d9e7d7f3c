// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package planerrors

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		err  error
		want Kind
	}{
		{nil, KindNone},
		{fmt.Errorf("unrelated"), KindNone},
		{Shapef("axis %d out of range", 3), KindShape},
		{DimensionLimitf("rank %d", 9), KindDimensionLimit},
		{CoreCountf("lanes=%d", 0), KindCoreCount},
		{DivisionByZerof("elemBytes=0"), KindDivisionByZero},
		{BudgetTooSmallf("row of %d bytes", 1<<20), KindBudgetTooSmall},
		{UnsupportedModef("no rule"), KindUnsupportedMode},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, KindOf(tc.err), "error %v", tc.err)
	}
}

func TestWrappedKindsSurvive(t *testing.T) {
	err := errors.WithMessage(BudgetTooSmallf("row of %d bytes", 4096), "stage TileSplit")
	require.True(t, errors.Is(err, ErrBudgetTooSmall))
	require.False(t, errors.Is(err, ErrShape))
	require.Equal(t, KindBudgetTooSmall, KindOf(err))
	require.Contains(t, err.Error(), "row of 4096 bytes")
	require.Contains(t, err.Error(), "scratch budget too small")
}

func TestKindStrings(t *testing.T) {
	require.Equal(t, "BudgetTooSmall", KindBudgetTooSmall.String())
	k, err := KindString("unsupportedmode")
	require.NoError(t, err)
	require.Equal(t, KindUnsupportedMode, k)
	_, err = KindString("bogus")
	require.Error(t, err)
}
