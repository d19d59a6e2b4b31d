// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2026 The cnf Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cnf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrationIsValid(t *testing.T) {
	assert.True(t, calibrationIsValid([]float32{0.5, 3.0, 0}, 1024))
	assert.True(t, calibrationIsValid([]float32{-10, 1.5, 0.0001}, 8192))

	assert.False(t, calibrationIsValid([]float32{0, 0, 0}, 1024), "all zeros")
	assert.False(t, calibrationIsValid([]float32{0.5, -3.0, 0}, 1024), "negative gain")
	assert.False(t, calibrationIsValid([]float32{0.5, 3.0}, 1024), "wrong length")
	assert.False(t, calibrationIsValid([]float32{0.5, float32(math.NaN()), 0}, 1024))
	assert.False(t, calibrationIsValid([]float32{0.5, float32(math.Inf(1)), 0}, 1024))
	// Quadratic term turns the mapping non-monotonic inside the range.
	assert.False(t, calibrationIsValid([]float32{0, 1, -0.01}, 1024))
}

func TestFullRangeFractionToPolynomial(t *testing.T) {
	got := fullRangeFractionToPolynomial([]float32{10, 2048, 1024}, 1024)
	require.Len(t, got, 3)
	assert.Equal(t, float32(10), got[0])
	assert.Equal(t, float32(2), got[1])
	assert.Equal(t, float32(0.0009765625), got[2])

	assert.Nil(t, fullRangeFractionToPolynomial([]float32{1, 2, 3}, 0))
	assert.Nil(t, fullRangeFractionToPolynomial(nil, 1024))
}
