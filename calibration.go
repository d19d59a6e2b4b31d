// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2026 The cnf Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cnf

import "math"

// calibrationIsValid reports whether a 3-coefficient polynomial calibration
// is usable for a spectrum of nchannel channels: all coefficients finite and
// channel->energy strictly increasing over the channel range. The derivative
// of a quadratic is linear, so checking it at both ends suffices.
func calibrationIsValid(coeffs []float32, nchannel uint32) bool {
	if len(coeffs) != 3 {
		return false
	}
	for _, c := range coeffs {
		v := float64(c)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	d0 := float64(coeffs[1])
	dn := float64(coeffs[1]) + 2*float64(coeffs[2])*float64(nchannel)
	return d0 > 0 && dn > 0
}

// fullRangeFractionToPolynomial converts full-range-fraction calibration
// coefficients to the equivalent polynomial for a spectrum of nchannel
// channels: the k-th term is divided by nchannel^k.
func fullRangeFractionToPolynomial(coeffs []float32, nchannel int) []float32 {
	if nchannel <= 0 || len(coeffs) == 0 {
		return nil
	}
	n := float64(nchannel)
	out := make([]float32, len(coeffs))
	scale := 1.0
	for i, c := range coeffs {
		out[i] = float32(float64(c) / scale)
		scale *= n
	}
	return out
}
