// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2026 The cnf Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cnf

import "fmt"

// recordLayout holds the absolute offsets of every field derived from a data
// block. The displacements are fixed apart from the two 16-bit layout words
// (w34, w36) read from the data block itself.
type recordLayout struct {
	record           int64 // start time plus real/live time, 3 paired words
	numChannel       int64
	energyCalib      int64 // 3 calibration coefficients
	mca              int64
	instrument       int64
	genericDetector  int64
	specificDetector int64
	serialNum        int64
}

// resolveLayout derives the field offsets from the data block offset and its
// layout words, and validates every field against the stream size before any
// field read happens. The specific-detector and serial-number fields are not
// decoded, but files that truncate them are still rejected.
func resolveLayout(dataOff int64, w34, w36 uint16, size int64) (recordLayout, error) {
	l := recordLayout{
		record:           dataOff + int64(w36) + 48 + 1,
		numChannel:       dataOff + 48 + 137,
		energyCalib:      dataOff + int64(w34) + 48 + 68,
		mca:              dataOff + int64(w34) + 48 + 156,
		instrument:       dataOff + int64(w34) + 48 + 1,
		genericDetector:  dataOff + int64(w34) + 48 + 732,
		specificDetector: dataOff + int64(w34) + 48 + 26,
		serialNum:        dataOff + int64(w34) + 48 + 940,
	}

	fields := []struct {
		off   int64
		width int64
	}{
		{l.record, 24},
		{l.energyCalib, 12},
		{l.numChannel, 4},
		{l.mca, 8},
		{l.instrument, 31},
		{l.genericDetector, 8},
		{l.specificDetector, 16},
		{l.serialNum, 12},
	}
	for _, f := range fields {
		if f.off+f.width > size {
			return recordLayout{}, fmt.Errorf("%w: field at %d+%d exceeds stream size %d",
				errInvalidRecordOffset, f.off, f.width, size)
		}
	}
	return l, nil
}
