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
	"encoding/binary"
	"math"
	"time"
)

// Numeric encodings used by CNF/CAM files. Decoders consume the file's
// byte-pair-swapped quarter-scaled floats and paired fixed-point times;
// encoders produce the PDP-11 style word-swapped values the write path needs.
// All encoders return owned fixed-size arrays.

const (
	// camEpochOffset is the number of seconds between the CAM epoch
	// (1858-11-17, the modified Julian date origin) and the Unix epoch.
	camEpochOffset = 3506716800
	// camTicksPerSecond is the CAM timestamp resolution: 100 ns ticks.
	camTicksPerSecond = 10000000
	// secondsPerYear is the Julian year used by CAM duration encoding.
	secondsPerYear = 31557600
)

// mjdBase is the zero point of CNF absolute timestamps.
var mjdBase = time.Date(1858, time.November, 17, 0, 0, 0, 0, time.UTC)

// decodeCNFFloat converts the file's 4-byte float encoding to a native
// float32: byte pairs swapped, reinterpreted as IEEE-754, scaled by 0.25.
func decodeCNFFloat(b []byte) float32 {
	bits := uint32(b[2]) | uint32(b[3])<<8 | uint32(b[0])<<16 | uint32(b[1])<<24
	return 0.25 * math.Float32frombits(bits)
}

// decodeCNFTime converts a paired 32-bit fixed-point value to seconds.
// The pair is a 64-bit count of 100 ns ticks split into low (i) and high (j)
// words: j*429.4967296 == j*2^32/1e7.
func decodeCNFTime(i, j uint32) float64 {
	return float64(j)*429.4967296 + float64(i)/1e7
}

// decodeCNFDateTime converts a CNF absolute timestamp, expressed as seconds
// past the modified Julian epoch, to a time.Time. Values past year 9999 are
// outside the format's representable range and decode to the zero time.
func decodeCNFDateTime(seconds float64) time.Time {
	// Split into days plus sub-day remainder to keep the duration arithmetic
	// inside int64 range.
	days := int64(seconds / 86400)
	remSecs := int64(seconds - float64(days)*86400)
	remMillis := int64((seconds - float64(days)*86400 - float64(remSecs)) * 1e3)

	t := mjdBase.AddDate(0, 0, int(days)).
		Add(time.Duration(remSecs)*time.Second + time.Duration(remMillis)*time.Millisecond)
	if t.Year() > 9999 {
		return time.Time{}
	}
	return t
}

// encodeCAMFloat converts a value to the CAM 4-byte float encoding: scaled by
// 4 (the inverse of the read-side 0.25) and word swapped.
func encodeCAMFloat(v float64) [4]byte {
	var t [4]byte
	binary.LittleEndian.PutUint32(t[:], math.Float32bits(float32(v)*4))
	return [4]byte{t[2], t[3], t[0], t[1]}
}

// encodeCAMDouble converts a value to the CAM 8-byte float encoding: scaled
// by 4 with the four 16-bit words pairwise swapped.
func encodeCAMDouble(v float64) [8]byte {
	var t [8]byte
	binary.LittleEndian.PutUint64(t[:], math.Float64bits(v*4))
	return [8]byte{t[2], t[3], t[0], t[1], t[6], t[7], t[4], t[5]}
}

// encodeCAMDateTime converts an absolute timestamp to the CAM fixed-point
// epoch encoding: 100 ns ticks since the modified Julian epoch.
func encodeCAMDateTime(t time.Time) (uint64, error) {
	if t.IsZero() {
		return 0, errInvalidTimestamp
	}
	return uint64(t.Unix()+camEpochOffset) * camTicksPerSecond, nil
}

// encodeCAMDuration converts a duration in seconds to the CAM 8-byte time
// span encoding. Spans that fit are stored as a negative 64-bit count of
// 100 ns ticks. Spans whose tick count overflows int64 fall back to a year
// count with flag byte 7 set; year counts overflowing int32 are additionally
// divided by one million with flag byte 4 set.
func encodeCAMDuration(seconds float32) [8]byte {
	var out [8]byte
	if float64(seconds)*camTicksPerSecond > math.MaxInt64 {
		years := float64(seconds) / secondsPerYear
		if years > math.MaxInt32 {
			binary.LittleEndian.PutUint32(out[0:4], uint32(int32(years/1e6)))
			out[4] = 0x01
		} else {
			binary.LittleEndian.PutUint32(out[0:4], uint32(int32(years)))
		}
		out[7] = 0x80
		return out
	}
	binary.LittleEndian.PutUint64(out[:], uint64(-int64(seconds)*camTicksPerSecond))
	return out
}
