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
	"fmt"
	"io"
	"os"
)

// LoadFile opens a CNF file and loads its measurement. The originating path
// is recorded only on success. Any previously loaded state is discarded.
func (f *File) LoadFile(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(path)
	if err != nil {
		f.resetLocked()
		return false
	}
	defer file.Close()

	if !f.loadLocked(file) {
		return false
	}
	f.filename = path
	return true
}

// Load parses one CNF measurement record from the stream. The parse is
// all-or-nothing: on any failure the stream cursor is restored to where it
// was on entry, the file is reset to its pre-load empty state, and Load
// returns false. On success the decoded measurement is appended and true is
// returned.
func (f *File) Load(r io.ReadSeeker) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadLocked(r)
}

func (f *File) loadLocked(r io.ReadSeeker) bool {
	f.resetLocked()

	orig, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return false
	}

	meas, err := decodeMeasurement(r, orig)
	if err != nil {
		// Roll back: restore the cursor and discard any partial state.
		_, _ = r.Seek(orig, io.SeekStart)
		f.resetLocked()
		return false
	}

	f.measurements = append(f.measurements, meas)
	f.normalizeLocked()
	return true
}

// decodeMeasurement runs the full block-scan decode against the stream and
// returns a fully populated measurement, or an error leaving no side effects
// beyond the stream cursor.
func decodeMeasurement(r io.ReadSeeker, orig int64) (*Measurement, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	size := end - orig

	meas := &Measurement{CalibrationModel: CalPolynomial}

	// The header block is optional: without it the title and sample id
	// simply stay unset.
	if hdrOff, ok, err := findBlock(r, blockHeader, 0, size); err != nil {
		return nil, err
	} else if ok {
		title, err := readStringAt(r, hdrOff+48, 64)
		if err != nil {
			return nil, err
		}
		sampleID, err := readStringAt(r, hdrOff+48+64, 16)
		if err != nil {
			return nil, err
		}
		meas.Title = title
		if sampleID != "" {
			meas.Remarks = append(meas.Remarks, "Sample ID: "+sampleID)
		}
	}

	dataOff, ok, err := findBlock(r, blockData, 0, size)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: record data", errBlockNotFound)
	}

	w34, err := readUint16At(r, dataOff+34)
	if err != nil {
		return nil, err
	}
	w36, err := readUint16At(r, dataOff+36)
	if err != nil {
		return nil, err
	}

	layout, err := resolveLayout(dataOff, w34, w36, size)
	if err != nil {
		return nil, err
	}

	// Start time and the two durations are three consecutive (I, J) pairs.
	// Durations are stored counting down from the maximum, hence the
	// complement before decoding.
	tb, err := readAt(r, layout.record, 24)
	if err != nil {
		return nil, err
	}
	i0 := binary.LittleEndian.Uint32(tb[0:4])
	j0 := binary.LittleEndian.Uint32(tb[4:8])
	meas.StartTime = decodeCNFDateTime(decodeCNFTime(i0, j0))

	i1 := binary.LittleEndian.Uint32(tb[8:12])
	j1 := binary.LittleEndian.Uint32(tb[12:16])
	meas.RealTime = float32(decodeCNFTime(^i1, ^j1))

	i2 := binary.LittleEndian.Uint32(tb[16:20])
	j2 := binary.LittleEndian.Uint32(tb[20:24])
	meas.LiveTime = float32(decodeCNFTime(^i2, ^j2))

	numChannels, err := readUint32At(r, layout.numChannel)
	if err != nil {
		return nil, err
	}
	isPowerOfTwo := numChannels != 0 && numChannels&(numChannels-1) == 0
	if !isPowerOfTwo && numChannels >= 64 && numChannels <= 65536 {
		return nil, fmt.Errorf("%w: %d", errInvalidChannelCount, numChannels)
	}

	cb, err := readAt(r, layout.energyCalib, 12)
	if err != nil {
		return nil, err
	}
	meas.CalibrationCoeffs = []float32{
		decodeCNFFloat(cb[0:4]),
		decodeCNFFloat(cb[4:8]),
		decodeCNFFloat(cb[8:12]),
	}
	if !calibrationIsValid(meas.CalibrationCoeffs, numChannels) {
		allZeros := true
		for _, c := range meas.CalibrationCoeffs {
			allZeros = allZeros && c == 0
		}
		if !allZeros {
			return nil, errInvalidCalibration
		}
		meas.CalibrationCoeffs = nil
		meas.CalibrationModel = CalInvalidEquationType
	}

	mcaType, err := readStringAt(r, layout.mca, 8)
	if err != nil {
		return nil, err
	}
	if mcaType != "" {
		meas.Remarks = append(meas.Remarks, "MCA Type: "+mcaType)
	}

	instrumentName, err := readStringAt(r, layout.instrument, 31)
	if err != nil {
		return nil, err
	}
	if instrumentName != "" {
		meas.DetectorName = instrumentName
	}

	genericDetector, err := readStringAt(r, layout.genericDetector, 8)
	if err != nil {
		return nil, err
	}
	if id, ok := instrumentIdentities[identityKey{MCAType: mcaType, Detector: genericDetector}]; ok {
		meas.DetectorType = id.DetectorType
		meas.InstrumentType = id.InstrumentType
		meas.Manufacturer = id.Manufacturer
		meas.InstrumentModel = id.Model
	}

	if err := readChannelData(r, size, numChannels, meas); err != nil {
		return nil, err
	}

	return meas, nil
}

// readChannelData locates the channel payload and fills the measurement's
// channel counts. The first 0x5 block anchors the search; the payload sits
// 512 bytes past a second 0x5 block when one exists, or immediately past the
// anchor's 512-byte window otherwise.
func readChannelData(r io.ReadSeeker, size int64, numChannels uint32, meas *Measurement) error {
	first, ok, err := findBlock(r, blockChannelData, 0, size)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: channel data", errBlockNotFound)
	}

	payloadOff := first + blockStride
	if second, ok, err := findBlock(r, blockChannelData, first+blockStride, size); err != nil {
		return err
	} else if ok {
		payloadOff = second + blockStride
	}

	if first+blockStride+4*int64(numChannels) > size {
		return errInvalidFileSize
	}

	raw, err := readAt(r, payloadOff, 4*int(numChannels))
	if err != nil {
		return err
	}

	meas.ChannelCounts = make([]float32, numChannels)
	for i := range meas.ChannelCounts {
		// The first two slots alias real/live time in the source encoding,
		// not spectral counts.
		if i < 2 {
			continue
		}
		v := float32(binary.LittleEndian.Uint32(raw[4*i:]))
		meas.ChannelCounts[i] = v
		meas.ChannelCountSum += float64(v)
	}
	return nil
}
