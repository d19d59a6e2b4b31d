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
	"errors"
	"fmt"
	"io"
)

// camRecord carries everything the emitter needs, with the numeric fields
// already converted to their CAM encodings.
type camRecord struct {
	title    string
	remarks  []string
	realTime [8]byte
	liveTime [8]byte

	startTime         uint64 // CAM epoch ticks; valid when hasStartTime
	hasStartTime      bool
	fractionalSeconds float64

	calibration    [][4]byte
	deviationPairs [][2]float32

	channelCounts []float32

	neutronCountSum  [8]byte
	containedNeutron bool

	nuclides []string
}

// Write serializes the selected measurements as a single summed CNF record.
// Empty sampleNums or detNums select everything. Any failure, including the
// unimplemented final emission step, is logged and reported as false.
func (f *File) Write(w io.Writer, sampleNums, detNums []int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.writeLocked(w, sampleNums, detNums); err != nil {
		f.log.Error("failed to write CNF file", "error", err)
		return false
	}
	return true
}

func (f *File) writeLocked(w io.Writer, sampleNums, detNums []int) error {
	samples := make(map[int]bool, len(sampleNums))
	for _, n := range sampleNums {
		samples[n] = true
	}
	if len(samples) == 0 {
		for n := range f.sampleNumbers {
			samples[n] = true
		}
	}

	detectors := make([]bool, len(f.detectorNumbers))
	for i := range detectors {
		detectors[i] = true
	}
	if len(detNums) > 0 {
		wanted := make(map[int]bool, len(detNums))
		for _, n := range detNums {
			wanted[n] = true
		}
		for i, n := range f.detectorNumbers {
			detectors[i] = wanted[n]
		}
	}

	summed := f.sumMeasurementsLocked(samples, detectors)
	if summed == nil || len(summed.ChannelCounts) == 0 {
		return errors.New("no channel data in selected measurements")
	}

	// CNF files use polynomial energy calibration. Convert full-range
	// fraction; lower channel edge and invalid have no polynomial form, so
	// those coefficients are dropped.
	coeffs := summed.CalibrationCoeffs
	switch summed.CalibrationModel {
	case CalPolynomial, CalUnspecifiedUsingDefaultPolynomial:
	case CalFullRangeFraction:
		coeffs = fullRangeFractionToPolynomial(coeffs, len(summed.ChannelCounts))
	case CalLowerChannelEdge, CalInvalidEquationType:
		coeffs = nil
	}

	rec := &camRecord{
		title:            summed.Title,
		remarks:          summed.Remarks,
		realTime:         encodeCAMDuration(summed.RealTime),
		liveTime:         encodeCAMDuration(summed.LiveTime),
		deviationPairs:   summed.DeviationPairs,
		channelCounts:    summed.ChannelCounts,
		containedNeutron: summed.ContainedNeutron,
	}
	for _, c := range coeffs {
		rec.calibration = append(rec.calibration, encodeCAMFloat(float64(c)))
	}
	if summed.ContainedNeutron {
		rec.neutronCountSum = encodeCAMDouble(summed.NeutronCountSum)
	}

	if !summed.StartTime.IsZero() {
		ticks, err := encodeCAMDateTime(summed.StartTime)
		if err != nil {
			return fmt.Errorf("encoding start time: %w", err)
		}
		rec.startTime = ticks
		rec.hasStartTime = true
		rec.fractionalSeconds = float64(summed.StartTime.Nanosecond()) / 1e9
	}

	if !f.analysis.IsEmpty() {
		for _, res := range f.analysis.Results {
			rec.nuclides = append(rec.nuclides, res.Nuclide)
		}
	}

	return emitCAMRecord(w, rec)
}

// emitCAMRecord writes the binary block layout for an assembled record.
// The field encodings above are settled; the block layout of the output file
// is not, so emission is refused rather than guessed at.
func emitCAMRecord(_ io.Writer, _ *camRecord) error {
	return errNotImplemented
}
