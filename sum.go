// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2026 The cnf Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cnf

// sumMeasurementsLocked combines the measurements matching the sample set and
// detector mask into one synthetic record: channel counts added element-wise,
// times and neutron counts summed, calibration taken from the first usable
// one. Returns nil when nothing matches. Callers must hold f.mu.
func (f *File) sumMeasurementsLocked(samples map[int]bool, detectors []bool) *Measurement {
	detIndex := make(map[int]int, len(f.detectorNumbers))
	for i, n := range f.detectorNumbers {
		detIndex[n] = i
	}

	var summed *Measurement
	for _, m := range f.measurements {
		if !samples[m.SampleNumber] {
			continue
		}
		if i, ok := detIndex[m.DetectorNumber]; ok && (i >= len(detectors) || !detectors[i]) {
			continue
		}

		if summed == nil {
			summed = &Measurement{
				Title:            m.Title,
				StartTime:        m.StartTime,
				DetectorName:     m.DetectorName,
				CalibrationModel: CalInvalidEquationType,
				DetectorType:     m.DetectorType,
				InstrumentType:   m.InstrumentType,
				Manufacturer:     m.Manufacturer,
				InstrumentModel:  m.InstrumentModel,
			}
		}

		summed.RealTime += m.RealTime
		summed.LiveTime += m.LiveTime
		summed.NeutronCountSum += m.NeutronCountSum
		summed.ContainedNeutron = summed.ContainedNeutron || m.ContainedNeutron
		summed.Remarks = append(summed.Remarks, m.Remarks...)

		if summed.StartTime.IsZero() ||
			(!m.StartTime.IsZero() && m.StartTime.Before(summed.StartTime)) {
			summed.StartTime = m.StartTime
		}

		if summed.CalibrationModel == CalInvalidEquationType &&
			m.CalibrationModel != CalInvalidEquationType && len(m.CalibrationCoeffs) > 0 {
			summed.CalibrationModel = m.CalibrationModel
			summed.CalibrationCoeffs = append([]float32(nil), m.CalibrationCoeffs...)
			summed.DeviationPairs = append([][2]float32(nil), m.DeviationPairs...)
		}

		if len(m.ChannelCounts) > len(summed.ChannelCounts) {
			grown := make([]float32, len(m.ChannelCounts))
			copy(grown, summed.ChannelCounts)
			summed.ChannelCounts = grown
		}
		for i, v := range m.ChannelCounts {
			summed.ChannelCounts[i] += v
			summed.ChannelCountSum += float64(v)
		}
	}
	return summed
}
