// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2026 The cnf Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cnf_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gammaspec/cnf"
)

func quietFile() *cnf.File {
	f := cnf.NewFile()
	f.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func spectrumMeasurement() *cnf.Measurement {
	return &cnf.Measurement{
		Title:             "Check Source",
		StartTime:         time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
		RealTime:          600,
		LiveTime:          598.2,
		CalibrationModel:  cnf.CalPolynomial,
		CalibrationCoeffs: []float32{0.5, 3.0, 0},
		ChannelCounts:     []float32{0, 0, 10, 20, 30, 40, 50, 60},
		ChannelCountSum:   210,
	}
}

func TestWriteEmptyFile(t *testing.T) {
	f := quietFile()

	var buf bytes.Buffer
	require.False(t, f.Write(&buf, nil, nil))
	assert.Zero(t, buf.Len())
}

func TestWriteNoMatchingSamples(t *testing.T) {
	f := quietFile()
	f.AddMeasurement(spectrumMeasurement())

	var buf bytes.Buffer
	require.False(t, f.Write(&buf, []int{99}, nil))
	assert.Zero(t, buf.Len())
}

func TestWriteNoMatchingDetectors(t *testing.T) {
	f := quietFile()
	f.AddMeasurement(spectrumMeasurement())

	var buf bytes.Buffer
	require.False(t, f.Write(&buf, nil, []int{42}))
	assert.Zero(t, buf.Len())
}

func TestWriteEmissionUnfinished(t *testing.T) {
	// The selection and normalization pipeline runs, but record emission is
	// not implemented yet, so the write reports failure without output.
	f := quietFile()
	f.AddMeasurement(spectrumMeasurement())
	f.SetAnalysis(&cnf.DetectorAnalysis{
		Results: []cnf.DetectorAnalysisResult{{Nuclide: "Cs-137"}},
	})

	var buf bytes.Buffer
	require.False(t, f.Write(&buf, nil, nil))
	assert.Zero(t, buf.Len())
}

func TestWriteMeasurementWithoutChannelData(t *testing.T) {
	f := quietFile()
	f.AddMeasurement(&cnf.Measurement{Title: "empty", RealTime: 10})

	var buf bytes.Buffer
	require.False(t, f.Write(&buf, nil, nil))
}

func TestWriteReadRoundTrip(t *testing.T) {
	t.Skip("CNF record emission is not implemented; enable once Write produces bytes")

	f := quietFile()
	f.AddMeasurement(spectrumMeasurement())

	var buf bytes.Buffer
	require.True(t, f.Write(&buf, nil, nil))

	loaded := cnf.NewFile()
	require.True(t, loaded.Load(bytes.NewReader(buf.Bytes())))

	got := loaded.Measurements()[0]
	want := spectrumMeasurement()
	assert.Equal(t, want.CalibrationCoeffs, got.CalibrationCoeffs)
	assert.Equal(t, want.ChannelCounts, got.ChannelCounts)
	assert.InDelta(t, want.RealTime, got.RealTime, 1e-3)
	assert.InDelta(t, want.LiveTime, got.LiveTime, 1e-3)
	assert.True(t, want.StartTime.Equal(got.StartTime))
}
