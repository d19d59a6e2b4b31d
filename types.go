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
	"log/slog"
	"sort"
	"sync"
	"time"
)

// CalibrationModel identifies the energy-calibration equation a measurement
// carries. CNF files natively store only 3-coefficient polynomials; the other
// variants describe measurements synthesized from other sources that may be
// handed to the write path.
type CalibrationModel int

const (
	// CalPolynomial expresses channel->energy as c0 + c1*x + c2*x^2.
	CalPolynomial CalibrationModel = iota
	// CalFullRangeFraction expresses energy in terms of the fractional
	// position of a channel within the full channel range.
	CalFullRangeFraction
	// CalLowerChannelEdge lists the lower energy edge of every channel.
	CalLowerChannelEdge
	// CalUnspecifiedUsingDefaultPolynomial marks a polynomial assumed in the
	// absence of calibration information.
	CalUnspecifiedUsingDefaultPolynomial
	// CalInvalidEquationType marks a measurement with no usable calibration.
	CalInvalidEquationType
)

func (m CalibrationModel) String() string {
	switch m {
	case CalPolynomial:
		return "Polynomial"
	case CalFullRangeFraction:
		return "FullRangeFraction"
	case CalLowerChannelEdge:
		return "LowerChannelEdge"
	case CalUnspecifiedUsingDefaultPolynomial:
		return "UnspecifiedUsingDefaultPolynomial"
	case CalInvalidEquationType:
		return "InvalidEquationType"
	default:
		return "Unknown"
	}
}

// DetectorType identifies a known instrument family.
type DetectorType int

const (
	DetectorUnknown DetectorType = iota
	DetectorFalcon5000
)

func (d DetectorType) String() string {
	if d == DetectorFalcon5000 {
		return "Falcon 5000"
	}
	return "Unknown"
}

// Measurement is one gamma spectrum decoded from a CNF file, together with
// the metadata stored alongside it.
type Measurement struct {
	Title   string
	Remarks []string // insertion order significant; includes synthesized entries

	SampleNumber   int
	DetectorNumber int
	DetectorName   string

	StartTime time.Time // zero value when the file carried no usable time
	RealTime  float32   // seconds
	LiveTime  float32   // seconds

	CalibrationModel  CalibrationModel
	CalibrationCoeffs []float32
	DeviationPairs    [][2]float32

	ChannelCounts   []float32
	ChannelCountSum float64

	NeutronCountSum  float64
	ContainedNeutron bool

	// Instrument identity, set only by heuristic tag matches.
	DetectorType    DetectorType
	InstrumentType  string
	Manufacturer    string
	InstrumentModel string
}

// identityKey pairs the MCA type tag with the generic detector tag.
type identityKey struct {
	MCAType  string
	Detector string
}

type instrumentIdentity struct {
	DetectorType   DetectorType
	InstrumentType string
	Manufacturer   string
	Model          string
}

// instrumentIdentities maps tag pairs observed in CNF files to the instrument
// that produced them. The Falcon 5000 entry is based on inspecting files from
// only two detectors; entries are additive.
var instrumentIdentities = map[identityKey]instrumentIdentity{
	{MCAType: "I2K", Detector: "Ge"}: {
		DetectorType:   DetectorFalcon5000,
		InstrumentType: "Spectrometer",
		Manufacturer:   "Canberra",
		Model:          "Falcon 5000",
	},
}

// DetectorAnalysisResult is one nuclide identification produced by an
// instrument's on-board RIID algorithm.
type DetectorAnalysisResult struct {
	Nuclide      string
	Activity     float32
	IDConfidence string
	DetectorName string
}

// DetectorAnalysis holds the RIID analysis results carried over from the
// file a measurement originated in.
type DetectorAnalysis struct {
	AlgorithmDescription string
	Remarks              []string
	Results              []DetectorAnalysisResult
}

// IsEmpty reports whether the analysis carries no usable information.
func (a *DetectorAnalysis) IsEmpty() bool {
	return a == nil ||
		(a.AlgorithmDescription == "" && len(a.Remarks) == 0 && len(a.Results) == 0)
}

// File is a collection of measurements loaded from (or destined for) a CNF
// file. All exported methods serialize on an internal lock, so a single File
// may be shared between goroutines; distinct Files are independent.
type File struct {
	mu sync.Mutex

	filename        string
	measurements    []*Measurement
	sampleNumbers   map[int]bool
	detectorNumbers []int
	analysis        *DetectorAnalysis

	log *slog.Logger
}

// NewFile returns an empty measurement file.
func NewFile() *File {
	return &File{log: slog.Default()}
}

// SetLogger replaces the logger used for write-path diagnostics.
func (f *File) SetLogger(log *slog.Logger) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if log != nil {
		f.log = log
	}
}

// Filename returns the path the measurements were loaded from, if any.
func (f *File) Filename() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filename
}

// Measurements returns the decoded measurements in load order.
func (f *File) Measurements() []*Measurement {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Measurement, len(f.measurements))
	copy(out, f.measurements)
	return out
}

// SampleNumbers returns the sorted set of sample numbers present.
func (f *File) SampleNumbers() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, 0, len(f.sampleNumbers))
	for n := range f.sampleNumbers {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// DetectorNumbers returns the detector numbers present, in first-seen order.
func (f *File) DetectorNumbers() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.detectorNumbers))
	copy(out, f.detectorNumbers)
	return out
}

// SetAnalysis attaches RIID analysis results to the file.
func (f *File) SetAnalysis(a *DetectorAnalysis) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analysis = a
}

// AddMeasurement appends a measurement that did not originate from a CNF
// stream, assigning sample and detector numbers if unset.
func (f *File) AddMeasurement(m *Measurement) {
	if m == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.measurements = append(f.measurements, m)
	f.normalizeLocked()
}

// resetLocked restores the file to its pre-load empty state. Callers must
// hold f.mu.
func (f *File) resetLocked() {
	f.filename = ""
	f.measurements = nil
	f.sampleNumbers = nil
	f.detectorNumbers = nil
	f.analysis = nil
}

// normalizeLocked assigns default sample/detector numbers and rebuilds the
// file-level number sets. Runs once after a successful load and after every
// AddMeasurement. Callers must hold f.mu.
func (f *File) normalizeLocked() {
	f.sampleNumbers = make(map[int]bool, len(f.measurements))
	f.detectorNumbers = f.detectorNumbers[:0]
	seen := make(map[int]bool)
	for _, m := range f.measurements {
		if m.SampleNumber <= 0 {
			m.SampleNumber = 1
		}
		f.sampleNumbers[m.SampleNumber] = true
		if !seen[m.DetectorNumber] {
			seen[m.DetectorNumber] = true
			f.detectorNumbers = append(f.detectorNumbers, m.DetectorNumber)
		}
	}
}
