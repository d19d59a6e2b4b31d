// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2026 The cnf Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Command cnfinfo prints the contents of a CNF gamma-spectrum file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/gammaspec/cnf"
)

type measurementJSON struct {
	Title             string    `json:"title,omitempty"`
	Remarks           []string  `json:"remarks,omitempty"`
	StartTime         time.Time `json:"start_time"`
	RealTimeSeconds   float32   `json:"real_time_s"`
	LiveTimeSeconds   float32   `json:"live_time_s"`
	CalibrationModel  string    `json:"calibration_model"`
	CalibrationCoeffs []float32 `json:"calibration_coeffs,omitempty"`
	ChannelCount      int       `json:"channel_count"`
	ChannelCountSum   float64   `json:"channel_count_sum"`
	ChannelCounts     []float32 `json:"channel_counts,omitempty"`
	DetectorName      string    `json:"detector_name,omitempty"`
	InstrumentType    string    `json:"instrument_type,omitempty"`
	Manufacturer      string    `json:"manufacturer,omitempty"`
	InstrumentModel   string    `json:"instrument_model,omitempty"`
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app := &cli.Command{
		Name:      "cnfinfo",
		Usage:     "Inspect CNF gamma-spectrum files",
		ArgsUsage: "<file.cnf>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "emit JSON instead of text",
			},
			&cli.BoolFlag{
				Name:  "channels",
				Usage: "include per-channel counts in the output",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: cnfinfo [--json] [--channels] <file.cnf>")
	}
	path := cmd.Args().First()

	f := cnf.NewFile()
	if !f.LoadFile(path) {
		return fmt.Errorf("%s: not a readable CNF file", path)
	}

	for _, m := range f.Measurements() {
		if cmd.Bool("json") {
			if err := printJSON(m, cmd.Bool("channels")); err != nil {
				return err
			}
			continue
		}
		printText(m, cmd.Bool("channels"))
	}
	return nil
}

func printJSON(m *cnf.Measurement, withChannels bool) error {
	out := measurementJSON{
		Title:             m.Title,
		Remarks:           m.Remarks,
		StartTime:         m.StartTime,
		RealTimeSeconds:   m.RealTime,
		LiveTimeSeconds:   m.LiveTime,
		CalibrationModel:  m.CalibrationModel.String(),
		CalibrationCoeffs: m.CalibrationCoeffs,
		ChannelCount:      len(m.ChannelCounts),
		ChannelCountSum:   m.ChannelCountSum,
		DetectorName:      m.DetectorName,
		InstrumentType:    m.InstrumentType,
		Manufacturer:      m.Manufacturer,
		InstrumentModel:   m.InstrumentModel,
	}
	if withChannels {
		out.ChannelCounts = m.ChannelCounts
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printText(m *cnf.Measurement, withChannels bool) {
	if m.Title != "" {
		fmt.Printf("Title:        %s\n", m.Title)
	}
	for _, r := range m.Remarks {
		fmt.Printf("Remark:       %s\n", r)
	}
	if !m.StartTime.IsZero() {
		fmt.Printf("Start time:   %s\n", m.StartTime.Format(time.RFC3339))
	}
	fmt.Printf("Real time:    %.3f s\n", m.RealTime)
	fmt.Printf("Live time:    %.3f s\n", m.LiveTime)
	fmt.Printf("Calibration:  %s %v\n", m.CalibrationModel, m.CalibrationCoeffs)
	fmt.Printf("Channels:     %d (sum %.0f)\n", len(m.ChannelCounts), m.ChannelCountSum)
	if m.DetectorName != "" {
		fmt.Printf("Detector:     %s\n", m.DetectorName)
	}
	if m.InstrumentModel != "" {
		fmt.Printf("Instrument:   %s %s (%s)\n", m.Manufacturer, m.InstrumentModel, m.InstrumentType)
	}
	if withChannels {
		for i, v := range m.ChannelCounts {
			fmt.Printf("%6d  %.0f\n", i, v)
		}
	}
}
