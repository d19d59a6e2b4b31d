// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2026 The cnf Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cnf

import "errors"

// Parse and encode failures stay internal to the package: the public API
// reports only success or failure, because a format-probing codec is usually
// one of several tried in sequence and callers need a uniform signal.
var (
	errBlockNotFound       = errors.New("block not found")
	errInvalidRecordOffset = errors.New("invalid record offset")
	errInvalidChannelCount = errors.New("invalid number of channels")
	errInvalidCalibration  = errors.New("calibration parameters were invalid")
	errInvalidFileSize     = errors.New("invalid file size")
	errInvalidTimestamp    = errors.New("invalid timestamp")
	errNotImplemented      = errors.New("writing CNF files not yet implemented")
)
