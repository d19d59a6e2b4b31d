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
	"io"
	"strings"
)

// CNF files have no directory structure; records are found by probing
// 512-byte-aligned offsets for a two-byte block tag (marker, 0x20).
const (
	blockStride = 512
	blockTag    = 0x20

	blockHeader      = 0x01
	blockData        = 0x00
	blockChannelData = 0x05
)

// findBlock scans the stream in blockStride steps starting at start, looking
// for the two-byte tag (marker, blockTag). It returns the absolute offset of
// the first match. The scan stops once fewer than blockStride bytes remain;
// the stream cursor is unspecified afterwards.
func findBlock(r io.ReadSeeker, marker byte, start, size int64) (int64, bool, error) {
	var tag [2]byte
	for pos := start; pos+blockStride < size; pos += blockStride {
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			return 0, false, err
		}
		if _, err := io.ReadFull(r, tag[:]); err != nil {
			return 0, false, err
		}
		if tag[0] == marker && tag[1] == blockTag {
			return pos, true, nil
		}
	}
	return 0, false, nil
}

func readAt(r io.ReadSeeker, off int64, n int) ([]byte, error) {
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readUint16At(r io.ReadSeeker, off int64) (uint16, error) {
	b, err := readAt(r, off, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func readUint32At(r io.ReadSeeker, off int64) (uint32, error) {
	b, err := readAt(r, off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// readStringAt reads an n-byte fixed-width field and trims the padding.
func readStringAt(r io.ReadSeeker, off int64, n int) (string, error) {
	b, err := readAt(r, off, n)
	if err != nil {
		return "", err
	}
	return strings.Trim(string(b), " \t\r\n\x00"), nil
}
