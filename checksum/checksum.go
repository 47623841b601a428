// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package checksum

import (
	"bytes"
	"fmt"
	"hash"

	"github.com/bitmark-inc/esnikeys/fault"
)

// position of the checksum field: immediately after the 2 byte version
const (
	Offset = 2
	Length = 4
)

// Compute - digest of the record with the checksum field zeroed
//
// the record itself is not modified
func Compute(record []byte, newHash func() hash.Hash) ([Length]byte, error) {
	sum := [Length]byte{}

	if len(record) < Offset+Length {
		return sum, fmt.Errorf("record length: %d  %w", len(record), fault.ErrChecksumComputationFailed)
	}
	if nil == newHash {
		return sum, fault.ErrChecksumComputationFailed
	}

	zeroed := make([]byte, len(record))
	copy(zeroed, record)
	copy(zeroed[Offset:Offset+Length], []byte{0, 0, 0, 0})

	h := newHash()
	if nil == h {
		return sum, fault.ErrChecksumComputationFailed
	}
	n, err := h.Write(zeroed)
	if nil != err {
		return sum, fmt.Errorf("%s  %w", err, fault.ErrChecksumComputationFailed)
	}
	if n != len(zeroed) {
		return sum, fmt.Errorf("hashed: %d of %d bytes  %w", n, len(zeroed), fault.ErrChecksumComputationFailed)
	}

	digest := h.Sum(nil)
	if len(digest) < Length {
		return sum, fmt.Errorf("digest length: %d  %w", len(digest), fault.ErrChecksumComputationFailed)
	}
	copy(sum[:], digest[:Length])
	return sum, nil
}

// Finalise - compute the checksum over the complete record and store
// it in the checksum field
//
// on error the record is left unchanged
func Finalise(record []byte, newHash func() hash.Hash) error {
	sum, err := Compute(record, newHash)
	if nil != err {
		return err
	}
	copy(record[Offset:Offset+Length], sum[:])
	return nil
}

// Verify - check that the stored checksum matches the record
func Verify(record []byte, newHash func() hash.Hash) error {
	sum, err := Compute(record, newHash)
	if nil != err {
		return err
	}
	if !bytes.Equal(sum[:], record[Offset:Offset+Length]) {
		return fmt.Errorf("stored: %x  computed: %x  %w", record[Offset:Offset+Length], sum, fault.ErrChecksumMismatch)
	}
	return nil
}
