// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package extension

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"

	"github.com/bitmark-inc/esnikeys/fault"
)

// extension type codes
const (
	AddressSetType uint16 = 0x1001
)

// maximum payload of a single extension (two byte length prefix)
const maximumPayloadLength = 0xffff

// Extension - a typed, length prefixed sub-structure of a record
type Extension struct {
	Type    uint16
	Payload []byte
}

// Marshal - append the extensions list to a builder
//
// layout:
//   uint16 length of all that follows
//   repeated: uint16 type, uint16 payload length, payload
//
// so a single extension has a list length of payload length + 4
func Marshal(b *cryptobyte.Builder, extensions []Extension) error {
	seen := make(map[uint16]struct{}, len(extensions))
	for _, e := range extensions {
		if _, ok := seen[e.Type]; ok {
			return fmt.Errorf("type: 0x%04x repeated  %w", e.Type, fault.ErrExtensionEncodingUnsupported)
		}
		seen[e.Type] = struct{}{}
		if len(e.Payload) > maximumPayloadLength {
			return fmt.Errorf("type: 0x%04x payload: %d bytes  %w", e.Type, len(e.Payload), fault.ErrExtensionEncodingUnsupported)
		}
	}

	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, e := range extensions {
			b.AddUint16(e.Type)
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddBytes(e.Payload)
			})
		}
	})
	return nil
}

// Encode - the extensions list as a standalone byte sequence
func Encode(extensions []Extension) ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	if err := Marshal(b, extensions); nil != err {
		return nil, err
	}
	data, err := b.Bytes()
	if nil != err {
		return nil, fmt.Errorf("%s  %w", err, fault.ErrBufferCapacityExceeded)
	}
	return data, nil
}

// Unmarshal - read an extensions list
func Unmarshal(s *cryptobyte.String) ([]Extension, error) {
	var list cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&list) {
		return nil, fault.ErrTruncatedRecord
	}

	extensions := []Extension{}
	for !list.Empty() {
		var (
			t       uint16
			payload cryptobyte.String
		)
		if !list.ReadUint16(&t) || !list.ReadUint16LengthPrefixed(&payload) {
			return nil, fault.ErrTruncatedRecord
		}
		extensions = append(extensions, Extension{
			Type:    t,
			Payload: append([]byte{}, payload...),
		})
	}
	return extensions, nil
}
