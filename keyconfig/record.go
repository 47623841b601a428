// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keyconfig

import (
	"encoding/binary"
	"fmt"
	"hash"

	"golang.org/x/crypto/cryptobyte"

	"github.com/bitmark-inc/esnikeys/checksum"
	"github.com/bitmark-inc/esnikeys/fault"
)

// fixed values: exactly one group, cipher suite and KEM are supported
const (
	MaximumRecordLength    = 1024
	MaximumCoverNameLength = 254

	PublicKeySize = 32

	GroupX25519              uint16 = 0x001d
	CipherTLSAES128GCMSHA256 uint16 = 0x1301
	KEMX25519HKDFSHA256      uint16 = 0x0020
	PaddedLength             uint16 = 260
)

// Record - one of V1, V2 or V3
type Record interface {
	Version() Version
	Pack(newHash func() hash.Hash) (Packed, error)
}

// Packed - the finished binary record
type Packed []byte

// Version - the tag from the first two bytes, zero if too short
func (p Packed) Version() Version {
	if len(p) < 2 {
		return 0
	}
	return Version(binary.BigEndian.Uint16(p))
}

// every record is written through a builder that cannot grow past
// the maximum record length
func newBuilder(v Version) *cryptobyte.Builder {
	b := cryptobyte.NewFixedBuilder(make([]byte, 0, MaximumRecordLength))
	b.AddUint16(uint16(v))
	if v.HasChecksum() {
		b.AddBytes(make([]byte, checksum.Length))
	}
	return b
}

func addCoverName(b *cryptobyte.Builder, name string) {
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes([]byte(name))
	})
}

// KeyShareEntry list holding the single X25519 key
func addKeyShare(b *cryptobyte.Builder, publicKey [PublicKeySize]byte) {
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddUint16(GroupX25519)
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddBytes(publicKey[:])
		})
	})
}

func addCipherSuites(b *cryptobyte.Builder) {
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddUint16(CipherTLSAES128GCMSHA256)
	})
	b.AddUint16(PaddedLength)
}

// uint64 seconds with the top 32 bits always zero
func addValidity(b *cryptobyte.Builder, v Validity) {
	b.AddUint32(0)
	b.AddUint32(uint32(v.NotBefore.Unix()))
	b.AddUint32(0)
	b.AddUint32(uint32(v.NotAfter.Unix()))
}

// collect the bytes and add the checksum for versions that have one
func finish(v Version, b *cryptobyte.Builder, newHash func() hash.Hash) (Packed, error) {
	data, err := b.Bytes()
	if nil != err {
		return nil, fmt.Errorf("version: %s  %s  %w", v, err, fault.ErrBufferCapacityExceeded)
	}

	if v.HasChecksum() {
		if err := checksum.Finalise(data, newHash); nil != err {
			return nil, err
		}
	}
	return Packed(data), nil
}

// CheckCoverName - a canonical cover name must be present and at most
// MaximumCoverNameLength bytes
func CheckCoverName(name string) error {
	if "" == name {
		return fault.ErrCoverNameRequired
	}
	if len(name) > MaximumCoverNameLength {
		return fmt.Errorf("cover name length: %d > %d  %w", len(name), MaximumCoverNameLength, fault.ErrCoverNameTooLong)
	}
	return nil
}
