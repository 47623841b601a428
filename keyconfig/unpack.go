// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keyconfig

import (
	"bytes"
	"fmt"
	"hash"
	"time"

	"golang.org/x/crypto/cryptobyte"

	"github.com/bitmark-inc/esnikeys/checksum"
	"github.com/bitmark-inc/esnikeys/extension"
	"github.com/bitmark-inc/esnikeys/fault"
)

// Unpack - decode a record previously produced by Pack
//
// the checksum is verified for V1 and V2 and any field value this
// package would not have written is rejected
func Unpack(data []byte, newHash func() hash.Hash) (Record, error) {
	s := cryptobyte.String(data)

	var version uint16
	if !s.ReadUint16(&version) {
		return nil, fault.ErrTruncatedRecord
	}
	v := Version(version)
	if !v.IsValid() {
		return nil, fmt.Errorf("version: %s  %w", v, fault.ErrInvalidVersion)
	}

	if v.HasChecksum() {
		if !s.Skip(checksum.Length) {
			return nil, fault.ErrTruncatedRecord
		}
		if err := checksum.Verify(data, newHash); nil != err {
			return nil, err
		}
	}

	var record Record
	var err error
	switch v {
	case V1Version:
		record, err = unpackV1(&s)
	case V2Version:
		record, err = unpackV2(&s)
	case V3Version:
		record, err = unpackV3(&s)
	}
	if nil != err {
		return nil, err
	}

	if !s.Empty() {
		return nil, fmt.Errorf("%d bytes  %w", len(s), fault.ErrTrailingData)
	}
	return record, nil
}

func unpackV1(s *cryptobyte.String) (Record, error) {
	r := &V1{}
	var err error
	if r.PublicKey, err = readKeyShare(s); nil != err {
		return nil, err
	}
	if err = readCipherSuites(s); nil != err {
		return nil, err
	}
	if r.Validity, err = readValidity(s); nil != err {
		return nil, err
	}
	extensions, err := extension.Unmarshal(s)
	if nil != err {
		return nil, err
	}
	if 0 != len(extensions) {
		return nil, fmt.Errorf("V1 extensions: %d  %w", len(extensions), fault.ErrUnexpectedFieldValue)
	}
	return r, nil
}

func unpackV2(s *cryptobyte.String) (Record, error) {
	r := &V2{}
	var err error
	if r.CoverName, err = readCoverName(s); nil != err {
		return nil, err
	}
	if r.PublicKey, err = readKeyShare(s); nil != err {
		return nil, err
	}
	if err = readCipherSuites(s); nil != err {
		return nil, err
	}
	if r.Validity, err = readValidity(s); nil != err {
		return nil, err
	}
	if r.Extensions, err = extension.Unmarshal(s); nil != err {
		return nil, err
	}
	return r, nil
}

// the V3 cover name is optional: a host name cannot contain the zero
// bytes that begin the key share list
func unpackV3(s *cryptobyte.String) (Record, error) {
	r := &V3{}
	var err error

	if !bytes.HasPrefix(*s, keyShareHeader) {
		if r.CoverName, err = readCoverName(s); nil != err {
			return nil, err
		}
	}

	if r.PublicKey, err = readKeyShare(s); nil != err {
		return nil, err
	}
	var kem uint16
	if !s.ReadUint16(&kem) {
		return nil, fault.ErrTruncatedRecord
	}
	if KEMX25519HKDFSHA256 != kem {
		return nil, fmt.Errorf("KEM: 0x%04x  %w", kem, fault.ErrUnexpectedFieldValue)
	}
	if err = readCipherSuites(s); nil != err {
		return nil, err
	}
	if r.Extensions, err = extension.Unmarshal(s); nil != err {
		return nil, err
	}
	return r, nil
}

// list length, group and key length of the single key share
var keyShareHeader = []byte{0x00, 0x24, 0x00, 0x1d, 0x00, 0x20}

func readCoverName(s *cryptobyte.String) (string, error) {
	var name cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&name) {
		return "", fault.ErrTruncatedRecord
	}
	if err := CheckCoverName(string(name)); nil != err {
		return "", err
	}
	return string(name), nil
}

func readKeyShare(s *cryptobyte.String) ([PublicKeySize]byte, error) {
	var (
		publicKey [PublicKeySize]byte
		list      cryptobyte.String
		key       cryptobyte.String
		group     uint16
	)
	if !s.ReadUint16LengthPrefixed(&list) || !list.ReadUint16(&group) || !list.ReadUint16LengthPrefixed(&key) {
		return publicKey, fault.ErrTruncatedRecord
	}
	if !list.Empty() {
		return publicKey, fmt.Errorf("key share count  %w", fault.ErrUnexpectedFieldValue)
	}
	if GroupX25519 != group {
		return publicKey, fmt.Errorf("group: 0x%04x  %w", group, fault.ErrUnexpectedFieldValue)
	}
	if PublicKeySize != len(key) {
		return publicKey, fmt.Errorf("public key length: %d  %w", len(key), fault.ErrInvalidPublicKeyLength)
	}
	copy(publicKey[:], key)
	return publicKey, nil
}

func readCipherSuites(s *cryptobyte.String) error {
	var (
		suites       cryptobyte.String
		suite        uint16
		paddedLength uint16
	)
	if !s.ReadUint16LengthPrefixed(&suites) || !suites.ReadUint16(&suite) || !s.ReadUint16(&paddedLength) {
		return fault.ErrTruncatedRecord
	}
	if !suites.Empty() || CipherTLSAES128GCMSHA256 != suite {
		return fmt.Errorf("cipher suites  %w", fault.ErrUnexpectedFieldValue)
	}
	if PaddedLength != paddedLength {
		return fmt.Errorf("padded length: %d  %w", paddedLength, fault.ErrUnexpectedFieldValue)
	}
	return nil
}

func readValidity(s *cryptobyte.String) (Validity, error) {
	var nbHigh, nb, naHigh, na uint32
	if !s.ReadUint32(&nbHigh) || !s.ReadUint32(&nb) || !s.ReadUint32(&naHigh) || !s.ReadUint32(&na) {
		return Validity{}, fault.ErrTruncatedRecord
	}
	if 0 != nbHigh || 0 != naHigh {
		return Validity{}, fmt.Errorf("validity  %w", fault.ErrUnexpectedFieldValue)
	}
	v := Validity{
		NotBefore: time.Unix(int64(nb), 0).UTC(),
		NotAfter:  time.Unix(int64(na), 0).UTC(),
	}
	return v, v.check()
}
