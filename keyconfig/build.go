// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keyconfig

import (
	"fmt"
	"hash"
	"strings"

	"github.com/bitmark-inc/esnikeys/addresslist"
	"github.com/bitmark-inc/esnikeys/extension"
	"github.com/bitmark-inc/esnikeys/fault"
)

// Parameters - everything needed to build one record
//
// Addresses is nil or empty when no AddressSet extension is wanted
type Parameters struct {
	Version   Version
	CoverName string
	Addresses *addresslist.List
	PublicKey []byte
	Validity  Validity
}

// CanonicalCoverName - a single trailing dot is not stored
func CanonicalCoverName(name string) string {
	return strings.TrimSuffix(name, ".")
}

// Build - check the parameters against the version and produce both
// the typed record and its packed bytes
func Build(parameters Parameters, newHash func() hash.Hash) (Record, Packed, error) {
	if !parameters.Version.IsValid() {
		return nil, nil, fmt.Errorf("version: %s  %w", parameters.Version, fault.ErrInvalidVersion)
	}

	if PublicKeySize != len(parameters.PublicKey) {
		return nil, nil, fmt.Errorf("public key length: %d  %w", len(parameters.PublicKey), fault.ErrInvalidPublicKeyLength)
	}
	var publicKey [PublicKeySize]byte
	copy(publicKey[:], parameters.PublicKey)

	coverName := CanonicalCoverName(parameters.CoverName)

	var extensions []extension.Extension
	if nil != parameters.Addresses && parameters.Addresses.Len() > 0 {
		if V1Version == parameters.Version {
			return nil, nil, fault.ErrAddressSetNotSupported
		}
		addressSet, err := extension.NewAddressSet(parameters.Addresses.Items())
		if nil != err {
			return nil, nil, err
		}
		extensions = append(extensions, addressSet)
	}

	var record Record
	switch parameters.Version {
	case V1Version:
		if "" != coverName {
			return nil, nil, fault.ErrCoverNameNotSupported
		}
		record = &V1{
			PublicKey: publicKey,
			Validity:  parameters.Validity,
		}

	case V2Version:
		if err := CheckCoverName(coverName); nil != err {
			return nil, nil, err
		}
		record = &V2{
			CoverName:  coverName,
			PublicKey:  publicKey,
			Validity:   parameters.Validity,
			Extensions: extensions,
		}

	case V3Version:
		if err := CheckCoverName(coverName); nil != err {
			return nil, nil, err
		}
		record = &V3{
			CoverName:  coverName,
			PublicKey:  publicKey,
			Extensions: extensions,
		}
	}

	packed, err := record.Pack(newHash)
	if nil != err {
		return nil, nil, err
	}
	return record, packed, nil
}
