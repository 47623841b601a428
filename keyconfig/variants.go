// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keyconfig

import (
	"hash"

	"github.com/bitmark-inc/esnikeys/extension"
)

// V1 - ESNIKeys 0xff01, no cover name and an always empty extension list
type V1 struct {
	PublicKey [PublicKeySize]byte
	Validity  Validity
}

// V2 - ESNIKeys 0xff02
type V2 struct {
	CoverName  string
	PublicKey  [PublicKeySize]byte
	Validity   Validity
	Extensions []extension.Extension
}

// V3 - ECHOConfig 0xff03, no checksum and no validity window
type V3 struct {
	CoverName  string
	PublicKey  [PublicKeySize]byte
	Extensions []extension.Extension
}

// Version - tag for V1
func (r *V1) Version() Version { return V1Version }

// Version - tag for V2
func (r *V2) Version() Version { return V2Version }

// Version - tag for V3
func (r *V3) Version() Version { return V3Version }

// Pack - serialise a V1 record and fill in its checksum
func (r *V1) Pack(newHash func() hash.Hash) (Packed, error) {
	if err := r.Validity.check(); nil != err {
		return nil, err
	}

	b := newBuilder(V1Version)
	addKeyShare(b, r.PublicKey)
	addCipherSuites(b)
	addValidity(b, r.Validity)
	if err := extension.Marshal(b, nil); nil != err {
		return nil, err
	}
	return finish(V1Version, b, newHash)
}

// Pack - serialise a V2 record and fill in its checksum
func (r *V2) Pack(newHash func() hash.Hash) (Packed, error) {
	if err := CheckCoverName(r.CoverName); nil != err {
		return nil, err
	}
	if err := r.Validity.check(); nil != err {
		return nil, err
	}

	b := newBuilder(V2Version)
	addCoverName(b, r.CoverName)
	addKeyShare(b, r.PublicKey)
	addCipherSuites(b)
	addValidity(b, r.Validity)
	if err := extension.Marshal(b, r.Extensions); nil != err {
		return nil, err
	}
	return finish(V2Version, b, newHash)
}

// Pack - serialise a V3 record
//
// an empty cover name is omitted entirely and newHash is not used
func (r *V3) Pack(newHash func() hash.Hash) (Packed, error) {
	if "" != r.CoverName {
		if err := CheckCoverName(r.CoverName); nil != err {
			return nil, err
		}
	}

	b := newBuilder(V3Version)
	if "" != r.CoverName {
		addCoverName(b, r.CoverName)
	}
	addKeyShare(b, r.PublicKey)
	b.AddUint16(KEMX25519HKDFSHA256)
	addCipherSuites(b)
	if err := extension.Marshal(b, r.Extensions); nil != err {
		return nil, err
	}
	return finish(V3Version, b, newHash)
}
