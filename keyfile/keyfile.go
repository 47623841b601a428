// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keyfile - persist the X25519 private key as PEM PKCS#8
package keyfile

import (
	encoding_asn1 "encoding/asn1"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/bitmark-inc/esnikeys/fault"
	"github.com/bitmark-inc/esnikeys/provider"
	"github.com/bitmark-inc/esnikeys/util"
)

// BlockType - PEM label of an unencrypted PKCS#8 key
const BlockType = "PRIVATE KEY"

// RFC 8410 id-X25519
var oidX25519 = encoding_asn1.ObjectIdentifier{1, 3, 101, 110}

// Key - a key pair together with its file form
type Key struct {
	provider.KeyPair
	PEM     []byte
	Created bool
}

// Encode - PKCS#8 OneAsymmetricKey holding a CurvePrivateKey
func Encode(privateKey []byte) ([]byte, error) {
	if provider.PrivateKeySize != len(privateKey) {
		return nil, fmt.Errorf("private key length: %d  %w", len(privateKey), fault.ErrInvalidPrivateKeyFile)
	}

	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0)
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oidX25519)
		})
		b.AddASN1(asn1.OCTET_STRING, func(b *cryptobyte.Builder) {
			b.AddASN1OctetString(privateKey)
		})
	})
	der, err := b.Bytes()
	if nil != err {
		return nil, fmt.Errorf("%s  %w", err, fault.ErrInvalidPrivateKeyFile)
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:  BlockType,
		Bytes: der,
	}), nil
}

// Decode - extract the raw private key from the first PEM block
func Decode(data []byte) ([]byte, error) {
	block, _ := pem.Decode(data)
	if nil == block || BlockType != block.Type {
		return nil, fmt.Errorf("no %q block  %w", BlockType, fault.ErrInvalidPrivateKeyFile)
	}

	var (
		version    int64
		algorithm  cryptobyte.String
		oid        encoding_asn1.ObjectIdentifier
		wrapped    cryptobyte.String
		privateKey []byte
	)
	input := cryptobyte.String(block.Bytes)
	var body cryptobyte.String
	if !input.ReadASN1(&body, asn1.SEQUENCE) || !input.Empty() ||
		!body.ReadASN1Integer(&version) ||
		!body.ReadASN1(&algorithm, asn1.SEQUENCE) ||
		!algorithm.ReadASN1ObjectIdentifier(&oid) ||
		!body.ReadASN1(&wrapped, asn1.OCTET_STRING) ||
		!wrapped.ReadASN1Bytes(&privateKey, asn1.OCTET_STRING) ||
		!wrapped.Empty() {
		return nil, fmt.Errorf("malformed PKCS#8  %w", fault.ErrInvalidPrivateKeyFile)
	}

	// version 1 keys may carry an optional public key after this
	if 0 != version && 1 != version {
		return nil, fmt.Errorf("PKCS#8 version: %d  %w", version, fault.ErrInvalidPrivateKeyFile)
	}
	if !oid.Equal(oidX25519) {
		return nil, fmt.Errorf("algorithm: %s  %w", oid, fault.ErrInvalidPrivateKeyFile)
	}
	if provider.PrivateKeySize != len(privateKey) {
		return nil, fmt.Errorf("private key length: %d  %w", len(privateKey), fault.ErrInvalidPrivateKeyFile)
	}
	return privateKey, nil
}

// LoadOrCreate - reuse the key in fileName or generate and save a new
// one readable only by the owner
func LoadOrCreate(log *logger.L, fileName string, p provider.Provider) (*Key, error) {
	if util.EnsureFileExists(fileName) {
		return load(log, fileName, p)
	}

	keyPair, err := p.GenerateKey()
	if nil != err {
		return nil, err
	}

	data, err := Encode(keyPair.PrivateKey)
	if nil != err {
		return nil, err
	}

	err = util.WriteFile(fileName, data, 0600)
	if nil != err {
		log.Errorf("write private key: %q  error: %s", fileName, err)
		return nil, err
	}
	log.Infof("created private key: %q", fileName)

	return &Key{
		KeyPair: *keyPair,
		PEM:     data,
		Created: true,
	}, nil
}

// Create - as LoadOrCreate but never overwrite an existing file
func Create(log *logger.L, fileName string, p provider.Provider) (*Key, error) {
	if util.EnsureFileExists(fileName) {
		return nil, fmt.Errorf("%q  %w", fileName, fault.ErrKeyFileAlreadyExists)
	}
	return LoadOrCreate(log, fileName, p)
}

func load(log *logger.L, fileName string, p provider.Provider) (*Key, error) {
	data, err := os.ReadFile(fileName)
	if nil != err {
		log.Errorf("read private key: %q  error: %s", fileName, err)
		return nil, err
	}

	privateKey, err := Decode(data)
	if nil != err {
		log.Errorf("decode private key: %q  error: %s", fileName, err)
		return nil, err
	}

	publicKey, err := p.PublicKey(privateKey)
	if nil != err {
		return nil, err
	}
	log.Infof("loaded private key: %q", fileName)

	return &Key{
		KeyPair: provider.KeyPair{
			PrivateKey: privateKey,
			PublicKey:  publicKey,
		},
		PEM: data,
	}, nil
}
