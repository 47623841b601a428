// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package provider

import (
	"crypto/rand"
	"fmt"
	"hash"
	"io"

	sha256 "github.com/minio/sha256-simd"
	"golang.org/x/crypto/curve25519"

	"github.com/bitmark-inc/esnikeys/fault"
)

// key sizes for X25519
const (
	PrivateKeySize = curve25519.ScalarSize
	PublicKeySize  = curve25519.PointSize
)

// Provider - the cryptographic operations a record build needs
type Provider interface {
	GenerateKey() (*KeyPair, error)
	PublicKey(privateKey []byte) ([]byte, error)
	NewHash() hash.Hash
}

// KeyPair - X25519 private scalar and its public value
type KeyPair struct {
	PrivateKey []byte
	PublicKey  []byte
}

type x25519 struct {
	random io.Reader
}

// New - X25519 key exchange with SHA-256
func New() Provider {
	return &x25519{
		random: rand.Reader,
	}
}

// NewWithRandom - as New but reading key material from r
func NewWithRandom(r io.Reader) Provider {
	return &x25519{
		random: r,
	}
}

// GenerateKey - create a new random key pair
func (p *x25519) GenerateKey() (*KeyPair, error) {
	private := make([]byte, PrivateKeySize)
	if _, err := io.ReadFull(p.random, private); nil != err {
		return nil, fmt.Errorf("random: %s  %w", err, fault.ErrCryptoProviderFailure)
	}

	public, err := p.PublicKey(private)
	if nil != err {
		return nil, err
	}

	return &KeyPair{
		PrivateKey: private,
		PublicKey:  public,
	}, nil
}

// PublicKey - derive the public value from a private scalar
func (p *x25519) PublicKey(privateKey []byte) ([]byte, error) {
	if PrivateKeySize != len(privateKey) {
		return nil, fmt.Errorf("private key length: %d  %w", len(privateKey), fault.ErrCryptoProviderFailure)
	}
	public, err := curve25519.X25519(privateKey, curve25519.Basepoint)
	if nil != err {
		return nil, fmt.Errorf("%s  %w", err, fault.ErrCryptoProviderFailure)
	}
	return public, nil
}

// NewHash - SHA-256 used by the record checksum
func (p *x25519) NewHash() hash.Hash {
	return sha256.New()
}
