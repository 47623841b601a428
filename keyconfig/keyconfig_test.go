// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keyconfig_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	sha256 "github.com/minio/sha256-simd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/esnikeys/addresslist"
	"github.com/bitmark-inc/esnikeys/extension"
	"github.com/bitmark-inc/esnikeys/fault"
	"github.com/bitmark-inc/esnikeys/keyconfig"
	"github.com/bitmark-inc/esnikeys/util"
)

// RFC 7748 section 6.1 public key
var publicKey = []byte{
	0x85, 0x20, 0xf0, 0x09, 0x89, 0x30, 0xa7, 0x54,
	0x74, 0x8b, 0x7d, 0xdc, 0xb4, 0x3e, 0xf7, 0x5a,
	0x0d, 0xbf, 0x3a, 0x0d, 0x26, 0x38, 0x1a, 0xf4,
	0xeb, 0xa4, 0xa9, 0x8e, 0xaa, 0x9b, 0x4e, 0x6a,
}

var validity = keyconfig.Validity{
	NotBefore: time.Unix(1600000000, 0).UTC(),
	NotAfter:  time.Unix(1600000000+7*24*3600, 0).UTC(),
}

func addresses(t *testing.T, items ...string) *addresslist.List {
	l := addresslist.New(0)
	for _, a := range items {
		require.Equal(t, addresslist.Added, l.Add(a), "add: %s", a)
	}
	return l
}

func checkBytes(t *testing.T, expected []byte, actual []byte) {
	if !bytes.Equal(expected, actual) {
		t.Errorf("record mismatch:\n%s\n%s", util.FormatBytes("actual", actual), util.FormatBytes("expected", expected))
	}
}

func TestBuildV1(t *testing.T) {
	parameters := keyconfig.Parameters{
		Version:   keyconfig.V1Version,
		PublicKey: publicKey,
		Validity:  validity,
	}
	record, packed, err := keyconfig.Build(parameters, sha256.New)
	require.NoError(t, err, "build")

	expected := []byte{
		0xff, 0x01, 0xd4, 0x35, 0xd8, 0x36, 0x00, 0x24,
		0x00, 0x1d, 0x00, 0x20, 0x85, 0x20, 0xf0, 0x09,
		0x89, 0x30, 0xa7, 0x54, 0x74, 0x8b, 0x7d, 0xdc,
		0xb4, 0x3e, 0xf7, 0x5a, 0x0d, 0xbf, 0x3a, 0x0d,
		0x26, 0x38, 0x1a, 0xf4, 0xeb, 0xa4, 0xa9, 0x8e,
		0xaa, 0x9b, 0x4e, 0x6a, 0x00, 0x02, 0x13, 0x01,
		0x01, 0x04, 0x00, 0x00, 0x00, 0x00, 0x5f, 0x5e,
		0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x5f, 0x67,
		0x4a, 0x80, 0x00, 0x00,
	}
	checkBytes(t, expected, packed)
	assert.Equal(t, keyconfig.V1Version, record.Version(), "version")
	assert.Equal(t, keyconfig.V1Version, packed.Version(), "packed version")
}

func TestBuildV2(t *testing.T) {
	parameters := keyconfig.Parameters{
		Version:   keyconfig.V2Version,
		CoverName: "www.example.com.",
		Addresses: addresses(t, "1.2.3.4"),
		PublicKey: publicKey,
		Validity:  validity,
	}
	record, packed, err := keyconfig.Build(parameters, sha256.New)
	require.NoError(t, err, "build")

	expected := []byte{
		0xff, 0x02, 0x00, 0x92, 0x96, 0xf3, 0x00, 0x0f,
		0x77, 0x77, 0x77, 0x2e, 0x65, 0x78, 0x61, 0x6d,
		0x70, 0x6c, 0x65, 0x2e, 0x63, 0x6f, 0x6d, 0x00,
		0x24, 0x00, 0x1d, 0x00, 0x20, 0x85, 0x20, 0xf0,
		0x09, 0x89, 0x30, 0xa7, 0x54, 0x74, 0x8b, 0x7d,
		0xdc, 0xb4, 0x3e, 0xf7, 0x5a, 0x0d, 0xbf, 0x3a,
		0x0d, 0x26, 0x38, 0x1a, 0xf4, 0xeb, 0xa4, 0xa9,
		0x8e, 0xaa, 0x9b, 0x4e, 0x6a, 0x00, 0x02, 0x13,
		0x01, 0x01, 0x04, 0x00, 0x00, 0x00, 0x00, 0x5f,
		0x5e, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x5f,
		0x67, 0x4a, 0x80, 0x00, 0x09, 0x10, 0x01, 0x00,
		0x05, 0x04, 0x01, 0x02, 0x03, 0x04,
	}
	checkBytes(t, expected, packed)

	v2, ok := record.(*keyconfig.V2)
	require.True(t, ok, "record type: %T", record)
	assert.Equal(t, "www.example.com", v2.CoverName, "cover name")
	assert.Len(t, v2.Extensions, 1, "extensions")
}

func TestBuildV3(t *testing.T) {
	parameters := keyconfig.Parameters{
		Version:   keyconfig.V3Version,
		CoverName: "www.example.com",
		PublicKey: publicKey,
	}
	record, packed, err := keyconfig.Build(parameters, sha256.New)
	require.NoError(t, err, "build")

	expected := []byte{
		0xff, 0x03, 0x00, 0x0f, 0x77, 0x77, 0x77, 0x2e,
		0x65, 0x78, 0x61, 0x6d, 0x70, 0x6c, 0x65, 0x2e,
		0x63, 0x6f, 0x6d, 0x00, 0x24, 0x00, 0x1d, 0x00,
		0x20, 0x85, 0x20, 0xf0, 0x09, 0x89, 0x30, 0xa7,
		0x54, 0x74, 0x8b, 0x7d, 0xdc, 0xb4, 0x3e, 0xf7,
		0x5a, 0x0d, 0xbf, 0x3a, 0x0d, 0x26, 0x38, 0x1a,
		0xf4, 0xeb, 0xa4, 0xa9, 0x8e, 0xaa, 0x9b, 0x4e,
		0x6a, 0x00, 0x20, 0x00, 0x02, 0x13, 0x01, 0x01,
		0x04, 0x00, 0x00,
	}
	checkBytes(t, expected, packed)
	assert.Equal(t, keyconfig.V3Version, record.Version(), "version")
}

func TestPackV3WithoutCoverName(t *testing.T) {
	record := &keyconfig.V3{}
	copy(record.PublicKey[:], publicKey)

	packed, err := record.Pack(nil)
	require.NoError(t, err, "pack")

	expected := []byte{
		0xff, 0x03, 0x00, 0x24, 0x00, 0x1d, 0x00, 0x20,
		0x85, 0x20, 0xf0, 0x09, 0x89, 0x30, 0xa7, 0x54,
		0x74, 0x8b, 0x7d, 0xdc, 0xb4, 0x3e, 0xf7, 0x5a,
		0x0d, 0xbf, 0x3a, 0x0d, 0x26, 0x38, 0x1a, 0xf4,
		0xeb, 0xa4, 0xa9, 0x8e, 0xaa, 0x9b, 0x4e, 0x6a,
		0x00, 0x20, 0x00, 0x02, 0x13, 0x01, 0x01, 0x04,
		0x00, 0x00,
	}
	checkBytes(t, expected, packed)

	unpacked, err := keyconfig.Unpack(packed, sha256.New)
	require.NoError(t, err, "unpack")
	v3, ok := unpacked.(*keyconfig.V3)
	require.True(t, ok, "record type: %T", unpacked)
	assert.Equal(t, record.PublicKey, v3.PublicKey, "public key")
	assert.Equal(t, "", v3.CoverName, "cover name")
}

func TestBuildFailures(t *testing.T) {
	items := []struct {
		parameters keyconfig.Parameters
		err        error
	}{
		{
			parameters: keyconfig.Parameters{Version: 0xff00, PublicKey: publicKey, Validity: validity},
			err:        fault.ErrInvalidVersion,
		},
		{
			parameters: keyconfig.Parameters{Version: keyconfig.V1Version, PublicKey: publicKey[:31], Validity: validity},
			err:        fault.ErrInvalidPublicKeyLength,
		},
		{
			parameters: keyconfig.Parameters{Version: keyconfig.V1Version, CoverName: "example.com", PublicKey: publicKey, Validity: validity},
			err:        fault.ErrCoverNameNotSupported,
		},
		{
			parameters: keyconfig.Parameters{Version: keyconfig.V1Version, Addresses: addresses(t, "10.0.0.1"), PublicKey: publicKey, Validity: validity},
			err:        fault.ErrAddressSetNotSupported,
		},
		{
			parameters: keyconfig.Parameters{Version: keyconfig.V2Version, PublicKey: publicKey, Validity: validity},
			err:        fault.ErrCoverNameRequired,
		},
		{
			parameters: keyconfig.Parameters{Version: keyconfig.V3Version, CoverName: ".", PublicKey: publicKey},
			err:        fault.ErrCoverNameRequired,
		},
		{
			parameters: keyconfig.Parameters{Version: keyconfig.V2Version, CoverName: strings.Repeat("a", 255), PublicKey: publicKey, Validity: validity},
			err:        fault.ErrCoverNameTooLong,
		},
		{
			parameters: keyconfig.Parameters{Version: keyconfig.V2Version, CoverName: "example.com", PublicKey: publicKey},
			err:        fault.ErrInvalidDuration,
		},
		{
			parameters: keyconfig.Parameters{Version: keyconfig.V3Version, CoverName: "example.com", Addresses: addresses(t, "not-an-address"), PublicKey: publicKey},
			err:        fault.ErrAddressConversionFailed,
		},
	}

	for i, item := range items {
		record, packed, err := keyconfig.Build(item.parameters, sha256.New)
		assert.ErrorIs(t, err, item.err, "%d: error", i)
		assert.Nil(t, record, "%d: record", i)
		assert.Nil(t, packed, "%d: packed", i)
	}
}

func TestBuildEmptyAddresses(t *testing.T) {
	without := keyconfig.Parameters{
		Version:   keyconfig.V2Version,
		CoverName: "www.example.com",
		PublicKey: publicKey,
		Validity:  validity,
	}
	_, expected, err := keyconfig.Build(without, sha256.New)
	require.NoError(t, err, "build without addresses")

	empty := without
	empty.Addresses = addresses(t)
	record, packed, err := keyconfig.Build(empty, sha256.New)
	require.NoError(t, err, "build with empty addresses")
	checkBytes(t, expected, packed)
	assert.Empty(t, record.(*keyconfig.V2).Extensions, "extensions")
	assert.Equal(t, []byte{0x00, 0x00}, []byte(packed[len(packed)-2:]), "empty extension list")

	v1 := keyconfig.Parameters{
		Version:   keyconfig.V1Version,
		Addresses: addresses(t),
		PublicKey: publicKey,
		Validity:  validity,
	}
	_, _, err = keyconfig.Build(v1, sha256.New)
	assert.NoError(t, err, "V1 with empty addresses")
}

func TestMaximumCoverName(t *testing.T) {
	name := strings.Repeat("a", keyconfig.MaximumCoverNameLength)
	parameters := keyconfig.Parameters{
		Version:   keyconfig.V2Version,
		CoverName: name + ".",
		PublicKey: publicKey,
		Validity:  validity,
	}
	record, packed, err := keyconfig.Build(parameters, sha256.New)
	require.NoError(t, err, "build")
	assert.Equal(t, name, record.(*keyconfig.V2).CoverName, "cover name")
	assert.Equal(t, []byte{0x00, 0xfe}, []byte(packed[6:8]), "cover name length")
}

func TestBufferCapacity(t *testing.T) {
	record := &keyconfig.V2{
		CoverName: "example.com",
		Validity:  validity,
		Extensions: []extension.Extension{
			{Type: 0x2000, Payload: make([]byte, keyconfig.MaximumRecordLength)},
		},
	}
	copy(record.PublicKey[:], publicKey)

	packed, err := record.Pack(sha256.New)
	assert.ErrorIs(t, err, fault.ErrBufferCapacityExceeded, "error")
	assert.Nil(t, packed, "packed")
}

func TestUnpack(t *testing.T) {
	for _, v := range []keyconfig.Version{keyconfig.V1Version, keyconfig.V2Version, keyconfig.V3Version} {
		parameters := keyconfig.Parameters{
			Version:   v,
			PublicKey: publicKey,
			Validity:  validity,
		}
		if keyconfig.V1Version != v {
			parameters.CoverName = "cover.example.org"
			parameters.Addresses = addresses(t, "192.0.2.1", "2001:db8::1")
		}
		record, packed, err := keyconfig.Build(parameters, sha256.New)
		require.NoError(t, err, "%s: build", v)

		unpacked, err := keyconfig.Unpack(packed, sha256.New)
		require.NoError(t, err, "%s: unpack", v)
		assert.Equal(t, record.Version(), unpacked.Version(), "%s: version", v)

		repacked, err := unpacked.Pack(sha256.New)
		require.NoError(t, err, "%s: repack", v)
		checkBytes(t, packed, repacked)
	}
}

func TestUnpackFailures(t *testing.T) {
	parameters := keyconfig.Parameters{
		Version:   keyconfig.V2Version,
		CoverName: "www.example.com",
		PublicKey: publicKey,
		Validity:  validity,
	}
	_, packed, err := keyconfig.Build(parameters, sha256.New)
	require.NoError(t, err, "build")

	corrupt := append([]byte{}, packed...)
	corrupt[len(corrupt)-10] ^= 0x01
	_, err = keyconfig.Unpack(corrupt, sha256.New)
	assert.ErrorIs(t, err, fault.ErrChecksumMismatch, "corrupt")

	_, err = keyconfig.Unpack(packed[:1], sha256.New)
	assert.ErrorIs(t, err, fault.ErrTruncatedRecord, "short")

	_, err = keyconfig.Unpack([]byte{0xff, 0x09, 0x00}, sha256.New)
	assert.ErrorIs(t, err, fault.ErrInvalidVersion, "version")

	v3 := &keyconfig.V3{CoverName: "example.com"}
	v3Packed, err := v3.Pack(nil)
	require.NoError(t, err, "pack v3")
	_, err = keyconfig.Unpack(append(v3Packed, 0x00), nil)
	assert.ErrorIs(t, err, fault.ErrTrailingData, "trailing")
}

func TestParseVersion(t *testing.T) {
	items := []struct {
		text     string
		expected keyconfig.Version
	}{
		{"0xff01", keyconfig.V1Version},
		{"0xFF02", keyconfig.V2Version},
		{"ff03", keyconfig.V3Version},
		{"65281", keyconfig.V1Version},
		{" 0xff03 ", keyconfig.V3Version},
	}
	for _, item := range items {
		v, err := keyconfig.ParseVersion(item.text)
		require.NoError(t, err, "parse: %q", item.text)
		assert.Equal(t, item.expected, v, "parse: %q", item.text)
	}

	for _, text := range []string{"", "0", "0xffff", "0xff04", "0x10000", "version"} {
		_, err := keyconfig.ParseVersion(text)
		assert.ErrorIs(t, err, fault.ErrInvalidVersion, "parse: %q", text)
	}

	assert.Equal(t, "0xff02", keyconfig.V2Version.String(), "string")
}

func TestNewValidity(t *testing.T) {
	now := time.Unix(1600000001, 0)

	v, err := keyconfig.NewValidity(now, keyconfig.DefaultDuration)
	require.NoError(t, err, "default")
	assert.Equal(t, int64(1600000000), v.NotBefore.Unix(), "not before")
	assert.Equal(t, int64(1600000000+7*24*3600), v.NotAfter.Unix(), "not after")

	_, err = keyconfig.NewValidity(now, keyconfig.MinimumDuration)
	assert.NoError(t, err, "minimum")

	_, err = keyconfig.NewValidity(now, keyconfig.MinimumDuration-time.Second)
	assert.ErrorIs(t, err, fault.ErrDurationTooShort, "too short")

	_, err = keyconfig.NewValidity(now, keyconfig.MaximumDuration)
	assert.ErrorIs(t, err, fault.ErrDurationTooLong, "too long")

	_, err = keyconfig.NewValidity(now, keyconfig.MaximumDuration-time.Second)
	assert.NoError(t, err, "just under maximum")

	_, err = keyconfig.NewValidity(now, 0)
	assert.ErrorIs(t, err, fault.ErrInvalidDuration, "zero")
}
