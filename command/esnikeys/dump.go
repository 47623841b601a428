// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"hash"
	"io"
	"os"
	"time"

	"github.com/bitmark-inc/esnikeys/armour"
	"github.com/bitmark-inc/esnikeys/checksum"
	"github.com/bitmark-inc/esnikeys/extension"
	"github.com/bitmark-inc/esnikeys/keyconfig"
	"github.com/bitmark-inc/esnikeys/zonefile"
)

// read a binary, base64 or combined PEM file back into a record
func readRecord(fileName string) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if nil != err {
		return nil, err
	}

	if bytes.Contains(data, []byte("-----BEGIN "+armour.BlockType+"-----")) {
		_, record, err := armour.DecodeCombined(data)
		return record, err
	}

	// every version tag starts with 0xff which is not base64 text
	if len(data) > 0 && 0xff == data[0] {
		return data, nil
	}
	return armour.DecodeBase64(string(data))
}

// print the fields of a record followed by its zone presentation
func dump(w io.Writer, fileName string, newHash func() hash.Hash) error {
	data, err := readRecord(fileName)
	if nil != err {
		return err
	}

	record, err := keyconfig.Unpack(data, newHash)
	if nil != err {
		return err
	}

	fmt.Fprintf(w, "file:        %s\n", fileName)
	fmt.Fprintf(w, "length:      %d\n", len(data))
	fmt.Fprintf(w, "version:     %s\n", record.Version())
	if record.Version().HasChecksum() {
		fmt.Fprintf(w, "checksum:    %x\n", data[checksum.Offset:checksum.Offset+checksum.Length])
	}

	coverName := ""
	var extensions []extension.Extension
	switch r := record.(type) {
	case *keyconfig.V1:
		fmt.Fprintf(w, "public key:  %x\n", r.PublicKey)
		dumpValidity(w, r.Validity)
	case *keyconfig.V2:
		coverName = r.CoverName
		fmt.Fprintf(w, "cover name:  %s\n", r.CoverName)
		fmt.Fprintf(w, "public key:  %x\n", r.PublicKey)
		dumpValidity(w, r.Validity)
		extensions = r.Extensions
	case *keyconfig.V3:
		coverName = r.CoverName
		fmt.Fprintf(w, "cover name:  %s\n", r.CoverName)
		fmt.Fprintf(w, "public key:  %x\n", r.PublicKey)
		fmt.Fprintf(w, "KEM:         0x%04x\n", keyconfig.KEMX25519HKDFSHA256)
		extensions = r.Extensions
	}

	for _, e := range extensions {
		if extension.AddressSetType != e.Type {
			fmt.Fprintf(w, "extension:   0x%04x  %x\n", e.Type, e.Payload)
			continue
		}
		addresses, err := e.Addresses()
		if nil != err {
			return err
		}
		fmt.Fprintf(w, "address set:")
		for _, a := range addresses {
			fmt.Fprintf(w, " %s", a)
		}
		fmt.Fprintf(w, "\n")
	}

	if "" != coverName {
		fmt.Fprintf(w, "\n")
		return zonefile.Write(w, data, zonefile.TypeESNI, coverName)
	}
	return nil
}

func dumpValidity(w io.Writer, v keyconfig.Validity) {
	fmt.Fprintf(w, "not before:  %s\n", v.NotBefore.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "not after:   %s\n", v.NotAfter.UTC().Format(time.RFC3339))
}
