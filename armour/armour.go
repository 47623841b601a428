// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package armour - text forms of a record for files that are not
// zone data
package armour

import (
	"bytes"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"io"

	"github.com/bitmark-inc/esnikeys/fault"
)

// BlockType - PEM style label around a base64 ECHOConfig
const BlockType = "ECHOCONFIG"

const (
	beginLine = "-----BEGIN " + BlockType + "-----\n"
	endLine   = "-----END " + BlockType + "-----\n"
)

// EncodeBase64 - standard alphabet with padding on a single line
func EncodeBase64(record []byte) string {
	return base64.StdEncoding.EncodeToString(record)
}

// DecodeBase64 - reverse of EncodeBase64, surrounding space ignored
func DecodeBase64(text string) ([]byte, error) {
	record, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace([]byte(text))))
	if nil != err {
		return nil, fmt.Errorf("base64: %s  %w", err, fault.ErrMissingArmour)
	}
	return record, nil
}

// Armour - the record between BEGIN/END lines, base64 not wrapped
func Armour(record []byte) string {
	return beginLine + EncodeBase64(record) + "\n" + endLine
}

// WriteCombined - private key PEM followed by the armoured record
func WriteCombined(w io.Writer, privateKeyPEM []byte, record []byte) error {
	if _, err := w.Write(privateKeyPEM); nil != err {
		return err
	}
	if 0 != len(privateKeyPEM) && '\n' != privateKeyPEM[len(privateKeyPEM)-1] {
		if _, err := io.WriteString(w, "\n"); nil != err {
			return err
		}
	}
	_, err := io.WriteString(w, Armour(record))
	return err
}

// DecodeCombined - split a combined file into the private key PEM and
// the binary record
//
// every PEM block other than the ECHOCONFIG one is returned as part of
// the private key text
func DecodeCombined(data []byte) ([]byte, []byte, error) {
	var (
		privateKeyPEM []byte
		record        []byte
		found         bool
	)

	rest := data
	for {
		block, remainder := pem.Decode(rest)
		if nil == block {
			break
		}
		if BlockType == block.Type {
			if found {
				return nil, nil, fmt.Errorf("second %s block  %w", BlockType, fault.ErrUnexpectedFieldValue)
			}
			record = block.Bytes
			found = true
		} else {
			privateKeyPEM = append(privateKeyPEM, pem.EncodeToMemory(block)...)
		}
		rest = remainder
	}

	if !found {
		return nil, nil, fault.ErrMissingArmour
	}
	return privateKeyPEM, record, nil
}
