// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zonefile - render a record as RFC 3597 generic resource
// record text suitable for pasting into a DNS zone
package zonefile

import (
	"fmt"
	"io"
	"strings"
)

// TypeESNI - private use RR type for ESNIKeys records
const TypeESNI uint16 = 65439

// records longer than this are folded into parenthesised rows
const bytesPerRow = 16

// Render - presentation text for a record
//
// the owner name is printed fully qualified and folded rows are
// indented by the length of the owner name
func Render(record []byte, typeCode uint16, ownerName string) string {
	owner := strings.TrimSuffix(ownerName, ".")

	var s strings.Builder
	fmt.Fprintf(&s, "%s. IN TYPE%d \\# %d", owner, typeCode, len(record))

	if 0 == len(record) {
		s.WriteString("\n")
		return s.String()
	}

	if len(record) <= bytesPerRow {
		fmt.Fprintf(&s, " %x\n", record)
		return s.String()
	}

	padding := strings.Repeat(" ", len(owner))
	s.WriteString(" (")
	for i, b := range record {
		if 0 == i%bytesPerRow {
			s.WriteString("\n")
			s.WriteString(padding)
		} else if 0 == i%2 {
			s.WriteString(" ")
		}
		fmt.Fprintf(&s, "%02x", b)
	}
	s.WriteString(" )\n")
	return s.String()
}

// Write - output the presentation text
func Write(w io.Writer, record []byte, typeCode uint16, ownerName string) error {
	_, err := io.WriteString(w, Render(record, typeCode, ownerName))
	return err
}
