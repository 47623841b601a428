// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"strings"
)

// FormatBytes - for dumping the expected hex used by some test
// routines, 8 bytes per line so that offsets are easy to count
func FormatBytes(name string, data []byte) string {
	if 0 == len(data) {
		return name + " := []byte{}"
	}
	a := strings.Split(fmt.Sprintf("% #x", data), " ")
	var s strings.Builder
	s.WriteString(name + " := []byte{")
	for i := 0; i < len(a); i += 1 {
		if 0 == i%8 {
			s.WriteString("\n\t")
		} else {
			s.WriteString(" ")
		}
		s.WriteString(a[i] + ",")
	}
	s.WriteString("\n}")
	return s.String()
}
