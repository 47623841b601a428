// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keyconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bitmark-inc/esnikeys/fault"
)

// Version - the 16 bit tag at the start of every record
type Version uint16

// supported versions
const (
	V1Version Version = 0xff01 // ESNIKeys, draft-ietf-tls-esni-02
	V2Version Version = 0xff02 // ESNIKeys, draft-ietf-tls-esni-03
	V3Version Version = 0xff03 // ECHOConfig, draft-ietf-tls-esni-04
)

// String - hexadecimal form as used on the command line
func (v Version) String() string {
	return fmt.Sprintf("0x%04x", uint16(v))
}

// IsValid - true for the versions this package can build
func (v Version) IsValid() bool {
	switch v {
	case V1Version, V2Version, V3Version:
		return true
	default:
		return false
	}
}

// HasChecksum - only the ESNIKeys versions carry a checksum
func (v Version) HasChecksum() bool {
	return V1Version == v || V2Version == v
}

// ParseVersion - convert "0xff01", "65281" or "ff01" to a version
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseUint(s, 0, 16)
	if nil != err {
		n, err = strconv.ParseUint(s, 16, 16)
	}
	if nil != err || 0 == n || 0xffff == n {
		return 0, fmt.Errorf("version: %q  %w", s, fault.ErrInvalidVersion)
	}
	v := Version(n)
	if !v.IsValid() {
		return 0, fmt.Errorf("version: %s  %w", v, fault.ErrInvalidVersion)
	}
	return v, nil
}
