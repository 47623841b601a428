// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keyconfig - build the versioned key configuration record
// that a TLS server publishes in DNS for encrypted SNI
//
// Three layouts are supported, each with its own Go type so that a
// field can only be serialised by a version that has it:
//
//   field                        V1 ff01   V2 ff02   V3 ff03
//   version             2        yes       yes       yes
//   checksum            4        computed  computed  -
//   cover name          2+n      -         yes       if not empty
//   key share           2+2+2+32 yes       yes       yes
//   KEM id              2        -         -         0x0020
//   cipher suites       2+2      1301      1301      1301
//   padded length       2        260       260       260
//   not before          8        yes       yes       -
//   not after           8        yes       yes       -
//   extensions          2+n      empty     yes       yes
//
// All integers are big endian and every length prefix counts only the
// bytes that follow it.  The checksum is the first four bytes of the
// SHA-256 of the whole record with the checksum field zeroed.
package keyconfig
