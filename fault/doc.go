// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of each record building error so that
// callers can compare with errors.Is instead of partial string
// matches.  Errors are grouped into classes (invalid, length,
// unsupported, …) that can be tested with the IsErrX functions.
//
// Only ErrDuplicateAddress is recoverable, all other errors abort
// the construction of a record.
package fault
