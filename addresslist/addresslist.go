// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addresslist

import (
	"github.com/bitmark-inc/esnikeys/fault"
)

// MaximumAddresses - number of entries an AddressSet may carry
const MaximumAddresses = 16

// Outcome - result of adding an address to a list
type Outcome int

// possible outcomes
const (
	Added Outcome = iota
	AlreadyPresent
	CapacityExceeded
)

// String - printable outcome
func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case AlreadyPresent:
		return "already present"
	case CapacityExceeded:
		return "capacity exceeded"
	default:
		return "unknown"
	}
}

// Err - map an outcome to its fault instance, nil for Added
func (o Outcome) Err() error {
	switch o {
	case Added:
		return nil
	case AlreadyPresent:
		return fault.ErrDuplicateAddress
	default:
		return fault.ErrAddressCapacityExceeded
	}
}

// List - ordered, fixed capacity set of address strings
//
// addresses are compared as raw text, so "::1" and "0::1" are
// distinct entries
type List struct {
	capacity int
	items    []string
	index    map[string]struct{}
}

// New - create a list that holds up to 'n' addresses
func New(n int) *List {
	if n <= 0 {
		n = MaximumAddresses
	}
	return &List{
		capacity: n,
		items:    make([]string, 0, n),
		index:    make(map[string]struct{}, n),
	}
}

// Add - append an address if it is not already in the list
//
// a duplicate is reported before capacity so that repeating an
// address in a full list is never fatal
func (l *List) Add(address string) Outcome {
	if _, ok := l.index[address]; ok {
		return AlreadyPresent
	}
	if len(l.items) >= l.capacity {
		return CapacityExceeded
	}
	l.items = append(l.items, address)
	l.index[address] = struct{}{}
	return Added
}

// Len - number of stored addresses
func (l *List) Len() int {
	return len(l.items)
}

// Capacity - maximum number of addresses
func (l *List) Capacity() int {
	return l.capacity
}

// Items - copy of the addresses in insertion order
func (l *List) Items() []string {
	result := make([]string, len(l.items))
	copy(result, l.items)
	return result
}
