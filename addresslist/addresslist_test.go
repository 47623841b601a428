// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addresslist_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/esnikeys/addresslist"
	"github.com/bitmark-inc/esnikeys/fault"
)

func TestAddDuplicate(t *testing.T) {
	l := addresslist.New(addresslist.MaximumAddresses)

	assert.Equal(t, addresslist.Added, l.Add("203.0.113.5"), "first insert")
	assert.Equal(t, addresslist.AlreadyPresent, l.Add("203.0.113.5"), "second insert")
	assert.Equal(t, 1, l.Len(), "stored entries")
	assert.Equal(t, fault.ErrDuplicateAddress, addresslist.AlreadyPresent.Err(), "duplicate error")
	assert.False(t, fault.IsFatal(addresslist.AlreadyPresent.Err()), "duplicate must not be fatal")
}

func TestAddIsByteExact(t *testing.T) {
	l := addresslist.New(0)

	items := []string{
		"10.0.0.12",
		"10.0.0.1", // prefix of previous
		"2001:db8::1",
		"2001:DB8::1", // same address, different text
	}
	for i, a := range items {
		if outcome := l.Add(a); addresslist.Added != outcome {
			t.Errorf("%d: add: %q  outcome: %s", i, a, outcome)
		}
	}
	assert.Equal(t, items, l.Items(), "insertion order")
}

func TestCapacity(t *testing.T) {
	l := addresslist.New(addresslist.MaximumAddresses)
	for i := 0; i < addresslist.MaximumAddresses; i += 1 {
		a := fmt.Sprintf("192.0.2.%d", i)
		if outcome := l.Add(a); addresslist.Added != outcome {
			t.Fatalf("%d: add: %q  outcome: %s", i, a, outcome)
		}
	}

	outcome := l.Add("192.0.2.200")
	assert.Equal(t, addresslist.CapacityExceeded, outcome, "17th address")
	assert.True(t, errors.Is(outcome.Err(), fault.ErrAddressCapacityExceeded), "capacity error")
	assert.True(t, fault.IsFatal(outcome.Err()), "capacity must be fatal")
	assert.Equal(t, addresslist.MaximumAddresses, l.Len(), "list length")

	// duplicate in a full list is still only a duplicate
	assert.Equal(t, addresslist.AlreadyPresent, l.Add("192.0.2.0"), "duplicate when full")
}

func TestItemsIsCopy(t *testing.T) {
	l := addresslist.New(2)
	l.Add("192.0.2.1")
	items := l.Items()
	items[0] = "changed"
	assert.Equal(t, []string{"192.0.2.1"}, l.Items(), "list modified through copy")
}

func TestReadFrom(t *testing.T) {
	input := `# addresses for www.example.com
203.0.113.5

  2001:db8::5  
203.0.113.5
# end
`
	l := addresslist.New(addresslist.MaximumAddresses)
	duplicates, err := addresslist.ReadFrom(l, strings.NewReader(input))
	assert.Nil(t, err, "read")
	assert.Equal(t, 1, duplicates, "duplicates")
	assert.Equal(t, []string{"203.0.113.5", "2001:db8::5"}, l.Items(), "addresses")
}

func TestReadFromTooMany(t *testing.T) {
	var input strings.Builder
	for i := 0; i < 20; i += 1 {
		fmt.Fprintf(&input, "198.51.100.%d\n", i)
	}
	l := addresslist.New(addresslist.MaximumAddresses)
	_, err := addresslist.ReadFrom(l, strings.NewReader(input.String()))
	assert.True(t, errors.Is(err, fault.ErrAddressCapacityExceeded), "expected capacity error, got: %v", err)
	assert.Contains(t, err.Error(), "line: 17", "failing line")
	assert.Contains(t, err.Error(), "capacity: 16", "capacity in message")
	assert.Equal(t, addresslist.MaximumAddresses, l.Capacity(), "capacity")
	assert.Equal(t, addresslist.MaximumAddresses, l.Len(), "length")
}

func TestReadFileEmpty(t *testing.T) {
	name := filepath.Join(t.TempDir(), "addresses")
	err := os.WriteFile(name, []byte("# nothing\n\n"), 0600)
	assert.Nil(t, err, "write")

	l := addresslist.New(0)
	_, err = addresslist.ReadFile(l, name)
	assert.Equal(t, fault.ErrNoAddressesFound, err, "empty file")

	_, err = addresslist.ReadFile(l, filepath.Join(t.TempDir(), "absent"))
	assert.True(t, os.IsNotExist(err), "missing file")
}
