// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addresslist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bitmark-inc/esnikeys/fault"
)

// ReadFile - add the addresses from a file, one per line
func ReadFile(list *List, fileName string) (int, error) {
	f, err := os.Open(fileName)
	if nil != err {
		return 0, err
	}
	defer f.Close()

	return ReadFrom(list, f)
}

// ReadFrom - add one address per line
//
// blank lines and lines starting with '#' are skipped; duplicates
// are silently dropped; returns the count of duplicates seen
func ReadFrom(list *List, r io.Reader) (int, error) {
	duplicates := 0
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n += 1
		line := strings.TrimSpace(scanner.Text())
		if "" == line || strings.HasPrefix(line, "#") {
			continue
		}
		switch outcome := list.Add(line); outcome {
		case Added:
		case AlreadyPresent:
			duplicates += 1
		default:
			return duplicates, fmt.Errorf("line: %d  address: %q  capacity: %d  %w", n, line, list.Capacity(), outcome.Err())
		}
	}
	if err := scanner.Err(); nil != err {
		return duplicates, err
	}
	if 0 == list.Len() {
		return duplicates, fault.ErrNoAddressesFound
	}
	return duplicates, nil
}
