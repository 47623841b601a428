// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keyconfig

import (
	"fmt"
	"math"
	"time"

	"github.com/bitmark-inc/esnikeys/fault"
)

// limits on the lifetime of a published key
const (
	DefaultDuration = 7 * 24 * time.Hour
	MinimumDuration = time.Hour
	MaximumDuration = 10 * 52 * DefaultDuration
)

// Validity - the window in which clients may use a V1/V2 record
type Validity struct {
	NotBefore time.Time
	NotAfter  time.Time
}

// NewValidity - window starting one second before now
func NewValidity(now time.Time, duration time.Duration) (Validity, error) {
	switch {
	case duration <= 0:
		return Validity{}, fmt.Errorf("duration: %s  %w", duration, fault.ErrInvalidDuration)
	case duration < MinimumDuration:
		return Validity{}, fmt.Errorf("duration: %s < %s  %w", duration, MinimumDuration, fault.ErrDurationTooShort)
	case duration >= MaximumDuration:
		return Validity{}, fmt.Errorf("duration: %s >= %s  %w", duration, MaximumDuration, fault.ErrDurationTooLong)
	}

	notBefore := now.Add(-time.Second).Truncate(time.Second)
	v := Validity{
		NotBefore: notBefore,
		NotAfter:  notBefore.Add(duration),
	}
	return v, v.check()
}

// both bounds are stored as 32 bit seconds
func (v Validity) check() error {
	nb := v.NotBefore.Unix()
	na := v.NotAfter.Unix()
	if nb < 0 || nb > math.MaxUint32 || na < 0 || na > math.MaxUint32 {
		return fmt.Errorf("validity: %d..%d  %w", nb, na, fault.ErrInvalidDuration)
	}
	if na <= nb {
		return fmt.Errorf("validity: %d..%d  %w", nb, na, fault.ErrInvalidDuration)
	}
	return nil
}
