// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package extension

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/bitmark-inc/esnikeys/fault"
)

// address family tags
const (
	FamilyIPv4 byte = 0x04
	FamilyIPv6 byte = 0x06
)

// NewAddressSet - encode addresses as an AddressSet extension
//
// each entry is a family tag followed by 4 or 16 address bytes; the
// family is decided by the presence of ':' in the text, not by how
// the address was obtained
func NewAddressSet(addresses []string) (Extension, error) {
	payload := make([]byte, 0, 17*len(addresses))
	for _, a := range addresses {
		if strings.ContainsRune(a, ':') {
			ip, err := netip.ParseAddr(a)
			if nil != err || !ip.Is6() || "" != ip.Zone() {
				return Extension{}, fmt.Errorf("IPv6: %q  %w", a, fault.ErrAddressConversionFailed)
			}
			b := ip.As16()
			payload = append(payload, FamilyIPv6)
			payload = append(payload, b[:]...)
		} else {
			ip, err := netip.ParseAddr(a)
			if nil != err || !ip.Is4() {
				return Extension{}, fmt.Errorf("IPv4: %q  %w", a, fault.ErrAddressConversionFailed)
			}
			b := ip.As4()
			payload = append(payload, FamilyIPv4)
			payload = append(payload, b[:]...)
		}
	}

	return Extension{
		Type:    AddressSetType,
		Payload: payload,
	}, nil
}

// EncodeAddressSet - encode addresses as a complete extensions list
// holding a single AddressSet
func EncodeAddressSet(addresses []string) ([]byte, error) {
	e, err := NewAddressSet(addresses)
	if nil != err {
		return nil, err
	}
	return Encode([]Extension{e})
}

// Addresses - decode the payload of an AddressSet extension
func (e Extension) Addresses() ([]netip.Addr, error) {
	if AddressSetType != e.Type {
		return nil, fmt.Errorf("type: 0x%04x  %w", e.Type, fault.ErrExtensionEncodingUnsupported)
	}

	result := []netip.Addr{}
	p := e.Payload
	for len(p) > 0 {
		switch p[0] {
		case FamilyIPv4:
			if len(p) < 5 {
				return nil, fault.ErrTruncatedRecord
			}
			result = append(result, netip.AddrFrom4([4]byte(p[1:5])))
			p = p[5:]
		case FamilyIPv6:
			if len(p) < 17 {
				return nil, fault.ErrTruncatedRecord
			}
			result = append(result, netip.AddrFrom16([16]byte(p[1:17])))
			p = p[17:]
		default:
			return nil, fmt.Errorf("family: 0x%02x  %w", p[0], fault.ErrUnexpectedFieldValue)
		}
	}
	return result, nil
}
