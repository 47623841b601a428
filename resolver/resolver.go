// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:generate mockgen -source=resolver.go -destination=mocks/exchanger.go -package=mocks

// Package resolver - find the A and AAAA addresses of a cover name
// to seed the AddressSet extension
package resolver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/miekg/dns"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/esnikeys/addresslist"
	"github.com/bitmark-inc/esnikeys/fault"
)

// defaults
const (
	ResolvConf     = "/etc/resolv.conf"
	MaximumServers = 3
	DefaultTimeout = 5 * time.Second
	defaultPort    = "53"
	queriesPerSec  = 10
)

// Exchanger - send one query and wait for its response
//
// satisfied by *dns.Client
type Exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error)
}

// Resolver - sequential queries against a short list of name servers
type Resolver struct {
	log       *logger.L
	servers   []string
	exchanger Exchanger
	limiter   *rate.Limiter
	timeout   time.Duration
}

// New - resolver for the given servers, a server without a port uses 53
//
// only the first three servers are ever queried
func New(log *logger.L, servers []string, exchanger Exchanger, timeout time.Duration) (*Resolver, error) {
	if 0 == len(servers) {
		return nil, fault.ErrNoNameServers
	}
	if len(servers) > MaximumServers {
		servers = servers[:MaximumServers]
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if nil == exchanger {
		exchanger = &dns.Client{}
	}

	s := make([]string, 0, len(servers))
	for _, server := range servers {
		if _, _, err := net.SplitHostPort(server); nil != err {
			server = net.JoinHostPort(server, defaultPort)
		}
		s = append(s, server)
	}

	return &Resolver{
		log:       log,
		servers:   s,
		exchanger: exchanger,
		limiter:   rate.NewLimiter(queriesPerSec, MaximumServers),
		timeout:   timeout,
	}, nil
}

// NewFromFile - resolver using the name servers of a resolv.conf file
func NewFromFile(log *logger.L, fileName string, exchanger Exchanger, timeout time.Duration) (*Resolver, error) {
	conf, err := dns.ClientConfigFromFile(fileName)
	if nil != err {
		log.Warnf("reading %s error: %s", fileName, err)
		return nil, err
	}

	if 0 == len(conf.Servers) {
		log.Warnf("no name servers in: %s", fileName)
		return nil, fault.ErrNoNameServers
	}

	servers := make([]string, 0, len(conf.Servers))
	for _, server := range conf.Servers {
		servers = append(servers, net.JoinHostPort(server, conf.Port))
	}
	return New(log, servers, exchanger, timeout)
}

// Servers - host:port of each server that will be queried
func (r *Resolver) Servers() []string {
	return append([]string{}, r.servers...)
}

// Lookup - add the IPv4 then IPv6 addresses of name to the list
//
// returns the number of duplicates skipped, a full list is an error
func (r *Resolver) Lookup(ctx context.Context, name string, list *addresslist.List) (int, error) {
	duplicates := 0
	found := 0

	for _, qType := range []uint16{dns.TypeA, dns.TypeAAAA} {
		addresses, err := r.query(ctx, name, qType)
		if nil != err {
			return duplicates, err
		}

		for _, address := range addresses {
			found += 1
			switch outcome := list.Add(address); outcome {
			case addresslist.Added:
				r.log.Infof("%s %s: %s", name, dns.TypeToString[qType], address)
			case addresslist.AlreadyPresent:
				duplicates += 1
				r.log.Debugf("%s %s: %s  %s", name, dns.TypeToString[qType], address, outcome)
			default:
				return duplicates, fmt.Errorf("address: %s  %w", address, outcome.Err())
			}
		}
	}

	if 0 == found {
		return duplicates, fmt.Errorf("name: %q  %w", name, fault.ErrNoAddressesFound)
	}
	return duplicates, nil
}

// ask each server in turn until one gives an authoritative answer
// (which may be empty)
func (r *Resolver) query(ctx context.Context, name string, qType uint16) ([]string, error) {
	msg := &dns.Msg{}
	msg.SetQuestion(dns.Fqdn(name), qType)

	var lastErr error = fault.ErrNoNameServers

loop:
	for _, server := range r.servers {
		if err := r.limiter.Wait(ctx); nil != err {
			return nil, err
		}

		queryCtx, cancel := context.WithTimeout(ctx, r.timeout)
		response, _, err := r.exchanger.ExchangeContext(queryCtx, msg, server)
		cancel()

		if nil != err {
			r.log.Debugf("exchange with dns server %q error: %s", server, err)
			lastErr = err
			if nil != ctx.Err() {
				return nil, ctx.Err()
			}
			continue loop
		}

		switch response.Rcode {
		case dns.RcodeSuccess:
		case dns.RcodeNameError:
			r.log.Debugf("dns server %q: %s does not exist", server, name)
			return nil, nil
		default:
			r.log.Debugf("dns server %q rcode: %s", server, dns.RcodeToString[response.Rcode])
			lastErr = fmt.Errorf("dns server %q rcode: %s", server, dns.RcodeToString[response.Rcode])
			continue loop
		}

		addresses := []string{}
		for _, rr := range response.Answer {
			switch a := rr.(type) {
			case *dns.A:
				if dns.TypeA == qType {
					addresses = append(addresses, a.A.String())
				}
			case *dns.AAAA:
				if dns.TypeAAAA == qType {
					addresses = append(addresses, a.AAAA.String())
				}
			}
		}
		return addresses, nil
	}

	r.log.Warnf("no dns server answered for: %s", name)
	return nil, lastErr
}
