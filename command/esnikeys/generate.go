// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/esnikeys/addresslist"
	"github.com/bitmark-inc/esnikeys/armour"
	"github.com/bitmark-inc/esnikeys/extension"
	"github.com/bitmark-inc/esnikeys/fault"
	"github.com/bitmark-inc/esnikeys/keyconfig"
	"github.com/bitmark-inc/esnikeys/keyfile"
	"github.com/bitmark-inc/esnikeys/provider"
	"github.com/bitmark-inc/esnikeys/resolver"
	"github.com/bitmark-inc/esnikeys/util"
	"github.com/bitmark-inc/esnikeys/zonefile"
)

// generator - one run of the generate command
type generator struct {
	log       *logger.L
	config    *Configuration
	provider  provider.Provider
	exchanger resolver.Exchanger // nil selects a real DNS client
	now       time.Time
	out       io.Writer // progress messages, may be io.Discard
}

// result of a run, the written file names in order
type generated struct {
	record keyconfig.Record
	packed keyconfig.Packed
	files  []string
}

func (g *generator) run(ctx context.Context) (*generated, error) {
	log := g.log
	config := g.config

	version, err := keyconfig.ParseVersion(config.Version)
	if nil != err {
		return nil, err
	}
	log.Infof("version: %s", version)

	// reject before any key file or DNS query
	coverName := keyconfig.CanonicalCoverName(config.CoverName)
	switch {
	case keyconfig.V1Version == version && "" != coverName:
		return nil, fault.ErrCoverNameNotSupported
	case keyconfig.V1Version == version && config.Addresses.Include:
		return nil, fault.ErrAddressSetNotSupported
	case keyconfig.V1Version != version:
		if err := keyconfig.CheckCoverName(coverName); nil != err {
			return nil, err
		}
	}

	var validity keyconfig.Validity
	if version.HasChecksum() {
		duration, err := parseDuration(config.Duration)
		if nil != err {
			return nil, err
		}
		validity, err = keyconfig.NewValidity(g.now, duration)
		if nil != err {
			return nil, err
		}
		log.Infof("valid from: %s  to: %s", validity.NotBefore.UTC(), validity.NotAfter.UTC())
	}

	var addresses *addresslist.List
	if config.Addresses.Include {
		addresses, err = g.addresses(ctx)
		if nil != err {
			return nil, err
		}
		if _, err := extension.NewAddressSet(addresses.Items()); nil != err {
			return nil, err
		}
	}

	key, err := g.key(version)
	if nil != err {
		return nil, err
	}

	parameters := keyconfig.Parameters{
		Version:   version,
		CoverName: config.CoverName,
		Addresses: addresses,
		PublicKey: key.PublicKey,
		Validity:  validity,
	}
	record, packed, err := keyconfig.Build(parameters, g.provider.NewHash)
	if nil != err {
		return nil, err
	}
	log.Infof("record: %d bytes", len(packed))
	log.Debugf("record: %x", packed)

	result := &generated{
		record: record,
		packed: packed,
	}
	if key.Created {
		result.files = append(result.files, config.Output.PrivateFile)
	}

	err = g.write(version, key, result)
	if nil != err {
		return nil, err
	}
	return result, nil
}

// fill an address list from a file or from DNS
func (g *generator) addresses(ctx context.Context) (*addresslist.List, error) {
	log := g.log
	config := g.config
	list := addresslist.New(0)

	if "" != config.Addresses.File {
		duplicates, err := addresslist.ReadFile(list, config.Addresses.File)
		if nil != err {
			return nil, err
		}
		log.Infof("address file: %q  addresses: %d  duplicates: %d", config.Addresses.File, list.Len(), duplicates)
		return list, nil
	}

	timeout := time.Duration(config.Addresses.Timeout) * time.Second
	var (
		r   *resolver.Resolver
		err error
	)
	if 0 == len(config.Addresses.NameServers) {
		r, err = resolver.NewFromFile(log, resolver.ResolvConf, g.exchanger, timeout)
	} else {
		r, err = resolver.New(log, config.Addresses.NameServers, g.exchanger, timeout)
	}
	if nil != err {
		return nil, err
	}

	duplicates, err := r.Lookup(ctx, config.CoverName, list)
	if nil != err {
		return nil, err
	}
	log.Infof("cover name: %q  addresses: %d  duplicates: %d", config.CoverName, list.Len(), duplicates)
	return list, nil
}

// ESNIKeys always keep the private key in a file; ECHOConfig only does
// when a separate private key file is requested
func (g *generator) key(version keyconfig.Version) (*keyfile.Key, error) {
	output := &g.config.Output

	switch version {
	case keyconfig.V1Version, keyconfig.V2Version:
		if "" == output.PrivateFile {
			output.PrivateFile = util.EnsureAbsolute(g.config.DataDirectory, defaultPrivateFile)
		}
		return keyfile.LoadOrCreate(g.log, output.PrivateFile, g.provider)
	}

	if "" != output.PrivateFile {
		return keyfile.LoadOrCreate(g.log, output.PrivateFile, g.provider)
	}

	keyPair, err := g.provider.GenerateKey()
	if nil != err {
		return nil, err
	}
	data, err := keyfile.Encode(keyPair.PrivateKey)
	if nil != err {
		return nil, err
	}
	return &keyfile.Key{
		KeyPair: *keyPair,
		PEM:     data,
	}, nil
}

func (g *generator) write(version keyconfig.Version, key *keyfile.Key, result *generated) error {
	config := g.config
	output := &config.Output
	coverName := keyconfig.CanonicalCoverName(config.CoverName)

	save := func(fileName string, data []byte, perm os.FileMode, description string) error {
		if err := util.WriteFile(fileName, data, perm); nil != err {
			g.log.Errorf("write %s: %q  error: %s", description, fileName, err)
			return err
		}
		g.log.Infof("wrote %s: %q", description, fileName)
		fmt.Fprintf(g.out, "wrote %s: %q\n", description, fileName)
		result.files = append(result.files, fileName)
		return nil
	}

	zone := func(fileName string) error {
		var buffer bytes.Buffer
		err := zonefile.Write(&buffer, result.packed, zonefile.TypeESNI, coverName)
		fault.PanicIfError("zone fragment to memory", err)
		return save(fileName, buffer.Bytes(), 0o644, "zone fragment")
	}

	switch version {
	case keyconfig.V1Version, keyconfig.V2Version:
		if "" == output.PublicFile {
			output.PublicFile = util.EnsureAbsolute(config.DataDirectory, defaultPublicFile)
		}
		if err := save(output.PublicFile, result.packed, 0o644, "public record"); nil != err {
			return err
		}
		if keyconfig.V2Version == version {
			if "" == output.ZoneFile {
				output.ZoneFile = util.EnsureAbsolute(config.DataDirectory, defaultZoneFile)
			}
			return zone(output.ZoneFile)
		}
		return nil
	}

	if "" != output.ZoneFile {
		if err := zone(output.ZoneFile); nil != err {
			return err
		}
	}

	if "" != output.PublicFile {
		text := armour.EncodeBase64(result.packed) + "\n"
		if err := save(output.PublicFile, []byte(text), 0o644, "ECHOConfig"); nil != err {
			return err
		}
	}

	switch {
	case "" == output.PublicFile && "" == output.PrivateFile:
		if "" == output.CombinedFile {
			output.CombinedFile = util.EnsureAbsolute(config.DataDirectory, defaultCombinedFile)
		}
		var buffer bytes.Buffer
		err := armour.WriteCombined(&buffer, key.PEM, result.packed)
		fault.PanicIfError("combined file to memory", err)
		return save(output.CombinedFile, buffer.Bytes(), 0o600, "key pair")

	case "" == output.PrivateFile:
		g.log.Warn("private key was not written to any file")
		fmt.Fprintf(g.out, "warning: private key was not written to any file\n")

	case "" == output.PublicFile:
		g.log.Warn("ECHOConfig was not written to any file")
		fmt.Fprintf(g.out, "warning: ECHOConfig was not written to any file\n")
	}
	return nil
}
