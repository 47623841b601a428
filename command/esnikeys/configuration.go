// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/esnikeys/configuration"
	"github.com/bitmark-inc/esnikeys/fault"
	"github.com/bitmark-inc/esnikeys/keyconfig"
	"github.com/bitmark-inc/esnikeys/util"
)

// basic defaults (files are relative to the "DataDirectory")
const (
	defaultDataDirectory = "."
	defaultVersion       = "0xff01"

	defaultPublicFile   = "esnikeys.pub"
	defaultPrivateFile  = "esnikeys.priv"
	defaultZoneFile     = "zonedata.fragment"
	defaultCombinedFile = "echoconfig.pem"

	defaultLogDirectory = "log"
	defaultLogFile      = "esnikeys.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultTimeout = 5 // seconds per DNS query
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// OutputType - where the generated artifacts go, blank means the
// version specific default
type OutputType struct {
	PublicFile   string `gluamapper:"public_file" json:"public_file"`
	PrivateFile  string `gluamapper:"private_file" json:"private_file"`
	ZoneFile     string `gluamapper:"zone_file" json:"zone_file"`
	CombinedFile string `gluamapper:"combined_file" json:"combined_file"`
}

// AddressType - source of the AddressSet extension
type AddressType struct {
	Include     bool     `gluamapper:"include" json:"include"`
	File        string   `gluamapper:"file" json:"file"`
	NameServers []string `gluamapper:"name_servers" json:"name_servers"`
	Timeout     int      `gluamapper:"timeout" json:"timeout"`
}

// Configuration - everything the generate command needs
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	Version       string               `gluamapper:"version" json:"version"`
	CoverName     string               `gluamapper:"cover_name" json:"cover_name"`
	Duration      string               `gluamapper:"duration" json:"duration"`
	Addresses     AddressType          `gluamapper:"addresses" json:"addresses"`
	Output        OutputType           `gluamapper:"output" json:"output"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

func defaultConfiguration() *Configuration {
	return &Configuration{
		DataDirectory: defaultDataDirectory,
		Version:       defaultVersion,
		Duration:      strconv.Itoa(int(keyconfig.DefaultDuration / time.Second)),
		Addresses: AddressType{
			Timeout: defaultTimeout,
		},
		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}
}

// will read decode and verify the configuration
//
// a blank file name gives the defaults with the current directory as
// data directory; command line options override either
func getConfiguration(configurationFileName string, options map[string][]string) (*Configuration, error) {
	config := defaultConfiguration()

	// "." means same directory as the configuration file
	baseDirectory, err := os.Getwd()
	if nil != err {
		return nil, err
	}

	if "" != configurationFileName {
		configurationFileName, err = filepath.Abs(filepath.Clean(configurationFileName))
		if nil != err {
			return nil, err
		}
		baseDirectory, _ = filepath.Split(configurationFileName)

		if err := configuration.ParseConfigurationFile(configurationFileName, config); err != nil {
			return nil, err
		}
	}

	applyOptions(config, options)

	// ensure absolute data directory
	if "" == config.DataDirectory || "~" == config.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", config.DataDirectory)
	} else if "." == config.DataDirectory {
		config.DataDirectory = baseDirectory
	}
	config.DataDirectory = filepath.Clean(config.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(config.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", config.DataDirectory)
	}

	if _, err := keyconfig.ParseVersion(config.Version); nil != err {
		return nil, err
	}
	if _, err := parseDuration(config.Duration); nil != err {
		return nil, err
	}
	if config.Addresses.Timeout <= 0 {
		config.Addresses.Timeout = defaultTimeout
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&config.Addresses.File,
		&config.Output.PublicFile,
		&config.Output.PrivateFile,
		&config.Output.ZoneFile,
		&config.Output.CombinedFile,
	}
	for _, f := range optionalAbsolute {
		*f = util.EnsureAbsolute(config.DataDirectory, *f)
	}

	// the log file must be a plain name inside the log directory
	switch filepath.Dir(config.Logging.File) {
	case "", ".":
	default:
		return nil, fmt.Errorf("Files: %q is not plain name", config.Logging.File)
	}
	config.Logging.Directory = util.EnsureAbsolute(config.DataDirectory, config.Logging.Directory)

	return config, nil
}

// command line options take precedence over the configuration file
func applyOptions(config *Configuration, options map[string][]string) {
	last := func(name string) (string, bool) {
		if n := len(options[name]); n > 0 {
			return options[name][n-1], true
		}
		return "", false
	}

	if s, ok := last("data-directory"); ok {
		config.DataDirectory = s
	}
	if s, ok := last("record-version"); ok {
		config.Version = s
	}
	if s, ok := last("cover-name"); ok {
		config.CoverName = s
	}
	if s, ok := last("duration"); ok {
		config.Duration = s
	}
	if s, ok := last("addresses"); ok {
		config.Addresses.Include = true
		if "" != s {
			config.Addresses.File = s
		}
	}
	if servers := options["name-server"]; len(servers) > 0 {
		config.Addresses.NameServers = append([]string{}, servers...)
	}
	if s, ok := last("public-file"); ok {
		config.Output.PublicFile = s
	}
	if s, ok := last("private-file"); ok {
		config.Output.PrivateFile = s
	}
	if s, ok := last("zone-file"); ok {
		config.Output.ZoneFile = s
	}
	if s, ok := last("combined-file"); ok {
		config.Output.CombinedFile = s
	}
	if len(options["verbose"]) > 0 {
		config.Logging.Console = true
		levels := LoglevelMap{}
		for k, v := range config.Logging.Levels {
			levels[k] = v
		}
		levels[logger.DefaultTag] = "info"
		config.Logging.Levels = levels
	}
}

// plain digits are seconds, anything else uses Go duration syntax
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); nil == err {
		if n <= 0 {
			return 0, fmt.Errorf("duration: %q  %w", s, fault.ErrInvalidDuration)
		}
		if n >= int64(keyconfig.MaximumDuration/time.Second) {
			return 0, fmt.Errorf("duration: %q  %w", s, fault.ErrDurationTooLong)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if nil != err {
		return 0, fmt.Errorf("duration: %q  %w", s, fault.ErrInvalidDuration)
	}
	return d, nil
}
