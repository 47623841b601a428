// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/esnikeys/fault"
	"github.com/bitmark-inc/esnikeys/provider"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "data-directory", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'D'},
		{Long: "record-version", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'V'},
		{Long: "cover-name", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'P'},
		{Long: "duration", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'd'},
		{Long: "addresses", HasArg: getoptions.OPTIONAL_ARGUMENT, Short: 'A'},
		{Long: "name-server", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'n'},
		{Long: "public-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'o'},
		{Long: "private-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'p'},
		{Long: "zone-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'z'},
		{Long: "combined-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'e'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["help"]) > 0 {
		processSetupCommand(os.Stdout, program, []string{"help"})
		return
	}

	// generate is the default command
	if 0 == len(arguments) {
		arguments = []string{"generate"}
	}
	if processSetupCommand(os.Stdout, program, arguments) {
		return
	}

	if len(options["config-file"]) > 1 {
		exitwithstatus.Message("%s: only one config-file option is allowed, %d were detected", program, len(options["config-file"]))
	}
	configurationFile := ""
	if 1 == len(options["config-file"]) {
		configurationFile = options["config-file"][0]
	}

	theConfiguration, err := getConfiguration(configurationFile, options)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// start logging
	if err := os.MkdirAll(theConfiguration.Logging.Directory, 0o700); nil != err {
		exitwithstatus.Message("%s: log directory: %q  error: %s", program, theConfiguration.Logging.Directory, err)
	}
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	if err := fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("configuration: %#v", theConfiguration)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-ch
		log.Infof("received signal: %v", sig)
		cancel()
	}()

	out := io.Writer(os.Stdout)
	if len(options["quiet"]) > 0 {
		out = io.Discard
	}

	g := &generator{
		log:      logger.New("generate"),
		config:   theConfiguration,
		provider: provider.New(),
		now:      time.Now(),
		out:      out,
	}
	if _, err := g.run(ctx); nil != err {
		fault.Criticalf("generate error: %s", err)
		exitwithstatus.Message("%s: generate error: %s", program, err)
	}
}
