// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"
)

// hold a logger channel for fatal build errors
var log *logger.L

// Initialise - setup a log channel for the last message before exit
func Initialise() error {
	if nil != log {
		return ErrAlreadyInitialised
	}
	log = logger.New("fatal")
	if nil == log {
		return ErrInvalidLoggerChannel
	}
	return nil
}

// Finalise - flush any data and release the channel
func Finalise() {
	if nil != log {
		log.Flush()
		log = nil
	}
}

// Criticalf - log a formatted string with arguments like fmt.Sprintf()
//
// falls back to stderr if the channel was never initialised
func Criticalf(format string, arguments ...interface{}) {
	if nil == log {
		fmt.Fprintf(os.Stderr, "*** "+format+"\n", arguments...)
		return
	}
	log.Criticalf(format, arguments...)
	log.Flush()
}

// PanicIfError - abort with a critical message if err is not nil
func PanicIfError(message string, err error) {
	if nil == err {
		return
	}
	Criticalf("%s failed with error: %s", message, err)
	panic(fmt.Sprintf("%s failed with error: %s", message, err))
}
