// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/esnikeys/provider"
)

// setup command handler
//
// commands that do not need the configuration file or logging,
// returns false if the command is "generate"
func processSetupCommand(w io.Writer, program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "generate", "gen", "g":
		return false // continue processing

	case "dump", "d":
		if 1 != len(arguments) {
			exitwithstatus.Message("%s: dump requires exactly one file name", program)
		}
		err := dump(w, arguments[0], provider.New().NewHash)
		if nil != err {
			exitwithstatus.Message("%s: dump: %q  error: %s", program, arguments[0], err)
		}

	case "version", "v":
		fmt.Fprintf(w, "%s\n", version)

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Fprintf(w, "error: missing command\n")
		default:
			fmt.Fprintf(w, "error: no such command: %q\n", command)
		}

		usage(w, program)
	}

	// indicate processing complete and make normal exit from main
	return true
}

func usage(w io.Writer, program string) {
	fmt.Fprintf(w, "usage: %s [--help] [--verbose] [--quiet] [--config-file=FILE] [options] [command]\n", program)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "options:\n")
	fmt.Fprintf(w, "  -c, --config-file=FILE      Lua configuration file\n")
	fmt.Fprintf(w, "  -D, --data-directory=DIR    base for relative file names (default: configuration file directory)\n")
	fmt.Fprintf(w, "  -V, --record-version=N      0xff01 (default), 0xff02 or 0xff03\n")
	fmt.Fprintf(w, "  -P, --cover-name=NAME       public/cover name (required for 0xff02 and 0xff03)\n")
	fmt.Fprintf(w, "  -d, --duration=SECONDS      validity from now, also accepts 24h style (default: 1 week)\n")
	fmt.Fprintf(w, "  -A, --addresses[=FILE]      include an AddressSet: one address per line in FILE\n")
	fmt.Fprintf(w, "                              or the A and AAAA records of the cover name\n")
	fmt.Fprintf(w, "  -n, --name-server=HOST      name server for address lookup (repeatable, at most 3 used)\n")
	fmt.Fprintf(w, "  -o, --public-file=FILE      binary record (default: %s), base64 for 0xff03\n", defaultPublicFile)
	fmt.Fprintf(w, "  -p, --private-file=FILE     PEM private key (default: %s), reused if present\n", defaultPrivateFile)
	fmt.Fprintf(w, "  -z, --zone-file=FILE        zone fragment (default: %s for 0xff02)\n", defaultZoneFile)
	fmt.Fprintf(w, "  -e, --combined-file=FILE    0xff03 private key and ECHOConfig (default: %s)\n", defaultCombinedFile)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "commands:\n")
	fmt.Fprintf(w, "  help                 - display this message\n")
	fmt.Fprintf(w, "  version              - display the program version\n")
	fmt.Fprintf(w, "  generate             - create the record and output files (default)\n")
	fmt.Fprintf(w, "  dump FILE            - decode a binary, base64 or combined record file\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "-P, -A and -z are not supported by version 0xff01\n")
}
