// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type UnsupportedError GenericError

// common errors - keep in alphabetic order
var (
	ErrAddressCapacityExceeded      = LengthError("too many addresses")
	ErrAddressConversionFailed      = InvalidError("cannot convert string to IP address")
	ErrAddressSetNotSupported       = UnsupportedError("address set is not supported by this version")
	ErrAlreadyInitialised           = InvalidError("already initialised")
	ErrBufferCapacityExceeded       = LengthError("record exceeds buffer capacity")
	ErrChecksumComputationFailed    = ProcessError("checksum computation failed")
	ErrChecksumMismatch             = InvalidError("checksum mismatch")
	ErrConfigurationNotTable        = InvalidError("configuration file must return a table")
	ErrCoverNameNotSupported        = UnsupportedError("cover name is not supported by this version")
	ErrCoverNameRequired            = InvalidError("cover name is required")
	ErrCoverNameTooLong             = LengthError("cover name too long")
	ErrCryptoProviderFailure        = ProcessError("crypto provider failure")
	ErrDuplicateAddress             = ExistsError("duplicate address ignored")
	ErrDurationTooLong              = InvalidError("duration too long")
	ErrDurationTooShort             = InvalidError("duration too short")
	ErrExtensionEncodingUnsupported = UnsupportedError("extension encoding is not supported")
	ErrInvalidDuration              = InvalidError("invalid duration")
	ErrInvalidLoggerChannel         = InvalidError("invalid logger channel")
	ErrInvalidPrivateKeyFile        = InvalidError("invalid private key file")
	ErrInvalidPublicKeyLength       = LengthError("invalid public key length")
	ErrInvalidVersion               = InvalidError("invalid version")
	ErrKeyFileAlreadyExists         = ExistsError("key file already exists")
	ErrMissingArmour                = NotFoundError("missing ECHOCONFIG armour")
	ErrNoAddressesFound             = NotFoundError("no addresses found")
	ErrNoNameServers                = NotFoundError("no name servers")
	ErrTruncatedRecord              = LengthError("truncated record")
	ErrTrailingData                 = LengthError("trailing data after record")
	ErrUnexpectedFieldValue         = InvalidError("unexpected field value")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string      { return string(e) }
func (e InvalidError) Error() string     { return string(e) }
func (e LengthError) Error() string      { return string(e) }
func (e NotFoundError) Error() string    { return string(e) }
func (e ProcessError) Error() string     { return string(e) }
func (e UnsupportedError) Error() string { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrExists(e error) bool      { var t ExistsError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool     { var t InvalidError; return errors.As(e, &t) }
func IsErrLength(e error) bool      { var t LengthError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool    { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool     { var t ProcessError; return errors.As(e, &t) }
func IsErrUnsupported(e error) bool { var t UnsupportedError; return errors.As(e, &t) }

// IsFatal - every error except a duplicate address aborts a build
func IsFatal(e error) bool {
	return nil != e && !errors.Is(e, ErrDuplicateAddress)
}
