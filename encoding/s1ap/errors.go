// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package s1ap

import (
	"fmt"
)

// UnsupportedIEError reports a protocol IE id with no registered handler.
type UnsupportedIEError struct {
	ID ProtocolIEID
}

func (e *UnsupportedIEError) Error() string {
	return fmt.Sprintf("unsupported protocol IE id=%d", e.ID)
}

// Policy selects what the decoder does with something it cannot
// interpret.
type Policy int

const (
	PolicyDefault Policy = iota
	PolicyAbort
	PolicySkip
)

func (p Policy) String() string {
	switch p {
	case PolicyAbort:
		return "abort"
	case PolicySkip:
		return "skip"
	}
	return "default"
}

// Options tunes the decoder.
//
// UnsupportedIE applies to protocol IE ids without a handler. Skipping
// keeps such an IE as a *RawValue. Extensions applies to the extension
// additions of SEQUENCE types and to extension alternatives of the PDU.
// Skipping discards them. Structural and range errors always abort.
type Options struct {
	UnsupportedIE Policy
	Extensions    Policy
}

func (o Options) unsupportedIE() Policy {
	if o.UnsupportedIE == PolicyDefault {
		return PolicyAbort
	}
	return o.UnsupportedIE
}

func (o Options) extensions() Policy {
	if o.Extensions == PolicyDefault {
		return PolicySkip
	}
	return o.Extensions
}
