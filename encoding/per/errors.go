// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package per

import (
	"fmt"
)

// StructuralError reports truncated input or a cursor that cannot be
// positioned where the caller asked. The whole PDU decode must be aborted.
type StructuralError struct {
	Op  string
	Msg string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func structuralError(op, format string, v ...interface{}) error {
	return &StructuralError{Op: op, Msg: fmt.Sprintf(format, v...)}
}

// RangeError reports a value, size or count outside its declared bound.
type RangeError struct {
	Op    string
	Value int64
	Lb    int64
	Ub    int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: value=%d is out of range. (should be %d <= %d)",
		e.Op, e.Value, e.Lb, e.Ub)
}

func rangeError(op string, value, lb, ub int64) error {
	return &RangeError{Op: op, Value: value, Lb: lb, Ub: ub}
}

// ExtensionError reports an extension marker that the caller refused to
// skip, or an extension alternative that has no root encoding.
type ExtensionError struct {
	Op  string
	Msg string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// NewExtensionError returns an ExtensionError for op.
func NewExtensionError(op, format string, v ...interface{}) error {
	return &ExtensionError{Op: op, Msg: fmt.Sprintf(format, v...)}
}
