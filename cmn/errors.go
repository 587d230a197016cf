// Package cmn provides common low-level types and utilities shared by the
// imgfs store, its HTTP engine, and its command-line tools.
/*
 * Copyright (c) 2018, NVIDIA CORPORATION. All rights reserved.
 */
package cmn

import (
	"errors"
	"fmt"
)

// Kind is a stable, closed enumeration of the error kinds an imgfs
// operation can fail with. Kinds are surfaced identically as CLI exit
// codes and as HTTP error bodies - never translate or renumber them
// without updating both call sites.
type Kind int

const (
	KindNone Kind = iota
	KindIO
	KindOutOfMemory
	KindInvalidArgument
	KindInvalidCommand
	KindNotEnoughArguments
	KindInvalidImgID
	KindImgfsFull
	KindImageNotFound
	KindDuplicateID
	KindResolutions
	KindMaxFiles
	KindImgLib
	KindRuntime
)

var kindNames = map[Kind]string{
	KindNone:               "None",
	KindIO:                 "IO",
	KindOutOfMemory:        "OutOfMemory",
	KindInvalidArgument:    "InvalidArgument",
	KindInvalidCommand:     "InvalidCommand",
	KindNotEnoughArguments: "NotEnoughArguments",
	KindInvalidImgID:       "InvalidImgID",
	KindImgfsFull:          "ImgfsFull",
	KindImageNotFound:      "ImageNotFound",
	KindDuplicateID:        "DuplicateID",
	KindResolutions:        "Resolutions",
	KindMaxFiles:           "MaxFiles",
	KindImgLib:             "ImgLib",
	KindRuntime:            "Runtime",
}

// ExitCode maps a Kind to the small negative numeric code imgfscmd exits
// with on failure. KindNone is the only kind that is not an error.
func (k Kind) ExitCode() int {
	if k == KindNone {
		return 0
	}
	return -int(k)
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Error is the single error type returned by every imgfs operation. It
// carries a stable Kind plus an optional human-readable cause, and is
// surfaced verbatim (its Kind's name) in both CLI output and HTTP error
// bodies - see httpsrv's errorResponse.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// NewErr builds an *Error of the given kind with a formatted message.
func NewErr(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapErr builds an *Error of the given kind wrapping a lower-level cause.
func WrapErr(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the Kind carried by err, or KindRuntime if err is not
// (or does not wrap) an *Error.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindRuntime
}
