// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package secretsharing

import "errors"

var (
	// ErrInvalidThreshold is returned when the threshold is less than 2.
	ErrInvalidThreshold = errors.New("threshold must be at least 2")

	// ErrInsufficientShares is returned by Split when fewer shares than the
	// threshold are requested, and by Combine when fewer than 2 shares are
	// supplied.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrParameterOutOfRange is returned when the share count or threshold
	// exceeds 255, the number of nonzero evaluation points in GF(256).
	ErrParameterOutOfRange = errors.New("shares and threshold must be <= 255")

	// ErrEmptySecret is returned when Split is called with a zero-length secret.
	ErrEmptySecret = errors.New("secret must not be empty")

	// ErrInvalidShare is returned when a share string does not match the
	// s:<index>:<base64url payload> wire format.
	ErrInvalidShare = errors.New("invalid share")

	// ErrInconsistentShareLength is returned when the supplied shares carry
	// payloads of different lengths.
	ErrInconsistentShareLength = errors.New("shares have different payload lengths")

	// ErrDivisionByZero is returned on division by zero in GF(256). It is
	// unreachable through Split and only reachable through Combine when two
	// shares carry the same index; anywhere else it indicates a logic bug.
	ErrDivisionByZero = errors.New("division by zero in GF(256)")
)
