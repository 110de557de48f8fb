// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package secretsharing

import (
	"crypto/rand"
	"fmt"
)

// maxShares is the number of nonzero evaluation points in GF(2^8), the
// upper bound on both the share count and the threshold.
const maxShares = 255

// Split divides a secret into n encoded shares such that any t of them
// reconstruct it. For every byte of the secret it builds a fresh random
// polynomial of degree t-1 whose constant term is that byte, then evaluates
// it at x = 1..n. Coefficients come from crypto/rand; their secrecy is the
// only thing hiding the secret below the threshold, so a seeded or
// statistical PRNG is never acceptable here.
//
// All preconditions are checked before any field computation, so Split
// either returns n shares or returns an error and no output.
func Split(secret []byte, shares, threshold int) ([]string, error) {
	if threshold < 2 {
		return nil, ErrInvalidThreshold
	}
	if shares < threshold {
		return nil, fmt.Errorf("%w: %d shares cannot satisfy threshold %d", ErrInsufficientShares, shares, threshold)
	}
	if shares > maxShares || threshold > maxShares {
		return nil, ErrParameterOutOfRange
	}
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	f := DefaultField()

	payloads := make([][]byte, shares)
	for i := range payloads {
		payloads[i] = make([]byte, len(secret))
	}

	coefficients := make([]byte, threshold)
	for i, secretByte := range secret {
		coefficients[0] = secretByte
		if _, err := rand.Read(coefficients[1:]); err != nil {
			return nil, fmt.Errorf("failed to generate random coefficients: %w", err)
		}
		for idx := range payloads {
			payloads[idx][i] = f.evalPoly(coefficients, byte(idx+1))
		}
	}

	encoded := make([]string, shares)
	for idx, payload := range payloads {
		encoded[idx] = Share{Index: byte(idx + 1), Payload: payload}.Encode()
	}
	return encoded, nil
}

// Combine reconstructs a secret from encoded shares by Lagrange
// interpolation at x=0, one byte position at a time.
//
// Combine has no way to know the threshold chosen at split time: any two or
// more shares of equal length interpolate to some byte sequence, and an
// under-quorum set silently yields the wrong one. Callers who need a hard
// quorum check must track the threshold out of band.
func Combine(shares []string) ([]byte, error) {
	if len(shares) < 2 {
		return nil, fmt.Errorf("%w: at least 2 shares are required", ErrInsufficientShares)
	}

	decoded := make([]Share, len(shares))
	for i, raw := range shares {
		share, err := DecodeShare(raw)
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", i, err)
		}
		decoded[i] = share
	}

	length := len(decoded[0].Payload)
	for _, share := range decoded[1:] {
		if len(share.Payload) != length {
			return nil, ErrInconsistentShareLength
		}
	}

	f := DefaultField()
	secret := make([]byte, length)
	column := make([]point, len(decoded))
	for i := 0; i < length; i++ {
		for j, share := range decoded {
			column[j] = point{x: share.Index, y: share.Payload[i]}
		}
		value, err := f.interpolateAtZero(column)
		if err != nil {
			return nil, err
		}
		secret[i] = value
	}
	return secret, nil
}
