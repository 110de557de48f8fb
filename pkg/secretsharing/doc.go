// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

// Package secretsharing implements Shamir's Secret Sharing Scheme over
// GF(2^8) with a stable textual share format.
//
// A secret is divided into N shares such that any T shares (the threshold)
// reconstruct it exactly, while T-1 or fewer shares reveal no information
// about it. Each byte of the secret becomes the constant term of a fresh
// random polynomial of degree T-1:
//
//	p(x) = a0 + a1*x + a2*x^2 + ... + a(T-1)*x^(T-1)
//
// evaluated at x = 1..N. Reconstruction interpolates p(0) per byte position
// using Lagrange interpolation. All arithmetic happens in GF(2^8) with the
// AES reduction polynomial 0x11B, where addition is XOR and multiplication
// is table-driven.
//
// # Wire Format
//
// Shares travel as strings:
//
//	s:<decimal index, 1-255>:<base64url(payload), standard padding>
//
// The payload length always equals the secret length. The format carries no
// threshold, so Combine cannot detect an under-quorum set: two or more
// shares of equal length always interpolate to some output, and fewer
// shares than the original threshold silently produce the wrong secret.
// This is an information-theoretic property of the scheme, not a parsing
// defect; callers needing a hard quorum check must track the threshold
// themselves.
//
// # Usage Example
//
//	// 3-of-5: any 3 shares reconstruct the secret
//	shares, err := secretsharing.Split([]byte("my secret data"), 5, 3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	secret, err := secretsharing.Combine([]string{shares[0], shares[2], shares[4]})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// The field lookup tables are built once on first use and never mutated, so
// Split and Combine may run concurrently from any number of goroutines.
//
// # Constraints
//
//   - 2 <= T <= N <= 255
//   - The secret must be non-empty; its size is limited only by memory
//   - Share indices are bytes 1-255; index 0 is reserved
//
// # References
//
// - Shamir, Adi (1979). "How to Share a Secret"
// - Finite field arithmetic: GF(2^8) with AES polynomial (0x11B)
package secretsharing
