// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package secretsharing

import "sync"

// fieldPolynomial is the AES reduction polynomial x^8 + x^4 + x^3 + x + 1.
const fieldPolynomial = 0x11B

// Field provides arithmetic over GF(2^8) using precomputed logarithm and
// exponentiation tables. A Field is immutable after construction and safe
// for concurrent use without locking.
//
// The exp table is built over an extended window of 512 entries so that
// Mul can index exp[log[a]+log[b]] directly: the sum of two discrete logs
// is at most 508, and entries [255, 512) duplicate entries [0, 257).
type Field struct {
	exp [512]byte
	log [256]byte
}

var (
	defaultFieldOnce sync.Once
	defaultField     *Field
)

// DefaultField returns the process-wide GF(2^8) field instance. The lookup
// tables are built on first use and never mutated afterward, so the returned
// value may be shared freely across goroutines.
func DefaultField() *Field {
	defaultFieldOnce.Do(func() {
		defaultField = newField()
	})
	return defaultField
}

// newField generates the multiplicative group of GF(2^8) from the
// generator 0x03, reducing by the field polynomial whenever the ninth bit
// is set. 0x03 is a primitive element under 0x11B (0x02 is not: its order
// is 51), so stepping by it visits every nonzero value exactly once.
// exp[0] holds the field value 1; log[v] holds the discrete log of v for
// every nonzero v.
func newField() *Field {
	f := &Field{}
	value := 1
	for i := 0; i < 255; i++ {
		f.exp[i] = byte(value)
		f.log[value] = byte(i)
		// value *= 0x03, i.e. value XOR value*x
		value ^= value << 1
		if value&0x100 != 0 {
			value ^= fieldPolynomial
		}
	}
	for i := 255; i < 512; i++ {
		f.exp[i] = f.exp[i-255]
	}
	return f
}

// Add performs addition in GF(2^8), which is bitwise XOR. Subtraction is
// the same operation.
func (f *Field) Add(a, b byte) byte {
	return a ^ b
}

// Mul performs multiplication in GF(2^8). The extended exp table absorbs
// the modulo-255 wraparound of the log sum.
func (f *Field) Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return f.exp[int(f.log[a])+int(f.log[b])]
}

// Div performs division in GF(2^8). Dividing by zero returns
// ErrDivisionByZero; dividing zero by anything else returns zero.
func (f *Field) Div(a, b byte) (byte, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	if a == 0 {
		return 0, nil
	}
	return f.exp[(int(f.log[a])-int(f.log[b])+255)%255], nil
}
