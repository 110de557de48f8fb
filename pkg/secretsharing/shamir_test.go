// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package secretsharing

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_BasicFunctionality(t *testing.T) {
	secret := []byte("hello world")

	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)
	require.Len(t, shares, 5)

	for i, raw := range shares {
		share, err := DecodeShare(raw)
		require.NoError(t, err)
		assert.Equal(t, byte(i+1), share.Index)
		assert.Len(t, share.Payload, len(secret))
	}
}

func TestCombine_SubsetsOfThresholdSize(t *testing.T) {
	secret := []byte("hello world")

	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)

	// Any t-subset reconstructs the secret.
	first, err := Combine([]string{shares[0], shares[2], shares[4]})
	require.NoError(t, err)
	assert.Equal(t, secret, first)

	second, err := Combine([]string{shares[1], shares[3], shares[4]})
	require.NoError(t, err)
	assert.Equal(t, secret, second)
}

func TestCombine_MoreThanThreshold(t *testing.T) {
	secret := []byte("Another secret message")

	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)

	reconstructed, err := Combine(shares)
	require.NoError(t, err)
	assert.Equal(t, secret, reconstructed)
}

func TestCombine_ShareOrderIrrelevant(t *testing.T) {
	secret := []byte{0x00, 0xFF, 0x7F, 0x80, 0x01}

	shares, err := Split(secret, 4, 2)
	require.NoError(t, err)

	reconstructed, err := Combine([]string{shares[3], shares[0]})
	require.NoError(t, err)
	assert.Equal(t, secret, reconstructed)
}

func TestRoundTrip_VariousParameters(t *testing.T) {
	tests := []struct {
		name      string
		secretLen int
		shares    int
		threshold int
	}{
		{"single byte minimum scheme", 1, 2, 2},
		{"small secret 3-of-5", 16, 5, 3},
		{"threshold equals total", 32, 7, 7},
		{"256 byte secret", 256, 10, 4},
		{"max share count", 8, 255, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret := make([]byte, tt.secretLen)
			_, err := rand.Read(secret)
			require.NoError(t, err)

			shares, err := Split(secret, tt.shares, tt.threshold)
			require.NoError(t, err)
			require.Len(t, shares, tt.shares)

			reconstructed, err := Combine(shares[:tt.threshold])
			require.NoError(t, err)
			assert.Equal(t, secret, reconstructed)
		})
	}
}

// TestSplit_FreshRandomness verifies two splits of the same secret disagree:
// coefficients are drawn fresh per call, so identical share sets would mean
// the randomness source is broken.
func TestSplit_FreshRandomness(t *testing.T) {
	secret := []byte("the same secret twice")

	first, err := Split(secret, 5, 3)
	require.NoError(t, err)
	second, err := Split(secret, 5, 3)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

// TestCombine_UnderQuorum documents the scheme's known limitation: fewer
// shares than the split-time threshold still interpolate to some byte
// sequence, almost certainly the wrong one, with no error.
func TestCombine_UnderQuorum(t *testing.T) {
	secret := []byte("quorum sensitive data here")

	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)

	wrong, err := Combine(shares[:2])
	require.NoError(t, err)
	assert.Len(t, wrong, len(secret))
	// With a 208-bit secret the chance of an accidental match is negligible.
	assert.NotEqual(t, secret, wrong)
}

func TestSplit_ParameterValidation(t *testing.T) {
	tests := []struct {
		name      string
		secret    []byte
		shares    int
		threshold int
		wantErr   error
	}{
		{"threshold below 2", []byte("x"), 3, 1, ErrInvalidThreshold},
		{"zero threshold", []byte("x"), 3, 0, ErrInvalidThreshold},
		{"fewer shares than threshold", []byte("x"), 1, 2, ErrInsufficientShares},
		{"share count above 255", []byte("x"), 300, 2, ErrParameterOutOfRange},
		{"threshold above 255", []byte("x"), 300, 256, ErrParameterOutOfRange},
		{"empty secret", []byte{}, 3, 2, ErrEmptySecret},
		{"nil secret", nil, 3, 2, ErrEmptySecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Split(tt.secret, tt.shares, tt.threshold)
			assert.Nil(t, shares)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCombine_InputValidation(t *testing.T) {
	valid, err := Split([]byte("abc"), 3, 2)
	require.NoError(t, err)

	longer, err := Split([]byte("abcde"), 3, 2)
	require.NoError(t, err)

	tests := []struct {
		name    string
		shares  []string
		wantErr error
	}{
		{"no shares", nil, ErrInsufficientShares},
		{"single share", valid[:1], ErrInsufficientShares},
		{"garbage share", []string{"garbage", valid[0]}, ErrInvalidShare},
		{"mismatched payload lengths", []string{valid[0], longer[0]}, ErrInconsistentShareLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := Combine(tt.shares)
			assert.Nil(t, secret)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCombine_DuplicateIndex(t *testing.T) {
	shares, err := Split([]byte("dup"), 3, 2)
	require.NoError(t, err)

	// Two copies of the same share make the Lagrange denominator zero.
	_, err = Combine([]string{shares[0], shares[0]})
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestConcurrentSplitCombine(t *testing.T) {
	secret := []byte("shared immutable tables")

	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func() {
			shares, err := Split(secret, 5, 3)
			if err != nil {
				done <- err
				return
			}
			reconstructed, err := Combine(shares[:3])
			if err != nil {
				done <- err
				return
			}
			if string(reconstructed) != string(secret) {
				done <- assert.AnError
				return
			}
			done <- nil
		}()
	}
	for i := 0; i < 16; i++ {
		require.NoError(t, <-done)
	}
}

func BenchmarkSplit(b *testing.B) {
	secret := make([]byte, 1024)
	_, _ = rand.Read(secret)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Split(secret, 5, 3); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCombine(b *testing.B) {
	secret := make([]byte, 1024)
	_, _ = rand.Read(secret)
	shares, err := Split(secret, 5, 3)
	if err != nil {
		b.Fatal(err)
	}
	subset := shares[:3]
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Combine(subset); err != nil {
			b.Fatal(err)
		}
	}
}
