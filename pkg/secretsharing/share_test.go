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

func TestShareEncode_KnownValue(t *testing.T) {
	share := Share{Index: 1, Payload: []byte("ABC")}
	assert.Equal(t, "s:1:QUJD", share.Encode())
}

func TestShareCodec_RoundTrip(t *testing.T) {
	indices := []byte{1, 128, 255}
	lengths := []int{1, 32}

	for _, index := range indices {
		for _, length := range lengths {
			payload := make([]byte, length)
			_, err := rand.Read(payload)
			require.NoError(t, err)

			share := Share{Index: index, Payload: payload}
			decoded, err := DecodeShare(share.Encode())
			require.NoError(t, err)
			assert.Equal(t, share, decoded)
		}
	}
}

func TestDecodeShare_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"empty string", ""},
		{"missing prefix", "1:QUJD"},
		{"wrong prefix", "x:1:QUJD"},
		{"missing payload segment", "s:1"},
		{"non-numeric index", "s:abc:QUJD"},
		{"index zero", "s:0:QUJD"},
		{"index above 255", "s:256:QUJD"},
		{"negative index", "s:-1:QUJD"},
		{"invalid base64", "s:1:not base64!"},
		{"standard alphabet with url decoder", "s:1:+/+/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeShare(tt.encoded)
			assert.ErrorIs(t, err, ErrInvalidShare)
		})
	}
}
