// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSecret(t *testing.T) {
	text, encoding := encodeSecret([]byte("hello"))
	assert.Equal(t, "hello", text)
	assert.Equal(t, "utf-8", encoding)

	_, encoding = encodeSecret([]byte{0xff, 0xfe})
	assert.Equal(t, "base64", encoding)
}

func TestReadLines(t *testing.T) {
	lines, err := readLines(strings.NewReader("s:1:abc\n\n  s:2:def  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"s:1:abc", "s:2:def"}, lines)
}

func TestPrinterSharesText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter("text", &buf)

	require.NoError(t, p.PrintShares([]string{"s:1:abc", "s:2:def"}, 2))
	out := buf.String()
	assert.Contains(t, out, "any 2 of 2")
	assert.Contains(t, out, "s:1:abc")
}

func TestPrinterSharesJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter("json", &buf)

	require.NoError(t, p.PrintShares([]string{"s:1:abc"}, 2))

	var out struct {
		Shares    []string `json:"shares"`
		Count     int      `json:"count"`
		Threshold int      `json:"threshold"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, []string{"s:1:abc"}, out.Shares)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, 2, out.Threshold)
}

func TestPrinterUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter("xml", &buf)
	assert.Error(t, p.PrintShares([]string{"s:1:abc"}, 2))
}

func TestRootCommandWiring(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"version", "server", "secret", "password", "passphrase"} {
		assert.True(t, names[want], want)
	}
}
