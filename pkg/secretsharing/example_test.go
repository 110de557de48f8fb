// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package secretsharing_test

import (
	"fmt"
	"log"

	"github.com/anisafifi/databox/pkg/secretsharing"
)

// Example demonstrates a 3-of-5 split and reconstruction from a subset.
func Example() {
	shares, err := secretsharing.Split([]byte("hello world"), 5, 3)
	if err != nil {
		log.Fatal(err)
	}

	// Hand one share to each custodian; any three recover the secret.
	secret, err := secretsharing.Combine([]string{shares[0], shares[2], shares[4]})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(secret))
	// Output: hello world
}

// ExampleDecodeShare shows the share wire format.
func ExampleDecodeShare() {
	share, err := secretsharing.DecodeShare("s:1:QUJD")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("index=%d payload=%s\n", share.Index, share.Payload)
	// Output: index=1 payload=ABC
}
