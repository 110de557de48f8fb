// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package main

import (
	"fmt"
	"os"

	// Embed the IANA timezone database so the timezone catalog works on
	// hosts without a zoneinfo tree.
	_ "time/tzdata"

	"github.com/anisafifi/databox/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
