// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package main

import (
	"testing"
	"time"
)

// The binary embeds the IANA database, so zone lookups must succeed even
// when the host has no zoneinfo tree.
func TestEmbeddedTimezoneDatabase(t *testing.T) {
	for _, zone := range []string{"UTC", "America/New_York", "Australia/Sydney"} {
		if _, err := time.LoadLocation(zone); err != nil {
			t.Errorf("LoadLocation(%q) returned error: %v", zone, err)
		}
	}
}
