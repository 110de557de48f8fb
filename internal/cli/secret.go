// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package cli

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/anisafifi/databox/pkg/secretsharing"
)

var (
	secretShares    int
	secretThreshold int
	secretBase64    bool
)

// secretCmd groups the secret sharing operations
var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Split and reconstruct secrets",
	Long: `Split a secret into shares with Shamir's secret sharing scheme, or
reconstruct a secret from a quorum of shares. Any threshold shares
reconstruct the secret; fewer reveal nothing about it.`,
}

// secretSplitCmd splits a secret into shares
var secretSplitCmd = &cobra.Command{
	Use:   "split <secret>",
	Short: "Split a secret into shares",
	Long: `Split a secret into n shares such that any t of them reconstruct
it. The secret is read as UTF-8 text; pass --base64 to supply binary
secrets as standard base64.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		secret := []byte(args[0])
		if secretBase64 {
			decoded, err := base64.StdEncoding.DecodeString(args[0])
			if err != nil {
				handleError(fmt.Errorf("invalid base64 secret: %w", err))
			}
			secret = decoded
		}

		shares, err := secretsharing.Split(secret, secretShares, secretThreshold)
		if err != nil {
			handleError(err)
		}

		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)
		if err := printer.PrintShares(shares, secretThreshold); err != nil {
			handleError(err)
		}
	},
}

// secretCombineCmd reconstructs a secret from shares
var secretCombineCmd = &cobra.Command{
	Use:   "combine [share ...]",
	Short: "Reconstruct a secret from shares",
	Long: `Reconstruct a secret from a quorum of shares. Shares are passed as
arguments, or one per line on stdin when no arguments are given. The
secret is printed as UTF-8 text when possible, otherwise as base64.`,
	Run: func(cmd *cobra.Command, args []string) {
		shares := args
		if len(shares) == 0 {
			var err error
			shares, err = readLines(cmd.InOrStdin())
			if err != nil {
				handleError(fmt.Errorf("failed to read shares from stdin: %w", err))
			}
		}

		secret, err := secretsharing.Combine(shares)
		if err != nil {
			handleError(err)
		}

		text, encoding := encodeSecret(secret)

		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)
		if err := printer.PrintSecret(text, encoding); err != nil {
			handleError(err)
		}
	},
}

// encodeSecret renders a reconstructed secret as UTF-8 when valid,
// falling back to base64 for binary payloads.
func encodeSecret(secret []byte) (string, string) {
	if utf8.Valid(secret) {
		return string(secret), "utf-8"
	}
	return base64.StdEncoding.EncodeToString(secret), "base64"
}

// readLines reads non-empty lines from r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func init() {
	secretSplitCmd.Flags().IntVarP(&secretShares, "shares", "n", 5,
		"number of shares to produce")
	secretSplitCmd.Flags().IntVarP(&secretThreshold, "threshold", "t", 3,
		"number of shares required for reconstruction")
	secretSplitCmd.Flags().BoolVar(&secretBase64, "base64", false,
		"interpret the secret argument as standard base64")

	secretCmd.AddCommand(secretSplitCmd)
	secretCmd.AddCommand(secretCombineCmd)
}
