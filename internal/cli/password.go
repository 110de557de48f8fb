// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/anisafifi/databox/internal/password"
)

var (
	passwordPreset  string
	passwordLength  int
	passwordNoRepts bool

	passphraseWords      int
	passphraseSeparator  string
	passphraseCapitalize bool
	passphraseNumber     bool
	passphraseSymbol     bool
)

// cliPasswordMaxLength bounds generation for the CLI; the server reads
// its limit from configuration instead.
const cliPasswordMaxLength = 256

// passwordCmd generates a random password
var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Generate a random password",
	Long: `Generate a cryptographically random password. Presets bundle
common policies:

  strong:  24 characters, all character classes
  pin:     6 digits
  default: 16 characters, letters and digits`,
	Run: func(cmd *cobra.Command, args []string) {
		svc := password.NewService(cliPasswordMaxLength)

		opts := password.Options{Preset: passwordPreset}
		if cmd.Flags().Changed("length") {
			opts.Length = &passwordLength
		}
		if cmd.Flags().Changed("no-repeats") {
			opts.NoRepeats = &passwordNoRepts
		}

		result, err := svc.Generate(opts)
		if err != nil {
			handleError(err)
		}

		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)
		if err := printer.PrintPassword(result); err != nil {
			handleError(err)
		}
	},
}

// passphraseCmd generates a random passphrase
var passphraseCmd = &cobra.Command{
	Use:   "passphrase",
	Short: "Generate a random passphrase",
	Long:  `Generate a passphrase of random words joined by a separator.`,
	Run: func(cmd *cobra.Command, args []string) {
		svc := password.NewService(cliPasswordMaxLength)

		result, err := svc.GeneratePassphrase(password.PassphraseOptions{
			Words:         passphraseWords,
			Separator:     passphraseSeparator,
			Capitalize:    passphraseCapitalize,
			IncludeNumber: passphraseNumber,
			IncludeSymbol: passphraseSymbol,
		})
		if err != nil {
			handleError(err)
		}

		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)
		if err := printer.PrintPassphrase(result); err != nil {
			handleError(err)
		}
	},
}

func init() {
	passwordCmd.Flags().StringVarP(&passwordPreset, "preset", "p", "",
		"password preset (strong, pin, passphrase)")
	passwordCmd.Flags().IntVarP(&passwordLength, "length", "l", 16,
		"password length")
	passwordCmd.Flags().BoolVar(&passwordNoRepts, "no-repeats", false,
		"disallow repeated characters")

	passphraseCmd.Flags().IntVarP(&passphraseWords, "words", "w", 4,
		"number of words")
	passphraseCmd.Flags().StringVarP(&passphraseSeparator, "separator", "s", "-",
		"word separator")
	passphraseCmd.Flags().BoolVar(&passphraseCapitalize, "capitalize", false,
		"capitalize each word")
	passphraseCmd.Flags().BoolVar(&passphraseNumber, "number", false,
		"append a random digit to one word")
	passphraseCmd.Flags().BoolVar(&passphraseSymbol, "symbol", false,
		"append a random symbol to one word")
}
