// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/anisafifi/databox/internal/password"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintShares prints the shares produced by a split operation
func (p *Printer) PrintShares(shares []string, threshold int) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"shares":    shares,
			"count":     len(shares),
			"threshold": threshold,
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Shares (any %d of %d reconstruct the secret):\n", threshold, len(shares))
		for _, s := range shares {
			fmt.Fprintf(p.writer, "  %s\n", s)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSecret prints a reconstructed secret
func (p *Printer) PrintSecret(secret, encoding string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"secret":   secret,
			"encoding": encoding,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, secret)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintPassword prints a generated password
func (p *Printer) PrintPassword(result *password.Result) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"password":  result.Password,
			"length":    result.Length,
			"lowercase": result.Lowercase,
			"uppercase": result.Uppercase,
			"digits":    result.Digits,
			"symbols":   result.Symbols,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, result.Password)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintPassphrase prints a generated passphrase
func (p *Printer) PrintPassphrase(result *password.PassphraseResult) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"passphrase": result.Passphrase,
			"words":      result.Words,
			"separator":  result.Separator,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, result.Passphrase)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// printJSON prints data as JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
