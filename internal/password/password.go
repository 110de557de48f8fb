// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

// Package password generates random passwords and passphrases using
// crypto/rand.
//
// Passwords are built from configurable character pools (lowercase,
// uppercase, digits, symbols) with optional exclusion of ambiguous or
// visually similar characters, per-pool minimum counts, and a no-repeats
// mode. Passphrases are drawn from a fixed word list with an optional
// appended digit and symbol.
package password

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	// ErrUnknownPreset is returned when an unrecognized preset name is given.
	ErrUnknownPreset = errors.New("unknown preset")

	// ErrInvalidLength is returned when the requested length is zero, negative,
	// or exceeds the configured maximum.
	ErrInvalidLength = errors.New("invalid length")

	// ErrNoCharacterSets is returned when every character pool is disabled.
	ErrNoCharacterSets = errors.New("at least one character set must be enabled")

	// ErrNegativeMinimum is returned when a per-pool minimum count is negative.
	ErrNegativeMinimum = errors.New("minimum counts must be >= 0")

	// ErrMinimumsExceedLength is returned when the sum of minimum counts
	// exceeds the requested length.
	ErrMinimumsExceedLength = errors.New("sum of minimum counts exceeds length")

	// ErrEmptyPool is returned when exclusions leave a required pool empty.
	ErrEmptyPool = errors.New("character pool is empty for requested constraints")

	// ErrNoRepeatsUnsatisfiable is returned when no_repeats is requested but
	// the combined pool has fewer unique characters than the length.
	ErrNoRepeatsUnsatisfiable = errors.New("no_repeats exceeds unique pool size")

	// ErrInvalidWords is returned when the requested word count is not positive.
	ErrInvalidWords = errors.New("words must be greater than 0")

	// ErrEmptySeparator is returned when a passphrase separator is empty.
	ErrEmptySeparator = errors.New("separator is required")
)

const (
	lowerPool  = "abcdefghijklmnopqrstuvwxyz"
	upperPool  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitPool  = "0123456789"
	symbolPool = "!@#$%^&*()-_=+[]{};:,.?/"

	ambiguousChars = "{}[]()/\\'\"`~,;:."
	similarChars   = "il1Lo0O"

	passphraseSymbols = "!@#$%^&*"
)

// wordlist is the passphrase vocabulary. Fixed; not user-extensible.
var wordlist = []string{
	"alpha", "amber", "atlas", "bamboo", "basil", "breeze", "canyon",
	"cedar", "cinder", "cloud", "comet", "coral", "crystal", "delta",
	"ember", "forest", "frost", "glacier", "harbor", "horizon", "jade",
	"juniper", "lilac", "lumen", "meadow", "meteor", "mist", "nebula",
	"oasis", "onyx", "orbit", "pebble", "pioneer", "quartz", "raven",
	"river", "sage", "sequoia", "shadow", "solace", "sparrow", "summit",
	"terra", "thunder", "tide", "torch", "valley", "vertex", "whisper",
	"wild", "zenith",
}

// Options controls password generation. Nil pointer fields inherit the
// preset's value (or the default profile when no preset is given).
type Options struct {
	Preset           string
	Length           *int
	Lowercase        *bool
	Uppercase        *bool
	Digits           *bool
	Symbols          *bool
	ExcludeAmbiguous *bool
	ExcludeSimilar   *bool
	NoRepeats        *bool
	MinLowercase     *int
	MinUppercase     *int
	MinDigits        *int
	MinSymbols       *int
}

// profile is a fully resolved set of generation parameters.
type profile struct {
	length           int
	lowercase        bool
	uppercase        bool
	digits           bool
	symbols          bool
	excludeAmbiguous bool
	excludeSimilar   bool
	noRepeats        bool
	minLowercase     int
	minUppercase     int
	minDigits        int
	minSymbols       int
}

var presets = map[string]profile{
	"strong": {
		length: 24, lowercase: true, uppercase: true, digits: true, symbols: true,
		excludeAmbiguous: true, excludeSimilar: true,
		minLowercase: 2, minUppercase: 2, minDigits: 2, minSymbols: 2,
	},
	"pin": {
		length: 6, digits: true,
		minDigits: 6,
	},
	"passphrase": {
		length: 32, lowercase: true,
		minLowercase: 1,
	},
}

var defaultProfile = profile{
	length: 16, lowercase: true, uppercase: true, digits: true,
	excludeAmbiguous: true,
}

// Result describes a generated password.
type Result struct {
	Password  string
	Length    int
	Lowercase bool
	Uppercase bool
	Digits    bool
	Symbols   bool
}

// PassphraseOptions controls passphrase generation.
type PassphraseOptions struct {
	Words         int
	Separator     string
	Capitalize    bool
	IncludeNumber bool
	IncludeSymbol bool
}

// PassphraseResult describes a generated passphrase.
type PassphraseResult struct {
	Passphrase    string
	Words         int
	Separator     string
	Capitalize    bool
	IncludeNumber bool
	IncludeSymbol bool
}

// Service generates passwords within a configured maximum length.
type Service struct {
	maxLength int
}

// NewService creates a password generation service. maxLength bounds the
// length of generated passwords and passphrases.
func NewService(maxLength int) *Service {
	return &Service{maxLength: maxLength}
}

// Generate produces a random password according to opts.
func (s *Service) Generate(opts Options) (*Result, error) {
	p, err := resolve(opts)
	if err != nil {
		return nil, err
	}

	if p.length <= 0 {
		return nil, fmt.Errorf("%w: length must be greater than 0", ErrInvalidLength)
	}
	if p.length > s.maxLength {
		return nil, fmt.Errorf("%w: length must be <= %d", ErrInvalidLength, s.maxLength)
	}

	lower := lowerPool
	upper := upperPool
	digit := digitPool
	symbol := symbolPool

	if p.excludeAmbiguous {
		symbol = removeChars(symbol, ambiguousChars)
	}
	if p.excludeSimilar {
		lower = removeChars(lower, similarChars)
		upper = removeChars(upper, similarChars)
		digit = removeChars(digit, similarChars)
	}

	type requirement struct {
		pool string
		min  int
	}

	var pools []string
	var required []requirement

	if p.lowercase {
		pools = append(pools, lower)
		required = append(required, requirement{lower, p.minLowercase})
	}
	if p.uppercase {
		pools = append(pools, upper)
		required = append(required, requirement{upper, p.minUppercase})
	}
	if p.digits {
		pools = append(pools, digit)
		required = append(required, requirement{digit, p.minDigits})
	}
	if p.symbols {
		pools = append(pools, symbol)
		required = append(required, requirement{symbol, p.minSymbols})
	}

	if len(pools) == 0 {
		return nil, ErrNoCharacterSets
	}

	minTotal := 0
	for _, r := range required {
		if r.min < 0 {
			return nil, ErrNegativeMinimum
		}
		minTotal += r.min
	}
	if minTotal > p.length {
		return nil, ErrMinimumsExceedLength
	}

	allChars := strings.Join(pools, "")
	if p.noRepeats && p.length > len(uniqueChars(allChars)) {
		return nil, ErrNoRepeatsUnsatisfiable
	}

	chars := make([]byte, 0, p.length)
	for _, r := range required {
		for i := 0; i < r.min; i++ {
			if len(r.pool) == 0 {
				return nil, ErrEmptyPool
			}
			c, err := randomChar(r.pool)
			if err != nil {
				return nil, err
			}
			chars = append(chars, c)
		}
	}

	for len(chars) < p.length {
		pool := allChars
		if p.noRepeats {
			pool = removeChars(allChars, string(chars))
			if len(pool) == 0 {
				return nil, ErrNoRepeatsUnsatisfiable
			}
		}
		c, err := randomChar(pool)
		if err != nil {
			return nil, err
		}
		chars = append(chars, c)
	}

	if err := shuffle(chars); err != nil {
		return nil, err
	}

	return &Result{
		Password:  string(chars),
		Length:    p.length,
		Lowercase: p.lowercase,
		Uppercase: p.uppercase,
		Digits:    p.digits,
		Symbols:   p.symbols,
	}, nil
}

// GeneratePassphrase produces a random word-based passphrase.
func (s *Service) GeneratePassphrase(opts PassphraseOptions) (*PassphraseResult, error) {
	if opts.Words <= 0 {
		return nil, ErrInvalidWords
	}
	if opts.Separator == "" {
		return nil, ErrEmptySeparator
	}

	chosen := make([]string, opts.Words)
	for i := range chosen {
		idx, err := randomInt(len(wordlist))
		if err != nil {
			return nil, err
		}
		word := wordlist[idx]
		if opts.Capitalize {
			word = strings.ToUpper(word[:1]) + word[1:]
		}
		chosen[i] = word
	}

	if opts.IncludeNumber {
		idx, err := randomInt(len(chosen))
		if err != nil {
			return nil, err
		}
		n, err := randomInt(10)
		if err != nil {
			return nil, err
		}
		chosen[idx] = fmt.Sprintf("%s%d", chosen[idx], n)
	}

	if opts.IncludeSymbol {
		idx, err := randomInt(len(chosen))
		if err != nil {
			return nil, err
		}
		c, err := randomChar(passphraseSymbols)
		if err != nil {
			return nil, err
		}
		chosen[idx] = chosen[idx] + string(c)
	}

	passphrase := strings.Join(chosen, opts.Separator)
	if len(passphrase) > s.maxLength {
		return nil, fmt.Errorf("%w: passphrase length must be <= %d", ErrInvalidLength, s.maxLength)
	}

	return &PassphraseResult{
		Passphrase:    passphrase,
		Words:         opts.Words,
		Separator:     opts.Separator,
		Capitalize:    opts.Capitalize,
		IncludeNumber: opts.IncludeNumber,
		IncludeSymbol: opts.IncludeSymbol,
	}, nil
}

// resolve merges opts onto its preset (or the default profile).
func resolve(opts Options) (profile, error) {
	base := defaultProfile
	if opts.Preset != "" {
		p, ok := presets[strings.ToLower(opts.Preset)]
		if !ok {
			return profile{}, ErrUnknownPreset
		}
		base = p
	}

	if opts.Length != nil {
		base.length = *opts.Length
	}
	if opts.Lowercase != nil {
		base.lowercase = *opts.Lowercase
	}
	if opts.Uppercase != nil {
		base.uppercase = *opts.Uppercase
	}
	if opts.Digits != nil {
		base.digits = *opts.Digits
	}
	if opts.Symbols != nil {
		base.symbols = *opts.Symbols
	}
	if opts.ExcludeAmbiguous != nil {
		base.excludeAmbiguous = *opts.ExcludeAmbiguous
	}
	if opts.ExcludeSimilar != nil {
		base.excludeSimilar = *opts.ExcludeSimilar
	}
	if opts.NoRepeats != nil {
		base.noRepeats = *opts.NoRepeats
	}
	if opts.MinLowercase != nil {
		base.minLowercase = *opts.MinLowercase
	}
	if opts.MinUppercase != nil {
		base.minUppercase = *opts.MinUppercase
	}
	if opts.MinDigits != nil {
		base.minDigits = *opts.MinDigits
	}
	if opts.MinSymbols != nil {
		base.minSymbols = *opts.MinSymbols
	}

	return base, nil
}

func removeChars(s, exclude string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(exclude, rune(s[i])) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func uniqueChars(s string) string {
	seen := make(map[byte]bool, len(s))
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if !seen[s[i]] {
			seen[s[i]] = true
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func randomInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return int(v.Int64()), nil
}

func randomChar(pool string) (byte, error) {
	idx, err := randomInt(len(pool))
	if err != nil {
		return 0, err
	}
	return pool[idx], nil
}

// shuffle performs a Fisher-Yates shuffle with crypto/rand indices.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return err
		}
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
