// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package rest

import "encoding/json"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// SplitRequest represents a secret splitting request. Encoding selects
// how the secret field is interpreted: "utf-8" (default) or "base64".
type SplitRequest struct {
	Secret    string `json:"secret"`
	Encoding  string `json:"encoding,omitempty"`
	Shares    int    `json:"shares"`
	Threshold int    `json:"threshold"`
}

// SplitResponse represents the response for a splitting operation.
type SplitResponse struct {
	Shares    []string `json:"shares"`
	Count     int      `json:"count"`
	Threshold int      `json:"threshold"`
}

// CombineRequest represents a secret reconstruction request.
type CombineRequest struct {
	Shares []string `json:"shares"`
}

// CombineResponse represents the reconstructed secret. Encoding is
// "utf-8" when the secret is valid UTF-8 text, otherwise "base64".
type CombineResponse struct {
	Secret   string `json:"secret"`
	Encoding string `json:"encoding"`
}

// PasswordRequest represents a password generation request. Pointer
// fields left null inherit the preset's value.
type PasswordRequest struct {
	Preset           string `json:"preset,omitempty"`
	Length           *int   `json:"length,omitempty"`
	Lowercase        *bool  `json:"lowercase,omitempty"`
	Uppercase        *bool  `json:"uppercase,omitempty"`
	Digits           *bool  `json:"digits,omitempty"`
	Symbols          *bool  `json:"symbols,omitempty"`
	ExcludeAmbiguous *bool  `json:"exclude_ambiguous,omitempty"`
	ExcludeSimilar   *bool  `json:"exclude_similar,omitempty"`
	NoRepeats        *bool  `json:"no_repeats,omitempty"`
	MinLowercase     *int   `json:"min_lowercase,omitempty"`
	MinUppercase     *int   `json:"min_uppercase,omitempty"`
	MinDigits        *int   `json:"min_digits,omitempty"`
	MinSymbols       *int   `json:"min_symbols,omitempty"`
}

// PasswordResponse represents a generated password.
type PasswordResponse struct {
	Password  string `json:"password"`
	Length    int    `json:"length"`
	Lowercase bool   `json:"lowercase"`
	Uppercase bool   `json:"uppercase"`
	Digits    bool   `json:"digits"`
	Symbols   bool   `json:"symbols"`
}

// PassphraseRequest represents a passphrase generation request.
type PassphraseRequest struct {
	Words         int    `json:"words"`
	Separator     string `json:"separator"`
	Capitalize    bool   `json:"capitalize"`
	IncludeNumber bool   `json:"include_number"`
	IncludeSymbol bool   `json:"include_symbol"`
}

// PassphraseResponse represents a generated passphrase.
type PassphraseResponse struct {
	Passphrase    string `json:"passphrase"`
	Words         int    `json:"words"`
	Separator     string `json:"separator"`
	Capitalize    bool   `json:"capitalize"`
	IncludeNumber bool   `json:"include_number"`
	IncludeSymbol bool   `json:"include_symbol"`
}

// TimeNowResponse represents the current NTP-sourced time.
type TimeNowResponse struct {
	Datetime      string  `json:"datetime"`
	Timezone      string  `json:"timezone"`
	Unix          int64   `json:"unix"`
	Server        string  `json:"server"`
	OffsetSeconds float64 `json:"offset_seconds"`
	LeapIndicator int     `json:"leap_indicator"`
}

// TimeEpochResponse represents the NTP-sourced unix timestamp.
type TimeEpochResponse struct {
	Unix   int64  `json:"unix"`
	Server string `json:"server"`
}

// TimeFormatResponse represents a formatted timestamp.
type TimeFormatResponse struct {
	Formatted string `json:"formatted"`
	Timezone  string `json:"timezone"`
	Format    string `json:"format"`
}

// NTPStatusResponse represents the raw NTP query outcome.
type NTPStatusResponse struct {
	Server        string  `json:"server"`
	Unix          int64   `json:"unix"`
	SystemUnix    int64   `json:"system_unix"`
	OffsetSeconds float64 `json:"offset_seconds"`
	LeapIndicator int     `json:"leap_indicator"`
}

// LeapIndicatorResponse represents the NTP leap indicator.
type LeapIndicatorResponse struct {
	LeapIndicator int    `json:"leap_indicator"`
	Server        string `json:"server"`
}

// TimeConvertRequest represents a timezone conversion request.
type TimeConvertRequest struct {
	Datetime string `json:"datetime"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// TimeConvertResponse represents a converted datetime.
type TimeConvertResponse struct {
	Original  string `json:"original"`
	Converted string `json:"converted"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// TimeDiffRequest represents a datetime difference request.
type TimeDiffRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TimeDiffResponse represents the difference between two datetimes.
// Seconds is signed; the breakdown fields are absolute.
type TimeDiffResponse struct {
	Seconds int64 `json:"seconds"`
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Secs    int64 `json:"secs"`
}

// WorldTimeEntry is the current time in one timezone.
type WorldTimeEntry struct {
	Timezone      string `json:"timezone"`
	Datetime      string `json:"datetime"`
	Unix          int64  `json:"unix"`
	OffsetSeconds int    `json:"offset_seconds"`
}

// WorldTimesResponse represents the time across multiple zones.
type WorldTimesResponse struct {
	Times []WorldTimeEntry `json:"times"`
}

// TimezoneEntry represents one timezone catalog entry.
type TimezoneEntry struct {
	ZoneName      string `json:"zone_name"`
	Abbreviation  string `json:"abbreviation"`
	OffsetSeconds int    `json:"offset_seconds"`
	DST           int    `json:"dst"`
}

// ListTimezonesResponse represents a page of timezone entries.
type ListTimezonesResponse struct {
	Timezones []TimezoneEntry `json:"timezones"`
}

// TimezoneNamesResponse represents the full zone name catalog.
type TimezoneNamesResponse struct {
	Zones []string `json:"zones"`
}

// TimezoneAbbreviationsResponse represents the distinct abbreviations in use.
type TimezoneAbbreviationsResponse struct {
	Abbreviations []string `json:"abbreviations"`
}

// TimezoneOffsetsResponse represents the distinct UTC offsets in use.
type TimezoneOffsetsResponse struct {
	Offsets []int `json:"offsets"`
}

// MathEvalRequest represents an expression evaluation request.
type MathEvalRequest struct {
	Expr      string `json:"expr"`
	Precision *int   `json:"precision,omitempty"`
}

// MathEvalResponse represents a formatted evaluation result.
type MathEvalResponse struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
	Precision  *int   `json:"precision,omitempty"`
}

// SiteCheckRequest represents a site availability check request.
type SiteCheckRequest struct {
	URL string `json:"url"`
}

// SiteCheckResponse represents the outcome of a site check.
type SiteCheckResponse struct {
	URL            string            `json:"url"`
	FinalURL       string            `json:"final_url"`
	StatusCode     int               `json:"status_code"`
	OK             bool              `json:"ok"`
	ResponseTimeMs float64           `json:"response_time_ms"`
	Headers        map[string]string `json:"headers"`
	Redirected     bool              `json:"redirected"`
}

// DictionaryResponse represents a dictionary lookup result.
type DictionaryResponse struct {
	Word    string            `json:"word"`
	Found   bool              `json:"found"`
	Entries []json.RawMessage `json:"entries"`
}

// DataItemResponse is one aggregated data payload.
type DataItemResponse struct {
	Source  string          `json:"source"`
	Payload json.RawMessage `json:"payload"`
}

// DataResponse represents the aggregated data feed.
type DataResponse struct {
	Items []DataItemResponse `json:"items"`
}
