// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

// Package timeservice provides NTP-backed time queries, timezone
// conversion, formatting, and duration arithmetic.
//
// Wall clock reads come from a configurable list of NTP servers queried in
// order until one answers. Timezone names follow the IANA database
// ("America/New_York"); "UTC" and "Etc/UTC" resolve without a zoneinfo
// lookup.
package timeservice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/ntp"
)

var (
	// ErrUnknownTimezone is returned when a timezone name cannot be resolved.
	ErrUnknownTimezone = errors.New("unknown time zone")

	// ErrAllServersFailed is returned when no configured NTP server answered.
	ErrAllServersFailed = errors.New("all NTP servers failed")

	// ErrInvalidDatetime is returned when a datetime string cannot be parsed.
	ErrInvalidDatetime = errors.New("invalid datetime")
)

// datetime layouts accepted by Convert and Diff, tried in order
var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NTPResult holds a single NTP server response.
type NTPResult struct {
	Server        string
	Time          time.Time
	SystemTime    time.Time
	OffsetSeconds float64
	LeapIndicator int
}

// Diff describes the difference between two instants.
type Diff struct {
	Seconds int64
	Days    int64
	Hours   int64
	Minutes int64
	Secs    int64
}

// WorldTime is the current time in one timezone.
type WorldTime struct {
	Timezone      string
	Datetime      string
	Unix          int64
	OffsetSeconds int
}

// querier abstracts the NTP client for testing.
type querier func(server string, timeout time.Duration) (*ntp.Response, error)

func ntpQuery(server string, timeout time.Duration) (*ntp.Response, error) {
	return ntp.QueryWithOptions(server, ntp.QueryOptions{Timeout: timeout})
}

// Service answers time queries against a set of NTP servers.
type Service struct {
	servers []string
	timeout time.Duration
	query   querier
}

// NewService creates a time service. Servers are tried in order on each
// query; the first successful response wins.
func NewService(servers []string, timeout time.Duration) *Service {
	return &Service{
		servers: servers,
		timeout: timeout,
		query:   ntpQuery,
	}
}

// QueryNTP returns the time reported by the first reachable NTP server.
func (s *Service) QueryNTP() (*NTPResult, error) {
	var lastErr error
	for _, server := range s.servers {
		resp, err := s.query(server, s.timeout)
		if err != nil {
			lastErr = err
			continue
		}
		system := time.Now()
		return &NTPResult{
			Server:        server,
			Time:          system.Add(resp.ClockOffset),
			SystemTime:    system,
			OffsetSeconds: resp.ClockOffset.Seconds(),
			LeapIndicator: int(resp.Leap),
		}, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllServersFailed, lastErr)
	}
	return nil, ErrAllServersFailed
}

// Now returns the current NTP time in the given timezone.
func (s *Service) Now(tzName string) (time.Time, *NTPResult, error) {
	loc, err := LoadLocation(tzName)
	if err != nil {
		return time.Time{}, nil, err
	}
	res, err := s.QueryNTP()
	if err != nil {
		return time.Time{}, nil, err
	}
	return res.Time.In(loc), res, nil
}

// Convert parses value, attaching fromTZ when the value carries no
// offset, and returns it expressed in toTZ.
func (s *Service) Convert(value, fromTZ, toTZ string) (parsed, converted time.Time, err error) {
	source, err := LoadLocation(fromTZ)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	target, err := LoadLocation(toTZ)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	parsed, err = parseDatetime(value, source)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return parsed, parsed.In(target), nil
}

// Format renders a Unix timestamp in the given timezone using a Go
// reference layout.
func (s *Service) Format(unixSeconds int64, tzName, layout string) (string, error) {
	loc, err := LoadLocation(tzName)
	if err != nil {
		return "", err
	}
	return time.Unix(unixSeconds, 0).In(loc).Format(layout), nil
}

// DiffBetween computes the signed difference end minus start, with the
// absolute value broken down into days, hours, minutes, and seconds.
func (s *Service) DiffBetween(start, end string) (*Diff, error) {
	startT, err := parseDatetime(start, time.UTC)
	if err != nil {
		return nil, err
	}
	endT, err := parseDatetime(end, time.UTC)
	if err != nil {
		return nil, err
	}

	seconds := int64(endT.Sub(startT).Seconds())
	abs := seconds
	if abs < 0 {
		abs = -abs
	}
	days := abs / 86400
	rem := abs % 86400
	hours := rem / 3600
	rem %= 3600

	return &Diff{
		Seconds: seconds,
		Days:    days,
		Hours:   hours,
		Minutes: rem / 60,
		Secs:    rem % 60,
	}, nil
}

// WorldTimes returns the current NTP time in each of the given zones.
// All entries share the same underlying instant.
func (s *Service) WorldTimes(zones []string) ([]WorldTime, error) {
	locs := make([]*time.Location, len(zones))
	for i, zone := range zones {
		loc, err := LoadLocation(zone)
		if err != nil {
			return nil, err
		}
		locs[i] = loc
	}

	res, err := s.QueryNTP()
	if err != nil {
		return nil, err
	}

	results := make([]WorldTime, len(zones))
	for i, zone := range zones {
		local := res.Time.In(locs[i])
		_, offset := local.Zone()
		results[i] = WorldTime{
			Timezone:      zone,
			Datetime:      local.Format(time.RFC3339),
			Unix:          res.Time.Unix(),
			OffsetSeconds: offset,
		}
	}
	return results, nil
}

// LoadLocation resolves an IANA timezone name. "UTC" and "Etc/UTC" are
// matched case-insensitively without consulting the zoneinfo database.
func LoadLocation(name string) (*time.Location, error) {
	switch strings.ToUpper(name) {
	case "UTC", "ETC/UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTimezone, name)
	}
	return loc, nil
}

func parseDatetime(value string, fallback *time.Location) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, value, fallback); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDatetime, value)
}
