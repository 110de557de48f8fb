// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

// Package timezone provides an enumerable catalog of IANA timezones with
// current offset, abbreviation, and DST information.
//
// The catalog is built once at startup by scanning the system zoneinfo
// tree from the same locations the Go runtime consults. When no tree is
// present a compact built-in list of common zones is used instead.
package timezone

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
)

// ErrUnknownZone is returned when a zone name cannot be resolved.
var ErrUnknownZone = errors.New("unknown time zone")

// zoneinfo roots, in the order the Go runtime tries them
var zoneinfoDirs = []string{
	"/usr/share/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/usr/lib/locale/TZ",
}

// non-zone files that live inside zoneinfo trees
var zoneinfoSkip = map[string]bool{
	"posixrules":        true,
	"localtime":         true,
	"leapseconds":       true,
	"leap-seconds.list": true,
	"tzdata.zi":         true,
	"zone.tab":          true,
	"zone1970.tab":      true,
	"zonenow.tab":       true,
	"iso3166.tab":       true,
	"SECURITY":          true,
	"+VERSION":          true,
}

// fallbackZones is used when no zoneinfo tree can be found.
var fallbackZones = []string{
	"Africa/Cairo", "Africa/Johannesburg", "Africa/Lagos", "Africa/Nairobi",
	"America/Anchorage", "America/Bogota", "America/Chicago", "America/Denver",
	"America/Los_Angeles", "America/Mexico_City", "America/New_York",
	"America/Phoenix", "America/Sao_Paulo", "America/Toronto",
	"Asia/Dhaka", "Asia/Dubai", "Asia/Hong_Kong", "Asia/Jakarta",
	"Asia/Kolkata", "Asia/Seoul", "Asia/Shanghai", "Asia/Singapore",
	"Asia/Tokyo", "Australia/Melbourne", "Australia/Perth", "Australia/Sydney",
	"Etc/UTC", "Europe/Amsterdam", "Europe/Berlin", "Europe/Istanbul",
	"Europe/London", "Europe/Madrid", "Europe/Moscow", "Europe/Paris",
	"Europe/Rome", "Pacific/Auckland", "Pacific/Honolulu", "UTC",
}

// Entry describes one timezone at a point in time.
type Entry struct {
	ZoneName      string
	Abbreviation  string
	OffsetSeconds int
	DST           int
}

// Filter narrows and pages List results. Nil pointer fields are ignored.
type Filter struct {
	Search       string
	Abbreviation string
	DST          *int
	MinOffset    *int
	MaxOffset    *int
	Limit        int
	Offset       int
}

// Service serves timezone catalog queries.
type Service struct {
	zones []string
	now   func() time.Time
}

// NewService builds the timezone catalog.
func NewService() *Service {
	return &Service{
		zones: availableZones(),
		now:   time.Now,
	}
}

// ZoneNames returns every catalog zone name, sorted.
func (s *Service) ZoneNames() []string {
	out := make([]string, len(s.zones))
	copy(out, s.zones)
	return out
}

// Get returns the current entry for one zone.
func (s *Service) Get(zoneName string) (*Entry, error) {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownZone, zoneName)
	}
	e := s.entryFor(zoneName, loc)
	return &e, nil
}

// List returns catalog entries matching the filter, paged by
// Filter.Offset and Filter.Limit. A zero limit defaults to 100.
func (s *Service) List(f Filter) ([]Entry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	search := strings.ToLower(f.Search)

	results := make([]Entry, 0, limit)
	matched := 0
	for _, zone := range s.zones {
		if search != "" && !strings.Contains(strings.ToLower(zone), search) {
			continue
		}
		loc, err := time.LoadLocation(zone)
		if err != nil {
			continue
		}
		entry := s.entryFor(zone, loc)
		if f.Abbreviation != "" && entry.Abbreviation != f.Abbreviation {
			continue
		}
		if f.DST != nil && entry.DST != *f.DST {
			continue
		}
		if f.MinOffset != nil && entry.OffsetSeconds < *f.MinOffset {
			continue
		}
		if f.MaxOffset != nil && entry.OffsetSeconds > *f.MaxOffset {
			continue
		}
		if matched < f.Offset {
			matched++
			continue
		}
		results = append(results, entry)
		matched++
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Abbreviations returns the sorted set of abbreviations currently in use
// across the catalog.
func (s *Service) Abbreviations() []string {
	seen := make(map[string]bool)
	for _, zone := range s.zones {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			continue
		}
		abbr, _ := s.now().In(loc).Zone()
		if abbr != "" {
			seen[abbr] = true
		}
	}
	out := make([]string, 0, len(seen))
	for abbr := range seen {
		out = append(out, abbr)
	}
	sort.Strings(out)
	return out
}

// Offsets returns the sorted set of UTC offsets (in seconds) currently in
// use across the catalog.
func (s *Service) Offsets() []int {
	seen := make(map[int]bool)
	for _, zone := range s.zones {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			continue
		}
		_, offset := s.now().In(loc).Zone()
		seen[offset] = true
	}
	out := make([]int, 0, len(seen))
	for offset := range seen {
		out = append(out, offset)
	}
	sort.Ints(out)
	return out
}

func (s *Service) entryFor(zoneName string, loc *time.Location) Entry {
	now := s.now().In(loc)
	abbr, offset := now.Zone()
	return Entry{
		ZoneName:      zoneName,
		Abbreviation:  abbr,
		OffsetSeconds: offset,
		DST:           dstFlag(now, loc),
	}
}

// dstFlag reports whether loc observes daylight saving at t. The standard
// offset is taken as the smaller of the January and July offsets; a larger
// current offset means DST is in effect.
func dstFlag(t time.Time, loc *time.Location) int {
	_, current := t.Zone()
	_, jan := time.Date(t.Year(), time.January, 1, 12, 0, 0, 0, loc).Zone()
	_, jul := time.Date(t.Year(), time.July, 1, 12, 0, 0, 0, loc).Zone()
	standard := jan
	if jul < jan {
		standard = jul
	}
	if current > standard {
		return 1
	}
	return 0
}

func availableZones() []string {
	for _, dir := range zoneinfoDirs {
		if zones := scanZoneinfo(dir); len(zones) > 0 {
			return zones
		}
	}
	zones := make([]string, len(fallbackZones))
	copy(zones, fallbackZones)
	sort.Strings(zones)
	return zones
}

func scanZoneinfo(root string) []string {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}

	var zones []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			// right/ and posix/ hold alternate leap-second variants
			if name == "right" || name == "posix" {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if !isZoneName(rel) {
			return nil
		}
		zones = append(zones, rel)
		return nil
	})
	sort.Strings(zones)
	return zones
}

// isZoneName filters out metadata files shipped alongside zone data.
func isZoneName(rel string) bool {
	if zoneinfoSkip[rel] || zoneinfoSkip[filepath.Base(rel)] {
		return false
	}
	// Zone names start each segment with an uppercase letter
	for _, segment := range strings.Split(rel, "/") {
		if segment == "" {
			return false
		}
		first := rune(segment[0])
		if !unicode.IsUpper(first) {
			return false
		}
	}
	return true
}
