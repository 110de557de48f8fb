// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package timeservice

import (
	"errors"
	"testing"
	"time"

	"github.com/beevik/ntp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuerier returns a canned response for named servers and an error for
// everything else.
func fakeQuerier(responses map[string]*ntp.Response) querier {
	return func(server string, timeout time.Duration) (*ntp.Response, error) {
		if resp, ok := responses[server]; ok {
			return resp, nil
		}
		return nil, errors.New("connection refused")
	}
}

func newTestService(responses map[string]*ntp.Response, servers ...string) *Service {
	s := NewService(servers, time.Second)
	s.query = fakeQuerier(responses)
	return s
}

func TestQueryNTPFailover(t *testing.T) {
	responses := map[string]*ntp.Response{
		"good.example.com": {ClockOffset: 250 * time.Millisecond},
	}
	s := newTestService(responses, "dead.example.com", "good.example.com")

	res, err := s.QueryNTP()
	require.NoError(t, err)

	assert.Equal(t, "good.example.com", res.Server)
	assert.InDelta(t, 0.25, res.OffsetSeconds, 0.001)
	assert.WithinDuration(t, time.Now().Add(250*time.Millisecond), res.Time, time.Second)
}

func TestQueryNTPAllFail(t *testing.T) {
	s := newTestService(nil, "dead1.example.com", "dead2.example.com")

	_, err := s.QueryNTP()
	assert.ErrorIs(t, err, ErrAllServersFailed)
}

func TestNow(t *testing.T) {
	responses := map[string]*ntp.Response{
		"good.example.com": {ClockOffset: 0},
	}
	s := newTestService(responses, "good.example.com")

	now, res, err := s.Now("UTC")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, time.UTC, now.Location())

	_, _, err = s.Now("Not/AZone")
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}

func TestConvert(t *testing.T) {
	s := newTestService(nil)

	parsed, converted, err := s.Convert("2026-01-15T12:00:00", "UTC", "America/New_York")
	require.NoError(t, err)

	assert.Equal(t, 12, parsed.Hour())
	// New York is UTC-5 in January
	assert.Equal(t, 7, converted.Hour())
	assert.True(t, parsed.Equal(converted))
}

func TestConvertExplicitOffsetWins(t *testing.T) {
	s := newTestService(nil)

	// Value carries +02:00; the from timezone must not override it
	parsed, converted, err := s.Convert("2026-01-15T12:00:00+02:00", "America/New_York", "UTC")
	require.NoError(t, err)

	assert.Equal(t, 10, converted.Hour())
	assert.True(t, parsed.Equal(converted))
}

func TestConvertErrors(t *testing.T) {
	s := newTestService(nil)

	_, _, err := s.Convert("not a time", "UTC", "UTC")
	assert.ErrorIs(t, err, ErrInvalidDatetime)

	_, _, err = s.Convert("2026-01-15T12:00:00", "Bad/Zone", "UTC")
	assert.ErrorIs(t, err, ErrUnknownTimezone)

	_, _, err = s.Convert("2026-01-15T12:00:00", "UTC", "Bad/Zone")
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}

func TestFormat(t *testing.T) {
	s := newTestService(nil)

	out, err := s.Format(1700000000, "UTC", "2006-01-02 15:04:05")
	require.NoError(t, err)
	assert.Equal(t, "2023-11-14 22:13:20", out)

	_, err = s.Format(1700000000, "Bad/Zone", time.RFC3339)
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}

func TestDiffBetween(t *testing.T) {
	s := newTestService(nil)

	d, err := s.DiffBetween("2026-01-01T00:00:00", "2026-01-02T01:02:03")
	require.NoError(t, err)

	assert.Equal(t, int64(90123), d.Seconds)
	assert.Equal(t, int64(1), d.Days)
	assert.Equal(t, int64(1), d.Hours)
	assert.Equal(t, int64(2), d.Minutes)
	assert.Equal(t, int64(3), d.Secs)
}

func TestDiffBetweenNegative(t *testing.T) {
	s := newTestService(nil)

	d, err := s.DiffBetween("2026-01-02T00:00:00", "2026-01-01T00:00:00")
	require.NoError(t, err)

	assert.Equal(t, int64(-86400), d.Seconds)
	// Breakdown fields are absolute
	assert.Equal(t, int64(1), d.Days)
	assert.Equal(t, int64(0), d.Hours)
}

func TestWorldTimes(t *testing.T) {
	responses := map[string]*ntp.Response{
		"good.example.com": {ClockOffset: 0},
	}
	s := newTestService(responses, "good.example.com")

	times, err := s.WorldTimes([]string{"UTC", "America/New_York", "Asia/Tokyo"})
	require.NoError(t, err)
	require.Len(t, times, 3)

	// All entries reflect the same instant
	assert.Equal(t, times[0].Unix, times[1].Unix)
	assert.Equal(t, times[1].Unix, times[2].Unix)
	assert.Equal(t, "UTC", times[0].Timezone)
	assert.Equal(t, 0, times[0].OffsetSeconds)
}

func TestWorldTimesUnknownZone(t *testing.T) {
	s := newTestService(nil)

	_, err := s.WorldTimes([]string{"UTC", "Nope/Nowhere"})
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}

func TestLoadLocationUTCAliases(t *testing.T) {
	for _, name := range []string{"UTC", "utc", "Etc/UTC", "etc/utc"} {
		loc, err := LoadLocation(name)
		require.NoError(t, err, name)
		assert.Equal(t, time.UTC, loc)
	}
}
