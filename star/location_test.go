package star_test

import (
	"database/sql"
	"strconv"
	"testing"

	"github.com/pilosa/tripstar"
	"github.com/pilosa/tripstar/star"
	"github.com/pilosa/tripstar/test"
)

func f(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func s(v string) sql.NullString { return sql.NullString{String: v, Valid: true} }

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in       string
		lat, lon sql.NullFloat64
	}{
		{in: "(30.2817, -97.7394)", lat: f(30.2817), lon: f(-97.7394)},
		{in: "(30.26483,\n-97.739)", lat: f(30.2648), lon: f(-97.739)},
		{in: "(30.267245, -97.743125)", lat: f(30.2672), lon: f(-97.7431)},
		{in: "30.1,-97.2", lat: f(30.1), lon: f(-97.2)},
		{in: "(1.00005, -1.00005)", lat: f(1.0001), lon: f(-1.0001)},
		{in: "(30.2817)", lat: f(30.2817)},
		{in: "(abc, -97.7394)", lon: f(-97.7394)},
		{in: "(NaN, Inf)"},
		{in: "()"},
		{in: ""},
	}
	for _, tst := range tests {
		t.Run(tst.in, func(t *testing.T) {
			lat, lon := star.ParseLocation(tst.in)
			test.MustBe(t, lat, tst.lat, "latitude")
			test.MustBe(t, lon, tst.lon, "longitude")
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in, exp float64
	}{
		{1.00005, 1.0001},
		{1.00004, 1},
		{-1.00005, -1.0001},
		{0.12345, 0.1235},
		{2.5, 2.5},
		{97.73949999, 97.7395},
		{30, 30},
	}
	for _, tst := range tests {
		test.MustBe(t, star.Round(tst.in, 4), tst.exp, strconv.FormatFloat(tst.in, 'f', -1, 64))
	}
}

func TestBuildLocation(t *testing.T) {
	kiosks := []tripstar.Kiosk{
		{KioskID: "K2", KioskName: "Unused", Location: "(30.1, -97.1)"},
		{KioskID: "K1", KioskName: "Congress & 5th", Location: "(30.2672, -97.7431)"},
		{KioskID: "K1", KioskName: "Congress & 5th", Location: "(30.26720, -97.74310)"},
		{KioskID: "K3", KioskName: "Broken", Location: "nowhere"},
	}
	var stats star.Stats
	rows := star.BuildLocation(kiosks, &stats)

	test.MustBe(t, rows, []star.LocationRow{
		{LID: s("K1"), KioskName: s("Congress & 5th"), Latitude: f(30.2672), Longitude: f(-97.7431)},
		{LID: s("K2"), KioskName: s("Unused"), Latitude: f(30.1), Longitude: f(-97.1)},
		{LID: s("K3"), KioskName: s("Broken")},
	})
	test.MustBe(t, stats.Kiosks, 4, "kiosks")
	test.MustBe(t, stats.BadLocation, 1, "bad locations")
}
