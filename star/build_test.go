package star_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/pilosa/tripstar"
	"github.com/pilosa/tripstar/mock"
	"github.com/pilosa/tripstar/star"
	"github.com/pilosa/tripstar/test"
)

func TestBuildExample(t *testing.T) {
	trips := []tripstar.Trip{
		{CheckoutDatetime: "01/05/2023 08:07:00 AM", CheckoutKioskID: "K1", DurationMinutes: "12", Membership: "Walk Up", BikeType: "Classic"},
	}
	kiosks := []tripstar.Kiosk{
		{KioskID: "K1", KioskName: "Congress & 5th", Location: "(30.2672, -97.7431)"},
	}
	schema, err := star.Build(context.Background(), trips, kiosks, 1)
	test.ErrNil(t, err, "building")

	test.MustBe(t, schema.Time, []star.TimeRow{{TID: 32, HourOfDay: 8, MinuteOfBucket: 0, TimeLabel: "08:00"}}, "dim_time")
	test.MustBe(t, schema.Date, []star.DateRow{{DID: 1, DayOfWeek: "Thursday", DayOfWeekNum: 5, MonthOfYear: "January", MonthOfYearNum: 1, Year: 2023}}, "dim_date")
	test.MustBe(t, schema.Location, []star.LocationRow{{LID: s("K1"), KioskName: s("Congress & 5th"), Latitude: f(30.2672), Longitude: f(-97.7431)}}, "dim_location")
	test.MustBe(t, schema.Junk, []star.JunkRow{{JID: "Walk Up_Classic", Subscription: s("Walk Up"), BikeType: s("Classic")}}, "dim_junk")
	test.MustBe(t, schema.Facts, []star.FactRow{{TID: 32, DID: 1, LID: s("K1"), JID: "Walk Up_Classic", TripDuration: 12, TripCount: 1}}, "fact_trips")
	test.MustBe(t, schema.Stats.Joined, 1, "joined")
}

func TestBuildDate(t *testing.T) {
	trips := []tripstar.Trip{
		{CheckoutDatetime: "02/01/2023 09:00:00 AM"}, // Wednesday
		{CheckoutDatetime: "01/06/2023 09:00:00 AM"}, // Friday
		{CheckoutDatetime: "01/05/2023 09:00:00 AM"}, // Thursday
		{CheckoutDatetime: "01/12/2023 10:00:00 PM"}, // Thursday, same row as the 5th
		{CheckoutDatetime: "12/31/2022 09:00:00 AM"}, // Saturday
		{CheckoutDatetime: "garbage"},
	}
	var stats star.Stats
	rows := star.BuildDate(star.Enrich(trips, &stats))

	test.MustBe(t, rows, []star.DateRow{
		{DID: 1, DayOfWeek: "Saturday", DayOfWeekNum: 7, MonthOfYear: "December", MonthOfYearNum: 12, Year: 2022},
		{DID: 2, DayOfWeek: "Thursday", DayOfWeekNum: 5, MonthOfYear: "January", MonthOfYearNum: 1, Year: 2023},
		{DID: 3, DayOfWeek: "Friday", DayOfWeekNum: 6, MonthOfYear: "January", MonthOfYearNum: 1, Year: 2023},
		{DID: 4, DayOfWeek: "Wednesday", DayOfWeekNum: 4, MonthOfYear: "February", MonthOfYearNum: 2, Year: 2023},
	})
}

func TestBuildTime(t *testing.T) {
	trips := []tripstar.Trip{
		{CheckoutDatetime: "01/05/2023 08:14:00 AM"},
		{CheckoutDatetime: "01/05/2023 08:07:00 AM"},
		{CheckoutDatetime: "01/05/2023 12:00:00 AM"},
		{CheckoutDatetime: "01/05/2023 11:59:59 PM"},
	}
	var stats star.Stats
	rows := star.BuildTime(star.Enrich(trips, &stats))

	test.MustBe(t, rows, []star.TimeRow{
		{TID: 0, HourOfDay: 0, MinuteOfBucket: 0, TimeLabel: "00:00"},
		{TID: 32, HourOfDay: 8, MinuteOfBucket: 0, TimeLabel: "08:00"},
		{TID: 95, HourOfDay: 23, MinuteOfBucket: 45, TimeLabel: "23:45"},
	})
}

func TestBuildJunk(t *testing.T) {
	trips := []tripstar.Trip{
		{CheckoutDatetime: "01/05/2023 08:07:00 AM", Membership: "Walk Up", BikeType: "Classic"},
		{CheckoutDatetime: "01/05/2023 08:07:00 AM", Membership: "Walk Up", BikeType: "classic"},
		{CheckoutDatetime: "01/05/2023 08:07:00 AM", Membership: "Walk Up", BikeType: "Classic"},
		{CheckoutDatetime: "01/05/2023 08:07:00 AM", Membership: "Local365", BikeType: ""},
		{CheckoutDatetime: "not a time", Membership: "Timeless", BikeType: "Classic"},
	}
	var stats star.Stats
	rows := star.BuildJunk(star.Enrich(trips, &stats))

	test.MustBe(t, rows, []star.JunkRow{
		{JID: "Local365", Subscription: s("Local365")},
		{JID: "Walk Up_Classic", Subscription: s("Walk Up"), BikeType: s("Classic")},
		{JID: "Walk Up_classic", Subscription: s("Walk Up"), BikeType: s("classic")},
	})
}

// sampleTrips returns n trips spread over many buckets, dates, kiosks, and
// junk values, with a sprinkling of bad timestamps and durations.
func sampleTrips(n int) []tripstar.Trip {
	subs := []string{"Walk Up", "Local365", "Student Membership", ""}
	bikes := []string{"classic", "electric", "Classic"}
	trips := make([]tripstar.Trip, n)
	for i := range trips {
		ampm := "AM"
		if i%3 == 0 {
			ampm = "PM"
		}
		trips[i] = tripstar.Trip{
			CheckoutDatetime: fmt.Sprintf("%02d/%02d/%d %02d:%02d:00 %s", i%12+1, i%28+1, 2020+i%3, i%12+1, (i*7)%60, ampm),
			CheckoutKioskID:  fmt.Sprintf("%d", 2490+i%17),
			DurationMinutes:  fmt.Sprintf("%d", i%45),
			Membership:       subs[i%len(subs)],
			BikeType:         bikes[i%len(bikes)],
		}
		switch {
		case i%101 == 0:
			trips[i].CheckoutDatetime = "bad"
		case i%53 == 0:
			trips[i].DurationMinutes = "n/a"
		}
	}
	return trips
}

func TestBuildFacts(t *testing.T) {
	trips := sampleTrips(5000)
	schema, err := star.Build(context.Background(), trips, nil, 1)
	test.ErrNil(t, err, "building")

	// Count the trips which should survive the joins and their durations
	// per key, without going through Aggregate.
	type key struct {
		tid  int
		date star.DateKey
		lid  string
		jid  string
	}
	expCount := make(map[key]int64)
	expDuration := make(map[key]int64)
	var survivors int64
	for _, c := range schema.Checkouts {
		if !c.Valid || !c.Junk.Subscription.Valid || !c.Junk.BikeType.Valid {
			continue
		}
		k := key{int(c.Bucket), c.Date, c.KioskID.String, c.Junk.JID()}
		expCount[k]++
		expDuration[k] += c.Duration
		survivors++
	}

	dates := make(map[int64]star.DateKey)
	for _, d := range schema.Date {
		dates[d.DID] = d.Key()
	}
	var total int64
	for _, fct := range schema.Facts {
		if fct.TripCount < 1 {
			t.Fatalf("fact with trip count %d: %+v", fct.TripCount, fct)
		}
		k := key{fct.TID, dates[fct.DID], fct.LID.String, fct.JID}
		test.MustBe(t, fct.TripCount, expCount[k], "trip count")
		test.MustBe(t, fct.TripDuration, expDuration[k], "trip duration")
		total += fct.TripCount
	}
	test.MustBe(t, len(schema.Facts), len(expCount), "fact rows")
	test.MustBe(t, total, survivors, "sum of trip count")
	test.MustBe(t, int64(schema.Stats.Joined), survivors, "joined")
	if schema.Stats.Timeless == 0 || schema.Stats.BadDuration == 0 {
		t.Fatalf("expected some bad rows in sample: %+v", schema.Stats)
	}
}

func TestBuildConcurrencyInvariant(t *testing.T) {
	trips := sampleTrips(3001)
	kiosks := []tripstar.Kiosk{{KioskID: "2490", KioskName: "a", Location: "(30.1, -97.1)"}}

	exp, err := star.Build(context.Background(), trips, kiosks, 1)
	test.ErrNil(t, err, "building serially")
	for _, c := range []int{2, 4, 7, 64, 5000} {
		got, err := star.Build(context.Background(), trips, kiosks, c)
		test.ErrNil(t, err, fmt.Sprintf("building with concurrency %d", c))
		test.MustBe(t, got, exp, fmt.Sprintf("concurrency %d", c))
	}
}

func TestBuildTimelessTrips(t *testing.T) {
	trips := []tripstar.Trip{
		{CheckoutDatetime: "13/45/2023 08:07:00 AM", CheckoutKioskID: "K1", DurationMinutes: "12", Membership: "Walk Up", BikeType: "Classic"},
	}
	kiosks := []tripstar.Kiosk{{KioskID: "K1", KioskName: "Congress & 5th", Location: "(30.2672, -97.7431)"}}
	schema, err := star.Build(context.Background(), trips, kiosks, 4)
	test.ErrNil(t, err, "building")

	test.MustBe(t, len(schema.Time), 0, "dim_time rows")
	test.MustBe(t, len(schema.Date), 0, "dim_date rows")
	test.MustBe(t, len(schema.Junk), 0, "dim_junk rows")
	test.MustBe(t, len(schema.Facts), 0, "fact rows")
	test.MustBe(t, len(schema.Location), 1, "unused kiosk still present")
	test.MustBe(t, schema.Stats.Timeless, 1, "timeless")
}

func TestBuildBadDuration(t *testing.T) {
	trips := []tripstar.Trip{
		{CheckoutDatetime: "01/05/2023 08:07:00 AM", CheckoutKioskID: "K1", DurationMinutes: "12", Membership: "Walk Up", BikeType: "Classic"},
		{CheckoutDatetime: "01/05/2023 08:10:00 AM", CheckoutKioskID: "K1", DurationMinutes: "twelve", Membership: "Walk Up", BikeType: "Classic"},
	}
	schema, err := star.Build(context.Background(), trips, nil, 1)
	test.ErrNil(t, err, "building")
	test.MustBe(t, schema.Facts, []star.FactRow{{TID: 32, DID: 1, LID: s("K1"), JID: "Walk Up_Classic", TripDuration: 12, TripCount: 2}})
	test.MustBe(t, schema.Stats.BadDuration, 1, "bad durations")
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := star.Build(ctx, sampleTrips(10), nil, 2)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestAggregateEmpty(t *testing.T) {
	facts, err := star.Aggregate(context.Background(), nil, nil, nil, 8)
	test.ErrNil(t, err, "aggregating")
	test.MustBe(t, facts, []star.FactRow{})
}

func TestSchemaReport(t *testing.T) {
	trips := []tripstar.Trip{
		{CheckoutDatetime: "01/05/2023 08:07:00 AM", CheckoutKioskID: "K1", DurationMinutes: "12", Membership: "Walk Up", BikeType: "Classic"},
		{CheckoutDatetime: "nope", DurationMinutes: "?"},
	}
	kiosks := []tripstar.Kiosk{{KioskID: "K1", Location: "(1, x)"}}
	schema, err := star.Build(context.Background(), trips, kiosks, 2)
	test.ErrNil(t, err, "building")

	stats := &mock.RecordingStatter{}
	schema.Report(stats)
	test.MustBe(t, stats.Counts, map[string]int64{
		"trips.read":          2,
		"trips.timeless":      1,
		"trips.bad_duration":  1,
		"kiosks.read":         1,
		"kiosks.bad_location": 1,
		"fact.rows":           1,
	})
}
