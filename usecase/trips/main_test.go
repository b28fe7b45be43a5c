package trips_test

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pilosa/tripstar/star"
	"github.com/pilosa/tripstar/test"
	"github.com/pilosa/tripstar/usecase/trips"
	"github.com/pilosa/tripstar/warehouse"
)

const tripData = `Trip ID,Membership or Pass Type,Bike Type,Checkout Datetime,Checkout Date,Checkout Time,Checkout Kiosk ID,Checkout Kiosk,Return Kiosk ID,Return Kiosk,Trip Duration Minutes,Month,Year
27632207,Walk Up,Classic,01/05/2023 08:07:00 AM,01/05/2023,8:07:00,K1,Congress & 5th,K2,Unused,12,1,2023
27632208,Walk Up,Classic,01/05/2023 08:14:00 AM,01/05/2023,8:14:00,K1,Congress & 5th,K2,Unused,8,1,2023
27632209,Local365,electric,01/12/2023 05:30:00 PM,01/12/2023,17:30:00,K2,Unused,K1,Congress & 5th,n/a,1,2023
27632210,Walk Up,Classic,sometime,,,K1,Congress & 5th,K1,Congress & 5th,4,1,2023
27632211,Walk Up,Classic,01/05/2023 08:20:00 AM
`

const kioskData = `Kiosk ID,Kiosk Name,Kiosk Status,Location,Address
K1,Congress & 5th,active,"(30.2672, -97.7431)",500 Congress Ave
K2,Unused,closed,"(30.26483,
-97.739)",
K3,Nowhere,closed,,
`

func newMain(t *testing.T, logs *bytes.Buffer) (*trips.Main, string) {
	t.Helper()
	dir := t.TempDir()
	m := trips.NewMain()
	m.Trips = test.WriteFile(t, dir, "trips.csv", tripData)
	m.Kiosks = test.WriteFile(t, dir, "kiosks.csv", kioskData)
	m.DBDriver = warehouse.SQLite
	m.DBName = filepath.Join(dir, "star.db")
	m.DBHost = ""
	m.Concurrency = 3
	m.BatchSize = 2
	m.SetOutput(logs)
	return m, m.DBName
}

func ns(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func TestRun(t *testing.T) {
	logs := &bytes.Buffer{}
	m, path := newMain(t, logs)
	m.Verbose = true
	for run := 0; run < 2; run++ {
		test.ErrNil(t, m.RunContext(context.Background()), "running")
	}

	db, err := warehouse.Open(context.Background(), warehouse.Config{Driver: warehouse.SQLite, Name: path})
	test.ErrNil(t, err, "opening warehouse")
	defer db.Close()
	ctx := context.Background()

	times, err := warehouse.Read[star.TimeRow](ctx, db, warehouse.DimTime)
	test.ErrNil(t, err, "reading dim_time")
	test.MustBe(t, times, []star.TimeRow{
		{TID: 32, HourOfDay: 8, MinuteOfBucket: 0, TimeLabel: "08:00"},
		{TID: 70, HourOfDay: 17, MinuteOfBucket: 30, TimeLabel: "17:30"},
	}, "dim_time")

	dates, err := warehouse.Read[star.DateRow](ctx, db, warehouse.DimDate)
	test.ErrNil(t, err, "reading dim_date")
	test.MustBe(t, dates, []star.DateRow{
		{DID: 1, DayOfWeek: "Thursday", DayOfWeekNum: 5, MonthOfYear: "January", MonthOfYearNum: 1, Year: 2023},
	}, "dim_date")

	locs, err := warehouse.Read[star.LocationRow](ctx, db, warehouse.DimLocation)
	test.ErrNil(t, err, "reading dim_location")
	test.MustBe(t, len(locs), 3, "dim_location rows")
	test.MustBe(t, locs[1].LID, ns("K2"), "unused kiosk")
	test.MustBe(t, locs[1].Latitude.Float64, 30.2648, "rounded latitude")
	test.MustBe(t, locs[2].Latitude.Valid, false, "missing location")

	junk, err := warehouse.Read[star.JunkRow](ctx, db, warehouse.DimJunk)
	test.ErrNil(t, err, "reading dim_junk")
	test.MustBe(t, junk, []star.JunkRow{
		{JID: "Local365_electric", Subscription: ns("Local365"), BikeType: ns("electric")},
		{JID: "Walk Up_Classic", Subscription: ns("Walk Up"), BikeType: ns("Classic")},
	}, "dim_junk")

	facts, err := warehouse.Read[star.FactRow](ctx, db, warehouse.FactTrips)
	test.ErrNil(t, err, "reading fact_trips")
	test.MustBe(t, facts, []star.FactRow{
		{TID: 32, DID: 1, LID: ns("K1"), JID: "Walk Up_Classic", TripDuration: 20, TripCount: 2},
		{TID: 70, DID: 1, LID: ns("K2"), JID: "Local365_electric", TripDuration: 0, TripCount: 1},
	}, "fact_trips")

	out := logs.String()
	for _, exp := range []string{"starting run", "skipped 1 malformed rows", "sample trip 1: checkout=2023-01-05 08:07:00", "checkout=null", "complete"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("logs don't contain %q:\n%s", exp, out)
		}
	}
}

func TestRunTruncateAndStats(t *testing.T) {
	logs := &bytes.Buffer{}
	m, _ := newMain(t, logs)
	m.Truncate = true
	m.Stats = true
	test.ErrNil(t, m.RunContext(context.Background()), "running")
	for _, exp := range []string{"trips.read: 4", "trips.timeless: 1", "fact.rows: 2", "stage.write"} {
		if !strings.Contains(logs.String(), exp) {
			t.Fatalf("stats output doesn't contain %q:\n%s", exp, logs.String())
		}
	}
}

func TestRunLogPath(t *testing.T) {
	logs := &bytes.Buffer{}
	m, _ := newMain(t, logs)
	m.LogPath = filepath.Join(t.TempDir(), "run.log")
	test.ErrNil(t, m.RunContext(context.Background()), "running")
	if strings.Contains(logs.String(), "starting run") {
		t.Fatalf("logged to output instead of file:\n%s", logs.String())
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(m *trips.Main)
		expErr string
	}{
		{
			name:   "missing trips",
			modify: func(m *trips.Main) { m.Trips = "/nonexistent/trips.csv" },
			expErr: "loading trips",
		},
		{
			name:   "bad kiosk header",
			modify: func(m *trips.Main) { m.Kiosks = test.WriteFile(t, t.TempDir(), "k.csv", "Kiosk ID,Name\nK1,x\n") },
			expErr: "loading kiosks",
		},
		{
			name:   "bad s3 url",
			modify: func(m *trips.Main) { m.Trips = "s3://bucket-only" },
			expErr: "getting trip source",
		},
		{
			name:   "bad driver",
			modify: func(m *trips.Main) { m.DBDriver = "oracle" },
			expErr: "validating warehouse config",
		},
		{
			name:   "unwritable warehouse",
			modify: func(m *trips.Main) { m.DBName = "/nonexistent/dir/star.db" },
			expErr: "opening warehouse",
		},
	}
	for _, tst := range tests {
		t.Run(tst.name, func(t *testing.T) {
			m, _ := newMain(t, &bytes.Buffer{})
			tst.modify(m)
			err := m.RunContext(context.Background())
			if err == nil || !strings.Contains(err.Error(), tst.expErr) {
				t.Fatalf("expected error containing %q, got %v", tst.expErr, err)
			}
		})
	}
}

func TestSchedule(t *testing.T) {
	logs := &bytes.Buffer{}
	m, _ := newMain(t, logs)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	test.ErrNil(t, m.Schedule(ctx, 50*time.Millisecond, 2), "scheduling")
	if ctx.Err() != nil {
		t.Fatal("schedule didn't finish its runs before the timeout")
	}
	if n := strings.Count(logs.String(), "complete: star schema written"); n != 2 {
		t.Fatalf("expected 2 completed runs, got %d:\n%s", n, logs.String())
	}

	if err := m.Schedule(ctx, 0, 1); err == nil {
		t.Fatal("expected error for zero interval")
	}
}
