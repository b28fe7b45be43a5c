// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

// Package trips runs the bike-share star schema job: load the trip and kiosk
// extracts, build the dimensions and fact table, and replace them in the
// warehouse.
package trips

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pilosa/tripstar"
	"github.com/pilosa/tripstar/aws/s3"
	"github.com/pilosa/tripstar/csv"
	"github.com/pilosa/tripstar/star"
	"github.com/pilosa/tripstar/termstat"
	"github.com/pilosa/tripstar/warehouse"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Main contains the configuration for one run of the job.
type Main struct {
	Trips  string `help:"Trip extract: local path, http(s) URL, or s3://bucket/key."`
	Kiosks string `help:"Kiosk registry extract: local path, http(s) URL, or s3://bucket/key."`

	DBDriver   string `flag:"db-driver" help:"Warehouse driver: postgres, mysql, or sqlite."`
	DBHost     string `flag:"db-host" help:"Warehouse host."`
	DBPort     int    `flag:"db-port" help:"Warehouse port. 0 means the driver's default."`
	DBUser     string `flag:"db-user" help:"Warehouse user."`
	DBPassword string `flag:"db-password" help:"Warehouse password."`
	DBName     string `flag:"db-name" help:"Warehouse database name, or file path for sqlite."`
	DBSSLMode  string `flag:"db-sslmode" help:"Postgres sslmode."`

	Concurrency int    `help:"Number of goroutines aggregating facts."`
	BatchSize   int    `flag:"batch-size" help:"Rows per INSERT statement."`
	Truncate    bool   `help:"Keep existing tables and delete their rows instead of dropping them."`
	Verbose     bool   `help:"Enable verbose logging, including sample parsed trips."`
	LogPath     string `flag:"log-path" help:"Log to this file instead of stderr."`
	Stats       bool   `help:"Print counters and stage timings to stderr while running."`

	S3Region   string `flag:"s3-region" help:"AWS region for s3:// inputs."`
	S3Endpoint string `flag:"s3-endpoint" help:"Alternate S3 endpoint, e.g. for minio."`

	stderr io.Writer
	log    tripstar.Logger
	stats  tripstar.Statter
}

// NewMain gets a new Main with the default configuration.
func NewMain() *Main {
	return &Main{
		Trips:       "Austin_MetroBike_Trips.csv",
		Kiosks:      "Austin_MetroBike_Kiosk_Locations.csv",
		DBDriver:    warehouse.Postgres,
		DBHost:      "localhost",
		DBPort:      5432,
		DBUser:      "postgres",
		DBName:      "postgres",
		Concurrency: 1,
		BatchSize:   warehouse.DefaultBatchSize,

		stderr: os.Stderr,
		log:    tripstar.NopLogger{},
		stats:  tripstar.NopStatter{},
	}
}

// SetOutput sets where logs and stats go when LogPath is empty.
func (m *Main) SetOutput(w io.Writer) {
	if w != nil {
		m.stderr = w
	}
}

// WarehouseConfig returns the warehouse configuration described by m.
func (m *Main) WarehouseConfig() warehouse.Config {
	return warehouse.Config{
		Driver:   m.DBDriver,
		Host:     m.DBHost,
		Port:     m.DBPort,
		User:     m.DBUser,
		Password: m.DBPassword,
		Name:     m.DBName,
		SSLMode:  m.DBSSLMode,
	}
}

// Run runs the job once. It is cancelled by SIGINT or SIGTERM.
func (m *Main) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return m.RunContext(ctx)
}

// RunContext runs the job once: every warehouse table is replaced with one
// computed from the current extracts.
func (m *Main) RunContext(ctx context.Context) (err error) {
	closeLog, err := m.setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	if m.Stats {
		collector := termstat.NewCollector(m.stderr, 0)
		m.stats = collector
		defer collector.Close()
	} else {
		m.stats = tripstar.NopStatter{}
	}

	runID := uuid.New()
	start := time.Now()
	cfg := m.WarehouseConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.log.Printf("starting run %s: trips=%s kiosks=%s warehouse=%s", runID, m.Trips, m.Kiosks, cfg)

	var trips []tripstar.Trip
	var kiosks []tripstar.Kiosk
	err = tripstar.Timed(m.stats, "stage.load", func() error {
		return m.load(ctx, &trips, &kiosks)
	})
	if err != nil {
		return err
	}

	var schema *star.Schema
	err = tripstar.Timed(m.stats, "stage.build", func() error {
		var err error
		schema, err = star.Build(ctx, trips, kiosks, m.Concurrency)
		return errors.Wrap(err, "building star schema")
	})
	if err != nil {
		return err
	}
	schema.Report(m.stats)
	m.logSchema(schema)

	err = tripstar.Timed(m.stats, "stage.write", func() error {
		db, err := warehouse.Open(ctx, cfg)
		if err != nil {
			return errors.Wrap(err, "opening warehouse")
		}
		defer db.Close()
		w := warehouse.NewWriter(db,
			warehouse.OptWriterBatchSize(m.BatchSize),
			warehouse.OptWriterTruncate(m.Truncate),
			warehouse.OptWriterLogger(m.log),
			warehouse.OptWriterStatter(m.stats),
		)
		return w.WriteAll(ctx, schema)
	})
	if err != nil {
		return err
	}

	m.log.Printf("run %s complete: star schema written to %s in %v", runID, cfg.Driver, time.Since(start))
	return nil
}

func (m *Main) setupLogger() (func(), error) {
	out := m.stderr
	closer := func() {}
	if m.LogPath != "" {
		f, err := os.OpenFile(m.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return nil, errors.Wrap(err, "opening log file")
		}
		out = f
		closer = func() { f.Close() }
	}
	if m.Verbose {
		m.log = tripstar.NewVerboseLogger(out)
	} else {
		m.log = tripstar.NewStdLogger(out)
	}
	return closer, nil
}

// load reads both extracts concurrently.
func (m *Main) load(ctx context.Context, trips *[]tripstar.Trip, kiosks *[]tripstar.Kiosk) error {
	tripSrc, err := m.source(m.Trips)
	if err != nil {
		return errors.Wrap(err, "getting trip source")
	}
	kioskSrc, err := m.source(m.Kiosks)
	if err != nil {
		return errors.Wrap(err, "getting kiosk source")
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		*trips, err = csv.Read[tripstar.Trip](ctx, tripSrc)
		return errors.Wrap(err, "loading trips")
	})
	eg.Go(func() (err error) {
		*kiosks, err = csv.Read[tripstar.Kiosk](ctx, kioskSrc)
		return errors.Wrap(err, "loading kiosks")
	})
	return eg.Wait()
}

func (m *Main) source(name string) (*csv.Source, error) {
	var opener csv.OpenStringer = csv.URLOpener(name)
	if s3.IsURL(name) {
		obj, err := s3.NewObject(name, s3.OptObjRegion(m.S3Region), s3.OptObjEndpoint(m.S3Endpoint))
		if err != nil {
			return nil, err
		}
		opener = obj
	}
	return csv.NewSource(opener, csv.WithLogger(m.log), csv.WithStatter(m.stats)), nil
}

// sampleSize is the number of parsed trips shown with --verbose.
const sampleSize = 5

func (m *Main) logSchema(s *star.Schema) {
	st := s.Stats
	m.log.Printf("trips: %d read, %d without a valid checkout time, %d with a bad duration, %d in facts",
		st.Trips, st.Timeless, st.BadDuration, st.Joined)
	m.log.Printf("kiosks: %d read, %d with a bad location", st.Kiosks, st.BadLocation)
	m.log.Printf("rows: dim_time=%d dim_date=%d dim_location=%d dim_junk=%d fact_trips=%d",
		len(s.Time), len(s.Date), len(s.Location), len(s.Junk), len(s.Facts))

	for i := 0; i < len(s.Checkouts) && i < sampleSize; i++ {
		m.log.Debugf("sample trip %d: %s", i+1, formatCheckout(s.Checkouts[i]))
	}
}

func formatCheckout(c star.Checkout) string {
	if !c.Valid {
		return "checkout=null date=null hour=null minute=null weekday=null"
	}
	return fmt.Sprintf("checkout=%s date=%s hour=%d minute=%d weekday=%d",
		c.At.Format("2006-01-02 15:04:05"), c.At.Format("2006-01-02"), c.Hour, c.Minute, c.DayOfWeekNum)
}
